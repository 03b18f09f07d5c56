// Package toolkit shells out to the external text-normalization
// scripts (SGM conversion, tokenization, length-based cleaning). The
// scripts are black boxes taking file paths and a language
// abbreviation; exit code 0 means success, anything else becomes a
// common.ToolError for the calling stage's failure policy.
package toolkit

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/corpustools/corpusprep/internal/common"
	"github.com/corpustools/corpusprep/internal/config"
)

type Toolkit struct {
	cfg *config.ToolkitConfig
	log *slog.Logger
}

func New(cfg *config.ToolkitConfig, log *slog.Logger) *Toolkit {
	return &Toolkit{
		cfg: cfg,
		log: log.With(slog.String("item", "Toolkit")),
	}
}

func (t *Toolkit) ConvertSGM(ctx context.Context, input, output string) error {
	return t.run(ctx, t.cfg.SGMConverter, input, output)
}

func (t *Toolkit) Tokenize(ctx context.Context, lang, input, output string) error {
	return t.run(ctx, t.cfg.Tokenizer, input, output, lang)
}

func (t *Toolkit) CleanCorpus(ctx context.Context, src, tgt, srcLang, tgtLang string, minLen, maxLen int, outSrc, outTgt string) error {
	return t.run(ctx, t.cfg.Cleaner,
		src, tgt, srcLang, tgtLang,
		strconv.Itoa(minLen), strconv.Itoa(maxLen),
		outSrc, outTgt)
}

func (t *Toolkit) run(ctx context.Context, tool string, args ...string) error {
	if tool == "" {
		return &common.ToolError{Tool: "(unconfigured)", ExitCode: -1}
	}

	t.log.Info("Run tool", slog.String("tool", tool), slog.Any("args", args))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &common.ToolError{
				Tool:     tool,
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderr.String(),
			}
		}

		return fmt.Errorf("cannot run tool %s: %w", tool, err)
	}

	return nil
}
