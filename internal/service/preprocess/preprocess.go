package preprocess

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/corpustools/corpusprep/internal/common"
	"github.com/corpustools/corpusprep/internal/util"
)

const (
	sgmSuffix      = ".sgm"
	tokMarker      = "tok"
	reservedPrefix = "."
)

type Toolkit interface {
	ConvertSGM(ctx context.Context, input, output string) error
	Tokenize(ctx context.Context, lang, input, output string) error
}

// Preprocessor normalizes a single corpus file: SGM transcripts are
// converted to plain text, then the result is optionally tokenized.
// Each sub-step derives a sibling path and is skipped outright when
// that sibling already exists; this existence check is the pipeline's
// cache.
type Preprocessor struct {
	fs       afero.Fs
	tk       Toolkit
	tokenize bool
	policy   common.FailurePolicy
	log      *slog.Logger
}

func New(tk Toolkit, tokenize bool, policy common.FailurePolicy, log *slog.Logger) *Preprocessor {
	return NewWithFS(afero.NewOsFs(), tk, tokenize, policy, log)
}

func NewWithFS(fs afero.Fs, tk Toolkit, tokenize bool, policy common.FailurePolicy, log *slog.Logger) *Preprocessor {
	return &Preprocessor{
		fs:       fs,
		tk:       tk,
		tokenize: tokenize,
		policy:   policy,
		log:      log.With(slog.String("item", "Preprocessor")),
	}
}

// Preprocess runs both sub-steps in order and returns the path of the
// final derived file. The input file is never modified; every stage
// output is a new sibling, so earlier outputs stay on disk as the
// resume anchor.
func (p *Preprocessor) Preprocess(ctx context.Context, path string) (string, error) {
	path, err := p.convertSGM(ctx, path)
	if err != nil {
		return "", err
	}

	return p.tokenizeFile(ctx, path)
}

func (p *Preprocessor) convertSGM(ctx context.Context, path string) (string, error) {
	if !strings.HasSuffix(path, sgmSuffix) {
		return path, nil
	}
	if strings.HasPrefix(filepath.Base(path), reservedPrefix) {
		return path, nil
	}

	target := strings.TrimSuffix(path, sgmSuffix)
	if util.Exists(p.fs, target) {
		return target, nil
	}

	if err := p.tk.ConvertSGM(ctx, path, target); err != nil {
		if err := p.absorbToolFailure(err, path, target); err != nil {
			return "", fmt.Errorf("cannot convert %s: %w", path, err)
		}
	}

	return target, nil
}

func (p *Preprocessor) tokenizeFile(ctx context.Context, path string) (string, error) {
	if !p.tokenize || util.HasMarker(path, tokMarker) {
		return path, nil
	}

	target := util.InsertMarker(path, tokMarker)
	if util.Exists(p.fs, target) {
		return target, nil
	}

	lang := strings.TrimPrefix(filepath.Ext(path), ".")
	if err := p.tk.Tokenize(ctx, lang, path, target); err != nil {
		if err := p.absorbToolFailure(err, path, target); err != nil {
			return "", fmt.Errorf("cannot tokenize %s: %w", path, err)
		}
	}

	return target, nil
}

// absorbToolFailure applies the failure policy to a tool error: under
// the copy policy the input is copied verbatim to target so downstream
// existence checks still hold. The quality loss is logged, not hidden.
func (p *Preprocessor) absorbToolFailure(err error, input, target string) error {
	te, ok := common.AsToolError(err)
	if !ok || p.policy == common.FailurePolicyAbort {
		return err
	}

	p.log.Warn("Tool failed, copying input through unprocessed",
		slog.String("tool", te.Tool),
		slog.Int("exit_code", te.ExitCode),
		slog.String("path", target))

	return util.CopyFile(p.fs, input, target)
}
