package clean

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/corpustools/corpusprep/internal/common"
	"github.com/corpustools/corpusprep/internal/util"
)

const cleanMarker = "clean"

type Toolkit interface {
	CleanCorpus(ctx context.Context, src, tgt, srcLang, tgtLang string, minLen, maxLen int, outSrc, outTgt string) error
}

// Cleaner filters a parallel file pair by sentence-length bounds via
// the external toolkit. Output names carry a .clean segment before the
// language extension; both outputs existing short-circuits the stage.
//
// Known limitation, kept on purpose: when the tool fails under the
// copy policy the uncleaned pair lands at the clean paths, and a later
// run cannot tell "cleaned" from "fallback-copied". There is no
// sidecar marker.
type Cleaner struct {
	fs     afero.Fs
	tk     Toolkit
	policy common.FailurePolicy
	log    *slog.Logger
}

func New(tk Toolkit, policy common.FailurePolicy, log *slog.Logger) *Cleaner {
	return NewWithFS(afero.NewOsFs(), tk, policy, log)
}

func NewWithFS(fs afero.Fs, tk Toolkit, policy common.FailurePolicy, log *slog.Logger) *Cleaner {
	return &Cleaner{
		fs:     fs,
		tk:     tk,
		policy: policy,
		log:    log.With(slog.String("item", "Cleaner")),
	}
}

// Clean runs the length filter over (srcFile, tgtFile), which the
// caller guarantees are line-aligned, and returns the clean pair
// paths.
func (c *Cleaner) Clean(ctx context.Context, srcFile, tgtFile, srcLang, tgtLang string, minLen, maxLen int) (string, string, error) {
	outSrc := util.InsertMarker(srcFile, cleanMarker)
	outTgt := util.InsertMarker(tgtFile, cleanMarker)

	if util.Exists(c.fs, outSrc) && util.Exists(c.fs, outTgt) {
		c.log.Info("Clean corpus exists, skip", slog.String("src", outSrc), slog.String("tgt", outTgt))

		return outSrc, outTgt, nil
	}

	if err := c.tk.CleanCorpus(ctx, srcFile, tgtFile, srcLang, tgtLang, minLen, maxLen, outSrc, outTgt); err != nil {
		te, ok := common.AsToolError(err)
		if !ok || c.policy == common.FailurePolicyAbort {
			return "", "", fmt.Errorf("cannot clean %s/%s: %w", srcFile, tgtFile, err)
		}

		c.log.Warn("Cleaning tool failed, copying uncleaned pair through",
			slog.String("tool", te.Tool),
			slog.Int("exit_code", te.ExitCode),
			slog.String("src", srcFile),
			slog.String("tgt", tgtFile))

		if err := util.CopyFile(c.fs, srcFile, outSrc); err != nil {
			return "", "", fmt.Errorf("cannot copy fallback source: %w", err)
		}
		if err := util.CopyFile(c.fs, tgtFile, outTgt); err != nil {
			return "", "", fmt.Errorf("cannot copy fallback target: %w", err)
		}
	}

	return outSrc, outTgt, nil
}
