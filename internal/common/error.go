package common

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedLanguagePair = fmt.Errorf("language pair is not supported")
	ErrUnknownDataset          = fmt.Errorf("unknown dataset")
	ErrCorpusFileNotFound      = fmt.Errorf("corpus file not found")
)

// ToolError reports a non-zero exit of an external toolkit script.
// Stages decide via FailurePolicy whether it aborts the run or degrades
// to a verbatim copy of the input.
type ToolError struct {
	Tool     string
	ExitCode int
	Stderr   string
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %s exited with code %d", e.Tool, e.ExitCode)
}

// AsToolError reports whether err wraps a ToolError.
func AsToolError(err error) (*ToolError, bool) {
	var te *ToolError
	if errors.As(err, &te) {
		return te, true
	}

	return nil, false
}
