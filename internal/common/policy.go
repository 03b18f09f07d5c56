package common

import "fmt"

// FailurePolicy decides what a stage does when an external tool exits
// non-zero: copy the input through unchanged so later existence checks
// still hold, or abort the pipeline.
type FailurePolicy int

const (
	FailurePolicyCopy FailurePolicy = iota
	FailurePolicyAbort
)

func (p FailurePolicy) String() string {
	return [...]string{"copy", "abort"}[p]
}

func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "copy", "":
		return FailurePolicyCopy, nil
	case "abort":
		return FailurePolicyAbort, nil
	}

	return FailurePolicyCopy, fmt.Errorf("unknown tool failure policy: %s", s)
}
