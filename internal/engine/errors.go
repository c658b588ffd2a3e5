package engine

import (
	"errors"
	"fmt"
)

// ErrNoAsset means the asset slot for a role is empty: there is nothing to
// attach. Kept distinct from AttachError (the host page refusing a
// programmatic file assignment) even though both end in the same
// manual-action instruction to the human.
var ErrNoAsset = errors.New("no stored asset for role")

// AttachError is a host-rejected file mutation: the page environment refused
// the programmatic assignment. The asset name is carried so the instruction
// to the human can say exactly which file to upload by hand.
type AttachError struct {
	AssetName string
	Cause     error
}

func (e *AttachError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("attach error: %s: %v", e.AssetName, e.Cause)
	}
	return fmt.Sprintf("attach error: %s", e.AssetName)
}

func (e *AttachError) Unwrap() error {
	return e.Cause
}

// PageError wraps a transport-level page failure (browser gone, evaluation
// failed). Per-field occurrences are contained inside the running pass and
// never abort it.
type PageError struct {
	Op    string
	Cause error
}

func (e *PageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("page error during %s: %v", e.Op, e.Cause)
	}
	return fmt.Sprintf("page error during %s", e.Op)
}

func (e *PageError) Unwrap() error {
	return e.Cause
}
