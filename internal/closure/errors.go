package closure

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/gridclosure/internal/model"
)

// ErrUnresolvedReference matches every *UnresolvedReferenceError via errors.Is.
var ErrUnresolvedReference = errors.New("unresolved reference")

// Reference kinds reported by UnresolvedReferenceError.
const (
	KindWorkflow   = "workflow"
	KindTask       = "task"
	KindLaunchPlan = "launch plan"
)

// UnresolvedReferenceError reports a reference in the input graph that does
// not name any entity of the universe. NodeID is empty when the reference does
// not come from a workflow node (for example a launch plan's workflow).
type UnresolvedReferenceError struct {
	NodeID    string
	Kind      string
	Reference model.Identifier
	Cause     error
}

// Error implements the error interface.
func (e *UnresolvedReferenceError) Error() string {
	msg := fmt.Sprintf("unresolved %s reference %q", e.Kind, e.Reference)
	if e.NodeID != "" {
		msg = fmt.Sprintf("node %q: %s", e.NodeID, msg)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Is lets errors.Is(err, ErrUnresolvedReference) match.
func (e *UnresolvedReferenceError) Is(target error) bool {
	return target == ErrUnresolvedReference
}

// Unwrap returns the resolution failure, if any.
func (e *UnresolvedReferenceError) Unwrap() error {
	return e.Cause
}
