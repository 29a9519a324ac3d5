package orchestrator

import (
	"fmt"

	"github.com/abhisek/tutorly/internal/exercise"
)

// ErrUnknownWorkflow is returned for a workflow name outside Workflows().
type ErrUnknownWorkflow struct {
	Name string
}

func (e *ErrUnknownWorkflow) Error() string {
	return fmt.Sprintf("unknown workflow %q", e.Name)
}

// ErrUnknownAction is returned for a module/action pair with no handler.
type ErrUnknownAction struct {
	Module string
	Action string
}

func (e *ErrUnknownAction) Error() string {
	return fmt.Sprintf("unknown action %s/%s", e.Module, e.Action)
}

// ErrValidation reports a missing or malformed parameter.
type ErrValidation = exercise.ErrValidation

func invalid(field, reason string) error {
	return &ErrValidation{Field: field, Reason: reason}
}
