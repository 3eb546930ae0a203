package copier

import (
	"fmt"

	"github.com/google/uuid"
)

// OutputWasNoteCopied is the workflow output carrying Outcome.WasCopied.
const OutputWasNoteCopied = "WasNoteCopied"

// Outcome is the result of a successful invocation. A skipped copy is a
// success with WasCopied false.
type Outcome struct {
	WasCopied bool
	NewNoteID uuid.UUID
	Target    ResolvedTarget
}

// Outputs returns the named workflow outputs.
func (o Outcome) Outputs() map[string]any {
	return map[string]any{OutputWasNoteCopied: o.WasCopied}
}

// StepError reports the state an invocation failed in.
type StepError struct {
	State State
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("copy note failed after %s: %v", e.State, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
