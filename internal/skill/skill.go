// Package skill defines the Skill abstraction and the registry that
// dispatches routed intents to skill handlers. A [Skill] declares which
// intents it handles and produces a [Result] for each invocation; the
// [Registry] isolates skill failures so a buggy handler can never take the
// voice loop down.
package skill

import (
	"context"
	"fmt"

	"github.com/clarionvoice/clarion/internal/intent"
)

// Skill is one capability of the assistant. Implementations must be safe for
// repeated invocation; per-call state belongs in [Context].
type Skill interface {
	// Name is the unique skill identifier, e.g. "open_app".
	Name() string
	// Intents lists the intent names this skill handles.
	Intents() []string
	// Description is a one-line human summary shown by skill listings.
	Description() string
	// Help returns usage guidance with example utterances.
	Help() string
	// ValidateEntities reports whether entities are sufficient to handle
	// intentName. A non-nil error rejects the invocation before Handle runs.
	ValidateEntities(intentName string, entities intent.Entities) error
	// Handle performs the skill action. A returned error means the skill
	// itself failed; expected negative outcomes (app not found, volume
	// backend unavailable) are reported as a Result with Success false.
	Handle(ctx context.Context, intentName string, entities intent.Entities, sc *Context) (*Result, error)
}

// Context carries per-invocation ambient state into a skill handler.
type Context struct {
	// UserInput is the raw utterance that produced this invocation.
	UserInput string
	// Mock disables real side effects; skills simulate and report what they
	// would have done.
	Mock bool
	// Config holds skill-facing configuration values. May be nil.
	Config map[string]any
	// Session holds free-form state shared across invocations within one
	// voice loop run. May be nil.
	Session map[string]any
}

// Result is the outcome of one skill invocation.
type Result struct {
	// Success reports whether the requested action was carried out.
	Success bool
	// Message is the human-readable outcome, suitable for speaking aloud.
	Message string
	// Data carries structured outcome details. Never nil after a registry
	// dispatch.
	Data map[string]any
	// Speak indicates the message should be sent to the TTS provider.
	Speak bool
}

// Ok returns a successful spoken [Result].
func Ok(message string, data map[string]any) *Result {
	if data == nil {
		data = map[string]any{}
	}
	return &Result{Success: true, Message: message, Data: data, Speak: true}
}

// Fail returns an unsuccessful spoken [Result]. The failure is an expected
// outcome, not a skill error.
func Fail(message string, data map[string]any) *Result {
	if data == nil {
		data = map[string]any{}
	}
	return &Result{Success: false, Message: message, Data: data, Speak: true}
}

// ExecutionError wraps a failure (returned error or recovered panic) raised
// inside a skill handler.
type ExecutionError struct {
	Skill  string
	Intent string
	Cause  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("skill: %s handling %q: %v", e.Skill, e.Intent, e.Cause)
}

func (e *ExecutionError) Unwrap() error { return e.Cause }
