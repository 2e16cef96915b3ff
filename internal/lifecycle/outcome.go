package lifecycle

import (
	"fmt"

	"promortctl/internal/session"
)

// OutcomeKind classifies how an action ended.
type OutcomeKind int

// Action outcomes.
const (
	// Navigated: the action moved the user to Outcome.Target.
	Navigated OutcomeKind = iota

	// NotFound: a detail lookup failed and the user was sent to the not-found screen.
	NotFound

	// Ineligible: the server refused to start the step; the user was sent back
	// to a refreshed worklist.
	Ineligible

	// NotPermitted: the step may not be reopened; nothing was called.
	NotPermitted

	// Declined: the user did not confirm; nothing was called.
	Declined
)

// String returns a lower-case label for the kind.
func (k OutcomeKind) String() string {
	switch k {
	case Navigated:
		return "navigated"
	case NotFound:
		return "not found"
	case Ineligible:
		return "ineligible"
	case NotPermitted:
		return "not permitted"
	case Declined:
		return "declined"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Outcome is what an action hands back to the presentation layer.
type Outcome struct {
	Kind OutcomeKind

	// Target is the path navigated to, if any.
	Target string

	// Selection is the selection committed to the WorkflowContext, if any.
	Selection session.Selection

	// Resumed is set when a start attempt found the step already open and
	// continued it.
	Resumed bool

	// Cause is the collaborator error behind NotFound and Ineligible.
	Cause error
}
