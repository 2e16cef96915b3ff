package lifecycle

import (
	"context"
	"errors"

	"promortctl/internal/step"
)

// Errors collaborators return so the orchestrator can branch on them. The
// review server signals them with HTTP 404, 403, and 409.
var (
	// ErrNotFound indicates an unknown or invalid label.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the step's eligibility preconditions are not met.
	ErrForbidden = errors.New("step cannot be started")

	// ErrConflict indicates the step is already open by the same user.
	ErrConflict = errors.New("step already started")
)

// WorklistService fetches the current user's worklist.
type WorklistService interface {
	FetchWorklist(ctx context.Context) ([]step.WorklistEntry, error)
}

// StepService fetches step details and changes step state on the review server.
//
// StartClinicalStep returns [ErrForbidden] when the step is not yet eligible
// and [ErrConflict] when it is already open.
type StepService interface {
	FetchROIsSteps(ctx context.Context, label string) ([]step.AnnotationStep, error)
	FetchClinicalSteps(ctx context.Context, label string) ([]step.AnnotationStep, error)
	StartClinicalStep(ctx context.Context, label string) error
	ResetROIsStep(ctx context.Context, label string) error
}

// Locator resolves the records bound to a step.
type Locator interface {
	// LookupSlideForStep returns the slide and case a step annotates.
	LookupSlideForStep(ctx context.Context, label string, annotationType step.AnnotationType) (step.SlideRef, error)

	// LookupLinkedROIsLabel returns the label of the ROIs review step a
	// clinical step depends on.
	LookupLinkedROIsLabel(ctx context.Context, clinicalLabel string) (string, error)

	// LookupPredictionForReviewStep returns the prediction a review step covers.
	LookupPredictionForReviewStep(ctx context.Context, label string) (step.PredictionRef, error)
}

// Backend is the full set of review-server capabilities the orchestrator uses.
// Both the HTTP client and the local store implement it.
type Backend interface {
	WorklistService
	StepService
	Locator
}

// Prompt identifies a dialog shown to the user.
type Prompt string

// Dialogs used by the orchestrator.
const (
	PromptRestartROIsStep       Prompt = "restart_rois_step_confirm"
	PromptReopenROIsStep        Prompt = "reopen_rois_step_confirm"
	PromptClinicalStepCantStart Prompt = "clinical_step_cant_start"
)

// Dialogs presents blocking dialogs.
type Dialogs interface {
	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, p Prompt) (bool, error)

	// Acknowledge shows a message and returns once the user dismisses it.
	Acknowledge(ctx context.Context, p Prompt) error
}

// Navigator applies navigation effects on the presentation layer.
type Navigator interface {
	Navigate(path string)
	ReloadCurrentView()
}
