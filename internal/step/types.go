// Package step models annotation steps and classifies their lifecycle state.
//
// A step is one unit of review work on a slide. Every step kind shares the same
// three-state lifecycle derived from its started and completed flags:
//
//	pending      started=false completed=false
//	in progress  started=true  completed=false
//	completed    completed=true (regardless of started)
//
// Key types:
//   - [AnnotationType] - closed set of step kinds served by the review server
//   - [WorklistEntry] - a step as listed on a user's worklist
//   - [AnnotationStep] - a step as returned by a detail fetch, with its slide evaluation
//   - [State] - the derived lifecycle state
package step

import (
	"errors"
	"fmt"
)

// ErrUnknownAnnotationType is returned when an annotation type tag is not one
// of the four known kinds.
var ErrUnknownAnnotationType = errors.New("unknown annotation type")

// AnnotationType is the server-side tag identifying the kind of a step.
type AnnotationType string

// Annotation types served by the review server.
const (
	AnnotationROIs             AnnotationType = "ROIS_ANNOTATION"
	AnnotationClinical         AnnotationType = "CLINICAL_ANNOTATION"
	AnnotationQuestionnaire    AnnotationType = "QUESTIONNAIRE"
	AnnotationPredictionReview AnnotationType = "PREDICTION_REVIEW"
)

// AnnotationTypes lists every known annotation type in pipeline order.
var AnnotationTypes = []AnnotationType{
	AnnotationROIs,
	AnnotationClinical,
	AnnotationQuestionnaire,
	AnnotationPredictionReview,
}

// IsValid reports whether t is one of the known annotation types.
func (t AnnotationType) IsValid() bool {
	switch t {
	case AnnotationROIs, AnnotationClinical, AnnotationQuestionnaire, AnnotationPredictionReview:
		return true
	}
	return false
}

// String returns the server tag.
func (t AnnotationType) String() string {
	return string(t)
}

// ParseAnnotationType converts a server tag into an [AnnotationType].
// Unknown tags return [ErrUnknownAnnotationType].
func ParseAnnotationType(s string) (AnnotationType, error) {
	t := AnnotationType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAnnotationType, s)
	}
	return t, nil
}

// UnmarshalText rejects unknown tags so that decoded steps always carry a
// known kind. Both encoding/json and yaml.v3 use it.
func (t *AnnotationType) UnmarshalText(text []byte) error {
	parsed, err := ParseAnnotationType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalText returns the server tag.
func (t AnnotationType) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

// State is the lifecycle state of a step.
type State int

// Lifecycle states.
const (
	StatePending State = iota
	StateInProgress
	StateCompleted
)

// String returns a lower-case label for the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateInProgress:
		return "in progress"
	case StateCompleted:
		return "completed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// StateOf classifies raw lifecycle flags. A completed flag always wins, so the
// unreachable started=false completed=true combination reads as completed.
func StateOf(started, completed bool) State {
	switch {
	case completed:
		return StateCompleted
	case started:
		return StateInProgress
	default:
		return StatePending
	}
}

// SlideRef identifies the slide and case bound to a step.
type SlideRef struct {
	SlideID string
	CaseID  string
}

// PredictionRef identifies the prediction under review together with its
// slide and case.
type PredictionRef struct {
	PredictionID string
	SlideID      string
	CaseID       string
}
