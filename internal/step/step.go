package step

import "errors"

// ErrNoSlideEvaluation is returned when quality control is queried on a step
// that has no slide evaluation recorded.
var ErrNoSlideEvaluation = errors.New("step has no slide evaluation")

// WorklistEntry is a step as listed on a user's worklist.
//
// CanBeStarted is only meaningful for clinical annotation steps; the server
// computes it from the state of the ROIs step the clinical step depends on.
type WorklistEntry struct {
	Label          string         `json:"label" yaml:"label"`
	AnnotationType AnnotationType `json:"annotation_type" yaml:"annotation_type"`
	Started        bool           `json:"started" yaml:"started"`
	Completed      bool           `json:"completed" yaml:"completed"`
	CanBeStarted   bool           `json:"can_be_started,omitempty" yaml:"can_be_started,omitempty"`
}

// State returns the lifecycle state derived from the entry's flags.
func (e WorklistEntry) State() State {
	return StateOf(e.Started, e.Completed)
}

// IsPending reports whether the step has been neither started nor completed.
func (e WorklistEntry) IsPending() bool {
	return !e.Started && !e.Completed
}

// IsInProgress reports whether the step has been started but not completed.
func (e WorklistEntry) IsInProgress() bool {
	return e.Started && !e.Completed
}

// IsCompleted reports whether the step has been completed.
func (e WorklistEntry) IsCompleted() bool {
	return e.Completed
}

// SlideEvaluation is the quality-control record attached to ROIs and clinical
// steps.
type SlideEvaluation struct {
	AdequateSlide bool    `json:"adequate_slide" yaml:"adequate_slide"`
	Notes         *string `json:"notes" yaml:"notes,omitempty"`
}

// AnnotationStep is a step as returned by a detail fetch.
//
// Snapshots are read-only: state changes go through the server and a fresh
// snapshot is fetched afterwards.
type AnnotationStep struct {
	WorklistEntry `yaml:",inline"`

	SlideEvaluation     *SlideEvaluation `json:"slide_evaluation" yaml:"slide_evaluation,omitempty"`
	Notes               *string          `json:"notes" yaml:"notes,omitempty"`
	CanReopenROIsStep   bool             `json:"can_reopen_rois_step,omitempty" yaml:"can_reopen_rois_step,omitempty"`
	ROIsReviewStepLabel *string          `json:"rois_review_step_label" yaml:"rois_review_step_label,omitempty"`
}

// HasSlideEvaluation reports whether a slide evaluation is recorded.
func (s AnnotationStep) HasSlideEvaluation() bool {
	return s.SlideEvaluation != nil
}

// QualityControlPassed reports whether the slide was judged adequate.
// It returns [ErrNoSlideEvaluation] when no evaluation is recorded.
func (s AnnotationStep) QualityControlPassed() (bool, error) {
	if s.SlideEvaluation == nil {
		return false, ErrNoSlideEvaluation
	}
	return s.SlideEvaluation.AdequateSlide, nil
}

// EvaluationNotesExist reports whether the slide evaluation carries notes.
// A step without an evaluation has no notes.
func (s AnnotationStep) EvaluationNotesExist() bool {
	if s.SlideEvaluation == nil {
		return false
	}
	return s.SlideEvaluation.Notes != nil
}

// StepNotesExist reports whether the step itself carries notes.
func (s AnnotationStep) StepNotesExist() bool {
	return s.Notes != nil
}

// HasStepInProgress reports whether any entry on the worklist is in progress.
func HasStepInProgress(entries []WorklistEntry) bool {
	for _, e := range entries {
		if e.IsInProgress() {
			return true
		}
	}
	return false
}

// FillAnnotationType sets t on every step that carries no annotation type.
// Step detail payloads usually omit the tag since the endpoint already names
// the kind.
func FillAnnotationType(steps []AnnotationStep, t AnnotationType) []AnnotationStep {
	for i := range steps {
		if steps[i].AnnotationType == "" {
			steps[i].AnnotationType = t
		}
	}
	return steps
}
