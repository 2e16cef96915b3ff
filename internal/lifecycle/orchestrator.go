// Package lifecycle drives user actions on annotation steps.
//
// The [Orchestrator] is the only component that talks to the review server and
// the only writer of the WorkflowContext. Each action runs its collaborator calls
// strictly in sequence, since every result feeds the next call, and ends in an
// [Outcome] the presentation layer renders.
//
// Step lifecycle as seen from here:
//
//	Pending --start--> InProgress --(completed in the detail screen)--> Completed
//	Completed --reset (if the server allows reopening)--> InProgress
//
// Key concepts:
//   - Collaborators are injected as interfaces ([Backend], [Dialogs], [Navigator])
//   - A start rejected with [ErrConflict] continues the open step
//   - A start rejected with [ErrForbidden] returns the user to a refreshed worklist
//   - Progress can be tracked via [ProgressCallback]
package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"promortctl/internal/gate"
	"promortctl/internal/router"
	"promortctl/internal/session"
	"promortctl/internal/step"
)

// Errors returned by orchestrator actions.
var (
	// ErrWrongKind is returned when an action is invoked on a step of a kind it
	// does not apply to.
	ErrWrongKind = errors.New("action does not apply to this step kind")

	// ErrLinkageLookup is returned when the ROIs step linked to a clinical step
	// cannot be resolved. No navigation happens.
	ErrLinkageLookup = errors.New("cannot resolve linked ROIs step")

	// ErrResetFailed is returned when the server rejects a reset. The step is
	// left unchanged.
	ErrResetFailed = errors.New("reopen step failed")

	// ErrPredictionLookup is returned when the prediction under review cannot
	// be resolved.
	ErrPredictionLookup = errors.New("cannot resolve prediction for review step")
)

// Stage names a collaborator call inside an action.
type Stage string

// Action stages, reported through [ProgressCallback] before they run.
const (
	StageLookupLinkedROIs Stage = "lookup-linked-rois"
	StageLookupSlide      Stage = "lookup-slide"
	StageStartStep        Stage = "start-step"
	StageConfirm          Stage = "confirm"
	StageResetStep        Stage = "reset-step"
	StageLookupPrediction Stage = "lookup-prediction"
	StageNavigate         Stage = "navigate"
)

// ProgressCallback is invoked before each stage of an action with the label
// the stage works on.
type ProgressCallback func(stage Stage, label string)

// StartOption configures [Orchestrator.StartAnnotation].
type StartOption func(*startConfig)

type startConfig struct {
	skipQualityControl bool
}

// WithSkipQualityControl routes a started ROIs step straight to the ROIs
// manager. Reopened steps use it since their slide already passed quality control.
func WithSkipQualityControl() StartOption {
	return func(c *startConfig) {
		c.skipQualityControl = true
	}
}

// Orchestrator sequences actions on annotation steps.
//
// Create with [NewOrchestrator]. Logging is disabled until [SetLogger] is called.
type Orchestrator struct {
	backend          Backend
	dialogs          Dialogs
	navigator        Navigator
	context          *session.WorkflowContext
	router           *router.Router
	logger           zerolog.Logger
	progressCallback ProgressCallback
	newActionID      func() string
}

// NewOrchestrator creates an Orchestrator over the given collaborators. wc is
// the WorkflowContext shared with the destination screens.
func NewOrchestrator(backend Backend, dialogs Dialogs, navigator Navigator, wc *session.WorkflowContext) *Orchestrator {
	return &Orchestrator{
		backend:     backend,
		dialogs:     dialogs,
		navigator:   navigator,
		context:     wc,
		router:      router.NewRouter(),
		logger:      zerolog.Nop(),
		newActionID: func() string { return ulid.Make().String() },
	}
}

// SetLogger configures the logger used for action diagnostics.
func (o *Orchestrator) SetLogger(logger zerolog.Logger) {
	o.logger = logger
}

// SetProgressCallback configures an optional callback invoked before each stage.
func (o *Orchestrator) SetProgressCallback(cb ProgressCallback) {
	o.progressCallback = cb
}

func (o *Orchestrator) progress(stage Stage, label string) {
	if o.progressCallback != nil {
		o.progressCallback(stage, label)
	}
}

func (o *Orchestrator) actionLogger(action, label string) zerolog.Logger {
	return o.logger.With().
		Str("action_id", o.newActionID()).
		Str("action", action).
		Str("label", label).
		Logger()
}

// navigate commits sel and moves to target.
func (o *Orchestrator) navigate(sel session.Selection, target string, resumed bool) Outcome {
	o.context.Commit(sel)
	o.progress(StageNavigate, target)
	o.navigator.Navigate(target)
	return Outcome{Kind: Navigated, Target: target, Selection: sel, Resumed: resumed}
}

func (o *Orchestrator) notFound(cause error) Outcome {
	o.progress(StageNavigate, router.NotFoundPath)
	o.navigator.Navigate(router.NotFoundPath)
	return Outcome{Kind: NotFound, Target: router.NotFoundPath, Cause: cause}
}

// StartAnnotation opens a ROIs annotation step: it resolves the step's slide,
// registers it, and moves to quality control, or to the ROIs manager when
// [WithSkipQualityControl] is given.
//
// A failed slide lookup routes to the not-found screen.
func (o *Orchestrator) StartAnnotation(ctx context.Context, s step.AnnotationStep, opts ...StartOption) (Outcome, error) {
	if s.AnnotationType != step.AnnotationROIs {
		return Outcome{}, fmt.Errorf("start annotation on %s step %s: %w", s.AnnotationType, s.Label, ErrWrongKind)
	}

	var cfg startConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	log := o.actionLogger("start_annotation", s.Label)

	o.progress(StageLookupSlide, s.Label)
	ref, err := o.backend.LookupSlideForStep(ctx, s.Label, step.AnnotationROIs)
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{}, ctx.Err()
		}
		log.Debug().Err(err).Msg("slide lookup failed")
		return o.notFound(err), nil
	}

	sel := session.Selection{
		ROIsStepLabel: s.Label,
		SlideID:       ref.SlideID,
		CaseID:        ref.CaseID,
	}

	target := router.QualityControlPath(s.Label)
	if cfg.skipQualityControl {
		target = router.ROIsManagerPath(s.Label)
	}

	return o.navigate(sel, target, false), nil
}

// StartAnnotationStep opens a clinical annotation step. See
// [Orchestrator.ContinueAnnotationStep]; the two are the same operation.
func (o *Orchestrator) StartAnnotationStep(ctx context.Context, s step.AnnotationStep) (Outcome, error) {
	return o.goToAnnotationStep(ctx, s, "start_annotation_step")
}

// ContinueAnnotationStep reopens the screen of a clinical annotation step that
// is already in progress.
func (o *Orchestrator) ContinueAnnotationStep(ctx context.Context, s step.AnnotationStep) (Outcome, error) {
	return o.goToAnnotationStep(ctx, s, "continue_annotation_step")
}

// goToAnnotationStep resolves the linked ROIs step, then the slide, then asks
// the server to start the clinical step, then navigates. Each call depends on
// the previous one succeeding.
func (o *Orchestrator) goToAnnotationStep(ctx context.Context, s step.AnnotationStep, action string) (Outcome, error) {
	if !gate.CanStartClinical(s.WorklistEntry).Applicable() {
		return Outcome{}, fmt.Errorf("%s on %s step %s: %w", action, s.AnnotationType, s.Label, ErrWrongKind)
	}

	log := o.actionLogger(action, s.Label)

	o.progress(StageLookupLinkedROIs, s.Label)
	roisLabel, err := o.backend.LookupLinkedROIsLabel(ctx, s.Label)
	if err != nil {
		log.Error().Err(err).Msg("cannot load slide info")
		return Outcome{}, fmt.Errorf("%w for %s: %w", ErrLinkageLookup, s.Label, err)
	}

	sel := session.Selection{
		ROIsStepLabel:     roisLabel,
		ClinicalStepLabel: s.Label,
	}

	o.progress(StageLookupSlide, s.Label)
	ref, err := o.backend.LookupSlideForStep(ctx, s.Label, step.AnnotationClinical)
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{}, ctx.Err()
		}
		log.Debug().Err(err).Msg("slide lookup failed")
		return o.notFound(err), nil
	}
	sel.SlideID = ref.SlideID
	sel.CaseID = ref.CaseID

	target := router.AnnotationsManagerPath(s.Label)

	o.progress(StageStartStep, s.Label)
	err = o.backend.StartClinicalStep(ctx, s.Label)
	switch {
	case err == nil:
		return o.navigate(sel, target, false), nil

	case errors.Is(err, ErrConflict):
		log.Debug().Msg("step already open, continuing")
		return o.navigate(sel, target, true), nil

	case errors.Is(err, ErrForbidden):
		log.Info().Msg("step cannot be started yet")
		if ackErr := o.dialogs.Acknowledge(ctx, PromptClinicalStepCantStart); ackErr != nil {
			log.Warn().Err(ackErr).Msg("dialog dismissed with error")
		}
		o.progress(StageNavigate, router.WorklistPath)
		o.navigator.Navigate(router.WorklistPath)
		o.navigator.ReloadCurrentView()
		return Outcome{Kind: Ineligible, Target: router.WorklistPath, Cause: err}, nil

	default:
		log.Error().Err(err).Msg("start step failed")
		return Outcome{}, fmt.Errorf("start step %s: %w", s.Label, err)
	}
}

// ResetAnnotationStep reopens a completed ROIs step, after confirmation and
// only if the server allows it.
//
// For a ROIs step the step itself is reset and then restarted past quality
// control. For a clinical step the linked ROIs step is reset and the user is
// moved to that ROIs annotation's screen.
func (o *Orchestrator) ResetAnnotationStep(ctx context.Context, s step.AnnotationStep) (Outcome, error) {
	switch s.AnnotationType {
	case step.AnnotationROIs:
		return o.resetROIsStep(ctx, s)
	case step.AnnotationClinical:
		return o.reopenLinkedROIsStep(ctx, s)
	}
	return Outcome{}, fmt.Errorf("reset %s step %s: %w", s.AnnotationType, s.Label, ErrWrongKind)
}

func (o *Orchestrator) resetROIsStep(ctx context.Context, s step.AnnotationStep) (Outcome, error) {
	if !gate.CanReopenROIs(s).Allowed() {
		return Outcome{Kind: NotPermitted}, nil
	}

	log := o.actionLogger("reset_rois_step", s.Label)

	confirmed, err := o.confirm(ctx, PromptRestartROIsStep, s.Label)
	if err != nil {
		return Outcome{}, err
	}
	if !confirmed {
		return Outcome{Kind: Declined}, nil
	}

	o.progress(StageResetStep, s.Label)
	if err := o.backend.ResetROIsStep(ctx, s.Label); err != nil {
		log.Error().Err(err).Msg("reopen step failed")
		return Outcome{}, fmt.Errorf("%w: %s: %w", ErrResetFailed, s.Label, err)
	}

	return o.StartAnnotation(ctx, s, WithSkipQualityControl())
}

func (o *Orchestrator) reopenLinkedROIsStep(ctx context.Context, s step.AnnotationStep) (Outcome, error) {
	if !gate.CanReopenROIs(s).Allowed() {
		return Outcome{Kind: NotPermitted}, nil
	}

	roisAnnotation, err := gate.LinkedROIsLabel(s)
	if err != nil {
		return Outcome{}, fmt.Errorf("reopen ROIs step of %s: %w", s.Label, err)
	}
	roisStepLabel := *s.ROIsReviewStepLabel

	log := o.actionLogger("reopen_linked_rois_step", s.Label)
	log.Debug().Str("rois_step", roisStepLabel).Msg("reset ROIs annotation step")

	confirmed, err := o.confirm(ctx, PromptReopenROIsStep, roisStepLabel)
	if err != nil {
		return Outcome{}, err
	}
	if !confirmed {
		return Outcome{Kind: Declined}, nil
	}

	o.progress(StageResetStep, roisStepLabel)
	if err := o.backend.ResetROIsStep(ctx, roisStepLabel); err != nil {
		log.Error().Err(err).Msg("reopen step failed")
		return Outcome{}, fmt.Errorf("%w: %s: %w", ErrResetFailed, roisStepLabel, err)
	}

	target := router.ROIsAnnotationPath(roisAnnotation)
	o.progress(StageNavigate, target)
	o.navigator.Navigate(target)
	return Outcome{Kind: Navigated, Target: target}, nil
}

func (o *Orchestrator) confirm(ctx context.Context, p Prompt, label string) (bool, error) {
	o.progress(StageConfirm, label)
	confirmed, err := o.dialogs.Confirm(ctx, p)
	if err != nil {
		return false, fmt.Errorf("confirm %s: %w", p, err)
	}
	return confirmed, nil
}

// StartPredictionReview resolves the prediction behind a review step,
// registers it, and moves to the prediction review screen.
func (o *Orchestrator) StartPredictionReview(ctx context.Context, e step.WorklistEntry) (Outcome, error) {
	if e.AnnotationType != step.AnnotationPredictionReview {
		return Outcome{}, fmt.Errorf("start prediction review on %s step %s: %w", e.AnnotationType, e.Label, ErrWrongKind)
	}

	log := o.actionLogger("start_prediction_review", e.Label)

	o.progress(StageLookupPrediction, e.Label)
	ref, err := o.backend.LookupPredictionForReviewStep(ctx, e.Label)
	if err != nil {
		log.Error().Err(err).Msg("error when starting prediction review")
		return Outcome{}, fmt.Errorf("%w %s: %w", ErrPredictionLookup, e.Label, err)
	}

	target, err := o.router.NavigationTarget(e)
	if err != nil {
		return Outcome{}, err
	}

	sel := session.Selection{
		PredictionID: ref.PredictionID,
		SlideID:      ref.SlideID,
		CaseID:       ref.CaseID,
	}
	return o.navigate(sel, target, false), nil
}
