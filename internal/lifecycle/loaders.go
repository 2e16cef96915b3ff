package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"promortctl/internal/gate"
	"promortctl/internal/router"
	"promortctl/internal/step"
)

// EntryView is a worklist entry with everything the worklist screen shows for it.
type EntryView struct {
	Entry    step.WorklistEntry
	Kind     router.Kind
	CanStart gate.Eligibility
	Target   string
}

// LoadWorklist fetches the user's worklist.
func (o *Orchestrator) LoadWorklist(ctx context.Context) ([]step.WorklistEntry, error) {
	entries, err := o.backend.FetchWorklist(ctx)
	if err != nil {
		o.logger.Error().Err(err).Msg("cannot load worklist")
		return nil, fmt.Errorf("load worklist: %w", err)
	}
	return entries, nil
}

// Describe classifies worklist entries for display. Entries of an unknown
// kind are rejected at decode time, so an error here means a router without
// a target for a known kind.
func (o *Orchestrator) Describe(entries []step.WorklistEntry) ([]EntryView, error) {
	views := make([]EntryView, 0, len(entries))
	for _, e := range entries {
		kind, err := o.router.Classify(e.AnnotationType)
		if err != nil {
			return nil, err
		}
		target, err := o.router.NavigationTarget(e)
		if err != nil {
			return nil, err
		}
		views = append(views, EntryView{
			Entry:    e,
			Kind:     kind,
			CanStart: gate.CanStartClinical(e),
			Target:   target,
		})
	}
	return views, nil
}

// LoadROIsSteps fetches the steps of a ROIs annotation. A failed fetch routes
// to the not-found screen and returns an error matching [ErrNotFound].
func (o *Orchestrator) LoadROIsSteps(ctx context.Context, label string) ([]step.AnnotationStep, error) {
	steps, err := o.backend.FetchROIsSteps(ctx, label)
	if err != nil {
		return nil, o.loadFailed(ctx, "rois annotation", label, err)
	}
	return steps, nil
}

// LoadClinicalSteps fetches the steps of a clinical annotation. A failed fetch
// routes to the not-found screen and returns an error matching [ErrNotFound].
func (o *Orchestrator) LoadClinicalSteps(ctx context.Context, label string) ([]step.AnnotationStep, error) {
	steps, err := o.backend.FetchClinicalSteps(ctx, label)
	if err != nil {
		return nil, o.loadFailed(ctx, "clinical annotation", label, err)
	}
	return steps, nil
}

func (o *Orchestrator) loadFailed(ctx context.Context, what, label string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	o.logger.Debug().Err(err).Str("label", label).Msgf("cannot load %s", what)
	o.progress(StageNavigate, router.NotFoundPath)
	o.navigator.Navigate(router.NotFoundPath)
	if !errors.Is(err, ErrNotFound) {
		err = fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return fmt.Errorf("load %s %s: %w", what, label, err)
}

// FindStep returns the step with the given label.
func FindStep(steps []step.AnnotationStep, label string) (step.AnnotationStep, error) {
	for _, s := range steps {
		if s.Label == label {
			return s, nil
		}
	}
	return step.AnnotationStep{}, fmt.Errorf("step %s: %w", label, ErrNotFound)
}
