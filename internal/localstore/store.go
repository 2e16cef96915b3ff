package localstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"promortctl/internal/lifecycle"
	"promortctl/internal/step"
)

var _ lifecycle.Backend = (*Store)(nil)

// Store reads and updates a fixture file. It is safe for concurrent use
// within one process.
type Store struct {
	mu   sync.Mutex
	fs   afero.Fs
	path string
}

// New creates a Store over the fixture at path on fsys.
func New(fsys afero.Fs, path string) *Store {
	return &Store{fs: fsys, path: path}
}

// Path returns the fixture path.
func (s *Store) Path() string {
	return s.path
}

// Read loads and parses the fixture.
func (s *Store) Read() (*Fixture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *Store) read() (*Fixture, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	return &f, nil
}

// write replaces the fixture atomically (write to temp, then rename).
func (s *Store) write(f *Fixture) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal fixture: %w", err)
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to write fixture: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write fixture: %w", err)
	}

	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		_ = s.fs.Remove(tmpPath)
		return fmt.Errorf("failed to write fixture: %w", err)
	}
	return nil
}

// update applies fn to the fixture and writes it back if fn succeeds.
func (s *Store) update(fn func(*Fixture) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		return err
	}
	return s.write(f)
}

// Save writes a whole fixture, replacing any existing file.
func (s *Store) Save(f *Fixture) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(f)
}

// FetchWorklist returns the fixture's worklist.
func (s *Store) FetchWorklist(ctx context.Context) ([]step.WorklistEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.Read()
	if err != nil {
		return nil, err
	}
	return f.Worklist, nil
}

// FetchROIsSteps returns the steps of a ROIs annotation.
func (s *Store) FetchROIsSteps(ctx context.Context, label string) ([]step.AnnotationStep, error) {
	return s.fetchSteps(ctx, label, step.AnnotationROIs, "rois annotation", func(f *Fixture) map[string][]StepRecord {
		return f.ROIsAnnotations
	})
}

// FetchClinicalSteps returns the steps of a clinical annotation.
func (s *Store) FetchClinicalSteps(ctx context.Context, label string) ([]step.AnnotationStep, error) {
	return s.fetchSteps(ctx, label, step.AnnotationClinical, "clinical annotation", func(f *Fixture) map[string][]StepRecord {
		return f.ClinicalAnnotations
	})
}

func (s *Store) fetchSteps(ctx context.Context, label string, kind step.AnnotationType, what string, groups func(*Fixture) map[string][]StepRecord) ([]step.AnnotationStep, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := s.Read()
	if err != nil {
		return nil, err
	}
	records, ok := groups(f)[label]
	if !ok {
		return nil, fmt.Errorf("%s %s: %w", what, label, lifecycle.ErrNotFound)
	}
	return step.FillAnnotationType(Steps(records), kind), nil
}

// StartClinicalStep marks a clinical step started. A step already started or
// completed is a conflict; a step whose ROIs step is not finished is forbidden.
func (s *Store) StartClinicalStep(ctx context.Context, label string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.update(func(f *Fixture) error {
		rec, parent := findStep(f.ClinicalAnnotations, label)
		if rec == nil {
			return fmt.Errorf("clinical step %s: %w", label, lifecycle.ErrNotFound)
		}
		if rec.Started || rec.Completed {
			return fmt.Errorf("clinical step %s: %w", label, lifecycle.ErrConflict)
		}
		if !rec.CanBeStarted {
			return fmt.Errorf("clinical step %s: %w", label, lifecycle.ErrForbidden)
		}

		rec.Started = true
		if e := f.worklistEntry(parent); e != nil {
			e.Started = true
		}
		return nil
	})
}

// ResetROIsStep reopens a completed ROIs step. The step and its worklist item
// go back to in progress.
func (s *Store) ResetROIsStep(ctx context.Context, label string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.update(func(f *Fixture) error {
		rec, parent := findStep(f.ROIsAnnotations, label)
		if rec == nil {
			return fmt.Errorf("rois step %s: %w", label, lifecycle.ErrNotFound)
		}
		if !rec.Completed {
			return fmt.Errorf("rois step %s is not completed: %w", label, lifecycle.ErrConflict)
		}

		rec.Started = true
		rec.Completed = false
		if e := f.worklistEntry(parent); e != nil {
			e.Started = true
			e.Completed = false
		}
		return nil
	})
}

// LookupSlideForStep returns the slide and case bound to a ROIs or clinical step.
func (s *Store) LookupSlideForStep(ctx context.Context, label string, annotationType step.AnnotationType) (step.SlideRef, error) {
	if err := ctx.Err(); err != nil {
		return step.SlideRef{}, err
	}
	f, err := s.Read()
	if err != nil {
		return step.SlideRef{}, err
	}

	var groups map[string][]StepRecord
	switch annotationType {
	case step.AnnotationROIs:
		groups = f.ROIsAnnotations
	case step.AnnotationClinical:
		groups = f.ClinicalAnnotations
	default:
		return step.SlideRef{}, fmt.Errorf("no slide for %s step %s: %w", annotationType, label, lifecycle.ErrNotFound)
	}

	rec, _ := findStep(groups, label)
	if rec == nil || rec.Slide == "" {
		return step.SlideRef{}, fmt.Errorf("slide for step %s: %w", label, lifecycle.ErrNotFound)
	}
	return step.SlideRef{SlideID: rec.Slide, CaseID: rec.Case}, nil
}

// LookupLinkedROIsLabel returns the ROIs review step a clinical step depends on.
func (s *Store) LookupLinkedROIsLabel(ctx context.Context, clinicalLabel string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, err := s.Read()
	if err != nil {
		return "", err
	}

	rec, _ := findStep(f.ClinicalAnnotations, clinicalLabel)
	if rec == nil || rec.ROIsReviewStepLabel == nil {
		return "", fmt.Errorf("rois review step of %s: %w", clinicalLabel, lifecycle.ErrNotFound)
	}
	return *rec.ROIsReviewStepLabel, nil
}

// LookupPredictionForReviewStep returns the prediction a review step covers.
func (s *Store) LookupPredictionForReviewStep(ctx context.Context, label string) (step.PredictionRef, error) {
	if err := ctx.Err(); err != nil {
		return step.PredictionRef{}, err
	}
	f, err := s.Read()
	if err != nil {
		return step.PredictionRef{}, err
	}

	p, ok := f.Predictions[label]
	if !ok {
		return step.PredictionRef{}, fmt.Errorf("prediction for review step %s: %w", label, lifecycle.ErrNotFound)
	}
	return step.PredictionRef{PredictionID: p.ID, SlideID: p.Slide, CaseID: p.Case}, nil
}
