package lifecycle

import (
	"context"
	"sync"

	"promortctl/internal/step"
)

// MockBackend is a recording Backend for testing.
type MockBackend struct {
	mu sync.Mutex

	// Calls records every collaborator call in order as "Method(arg)".
	Calls []string

	Worklist      []step.WorklistEntry
	ROIsSteps     map[string][]step.AnnotationStep
	ClinicalSteps map[string][]step.AnnotationStep
	Slides        map[string]step.SlideRef
	LinkedROIs    map[string]string
	Predictions   map[string]step.PredictionRef

	// Errors by method name.
	WorklistErr   error
	FetchErr      error
	SlideErr      error
	LinkageErr    error
	StartErr      error
	ResetErr      error
	PredictionErr error
}

func (m *MockBackend) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

func (m *MockBackend) FetchWorklist(ctx context.Context) ([]step.WorklistEntry, error) {
	m.record("FetchWorklist()")
	if m.WorklistErr != nil {
		return nil, m.WorklistErr
	}
	return m.Worklist, nil
}

func (m *MockBackend) FetchROIsSteps(ctx context.Context, label string) ([]step.AnnotationStep, error) {
	m.record("FetchROIsSteps(" + label + ")")
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	steps, ok := m.ROIsSteps[label]
	if !ok {
		return nil, ErrNotFound
	}
	return steps, nil
}

func (m *MockBackend) FetchClinicalSteps(ctx context.Context, label string) ([]step.AnnotationStep, error) {
	m.record("FetchClinicalSteps(" + label + ")")
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	steps, ok := m.ClinicalSteps[label]
	if !ok {
		return nil, ErrNotFound
	}
	return steps, nil
}

func (m *MockBackend) StartClinicalStep(ctx context.Context, label string) error {
	m.record("StartClinicalStep(" + label + ")")
	return m.StartErr
}

func (m *MockBackend) ResetROIsStep(ctx context.Context, label string) error {
	m.record("ResetROIsStep(" + label + ")")
	return m.ResetErr
}

func (m *MockBackend) LookupSlideForStep(ctx context.Context, label string, annotationType step.AnnotationType) (step.SlideRef, error) {
	m.record("LookupSlideForStep(" + label + ")")
	if m.SlideErr != nil {
		return step.SlideRef{}, m.SlideErr
	}
	ref, ok := m.Slides[label]
	if !ok {
		return step.SlideRef{}, ErrNotFound
	}
	return ref, nil
}

func (m *MockBackend) LookupLinkedROIsLabel(ctx context.Context, clinicalLabel string) (string, error) {
	m.record("LookupLinkedROIsLabel(" + clinicalLabel + ")")
	if m.LinkageErr != nil {
		return "", m.LinkageErr
	}
	return m.LinkedROIs[clinicalLabel], nil
}

func (m *MockBackend) LookupPredictionForReviewStep(ctx context.Context, label string) (step.PredictionRef, error) {
	m.record("LookupPredictionForReviewStep(" + label + ")")
	if m.PredictionErr != nil {
		return step.PredictionRef{}, m.PredictionErr
	}
	return m.Predictions[label], nil
}

// MockDialogs answers confirmations with a fixed reply.
type MockDialogs struct {
	Reply      bool
	ConfirmErr error

	Confirmed    []Prompt
	Acknowledged []Prompt
}

func (m *MockDialogs) Confirm(ctx context.Context, p Prompt) (bool, error) {
	m.Confirmed = append(m.Confirmed, p)
	if m.ConfirmErr != nil {
		return false, m.ConfirmErr
	}
	return m.Reply, nil
}

func (m *MockDialogs) Acknowledge(ctx context.Context, p Prompt) error {
	m.Acknowledged = append(m.Acknowledged, p)
	return nil
}

// MockNavigator records navigation effects.
type MockNavigator struct {
	Paths   []string
	Reloads int
}

func (m *MockNavigator) Navigate(path string) {
	m.Paths = append(m.Paths, path)
}

func (m *MockNavigator) ReloadCurrentView() {
	m.Reloads++
}
