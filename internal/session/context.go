// Package session holds the WorkflowContext: the hand-off record telling a
// detail screen which step, slide, case, and prediction the user selected.
//
// The orchestrator is the only writer. It commits a complete [Selection] right
// before navigating, so a reader never observes a half-written selection and a
// failed action never leaves one behind.
package session

import "sync"

// Selection is the set of references active for the current detail screen.
// Empty fields are unset.
type Selection struct {
	ROIsStepLabel     string `yaml:"rois_step_label,omitempty"`
	ClinicalStepLabel string `yaml:"clinical_step_label,omitempty"`
	SlideID           string `yaml:"slide_id,omitempty"`
	CaseID            string `yaml:"case_id,omitempty"`
	PredictionID      string `yaml:"prediction_id,omitempty"`
}

// IsZero reports whether nothing is selected.
func (s Selection) IsZero() bool {
	return s == Selection{}
}

// WorkflowContext is the mailbox between the orchestrator and the destination
// screen. It is safe for concurrent use; writes are serialized.
type WorkflowContext struct {
	mu      sync.Mutex
	current Selection
}

// NewWorkflowContext creates a context seeded with sel, typically the
// selection restored from a [Store].
func NewWorkflowContext(sel Selection) *WorkflowContext {
	return &WorkflowContext{current: sel}
}

// Commit replaces the current selection.
func (c *WorkflowContext) Commit(sel Selection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = sel
}

// Current returns a copy of the current selection.
func (c *WorkflowContext) Current() Selection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Clear drops the current selection.
func (c *WorkflowContext) Clear() {
	c.Commit(Selection{})
}
