// Package gate decides step eligibility across the annotation pipeline.
//
// Clinical annotation steps are gated behind their ROIs annotation step. The
// review server computes every eligibility flag; this package only exposes them
// as total queries over step kinds and resolves the clinical → ROIs linkage.
package gate

import (
	"errors"
	"strings"

	"promortctl/internal/step"
)

// ErrNoLinkedROIsStep is returned when a step has no back-reference to a ROIs
// review step.
var ErrNoLinkedROIsStep = errors.New("step has no linked ROIs review step")

// Eligibility is the answer to an eligibility query. Callers must check
// [Eligibility.Applicable] before interpreting [Eligibility.Allowed].
type Eligibility int

// Eligibility results.
const (
	NotApplicable Eligibility = iota
	Eligible
	Ineligible
)

// Applicable reports whether the query applies to the step's kind.
func (e Eligibility) Applicable() bool {
	return e != NotApplicable
}

// Allowed reports whether the gated action is permitted. It is false for
// [NotApplicable].
func (e Eligibility) Allowed() bool {
	return e == Eligible
}

// String returns a lower-case label for the result.
func (e Eligibility) String() string {
	switch e {
	case Eligible:
		return "eligible"
	case Ineligible:
		return "ineligible"
	}
	return "n/a"
}

func fromFlag(allowed bool) Eligibility {
	if allowed {
		return Eligible
	}
	return Ineligible
}

// CanStartClinical reports whether a clinical annotation step may be started.
// Any other kind is [NotApplicable].
func CanStartClinical(e step.WorklistEntry) Eligibility {
	if e.AnnotationType != step.AnnotationClinical {
		return NotApplicable
	}
	return fromFlag(e.CanBeStarted)
}

// CanReopenROIs reports whether the ROIs step behind s may be reset. The flag
// is supplied by the review server for ROIs and clinical steps; other kinds are
// [NotApplicable].
func CanReopenROIs(s step.AnnotationStep) Eligibility {
	switch s.AnnotationType {
	case step.AnnotationROIs, step.AnnotationClinical:
		return fromFlag(s.CanReopenROIsStep)
	}
	return NotApplicable
}

// LinkedROIsLabel returns the bare ROIs annotation label a clinical step
// depends on.
func LinkedROIsLabel(s step.AnnotationStep) (string, error) {
	if s.ROIsReviewStepLabel == nil || *s.ROIsReviewStepLabel == "" {
		return "", ErrNoLinkedROIsStep
	}
	return SplitLinkageLabel(*s.ROIsReviewStepLabel), nil
}

// SplitLinkageLabel strips the step suffix from a "{roisLabel}-{suffix}"
// linkage label. Labels without a delimiter are returned unchanged.
func SplitLinkageLabel(label string) string {
	prefix, _, _ := strings.Cut(label, "-")
	return prefix
}
