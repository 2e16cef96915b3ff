// Package export writes completed ROIs annotation steps as CSV.
//
// One row is written per completed step:
//
//	annotation,step,slide,case,adequate_slide,evaluation_notes,step_notes
//	R001,R001-a,SL-1,CA-1,true,false,false
//
// adequate_slide is empty when the step has no slide evaluation.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"promortctl/internal/step"
)

// Columns is the CSV header.
var Columns = []string{"annotation", "step", "slide", "case", "adequate_slide", "evaluation_notes", "step_notes"}

// SlideLocator resolves the slide bound to a step.
type SlideLocator interface {
	LookupSlideForStep(ctx context.Context, label string, annotationType step.AnnotationType) (step.SlideRef, error)
}

// Options controls which steps are exported.
type Options struct {
	// ExcludeRejected drops steps whose slide failed quality control, and
	// steps with no slide evaluation at all.
	ExcludeRejected bool
}

// Row is one exported step.
type Row struct {
	Annotation      string
	Step            string
	SlideID         string
	CaseID          string
	AdequateSlide   *bool
	EvaluationNotes bool
	StepNotes       bool
}

// Collect builds rows for the completed ROIs steps of an annotation, in the
// order given.
func Collect(ctx context.Context, loc SlideLocator, annotation string, steps []step.AnnotationStep, opts Options) ([]Row, error) {
	var rows []Row
	for _, s := range steps {
		if s.AnnotationType != step.AnnotationROIs || !s.IsCompleted() {
			continue
		}

		passed, err := s.QualityControlPassed()
		if opts.ExcludeRejected && (err != nil || !passed) {
			continue
		}

		ref, err := loc.LookupSlideForStep(ctx, s.Label, step.AnnotationROIs)
		if err != nil {
			return nil, fmt.Errorf("export step %s: %w", s.Label, err)
		}

		row := Row{
			Annotation:      annotation,
			Step:            s.Label,
			SlideID:         ref.SlideID,
			CaseID:          ref.CaseID,
			EvaluationNotes: s.EvaluationNotesExist(),
			StepNotes:       s.StepNotesExist(),
		}
		if s.HasSlideEvaluation() {
			row.AdequateSlide = &passed
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Write writes rows as CSV with a header line.
func Write(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	for _, r := range rows {
		adequate := ""
		if r.AdequateSlide != nil {
			adequate = strconv.FormatBool(*r.AdequateSlide)
		}
		record := []string{
			r.Annotation,
			r.Step,
			r.SlideID,
			r.CaseID,
			adequate,
			strconv.FormatBool(r.EvaluationNotes),
			strconv.FormatBool(r.StepNotes),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write export row %s: %w", r.Step, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return nil
}
