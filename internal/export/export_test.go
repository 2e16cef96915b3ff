package export

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promortctl/internal/step"
)

type mapLocator map[string]step.SlideRef

func (m mapLocator) LookupSlideForStep(ctx context.Context, label string, annotationType step.AnnotationType) (step.SlideRef, error) {
	ref, ok := m[label]
	if !ok {
		return step.SlideRef{}, errors.New("no slide")
	}
	return ref, nil
}

func roisStep(label string, completed bool, eval *step.SlideEvaluation) step.AnnotationStep {
	return step.AnnotationStep{
		WorklistEntry:   step.WorklistEntry{Label: label, AnnotationType: step.AnnotationROIs, Started: completed, Completed: completed},
		SlideEvaluation: eval,
	}
}

func testSteps() []step.AnnotationStep {
	notes := "tissue folded"
	return []step.AnnotationStep{
		roisStep("R001-a", true, &step.SlideEvaluation{AdequateSlide: true}),
		roisStep("R001-b", true, &step.SlideEvaluation{AdequateSlide: false, Notes: &notes}),
		roisStep("R001-c", false, nil),
		roisStep("R001-d", true, nil),
	}
}

var testLocator = mapLocator{
	"R001-a": {SlideID: "SL-1", CaseID: "CA-1"},
	"R001-b": {SlideID: "SL-2", CaseID: "CA-1"},
	"R001-d": {SlideID: "SL-4", CaseID: "CA-2"},
}

func TestCollect(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantSteps []string
	}{
		{"all completed steps", Options{}, []string{"R001-a", "R001-b", "R001-d"}},
		{"exclude rejected", Options{ExcludeRejected: true}, []string{"R001-a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Collect(context.Background(), testLocator, "R001", testSteps(), tt.opts)
			require.NoError(t, err)

			var got []string
			for _, r := range rows {
				got = append(got, r.Step)
			}
			assert.Equal(t, tt.wantSteps, got)
		})
	}
}

func TestCollect_LookupFailure(t *testing.T) {
	_, err := Collect(context.Background(), mapLocator{}, "R001", testSteps(), Options{})
	assert.ErrorContains(t, err, "export step R001-a")
}

func TestWrite(t *testing.T) {
	rows, err := Collect(context.Background(), testLocator, "R001", testSteps(), Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows))

	want := "annotation,step,slide,case,adequate_slide,evaluation_notes,step_notes\n" +
		"R001,R001-a,SL-1,CA-1,true,false,false\n" +
		"R001,R001-b,SL-2,CA-1,false,true,false\n" +
		"R001,R001-d,SL-4,CA-2,,false,false\n"
	assert.Equal(t, want, buf.String())
}
