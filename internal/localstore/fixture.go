// Package localstore serves the review workflow from a YAML fixture instead of
// a ProMort server.
//
// The fixture holds a worklist plus the step details, slide bindings, and
// predictions a server would return. [Store] implements lifecycle.Backend over
// it and applies start and reset to the file the way the server applies them
// to its database, so the CLI can be driven end to end offline.
//
// Example fixture:
//
//	worklist:
//	  - label: R001
//	    annotation_type: ROIS_ANNOTATION
//	    started: true
//	    completed: false
//	rois_annotations:
//	  R001:
//	    - label: R001-a
//	      annotation_type: ROIS_ANNOTATION
//	      started: true
//	      completed: true
//	      can_reopen_rois_step: true
//	      slide: SL-1
//	      case: CA-1
//	clinical_annotations: {}
//	predictions: {}
package localstore

import "promortctl/internal/step"

// Fixture is the on-disk document.
type Fixture struct {
	Worklist            []step.WorklistEntry        `yaml:"worklist"`
	ROIsAnnotations     map[string][]StepRecord     `yaml:"rois_annotations,omitempty"`
	ClinicalAnnotations map[string][]StepRecord     `yaml:"clinical_annotations,omitempty"`
	Predictions         map[string]PredictionRecord `yaml:"predictions,omitempty"`
}

// StepRecord is a step together with the slide and case it annotates.
type StepRecord struct {
	step.AnnotationStep `yaml:",inline"`

	Slide string `yaml:"slide,omitempty"`
	Case  string `yaml:"case,omitempty"`
}

// PredictionRecord binds a prediction review step to its prediction.
type PredictionRecord struct {
	ID    string `yaml:"id"`
	Slide string `yaml:"slide"`
	Case  string `yaml:"case"`
}

// Steps returns the detail snapshots of the records.
func Steps(records []StepRecord) []step.AnnotationStep {
	steps := make([]step.AnnotationStep, len(records))
	for i, r := range records {
		steps[i] = r.AnnotationStep
	}
	return steps
}

// findStep returns the record with the given step label and the label of the
// worklist item it belongs to.
func findStep(groups map[string][]StepRecord, label string) (*StepRecord, string) {
	for parent, records := range groups {
		for i := range records {
			if records[i].Label == label {
				return &records[i], parent
			}
		}
	}
	return nil, ""
}

func (f *Fixture) worklistEntry(label string) *step.WorklistEntry {
	for i := range f.Worklist {
		if f.Worklist[i].Label == label {
			return &f.Worklist[i]
		}
	}
	return nil
}
