// Package router maps worklist entries to their kind and to the screen a user
// lands on when opening them.
//
// The router is the single place that knows the presentation layer's paths.
// Worklist links are derived from the entry kind; detail-screen paths are
// derived from the step label once an action has resolved the step's slide.
//
// Key types:
//   - [Kind] - closed set of worklist entry kinds
//   - [Router] - kind classification and navigation targets
//
// Package-level functions [Classify] and [NavigationTarget] use the default router.
package router

import (
	"fmt"
	"strings"

	"promortctl/internal/step"
)

// Kind is the routing kind of a worklist entry.
type Kind int

// Worklist entry kinds.
const (
	KindROIsAnnotation Kind = iota
	KindClinicalAnnotation
	KindQuestionnaire
	KindPredictionReview
)

// String returns the annotation type tag the kind was classified from.
func (k Kind) String() string {
	switch k {
	case KindROIsAnnotation:
		return string(step.AnnotationROIs)
	case KindClinicalAnnotation:
		return string(step.AnnotationClinical)
	case KindQuestionnaire:
		return string(step.AnnotationQuestionnaire)
	case KindPredictionReview:
		return string(step.AnnotationPredictionReview)
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Fixed screens.
const (
	WorklistPath = "worklist"
	NotFoundPath = "404"
)

const labelPlaceholder = "{label}"

// Router classifies worklist entries and renders their navigation targets.
//
// Create with [NewRouter]. Every known annotation type has exactly one kind and
// every kind has exactly one path template, so classification and targets are
// total over decoded entries.
type Router struct {
	// kinds maps annotation type tag → kind.
	kinds map[step.AnnotationType]Kind

	// targets maps kind → worklist link template containing {label}.
	targets map[Kind]string
}

// NewRouter creates a [Router] with the review server's routes:
//   - ROIS_ANNOTATION → worklist/rois_annotations/{label}
//   - CLINICAL_ANNOTATION → worklist/clinical_annotations/{label}
//   - QUESTIONNAIRE → worklist/questionnaire_requests/{label}
//   - PREDICTION_REVIEW → worklist/{label}/prediction_review
func NewRouter() *Router {
	return &Router{
		kinds: map[step.AnnotationType]Kind{
			step.AnnotationROIs:             KindROIsAnnotation,
			step.AnnotationClinical:         KindClinicalAnnotation,
			step.AnnotationQuestionnaire:    KindQuestionnaire,
			step.AnnotationPredictionReview: KindPredictionReview,
		},
		targets: map[Kind]string{
			KindROIsAnnotation:     "worklist/rois_annotations/{label}",
			KindClinicalAnnotation: "worklist/clinical_annotations/{label}",
			KindQuestionnaire:      "worklist/questionnaire_requests/{label}",
			// Label-keyed until prediction reviews move to a case-based screen.
			KindPredictionReview: "worklist/{label}/prediction_review",
		},
	}
}

// Classify returns the [Kind] for an annotation type.
//
// Returns [step.ErrUnknownAnnotationType] for tags outside the known set.
func (r *Router) Classify(t step.AnnotationType) (Kind, error) {
	k, ok := r.kinds[t]
	if !ok {
		return 0, fmt.Errorf("%w: %q", step.ErrUnknownAnnotationType, t)
	}
	return k, nil
}

// NavigationTarget returns the worklist link for an entry.
func (r *Router) NavigationTarget(e step.WorklistEntry) (string, error) {
	k, err := r.Classify(e.AnnotationType)
	if err != nil {
		return "", err
	}
	return render(r.targets[k], e.Label), nil
}

func render(template, label string) string {
	return strings.ReplaceAll(template, labelPlaceholder, label)
}

// QualityControlPath is the slide quality-control screen of a ROIs step.
func QualityControlPath(label string) string {
	return "worklist/" + label + "/quality_control"
}

// ROIsManagerPath is the ROIs annotation screen of a ROIs step.
func ROIsManagerPath(label string) string {
	return "worklist/" + label + "/rois_manager"
}

// AnnotationsManagerPath is the clinical annotation screen of a clinical step.
func AnnotationsManagerPath(label string) string {
	return "worklist/" + label + "/annotations_manager"
}

// ROIsAnnotationPath is the detail screen listing the steps of a ROIs annotation.
func ROIsAnnotationPath(label string) string {
	return render(defaultRouter.targets[KindROIsAnnotation], label)
}

// defaultRouter is the package-level router used by [Classify] and [NavigationTarget].
var defaultRouter = NewRouter()

// Classify returns the [Kind] for an annotation type using the default router.
func Classify(t step.AnnotationType) (Kind, error) {
	return defaultRouter.Classify(t)
}

// NavigationTarget returns the worklist link for an entry using the default router.
func NavigationTarget(e step.WorklistEntry) (string, error) {
	return defaultRouter.NavigationTarget(e)
}
