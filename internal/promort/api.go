package promort

import (
	"context"
	"net/http"
	"net/url"

	"promortctl/internal/lifecycle"
	"promortctl/internal/step"
)

var _ lifecycle.Backend = (*Client)(nil)

// FetchWorklist returns the current user's worklist.
func (c *Client) FetchWorklist(ctx context.Context) ([]step.WorklistEntry, error) {
	var entries []step.WorklistEntry
	if err := c.do(ctx, http.MethodGet, "api/worklist/", nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FetchROIsSteps returns the steps of a ROIs annotation.
func (c *Client) FetchROIsSteps(ctx context.Context, label string) ([]step.AnnotationStep, error) {
	return c.fetchSteps(ctx, "api/worklist/rois_annotations/"+url.PathEscape(label)+"/", step.AnnotationROIs)
}

// FetchClinicalSteps returns the steps of a clinical annotation.
func (c *Client) FetchClinicalSteps(ctx context.Context, label string) ([]step.AnnotationStep, error) {
	return c.fetchSteps(ctx, "api/worklist/clinical_annotations/"+url.PathEscape(label)+"/", step.AnnotationClinical)
}

func (c *Client) fetchSteps(ctx context.Context, path string, kind step.AnnotationType) ([]step.AnnotationStep, error) {
	var steps []step.AnnotationStep
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &steps); err != nil {
		return nil, err
	}
	return step.FillAnnotationType(steps, kind), nil
}

// StartClinicalStep asks the server to start a clinical annotation step.
func (c *Client) StartClinicalStep(ctx context.Context, label string) error {
	path := "api/worklist/clinical_annotations/steps/" + url.PathEscape(label) + "/"
	return c.do(ctx, http.MethodPut, path, nil, actionRequest{Action: actionStart}, nil)
}

// ResetROIsStep asks the server to reopen a completed ROIs annotation step.
func (c *Client) ResetROIsStep(ctx context.Context, label string) error {
	path := "api/worklist/rois_annotations/steps/" + url.PathEscape(label) + "/"
	return c.do(ctx, http.MethodPut, path, nil, actionRequest{Action: actionReset}, nil)
}

// LookupSlideForStep returns the slide and case a step annotates.
func (c *Client) LookupSlideForStep(ctx context.Context, label string, annotationType step.AnnotationType) (step.SlideRef, error) {
	path := "api/slides/annotation_steps/" + url.PathEscape(label) + "/"
	query := url.Values{"annotation_type": {annotationType.String()}}

	var resp slideLookupResponse
	if err := c.do(ctx, http.MethodGet, path, query, nil, &resp); err != nil {
		return step.SlideRef{}, err
	}
	return resp.ref()
}

// LookupLinkedROIsLabel returns the label of the ROIs review step a clinical
// step depends on.
func (c *Client) LookupLinkedROIsLabel(ctx context.Context, clinicalLabel string) (string, error) {
	path := "api/worklist/clinical_annotations/steps/" + url.PathEscape(clinicalLabel) + "/rois_review_step/"

	var resp linkedROIsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return "", err
	}
	if resp.ROIsReviewStepLabel == "" {
		return "", errMissingField("rois_review_step_label")
	}
	return resp.ROIsReviewStepLabel, nil
}

// LookupPredictionForReviewStep returns the prediction a review step covers.
func (c *Client) LookupPredictionForReviewStep(ctx context.Context, label string) (step.PredictionRef, error) {
	path := "api/predictions/review_steps/" + url.PathEscape(label) + "/"

	var resp predictionResponse
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &resp); err != nil {
		return step.PredictionRef{}, err
	}
	return resp.ref()
}
