package promort

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"promortctl/internal/step"
)

// ErrMalformedResponse is returned when a response decodes but lacks a field
// the client needs.
var ErrMalformedResponse = errors.New("malformed server response")

func errMissingField(name string) error {
	return fmt.Errorf("%w: missing %s", ErrMalformedResponse, name)
}

// Step actions accepted by the step endpoints.
const (
	actionStart = "START"
	actionReset = "RESET"
)

type actionRequest struct {
	Action string `json:"action"`
}

// slideLookupResponse covers both shapes the slide lookup returns:
//
//	{"slide": {"id": "S1", "case": "C1"}}   ROIs steps
//	{"slide": "S1", "case": "C1"}           clinical steps
type slideLookupResponse struct {
	Slide json.RawMessage `json:"slide"`
	Case  json.RawMessage `json:"case"`
}

type slideObject struct {
	ID   json.RawMessage `json:"id"`
	Case json.RawMessage `json:"case"`
}

func (r slideLookupResponse) ref() (step.SlideRef, error) {
	slide := bytes.TrimSpace(r.Slide)
	if len(slide) > 0 && slide[0] == '{' {
		var obj slideObject
		if err := json.Unmarshal(slide, &obj); err != nil {
			return step.SlideRef{}, fmt.Errorf("%w: slide: %w", ErrMalformedResponse, err)
		}
		return refFromIDs(obj.ID, obj.Case)
	}
	return refFromIDs(r.Slide, r.Case)
}

func refFromIDs(slide, kase json.RawMessage) (step.SlideRef, error) {
	slideID, err := idString(slide)
	if err != nil {
		return step.SlideRef{}, fmt.Errorf("slide id: %w", err)
	}
	caseID, err := idString(kase)
	if err != nil {
		return step.SlideRef{}, fmt.Errorf("case id: %w", err)
	}
	return step.SlideRef{SlideID: slideID, CaseID: caseID}, nil
}

// idString accepts an identifier encoded as a JSON string or number.
func idString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("%w: missing identifier", ErrMalformedResponse)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return "", fmt.Errorf("%w: empty identifier", ErrMalformedResponse)
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("%w: identifier %s", ErrMalformedResponse, raw)
	}
	return n.String(), nil
}

type linkedROIsResponse struct {
	ROIsReviewStepLabel string `json:"rois_review_step_label"`
}

type predictionResponse struct {
	ID    json.RawMessage `json:"id"`
	Slide slideObject     `json:"slide"`
}

func (r predictionResponse) ref() (step.PredictionRef, error) {
	id, err := idString(r.ID)
	if err != nil {
		return step.PredictionRef{}, fmt.Errorf("prediction id: %w", err)
	}
	slide, err := refFromIDs(r.Slide.ID, r.Slide.Case)
	if err != nil {
		return step.PredictionRef{}, err
	}
	return step.PredictionRef{PredictionID: id, SlideID: slide.SlideID, CaseID: slide.CaseID}, nil
}
