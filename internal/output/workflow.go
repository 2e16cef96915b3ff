package output

import (
	"errors"
	"strconv"

	"promortctl/internal/gate"
	"promortctl/internal/lifecycle"
	"promortctl/internal/session"
	"promortctl/internal/step"
)

// Worklist prints the worklist with each entry's kind, state, start
// eligibility, and link.
func (p *Printer) Worklist(views []lifecycle.EntryView) {
	if len(views) == 0 {
		p.println(p.styles.muted.Render("Worklist is empty."))
		return
	}

	rows := make([][]string, 0, len(views))
	for _, v := range views {
		rows = append(rows, []string{
			v.Entry.Label,
			v.Kind.String(),
			v.Entry.State().String(),
			eligibilityCell(v.CanStart),
			v.Target,
		})
	}
	p.println(renderTable([]string{"Label", "Kind", "State", "Can start", "Link"}, rows, nil))

	entries := make([]step.WorklistEntry, len(views))
	for i, v := range views {
		entries[i] = v.Entry
	}
	if step.HasStepInProgress(entries) {
		p.Warning("You have work in progress.")
	}
}

// Steps prints the steps of a ROIs or clinical annotation.
func (p *Printer) Steps(annotation string, steps []step.AnnotationStep) {
	p.Title(annotation)
	if len(steps) == 0 {
		p.println(p.styles.muted.Render("No steps."))
		return
	}

	rows := make([][]string, 0, len(steps))
	for i, s := range steps {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			s.Label,
			s.State().String(),
			qualityControlCell(s),
			notesCell(s),
			eligibilityCell(gate.CanStartClinical(s.WorklistEntry)),
			eligibilityCell(gate.CanReopenROIs(s)),
			linkedCell(s),
		})
	}
	headers := []string{"#", "Step", "State", "Quality control", "Notes", "Can start", "Can reopen", "ROIs step"}
	p.println(renderTable(headers, rows, []columnAlignment{alignRight}))
}

func eligibilityCell(e gate.Eligibility) string {
	switch e {
	case gate.Eligible:
		return "yes"
	case gate.Ineligible:
		return "no"
	}
	return ""
}

func qualityControlCell(s step.AnnotationStep) string {
	passed, err := s.QualityControlPassed()
	switch {
	case errors.Is(err, step.ErrNoSlideEvaluation):
		return ""
	case passed:
		return "passed"
	default:
		return "rejected"
	}
}

func notesCell(s step.AnnotationStep) string {
	switch {
	case s.StepNotesExist() && s.EvaluationNotesExist():
		return "step, slide"
	case s.StepNotesExist():
		return "step"
	case s.EvaluationNotesExist():
		return "slide"
	}
	return ""
}

func linkedCell(s step.AnnotationStep) string {
	if s.ROIsReviewStepLabel == nil {
		return ""
	}
	return *s.ROIsReviewStepLabel
}

// Selection prints the references registered for the current detail screen.
func (p *Printer) Selection(sel session.Selection) {
	if sel.IsZero() {
		p.println(p.styles.muted.Render("Nothing selected."))
		return
	}
	p.Field("ROIs step", sel.ROIsStepLabel)
	p.Field("Clinical step", sel.ClinicalStepLabel)
	p.Field("Slide", sel.SlideID)
	p.Field("Case", sel.CaseID)
	p.Field("Prediction", sel.PredictionID)
}

// Stage prints an action stage as it starts.
func (p *Printer) Stage(stage lifecycle.Stage, label string) {
	p.println(p.styles.muted.Render("→ " + string(stage) + " " + label))
}

// Outcome prints the result of an action.
func (p *Printer) Outcome(out lifecycle.Outcome) {
	switch out.Kind {
	case lifecycle.Navigated:
		if out.Resumed {
			p.Success("Step already open, continuing at %s", out.Target)
		} else {
			p.Success("Open %s", out.Target)
		}
		if !out.Selection.IsZero() {
			p.Selection(out.Selection)
		}
	case lifecycle.NotFound:
		p.Error("Not found (%s)", out.Target)
	case lifecycle.Ineligible:
		p.Info("Back to the %s.", out.Target)
	case lifecycle.NotPermitted:
		p.Warning("This step cannot be reopened.")
	case lifecycle.Declined:
		p.Info("Cancelled.")
	}
}

// PromptText returns the message shown for a dialog.
func PromptText(pr lifecycle.Prompt) string {
	switch pr {
	case lifecycle.PromptRestartROIsStep:
		return "Restart this ROIs annotation step? Existing ROIs will be editable again."
	case lifecycle.PromptReopenROIsStep:
		return "Reopen the ROIs annotation step this clinical step depends on?"
	case lifecycle.PromptClinicalStepCantStart:
		return "This clinical annotation step cannot be started until its ROIs annotation step is completed."
	}
	return string(pr)
}
