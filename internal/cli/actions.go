package cli

import (
	"context"

	"promortctl/internal/lifecycle"
	"promortctl/internal/session"
)

// action is an orchestrator wired for one command run.
type action struct {
	orch    *lifecycle.Orchestrator
	context *session.WorkflowContext
	nav     *navigator
}

// newAction restores the saved selection and wires an orchestrator over the
// app's collaborators. dialogs overrides app.Dialogs when non-nil.
func (app *App) newAction(ctx context.Context, dialogs lifecycle.Dialogs) (*action, error) {
	sel, err := app.Session.Load()
	if err != nil {
		return nil, err
	}
	if dialogs == nil {
		dialogs = app.Dialogs
	}

	wc := session.NewWorkflowContext(sel)
	nav := &navigator{ctx: ctx, app: app}
	orch := lifecycle.NewOrchestrator(app.Backend, dialogs, nav, wc)
	orch.SetLogger(*app.Logger)
	if app.Verbose {
		orch.SetProgressCallback(app.Printer.Stage)
	}
	nav.orch = orch

	return &action{orch: orch, context: wc, nav: nav}, nil
}

// finish prints an action's result, saves the selection it registered, and
// maps it to an exit code.
func (app *App) finish(a *action, out lifecycle.Outcome, err error) error {
	if err != nil {
		app.Printer.Error("%v", err)
		return NewExitError(1)
	}

	app.Printer.Outcome(out)

	if out.Kind == lifecycle.Navigated && !out.Selection.IsZero() {
		if err := app.Session.Save(a.context.Current()); err != nil {
			app.Printer.Error("%v", err)
			return NewExitError(1)
		}
	}

	switch out.Kind {
	case lifecycle.Navigated, lifecycle.Declined:
		return nil
	}
	return NewExitError(1)
}
