package cli

import (
	"context"

	"github.com/spf13/cobra"

	"promortctl/internal/lifecycle"
	"promortctl/internal/step"
)

func newROIsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rois <label>",
		Short: "Show the steps of a ROIs annotation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowSteps(cmd, app, args[0], (*lifecycle.Orchestrator).LoadROIsSteps)
		},
	}
}

func newClinicalCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clinical <label>",
		Short: "Show the steps of a clinical annotation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowSteps(cmd, app, args[0], (*lifecycle.Orchestrator).LoadClinicalSteps)
		},
	}
}

type stepLoader = func(o *lifecycle.Orchestrator, ctx context.Context, label string) ([]step.AnnotationStep, error)

func runShowSteps(cmd *cobra.Command, app *App, label string, load stepLoader) error {
	a, err := app.newAction(cmd.Context(), nil)
	if err != nil {
		return err
	}

	steps, err := load(a.orch, cmd.Context(), label)
	if err != nil {
		app.Printer.Error("%v", err)
		return NewExitError(1)
	}
	app.Printer.Steps(label, steps)
	return nil
}
