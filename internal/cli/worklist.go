package cli

import (
	"context"

	"github.com/spf13/cobra"

	"promortctl/internal/lifecycle"
)

func newWorklistCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "worklist",
		Short: "List your annotation work",
		Long: `List the annotations assigned to you with their state, whether a
clinical annotation can be started yet, and the screen each one opens.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := app.newAction(ctx, nil)
			if err != nil {
				return err
			}
			if err := printWorklist(ctx, app, a.orch); err != nil {
				app.Printer.Error("%v", err)
				return NewExitError(1)
			}
			return nil
		},
	}
}

func printWorklist(ctx context.Context, app *App, orch *lifecycle.Orchestrator) error {
	entries, err := orch.LoadWorklist(ctx)
	if err != nil {
		return err
	}
	views, err := orch.Describe(entries)
	if err != nil {
		return err
	}
	app.Printer.Title("Worklist")
	app.Printer.Worklist(views)
	return nil
}
