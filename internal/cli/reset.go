package cli

import (
	"github.com/spf13/cobra"

	"promortctl/internal/gate"
	"promortctl/internal/lifecycle"
)

type resetFlags struct {
	parent   string
	clinical bool
	yes      bool
}

func newResetCommand(app *App) *cobra.Command {
	flags := &resetFlags{}

	cmd := &cobra.Command{
		Use:   "reset <step-label>",
		Short: "Reopen a completed ROIs annotation step",
		Long: `Reopen a completed ROIs annotation step, if the server allows it.

For a ROIs step the step itself is reopened in the ROIs manager. With
--clinical the step is a clinical step and the ROIs step it depends on is
reopened instead.

The step is looked up in its annotation, given with --parent or taken from
the step label ("R001-a" belongs to "R001").

Example:
  promortctl reset R001-a
  promortctl reset C001-a --clinical --yes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			label := args[0]

			var dialogs lifecycle.Dialogs
			if flags.yes {
				dialogs = assumeYes{app.Dialogs}
			}
			a, err := app.newAction(ctx, dialogs)
			if err != nil {
				return err
			}

			parent := flags.parent
			if parent == "" {
				parent = gate.SplitLinkageLabel(label)
			}

			load := a.orch.LoadROIsSteps
			if flags.clinical {
				load = a.orch.LoadClinicalSteps
			}
			steps, err := load(ctx, parent)
			if err != nil {
				return app.finish(a, lifecycle.Outcome{}, err)
			}
			s, err := lifecycle.FindStep(steps, label)
			if err != nil {
				return app.finish(a, lifecycle.Outcome{}, err)
			}

			out, err := a.orch.ResetAnnotationStep(ctx, s)
			return app.finish(a, out, err)
		},
	}

	cmd.Flags().StringVar(&flags.parent, "parent", "", "Annotation the step belongs to")
	cmd.Flags().BoolVar(&flags.clinical, "clinical", false, "The step is a clinical annotation step")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
