package cli

import (
	"github.com/spf13/cobra"

	"promortctl/internal/session"
)

func newCurrentCommand(app *App) *cobra.Command {
	var clearSel bool

	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show the step, slide, and case last selected",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := app.Session.Load()
			if err != nil {
				return err
			}
			wc := session.NewWorkflowContext(sel)

			if clearSel {
				wc.Clear()
				if err := app.Session.Save(wc.Current()); err != nil {
					return err
				}
				app.Printer.Success("Selection cleared")
				return nil
			}

			app.Printer.Title("Current selection")
			app.Printer.Selection(wc.Current())
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearSel, "clear", false, "Forget the current selection")
	return cmd
}
