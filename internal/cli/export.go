package cli

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"promortctl/internal/export"
)

func newExportCommand(app *App) *cobra.Command {
	var (
		excludeRejected bool
		outputPath      string
	)

	cmd := &cobra.Command{
		Use:   "export <rois-label>",
		Short: "Export the completed steps of a ROIs annotation as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := app.newAction(ctx, nil)
			if err != nil {
				return err
			}

			steps, err := a.orch.LoadROIsSteps(ctx, args[0])
			if err != nil {
				app.Printer.Error("%v", err)
				return NewExitError(1)
			}

			rows, err := export.Collect(ctx, app.Backend, args[0], steps, export.Options{ExcludeRejected: excludeRejected})
			if err != nil {
				app.Printer.Error("%v", err)
				return NewExitError(1)
			}

			if outputPath == "" {
				return export.Write(cmd.OutOrStdout(), rows)
			}
			if err := writeExportFile(app.FS, outputPath, rows); err != nil {
				app.Printer.Error("%v", err)
				return NewExitError(1)
			}
			app.Printer.Success("Exported %d steps to %s", len(rows), outputPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&excludeRejected, "exclude-rejected", false, "Skip steps whose slide failed quality control")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}

// writeExportFile writes rows to path. A failed close is reported, since the
// last buffered bytes may not have reached the file.
func writeExportFile(fs afero.Fs, path string, rows []export.Row) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", path, err)
	}
	writeErr := export.Write(f, rows)
	if err := f.Close(); err != nil && writeErr == nil {
		writeErr = fmt.Errorf("cannot close %s: %w", path, err)
	}
	return writeErr
}
