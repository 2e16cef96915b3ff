package cli

import (
	"github.com/spf13/cobra"

	"promortctl/internal/lifecycle"
	"promortctl/internal/step"
)

func roisStep(label string) step.AnnotationStep {
	return step.AnnotationStep{WorklistEntry: step.WorklistEntry{Label: label, AnnotationType: step.AnnotationROIs}}
}

func clinicalStep(label string) step.AnnotationStep {
	return step.AnnotationStep{WorklistEntry: step.WorklistEntry{Label: label, AnnotationType: step.AnnotationClinical}}
}

func newStartCommand(app *App) *cobra.Command {
	var skipQC bool

	cmd := &cobra.Command{
		Use:   "start <rois-step-label>",
		Short: "Start a ROIs annotation step",
		Long: `Start a ROIs annotation step. The step opens on quality control,
or directly in the ROIs manager with --skip-qc.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.newAction(cmd.Context(), nil)
			if err != nil {
				return err
			}

			var opts []lifecycle.StartOption
			if skipQC {
				opts = append(opts, lifecycle.WithSkipQualityControl())
			}
			out, err := a.orch.StartAnnotation(cmd.Context(), roisStep(args[0]), opts...)
			return app.finish(a, out, err)
		},
	}

	cmd.Flags().BoolVar(&skipQC, "skip-qc", false, "Open the ROIs manager instead of quality control")
	return cmd
}

func newStartStepCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "start-step <clinical-step-label>",
		Short: "Start a clinical annotation step",
		Long: `Start a clinical annotation step. A step whose ROIs annotation is
not finished cannot be started; a step already open is continued.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.newAction(cmd.Context(), nil)
			if err != nil {
				return err
			}
			out, err := a.orch.StartAnnotationStep(cmd.Context(), clinicalStep(args[0]))
			return app.finish(a, out, err)
		},
	}
}

func newContinueStepCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "continue-step <clinical-step-label>",
		Short: "Continue a clinical annotation step in progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.newAction(cmd.Context(), nil)
			if err != nil {
				return err
			}
			out, err := a.orch.ContinueAnnotationStep(cmd.Context(), clinicalStep(args[0]))
			return app.finish(a, out, err)
		},
	}
}

func newPredictionReviewCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "prediction-review <label>",
		Short: "Start a prediction review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.newAction(cmd.Context(), nil)
			if err != nil {
				return err
			}
			entry := step.WorklistEntry{Label: args[0], AnnotationType: step.AnnotationPredictionReview}
			out, err := a.orch.StartPredictionReview(cmd.Context(), entry)
			return app.finish(a, out, err)
		},
	}
}
