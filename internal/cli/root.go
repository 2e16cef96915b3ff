// Package cli provides the command-line interface for promortctl.
//
// Each command plays the part of a screen: list commands show the worklist or
// an annotation's steps, action commands run one orchestrator entry point and
// print where the user ends up. The selection an action registers is saved so
// that later commands (the "destination view") can read it with `current`.
//
// Key types:
//   - [App] holds the collaborators every command uses
//   - [ExitError] carries a command's exit code
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"promortctl/internal/config"
	"promortctl/internal/lifecycle"
	"promortctl/internal/localstore"
	"promortctl/internal/output"
	"promortctl/internal/promort"
	"promortctl/internal/session"
)

// App holds the collaborators shared by all commands. Nil fields are built
// from configuration before the first command runs, so tests can inject any
// subset.
type App struct {
	Config  *config.Config
	FS      afero.Fs
	Backend lifecycle.Backend
	Session *session.Store
	Dialogs lifecycle.Dialogs
	Printer *output.Printer
	Logger  *zerolog.Logger

	// Verbose prints each action stage as it starts.
	Verbose bool
}

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	configPath string
	storePath  string
}

// NewRootCommand builds the command tree over app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "promortctl",
		Short: "Work through a ProMort annotation worklist",
		Long: `promortctl drives ProMort annotation work from the terminal.

It lists your worklist, shows annotation steps, and starts, continues,
or reopens steps the way the review screens do. Each action prints the
screen it leads to and registers the selected step, slide, and case.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(flags)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&flags.storePath, "store", "", "Serve the worklist from a YAML fixture instead of the server")
	rootCmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Print each action stage")

	rootCmd.AddCommand(
		newWorklistCommand(app),
		newROIsCommand(app),
		newClinicalCommand(app),
		newStartCommand(app),
		newStartStepCommand(app),
		newContinueStepCommand(app),
		newResetCommand(app),
		newPredictionReviewCommand(app),
		newCurrentCommand(app),
		newExportCommand(app),
	)

	return rootCmd
}

// setup fills in every collaborator the caller did not inject.
func (app *App) setup(flags *globalFlags) error {
	if app.Config == nil {
		loader := config.NewLoader()
		if flags.storePath != "" {
			loader.Set("store.path", flags.storePath)
		}

		var (
			cfg *config.Config
			err error
		)
		if flags.configPath != "" {
			cfg, err = loader.LoadFromFile(flags.configPath)
		} else {
			cfg, err = loader.Load()
		}
		if err != nil {
			return err
		}
		app.Config = cfg
	}

	if app.FS == nil {
		app.FS = afero.NewOsFs()
	}
	if app.Printer == nil {
		app.Printer = output.NewPrinter()
	}
	if app.Logger == nil {
		logger := config.NewLogger(app.Config.Logging, os.Stderr)
		app.Logger = &logger
	}

	if app.Backend == nil {
		backend, err := app.newBackend()
		if err != nil {
			return err
		}
		app.Backend = backend
	}

	if app.Session == nil {
		path := app.Config.Session.Path
		if path == "" {
			path = session.DefaultPath()
		}
		app.Session = session.NewStore(app.FS, path)
	}

	if app.Dialogs == nil {
		app.Dialogs = NewTerminalDialogs(os.Stdin, app.Printer)
	}
	return nil
}

func (app *App) newBackend() (lifecycle.Backend, error) {
	if app.Config.UsesStore() {
		app.Logger.Debug().Str("path", app.Config.Store.Path).Msg("using local fixture")
		return localstore.New(app.FS, app.Config.Store.Path), nil
	}

	srv := app.Config.Server
	client, err := promort.New(promort.Config{
		BaseURL:   srv.BaseURL,
		Timeout:   srv.Timeout,
		RateLimit: srv.RateLimit,
		Burst:     srv.Burst,
		UserAgent: srv.UserAgent,
		SessionID: srv.SessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create server client: %w", err)
	}
	return client, nil
}

// ExecuteResult is the outcome of running the command tree.
type ExecuteResult struct {
	ExitCode int
	Err      error
}

// Run executes the command tree over app with the given arguments.
func Run(ctx context.Context, app *App, args []string) ExecuteResult {
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if code, ok := IsExitError(err); ok {
			return ExecuteResult{ExitCode: code, Err: err}
		}
		return ExecuteResult{ExitCode: 1, Err: err}
	}
	return ExecuteResult{ExitCode: 0}
}

// Execute runs the CLI with the process arguments and exits.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	result := Run(ctx, &App{}, os.Args[1:])
	stop()

	if result.Err != nil {
		if _, ok := IsExitError(result.Err); !ok {
			fmt.Fprintln(os.Stderr, "Error:", result.Err)
		}
	}
	os.Exit(result.ExitCode)
}
