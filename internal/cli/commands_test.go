package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promortctl/internal/lifecycle"
	"promortctl/internal/session"
	"promortctl/internal/step"
)

func TestWorklistCommand(t *testing.T) {
	env := newTestEnv(t)

	result := env.run("worklist")
	require.NoError(t, result.Err)

	out := env.out.String()
	assert.Contains(t, out, "Worklist")
	assert.Contains(t, out, "R001")
	assert.Contains(t, out, "worklist/clinical_annotations/C001")
}

func TestStepsCommands(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		want     string
	}{
		{"rois steps", []string{"rois", "R001"}, 0, "R001-b"},
		{"clinical steps", []string{"clinical", "C001"}, 0, "C001-c"},
		{"unknown annotation", []string{"rois", "R404"}, 1, "not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			result := env.run(tt.args...)
			assert.Equal(t, tt.wantCode, result.ExitCode)
			assert.Contains(t, env.out.String(), tt.want)
		})
	}
}

func TestStartCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantTarget string
	}{
		{"fresh start opens quality control", []string{"start", "R001-c"}, "worklist/R001-c/quality_control"},
		{"skip quality control", []string{"start", "R001-c", "--skip-qc"}, "worklist/R001-c/rois_manager"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			result := env.run(tt.args...)
			require.NoError(t, result.Err)

			assert.Contains(t, env.out.String(), tt.wantTarget)
			assert.Equal(t, session.Selection{ROIsStepLabel: "R001-c", SlideID: "SL-3", CaseID: "CA-2"}, env.selection(t))
		})
	}
}

func TestStartCommand_UnknownStep(t *testing.T) {
	env := newTestEnv(t)

	result := env.run("start", "R999-a")
	assert.Equal(t, 1, result.ExitCode)
	assert.Contains(t, env.out.String(), "Not found (404)")
	assert.True(t, env.selection(t).IsZero())
}

func TestStartStepCommand(t *testing.T) {
	env := newTestEnv(t)

	result := env.run("start-step", "C001-a")
	require.NoError(t, result.Err)

	assert.Contains(t, env.out.String(), "Open worklist/C001-a/annotations_manager")
	assert.Equal(t, session.Selection{
		ROIsStepLabel:     "R001-a",
		ClinicalStepLabel: "C001-a",
		SlideID:           "SL-1",
		CaseID:            "CA-1",
	}, env.selection(t))

	env.out.Reset()
	result = env.run("continue-step", "C001-a")
	require.NoError(t, result.Err)
	assert.Contains(t, env.out.String(), "already open")
}

func TestStartStepCommand_Ineligible(t *testing.T) {
	env := newTestEnv(t)

	result := env.run("start-step", "C001-c")
	assert.Equal(t, 1, result.ExitCode)

	assert.Equal(t, []lifecycle.Prompt{lifecycle.PromptClinicalStepCantStart}, env.dialogs.Acknowledged)
	assert.Contains(t, env.out.String(), "Worklist", "worklist is reloaded")
	assert.True(t, env.selection(t).IsZero())
}

func TestStartStepCommand_IneligibleWarnsOnce(t *testing.T) {
	env := newTestEnv(t)
	env.app.Dialogs = NewDialogs(strings.NewReader(""), env.app.Printer, false)

	result := env.run("start-step", "C001-c")
	assert.Equal(t, 1, result.ExitCode)

	out := env.out.String()
	assert.Equal(t, 1, strings.Count(out, "cannot be started"))
	assert.Contains(t, out, "Back to the worklist.")
}

func TestStartStepCommand_LinkageFailure(t *testing.T) {
	env := newTestEnv(t)

	result := env.run("start-step", "C999-a")
	assert.Equal(t, 1, result.ExitCode)
	assert.Contains(t, env.out.String(), "cannot resolve linked ROIs step")
}

func TestResetCommand(t *testing.T) {
	env := newTestEnv(t)
	env.dialogs.Reply = true

	result := env.run("reset", "R001-a")
	require.NoError(t, result.Err)

	assert.Equal(t, []lifecycle.Prompt{lifecycle.PromptRestartROIsStep}, env.dialogs.Confirmed)
	assert.Contains(t, env.out.String(), "worklist/R001-a/rois_manager")

	steps, err := env.store.FetchROIsSteps(t.Context(), "R001")
	require.NoError(t, err)
	assert.Equal(t, step.StateInProgress, steps[0].State())
}

func TestResetCommand_Guards(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		reply     bool
		wantCode  int
		wantOut   string
		confirmed int
	}{
		{"declined", []string{"reset", "R001-a"}, false, 0, "Cancelled.", 1},
		{"not permitted", []string{"reset", "R001-b"}, true, 1, "cannot be reopened", 0},
		{"unknown step", []string{"reset", "R001-z"}, true, 1, "not found", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.dialogs.Reply = tt.reply

			result := env.run(tt.args...)
			assert.Equal(t, tt.wantCode, result.ExitCode)
			assert.Contains(t, env.out.String(), tt.wantOut)
			assert.Len(t, env.dialogs.Confirmed, tt.confirmed)

			steps, err := env.store.FetchROIsSteps(t.Context(), "R001")
			require.NoError(t, err)
			assert.True(t, steps[0].IsCompleted(), "step must stay completed")
		})
	}
}

func TestResetCommand_ClinicalWithYes(t *testing.T) {
	env := newTestEnv(t)

	result := env.run("reset", "C001-a", "--clinical", "--yes")
	require.NoError(t, result.Err)

	assert.Empty(t, env.dialogs.Confirmed, "--yes skips the dialog")
	assert.Contains(t, env.out.String(), "worklist/rois_annotations/R001")

	steps, err := env.store.FetchROIsSteps(t.Context(), "R001")
	require.NoError(t, err)
	assert.True(t, steps[0].IsInProgress())
}

func TestPredictionReviewCommand(t *testing.T) {
	env := newTestEnv(t)

	result := env.run("prediction-review", "P001")
	require.NoError(t, result.Err)

	assert.Contains(t, env.out.String(), "worklist/P001/prediction_review")
	assert.Equal(t, session.Selection{PredictionID: "42", SlideID: "SL-9", CaseID: "CA-9"}, env.selection(t))
}

func TestCurrentCommand(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("start", "R001-c").Err)
	env.out.Reset()

	require.NoError(t, env.run("current").Err)
	assert.Contains(t, env.out.String(), "ROIs step: R001-c")

	require.NoError(t, env.run("current", "--clear").Err)
	assert.True(t, env.selection(t).IsZero())
}

func TestExportCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantRows []string
	}{
		{"all completed", []string{"export", "R001", "-o", "/out/r001.csv"}, []string{"R001,R001-a,", "R001,R001-b,"}},
		{"exclude rejected", []string{"export", "R001", "--exclude-rejected", "-o", "/out/r001.csv"}, []string{"R001,R001-a,"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			result := env.run(tt.args...)
			require.NoError(t, result.Err)

			data, err := afero.ReadFile(env.fs, "/out/r001.csv")
			require.NoError(t, err)

			csv := string(data)
			for _, row := range tt.wantRows {
				assert.Contains(t, csv, row)
			}
			assert.NotContains(t, csv, "R001-c", "pending steps are never exported")
			assert.Equal(t, len(tt.wantRows)+1, countLines(csv))
		})
	}
}

// closeFailFs creates files whose Close always fails.
type closeFailFs struct {
	afero.Fs
}

func (fs closeFailFs) Create(name string) (afero.File, error) {
	f, err := fs.Fs.Create(name)
	if err != nil {
		return nil, err
	}
	return closeFailFile{f}, nil
}

type closeFailFile struct {
	afero.File
}

func (f closeFailFile) Close() error {
	_ = f.File.Close()
	return errors.New("disk full")
}

func TestExportCommand_CloseError(t *testing.T) {
	env := newTestEnv(t)
	env.app.FS = closeFailFs{env.fs}

	result := env.run("export", "R001", "-o", "/out/r001.csv")
	assert.Equal(t, 1, result.ExitCode)

	out := env.out.String()
	assert.Contains(t, out, "disk full")
	assert.NotContains(t, out, "Exported")
}

func countLines(s string) int {
	n := 0
	for _, c := range s {
		if c == '\n' {
			n++
		}
	}
	return n
}

func TestIsExitError(t *testing.T) {
	code, ok := IsExitError(NewExitError(3))
	assert.True(t, ok)
	assert.Equal(t, 3, code)

	_, ok = IsExitError(assert.AnError)
	assert.False(t, ok)

	_, ok = IsExitError(nil)
	assert.False(t, ok)
}
