package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"promortctl/internal/config"
	"promortctl/internal/lifecycle"
	"promortctl/internal/localstore"
	"promortctl/internal/output"
	"promortctl/internal/session"
)

const (
	testFixturePath = "/data/worklist.yaml"
	testSessionPath = "/home/user/.config/promortctl/session.yaml"
)

const testFixture = `worklist:
  - label: R001
    annotation_type: ROIS_ANNOTATION
    started: true
    completed: true
  - label: C001
    annotation_type: CLINICAL_ANNOTATION
    started: false
    completed: false
    can_be_started: true
rois_annotations:
  R001:
    - label: R001-a
      annotation_type: ROIS_ANNOTATION
      started: true
      completed: true
      can_reopen_rois_step: true
      slide: SL-1
      case: CA-1
      slide_evaluation:
        adequate_slide: true
    - label: R001-b
      annotation_type: ROIS_ANNOTATION
      started: true
      completed: true
      slide: SL-2
      case: CA-1
      slide_evaluation:
        adequate_slide: false
    - label: R001-c
      annotation_type: ROIS_ANNOTATION
      started: false
      completed: false
      slide: SL-3
      case: CA-2
clinical_annotations:
  C001:
    - label: C001-a
      annotation_type: CLINICAL_ANNOTATION
      started: false
      completed: false
      can_be_started: true
      can_reopen_rois_step: true
      rois_review_step_label: R001-a
      slide: SL-1
      case: CA-1
    - label: C001-c
      annotation_type: CLINICAL_ANNOTATION
      started: false
      completed: false
      can_be_started: false
      rois_review_step_label: R001-c
      slide: SL-3
      case: CA-2
predictions:
  P001:
    id: "42"
    slide: SL-9
    case: CA-9
`

// MockDialogs answers every confirmation with Reply and records prompts.
type MockDialogs struct {
	Reply        bool
	Confirmed    []lifecycle.Prompt
	Acknowledged []lifecycle.Prompt
}

func (m *MockDialogs) Confirm(ctx context.Context, p lifecycle.Prompt) (bool, error) {
	m.Confirmed = append(m.Confirmed, p)
	return m.Reply, nil
}

func (m *MockDialogs) Acknowledge(ctx context.Context, p lifecycle.Prompt) error {
	m.Acknowledged = append(m.Acknowledged, p)
	return nil
}

// testEnv is an App over an in-memory fixture.
type testEnv struct {
	app     *App
	fs      afero.Fs
	store   *localstore.Store
	dialogs *MockDialogs
	out     *bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testFixturePath, []byte(testFixture), 0o644))

	store := localstore.New(fs, testFixturePath)
	dialogs := &MockDialogs{}
	buf := &bytes.Buffer{}
	logger := zerolog.Nop()

	return &testEnv{
		app: &App{
			Config:  config.DefaultConfig(),
			FS:      fs,
			Backend: store,
			Session: session.NewStore(fs, testSessionPath),
			Dialogs: dialogs,
			Printer: output.NewPrinterWithWriter(buf),
			Logger:  &logger,
		},
		fs:      fs,
		store:   store,
		dialogs: dialogs,
		out:     buf,
	}
}

// run executes the command tree with args.
func (e *testEnv) run(args ...string) ExecuteResult {
	return Run(context.Background(), e.app, args)
}

func (e *testEnv) selection(t *testing.T) session.Selection {
	t.Helper()
	sel, err := e.app.Session.Load()
	require.NoError(t, err)
	return sel
}
