package cli

import (
	"context"

	"promortctl/internal/lifecycle"
)

// navigator records where an action led. Reloading the current view
// re-prints the worklist, the only view an action reloads.
type navigator struct {
	ctx  context.Context
	app  *App
	orch *lifecycle.Orchestrator
	path string
}

func (n *navigator) Navigate(path string) {
	n.path = path
	n.app.Logger.Debug().Str("path", path).Msg("navigate")
}

func (n *navigator) ReloadCurrentView() {
	if err := printWorklist(n.ctx, n.app, n.orch); err != nil {
		n.app.Printer.Error("%v", err)
	}
}
