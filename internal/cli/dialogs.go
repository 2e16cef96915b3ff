package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"promortctl/internal/lifecycle"
	"promortctl/internal/output"
)

// ErrNotInteractive is returned when a confirmation is needed but stdin is
// not a terminal.
var ErrNotInteractive = errors.New("confirmation needs an interactive terminal (use --yes)")

// TerminalDialogs asks questions on the terminal.
type TerminalDialogs struct {
	in          *bufio.Reader
	printer     *output.Printer
	interactive bool
}

// NewTerminalDialogs creates dialogs reading answers from in.
func NewTerminalDialogs(in *os.File, printer *output.Printer) *TerminalDialogs {
	return NewDialogs(in, printer, output.IsTerminal(in))
}

// NewDialogs creates dialogs over any reader. interactive reports whether a
// user can answer.
func NewDialogs(in io.Reader, printer *output.Printer, interactive bool) *TerminalDialogs {
	return &TerminalDialogs{
		in:          bufio.NewReader(in),
		printer:     printer,
		interactive: interactive,
	}
}

// Confirm prints the prompt and reads a yes/no answer. Anything but "y" or
// "yes" is a no.
func (d *TerminalDialogs) Confirm(ctx context.Context, p lifecycle.Prompt) (bool, error) {
	if !d.interactive {
		return false, ErrNotInteractive
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	fmt.Fprintf(d.printer.Writer(), "%s [y/N]: ", output.PromptText(p))
	line, err := d.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Acknowledge prints the message. The terminal needs no dismissal.
func (d *TerminalDialogs) Acknowledge(ctx context.Context, p lifecycle.Prompt) error {
	d.printer.Warning("%s", output.PromptText(p))
	return nil
}

// assumeYes confirms every question without asking.
type assumeYes struct {
	lifecycle.Dialogs
}

func (assumeYes) Confirm(context.Context, lifecycle.Prompt) (bool, error) {
	return true, nil
}
