// Package output renders worklists, steps, and action outcomes for the terminal.
//
// [Printer] writes through a lipgloss renderer bound to its writer, so styling
// degrades to plain text when the writer is not a terminal.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	muted   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		label:   r.NewStyle().Bold(true),
		muted:   r.NewStyle().Foreground(lipgloss.Color("8")),
		success: r.NewStyle().Foreground(lipgloss.Color("10")),
		warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		failure: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

// Printer writes formatted output.
type Printer struct {
	out    io.Writer
	styles styles
}

// NewPrinter creates a Printer writing to stdout.
func NewPrinter() *Printer {
	return NewPrinterWithWriter(os.Stdout)
}

// NewPrinterWithWriter creates a Printer writing to w. Tests use it with a
// bytes.Buffer, which renders unstyled.
func NewPrinterWithWriter(w io.Writer) *Printer {
	return &Printer{
		out:    w,
		styles: newStyles(lipgloss.NewRenderer(w)),
	}
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (p *Printer) println(s string) {
	fmt.Fprintln(p.out, s)
}

// Title prints a section title.
func (p *Printer) Title(title string) {
	p.println(p.styles.title.Render(title))
}

// Info prints a plain message.
func (p *Printer) Info(format string, args ...any) {
	p.println(fmt.Sprintf(format, args...))
}

// Success prints a success message.
func (p *Printer) Success(format string, args ...any) {
	p.println(p.styles.success.Render("✓ " + fmt.Sprintf(format, args...)))
}

// Warning prints a warning.
func (p *Printer) Warning(format string, args ...any) {
	p.println(p.styles.warning.Render("! " + fmt.Sprintf(format, args...)))
}

// Error prints an error message.
func (p *Printer) Error(format string, args ...any) {
	p.println(p.styles.failure.Render("✗ " + fmt.Sprintf(format, args...)))
}

// Field prints a "name: value" line.
func (p *Printer) Field(name, value string) {
	if value == "" {
		value = p.styles.muted.Render("-")
	}
	p.println(fmt.Sprintf("  %s %s", p.styles.label.Render(name+":"), value))
}
