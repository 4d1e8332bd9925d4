// Package output prints the one-line outcome of every CLI operation.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorInfo    = lipgloss.Color("#3B82F6")
	colorMuted   = lipgloss.Color("#6B7280")
	colorPrimary = lipgloss.Color("#7C3AED")

	successStyle = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorInfo)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	primaryStyle = lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
)

// Printer writes styled lines to W.
type Printer struct {
	W io.Writer
}

var std = &Printer{W: os.Stdout}

// SetOutput redirects the package level functions.
func SetOutput(w io.Writer) {
	std = &Printer{W: w}
}

// Writer returns the writer the package level functions print to.
func Writer() io.Writer {
	return std.W
}

func (p *Printer) line(style lipgloss.Style, icon, format string, args ...any) {
	fmt.Fprint(p.W, style.Render(icon+" "))
	fmt.Fprintf(p.W, format+"\n", args...)
}

func (p *Printer) Success(format string, args ...any) { p.line(successStyle, "✓", format, args...) }

func (p *Printer) Warning(format string, args ...any) { p.line(warningStyle, "⚠", format, args...) }

func (p *Printer) Error(format string, args ...any) { p.line(errorStyle, "✗", format, args...) }

func (p *Printer) Info(format string, args ...any) { p.line(infoStyle, "ℹ", format, args...) }

func (p *Printer) Muted(format string, args ...any) {
	fmt.Fprintln(p.W, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

// Section prints a header line.
func (p *Printer) Section(title string) {
	fmt.Fprintln(p.W)
	fmt.Fprintln(p.W, primaryStyle.Render(title))
}

// Success prints a success message
func Success(format string, args ...any) { std.Success(format, args...) }

// Warning prints a warning message
func Warning(format string, args ...any) { std.Warning(format, args...) }

// Error prints an error message
func Error(format string, args ...any) { std.Error(format, args...) }

// Info prints an info message
func Info(format string, args ...any) { std.Info(format, args...) }

// Muted prints a muted message
func Muted(format string, args ...any) { std.Muted(format, args...) }

// Section prints a section header
func Section(title string) { std.Section(title) }

// StatusIcon returns a colored icon for a table or record outcome.
func StatusIcon(status string) string {
	switch status {
	case "ACTIVE", "written":
		return successStyle.Render("✓")
	case "CREATING", "skipped":
		return warningStyle.Render("○")
	case "NOT_FOUND", "failed":
		return errorStyle.Render("✗")
	default:
		return mutedStyle.Render("•")
	}
}
