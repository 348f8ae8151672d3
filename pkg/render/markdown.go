// Package render provides terminal rendering of probe reports.
package render

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"github.com/pagecheck/pagecheck/pkg/probe"
)

// DefaultWidth is the word wrap used when the terminal width is unknown.
const DefaultWidth = 100

// Options control rendering.
type Options struct {
	NoColor bool   // return markdown unchanged
	Width   int    // word wrap, DefaultWidth when zero
	Style   string // glamour standard style name ("dark", "light", "notty"), auto-detected when empty
}

// RenderMarkdown renders markdown content for terminal display.
// If NoColor is set, returns the content unchanged.
func RenderMarkdown(content string, opts Options) (string, error) {
	if opts.NoColor {
		return content, nil
	}

	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	style := glamour.WithAutoStyle()
	if opts.Style != "" {
		style = glamour.WithStandardStyle(opts.Style)
	}

	renderer, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}

	result, err := renderer.Render(content)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}

	return result, nil
}

// Report renders a probe report.
func Report(r *probe.Report, opts Options) (string, error) {
	return RenderMarkdown(r.Markdown(), opts)
}

// Fprint renders r to w. Color is disabled when w is not a terminal, and the wrap
// width follows the terminal when opts.Width is zero.
func Fprint(w io.Writer, r *probe.Report, opts Options) error {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits int
		opts.NoColor = true
	} else if opts.Width == 0 {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 { //nolint:gosec // fd fits int
			opts.Width = min(cols, DefaultWidth)
		}
	}

	out, err := Report(r, opts)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
