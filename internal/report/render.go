package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
)

// Style names accepted by Render, besides "auto" which picks dark or light
// from the terminal background.
const (
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
	StyleASCII = "ascii"
	StyleNoTTY = "notty"
)

// Render formats markdown for a terminal of the given width.
func Render(markdown, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == StyleAuto {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStylePath(style))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// Print writes markdown to w, rendered unless raw is set. The raw document
// is written when rendering fails.
func Print(w io.Writer, markdown, style string, width int, raw bool) error {
	if !raw {
		if out, err := Render(markdown, style, width); err == nil {
			markdown = out
		}
	}
	_, err := io.WriteString(w, markdown)
	return err
}
