package ui

import (
	"github.com/charmbracelet/glamour"

	"github.com/kamilov2/presentation/pkg/debug"
)

// MarkdownRenderer wraps glamour for slide bodies. Glamour renderers are
// width-bound, so SetWidth rebuilds the underlying renderer.
type MarkdownRenderer struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// NewMarkdownRenderer creates a renderer for the given glamour style
// ("dark" or "light") and wrap width.
func NewMarkdownRenderer(style string, width int) *MarkdownRenderer {
	m := &MarkdownRenderer{style: style}
	m.SetWidth(width)
	return m
}

// SetWidth rebuilds the renderer for a new wrap width. Rebuild failures
// leave the previous renderer in place.
func (m *MarkdownRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	if width == m.width && m.renderer != nil {
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		debug.Warn("building markdown renderer: %v", err)
		return
	}
	m.width = width
	m.renderer = r
}

// Render renders markdown to styled terminal text, falling back to the raw
// source when the renderer is unavailable or fails.
func (m *MarkdownRenderer) Render(markdown string) string {
	if m.renderer == nil {
		return markdown
	}
	out, err := m.renderer.Render(markdown)
	if err != nil {
		debug.Warn("rendering markdown: %v", err)
		return markdown
	}
	return out
}
