package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kamilov2/presentation/pkg/metrics"
)

// View renders the full frame: header, the shown slide (which lags the
// controller's index until the commit phase), and the footer.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	defer metrics.Timer(metrics.UIRender)()

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	b.WriteString(m.viewSlide())
	b.WriteString("\n")
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m Model) viewHeader() string {
	title := truncate(m.deck.Title(), m.width-2)
	return m.theme.Header.Render(title)
}

// viewSlide renders the slide at m.shown. During the pre-commit window the
// outgoing slide is rendered in the exiting style, the terminal analog of a
// fade-out.
func (m Model) viewSlide() string {
	slide := m.deck.Slide(m.shown)

	var b strings.Builder
	if slide.Title != "" {
		b.WriteString("  " + m.theme.SlideTitle.Render(slide.Title))
		b.WriteString("\n\n")
	}

	b.WriteString(m.md.Render(slide.Content))

	// Directive lines are stripped at parse time; the chart renders below
	// whatever body text the slide carries.
	if slide.ChartID != "" {
		b.WriteString("\n")
		b.WriteString(m.viewChart(slide.ChartID))
		b.WriteString("\n")
	}

	content := clampLines(b.String(), m.bodyHeight())
	if m.exiting {
		return m.theme.Exiting.Render(content)
	}
	return content
}

// viewChart renders a registered chart inside its frame, or a warning
// placeholder for an unknown id. A chart whose constructor failed at startup
// simply is not registered, so it lands on the placeholder path.
func (m Model) viewChart(id string) string {
	c, ok := m.reg.Get(id)
	if !ok {
		return m.theme.Warning.Render(fmt.Sprintf("[chart %q unavailable]", id))
	}
	return m.theme.ChartFrame.Render(c.Render())
}

func (m Model) viewFooter() string {
	prev := m.theme.HintOn.Render("← prev")
	if m.ctrl.AtFirst() {
		prev = m.theme.HintOff.Render("← prev")
	}
	next := m.theme.HintOn.Render("next →")
	if m.ctrl.AtLast() {
		next = m.theme.HintOff.Render("next →")
	}

	counter := m.theme.Counter.Render(fmt.Sprintf("%d/%d", m.ctrl.Index()+1, m.ctrl.Total()))

	line := prev + "  " + counter + "  " + next
	if m.status != "" {
		line += "  " + m.theme.Counter.Render(m.status)
	}

	parts := []string{line}
	if !m.cfg.UI.HideProgressBar {
		parts = append(parts, m.viewProgressBar())
	}
	parts = append(parts, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// viewProgressBar renders the deck progress as a filled bar. The fill tracks
// the controller's committed percentage: slide i+1 of n fills (i+1)/n.
func (m Model) viewProgressBar() string {
	width := m.width - 4
	if width < 10 {
		width = 10
	}
	filled := int(float64(width) * m.ctrl.ProgressPercent() / 100)
	if filled > width {
		filled = width
	}
	return "  " +
		m.theme.BarFilled.Render(strings.Repeat("█", filled)) +
		m.theme.BarEmpty.Render(strings.Repeat("░", width-filled))
}

// bodyHeight is the line budget for slide content between header and footer.
func (m Model) bodyHeight() int {
	h := m.height - 8
	if h < 4 {
		h = 4
	}
	return h
}
