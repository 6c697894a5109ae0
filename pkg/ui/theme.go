package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeBg returns the given hex color for TrueColor terminals and
// lipgloss.NoColor{} otherwise, so 16/256-color terminals keep their own
// background instead of a down-converted approximation.
func ThemeBg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.TrueColor {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(hex)
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

// Theme carries the presentation's color and style conventions.
type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor
	Good      lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Pre-computed styles, created once at startup instead of per-frame.
	Base       lipgloss.Style
	Header     lipgloss.Style
	SlideTitle lipgloss.Style
	Exiting    lipgloss.Style
	Counter    lipgloss.Style
	HintOn     lipgloss.Style
	HintOff    lipgloss.Style
	BarFilled  lipgloss.Style
	BarEmpty   lipgloss.Style
	ChartFrame lipgloss.Style
	Warning    lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#6B47D9", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#666666", Dark: "#BFBFBF"},
		Accent:    lipgloss.AdaptiveColor{Light: "#006080", Dark: "#8BE9FD"},
		Good:      lipgloss.AdaptiveColor{Light: "#007700", Dark: "#50FA7B"},

		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#44475A"},
		Muted:     lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"},
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	t.SlideTitle = r.NewStyle().Bold(true).Foreground(t.Primary)
	t.Exiting = r.NewStyle().Faint(true).Foreground(t.Muted)
	t.Counter = r.NewStyle().Foreground(t.Subtext)
	t.HintOn = r.NewStyle().Bold(true).Foreground(t.Primary)
	t.HintOff = r.NewStyle().Faint(true).Foreground(t.Muted)
	t.BarFilled = r.NewStyle().Foreground(t.Good)
	t.BarEmpty = r.NewStyle().Foreground(t.Muted)
	t.ChartFrame = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	t.Warning = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B06800", Dark: "#FFB86C"})

	return t
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
