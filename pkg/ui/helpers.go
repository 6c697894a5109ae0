package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// truncate shortens s to at most width display cells, appending an ellipsis
// when anything was cut. Width-aware so CJK and emoji don't overflow cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return runewidth.Truncate(s, width-1, "") + "…"
}

// clampLines trims rendered content to at most height lines, appending a
// continuation hint when lines were dropped.
func clampLines(s string, height int) string {
	if height <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) <= height {
		return s
	}
	clipped := lines[:height-1]
	return strings.Join(clipped, "\n") + "\n…"
}
