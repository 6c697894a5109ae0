// Package charts renders a fixed set of statically-configured charts for
// embedding in slides. Charts carry no computed data: every value is a
// literal baked in at construction. Construction failures degrade to a
// missing chart, never to a failed presentation.
package charts

import "fmt"

// Dataset is a set of labeled numeric values with shared styling hints.
type Dataset struct {
	Labels []string
	Values []float64
	// Max is the axis maximum for radial scaling. Zero means "use the
	// largest value".
	Max float64
}

// validate rejects datasets that cannot be drawn at all.
func (d Dataset) validate() error {
	if len(d.Labels) == 0 {
		return fmt.Errorf("dataset has no labels")
	}
	if len(d.Labels) != len(d.Values) {
		return fmt.Errorf("dataset has %d labels but %d values", len(d.Labels), len(d.Values))
	}
	for i, v := range d.Values {
		if v < 0 {
			return fmt.Errorf("dataset value %d is negative", i)
		}
	}
	return nil
}

// Chart is a live chart handle. Implementations hold their box and re-render
// lazily; Resize only records the new box.
type Chart interface {
	ID() string
	Title() string
	Dataset() Dataset
	// Resize records a new drawing box in cells. Out-of-range boxes are
	// clamped, never rejected.
	Resize(width, height int)
	// Render draws the chart as terminal text at the current box.
	Render() string
}

const (
	minChartWidth  = 24
	maxChartWidth  = 120
	minChartHeight = 9
	maxChartHeight = 40
)

// clampBox keeps chart boxes inside sane terminal bounds.
func clampBox(w, h int) (int, int) {
	if w < minChartWidth {
		w = minChartWidth
	}
	if w > maxChartWidth {
		w = maxChartWidth
	}
	if h < minChartHeight {
		h = minChartHeight
	}
	if h > maxChartHeight {
		h = maxChartHeight
	}
	return w, h
}
