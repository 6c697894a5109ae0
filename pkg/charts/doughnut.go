package charts

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/kamilov2/presentation/pkg/metrics"
)

// segmentRunes give each doughnut segment a distinct fill. Segments beyond
// the palette wrap around.
var segmentRunes = []rune{'█', '▓', '▒', '░', '◆', '◇'}

// DoughnutChart renders labeled shares as a ring on a cell grid, with a
// legend carrying exact percentages.
type DoughnutChart struct {
	id     string
	title  string
	data   Dataset
	width  int
	height int
	total  float64
}

// NewDoughnut constructs a doughnut chart. The values must sum to a
// positive total.
func NewDoughnut(id, title string, data Dataset) (*DoughnutChart, error) {
	if err := data.validate(); err != nil {
		return nil, fmt.Errorf("doughnut %q: %w", id, err)
	}
	total := floats.Sum(data.Values)
	if total <= 0 {
		return nil, fmt.Errorf("doughnut %q: values sum to zero", id)
	}
	c := &DoughnutChart{id: id, title: title, data: data, total: total}
	c.Resize(48, 15)
	return c, nil
}

func (c *DoughnutChart) ID() string       { return c.id }
func (c *DoughnutChart) Title() string    { return c.title }
func (c *DoughnutChart) Dataset() Dataset { return c.data }

// Resize records a new drawing box.
func (c *DoughnutChart) Resize(width, height int) {
	c.width, c.height = clampBox(width, height)
}

// Render draws the ring and legend side by side.
func (c *DoughnutChart) Render() string {
	defer metrics.Timer(metrics.ChartRender)()

	legend := c.renderLegend()
	legendWidth := 0
	for _, line := range legend {
		if n := len([]rune(line)); n > legendWidth {
			legendWidth = n
		}
	}

	ringWidth := c.width - legendWidth - 2
	if ringWidth < minChartHeight {
		ringWidth = minChartHeight
	}
	grid := newCellGrid(ringWidth, c.height)
	cx := float64(ringWidth) / 2
	cy := float64(c.height) / 2
	outer := math.Min(cx, cy*2) - 1
	if outer < 3 {
		outer = 3
	}
	inner := outer * 0.55

	// Cumulative shares mark segment boundaries around the circle.
	bounds := make([]float64, len(c.data.Values)+1)
	acc := 0.0
	for i, v := range c.data.Values {
		acc += v / c.total
		bounds[i+1] = acc
	}

	for y := 0; y < c.height; y++ {
		for x := 0; x < ringWidth; x++ {
			dx := float64(x) - cx
			dy := (float64(y) - cy) * 2 // cell aspect correction
			r := math.Hypot(dx, dy)
			if r < inner || r > outer {
				continue
			}
			frac := (math.Atan2(dy, dx) + math.Pi/2) / (2 * math.Pi)
			if frac < 0 {
				frac += 1
			}
			grid.set(x, y, segmentRunes[segmentAt(bounds, frac)%len(segmentRunes)])
		}
	}

	ring := strings.Split(grid.String(), "\n")
	var b strings.Builder
	if c.title != "" {
		b.WriteString(c.title)
		b.WriteByte('\n')
	}
	for i := 0; i < c.height; i++ {
		line := ""
		if i < len(ring) {
			line = ring[i]
		}
		b.WriteString(padRight(line, ringWidth+2))
		legendIdx := i - (c.height-len(legend))/2
		if legendIdx >= 0 && legendIdx < len(legend) {
			b.WriteString(legend[legendIdx])
		}
		if i < c.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (c *DoughnutChart) renderLegend() []string {
	lines := make([]string, 0, len(c.data.Labels))
	for i, label := range c.data.Labels {
		pct := c.data.Values[i] / c.total * 100
		marker := segmentRunes[i%len(segmentRunes)]
		lines = append(lines, fmt.Sprintf("%c %s %.0f%%", marker, label, pct))
	}
	return lines
}

// segmentAt returns the segment index whose cumulative bound contains frac.
func segmentAt(bounds []float64, frac float64) int {
	for i := 1; i < len(bounds); i++ {
		if frac <= bounds[i] {
			return i - 1
		}
	}
	return len(bounds) - 2
}

func padRight(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}
