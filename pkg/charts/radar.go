package charts

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/kamilov2/presentation/pkg/metrics"
)

// RadarChart plots each labeled value as a vertex at a fixed angle, scaled
// radially by value/max, with the vertices joined into a polygon on a cell
// grid. Terminal cells are roughly twice as tall as wide, so the vertical
// axis is compressed by half when plotting.
type RadarChart struct {
	id     string
	title  string
	data   Dataset
	width  int
	height int
	max    float64
}

// NewRadar constructs a radar chart. The dataset needs at least three axes.
func NewRadar(id, title string, data Dataset) (*RadarChart, error) {
	if err := data.validate(); err != nil {
		return nil, fmt.Errorf("radar %q: %w", id, err)
	}
	if len(data.Values) < 3 {
		return nil, fmt.Errorf("radar %q: needs at least 3 axes, got %d", id, len(data.Values))
	}
	max := data.Max
	if max <= 0 {
		max = floats.Max(data.Values)
	}
	if max <= 0 {
		return nil, fmt.Errorf("radar %q: all values are zero", id)
	}
	c := &RadarChart{id: id, title: title, data: data, max: max}
	c.Resize(48, 15)
	return c, nil
}

func (c *RadarChart) ID() string       { return c.id }
func (c *RadarChart) Title() string    { return c.title }
func (c *RadarChart) Dataset() Dataset { return c.data }

// Resize records a new drawing box.
func (c *RadarChart) Resize(width, height int) {
	c.width, c.height = clampBox(width, height)
}

// Render draws the polygon and axis labels.
func (c *RadarChart) Render() string {
	defer metrics.Timer(metrics.ChartRender)()

	grid := newCellGrid(c.width, c.height)
	cx := float64(c.width) / 2
	cy := float64(c.height) / 2
	// Leave margin for labels around the plot.
	radius := math.Min(cx-10, cy-1)
	if radius < 2 {
		radius = 2
	}

	n := len(c.data.Values)
	pts := make([][2]int, n)
	for i, v := range c.data.Values {
		angle := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
		r := radius * (v / c.max)
		pts[i] = [2]int{
			int(math.Round(cx + math.Cos(angle)*r)),
			int(math.Round(cy + math.Sin(angle)*r/2)),
		}

		// Axis spoke endpoint carries the label.
		lx := int(math.Round(cx + math.Cos(angle)*radius))
		ly := int(math.Round(cy + math.Sin(angle)*radius/2))
		grid.set(lx, ly, '+')
		grid.label(lx, ly, c.data.Labels[i], cx)
	}

	for i := range pts {
		next := pts[(i+1)%n]
		grid.line(pts[i][0], pts[i][1], next[0], next[1], '·')
	}
	for _, p := range pts {
		grid.set(p[0], p[1], '●')
	}
	grid.set(int(cx), int(cy), '┼')

	var b strings.Builder
	if c.title != "" {
		b.WriteString(c.title)
		b.WriteByte('\n')
	}
	b.WriteString(grid.String())
	return b.String()
}

// cellGrid is a rune canvas for chart plotting.
type cellGrid struct {
	w, h  int
	cells []rune
}

func newCellGrid(w, h int) *cellGrid {
	g := &cellGrid{w: w, h: h, cells: make([]rune, w*h)}
	for i := range g.cells {
		g.cells[i] = ' '
	}
	return g
}

func (g *cellGrid) set(x, y int, r rune) {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		return
	}
	g.cells[y*g.w+x] = r
}

// label writes text next to an anchor, flowing away from the plot center.
func (g *cellGrid) label(x, y int, text string, cx float64) {
	runes := []rune(text)
	if float64(x) < cx {
		x -= len(runes) + 1
	} else {
		x += 2
	}
	for i, r := range runes {
		g.set(x+i, y, r)
	}
}

// line draws with a shallow Bresenham walk, skipping occupied cells so
// vertices and labels stay visible.
func (g *cellGrid) line(x0, y0, x1, y1 int, r rune) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if g.at(x0, y0) == ' ' {
			g.set(x0, y0, r)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func (g *cellGrid) at(x, y int) rune {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		return 0
	}
	return g.cells[y*g.w+x]
}

func (g *cellGrid) String() string {
	var b strings.Builder
	for y := 0; y < g.h; y++ {
		row := string(g.cells[y*g.w : (y+1)*g.w])
		b.WriteString(strings.TrimRight(row, " "))
		if y < g.h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
