package export

import (
	"fmt"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/kamilov2/presentation/pkg/charts"
)

const (
	svgSize   = 480
	svgMargin = 60
)

// writeSVG renders one chart to an SVG file.
func writeSVG(c charts.Chart, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	canvas := svg.New(f)
	canvas.Start(svgSize, svgSize)
	canvas.Rect(0, 0, svgSize, svgSize, "fill:#282A36")
	canvas.Text(svgSize/2, 32, c.Title(), "text-anchor:middle;font-size:20px;fill:#F8F8F2;font-family:sans-serif")

	switch c.(type) {
	case *charts.DoughnutChart:
		svgDoughnut(canvas, c.Dataset())
	default:
		svgRadar(canvas, c.Dataset())
	}

	canvas.End()
	return nil
}

func svgRadar(canvas *svg.SVG, d charts.Dataset) {
	cx, cy := svgSize/2, svgSize/2+16
	radius := float64(svgSize/2 - svgMargin)
	max := d.Max
	if max <= 0 {
		for _, v := range d.Values {
			if v > max {
				max = v
			}
		}
	}

	n := len(d.Values)
	xs := make([]int, n)
	ys := make([]int, n)
	for i, v := range d.Values {
		angle := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
		r := radius * (v / max)
		xs[i] = cx + int(math.Cos(angle)*r)
		ys[i] = cy + int(math.Sin(angle)*r)

		// Spokes and labels at full radius.
		lx := cx + int(math.Cos(angle)*radius)
		ly := cy + int(math.Sin(angle)*radius)
		canvas.Line(cx, cy, lx, ly, "stroke:#44475A;stroke-width:1")
		anchor := "middle"
		if lx > cx+4 {
			anchor = "start"
		} else if lx < cx-4 {
			anchor = "end"
		}
		canvas.Text(lx, ly-6, d.Labels[i],
			fmt.Sprintf("text-anchor:%s;font-size:13px;fill:#BFBFBF;font-family:sans-serif", anchor))
	}

	canvas.Polygon(xs, ys, "fill:#BD93F955;stroke:#BD93F9;stroke-width:2")
	for i := range xs {
		canvas.Circle(xs[i], ys[i], 4, "fill:#BD93F9")
	}
}

func svgDoughnut(canvas *svg.SVG, d charts.Dataset) {
	cx, cy := float64(svgSize)/2, float64(svgSize)/2+16
	outer := float64(svgSize/2 - svgMargin)
	inner := outer * 0.55

	total := 0.0
	for _, v := range d.Values {
		total += v
	}

	start := -math.Pi / 2
	for i, v := range d.Values {
		sweep := 2 * math.Pi * (v / total)
		end := start + sweep
		canvas.Path(annularSector(cx, cy, inner, outer, start, end),
			fmt.Sprintf("fill:%s", palette[i%len(palette)]))

		mid := start + sweep/2
		lr := outer + 18
		lx := cx + math.Cos(mid)*lr
		ly := cy + math.Sin(mid)*lr
		anchor := "start"
		if lx < cx {
			anchor = "end"
		}
		canvas.Text(int(lx), int(ly), fmt.Sprintf("%s %.0f%%", d.Labels[i], v/total*100),
			fmt.Sprintf("text-anchor:%s;font-size:13px;fill:#BFBFBF;font-family:sans-serif", anchor))

		start = end
	}
}

// annularSector builds the SVG path for one doughnut segment.
func annularSector(cx, cy, inner, outer, a0, a1 float64) string {
	large := 0
	if a1-a0 > math.Pi {
		large = 1
	}
	x0, y0 := cx+math.Cos(a0)*outer, cy+math.Sin(a0)*outer
	x1, y1 := cx+math.Cos(a1)*outer, cy+math.Sin(a1)*outer
	x2, y2 := cx+math.Cos(a1)*inner, cy+math.Sin(a1)*inner
	x3, y3 := cx+math.Cos(a0)*inner, cy+math.Sin(a0)*inner
	return fmt.Sprintf("M%.2f,%.2f A%.2f,%.2f 0 %d 1 %.2f,%.2f L%.2f,%.2f A%.2f,%.2f 0 %d 0 %.2f,%.2f Z",
		x0, y0, outer, outer, large, x1, y1, x2, y2, inner, inner, large, x3, y3)
}
