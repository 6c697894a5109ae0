package export

import (
	"fmt"
	"math"

	"git.sr.ht/~sbinet/gg"

	"github.com/kamilov2/presentation/pkg/charts"
)

const pngSize = 640

// writePNG renders one chart to a PNG file.
func writePNG(c charts.Chart, path string) error {
	dc := gg.NewContext(pngSize, pngSize)
	dc.SetHexColor("#282A36")
	dc.Clear()

	dc.SetHexColor("#F8F8F2")
	dc.DrawStringAnchored(c.Title(), pngSize/2, 36, 0.5, 0.5)

	switch c.(type) {
	case *charts.DoughnutChart:
		pngDoughnut(dc, c.Dataset())
	default:
		pngRadar(dc, c.Dataset())
	}

	return dc.SavePNG(path)
}

func pngRadar(dc *gg.Context, d charts.Dataset) {
	cx, cy := float64(pngSize)/2, float64(pngSize)/2+20
	radius := float64(pngSize)/2 - 90
	max := d.Max
	if max <= 0 {
		for _, v := range d.Values {
			if v > max {
				max = v
			}
		}
	}

	n := len(d.Values)

	// Spokes and labels.
	dc.SetHexColor("#44475A")
	dc.SetLineWidth(1)
	for i := range d.Values {
		angle := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
		lx := cx + math.Cos(angle)*radius
		ly := cy + math.Sin(angle)*radius
		dc.DrawLine(cx, cy, lx, ly)
		dc.Stroke()

		dc.SetHexColor("#BFBFBF")
		ax := 0.5 + math.Cos(angle)*0.6
		dc.DrawStringAnchored(d.Labels[i], lx, ly-10, ax, 0.5)
		dc.SetHexColor("#44475A")
	}

	// Value polygon.
	for i, v := range d.Values {
		angle := 2*math.Pi*float64(i)/float64(n) - math.Pi/2
		r := radius * (v / max)
		x := cx + math.Cos(angle)*r
		y := cy + math.Sin(angle)*r
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	dc.SetRGBA(0.74, 0.58, 0.98, 0.35)
	dc.FillPreserve()
	dc.SetHexColor("#BD93F9")
	dc.SetLineWidth(2)
	dc.Stroke()
}

func pngDoughnut(dc *gg.Context, d charts.Dataset) {
	cx, cy := float64(pngSize)/2, float64(pngSize)/2+20
	outer := float64(pngSize)/2 - 90
	inner := outer * 0.55

	total := 0.0
	for _, v := range d.Values {
		total += v
	}

	start := -math.Pi / 2
	for i, v := range d.Values {
		sweep := 2 * math.Pi * (v / total)
		end := start + sweep

		dc.MoveTo(cx+math.Cos(start)*inner, cy+math.Sin(start)*inner)
		dc.LineTo(cx+math.Cos(start)*outer, cy+math.Sin(start)*outer)
		dc.DrawArc(cx, cy, outer, start, end)
		dc.LineTo(cx+math.Cos(end)*inner, cy+math.Sin(end)*inner)
		arcBack(dc, cx, cy, inner, end, start)
		dc.ClosePath()
		r, g, b := paletteRGB(i)
		dc.SetRGB(r, g, b)
		dc.Fill()

		mid := start + sweep/2
		lr := outer + 26
		dc.SetHexColor("#BFBFBF")
		ax := 0.5 - math.Cos(mid)*0.5
		dc.DrawStringAnchored(labelWithShare(d.Labels[i], v/total), cx+math.Cos(mid)*lr, cy+math.Sin(mid)*lr, ax, 0.5)

		start = end
	}
}

// arcBack appends a reversed arc to the current path, closing the inner edge
// of an annular sector.
func arcBack(dc *gg.Context, cx, cy, r, from, to float64) {
	const step = math.Pi / 90
	for a := from; a > to; a -= step {
		dc.LineTo(cx+math.Cos(a)*r, cy+math.Sin(a)*r)
	}
	dc.LineTo(cx+math.Cos(to)*r, cy+math.Sin(to)*r)
}

func labelWithShare(label string, share float64) string {
	return fmt.Sprintf("%s %.0f%%", label, share*100)
}
