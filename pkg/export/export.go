// Package export renders registered charts to standalone image files so a
// deck's figures can be reused outside the terminal.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/kamilov2/presentation/pkg/charts"
	"github.com/kamilov2/presentation/pkg/debug"
)

// Format selects the output encoding.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatSVG, FormatPNG:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown export format %q (want svg or png)", s)
	}
}

// Charts renders every registered chart into outDir, one file per chart,
// named <id>.<format>. Charts render concurrently; per-chart failures are
// collected and reported together, and one failure does not stop siblings.
func Charts(ctx context.Context, reg *charts.Registry, outDir string, format Format) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	all := reg.Charts()
	if len(all) == 0 {
		return fmt.Errorf("no charts registered")
	}

	// No errgroup.WithContext here: a failing chart must not cancel its
	// siblings. Each goroutine records its own error and all of them are
	// reported together.
	var g errgroup.Group
	errs := make([]error, len(all))
	for i, c := range all {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			path := filepath.Join(outDir, c.ID()+"."+string(format))
			var err error
			switch format {
			case FormatPNG:
				err = writePNG(c, path)
			default:
				err = writeSVG(c, path)
			}
			if err != nil {
				errs[i] = fmt.Errorf("exporting %s: %w", c.ID(), err)
				return nil
			}
			debug.Log("exported %s", path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

// palette is the shared segment/axis color convention.
var palette = []string{"#BD93F9", "#50FA7B", "#8BE9FD", "#FFB86C", "#FF5555", "#6272A4"}

// paletteRGB returns the palette entry as 0..1 components for gg.
func paletteRGB(i int) (float64, float64, float64) {
	hex := palette[i%len(palette)]
	var r, g, b int
	fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &b)
	return float64(r) / 255, float64(g) / 255, float64(b) / 255
}
