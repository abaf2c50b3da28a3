// Package export writes sampled curves to files.
package export

import (
	"fmt"
	"html"
	"io"
	"math"
	"strings"

	"github.com/san-kum/derivlab/internal/eval"
	"github.com/san-kum/derivlab/internal/viz"
)

type Curve struct {
	Label  string
	Color  string
	Series eval.Series
}

type SVGOptions struct {
	Width, Height int
	XMin, XMax    float64
	Title         string
}

// SeriesToSVG renders the curves on shared axes. Each curve is a single path
// whose subpaths restart after NaN or infinite samples.
func SeriesToSVG(curves []Curve, opts SVGOptions) string {
	w, h := float64(opts.Width), float64(opts.Height)
	series := make([]eval.Series, len(curves))
	for i, c := range curves {
		series[i] = c.Series
	}
	vp := viz.FitViewport(opts.XMin, opts.XMax, series...)
	sx := func(x float64) float64 { return (x - vp.XMin) / (vp.XMax - vp.XMin) * w }
	sy := func(y float64) float64 { return h - (y-vp.YMin)/(vp.YMax-vp.YMin)*h }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, opts.Width, opts.Height, opts.Width, opts.Height))

	if vp.YMin <= 0 && vp.YMax >= 0 {
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#444466" stroke-width="0.5"/>
`, sy(0), opts.Width, sy(0)))
	}
	if vp.XMin <= 0 && vp.XMax >= 0 {
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="0" x2="%.1f" y2="%d" stroke="#444466" stroke-width="0.5"/>
`, sx(0), sx(0), opts.Height))
	}

	for i, c := range curves {
		d := pathData(c.Series.Points, sx, sy)
		if d == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="%s"/>
`, c.Color, d))
		sb.WriteString(fmt.Sprintf(`<text x="8" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 18+16*i, c.Color, html.EscapeString(c.Label)))
	}
	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="18" fill="#ffffff" font-family="monospace" font-size="12" text-anchor="end">%s</text>
`, opts.Width-8, html.EscapeString(opts.Title)))
	}
	sb.WriteString("</svg>\n")
	return sb.String()
}

func pathData(pts []eval.Point, sx, sy func(float64) float64) string {
	var sb strings.Builder
	pen := false
	for _, p := range pts {
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			pen = false
			continue
		}
		cmd := "L"
		if !pen {
			cmd = "M"
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(fmt.Sprintf("%s%.1f,%.1f", cmd, sx(p.X), sy(p.Y)))
		pen = true
	}
	return sb.String()
}

// WriteSVG renders f and its derivative with the default colours.
func WriteSVG(w io.Writer, fs, dfs eval.Series, fLabel, dfLabel string, opts SVGOptions) error {
	svg := SeriesToSVG([]Curve{
		{Label: fLabel, Color: "#00ccff", Series: fs},
		{Label: dfLabel, Color: "#ff5f87", Series: dfs},
	}, opts)
	_, err := io.WriteString(w, svg)
	return err
}
