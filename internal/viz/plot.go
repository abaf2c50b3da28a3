package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/derivlab/internal/eval"
)

type GraphOptions struct {
	Width   int
	Height  int
	Caption string
	Color   asciigraph.AnsiColor
}

// Thin picks at most width values spread evenly over ys. Infinite values
// become NaN so asciigraph leaves a gap.
func Thin(ys []float64, width int) []float64 {
	n := len(ys)
	if width <= 0 || n <= width {
		width = n
	}
	out := make([]float64, width)
	for i := range out {
		j := i
		if width > 1 && n != width {
			j = int(math.Round(float64(i) * float64(n-1) / float64(width-1)))
		}
		v := ys[j]
		if math.IsInf(v, 0) {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}

// Graph renders a series with asciigraph. A series with no finite value is
// reported in text instead.
func Graph(s eval.Series, opts GraphOptions) string {
	if _, _, ok := s.Bounds(); !ok {
		return fmt.Sprintf("%s: no finite values in range\n", opts.Caption)
	}
	data := Thin(s.Ys(), opts.Width)
	options := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Precision(3),
		asciigraph.Caption(opts.Caption),
	}
	if opts.Color != asciigraph.Default {
		options = append(options, asciigraph.SeriesColors(opts.Color))
	}
	return asciigraph.Plot(data, options...) + "\n"
}

// GraphPair stacks f above its derivative, one graph each.
func GraphPair(fs, dfs eval.Series, fLabel, dfLabel string, width, height int) string {
	var b strings.Builder
	b.WriteString(Graph(fs, GraphOptions{Width: width, Height: height, Caption: fLabel, Color: asciigraph.Blue}))
	b.WriteString("\n")
	b.WriteString(Graph(dfs, GraphOptions{Width: width, Height: height, Caption: dfLabel, Color: asciigraph.Red}))
	return b.String()
}
