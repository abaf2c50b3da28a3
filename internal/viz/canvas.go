package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/derivlab/internal/eval"
)

// Braille cells are 2 dots wide and 4 tall:
//
//	1 4
//	2 5
//	3 6
//	7 8
const brailleBlank = 0x2800

var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of Braille cells addressed in dots. Each cell remembers
// the layer that last drew into it so curves can be coloured separately.
type Canvas struct {
	Width, Height int
	cells         []rune
	layers        []int
	layer         int
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		cells:  make([]rune, w*h),
		layers: make([]int, w*h),
	}
	c.Clear()
	return c
}

// DotsX and DotsY give the canvas size in dots.
func (c *Canvas) DotsX() int { return c.Width * 2 }
func (c *Canvas) DotsY() int { return c.Height * 4 }

// SetLayer selects the layer recorded by subsequent drawing.
func (c *Canvas) SetLayer(l int) { c.layer = l }

func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 || x >= c.DotsX() || y >= c.DotsY() {
		return
	}
	i := (y/4)*c.Width + x/2
	c.cells[i] |= dotBits[y%4][x%2]
	c.layers[i] = c.layer
}

func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = brailleBlank
		c.layers[i] = 0
	}
}

// DrawLine draws with Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Viewport maps data coordinates onto the canvas.
type Viewport struct {
	XMin, XMax float64
	YMin, YMax float64
}

// FitViewport spans the x range and the finite y values of every series with
// a 10% margin. With no finite values it falls back to [-10, 10].
func FitViewport(xMin, xMax float64, series ...eval.Series) Viewport {
	vp := Viewport{XMin: xMin, XMax: xMax, YMin: math.Inf(1), YMax: math.Inf(-1)}
	for _, s := range series {
		if lo, hi, ok := s.Bounds(); ok {
			vp.YMin = math.Min(vp.YMin, lo)
			vp.YMax = math.Max(vp.YMax, hi)
		}
	}
	if math.IsInf(vp.YMin, 0) {
		vp.YMin, vp.YMax = -10, 10
	}
	margin := (vp.YMax - vp.YMin) * 0.1
	if margin == 0 {
		margin = 1
	}
	vp.YMin -= margin
	vp.YMax += margin
	if vp.XMax == vp.XMin {
		vp.XMin, vp.XMax = vp.XMin-1, vp.XMax+1
	}
	return vp
}

func (c *Canvas) project(vp Viewport, x, y float64) (int, int) {
	px := (x - vp.XMin) / (vp.XMax - vp.XMin) * float64(c.DotsX()-1)
	py := (vp.YMax - y) / (vp.YMax - vp.YMin) * float64(c.DotsY()-1)
	return int(math.Round(px)), int(math.Round(py))
}

// DrawAxes draws the lines x=0 and y=0 when they fall inside vp.
func (c *Canvas) DrawAxes(vp Viewport) {
	if vp.YMin <= 0 && vp.YMax >= 0 {
		_, y := c.project(vp, 0, 0)
		c.DrawLine(0, y, c.DotsX()-1, y)
	}
	if vp.XMin <= 0 && vp.XMax >= 0 {
		x, _ := c.project(vp, 0, 0)
		c.DrawLine(x, 0, x, c.DotsY()-1)
	}
}

// Plot connects consecutive finite points. NaN and infinite values break the
// line, as do segments that leave the viewport vertically.
func (c *Canvas) Plot(vp Viewport, pts []eval.Point) {
	havePrev := false
	var px, py int
	for _, p := range pts {
		if math.IsNaN(p.Y) || math.IsInf(p.Y, 0) || p.Y < vp.YMin || p.Y > vp.YMax {
			havePrev = false
			continue
		}
		x, y := c.project(vp, p.X, p.Y)
		if havePrev {
			c.DrawLine(px, py, x, y)
		} else {
			c.Set(x, y)
		}
		px, py, havePrev = x, y, true
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		b.WriteString(string(c.cells[row*c.Width : (row+1)*c.Width]))
		b.WriteByte('\n')
	}
	return b.String()
}

// Render styles each cell by the layer that drew it. Layers without a style
// are left plain.
func (c *Canvas) Render(styles map[int]lipgloss.Style) string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			i := row*c.Width + col
			cell := string(c.cells[i])
			if st, ok := styles[c.layers[i]]; ok && c.cells[i] != brailleBlank {
				cell = st.Render(cell)
			}
			b.WriteString(cell)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
