package viz

import (
	"math"
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set sets a pixel at (x, y) in sub-pixel coordinates. The canvas size in
// sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// Plane maps the square [-extent, extent]² onto the canvas, y up.
type Plane struct {
	*Canvas
	Extent float64
}

func NewPlane(w, h int, extent float64) *Plane {
	return &Plane{Canvas: NewCanvas(w, h), Extent: extent}
}

// Project converts plane coordinates to sub-pixels. ok is false outside
// the visible square.
func (p *Plane) Project(x, y float64) (px, py int, ok bool) {
	if x < -p.Extent || x > p.Extent || y < -p.Extent || y > p.Extent {
		return 0, 0, false
	}
	sw := float64(p.Width*2 - 1)
	sh := float64(p.Height*4 - 1)
	px = int((x + p.Extent) / (2 * p.Extent) * sw)
	py = int((p.Extent - y) / (2 * p.Extent) * sh)
	return px, py, true
}

func (p *Plane) Dot(x, y float64) {
	if px, py, ok := p.Project(x, y); ok {
		p.Set(px, py)
	}
}

// Cross marks a 3x3 sub-pixel plus at (x, y).
func (p *Plane) Cross(x, y float64) {
	px, py, ok := p.Project(x, y)
	if !ok {
		return
	}
	p.Set(px, py)
	p.Set(px-1, py)
	p.Set(px+1, py)
	p.Set(px, py-1)
	p.Set(px, py+1)
}

// Line draws a segment between two plane points using Bresenham's algorithm.
func (p *Plane) Line(x0f, y0f, x1f, y1f float64) {
	x0, y0, ok0 := p.Project(x0f, y0f)
	x1, y1, ok1 := p.Project(x1f, y1f)
	if !ok0 || !ok1 {
		return
	}

	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		p.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

// Scatter plots points on a w x h braille canvas fitted to their bounds with a
// 10% margin. Axes are dotted in where zero is visible.
func Scatter(points [][2]float64, w, h int) string {
	if len(points) == 0 || w <= 0 || h <= 0 {
		return ""
	}

	minX, maxX := points[0][0], points[0][0]
	minY, maxY := points[0][1], points[0][1]
	for _, pt := range points {
		minX, maxX = math.Min(minX, pt[0]), math.Max(maxX, pt[0])
		minY, maxY = math.Min(minY, pt[1]), math.Max(maxY, pt[1])
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX, maxX = minX-rangeX*0.1, maxX+rangeX*0.1
	minY, maxY = minY-rangeY*0.1, maxY+rangeY*0.1

	c := NewCanvas(w, h)
	sw, sh := float64(w*2-1), float64(h*4-1)
	toX := func(x float64) int { return int((x - minX) / (maxX - minX) * sw) }
	toY := func(y float64) int { return int((maxY - y) / (maxY - minY) * sh) }

	if minX <= 0 && maxX >= 0 {
		for py := 0; py < h*4; py += 2 {
			c.Set(toX(0), py)
		}
	}
	if minY <= 0 && maxY >= 0 {
		for px := 0; px < w*2; px += 2 {
			c.Set(px, toY(0))
		}
	}
	for _, pt := range points {
		c.Set(toX(pt[0]), toY(pt[1]))
	}
	return c.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
