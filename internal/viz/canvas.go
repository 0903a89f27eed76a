package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
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

const blank = 0x2800

// Canvas is a grid of braille cells. Each cell carries the colour of the
// last dot set in it.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Colors        [][]lipgloss.Color
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Colors: make([][]lipgloss.Color, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Colors[i] = make([]lipgloss.Color, w)
	}
	c.Clear()
	return c
}

// DotsX and DotsY give the canvas size in sub-pixels.
func (c *Canvas) DotsX() int { return c.Width * 2 }
func (c *Canvas) DotsY() int { return c.Height * 4 }

// Set sets a pixel at (x, y) in sub-pixel coordinates. Out of range pixels
// are ignored.
func (c *Canvas) Set(x, y int) {
	c.Paint(x, y, "")
}

func (c *Canvas) Paint(x, y int, color lipgloss.Color) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if color != "" {
		c.Colors[row][col] = color
	}
}

// Disc paints a filled circle of radius r sub-pixels.
func (c *Canvas) Disc(cx, cy, r int, color lipgloss.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Paint(cx+dx, cy+dy, color)
			}
		}
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Colors[i][j] = ""
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm. The segment is clipped
// to the canvas first, so only visible dots are walked.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, color lipgloss.Color) {
	x0, y0, x1, y1, ok := c.clip(x0, y0, x1, y1)
	if !ok {
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
		c.Paint(x0, y0, color)
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

// String renders the canvas without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render renders the canvas with one style per run of equally coloured cells.
func (c *Canvas) Render() string {
	var b strings.Builder
	for i, row := range c.Grid {
		start := 0
		for j := 1; j <= len(row); j++ {
			if j < len(row) && c.Colors[i][j] == c.Colors[i][start] {
				continue
			}
			run := string(row[start:j])
			if col := c.Colors[i][start]; col != "" {
				run = lipgloss.NewStyle().Foreground(col).Render(run)
			}
			b.WriteString(run)
			start = j
		}
		b.WriteString("\n")
	}
	return b.String()
}

const (
	outLeft = 1 << iota
	outRight
	outBelow
	outAbove
)

func (c *Canvas) outcode(x, y float64) int {
	code := 0
	switch {
	case x < 0:
		code |= outLeft
	case x > float64(c.DotsX()-1):
		code |= outRight
	}
	switch {
	case y < 0:
		code |= outAbove
	case y > float64(c.DotsY()-1):
		code |= outBelow
	}
	return code
}

// clip trims a segment to the canvas with Cohen-Sutherland. It reports false
// when no part of the segment is visible.
func (c *Canvas) clip(ix0, iy0, ix1, iy1 int) (int, int, int, int, bool) {
	x0, y0, x1, y1 := float64(ix0), float64(iy0), float64(ix1), float64(iy1)
	xmax, ymax := float64(c.DotsX()-1), float64(c.DotsY()-1)
	if xmax < 0 || ymax < 0 {
		return 0, 0, 0, 0, false
	}

	c0, c1 := c.outcode(x0, y0), c.outcode(x1, y1)
	for {
		if c0|c1 == 0 {
			return int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)), true
		}
		if c0&c1 != 0 {
			return 0, 0, 0, 0, false
		}

		out := c0
		if out == 0 {
			out = c1
		}
		var x, y float64
		switch {
		case out&outBelow != 0:
			x, y = x0+(x1-x0)*(ymax-y0)/(y1-y0), ymax
		case out&outAbove != 0:
			x, y = x0+(x1-x0)*(0-y0)/(y1-y0), 0
		case out&outRight != 0:
			x, y = xmax, y0+(y1-y0)*(xmax-x0)/(x1-x0)
		default:
			x, y = 0, y0+(y1-y0)*(0-x0)/(x1-x0)
		}
		if out == c0 {
			x0, y0 = x, y
			c0 = c.outcode(x0, y0)
		} else {
			x1, y1 = x, y
			c1 = c.outcode(x1, y1)
		}
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
