package tui

import (
	"strings"

	"slidedeck/internal/models"
	"slidedeck/internal/placement"
	"slidedeck/internal/render"
)

// Screen pixels covered by one terminal cell.
const (
	cellWidth  = 8
	cellHeight = 16
)

type box struct {
	left, top, cols, rows int
}

func cellBox(st render.Style) box {
	return box{
		left: int(st.Left / cellWidth),
		top:  int(st.Top / cellHeight),
		cols: max(2, int(st.Width/cellWidth+0.5)),
		rows: max(1, int(st.Height/cellHeight+0.5)),
	}
}

type grid [][]rune

func newGrid(cols, rows int) grid {
	g := make(grid, rows)
	for i := range g {
		g[i] = []rune(strings.Repeat(" ", cols))
	}
	return g
}

func (g grid) set(col, row int, r rune) {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return
	}
	g[row][col] = r
}

func (g grid) lines() []string {
	out := make([]string, len(g))
	for i, row := range g {
		out[i] = string(row)
	}
	return out
}

// drawSlide rasterizes slide into a cols x rows character grid. The dragged
// component, if any, is drawn at its gesture position.
func drawSlide(slide *models.Slide, cols, rows int, scale placement.Scale, selected string, gesture *placement.Gesture) []string {
	g := newGrid(cols, rows)
	if slide == nil {
		return g.lines()
	}

	for _, c := range placement.PaintOrder(slide.Components) {
		if gesture != nil && gesture.ComponentID == c.ID {
			c.Properties.X, c.Properties.Y = gesture.Position()
		}
		st, ok := render.StyleFor(c, scale)
		if !ok {
			continue
		}
		drawBox(g, cellBox(st), c.ID == selected)
		drawLabel(g, cellBox(st), label(c))
	}
	return g.lines()
}

func drawBox(g grid, b box, selected bool) {
	horiz, vert, corner := '-', '|', '+'
	if selected {
		horiz, vert, corner = '=', '#', '#'
	}
	right, bottom := b.left+b.cols-1, b.top+b.rows-1

	// clear the interior so upper components hide lower ones
	for row := b.top; row <= bottom; row++ {
		for col := b.left; col <= right; col++ {
			g.set(col, row, ' ')
		}
	}
	for col := b.left; col <= right; col++ {
		g.set(col, b.top, horiz)
		g.set(col, bottom, horiz)
	}
	for row := b.top; row <= bottom; row++ {
		g.set(b.left, row, vert)
		g.set(right, row, vert)
	}
	g.set(b.left, b.top, corner)
	g.set(right, b.top, corner)
	g.set(b.left, bottom, corner)
	g.set(right, bottom, corner)
}

func drawLabel(g grid, b box, text string) {
	row := b.top + 1
	if b.rows < 3 {
		row = b.top
	}
	width := b.cols - 2
	if width <= 0 {
		return
	}
	for i, r := range []rune(text) {
		if i >= width {
			break
		}
		g.set(b.left+1+i, row, r)
	}
}

func label(c models.CanvasComponent) string {
	content := strings.Join(strings.Fields(c.Properties.Content), " ")
	switch c.ComponentType {
	case models.ComponentText:
		return content
	case models.ComponentImage:
		return "[image]"
	case models.ComponentShape:
		return "[shape]"
	case models.ComponentFormula:
		return "ƒ " + content
	}
	return ""
}
