package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/numbattle/internal/layout"
	"github.com/verte-zerg/numbattle/internal/model"
)

type styledCell struct {
	s     string
	width int
}

// canvas is a fixed grid of terminal cells. A wide rune occupies its cell and
// leaves the following cell empty.
type canvas struct {
	width  int
	height int
	rows   [][]styledCell
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: max(width, 1), height: max(height, 1)}
	c.rows = make([][]styledCell, c.height)
	for y := range c.rows {
		c.rows[y] = make([]styledCell, c.width)
		for x := range c.rows[y] {
			c.rows[y][x] = styledCell{s: " ", width: 1}
		}
	}
	return c
}

// place writes text starting at column x of row y, clipping at the edges.
func (c *canvas) place(x, y int, text string, style lipgloss.Style) {
	if y < 0 || y >= c.height {
		return
	}
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x >= 0 && x+w <= c.width {
			c.rows[y][x] = styledCell{s: style.Render(string(r)), width: w}
			for i := 1; i < w; i++ {
				c.rows[y][x+i] = styledCell{}
			}
		}
		x += w
	}
}

func (c *canvas) render() string {
	lines := make([]string, c.height)
	for y, row := range c.rows {
		var b strings.Builder
		for _, cell := range row {
			b.WriteString(cell.s)
		}
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

// toCell maps an arena position to a canvas cell. The arena center maps to the
// canvas center and positions outside the arena are clamped to the border.
func toCell(pos model.Vec, width, height int) (int, int) {
	fx := (pos.X + layout.ArenaWidth/2) / layout.ArenaWidth
	fy := (pos.Y + layout.ArenaHeight/2) / layout.ArenaHeight
	col := int(math.Round(clamp01(fx) * float64(width-1)))
	row := int(math.Round(clamp01(fy) * float64(height-1)))
	return col, row
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// targetLabel is the text drawn for the target picked with key index+1.
func targetLabel(index int, t model.Target) string {
	switch {
	case t.Destroyed:
		return fmt.Sprintf("✔ %d", t.Value)
	case t.Hit:
		return fmt.Sprintf("✘ %d", t.Value)
	default:
		return fmt.Sprintf("[%d] %d", index+1, t.Value)
	}
}

func targetStyle(t model.Target) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(t.Color))
	if t.Hit && !t.Destroyed {
		style = style.Faint(true).Strikethrough(true)
	}
	return style
}

// renderArena draws targets at their positions after elapsed seconds of motion.
// Labels are centered on the target position.
func renderArena(targets []model.Target, elapsed float64, width, height int) string {
	c := newCanvas(width, height)
	for i, t := range targets {
		label := targetLabel(i, t)
		col, row := toCell(layout.Position(t, elapsed), c.width, c.height)
		col -= runewidth.StringWidth(label) / 2
		col = max(0, min(col, c.width-runewidth.StringWidth(label)))
		c.place(col, row, label, targetStyle(t))
	}
	return arenaBorder.Render(c.render())
}
