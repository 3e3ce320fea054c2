package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/pathcanvas/pkg/geom"
	"github.com/matzehuels/pathcanvas/pkg/graph"
	"github.com/matzehuels/pathcanvas/pkg/render"
)

// Terminal cells are mapped to screen space so that a label character spans
// exactly one cell.
const (
	CellWidth  = render.CharWidth
	CellHeight = 14
)

// Cell is one terminal character with its colours.
type Cell struct {
	Rune rune
	FG   render.Color
	BG   render.Color
}

// CellSurface rasterizes draw commands into a grid of terminal cells.
// Screen coordinates are pixels of CellWidth×CellHeight cells.
type CellSurface struct {
	cols, rows int
	cells      []Cell
}

// NewCellSurface returns a blank surface of the given size.
func NewCellSurface(cols, rows int) *CellSurface {
	s := &CellSurface{}
	s.Resize(cols, rows)
	return s
}

// Resize changes the grid size and blanks it.
func (s *CellSurface) Resize(cols, rows int) {
	s.cols, s.rows = max(cols, 0), max(rows, 0)
	s.cells = make([]Cell, s.cols*s.rows)
	s.blank()
}

// Size returns the grid size in cells.
func (s *CellSurface) Size() (cols, rows int) { return s.cols, s.rows }

// Viewport returns the grid as a screen rectangle.
func (s *CellSurface) Viewport() geom.Rect {
	return geom.Rect{W: float64(s.cols * CellWidth), H: float64(s.rows * CellHeight)}
}

// CellCenter returns the screen point at the centre of a cell.
func CellCenter(col, row int) geom.Point {
	return geom.Pt((float64(col)+0.5)*CellWidth, (float64(row)+0.5)*CellHeight)
}

// cellAt returns the cell containing a screen point.
func cellAt(p geom.Point) (col, row int) {
	return int(math.Floor(p.X / CellWidth)), int(math.Floor(p.Y / CellHeight))
}

// Cell returns the cell at col, row. Out of range cells are blank.
func (s *CellSurface) Cell(col, row int) Cell {
	if !s.inside(col, row) {
		return Cell{Rune: ' '}
	}
	return s.cells[row*s.cols+col]
}

func (s *CellSurface) inside(col, row int) bool {
	return col >= 0 && row >= 0 && col < s.cols && row < s.rows
}

func (s *CellSurface) set(col, row int, r rune, fg, bg render.Color) {
	if !s.inside(col, row) {
		return
	}
	c := &s.cells[row*s.cols+col]
	c.Rune = r
	if fg != "" {
		c.FG = fg
	}
	if bg != "" {
		c.BG = bg
	}
}

func (s *CellSurface) blank() {
	for i := range s.cells {
		s.cells[i] = Cell{Rune: ' '}
	}
}

// Clear blanks the whole grid. Terminal hosts always redraw everything.
func (s *CellSurface) Clear(geom.Rect) { s.blank() }

// DrawShape fills every cell whose centre lies inside the shape. Arrowheads
// are drawn as a single pointing glyph at the tip.
func (s *CellSurface) DrawShape(sh render.Shape) {
	if sh.Role == render.RoleArrowhead && len(sh.Points) == 3 {
		s.arrowhead(sh)
		return
	}
	b := sh.Bounds()
	c0, r0 := cellAt(b.Min())
	c1, r1 := cellAt(b.Max())
	for row := max(r0, 0); row <= min(r1, s.rows-1); row++ {
		for col := max(c0, 0); col <= min(c1, s.cols-1); col++ {
			if contains(sh, CellCenter(col, row)) {
				s.set(col, row, ' ', sh.Stroke, sh.Fill)
			}
		}
	}
}

func contains(sh render.Shape, p geom.Point) bool {
	if len(sh.Points) > 0 {
		return insidePolygon(sh.Points, p)
	}
	if sh.RX <= 0 || sh.RY <= 0 {
		return false
	}
	switch sh.Kind {
	case graph.ShapeRectangle:
		return geom.RectAround(sh.Center, 2*sh.RX, 2*sh.RY).Contains(p)
	default:
		dx, dy := (p.X-sh.Center.X)/sh.RX, (p.Y-sh.Center.Y)/sh.RY
		return dx*dx+dy*dy <= 1
	}
}

// insidePolygon is the even-odd ray casting test.
func insidePolygon(poly []geom.Point, p geom.Point) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

func (s *CellSurface) arrowhead(sh render.Shape) {
	tip := sh.Points[0]
	base := geom.Midpoint(sh.Points[1], sh.Points[2])
	d := tip.Sub(base)
	var r rune
	// cells are twice as tall as wide
	if math.Abs(d.X) >= math.Abs(d.Y)*2 {
		r = '▶'
		if d.X < 0 {
			r = '◀'
		}
	} else {
		r = '▼'
		if d.Y < 0 {
			r = '▲'
		}
	}
	// step back half a cell so the glyph is not hidden by the node
	at := tip.Sub(d.Mul(CellWidth / 2 / max(d.Len(), 1)))
	col, row := cellAt(at)
	s.set(col, row, r, sh.Fill, "")
}

// DrawLine rasterizes a segment with box-drawing glyphs. Dashed lines skip
// every other cell. The segment is clipped to the grid plus a one cell
// margin first, so far away endpoints cost nothing.
func (s *CellSurface) DrawLine(l render.Line) {
	vp := s.Viewport()
	bounds := geom.Rect{X: -CellWidth, Y: -CellHeight, W: vp.W + 2*CellWidth, H: vp.H + 2*CellHeight}
	from, to, ok := geom.ClipSegment(l.From, l.To, bounds)
	if !ok {
		return
	}
	c0, r0 := cellAt(from)
	c1, r1 := cellAt(to)
	glyph := lineGlyph(l.To.Sub(l.From))
	if l.Dashed && l.Role == render.RoleGuide {
		glyph = '┄'
		if l.From.X == l.To.X {
			glyph = '┆'
		}
	}

	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := sign(c1-c0), sign(r1-r0)
	e := dc + dr
	for i := 0; ; i++ {
		if !l.Dashed || i%2 == 0 {
			s.set(c0, r0, glyph, l.Color, "")
		}
		if c0 == c1 && r0 == r1 {
			return
		}
		if e2 := 2 * e; e2 >= dr {
			e += dr
			c0 += sc
		} else {
			e += dc
			r0 += sr
		}
	}
}

func lineGlyph(d geom.Point) rune {
	// compare in cell units
	dx, dy := d.X/CellWidth, d.Y/CellHeight
	switch {
	case math.Abs(dy) < math.Abs(dx)/2:
		return '─'
	case math.Abs(dx) < math.Abs(dy)/2:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

// DrawText writes the content centred on its anchor, keeping the background
// of the cells underneath unless the text has its own.
func (s *CellSurface) DrawText(t render.Text) {
	runes := []rune(t.Content)
	col, row := cellAt(t.At)
	col -= len(runes) / 2
	for i, r := range runes {
		s.set(col+i, row, r, t.Color, t.Background)
	}
}

// String returns the grid as plain text, one line per row with trailing
// spaces removed.
func (s *CellSurface) String() string {
	var b strings.Builder
	for row := range s.rows {
		line := make([]rune, s.cols)
		for col := range s.cols {
			line[col] = s.cells[row*s.cols+col].Rune
		}
		b.WriteString(strings.TrimRight(string(line), " "))
		if row < s.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// View renders the grid with lipgloss colours. Runs of cells sharing colours
// are styled together.
func (s *CellSurface) View() string {
	var b strings.Builder
	for row := range s.rows {
		start := 0
		for col := 1; col <= s.cols; col++ {
			cur := s.cells[row*s.cols+start]
			if col < s.cols {
				next := s.cells[row*s.cols+col]
				if next.FG == cur.FG && next.BG == cur.BG {
					continue
				}
			}
			run := make([]rune, 0, col-start)
			for i := start; i < col; i++ {
				run = append(run, s.cells[row*s.cols+i].Rune)
			}
			b.WriteString(cellStyle(cur).Render(string(run)))
			start = col
		}
		if row < s.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func cellStyle(c Cell) lipgloss.Style {
	st := lipgloss.NewStyle()
	if c.FG != "" {
		st = st.Foreground(lipgloss.Color(c.FG))
	}
	if c.BG != "" {
		st = st.Background(lipgloss.Color(c.BG))
	}
	return st
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

var _ render.Surface = (*CellSurface)(nil)
