package render

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/matzehuels/pathcanvas/pkg/geom"
	"github.com/matzehuels/pathcanvas/pkg/graph"
	"github.com/matzehuels/pathcanvas/pkg/snap"
)

// Node box metrics in logical units. A node is as wide as its label plus
// padding, and never narrower than MinNodeWidth.
const (
	NodeHeight   = 30.0
	MinNodeWidth = 50.0
	NodePadding  = 10.0
	CharWidth    = 7.0

	// R2Offset is the gap between a node's outline and its R² text.
	R2Offset = 15.0
)

// Line widths in screen units.
const (
	EdgeWidth    = 2.0
	GuideWidth   = 1.0
	OutlineWidth = 1.0
	HoverWidth   = 3.0
)

// Palette holds the colours of a frame.
type Palette struct {
	NodeDefault    Color
	NodeAllowed    Color
	NodeNotAllowed Color
	Arrow          Color
	Font           Color
	Guide          Color
	Background     Color
	LabelBox       Color
}

// DefaultPalette returns the stock colours.
func DefaultPalette() Palette {
	return Palette{
		NodeDefault:    "#faf9f6",
		NodeAllowed:    "#90e4c1",
		NodeNotAllowed: "#ffcccb",
		Arrow:          "#000000",
		Font:           "#000000",
		Guide:          "#3b8ed0",
		Background:     "#ffffff",
		LabelBox:       "#faf9f6",
	}
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithPalette sets the colours. Empty fields keep their defaults.
func WithPalette(p Palette) Option {
	return func(r *Renderer) {
		def := r.palette
		r.palette = p
		fill(&r.palette.NodeDefault, def.NodeDefault)
		fill(&r.palette.NodeAllowed, def.NodeAllowed)
		fill(&r.palette.NodeNotAllowed, def.NodeNotAllowed)
		fill(&r.palette.Arrow, def.Arrow)
		fill(&r.palette.Font, def.Font)
		fill(&r.palette.Guide, def.Guide)
		fill(&r.palette.Background, def.Background)
		fill(&r.palette.LabelBox, def.LabelBox)
	}
}

// WithFontSize sets the label size at scale 1.
func WithFontSize(size float64) Option {
	return func(r *Renderer) {
		if size > 0 {
			r.fontSize = size
		}
	}
}

func fill(c *Color, def Color) {
	if *c == "" {
		*c = def
	}
}

// Renderer converts frames into draw commands. It holds only appearance
// settings and is safe to reuse across frames.
type Renderer struct {
	palette  Palette
	fontSize float64
}

// NewRenderer creates a renderer with the default palette.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{palette: DefaultPalette(), fontSize: 9}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Palette returns the renderer's colours.
func (r *Renderer) Palette() Palette { return r.palette }

// Render draws f on s.
func (r *Renderer) Render(s Surface, f Frame) int {
	cmds := r.BuildCommands(f)
	for _, c := range cmds {
		c.Apply(s)
	}
	return len(cmds)
}

// BuildCommands returns the draw commands for f in paint order.
func (r *Renderer) BuildCommands(f Frame) []Command {
	t := f.Transform
	if t.Scale <= 0 {
		t = geom.Identity()
	}
	b := builder{r: r, f: f, t: t}
	b.add(Command{Kind: CmdClear, Clear: f.Viewport})

	for _, g := range f.Guides {
		b.guide(g)
	}
	nodes := make(map[graph.NodeID]graph.Node, len(f.Nodes))
	for _, n := range f.Nodes {
		nodes[n.ID] = n
	}
	for _, e := range f.Edges {
		src, okS := nodes[e.Source]
		dst, okT := nodes[e.Target]
		if okS && okT {
			b.edge(e, src, dst)
		}
	}
	if f.Pending != nil {
		if src, ok := nodes[f.Pending.Source]; ok {
			b.pending(src, f.Pending.Pointer)
		}
	}
	for _, n := range f.Nodes {
		b.node(n)
	}
	if f.Feedback != nil && f.Feedback.Reason != "" {
		b.feedback(nodes)
	}
	return b.cmds
}

type builder struct {
	r    *Renderer
	f    Frame
	t    geom.Transform
	cmds []Command
}

func (b *builder) add(c Command) { b.cmds = append(b.cmds, c) }

func (b *builder) fontSize() float64 {
	return math.Max(2, b.r.fontSize*b.t.Scale)
}

func (b *builder) guide(g snap.Guide) {
	vp := b.f.Viewport
	var from, to geom.Point
	if g.Axis == snap.AxisX {
		x := b.t.ToScreen(geom.Pt(g.Coordinate, 0)).X
		from, to = geom.Pt(x, vp.Y), geom.Pt(x, vp.Y+vp.H)
	} else {
		y := b.t.ToScreen(geom.Pt(0, g.Coordinate)).Y
		from, to = geom.Pt(vp.X, y), geom.Pt(vp.X+vp.W, y)
	}
	b.add(Command{Kind: CmdLine, Line: Line{
		From: from, To: to, Color: b.r.palette.Guide, Width: GuideWidth, Dashed: true, Role: RoleGuide,
	}})
}

func (b *builder) edge(e graph.Edge, src, dst graph.Node) {
	sc := b.t.ToScreen(src.Position)
	dc := b.t.ToScreen(dst.Position)
	start := Clip(src, sc, b.t.Scale, dc)
	end := Clip(dst, dc, b.t.Scale, sc)
	col := b.r.palette.Arrow

	b.add(Command{Kind: CmdLine, Line: Line{
		From: start, To: end, Color: col, Width: EdgeWidth, Edge: e.ID, Role: RoleEdge,
	}})
	head := geom.Arrowhead(end, start, geom.ArrowLength, geom.ArrowHalfWidth)
	b.add(Command{Kind: CmdShape, Shape: Shape{
		Kind: graph.ShapePolygon, Points: head[:], Fill: col, Stroke: col, StrokeWidth: OutlineWidth, Role: RoleArrowhead,
	}})
	if text := e.Label + e.Meta.Text(graph.MetaSignificance); text != "" {
		b.add(Command{Kind: CmdText, Text: Text{
			At: geom.Midpoint(start, end), Content: text, Color: b.r.palette.Font,
			Size: b.fontSize(), Background: b.r.palette.LabelBox, Role: RoleEstimate,
		}})
	}
}

func (b *builder) pending(src graph.Node, pointer geom.Point) {
	sc := b.t.ToScreen(src.Position)
	b.add(Command{Kind: CmdLine, Line: Line{
		From: Clip(src, sc, b.t.Scale, pointer), To: pointer,
		Color: b.r.palette.Arrow, Width: EdgeWidth, Dashed: true, Role: RolePending,
	}})
}

func (b *builder) node(n graph.Node) {
	c := b.t.ToScreen(n.Position)
	w, h := NodeSize(n)
	s := Shape{
		Kind:        n.Shape.Kind,
		Center:      c,
		RX:          w / 2 * b.t.Scale,
		RY:          h / 2 * b.t.Scale,
		Fill:        b.r.classColor(b.f.Class(n.ID)),
		Stroke:      b.r.palette.Arrow,
		StrokeWidth: OutlineWidth,
		Node:        n.ID,
		Role:        RoleNode,
	}
	if n.Shape.Kind == graph.ShapePolygon {
		s.Points = geom.RegularPolygon(c, s.RX, s.RY, n.Shape.Sides)
	}
	if b.f.Hover == n.ID {
		s.StrokeWidth = HoverWidth
	}
	if fb := b.f.Feedback; fb != nil && fb.Node == n.ID {
		s.Fill = b.r.palette.NodeNotAllowed
		s.StrokeWidth = HoverWidth
	}
	b.add(Command{Kind: CmdShape, Shape: s})
	b.add(Command{Kind: CmdText, Text: Text{
		At: c, Content: n.Label, Color: b.r.palette.Font, Size: b.fontSize(), Role: RoleLabel,
	}})
	if r2, ok := n.Meta.Float(graph.MetaR2); ok {
		b.add(Command{Kind: CmdText, Text: Text{
			At:      c.Add(geom.Pt(0, (h/2+R2Offset)*b.t.Scale)),
			Content: fmt.Sprintf("R² = %.2f", r2), Color: b.r.palette.Font,
			Size: b.fontSize(), Background: b.r.palette.LabelBox, Role: RoleR2,
		}})
	}
}

func (b *builder) feedback(nodes map[graph.NodeID]graph.Node) {
	fb := b.f.Feedback
	at := geom.Pt(b.f.Viewport.X+b.f.Viewport.W/2, b.f.Viewport.Y+b.f.Viewport.H-NodeHeight/2)
	if n, ok := nodes[fb.Node]; ok {
		_, h := NodeSize(n)
		dy := (h/2)*b.t.Scale + b.fontSize()*1.5
		if _, ok := n.Meta.Float(graph.MetaR2); ok {
			dy += R2Offset*b.t.Scale + b.fontSize()
		}
		at = b.t.ToScreen(n.Position).Add(geom.Pt(0, dy))
	}
	b.add(Command{Kind: CmdText, Text: Text{
		At: at, Content: fb.Reason, Color: b.r.palette.Font, Size: b.fontSize(),
		Background: b.r.palette.NodeNotAllowed, Role: RoleFeedback,
	}})
}

func (r *Renderer) classColor(c NodeClass) Color {
	switch c {
	case ClassAllowed:
		return r.palette.NodeAllowed
	case ClassNotAllowed:
		return r.palette.NodeNotAllowed
	default:
		return r.palette.NodeDefault
	}
}

// NodeSize returns the logical width and height of a node's outline.
func NodeSize(n graph.Node) (w, h float64) {
	w = math.Max(MinNodeWidth, CharWidth*float64(utf8.RuneCountInString(n.Label))+2*NodePadding)
	h = NodeHeight
	if n.Shape.Kind == graph.ShapePolygon {
		// extra height keeps the label inside the polygon
		h += 2 * NodePadding
	}
	return w, h
}

// Clip returns where the segment from -> centre crosses the outline of n
// drawn at centre with the given scale. All points are in the same space as
// centre.
func Clip(n graph.Node, centre geom.Point, scale float64, from geom.Point) geom.Point {
	w, h := NodeSize(n)
	rx, ry := w/2*scale, h/2*scale
	switch n.Shape.Kind {
	case graph.ShapeRectangle:
		return geom.ClipRect(geom.RectAround(centre, 2*rx, 2*ry), from)
	case graph.ShapePolygon:
		return geom.ClipPolygon(centre, geom.RegularPolygon(centre, rx, ry, n.Shape.Sides), from)
	default:
		return geom.ClipEllipse(centre, rx, ry, from)
	}
}
