package render

import (
	"github.com/matzehuels/pathcanvas/pkg/geom"
	"github.com/matzehuels/pathcanvas/pkg/graph"
)

// Color is a colour literal, "#rgb" or "#rrggbb" after configuration
// validation. The empty colour means "none".
type Color string

// Role tells a surface what a primitive depicts, so back-ends that cannot
// draw everything (a terminal, say) can decide what to keep.
type Role string

const (
	RoleNode      Role = "node"
	RoleEdge      Role = "edge"
	RoleArrowhead Role = "arrowhead"
	RoleGuide     Role = "guide"
	RolePending   Role = "pending"
	RoleLabel     Role = "label"
	RoleEstimate  Role = "estimate"
	RoleR2        Role = "r2"
	RoleFeedback  Role = "feedback"
)

// Shape is a filled outline in screen coordinates.
//
// Ellipses and rectangles are described by Center and the half-extents RX
// and RY. Polygons, including arrowheads, list their vertices in Points.
type Shape struct {
	Kind        graph.ShapeKind
	Center      geom.Point
	RX, RY      float64
	Points      []geom.Point
	Fill        Color
	Stroke      Color
	StrokeWidth float64
	Node        graph.NodeID // zero unless Role is RoleNode
	Role        Role
}

// Bounds returns the axis-aligned bounding box of the shape.
func (s Shape) Bounds() geom.Rect {
	if len(s.Points) == 0 {
		return geom.RectAround(s.Center, 2*s.RX, 2*s.RY)
	}
	lo, hi := s.Points[0], s.Points[0]
	for _, p := range s.Points[1:] {
		lo = geom.Pt(min(lo.X, p.X), min(lo.Y, p.Y))
		hi = geom.Pt(max(hi.X, p.X), max(hi.Y, p.Y))
	}
	return geom.Rect{X: lo.X, Y: lo.Y, W: hi.X - lo.X, H: hi.Y - lo.Y}
}

// Line is a straight segment in screen coordinates.
type Line struct {
	From, To geom.Point
	Color    Color
	Width    float64
	Dashed   bool
	Edge     graph.EdgeID // zero unless Role is RoleEdge
	Role     Role
}

// Text is a single line of text centred on At.
type Text struct {
	At         geom.Point
	Content    string
	Color      Color
	Size       float64
	Background Color
	Role       Role
}

// Surface is the drawing capability a host supplies.
type Surface interface {
	Clear(r geom.Rect)
	DrawShape(s Shape)
	DrawLine(l Line)
	DrawText(t Text)
}

// CommandKind discriminates Command.
type CommandKind int

const (
	CmdClear CommandKind = iota
	CmdShape
	CmdLine
	CmdText
)

func (k CommandKind) String() string {
	switch k {
	case CmdClear:
		return "clear"
	case CmdShape:
		return "shape"
	case CmdLine:
		return "line"
	case CmdText:
		return "text"
	}
	return "unknown"
}

// Command is one recorded surface call. Only the field matching Kind is set.
type Command struct {
	Kind  CommandKind
	Clear geom.Rect
	Shape Shape
	Line  Line
	Text  Text
}

// Apply replays the command on s.
func (c Command) Apply(s Surface) {
	switch c.Kind {
	case CmdClear:
		s.Clear(c.Clear)
	case CmdShape:
		s.DrawShape(c.Shape)
	case CmdLine:
		s.DrawLine(c.Line)
	case CmdText:
		s.DrawText(c.Text)
	}
}

// Recorder is a Surface that stores every call.
type Recorder struct {
	Commands []Command
}

func (r *Recorder) Clear(rect geom.Rect) {
	// a clear discards everything drawn before it
	r.Commands = append(r.Commands[:0], Command{Kind: CmdClear, Clear: rect})
}

func (r *Recorder) DrawShape(s Shape) {
	r.Commands = append(r.Commands, Command{Kind: CmdShape, Shape: s})
}

func (r *Recorder) DrawLine(l Line) {
	r.Commands = append(r.Commands, Command{Kind: CmdLine, Line: l})
}

func (r *Recorder) DrawText(t Text) {
	r.Commands = append(r.Commands, Command{Kind: CmdText, Text: t})
}

// Shapes returns the recorded shapes with the given role.
func (r *Recorder) Shapes(role Role) []Shape {
	var out []Shape
	for _, c := range r.Commands {
		if c.Kind == CmdShape && c.Shape.Role == role {
			out = append(out, c.Shape)
		}
	}
	return out
}

// Lines returns the recorded lines with the given role.
func (r *Recorder) Lines(role Role) []Line {
	var out []Line
	for _, c := range r.Commands {
		if c.Kind == CmdLine && c.Line.Role == role {
			out = append(out, c.Line)
		}
	}
	return out
}

// Texts returns the recorded texts with the given role.
func (r *Recorder) Texts(role Role) []Text {
	var out []Text
	for _, c := range r.Commands {
		if c.Kind == CmdText && c.Text.Role == role {
			out = append(out, c.Text)
		}
	}
	return out
}

// Reset discards all recorded commands.
func (r *Recorder) Reset() { r.Commands = r.Commands[:0] }
