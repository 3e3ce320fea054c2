// Package svg is a render.Surface that writes an SVG document.
//
// Commands are written in paint order, so the document looks exactly like the
// frame a host would have drawn:
//
//	doc := svg.Render(renderer, frame, svg.WithBackground("#ffffff"))
//	os.WriteFile("graph.svg", doc, 0o644)
//
// Each node group carries a data-node attribute and each edge line a
// data-edge attribute with the model id, for scripting.
package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/pathcanvas/pkg/geom"
	"github.com/matzehuels/pathcanvas/pkg/graph"
	"github.com/matzehuels/pathcanvas/pkg/render"
)

// Option configures a Surface.
type Option func(*Surface)

// WithBackground paints the cleared viewport with the given colour.
func WithBackground(c render.Color) Option { return func(s *Surface) { s.background = c } }

// WithFontFamily sets the font family of all text.
func WithFontFamily(f string) Option { return func(s *Surface) { s.font = f } }

// Surface accumulates SVG elements. The zero value is not usable; use New.
type Surface struct {
	buf        bytes.Buffer
	viewport   geom.Rect
	background render.Color
	font       string
}

// New creates an empty surface.
func New(opts ...Option) *Surface {
	s := &Surface{font: "Arial, sans-serif"}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clear discards previous output and starts a new document covering r.
func (s *Surface) Clear(r geom.Rect) {
	s.buf.Reset()
	s.viewport = r
	if s.background != "" {
		fmt.Fprintf(&s.buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
			r.X, r.Y, r.W, r.H, s.background)
	}
}

// DrawShape writes an ellipse, rect or polygon element.
func (s *Surface) DrawShape(sh render.Shape) {
	style := fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="%.2f"`, paint(sh.Fill), paint(sh.Stroke), sh.StrokeWidth)
	attrs := ""
	if sh.Node != 0 {
		attrs = fmt.Sprintf(` data-node="%d"`, sh.Node)
	}
	switch {
	case len(sh.Points) > 0:
		pts := make([]string, len(sh.Points))
		for i, p := range sh.Points {
			pts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
		}
		fmt.Fprintf(&s.buf, `  <polygon class="%s"%s points="%s" %s/>`+"\n", sh.Role, attrs, strings.Join(pts, " "), style)
	case sh.Kind == graph.ShapeRectangle:
		fmt.Fprintf(&s.buf, `  <rect class="%s"%s x="%.2f" y="%.2f" width="%.2f" height="%.2f" %s/>`+"\n",
			sh.Role, attrs, sh.Center.X-sh.RX, sh.Center.Y-sh.RY, 2*sh.RX, 2*sh.RY, style)
	default:
		fmt.Fprintf(&s.buf, `  <ellipse class="%s"%s cx="%.2f" cy="%.2f" rx="%.2f" ry="%.2f" %s/>`+"\n",
			sh.Role, attrs, sh.Center.X, sh.Center.Y, sh.RX, sh.RY, style)
	}
}

// DrawLine writes a line element.
func (s *Surface) DrawLine(l render.Line) {
	dash := ""
	if l.Dashed {
		dash = ` stroke-dasharray="6 4"`
	}
	attrs := ""
	if l.Edge != 0 {
		attrs = fmt.Sprintf(` data-edge="%d"`, l.Edge)
	}
	fmt.Fprintf(&s.buf, `  <line class="%s"%s x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%.2f"%s/>`+"\n",
		l.Role, attrs, l.From.X, l.From.Y, l.To.X, l.To.Y, paint(l.Color), l.Width, dash)
}

// DrawText writes a text element, preceded by a box when the text has a
// background.
func (s *Surface) DrawText(t render.Text) {
	if t.Content == "" {
		return
	}
	if t.Background != "" {
		w := float64(len([]rune(t.Content)))*t.Size*0.6 + t.Size
		h := t.Size * 1.6
		fmt.Fprintf(&s.buf, `  <rect class="%s-box" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
			t.Role, t.At.X-w/2, t.At.Y-h/2, w, h, t.Background)
	}
	fmt.Fprintf(&s.buf, `  <text class="%s" x="%.2f" y="%.2f" font-family="%s" font-size="%.2f" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		t.Role, t.At.X, t.At.Y, escapeXML(s.font), t.Size, paint(t.Color), escapeXML(t.Content))
}

// Bytes returns the complete SVG document.
func (s *Surface) Bytes() []byte {
	vp := s.viewport
	var out bytes.Buffer
	fmt.Fprintf(&out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		vp.X, vp.Y, vp.W, vp.H, vp.W, vp.H)
	out.Write(s.buf.Bytes())
	out.WriteString("</svg>\n")
	return out.Bytes()
}

// Render draws f with r onto a fresh surface and returns the document.
// A frame without a viewport is fitted to its content.
func Render(r *render.Renderer, f render.Frame, opts ...Option) []byte {
	if f.Viewport.Empty() {
		f.Viewport = Fit(f, 40)
	}
	s := New(opts...)
	r.Render(s, f)
	return s.Bytes()
}

// Fit returns the screen rectangle enclosing every node of f plus margin.
func Fit(f render.Frame, margin float64) geom.Rect {
	if len(f.Nodes) == 0 {
		return geom.Rect{W: 2 * margin, H: 2 * margin}
	}
	t := f.Transform
	if t.Scale <= 0 {
		t = geom.Identity()
	}
	var lo, hi geom.Point
	for i, n := range f.Nodes {
		w, h := render.NodeSize(n)
		c := t.ToScreen(n.Position)
		a := c.Sub(geom.Pt(w/2*t.Scale, h/2*t.Scale))
		b := c.Add(geom.Pt(w/2*t.Scale, h/2*t.Scale))
		if i == 0 {
			lo, hi = a, b
			continue
		}
		lo = geom.Pt(min(lo.X, a.X), min(lo.Y, a.Y))
		hi = geom.Pt(max(hi.X, b.X), max(hi.Y, b.Y))
	}
	return geom.Rect{X: lo.X - margin, Y: lo.Y - margin, W: hi.X - lo.X + 2*margin, H: hi.Y - lo.Y + 2*margin}
}

func paint(c render.Color) string {
	if c == "" {
		return "none"
	}
	return string(c)
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
