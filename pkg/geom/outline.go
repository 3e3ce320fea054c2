package geom

import "math"

// Arrowhead dimensions in screen units.
const (
	ArrowLength    = 15.0
	ArrowHalfWidth = 5.0
)

const epsilon = 1e-9

// ClipEllipse returns the point where the segment from -> c crosses the
// outline of the axis-aligned ellipse centred on c with radii rx and ry.
// If from coincides with c, c is returned.
func ClipEllipse(c Point, rx, ry float64, from Point) Point {
	d := from.Sub(c)
	if rx <= 0 || ry <= 0 {
		return c
	}
	div := math.Sqrt(ry*ry*d.X*d.X + rx*rx*d.Y*d.Y)
	if div < epsilon {
		return c
	}
	t := rx * ry / div
	if t > 1 {
		// from lies inside the ellipse
		return from
	}
	return c.Add(d.Mul(t))
}

// ClipRect returns the point where the segment from -> r.Center() crosses
// the border of r. If from lies inside r, the centre is returned.
func ClipRect(r Rect, from Point) Point {
	c := r.Center()
	d := from.Sub(c)
	if r.Contains(from) || (d.X == 0 && d.Y == 0) {
		return c
	}
	hw, hh := r.W/2, r.H/2
	t := math.Inf(1)
	if d.X != 0 {
		t = math.Min(t, hw/math.Abs(d.X))
	}
	if d.Y != 0 {
		t = math.Min(t, hh/math.Abs(d.Y))
	}
	return c.Add(d.Mul(t))
}

// RegularPolygon returns the vertices of a polygon with the given number of
// sides inscribed in the ellipse centred on c with radii rx and ry. The first
// vertex points straight up. Fewer than three sides yields nil.
func RegularPolygon(c Point, rx, ry float64, sides int) []Point {
	if sides < 3 {
		return nil
	}
	pts := make([]Point, sides)
	step := 2 * math.Pi / float64(sides)
	for i := range pts {
		a := -math.Pi/2 + float64(i)*step
		pts[i] = Point{c.X + rx*math.Cos(a), c.Y + ry*math.Sin(a)}
	}
	return pts
}

// ClipPolygon returns the point where the segment from -> c crosses the
// closed polygon. When no edge is crossed (from inside the polygon or a
// degenerate polygon) c is returned.
func ClipPolygon(c Point, poly []Point, from Point) Point {
	best, found := c, false
	bestT := math.Inf(1)
	for i := range poly {
		a, b := poly[i], poly[(i+1)%len(poly)]
		p, t, ok := segmentIntersection(c, from, a, b)
		if ok && t < bestT {
			best, bestT, found = p, t, true
		}
	}
	if !found {
		return c
	}
	return best
}

// segmentIntersection intersects p1-p2 with q1-q2. It returns the
// intersection point and its parameter along p1-p2.
func segmentIntersection(p1, p2, q1, q2 Point) (Point, float64, bool) {
	r := p2.Sub(p1)
	s := q2.Sub(q1)
	den := r.X*s.Y - r.Y*s.X
	if math.Abs(den) < epsilon {
		return Point{}, 0, false
	}
	qp := q1.Sub(p1)
	t := (qp.X*s.Y - qp.Y*s.X) / den
	u := (qp.X*r.Y - qp.Y*r.X) / den
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, 0, false
	}
	return p1.Add(r.Mul(t)), t, true
}

// Arrowhead returns the triangle of an arrow pointing at tip and coming from
// from: the tip followed by the two base corners. length and halfWidth are
// measured in the same units as the points. A zero-length arrow points
// right.
func Arrowhead(tip, from Point, length, halfWidth float64) [3]Point {
	d := tip.Sub(from)
	l := d.Len()
	if l < epsilon {
		d, l = Point{1, 0}, 1
	}
	u := d.Mul(1 / l)
	base := tip.Sub(u.Mul(length))
	n := Point{-u.Y, u.X}.Mul(halfWidth)
	return [3]Point{tip, base.Add(n), base.Sub(n)}
}
