package geom

import "math"

// Point is a 2D coordinate. Whether it is logical or screen space depends on
// where it came from; the type does not track it.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul returns p scaled by k.
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// Len returns the Euclidean length of p as a vector.
func (p Point) Len() float64 { return math.Hypot(p.X, p.Y) }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return p.Sub(q).Len() }

// Eq reports whether p and q are within eps of each other on both axes.
func (p Point) Eq(q Point, eps float64) bool {
	return math.Abs(p.X-q.X) <= eps && math.Abs(p.Y-q.Y) <= eps
}

// Rect is an axis-aligned rectangle given by its minimum corner and size.
type Rect struct {
	X, Y, W, H float64
}

// RectAround returns the rectangle of size w×h centred on c.
func RectAround(c Point, w, h float64) Rect {
	return Rect{X: c.X - w/2, Y: c.Y - h/2, W: w, H: h}
}

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{r.X, r.Y} }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{r.X + r.W, r.Y + r.H} }

// Center returns the centre point.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Contains reports whether p lies inside or on the border of r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Transform is the view transform: screen = logical*Scale + Offset.
// The zero value is not usable; start from [Identity].
type Transform struct {
	Scale  float64 `json:"scale"`
	Offset Point   `json:"offset"`
}

// Identity returns the transform with scale 1 and no offset.
func Identity() Transform { return Transform{Scale: 1} }

// IsIdentity reports whether t maps every point to itself.
func (t Transform) IsIdentity() bool {
	return t.Scale == 1 && t.Offset == (Point{})
}

// ToScreen maps a logical point to screen space.
func (t Transform) ToScreen(p Point) Point {
	return Point{p.X*t.Scale + t.Offset.X, p.Y*t.Scale + t.Offset.Y}
}

// ToLogical maps a screen point to logical space.
func (t Transform) ToLogical(p Point) Point {
	return Point{(p.X - t.Offset.X) / t.Scale, (p.Y - t.Offset.Y) / t.Scale}
}

// Pan returns t translated by a screen-space delta.
func (t Transform) Pan(delta Point) Transform {
	t.Offset = t.Offset.Add(delta)
	return t
}

// ZoomAbout returns t with its scale multiplied by factor and clamped to
// [min, max]. The logical point under screen stays fixed.
// Non-positive factors leave t unchanged.
func (t Transform) ZoomAbout(screen Point, factor, min, max float64) Transform {
	if factor <= 0 {
		return t
	}
	fixed := t.ToLogical(screen)
	scale := Clamp(t.Scale*factor, min, max)
	return Transform{
		Scale:  scale,
		Offset: Point{screen.X - fixed.X*scale, screen.Y - fixed.Y*scale},
	}
}

// ScreenToLogical maps a screen point to logical space under t.
func ScreenToLogical(p Point, t Transform) Point { return t.ToLogical(p) }

// LogicalToScreen maps a logical point to screen space under t.
func LogicalToScreen(p Point, t Transform) Point { return t.ToScreen(p) }

// Clamp limits v to [min, max].
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// DistanceToSegment returns the distance from p to the segment a-b.
// A degenerate segment is treated as the point a.
func DistanceToSegment(p, a, b Point) float64 {
	return p.Dist(ClosestOnSegment(p, a, b))
}

// ClosestOnSegment returns the point on segment a-b nearest to p.
func ClosestOnSegment(p, a, b Point) Point {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return a
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = Clamp(t, 0, 1)
	return a.Add(ab.Mul(t))
}

// Midpoint returns the midpoint of a-b.
func Midpoint(a, b Point) Point {
	return Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}
}

// ClipSegment clips the segment a-b to r using the Liang-Barsky method.
// ok is false when the segment misses r or an endpoint is not finite.
func ClipSegment(a, b Point, r Rect) (from, to Point, ok bool) {
	for _, v := range [...]float64{a.X, a.Y, b.X, b.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return a, b, false
		}
	}
	d := b.Sub(a)
	t0, t1 := 0.0, 1.0
	for _, e := range [...][2]float64{
		{-d.X, a.X - r.X},
		{d.X, r.X + r.W - a.X},
		{-d.Y, a.Y - r.Y},
		{d.Y, r.Y + r.H - a.Y},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			// parallel to this edge
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
		if t0 > t1 {
			return a, b, false
		}
	}
	return a.Add(d.Mul(t0)), a.Add(d.Mul(t1)), true
}
