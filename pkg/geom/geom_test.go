package geom_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pathcanvas/pkg/geom"
)

const delta = 1e-9

func TestRoundTripAcrossScales(t *testing.T) {
	for _, scale := range []float64{0.5, 1, 2, 3.7} {
		tr := geom.Transform{Scale: scale, Offset: geom.Pt(13, -7)}
		for _, p := range []geom.Point{{0, 0}, {100, 100}, {-42.5, 17.25}} {
			s := geom.LogicalToScreen(p, tr)
			back := geom.ScreenToLogical(s, tr)
			assert.InDelta(t, p.X, back.X, delta, "scale %v x", scale)
			assert.InDelta(t, p.Y, back.Y, delta, "scale %v y", scale)
		}
	}
}

func TestLogicalToScreen(t *testing.T) {
	tr := geom.Transform{Scale: 2, Offset: geom.Pt(10, 20)}
	got := geom.LogicalToScreen(geom.Pt(100, 100), tr)
	assert.Equal(t, geom.Pt(210, 220), got)
	assert.True(t, geom.Identity().IsIdentity())
	assert.False(t, tr.IsIdentity())
}

func TestZoomAboutKeepsPointFixed(t *testing.T) {
	cursor := geom.Pt(300, 200)
	tr := geom.Transform{Scale: 1.3, Offset: geom.Pt(-15, 40)}
	before := geom.ScreenToLogical(cursor, tr)

	for _, f := range []float64{1.1, 0.9, 2, 0.5} {
		next := tr.ZoomAbout(cursor, f, 0.1, 10)
		after := geom.ScreenToLogical(cursor, next)
		assert.InDelta(t, before.X, after.X, 1e-6, "factor %v", f)
		assert.InDelta(t, before.Y, after.Y, 1e-6, "factor %v", f)
		assert.InDelta(t, tr.Scale*f, next.Scale, delta)
	}
}

func TestZoomAboutClamps(t *testing.T) {
	tr := geom.Identity()
	cursor := geom.Pt(50, 50)

	out := tr.ZoomAbout(cursor, 100, 0.25, 4)
	assert.Equal(t, 4.0, out.Scale)
	p := geom.ScreenToLogical(cursor, out)
	assert.InDelta(t, 50, p.X, delta)
	assert.InDelta(t, 50, p.Y, delta)

	in := tr.ZoomAbout(cursor, 0.001, 0.25, 4)
	assert.Equal(t, 0.25, in.Scale)

	same := tr.ZoomAbout(cursor, -1, 0.25, 4)
	assert.Equal(t, tr, same)
}

func TestPan(t *testing.T) {
	tr := geom.Identity().Pan(geom.Pt(5, -3)).Pan(geom.Pt(1, 1))
	assert.Equal(t, geom.Pt(6, -2), tr.Offset)
	assert.Equal(t, 1.0, tr.Scale)
}

func TestDistanceToSegment(t *testing.T) {
	tests := []struct {
		name    string
		p, a, b geom.Point
		want    float64
	}{
		{"perpendicular", geom.Pt(5, 3), geom.Pt(0, 0), geom.Pt(10, 0), 3},
		{"before start", geom.Pt(-3, 4), geom.Pt(0, 0), geom.Pt(10, 0), 5},
		{"after end", geom.Pt(13, 4), geom.Pt(0, 0), geom.Pt(10, 0), 5},
		{"on segment", geom.Pt(2, 2), geom.Pt(0, 0), geom.Pt(4, 4), 0},
		{"degenerate", geom.Pt(3, 4), geom.Pt(0, 0), geom.Pt(0, 0), 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, geom.DistanceToSegment(tt.p, tt.a, tt.b), delta)
		})
	}
}

func TestRect(t *testing.T) {
	r := geom.RectAround(geom.Pt(10, 10), 20, 10)
	assert.Equal(t, geom.Pt(0, 5), r.Min())
	assert.Equal(t, geom.Pt(20, 15), r.Max())
	assert.Equal(t, geom.Pt(10, 10), r.Center())
	assert.True(t, r.Contains(geom.Pt(20, 15)))
	assert.False(t, r.Contains(geom.Pt(21, 10)))
	assert.True(t, geom.Rect{}.Empty())
}

func TestClipSegment(t *testing.T) {
	r := geom.Rect{W: 100, H: 50}

	tests := []struct {
		name     string
		a, b     geom.Point
		ok       bool
		from, to geom.Point
	}{
		{"inside", geom.Pt(10, 10), geom.Pt(90, 40), true, geom.Pt(10, 10), geom.Pt(90, 40)},
		{"far endpoint", geom.Pt(10, 10), geom.Pt(1e13, 10), true, geom.Pt(10, 10), geom.Pt(100, 10)},
		{"crosses both sides", geom.Pt(-50, 25), geom.Pt(150, 25), true, geom.Pt(0, 25), geom.Pt(100, 25)},
		{"diagonal", geom.Pt(-10, -10), geom.Pt(60, 60), true, geom.Pt(0, 0), geom.Pt(50, 50)},
		{"outside", geom.Pt(-10, -10), geom.Pt(-1, 40), false, geom.Point{}, geom.Point{}},
		{"parallel outside", geom.Pt(0, 60), geom.Pt(100, 60), false, geom.Point{}, geom.Point{}},
		{"misses corner", geom.Pt(90, -20), geom.Pt(120, 10), false, geom.Point{}, geom.Point{}},
		{"not finite", geom.Pt(10, 10), geom.Pt(math.Inf(1), 10), false, geom.Point{}, geom.Point{}},
		{"nan", geom.Pt(math.NaN(), 10), geom.Pt(10, 10), false, geom.Point{}, geom.Point{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, ok := geom.ClipSegment(tt.a, tt.b, r)
			require.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.from.X, from.X, 1e-6)
			assert.InDelta(t, tt.from.Y, from.Y, 1e-6)
			assert.InDelta(t, tt.to.X, to.X, 1e-6)
			assert.InDelta(t, tt.to.Y, to.Y, 1e-6)
		})
	}
}

func TestClipEllipse(t *testing.T) {
	c := geom.Pt(0, 0)

	got := geom.ClipEllipse(c, 20, 10, geom.Pt(100, 0))
	assert.InDelta(t, 20, got.X, delta)
	assert.InDelta(t, 0, got.Y, delta)

	got = geom.ClipEllipse(c, 20, 10, geom.Pt(0, -50))
	assert.InDelta(t, 0, got.X, delta)
	assert.InDelta(t, -10, got.Y, delta)

	got = geom.ClipEllipse(c, 20, 10, geom.Pt(30, 40))
	v := (got.X*got.X)/(20*20) + (got.Y*got.Y)/(10*10)
	assert.InDelta(t, 1, v, 1e-9, "point must lie on the outline")

	assert.Equal(t, c, geom.ClipEllipse(c, 20, 10, c))
}

func TestClipRect(t *testing.T) {
	r := geom.RectAround(geom.Pt(0, 0), 40, 20)

	got := geom.ClipRect(r, geom.Pt(100, 0))
	assert.InDelta(t, 20, got.X, delta)
	assert.InDelta(t, 0, got.Y, delta)

	got = geom.ClipRect(r, geom.Pt(10, 100))
	assert.InDelta(t, 1, got.X, delta)
	assert.InDelta(t, 10, got.Y, delta)

	assert.Equal(t, geom.Pt(0, 0), geom.ClipRect(r, geom.Pt(1, 1)))
}

func TestClipPolygon(t *testing.T) {
	c := geom.Pt(0, 0)
	square := []geom.Point{{-10, -10}, {10, -10}, {10, 10}, {-10, 10}}

	got := geom.ClipPolygon(c, square, geom.Pt(50, 0))
	assert.InDelta(t, 10, got.X, delta)
	assert.InDelta(t, 0, got.Y, delta)

	assert.Equal(t, c, geom.ClipPolygon(c, square, geom.Pt(2, 2)))
	assert.Equal(t, c, geom.ClipPolygon(c, nil, geom.Pt(50, 0)))
}

func TestRegularPolygon(t *testing.T) {
	assert.Nil(t, geom.RegularPolygon(geom.Pt(0, 0), 10, 10, 2))

	hex := geom.RegularPolygon(geom.Pt(0, 0), 10, 10, 6)
	require.Len(t, hex, 6)
	assert.InDelta(t, 0, hex[0].X, delta)
	assert.InDelta(t, -10, hex[0].Y, delta)
	for _, p := range hex {
		assert.InDelta(t, 10, p.Len(), 1e-9)
	}
}

func TestArrowhead(t *testing.T) {
	tri := geom.Arrowhead(geom.Pt(100, 0), geom.Pt(0, 0), geom.ArrowLength, geom.ArrowHalfWidth)
	assert.Equal(t, geom.Pt(100, 0), tri[0])
	assert.InDelta(t, 85, tri[1].X, delta)
	assert.InDelta(t, 85, tri[2].X, delta)
	assert.InDelta(t, 10, math.Abs(tri[1].Y-tri[2].Y), delta)

	degenerate := geom.Arrowhead(geom.Pt(5, 5), geom.Pt(5, 5), 15, 5)
	assert.InDelta(t, -10, degenerate[1].X, delta)
}
