package canvas

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pathcanvas/pkg/errors"
	"github.com/matzehuels/pathcanvas/pkg/geom"
	"github.com/matzehuels/pathcanvas/pkg/graph"
	"github.com/matzehuels/pathcanvas/pkg/observability"
	"github.com/matzehuels/pathcanvas/pkg/render"
	"github.com/matzehuels/pathcanvas/pkg/snap"
)

// twoNodes returns a canvas with A at (0,0) and B at (100,0).
func twoNodes(t *testing.T, cfg Config, opts ...Option) (*Canvas, graph.NodeID, graph.NodeID) {
	t.Helper()
	c, _ := newTestCanvas(t, cfg, opts...)
	a := c.AddNode(geom.Pt(0, 0), "A")
	b := c.AddNode(geom.Pt(100, 0), "B")
	return c, a, b
}

func connect(c *Canvas, from, to geom.Point) {
	c.HandleEvent(PointerDown{Position: from, Button: ButtonPrimary, Modifiers: ModShift})
	c.HandleEvent(PointerMove{Position: to, Modifiers: ModShift})
	c.HandleEvent(PointerUp{Position: to, Button: ButtonPrimary})
}

func TestConnectGesture(t *testing.T) {
	c, a, b := twoNodes(t, Config{})

	c.HandleEvent(PointerDown{Position: geom.Pt(0, 0), Modifiers: ModShift})
	require.Equal(t, ConnectingEdge, c.State())
	assert.Equal(t, map[graph.NodeID]render.NodeClass{b: render.ClassAllowed}, c.Classification())

	c.HandleEvent(PointerMove{Position: geom.Pt(98, 3)})
	assert.Equal(t, b, c.Hover())
	require.NotNil(t, c.Frame().Pending)
	assert.Equal(t, a, c.Frame().Pending.Source)

	c.HandleEvent(PointerUp{Position: geom.Pt(98, 3)})
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, []graph.Connection{{Source: a, Target: b}}, c.Connections())
	assert.Empty(t, c.Classification())
}

func TestReciprocalConnectionRejected(t *testing.T) {
	c, a, b := twoNodes(t, Config{})
	connect(c, geom.Pt(0, 0), geom.Pt(100, 0))
	require.Len(t, c.Edges(), 1)

	c.HandleEvent(PointerDown{Position: geom.Pt(100, 0), Modifiers: ModCtrl})
	assert.Equal(t, render.ClassNotAllowed, c.Classification()[a])
	c.HandleEvent(PointerMove{Position: geom.Pt(0, 0)})
	c.HandleEvent(PointerUp{Position: geom.Pt(0, 0)})

	assert.Len(t, c.Edges(), 1)
	fb, ok := c.Feedback()
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidEdge, fb.Code)
	assert.Equal(t, a, fb.Node)
	assert.NotEmpty(t, fb.Reason)
	assert.False(t, c.model.HasEdge(b, a))

	c.HandleEvent(PointerDown{Position: geom.Pt(500, 500)})
	_, ok = c.Feedback()
	assert.False(t, ok, "feedback clears on the next press")
}

func TestReciprocalConnectionAllowed(t *testing.T) {
	c, a, b := twoNodes(t, Config{AllowReciprocal: true})
	connect(c, geom.Pt(0, 0), geom.Pt(100, 0))
	connect(c, geom.Pt(100, 0), geom.Pt(0, 0))
	assert.ElementsMatch(t, []graph.Connection{{Source: a, Target: b}, {Source: b, Target: a}}, c.Connections())
}

func TestConnectionRuleClassifies(t *testing.T) {
	rule := func(_, target graph.Node, _ []graph.Node) error {
		if target.Shape.Kind == graph.ShapeRectangle {
			return errors.New(errors.ErrCodeInvalidInput, "rectangles cannot be targets")
		}
		return nil
	}
	c, _, b := twoNodes(t, Config{}, WithConnectionRule(rule))
	r := c.AddShapedNode(geom.Pt(0, 100), "R", graph.Rectangle)

	c.HandleEvent(PointerDown{Position: geom.Pt(0, 0), Modifiers: ModShift})
	assert.Equal(t, render.ClassAllowed, c.Classification()[b])
	assert.Equal(t, render.ClassNotAllowed, c.Classification()[r])

	c.HandleEvent(PointerUp{Position: geom.Pt(0, 100)})
	assert.Empty(t, c.Edges())
	fb, _ := c.Feedback()
	assert.Contains(t, fb.Reason, "rectangles cannot be targets")
}

func TestConnectReleasedOnEmptyCanvas(t *testing.T) {
	c, _, _ := twoNodes(t, Config{})
	connect(c, geom.Pt(0, 0), geom.Pt(300, 300))
	assert.Empty(t, c.Edges())
	_, ok := c.Feedback()
	assert.False(t, ok)
}

func TestDragSnapsAndCommitsOnce(t *testing.T) {
	c, a, b := twoNodes(t, Config{})
	calls := 0
	c.OnGraphChanged(func(graph.Snapshot) { calls++ })

	c.HandleEvent(PointerDown{Position: geom.Pt(100, 0)})
	require.Equal(t, DraggingNode, c.State())
	c.HandleEvent(PointerMove{Position: geom.Pt(70, 30)})
	c.HandleEvent(PointerMove{Position: geom.Pt(40, 2)})

	n, _ := c.Node(b)
	assert.Equal(t, geom.Pt(40, 0), n.Position)
	assert.Equal(t, []snap.Guide{{Axis: snap.AxisY, Coordinate: 0, Nodes: []graph.NodeID{a, b}}}, c.Guides())
	assert.Zero(t, calls, "intermediate moves are not reported")

	c.HandleEvent(PointerUp{Position: geom.Pt(40, 2)})
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, c.Guides())
	assert.Equal(t, 1, calls)
}

func TestDragKeepsGrabOffset(t *testing.T) {
	c, a, _ := twoNodes(t, Config{SnapTolerance: -1})
	c.HandleEvent(PointerDown{Position: geom.Pt(5, 5)})
	c.HandleEvent(PointerMove{Position: geom.Pt(25, 55)})
	c.HandleEvent(PointerUp{Position: geom.Pt(25, 55)})
	n, _ := c.Node(a)
	assert.Equal(t, geom.Pt(20, 50), n.Position)
}

func TestClickWithoutMoveDoesNotCommit(t *testing.T) {
	c, _, _ := twoNodes(t, Config{})
	calls := 0
	c.OnGraphChanged(func(graph.Snapshot) { calls++ })
	c.HandleEvent(PointerDown{Position: geom.Pt(0, 0)})
	c.HandleEvent(PointerUp{Position: geom.Pt(0, 0)})
	assert.Zero(t, calls)
}

func TestEscapeCancelsDrag(t *testing.T) {
	c, _ := newTestCanvas(t, Config{})
	id := c.AddNode(geom.Pt(10, 10), "")
	calls := 0
	c.OnGraphChanged(func(graph.Snapshot) { calls++ })

	c.HandleEvent(PointerDown{Position: geom.Pt(10, 10)})
	c.HandleEvent(PointerMove{Position: geom.Pt(200, 150)})
	c.HandleEvent(KeyPress{Key: KeyEscape})

	n, _ := c.Node(id)
	assert.Equal(t, geom.Pt(10, 10), n.Position)
	assert.Equal(t, Idle, c.State())
	assert.Zero(t, calls)

	// the release after a cancel is ignored
	c.HandleEvent(PointerUp{Position: geom.Pt(200, 150)})
	n, _ = c.Node(id)
	assert.Equal(t, geom.Pt(10, 10), n.Position)
}

func TestSecondaryPressCancelsGesture(t *testing.T) {
	c, _, _ := twoNodes(t, Config{})
	c.HandleEvent(PointerDown{Position: geom.Pt(0, 0), Modifiers: ModShift})
	c.HandleEvent(PointerDown{Position: geom.Pt(50, 50), Button: ButtonSecondary})
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, c.Classification())
	assert.Nil(t, c.Frame().Pending)
}

func TestPan(t *testing.T) {
	c, _, _ := twoNodes(t, Config{})
	c.HandleEvent(PointerDown{Position: geom.Pt(400, 400)})
	require.Equal(t, PanningOrZooming, c.State())
	c.HandleEvent(PointerMove{Position: geom.Pt(405, 410)})
	c.HandleEvent(PointerMove{Position: geom.Pt(410, 420)})
	c.HandleEvent(PointerUp{Position: geom.Pt(410, 420)})

	assert.Equal(t, Idle, c.State())
	assert.Equal(t, geom.Pt(10, 20), c.Transform().Offset)
	n, _ := c.Node(1)
	assert.Equal(t, geom.Pt(0, 0), n.Position, "panning never moves nodes")
}

func TestMiddleButtonPansOverNode(t *testing.T) {
	c, _, _ := twoNodes(t, Config{})
	c.HandleEvent(PointerDown{Position: geom.Pt(0, 0), Button: ButtonMiddle})
	assert.Equal(t, PanningOrZooming, c.State())
}

func TestZoomKeepsPointFixed(t *testing.T) {
	c, _ := newTestCanvas(t, Config{})
	p := geom.Pt(200, 100)
	before := c.Transform().ToLogical(p)

	c.HandleEvent(Zoom{Position: p, Delta: 1})
	tr := c.Transform()
	assert.InDelta(t, 1.1, tr.Scale, 1e-9)
	after := tr.ToLogical(p)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
	assert.Equal(t, Idle, c.State())

	c.HandleEvent(Zoom{Position: p, Delta: -1})
	assert.InDelta(t, 1.0, c.Transform().Scale, 1e-9)
}

func TestZoomClamps(t *testing.T) {
	c, _ := newTestCanvas(t, Config{})
	for range 100 {
		c.HandleEvent(Zoom{Position: geom.Pt(0, 0), Delta: 1})
	}
	assert.Equal(t, 5.0, c.Transform().Scale)
	for range 100 {
		c.HandleEvent(Zoom{Position: geom.Pt(0, 0), Delta: -1})
	}
	assert.InDelta(t, 0.2, c.Transform().Scale, 1e-9)
}

func TestOngoingZoom(t *testing.T) {
	c, _ := newTestCanvas(t, Config{})
	c.HandleEvent(Zoom{Position: geom.Pt(0, 0), Factor: 1.5, Ongoing: true})
	assert.Equal(t, PanningOrZooming, c.State())
	c.HandleEvent(Zoom{Position: geom.Pt(0, 0), Factor: 1.5, Ongoing: true})
	assert.InDelta(t, 2.25, c.Transform().Scale, 1e-9)
	c.HandleEvent(ZoomEnd{})
	assert.Equal(t, Idle, c.State())
}

func TestZoomCancelsConnect(t *testing.T) {
	c, _, _ := twoNodes(t, Config{})
	c.HandleEvent(PointerDown{Position: geom.Pt(0, 0), Modifiers: ModShift})
	c.HandleEvent(Zoom{Position: geom.Pt(50, 50), Delta: 1})
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, c.Classification())
	c.HandleEvent(PointerUp{Position: geom.Pt(110, 5)})
	assert.Empty(t, c.Edges())
}

func TestHitTestingFollowsZoom(t *testing.T) {
	c, a, _ := twoNodes(t, Config{})
	c.HandleEvent(Zoom{Position: geom.Pt(0, 0), Factor: 2})
	// B is now drawn at (200, 0)
	c.HandleEvent(PointerMove{Position: geom.Pt(200, 0)})
	assert.Equal(t, graph.NodeID(2), c.Hover())
	c.HandleEvent(PointerMove{Position: geom.Pt(45, 0)})
	assert.Equal(t, a, c.Hover())
}

func TestCanvasMenu(t *testing.T) {
	c, _ := newTestCanvas(t, Config{EllipseName: "latent", RectangleName: "manifest"})
	c.HandleEvent(PointerDown{Position: geom.Pt(300, 200), Button: ButtonSecondary})
	require.Equal(t, ContextMenuOpen, c.State())

	m, ok := c.Menu()
	require.True(t, ok)
	assert.Equal(t, []MenuItem{
		{ActionAddEllipse, "Add latent"},
		{ActionAddRectangle, "Add manifest"},
	}, m.Items)

	c.HandleEvent(MenuSelect{Action: ActionAddRectangle})
	assert.Equal(t, Idle, c.State())
	nodes := c.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, geom.Pt(300, 200), nodes[0].Position)
	assert.Equal(t, graph.Rectangle, nodes[0].Shape)
	assert.Equal(t, "node_1", nodes[0].Label)
}

func TestCanvasMenuUsesLogicalPosition(t *testing.T) {
	c, _ := newTestCanvas(t, Config{})
	c.HandleEvent(PointerDown{Position: geom.Pt(0, 0)})
	c.HandleEvent(PointerMove{Position: geom.Pt(100, 100)})
	c.HandleEvent(PointerUp{Position: geom.Pt(100, 100)})

	c.HandleEvent(PointerDown{Position: geom.Pt(150, 120), Button: ButtonSecondary})
	c.HandleEvent(MenuSelect{Action: ActionAddEllipse})
	assert.Equal(t, geom.Pt(50, 20), c.Nodes()[0].Position)
}

func TestNodeMenu(t *testing.T) {
	c, a, b := twoNodes(t, Config{})
	connect(c, geom.Pt(0, 0), geom.Pt(100, 0))

	c.HandleEvent(PointerDown{Position: geom.Pt(2, 2), Button: ButtonSecondary})
	m, ok := c.Menu()
	require.True(t, ok)
	assert.Equal(t, a, m.Node)
	assert.True(t, m.Has(ActionAddConnection))
	assert.True(t, m.Has(ActionRenameNode))
	assert.True(t, m.Has(ActionDeleteNode))

	c.HandleEvent(MenuSelect{Action: ActionDeleteNode})
	assert.Equal(t, Idle, c.State())
	assert.Len(t, c.Nodes(), 1)
	assert.Empty(t, c.Edges())
	_, ok = c.Node(b)
	assert.True(t, ok)
}

func TestNodeMenuRename(t *testing.T) {
	c, a, _ := twoNodes(t, Config{})

	c.HandleEvent(PointerDown{Position: geom.Pt(0, 0), Button: ButtonSecondary})
	c.HandleEvent(MenuSelect{Action: ActionRenameNode, Text: "B"})
	fb, ok := c.Feedback()
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidLabel, fb.Code)
	n, _ := c.Node(a)
	assert.Equal(t, "A", n.Label)

	c.HandleEvent(PointerDown{Position: geom.Pt(0, 0), Button: ButtonSecondary})
	c.HandleEvent(MenuSelect{Action: ActionRenameNode, Text: "alpha"})
	n, _ = c.Node(a)
	assert.Equal(t, "alpha", n.Label)
}

func TestNodeMenuAddPath(t *testing.T) {
	c, a, b := twoNodes(t, Config{})
	c.HandleEvent(PointerDown{Position: geom.Pt(0, 0), Button: ButtonSecondary})
	c.HandleEvent(MenuSelect{Action: ActionAddConnection})
	require.Equal(t, ConnectingEdge, c.State())
	assert.Equal(t, render.ClassAllowed, c.Classification()[b])

	c.HandleEvent(PointerMove{Position: geom.Pt(100, 0)})
	c.HandleEvent(PointerDown{Position: geom.Pt(100, 0)})
	require.Equal(t, ConnectingEdge, c.State())
	c.HandleEvent(PointerUp{Position: geom.Pt(100, 0)})

	assert.Equal(t, Idle, c.State())
	assert.Equal(t, []graph.Connection{{Source: a, Target: b}}, c.Connections())
}

func TestEdgeMenu(t *testing.T) {
	c, _, _ := twoNodes(t, Config{})
	connect(c, geom.Pt(0, 0), geom.Pt(100, 0))
	e := c.Edges()[0].ID

	c.HandleEvent(PointerDown{Position: geom.Pt(50, 3), Button: ButtonSecondary})
	m, ok := c.Menu()
	require.True(t, ok)
	assert.Equal(t, e, m.Edge)
	assert.Zero(t, m.Node)

	c.HandleEvent(MenuSelect{Action: ActionEditEdgeLabel, Text: "0.7"})
	edge, _ := c.Edge(e)
	assert.Equal(t, "0.7", edge.Label)

	c.HandleEvent(PointerDown{Position: geom.Pt(50, 3), Button: ButtonSecondary})
	c.HandleEvent(MenuSelect{Action: ActionDeleteEdge})
	assert.Empty(t, c.Edges())
	assert.Len(t, c.Nodes(), 2)
}

func TestEdgeMenuSignificance(t *testing.T) {
	c, _, _ := twoNodes(t, Config{})
	connect(c, geom.Pt(0, 0), geom.Pt(100, 0))
	e := c.Edges()[0].ID
	commits := 0
	c.OnGraphChanged(func(graph.Snapshot) { commits++ })

	c.HandleEvent(PointerDown{Position: geom.Pt(50, 3), Button: ButtonSecondary})
	c.HandleEvent(MenuSelect{Action: ActionEditEdgeLabel, Text: " 0.42** "})
	edge, _ := c.Edge(e)
	assert.Equal(t, "0.42", edge.Label)
	assert.Equal(t, "**", edge.Meta.Text(graph.MetaSignificance))
	assert.Equal(t, 1, commits)

	c.HandleEvent(PointerDown{Position: geom.Pt(50, 3), Button: ButtonSecondary})
	c.HandleEvent(MenuSelect{Action: ActionEditEdgeLabel, Text: "0.10"})
	edge, _ = c.Edge(e)
	assert.Equal(t, "0.10", edge.Label)
	_, ok := edge.Meta[graph.MetaSignificance]
	assert.False(t, ok, "a plain estimate clears the significance")
}

func TestSplitSignificance(t *testing.T) {
	tests := []struct {
		in, est, sig string
	}{
		{"0.42", "0.42", ""},
		{"0.42*", "0.42", "*"},
		{"-0.3***", "-0.3", "***"},
		{"0.42 **", "0.42", "**"},
		{"**", "", "**"},
		{"", "", ""},
		{"a*b", "a*b", ""},
	}
	for _, tt := range tests {
		est, sig := splitSignificance(tt.in)
		assert.Equal(t, tt.est, est, "estimate of %q", tt.in)
		assert.Equal(t, tt.sig, sig, "significance of %q", tt.in)
	}
}

func TestNodeMenuSetR2(t *testing.T) {
	c, a, _ := twoNodes(t, Config{})
	rec := c.surface.(*render.Recorder)

	c.HandleEvent(PointerDown{Position: geom.Pt(0, 0), Button: ButtonSecondary})
	m, ok := c.Menu()
	require.True(t, ok)
	require.True(t, m.Has(ActionSetR2))
	assert.True(t, ActionSetR2.NeedsText())

	c.HandleEvent(MenuSelect{Action: ActionSetR2, Text: "0.456"})
	n, _ := c.Node(a)
	v, ok := n.Meta.Float(graph.MetaR2)
	require.True(t, ok)
	assert.InDelta(t, 0.456, v, 1e-9)
	texts := rec.Texts(render.RoleR2)
	require.Len(t, texts, 1)
	assert.Equal(t, "R² = 0.46", texts[0].Content)

	for _, bad := range []string{"1.5", "-0.1", "NaN", "high"} {
		c.HandleEvent(PointerDown{Position: geom.Pt(0, 0), Button: ButtonSecondary})
		c.HandleEvent(MenuSelect{Action: ActionSetR2, Text: bad})
		fb, ok := c.Feedback()
		require.True(t, ok, "input %q", bad)
		assert.Equal(t, errors.ErrCodeInvalidInput, fb.Code)
		assert.Equal(t, a, fb.Node)
		n, _ = c.Node(a)
		assert.Equal(t, 0.456, n.Meta[graph.MetaR2], "input %q must not change the value", bad)
	}

	c.HandleEvent(PointerDown{Position: geom.Pt(0, 0), Button: ButtonSecondary})
	c.HandleEvent(MenuSelect{Action: ActionSetR2, Text: ""})
	n, _ = c.Node(a)
	_, ok = n.Meta[graph.MetaR2]
	assert.False(t, ok, "blank text clears R²")
	assert.Empty(t, rec.Texts(render.RoleR2))
}

func TestHitTestingFollowsLoadOrder(t *testing.T) {
	c, rec := newTestCanvas(t, Config{})
	require.NoError(t, c.Load(graph.Snapshot{Nodes: []graph.NodeRecord{
		{ID: 5, Label: "under", Position: geom.Pt(0, 0)},
		{ID: 2, Label: "over", Position: geom.Pt(5, 0)},
	}}))

	shapes := rec.Shapes(render.RoleNode)
	require.Len(t, shapes, 2)
	assert.Equal(t, graph.NodeID(2), shapes[1].Node, "painted last")

	c.HandleEvent(PointerMove{Position: geom.Pt(2, 0)})
	assert.Equal(t, graph.NodeID(2), c.Hover())
}

func TestEndToEndConnectAndDelete(t *testing.T) {
	c, a, b := twoNodes(t, Config{})

	connect(c, geom.Pt(0, 0), geom.Pt(100, 0))
	require.Equal(t, []graph.Connection{{Source: a, Target: b}}, c.Connections())

	connect(c, geom.Pt(100, 0), geom.Pt(0, 0))
	fb, ok := c.Feedback()
	require.True(t, ok, "reverse connection is rejected")
	assert.Equal(t, errors.ErrCodeInvalidEdge, fb.Code)
	require.Len(t, c.Edges(), 1)

	c.HandleEvent(PointerDown{Position: geom.Pt(0, 0), Button: ButtonSecondary})
	c.HandleEvent(MenuSelect{Action: ActionDeleteNode})

	assert.Equal(t, Idle, c.State())
	assert.Empty(t, c.Edges())
	assert.Empty(t, c.Connections())
	nodes := c.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, b, nodes[0].ID)
	assert.Equal(t, "B", nodes[0].Label)
	require.NoError(t, c.model.Validate())
}

func TestMenuDismissAndUnavailableAction(t *testing.T) {
	c, _ := newTestCanvas(t, Config{})
	c.HandleEvent(PointerDown{Position: geom.Pt(10, 10), Button: ButtonSecondary})
	c.HandleEvent(MenuDismiss{})
	assert.Equal(t, Idle, c.State())
	_, ok := c.Menu()
	assert.False(t, ok)

	c.HandleEvent(MenuSelect{Action: ActionAddEllipse})
	assert.Empty(t, c.Nodes(), "select without a menu is ignored")

	c.HandleEvent(PointerDown{Position: geom.Pt(10, 10), Button: ButtonSecondary})
	c.HandleEvent(MenuSelect{Action: ActionDeleteNode})
	fb, ok := c.Feedback()
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidInput, fb.Code)
}

func TestPressClosesMenu(t *testing.T) {
	c, _ := newTestCanvas(t, Config{})
	c.HandleEvent(PointerDown{Position: geom.Pt(10, 10), Button: ButtonSecondary})
	c.HandleEvent(PointerDown{Position: geom.Pt(90, 90)})
	assert.Equal(t, Idle, c.State())

	c.HandleEvent(PointerDown{Position: geom.Pt(10, 10), Button: ButtonSecondary})
	c.HandleEvent(PointerDown{Position: geom.Pt(90, 90), Button: ButtonSecondary})
	m, ok := c.Menu()
	require.True(t, ok)
	assert.Equal(t, geom.Pt(90, 90), m.Position)
}

func TestDeleteKeyRemovesHoveredNode(t *testing.T) {
	c, a, _ := twoNodes(t, Config{})
	c.HandleEvent(KeyPress{Key: KeyDelete})
	assert.Len(t, c.Nodes(), 2)

	c.HandleEvent(PointerMove{Position: geom.Pt(1, 1)})
	require.Equal(t, a, c.Hover())
	c.HandleEvent(KeyPress{Key: KeyDelete})
	_, ok := c.Node(a)
	assert.False(t, ok)
	assert.Zero(t, c.Hover())
}

func TestResizeEvent(t *testing.T) {
	c, rec := newTestCanvas(t, Config{})
	vp := geom.Rect{W: 1024, H: 768}
	c.HandleEvent(Resize{Viewport: vp})
	assert.Equal(t, vp, c.Viewport())
	assert.Equal(t, vp, rec.Commands[0].Clear)
}

type recordingHooks struct {
	observability.NoopCanvasHooks
	transitions []string
	mutations   []string
	rejections  []string
	renders     int
}

func (h *recordingHooks) OnTransition(from, to, event string) {
	h.transitions = append(h.transitions, from+">"+to+":"+event)
}
func (h *recordingHooks) OnMutation(kind string, _, _ int) { h.mutations = append(h.mutations, kind) }
func (h *recordingHooks) OnRejection(action, code, _ string) {
	h.rejections = append(h.rejections, action+":"+code)
}
func (h *recordingHooks) OnRender(int, time.Duration) { h.renders++ }

func TestHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetCanvasHooks(h)
	t.Cleanup(observability.Reset)

	c, _, _ := twoNodes(t, Config{})
	connect(c, geom.Pt(0, 0), geom.Pt(100, 0))
	connect(c, geom.Pt(100, 0), geom.Pt(0, 0))

	assert.Equal(t, []string{"add_node", "add_node", "add_edge"}, h.mutations)
	assert.Equal(t, []string{
		"Idle>ConnectingEdge:PointerDown",
		"ConnectingEdge>Idle:PointerUp",
		"Idle>ConnectingEdge:PointerDown",
		"ConnectingEdge>Idle:PointerUp",
	}, h.transitions)
	assert.Equal(t, []string{"connect:INVALID_EDGE"}, h.rejections)
	assert.Positive(t, h.renders)
}
