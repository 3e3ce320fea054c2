package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/pathcanvas/internal/document"
	"github.com/matzehuels/pathcanvas/pkg/canvas"
	"github.com/matzehuels/pathcanvas/pkg/graph"
)

func newTestModel(t *testing.T) (*Model, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drawing.json")
	m, err := New(document.New(graph.Snapshot{}), path, canvas.Config{})
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, path
}

func press(x, y int, b tea.MouseButton, shift bool) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: b, Action: tea.MouseActionPress, Shift: shift}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonNone, Action: tea.MouseActionRelease}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestWindowSize(t *testing.T) {
	m, _ := newTestModel(t)
	cols, rows := m.surface.Size()
	assert.Equal(t, 80, cols)
	assert.Equal(t, 22, rows)
	assert.Equal(t, m.surface.Viewport(), m.Canvas().Viewport())
}

func TestMenuAddsNode(t *testing.T) {
	m, _ := newTestModel(t)
	m.Update(press(40, 10, tea.MouseButtonRight, false))
	require.Equal(t, canvas.ContextMenuOpen, m.Canvas().State())
	assert.Contains(t, m.View(), "Add ellipse")

	m.Update(keyMsg("enter"))
	nodes := m.Canvas().Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, CellCenter(40, 10), nodes[0].Position)
	assert.True(t, m.Dirty())
}

func TestMouseConnect(t *testing.T) {
	m, _ := newTestModel(t)
	a := m.Canvas().AddNode(CellCenter(10, 5), "a")
	b := m.Canvas().AddNode(CellCenter(40, 5), "b")

	m.Update(press(10, 5, tea.MouseButtonLeft, true))
	require.Equal(t, canvas.ConnectingEdge, m.Canvas().State())
	m.Update(motion(25, 5))
	m.Update(motion(40, 5))
	m.Update(release(40, 5))

	assert.Equal(t, []graph.Connection{{Source: a, Target: b}}, m.Canvas().Connections())
}

func TestMouseDragAndWheel(t *testing.T) {
	m, _ := newTestModel(t)
	id := m.Canvas().AddNode(CellCenter(10, 5), "a")

	m.Update(press(10, 5, tea.MouseButtonLeft, false))
	m.Update(motion(20, 8))
	m.Update(release(20, 8))
	n, _ := m.Canvas().Node(id)
	assert.Equal(t, CellCenter(20, 8), n.Position)

	m.Update(press(0, 0, tea.MouseButtonWheelUp, false))
	assert.InDelta(t, 1.1, m.Canvas().Transform().Scale, 1e-9)
	assert.Equal(t, canvas.Idle, m.Canvas().State())
}

func TestRenamePrompt(t *testing.T) {
	m, _ := newTestModel(t)
	id := m.Canvas().AddNode(CellCenter(10, 5), "a")

	m.Update(press(10, 5, tea.MouseButtonRight, false))
	m.Update(keyMsg("right"))
	m.Update(keyMsg("enter"))
	require.Equal(t, canvas.ActionRenameNode, m.prompt)
	assert.Equal(t, "a", m.input.Value())

	m.Update(keyMsg("backspace"))
	m.Update(keyMsg("alpha"))
	m.Update(keyMsg("enter"))

	n, _ := m.Canvas().Node(id)
	assert.Equal(t, "alpha", n.Label)
	assert.Equal(t, canvas.Idle, m.Canvas().State())
}

func TestRenamePromptRejectsTakenLabel(t *testing.T) {
	m, _ := newTestModel(t)
	id := m.Canvas().AddNode(CellCenter(10, 5), "a")
	m.Canvas().AddNode(CellCenter(40, 5), "b")

	m.Update(press(10, 5, tea.MouseButtonRight, false))
	m.Update(keyMsg("right"))
	m.Update(keyMsg("enter"))
	m.Update(keyMsg("backspace"))
	m.Update(keyMsg("b"))
	m.Update(keyMsg("enter"))

	assert.Equal(t, canvas.ActionRenameNode, m.prompt, "prompt stays open")
	assert.Contains(t, m.status, "taken or invalid")
	assert.Contains(t, m.View(), "taken or invalid")
	n, _ := m.Canvas().Node(id)
	assert.Equal(t, "a", n.Label)
	_, menuOpen := m.Canvas().Menu()
	assert.True(t, menuOpen)

	m.Update(keyMsg("backspace"))
	m.Update(keyMsg("c"))
	m.Update(keyMsg("enter"))
	assert.Empty(t, m.prompt)
	assert.Empty(t, m.status)
	n, _ = m.Canvas().Node(id)
	assert.Equal(t, "c", n.Label)
}

func TestPromptPrefillsR2AndSignificance(t *testing.T) {
	m, _ := newTestModel(t)
	c := m.Canvas()
	a := c.AddNode(CellCenter(10, 5), "a")
	b := c.AddNode(CellCenter(40, 5), "b")
	e, err := c.AddEdge(a, b)
	require.NoError(t, err)
	require.NoError(t, c.SetEdgeLabel(e, "0.42"))
	require.NoError(t, c.SetEdgeMeta(e, graph.MetaSignificance, "**"))
	require.NoError(t, c.SetNodeMeta(a, graph.MetaR2, 0.5))

	m.Update(press(10, 5, tea.MouseButtonRight, false))
	m.Update(keyMsg("right"))
	m.Update(keyMsg("right"))
	m.Update(keyMsg("enter"))
	require.Equal(t, canvas.ActionSetR2, m.prompt)
	assert.Equal(t, "0.5", m.input.Value())
	m.Update(keyMsg("esc"))

	m.Update(press(25, 5, tea.MouseButtonRight, false))
	menu, ok := c.Menu()
	require.True(t, ok)
	require.Equal(t, e, menu.Edge)
	m.Update(keyMsg("enter"))
	require.Equal(t, canvas.ActionEditEdgeLabel, m.prompt)
	assert.Equal(t, "0.42**", m.input.Value())
}

func TestPromptEscapeDismisses(t *testing.T) {
	m, _ := newTestModel(t)
	m.Canvas().AddNode(CellCenter(10, 5), "a")
	m.Update(press(10, 5, tea.MouseButtonRight, false))
	m.Update(keyMsg("right"))
	m.Update(keyMsg("enter"))
	m.Update(keyMsg("esc"))
	assert.Empty(t, m.prompt)
	assert.Equal(t, canvas.Idle, m.Canvas().State())
}

func TestSave(t *testing.T) {
	m, path := newTestModel(t)
	m.Canvas().AddNode(CellCenter(10, 5), "a")
	require.True(t, m.Dirty())

	_, cmd := m.Update(keyMsg("ctrl+s"))
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.False(t, m.Dirty())

	doc, err := document.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, doc.Graph.Nodes, 1)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Empty(t, m.View())
}

func TestStatusLine(t *testing.T) {
	m, _ := newTestModel(t)
	m.Canvas().AddNode(CellCenter(10, 5), "a")
	view := m.View()
	assert.Contains(t, view, "Idle")
	assert.Contains(t, view, "1 nodes")
	assert.Contains(t, view, "100%")
}
