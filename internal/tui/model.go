// Package tui is a terminal host for the canvas.
//
// The whole terminal except a two-line footer is a CellSurface. Mouse input
// is forwarded to the canvas as pointer events (left button primary, right
// button secondary, wheel zoom, shift or ctrl to connect). Context menus are
// shown in the footer and driven with the arrow keys; rename and estimate
// entries open a text prompt. A rename prompt stays open until the label is
// free.
package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/pathcanvas/internal/document"
	"github.com/matzehuels/pathcanvas/pkg/canvas"
	"github.com/matzehuels/pathcanvas/pkg/graph"
)

const footerLines = 2

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the logger passed to the canvas.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithCanvasOptions passes extra options to canvas.New.
func WithCanvasOptions(opts ...canvas.Option) Option {
	return func(m *Model) { m.canvasOpts = append(m.canvasOpts, opts...) }
}

type savedMsg struct{ path string }

type saveErrMsg struct{ err error }

// Model is the bubbletea model of the editor.
type Model struct {
	canvas     *canvas.Canvas
	surface    *CellSurface
	doc        *document.Document
	path       string
	logger     *log.Logger
	canvasOpts []canvas.Option

	keys  keyMap
	help  help.Model
	input textinput.Model

	prompt  canvas.MenuAction // set while the text prompt is open
	cursor  int               // highlighted menu item
	button  canvas.Button     // button of the press in progress
	dirty   bool
	status  string
	width   int
	height  int
	closing bool
}

// New opens doc for editing. Saves go to path.
func New(doc *document.Document, path string, cfg canvas.Config, opts ...Option) (*Model, error) {
	m := &Model{
		doc:     doc,
		path:    path,
		surface: NewCellSurface(80, 24-footerLines),
		keys:    defaultKeyMap(),
		help:    help.New(),
		input:   textinput.New(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.input.Prompt = "› "
	m.input.CharLimit = 128

	gm, err := doc.Model()
	if err != nil {
		return nil, err
	}
	copts := append([]canvas.Option{
		canvas.WithModel(gm),
		canvas.WithViewport(m.surface.Viewport()),
		canvas.WithLogger(m.logger),
	}, m.canvasOpts...)
	c, err := canvas.New(m.surface, cfg, copts...)
	if err != nil {
		return nil, err
	}
	c.OnGraphChanged(func(s graph.Snapshot) {
		m.doc.Graph = s
		m.dirty = true
	})
	m.canvas = c
	return m, nil
}

// Canvas returns the canvas being edited.
func (m *Model) Canvas() *canvas.Canvas { return m.canvas }

// Dirty reports whether there are unsaved changes.
func (m *Model) Dirty() bool { return m.dirty }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.surface.Resize(msg.Width, max(msg.Height-footerLines, 1))
		m.canvas.HandleEvent(canvas.Resize{Viewport: m.surface.Viewport()})
	case tea.MouseMsg:
		if m.prompt == "" {
			m.mouse(msg)
		}
	case tea.KeyMsg:
		return m, m.key(msg)
	case savedMsg:
		m.dirty = false
		m.status = "saved " + msg.path
	case saveErrMsg:
		m.status = "save failed: " + msg.err.Error()
	}
	return m, nil
}

func (m *Model) mouse(msg tea.MouseMsg) {
	if _, rows := m.surface.Size(); msg.Y >= rows {
		return
	}
	p := CellCenter(msg.X, msg.Y)
	var mods canvas.Modifiers
	if msg.Shift {
		mods |= canvas.ModShift
	}
	if msg.Ctrl {
		mods |= canvas.ModCtrl
	}
	if msg.Alt {
		mods |= canvas.ModAlt
	}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.canvas.HandleEvent(canvas.Zoom{Position: p, Delta: 1})
			return
		case tea.MouseButtonWheelDown:
			m.canvas.HandleEvent(canvas.Zoom{Position: p, Delta: -1})
			return
		}
		b, ok := pointerButton(msg.Button)
		if !ok {
			return
		}
		m.button = b
		m.status = ""
		m.canvas.HandleEvent(canvas.PointerDown{Position: p, Button: b, Modifiers: mods})
		m.cursor = 0
	case tea.MouseActionRelease:
		// many terminals do not report which button was released
		b := m.button
		if rb, ok := pointerButton(msg.Button); ok {
			b = rb
		}
		m.canvas.HandleEvent(canvas.PointerUp{Position: p, Button: b})
	case tea.MouseActionMotion:
		m.canvas.HandleEvent(canvas.PointerMove{Position: p, Modifiers: mods})
	}
}

func pointerButton(b tea.MouseButton) (canvas.Button, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return canvas.ButtonPrimary, true
	case tea.MouseButtonRight:
		return canvas.ButtonSecondary, true
	case tea.MouseButtonMiddle:
		return canvas.ButtonMiddle, true
	}
	return 0, false
}

func (m *Model) key(msg tea.KeyMsg) tea.Cmd {
	if m.prompt != "" {
		return m.promptKey(msg)
	}
	if menu, ok := m.canvas.Menu(); ok {
		if cmd, handled := m.menuKey(menu, msg); handled {
			return cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.closing = true
		return tea.Quit
	case key.Matches(msg, m.keys.Save):
		return m.save()
	case key.Matches(msg, m.keys.Cancel):
		m.canvas.HandleEvent(canvas.KeyPress{Key: canvas.KeyEscape})
	case key.Matches(msg, m.keys.ZoomIn):
		m.canvas.HandleEvent(canvas.Zoom{Position: m.surface.Viewport().Center(), Delta: 1})
	case key.Matches(msg, m.keys.ZoomOut):
		m.canvas.HandleEvent(canvas.Zoom{Position: m.surface.Viewport().Center(), Delta: -1})
	case key.Matches(msg, m.keys.ResetView):
		m.canvas.ResetView()
	case key.Matches(msg, m.keys.Delete):
		m.canvas.HandleEvent(canvas.KeyPress{Key: canvas.KeyDelete})
	}
	return nil
}

func (m *Model) menuKey(menu canvas.Menu, msg tea.KeyMsg) (tea.Cmd, bool) {
	n := len(menu.Items)
	switch {
	case key.Matches(msg, m.keys.Prev):
		m.cursor = (m.cursor - 1 + n) % n
	case key.Matches(msg, m.keys.Next):
		m.cursor = (m.cursor + 1) % n
	case key.Matches(msg, m.keys.Select):
		item := menu.Items[min(m.cursor, n-1)]
		if item.Action.NeedsText() {
			m.prompt = item.Action
			m.input.SetValue(m.currentText(menu, item.Action))
			m.input.CursorEnd()
			return m.input.Focus(), true
		}
		m.canvas.HandleEvent(canvas.MenuSelect{Action: item.Action})
	case key.Matches(msg, m.keys.Cancel):
		m.canvas.HandleEvent(canvas.MenuDismiss{})
	default:
		return nil, false
	}
	return nil, true
}

func (m *Model) promptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		action := m.prompt
		text := strings.TrimSpace(m.input.Value())
		if menu, ok := m.canvas.Menu(); ok && action == canvas.ActionRenameNode && !m.canvas.LabelAvailable(text, menu.Node) {
			m.status = fmt.Sprintf("label %q is taken or invalid", text)
			return nil
		}
		m.prompt = ""
		m.status = ""
		m.input.Blur()
		m.canvas.HandleEvent(canvas.MenuSelect{Action: action, Text: text})
		return nil
	case tea.KeyEsc:
		m.prompt = ""
		m.input.Blur()
		m.canvas.HandleEvent(canvas.MenuDismiss{})
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) currentText(menu canvas.Menu, action canvas.MenuAction) string {
	switch action {
	case canvas.ActionRenameNode:
		if n, ok := m.canvas.Node(menu.Node); ok {
			return n.Label
		}
	case canvas.ActionSetR2:
		if n, ok := m.canvas.Node(menu.Node); ok {
			if v, ok := n.Meta.Float(graph.MetaR2); ok {
				return strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
	case canvas.ActionEditEdgeLabel:
		if e, ok := m.canvas.Edge(menu.Edge); ok {
			return e.Label + e.Meta.Text(graph.MetaSignificance)
		}
	}
	return ""
}

func (m *Model) save() tea.Cmd {
	if m.path == "" {
		m.status = "no file to save to"
		return nil
	}
	d := *m.doc
	d.Graph = m.canvas.Snapshot()
	path := m.path
	return func() tea.Msg {
		if err := d.WriteFile(path); err != nil {
			return saveErrMsg{err}
		}
		return savedMsg{path}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.closing {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.surface.View())
	b.WriteByte('\n')
	b.WriteString(m.statusLine())
	b.WriteByte('\n')
	b.WriteString(m.bottomLine())
	return b.String()
}

func (m *Model) statusLine() string {
	parts := []string{
		styleState.Render(m.canvas.State().String()),
		styleValue.Render(fmt.Sprintf("%d nodes", len(m.canvas.Nodes()))),
		styleValue.Render(fmt.Sprintf("%d edges", len(m.canvas.Edges()))),
		styleDim.Render(fmt.Sprintf("%.0f%%", m.canvas.Transform().Scale*100)),
	}
	name := m.path
	if name == "" {
		name = "untitled"
	}
	if m.dirty {
		name += " *"
	}
	parts = append(parts, styleDim.Render(name))
	line := strings.Join(parts, styleDim.Render(" · "))
	if fb, ok := m.canvas.Feedback(); ok {
		line += "  " + styleError.Render(fb.Reason)
	} else if m.status != "" {
		line += "  " + styleDim.Render(m.status)
	}
	return line
}

func (m *Model) bottomLine() string {
	if m.prompt != "" {
		return m.input.View()
	}
	if menu, ok := m.canvas.Menu(); ok {
		items := make([]string, len(menu.Items))
		for i, it := range menu.Items {
			if i == m.cursor {
				items[i] = styleSelected.Render(it.Label)
			} else {
				items[i] = styleItem.Render(it.Label)
			}
		}
		return strings.Join(items, " ")
	}
	return m.help.View(m.keys)
}
