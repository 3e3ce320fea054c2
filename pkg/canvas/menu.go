package canvas

import (
	"github.com/matzehuels/pathcanvas/pkg/geom"
	"github.com/matzehuels/pathcanvas/pkg/graph"
)

// MenuAction identifies a context menu entry.
type MenuAction string

const (
	ActionAddEllipse    MenuAction = "add_ellipse"
	ActionAddRectangle  MenuAction = "add_rectangle"
	ActionAddConnection MenuAction = "add_connection"
	ActionRenameNode    MenuAction = "rename_node"
	ActionSetR2         MenuAction = "set_r2"
	ActionDeleteNode    MenuAction = "delete_node"
	ActionEditEdgeLabel MenuAction = "edit_edge_label"
	ActionDeleteEdge    MenuAction = "delete_edge"
)

// NeedsText reports whether the action expects MenuSelect.Text.
func (a MenuAction) NeedsText() bool {
	return a == ActionRenameNode || a == ActionSetR2 || a == ActionEditEdgeLabel
}

// MenuItem is one entry of a context menu.
type MenuItem struct {
	Action MenuAction
	Label  string
}

// Menu is an open context menu. Exactly one of Node and Edge is set for
// element menus; both are zero for the canvas menu.
type Menu struct {
	Position geom.Point // screen
	Logical  geom.Point
	Node     graph.NodeID
	Edge     graph.EdgeID
	Items    []MenuItem
}

// Has reports whether the menu offers action.
func (m Menu) Has(action MenuAction) bool {
	for _, it := range m.Items {
		if it.Action == action {
			return true
		}
	}
	return false
}

func canvasMenu(cfg Config) []MenuItem {
	return []MenuItem{
		{ActionAddEllipse, "Add " + cfg.EllipseName},
		{ActionAddRectangle, "Add " + cfg.RectangleName},
	}
}

func nodeMenu() []MenuItem {
	return []MenuItem{
		{ActionAddConnection, "Add path"},
		{ActionRenameNode, "Rename node"},
		{ActionSetR2, "Set R²"},
		{ActionDeleteNode, "Delete node"},
	}
}

func edgeMenu() []MenuItem {
	return []MenuItem{
		{ActionEditEdgeLabel, "Set estimate"},
		{ActionDeleteEdge, "Delete"},
	}
}
