package canvas

import (
	"github.com/matzehuels/pathcanvas/pkg/geom"
)

// Event is an input delivered to Canvas.HandleEvent. Positions are screen
// coordinates.
type Event interface {
	eventName() string
}

// Button identifies a pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonMiddle
)

func (b Button) String() string {
	switch b {
	case ButtonPrimary:
		return "primary"
	case ButtonSecondary:
		return "secondary"
	case ButtonMiddle:
		return "middle"
	}
	return "unknown"
}

// Modifiers is a set of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// Has reports whether all of m2 are held.
func (m Modifiers) Has(m2 Modifiers) bool { return m&m2 == m2 }

// connect reports whether the modifiers turn a primary press into a connect
// gesture.
func (m Modifiers) connect() bool { return m&(ModShift|ModCtrl) != 0 }

// PointerDown is a button press.
type PointerDown struct {
	Position  geom.Point
	Button    Button
	Modifiers Modifiers
}

// PointerMove is pointer motion, with or without a button held.
type PointerMove struct {
	Position  geom.Point
	Modifiers Modifiers
}

// PointerUp is a button release.
type PointerUp struct {
	Position geom.Point
	Button   Button
}

// Zoom scales the view about Position. Factor, when positive, is used as is;
// otherwise the sign of Delta selects one ZoomStep in or out. An Ongoing zoom
// (a pinch, say) keeps the canvas in PanningOrZooming until ZoomEnd.
type Zoom struct {
	Position geom.Point
	Delta    float64
	Factor   float64
	Ongoing  bool
}

// ZoomEnd ends an ongoing zoom gesture.
type ZoomEnd struct{}

// Key names understood by KeyPress.
type Key string

const (
	KeyEscape    Key = "escape"
	KeyDelete    Key = "delete"
	KeyBackspace Key = "backspace"
)

// KeyPress is a key press. Keys the canvas does not use are ignored.
type KeyPress struct {
	Key Key
}

// MenuSelect chooses an item of the open context menu. Text carries the new
// label for ActionRenameNode and the estimate for ActionEditEdgeLabel.
type MenuSelect struct {
	Action MenuAction
	Text   string
}

// MenuDismiss closes the open context menu.
type MenuDismiss struct{}

// Resize changes the screen viewport the canvas draws into.
type Resize struct {
	Viewport geom.Rect
}

func (PointerDown) eventName() string { return "PointerDown" }
func (PointerMove) eventName() string { return "PointerMove" }
func (PointerUp) eventName() string   { return "PointerUp" }
func (Zoom) eventName() string        { return "Zoom" }
func (ZoomEnd) eventName() string     { return "ZoomEnd" }
func (KeyPress) eventName() string    { return "KeyPress" }
func (MenuSelect) eventName() string  { return "MenuSelect" }
func (MenuDismiss) eventName() string { return "MenuDismiss" }
func (Resize) eventName() string      { return "Resize" }
