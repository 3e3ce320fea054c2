package canvas

import (
	"bytes"
	"io"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pathcanvas/pkg/errors"
	"github.com/matzehuels/pathcanvas/pkg/graph"
	"github.com/matzehuels/pathcanvas/pkg/render"
)

// NodeColors are the fills of the three node classes.
type NodeColors struct {
	Default    string `json:"default" toml:"default"`
	Allowed    string `json:"allowed" toml:"allowed"`
	NotAllowed string `json:"not_allowed" toml:"not_allowed"`
}

// Config is the appearance and behaviour of a canvas. It is captured by
// value at construction and only replaced through UpdateConfiguration.
//
// Zero-valued fields take their defaults (see WithDefaults). Lengths are in
// logical units.
type Config struct {
	NodeColor  NodeColors `json:"node_color" toml:"node_color"`
	ArrowColor string     `json:"arrow_color" toml:"arrow_color"`
	FontColor  string     `json:"font_color" toml:"font_color"`
	GuideColor string     `json:"guide_color" toml:"guide_color"`
	FontSize   float64    `json:"font_size" toml:"font_size"`

	// SnapTolerance is the per-axis snapping distance. Negative disables
	// snapping.
	SnapTolerance float64 `json:"snap_tolerance" toml:"snap_tolerance"`
	HitRadius     float64 `json:"hit_radius" toml:"hit_radius"`
	EdgeTolerance float64 `json:"edge_tolerance" toml:"edge_tolerance"`

	// ZoomRange bounds the view scale as [min, max].
	ZoomRange [2]float64 `json:"zoom_range" toml:"zoom_range"`
	// ZoomStep is the scale factor of one wheel notch; zooming out divides
	// by it.
	ZoomStep float64 `json:"zoom_step" toml:"zoom_step"`

	// AllowReciprocal permits B→A while A→B exists.
	AllowReciprocal bool `json:"allow_reciprocal" toml:"allow_reciprocal"`

	LabelPrefix  string `json:"label_prefix" toml:"label_prefix"`
	DefaultShape string `json:"default_shape" toml:"default_shape"`

	// EllipseName and RectangleName are the user-facing names of the two
	// node kinds in menus, e.g. "latent" and "manifest".
	EllipseName   string `json:"ellipse_name" toml:"ellipse_name"`
	RectangleName string `json:"rectangle_name" toml:"rectangle_name"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		NodeColor: NodeColors{
			Default:    "#faf9f6",
			Allowed:    "#90e4c1",
			NotAllowed: "#ffcccb",
		},
		ArrowColor:    "#000000",
		FontColor:     "#000000",
		GuideColor:    "#3b8ed0",
		FontSize:      9,
		SnapTolerance: 3,
		HitRadius:     25,
		EdgeTolerance: 5,
		ZoomRange:     [2]float64{0.2, 5},
		ZoomStep:      1.1,
		LabelPrefix:   graph.DefaultLabelPrefix,
		DefaultShape:  string(graph.ShapeEllipse),
		EllipseName:   "ellipse",
		RectangleName: "rectangle",
	}
}

// WithDefaults returns c with every zero-valued field replaced by its
// default. AllowReciprocal has no default to fill.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	str := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	num := func(v *float64, def float64) {
		if *v == 0 {
			*v = def
		}
	}
	str(&c.NodeColor.Default, d.NodeColor.Default)
	str(&c.NodeColor.Allowed, d.NodeColor.Allowed)
	str(&c.NodeColor.NotAllowed, d.NodeColor.NotAllowed)
	str(&c.ArrowColor, d.ArrowColor)
	str(&c.FontColor, d.FontColor)
	str(&c.GuideColor, d.GuideColor)
	num(&c.FontSize, d.FontSize)
	num(&c.SnapTolerance, d.SnapTolerance)
	num(&c.HitRadius, d.HitRadius)
	num(&c.EdgeTolerance, d.EdgeTolerance)
	if c.ZoomRange == [2]float64{} {
		c.ZoomRange = d.ZoomRange
	}
	num(&c.ZoomStep, d.ZoomStep)
	str(&c.LabelPrefix, d.LabelPrefix)
	str(&c.DefaultShape, d.DefaultShape)
	str(&c.EllipseName, d.EllipseName)
	str(&c.RectangleName, d.RectangleName)
	return c
}

// Validate reports the first malformed field as a CONFIGURATION_ERROR.
func (c Config) Validate() error {
	colors := []struct{ field, value string }{
		{"node_color.default", c.NodeColor.Default},
		{"node_color.allowed", c.NodeColor.Allowed},
		{"node_color.not_allowed", c.NodeColor.NotAllowed},
		{"arrow_color", c.ArrowColor},
		{"font_color", c.FontColor},
		{"guide_color", c.GuideColor},
	}
	for _, col := range colors {
		if err := errors.ValidateColor(col.field, col.value); err != nil {
			return err
		}
	}
	nums := []struct {
		field string
		value float64
	}{
		{"font_size", c.FontSize},
		{"snap_tolerance", c.SnapTolerance},
		{"hit_radius", c.HitRadius},
		{"edge_tolerance", c.EdgeTolerance},
		{"zoom_range", c.ZoomRange[0]},
		{"zoom_range", c.ZoomRange[1]},
		{"zoom_step", c.ZoomStep},
	}
	for _, n := range nums {
		if math.IsNaN(n.value) || math.IsInf(n.value, 0) {
			return errors.New(errors.ErrCodeConfiguration, "%s must be finite, got %v", n.field, n.value)
		}
	}
	if c.FontSize <= 0 {
		return errors.New(errors.ErrCodeConfiguration, "font_size must be positive, got %v", c.FontSize)
	}
	if c.HitRadius <= 0 {
		return errors.New(errors.ErrCodeConfiguration, "hit_radius must be positive, got %v", c.HitRadius)
	}
	if c.EdgeTolerance < 0 {
		return errors.New(errors.ErrCodeConfiguration, "edge_tolerance must not be negative, got %v", c.EdgeTolerance)
	}
	if lo, hi := c.ZoomRange[0], c.ZoomRange[1]; lo <= 0 || hi < lo {
		return errors.New(errors.ErrCodeConfiguration, "zoom_range must satisfy 0 < min <= max, got [%v, %v]", lo, hi)
	}
	if c.ZoomStep <= 1 {
		return errors.New(errors.ErrCodeConfiguration, "zoom_step must be greater than 1, got %v", c.ZoomStep)
	}
	if strings.TrimSpace(c.LabelPrefix) == "" {
		return errors.New(errors.ErrCodeConfiguration, "label_prefix cannot be empty")
	}
	if _, err := graph.ParseShape(c.DefaultShape); err != nil {
		return errors.Wrap(errors.ErrCodeConfiguration, err, "default_shape")
	}
	return nil
}

// Shape returns the parsed default shape, ellipse if it does not parse.
func (c Config) Shape() graph.Shape {
	s, err := graph.ParseShape(c.DefaultShape)
	if err != nil {
		return graph.Ellipse
	}
	return s
}

// Palette returns the renderer colours for c.
func (c Config) Palette() render.Palette {
	return render.Palette{
		NodeDefault:    render.Color(c.NodeColor.Default),
		NodeAllowed:    render.Color(c.NodeColor.Allowed),
		NodeNotAllowed: render.Color(c.NodeColor.NotAllowed),
		Arrow:          render.Color(c.ArrowColor),
		Font:           render.Color(c.FontColor),
		Guide:          render.Color(c.GuideColor),
	}
}

// ParseConfig decodes a TOML configuration. Unset keys take their defaults.
// Unrecognized keys and malformed values are rejected with a
// CONFIGURATION_ERROR naming them.
func ParseConfig(data []byte) (Config, error) {
	var c Config
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfiguration, err, "parse configuration")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		slices.Sort(keys)
		return Config{}, errors.New(errors.ErrCodeConfiguration, "unrecognized keys: %s", strings.Join(keys, ", "))
	}
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// LoadConfig reads and parses a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeConfiguration, err, "read %s", path)
	}
	return ParseConfig(data)
}

// EncodeConfig writes c as TOML.
func EncodeConfig(w io.Writer, c Config) error {
	return toml.NewEncoder(w).Encode(c)
}

// String returns c as TOML.
func (c Config) String() string {
	var buf bytes.Buffer
	_ = EncodeConfig(&buf, c)
	return buf.String()
}
