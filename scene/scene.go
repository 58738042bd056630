// Package scene loads declarative diagrams from YAML. A scene names its
// draggable points and controls, derives further points from them, and
// lists the shapes to draw every frame.
//
//	title: Two segments
//	bounds: {xmin: 0, xmax: 6, ymin: 0, ymax: 4}
//	points:
//	  - {name: A, x: 4, y: 1}
//	  - {name: B, x: 1, y: 2}
//	ranges:
//	  - {name: Thickness, min: 0, max: 200, value: 70, label: "Thickness = {} px"}
//	shapes:
//	  - {segment: [A, B], color: "#0004", thickness: Thickness}
package scene

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"geoboard/coords"
	"geoboard/surface"
)

var (
	// ErrUnknownReference is returned when a scene names a point, range or
	// checkbox it never defines.
	ErrUnknownReference = errors.New("unknown reference")
	// ErrUnsupportedMode is returned for a mode other than logical or pixel.
	ErrUnsupportedMode = errors.New("unsupported mode")
)

// Scene is a parsed scene document.
type Scene struct {
	Title      string         `yaml:"title"`
	Mode       string         `yaml:"mode"`
	Bounds     *coords.Bounds `yaml:"bounds"`
	Size       *Size          `yaml:"size"`
	Grid       bool           `yaml:"grid"`
	Points     []Point        `yaml:"points"`
	Ranges     []Range        `yaml:"ranges"`
	Checkboxes []Checkbox     `yaml:"checkboxes"`
	Derived    []Derived      `yaml:"derived"`
	Shapes     []Shape        `yaml:"shapes"`
}

// Size is the surface size of a pixel-mode scene.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Point is a draggable point and its default position.
type Point struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// Range is a slider. A zero Step means 1.
type Range struct {
	Name  string  `yaml:"name"`
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Step  float64 `yaml:"step"`
	Value float64 `yaml:"value"`
	Label string  `yaml:"label"`
}

// Checkbox is a boolean control.
type Checkbox struct {
	Name  string `yaml:"name"`
	Value bool   `yaml:"value"`
	Label string `yaml:"label"`
}

// Derived is a point computed every frame from other points. Exactly one
// of Intersect, Midpoint and Offset is set.
type Derived struct {
	Name      string   `yaml:"name"`
	Intersect []string `yaml:"intersect"`
	Midpoint  []string `yaml:"midpoint"`
	Offset    *Offset  `yaml:"offset"`
}

// Offset moves From by Length along the direction Along[0]→Along[1], or
// perpendicular to it.
type Offset struct {
	From          string   `yaml:"from"`
	Along         []string `yaml:"along"`
	Length        Scalar   `yaml:"length"`
	Perpendicular bool     `yaml:"perpendicular"`
}

// Shape is one drawing instruction. Exactly one of Segment, Line, Triangle
// and Point is set.
type Shape struct {
	Segment   []string `yaml:"segment"`
	Line      []string `yaml:"line"`
	Triangle  []string `yaml:"triangle"`
	Point     string   `yaml:"point"`
	Color     string   `yaml:"color"`
	Fill      string   `yaml:"fill"`
	Thickness *Scalar  `yaml:"thickness"`
	When      string   `yaml:"when"`
}

// Kind names the shape's drawing instruction.
func (sh Shape) Kind() string {
	switch {
	case sh.Segment != nil:
		return "segment"
	case sh.Line != nil:
		return "line"
	case sh.Triangle != nil:
		return "triangle"
	case sh.Point != "":
		return "point"
	}
	return ""
}

// Scalar is a number written inline or the name of a range whose current
// value is used.
type Scalar struct {
	Value float64
	Ref   string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Scalar) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number or a range name", n.Line)
	}
	var f float64
	if err := n.Decode(&f); err == nil {
		*s = Scalar{Value: f}
		return nil
	}
	*s = Scalar{Ref: n.Value}
	return nil
}

// Parse decodes and validates a scene document.
func Parse(data []byte) (*Scene, error) {
	var sc Scene
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads and parses the scene file at path.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// IsPixel reports whether the scene uses pixel coordinates.
func (sc *Scene) IsPixel() bool { return strings.EqualFold(sc.Mode, coords.Pixel.String()) }

// Validate checks the mode, the coordinate setup and that every reference
// names something defined earlier in the document.
func (sc *Scene) Validate() error {
	switch {
	case sc.Mode == "" || strings.EqualFold(sc.Mode, coords.Logical.String()):
		if sc.Bounds == nil {
			return errors.New("scene: logical mode needs bounds")
		}
		if err := sc.Bounds.Validate(); err != nil {
			return fmt.Errorf("scene: %w", err)
		}
	case sc.IsPixel():
		if sc.Size == nil || sc.Size.Width <= 0 || sc.Size.Height <= 0 {
			return errors.New("scene: pixel mode needs a positive size")
		}
		if sc.Grid {
			return errors.New("scene: the coordinate grid needs logical mode")
		}
	default:
		return fmt.Errorf("scene: %w %q", ErrUnsupportedMode, sc.Mode)
	}

	points := map[string]bool{}
	ranges := map[string]bool{}
	checks := map[string]bool{}
	for _, p := range sc.Points {
		if p.Name == "" {
			return errors.New("scene: point without a name")
		}
		points[p.Name] = true
	}
	for _, r := range sc.Ranges {
		if r.Name == "" {
			return errors.New("scene: range without a name")
		}
		if r.Step < 0 {
			return fmt.Errorf("scene: range %q has a negative step", r.Name)
		}
		ranges[r.Name] = true
	}
	for _, c := range sc.Checkboxes {
		if c.Name == "" {
			return errors.New("scene: checkbox without a name")
		}
		checks[c.Name] = true
	}

	needPoints := func(where string, names []string, n int) error {
		if len(names) != n {
			return fmt.Errorf("scene: %s needs %d points, got %d", where, n, len(names))
		}
		for _, name := range names {
			if !points[name] {
				return fmt.Errorf("scene: %s: %w point %q", where, ErrUnknownReference, name)
			}
		}
		return nil
	}
	needScalar := func(where string, s Scalar) error {
		if s.Ref != "" && !ranges[s.Ref] {
			return fmt.Errorf("scene: %s: %w range %q", where, ErrUnknownReference, s.Ref)
		}
		return nil
	}

	for _, d := range sc.Derived {
		if d.Name == "" {
			return errors.New("scene: derived point without a name")
		}
		where := "derived " + d.Name
		set := 0
		if d.Intersect != nil {
			set++
			if err := needPoints(where, d.Intersect, 4); err != nil {
				return err
			}
		}
		if d.Midpoint != nil {
			set++
			if err := needPoints(where, d.Midpoint, 2); err != nil {
				return err
			}
		}
		if d.Offset != nil {
			set++
			if err := needPoints(where, append([]string{d.Offset.From}, d.Offset.Along...), 3); err != nil {
				return err
			}
			if err := needScalar(where, d.Offset.Length); err != nil {
				return err
			}
		}
		if set != 1 {
			return fmt.Errorf("scene: %s needs exactly one of intersect, midpoint or offset", where)
		}
		points[d.Name] = true
	}

	for i, sh := range sc.Shapes {
		where := fmt.Sprintf("shape %d", i+1)
		var err error
		switch sh.Kind() {
		case "segment":
			err = needPoints(where, sh.Segment, 2)
		case "line":
			err = needPoints(where, sh.Line, 2)
		case "triangle":
			err = needPoints(where, sh.Triangle, 3)
		case "point":
			err = needPoints(where, []string{sh.Point}, 1)
		default:
			err = fmt.Errorf("scene: %s has no segment, line, triangle or point", where)
		}
		if err != nil {
			return err
		}
		if sh.Thickness != nil {
			if err := needScalar(where, *sh.Thickness); err != nil {
				return err
			}
		}
		if sh.When != "" && !checks[sh.When] {
			return fmt.Errorf("scene: %s: %w checkbox %q", where, ErrUnknownReference, sh.When)
		}
		for _, c := range []string{sh.Color, sh.Fill} {
			if c == "" {
				continue
			}
			if _, err := surface.ParseColor(c); err != nil {
				return fmt.Errorf("scene: %s: %w", where, err)
			}
		}
	}
	return nil
}
