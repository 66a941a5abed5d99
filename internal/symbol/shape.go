package symbol

import (
	"fmt"

	"github.com/dshills/wirecanvas/internal/geom"
)

// Primitive operations understood by Shape.Draw.
const (
	OpLine   = "line"   // args: x0 y0 x1 y1 [x2 y2 ...], stroked polyline
	OpRect   = "rect"   // args: x y w h
	OpCircle = "circle" // args: cx cy r
	OpText   = "text"   // args: x y; text
)

// Primitive is one drawing instruction of a declarative symbol.
type Primitive struct {
	Op   string    `yaml:"op"`
	Args []float64 `yaml:"args,omitempty"`
	Text string    `yaml:"text,omitempty"`
	Fill bool      `yaml:"fill,omitempty"`
}

// Terminal is a named connection point.
type Terminal struct {
	Name string  `yaml:"name,omitempty"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// Shape is a declarative symbol definition, as found in YAML libraries.
type Shape struct {
	Name        string      `yaml:"class"`
	Category    string      `yaml:"category,omitempty"`
	Description string      `yaml:"description,omitempty"`
	Area        geom.Rect   `yaml:"area"`
	Pins        []Terminal  `yaml:"terminals,omitempty"`
	Primitives  []Primitive `yaml:"draw,omitempty"`
}

// Class implements Definition.
func (s *Shape) Class() string { return s.Name }

// BoundingArea implements Geometry.
func (s *Shape) BoundingArea() geom.Rect { return s.Area }

// Terminals implements Geometry.
func (s *Shape) Terminals() []geom.Point {
	out := make([]geom.Point, len(s.Pins))
	for i, t := range s.Pins {
		out[i] = geom.Point{X: t.X, Y: t.Y}
	}
	return out
}

// Draw implements Geometry. With no primitives the bounding area is drawn.
func (s *Shape) Draw(c Canvas) error {
	if len(s.Primitives) == 0 {
		c.Rect(s.Area.X, s.Area.Y, s.Area.W, s.Area.H)
		c.Stroke()
		return nil
	}
	for i, p := range s.Primitives {
		if err := p.draw(c); err != nil {
			return fmt.Errorf("%s: draw[%d]: %w", s.Name, i, err)
		}
	}
	return nil
}

// Validate checks the definition for structural problems.
func (s *Shape) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("symbol without class")
	}
	if s.Area.W <= 0 || s.Area.H <= 0 {
		return fmt.Errorf("%s: area must have positive size", s.Name)
	}
	for i, p := range s.Primitives {
		if err := p.validate(); err != nil {
			return fmt.Errorf("%s: draw[%d]: %w", s.Name, i, err)
		}
	}
	return nil
}

func (p Primitive) validate() error {
	n := len(p.Args)
	switch p.Op {
	case OpLine:
		if n < 4 || n%2 != 0 {
			return fmt.Errorf("line needs an even number of at least 4 args, got %d", n)
		}
	case OpRect:
		if n != 4 {
			return fmt.Errorf("rect needs 4 args, got %d", n)
		}
	case OpCircle:
		if n != 3 {
			return fmt.Errorf("circle needs 3 args, got %d", n)
		}
	case OpText:
		if n != 2 {
			return fmt.Errorf("text needs 2 args, got %d", n)
		}
	default:
		return fmt.Errorf("unknown op %q", p.Op)
	}
	return nil
}

func (p Primitive) draw(c Canvas) error {
	if err := p.validate(); err != nil {
		return err
	}
	a := p.Args
	switch p.Op {
	case OpLine:
		c.MoveTo(a[0], a[1])
		for i := 2; i < len(a); i += 2 {
			c.LineTo(a[i], a[i+1])
		}
	case OpRect:
		c.Rect(a[0], a[1], a[2], a[3])
	case OpCircle:
		c.Circle(a[0], a[1], a[2])
	case OpText:
		c.Text(a[0], a[1], p.Text)
		return nil
	}
	if p.Fill {
		c.Fill()
	} else {
		c.Stroke()
	}
	return nil
}
