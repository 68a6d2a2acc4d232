package render

import (
	"image/color"
	"strconv"

	"github.com/plus3/scenesync/ecs"
	"github.com/plus3/scenesync/scene"
)

// Position places an entity in world space. Entities without one sit at the origin.
type Position struct {
	X, Y float64
}

// Sprite draws the texture at Path centred on the entity.
type Sprite struct {
	Path   string
	Hidden bool
	// Tint multiplies the texture colours; the zero value leaves them unchanged.
	Tint color.RGBA
}

// Align is the horizontal alignment of multi-line text.
type Align = scene.Align

const (
	AlignLeft   = scene.AlignLeft
	AlignCenter = scene.AlignCenter
	AlignRight  = scene.AlignRight
)

// TextStyle styles a Text component. Zero Size means 16 pixels and a zero
// Color means white.
type TextStyle struct {
	Size        float64
	Color       color.RGBA
	Align       Align
	LineSpacing float64
}

// Text draws Content with its top-left corner on the entity.
type Text struct {
	Content string
	Style   TextStyle
}

// Line draws a segment from the entity's position to the end point (X, Y).
type Line struct {
	X, Y  float64
	Width float64
	Color color.RGBA
}

// ShapeType selects the geometry of a Primitive. The zero value is not a shape.
type ShapeType int

const (
	ShapeCircle ShapeType = iota + 1
	ShapeRectangle
	ShapeEllipse
	ShapeRoundedRectangle
	ShapePolygon
)

func (s ShapeType) String() string {
	switch s {
	case ShapeCircle:
		return "circle"
	case ShapeRectangle:
		return "rectangle"
	case ShapeEllipse:
		return "ellipse"
	case ShapeRoundedRectangle:
		return "rounded-rectangle"
	case ShapePolygon:
		return "polygon"
	default:
		return "ShapeType(" + strconv.Itoa(int(s)) + ")"
	}
}

// Primitive draws a filled shape centred on the entity.
//
// Circles and polygons use Radius; polygons also use Sides (at least 3).
// Rectangles and ellipses use Width and Height. Rounded rectangles add
// CornerRadius. A positive StrokeWidth outlines the shape with StrokeColor.
type Primitive struct {
	Shape        ShapeType
	Color        color.RGBA
	Radius       float64
	Width        float64
	Height       float64
	CornerRadius float64
	Sides        int
	StrokeWidth  float64
	StrokeColor  color.RGBA
}

// Animation plays a list of texture ids, or a sequence named in the asset
// manifest. A non-zero FPS overrides the sequence's rate.
type Animation struct {
	Frames   []string
	Sequence string
	FPS      float64
	Loop     bool
	Paused   bool
	Hidden   bool
}

// Transform rotates, scales and fades the entity's visuals. Zero scales
// mean 1 and a Transparency of 0 is fully opaque.
type Transform struct {
	Rotation     float64
	ScaleX       float64
	ScaleY       float64
	Transparency float64
}

// ZIndex orders entities on the stage; higher values draw on top.
type ZIndex int

// RegisterComponents adds every render component to the registry.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[Text](registry)
	ecs.RegisterComponent[Line](registry)
	ecs.RegisterComponent[Primitive](registry)
	ecs.RegisterComponent[Animation](registry)
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[ZIndex](registry)
}
