package scene

import (
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/gogpu/gg"
	"github.com/rotisserie/eris"
)

// Point is a position in node space.
type Point = gg.Point

// ShapeKind tags a recorded Graphics shape.
type ShapeKind int

const (
	KindPath ShapeKind = iota
	KindCircle
	KindEllipse
	KindRect
	KindRoundedRect
	KindPolygon
)

func (k ShapeKind) String() string {
	switch k {
	case KindPath:
		return "path"
	case KindCircle:
		return "circle"
	case KindEllipse:
		return "ellipse"
	case KindRect:
		return "rect"
	case KindRoundedRect:
		return "rounded-rect"
	case KindPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// Shape is one recorded drawing command with the fill and line style that
// were active when it was recorded.
//
// Circles use X, Y and R. Ellipses use X, Y as centre and W, H as radii.
// Rectangles use X, Y as the top-left corner, W, H and, when rounded, R.
// Paths and polygons use Points.
type Shape struct {
	Kind       ShapeKind
	X, Y, W, H float64
	R          float64
	Points     []Point
	Closed     bool

	Filled    bool
	Fill      color.RGBA
	LineWidth float64
	Line      color.RGBA
}

// Graphics records vector shapes and rasterizes them on demand.
type Graphics struct {
	Object

	shapes    []Shape
	fill      color.RGBA
	filling   bool
	lineWidth float64
	line      color.RGBA
	path      int

	baked   image.Image
	originX float64
	originY float64
	dirty   bool
	bakes   int
	bakeErr error
}

// NewGraphics creates an empty graphics node.
func NewGraphics() *Graphics {
	return &Graphics{Object: newObject(), path: -1}
}

// LineStyle sets the outline used by following shapes. A zero width disables outlines.
func (g *Graphics) LineStyle(width float64, c color.RGBA) *Graphics {
	g.lineWidth = width
	g.line = c
	g.path = -1
	return g
}

// BeginFill fills following shapes with c until EndFill.
func (g *Graphics) BeginFill(c color.RGBA) *Graphics {
	g.fill = c
	g.filling = true
	g.path = -1
	return g
}

// EndFill stops filling.
func (g *Graphics) EndFill() *Graphics {
	g.filling = false
	g.path = -1
	return g
}

// MoveTo starts a new path at (x, y).
func (g *Graphics) MoveTo(x, y float64) *Graphics {
	g.record(Shape{Kind: KindPath, Points: []Point{{X: x, Y: y}}})
	g.path = len(g.shapes) - 1
	return g
}

// LineTo extends the current path to (x, y). Without a current path one is
// started at the origin.
func (g *Graphics) LineTo(x, y float64) *Graphics {
	if g.path < 0 {
		g.MoveTo(0, 0)
	}
	s := &g.shapes[g.path]
	s.Points = append(s.Points, Point{X: x, Y: y})
	g.dirty = true
	return g
}

// ClosePath closes the current path back to its first point.
func (g *Graphics) ClosePath() *Graphics {
	if g.path >= 0 {
		g.shapes[g.path].Closed = true
		g.path = -1
		g.dirty = true
	}
	return g
}

// DrawCircle records a circle centred on (x, y).
func (g *Graphics) DrawCircle(x, y, r float64) *Graphics {
	return g.record(Shape{Kind: KindCircle, X: x, Y: y, R: r})
}

// DrawEllipse records an ellipse centred on (x, y) with radii rx, ry.
func (g *Graphics) DrawEllipse(x, y, rx, ry float64) *Graphics {
	return g.record(Shape{Kind: KindEllipse, X: x, Y: y, W: rx, H: ry})
}

// DrawRect records a rectangle with its top-left corner at (x, y).
func (g *Graphics) DrawRect(x, y, w, h float64) *Graphics {
	return g.record(Shape{Kind: KindRect, X: x, Y: y, W: w, H: h})
}

// DrawRoundedRect records a rectangle with rounded corners of radius r.
func (g *Graphics) DrawRoundedRect(x, y, w, h, r float64) *Graphics {
	return g.record(Shape{Kind: KindRoundedRect, X: x, Y: y, W: w, H: h, R: r})
}

// DrawPolygon records a closed polygon through points.
func (g *Graphics) DrawPolygon(points []Point) *Graphics {
	return g.record(Shape{Kind: KindPolygon, Points: slices.Clone(points), Closed: true})
}

// DrawRegularPolygon records a regular polygon with the given number of sides
// inscribed in a circle of radius r. The first vertex points up, then rotation applies.
func (g *Graphics) DrawRegularPolygon(x, y, r float64, sides int, rotation float64) *Graphics {
	if sides < 3 {
		sides = 3
	}
	points := make([]Point, sides)
	for i := range points {
		angle := rotation - math.Pi/2 + 2*math.Pi*float64(i)/float64(sides)
		points[i] = Point{X: x + r*math.Cos(angle), Y: y + r*math.Sin(angle)}
	}
	return g.record(Shape{Kind: KindPolygon, Points: points, Closed: true})
}

// Clear drops every recorded shape and resets the styles.
func (g *Graphics) Clear() *Graphics {
	g.shapes = g.shapes[:0]
	g.filling = false
	g.lineWidth = 0
	g.path = -1
	g.dirty = true
	return g
}

// Shapes returns the recorded shapes. The slice must not be modified.
func (g *Graphics) Shapes() []Shape {
	return g.shapes
}

// Bakes returns how many times the node has been rasterized.
func (g *Graphics) Bakes() int {
	return g.bakes
}

// Err returns the error of the last rasterization, if any.
func (g *Graphics) Err() error {
	return g.bakeErr
}

func (g *Graphics) record(s Shape) *Graphics {
	s.Filled = g.filling
	s.Fill = g.fill
	s.LineWidth = g.lineWidth
	s.Line = g.line
	g.shapes = append(g.shapes, s)
	g.path = -1
	g.dirty = true
	return g
}

// Bounds returns the area covered by the recorded shapes, outlines included.
func (g *Graphics) Bounds() (minX, minY, maxX, maxY float64) {
	if len(g.shapes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	grow := func(x0, y0, x1, y1, pad float64) {
		minX = min(minX, x0-pad)
		minY = min(minY, y0-pad)
		maxX = max(maxX, x1+pad)
		maxY = max(maxY, y1+pad)
	}

	for _, s := range g.shapes {
		pad := s.LineWidth / 2
		switch s.Kind {
		case KindCircle:
			grow(s.X-s.R, s.Y-s.R, s.X+s.R, s.Y+s.R, pad)
		case KindEllipse:
			grow(s.X-s.W, s.Y-s.H, s.X+s.W, s.Y+s.H, pad)
		case KindRect, KindRoundedRect:
			grow(s.X, s.Y, s.X+s.W, s.Y+s.H, pad)
		default:
			for _, p := range s.Points {
				grow(p.X, p.Y, p.X, p.Y, pad)
			}
		}
	}
	return minX, minY, maxX, maxY
}

// Size returns the width and height of Bounds.
func (g *Graphics) Size() (float64, float64) {
	minX, minY, maxX, maxY := g.Bounds()
	return maxX - minX, maxY - minY
}

// Texture rasterizes the shapes if they changed since the last call. The
// origin is the position of node space (0, 0) inside the image, so geometry
// keeps its coordinates and the anchor is ignored.
func (g *Graphics) Texture() (image.Image, float64, float64) {
	if g.dirty {
		g.bake()
	}
	return g.baked, g.originX, g.originY
}

func (g *Graphics) bake() {
	g.dirty = false
	g.baked = nil
	g.bakeErr = nil
	if len(g.shapes) == 0 {
		return
	}

	minX, minY, maxX, maxY := g.Bounds()
	minX, minY = math.Floor(minX)-1, math.Floor(minY)-1
	maxX, maxY = math.Ceil(maxX)+1, math.Ceil(maxY)+1
	w, h := int(maxX-minX), int(maxY-minY)
	if w <= 0 || h <= 0 {
		return
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.Translate(-minX, -minY)

	for _, s := range g.shapes {
		if err := drawShape(dc, s); err != nil {
			g.bakeErr = eris.Wrapf(err, "bake %s", s.Kind)
			return
		}
	}

	g.baked = dc.Image()
	g.originX, g.originY = -minX, -minY
	g.bakes++
}

func drawShape(dc *gg.Context, s Shape) error {
	tracePath := func() {
		dc.ClearPath()
		switch s.Kind {
		case KindCircle:
			dc.DrawCircle(s.X, s.Y, s.R)
		case KindEllipse:
			dc.DrawEllipse(s.X, s.Y, s.W, s.H)
		case KindRect:
			dc.DrawRectangle(s.X, s.Y, s.W, s.H)
		case KindRoundedRect:
			dc.DrawRoundedRectangle(s.X, s.Y, s.W, s.H, s.R)
		default:
			for i, p := range s.Points {
				if i == 0 {
					dc.MoveTo(p.X, p.Y)
				} else {
					dc.LineTo(p.X, p.Y)
				}
			}
			if s.Closed {
				dc.ClosePath()
			}
		}
	}

	stroke := s.LineWidth > 0 && s.Line.A > 0
	// open paths are lines, never areas
	fill := s.Filled && s.Fill.A > 0 && (s.Kind != KindPath || s.Closed)

	if fill {
		tracePath()
		dc.SetColor(s.Fill)
		if err := dc.Fill(); err != nil {
			return err
		}
	}
	if stroke {
		tracePath()
		dc.SetColor(s.Line)
		dc.SetLineWidth(s.LineWidth)
		if err := dc.Stroke(); err != nil {
			return err
		}
	}
	return nil
}
