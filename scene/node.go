package scene

import (
	"image"
	"image/color"
	"sync/atomic"

	"github.com/gogpu/gg"
)

// NodeID identifies a node for the lifetime of the process.
type NodeID uint64

var lastNodeID atomic.Uint64

func nextNodeID() NodeID {
	return NodeID(lastNodeID.Add(1))
}

// Object holds the display properties shared by every node in the graph.
// Position, scale and rotation are relative to the parent. The anchor is a
// fraction of the node's size that sits on the node's position.
type Object struct {
	Name     string
	X, Y     float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
	AnchorX  float64
	AnchorY  float64
	Alpha    float64
	Visible  bool
	ZIndex   int

	// Tint multiplies the node's colours. The zero value means no tint.
	Tint color.RGBA

	id     NodeID
	parent *Container
}

func newObject() Object {
	return Object{
		ScaleX:  1,
		ScaleY:  1,
		Alpha:   1,
		Visible: true,
		id:      nextNodeID(),
	}
}

// Base returns the object itself, letting embedding types satisfy Node.
func (o *Object) Base() *Object {
	return o
}

// ID returns the node's unique id.
func (o *Object) ID() NodeID {
	return o.id
}

// Parent returns the container holding the node, or nil when detached.
func (o *Object) Parent() *Container {
	return o.parent
}

// SetPosition moves the node within its parent.
func (o *Object) SetPosition(x, y float64) {
	o.X, o.Y = x, y
}

// SetScale sets both scale factors.
func (o *Object) SetScale(x, y float64) {
	o.ScaleX, o.ScaleY = x, y
}

// SetAnchor sets the anchor fractions.
func (o *Object) SetAnchor(x, y float64) {
	o.AnchorX, o.AnchorY = x, y
}

// LocalMatrix returns the transform from node space to parent space.
func (o *Object) LocalMatrix() gg.Matrix {
	m := gg.Translate(o.X, o.Y)
	if o.Rotation != 0 {
		m = m.Multiply(gg.Rotate(o.Rotation))
	}
	if o.ScaleX != 1 || o.ScaleY != 1 {
		m = m.Multiply(gg.Scale(o.ScaleX, o.ScaleY))
	}
	return m
}

// Node is anything that can live in the scene graph.
type Node interface {
	Base() *Object
	Size() (w, h float64)
}

// Drawable is a node that produces pixels. Texture returns the image to draw
// and the point inside that image that lines up with the node's position.
// A nil image draws nothing.
type Drawable interface {
	Node
	Texture() (img image.Image, originX, originY float64)
}

// WorldMatrix returns the transform from the node's space to stage space.
func WorldMatrix(n Node) gg.Matrix {
	m := n.Base().LocalMatrix()
	for p := n.Base().parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Multiply(m)
	}
	return m
}

// WorldAlpha multiplies the node's alpha with every ancestor's.
func WorldAlpha(n Node) float64 {
	alpha := n.Base().Alpha
	for p := n.Base().parent; p != nil; p = p.parent {
		alpha *= p.Alpha
	}
	return alpha
}

// Rendered reports whether the node and all of its ancestors are visible.
func Rendered(n Node) bool {
	if !n.Base().Visible {
		return false
	}
	for p := n.Base().parent; p != nil; p = p.parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// anchorOrigin converts anchor fractions to an origin inside a texture of the given size.
func anchorOrigin(o *Object, w, h float64) (float64, float64) {
	return o.AnchorX * w, o.AnchorY * h
}
