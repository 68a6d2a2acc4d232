package scene

import (
	"io"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// NodeSnapshot is a serializable description of one node and its subtree.
type NodeSnapshot struct {
	ID       NodeID         `json:"id"`
	Name     string         `json:"name,omitempty"`
	Kind     string         `json:"kind"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Width    float64        `json:"width,omitempty"`
	Height   float64        `json:"height,omitempty"`
	Rotation float64        `json:"rotation,omitempty"`
	ScaleX   float64        `json:"scaleX"`
	ScaleY   float64        `json:"scaleY"`
	Alpha    float64        `json:"alpha"`
	Visible  bool           `json:"visible"`
	ZIndex   int            `json:"zIndex,omitempty"`
	Text     string         `json:"text,omitempty"`
	Shapes   []string       `json:"shapes,omitempty"`
	Children []NodeSnapshot `json:"children,omitempty"`
}

// KindOf names the node's concrete type.
func KindOf(n Node) string {
	switch n.(type) {
	case *Stage:
		return "stage"
	case *Container:
		return "container"
	case *Sprite:
		return "sprite"
	case *AnimatedSprite:
		return "animated-sprite"
	case *Text:
		return "text"
	case *Graphics:
		return "graphics"
	default:
		return "node"
	}
}

// Snapshot captures n and its descendants.
func Snapshot(n Node) NodeSnapshot {
	o := n.Base()
	w, h := n.Size()
	snap := NodeSnapshot{
		ID:       o.id,
		Name:     o.Name,
		Kind:     KindOf(n),
		X:        o.X,
		Y:        o.Y,
		Width:    w,
		Height:   h,
		Rotation: o.Rotation,
		ScaleX:   o.ScaleX,
		ScaleY:   o.ScaleY,
		Alpha:    o.Alpha,
		Visible:  o.Visible,
		ZIndex:   o.ZIndex,
	}

	var children []Node
	switch v := n.(type) {
	case *Stage:
		children = v.children
	case *Container:
		children = v.children
	case *Text:
		snap.Text = v.content
	case *Graphics:
		for _, s := range v.shapes {
			snap.Shapes = append(snap.Shapes, s.Kind.String())
		}
	}
	for _, child := range children {
		snap.Children = append(snap.Children, Snapshot(child))
	}
	return snap
}

// WriteJSON writes an indented snapshot of n to w.
func WriteJSON(w io.Writer, n Node) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Snapshot(n)); err != nil {
		return eris.Wrap(err, "encode scene snapshot")
	}
	return nil
}
