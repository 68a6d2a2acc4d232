package render

import (
	"github.com/plus3/scenesync/ecs"
	"github.com/plus3/scenesync/scene"
)

// kind is one graphic component type. The order is the paint order inside
// an entity's container.
type kind uint8

const (
	kindPrimitive kind = iota
	kindLine
	kindSprite
	kindAnimation
	kindText
	kindCount
)

var kindNames = [kindCount]string{
	kindPrimitive: "primitive",
	kindLine:      "line",
	kindSprite:    "sprite",
	kindAnimation: "animation",
	kindText:      "text",
}

func (k kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "unknown"
}

// binding is the visual state built for one entity.
type binding struct {
	id        ecs.EntityId
	container *scene.Container
	nodes     [kindCount]scene.Node
	prints    [kindCount]uint64
	paused    bool
}

func (b *binding) kinds() []string {
	var names []string
	for k, node := range b.nodes {
		if node != nil {
			names = append(names, kind(k).String())
		}
	}
	return names
}

// graphic is the component set the system reads for one entity.
type graphic struct {
	ecs.EntityId
	Position  *Position  `ecs:"optional"`
	Sprite    *Sprite    `ecs:"optional"`
	Text      *Text      `ecs:"optional"`
	Line      *Line      `ecs:"optional"`
	Primitive *Primitive `ecs:"optional"`
	Animation *Animation `ecs:"optional"`
	Transform *Transform `ecs:"optional"`
	ZIndex    *ZIndex    `ecs:"optional"`
}

// visual reports whether the entity carries anything to draw.
func (g *graphic) visual() bool {
	return g.Sprite != nil || g.Text != nil || g.Line != nil || g.Primitive != nil || g.Animation != nil
}

func (g *graphic) position() Position {
	if g.Position == nil {
		return Position{}
	}
	return *g.Position
}

// print returns whether kind k is present and its fingerprint.
func (g *graphic) print(k kind, pos Position) (bool, uint64) {
	switch k {
	case kindPrimitive:
		if g.Primitive != nil {
			return true, primitivePrint(g.Primitive)
		}
	case kindLine:
		if g.Line != nil {
			return true, linePrint(g.Line, pos)
		}
	case kindSprite:
		if g.Sprite != nil {
			return true, spritePrint(g.Sprite)
		}
	case kindAnimation:
		if g.Animation != nil {
			return true, animationPrint(g.Animation)
		}
	case kindText:
		if g.Text != nil {
			return true, textPrint(g.Text)
		}
	}
	return false, 0
}
