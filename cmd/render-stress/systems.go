package main

import (
	"image/color"
	"math/rand/v2"
	"strconv"

	"github.com/plus3/scenesync/ecs"
	"github.com/plus3/scenesync/render"
)

type Velocity struct {
	X, Y float64
}

// World holds the shared settings of the stress systems.
type World struct {
	Width, Height float64
	Churn         int
	Restyle       int

	rng     *rand.Rand
	spawned int
}

var palette = []color.RGBA{
	{R: 255, G: 179, B: 186, A: 255},
	{R: 179, G: 229, B: 252, A: 255},
	{R: 186, G: 255, B: 201, A: 255},
	{R: 255, G: 255, B: 186, A: 255},
}

// spawn creates an entity with a random mix of graphic components.
func (w *World) spawn(storage *ecs.Storage) ecs.EntityId {
	w.spawned++
	pos := render.Position{X: w.rng.Float64() * w.Width, Y: w.rng.Float64() * w.Height}
	vel := Velocity{X: w.rng.Float64()*200 - 100, Y: w.rng.Float64()*200 - 100}
	fill := palette[w.rng.IntN(len(palette))]

	switch w.spawned % 4 {
	case 0:
		return storage.Spawn(pos, vel, render.Primitive{
			Shape:  render.ShapeType(w.rng.IntN(5) + 1),
			Color:  fill,
			Radius: 6, Width: 12, Height: 8, CornerRadius: 2, Sides: 6,
		})
	case 1:
		return storage.Spawn(pos, vel, render.Sprite{Path: "ball", Tint: fill})
	case 2:
		return storage.Spawn(pos, vel, render.Text{
			Content: strconv.Itoa(w.spawned),
			Style:   render.TextStyle{Size: 12, Color: fill},
		})
	default:
		return storage.Spawn(pos, vel,
			render.Line{X: pos.X + 20, Y: pos.Y, Color: fill},
			render.ZIndex(1))
	}
}

// MovementSystem moves every entity and bounces it off the world edges.
type MovementSystem struct {
	World *World

	Movers ecs.Query[struct {
		*render.Position
		*Velocity
	}]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	for m := range s.Movers.Values() {
		m.Position.X += m.Velocity.X * frame.DeltaTime
		m.Position.Y += m.Velocity.Y * frame.DeltaTime
		if m.Position.X < 0 || m.Position.X > s.World.Width {
			m.Velocity.X = -m.Velocity.X
		}
		if m.Position.Y < 0 || m.Position.Y > s.World.Height {
			m.Velocity.Y = -m.Velocity.Y
		}
	}
}

// ChurnSystem deletes and respawns entities and changes the graphics of
// others, so every frame builds, rebuilds, migrates and destroys visuals.
type ChurnSystem struct {
	World *World

	Texts ecs.Query[struct {
		ecs.EntityId
		*render.Text
	}]
	Primitives ecs.Query[struct {
		ecs.EntityId
		*render.Primitive
	}]
}

func (s *ChurnSystem) Execute(frame *ecs.UpdateFrame) {
	w := s.World

	n := 0
	for t := range s.Texts.Values() {
		if n >= w.Restyle {
			break
		}
		t.Text.Content = strconv.Itoa(w.rng.IntN(1000))
		n++
	}

	n = 0
	for p := range s.Primitives.Values() {
		if n >= w.Churn {
			break
		}
		frame.Commands.Delete(p.EntityId)
		frame.Commands.SpawnThen(func(id ecs.EntityId) {
			// migrate half the respawns through an extra archetype
			if id%2 == 0 {
				frame.Storage.AddComponent(id, render.Transform{Rotation: w.rng.Float64(), Transparency: 0.2})
			}
		}, render.Position{X: w.rng.Float64() * w.Width, Y: w.rng.Float64() * w.Height},
			Velocity{X: 50, Y: -50},
			render.Primitive{Shape: render.ShapeCircle, Color: palette[0], Radius: 4})
		n++
	}
}
