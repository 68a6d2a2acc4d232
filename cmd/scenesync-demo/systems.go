package main

import (
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"reflect"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/plus3/scenesync/debugui"
	"github.com/plus3/scenesync/ecs"
	"github.com/plus3/scenesync/render"
)

// Arena is the playfield size, kept in sync with the window.
type Arena struct {
	Width, Height float64
}

type Velocity struct {
	X, Y float64
}

// Spin rotates an entity's Transform at Speed radians per second.
type Spin struct {
	Speed float64
}

// Blink toggles an entity's sprite every Period seconds.
type Blink struct {
	Period  float64
	elapsed float64
	hidden  bool
}

// Hud marks the text entity showing live counters.
type Hud struct {
	elapsed float64
}

var palette = []color.RGBA{
	{R: 255, G: 179, B: 186, A: 255},
	{R: 179, G: 229, B: 252, A: 255},
	{R: 255, G: 223, B: 186, A: 255},
	{R: 186, G: 255, B: 201, A: 255},
	{R: 217, G: 186, B: 255, A: 255},
}

func populate(storage *ecs.Storage) {
	storage.Spawn(
		render.Position{X: 12, Y: 12},
		render.Text{Content: "scenesync", Style: render.TextStyle{Size: 14}},
		render.ZIndex(10),
		Hud{},
	)

	storage.Spawn(
		render.Position{X: 200, Y: 200},
		render.Sprite{Path: "ball"},
		Velocity{X: 120, Y: 80},
		Blink{Period: 0.5},
	)

	storage.Spawn(
		render.Position{X: 400, Y: 300},
		render.Animation{Frames: sparkFrames(), FPS: 8, Loop: true},
		render.Transform{ScaleX: 2, ScaleY: 2},
		Velocity{X: -60, Y: 40},
	)

	for i, shape := range []render.ShapeType{
		render.ShapeCircle,
		render.ShapeRectangle,
		render.ShapeEllipse,
		render.ShapeRoundedRectangle,
		render.ShapePolygon,
	} {
		storage.Spawn(
			render.Position{X: 120 + float64(i)*140, Y: 500},
			render.Primitive{
				Shape:        shape,
				Color:        palette[i],
				Radius:       30,
				Width:        70,
				Height:       40,
				CornerRadius: 8,
				Sides:        5 + i,
				StrokeWidth:  2,
				StrokeColor:  color.RGBA{A: 255},
			},
			render.Transform{},
			Spin{Speed: 0.5 + float64(i)*0.25},
		)
	}
}

// InputSystem spawns a shape where the mouse is clicked, unless the debug
// UI has the mouse, and pans the view with the arrow keys.
type InputSystem struct {
	Render *render.System

	Input ecs.Singleton[debugui.ImguiInputState]
}

func (s *InputSystem) Execute(frame *ecs.UpdateFrame) {
	captured := false
	if state := s.Input.Get(); state != nil {
		captured = state.WantCaptureMouse
	}

	if !captured && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		ox, oy := s.Render.Offset()
		frame.Commands.Spawn(
			render.Position{X: float64(x) - ox, Y: float64(y) - oy},
			render.Primitive{
				Shape:  render.ShapeType(rand.IntN(5) + 1),
				Color:  palette[rand.IntN(len(palette))],
				Radius: 12, Width: 24, Height: 16, CornerRadius: 4, Sides: 3,
			},
			Velocity{X: rand.Float64()*200 - 100, Y: rand.Float64()*200 - 100},
		)
	}

	const pan = 4.0
	dx, dy := 0.0, 0.0
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx -= pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx += pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dy -= pan
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dy += pan
	}
	if dx != 0 || dy != 0 {
		ox, oy := s.Render.Offset()
		s.Render.SetOffset(ox+dx, oy+dy)
	}
}

// MovementSystem integrates velocities and bounces off the arena edges.
type MovementSystem struct {
	Movers ecs.Query[struct {
		*render.Position
		*Velocity
	}]
	Arena ecs.Singleton[Arena]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	arena := s.Arena.Get()
	for m := range s.Movers.Values() {
		m.Position.X += m.Velocity.X * frame.DeltaTime
		m.Position.Y += m.Velocity.Y * frame.DeltaTime
		if m.Position.X < 0 || m.Position.X > arena.Width {
			m.Velocity.X = -m.Velocity.X
			m.Position.X = math.Max(0, math.Min(m.Position.X, arena.Width))
		}
		if m.Position.Y < 0 || m.Position.Y > arena.Height {
			m.Velocity.Y = -m.Velocity.Y
			m.Position.Y = math.Max(0, math.Min(m.Position.Y, arena.Height))
		}
	}
}

type SpinSystem struct {
	Spinners ecs.Query[struct {
		*render.Transform
		*Spin
	}]
}

func (s *SpinSystem) Execute(frame *ecs.UpdateFrame) {
	for sp := range s.Spinners.Values() {
		sp.Transform.Rotation = math.Mod(sp.Transform.Rotation+sp.Spin.Speed*frame.DeltaTime, 2*math.Pi)
	}
}

// BlinkSystem shows and hides sprites through the render system.
type BlinkSystem struct {
	Render *render.System

	Blinkers ecs.Query[struct {
		ecs.EntityId
		*Blink
	}]
}

func (s *BlinkSystem) Execute(frame *ecs.UpdateFrame) {
	for id, b := range s.Blinkers.Iter() {
		b.Blink.elapsed += frame.DeltaTime
		if b.Blink.elapsed < b.Blink.Period {
			continue
		}
		b.Blink.elapsed = 0
		b.Blink.hidden = !b.Blink.hidden

		var err error
		if b.Blink.hidden {
			err = s.Render.Hide(id)
		} else {
			err = s.Render.Show(id)
		}
		if err != nil {
			frame.Commands.RemoveComponent(id, reflect.TypeFor[Blink]())
		}
	}
}

// HudSystem rewrites the HUD text twice a second.
type HudSystem struct {
	Render *render.System

	Huds ecs.Query[struct {
		ecs.EntityId
		*Hud
	}]
}

func (s *HudSystem) Execute(frame *ecs.UpdateFrame) {
	for id, h := range s.Huds.Iter() {
		h.Hud.elapsed += frame.DeltaTime
		if h.Hud.elapsed < 0.5 {
			continue
		}
		h.Hud.elapsed = 0

		stats := s.Render.Stats()
		_ = s.Render.SetText(id, fmt.Sprintf(
			"visuals %d  nodes %d  rebuilt %d  moved %d  tps %.0f",
			s.Render.Len(), s.Render.Stage().Count(), stats.Rebuilt, stats.Repositioned, ebiten.ActualTPS()))
	}
}
