package render

import (
	"image/color"
	"reflect"
	"testing"

	"github.com/plus3/scenesync/assets"
	"github.com/plus3/scenesync/ecs"
	"github.com/plus3/scenesync/scene"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

func TestPrimitiveShapes(t *testing.T) {
	cases := []struct {
		name  string
		prim  Primitive
		check func(t *testing.T, s scene.Shape)
	}{
		{
			name: "circle",
			prim: Primitive{Shape: ShapeCircle, Color: red, Radius: 5},
			check: func(t *testing.T, s scene.Shape) {
				assert.Equal(t, scene.KindCircle, s.Kind)
				assert.Equal(t, 5.0, s.R)
			},
		},
		{
			name: "rectangle",
			prim: Primitive{Shape: ShapeRectangle, Color: red, Width: 10, Height: 4},
			check: func(t *testing.T, s scene.Shape) {
				assert.Equal(t, scene.KindRect, s.Kind)
				assert.Equal(t, [4]float64{-5, -2, 10, 4}, [4]float64{s.X, s.Y, s.W, s.H})
			},
		},
		{
			name: "ellipse",
			prim: Primitive{Shape: ShapeEllipse, Color: red, Width: 10, Height: 4},
			check: func(t *testing.T, s scene.Shape) {
				assert.Equal(t, scene.KindEllipse, s.Kind)
				assert.Equal(t, [2]float64{5, 2}, [2]float64{s.W, s.H})
			},
		},
		{
			name: "rounded rectangle",
			prim: Primitive{Shape: ShapeRoundedRectangle, Color: red, Width: 10, Height: 4, CornerRadius: 1},
			check: func(t *testing.T, s scene.Shape) {
				assert.Equal(t, scene.KindRoundedRect, s.Kind)
				assert.Equal(t, 1.0, s.R)
			},
		},
		{
			name: "polygon",
			prim: Primitive{Shape: ShapePolygon, Color: red, Radius: 3, Sides: 6},
			check: func(t *testing.T, s scene.Shape) {
				assert.Equal(t, scene.KindPolygon, s.Kind)
				assert.Len(t, s.Points, 6)
			},
		},
		{
			name: "polygon clamps sides",
			prim: Primitive{Shape: ShapePolygon, Color: red, Radius: 3, Sides: 1},
			check: func(t *testing.T, s scene.Shape) {
				assert.Len(t, s.Points, 3)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := newWorld(t)
			id := w.storage.Spawn(Position{X: 1, Y: 2}, tc.prim)

			g, ok := w.sys.node(id, kindPrimitive).(*scene.Graphics)
			require.True(t, ok)
			require.Len(t, g.Shapes(), 1)

			shape := g.Shapes()[0]
			assert.True(t, shape.Filled)
			assert.Equal(t, red, shape.Fill)
			tc.check(t, shape)
		})
	}
}

func TestPrimitiveStroke(t *testing.T) {
	w := newWorld(t)
	id := w.storage.Spawn(Primitive{Shape: ShapeCircle, Radius: 2, StrokeWidth: 3, StrokeColor: blue})

	g := w.sys.node(id, kindPrimitive).(*scene.Graphics)
	assert.Equal(t, 3.0, g.Shapes()[0].LineWidth)
	assert.Equal(t, blue, g.Shapes()[0].Line)
}

func TestUnknownShapeIsFatal(t *testing.T) {
	w := newWorld(t)

	id := w.storage.Spawn(Position{}, Primitive{Shape: ShapeCircle, Radius: 1})
	ecs.ReadComponent[Primitive](w.storage, id).Shape = ShapeType(42)

	err := w.sys.Update(id)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnknownShape))

	assert.Panics(t, func() { w.frame(0) })

	plain := w.storage.Spawn(Position{})
	assert.Panics(t, func() {
		w.storage.AddComponent(plain, Primitive{})
	})
}

func TestBuildIgnoresEntitiesWithoutVisuals(t *testing.T) {
	w := newWorld(t)
	id := w.storage.Spawn(Position{X: 1}, tag{})

	require.NoError(t, w.sys.Build(id))
	_, ok := w.sys.Visual(id)
	assert.False(t, ok)
	assert.Equal(t, 0, w.stage.Len())
}

func TestBuildPlacesContainer(t *testing.T) {
	w := newWorld(t)
	id := w.storage.Spawn(
		Position{X: 10, Y: 20},
		Primitive{Shape: ShapeCircle, Radius: 1},
		Text{Content: "hi"},
		Transform{Rotation: 1, ScaleX: 2, Transparency: 0.25},
		ZIndex(3),
	)

	info, ok := w.sys.Visual(id)
	require.True(t, ok)
	assert.Equal(t, []string{"primitive", "text"}, info.Kinds)
	assert.Equal(t, 10.0, info.X)
	assert.Equal(t, 20.0, info.Y)
	assert.Equal(t, 3, info.ZIndex)
	assert.True(t, info.Visible)

	c := info.Container
	assert.Equal(t, 1.0, c.Rotation)
	assert.Equal(t, 2.0, c.ScaleX)
	assert.Equal(t, 1.0, c.ScaleY)
	assert.Equal(t, 0.75, c.Alpha)
	assert.Same(t, &w.stage.Container, c.Parent())

	stats := w.sys.Stats()
	assert.Equal(t, 1, stats.Built)
	assert.Equal(t, 2, stats.NodesBuilt)

	// building again is an update
	require.NoError(t, w.sys.Build(id))
	assert.Equal(t, 1, w.stage.Len())
	assert.Equal(t, 1, w.sys.Stats().Built)
}

func TestMoveRepositionsWithoutRebuild(t *testing.T) {
	w := newWorld(t)
	id := w.storage.Spawn(Position{X: 1, Y: 1}, Primitive{Shape: ShapeRectangle, Width: 4, Height: 4, Color: red})

	before := w.sys.node(id, kindPrimitive).(*scene.Graphics)
	before.Texture()

	pos := ecs.ReadComponent[Position](w.storage, id)
	pos.X, pos.Y = 50, 60
	w.frame(0.016)

	stats := w.sys.Stats()
	assert.Equal(t, 1, stats.Repositioned)
	assert.Zero(t, stats.Rebuilt)
	assert.Zero(t, stats.NodesBuilt)

	after := w.sys.node(id, kindPrimitive).(*scene.Graphics)
	assert.Same(t, before, after)
	after.Texture()
	assert.Equal(t, 1, after.Bakes())

	info, _ := w.sys.Visual(id)
	assert.Equal(t, 50.0, info.X)
	assert.Equal(t, 60.0, info.Y)
}

func TestStyleChangeRebuildsOnlyThatNode(t *testing.T) {
	w := newWorld(t)
	id := w.storage.Spawn(
		Primitive{Shape: ShapeCircle, Radius: 2, Color: red},
		Text{Content: "score"},
	)
	prim := w.sys.node(id, kindPrimitive)
	text := w.sys.node(id, kindText)

	ecs.ReadComponent[Primitive](w.storage, id).Color = blue
	w.frame(0)

	assert.Equal(t, 1, w.sys.Stats().Rebuilt)
	assert.NotSame(t, prim, w.sys.node(id, kindPrimitive))
	assert.Same(t, text, w.sys.node(id, kindText))
	assert.Equal(t, blue, w.sys.node(id, kindPrimitive).(*scene.Graphics).Shapes()[0].Fill)

	ecs.ReadComponent[Text](w.storage, id).Style.Size = 30
	w.frame(0)
	assert.Equal(t, 1, w.sys.Stats().Rebuilt)
	assert.NotSame(t, text, w.sys.node(id, kindText))
	assert.Equal(t, 30.0, w.sys.node(id, kindText).(*scene.Text).Style().Size)
}

func TestLineFollowsPosition(t *testing.T) {
	w := newWorld(t)
	id := w.storage.Spawn(Position{X: 10, Y: 10}, Line{X: 20, Y: 30, Color: white})

	g := w.sys.node(id, kindLine).(*scene.Graphics)
	shape := g.Shapes()[0]
	assert.Equal(t, scene.KindPath, shape.Kind)
	assert.Equal(t, 1.0, shape.LineWidth)
	assert.Equal(t, []scene.Point{{X: 0, Y: 0}, {X: 10, Y: 20}}, shape.Points)

	ecs.ReadComponent[Position](w.storage, id).X = 0
	w.frame(0)
	assert.Equal(t, 1, w.sys.Stats().Rebuilt)

	g = w.sys.node(id, kindLine).(*scene.Graphics)
	assert.Equal(t, scene.Point{X: 20, Y: 20}, g.Shapes()[0].Points[1])
}

func TestMigrationsKeepOneContainer(t *testing.T) {
	w := newWorld(t)
	id := w.storage.Spawn(Position{X: 3}, Sprite{Path: "hero.png"})
	container := w.stage.Children()[0]

	id = w.storage.AddComponent(id, Text{Content: "name"})
	require.Equal(t, 1, w.stage.Len())
	info, ok := w.sys.Visual(id)
	require.True(t, ok)
	assert.Equal(t, []string{"sprite", "text"}, info.Kinds)
	assert.Same(t, container, info.Container)

	id = w.storage.RemoveComponent(id, reflect.TypeFor[Sprite]())
	info, ok = w.sys.Visual(id)
	require.True(t, ok)
	assert.Equal(t, []string{"text"}, info.Kinds)
	assert.Equal(t, 1, info.Container.Len())

	id = w.storage.RemoveComponent(id, reflect.TypeFor[Text]())
	assert.NotZero(t, id)
	assert.Equal(t, 0, w.stage.Len())
	assert.Equal(t, 0, w.sys.Len())

	// a non-graphic entity that gains a graphic component gets built
	id = w.storage.AddComponent(id, Primitive{Shape: ShapeCircle, Radius: 1})
	assert.Equal(t, 1, w.stage.Len())
	_, ok = w.sys.Visual(id)
	assert.True(t, ok)
}

func TestCompactKeepsVisuals(t *testing.T) {
	w := newWorld(t)
	first := w.storage.Spawn(Primitive{Shape: ShapeCircle, Radius: 1})
	second := w.storage.Spawn(Primitive{Shape: ShapeCircle, Radius: 2})
	third := w.storage.Spawn(Primitive{Shape: ShapeCircle, Radius: 3})
	thirdNode := w.sys.node(third, kindPrimitive)

	w.storage.Delete(first)
	w.storage.Compact()

	require.Equal(t, 2, w.sys.Len())
	// third now lives at second's old id
	assert.Same(t, thirdNode, w.sys.node(second, kindPrimitive))
	assert.Equal(t, 2, w.stage.Len())
}

func TestDeleteRemovesContainers(t *testing.T) {
	w := newWorld(t)
	var ids []ecs.EntityId
	for i := range 3 {
		ids = append(ids, w.storage.Spawn(Position{X: float64(i)}, Primitive{Shape: ShapeCircle, Radius: 1}, Text{Content: "x"}))
	}
	assert.Equal(t, 9, w.stage.Count())

	for _, id := range ids {
		w.storage.Delete(id)
	}
	assert.Equal(t, 0, w.stage.Count())
	assert.Equal(t, 0, w.sys.Len())
	assert.Equal(t, 3, w.sys.Stats().Destroyed)

	w.sys.Remove(ids[0])
	assert.Equal(t, 3, w.sys.Stats().Destroyed)
}

func TestOffsetRepositions(t *testing.T) {
	w := newWorld(t, WithOffset(5, 5))
	id := w.storage.Spawn(Position{X: 1, Y: 2}, Primitive{Shape: ShapeCircle, Radius: 1})

	info, _ := w.sys.Visual(id)
	assert.Equal(t, 6.0, info.X)
	assert.Equal(t, 7.0, info.Y)

	w.frame(0)
	w.sys.SetOffset(-1, 10)
	x, y := w.sys.Offset()
	assert.Equal(t, [2]float64{-1, 10}, [2]float64{x, y})

	info, _ = w.sys.Visual(id)
	assert.Equal(t, 0.0, info.X)
	assert.Equal(t, 12.0, info.Y)
	assert.Zero(t, w.sys.Stats().Rebuilt)
}

func TestEntityWithoutPositionSitsAtOrigin(t *testing.T) {
	w := newWorld(t)
	id := w.storage.Spawn(Text{Content: "floating"})

	info, ok := w.sys.Visual(id)
	require.True(t, ok)
	assert.Zero(t, info.X)
	assert.Zero(t, info.Y)
}

func TestSpriteTextureArrivesAfterLoad(t *testing.T) {
	w := newWorld(t)
	id := w.storage.Spawn(Sprite{Path: "hero.png"})

	sprite := w.sys.node(id, kindSprite).(*scene.Sprite)
	img, _, _ := sprite.Texture()
	assert.Nil(t, img)

	w.settle(t)
	img, ox, oy := sprite.Texture()
	require.NotNil(t, img)
	assert.Equal(t, 4.0, ox)
	assert.Equal(t, 2.0, oy)
}

func TestMissingTextureFailsQuietly(t *testing.T) {
	w := newWorld(t)
	id := w.storage.Spawn(Sprite{Path: "nope.png"})
	w.settle(t)

	tex, ok := w.loader.Lookup("nope.png")
	require.True(t, ok)
	assert.Equal(t, assets.StateFailed, tex.State())

	_, ok = w.sys.Visual(id)
	assert.True(t, ok)
}

func TestAnimation(t *testing.T) {
	w := newWorld(t)
	id := w.storage.Spawn(Animation{Frames: []string{"run/0.png", "run/1.png"}, FPS: 10, Loop: true})

	anim := w.sys.node(id, kindAnimation).(*scene.AnimatedSprite)
	assert.Equal(t, 2, anim.Frames())

	w.frame(0.1)
	assert.Equal(t, 1, anim.Frame())

	ecs.ReadComponent[Animation](w.storage, id).Paused = true
	w.frame(0.1)
	assert.False(t, anim.Playing())
	assert.Equal(t, 1, anim.Frame())

	ecs.ReadComponent[Animation](w.storage, id).Paused = false
	w.frame(0.1)
	assert.True(t, anim.Playing())
	assert.Equal(t, 0, anim.Frame())
	assert.Zero(t, w.sys.Stats().Rebuilt)
}

func TestAnimationSequence(t *testing.T) {
	w := newWorld(t)
	id := w.storage.Spawn(Animation{Sequence: "run"})

	anim := w.sys.node(id, kindAnimation).(*scene.AnimatedSprite)
	assert.Equal(t, 2, anim.Frames())
	assert.Equal(t, 4.0, anim.FPS)
	assert.True(t, anim.Loop)

	ecs.ReadComponent[Animation](w.storage, id).Sequence = "walk"
	err := w.sys.Update(id)
	require.Error(t, err)
	assert.True(t, eris.Is(err, assets.ErrUnknownAsset))

	// a missing sequence is not fatal on the frame path
	assert.NotPanics(t, func() { w.frame(0) })
}

func TestDetachRemovesVisuals(t *testing.T) {
	w := newWorld(t)
	w.storage.Spawn(Primitive{Shape: ShapeCircle, Radius: 1})
	w.sys.Detach()

	assert.Equal(t, 0, w.stage.Len())
	assert.Nil(t, w.sys.Storage())

	w.storage.Spawn(Primitive{Shape: ShapeCircle, Radius: 1})
	assert.Equal(t, 0, w.stage.Len())

	assert.ErrorIs(t, w.sys.Build(0), ErrDetached)

	// attaching builds what is already there
	w.sys.Attach(w.storage)
	assert.Equal(t, 2, w.stage.Len())
}

func TestSchedulerAttachesOnFirstFrame(t *testing.T) {
	w := newWorld(t)
	w.sys.Detach()

	id := w.storage.Spawn(Text{Content: "late"})
	scheduler := ecs.NewScheduler(w.storage)
	scheduler.Register(w.sys)
	scheduler.Once(0.016)

	_, ok := w.sys.Visual(id)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), w.sys.Stats().Frame)
}

func TestVisualsIterates(t *testing.T) {
	w := newWorld(t)
	a := w.storage.Spawn(Text{Content: "a"})
	b := w.storage.Spawn(Sprite{Path: "hero.png", Hidden: true})

	seen := map[ecs.EntityId]VisualInfo{}
	for info := range w.sys.Visuals() {
		seen[info.Entity] = info
	}
	require.Len(t, seen, 2)
	assert.True(t, seen[a].Visible)
	assert.False(t, seen[b].Visible)
}
