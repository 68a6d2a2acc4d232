package ebiten

import (
	"image/color"
	"math"
	"testing"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"

	"github.com/plus3/scenesync/scene"
)

func TestGeoMMatchesWorldMatrix(t *testing.T) {
	stage := scene.NewStage()
	stage.SetPosition(100, 50)

	parent := scene.NewContainer()
	parent.SetPosition(10, 0)
	parent.Rotation = math.Pi / 2
	stage.AddChild(parent)

	child := scene.NewContainer()
	child.SetPosition(4, 0)
	child.SetScale(2, 2)
	parent.AddChild(child)

	m := scene.WorldMatrix(child).Multiply(gg.Translate(-1, -1))
	g := geoM(m)

	for _, p := range []gg.Point{{X: 0, Y: 0}, {X: 3, Y: 1}, {X: -2, Y: 5}} {
		want := m.TransformPoint(p)
		x, y := g.Apply(p.X, p.Y)
		assert.InDelta(t, want.X, x, 1e-9)
		assert.InDelta(t, want.Y, y, 1e-9)
	}

	x, y := g.Apply(1, 1)
	assert.InDelta(t, 110, x, 1e-9)
	assert.InDelta(t, 54, y, 1e-9)
}

func TestColorScale(t *testing.T) {
	cs := colorScale(color.RGBA{}, 0.5)
	assert.InDelta(t, 0.5, cs.R(), 1e-6)
	assert.InDelta(t, 0.5, cs.A(), 1e-6)

	cs = colorScale(color.RGBA{R: 255, G: 0, B: 0, A: 255}, 1)
	assert.InDelta(t, 1, cs.R(), 1e-6)
	assert.InDelta(t, 0, cs.G(), 1e-6)
	assert.InDelta(t, 1, cs.A(), 1e-6)
}
