package scene_test

import (
	"math"
	"testing"

	"github.com/gogpu/gg"
	"github.com/plus3/scenesync/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerAddRemove(t *testing.T) {
	stage := scene.NewStage()
	a := scene.NewContainer()
	b := scene.NewContainer()
	g := scene.NewGraphics()

	stage.AddChild(a)
	stage.AddChild(b)
	a.AddChild(g)

	assert.Equal(t, 2, stage.Len())
	assert.Equal(t, 3, stage.Count())
	assert.Same(t, a, g.Parent())

	// reparenting detaches from the previous container
	b.AddChild(g)
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, 1, b.Len())
	assert.Same(t, b, g.Parent())

	assert.True(t, b.RemoveChild(g))
	assert.False(t, b.RemoveChild(g))
	assert.Nil(t, g.Parent())
	assert.Equal(t, 2, stage.Count())

	a.AddChild(scene.NewGraphics())
	a.AddChild(scene.NewGraphics())
	a.RemoveChildren()
	assert.Equal(t, 0, a.Len())
}

func TestContainerSortChildrenIsStable(t *testing.T) {
	c := scene.NewContainer()
	nodes := make([]*scene.Graphics, 4)
	for i := range nodes {
		nodes[i] = scene.NewGraphics()
		c.AddChild(nodes[i])
	}
	nodes[0].ZIndex = 2
	nodes[3].ZIndex = -1

	c.SortChildren()

	got := c.Children()
	require.Len(t, got, 4)
	assert.Same(t, nodes[3], got[0])
	assert.Same(t, nodes[1], got[1])
	assert.Same(t, nodes[2], got[2])
	assert.Same(t, nodes[0], got[3])
}

func TestWalkSkipsSubtree(t *testing.T) {
	stage := scene.NewStage()
	skipped := scene.NewContainer()
	skipped.Name = "skip"
	skipped.AddChild(scene.NewGraphics())
	stage.AddChild(skipped)

	kept := scene.NewContainer()
	kept.AddChild(scene.NewText("hi", scene.TextStyle{}))
	stage.AddChild(kept)

	var depths []int
	stage.Walk(func(n scene.Node, depth int) bool {
		depths = append(depths, depth)
		return n.Base().Name != "skip"
	})
	assert.Equal(t, []int{0, 0, 1}, depths)
}

func TestDrawablesOrderAndVisibility(t *testing.T) {
	stage := scene.NewStage()

	back := scene.NewContainer()
	back.ZIndex = -5
	backShape := scene.NewGraphics()
	back.AddChild(backShape)

	hidden := scene.NewContainer()
	hidden.Visible = false
	hidden.AddChild(scene.NewGraphics())

	front := scene.NewGraphics()

	stage.AddChild(front)
	stage.AddChild(hidden)
	stage.AddChild(back)

	var got []scene.Drawable
	for d := range stage.Drawables() {
		got = append(got, d)
	}
	require.Len(t, got, 2)
	assert.Same(t, backShape, got[0])
	assert.Same(t, front, got[1])
}

func TestWorldMatrixAndAlpha(t *testing.T) {
	stage := scene.NewStage()
	parent := scene.NewContainer()
	parent.SetPosition(100, 50)
	parent.SetScale(2, 2)
	parent.Alpha = 0.5
	stage.AddChild(parent)

	child := scene.NewGraphics()
	child.SetPosition(10, 0)
	child.Rotation = math.Pi / 2
	child.Alpha = 0.5
	parent.AddChild(child)

	m := scene.WorldMatrix(child)
	p := m.TransformPoint(gg.Point{X: 1, Y: 0})
	assert.InDelta(t, 120, p.X, 1e-9)
	assert.InDelta(t, 52, p.Y, 1e-9)

	assert.InDelta(t, 0.25, scene.WorldAlpha(child), 1e-9)
	assert.True(t, scene.Rendered(child))

	parent.Visible = false
	assert.False(t, scene.Rendered(child))
}
