package scene_test

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/plus3/scenesync/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextMeasureAndBake(t *testing.T) {
	txt := scene.NewText("hello\nworld!", scene.TextStyle{Size: 20})

	w, h := txt.Size()
	assert.Greater(t, w, 0.0)
	assert.Greater(t, h, 20.0)

	img, ox, oy := txt.Texture()
	require.NotNil(t, img)
	assert.Zero(t, ox)
	assert.Zero(t, oy)
	assert.Equal(t, 1, txt.Bakes())

	txt.Texture()
	assert.Equal(t, 1, txt.Bakes())

	txt.SetText("hello\nworld!")
	txt.Texture()
	assert.Equal(t, 1, txt.Bakes())

	txt.SetText("bye")
	txt.Texture()
	assert.Equal(t, 2, txt.Bakes())

	w2, h2 := txt.Size()
	assert.Less(t, w2, w)
	assert.Less(t, h2, h)
}

func TestTextEmpty(t *testing.T) {
	txt := scene.NewText("", scene.TextStyle{})
	img, _, _ := txt.Texture()
	assert.Nil(t, img)
	assert.Equal(t, 0, txt.Bakes())
}

func TestSnapshotJSON(t *testing.T) {
	stage := scene.NewStage()
	c := scene.NewContainer()
	c.Name = "entity"
	c.SetPosition(3, 4)
	g := scene.NewGraphics()
	g.DrawCircle(0, 0, 2)
	c.AddChild(g)
	c.AddChild(scene.NewText("label", scene.TextStyle{}))
	stage.AddChild(c)

	var buf bytes.Buffer
	require.NoError(t, scene.WriteJSON(&buf, stage))

	var snap scene.NodeSnapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &snap))
	assert.Equal(t, "stage", snap.Kind)
	require.Len(t, snap.Children, 1)

	entity := snap.Children[0]
	assert.Equal(t, "entity", entity.Name)
	assert.Equal(t, 3.0, entity.X)
	require.Len(t, entity.Children, 2)
	assert.Equal(t, []string{"circle"}, entity.Children[0].Shapes)
	assert.Equal(t, "label", entity.Children[1].Text)
}
