package main

import (
	"image/color"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/scenesync/assets"
)

func TestGeneratedTextures(t *testing.T) {
	loader := assets.NewLoader(fstest.MapFS{})
	addGeneratedTextures(loader)

	ball, ok := loader.Lookup("ball")
	require.True(t, ok)
	require.True(t, ball.Ready())
	assert.Equal(t, 32, ball.Image().Bounds().Dx())

	_, _, _, a := ball.Image().At(16, 16).RGBA()
	assert.NotZero(t, a)
	_, _, _, a = ball.Image().At(0, 0).RGBA()
	assert.Zero(t, a)

	for _, id := range sparkFrames() {
		tex, ok := loader.Lookup(id)
		require.True(t, ok, id)
		assert.Equal(t, assets.StateReady, tex.State())
	}
	assert.Equal(t, 1+sparkFrameCount, loader.Len())
}

func TestSparkCentreIsFilled(t *testing.T) {
	img := spark(32, 0.5)
	assert.NotEqual(t, color.RGBA{}, color.RGBAModel.Convert(img.At(16, 16)))
}
