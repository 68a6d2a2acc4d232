package main

import (
	"image"
	"image/color"
	"math"
	"strconv"

	"github.com/gogpu/gg"

	"github.com/plus3/scenesync/assets"
)

const sparkFrameCount = 6

// addGeneratedTextures registers textures drawn at startup, so the demo
// runs without an asset directory.
func addGeneratedTextures(loader *assets.Loader) {
	loader.Add("ball", ball(32, color.RGBA{R: 250, G: 210, B: 90, A: 255}))
	for i := range sparkFrameCount {
		loader.Add(sparkFrame(i), spark(32, float64(i)/sparkFrameCount))
	}
}

func sparkFrame(i int) string {
	return "spark/" + strconv.Itoa(i)
}

func sparkFrames() []string {
	frames := make([]string, sparkFrameCount)
	for i := range frames {
		frames[i] = sparkFrame(i)
	}
	return frames
}

func ball(size int, c color.RGBA) image.Image {
	dc := gg.NewContext(size, size)
	defer dc.Close()

	r := float64(size) / 2
	dc.SetColor(c)
	dc.DrawCircle(r, r, r-1)
	_ = dc.Fill()

	dc.SetColor(color.RGBA{R: 255, G: 255, B: 255, A: 160})
	dc.DrawCircle(r*0.7, r*0.7, r/4)
	_ = dc.Fill()
	return dc.Image()
}

// spark draws a star whose arms grow and shrink with phase in [0, 1).
func spark(size int, phase float64) image.Image {
	dc := gg.NewContext(size, size)
	defer dc.Close()

	c := float64(size) / 2
	outer := c * (0.55 + 0.4*math.Sin(phase*math.Pi))
	inner := outer * 0.4

	dc.SetColor(color.RGBA{R: 255, G: 240, B: 120, A: 255})
	for i := range 10 {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := float64(i)*math.Pi/5 - math.Pi/2 + phase*math.Pi/5
		x, y := c+r*math.Cos(a), c+r*math.Sin(a)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	_ = dc.Fill()
	return dc.Image()
}
