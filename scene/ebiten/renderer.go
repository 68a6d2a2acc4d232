// Package ebiten composites a scene stage onto an Ebitengine image.
package ebiten

import (
	"image"
	"image/color"

	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/scenesync/scene"
)

// Renderer draws stages. Baked node images are uploaded once and kept for
// as long as a node keeps returning the same image.
//
// A Renderer is not safe for concurrent use; call Draw from ebiten's Draw.
type Renderer struct {
	images map[image.Image]*cached
	frame  uint64
}

type cached struct {
	img  *ebiten.Image
	used uint64
}

// NewRenderer creates a renderer with an empty image cache.
func NewRenderer() *Renderer {
	return &Renderer{
		images: make(map[image.Image]*cached),
	}
}

// Draw paints every rendered drawable of stage onto screen in paint order.
func (r *Renderer) Draw(screen *ebiten.Image, stage *scene.Stage) {
	r.frame++

	for d := range stage.Drawables() {
		src, ox, oy := d.Texture()
		if src == nil || src.Bounds().Empty() {
			continue
		}

		op := &ebiten.DrawImageOptions{}
		op.GeoM = geoM(scene.WorldMatrix(d).Multiply(gg.Translate(-ox, -oy)))
		op.ColorScale = colorScale(d.Base().Tint, scene.WorldAlpha(d))
		op.Filter = ebiten.FilterLinear

		screen.DrawImage(r.image(src), op)
	}

	r.prune()
}

// Len returns the number of uploaded images.
func (r *Renderer) Len() int {
	return len(r.images)
}

// Clear releases every uploaded image.
func (r *Renderer) Clear() {
	for src, c := range r.images {
		c.img.Deallocate()
		delete(r.images, src)
	}
}

func (r *Renderer) image(src image.Image) *ebiten.Image {
	c, ok := r.images[src]
	if !ok {
		c = &cached{img: ebiten.NewImageFromImage(src)}
		r.images[src] = c
	}
	c.used = r.frame
	return c.img
}

// prune drops images no drawable asked for this frame. Nodes rebake into new
// images, so stale entries would otherwise pile up.
func (r *Renderer) prune() {
	for src, c := range r.images {
		if c.used != r.frame {
			c.img.Deallocate()
			delete(r.images, src)
		}
	}
}

func geoM(m gg.Matrix) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m.A)
	g.SetElement(0, 1, m.B)
	g.SetElement(0, 2, m.C)
	g.SetElement(1, 0, m.D)
	g.SetElement(1, 1, m.E)
	g.SetElement(1, 2, m.F)
	return g
}

func colorScale(tint color.RGBA, alpha float64) ebiten.ColorScale {
	var cs ebiten.ColorScale
	if tint != (color.RGBA{}) {
		cs.ScaleWithColor(tint)
	}
	cs.ScaleAlpha(float32(alpha))
	return cs
}
