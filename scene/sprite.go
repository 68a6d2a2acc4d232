package scene

import "image"

// TextureSource supplies the pixels of a sprite. Image may return nil while
// the texture is still loading.
type TextureSource interface {
	Image() image.Image
}

// ImageTexture adapts a decoded image to TextureSource.
type ImageTexture struct {
	Img image.Image
}

// Image returns the wrapped image.
func (t ImageTexture) Image() image.Image {
	return t.Img
}

// Sprite draws a texture anchored at its position.
type Sprite struct {
	Object
	texture TextureSource
}

// NewSprite creates a sprite for tex. tex may be nil.
func NewSprite(tex TextureSource) *Sprite {
	return &Sprite{Object: newObject(), texture: tex}
}

// SetTexture swaps the sprite's texture.
func (s *Sprite) SetTexture(tex TextureSource) {
	s.texture = tex
}

// Source returns the sprite's texture source.
func (s *Sprite) Source() TextureSource {
	return s.texture
}

// Size returns the texture size, or zero when nothing is loaded.
func (s *Sprite) Size() (float64, float64) {
	return sourceSize(s.texture)
}

func (s *Sprite) Texture() (image.Image, float64, float64) {
	return textureAt(&s.Object, s.texture)
}

func sourceSize(tex TextureSource) (float64, float64) {
	if tex == nil {
		return 0, 0
	}
	img := tex.Image()
	if img == nil {
		return 0, 0
	}
	b := img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

func textureAt(o *Object, tex TextureSource) (image.Image, float64, float64) {
	if tex == nil {
		return nil, 0, 0
	}
	img := tex.Image()
	if img == nil {
		return nil, 0, 0
	}
	b := img.Bounds()
	ox, oy := anchorOrigin(o, float64(b.Dx()), float64(b.Dy()))
	return img, ox, oy
}
