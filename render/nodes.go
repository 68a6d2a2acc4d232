package render

import (
	"github.com/plus3/scenesync/assets"
	"github.com/plus3/scenesync/scene"
	"github.com/rotisserie/eris"
)

func (s *System) newNode(k kind, g *graphic, pos Position) (scene.Node, error) {
	switch k {
	case kindPrimitive:
		return newPrimitive(g.Primitive)
	case kindLine:
		return newLine(g.Line, pos), nil
	case kindSprite:
		return s.newSprite(g.Sprite), nil
	case kindAnimation:
		return s.newAnimation(g.Animation)
	case kindText:
		return newText(g.Text), nil
	}
	return nil, eris.Errorf("no node for kind %d", k)
}

// newPrimitive draws the shape centred on the node origin.
func newPrimitive(p *Primitive) (*scene.Graphics, error) {
	g := scene.NewGraphics()
	g.LineStyle(p.StrokeWidth, p.StrokeColor)
	g.BeginFill(p.Color)

	switch p.Shape {
	case ShapeCircle:
		g.DrawCircle(0, 0, p.Radius)
	case ShapeRectangle:
		g.DrawRect(-p.Width/2, -p.Height/2, p.Width, p.Height)
	case ShapeEllipse:
		g.DrawEllipse(0, 0, p.Width/2, p.Height/2)
	case ShapeRoundedRectangle:
		g.DrawRoundedRect(-p.Width/2, -p.Height/2, p.Width, p.Height, p.CornerRadius)
	case ShapePolygon:
		g.DrawRegularPolygon(0, 0, p.Radius, max(p.Sides, 3), 0)
	default:
		return nil, eris.Wrapf(ErrUnknownShape, "shape %s", p.Shape)
	}

	g.EndFill()
	return g, nil
}

// newLine draws the segment relative to the entity's position.
func newLine(l *Line, pos Position) *scene.Graphics {
	width := l.Width
	if width <= 0 {
		width = 1
	}
	g := scene.NewGraphics()
	g.LineStyle(width, l.Color)
	g.MoveTo(0, 0)
	g.LineTo(l.X-pos.X, l.Y-pos.Y)
	return g
}

func (s *System) newSprite(sp *Sprite) *scene.Sprite {
	node := scene.NewSprite(s.loader.Texture(sp.Path))
	node.SetAnchor(0.5, 0.5)
	node.Tint = sp.Tint
	return node
}

func newText(t *Text) *scene.Text {
	return scene.NewText(t.Content, sceneStyle(t.Style))
}

func sceneStyle(style TextStyle) scene.TextStyle {
	return scene.TextStyle{
		Size:        style.Size,
		Fill:        style.Color,
		Align:       style.Align,
		LineSpacing: style.LineSpacing,
	}
}

func (s *System) newAnimation(a *Animation) (*scene.AnimatedSprite, error) {
	frames, fps, loop := a.Frames, a.FPS, a.Loop
	if a.Sequence != "" {
		seq, ok := s.loader.Manifest().Sequence(a.Sequence)
		if !ok {
			return nil, eris.Wrapf(assets.ErrUnknownAsset, "animation sequence %q", a.Sequence)
		}
		frames = seq.Frames
		if fps == 0 {
			fps = seq.FPS
		}
		loop = loop || seq.Loop
	}

	sources := make([]scene.TextureSource, len(frames))
	for i, frame := range frames {
		sources[i] = s.loader.Texture(frame)
	}

	node := scene.NewAnimatedSprite(sources, fps)
	node.Loop = loop
	node.SetAnchor(0.5, 0.5)
	return node, nil
}
