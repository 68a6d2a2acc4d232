package scene

import (
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// Align positions each line of a Text node inside its box.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

func (a Align) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "left"
	}
}

// TextStyle describes how text is rasterized. Zero values fall back to the
// default font, 16 pixels, white, left aligned and single spaced.
type TextStyle struct {
	Font        *text.FontSource
	Size        float64
	Fill        color.RGBA
	Align       Align
	LineSpacing float64
}

func (s TextStyle) withDefaults() TextStyle {
	if s.Font == nil {
		s.Font = DefaultFont()
	}
	if s.Size <= 0 {
		s.Size = 16
	}
	if s.Fill == (color.RGBA{}) {
		s.Fill = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	if s.LineSpacing <= 0 {
		s.LineSpacing = 1
	}
	return s
}

var defaultFont = sync.OnceValue(func() *text.FontSource {
	source, err := text.NewFontSource(goregular.TTF)
	if err != nil {
		panic("scene: embedded Go Regular font: " + err.Error())
	}
	return source
})

// DefaultFont returns the Go Regular font used when a style names none.
func DefaultFont() *text.FontSource {
	return defaultFont()
}

// Text renders one or more lines of text. Lines are separated by '\n'.
type Text struct {
	Object

	content string
	style   TextStyle

	layout *textLayout
	baked  image.Image
	dirty  bool
	bakes  int
}

type textLayout struct {
	face       text.Face
	lines      []string
	widths     []float64
	lineHeight float64
	ascent     float64
	width      float64
	height     float64
}

// NewText creates a text node.
func NewText(content string, style TextStyle) *Text {
	return &Text{Object: newObject(), content: content, style: style, dirty: true}
}

// SetText replaces the content. Setting the same content is a no-op.
func (t *Text) SetText(content string) {
	if content == t.content {
		return
	}
	t.content = content
	t.invalidate()
}

// Text returns the current content.
func (t *Text) Text() string {
	return t.content
}

// SetStyle replaces the style.
func (t *Text) SetStyle(style TextStyle) {
	t.style = style
	t.invalidate()
}

// Style returns the style as set, without defaults applied.
func (t *Text) Style() TextStyle {
	return t.style
}

// Bakes returns how many times the node has been rasterized.
func (t *Text) Bakes() int {
	return t.bakes
}

func (t *Text) invalidate() {
	t.layout = nil
	t.dirty = true
}

func (t *Text) measure() *textLayout {
	if t.layout != nil {
		return t.layout
	}

	style := t.style.withDefaults()
	face := style.Font.Face(style.Size)
	m := face.Metrics()

	l := &textLayout{
		face:       face,
		lines:      strings.Split(t.content, "\n"),
		lineHeight: m.LineHeight() * style.LineSpacing,
		ascent:     m.Ascent,
	}
	l.widths = make([]float64, len(l.lines))
	for i, line := range l.lines {
		w, _ := text.Measure(line, face)
		l.widths[i] = w
		l.width = max(l.width, w)
	}
	if t.content != "" {
		l.height = l.lineHeight * float64(len(l.lines))
	}

	t.layout = l
	return l
}

// Size returns the measured box of the text.
func (t *Text) Size() (float64, float64) {
	l := t.measure()
	return l.width, l.height
}

// Texture rasterizes the text if it changed since the last call.
func (t *Text) Texture() (image.Image, float64, float64) {
	if t.dirty {
		t.bake()
	}
	if t.baked == nil {
		return nil, 0, 0
	}
	b := t.baked.Bounds()
	ox, oy := anchorOrigin(&t.Object, float64(b.Dx()), float64(b.Dy()))
	return t.baked, ox, oy
}

func (t *Text) bake() {
	t.dirty = false
	t.baked = nil

	l := t.measure()
	w, h := int(math.Ceil(l.width)), int(math.Ceil(l.height))
	if w == 0 || h == 0 {
		return
	}

	style := t.style.withDefaults()
	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.SetFont(l.face)
	dc.SetColor(style.Fill)

	for i, line := range l.lines {
		x := 0.0
		switch style.Align {
		case AlignCenter:
			x = (l.width - l.widths[i]) / 2
		case AlignRight:
			x = l.width - l.widths[i]
		}
		dc.DrawString(line, x, float64(i)*l.lineHeight+l.ascent)
	}

	t.baked = dc.Image()
	t.bakes++
}
