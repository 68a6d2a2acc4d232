package render

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"image/color"
	"math"
)

// fingerprint hashes the fields of a graphic component that require a new
// node when they change. Fields that only move the node are left out.
type fingerprint struct {
	h   hash.Hash64
	buf [8]byte
}

func newFingerprint(k kind) *fingerprint {
	f := &fingerprint{h: fnv.New64a()}
	f.int(int(k))
	return f
}

func (f *fingerprint) float(v float64) *fingerprint {
	binary.LittleEndian.PutUint64(f.buf[:], math.Float64bits(v))
	f.h.Write(f.buf[:])
	return f
}

func (f *fingerprint) int(v int) *fingerprint {
	binary.LittleEndian.PutUint64(f.buf[:], uint64(v))
	f.h.Write(f.buf[:])
	return f
}

func (f *fingerprint) bool(v bool) *fingerprint {
	if v {
		return f.int(1)
	}
	return f.int(0)
}

func (f *fingerprint) str(s string) *fingerprint {
	f.int(len(s))
	f.h.Write([]byte(s))
	return f
}

func (f *fingerprint) rgba(c color.RGBA) *fingerprint {
	f.h.Write([]byte{c.R, c.G, c.B, c.A})
	return f
}

func (f *fingerprint) sum() uint64 {
	return f.h.Sum64()
}

func spritePrint(s *Sprite) uint64 {
	return newFingerprint(kindSprite).str(s.Path).rgba(s.Tint).sum()
}

func textPrint(t *Text) uint64 {
	return newFingerprint(kindText).
		str(t.Content).
		float(t.Style.Size).
		rgba(t.Style.Color).
		int(int(t.Style.Align)).
		float(t.Style.LineSpacing).
		sum()
}

// linePrint includes the position because the segment is stored relative to it.
func linePrint(l *Line, pos Position) uint64 {
	return newFingerprint(kindLine).
		float(l.X).float(l.Y).
		float(pos.X).float(pos.Y).
		float(l.Width).
		rgba(l.Color).
		sum()
}

func primitivePrint(p *Primitive) uint64 {
	return newFingerprint(kindPrimitive).
		int(int(p.Shape)).
		rgba(p.Color).
		float(p.Radius).
		float(p.Width).
		float(p.Height).
		float(p.CornerRadius).
		int(p.Sides).
		float(p.StrokeWidth).
		rgba(p.StrokeColor).
		sum()
}

func animationPrint(a *Animation) uint64 {
	f := newFingerprint(kindAnimation).str(a.Sequence).int(len(a.Frames))
	for _, frame := range a.Frames {
		f.str(frame)
	}
	return f.float(a.FPS).bool(a.Loop).sum()
}
