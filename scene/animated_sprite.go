package scene

import "image"

// AnimatedSprite cycles through a list of textures at a fixed frame rate.
type AnimatedSprite struct {
	Object
	FPS  float64
	Loop bool

	// OnComplete runs once when a non-looping animation reaches its last frame.
	OnComplete func()

	frames  []TextureSource
	frame   int
	elapsed float64
	playing bool
}

// NewAnimatedSprite creates a playing animation over frames.
func NewAnimatedSprite(frames []TextureSource, fps float64) *AnimatedSprite {
	return &AnimatedSprite{
		Object:  newObject(),
		FPS:     fps,
		Loop:    true,
		frames:  frames,
		playing: true,
	}
}

// Advance moves the animation forward by dt seconds.
func (a *AnimatedSprite) Advance(dt float64) {
	if !a.playing || a.FPS <= 0 || len(a.frames) < 2 {
		return
	}

	a.elapsed += dt
	step := 1 / a.FPS
	for a.elapsed >= step {
		a.elapsed -= step
		if a.frame+1 < len(a.frames) {
			a.frame++
			continue
		}
		if a.Loop {
			a.frame = 0
			continue
		}
		a.playing = false
		a.elapsed = 0
		if a.OnComplete != nil {
			a.OnComplete()
		}
		return
	}
}

// Play resumes the animation. A finished non-looping animation restarts.
func (a *AnimatedSprite) Play() {
	if !a.Loop && a.frame == len(a.frames)-1 {
		a.frame = 0
	}
	a.playing = true
}

// Stop pauses on the current frame.
func (a *AnimatedSprite) Stop() {
	a.playing = false
}

// Playing reports whether Advance moves the animation.
func (a *AnimatedSprite) Playing() bool {
	return a.playing
}

// GotoFrame jumps to frame i, clamped to the valid range.
func (a *AnimatedSprite) GotoFrame(i int) {
	a.frame = max(0, min(i, len(a.frames)-1))
	a.elapsed = 0
}

// Frame returns the index of the current frame.
func (a *AnimatedSprite) Frame() int {
	return a.frame
}

// Frames returns the number of frames.
func (a *AnimatedSprite) Frames() int {
	return len(a.frames)
}

func (a *AnimatedSprite) current() TextureSource {
	if len(a.frames) == 0 {
		return nil
	}
	return a.frames[a.frame]
}

func (a *AnimatedSprite) Size() (float64, float64) {
	return sourceSize(a.current())
}

func (a *AnimatedSprite) Texture() (image.Image, float64, float64) {
	return textureAt(&a.Object, a.current())
}
