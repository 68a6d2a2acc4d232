package assets

import "image"

// State is the load state of a Texture.
type State int

const (
	StatePending State = iota
	StateLoading
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Texture is a cached handle to a decoded image. The handle exists before the
// pixels do; Image returns nil until the Loader dispatches the finished load.
// Textures are only mutated by Loader.Dispatch and must be read on the same
// goroutine.
type Texture struct {
	id    string
	path  string
	img   image.Image
	err   error
	state State
}

// ID returns the asset id the texture was requested with.
func (t *Texture) ID() string {
	return t.id
}

// Path returns the file the id resolved to.
func (t *Texture) Path() string {
	return t.path
}

// Image returns the decoded image or nil.
func (t *Texture) Image() image.Image {
	return t.img
}

// State returns the load state.
func (t *Texture) State() State {
	return t.state
}

// Ready reports whether the image is available.
func (t *Texture) Ready() bool {
	return t.state == StateReady
}

// Err returns the load error of a failed texture.
func (t *Texture) Err() error {
	return t.err
}
