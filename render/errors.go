package render

import "github.com/rotisserie/eris"

var (
	// ErrUnknownShape is returned for a Primitive whose ShapeType is not recognized.
	// It is fatal: the observer and per-frame paths panic with it.
	ErrUnknownShape = eris.New("unknown shape type")

	// ErrNotBuilt is returned by setters for entities without visuals.
	ErrNotBuilt = eris.New("entity has no visuals")

	// ErrMissingComponent is returned by setters when the entity lacks the component they write.
	ErrMissingComponent = eris.New("entity lacks component")

	// ErrDetached is returned when the system is not attached to a storage.
	ErrDetached = eris.New("render system is not attached")
)
