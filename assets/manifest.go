package assets

import (
	"io/fs"

	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// Manifest maps asset ids to files and names animation sequences.
//
//	{
//	  "textures": {"hero": "sprites/hero.png"},
//	  "animations": {"hero-run": {"frames": ["run/0.png", "run/1.png"], "fps": 12, "loop": true}}
//	}
type Manifest struct {
	Textures   map[string]string   `json:"textures"`
	Animations map[string]Sequence `json:"animations"`
}

// Sequence is a named list of frame ids.
type Sequence struct {
	Frames []string `json:"frames"`
	FPS    float64  `json:"fps"`
	Loop   bool     `json:"loop"`
}

// ParseManifest decodes a JSON manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrap(err, "parse asset manifest")
	}
	for name, seq := range m.Animations {
		if len(seq.Frames) == 0 {
			return nil, eris.Errorf("animation %q has no frames", name)
		}
	}
	return &m, nil
}

// ReadManifest reads and parses the manifest at path in fsys.
func ReadManifest(fsys fs.FS, path string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, eris.Wrapf(err, "read asset manifest %s", path)
	}
	return ParseManifest(data)
}

// Resolve returns the file path for id. Ids without an alias are paths.
func (m *Manifest) Resolve(id string) string {
	if m != nil {
		if path, ok := m.Textures[id]; ok {
			return path
		}
	}
	return id
}

// Sequence looks up a named animation.
func (m *Manifest) Sequence(name string) (Sequence, bool) {
	if m == nil {
		return Sequence{}, false
	}
	seq, ok := m.Animations[name]
	return seq, ok
}
