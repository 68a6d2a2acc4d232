package render

import (
	"bytes"
	"image"
	"image/png"
	"testing"
	"testing/fstest"
	"time"

	"github.com/plus3/scenesync/assets"
	"github.com/plus3/scenesync/ecs"
	"github.com/plus3/scenesync/scene"
	"github.com/stretchr/testify/require"
)

type world struct {
	storage *ecs.Storage
	stage   *scene.Stage
	loader  *assets.Loader
	sys     *System
}

func pngFile(t *testing.T, w, h int) *fstest.MapFile {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return &fstest.MapFile{Data: buf.Bytes()}
}

func newWorld(t *testing.T, opts ...Option) *world {
	t.Helper()

	fsys := fstest.MapFS{
		"hero.png":  pngFile(t, 8, 4),
		"alt.png":   pngFile(t, 2, 2),
		"run/0.png": pngFile(t, 1, 1),
		"run/1.png": pngFile(t, 1, 1),
	}
	manifest, err := assets.ParseManifest([]byte(`{"animations":{"run":{"frames":["run/0.png","run/1.png"],"fps":4,"loop":true}}}`))
	require.NoError(t, err)

	registry := ecs.NewComponentRegistry()
	RegisterComponents(registry)
	ecs.RegisterComponent[tag](registry)

	w := &world{
		storage: ecs.NewStorage(registry),
		stage:   scene.NewStage(),
		loader:  assets.NewLoader(fsys, assets.WithManifest(manifest)),
	}
	w.sys = NewSystem(w.stage, w.loader, opts...)
	w.sys.Attach(w.storage)
	return w
}

// tag is a non-graphic component.
type tag struct{}

func (w *world) frame(dt float64) {
	w.sys.Execute(&ecs.UpdateFrame{DeltaTime: dt, Storage: w.storage})
}

// settle runs frames until every asset batch is applied.
func (w *world) settle(t *testing.T) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		w.frame(0)
		if w.loader.Pending() == 0 {
			return
		}
		require.True(t, time.Now().Before(deadline), "assets did not load")
		time.Sleep(time.Millisecond)
	}
}
