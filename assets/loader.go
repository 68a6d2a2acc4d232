package assets

import (
	"context"
	"errors"
	"image"
	"io/fs"
	"runtime"

	// decoders registered with image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ErrUnknownAsset is returned for ids that resolve to no file.
var ErrUnknownAsset = eris.New("unknown asset")

// Loader decodes images in the background and hands them back on the
// goroutine that calls Dispatch or Wait. Everything except decoding runs on
// that goroutine; the Loader itself is not safe for concurrent use.
type Loader struct {
	fsys        fs.FS
	logger      zerolog.Logger
	manifest    *Manifest
	concurrency int

	textures map[string]*Texture
	queued   []string
	inflight int
	finished chan *Batch
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger for load results.
func WithLogger(logger zerolog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithManifest sets the manifest used to resolve ids.
func WithManifest(m *Manifest) LoaderOption {
	return func(l *Loader) {
		l.manifest = m
	}
}

// WithConcurrency limits the number of images decoded at once.
func WithConcurrency(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.concurrency = n
		}
	}
}

// NewLoader creates a loader reading from fsys.
func NewLoader(fsys fs.FS, opts ...LoaderOption) *Loader {
	l := &Loader{
		fsys:        fsys,
		logger:      zerolog.Nop(),
		concurrency: runtime.GOMAXPROCS(0),
		textures:    make(map[string]*Texture),
		finished:    make(chan *Batch, 16),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Manifest returns the loader's manifest, which may be nil.
func (l *Loader) Manifest() *Manifest {
	return l.manifest
}

// Texture returns the handle for id, creating it on first use. A new handle
// is queued and loaded by the next Dispatch.
func (l *Loader) Texture(id string) *Texture {
	if tex, ok := l.textures[id]; ok {
		return tex
	}
	tex := l.handle(id)
	l.queued = append(l.queued, id)
	return tex
}

// Lookup returns the handle for id without creating or queueing it.
func (l *Loader) Lookup(id string) (*Texture, bool) {
	tex, ok := l.textures[id]
	return tex, ok
}

// Add registers an already decoded image under id.
func (l *Loader) Add(id string, img image.Image) *Texture {
	tex := l.handle(id)
	tex.img = img
	tex.err = nil
	tex.state = StateReady
	return tex
}

func (l *Loader) handle(id string) *Texture {
	tex, ok := l.textures[id]
	if !ok {
		tex = &Texture{id: id, path: l.manifest.Resolve(id)}
		l.textures[id] = tex
	}
	return tex
}

// Len returns the number of known textures.
func (l *Loader) Len() int {
	return len(l.textures)
}

// Pending returns the number of batches not yet dispatched.
func (l *Loader) Pending() int {
	return l.inflight
}

// Batch is one call to Load.
type Batch struct {
	ID  uuid.UUID
	IDs []string

	onComplete func(error)
	textures   []*Texture
	images     []image.Image
	errs       []error
	err        error
}

// Err returns the first load error once the batch has been dispatched.
func (b *Batch) Err() error {
	return b.err
}

// Load decodes ids in the background. Ready textures are not decoded again.
// onComplete may be nil; otherwise it runs once, from Dispatch or Wait, with
// the first error of the batch.
func (l *Loader) Load(ids []string, onComplete func(error)) *Batch {
	b := &Batch{
		ID:         uuid.New(),
		IDs:        ids,
		onComplete: onComplete,
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		tex := l.handle(id)
		if tex.state == StateReady {
			continue
		}
		tex.state = StateLoading
		b.textures = append(b.textures, tex)
	}
	b.images = make([]image.Image, len(b.textures))
	b.errs = make([]error, len(b.textures))

	l.logger.Debug().Str("batch", b.ID.String()).Int("assets", len(b.textures)).Msg("load started")

	l.inflight++
	go l.decodeBatch(b)
	return b
}

func (l *Loader) decodeBatch(b *Batch) {
	g := new(errgroup.Group)
	g.SetLimit(l.concurrency)
	for i, tex := range b.textures {
		g.Go(func() error {
			b.images[i], b.errs[i] = l.decode(tex)
			return b.errs[i]
		})
	}
	b.err = g.Wait()
	l.finished <- b
}

func (l *Loader) decode(tex *Texture) (image.Image, error) {
	f, err := l.fsys.Open(tex.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrapf(ErrUnknownAsset, "asset %q (%s)", tex.id, tex.path)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "open asset %q", tex.id)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, eris.Wrapf(err, "decode asset %q", tex.id)
	}
	return img, nil
}

// Dispatch starts loading lazily requested textures, then applies every
// finished batch and runs its callback. It never blocks and returns the
// number of batches applied.
func (l *Loader) Dispatch() int {
	if len(l.queued) > 0 {
		ids := l.queued
		l.queued = nil
		l.Load(ids, nil)
	}

	applied := 0
	for {
		select {
		case b := <-l.finished:
			l.apply(b)
			applied++
		default:
			return applied
		}
	}
}

// Wait blocks until every started batch is applied or ctx is done.
func (l *Loader) Wait(ctx context.Context) error {
	l.Dispatch()
	for l.inflight > 0 {
		select {
		case <-ctx.Done():
			return eris.Wrap(ctx.Err(), "wait for assets")
		case b := <-l.finished:
			l.apply(b)
		}
	}
	return nil
}

func (l *Loader) apply(b *Batch) {
	l.inflight--

	for i, tex := range b.textures {
		if err := b.errs[i]; err != nil {
			tex.state = StateFailed
			tex.err = err
			tex.img = nil
			l.logger.Error().Err(err).Str("batch", b.ID.String()).Str("asset", tex.id).Msg("asset failed to load")
			continue
		}
		tex.state = StateReady
		tex.err = nil
		tex.img = b.images[i]
	}

	l.logger.Debug().Str("batch", b.ID.String()).Bool("ok", b.err == nil).Msg("load finished")

	if b.onComplete != nil {
		b.onComplete(b.err)
	}
}
