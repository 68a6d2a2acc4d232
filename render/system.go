package render

import (
	"iter"
	"strconv"

	"github.com/kamstrup/intmap"
	"github.com/plus3/scenesync/assets"
	"github.com/plus3/scenesync/ecs"
	"github.com/plus3/scenesync/scene"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// System mirrors graphic components onto a scene stage.
//
// It observes the storage it is attached to, so entities get their visuals as
// they are spawned, keep them across archetype migrations and lose them when
// deleted. As an ecs.System it brings every entity up to date once per frame:
// nodes whose fingerprint changed are rebuilt, the rest are only moved.
//
// All methods must be called from the goroutine that mutates the storage.
type System struct {
	stage  *scene.Stage
	loader *assets.Loader
	logger zerolog.Logger

	offsetX, offsetY float64

	storage   *ecs.Storage
	view      *ecs.View[graphic]
	unobserve func()
	bindings  *intmap.Map[ecs.EntityId, *binding]

	stats Stats
}

// Option configures a System.
type Option func(*System)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *System) {
		s.logger = logger
	}
}

// WithOffset sets the initial display offset.
func WithOffset(x, y float64) Option {
	return func(s *System) {
		s.offsetX, s.offsetY = x, y
	}
}

// NewSystem creates a system drawing onto stage with textures from loader.
func NewSystem(stage *scene.Stage, loader *assets.Loader, opts ...Option) *System {
	s := &System{
		stage:    stage,
		loader:   loader,
		logger:   zerolog.Nop(),
		bindings: intmap.New[ecs.EntityId, *binding](256),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Attach starts observing storage and builds every entity that already has
// graphic components. Attaching to another storage detaches first.
func (s *System) Attach(storage *ecs.Storage) {
	if s.storage == storage {
		return
	}
	s.Detach()

	s.storage = storage
	s.view = ecs.NewView[graphic](storage)
	s.unobserve = storage.Observe(s)

	for id, g := range s.view.Iter() {
		if !g.visual() {
			continue
		}
		if err := s.build(id, &g); err != nil {
			s.fail(id, err)
		}
	}
}

// Detach stops observing and removes every container the system built.
func (s *System) Detach() {
	if s.storage == nil {
		return
	}
	s.unobserve()
	for _, id := range s.boundIds() {
		s.Remove(id)
	}
	s.storage = nil
	s.view = nil
	s.unobserve = nil
}

// Storage returns the attached storage, or nil.
func (s *System) Storage() *ecs.Storage {
	return s.storage
}

// Stage returns the stage the system draws onto.
func (s *System) Stage() *scene.Stage {
	return s.stage
}

// Loader returns the texture loader.
func (s *System) Loader() *assets.Loader {
	return s.loader
}

// EntitySpawned builds the new entity's visuals.
func (s *System) EntitySpawned(id ecs.EntityId) {
	if err := s.Build(id); err != nil {
		s.fail(id, err)
	}
}

// EntityDeleted destroys the entity's visuals.
func (s *System) EntityDeleted(id ecs.EntityId) {
	s.Remove(id)
}

// EntityMoved carries the entity's visuals to its new id and syncs them,
// since the move may have added or removed a graphic component.
func (s *System) EntityMoved(from, to ecs.EntityId) {
	if b, ok := s.bindings.Get(from); ok {
		s.bindings.Del(from)
		b.id = to
		s.bindings.Put(to, b)
	}
	if err := s.Update(to); err != nil {
		s.fail(to, err)
	}
}

// fail handles errors raised where no caller can receive them.
func (s *System) fail(id ecs.EntityId, err error) {
	if eris.Is(err, ErrUnknownShape) {
		s.logger.Error().Err(err).Uint64("entity", uint64(id)).Msg("cannot build visuals")
		panic(err)
	}
	s.logger.Warn().Err(err).Uint64("entity", uint64(id)).Msg("visuals out of sync")
}

// Build creates the visuals of id. Building an entity that already has
// visuals updates it instead; an entity without graphic components is ignored.
func (s *System) Build(id ecs.EntityId) error {
	if s.storage == nil {
		return ErrDetached
	}
	if b, ok := s.bindings.Get(id); ok {
		return s.Update(b.id)
	}

	var g graphic
	if !s.view.Fill(id, &g) || !g.visual() {
		return nil
	}
	return s.build(id, &g)
}

func (s *System) build(id ecs.EntityId, g *graphic) error {
	b := &binding{id: id, container: scene.NewContainer()}
	b.container.Name = "entity-" + strconv.FormatUint(uint64(id), 10)

	if err := s.sync(b, g); err != nil {
		b.container.RemoveChildren()
		return err
	}

	s.stage.AddChild(b.container)
	s.bindings.Put(id, b)
	s.stats.Built++

	s.logger.Debug().Uint64("entity", uint64(id)).Strs("kind", b.kinds()).Msg("built visuals")
	return nil
}

// Update brings the visuals of id in line with its components. Kinds that
// appeared are built, kinds that disappeared are destroyed and kinds whose
// fingerprint changed are rebuilt; otherwise only position, transform,
// visibility and z-index are applied. An entity that lost every graphic
// component loses its container; an entity without visuals gets built.
func (s *System) Update(id ecs.EntityId) error {
	if s.storage == nil {
		return ErrDetached
	}

	var g graphic
	filled := s.view.Fill(id, &g) && g.visual()

	b, ok := s.bindings.Get(id)
	switch {
	case !ok && !filled:
		return nil
	case !ok:
		return s.build(id, &g)
	case !filled:
		s.Remove(id)
		return nil
	}
	return s.sync(b, &g)
}

// sync rebuilds the nodes whose fingerprint changed, then places the container.
func (s *System) sync(b *binding, g *graphic) error {
	pos := g.position()
	changed := false

	for k := range kindCount {
		present, fp := g.print(k, pos)
		node := b.nodes[k]

		switch {
		case !present && node == nil:
			continue
		case !present:
			b.container.RemoveChild(node)
			b.nodes[k] = nil
			b.prints[k] = 0
			s.stats.NodesRemoved++
			changed = true
			s.logger.Debug().Uint64("entity", uint64(b.id)).Stringer("kind", k).Msg("removed node")
			continue
		case node != nil && fp == b.prints[k]:
			continue
		}

		fresh, err := s.newNode(k, g, pos)
		if err != nil {
			return eris.Wrapf(err, "build %s of entity %d", k, b.id)
		}
		fresh.Base().ZIndex = int(k)

		if node != nil {
			b.container.RemoveChild(node)
			s.stats.Rebuilt++
		} else {
			s.stats.NodesBuilt++
		}
		b.container.AddChild(fresh)
		b.nodes[k] = fresh
		b.prints[k] = fp
		if k == kindAnimation {
			b.paused = false
		}
		changed = true
	}

	s.place(b, g, pos)
	if !changed {
		s.stats.Repositioned++
	}
	return nil
}

// place applies everything that does not need a rebuild.
func (s *System) place(b *binding, g *graphic, pos Position) {
	c := b.container
	c.SetPosition(pos.X+s.offsetX, pos.Y+s.offsetY)

	var tr Transform
	if g.Transform != nil {
		tr = *g.Transform
	}
	c.Rotation = tr.Rotation
	c.SetScale(orOne(tr.ScaleX), orOne(tr.ScaleY))
	c.Alpha = min(max(1-tr.Transparency, 0), 1)

	c.ZIndex = 0
	if g.ZIndex != nil {
		c.ZIndex = int(*g.ZIndex)
	}

	if node := b.nodes[kindSprite]; node != nil {
		node.Base().Visible = !g.Sprite.Hidden
	}
	if anim, ok := b.nodes[kindAnimation].(*scene.AnimatedSprite); ok {
		anim.Visible = !g.Animation.Hidden
		if g.Animation.Paused != b.paused {
			if g.Animation.Paused {
				anim.Stop()
			} else {
				anim.Play()
			}
			b.paused = g.Animation.Paused
		}
	}
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// Remove destroys the visuals of id. Unknown ids are ignored.
func (s *System) Remove(id ecs.EntityId) {
	b, ok := s.bindings.Get(id)
	if !ok {
		return
	}
	s.stage.RemoveChild(b.container)
	b.container.RemoveChildren()
	s.bindings.Del(id)
	s.stats.Destroyed++

	s.logger.Debug().Uint64("entity", uint64(id)).Msg("destroyed visuals")
}

// Execute applies finished asset loads, syncs every entity with graphic
// components and advances animations. A system that was never attached
// attaches to the frame's storage.
func (s *System) Execute(frame *ecs.UpdateFrame) {
	if s.storage != frame.Storage {
		s.Attach(frame.Storage)
	}

	s.stats = Stats{Frame: s.stats.Frame + 1}
	s.stats.AssetBatches = s.loader.Dispatch()

	for id, g := range s.view.Iter() {
		if !g.visual() {
			continue
		}

		var err error
		if b, ok := s.bindings.Get(id); ok {
			err = s.sync(b, &g)
		} else {
			err = s.build(id, &g)
		}
		if err != nil {
			s.fail(id, err)
		}
	}

	for b := range s.bindings.Values() {
		if anim, ok := b.nodes[kindAnimation].(*scene.AnimatedSprite); ok {
			anim.Advance(frame.DeltaTime)
		}
	}
}

// Load preloads assets. onComplete may be nil; otherwise it runs during a
// later Execute with the first load error, if any.
func (s *System) Load(ids []string, onComplete func(error)) *assets.Batch {
	return s.loader.Load(ids, onComplete)
}

// SetOffset moves every entity's visuals by (x, y) without rebuilding them.
func (s *System) SetOffset(x, y float64) {
	s.offsetX, s.offsetY = x, y
	if s.storage == nil {
		return
	}
	for b := range s.bindings.Values() {
		var pos Position
		if p := ecs.ReadComponent[Position](s.storage, b.id); p != nil {
			pos = *p
		}
		b.container.SetPosition(pos.X+x, pos.Y+y)
		s.stats.Repositioned++
	}
}

// Offset returns the display offset.
func (s *System) Offset() (x, y float64) {
	return s.offsetX, s.offsetY
}

// Len returns the number of entities with visuals.
func (s *System) Len() int {
	return s.bindings.Len()
}

func (s *System) boundIds() []ecs.EntityId {
	ids := make([]ecs.EntityId, 0, s.bindings.Len())
	for id := range s.bindings.Keys() {
		ids = append(ids, id)
	}
	return ids
}

// VisualInfo describes the visuals of one entity.
type VisualInfo struct {
	Entity    ecs.EntityId
	Container *scene.Container
	Kinds     []string
	X, Y      float64
	Visible   bool
	ZIndex    int
}

func (b *binding) info() VisualInfo {
	c := b.container
	visible := false
	for _, node := range b.nodes {
		if node != nil && node.Base().Visible {
			visible = true
			break
		}
	}
	return VisualInfo{
		Entity:    b.id,
		Container: c,
		Kinds:     b.kinds(),
		X:         c.X,
		Y:         c.Y,
		Visible:   visible && c.Visible,
		ZIndex:    c.ZIndex,
	}
}

// Visual describes the visuals of id.
func (s *System) Visual(id ecs.EntityId) (VisualInfo, bool) {
	b, ok := s.bindings.Get(id)
	if !ok {
		return VisualInfo{}, false
	}
	return b.info(), true
}

// Visuals yields every entity's visuals in no particular order.
func (s *System) Visuals() iter.Seq[VisualInfo] {
	return func(yield func(VisualInfo) bool) {
		for b := range s.bindings.Values() {
			if !yield(b.info()) {
				return
			}
		}
	}
}

// node returns the node of kind k for id, or nil.
func (s *System) node(id ecs.EntityId, k kind) scene.Node {
	b, ok := s.bindings.Get(id)
	if !ok {
		return nil
	}
	return b.nodes[k]
}
