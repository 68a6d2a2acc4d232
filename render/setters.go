package render

import (
	"github.com/plus3/scenesync/ecs"
	"github.com/plus3/scenesync/scene"
	"github.com/rotisserie/eris"
)

func (s *System) bound(id ecs.EntityId) (*binding, error) {
	if s.storage == nil {
		return nil, ErrDetached
	}
	b, ok := s.bindings.Get(id)
	if !ok {
		return nil, eris.Wrapf(ErrNotBuilt, "entity %d", id)
	}
	return b, nil
}

// SetText writes the entity's Text content and updates the node right away.
func (s *System) SetText(id ecs.EntityId, text string) error {
	b, err := s.bound(id)
	if err != nil {
		return err
	}
	comp := ecs.ReadComponent[Text](s.storage, id)
	if comp == nil {
		return eris.Wrapf(ErrMissingComponent, "entity %d has no Text", id)
	}

	// the node can only be retexted in place when it matches the rest of
	// the component; pending style changes go through a rebuild
	node, ok := b.nodes[kindText].(*scene.Text)
	current := ok && b.prints[kindText] == textPrint(comp)

	comp.Content = text
	if !current {
		return s.Update(id)
	}
	node.SetText(text)
	b.prints[kindText] = textPrint(comp)
	return nil
}

// SetSprite replaces the entity's sprite with the texture at path.
func (s *System) SetSprite(id ecs.EntityId, path string) error {
	b, err := s.bound(id)
	if err != nil {
		return err
	}
	comp := ecs.ReadComponent[Sprite](s.storage, id)
	if comp == nil {
		return eris.Wrapf(ErrMissingComponent, "entity %d has no Sprite", id)
	}

	if old := b.nodes[kindSprite]; old != nil {
		b.container.RemoveChild(old)
		b.nodes[kindSprite] = nil
		b.prints[kindSprite] = 0
	}
	comp.Path = path
	return s.Update(id)
}

// Show makes the entity's sprite and animation visible.
func (s *System) Show(id ecs.EntityId) error {
	return s.setHidden(id, false)
}

// Hide hides the entity's sprite and animation. Other visuals stay visible.
func (s *System) Hide(id ecs.EntityId) error {
	return s.setHidden(id, true)
}

func (s *System) setHidden(id ecs.EntityId, hidden bool) error {
	b, err := s.bound(id)
	if err != nil {
		return err
	}

	sprite := ecs.ReadComponent[Sprite](s.storage, id)
	anim := ecs.ReadComponent[Animation](s.storage, id)
	if sprite == nil && anim == nil {
		return eris.Wrapf(ErrMissingComponent, "entity %d has no Sprite or Animation", id)
	}

	if sprite != nil {
		sprite.Hidden = hidden
		if node := b.nodes[kindSprite]; node != nil {
			node.Base().Visible = !hidden
		}
	}
	if anim != nil {
		anim.Hidden = hidden
		if node := b.nodes[kindAnimation]; node != nil {
			node.Base().Visible = !hidden
		}
	}
	return nil
}
