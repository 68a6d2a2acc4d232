package ecs_test

import (
	"testing"

	"github.com/plus3/scenesync/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewRequiredAndOptional(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	moving := storage.Spawn(Position{X: 1}, Velocity{DX: 2})
	still := storage.Spawn(Position{X: 3})
	storage.Spawn(Velocity{DX: 4})

	view := ecs.NewView[struct {
		ecs.EntityId
		*Position
		Velocity *Velocity `ecs:"optional"`
	}](storage)

	seen := map[ecs.EntityId]bool{}
	for id, item := range view.Iter() {
		assert.Equal(t, id, item.EntityId)
		require.NotNil(t, item.Position)
		if id == moving {
			require.NotNil(t, item.Velocity)
			assert.Equal(t, float32(2), item.Velocity.DX)
		} else {
			assert.Nil(t, item.Velocity)
		}
		seen[id] = true
	}

	assert.Equal(t, map[ecs.EntityId]bool{moving: true, still: true}, seen)
}

func TestViewGet(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1}, Name{Value: "a"})
	other := storage.Spawn(Score(1))

	view := ecs.NewView[struct {
		*Position
		*Name
	}](storage)

	item := view.Get(id)
	require.NotNil(t, item)
	assert.Equal(t, "a", item.Name.Value)

	item.Position.X = 7
	assert.Equal(t, float32(7), ecs.ReadComponent[Position](storage, id).X)

	assert.Nil(t, view.Get(other))
	storage.Delete(id)
	assert.Nil(t, view.Get(id))
}

func TestViewSpawn(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[struct {
		*Position
		Health *Health `ecs:"optional"`
	}](storage)

	id := view.Spawn(struct {
		*Position
		Health *Health `ecs:"optional"`
	}{Position: &Position{X: 1}})

	assert.NotNil(t, ecs.ReadComponent[Position](storage, id))
	assert.Nil(t, ecs.ReadComponent[Health](storage, id))
}

func TestViewRejectsBadTypes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { ecs.NewView[int](storage) })
	assert.Panics(t, func() { ecs.NewView[struct{ Position }](storage) })
	assert.Panics(t, func() {
		ecs.NewView[struct {
			P *Position `ecs:"sometimes"`
		}](storage)
	})
}

func TestQueryRequiresExecute(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{X: 1})

	query := ecs.NewQuery[struct{ *Position }](storage)
	assert.Panics(t, func() {
		for range query.Iter() {
		}
	})

	query.Execute()
	assert.Equal(t, 1, query.Len())

	storage.Spawn(Position{X: 2}, Velocity{})
	query.Execute()
	assert.Equal(t, 2, query.Len())

	total := float32(0)
	for item := range query.Values() {
		total += item.Position.X
	}
	assert.Equal(t, float32(3), total)
}
