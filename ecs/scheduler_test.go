package ecs_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/scenesync/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Clock struct {
	Frames int
	Total  float64
}

type movementSystem struct {
	Movers ecs.Query[struct {
		*Position
		*Velocity
	}]
	Clock ecs.Singleton[Clock]
}

func (s *movementSystem) Execute(frame *ecs.UpdateFrame) {
	for _, mover := range s.Movers.Iter() {
		mover.Position.X += mover.Velocity.DX * float32(frame.DeltaTime)
		mover.Position.Y += mover.Velocity.DY * float32(frame.DeltaTime)
	}
	clock := s.Clock.Get()
	clock.Frames++
	clock.Total += frame.DeltaTime
}

func TestSchedulerRunsQueriesAndSingletons(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	ecs.NewSingleton[Clock](storage)

	id := storage.Spawn(Position{}, Velocity{DX: 10, DY: -10})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&movementSystem{})

	scheduler.Once(0.5)
	scheduler.Once(0.5)

	pos := ecs.ReadComponent[Position](storage, id)
	assert.Equal(t, float32(10), pos.X)
	assert.Equal(t, float32(-10), pos.Y)

	var clock *Clock
	require.True(t, storage.ReadSingleton(&clock))
	assert.Equal(t, 2, clock.Frames)
	assert.InDelta(t, 1.0, clock.Total, 1e-9)
}

func TestSchedulerSeesEntitiesSpawnedBetweenFrames(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	ecs.NewSingleton[Clock](storage)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&movementSystem{})
	scheduler.Once(1)

	id := storage.Spawn(Position{}, Velocity{DX: 1})
	scheduler.Once(1)

	assert.Equal(t, float32(1), ecs.ReadComponent[Position](storage, id).X)
}

func TestSchedulerStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	ecs.NewSingleton[Clock](storage)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&movementSystem{})

	for range 3 {
		scheduler.Once(0.016)
	}

	stats := scheduler.GetStats()
	assert.Equal(t, 1, stats.SystemCount)
	assert.Equal(t, int64(3), stats.TotalExecutions)
	require.Len(t, stats.Systems, 1)
	assert.Equal(t, "movementSystem", stats.Systems[0].Name)
	assert.LessOrEqual(t, stats.Systems[0].MinDuration, stats.Systems[0].MaxDuration)
}

func TestSchedulerRunStopsOnCancel(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	ecs.NewSingleton[Clock](storage)

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&movementSystem{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	scheduler.Run(ctx, time.Millisecond)

	assert.Greater(t, scheduler.GetStats().TotalExecutions, int64(0))
}
