package ecs_test

import "github.com/plus3/scenesync/ecs"

type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type Score int32

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Score](registry)
	return registry
}

// recorder is a LifecycleObserver that keeps every event it sees.
type recorder struct {
	spawned []ecs.EntityId
	deleted []ecs.EntityId
	moved   [][2]ecs.EntityId
}

func (r *recorder) EntitySpawned(id ecs.EntityId) { r.spawned = append(r.spawned, id) }
func (r *recorder) EntityDeleted(id ecs.EntityId) { r.deleted = append(r.deleted, id) }
func (r *recorder) EntityMoved(from, to ecs.EntityId) {
	r.moved = append(r.moved, [2]ecs.EntityId{from, to})
}
