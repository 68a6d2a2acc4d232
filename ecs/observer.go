package ecs

// LifecycleObserver receives structural changes from a Storage.
// Callbacks run synchronously on the goroutine that mutated the storage.
type LifecycleObserver interface {
	// EntitySpawned is called after a new entity and all its components are stored.
	EntitySpawned(id EntityId)
	// EntityDeleted is called after an entity's components are gone.
	EntityDeleted(id EntityId)
	// EntityMoved is called when an entity changes id, either because a component was
	// added or removed or because its archetype was compacted.
	EntityMoved(from, to EntityId)
}

type observerEntry struct {
	id       int
	observer LifecycleObserver
}

// Observe registers o and returns a function that unregisters it.
func (s *Storage) Observe(o LifecycleObserver) func() {
	s.nextObsId++
	id := s.nextObsId
	s.observers = append(s.observers, observerEntry{id: id, observer: o})

	return func() {
		for i, entry := range s.observers {
			if entry.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// snapshot lets observers unsubscribe from inside a callback.
func (s *Storage) snapshot() []observerEntry {
	if len(s.observers) == 0 {
		return nil
	}
	return append([]observerEntry(nil), s.observers...)
}

func (s *Storage) notifySpawned(id EntityId) {
	for _, entry := range s.snapshot() {
		entry.observer.EntitySpawned(id)
	}
}

func (s *Storage) notifyDeleted(id EntityId) {
	for _, entry := range s.snapshot() {
		entry.observer.EntityDeleted(id)
	}
}

func (s *Storage) notifyMoved(from, to EntityId) {
	for _, entry := range s.snapshot() {
		entry.observer.EntityMoved(from, to)
	}
}
