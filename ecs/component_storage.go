package ecs

import "iter"

// componentStorage is a type-erased column of one component type inside an archetype.
type componentStorage interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	Len() int
	Compact() map[int]int
	Iter() iter.Seq[int]
}

const blockSize = 64

// blockStorage stores components of type T in fixed-size blocks so pointers handed out
// by Get stay valid while the column grows.
type blockStorage[T any] struct {
	blocks    [][blockSize]T
	filled    [][blockSize]bool
	freeSlots []int
	nextIndex int
}

func locate(index int) (int, int) {
	return index / blockSize, index % blockSize
}

// Append adds a component to storage and returns its index.
func (cs *blockStorage[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return -1
	}

	var index int
	if n := len(cs.freeSlots); n > 0 {
		index = cs.freeSlots[n-1]
		cs.freeSlots = cs.freeSlots[:n-1]
	} else {
		index = cs.nextIndex
		cs.nextIndex++
	}

	block, slot := locate(index)
	for block >= len(cs.blocks) {
		cs.blocks = append(cs.blocks, [blockSize]T{})
		cs.filled = append(cs.filled, [blockSize]bool{})
	}

	cs.blocks[block][slot] = value
	cs.filled[block][slot] = true
	return index
}

// Get returns a pointer to the component at the given index, or nil.
func (cs *blockStorage[T]) Get(index int) any {
	if !cs.Has(index) {
		return nil
	}
	block, slot := locate(index)
	return &cs.blocks[block][slot]
}

// Delete marks a component slot as empty and zeroes it.
func (cs *blockStorage[T]) Delete(index int) {
	if !cs.Has(index) {
		return
	}
	block, slot := locate(index)
	var zero T
	cs.blocks[block][slot] = zero
	cs.filled[block][slot] = false
	cs.freeSlots = append(cs.freeSlots, index)
}

// Has checks if a component exists at the given index.
func (cs *blockStorage[T]) Has(index int) bool {
	if index < 0 {
		return false
	}
	block, slot := locate(index)
	if block >= len(cs.filled) {
		return false
	}
	return cs.filled[block][slot]
}

// Len returns the number of live components.
func (cs *blockStorage[T]) Len() int {
	return cs.nextIndex - len(cs.freeSlots)
}

// Compact moves live components to the front and returns the old to new index mapping.
func (cs *blockStorage[T]) Compact() map[int]int {
	indexMap := make(map[int]int)

	live := cs.Len()
	if live == 0 {
		cs.blocks = nil
		cs.filled = nil
		cs.freeSlots = nil
		cs.nextIndex = 0
		return indexMap
	}

	numBlocks := (live + blockSize - 1) / blockSize
	blocks := make([][blockSize]T, numBlocks)
	filled := make([][blockSize]bool, numBlocks)

	writePos := 0
	for readPos := 0; readPos < cs.nextIndex; readPos++ {
		rb, rs := locate(readPos)
		if !cs.filled[rb][rs] {
			continue
		}
		wb, ws := locate(writePos)
		blocks[wb][ws] = cs.blocks[rb][rs]
		filled[wb][ws] = true
		indexMap[readPos] = writePos
		writePos++
	}

	cs.blocks = blocks
	cs.filled = filled
	cs.freeSlots = nil
	cs.nextIndex = writePos
	return indexMap
}

// Iter yields the indices of live components in ascending order.
func (cs *blockStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < cs.nextIndex; i++ {
			if cs.Has(i) && !yield(i) {
				return
			}
		}
	}
}
