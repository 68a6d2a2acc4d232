package scene

import "iter"

// Stage is the root of a scene graph.
type Stage struct {
	Container
}

// NewStage creates an empty stage.
func NewStage() *Stage {
	s := &Stage{Container: Container{Object: newObject()}}
	s.Name = "stage"
	return s
}

// Count returns the number of nodes below the stage.
func (s *Stage) Count() int {
	count := 0
	s.Walk(func(Node, int) bool {
		count++
		return true
	})
	return count
}

// Drawables yields every rendered drawable in paint order. Children are
// sorted by ZIndex on the way down and invisible subtrees are skipped.
func (s *Stage) Drawables() iter.Seq[Drawable] {
	return func(yield func(Drawable) bool) {
		if !s.Visible {
			return
		}
		drawables(&s.Container, yield)
	}
}

func drawables(c *Container, yield func(Drawable) bool) bool {
	c.SortChildren()
	for _, child := range c.children {
		if !child.Base().Visible {
			continue
		}
		switch n := child.(type) {
		case *Container:
			if !drawables(n, yield) {
				return false
			}
		case Drawable:
			if !yield(n) {
				return false
			}
		}
	}
	return true
}
