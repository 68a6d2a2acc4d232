package scene

import (
	"cmp"
	"slices"
)

// Container groups child nodes under one transform.
type Container struct {
	Object
	children []Node
}

// NewContainer creates an empty, visible container.
func NewContainer() *Container {
	return &Container{Object: newObject()}
}

// Size is zero; containers have no intrinsic extent.
func (c *Container) Size() (float64, float64) {
	return 0, 0
}

// AddChild appends n to the container, detaching it from any previous parent.
func (c *Container) AddChild(n Node) {
	base := n.Base()
	if base.parent == c {
		return
	}
	if base.parent != nil {
		base.parent.RemoveChild(n)
	}
	base.parent = c
	c.children = append(c.children, n)
}

// RemoveChild detaches n. Returns false if n is not a child of c.
func (c *Container) RemoveChild(n Node) bool {
	for i, child := range c.children {
		if child.Base() == n.Base() {
			c.children = slices.Delete(c.children, i, i+1)
			n.Base().parent = nil
			return true
		}
	}
	return false
}

// RemoveChildren detaches every child.
func (c *Container) RemoveChildren() {
	for _, child := range c.children {
		child.Base().parent = nil
	}
	clear(c.children)
	c.children = c.children[:0]
}

// Children returns the children in paint order. The slice must not be modified.
func (c *Container) Children() []Node {
	return c.children
}

// Len returns the number of direct children.
func (c *Container) Len() int {
	return len(c.children)
}

// SortChildren orders children by ZIndex, keeping insertion order for ties.
func (c *Container) SortChildren() {
	byZ := func(a, b Node) int {
		return cmp.Compare(a.Base().ZIndex, b.Base().ZIndex)
	}
	if !slices.IsSortedFunc(c.children, byZ) {
		slices.SortStableFunc(c.children, byZ)
	}
}

// Walk visits the descendants of c depth-first in paint order.
// Returning false from fn skips the children of that node.
func (c *Container) Walk(fn func(n Node, depth int) bool) {
	c.walk(fn, 0)
}

func (c *Container) walk(fn func(Node, int) bool, depth int) {
	for _, child := range c.children {
		if !fn(child, depth) {
			continue
		}
		if sub, ok := child.(*Container); ok {
			sub.walk(fn, depth+1)
		}
	}
}
