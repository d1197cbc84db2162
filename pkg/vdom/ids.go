package vdom

import (
	"strconv"
	"sync"
)

// DefaultIDPrefix starts generated element ids.
const DefaultIDPrefix = "d"

// IDGenerator hands out element ids. One generator lives as long as the
// tree it numbers so that ids never repeat across passes.
type IDGenerator struct {
	prefix  string
	counter uint32
	mu      sync.Mutex
}

// NewIDGenerator creates a generator; an empty prefix means DefaultIDPrefix.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = DefaultIDPrefix
	}
	return &IDGenerator{prefix: prefix}
}

// Next returns the next id (e.g., "d1", "d2", ...).
func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return g.prefix + strconv.FormatUint(uint64(g.counter), 10)
}

// Current returns the current counter value without incrementing.
func (g *IDGenerator) Current() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.counter
}

// AssignIDs gives every element without an id a fresh one. Updates
// address elements by id, so a tree must be numbered before it is sent.
func AssignIDs(node *VNode, gen *IDGenerator) {
	if node == nil {
		return
	}
	if node.Kind == KindElement && node.ID == "" {
		node.ID = gen.Next()
	}
	for _, child := range node.Children {
		AssignIDs(child, gen)
	}
}

// CopyIDs copies ids from src to the elements of dst that have the same
// position and tag and no id of their own. It returns true if the trees
// had the same shape.
func CopyIDs(src, dst *VNode) bool {
	if src == nil || dst == nil {
		return src == nil && dst == nil
	}
	if src.Kind != dst.Kind || src.Tag != dst.Tag {
		return false
	}
	if dst.ID == "" {
		dst.ID = src.ID
	}
	if len(src.Children) != len(dst.Children) {
		return false
	}
	same := true
	for i := range src.Children {
		if !CopyIDs(src.Children[i], dst.Children[i]) {
			same = false
		}
	}
	return same
}

// FindByID finds a node by its id in the tree.
func FindByID(node *VNode, id string) *VNode {
	if node == nil {
		return nil
	}
	if node.ID == id {
		return node
	}
	for _, child := range node.Children {
		if found := FindByID(child, id); found != nil {
			return found
		}
	}
	return nil
}

// CountElements returns the number of elements in the tree.
func CountElements(node *VNode) int {
	if node == nil {
		return 0
	}
	count := 0
	if node.Kind == KindElement {
		count = 1
	}
	for _, child := range node.Children {
		count += CountElements(child)
	}
	return count
}
