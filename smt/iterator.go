package smt

import (
	"iter"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// NodeInfo is a read-only snapshot of a materialized node.
type NodeInfo struct {
	// Index is the position of the node in the arena, 0 is the root.
	Index int
	// Level is the distance to the root.
	Level int
	Kind  Kind
	// Right is true when the node is the right child of its parent.
	Right bool
	// Value is the value of a leaf.
	Value fr.Element
	// Hash is the cached hash of an inner node, only meaningful when Cached
	// is true. Traversals never compute hashes.
	Hash   fr.Element
	Cached bool
	// HasLeft and HasRight report which children of an inner node are
	// materialized.
	HasLeft, HasRight bool
}

type frame struct {
	idx   int32
	level int
	right bool
}

// Iterator enumerates the materialized nodes of a tree depth first, parents
// before children and left before right. It cannot be restarted.
type Iterator struct {
	nodes []node
	stack []frame
}

// Iter returns an iterator that reads the nodes of t in place. Any number of
// them can be used at the same time. Modifying t invalidates the iterators
// created before: they never follow the nodes added afterwards, but they
// may see the new values of the leaves they still have to return.
func (t *Tree) Iter() *Iterator {
	return newIterator(t.nodes)
}

// IntoIter moves the nodes of t into the returned iterator and leaves t
// empty, as if Clear was called.
func (t *Tree) IntoIter() *Iterator {
	nodes := t.nodes
	t.reset()
	return newIterator(nodes)
}

func newIterator(nodes []node) *Iterator {
	it := &Iterator{nodes: nodes}
	if len(nodes) > 0 {
		it.stack = []frame{{idx: rootIndex}}
	}
	return it
}

// Next returns the next node, or false once every node has been returned.
func (it *Iterator) Next() (NodeInfo, bool) {
	if len(it.stack) == 0 {
		return NodeInfo{}, false
	}
	f := it.stack[len(it.stack)-1]
	it.stack = it.stack[:len(it.stack)-1]

	n := &it.nodes[f.idx]
	info := NodeInfo{
		Index:    int(f.idx),
		Level:    f.level,
		Kind:     n.kind,
		Right:    f.right,
		HasLeft:  it.linked(n.left),
		HasRight: it.linked(n.right),
	}
	switch n.kind {
	case Leaf:
		info.Value = n.value
	case Inner:
		info.Hash, info.Cached = n.hash.value, n.hash.state == cached
		// right first, so the left child is popped first
		if info.HasRight {
			it.stack = append(it.stack, frame{idx: n.right, level: f.level + 1, right: true})
		}
		if info.HasLeft {
			it.stack = append(it.stack, frame{idx: n.left, level: f.level + 1})
		}
	}
	return info, true
}

// linked reports whether idx is a child known to the iterator. Nodes
// appended to the arena after the iterator was created are out of its view.
func (it *Iterator) linked(idx int32) bool {
	return idx != nilNode && int(idx) < len(it.nodes)
}

// All returns the remaining nodes as a sequence.
func (it *Iterator) All() iter.Seq[NodeInfo] {
	return func(yield func(NodeInfo) bool) {
		for {
			n, ok := it.Next()
			if !ok || !yield(n) {
				return
			}
		}
	}
}

// Leaves returns the values of the materialized leaves of t, from the
// leftmost to the rightmost. Deleted leaves are returned as zero.
func (t *Tree) Leaves() iter.Seq[fr.Element] {
	return func(yield func(fr.Element) bool) {
		for n := range t.Iter().All() {
			if n.Kind == Leaf && !yield(n.Value) {
				return
			}
		}
	}
}
