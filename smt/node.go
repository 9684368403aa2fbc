package smt

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Kind distinguishes leaves from inner nodes.
type Kind uint8

const (
	// Inner nodes have up to two children and cache the hash of its subtree.
	Inner Kind = iota
	// Leaf nodes hold a value at the bottom level of the tree.
	Leaf
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Inner:
		return "inner"
	case Leaf:
		return "leaf"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// nilNode marks an absent child.
const nilNode int32 = -1

// rootIndex is the position of the root in the arena, it is always an inner
// node.
const rootIndex int32 = 0

type cacheState uint8

const (
	dirty cacheState = iota
	cached
)

// cachedHash is either dirty or holds the hash of the subtree.
type cachedHash struct {
	state cacheState
	value fr.Element
}

// node is a vertex of the tree stored in the arena. Leaves only use value,
// inner nodes only use left, right and hash.
type node struct {
	kind        Kind
	value       fr.Element
	left, right int32
	hash        cachedHash
}

func newInnerNode() node {
	return node{kind: Inner, left: nilNode, right: nilNode}
}

func newLeafNode(value fr.Element) node {
	return node{kind: Leaf, value: value, left: nilNode, right: nilNode}
}

// child returns the index of the child selected by bit: false is left, true
// is right.
func (n *node) child(bit bool) int32 {
	if bit {
		return n.right
	}
	return n.left
}

// sibling returns the index of the child not selected by bit.
func (n *node) sibling(bit bool) int32 {
	return n.child(!bit)
}

func (n *node) setChild(bit bool, idx int32) {
	if bit {
		n.right = idx
	} else {
		n.left = idx
	}
}

// invalidate marks the cached hash as dirty.
func (n *node) invalidate() {
	n.hash = cachedHash{}
}

// hash returns the contribution of the node at position idx, placed at the
// provided level, to the hash of its parent. Leaves contribute their raw
// value. Inner nodes return their cached hash or compute it from their
// children, using the default hash of the next level for absent ones, and
// cache the result.
func (t *Tree) hash(idx int32, level int) (fr.Element, error) {
	n := &t.nodes[idx]
	switch n.kind {
	case Leaf:
		return n.value, nil
	case Inner:
		if n.hash.state == cached {
			t.observeCacheHit()
			return n.hash.value, nil
		}
		left, err := t.childHash(n.left, level+1)
		if err != nil {
			return fr.Element{}, err
		}
		right, err := t.childHash(n.right, level+1)
		if err != nil {
			return fr.Element{}, err
		}
		h, err := t.compress(left, right)
		if err != nil {
			return fr.Element{}, err
		}
		n.hash = cachedHash{state: cached, value: h}
		return h, nil
	default:
		panic(fmt.Sprintf("invalid node kind %d", n.kind))
	}
}

// childHash returns the hash of the child at idx, placed at level, or the
// default hash of that level when the child is absent.
func (t *Tree) childHash(idx int32, level int) (fr.Element, error) {
	if idx == nilNode {
		return t.defaults[level], nil
	}
	return t.hash(idx, level)
}

func (t *Tree) compress(left, right fr.Element) (fr.Element, error) {
	t.observeHash()
	h, err := t.hasher.Compress(left, right)
	if err != nil {
		return fr.Element{}, fmt.Errorf("%w: %s: %w", ErrHashComputation, t.hasher.Type(), err)
	}
	return h, nil
}
