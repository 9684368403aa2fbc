// Package smt implements a sparse, fixed-depth binary Merkle tree over the
// BN254 scalar field.
//
// Every one of the 2^depth leaves is addressed by a path, a field element
// whose little-endian bits select the route from the root (bit 0 chooses the
// child of the root, 0 is left and 1 is right). Only the nodes on inserted
// paths are materialized; absent subtrees hash to a precomputed default
// value per level, so the root is the same as the one of the fully
// materialized tree. Leaves are not hashed: an empty leaf is zero and the
// value of a leaf is its contribution to its parent hash.
//
// A Tree is not safe for concurrent use, not even for concurrent reads, as
// reading hashes fills the per-node hash cache. Proofs are immutable once
// generated and can be shared freely.
package smt

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vocdoni/poseidon-smt/field"
	"github.com/vocdoni/poseidon-smt/hash"
	"go.vocdoni.io/dvote/log"
)

// Tree is a sparse Merkle tree. Nodes live in an arena addressed by index,
// the root is always the first one.
type Tree struct {
	depth    int
	hasher   hash.Hasher
	defaults []fr.Element
	nodes    []node

	metrics        bool
	proofCacheSize int
	proofs         *lru.Cache[fr.Element, *Proof]
}

// New returns an empty tree of the provided depth. The depth must be between
// 1 and field.Capacity.
func New(depth int, opts ...Option) (*Tree, error) {
	if depth < 1 || depth > field.Capacity {
		return nil, fmt.Errorf("%w: %d, must be between 1 and %d", ErrInvalidDepth, depth, field.Capacity)
	}
	t := &Tree{
		depth:   depth,
		hasher:  hash.Default(),
		metrics: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.proofCacheSize > 0 {
		cache, err := lru.New[fr.Element, *Proof](t.proofCacheSize)
		if err != nil {
			return nil, fmt.Errorf("cannot create the proof cache: %w", err)
		}
		t.proofs = cache
	}
	// defaults[depth] is an empty leaf, every level above hashes two empty
	// subtrees of the level below
	t.defaults = make([]fr.Element, depth+1)
	for level := depth - 1; level >= 0; level-- {
		h, err := t.compress(t.defaults[level+1], t.defaults[level+1])
		if err != nil {
			return nil, err
		}
		t.defaults[level] = h
	}
	t.reset()
	return t, nil
}

// NewDefault returns an empty tree of DefaultDepth.
func NewDefault(opts ...Option) (*Tree, error) {
	return New(DefaultDepth, opts...)
}

// Depth returns the number of levels below the root.
func (t *Tree) Depth() int {
	return t.depth
}

// Hasher returns the compression function of the tree. It can be used to
// verify the proofs generated by the tree.
func (t *Tree) Hasher() hash.Hasher {
	return t.hasher
}

// DefaultHash returns the hash of an empty subtree rooted at level, where 0
// is the root level and Depth() is the leaf level.
func (t *Tree) DefaultHash(level int) (fr.Element, error) {
	if level < 0 || level > t.depth {
		return fr.Element{}, fmt.Errorf("invalid level %d, tree depth is %d", level, t.depth)
	}
	return t.defaults[level], nil
}

// Len returns the number of materialized nodes, including the root.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Insert sets the leaf at path to value, creating the missing nodes of the
// route, and invalidates the cached hashes from the leaf to the root.
func (t *Tree) Insert(path, value fr.Element) error {
	bits, err := t.pathBits(path)
	if err != nil {
		return err
	}
	visited := make([]int32, 0, t.depth+1)
	idx := rootIndex
	for level := 0; level < t.depth; level++ {
		visited = append(visited, idx)
		next := t.nodes[idx].child(bits[level])
		if next == nilNode {
			if level == t.depth-1 {
				next = t.alloc(newLeafNode(value))
			} else {
				next = t.alloc(newInnerNode())
			}
			t.nodes[idx].setChild(bits[level], next)
		}
		idx = next
	}
	t.nodes[idx].value = value
	t.invalidate(append(visited, idx))
	t.observeOp("insert")
	log.Debugw("smt leaf inserted", "path", path.String(), "value", value.String(), "nodes", len(t.nodes))
	return nil
}

// Delete sets the leaf at path to zero. The nodes of the route are kept
// even if their subtree becomes empty. It fails with ErrPathNotFound if no
// value was ever inserted at path.
func (t *Tree) Delete(path fr.Element) error {
	bits, err := t.pathBits(path)
	if err != nil {
		return err
	}
	visited := make([]int32, 0, t.depth+1)
	idx := rootIndex
	for level := 0; level < t.depth; level++ {
		visited = append(visited, idx)
		idx = t.nodes[idx].child(bits[level])
		if idx == nilNode {
			return fmt.Errorf("%w: %s, missing node at level %d", ErrPathNotFound, path.String(), level+1)
		}
	}
	t.nodes[idx].value = fr.Element{}
	t.invalidate(append(visited, idx))
	t.observeOp("delete")
	log.Debugw("smt leaf deleted", "path", path.String())
	return nil
}

// Get returns the value of the leaf at path. Leaves that were never inserted
// are zero.
func (t *Tree) Get(path fr.Element) (fr.Element, error) {
	bits, err := t.pathBits(path)
	if err != nil {
		return fr.Element{}, err
	}
	t.observeOp("get")
	idx := rootIndex
	for level := 0; level < t.depth; level++ {
		idx = t.nodes[idx].child(bits[level])
		if idx == nilNode {
			return fr.Element{}, nil
		}
	}
	return t.nodes[idx].value, nil
}

// Root returns the root hash of the tree, computing the hashes invalidated
// since the last call.
func (t *Tree) Root() (fr.Element, error) {
	return t.hash(rootIndex, 0)
}

// IsEmpty returns true if the root of the tree is the one of a tree without
// any non zero leaf.
func (t *Tree) IsEmpty() (bool, error) {
	root, err := t.Root()
	if err != nil {
		return false, err
	}
	return root.Equal(&t.defaults[0]), nil
}

// Clear drops every node of the tree, leaving it empty.
func (t *Tree) Clear() {
	t.reset()
	t.observeOp("clear")
	log.Debugw("smt cleared", "depth", t.depth)
}

// NodeHash returns the hash of the node at level on the route of path, 0
// being the root and Depth() the leaf. Absent nodes hash to the default of
// their level.
func (t *Tree) NodeHash(path fr.Element, level int) (fr.Element, error) {
	if level < 0 || level > t.depth {
		return fr.Element{}, fmt.Errorf("invalid level %d, tree depth is %d", level, t.depth)
	}
	bits, err := t.pathBits(path)
	if err != nil {
		return fr.Element{}, err
	}
	idx := rootIndex
	for l := 0; l < level; l++ {
		idx = t.nodes[idx].child(bits[l])
		if idx == nilNode {
			return t.defaults[level], nil
		}
	}
	return t.hash(idx, level)
}

// alloc appends n to the arena and returns its index.
func (t *Tree) alloc(n node) int32 {
	t.nodes = append(t.nodes, n)
	return int32(len(t.nodes) - 1)
}

// invalidate marks as dirty the nodes of a route, provided from the root to
// the leaf, starting by the leaf. Any cached proof becomes stale.
func (t *Tree) invalidate(route []int32) {
	for i := len(route) - 1; i >= 0; i-- {
		t.nodes[route[i]].invalidate()
	}
	if t.proofs != nil {
		t.proofs.Purge()
	}
}

// reset replaces the arena with a single empty root.
func (t *Tree) reset() {
	t.nodes = []node{newInnerNode()}
	if t.proofs != nil {
		t.proofs.Purge()
	}
}
