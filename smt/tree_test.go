package smt

import (
	"errors"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/poseidon-smt/field"
	"github.com/vocdoni/poseidon-smt/hash/bn254/poseidon"
	"github.com/vocdoni/poseidon-smt/hash/bn254/poseidon2"
	"github.com/vocdoni/poseidon-smt/testutil"
)

func fe(v uint64) fr.Element {
	return field.FromUint64(v)
}

func newTestTree(c *qt.C, depth int, opts ...Option) *Tree {
	tree, err := New(depth, opts...)
	c.Assert(err, qt.IsNil)
	return tree
}

func root(c *qt.C, tree *Tree) fr.Element {
	r, err := tree.Root()
	c.Assert(err, qt.IsNil)
	return r
}

func TestNew(t *testing.T) {
	c := qt.New(t)

	tree := newTestTree(c, 2)
	c.Assert(tree.Depth(), qt.Equals, 2)
	c.Assert(tree.Len(), qt.Equals, 1)
	empty, err := tree.IsEmpty()
	c.Assert(err, qt.IsNil)
	c.Assert(empty, qt.IsTrue)

	d0, err := tree.DefaultHash(0)
	c.Assert(err, qt.IsNil)
	r0 := root(c, tree)
	c.Assert(r0.Equal(&d0), qt.IsTrue)

	_, err = tree.DefaultHash(3)
	c.Assert(err, qt.IsNotNil)

	tree, err = NewDefault()
	c.Assert(err, qt.IsNil)
	c.Assert(tree.Depth(), qt.Equals, DefaultDepth)
	c.Assert(tree.Hasher().Type(), qt.Equals, poseidon.Type)
}

func TestInvalidDepth(t *testing.T) {
	c := qt.New(t)

	for _, depth := range []int{0, -1, field.Capacity + 1} {
		_, err := New(depth)
		c.Assert(errors.Is(err, ErrInvalidDepth), qt.IsTrue, qt.Commentf("depth %d", depth))
	}
	_, err := New(field.Capacity)
	c.Assert(err, qt.IsNil)
}

func TestDefaultHashes(t *testing.T) {
	c := qt.New(t)

	tree := newTestTree(c, 3)
	d3, err := tree.DefaultHash(3)
	c.Assert(err, qt.IsNil)
	c.Assert(d3.IsZero(), qt.IsTrue)
	for level := 2; level >= 0; level-- {
		below, err := tree.DefaultHash(level + 1)
		c.Assert(err, qt.IsNil)
		expected, err := poseidon.Sum(below, below)
		c.Assert(err, qt.IsNil)
		got, err := tree.DefaultHash(level)
		c.Assert(err, qt.IsNil)
		c.Assert(got.Equal(&expected), qt.IsTrue, qt.Commentf("level %d", level))
	}
}

func TestInsertAndGet(t *testing.T) {
	c := qt.New(t)

	tree := newTestTree(c, 2)
	path, err := tree.MerklePath([]bool{true, false})
	c.Assert(err, qt.IsNil)
	c.Assert(tree.Insert(path, fe(123)), qt.IsNil)

	got, err := tree.Get(path)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Equal(new(fr.Element).SetUint64(123)), qt.IsTrue)

	empty, err := tree.IsEmpty()
	c.Assert(err, qt.IsNil)
	c.Assert(empty, qt.IsFalse)
	// root, one inner node and the leaf
	c.Assert(tree.Len(), qt.Equals, 3)

	// overwriting reuses the nodes
	c.Assert(tree.Insert(path, fe(124)), qt.IsNil)
	c.Assert(tree.Len(), qt.Equals, 3)
	got, err = tree.Get(path)
	c.Assert(err, qt.IsNil)
	c.Assert(got.Equal(new(fr.Element).SetUint64(124)), qt.IsTrue)
}

func TestInsertHash(t *testing.T) {
	c := qt.New(t)

	tree := newTestTree(c, 2)
	path, err := tree.MerklePath([]bool{true, false})
	c.Assert(err, qt.IsNil)
	c.Assert(tree.Insert(path, fe(100)), qt.IsNil)

	// the leaf is the left child of its parent, its sibling is empty
	parent, err := tree.NodeHash(path, 1)
	c.Assert(err, qt.IsNil)
	expected, err := poseidon.Sum(fe(100), fe(0))
	c.Assert(err, qt.IsNil)
	c.Assert(parent.Equal(&expected), qt.IsTrue)

	// the parent is the right child of the root
	d1, err := tree.DefaultHash(1)
	c.Assert(err, qt.IsNil)
	expectedRoot, err := poseidon.Sum(d1, expected)
	c.Assert(err, qt.IsNil)
	r := root(c, tree)
	c.Assert(r.Equal(&expectedRoot), qt.IsTrue)

	leaf, err := tree.NodeHash(path, 2)
	c.Assert(err, qt.IsNil)
	c.Assert(leaf.Equal(new(fr.Element).SetUint64(100)), qt.IsTrue)

	// absent node on another route
	other, err := tree.MerklePath([]bool{false, true})
	c.Assert(err, qt.IsNil)
	absent, err := tree.NodeHash(other, 1)
	c.Assert(err, qt.IsNil)
	c.Assert(absent.Equal(&d1), qt.IsTrue)
}

func TestCacheInvalidation(t *testing.T) {
	c := qt.New(t)

	tree := newTestTree(c, 4)
	c.Assert(tree.Insert(fe(1), fe(10)), qt.IsNil)
	first := root(c, tree)
	// reading twice does not change anything
	again := root(c, tree)
	c.Assert(again.Equal(&first), qt.IsTrue)

	// a mutation deep in the tree must reach the root
	c.Assert(tree.Insert(fe(1), fe(11)), qt.IsNil)
	second := root(c, tree)
	c.Assert(second.Equal(&first), qt.IsFalse)

	// and a tree built from scratch agrees with the cached one
	fresh := newTestTree(c, 4)
	c.Assert(fresh.Insert(fe(1), fe(11)), qt.IsNil)
	freshRoot := root(c, fresh)
	c.Assert(freshRoot.Equal(&second), qt.IsTrue)
}

func TestDeterminism(t *testing.T) {
	c := qt.New(t)

	for i := 0; i < 10; i++ {
		path := testutil.RandomPath(16)
		value := testutil.RandomElement()
		a, b := newTestTree(c, 16), newTestTree(c, 16)
		c.Assert(a.Insert(path, value), qt.IsNil)
		c.Assert(b.Insert(path, value), qt.IsNil)
		ra, rb := root(c, a), root(c, b)
		c.Assert(ra.Equal(&rb), qt.IsTrue)
	}
}

func TestInsertionOrderIndependence(t *testing.T) {
	c := qt.New(t)

	paths := []fr.Element{fe(0), fe(7), fe(3), fe(12), fe(5)}
	a, b := newTestTree(c, 4), newTestTree(c, 4)
	for i := range paths {
		c.Assert(a.Insert(paths[i], fe(uint64(i+1))), qt.IsNil)
	}
	for i := len(paths) - 1; i >= 0; i-- {
		c.Assert(b.Insert(paths[i], fe(uint64(i+1))), qt.IsNil)
	}
	ra, rb := root(c, a), root(c, b)
	c.Assert(ra.Equal(&rb), qt.IsTrue)
}

func TestRoundTrip(t *testing.T) {
	c := qt.New(t)

	tree := newTestTree(c, 32)
	values := map[fr.Element]fr.Element{}
	for i := 0; i < 50; i++ {
		path := testutil.RandomPath(32)
		value := testutil.RandomElement()
		c.Assert(tree.Insert(path, value), qt.IsNil)
		values[path] = value
	}
	for path, value := range values {
		got, err := tree.Get(path)
		c.Assert(err, qt.IsNil)
		c.Assert(got.Equal(&value), qt.IsTrue)
	}
}

func TestGetAbsent(t *testing.T) {
	c := qt.New(t)

	tree := newTestTree(c, 3)
	got, err := tree.Get(fe(6))
	c.Assert(err, qt.IsNil)
	c.Assert(got.IsZero(), qt.IsTrue)
}

func TestPathOutOfRange(t *testing.T) {
	c := qt.New(t)

	tree := newTestTree(c, 3)
	// 8 needs 4 bits
	err := tree.Insert(fe(8), fe(1))
	c.Assert(errors.Is(err, ErrPathOutOfRange), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, ".*8 needs 4 bits, tree depth is 3")

	_, err = tree.Get(fe(8))
	c.Assert(errors.Is(err, ErrPathOutOfRange), qt.IsTrue)
	err = tree.Delete(fe(8))
	c.Assert(errors.Is(err, ErrPathOutOfRange), qt.IsTrue)
	_, err = tree.GenerateProof(fe(8))
	c.Assert(errors.Is(err, ErrPathOutOfRange), qt.IsTrue)

	// 7 is the last valid path
	c.Assert(tree.Insert(fe(7), fe(1)), qt.IsNil)
}

func TestMerklePath(t *testing.T) {
	c := qt.New(t)

	tree := newTestTree(c, 2)
	bits := []bool{true, false}
	path, err := tree.MerklePath(bits)
	c.Assert(err, qt.IsNil)
	c.Assert(PathBit(path, 0), qt.Equals, bits[0])
	c.Assert(PathBit(path, 1), qt.Equals, bits[1])
	c.Assert(path.Equal(new(fr.Element).SetUint64(1)), qt.IsTrue)

	_, err = tree.MerklePath([]bool{true})
	c.Assert(errors.Is(err, ErrPathLengthMismatch), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, ".*got 1 bits, expected 2")
}

func TestMerklePathOverModulus(t *testing.T) {
	c := qt.New(t)

	tree := newTestTree(c, field.Capacity)
	bits := make([]bool, field.Capacity)
	for i := range bits {
		bits[i] = true
	}
	// 2^254 - 1 is bigger than the BN254 scalar modulus
	_, err := tree.MerklePath(bits)
	c.Assert(errors.Is(err, ErrPathOutOfRange), qt.IsTrue)
	c.Assert(errors.Is(err, ErrPathLengthMismatch), qt.IsFalse)

	// the highest bit alone still fits
	bits = make([]bool, field.Capacity)
	bits[field.Capacity-1] = true
	path, err := tree.MerklePath(bits)
	c.Assert(err, qt.IsNil)
	c.Assert(field.BitLen(path), qt.Equals, field.Capacity)
}

func TestDelete(t *testing.T) {
	c := qt.New(t)

	tree := newTestTree(c, 2)
	path, err := tree.MerklePath([]bool{true, false})
	c.Assert(err, qt.IsNil)
	c.Assert(tree.Insert(path, fe(123)), qt.IsNil)
	c.Assert(tree.Delete(path), qt.IsNil)

	got, err := tree.Get(path)
	c.Assert(err, qt.IsNil)
	c.Assert(got.IsZero(), qt.IsTrue)
	// nodes are not pruned
	c.Assert(tree.Len(), qt.Equals, 3)
}

func TestDeleteNotFound(t *testing.T) {
	c := qt.New(t)

	tree := newTestTree(c, 3)
	err := tree.Delete(fe(5))
	c.Assert(errors.Is(err, ErrPathNotFound), qt.IsTrue)

	// sharing the first levels is not enough
	c.Assert(tree.Insert(fe(1), fe(1)), qt.IsNil)
	err = tree.Delete(fe(5))
	c.Assert(errors.Is(err, ErrPathNotFound), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, ".*missing node at level 3")
}

func TestDeleteLastLeafOfSubtree(t *testing.T) {
	c := qt.New(t)

	tree := newTestTree(c, 8)
	emptyRoot := root(c, tree)
	c.Assert(tree.Insert(fe(42), fe(9)), qt.IsNil)
	c.Assert(tree.Delete(fe(42)), qt.IsNil)

	r := root(c, tree)
	c.Assert(r.Equal(&emptyRoot), qt.IsTrue)
	empty, err := tree.IsEmpty()
	c.Assert(err, qt.IsNil)
	c.Assert(empty, qt.IsTrue)
}

func TestDeleteWithSiblingStillSet(t *testing.T) {
	c := qt.New(t)

	// 42 and 43 only differ in the first bit: their routes split at the root
	// 42 and 170 only differ in the last bit: they share the parent leaf
	for _, other := range []uint64{43, 170} {
		tree := newTestTree(c, 8)
		c.Assert(tree.Insert(fe(42), fe(9)), qt.IsNil)
		c.Assert(tree.Insert(fe(other), fe(10)), qt.IsNil)
		c.Assert(tree.Delete(fe(42)), qt.IsNil)

		expected := newTestTree(c, 8)
		c.Assert(expected.Insert(fe(other), fe(10)), qt.IsNil)

		r, er := root(c, tree), root(c, expected)
		c.Assert(r.Equal(&er), qt.IsTrue)
		empty, err := tree.IsEmpty()
		c.Assert(err, qt.IsNil)
		c.Assert(empty, qt.IsFalse)

		got, err := tree.Get(fe(other))
		c.Assert(err, qt.IsNil)
		c.Assert(got.Equal(new(fr.Element).SetUint64(10)), qt.IsTrue)
	}
}

func TestClear(t *testing.T) {
	c := qt.New(t)

	tree := newTestTree(c, 2)
	c.Assert(tree.Insert(fe(1), fe(123)), qt.IsNil)
	tree.Clear()
	empty, err := tree.IsEmpty()
	c.Assert(err, qt.IsNil)
	c.Assert(empty, qt.IsTrue)
	c.Assert(tree.Len(), qt.Equals, 1)
	got, err := tree.Get(fe(1))
	c.Assert(err, qt.IsNil)
	c.Assert(got.IsZero(), qt.IsTrue)
}

func TestConcreteScenario(t *testing.T) {
	c := qt.New(t)

	tree := newTestTree(c, 3)
	// 3 is [1,1,0] and 5 is [1,0,1] in little endian
	c.Assert(tree.Insert(fe(3), fe(100)), qt.IsNil)
	c.Assert(tree.Insert(fe(5), fe(200)), qt.IsNil)

	for path, value := range map[uint64]uint64{3: 100, 5: 200, 0: 0} {
		got, err := tree.Get(fe(path))
		c.Assert(err, qt.IsNil)
		c.Assert(got.Equal(new(fr.Element).SetUint64(value)), qt.IsTrue, qt.Commentf("path %d", path))
	}

	proof, err := tree.GenerateProof(fe(3))
	c.Assert(err, qt.IsNil)
	ok, err := proof.Verify(tree.Hasher())
	c.Assert(err, qt.IsNil)
	c.Assert(ok, qt.IsTrue)

	before := root(c, tree)
	c.Assert(tree.Delete(fe(3)), qt.IsNil)
	got, err := tree.Get(fe(3))
	c.Assert(err, qt.IsNil)
	c.Assert(got.IsZero(), qt.IsTrue)
	after := root(c, tree)
	c.Assert(after.Equal(&before), qt.IsFalse)
	got, err = tree.Get(fe(5))
	c.Assert(err, qt.IsNil)
	c.Assert(got.Equal(new(fr.Element).SetUint64(200)), qt.IsTrue)
}

func TestWithHasher(t *testing.T) {
	c := qt.New(t)

	a := newTestTree(c, 4)
	b := newTestTree(c, 4, WithHasher(poseidon2.Hasher{}))
	c.Assert(b.Hasher().Type(), qt.Equals, poseidon2.Type)
	c.Assert(a.Insert(fe(3), fe(1)), qt.IsNil)
	c.Assert(b.Insert(fe(3), fe(1)), qt.IsNil)
	ra, rb := root(c, a), root(c, b)
	c.Assert(ra.Equal(&rb), qt.IsFalse)

	// a nil hasher keeps the default one
	d := newTestTree(c, 4, WithHasher(nil))
	c.Assert(d.Hasher().Type(), qt.Equals, poseidon.Type)
}

type failingHasher struct{ after int }

func (*failingHasher) Type() string { return "failing" }

func (h *failingHasher) Compress(l, r fr.Element) (fr.Element, error) {
	if h.after == 0 {
		return fr.Element{}, errors.New("boom")
	}
	h.after--
	return poseidon.Sum(l, r)
}

func TestHashComputationError(t *testing.T) {
	c := qt.New(t)

	_, err := New(3, WithHasher(&failingHasher{after: 1}))
	c.Assert(errors.Is(err, ErrHashComputation), qt.IsTrue)
	c.Assert(err, qt.ErrorMatches, ".*failing: boom")

	h := &failingHasher{after: 3}
	tree := newTestTree(c, 3, WithHasher(h))
	c.Assert(tree.Insert(fe(1), fe(1)), qt.IsNil)
	_, err = tree.Root()
	c.Assert(errors.Is(err, ErrHashComputation), qt.IsTrue)
	_, err = tree.IsEmpty()
	c.Assert(errors.Is(err, ErrHashComputation), qt.IsTrue)
	_, err = tree.GenerateProof(fe(1))
	c.Assert(errors.Is(err, ErrHashComputation), qt.IsTrue)
}
