package smt

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/vocdoni/poseidon-smt/field"
)

// MerklePath composes a path from one bit per level, index 0 being the
// level of the root's children. It fails with ErrPathLengthMismatch if the
// number of bits is not the depth of the tree, and with ErrPathOutOfRange
// if they compose a value that does not fit in the field, which can only
// happen when the depth is field.Capacity.
func (t *Tree) MerklePath(bits []bool) (fr.Element, error) {
	if len(bits) != t.depth {
		return fr.Element{}, fmt.Errorf("%w: got %d bits, expected %d", ErrPathLengthMismatch, len(bits), t.depth)
	}
	path, err := field.FromBitsLE(bits)
	if err != nil {
		return fr.Element{}, fmt.Errorf("%w: %w", ErrPathOutOfRange, err)
	}
	return path, nil
}

// PathBit returns the direction taken by path at position: false for the
// left child, true for the right one.
func PathBit(path fr.Element, position int) bool {
	return field.Bit(path, position)
}

// pathBits decodes path into exactly one bit per level. It fails with
// ErrPathOutOfRange if path has bits set beyond the depth of the tree.
func (t *Tree) pathBits(path fr.Element) ([]bool, error) {
	if n := field.BitLen(path); n > t.depth {
		return nil, fmt.Errorf("%w: %s needs %d bits, tree depth is %d", ErrPathOutOfRange, path.String(), n, t.depth)
	}
	return field.BitsLE(path, t.depth), nil
}
