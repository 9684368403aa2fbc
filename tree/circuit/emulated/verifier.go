// Package emulated verifies Poseidon sparse Merkle tree proofs of the BN254
// scalar field inside circuits defined over another field, using emulated
// arithmetic.
package emulated

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/math/emulated"

	poseidon "github.com/mdehoog/poseidon/circuits/poseidon/emulated"
)

// hash2 is the circom Poseidon of two emulated elements.
func hash2[T emulated.FieldParams](field *emulated.Field[T], l, r *emulated.Element[T]) *emulated.Element[T] {
	return poseidon.Hash(field, []*emulated.Element[T]{l, r})
}

// pathBits decomposes path in n little-endian bits and asserts that it does
// not need more.
func pathBits[T emulated.FieldParams](api frontend.API, field *emulated.Field[T], path *emulated.Element[T], n int) []frontend.Variable {
	bits := field.ToBits(path)
	for _, b := range bits[n:] {
		api.AssertIsEqual(b, 0)
	}
	return bits[:n]
}

// Root recomputes the root of a Poseidon tree from the value of a leaf, its
// path and the siblings of its route, indexed from the root level down.
func Root[T emulated.FieldParams](api frontend.API, field *emulated.Field[T], value, path *emulated.Element[T],
	siblings []*emulated.Element[T],
) *emulated.Element[T] {
	bits := pathBits(api, field, path, len(siblings))
	current := value
	for level := len(siblings) - 1; level >= 0; level-- {
		// bit 0 keeps the current hash on the left
		l := field.Select(bits[level], siblings[level], current)
		r := field.Select(bits[level], current, siblings[level])
		current = hash2(field, l, r)
	}
	return current
}

// CheckProofFlag returns 1 if the root recomputed from the proof equals the
// provided root, and 0 otherwise.
func CheckProofFlag[T emulated.FieldParams](api frontend.API, field *emulated.Field[T], root, value, path *emulated.Element[T],
	siblings []*emulated.Element[T],
) frontend.Variable {
	computed := Root(api, field, value, path, siblings)
	return field.IsZero(field.Sub(computed, root))
}

// CheckProof asserts that the proof is valid for the provided root.
func CheckProof[T emulated.FieldParams](api frontend.API, field *emulated.Field[T], root, value, path *emulated.Element[T],
	siblings []*emulated.Element[T],
) {
	field.AssertIsEqual(Root(api, field, value, path, siblings), root)
}
