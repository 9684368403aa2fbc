// Package poseidon2 implements a width-2 Poseidon2 Merkle-Damgard hash over
// the BN254 scalar field, natively and as a gnark gadget.
//
// Unlike census trees that sort the inputs of internal nodes, the hash keeps
// the order of its inputs: the sparse tree relies on H(a, b) != H(b, a) to
// bind the path of every leaf to the root.
package poseidon2

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/poseidon2"
)

// Type identifies the Poseidon2-BN254 hash.
const Type = "poseidon2"

// Permutation parameters, shared by the native and the gadget versions.
const (
	width           = 2
	nbFullRounds    = 6
	nbPartialRounds = 50
)

var perm = poseidon2.NewPermutation(width, nbFullRounds, nbPartialRounds)

// Hasher is the native Go Poseidon2 two-to-one compression.
type Hasher struct{}

// Type implements hash.Hasher.
func (Hasher) Type() string { return Type }

// Compress implements hash.Hasher.
func (Hasher) Compress(left, right fr.Element) (fr.Element, error) {
	return Sum(left, right)
}

// Sum absorbs the inputs one by one with the width-2 permutation:
//
//	CV₀ = 0, CVᵢ₊₁ = P(CVᵢ, mᵢ)[1] + mᵢ
func Sum(inputs ...fr.Element) (fr.Element, error) {
	if len(inputs) == 0 {
		return fr.Element{}, fmt.Errorf("poseidon2: no inputs")
	}
	var cv fr.Element
	for i := range inputs {
		m := inputs[i]
		st := [width]fr.Element{cv, m}
		if err := perm.Permutation(st[:]); err != nil {
			return fr.Element{}, fmt.Errorf("poseidon2: %w", err)
		}
		cv.Add(&st[1], &m)
	}
	return cv, nil
}
