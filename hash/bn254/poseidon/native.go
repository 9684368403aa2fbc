// Package poseidon provides the circom compatible Poseidon hash over the
// BN254 scalar field, natively and as a gnark gadget. Both produce the same
// digest for the same inputs, so trees built natively can be verified inside
// a circuit.
package poseidon

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/iden3/go-iden3-crypto/poseidon"
	"github.com/vocdoni/poseidon-smt/field"
)

// Type identifies the circom Poseidon hash.
const Type = "poseidon"

// Hasher is the native Go implementation of the two inputs Poseidon
// compression (t=3), compatible with circomlib.
type Hasher struct{}

// Type implements hash.Hasher.
func (Hasher) Type() string { return Type }

// Compress implements hash.Hasher.
func (Hasher) Compress(left, right fr.Element) (fr.Element, error) {
	return Sum(left, right)
}

// Sum hashes up to 16 field elements with the circom Poseidon.
func Sum(inputs ...fr.Element) (fr.Element, error) {
	bis := make([]*big.Int, len(inputs))
	for i := range inputs {
		bis[i] = field.BigInt(inputs[i])
	}
	h, err := poseidon.Hash(bis)
	if err != nil {
		return fr.Element{}, err
	}
	return field.FromBigInt(h), nil
}
