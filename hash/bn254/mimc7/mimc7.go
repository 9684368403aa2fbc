// Package mimc7 provides the iden3 MiMC7 hash (91 rounds, x^7) over the
// BN254 scalar field as a two-to-one compression. There is no gadget for it
// in this module, trees built with it can only be verified natively.
package mimc7

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/iden3/go-iden3-crypto/mimc7"
	"github.com/vocdoni/poseidon-smt/field"
)

// Type identifies the MiMC7 hash.
const Type = "mimc7"

// Hasher is the native MiMC7 compression with a zero key.
type Hasher struct{}

// Type implements hash.Hasher.
func (Hasher) Type() string { return Type }

// Compress implements hash.Hasher.
func (Hasher) Compress(left, right fr.Element) (fr.Element, error) {
	h, err := mimc7.Hash([]*big.Int{field.BigInt(left), field.BigInt(right)}, nil)
	if err != nil {
		return fr.Element{}, fmt.Errorf("mimc7: %w", err)
	}
	return field.FromBigInt(h), nil
}
