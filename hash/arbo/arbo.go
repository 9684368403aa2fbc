// Package arbo adapts the hash functions of the arbo merkle tree library to
// the two-to-one compression the sparse tree expects.
package arbo

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/vocdoni/poseidon-smt/field"
	"go.vocdoni.io/dvote/tree/arbo"
)

// Hasher wraps an arbo.HashFunction that takes and returns little-endian
// encoded field elements, like arbo.HashFunctionPoseidon.
type Hasher struct {
	fn arbo.HashFunction
}

// New returns a Hasher backed by fn.
func New(fn arbo.HashFunction) Hasher {
	return Hasher{fn: fn}
}

// Type implements hash.Hasher.
func (h Hasher) Type() string {
	return "arbo-" + string(h.fn.Type())
}

// Compress implements hash.Hasher by encoding both inputs with the length
// of the wrapped hash function and decoding its output back into the field.
func (h Hasher) Compress(left, right fr.Element) (fr.Element, error) {
	n := h.fn.Len()
	out, err := h.fn.Hash(
		arbo.BigIntToBytes(n, field.BigInt(left)),
		arbo.BigIntToBytes(n, field.BigInt(right)),
	)
	if err != nil {
		return fr.Element{}, fmt.Errorf("%s: %w", h.Type(), err)
	}
	v := arbo.BytesToBigInt(out)
	if v.Cmp(field.Modulus()) >= 0 {
		return fr.Element{}, fmt.Errorf("%s: output %s does not fit into the BN254 scalar field", h.Type(), v)
	}
	return field.FromBigInt(v), nil
}
