// Package utils holds the in-circuit counterparts of the native tree hashers.
package utils

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/poseidon-smt/hash"
	"github.com/vocdoni/poseidon-smt/hash/bn254/mimc"
	"github.com/vocdoni/poseidon-smt/hash/bn254/poseidon"
	"github.com/vocdoni/poseidon-smt/hash/bn254/poseidon2"
)

// Hasher is a hash function over circuit variables. The tree verifiers only
// call it with two inputs, left and right.
type Hasher func(frontend.API, ...frontend.Variable) (frontend.Variable, error)

// PoseidonHasher hashes the data provided using the circom Poseidon, it
// matches the default native tree hasher.
func PoseidonHasher(api frontend.API, data ...frontend.Variable) (frontend.Variable, error) {
	return poseidon.Hash(api, data...)
}

// MiMCHasher hashes the data provided using the gnark MiMC of the current
// compiler field. Over BN254 it matches the native mimc tree hasher.
func MiMCHasher(api frontend.API, data ...frontend.Variable) (frontend.Variable, error) {
	return mimc.Hash(api, data...)
}

// Poseidon2Hasher hashes the data provided with the width 2 Poseidon2
// sponge in Merkle-Damgard mode. The inputs are absorbed in order, so
// H(a, b) and H(b, a) differ.
func Poseidon2Hasher(api frontend.API, data ...frontend.Variable) (frontend.Variable, error) {
	return poseidon2.Hash(api, data...)
}

// HasherFor returns the in-circuit hasher matching the native hasher type
// provided. Only the hashers with a gadget are supported.
func HasherFor(hasherType string) (Hasher, error) {
	switch hasherType {
	case poseidon.Type, "arbo-poseidon":
		return PoseidonHasher, nil
	case poseidon2.Type:
		return Poseidon2Hasher, nil
	case mimc.Type:
		return MiMCHasher, nil
	default:
		return nil, fmt.Errorf("%w: no circuit hasher for %q", hash.ErrUnknownHasher, hasherType)
	}
}
