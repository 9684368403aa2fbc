// Package circuit verifies sparse Merkle tree proofs inside gnark circuits.
// The circuit field must be the one of the tree, BN254 for the hashers
// shipped with this module.
package circuit

import (
	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/poseidon-smt/utils"
)

// switcher returns (l, r) when sel is 0 and (r, l) when sel is 1.
func switcher(api frontend.API, sel, l, r frontend.Variable) (frontend.Variable, frontend.Variable) {
	aux := api.Mul(api.Sub(r, l), sel)
	return api.Add(aux, l), api.Sub(r, aux)
}

// levelHash returns the hash of the parent of current at a level: the
// sibling goes to the right when the path bit is 0 and to the left when it
// is 1.
func levelHash(api frontend.API, hFn utils.Hasher, bit, current, sibling frontend.Variable) (frontend.Variable, error) {
	l, r := switcher(api, bit, current, sibling)
	return hFn(api, l, r)
}

// Root recomputes the root of the tree from the value of a leaf, its path
// and the siblings of its route, indexed from the root level down. The path
// is decomposed in len(siblings) little-endian bits, so it must fit in them.
func Root(api frontend.API, hFn utils.Hasher, value, path frontend.Variable, siblings []frontend.Variable) (frontend.Variable, error) {
	bits := api.ToBinary(path, len(siblings))
	current := value
	for level := len(siblings) - 1; level >= 0; level-- {
		var err error
		if current, err = levelHash(api, hFn, bits[level], current, siblings[level]); err != nil {
			return 0, err
		}
	}
	return current, nil
}

// CheckProofFlag returns 1 if the root recomputed from the proof equals the
// provided root, and 0 otherwise.
func CheckProofFlag(api frontend.API, hFn utils.Hasher, root, value, path frontend.Variable,
	siblings []frontend.Variable,
) frontend.Variable {
	computed, err := Root(api, hFn, value, path, siblings)
	if err != nil {
		// in-circuit error handling: signal failure by returning 0
		api.Println("failed to compute the proof root: " + err.Error())
		return 0
	}
	return api.IsZero(api.Sub(computed, root))
}

// CheckProof asserts that the proof is valid for the provided root.
func CheckProof(api frontend.API, hFn utils.Hasher, root, value, path frontend.Variable,
	siblings []frontend.Variable,
) error {
	computed, err := Root(api, hFn, value, path, siblings)
	if err != nil {
		return err
	}
	api.AssertIsEqual(computed, root)
	return nil
}

// CheckProofIfEnabled asserts the proof only when enabled is 1, so that a
// circuit with a fixed number of proofs can leave some of them unused.
func CheckProofIfEnabled(api frontend.API, hFn utils.Hasher, enabled, root, value, path frontend.Variable,
	siblings []frontend.Variable,
) error {
	computed, err := Root(api, hFn, value, path, siblings)
	if err != nil {
		return err
	}
	equal := api.IsZero(api.Sub(computed, root))
	api.AssertIsEqual(api.Mul(api.Sub(1, equal), enabled), 0)
	return nil
}
