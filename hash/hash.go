// Package hash defines the two-to-one compression function a sparse tree is
// built with, and a registry of the BN254 implementations shipped with the
// module.
package hash

import (
	"errors"
	"fmt"
	"sort"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/vocdoni/poseidon-smt/hash/arbo"
	"github.com/vocdoni/poseidon-smt/hash/bn254/mimc"
	"github.com/vocdoni/poseidon-smt/hash/bn254/mimc7"
	"github.com/vocdoni/poseidon-smt/hash/bn254/poseidon"
	"github.com/vocdoni/poseidon-smt/hash/bn254/poseidon2"
	dvotearbo "go.vocdoni.io/dvote/tree/arbo"
)

// Hasher compresses two field elements into one. Implementations must be
// deterministic and hold no per-call state, so that a copy of the hasher
// used to build a tree can verify its proofs anywhere.
type Hasher interface {
	// Type returns the name of the hash function.
	Type() string
	// Compress returns H(left, right). The order of the inputs matters.
	Compress(left, right fr.Element) (fr.Element, error)
}

// ErrUnknownHasher is returned by ByName when no hasher is registered under
// the requested name.
var ErrUnknownHasher = errors.New("unknown hasher")

var registry = map[string]Hasher{
	poseidon.Type:   poseidon.Hasher{},
	poseidon2.Type:  poseidon2.Hasher{},
	mimc.Type:       mimc.Hasher{},
	mimc7.Type:      mimc7.Hasher{},
	"arbo-poseidon": arbo.New(dvotearbo.HashFunctionPoseidon),
}

// Default returns the hasher trees are built with when none is configured:
// the circom compatible Poseidon.
func Default() Hasher {
	return poseidon.Hasher{}
}

// ByName returns the registered hasher with the provided name.
func ByName(name string) (Hasher, error) {
	h, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q, available: %v", ErrUnknownHasher, name, Names())
	}
	return h, nil
}

// Names returns the sorted list of registered hasher names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
