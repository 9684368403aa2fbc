// Package mimc provides the MiMC hash of gnark over the BN254 scalar field as
// a two-to-one compression. The native version is compatible with the gnark
// std gadget, see Hash.
package mimc

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark/frontend"
	gmimc "github.com/consensys/gnark/std/hash/mimc"
)

// Type identifies the MiMC-BN254 hash.
const Type = "mimc"

// Hasher is the native MiMC two-to-one compression.
type Hasher struct{}

// Type implements hash.Hasher.
func (Hasher) Type() string { return Type }

// Compress implements hash.Hasher.
func (Hasher) Compress(left, right fr.Element) (fr.Element, error) {
	h := mimc.NewMiMC()
	for _, e := range [...]fr.Element{left, right} {
		b := e.Bytes()
		if _, err := h.Write(b[:]); err != nil {
			return fr.Element{}, fmt.Errorf("mimc: %w", err)
		}
	}
	var out fr.Element
	out.SetBytes(h.Sum(nil))
	return out, nil
}

// Hash returns the MiMC hash of the inputs inside a circuit.
func Hash(api frontend.API, inputs ...frontend.Variable) (frontend.Variable, error) {
	h, err := gmimc.NewMiMC(api)
	if err != nil {
		return 0, err
	}
	h.Write(inputs...)
	return h.Sum(), nil
}
