package poseidon

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/mdehoog/poseidon/circuits/poseidon"
)

// MaxInputs is the maximum number of inputs the circom Poseidon accepts.
const MaxInputs = 16

// Hash returns the circom Poseidon hash of the provided inputs inside a
// circuit. It is the in-circuit counterpart of Sum.
func Hash(api frontend.API, inputs ...frontend.Variable) (frontend.Variable, error) {
	if n := len(inputs); n == 0 || n > MaxInputs {
		return 0, fmt.Errorf("poseidon: need between 1 and %d inputs, got %d", MaxInputs, n)
	}
	return poseidon.Hash(api, inputs), nil
}
