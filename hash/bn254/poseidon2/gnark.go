package poseidon2

import (
	"fmt"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/permutation/poseidon2"
)

// Hash is the in-circuit counterpart of Sum.
func Hash(api frontend.API, inputs ...frontend.Variable) (frontend.Variable, error) {
	if len(inputs) == 0 {
		return 0, fmt.Errorf("poseidon2: no inputs")
	}
	p, err := poseidon2.NewPoseidon2FromParameters(api, width, nbFullRounds, nbPartialRounds)
	if err != nil {
		return 0, err
	}
	cv := frontend.Variable(0)
	for _, m := range inputs {
		state := []frontend.Variable{cv, m}
		if err := p.Permutation(state); err != nil {
			return 0, err
		}
		cv = api.Add(state[1], m)
	}
	return cv, nil
}
