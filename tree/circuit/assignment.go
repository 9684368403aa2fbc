package circuit

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/vocdoni/poseidon-smt/field"
	"github.com/vocdoni/poseidon-smt/smt"
)

// Assignment holds the witness values of a native proof, ready to be
// assigned to the variables of a circuit.
type Assignment struct {
	Root     *big.Int
	Value    *big.Int
	Path     *big.Int
	Siblings []*big.Int
}

// NewAssignment converts a proof generated by a smt.Tree into witness
// values.
func NewAssignment(p *smt.Proof) (*Assignment, error) {
	if len(p.Siblings) != len(p.PathBits) {
		return nil, fmt.Errorf("%w: %d siblings and %d path bits",
			smt.ErrSiblingCountMismatch, len(p.Siblings), len(p.PathBits))
	}
	path, err := p.Path()
	if err != nil {
		return nil, err
	}
	a := &Assignment{
		Root:     field.BigInt(p.Root),
		Value:    field.BigInt(p.Value),
		Path:     field.BigInt(path),
		Siblings: make([]*big.Int, len(p.Siblings)),
	}
	for i, s := range p.Siblings {
		a.Siblings[i] = field.BigInt(s)
	}
	return a, nil
}

// SiblingVars returns the siblings as circuit variables. It fails unless
// the proof covers exactly n levels, the depth the circuit was compiled for.
func (a *Assignment) SiblingVars(n int) ([]frontend.Variable, error) {
	if len(a.Siblings) != n {
		return nil, fmt.Errorf("%w: proof has %d siblings, circuit expects %d",
			smt.ErrSiblingCountMismatch, len(a.Siblings), n)
	}
	vars := make([]frontend.Variable, n)
	for i, s := range a.Siblings {
		vars[i] = s
	}
	return vars, nil
}
