package smt

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/vocdoni/poseidon-smt/field"
	"github.com/vocdoni/poseidon-smt/hash"
	"go.vocdoni.io/dvote/log"
)

// Proof attests that a leaf holds Value in the tree with root Root. It is
// self contained: verifying it only needs the hasher the tree was built
// with. A proof of a zero value for a path never inserted is an exclusion
// proof.
type Proof struct {
	Root  fr.Element
	Value fr.Element
	// Siblings holds the hash of the sibling of the route at every level,
	// index 0 being the sibling of the root's child and len-1 the sibling
	// of the leaf.
	Siblings []fr.Element
	// PathBits holds the direction taken at every level, with the same
	// indexes as Siblings.
	PathBits []bool
}

// GenerateProof returns the proof of the leaf at path, collecting the hash
// of the sibling subtree (or the default hash of its level when absent) at
// every level of the route.
func (t *Tree) GenerateProof(path fr.Element) (*Proof, error) {
	bits, err := t.pathBits(path)
	if err != nil {
		return nil, err
	}
	if t.proofs != nil {
		if p, ok := t.proofs.Get(path); ok {
			t.observeProofCacheHit()
			t.observeOp("proof")
			log.Debugw("smt proof served from cache", "path", path.String(), "root", p.Root.String())
			return p.clone(), nil
		}
	}
	root, err := t.Root()
	if err != nil {
		return nil, err
	}
	p := &Proof{
		Root:     root,
		Siblings: make([]fr.Element, t.depth),
		PathBits: bits,
	}
	idx := rootIndex
	for level := 0; level < t.depth; level++ {
		if idx == nilNode {
			p.Siblings[level] = t.defaults[level+1]
			continue
		}
		n := &t.nodes[idx]
		if p.Siblings[level], err = t.childHash(n.sibling(bits[level]), level+1); err != nil {
			return nil, err
		}
		idx = t.nodes[idx].child(bits[level])
	}
	if idx != nilNode {
		p.Value = t.nodes[idx].value
	}
	if t.proofs != nil {
		t.proofs.Add(path, p.clone())
	}
	t.observeOp("proof")
	log.Debugw("smt proof generated", "path", path.String(), "root", root.String())
	return p, nil
}

// Depth returns the number of levels covered by the proof.
func (p *Proof) Depth() int {
	return len(p.PathBits)
}

// Path composes the path of the proven leaf from its bits. It fails with
// ErrPathOutOfRange if they do not fit in the field.
func (p *Proof) Path() (fr.Element, error) {
	path, err := field.FromBitsLE(p.PathBits)
	if err != nil {
		return fr.Element{}, fmt.Errorf("%w: %w", ErrPathOutOfRange, err)
	}
	return path, nil
}

// Verify recomputes the root from the leaf value and the siblings, from the
// leaf level up, and compares it with the root of the proof. The sibling is
// the right input of the hash when the path bit is 0 and the left one when
// it is 1. It fails with ErrSiblingCountMismatch if the proof is malformed.
func (p *Proof) Verify(h hash.Hasher) (bool, error) {
	return p.VerifyDepth(h, len(p.PathBits))
}

// VerifyDepth works as Verify but also checks that the proof covers
// exactly depth levels.
func (p *Proof) VerifyDepth(h hash.Hasher, depth int) (bool, error) {
	if depth < 1 || len(p.Siblings) != depth || len(p.PathBits) != depth {
		return false, fmt.Errorf("%w: %d siblings and %d path bits, expected %d",
			ErrSiblingCountMismatch, len(p.Siblings), len(p.PathBits), depth)
	}
	current := p.Value
	for level := depth - 1; level >= 0; level-- {
		left, right := current, p.Siblings[level]
		if p.PathBits[level] {
			left, right = right, left
		}
		next, err := h.Compress(left, right)
		if err != nil {
			return false, fmt.Errorf("%w: %s: %w", ErrHashComputation, h.Type(), err)
		}
		current = next
	}
	return current.Equal(&p.Root), nil
}

func (p *Proof) clone() *Proof {
	c := *p
	c.Siblings = append([]fr.Element(nil), p.Siblings...)
	c.PathBits = append([]bool(nil), p.PathBits...)
	return &c
}

// proofJSON is the wire format of a proof: every element as a 0x prefixed
// hex quantity, the bits packed into the path.
type proofJSON struct {
	Root     *hexutil.Big   `json:"root"`
	Value    *hexutil.Big   `json:"value"`
	Path     *hexutil.Big   `json:"path"`
	Siblings []*hexutil.Big `json:"siblings"`
}

// MarshalJSON implements json.Marshaler.
func (p *Proof) MarshalJSON() ([]byte, error) {
	path, err := p.Path()
	if err != nil {
		return nil, err
	}
	siblings := make([]*hexutil.Big, len(p.Siblings))
	for i := range p.Siblings {
		siblings[i] = (*hexutil.Big)(field.BigInt(p.Siblings[i]))
	}
	return json.Marshal(proofJSON{
		Root:     (*hexutil.Big)(field.BigInt(p.Root)),
		Value:    (*hexutil.Big)(field.BigInt(p.Value)),
		Path:     (*hexutil.Big)(field.BigInt(path)),
		Siblings: siblings,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The depth of the proof is the
// number of siblings.
func (p *Proof) UnmarshalJSON(data []byte) error {
	var obj proofJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.Root == nil || obj.Value == nil || obj.Path == nil {
		return fmt.Errorf("incomplete proof: root, value and path are required")
	}
	root, err := toElement("root", obj.Root)
	if err != nil {
		return err
	}
	value, err := toElement("value", obj.Value)
	if err != nil {
		return err
	}
	path, err := toElement("path", obj.Path)
	if err != nil {
		return err
	}
	depth := len(obj.Siblings)
	if n := field.BitLen(path); n > depth {
		return fmt.Errorf("%w: path needs %d bits, proof has %d siblings", ErrPathOutOfRange, n, depth)
	}
	siblings := make([]fr.Element, depth)
	for i, s := range obj.Siblings {
		if siblings[i], err = toElement(fmt.Sprintf("sibling %d", i), s); err != nil {
			return err
		}
	}
	*p = Proof{
		Root:     root,
		Value:    value,
		Siblings: siblings,
		PathBits: field.BitsLE(path, depth),
	}
	return nil
}

func toElement(name string, v *hexutil.Big) (fr.Element, error) {
	if v == nil {
		return fr.Element{}, fmt.Errorf("missing %s", name)
	}
	bi := (*big.Int)(v)
	if bi.Sign() < 0 || bi.Cmp(field.Modulus()) >= 0 {
		return fr.Element{}, fmt.Errorf("%s %s is out of the field range", name, bi)
	}
	return field.FromBigInt(bi), nil
}
