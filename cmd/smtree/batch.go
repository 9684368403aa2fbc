package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/vocdoni/poseidon-smt/field"
	"github.com/vocdoni/poseidon-smt/smt"
	"go.vocdoni.io/dvote/log"
	"gopkg.in/yaml.v3"
)

const (
	opInsert = "insert"
	opDelete = "delete"
)

// ErrUnknownOp is returned when a batch holds an operation other than
// insert or delete.
var ErrUnknownOp = errors.New("unknown operation")

// Op is a single tree mutation. Path and Value are decimal or 0x prefixed
// hexadecimal numbers; Value is ignored by deletions.
type Op struct {
	Op    string `yaml:"op"`
	Path  string `yaml:"path"`
	Value string `yaml:"value,omitempty"`
}

// Batch is a list of mutations applied in order.
type Batch struct {
	Ops []Op `yaml:"ops"`
}

// LoadBatch decodes a YAML batch.
//
//	ops:
//	  - {op: insert, path: "5", value: "100"}
//	  - {op: delete, path: "0x5"}
func LoadBatch(r io.Reader) (*Batch, error) {
	b := &Batch{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(b); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("cannot decode batch: %w", err)
	}
	return b, nil
}

// Apply runs the operations of the batch on t, stopping at the first error.
func (b *Batch) Apply(t *smt.Tree) error {
	for i, op := range b.Ops {
		if err := op.apply(t); err != nil {
			log.Warnw("batch operation rejected", "index", i, "op", op.Op, "path", op.Path, "error", err.Error())
			return fmt.Errorf("op %d (%s %s): %w", i, op.Op, op.Path, err)
		}
	}
	log.Debugw("batch applied", "ops", len(b.Ops))
	return nil
}

func (op Op) apply(t *smt.Tree) error {
	path, err := field.FromString(op.Path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}
	switch op.Op {
	case opInsert:
		value, err := field.FromString(op.Value)
		if err != nil {
			return fmt.Errorf("invalid value: %w", err)
		}
		return t.Insert(path, value)
	case opDelete:
		return t.Delete(path)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOp, op.Op)
	}
}
