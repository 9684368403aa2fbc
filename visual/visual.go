// Package visual renders the materialized nodes of a sparse Merkle tree as
// text, for debugging small trees.
package visual

import (
	"fmt"
	"io"

	"github.com/vocdoni/poseidon-smt/field"
	"github.com/vocdoni/poseidon-smt/smt"
)

const (
	branch     = "├── "
	lastBranch = "└── "
	pipe       = "│   "
	space      = "    "
)

// renderer writes the lines of a tree, keeping the first write error.
type renderer struct {
	w     io.Writer
	it    *smt.Iterator
	depth int
	err   error
}

func (r *renderer) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

// Render writes t to w, one node per line with its level, starting by the
// root. Absent subtrees are printed as Empty, absent leaves as a zero
// value. Inner nodes show their hash, so the hashes of t are computed
// first.
//
//	Sparse Merkle Tree (depth: 2)
//	=============================
//	└── 0 (Root Node: 12345..67890)
//	    ├── 1 (Empty)
//	    └── 1 (Inner Node: 12345..67890)
//	        ├── 2 (Leaf Value: 100)
//	        └── 2 (Leaf Value: 0)
func Render(w io.Writer, t *smt.Tree) error {
	empty, err := t.IsEmpty()
	if err != nil {
		return err
	}
	r := &renderer{w: w, it: t.Iter(), depth: t.Depth()}
	title := fmt.Sprintf("Sparse Merkle Tree (depth: %d)", t.Depth())
	r.printf("%s\n", title)
	for range len(title) {
		r.printf("=")
	}
	r.printf("\n")
	if empty {
		r.printf("Empty tree\n")
		return r.err
	}
	r.node("", true)
	return r.err
}

// node prints the next node of the iterator and its subtree. The iterator
// returns the nodes depth first and left first, so the subtree of a node
// is always the sequence of nodes that follows it.
func (r *renderer) node(prefix string, last bool) {
	n, ok := r.it.Next()
	if !ok {
		r.err = fmt.Errorf("truncated tree at prefix %q", prefix)
		return
	}
	indent := prefix + branch
	if last {
		indent = prefix + lastBranch
	}
	switch {
	case n.Kind == smt.Leaf:
		r.printf("%s%d (Leaf Value: %s)\n", indent, n.Level, field.Short(n.Value))
		return
	case n.Level == 0:
		r.printf("%s%d (Root Node: %s)\n", indent, n.Level, field.Short(n.Hash))
	default:
		r.printf("%s%d (Inner Node: %s)\n", indent, n.Level, field.Short(n.Hash))
	}

	childPrefix := prefix + pipe
	if last {
		childPrefix = prefix + space
	}
	if n.HasLeft {
		r.node(childPrefix, false)
	} else {
		r.absent(childPrefix+branch, n.Level+1)
	}
	if n.HasRight {
		r.node(childPrefix, true)
	} else {
		r.absent(childPrefix+lastBranch, n.Level+1)
	}
}

func (r *renderer) absent(indent string, level int) {
	if level == r.depth {
		r.printf("%s%d (Leaf Value: 0)\n", indent, level)
		return
	}
	r.printf("%s%d (Empty)\n", indent, level)
}
