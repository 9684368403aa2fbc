// Package testutil holds helpers to generate random tree inputs in tests.
package testutil

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/vocdoni/poseidon-smt/field"
	"go.vocdoni.io/dvote/util"
)

// RandomElement returns a random field element.
func RandomElement() fr.Element {
	return field.FromBigInt(new(big.Int).SetBytes(util.RandomBytes(32)))
}

// RandomPath returns a random path valid for a tree of the provided depth.
func RandomPath(depth int) fr.Element {
	v := new(big.Int).SetBytes(util.RandomBytes((depth + 7) / 8))
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(depth)), big.NewInt(1))
	return field.FromBigInt(v.And(v, mask))
}

// Entry is a path and the value inserted at it.
type Entry struct {
	Path  fr.Element
	Value fr.Element
}

// RandomEntries returns n entries with distinct random paths for a tree of
// the provided depth and random non zero values.
func RandomEntries(n, depth int) []Entry {
	seen := make(map[fr.Element]bool, n)
	entries := make([]Entry, 0, n)
	for len(entries) < n {
		path := RandomPath(depth)
		if seen[path] {
			continue
		}
		seen[path] = true
		value := RandomElement()
		if value.IsZero() {
			value.SetOne()
		}
		entries = append(entries, Entry{Path: path, Value: value})
	}
	return entries
}
