package smt

import "github.com/vocdoni/poseidon-smt/hash"

// DefaultDepth is the depth used by NewDefault.
const DefaultDepth = 20

// Option configures a Tree.
type Option func(*Tree)

// WithHasher sets the compression function of the tree. By default trees use
// hash.Default().
func WithHasher(h hash.Hasher) Option {
	return func(t *Tree) {
		if h != nil {
			t.hasher = h
		}
	}
}

// WithProofCache keeps up to size generated proofs in memory until the next
// mutation of the tree. A size lower than one disables the cache.
func WithProofCache(size int) Option {
	return func(t *Tree) {
		t.proofCacheSize = size
	}
}

// WithMetrics enables or disables the prometheus instrumentation of the
// tree. It is enabled by default.
func WithMetrics(enabled bool) Option {
	return func(t *Tree) {
		t.metrics = enabled
	}
}
