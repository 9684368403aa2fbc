package smt

import "errors"

var (
	// ErrInvalidDepth is returned when a tree is created with a depth of zero
	// or bigger than the field capacity.
	ErrInvalidDepth = errors.New("invalid tree depth")
	// ErrPathLengthMismatch is returned when the number of bits provided to
	// build a path differs from the depth of the tree.
	ErrPathLengthMismatch = errors.New("path length mismatch")
	// ErrPathOutOfRange is returned when a path has bits set beyond the depth
	// of the tree.
	ErrPathOutOfRange = errors.New("path out of range")
	// ErrPathNotFound is returned when an operation requires a leaf that was
	// never inserted.
	ErrPathNotFound = errors.New("path not found")
	// ErrSiblingCountMismatch is returned when the siblings and the path bits
	// of a proof do not match the expected depth.
	ErrSiblingCountMismatch = errors.New("sibling count mismatch")
	// ErrHashComputation wraps any error returned by the hasher.
	ErrHashComputation = errors.New("hash computation failed")
)
