// Package lshindex implements the random-hyperplane LSH index of spec
// §4.5: T parallel hash tables over H-bit keys, turning an O(N) library
// scan into an O(log N)-expected candidate lookup.
package lshindex

import "errors"

// ErrDimensionMismatch is returned when a vector's length does not
// match the index's fixed dimension D.
var ErrDimensionMismatch = errors.New("lshindex: vector dimension does not match index dimension")
