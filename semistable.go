// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package semistable provides a semistable dynamic array: a contiguous
// random-access sequence container whose iterators remain valid across
// insertions, erasures and reallocations.
//
// This is the main public API for the semistable library. Elements are
// stored in a single Go slice, so indexing, growth and bulk shifting behave
// exactly like an ordinary growable array. Iterators, however, are stable:
// an iterator that designated element e before a mutation still designates
// e afterwards, provided e was not itself erased, and past-the-end
// iterators keep designating the past-the-end position.
//
// # Quick Start
//
//	import "github.com/kianostad/semistable"
//
//	v := semistable.Of(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
//	it := v.Begin().Plus(5)
//
//	v.Erase(v.Begin()).Release() // shift every element left
//	value := it.Value()          // still 5
//
// # Key Features
//
//   - Single contiguous buffer with classical growable-array complexity
//   - Iterator stability across insert, erase, resize, reserve, clear,
//     assignment and buffer reallocation
//   - Lazy, idempotent iterator catch-up along a chain of epoch descriptors
//   - Descriptor reuse and fusion keep memory overhead bounded in hot
//     mutation loops with no live iterators
//   - Iterative chain teardown regardless of history length
//   - Range-over-func iteration (All, Values, Backward) and a contiguous
//     raw-slice escape hatch for peak-throughput pointer-style loops
//
// # How It Works
//
// Every mutation that shifts or relocates elements publishes an epoch
// descriptor (buffer, first affected index, signed offset) at the tail of a
// singly-linked chain. Iterators store an index plus a reference to the
// epoch they last observed; before any use they walk the chain suffix
// published since, rewriting their index into current coordinates. With no
// iterators watching, the container recycles descriptors in place or fuses
// adjacent ones, so chain memory does not grow with the number of
// mutations.
//
// # Dangers and Warnings
//
//   - **References are not stable**: Ref, Raw and Data are invalidated by
//     the next mutation. Only iterators are preserved.
//   - **Use after erase is undefined**: an iterator to an erased element
//     must not be dereferenced.
//   - **Iterators are handles**: duplicate with Clone, not by copying the
//     struct value. Release is optional but lets descriptors recycle.
//   - **Held iterators pin history**: a parked iterator keeps alive every
//     descriptor (and buffer) published since it last caught up.
//
// # Thread Safety
//
// Same shape as a plain growable array: distinct vectors are independent;
// concurrent pure observers of one vector are safe; any mutation excludes
// everything else on that vector. Iterator use is never thread-safe, even
// for reads, because catch-up mutates the iterator itself.
//
// # See Also
//
// For implementation details, see the internal/core package. For
// benchmarking, see cmd/bench.
package semistable

import (
	"cmp"
	"iter"

	core "github.com/kianostad/semistable/internal/core"
	"github.com/kianostad/semistable/internal/monitoring/stats"
)

// Re-export core types
type (
	// Vector is a semistable dynamic array of T.
	Vector[T any] = core.Vector[T]

	// Iterator is a stable handle to a position in a Vector.
	Iterator[T any] = core.Iterator[T]

	// ConstIterator is the read-only counterpart of Iterator.
	ConstIterator[T any] = core.ConstIterator[T]

	// Stats is a snapshot of a vector's epoch-chain accounting.
	Stats = stats.Snapshot
)

// ErrOutOfRange is returned by checked element access.
var ErrOutOfRange = core.ErrOutOfRange

// New creates an empty vector.
func New[T any]() *Vector[T] { return core.New[T]() }

// WithLen creates a vector of n zero values.
func WithLen[T any](n int) *Vector[T] { return core.WithLen[T](n) }

// Fill creates a vector of n copies of x.
func Fill[T any](n int, x T) *Vector[T] { return core.Fill(n, x) }

// Of creates a vector holding the given elements.
func Of[T any](xs ...T) *Vector[T] { return core.Of(xs...) }

// FromSlice creates a vector with a copy of s.
func FromSlice[T any](s []T) *Vector[T] { return core.FromSlice(s) }

// FromSeq creates a vector from a sequence.
func FromSeq[T any](seq iter.Seq[T]) *Vector[T] { return core.FromSeq(seq) }

// Equal reports whether x and y hold equal elements in the same order.
func Equal[T comparable](x, y *Vector[T]) bool { return core.Equal(x, y) }

// EqualFunc is Equal with a custom element predicate.
func EqualFunc[T, U any](x *Vector[T], y *Vector[U], eq func(T, U) bool) bool {
	return core.EqualFunc(x, y, eq)
}

// Compare orders x and y lexicographically.
func Compare[T cmp.Ordered](x, y *Vector[T]) int { return core.Compare(x, y) }

// CompareFunc is Compare with a custom element comparison.
func CompareFunc[T, U any](x *Vector[T], y *Vector[U], cmpf func(T, U) int) int {
	return core.CompareFunc(x, y, cmpf)
}

// Swap exchanges the contents of x and y.
func Swap[T any](x, y *Vector[T]) { core.Swap(x, y) }

// EraseIf removes every element satisfying pred and returns how many were
// removed. Iterators to surviving elements remain valid.
func EraseIf[T any](v *Vector[T], pred func(T) bool) int { return core.EraseIf(v, pred) }

// EraseValue removes every element equal to x and returns how many were
// removed.
func EraseValue[T comparable](v *Vector[T], x T) int { return core.EraseValue(v, x) }
