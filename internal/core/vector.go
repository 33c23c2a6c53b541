// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package core implements the semistable vector: a contiguous random-access
// sequence container whose iterators survive insertions, erasures and
// buffer reallocations.
//
// Elements live in a single Go slice, so element access, growth and bulk
// shifting have exactly the asymptotic behavior of an ordinary growable
// array. What differs is iterator lifetime: every mutation that shifts or
// relocates elements publishes an epoch descriptor recording the buffer in
// force, the first affected index and the signed shift. Descriptors form a
// singly-linked chain extended at the tail; outstanding iterators anchor
// somewhere in the chain and catch up lazily on their next use.
//
// # Key Features
//
//   - Iterators remain valid across insert, erase, resize, reserve and
//     reallocation; erased elements excepted
//   - Lazy, idempotent catch-up: an iterator pays once per chain suffix
//   - Descriptor reuse and fusion bound chain memory when no iterator is
//     looking (hot push/pop loops retain at most three descriptors)
//   - Iterative chain teardown: destroying a history of length L never
//     recurses
//   - Old buffers stay reachable through the chain, so a stale iterator
//     reads its original element rather than freed memory
//
// # Usage Examples
//
//	v := core.Of(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
//	it := v.Begin().Plus(5)
//	v.Erase(v.Begin()).Release()
//	_ = it.Value() // still 5: the iterator followed its element
//
// # Dangers and Warnings
//
//   - **Reference instability**: Ref, Raw and Data are invalidated by the
//     next mutation. Only iterators are stable.
//   - **Use after erase**: dereferencing an iterator whose element was
//     erased is undefined; it may panic or read an unrelated element.
//   - **Held iterators pin history**: an iterator that is never used again
//     and never released keeps the chain suffix behind it alive.
//
// # Thread Safety
//
// The contract is the one of a plain growable array. Distinct vectors may
// be used freely from distinct goroutines. Concurrent pure observers of one
// vector (Get, Len, Equal, ...) are safe. Any mutation excludes every other
// operation on the same vector. Iterator use is never safe concurrently,
// not even dereference: catch-up rewrites the iterator and walks links
// whose reclamation is not atomic.
package core

import (
	"cmp"
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"
	"unsafe"

	"github.com/kianostad/semistable/internal/monitoring/stats"
)

// ErrOutOfRange is returned by checked element access.
var ErrOutOfRange = errors.New("semistable: index out of range")

// Vector is a semistable dynamic array of T. The zero value is not ready to
// use; construct with New and friends.
type Vector[T any] struct {
	impl []T
	pe   *epoch[T] // chain tail; its data is always the current buffer
	pe1  *epoch[T] // previous tail, retained for recycling
	pe2  *epoch[T] // two tails back

	counters stats.Counters
}

func newVector[T any](impl []T) *Vector[T] {
	return &Vector[T]{impl: impl, pe: &epoch[T]{data: impl, refs: 1}}
}

// New creates an empty vector.
func New[T any]() *Vector[T] { return newVector[T](nil) }

// WithLen creates a vector of n zero values.
func WithLen[T any](n int) *Vector[T] { return newVector(make([]T, n)) }

// Fill creates a vector of n copies of x.
func Fill[T any](n int, x T) *Vector[T] {
	impl := make([]T, n)
	for i := range impl {
		impl[i] = x
	}
	return newVector(impl)
}

// Of creates a vector holding the given elements.
func Of[T any](xs ...T) *Vector[T] { return newVector(slices.Clone(xs)) }

// FromSlice creates a vector with a copy of s.
func FromSlice[T any](s []T) *Vector[T] { return newVector(slices.Clone(s)) }

// FromSeq creates a vector from a sequence.
func FromSeq[T any](seq iter.Seq[T]) *Vector[T] { return newVector(slices.Collect(seq)) }

// Clone returns a deep copy of v with a fresh, single-descriptor chain.
func (v *Vector[T]) Clone() *Vector[T] { return newVector(slices.Clone(v.impl)) }

// makeEpoch obtains storage for the next tail descriptor, preferring to
// recycle the retained predecessors. pe2 or pe1 can be reinitialized in
// place when the container holds the only reference; failing that, a
// refcount of exactly 2 on both proves no iterator anchors either, and
// fusing pe1 into pe2 frees pe1's storage for the new tail. The returned
// descriptor carries exactly one reference, owned by the caller.
func (v *Vector[T]) makeEpoch() *epoch[T] {
	if e := v.pe2; e != nil && e.refs == 1 {
		// pe2 available for reuse
		v.pe2 = nil
		v.counters.RecordReuse()
		return e
	}
	if e := v.pe1; e != nil && e.refs == 1 {
		// pe2 empty, pe1 available for reuse
		v.pe1 = nil
		v.counters.RecordReuse()
		return e
	}
	if v.pe2 != nil && v.pe2.refs == 2 && v.pe1.refs == 2 && v.pe2.tryFuse(v.pe1) {
		// no iterator at pe2 or pe1 and pe1 was fused into pe2
		e := v.pe1
		v.pe1 = v.pe2
		v.pe2 = nil
		v.counters.RecordFuse()
		return e
	}
	v.counters.RecordAlloc()
	return &epoch[T]{refs: 1}
}

// publish reinitializes e as the descriptor for the mutation just applied
// to impl, links it as the new tail and rotates the retained slots. Called
// only after the storage mutation succeeded, so a panic in the storage
// layer leaves the chain untouched.
func (v *Vector[T]) publish(e *epoch[T], index, offset int) {
	if e.next != nil {
		// recycled descriptor still linked to its old successor
		e.next.release()
		e.next = nil
	}
	e.data = v.impl
	e.index = index
	e.offset = offset
	v.pe.next = e.retain()
	if v.pe2 != nil {
		v.pe2.release()
	}
	v.pe2 = v.pe1
	v.pe1 = v.pe
	v.pe = e
	v.counters.RecordPublish()
}

// CopyFrom replaces v's contents with a copy of x's, like copy assignment.
func (v *Vector[T]) CopyFrom(x *Vector[T]) {
	if v == x {
		return
	}
	n := len(v.impl)
	v.impl = slices.Clone(x.impl)
	v.publish(v.makeEpoch(), n, len(v.impl)-n)
}

// MoveFrom takes over x's storage and epoch chain, like move assignment.
// x is left valid and empty with a fresh chain. Iterators that pointed into
// x keep designating their elements, now reachable through v; iterators
// that pointed into v's old contents stay anchored to the old chain and
// keep reading the old buffer, which the chain keeps alive.
func (v *Vector[T]) MoveFrom(x *Vector[T]) {
	if v == x {
		return
	}
	v.pe.release()
	if v.pe1 != nil {
		v.pe1.release()
	}
	if v.pe2 != nil {
		v.pe2.release()
	}
	v.impl = x.impl
	v.pe, v.pe1, v.pe2 = x.pe, x.pe1, x.pe2
	x.impl = nil
	x.pe = &epoch[T]{refs: 1}
	x.pe1, x.pe2 = nil, nil
}

// Assign replaces the contents with the given elements.
func (v *Vector[T]) Assign(xs ...T) {
	m := len(v.impl)
	v.impl = append(v.impl[:0], xs...)
	v.publish(v.makeEpoch(), m, len(v.impl)-m)
}

// AssignSlice replaces the contents with a copy of s.
func (v *Vector[T]) AssignSlice(s []T) { v.Assign(s...) }

// AssignFill replaces the contents with n copies of x.
func (v *Vector[T]) AssignFill(n int, x T) {
	m := len(v.impl)
	v.impl = append(v.impl[:0], make([]T, n)...)
	for i := range v.impl {
		v.impl[i] = x
	}
	v.publish(v.makeEpoch(), m, n-m)
}

// AssignSeq replaces the contents with the elements of a sequence.
func (v *Vector[T]) AssignSeq(seq iter.Seq[T]) {
	m := len(v.impl)
	v.impl = v.impl[:0]
	for x := range seq {
		v.impl = append(v.impl, x)
	}
	v.publish(v.makeEpoch(), m, len(v.impl)-m)
}

// Begin returns an iterator to the first element, anchored at the current
// tail epoch.
func (v *Vector[T]) Begin() *Iterator[T] { return newIterator(0, v.pe) }

// End returns the past-the-end iterator. It keeps designating the
// past-the-end position across mutations.
func (v *Vector[T]) End() *Iterator[T] { return newIterator(len(v.impl), v.pe) }

// CBegin returns a read-only iterator to the first element.
func (v *Vector[T]) CBegin() *ConstIterator[T] {
	return &ConstIterator[T]{it: Iterator[T]{idx: 0, pe: v.pe.retain()}}
}

// CEnd returns the read-only past-the-end iterator.
func (v *Vector[T]) CEnd() *ConstIterator[T] {
	return &ConstIterator[T]{it: Iterator[T]{idx: len(v.impl), pe: v.pe.retain()}}
}

// All ranges over index/element pairs of the current contents.
// Mutating the vector while ranging is unspecified, as with a plain slice.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, x := range v.impl {
			if !yield(i, x) {
				return
			}
		}
	}
}

// Values ranges over the elements in order.
func (v *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, x := range v.impl {
			if !yield(x) {
				return
			}
		}
	}
}

// Backward ranges over index/element pairs from back to front.
func (v *Vector[T]) Backward() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := len(v.impl) - 1; i >= 0; i-- {
			if !yield(i, v.impl[i]) {
				return
			}
		}
	}
}

// Empty reports whether the vector has no elements.
func (v *Vector[T]) Empty() bool { return len(v.impl) == 0 }

// Len returns the number of elements.
func (v *Vector[T]) Len() int { return len(v.impl) }

// Cap returns the capacity of the current buffer.
func (v *Vector[T]) Cap() int { return cap(v.impl) }

// MaxLen returns the theoretical maximum number of elements.
func (v *Vector[T]) MaxLen() int { return math.MaxInt }

// Reserve grows the capacity to at least n. Iterators are unaffected even
// when the buffer relocates.
func (v *Vector[T]) Reserve(n int) {
	if extra := n - len(v.impl); extra > 0 {
		v.impl = slices.Grow(v.impl, extra)
	}
	v.publish(v.makeEpoch(), v.pe.index, 0)
}

// ShrinkToFit reallocates to exact size.
func (v *Vector[T]) ShrinkToFit() {
	if cap(v.impl) > len(v.impl) {
		buf := make([]T, len(v.impl))
		copy(buf, v.impl)
		v.impl = buf
	}
	v.publish(v.makeEpoch(), v.pe.index, 0)
}

// Resize changes the length to n, appending zero values or truncating.
func (v *Vector[T]) Resize(n int) {
	m := len(v.impl)
	switch {
	case n > m:
		v.impl = append(v.impl, make([]T, n-m)...)
	case n < m:
		clear(v.impl[n:])
		v.impl = v.impl[:n]
	}
	v.publish(v.makeEpoch(), m, n-m)
}

// ResizeWith changes the length to n, appending copies of x when growing.
func (v *Vector[T]) ResizeWith(n int, x T) {
	m := len(v.impl)
	switch {
	case n > m:
		v.impl = append(v.impl, make([]T, n-m)...)
		for i := m; i < n; i++ {
			v.impl[i] = x
		}
	case n < m:
		clear(v.impl[n:])
		v.impl = v.impl[:n]
	}
	v.publish(v.makeEpoch(), m, n-m)
}

// Get returns the element at position i. Panics when out of range.
func (v *Vector[T]) Get(i int) T { return v.impl[i] }

// Set overwrites the element at position i. Panics when out of range.
func (v *Vector[T]) Set(i int, x T) { v.impl[i] = x }

// Ref returns the address of the element at position i. Invalidated by the
// next mutation.
func (v *Vector[T]) Ref(i int) *T { return &v.impl[i] }

// At returns the element at position i, or ErrOutOfRange.
func (v *Vector[T]) At(i int) (T, error) {
	if i < 0 || i >= len(v.impl) {
		var zero T
		return zero, fmt.Errorf("at(%d) with len %d: %w", i, len(v.impl), ErrOutOfRange)
	}
	return v.impl[i], nil
}

// Front returns the first element. Panics when empty.
func (v *Vector[T]) Front() T { return v.impl[0] }

// Back returns the last element. Panics when empty.
func (v *Vector[T]) Back() T { return v.impl[len(v.impl)-1] }

// Data returns the current buffer. Invalidated by the next mutation.
func (v *Vector[T]) Data() []T { return v.impl }

// PushBack appends one element.
func (v *Vector[T]) PushBack(x T) {
	n := len(v.impl)
	v.impl = append(v.impl, x)
	v.publish(v.makeEpoch(), n, 1)
}

// Append appends the given elements.
func (v *Vector[T]) Append(xs ...T) {
	n := len(v.impl)
	v.impl = append(v.impl, xs...)
	v.publish(v.makeEpoch(), n, len(xs))
}

// AppendSlice appends a copy of s.
func (v *Vector[T]) AppendSlice(s []T) { v.Append(s...) }

// AppendSeq appends the elements of a sequence.
func (v *Vector[T]) AppendSeq(seq iter.Seq[T]) {
	n := len(v.impl)
	for x := range seq {
		v.impl = append(v.impl, x)
	}
	v.publish(v.makeEpoch(), n, len(v.impl)-n)
}

// PopBack removes and returns the last element. Panics when empty.
func (v *Vector[T]) PopBack() T {
	n := len(v.impl)
	x := v.impl[n-1]
	var zero T
	v.impl[n-1] = zero
	v.impl = v.impl[:n-1]
	v.publish(v.makeEpoch(), n, -1)
	return x
}

// Insert inserts the given elements before pos and returns an iterator to
// the first inserted element (or to pos's position when none are given).
// pos is caught up first, so a stale position still names its element.
func (v *Vector[T]) Insert(pos *Iterator[T], xs ...T) *Iterator[T] {
	idx := pos.index()
	v.impl = slices.Insert(v.impl, idx, xs...)
	v.publish(v.makeEpoch(), idx, len(xs))
	return newIterator(idx, v.pe)
}

// InsertN inserts n copies of x before pos.
func (v *Vector[T]) InsertN(pos *Iterator[T], n int, x T) *Iterator[T] {
	idx := pos.index()
	v.impl = slices.Insert(v.impl, idx, make([]T, n)...)
	for i := idx; i < idx+n; i++ {
		v.impl[i] = x
	}
	v.publish(v.makeEpoch(), idx, n)
	return newIterator(idx, v.pe)
}

// InsertSlice inserts a copy of s before pos.
func (v *Vector[T]) InsertSlice(pos *Iterator[T], s []T) *Iterator[T] {
	return v.Insert(pos, s...)
}

// InsertSeq inserts the elements of a sequence before pos.
func (v *Vector[T]) InsertSeq(pos *Iterator[T], seq iter.Seq[T]) *Iterator[T] {
	return v.Insert(pos, slices.Collect(seq)...)
}

// Erase removes the element at pos and returns an iterator to the element
// that took its place. pos itself, once caught up, designates that same
// successor: the published shift starts one past the erased position.
func (v *Vector[T]) Erase(pos *Iterator[T]) *Iterator[T] {
	idx := pos.index()
	v.impl = slices.Delete(v.impl, idx, idx+1)
	v.publish(v.makeEpoch(), idx+1, -1)
	return newIterator(idx, v.pe)
}

// EraseRange removes the elements in [first, last) and returns an iterator
// to the element that was at last. An empty range publishes nothing.
func (v *Vector[T]) EraseRange(first, last *Iterator[T]) *Iterator[T] {
	f, l := first.index(), last.index()
	if f == l {
		return newIterator(f, v.pe)
	}
	v.impl = slices.Delete(v.impl, f, l)
	v.publish(v.makeEpoch(), f+1, f-l)
	return newIterator(f, v.pe)
}

// Clear removes all elements, keeping capacity.
func (v *Vector[T]) Clear() {
	n := len(v.impl)
	clear(v.impl)
	v.impl = v.impl[:0]
	v.publish(v.makeEpoch(), n, -n)
}

// Swap exchanges contents, chains and statistics with x.
func (v *Vector[T]) Swap(x *Vector[T]) {
	v.impl, x.impl = x.impl, v.impl
	v.pe, x.pe = x.pe, v.pe
	v.pe1, x.pe1 = x.pe1, v.pe1
	v.pe2, x.pe2 = x.pe2, v.pe2
	v.counters, x.counters = x.counters, v.counters
}

// Stats returns the epoch-chain accounting for this vector.
func (v *Vector[T]) Stats() stats.Snapshot {
	s := v.counters.Snapshot()
	for _, e := range []*epoch[T]{v.pe, v.pe1, v.pe2} {
		if e != nil {
			s.Retained++
		}
	}
	return s
}

// checkInvariant verifies the chain invariants that hold at method
// boundaries: the tail exists, matches the current buffer and has no
// successor; pe1 links to pe; pe2 implies pe1 and links to it.
func (v *Vector[T]) checkInvariant() bool {
	return v.pe != nil &&
		unsafe.SliceData(v.pe.data) == unsafe.SliceData(v.impl) &&
		len(v.pe.data) == len(v.impl) &&
		v.pe.next == nil &&
		(v.pe1 == nil || v.pe1.next == v.pe) &&
		(v.pe2 == nil || (v.pe1 != nil && v.pe2.next == v.pe1))
}

// Equal reports whether x and y hold equal elements in the same order.
func Equal[T comparable](x, y *Vector[T]) bool { return slices.Equal(x.impl, y.impl) }

// EqualFunc is Equal with a custom element predicate.
func EqualFunc[T, U any](x *Vector[T], y *Vector[U], eq func(T, U) bool) bool {
	return slices.EqualFunc(x.impl, y.impl, eq)
}

// Compare orders x and y lexicographically, like slices.Compare.
func Compare[T cmp.Ordered](x, y *Vector[T]) int { return slices.Compare(x.impl, y.impl) }

// CompareFunc is Compare with a custom element comparison.
func CompareFunc[T, U any](x *Vector[T], y *Vector[U], cmpf func(T, U) int) int {
	return slices.CompareFunc(x.impl, y.impl, cmpf)
}

// Swap exchanges the contents of x and y.
func Swap[T any](x, y *Vector[T]) { x.Swap(y) }

// EraseIf removes every element satisfying pred and returns how many were
// removed. Iterators to surviving elements remain valid.
func EraseIf[T any](v *Vector[T], pred func(T) bool) int {
	res := 0
	first, last := v.Begin(), v.End()
	for !first.Equal(last) {
		if pred(first.Value()) {
			v.Erase(first).Release()
			res++
		} else {
			first.Next()
		}
	}
	first.Release()
	last.Release()
	return res
}

// EraseValue removes every element equal to x and returns how many were
// removed.
func EraseValue[T comparable](v *Vector[T], x T) int {
	return EraseIf(v, func(e T) bool { return e == x })
}
