// Licensed under the MIT License. See LICENSE file in the project root for details.

package core

// epoch records one forwarding step published by a vector mutation: an
// iterator whose stored index is at or beyond index, and which is anchored
// at this descriptor's predecessor, adds offset to its index when it walks
// past this descriptor. data is the element buffer in force when the epoch
// was published; the tail epoch's data is always the vector's current
// buffer. Holding the slice header keeps the then-current backing array
// reachable, so iterators anchored to old epochs never read freed memory.
//
// An epoch is immutable once linked as some predecessor's next, except for
// the in-place reinitialization and fusion performed by the vector when the
// reference counts prove nothing else can observe it.
type epoch[T any] struct {
	data   []T
	index  int
	offset int
	next   *epoch[T]
	refs   int
}

// One reference is counted per container slot (pe, pe1, pe2), per iterator
// anchored at the epoch, and per predecessor whose next links to it. The
// count is a plain int: the vector's thread contract is single-writer, and
// recycling decisions need exact count values, not just zero/non-zero.

// retain is nil-safe so that copying a singular iterator works.
func (e *epoch[T]) retain() *epoch[T] {
	if e != nil {
		e.refs++
	}
	return e
}

// release drops one reference. When an epoch loses its last owner its next
// link is dropped too; the loop walks the chain unlinking successors for as
// long as each one dies in turn, so tearing down a history of length L
// takes O(L) time and constant stack.
func (e *epoch[T]) release() {
	for e != nil {
		e.refs--
		if e.refs > 0 {
			return
		}
		n := e.next
		e.next = nil
		e.data = nil
		e = n
	}
}

// tryFuse folds the forwarding step of x, the immediate successor of e,
// into e itself, so that x can be recycled. Legal when a single
// (data, index, offset) triple expresses both steps:
//
//   - e is an erasure or reallocation (offset <= 0) and x starts at the
//     same index, or
//   - e is an insertion and x starts inside the inserted window
//     [index, index+offset].
//
// The fused epoch adopts x's buffer and successor, keeps e's index and sums
// the offsets. The caller must hold the only references to both epochs
// besides the e->x link, which tryFuse drops on success.
func (e *epoch[T]) tryFuse(x *epoch[T]) bool {
	if (e.offset <= 0 && x.index == e.index) ||
		( /* e.offset > 0 && */ x.index >= e.index && x.index <= e.index+e.offset) {
		e.data = x.data
		e.offset += x.offset
		e.next = x.next
		x.next = nil
		x.refs--
		return true
	}
	return false
}

// chainLen reports the number of descriptors reachable from e, e included.
func (e *epoch[T]) chainLen() int {
	n := 0
	for ; e != nil; e = e.next {
		n++
	}
	return n
}
