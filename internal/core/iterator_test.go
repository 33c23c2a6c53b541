// Licensed under the MIT License. See LICENSE file in the project root for details.

package core

import "testing"

func TestIteratorFollowsElementAcrossFrontInsert(t *testing.T) {
	v := New[int]()
	for i := 0; i < 100; i++ {
		v.PushBack(i)
	}
	it := v.Begin().Plus(50)

	v.Insert(v.Begin(), -1).Release()

	if got := it.Value(); got != 50 {
		t.Errorf("expected 50, got %d", got)
	}
	b := v.Begin()
	if d := it.Distance(b); d != 51 {
		t.Errorf("expected distance 51, got %d", d)
	}
	b.Release()
}

func TestIteratorUpdateIsIdempotent(t *testing.T) {
	v := Of(0, 1, 2, 3, 4)
	it := v.Begin().Plus(3)
	v.Erase(v.Begin()).Release()
	v.PushBack(5)

	it.update()
	idx, pe := it.idx, it.pe
	it.update()
	if it.idx != idx || it.pe != pe {
		t.Errorf("second update changed state: idx %d -> %d", idx, it.idx)
	}
	if got := it.Value(); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

func TestIteratorArithmeticRoundTrip(t *testing.T) {
	v := Of(10, 20, 30, 40, 50)
	it := v.Begin().Plus(1)

	fwd := it.Plus(3)
	back := fwd.Minus(3)
	if !back.Equal(it) {
		t.Error("(it + 3) - 3 != it")
	}
	if got := fwd.Value(); got != 50 {
		t.Errorf("expected 50, got %d", got)
	}
	if d := fwd.Distance(it); d != 3 {
		t.Errorf("expected distance 3, got %d", d)
	}
	if c := it.Compare(fwd); c != -1 {
		t.Errorf("expected -1, got %d", c)
	}
	if c := fwd.Compare(it); c != 1 {
		t.Errorf("expected 1, got %d", c)
	}
	if c := back.Compare(it); c != 0 {
		t.Errorf("expected 0, got %d", c)
	}
}

func TestIteratorInPlaceNavigation(t *testing.T) {
	v := Of(1, 2, 3, 4)
	it := v.Begin()

	it.Next().Next()
	if got := it.Value(); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	it.Prev()
	if got := it.Value(); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
	it.Advance(2)
	if got := it.Value(); got != 4 {
		t.Errorf("expected 4, got %d", got)
	}
	if got := it.At(-3); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
}

func TestIteratorRawContiguity(t *testing.T) {
	v := Of(0, 1, 2, 3, 4, 5, 6, 7)
	v.Insert(v.Begin(), -1).Release() // force a shift before observing
	it := v.Begin().Plus(2)

	raw := it.Raw()
	if len(raw) != 7 {
		t.Fatalf("expected window of 7, got %d", len(raw))
	}
	for k := 0; k < len(raw); k++ {
		if p := it.Plus(k); &raw[k] != p.Ref() {
			t.Errorf("&raw[%d] != (it+%d).Ref()", k, k)
		}
	}
}

func TestIteratorSetAndRef(t *testing.T) {
	v := Of(1, 2, 3)
	it := v.Begin().Plus(1)
	v.Insert(v.Begin(), 0).Release()

	it.Set(20)
	if got := v.Get(2); got != 20 {
		t.Errorf("expected 20 at position 2, got %d", got)
	}
	*it.Ref() = 22
	if got := v.Get(2); got != 22 {
		t.Errorf("expected 22 at position 2, got %d", got)
	}
}

func TestIteratorCloneSharesAnchor(t *testing.T) {
	v := Of(1, 2, 3)
	it := v.Begin().Plus(1)
	dup := it.Clone()

	v.Insert(v.Begin(), 0).Release()

	if got := dup.Value(); got != 2 {
		t.Errorf("clone expected 2, got %d", got)
	}
	if got := it.Value(); got != 2 {
		t.Errorf("original expected 2, got %d", got)
	}
	dup.Next()
	if it.Equal(dup) {
		t.Error("advancing the clone moved the original")
	}
}

func TestIteratorConstConversion(t *testing.T) {
	v := Of(5, 6, 7)
	cit := v.Begin().Plus(1).Const()

	v.Insert(v.Begin(), 4).Release()

	if got := cit.Value(); got != 6 {
		t.Errorf("expected 6, got %d", got)
	}
	cend := v.CEnd()
	if d := cend.Distance(v.CBegin()); d != 4 {
		t.Errorf("expected length 4, got %d", d)
	}
	if cit.Compare(cend) != -1 {
		t.Error("const iterator ordering broken")
	}
}

func TestEndIteratorStaysEnd(t *testing.T) {
	v := Of(0, 1, 2)
	end := v.End()

	v.PushBack(3)
	v.Insert(v.Begin(), -1).Release()
	v.PopBack()
	v.Erase(v.Begin()).Release()

	cur := v.End()
	if !end.Equal(cur) {
		t.Errorf("old end drifted: distance %d", end.Distance(cur))
	}
	cur.Release()
}

func TestSingularIteratorCloneRelease(t *testing.T) {
	var it Iterator[int]
	dup := it.Clone()
	dup.Release()
	it.Release()
	it.Release() // double release is a no-op
}

func TestIteratorReleaseEnablesRecycling(t *testing.T) {
	v := Of(0, 1, 2, 3)

	it := v.Begin()
	it.Release()
	before := v.Stats().Allocated
	for i := 0; i < 100; i++ {
		v.PushBack(i)
	}
	after := v.Stats().Allocated
	if grown := after - before; grown > 2 {
		t.Errorf("expected recycled descriptors after release, %d fresh allocations", grown)
	}
}
