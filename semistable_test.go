// Licensed under the MIT License. See LICENSE file in the project root for details.

package semistable

import (
	"errors"
	"slices"
	"testing"
)

func TestPublicAPI(t *testing.T) {
	// Test basic construction and access
	v := Of(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)
	if v.Len() != 10 || v.Empty() {
		t.Errorf("expected 10 elements, got %d", v.Len())
	}
	if v.Front() != 0 || v.Back() != 9 {
		t.Errorf("unexpected front/back: %d/%d", v.Front(), v.Back())
	}

	// Test iterator stability across a front erase
	it := v.Begin().Plus(5)
	v.Erase(v.Begin()).Release()
	if got := it.Value(); got != 5 {
		t.Errorf("iterator drifted after erase: expected 5, got %d", got)
	}
	end, begin := v.End(), v.Begin()
	if d := end.Distance(begin); d != 9 {
		t.Errorf("expected 9 remaining, got %d", d)
	}

	// Test iterator stability across a front insert
	v.Insert(v.Begin(), -1).Release()
	if got := it.Value(); got != 5 {
		t.Errorf("iterator drifted after insert: expected 5, got %d", got)
	}

	// Test checked access
	if _, err := v.At(100); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected ErrOutOfRange, got %v", err)
	}
	if got, err := v.At(0); err != nil || got != -1 {
		t.Errorf("expected -1, got %d (%v)", got, err)
	}

	// Test equality and ordering
	w := FromSlice(v.Data())
	if !Equal(v, w) {
		t.Error("expected equal vectors")
	}
	w.PushBack(100)
	if Compare(v, w) != -1 {
		t.Error("expected v < w after push")
	}

	// Test erase free functions
	removed := EraseIf(w, func(x int) bool { return x < 0 })
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if n := EraseValue(w, 100); n != 1 {
		t.Errorf("expected 1 removed, got %d", n)
	}

	// Test range-over-func iteration
	var got []int
	for x := range w.Values() {
		got = append(got, x)
	}
	if !slices.Equal(got, w.Data()) {
		t.Errorf("Values mismatch: %v vs %v", got, w.Data())
	}
	u := FromSeq(w.Values())
	if !Equal(u, w) {
		t.Error("FromSeq should reproduce the vector")
	}

	// Test chain statistics
	s := v.Stats()
	if s.Published == 0 || s.Retained == 0 {
		t.Errorf("expected live chain accounting, got %s", s)
	}
}

func TestPublicAPIConstIterators(t *testing.T) {
	v := Of("a", "b", "c")
	cit := v.CBegin()
	cit.Advance(1)

	v.Insert(v.Begin(), "z").Release()

	if got := cit.Value(); got != "b" {
		t.Errorf("expected b, got %s", got)
	}
	nonConst := v.Begin().Plus(2)
	conv := nonConst.Const()
	if !conv.Equal(cit) {
		t.Error("converted iterator should equal the const one")
	}
}

func TestPublicAPIRawWindow(t *testing.T) {
	v := Of(byte('h'), byte('e'), byte('l'), byte('l'), byte('o'))
	it := v.Begin().Plus(1)
	v.Insert(v.Begin(), byte('!')).Release()

	if got := string(it.Raw()); got != "ello" {
		t.Errorf("expected window ello, got %q", got)
	}
}
