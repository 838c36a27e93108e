package service

import (
	"reflect"
	"testing"
)

func TestNavigationGateReachable(t *testing.T) {
	ids := []uint{10, 20, 30, 40}

	tests := []struct {
		name         string
		answered     map[uint]bool
		reachable    []int
		nextRequired int
	}{
		{"nothing answered", map[uint]bool{}, []int{0}, 0},
		{"first answered", map[uint]bool{10: true}, []int{0, 1}, 1},
		{"first two answered", map[uint]bool{10: true, 20: true}, []int{0, 1, 2}, 2},
		// 30 was saved in an earlier session while 20 is blank.
		{"gap before an answer", map[uint]bool{10: true, 30: true}, []int{0, 1, 2, 3}, 1},
		{"only a late answer", map[uint]bool{40: true}, []int{0, 3}, 0},
		{"all answered", map[uint]bool{10: true, 20: true, 30: true, 40: true}, []int{0, 1, 2, 3}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewNavigationGate(ids, tt.answered)
			if got := g.Reachable(); !reflect.DeepEqual(got, tt.reachable) {
				t.Errorf("Reachable() = %v, want %v", got, tt.reachable)
			}
			if got := g.NextRequiredIndex(); got != tt.nextRequired {
				t.Errorf("NextRequiredIndex() = %d, want %d", got, tt.nextRequired)
			}
		})
	}
}

func TestNavigationGateMonotonicity(t *testing.T) {
	ids := []uint{1, 2, 3, 4, 5}
	answered := map[uint]bool{}

	for i := range ids {
		g := NewNavigationGate(ids, answered)
		if !g.CanNavigateTo(i) {
			t.Fatalf("index %d should be reachable after answering 0..%d", i, i-1)
		}
		if i+1 < len(ids) && g.CanNavigateTo(i+1) {
			t.Fatalf("index %d reachable while %d is unanswered", i+1, i)
		}
		answered[ids[i]] = true
		if i+1 < len(ids) && !NewNavigationGate(ids, answered).CanNavigateTo(i+1) {
			t.Fatalf("answering %d did not unlock %d", i, i+1)
		}
	}
}

func TestNavigationGateAnsweredAlwaysReachable(t *testing.T) {
	ids := []uint{1, 2, 3, 4, 5, 6}
	// Every subset of answered questions.
	for mask := 0; mask < 1<<len(ids); mask++ {
		answered := map[uint]bool{}
		for i, id := range ids {
			if mask&(1<<i) != 0 {
				answered[id] = true
			}
		}
		g := NewNavigationGate(ids, answered)
		for i, id := range ids {
			if answered[id] && !g.CanNavigateTo(i) {
				t.Fatalf("mask %b: answered index %d not reachable", mask, i)
			}
		}
	}
}

func TestNavigationGateBounds(t *testing.T) {
	g := NewNavigationGate([]uint{7, 8}, map[uint]bool{7: true, 8: true})
	for _, idx := range []int{-1, 2, 100} {
		if g.CanNavigateTo(idx) {
			t.Errorf("CanNavigateTo(%d) = true for out-of-range index", idx)
		}
	}
	if !g.AllAnswered() || g.AnsweredCount() != 2 {
		t.Errorf("AllAnswered=%v AnsweredCount=%d, want true and 2", g.AllAnswered(), g.AnsweredCount())
	}
	if idx, ok := g.IndexOf(8); !ok || idx != 1 {
		t.Errorf("IndexOf(8) = %d,%v, want 1,true", idx, ok)
	}
	if _, ok := g.QuestionAt(2); ok {
		t.Errorf("QuestionAt(2) should be out of range")
	}

	empty := NewNavigationGate(nil, nil)
	if empty.NextRequiredIndex() != -1 || len(empty.Reachable()) != 0 {
		t.Errorf("empty gate: next=%d reachable=%v", empty.NextRequiredIndex(), empty.Reachable())
	}
}
