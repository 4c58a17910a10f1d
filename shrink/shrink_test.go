package shrink

import (
	"reflect"
	"testing"
)

func TestInt64Candidates(t *testing.T) {
	tests := []struct {
		in   int64
		want []int64
	}{
		{0, nil},
		{1, []int64{0}},
		{2, []int64{0, 1}},
		{10, []int64{0, 5, 8, 9}},
		{-10, []int64{0, -5, -8, -9}},
	}

	for _, tt := range tests {
		if got := Int64(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Int64(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInt64CandidatesStrictlySmaller(t *testing.T) {
	for _, v := range []int64{1, 7, 100, -1, -99, 1 << 40} {
		for _, c := range Int64(v) {
			if abs64(c) >= abs64(v) {
				t.Errorf("Int64(%d) produced non-smaller candidate %d", v, c)
			}
		}
	}
}

func TestInt64TowardStaysAboveTarget(t *testing.T) {
	s := Int64Toward(5)
	for _, c := range s(20) {
		if c < 5 || c >= 20 {
			t.Errorf("Int64Toward(5)(20) produced out-of-range candidate %d", c)
		}
	}
	if got := s(5); got != nil {
		t.Errorf("Int64Toward(5)(5) = %v, want nil", got)
	}
}

func TestUint64Converges(t *testing.T) {
	v := uint64(1 << 50)
	for steps := 0; v != 0; steps++ {
		if steps > 200 {
			t.Fatal("Uint64 shrinking did not converge")
		}
		cands := Uint64(v)
		if len(cands) == 0 {
			t.Fatalf("no candidates for nonzero %d", v)
		}
		v = cands[0]
	}
}

func TestFloat64Candidates(t *testing.T) {
	cands := Float64(3.5)
	if len(cands) == 0 || cands[0] != 0 {
		t.Fatalf("Float64(3.5) = %v, want zero first", cands)
	}
	for _, c := range cands {
		if absF(c) >= 3.5 {
			t.Errorf("candidate %v not smaller than 3.5", c)
		}
	}
	if got := Float64(0); got != nil {
		t.Errorf("Float64(0) = %v, want nil", got)
	}
}

func TestSliceRemovesChunksFirst(t *testing.T) {
	s := Slice[int](nil)
	cands := s([]int{1, 2, 3, 4})

	if len(cands) == 0 {
		t.Fatal("no candidates for a 4-element slice")
	}
	if len(cands[0]) != 0 {
		t.Errorf("first candidate should drop everything, got %v", cands[0])
	}
	for _, c := range cands {
		if len(c) >= 4 {
			t.Errorf("candidate %v is not shorter", c)
		}
	}
}

func TestSliceShrinksElements(t *testing.T) {
	s := Slice(Int)
	found := false
	for _, c := range s([]int{9}) {
		if len(c) == 1 && c[0] == 0 {
			found = true
		}
	}
	if !found {
		t.Error("expected an element-shrunk candidate [0]")
	}
}

func TestSliceEmptyHasNoCandidates(t *testing.T) {
	if got := Slice(Int)(nil); len(got) != 0 {
		t.Errorf("empty slice produced candidates: %v", got)
	}
}

func TestStringShrinksShorter(t *testing.T) {
	for _, c := range String("hello") {
		if len([]rune(c)) > 5 {
			t.Errorf("candidate %q longer than original", c)
		}
	}
	if got := String(""); len(got) != 0 {
		t.Errorf("empty string produced candidates: %v", got)
	}
}

func TestTreeLazyAndMemoized(t *testing.T) {
	calls := 0
	tr := New(10, func() []*Tree[int] {
		calls++
		return []*Tree[int]{Leaf(5)}
	})

	if calls != 0 {
		t.Fatal("children expanded before being requested")
	}
	tr.Children()
	tr.Children()
	if calls != 1 {
		t.Fatalf("expand called %d times, want 1", calls)
	}
}

func TestTreeFromFollowsShrinker(t *testing.T) {
	tr := From(int64(4), Shrinker[int64](Int64))
	kids := tr.Children()
	if len(kids) == 0 || kids[0].Value != 0 {
		t.Fatalf("unexpected children for From(4): %+v", kids)
	}
}

func TestFilterPrunesButKeepsDescendants(t *testing.T) {
	// 10 shrinks to 0 (rejected, odd values only) whose child 0 is also
	// rejected; candidates like 5 survive.
	keep := func(v int64) bool { return v%2 == 1 }
	tr := Filter(From(int64(10), Shrinker[int64](Int64)), keep)

	for _, k := range tr.Children() {
		if !keep(k.Value) {
			t.Errorf("filtered tree exposed rejected candidate %d", k.Value)
		}
	}
}

func TestSearchFindsLocalMinimum(t *testing.T) {
	// Failing values are those > 100; the local minimum is 101.
	fails := func(v int64) bool { return v > 100 }
	res := Search(From(int64(5000), Shrinker[int64](Int64)), fails, 10000)

	if res.Value != 101 {
		t.Errorf("Search minimized to %d, want 101", res.Value)
	}
	if res.Steps == 0 {
		t.Error("Search reported zero steps for a shrinkable value")
	}
}

func TestSearchRespectsAttemptBudget(t *testing.T) {
	fails := func(v int64) bool { return v > 100 }
	res := Search(From(int64(1<<40), Shrinker[int64](Int64)), fails, 3)

	if res.Attempts > 3 {
		t.Errorf("Search used %d attempts, budget was 3", res.Attempts)
	}
}

func TestSearchResultStillFails(t *testing.T) {
	fails := func(v []int) bool { return len(v) > 2 }
	root := From([]int{1, 2, 3, 4, 5, 6}, Slice(Int))
	res := Search(root, fails, 10000)

	if !fails(res.Value) {
		t.Errorf("minimized value %v no longer fails", res.Value)
	}
	if len(res.Value) != 3 {
		t.Errorf("minimized to %v, want length 3", res.Value)
	}
}

func TestSliceOfCombinesElementTrees(t *testing.T) {
	elems := []*Tree[int]{From(3, Shrinker[int](Int)), From(7, Shrinker[int](Int))}
	tr := SliceOf(elems)

	if !reflect.DeepEqual(tr.Value, []int{3, 7}) {
		t.Fatalf("root value = %v", tr.Value)
	}

	sawEmpty, sawElemShrink := false, false
	for _, k := range tr.Children() {
		if len(k.Value) == 0 {
			sawEmpty = true
		}
		if len(k.Value) == 2 && k.Value[0] == 0 && k.Value[1] == 7 {
			sawElemShrink = true
		}
	}
	if !sawEmpty {
		t.Error("no empty-slice candidate")
	}
	if !sawElemShrink {
		t.Error("no element-shrunk candidate [0 7]")
	}
}

func TestMapPreservesShape(t *testing.T) {
	tr := Map(From(int64(4), Shrinker[int64](Int64)), func(v int64) string {
		return string(rune('a' + v))
	})
	if tr.Value != "e" {
		t.Fatalf("mapped root = %q", tr.Value)
	}
	if kids := tr.Children(); len(kids) == 0 || kids[0].Value != "a" {
		t.Fatalf("mapped children = %+v", kids)
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
