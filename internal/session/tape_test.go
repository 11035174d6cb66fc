package session

import "testing"

func TestTapeKeepsNewest(t *testing.T) {
	tape := NewTape[int](3)
	for i := 1; i <= 5; i++ {
		tape.Append(i)
	}
	if tape.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", tape.Len())
	}
	got := tape.Last(10)
	want := []int{3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Last(10) = %v, want %v", got, want)
		}
	}
	if last := tape.Last(1); len(last) != 1 || last[0] != 5 {
		t.Errorf("Last(1) = %v, want [5]", last)
	}
	if tape.Last(0) != nil {
		t.Error("Last(0) should be nil")
	}
}

func TestTapeLastIsACopy(t *testing.T) {
	tape := NewTape[int](2)
	tape.Append(1)
	tape.Append(2)

	got := tape.Last(2)
	tape.Append(3)

	if got[0] != 1 || got[1] != 2 {
		t.Fatalf("Last changed after Append: %v", got)
	}
	if now := tape.Last(2); now[0] != 2 || now[1] != 3 {
		t.Fatalf("expected [2 3], got %v", now)
	}
}
