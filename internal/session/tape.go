package session

// Tape is a ring buffer keeping the most recent entries (bounded memory).
type Tape[T any] struct {
	buf   []T
	size  int
	start int
	count int
}

// NewTape creates a tape holding at most capacity entries. A non-positive
// capacity keeps one entry.
func NewTape[T any](capacity int) *Tape[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Tape[T]{
		buf:  make([]T, capacity),
		size: capacity,
	}
}

// Append adds an entry, dropping the oldest one when the tape is full.
func (t *Tape[T]) Append(v T) {
	if t.count < t.size {
		t.buf[(t.start+t.count)%t.size] = v
		t.count++
		return
	}
	// overwrite oldest
	t.buf[t.start] = v
	t.start = (t.start + 1) % t.size
}

// Len returns the number of entries on the tape.
func (t *Tape[T]) Len() int { return t.count }

// Last returns up to n of the most recent entries, oldest first.
// The slice is a copy; entries appended later do not show through it.
func (t *Tape[T]) Last(n int) []T {
	if n <= 0 || t.count == 0 {
		return nil
	}
	if n > t.count {
		n = t.count
	}
	out := make([]T, n)
	// take the last n in chronological order
	first := (t.start + (t.count - n)) % t.size
	for i := 0; i < n; i++ {
		out[i] = t.buf[(first+i)%t.size]
	}
	return out
}
