package anim

import (
	"iter"

	"github.com/san-kum/peeps/internal/peeps"
)

// Sequence is a last-in-first-out stack of pre-computed tick values. Values
// are pushed in reverse chronological order so the earliest pops first.
type Sequence[T any] struct {
	stack []T
}

// NewSequence builds a sequence that pops vals in their given order.
func NewSequence[T any](vals []T) *Sequence[T] {
	s := &Sequence[T]{stack: make([]T, 0, len(vals))}
	for i := len(vals) - 1; i >= 0; i-- {
		s.stack = append(s.stack, vals[i])
	}
	return s
}

// Push places v on top of the stack; it becomes the next value popped.
func (s *Sequence[T]) Push(v T) {
	s.stack = append(s.stack, v)
}

// Pop removes and returns the next value. Popping an exhausted sequence
// returns ErrEmptySequence.
func (s *Sequence[T]) Pop() (T, error) {
	var zero T
	if len(s.stack) == 0 {
		return zero, &peeps.Error{Op: "anim.Pop", Wrapped: peeps.ErrEmptySequence}
	}
	v := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return v, nil
}

// Len reports how many values remain.
func (s *Sequence[T]) Len() int {
	return len(s.stack)
}

// All drains the sequence in pop order.
func (s *Sequence[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for len(s.stack) > 0 {
			v, _ := s.Pop()
			if !yield(v) {
				return
			}
		}
	}
}
