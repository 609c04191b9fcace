package peeps

import (
	"errors"
	"io/fs"
	"strings"
	"sync/atomic"
	"testing"
)

func TestErrorUnwrap(t *testing.T) {
	err := Errorf("rotate", ErrDegenerateVector, "axis %v", []float64{0, 0, 0})

	if !errors.Is(err, ErrDegenerateVector) {
		t.Fatal("expected error to wrap ErrDegenerateVector")
	}
	if errors.Is(err, ErrInvalidParameter) {
		t.Error("did not expect ErrInvalidParameter")
	}
	if !strings.HasPrefix(err.Error(), "rotate: ") {
		t.Errorf("expected op prefix, got %q", err.Error())
	}
}

func TestErrorWithoutDetail(t *testing.T) {
	err := &Error{Op: "pop", Wrapped: ErrEmptySequence}
	if err.Error() != "pop: peeps: pop from empty sequence" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestErrorKeepsCause(t *testing.T) {
	err := Wrap("capture.Stop", ErrEncode, fs.ErrPermission)
	if !errors.Is(err, ErrEncode) || !errors.Is(err, fs.ErrPermission) {
		t.Fatalf("expected both kind and cause to match, got %v", err)
	}
	if want := "capture.Stop: peeps: encode failed: permission denied"; err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestParallelForCoversRange(t *testing.T) {
	for _, n := range []int{0, 1, 7, 100, 1000} {
		var hits int64
		seen := make([]int32, n)
		ParallelFor(n, 8, func(start, end int) {
			for i := start; i < end; i++ {
				atomic.AddInt32(&seen[i], 1)
				atomic.AddInt64(&hits, 1)
			}
		})
		if hits != int64(n) {
			t.Errorf("n=%d: expected %d hits, got %d", n, n, hits)
		}
		for i, s := range seen {
			if s != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, s)
			}
		}
	}
}
