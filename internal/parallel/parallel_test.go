package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestMapKeepsOrder(t *testing.T) {
	in := make([]int, 257)
	for i := range in {
		in[i] = i
	}
	var calls atomic.Int32
	got := Map(in, func(x int) int {
		calls.Add(1)
		return x * x
	})

	want := make([]int, len(in))
	for i := range want {
		want[i] = i * i
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Map mismatch (-want +got):\n%s", diff)
	}
	if int(calls.Load()) != len(in) {
		t.Fatalf("f called %d times, want %d", calls.Load(), len(in))
	}
}

func TestMapEmptyAndSingle(t *testing.T) {
	if got := Map([]float64(nil), func(x float64) float64 { return x }); len(got) != 0 {
		t.Fatalf("Map(nil) = %v", got)
	}
	got := Map([]string{"a"}, func(s string) int { return len(s) })
	if diff := cmp.Diff([]int{1}, got); diff != "" {
		t.Fatalf("Map single mismatch (-want +got):\n%s", diff)
	}
}

func TestMapBoundsConcurrency(t *testing.T) {
	limit := int32(runtime.GOMAXPROCS(0))
	var running, peak atomic.Int32
	Map(make([]struct{}, 4*int(limit)+4), func(struct{}) int {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		running.Add(-1)
		return 0
	})
	if got := peak.Load(); got < 1 || got > limit {
		t.Fatalf("peak concurrency = %d, want 1..%d", got, limit)
	}
}
