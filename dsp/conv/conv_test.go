package conv

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/cwbudde/algo-deconv/internal/testutil"
)

func TestSameUnitKernelIsIdentity(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 64} {
		signal := testutil.DeterministicNoise(int64(n), 1, n)

		got, err := Same([]float64{1}, signal)
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		testutil.RequireSliceNearlyEqual(t, got, signal, 0)
	}
}

func TestSameSpikeReproducesKernel(t *testing.T) {
	kernel := []float64{0, 0.5, 1, 0.5, 0}
	signal := testutil.Impulse(21, 10)

	got, err := Same(kernel, signal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := make([]float64, 21)
	want[9], want[10], want[11] = 0.5, 1, 0.5
	testutil.RequireSliceNearlyEqual(t, got, want, 0)
}

func TestSameTruncatesAtBoundaries(t *testing.T) {
	kernel := []float64{1, 2, 3}
	signal := testutil.Impulse(4, 0)

	got, err := Same(kernel, signal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The right half of the kernel falls off the left edge.
	testutil.RequireSliceNearlyEqual(t, got, []float64{2, 3, 0, 0}, 0)
}

func TestSameMatchesCentredFullConvolution(t *testing.T) {
	signal := testutil.DeterministicNoise(7, 1, 50)
	kernel := testutil.DeterministicNoise(8, 1, 9)

	full := fullConvolution(signal, kernel)
	got, err := Same(kernel, signal)
	if err != nil {
		t.Fatalf("Same error: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got, full[4:4+len(signal)], 1e-12)
}

func TestSameErrors(t *testing.T) {
	if _, err := Same(nil, []float64{1}); !errors.Is(err, ErrEmptyKernel) {
		t.Errorf("expected ErrEmptyKernel, got %v", err)
	}
	if _, err := Same([]float64{1, 1}, []float64{1}); !errors.Is(err, ErrEvenKernel) {
		t.Errorf("expected ErrEvenKernel, got %v", err)
	}
	if err := SameTo(make([]float64, 2), []float64{1}, []float64{1, 2, 3}); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

// fullConvolution is the textbook O(N*M) linear convolution, used as an
// oracle for the same-mode paths.
func fullConvolution(a, b []float64) []float64 {
	result := make([]float64, len(a)+len(b)-1)
	for i := range a {
		for j := range b {
			result[i+j] += a[i] * b[j]
		}
	}
	return result
}

func TestFullConvolution(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected []float64
	}{
		{name: "simple 3x3", a: []float64{1, 2, 3}, b: []float64{1, 1, 1}, expected: []float64{1, 3, 6, 5, 3}},
		{name: "impulse", a: []float64{1, 2, 3, 4, 5}, b: []float64{1}, expected: []float64{1, 2, 3, 4, 5}},
		{name: "symmetric", a: []float64{1, 2, 1}, b: []float64{1, 2, 1}, expected: []float64{1, 4, 6, 4, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := fullConvolution(tt.a, tt.b)
			testutil.RequireSliceNearlyEqual(t, result, tt.expected, 1e-10)
		})
	}
}

func TestFFTSameMatchesDirect(t *testing.T) {
	signal := testutil.DeterministicNoise(11, 1, 700)
	kernel := testutil.DeterministicNoise(12, 1, 101)

	f, err := NewFFTSame(kernel)
	if err != nil {
		t.Fatalf("NewFFTSame error: %v", err)
	}
	d, err := NewDirectSame(kernel)
	if err != nil {
		t.Fatalf("NewDirectSame error: %v", err)
	}
	want, _ := d.Convolve(signal)
	got, err := f.Convolve(signal)
	if err != nil {
		t.Fatalf("Convolve error: %v", err)
	}

	maxDiff, err := testutil.MaxAbsDiff(got, want)
	if err != nil {
		t.Fatal(err)
	}
	if maxDiff > 1e-9 {
		t.Fatalf("max difference %v exceeds tolerance", maxDiff)
	}
}

func TestFFTSameConcurrentUse(t *testing.T) {
	kernel := []float64{0.25, 0.5, 0.25}
	f, err := NewFFTSame(kernel)
	if err != nil {
		t.Fatalf("NewFFTSame error: %v", err)
	}
	signal := testutil.DeterministicNoise(5, 1, 300)
	want, _ := Same(kernel, signal)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := f.Convolve(signal)
			if err != nil {
				errs <- err
				return
			}
			for i := range got {
				if math.Abs(got[i]-want[i]) > 1e-9 {
					errs <- errors.New("concurrent FFT convolution diverged")
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestNewFFTSameRejectsEvenKernel(t *testing.T) {
	if _, err := NewFFTSame([]float64{1, 2}); !errors.Is(err, ErrEvenKernel) {
		t.Fatalf("expected ErrEvenKernel, got %v", err)
	}
}

func TestSameKeepsInteriorDC(t *testing.T) {
	kernel := []float64{0.25, 0.5, 0.25}
	got, err := Same(kernel, testutil.DC(3, 8))
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireSliceNearlyEqual(t, got[1:7], testutil.DC(3, 6), 1e-15)
	testutil.RequireNearlyEqual(t, "edge", got[0], 2.25, 1e-15)
}
