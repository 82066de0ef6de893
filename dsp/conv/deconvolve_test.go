package conv

import (
	"errors"
	"testing"

	"github.com/cwbudde/algo-deconv/internal/testutil"
)

func TestDeconvolveSameDelayedDelta(t *testing.T) {
	original := testutil.Spikes(32, 5, 20)
	kernel := []float64{0, 1, 0}

	measured, err := Same(kernel, original)
	if err != nil {
		t.Fatalf("Same error: %v", err)
	}

	got, err := DeconvolveSame(measured, kernel, DefaultDeconvOptions())
	if err != nil {
		t.Fatalf("DeconvolveSame error: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, got, original, 1e-5)
}

func TestDeconvolveSameSmoothingKernel(t *testing.T) {
	original := testutil.Spikes(64, 20, 40)
	kernel := []float64{0.25, 0.5, 0.25}

	measured, _ := Same(kernel, original)

	for _, method := range []DeconvMethod{DeconvRegularized, DeconvWiener} {
		got, err := DeconvolveSame(measured, kernel, DeconvOptions{Method: method, Epsilon: 1e-3})
		if err != nil {
			t.Fatalf("method %d: DeconvolveSame error: %v", method, err)
		}
		if len(got) != len(original) {
			t.Fatalf("method %d: len = %d, want %d", method, len(got), len(original))
		}
		// The spikes must remain the dominant samples.
		if got[20] < 0.5 || got[40] < 0.5 {
			t.Fatalf("method %d: spikes lost: got[20]=%v got[40]=%v", method, got[20], got[40])
		}
	}
}

func TestDeconvolveSameErrors(t *testing.T) {
	if _, err := DeconvolveSame(nil, []float64{1}, DefaultDeconvOptions()); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("expected ErrEmptyInput, got %v", err)
	}
	if _, err := DeconvolveSame([]float64{1}, []float64{1, 1}, DefaultDeconvOptions()); !errors.Is(err, ErrEvenKernel) {
		t.Errorf("expected ErrEvenKernel, got %v", err)
	}
	if _, err := DeconvolveSame([]float64{1}, []float64{1}, DeconvOptions{Method: DeconvMethod(42)}); !errors.Is(err, ErrInvalidMethod) {
		t.Errorf("expected ErrInvalidMethod, got %v", err)
	}
	// [0.5, 0, 0.5] has a spectral zero at half the sampling rate.
	if _, err := DeconvolveSame(testutil.Impulse(8, 3), []float64{0.5, 0, 0.5}, DeconvOptions{Method: DeconvNaive}); !errors.Is(err, ErrDivisionByZero) {
		t.Errorf("expected ErrDivisionByZero, got %v", err)
	}
}
