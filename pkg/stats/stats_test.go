package stats

import (
	"math"
	"testing"
)

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{42}, 42},
		{"simple", []float64{1, 2, 3, 4}, 2.5},
		{"negative", []float64{-2, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mean(tt.values)
			if !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("Mean(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestMedian_OddLength(t *testing.T) {
	got := Median([]float64{5, 1, 3})
	if got != 3 {
		t.Errorf("Median = %v, want 3", got)
	}
}

func TestMedian_EvenLength(t *testing.T) {
	// Sorted: 1, 2, 4, 10 → (2+4)/2 = 3
	got := Median([]float64{10, 2, 4, 1})
	if got != 3 {
		t.Errorf("Median = %v, want 3", got)
	}
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Median(values)
	if values[0] != 3 || values[1] != 1 || values[2] != 2 {
		t.Errorf("Median mutated input: %v", values)
	}
}

func TestStdDev_IdenticalValues(t *testing.T) {
	// Identical values → zero spread. The outlier detector relies on this
	// being exactly 0 and applies its own epsilon floor.
	got := StdDev([]float64{100, 100, 100, 100})
	if got != 0 {
		t.Errorf("StdDev of identical values = %v, want 0", got)
	}
}

func TestStdDev_SingleValue(t *testing.T) {
	got := StdDev([]float64{12345})
	if got != 0 {
		t.Errorf("StdDev of single value = %v, want 0", got)
	}
}

func TestStdDev_KnownValue(t *testing.T) {
	// Population stddev of [2, 4, 4, 4, 5, 5, 7, 9] is exactly 2.
	got := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if !almostEqual(got, 2.0, 1e-9) {
		t.Errorf("StdDev = %v, want 2.0", got)
	}
}

func TestStdDev_Empty(t *testing.T) {
	if got := StdDev(nil); got != 0 {
		t.Errorf("StdDev(nil) = %v, want 0", got)
	}
}
