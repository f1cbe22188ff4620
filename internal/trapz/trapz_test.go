package trapz

import "testing"

func TestTrapzSquarePulse(t *testing.T) {
	// samples[2:5] = [7200, 7200, 7200] relative to a zero baseline,
	// after the square-pulse normalization used in the single-square-pulse
	// scenario: half-weighted endpoints over a flat plateau collapse to
	// plateau_value * (n-1).
	a := []float64{0, 0, 7200, 7200, 7200, 0, 0, 0}
	got := Trapz(a, 2, 5)
	want := 7200.0*0.5 + 7200.0 + 7200.0*0.5
	if got != want {
		t.Fatalf("Trapz = %v, want %v", got, want)
	}
}

func TestTrapzEmptyRange(t *testing.T) {
	a := []float64{1, 2, 3}
	if got := Trapz(a, 2, 2); got != 0 {
		t.Fatalf("Trapz(empty) = %v, want 0", got)
	}
	if got := Trapz(a, 3, 1); got != 0 {
		t.Fatalf("Trapz(inverted) = %v, want 0", got)
	}
}

func TestTrapzSinglePoint(t *testing.T) {
	a := []float64{1, 5, 9}
	if got := Trapz(a, 1, 2); got != 5 {
		t.Fatalf("Trapz(single) = %v, want 5", got)
	}
}

func TestTrapzClampsToBounds(t *testing.T) {
	a := []float64{1, 2, 3}
	got := Trapz(a, -1, 10)
	want := Trapz(a, 0, 3)
	if got != want {
		t.Fatalf("Trapz out-of-range = %v, want %v", got, want)
	}
}

func TestMean(t *testing.T) {
	a := []float64{2, 4, 6, 8}
	if got := Mean(a, 0, 4); got != 5 {
		t.Fatalf("Mean = %v, want 5", got)
	}
	if got := Mean(a, 2, 2); got != 0 {
		t.Fatalf("Mean(empty) = %v, want 0", got)
	}
}
