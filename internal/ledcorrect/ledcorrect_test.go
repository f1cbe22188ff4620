package ledcorrect

import (
	"math"
	"testing"
)

const eps = 1e-9

func approxEqual(a, b float64) bool { return math.Abs(a-b) < eps }

// TestGainDriftTrace follows spec section 8 scenario 4: ten LED-tagged
// pulses with total_int ramping [100,110,...,190], plus one filler
// (non-LED) pulse inserted inside every slot to exercise the rescale.
func TestGainDriftTrace(t *testing.T) {
	const ledDt = 0.125
	const ref = 150.0
	const dx = 2.0

	var tEvents []float64
	var totalInt []float64
	var isLED []bool
	for k := 0; k < 10; k++ {
		tLED := float64(k) * ledDt
		tEvents = append(tEvents, tLED)
		totalInt = append(totalInt, 100+10*float64(k))
		isLED = append(isLED, true)

		tFiller := tLED + 0.01
		tEvents = append(tEvents, tFiller)
		totalInt = append(totalInt, 1000)
		isLED = append(isLED, false)
	}

	out := Correct(Input{TEvents: tEvents, TotalInt: totalInt, IsLED: isLED}, Params{LEDdt: ledDt, LEDreference: ref, Dx: dx})

	if len(out.PMGain) != 10 {
		t.Fatalf("len(PMGain) = %d, want 10", len(out.PMGain))
	}

	// Slot 0 never receives a pmgain write: nothing transitions into it.
	if out.PMGain[0] != 0 {
		t.Fatalf("PMGain[0] = %v, want 0 (no transition writes it)", out.PMGain[0])
	}

	// pmgain[k] reflects slot (k-1)'s LED mean, per the documented
	// one-slot lag.
	for k := 1; k < 10; k++ {
		want := dx * (100 + 10*float64(k-1))
		if !approxEqual(out.PMGain[k], want) {
			t.Fatalf("PMGain[%d] = %v, want %v", k, out.PMGain[k], want)
		}
	}

	// The non-LED filler pulse inside slot 5 (index 11: LED #5 at
	// index 10, filler at index 11) is rescaled by the coeff computed
	// at the transition into slot 6, which derives from PMGain[6].
	fillerIdx := 11
	wantCoeff := ref / out.PMGain[6]
	gotRescaled := totalInt[fillerIdx]
	wantRescaled := 1000.0 * wantCoeff
	if !approxEqual(gotRescaled, wantRescaled) {
		t.Fatalf("rescaled filler totalInt = %v, want %v", gotRescaled, wantRescaled)
	}
}

func TestCorrectEmpty(t *testing.T) {
	out := Correct(Input{}, Params{LEDdt: 1, LEDreference: 1, Dx: 1})
	if out.PMGain != nil || out.TimeLED != nil {
		t.Fatal("empty input should produce empty output")
	}
}

func TestTailPulsesNotRescaled(t *testing.T) {
	// Spec section 4.5: pulses after the last slot transition are never
	// rescaled. With a single slot (no transition ever fires), totalInt
	// must be left untouched.
	tEvents := []float64{0, 0.001, 0.002}
	totalInt := []float64{10, 20, 30}
	isLED := []bool{true, false, false}
	orig := append([]float64(nil), totalInt...)

	Correct(Input{TEvents: tEvents, TotalInt: totalInt, IsLED: isLED}, Params{LEDdt: 1, LEDreference: 100, Dx: 1})

	for i := range totalInt {
		if totalInt[i] != orig[i] {
			t.Fatalf("totalInt[%d] = %v, want unchanged %v (no slot transition fired)", i, totalInt[i], orig[i])
		}
	}
}
