// Package ledcorrect implements the single-pass, time-ordered LED gain
// correction fold: it estimates photomultiplier gain from LED reference
// pulses in each time slot and rescales every pulse accumulated since
// the previous slot transition, LED pulses included (spec section 4.5).
//
// This stage is strictly sequential. Its in-place rescaling of
// TotalInt[mark:i] is an essential, order-dependent side effect and must
// never run concurrently with itself.
package ledcorrect

import "math"

// Params holds the subset of Config that Correct needs.
type Params struct {
	LEDdt        float64
	LEDreference float64
	Dx           float64 // PH_nChannels / Marker
}

// Input is mutated in place: TotalInt is rescaled by the running LED
// coefficient as the fold advances.
type Input struct {
	TEvents  []float64
	TotalInt []float64
	IsLED    []bool
}

// Output carries the derived gain trace.
type Output struct {
	PMGain  []float64
	TimeLED []float64
}

// Correct runs the fold described in spec section 4.5 and returns the
// per-slot gain trace. TEvents must already be sorted non-decreasing.
//
// Known, deliberately preserved quirks (spec section 9):
//   - pmgain[slot] is written using the PREVIOUS slot's accumulated
//     LED stats, at the index of the NEW slot — a one-slot lag.
//   - Pulses after the last slot transition are never rescaled, because
//     the closing branch only fires when slot[i] > slot_prev.
//   - When a slot's LED sum is zero, coeff is left unchanged rather than
//     reset, so the last valid coefficient continues to be applied —
//     this matches spec section 7's "last valid coeff continues in
//     use", which is the authoritative statement over the illustrative
//     "coeff = 0" reset listed in the section 4.5 walkthrough; see
//     DESIGN.md.
func Correct(in Input, p Params) Output {
	n := len(in.TEvents)
	if n == 0 {
		return Output{}
	}

	slots := make([]int, n)
	maxSlot := 0
	t0 := in.TEvents[0]
	for i, t := range in.TEvents {
		s := int(math.Floor((t - t0) / p.LEDdt))
		slots[i] = s
		if s > maxSlot {
			maxSlot = s
		}
	}

	pmgain := make([]float64, maxSlot+1)
	timeLED := make([]float64, maxSlot+1)
	for k := range timeLED {
		timeLED[k] = t0 + p.LEDdt*(float64(k)+0.5)
	}

	sum, count := 0.0, 0
	coeff := 0.0
	mark := 0
	slotPrev := 0

	for i := 0; i < n; i++ {
		if slots[i] > slotPrev {
			if count > 0 {
				pmgain[slots[i]] = p.Dx * sum / float64(count)
			}
			if sum > 0 && pmgain[slots[i]] != 0 {
				coeff = p.LEDreference / pmgain[slots[i]]
			}
			for k := mark; k < i; k++ {
				in.TotalInt[k] *= coeff
			}
			mark = i
			sum, count = 0, 0
		}

		if in.IsLED[i] {
			sum += in.TotalInt[i]
			count++
		}
		slotPrev = slots[i]
	}

	return Output{PMGain: pmgain, TimeLED: timeLED}
}
