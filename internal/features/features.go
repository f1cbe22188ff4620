// Package features implements the per-pulse feature extractor: baseline
// estimation and subtraction, saturation detection, the dynamic
// integration endpoint search, and the short/long/total trapezoidal
// integrals (spec section 4.2).
package features

import "github.com/tardini/godpsd/internal/trapz"

// Params holds the subset of Config that Compute needs.
type Params struct {
	BaselineStart    int
	BaselineEnd      int
	ToFWindowLength  int
	ShortGate        int
	LongGate         int
	MaxDifference    float64
	SaturationHigh   float64
	SaturationLow    float64
	SubtractBaseline bool
}

// Result holds the derived per-pulse features of spec section 3.
type Result struct {
	Baseline float64
	MaxPos   int
	PulseMax float64
	ShortInt float64
	LongInt  float64
	TotalInt float64
	SatFlag  int // 0 none, 1 high, 2 low
}

// Compute extracts features from one decoded pulse. samples is the raw
// (not yet baseline-subtracted) repaired waveform of length >= winlen;
// only samples[0:winlen] is read.
func Compute(samples []float64, winlen int, p Params) Result {
	waveform := make([]float64, winlen)
	copy(waveform, samples[:winlen])

	l := winlen
	if p.ToFWindowLength < l {
		l = p.ToFWindowLength
	}

	baseline := computeBaseline(waveform, l, p.BaselineStart, p.BaselineEnd)
	if p.SubtractBaseline {
		for i := range waveform {
			waveform[i] -= baseline
		}
	}

	maxPos, pulseMax := argmax(waveform, l)
	sat := saturation(waveform, l, p.SaturationHigh, p.SaturationLow)

	newlen := integrationEndpoint(waveform, l, winlen, maxPos, p.BaselineStart, p.LongGate, p.MaxDifference)

	maxSG := maxPos + p.ShortGate
	if maxSG > winlen {
		maxSG = winlen
	}
	maxLG := maxPos + p.LongGate
	if maxLG > winlen {
		maxLG = winlen
	}

	return Result{
		Baseline: baseline,
		MaxPos:   maxPos,
		PulseMax: pulseMax,
		ShortInt: trapz.Trapz(waveform, maxPos, maxSG),
		LongInt:  trapz.Trapz(waveform, maxPos, maxLG),
		TotalInt: trapz.Trapz(waveform, 0, newlen),
		SatFlag:  sat,
	}
}

// computeBaseline averages the set union of {0..baselineStart-1} and
// {l-baselineEnd..l-1}, without double-counting indices present in both
// (which happens when the two ranges touch or overlap).
func computeBaseline(waveform []float64, l, baselineStart, baselineEnd int) float64 {
	included := make([]bool, l)
	for i := 0; i < baselineStart && i < l; i++ {
		included[i] = true
	}
	for i := l - baselineEnd; i < l; i++ {
		if i >= 0 {
			included[i] = true
		}
	}
	sum := 0.0
	count := 0
	for i, inc := range included {
		if inc {
			sum += waveform[i]
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func argmax(waveform []float64, l int) (pos int, value float64) {
	if l <= 0 {
		return 0, 0
	}
	pos, value = 0, waveform[0]
	for i := 1; i < l; i++ {
		if waveform[i] > value {
			pos, value = i, waveform[i]
		}
	}
	return pos, value
}

// saturation applies the high flag first, then lets the low flag
// overwrite it: a pulse that trips both the high and low thresholds is
// reported as low-saturated (sat == 2). Spec section 9 leaves this case
// unresolved and permits either precedence; this picks one deterministically.
func saturation(waveform []float64, l int, high, low float64) int {
	sat := 0
	maxV, minV := waveform[0], waveform[0]
	for i := 1; i < l; i++ {
		if waveform[i] > maxV {
			maxV = waveform[i]
		}
		if waveform[i] < minV {
			minV = waveform[i]
		}
	}
	if maxV > high {
		sat = 1
	}
	if minV < low {
		sat = 2
	}
	return sat
}

// integrationEndpoint implements "BaselineCond2": search forward from
// the pulse maximum for the first trailing window whose mean returns
// close enough to the leading baseline window's mean.
func integrationEndpoint(waveform []float64, l, winlen, maxPos, baselineStart, longGate int, maxDifference float64) int {
	bs := baselineStart
	bh := bs / 2
	pbs := l - bs

	maxLG := maxPos + longGate
	if maxLG > winlen {
		maxLG = winlen
	}

	if pbs >= maxPos {
		return l - bh
	}

	aver1 := trapz.Mean(waveform, 0, bs)
	for j := maxPos; j < pbs; j++ {
		aver2 := trapz.Mean(waveform, j, j+bs)
		if abs(aver2-aver1) < maxDifference {
			newlen := j + bh
			if maxLG > newlen {
				newlen = maxLG
			}
			return newlen
		}
	}
	return l - bh
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
