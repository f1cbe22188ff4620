package rawstream

// repairPulse searches the small set of known ADC interleave faults and
// returns the merged sample sequence of minimum tension (sum of squared
// first differences), along with whether a non-trivial shift (j > 0) was
// applied. raw must have even length; it is the pulse's normalized
// (signed, polarity-corrected) waveform before any repair.
//
// Candidates, in the fixed order the spec enumerates them:
//
//	even family: interleave(even[j:], odd[:N-j])   for j in {1, 2}
//	odd  family: interleave(odd[j:],  even[:N-j])  for j in {0, 1, 2}
//
// where even[i] = raw[2i], odd[i] = raw[2i+1], N = len(raw)/2.
func repairPulse(raw []float64) (out []float64, shifted bool) {
	n := len(raw) / 2
	even := make([]float64, n)
	odd := make([]float64, n)
	for i := 0; i < n; i++ {
		even[i] = raw[2*i]
		odd[i] = raw[2*i+1]
	}

	type candidate struct {
		j        int
		shifted  bool
		merged   []float64
		tension  float64
		computed bool
	}

	build := func(a, b []float64, j int) []float64 {
		m := len(a)
		merged := make([]float64, 2*m)
		for i := 0; i < m; i++ {
			merged[2*i] = a[i]
			merged[2*i+1] = b[i]
		}
		return merged
	}

	var candidates []candidate
	for j := 1; j <= 2; j++ {
		if j > n {
			continue
		}
		a := even[j:]
		b := odd[:n-j]
		candidates = append(candidates, candidate{j: j, shifted: j > 0, merged: build(a, b, j)})
	}
	for j := 0; j <= 2; j++ {
		if j > n {
			continue
		}
		a := odd[j:]
		b := even[:n-j]
		candidates = append(candidates, candidate{j: j, shifted: j > 0, merged: build(a, b, j)})
	}

	best := -1
	bestTension := 0.0
	for i := range candidates {
		candidates[i].tension = tension(candidates[i].merged)
		if best == -1 || candidates[i].tension < bestTension {
			best = i
			bestTension = candidates[i].tension
		}
	}
	if best == -1 {
		return append([]float64(nil), raw...), false
	}
	return candidates[best].merged, candidates[best].shifted
}

// tension is the sum of squared first differences of a discrete sequence.
func tension(x []float64) float64 {
	sum := 0.0
	for i := 0; i+1 < len(x); i++ {
		d := x[i+1] - x[i]
		sum += d * d
	}
	return sum
}
