package rawstream

// normalizeSample converts one raw 16-bit ADC code into the physical,
// positive-going waveform value: reinterpret as signed, correct the
// known wraparound, then negate.
func normalizeSample(word uint16) float64 {
	v := int32(word) - 32768
	if v > 8192 {
		v -= 16384
	}
	return float64(-v)
}

func normalizeSamples(words []uint16) []float64 {
	out := make([]float64, len(words))
	for i, w := range words {
		out[i] = normalizeSample(w)
	}
	return out
}
