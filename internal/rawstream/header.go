package rawstream

// headerWordCount is the number of 16-bit words a pulse header occupies.
const headerWordCount = 4

// isHeader reports whether the four consecutive words starting at a
// candidate offset satisfy the pulse-header predicate:
//
//	H0 in {0,1,2}, H2 in {0,1,2}, H1+1 == H3
func isHeader(h0, h1, h2, h3 uint16) bool {
	if h0 > 2 || h2 > 2 {
		return false
	}
	return h1+1 == h3
}

// tdiffOf reconstructs the 32-bit inter-event time delta (10ns units)
// encoded by a header, from the raw (un-normalized) header words.
func tdiffOf(h0, h3 uint16) uint32 {
	return uint32(h3) + uint32(h0)*32768
}

// findHeaders scans words for every offset satisfying isHeader and
// returns their offsets in increasing order.
func findHeaders(words []uint16) []int {
	var boundaries []int
	n := len(words)
	for i := 0; i+3 < n; i++ {
		if isHeader(words[i], words[i+1], words[i+2], words[i+3]) {
			boundaries = append(boundaries, i)
		}
	}
	return boundaries
}
