package rawstream

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func wordsToBytes(words []uint16) []byte {
	buf := make([]byte, 2*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint16(buf[2*i:2*i+2], w)
	}
	return buf
}

// TestRoundTripTdiff reproduces spec section 8's round-trip property:
// three headers (0,10,0,11), (1,20,1,21), (2,30,2,31) with trivial
// two-word payloads yield tdiff = [11, 32768+21, 65536+31] and
// cumulative t_events scaled by 1e-8.
func TestRoundTripTdiff(t *testing.T) {
	words := []uint16{
		0, 10, 0, 11, 99, 98, // header 1 + 2-word payload
		1, 20, 1, 21, 99, 98, // header 2 + 2-word payload
		2, 30, 2, 31, 99, 98, // header 3 + 2-word payload (extends to EOF)
	}
	res, err := Decode(wordsToBytes(words), Options{MinWinlen: 0})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(res.Pulses) != 3 {
		t.Fatalf("got %d pulses, want 3", len(res.Pulses))
	}

	wantTdiff := []uint64{11, 32768 + 21, 65536 + 31}
	cum := uint64(0)
	for i, td := range wantTdiff {
		cum += td
		want := 1e-8 * float64(cum)
		if math.Abs(res.Pulses[i].TEvent-want) > 1e-15 {
			t.Fatalf("pulse %d TEvent = %v, want %v", i, res.Pulses[i].TEvent, want)
		}
	}
}

func TestWindowFilterDiscardsOddAndShort(t *testing.T) {
	// First pulse: winlen = 3 (odd) -> discarded.
	// Second pulse: winlen = 2, MinWinlen = 2 -> discarded (winlen <= MinWinlen).
	// Third pulse: winlen = 4 -> retained.
	words := []uint16{
		0, 1, 0, 2, 10, 20, 30, // header + 3-word payload (odd)
		0, 1, 0, 2, 10, 20, // header + 2-word payload
		0, 1, 0, 2, 10, 20, 30, 40, // header + 4-word payload (EOF)
	}
	res, err := Decode(wordsToBytes(words), Options{MinWinlen: 2})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if res.SkippedOdd != 1 {
		t.Fatalf("SkippedOdd = %d, want 1", res.SkippedOdd)
	}
	if res.SkippedShort != 1 {
		t.Fatalf("SkippedShort = %d, want 1", res.SkippedShort)
	}
	if len(res.Pulses) != 1 {
		t.Fatalf("got %d pulses, want 1", len(res.Pulses))
	}
	if res.Pulses[0].WinLen != 4 {
		t.Fatalf("WinLen = %d, want 4", res.Pulses[0].WinLen)
	}
}

func TestNoHeadersIsNotAnError(t *testing.T) {
	words := []uint16{5, 5, 5, 5, 5, 5}
	res, err := Decode(wordsToBytes(words), Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(res.Pulses) != 0 {
		t.Fatalf("got %d pulses, want 0", len(res.Pulses))
	}
}

func TestMonotonicTEvents(t *testing.T) {
	words := []uint16{
		0, 1, 0, 2, 1, 2, 3, 4,
		1, 5, 1, 6, 1, 2, 3, 4,
		2, 9, 2, 10, 1, 2, 3, 4,
	}
	res, err := Decode(wordsToBytes(words), Options{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i := 1; i < len(res.Pulses); i++ {
		if res.Pulses[i].TEvent < res.Pulses[i-1].TEvent {
			t.Fatalf("t_events not monotonic at %d", i)
		}
	}
}

// TestMonotonicTEventsProperty generalizes TestMonotonicTEvents (spec
// section 8's "t_events monotonicity" invariant) to arbitrary header
// sequences with random tdiff and payload lengths.
func TestMonotonicTEventsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nHeaders := rapid.IntRange(1, 12).Draw(t, "nHeaders")

		var words []uint16
		for i := 0; i < nHeaders; i++ {
			h1 := rapid.Uint16Range(0, 30000).Draw(t, "h1")
			payloadLen := rapid.IntRange(0, 6).Draw(t, "payloadLen") * 2 // keep it even
			words = append(words, 0, h1, 0, h1+1)
			for j := 0; j < payloadLen; j++ {
				words = append(words, rapid.Uint16Range(0, 65535).Draw(t, "sample"))
			}
		}

		res, err := Decode(wordsToBytes(words), Options{})
		assert.NoError(t, err)

		for i := 1; i < len(res.Pulses); i++ {
			assert.GreaterOrEqualf(t, res.Pulses[i].TEvent, res.Pulses[i-1].TEvent,
				"t_events not monotonic at pulse %d", i)
		}
	})
}
