// Package rawstream implements the acquisition-file decoder (RawDecoder)
// and the per-pulse ADC interleave repair (WaveformRepair) described in
// spec sections 4.1 and 6.1: a flat sequence of 16-bit little-endian
// words, pulse headers identified by a fixed predicate, payloads
// normalized to a physical positive-going waveform, and a minimum-tension
// heuristic that undoes a known even/odd sample-lane fault.
package rawstream

import (
	"encoding/binary"
)

// Options configures Decode.
type Options struct {
	// MinWinlen: pulses with winlen <= MinWinlen are discarded.
	MinWinlen int
	// MaxWinlen is the row width samples are left-aligned and
	// zero-padded into. 0 means use the largest retained winlen in
	// this file.
	MaxWinlen int
}

// Pulse is one retained, repaired, decoded waveform window.
type Pulse struct {
	TEvent  float64   // seconds, cumulative from the start of the file
	WinLen  int       // nominal retained window length (samples)
	Samples []float64 // length Result.MaxWinLen: repaired, normalized waveform, zero-padded tail
}

// Result is the full decode of one acquisition file.
type Result struct {
	Pulses       []Pulse
	Repaired     map[int]bool // indices into Pulses that needed a non-trivial interleave shift
	SkippedOdd   int          // candidate windows discarded for odd winlen
	SkippedShort int          // candidate windows discarded for winlen <= 0 or <= MinWinlen
	MaxWinLen    int
}

// Decode parses a full acquisition file already read into memory.
func Decode(data []byte, opts Options) (*Result, error) {
	words := bytesToWords(data)
	boundaries := findHeaders(words)
	if len(boundaries) == 0 {
		return &Result{Repaired: map[int]bool{}}, nil
	}

	// tdiff/cumulative t_events are reconstructed over every detected
	// header, not just the ones later retained by the window filter.
	tEvents := make([]float64, len(boundaries))
	cum := uint64(0)
	for i, b := range boundaries {
		h0, _, _, h3 := words[b], words[b+1], words[b+2], words[b+3]
		cum += uint64(tdiffOf(h0, h3))
		tEvents[i] = 1e-8 * float64(cum)
	}

	res := &Result{Repaired: map[int]bool{}}
	maxWinlen := opts.MaxWinlen

	type raw struct {
		tEvent float64
		winlen int
		samps  []float64
	}
	var kept []raw

	for i, b := range boundaries {
		var end int
		if i+1 < len(boundaries) {
			end = boundaries[i+1]
		} else {
			end = len(words)
		}
		winlen := end - b - headerWordCount
		if winlen%2 != 0 {
			res.SkippedOdd++
			continue
		}
		if winlen <= 0 || winlen <= opts.MinWinlen {
			res.SkippedShort++
			continue
		}

		payloadStart := b + headerWordCount
		payloadWords := words[payloadStart : payloadStart+winlen]
		normalized := normalizeSamples(payloadWords)
		repaired, shifted := repairPulse(normalized)

		samps := make([]float64, winlen)
		copy(samps, repaired) // left-align; zero-pad if repaired is shorter than winlen

		idx := len(kept)
		if shifted {
			res.Repaired[idx] = true
		}
		kept = append(kept, raw{tEvent: tEvents[i], winlen: winlen, samps: samps})

		if winlen > maxWinlen {
			maxWinlen = winlen
		}
	}

	res.MaxWinLen = maxWinlen
	res.Pulses = make([]Pulse, len(kept))
	for i, k := range kept {
		row := make([]float64, maxWinlen)
		copy(row, k.samps)
		res.Pulses[i] = Pulse{TEvent: k.tEvent, WinLen: k.winlen, Samples: row}
	}
	return res, nil
}

func bytesToWords(data []byte) []uint16 {
	n := len(data) / 2
	words := make([]uint16, n)
	for i := 0; i < n; i++ {
		words[i] = binary.LittleEndian.Uint16(data[2*i : 2*i+2])
	}
	return words
}
