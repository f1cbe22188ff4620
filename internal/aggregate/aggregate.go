// Package aggregate implements the histogram aggregator: time-binned
// count rates and pulse-height spectra per event class, plus the
// pile-up-corrected rate estimate (spec section 4.6).
package aggregate

import "math"

// Spec-recognized class names, matching spec section 4.6's list plus the
// pile-up-upscaled derived rates.
const (
	SpecNeut1  = "neut1"
	SpecGamma1 = "gamma1"
	SpecLED    = "led"
	SpecPileup = "pileup"
	SpecSat    = "sat"
	SpecPhys   = "phys"
	SpecDD     = "DD"
	SpecDT     = "DT"
	SpecNeut2  = "neut2"
	SpecGamma2 = "gamma2"
)

var baseSpecs = []string{SpecNeut1, SpecGamma1, SpecLED, SpecPileup, SpecSat, SpecPhys, SpecDD, SpecDT}

// Event is one classified pulse as seen by the aggregator.
type Event struct {
	TEvent      float64
	PH          float64
	IsNeutron   bool
	IsGamma     bool
	IsLED       bool
	IsPileup    bool
	IsSaturated bool
	IsPhys      bool
	IsDD        bool
	IsDT        bool
}

func (e Event) in(spec string) bool {
	switch spec {
	case SpecNeut1:
		return e.IsNeutron
	case SpecGamma1:
		return e.IsGamma
	case SpecLED:
		return e.IsLED
	case SpecPileup:
		return e.IsPileup
	case SpecSat:
		return e.IsSaturated
	case SpecPhys:
		return e.IsPhys
	case SpecDD:
		return e.IsDD
	case SpecDT:
		return e.IsDT
	default:
		return false
	}
}

// Params holds the subset of Config that Run needs.
type Params struct {
	TimeBin     float64
	PHnChannels int
	TBeg        float64
	TEnd        float64 // <=0 means "until last event"
	TRanges     [][2]float64
}

// Result holds the time-binned rates and PH spectra per class.
type Result struct {
	TimeCnt []float64
	Cnt     map[string][]float64
	Phs     map[string][]float64
}

// Run aggregates events into time-rate histograms and PH spectra. events
// must be sorted by TEvent ascending (the pipeline guarantees this).
// An empty selection is not an error: Run returns a Result with
// zero-length histograms.
func Run(events []Event, p Params) Result {
	selected, dt := selectTimeWindow(events, p)
	if len(selected) == 0 {
		return Result{Cnt: map[string][]float64{}, Phs: map[string][]float64{}}
	}

	tFirst := selected[0].TEvent
	tLast := selected[len(selected)-1].TEvent
	nT := 0
	if p.TimeBin > 0 {
		nT = int((tLast - tFirst) / p.TimeBin)
	}

	timeCnt := make([]float64, nT)
	for k := range timeCnt {
		timeCnt[k] = tFirst + p.TimeBin*(0.5+float64(k))
	}

	cnt := map[string][]float64{}
	phs := map[string][]float64{}
	nx := p.PHnChannels

	for _, spec := range baseSpecs {
		cntBins := make([]float64, nT)
		phsBins := make([]float64, nx)
		for _, e := range selected {
			if !e.in(spec) {
				continue
			}
			if k := timeBin(e.TEvent, tFirst, p.TimeBin, nT); k >= 0 {
				cntBins[k]++
			}
			if j := phBin(e.PH, nx); j >= 0 {
				phsBins[j]++
			}
		}
		for k := range cntBins {
			cntBins[k] /= p.TimeBin
		}
		if dt > 0 {
			for j := range phsBins {
				phsBins[j] /= dt
			}
		}
		cnt[spec] = cntBins
		phs[spec] = phsBins
	}

	applyPileupUpscale(cnt, nT)
	applyPileupUpscale(phs, nx)

	return Result{TimeCnt: timeCnt, Cnt: cnt, Phs: phs}
}

// applyPileupUpscale derives neut2/gamma2 from neut1/gamma1 assuming
// every pile-up event contains exactly two physics events.
func applyPileupUpscale(hist map[string][]float64, n int) {
	neut1, gamma1, led, pu := hist[SpecNeut1], hist[SpecGamma1], hist[SpecLED], hist[SpecPileup]
	neut2 := make([]float64, n)
	gamma2 := make([]float64, n)
	for i := 0; i < n; i++ {
		total := neut1[i] + gamma1[i] + led[i]
		pupFrac := 1.0
		if total > 0 {
			pupFrac = 1 + 2*pu[i]/total
		}
		neut2[i] = pupFrac * neut1[i]
		gamma2[i] = pupFrac * gamma1[i]
	}
	hist[SpecNeut2] = neut2
	hist[SpecGamma2] = gamma2
}

func timeBin(t, tFirst, binWidth float64, nT int) int {
	if binWidth <= 0 {
		return -1
	}
	k := int((t - tFirst) / binWidth)
	if k < 0 || k >= nT {
		return -1
	}
	return k
}

// phBin digitizes a PH value into one of nx channels, centered on
// integers 0..nx-1 (edges at half-integers), dropping out-of-range
// overflow rather than clipping it into an edge bin.
func phBin(ph float64, nx int) int {
	if nx <= 0 {
		return -1
	}
	j := int(math.Floor(ph + 0.5))
	if j < 0 || j >= nx {
		return -1
	}
	return j
}

// selectTimeWindow returns the events falling within the configured
// time selection (a single [TBeg,TEnd] interval, or the union of
// Params.TRanges when non-empty) in their original order, along with
// the total selected duration used to normalize PH spectra.
func selectTimeWindow(events []Event, p Params) (selected []Event, dt float64) {
	if len(p.TRanges) > 0 {
		for _, r := range p.TRanges {
			dt += r[1] - r[0]
		}
		for _, e := range events {
			for _, r := range p.TRanges {
				if e.TEvent >= r[0] && e.TEvent <= r[1] {
					selected = append(selected, e)
					break
				}
			}
		}
		return selected, dt
	}

	tEnd := p.TEnd
	if tEnd <= 0 && len(events) > 0 {
		tEnd = events[len(events)-1].TEvent
	}
	dt = tEnd - p.TBeg
	for _, e := range events {
		if e.TEvent >= p.TBeg && e.TEvent <= tEnd {
			selected = append(selected, e)
		}
	}
	return selected, dt
}
