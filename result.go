package godpsd

// EventType encodes the final classification of one retained pulse,
// after saturation/LED/pile-up/neutron-gamma priority resolution (spec
// section 4.4).
type EventType int

const (
	EventOther   EventType = -1
	EventNeutron EventType = 0
	EventGamma   EventType = 1
	EventPileup  EventType = 2
	EventLED     EventType = 3
	EventSatLow  EventType = 4
	EventSatHigh EventType = 5
)

// Diagnostics reports counters useful for sanity-checking a run; none
// of them affect Result's histograms.
type Diagnostics struct {
	TotalPulses     int // headers detected, before any filtering
	SkippedOdd      int // candidate windows discarded for odd winlen
	SkippedShort    int // candidate windows discarded for winlen <= MinWinlen
	RetainedPulses  int
	RepairedPulses  int // pulses that needed a non-trivial interleave shift
	LEDPulses       int
	PileupPulses    int
	SaturatedPulses int
}

// Result is the full output of Run: per-pulse classification arrays
// (indexed identically to the retained pulse order) plus the aggregated
// histograms of spec section 6.3.
type Result struct {
	TEvent    []float64
	PH        []float64
	PS        []float64
	EventType []EventType

	PMGain  []float64
	TimeLED []float64

	TimeCnt []float64
	Cnt     map[string][]float64
	Phs     map[string][]float64

	Diagnostics Diagnostics
}
