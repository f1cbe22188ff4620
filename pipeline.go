package godpsd

import (
	"fmt"
	"os"

	"github.com/tardini/godpsd/internal/aggregate"
	"github.com/tardini/godpsd/internal/features"
	"github.com/tardini/godpsd/internal/ledcorrect"
	"github.com/tardini/godpsd/internal/parallel"
	"github.com/tardini/godpsd/internal/pileup"
	"github.com/tardini/godpsd/internal/psdclassify"
	"github.com/tardini/godpsd/internal/rawstream"
)

// Run executes the full analysis pipeline against one acquisition file
// and returns the classified events and aggregated histograms described
// by cfg.
//
// Stage order: raw decode and waveform repair, per-pulse feature
// extraction, an initial PSD pass (coordinates and LED flag only),
// pile-up detection, single-pass LED gain correction, a final
// classification pass with saturated > LED > pile-up > neutron/gamma
// priority, then histogram aggregation.
func Run(cfg Config) (*Result, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(cfg.HAfile); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingInput, cfg.HAfile)
	}
	if cfg.CheckMD5 {
		if _, err := os.Stat(cfg.HAfile + ".md5"); err != nil {
			return nil, fmt.Errorf("%w: %s.md5", ErrMissingInput, cfg.HAfile)
		}
	}

	data, err := os.ReadFile(cfg.HAfile)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingInput, cfg.HAfile, err)
	}

	decoded, err := rawstream.Decode(data, rawstream.Options{
		MinWinlen: cfg.MinWinlen,
		MaxWinlen: cfg.MaxWinlen,
	})
	if err != nil {
		return nil, err
	}
	if len(decoded.Pulses) == 0 {
		return nil, ErrMalformedStream
	}

	n := len(decoded.Pulses)
	featParams := features.Params{
		BaselineStart:    cfg.BaselineStart,
		BaselineEnd:      cfg.BaselineEnd,
		ToFWindowLength:  cfg.ToFWindowLength,
		ShortGate:        cfg.ShortGate,
		LongGate:         cfg.LongGate,
		MaxDifference:    cfg.MaxDifference,
		SaturationHigh:   cfg.SaturationHigh,
		SaturationLow:    cfg.SaturationLow,
		SubtractBaseline: cfg.SubtBaseline,
	}
	feats := make([]features.Result, n)
	parallel.For(n, func(i int) {
		p := decoded.Pulses[i]
		feats[i] = features.Compute(p.Samples, p.WinLen, featParams)
	})

	psdParams := psdclassify.Params{
		Marker:      cfg.Marker,
		PHnChannels: cfg.PHnChannels,
		PSnChannels: cfg.PSnChannels,
		LEDxmin:     cfg.LEDxmin,
		LEDxmax:     cfg.LEDxmax,
		LEDymin:     cfg.LEDymin,
		LEDymax:     cfg.LEDymax,
		LineChange:  cfg.LineChange,
		Slope1:      cfg.Slope1,
		Slope2:      cfg.Slope2,
		Offset:      cfg.Offset,
		DDlower:     cfg.DDlower,
		DDupper:     cfg.DDupper,
		DTlower:     cfg.DTlower,
		DTupper:     cfg.DTupper,
	}

	isLED := make([]bool, n)
	parallel.For(n, func(i int) {
		ph, ps := psdclassify.Coordinates(feats[i].TotalInt, feats[i].ShortInt, feats[i].LongInt, psdParams)
		isLED[i] = psdclassify.IsLED(ph, ps, psdParams)
	})

	pileupParams := pileup.Params{
		Front:     cfg.Front,
		Tail:      cfg.Tail,
		LEDFront:  cfg.LEDFront,
		LEDTail:   cfg.LEDTail,
		Threshold: cfg.Threshold,
	}
	isPileup := make([]bool, n)
	parallel.For(n, func(i int) {
		p := decoded.Pulses[i]
		peaks := pileup.Count(p.Samples, p.WinLen, isLED[i], pileupParams)
		isPileup[i] = peaks > 1
	})

	totalInt := make([]float64, n)
	tEvents := make([]float64, n)
	for i := range feats {
		totalInt[i] = feats[i].TotalInt
		tEvents[i] = decoded.Pulses[i].TEvent
	}

	var pmgain, timeLED []float64
	if cfg.LEDcorrection {
		out := ledcorrect.Correct(ledcorrect.Input{
			TEvents:  tEvents,
			TotalInt: totalInt,
			IsLED:    isLED,
		}, ledcorrect.Params{
			LEDdt:        cfg.LEDdt,
			LEDreference: cfg.LEDreference,
			Dx:           psdParams.Dx(),
		})
		pmgain, timeLED = out.PMGain, out.TimeLED
	}

	eventType := make([]EventType, n)
	ph := make([]float64, n)
	ps := make([]float64, n)
	events := make([]aggregate.Event, n)

	aggParams := aggregate.Params{
		TimeBin:     cfg.TimeBin,
		PHnChannels: cfg.PHnChannels,
		TBeg:        cfg.TBeg,
		TEnd:        cfg.TEnd,
		TRanges:     cfg.TRanges,
	}

	diag := Diagnostics{
		TotalPulses:    len(decoded.Pulses) + decoded.SkippedOdd + decoded.SkippedShort,
		SkippedOdd:     decoded.SkippedOdd,
		SkippedShort:   decoded.SkippedShort,
		RetainedPulses: n,
		RepairedPulses: len(decoded.Repaired),
	}

	for i := 0; i < n; i++ {
		p, s := psdclassify.Coordinates(totalInt[i], feats[i].ShortInt, feats[i].LongInt, psdParams)
		ph[i], ps[i] = p, s

		sat := feats[i].SatFlag
		led := isLED[i]
		pu := isPileup[i]
		neutron := psdclassify.IsNeutron(p, s, psdParams)

		var et EventType
		switch {
		case sat == 1:
			et = EventSatHigh
			diag.SaturatedPulses++
		case sat == 2:
			et = EventSatLow
			diag.SaturatedPulses++
		case led:
			et = EventLED
			diag.LEDPulses++
		case pu:
			et = EventPileup
			diag.PileupPulses++
		case neutron:
			et = EventNeutron
		default:
			et = EventGamma
		}
		eventType[i] = et

		events[i] = aggregate.Event{
			TEvent:      tEvents[i],
			PH:          p,
			IsNeutron:   et == EventNeutron,
			IsGamma:     et == EventGamma,
			IsLED:       et == EventLED,
			IsPileup:    et == EventPileup,
			IsSaturated: et == EventSatHigh || et == EventSatLow,
			IsPhys:      et == EventNeutron || et == EventGamma,
			IsDD:        et == EventNeutron && psdclassify.InDD(p, psdParams),
			IsDT:        et == EventNeutron && psdclassify.InDT(p, psdParams),
		}
	}

	agg := aggregate.Run(events, aggParams)

	return &Result{
		TEvent:      tEvents,
		PH:          ph,
		PS:          ps,
		EventType:   eventType,
		PMGain:      pmgain,
		TimeLED:     timeLED,
		TimeCnt:     agg.TimeCnt,
		Cnt:         agg.Cnt,
		Phs:         agg.Phs,
		Diagnostics: diag,
	}, nil
}
