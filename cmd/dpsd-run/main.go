// Command dpsd-run runs the godpsd analysis pipeline against one or
// more acquisition files and prints a diagnostic summary.
//
// Usage:
//
//	dpsd-run --hafile /path/to/HA_12345.dat [flags]
//	dpsd-run --shots 12345,12346,12347 --template '/data/%Y/HA_%shot5.dat' [flags]
//	dpsd-run --config run.yaml --hafile /path/to/HA_12345.dat
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/tardini/godpsd"
)

func main() {
	cfg, opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "dpsd-run:", err)
		os.Exit(2)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if opts.verbose {
		logger.SetLevel(log.DebugLevel)
	}

	results, err := runAll(cfg, opts, logger)
	if err != nil {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}

	summarize(logger, results)
}

// runAll resolves -hafile/-shots into one or more Config values and runs
// the core pipeline against each in turn, concatenating the retained
// pulse streams: the time axis keeps increasing across files, matching
// the original tool's multi-shot behavior. This is pure CLI
// orchestration over repeated calls to godpsd.Run; no core semantics
// are added here.
func runAll(base godpsd.Config, opts cliOptions, logger *log.Logger) ([]*godpsd.Result, error) {
	if len(opts.shots) == 0 || base.HAfile != "" {
		if base.HAfile == "" {
			return nil, fmt.Errorf("no --hafile and no --shots given")
		}
		logger.Info("running", "hafile", base.HAfile)
		res, err := godpsd.Run(base)
		if err != nil {
			return nil, err
		}
		return []*godpsd.Result{res}, nil
	}

	if opts.pathTemplate == "" {
		return nil, fmt.Errorf("--shots requires --template")
	}

	results := make([]*godpsd.Result, 0, len(opts.shots))
	var tOffset float64
	for _, shot := range opts.shots {
		path, err := shotPath(opts.pathTemplate, shot)
		if err != nil {
			return nil, err
		}
		cfg := base
		cfg.HAfile = path
		logger.Info("running shot", "shot", shot, "hafile", path)

		res, err := godpsd.Run(cfg)
		if err != nil {
			return nil, fmt.Errorf("shot %d (%s): %w", shot, path, err)
		}
		offsetResult(res, tOffset)
		if n := len(res.TEvent); n > 0 {
			tOffset = res.TEvent[n-1]
		}
		results = append(results, res)
	}
	return results, nil
}

// offsetResult shifts every per-pulse timestamp in res forward by dt, so
// consecutive shots concatenate onto a single monotonic time axis.
func offsetResult(res *godpsd.Result, dt float64) {
	if dt == 0 {
		return
	}
	for i := range res.TEvent {
		res.TEvent[i] += dt
	}
	for i := range res.TimeLED {
		res.TimeLED[i] += dt
	}
	for i := range res.TimeCnt {
		res.TimeCnt[i] += dt
	}
}

// summarize logs the end-of-run diagnostic counters the original
// dpsd_run.py prints after each shot, once per processed file.
func summarize(logger *log.Logger, results []*godpsd.Result) {
	for i, res := range results {
		d := res.Diagnostics
		logger.Info("run summary",
			"shot_index", i,
			"total_pulses", d.TotalPulses,
			"retained", d.RetainedPulses,
			"repaired", d.RepairedPulses,
			"skipped_odd", d.SkippedOdd,
			"skipped_short", d.SkippedShort,
			"led", d.LEDPulses,
			"pileup", d.PileupPulses,
			"saturated", d.SaturatedPulses,
		)
	}
}
