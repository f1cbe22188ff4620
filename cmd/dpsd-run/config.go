package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/tardini/godpsd"
)

// fileConfig mirrors the subset of godpsd.Config that a YAML parameter
// file may set, the same role samoyed's deviceid.yaml mapping plays for
// its own config: the core package itself carries no file-format
// concept (that is a spec Non-goal), so the tag-bearing struct lives
// here in the CLI layer.
type fileConfig struct {
	MinWinlen int `yaml:"min_winlen"`
	MaxWinlen int `yaml:"max_winlen"`

	TimeBin         float64      `yaml:"time_bin"`
	TBeg            float64      `yaml:"t_beg"`
	TEnd            float64      `yaml:"t_end"`
	TRanges         [][2]float64 `yaml:"t_ranges"`
	ToFWindowLength int          `yaml:"tof_window_length"`

	BaselineStart  int     `yaml:"baseline_start"`
	BaselineEnd    int     `yaml:"baseline_end"`
	Threshold      float64 `yaml:"threshold"`
	Front          int     `yaml:"front"`
	Tail           int     `yaml:"tail"`
	SaturationHigh float64 `yaml:"saturation_high"`
	SaturationLow  float64 `yaml:"saturation_low"`
	ShortGate      int     `yaml:"short_gate"`
	LongGate       int     `yaml:"long_gate"`
	MaxDifference  float64 `yaml:"max_difference"`
	SubtBaseline   bool    `yaml:"subtract_baseline"`

	Marker      int     `yaml:"marker"`
	PHnChannels int     `yaml:"ph_channels"`
	PSnChannels int     `yaml:"ps_channels"`
	DDlower     int     `yaml:"dd_lower"`
	DDupper     int     `yaml:"dd_upper"`
	DTlower     int     `yaml:"dt_lower"`
	DTupper     int     `yaml:"dt_upper"`
	LineChange  int     `yaml:"line_change"`
	Slope1      float64 `yaml:"slope1"`
	Slope2      float64 `yaml:"slope2"`
	Offset      float64 `yaml:"offset"`

	LEDcorrection bool    `yaml:"led_correction"`
	LEDdt         float64 `yaml:"led_dt"`
	LEDFront      int     `yaml:"led_front"`
	LEDTail       int     `yaml:"led_tail"`
	LEDreference  float64 `yaml:"led_reference"`
	LEDxmin       int     `yaml:"led_xmin"`
	LEDxmax       int     `yaml:"led_xmax"`
	LEDymin       int     `yaml:"led_ymin"`
	LEDymax       int     `yaml:"led_ymax"`
}

func (fc fileConfig) apply(cfg *godpsd.Config) {
	cfg.MinWinlen = fc.MinWinlen
	cfg.MaxWinlen = fc.MaxWinlen
	cfg.TimeBin = fc.TimeBin
	cfg.TBeg = fc.TBeg
	cfg.TEnd = fc.TEnd
	cfg.TRanges = fc.TRanges
	cfg.ToFWindowLength = fc.ToFWindowLength
	cfg.BaselineStart = fc.BaselineStart
	cfg.BaselineEnd = fc.BaselineEnd
	cfg.Threshold = fc.Threshold
	cfg.Front = fc.Front
	cfg.Tail = fc.Tail
	cfg.SaturationHigh = fc.SaturationHigh
	cfg.SaturationLow = fc.SaturationLow
	cfg.ShortGate = fc.ShortGate
	cfg.LongGate = fc.LongGate
	cfg.MaxDifference = fc.MaxDifference
	cfg.SubtBaseline = fc.SubtBaseline
	cfg.Marker = fc.Marker
	cfg.PHnChannels = fc.PHnChannels
	cfg.PSnChannels = fc.PSnChannels
	cfg.DDlower = fc.DDlower
	cfg.DDupper = fc.DDupper
	cfg.DTlower = fc.DTlower
	cfg.DTupper = fc.DTupper
	cfg.LineChange = fc.LineChange
	cfg.Slope1 = fc.Slope1
	cfg.Slope2 = fc.Slope2
	cfg.Offset = fc.Offset
	cfg.LEDcorrection = fc.LEDcorrection
	cfg.LEDdt = fc.LEDdt
	cfg.LEDFront = fc.LEDFront
	cfg.LEDTail = fc.LEDTail
	cfg.LEDreference = fc.LEDreference
	cfg.LEDxmin = fc.LEDxmin
	cfg.LEDxmax = fc.LEDxmax
	cfg.LEDymin = fc.LEDymin
	cfg.LEDymax = fc.LEDymax
}

// defaultConfig returns the CLI's baseline parameter set, overridden in
// turn by an optional YAML file and then by explicit flags.
func defaultConfig() godpsd.Config {
	return godpsd.Config{
		MinWinlen:       0,
		TimeBin:         1e-3,
		ToFWindowLength: 60,
		BaselineStart:   10,
		BaselineEnd:     10,
		Threshold:       50,
		Front:           4,
		Tail:            4,
		SaturationHigh:  8000,
		SaturationLow:   -8000,
		ShortGate:       8,
		LongGate:        40,
		MaxDifference:   5,
		Marker:          8192,
		PHnChannels:     2048,
		PSnChannels:     2048,
		LineChange:      500,
		Slope1:          0.5,
		Slope2:          0.2,
		Offset:          0,
		LEDdt:           1.0,
		LEDFront:        4,
		LEDTail:         4,
		LEDreference:    100,
	}
}

// cliOptions holds the flags that drive CLI-only orchestration
// (file location and multi-shot concatenation) rather than core
// analysis parameters.
type cliOptions struct {
	configFile   string
	haFile       string
	shots        []int
	pathTemplate string
	checkMD5     bool
	verbose      bool
}

// parseFlags parses os.Args[1:] in two passes: first to discover
// --config, then — after layering any YAML file on top of
// defaultConfig() — to bind every flag against the resulting values, so
// an explicit flag always wins over the file and the file always wins
// over the built-in default.
func parseFlags(args []string) (godpsd.Config, cliOptions, error) {
	pre := pflag.NewFlagSet("dpsd-run-pre", pflag.ContinueOnError)
	pre.ParseErrorsWhitelist.UnknownFlags = true
	configFile := pre.String("config", "", "YAML parameter file")
	if err := pre.Parse(args); err != nil {
		return godpsd.Config{}, cliOptions{}, err
	}

	cfg := defaultConfig()
	if *configFile != "" {
		data, err := os.ReadFile(*configFile)
		if err != nil {
			return godpsd.Config{}, cliOptions{}, fmt.Errorf("reading config file %s: %w", *configFile, err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return godpsd.Config{}, cliOptions{}, fmt.Errorf("parsing config file %s: %w", *configFile, err)
		}
		fc.apply(&cfg)
	}

	fs := pflag.NewFlagSet("dpsd-run", pflag.ExitOnError)
	var opts cliOptions
	opts.configFile = *configFile

	fs.StringVar(&opts.haFile, "hafile", "", "acquisition file path (overrides --shots/--template)")
	var shotsStr string
	fs.StringVar(&shotsStr, "shots", "", "comma-separated shot numbers, e.g. 12345,12346")
	fs.StringVar(&opts.pathTemplate, "template", "", "strftime-style path template used to derive each --shots entry's HA file")
	fs.BoolVar(&opts.checkMD5, "check-md5", false, "require an HAfile.md5 sidecar to exist")
	fs.BoolVar(&opts.verbose, "verbose", false, "log debug-level run progress")

	fs.Float64Var(&cfg.TimeBin, "time-bin", cfg.TimeBin, "time-bin width, s")
	fs.Float64Var(&cfg.TBeg, "t-beg", cfg.TBeg, "selected interval start, s")
	fs.Float64Var(&cfg.TEnd, "t-end", cfg.TEnd, "selected interval end, s (<=0 means until last event)")
	fs.IntVar(&cfg.MinWinlen, "min-winlen", cfg.MinWinlen, "discard pulses with winlen <= this")
	fs.IntVar(&cfg.MaxWinlen, "max-winlen", cfg.MaxWinlen, "sample row width; 0 = per-file max")
	fs.IntVar(&cfg.ToFWindowLength, "tof-window-length", cfg.ToFWindowLength, "effective pulse length used by Features")
	fs.IntVar(&cfg.BaselineStart, "baseline-start", cfg.BaselineStart, "leading baseline window length")
	fs.IntVar(&cfg.BaselineEnd, "baseline-end", cfg.BaselineEnd, "trailing baseline window length")
	fs.Float64Var(&cfg.Threshold, "threshold", cfg.Threshold, "pile-up peak threshold")
	fs.IntVar(&cfg.Front, "front", cfg.Front, "pile-up front width")
	fs.IntVar(&cfg.Tail, "tail", cfg.Tail, "pile-up tail width")
	fs.Float64Var(&cfg.SaturationHigh, "saturation-high", cfg.SaturationHigh, "high saturation level")
	fs.Float64Var(&cfg.SaturationLow, "saturation-low", cfg.SaturationLow, "low saturation level")
	fs.IntVar(&cfg.ShortGate, "short-gate", cfg.ShortGate, "short integration gate length")
	fs.IntVar(&cfg.LongGate, "long-gate", cfg.LongGate, "long integration gate length")
	fs.Float64Var(&cfg.MaxDifference, "max-difference", cfg.MaxDifference, "integration endpoint search tolerance")
	fs.BoolVar(&cfg.SubtBaseline, "subtract-baseline", cfg.SubtBaseline, "subtract the estimated baseline before integrating")
	fs.IntVar(&cfg.Marker, "marker", cfg.Marker, "total_int units per PH channel denominator")
	fs.IntVar(&cfg.PHnChannels, "ph-channels", cfg.PHnChannels, "pulse-height spectrum channel count")
	fs.IntVar(&cfg.PSnChannels, "ps-channels", cfg.PSnChannels, "pulse-shape axis channel count")
	fs.IntVar(&cfg.DDlower, "dd-lower", cfg.DDlower, "double-differential window lower PH bound")
	fs.IntVar(&cfg.DDupper, "dd-upper", cfg.DDupper, "double-differential window upper PH bound")
	fs.IntVar(&cfg.DTlower, "dt-lower", cfg.DTlower, "double-threshold window lower PH bound")
	fs.IntVar(&cfg.DTupper, "dt-upper", cfg.DTupper, "double-threshold window upper PH bound")
	fs.IntVar(&cfg.LineChange, "line-change", cfg.LineChange, "separator breakpoint PH channel")
	fs.Float64Var(&cfg.Slope1, "slope1", cfg.Slope1, "separator slope below line-change")
	fs.Float64Var(&cfg.Slope2, "slope2", cfg.Slope2, "separator slope above line-change")
	fs.Float64Var(&cfg.Offset, "offset", cfg.Offset, "separator intercept")
	fs.BoolVar(&cfg.LEDcorrection, "led-correction", cfg.LEDcorrection, "enable LED gain correction")
	fs.Float64Var(&cfg.LEDdt, "led-dt", cfg.LEDdt, "LED reference slot width, s")
	fs.IntVar(&cfg.LEDFront, "led-front", cfg.LEDFront, "pile-up front width for LED pulses")
	fs.IntVar(&cfg.LEDTail, "led-tail", cfg.LEDTail, "pile-up tail width for LED pulses")
	fs.Float64Var(&cfg.LEDreference, "led-reference", cfg.LEDreference, "target LED gain reference")
	fs.IntVar(&cfg.LEDxmin, "led-xmin", cfg.LEDxmin, "LED box PH lower bound")
	fs.IntVar(&cfg.LEDxmax, "led-xmax", cfg.LEDxmax, "LED box PH upper bound")
	fs.IntVar(&cfg.LEDymin, "led-ymin", cfg.LEDymin, "LED box PS lower bound")
	fs.IntVar(&cfg.LEDymax, "led-ymax", cfg.LEDymax, "LED box PS upper bound")

	fs.String("config", opts.configFile, "YAML parameter file (already consumed)")

	if err := fs.Parse(args); err != nil {
		return godpsd.Config{}, cliOptions{}, err
	}

	cfg.HAfile = opts.haFile
	cfg.CheckMD5 = opts.checkMD5

	if shotsStr != "" {
		shots, err := parseShots(shotsStr)
		if err != nil {
			return godpsd.Config{}, cliOptions{}, err
		}
		opts.shots = shots
	}

	return cfg, opts, nil
}

func parseShots(s string) ([]int, error) {
	var shots []int
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			tok := s[start:i]
			start = i + 1
			if tok == "" {
				continue
			}
			var n int
			if _, err := fmt.Sscanf(tok, "%d", &n); err != nil {
				return nil, fmt.Errorf("invalid shot number %q: %w", tok, err)
			}
			shots = append(shots, n)
		}
	}
	return shots, nil
}
