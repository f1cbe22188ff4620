// Package psdclassify implements the 2-D pulse-shape-discrimination
// classifier: normalized pulse-height/pulse-shape coordinates, the LED
// calibration box, and the piecewise-linear neutron/gamma separator
// (spec section 4.3).
package psdclassify

// Params holds the subset of Config that Coordinates, IsLED, and
// IsNeutron need.
type Params struct {
	Marker      int
	PHnChannels int
	PSnChannels int

	LEDxmin, LEDxmax int
	LEDymin, LEDymax int

	LineChange       int
	Slope1           float64
	Slope2           float64
	Offset           float64
	DDlower, DDupper int
	DTlower, DTupper int
}

// Dx returns PH_nChannels / Marker, the scale factor mapping total_int
// (in Marker units) onto PH channels.
func (p Params) Dx() float64 {
	return float64(p.PHnChannels) / float64(p.Marker)
}

// Coordinates derives the normalized PH/PS scatter-plot coordinates from
// a pulse's integrals.
func Coordinates(totalInt, shortInt, longInt float64, p Params) (ph, ps float64) {
	ph = p.Dx() * totalInt
	if longInt > 0 {
		ps = float64(p.PSnChannels) * shortInt / longInt
	}
	return ph, ps
}

// IsLED reports whether (ph, ps) falls strictly inside the LED
// calibration rectangle.
func IsLED(ph, ps float64, p Params) bool {
	return ph > float64(p.LEDxmin) && ph < float64(p.LEDxmax) &&
		ps > float64(p.LEDymin) && ps < float64(p.LEDymax)
}

// ThresholdLine evaluates the piecewise-linear neutron/gamma separator
// at a given PH.
func ThresholdLine(ph float64, p Params) float64 {
	lc := float64(p.LineChange)
	if ph <= lc {
		return p.Offset + p.Slope1*ph
	}
	return p.Offset + p.Slope1*lc + p.Slope2*(ph-lc)
}

// IsNeutron reports whether (ph, ps) lies on the neutron side of the
// separator. Callers must only treat this as authoritative for pulses
// that are not saturated, LED, or pile-up.
func IsNeutron(ph, ps float64, p Params) bool {
	return ps <= ThresholdLine(ph, p)
}

// InDD reports whether ph falls in the double-differential window.
func InDD(ph float64, p Params) bool {
	return ph >= float64(p.DDlower) && ph <= float64(p.DDupper)
}

// InDT reports whether ph falls in the double-threshold window.
func InDT(ph float64, p Params) bool {
	return ph >= float64(p.DTlower) && ph <= float64(p.DTupper)
}
