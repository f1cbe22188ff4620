package godpsd

import "errors"

// Error kinds returned by Run. Wrap these with fmt.Errorf("...: %w", err)
// when adding detail; callers should use errors.Is against these values.
var (
	// ErrMissingInput indicates the acquisition file, or its required
	// md5 sidecar when Config.CheckMD5 is set, does not exist. Run
	// returns before touching any output: outputs are unset.
	ErrMissingInput = errors.New("godpsd: acquisition file or md5 sidecar not found")

	// ErrMalformedStream indicates no pulse headers matched anywhere in
	// the file, or every candidate pulse was rejected by the window
	// filter. Outputs are empty.
	ErrMalformedStream = errors.New("godpsd: no retained pulses in acquisition stream")

	// ErrParameterRange indicates a Config field is out of its valid
	// range (e.g. TimeBin <= 0, LEDdt <= 0 with LEDcorrection enabled,
	// Marker == 0, PHnChannels <= 0). Run rejects before processing.
	ErrParameterRange = errors.New("godpsd: parameter out of range")
)

// EmptySelection is not an error: it means zero events fell within the
// requested time interval(s). Run returns a Result with zero-length
// histograms and a nil error in this case; callers that care can check
// len(Result.TimeCnt) == 0.
