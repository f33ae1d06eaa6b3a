package spectral

// Stage identifies the processing step that has just completed for one hop
type Stage int

const (
	// Analysis stages
	StageFrame Stage = iota
	StageWindowed
	StagePadded
	StageRotated
	StageSpectrum

	// Synthesis stages
	StageInverse
	StageUnrotated
	StageCropped
	StageSynthesisWindowed
	StageAccumulated
)

var stageNames = [...]string{
	StageFrame:             "frame",
	StageWindowed:          "windowed",
	StagePadded:            "padded",
	StageRotated:           "rotated",
	StageSpectrum:          "spectrum",
	StageInverse:           "inverse",
	StageUnrotated:         "unrotated",
	StageCropped:           "cropped",
	StageSynthesisWindowed: "synthesis_windowed",
	StageAccumulated:       "accumulated",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Event carries the intermediate buffer produced by a stage. Samples is set
// for time-domain stages and Spectrum for StageSpectrum. Both alias internal
// buffers and are only valid for the duration of the callback.
type Event struct {
	Stage    Stage
	Hop      int
	Samples  []float64
	Spectrum []complex128
}

// Observer receives an Event after every stage of every hop. Setting an
// observer forces sequential processing so events arrive in hop order.
type Observer func(Event)

func (o Observer) emit(stage Stage, hop int, samples []float64, spectrum []complex128) {
	if o == nil {
		return
	}
	o(Event{Stage: stage, Hop: hop, Samples: samples, Spectrum: spectrum})
}
