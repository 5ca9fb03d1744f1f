package extract

import "smcextract/internal/manifest"

// Summary describes what one unit's extraction actually did.
type Summary struct {
	CamerasExtracted int
	// FrameCount is the largest per-stream frame count observed, the
	// container's effective length.
	FrameCount       int
	StreamsAttempted int
	StreamsDecoded   int
	DecodeFailures   int
	// MissingCameras lists requested camera ids the container did not hold
	// for at least one selected modality.
	MissingCameras []string
}

// Report aggregates one run's outcome across all units.
type Report struct {
	RunID     string
	Completed int
	Skipped   int
	Failed    int
	// RetryEligible lists failed units a later run may retry.
	RetryEligible []manifest.Key
}
