// Package logging constructs the structured loggers used across the
// extraction pipeline. It provides a human-oriented console handler for
// interactive runs and a JSON handler for machine consumption, plus
// standardized attribute keys so unit, camera, and modality fields stay
// consistent between packages.
package logging
