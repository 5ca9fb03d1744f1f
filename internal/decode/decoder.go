package decode

import (
	"fmt"
	"strings"

	"smcextract/internal/smc"
)

// Artifact is one decoded output. Suffix is appended to the stream's base
// name by the caller (for example base "frame_000102" with suffix ".png").
type Artifact struct {
	Suffix string
	Data   []byte
}

// Decoder converts one raw stream payload into output artifacts.
type Decoder interface {
	Decode(payload []byte) ([]Artifact, error)
}

// DecodeError marks a present stream whose payload could not be decoded. It
// is scoped to exactly one stream key; processing of the unit continues.
type DecodeError struct {
	Key smc.Key
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ImageFormat selects the output encoding for decoded pictures.
type ImageFormat string

const (
	FormatJPEG ImageFormat = "jpg"
	FormatPNG  ImageFormat = "png"
	FormatWebP ImageFormat = "webp"
)

// ParseImageFormat converts a config string into an ImageFormat.
func ParseImageFormat(value string) (ImageFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "jpg", "jpeg":
		return FormatJPEG, true
	case "png":
		return FormatPNG, true
	case "webp":
		return FormatWebP, true
	}
	return "", false
}

// Options carries decoder construction settings shared across streams.
type Options struct {
	ImageFormat  ImageFormat
	ImageQuality int
}

// ForModality returns the decoder for a per-frame modality. Aggregate
// modalities (audio, calibration, mesh) need stream-specific context and use
// their dedicated constructors.
func ForModality(m smc.Modality, opts Options) (Decoder, error) {
	switch m {
	case smc.ModalityImages:
		return NewImage(opts.ImageFormat, opts.ImageQuality), nil
	case smc.ModalityMasks:
		return NewMask(), nil
	case smc.ModalityKeypoints2D:
		return NewKeypoints2D(), nil
	case smc.ModalityKeypoints3D:
		return NewKeypoints3D(), nil
	case smc.ModalityTexture:
		return NewImage(opts.ImageFormat, opts.ImageQuality), nil
	default:
		return nil, fmt.Errorf("no per-frame decoder for modality %s", m)
	}
}
