package smc

import "strings"

// Modality identifies one category of captured data inside a container.
type Modality string

const (
	ModalityImages      Modality = "images"
	ModalityMasks       Modality = "masks"
	ModalityAudio       Modality = "audio"
	ModalityCalibration Modality = "calibration"
	ModalityMetadata    Modality = "metadata"
	ModalityKeypoints2D Modality = "keypoints2d"
	ModalityKeypoints3D Modality = "keypoints3d"
	ModalityMesh        Modality = "mesh"
	ModalityTexture     Modality = "texture"
)

var allModalities = []Modality{
	ModalityImages,
	ModalityMasks,
	ModalityAudio,
	ModalityCalibration,
	ModalityMetadata,
	ModalityKeypoints2D,
	ModalityKeypoints3D,
	ModalityMesh,
	ModalityTexture,
}

var modalitySet = func() map[Modality]struct{} {
	set := make(map[Modality]struct{}, len(allModalities))
	for _, m := range allModalities {
		set[m] = struct{}{}
	}
	return set
}()

// AllModalities returns the ordered list of known modalities.
func AllModalities() []Modality {
	cp := make([]Modality, len(allModalities))
	copy(cp, allModalities)
	return cp
}

// ParseModality converts a string into a known Modality.
func ParseModality(value string) (Modality, bool) {
	normalized := Modality(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := modalitySet[normalized]
	return normalized, ok
}

// PerFrame reports whether the modality stores one payload per frame rather
// than a single aggregate payload for the whole performance.
func (m Modality) PerFrame() bool {
	switch m {
	case ModalityImages, ModalityMasks, ModalityKeypoints2D, ModalityKeypoints3D, ModalityTexture:
		return true
	default:
		return false
	}
}

// PerCamera reports whether streams of this modality are scoped to a camera.
func (m Modality) PerCamera() bool {
	switch m {
	case ModalityImages, ModalityMasks, ModalityKeypoints2D, ModalityCalibration:
		return true
	default:
		return false
	}
}
