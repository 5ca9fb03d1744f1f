package smc

import (
	"fmt"
	"path"
	"strconv"
	"strings"
)

// NoFrame marks keys for aggregate payloads that have no frame dimension.
const NoFrame = -1

// Key identifies one decodable payload inside a container: either a
// (modality, camera, frame) triple for per-frame streams or a
// (modality, artifact) pair for aggregate streams. Camera is empty for
// modalities that are not camera scoped.
type Key struct {
	Modality Modality
	Camera   string
	Frame    int
	Artifact string
}

// FrameKey builds a key for one frame of a per-frame stream.
func FrameKey(m Modality, camera string, frame int) Key {
	return Key{Modality: m, Camera: camera, Frame: frame, Artifact: ""}
}

// ArtifactKey builds a key for an aggregate payload such as the audio track
// or the scan mesh.
func ArtifactKey(m Modality, artifact string) Key {
	return Key{Modality: m, Camera: "", Frame: NoFrame, Artifact: artifact}
}

// CameraArtifactKey builds a key for a camera-scoped aggregate payload such
// as one calibration matrix.
func CameraArtifactKey(m Modality, camera, artifact string) Key {
	return Key{Modality: m, Camera: camera, Frame: NoFrame, Artifact: artifact}
}

// String renders the key in the container's member-path form.
func (k Key) String() string {
	if name, ok := memberName(k); ok {
		return name
	}
	return fmt.Sprintf("%s/%s/%s/%d", k.Modality, k.Camera, k.Artifact, k.Frame)
}

// Audio member artifacts.
const (
	AudioSamples    = "samples"
	AudioSampleRate = "sample_rate"
)

// audioCamera is the device the rig records the audio track under.
const audioCamera = "00"

// MeshArtifact names the single scan-mesh payload.
const MeshArtifact = "mesh"

// CalibrationMatrices lists the per-camera calibration payload names in
// output order.
var CalibrationMatrices = []string{"D", "K", "RT"}

// memberName maps a key to its archive member path.
func memberName(k Key) (string, bool) {
	switch k.Modality {
	case ModalityImages:
		return fmt.Sprintf("Camera/%s/color/%d", k.Camera, k.Frame), k.Camera != "" && k.Frame >= 0
	case ModalityMasks:
		return fmt.Sprintf("Camera/%s/mask/%d", k.Camera, k.Frame), k.Camera != "" && k.Frame >= 0
	case ModalityAudio:
		return fmt.Sprintf("Camera/%s/audio/%s", audioCamera, k.Artifact), k.Artifact != ""
	case ModalityCalibration:
		return fmt.Sprintf("Calibration/%s/%s", k.Camera, k.Artifact), k.Camera != "" && k.Artifact != ""
	case ModalityKeypoints2D:
		return fmt.Sprintf("Keypoints2d/%s/%d", k.Camera, k.Frame), k.Camera != "" && k.Frame >= 0
	case ModalityKeypoints3D:
		return fmt.Sprintf("Keypoints3d/%d", k.Frame), k.Frame >= 0
	case ModalityMesh:
		return "Scan/" + MeshArtifact, k.Artifact == MeshArtifact
	case ModalityTexture:
		return fmt.Sprintf("Texture/%d", k.Frame), k.Frame >= 0
	default:
		return "", false
	}
}

// parseMember maps an archive member path back to a stream key. Directory
// members (trailing slash) yield group set to true with an empty frame set;
// they mark a camera as present-but-empty for a modality. Unknown members
// are skipped.
func parseMember(name string) (key Key, group bool, ok bool) {
	trimmed := strings.TrimSuffix(name, "/")
	group = strings.HasSuffix(name, "/")
	parts := strings.Split(path.Clean(trimmed), "/")

	switch parts[0] {
	case "Camera":
		if len(parts) < 3 {
			return Key{}, false, false
		}
		cam := parts[1]
		switch parts[2] {
		case "color", "mask":
			m := ModalityImages
			if parts[2] == "mask" {
				m = ModalityMasks
			}
			if group && len(parts) == 3 {
				return Key{Modality: m, Camera: cam, Frame: NoFrame}, true, true
			}
			if len(parts) != 4 {
				return Key{}, false, false
			}
			frame, err := strconv.Atoi(parts[3])
			if err != nil || frame < 0 {
				return Key{}, false, false
			}
			return FrameKey(m, cam, frame), false, true
		case "audio":
			if group && len(parts) == 3 {
				return Key{Modality: ModalityAudio, Frame: NoFrame}, true, true
			}
			if len(parts) != 4 {
				return Key{}, false, false
			}
			return ArtifactKey(ModalityAudio, parts[3]), false, true
		}
		return Key{}, false, false
	case "Calibration":
		if group && len(parts) == 2 {
			return Key{Modality: ModalityCalibration, Camera: parts[1], Frame: NoFrame}, true, true
		}
		if len(parts) != 3 {
			return Key{}, false, false
		}
		return CameraArtifactKey(ModalityCalibration, parts[1], parts[2]), false, true
	case "Keypoints2d":
		if group && len(parts) == 2 {
			return Key{Modality: ModalityKeypoints2D, Camera: parts[1], Frame: NoFrame}, true, true
		}
		if len(parts) != 3 {
			return Key{}, false, false
		}
		frame, err := strconv.Atoi(parts[2])
		if err != nil || frame < 0 {
			return Key{}, false, false
		}
		return FrameKey(ModalityKeypoints2D, parts[1], frame), false, true
	case "Keypoints3d":
		if len(parts) != 2 {
			return Key{}, false, false
		}
		frame, err := strconv.Atoi(parts[1])
		if err != nil || frame < 0 {
			return Key{}, false, false
		}
		return FrameKey(ModalityKeypoints3D, "", frame), false, true
	case "Scan":
		if len(parts) != 2 || parts[1] != MeshArtifact {
			return Key{}, false, false
		}
		return ArtifactKey(ModalityMesh, MeshArtifact), false, true
	case "Texture":
		if len(parts) != 2 {
			return Key{}, false, false
		}
		frame, err := strconv.Atoi(parts[1])
		if err != nil || frame < 0 {
			return Key{}, false, false
		}
		return FrameKey(ModalityTexture, "", frame), false, true
	}
	return Key{}, false, false
}
