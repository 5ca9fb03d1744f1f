package testsupport

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"testing"

	"smcextract/internal/smc"
)

// ContainerSpec describes a synthetic capture container.
type ContainerSpec struct {
	Header      smc.Header
	Cameras     []string
	Frames      int
	EmptyGroups []string
	Keypoints   bool
	Calibration bool
	Audio       bool
	SampleRate  int
	AudioFrames int
}

// BuildContainer writes a container fixture at path. Every listed camera
// gets Frames color and mask frames; EmptyGroups become present-but-empty
// camera groups with no payloads.
func BuildContainer(t testing.TB, path string, spec ContainerSpec) {
	t.Helper()

	writer, err := smc.Create(path, spec.Header)
	if err != nil {
		t.Fatalf("smc.Create: %v", err)
	}

	colorBytes := JPEGFrame(t, 8, 8)
	maskBytes := GrayJPEGFrame(t, 8, 8)

	for _, camera := range spec.Cameras {
		for frame := 0; frame < spec.Frames; frame++ {
			if err := writer.Put(smc.FrameKey(smc.ModalityImages, camera, frame), colorBytes); err != nil {
				t.Fatalf("put color frame: %v", err)
			}
			if err := writer.Put(smc.FrameKey(smc.ModalityMasks, camera, frame), maskBytes); err != nil {
				t.Fatalf("put mask frame: %v", err)
			}
			if spec.Keypoints {
				if err := writer.Put(smc.FrameKey(smc.ModalityKeypoints2D, camera, frame), Float32Payload(2*106)); err != nil {
					t.Fatalf("put keypoints2d: %v", err)
				}
			}
		}
		if spec.Calibration {
			matrices := map[string]int{"D": 5, "K": 9, "RT": 16}
			for _, name := range smc.CalibrationMatrices {
				payload := Float64Payload(matrices[name])
				if err := writer.Put(smc.CameraArtifactKey(smc.ModalityCalibration, camera, name), payload); err != nil {
					t.Fatalf("put calibration %s: %v", name, err)
				}
			}
		}
	}

	if spec.Keypoints {
		for frame := 0; frame < spec.Frames; frame++ {
			if err := writer.Put(smc.FrameKey(smc.ModalityKeypoints3D, "", frame), Float32Payload(3*106)); err != nil {
				t.Fatalf("put keypoints3d: %v", err)
			}
		}
	}

	for _, camera := range spec.EmptyGroups {
		if err := writer.PutEmptyGroup(smc.ModalityImages, camera); err != nil {
			t.Fatalf("put empty group: %v", err)
		}
	}

	if spec.Audio {
		rate := spec.SampleRate
		if rate == 0 {
			rate = 16000
		}
		frames := spec.AudioFrames
		if frames == 0 {
			frames = 32
		}
		rateBytes := make([]byte, 4)
		binary.LittleEndian.PutUint32(rateBytes, uint32(rate))
		if err := writer.Put(smc.ArtifactKey(smc.ModalityAudio, smc.AudioSampleRate), rateBytes); err != nil {
			t.Fatalf("put sample rate: %v", err)
		}
		if err := writer.Put(smc.ArtifactKey(smc.ModalityAudio, smc.AudioSamples), Int16Payload(frames)); err != nil {
			t.Fatalf("put audio samples: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("writer.Close: %v", err)
	}
}

// JPEGFrame encodes a small RGBA test pattern as JPEG.
func JPEGFrame(t testing.TB, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// GrayJPEGFrame encodes a single-channel gradient as JPEG, matching how the
// rig stores segmentation masks.
func GrayJPEGFrame(t testing.TB, width, height int) []byte {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8((x + y) * 16)})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode gray jpeg: %v", err)
	}
	return buf.Bytes()
}

// Float32Payload produces count little-endian float32 values.
func Float32Payload(count int) []byte {
	out := make([]byte, 4*count)
	for i := 0; i < count; i++ {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(float32(i)*0.5))
	}
	return out
}

// Float64Payload produces count little-endian float64 values.
func Float64Payload(count int) []byte {
	out := make([]byte, 8*count)
	for i := 0; i < count; i++ {
		binary.LittleEndian.PutUint64(out[8*i:], math.Float64bits(float64(i)*0.25))
	}
	return out
}

// Int16Payload produces count little-endian int16 samples.
func Int16Payload(count int) []byte {
	out := make([]byte, 2*count)
	for i := 0; i < count; i++ {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(int16(i*100)))
	}
	return out
}
