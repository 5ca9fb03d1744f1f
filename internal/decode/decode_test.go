package decode

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"strings"
	"testing"
)

func encodeColorJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestImageReencodeFormats(t *testing.T) {
	payload := encodeColorJPEG(t)

	for _, format := range []ImageFormat{FormatJPEG, FormatPNG, FormatWebP} {
		artifacts, err := NewImage(format, 0).Decode(payload)
		if err != nil {
			t.Fatalf("Decode(%s) failed: %v", format, err)
		}
		if len(artifacts) != 1 {
			t.Fatalf("Decode(%s) returned %d artifacts", format, len(artifacts))
		}
		if artifacts[0].Suffix != "."+string(format) {
			t.Fatalf("Decode(%s) suffix = %q", format, artifacts[0].Suffix)
		}
		if len(artifacts[0].Data) == 0 {
			t.Fatalf("Decode(%s) produced empty output", format)
		}
	}
}

func TestImagePNGRoundTripIsLossless(t *testing.T) {
	payload := encodeColorJPEG(t)

	decoded, err := jpeg.Decode(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("reference decode: %v", err)
	}
	artifacts, err := NewImage(FormatPNG, 0).Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	out, err := png.Decode(bytes.NewReader(artifacts[0].Data))
	if err != nil {
		t.Fatalf("png decode: %v", err)
	}

	// PNG adds no lossy step beyond the source decompression itself.
	b := decoded.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			want := color.RGBAModel.Convert(decoded.At(x, y))
			got := color.RGBAModel.Convert(out.At(x, y))
			if want != got {
				t.Fatalf("pixel (%d,%d) changed: %v -> %v", x, y, want, got)
			}
		}
	}
}

func TestImageRejectsGarbage(t *testing.T) {
	if _, err := NewImage(FormatJPEG, 0).Decode([]byte{1, 2, 3}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestParseImageFormat(t *testing.T) {
	cases := map[string]ImageFormat{
		"jpg":  FormatJPEG,
		"JPEG": FormatJPEG,
		"png":  FormatPNG,
		"webp": FormatWebP,
	}
	for in, want := range cases {
		got, ok := ParseImageFormat(in)
		if !ok || got != want {
			t.Fatalf("ParseImageFormat(%q) = %q, %v", in, got, ok)
		}
	}
	if _, ok := ParseImageFormat("tiff"); ok {
		t.Fatal("tiff should not parse")
	}
}

func TestKeypoints2DShape(t *testing.T) {
	payload := make([]byte, 106*2*4)
	binary.LittleEndian.PutUint32(payload, math.Float32bits(12.5))

	artifacts, err := NewKeypoints2D().Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	data := artifacts[0].Data
	if !bytes.HasPrefix(data, []byte("\x93NUMPY")) {
		t.Fatal("missing npy magic")
	}
	if !bytes.Contains(data, []byte("'shape': (106, 2)")) {
		t.Fatalf("npy header lacks shape: %q", data[:128])
	}
	if !bytes.Contains(data, []byte("'<f4'")) {
		t.Fatal("npy header lacks dtype")
	}
	if !bytes.HasSuffix(data, payload) {
		t.Fatal("payload bytes should pass through unchanged")
	}

	if _, err := NewKeypoints2D().Decode(payload[:10]); err == nil {
		t.Fatal("expected error for truncated payload")
	}
}

func TestKeypoints3DShape(t *testing.T) {
	payload := make([]byte, 106*3*4)
	artifacts, err := NewKeypoints3D().Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !bytes.Contains(artifacts[0].Data, []byte("'shape': (106, 3)")) {
		t.Fatal("npy header lacks shape")
	}
}

func TestCalibrationShapes(t *testing.T) {
	sizes := map[string]int{"D": 5 * 8, "K": 9 * 8, "RT": 16 * 8}
	for matrix, size := range sizes {
		dec, err := NewCalibration(matrix)
		if err != nil {
			t.Fatalf("NewCalibration(%s): %v", matrix, err)
		}
		if _, err := dec.Decode(make([]byte, size)); err != nil {
			t.Fatalf("Decode(%s) failed: %v", matrix, err)
		}
		if _, err := dec.Decode(make([]byte, size-1)); err == nil {
			t.Fatalf("Decode(%s) should reject short payload", matrix)
		}
	}
	if _, err := NewCalibration("Q"); err == nil {
		t.Fatal("unknown matrix should be rejected")
	}
}

func TestNpyHeaderAlignment(t *testing.T) {
	data := npyEncode("<f4", []int{5}, make([]byte, 20))
	headerLen := int(binary.LittleEndian.Uint16(data[8:10]))
	if (10+headerLen)%64 != 0 {
		t.Fatalf("data section starts at %d, not 64-byte aligned", 10+headerLen)
	}
	if data[10+headerLen-1] != '\n' {
		t.Fatal("npy header must end with newline")
	}
	if !bytes.Contains(data[:10+headerLen], []byte("(5,)")) {
		t.Fatal("1-d shape needs trailing comma")
	}
}

func TestAudioDecode(t *testing.T) {
	samples := make([]byte, 8)
	binary.LittleEndian.PutUint16(samples, 0x1234)

	artifacts, err := NewAudio(16000).Decode(samples)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(artifacts) != 2 {
		t.Fatalf("expected wav + npy artifacts, got %d", len(artifacts))
	}

	wav := artifacts[0]
	if wav.Suffix != ".wav" {
		t.Fatalf("first artifact suffix = %q", wav.Suffix)
	}
	if !bytes.HasPrefix(wav.Data, []byte("RIFF")) || string(wav.Data[8:12]) != "WAVE" {
		t.Fatal("wav envelope malformed")
	}
	if rate := binary.LittleEndian.Uint32(wav.Data[24:28]); rate != 16000 {
		t.Fatalf("wav sample rate = %d", rate)
	}
	if !bytes.HasSuffix(wav.Data, samples) {
		t.Fatal("wav data section should carry raw samples")
	}

	raw := artifacts[1]
	if raw.Suffix != ".npy" || !bytes.Contains(raw.Data, []byte("'<i2'")) {
		t.Fatalf("raw export malformed: suffix=%q", raw.Suffix)
	}

	if _, err := NewAudio(16000).Decode(samples[:3]); err == nil {
		t.Fatal("odd byte count should be rejected")
	}
	if _, err := NewAudio(0).Decode(samples); err == nil {
		t.Fatal("zero sample rate should be rejected")
	}
}

func TestParseSampleRate(t *testing.T) {
	payload := make([]byte, 4)
	binary.LittleEndian.PutUint32(payload, 48000)
	rate, err := ParseSampleRate(payload)
	if err != nil || rate != 48000 {
		t.Fatalf("ParseSampleRate = %d, %v", rate, err)
	}
	if _, err := ParseSampleRate([]byte{1}); err == nil {
		t.Fatal("short payload should be rejected")
	}
}

func TestMeshDecode(t *testing.T) {
	var payload []byte
	payload = binary.LittleEndian.AppendUint32(payload, 3)
	for _, v := range []float32{0, 0, 0, 1, 0, 0, 0, 1, 0} {
		payload = binary.LittleEndian.AppendUint32(payload, math.Float32bits(v))
	}
	payload = binary.LittleEndian.AppendUint32(payload, 1)
	for _, idx := range []uint32{0, 1, 2} {
		payload = binary.LittleEndian.AppendUint32(payload, idx)
	}

	artifacts, err := NewMesh().Decode(payload)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	ply := string(artifacts[0].Data)
	if !strings.HasPrefix(ply, "ply\nformat ascii 1.0\n") {
		t.Fatalf("ply header malformed: %q", ply[:40])
	}
	if !strings.Contains(ply, "element vertex 3\n") || !strings.Contains(ply, "element face 1\n") {
		t.Fatalf("ply counts wrong:\n%s", ply)
	}
	if !strings.Contains(ply, "3 0 1 2\n") {
		t.Fatal("face row missing")
	}

	if _, err := NewMesh().Decode(payload[:len(payload)-4]); err == nil {
		t.Fatal("truncated mesh should be rejected")
	}
}
