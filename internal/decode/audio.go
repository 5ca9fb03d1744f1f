package decode

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Audio decodes the whole-performance audio track: one contiguous buffer of
// little-endian 16-bit PCM samples. It exposes both a playable WAV export
// and a raw numeric sample export, as downstream tooling needs one or the
// other.
type Audio struct {
	sampleRate int
}

// NewAudio constructs an audio decoder for the given sample rate (read from
// the container's sample_rate artifact).
func NewAudio(sampleRate int) *Audio {
	return &Audio{sampleRate: sampleRate}
}

// ParseSampleRate decodes the container's sample_rate payload.
func ParseSampleRate(payload []byte) (int, error) {
	if len(payload) != 4 {
		return 0, fmt.Errorf("sample rate payload is %d bytes, want 4", len(payload))
	}
	rate := int(binary.LittleEndian.Uint32(payload))
	if rate <= 0 {
		return 0, fmt.Errorf("invalid sample rate %d", rate)
	}
	return rate, nil
}

// Decode wraps the PCM buffer as a WAV artifact and a raw .npy artifact.
func (d *Audio) Decode(payload []byte) ([]Artifact, error) {
	if d.sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", d.sampleRate)
	}
	if len(payload) == 0 {
		return nil, errors.New("empty sample buffer")
	}
	if len(payload)%2 != 0 {
		return nil, fmt.Errorf("sample buffer is %d bytes, not a whole number of 16-bit samples", len(payload))
	}
	raw, err := npyFixed("<i2", 2, []int{len(payload) / 2}, payload)
	if err != nil {
		return nil, err
	}
	return []Artifact{
		{Suffix: ".wav", Data: wavEncode(d.sampleRate, payload)},
		{Suffix: ".npy", Data: raw},
	}, nil
}

// wavEncode wraps mono 16-bit PCM in a RIFF/WAVE envelope.
func wavEncode(sampleRate int, samples []byte) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	out := make([]byte, 0, 44+len(samples))
	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(36+len(samples)))
	out = append(out, "WAVE"...)
	out = append(out, "fmt "...)
	out = binary.LittleEndian.AppendUint32(out, 16)
	out = binary.LittleEndian.AppendUint16(out, 1) // PCM
	out = binary.LittleEndian.AppendUint16(out, channels)
	out = binary.LittleEndian.AppendUint32(out, uint32(sampleRate))
	out = binary.LittleEndian.AppendUint32(out, uint32(byteRate))
	out = binary.LittleEndian.AppendUint16(out, uint16(blockAlign))
	out = binary.LittleEndian.AppendUint16(out, bitsPerSample)
	out = append(out, "data"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(samples)))
	out = append(out, samples...)
	return out
}
