package decode

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// npyEncode wraps a little-endian payload in a NumPy .npy (format 1.0)
// envelope. The payload must already be in C order with the given element
// type; no byte swapping is performed.
func npyEncode(descr string, shape []int, data []byte) []byte {
	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = fmt.Sprintf("%d", d)
	}
	tuple := strings.Join(dims, ", ")
	if len(shape) == 1 {
		tuple += ","
	}
	header := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': (%s), }", descr, tuple)

	// Magic (6) + version (2) + header length (2) + header, padded so the
	// data section starts on a 64-byte boundary, terminated by newline.
	base := 6 + 2 + 2
	total := base + len(header) + 1
	if pad := total % 64; pad != 0 {
		header += strings.Repeat(" ", 64-pad)
	}
	header += "\n"

	out := make([]byte, 0, base+len(header)+len(data))
	out = append(out, "\x93NUMPY"...)
	out = append(out, 0x01, 0x00)
	out = binary.LittleEndian.AppendUint16(out, uint16(len(header)))
	out = append(out, header...)
	out = append(out, data...)
	return out
}

// elemCount multiplies the shape dimensions.
func elemCount(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

// npyFixed validates that the payload matches the expected fixed layout and
// wraps it. elemSize is the byte width of one element of descr.
func npyFixed(descr string, elemSize int, shape []int, payload []byte) ([]byte, error) {
	want := elemCount(shape) * elemSize
	if len(payload) != want {
		return nil, fmt.Errorf("payload is %d bytes, want %d for shape %v %s", len(payload), want, shape, descr)
	}
	return npyEncode(descr, shape, payload), nil
}
