package decode

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Mesh decodes the scan mesh payload: a fixed binary layout of a uint32
// vertex count, vertex positions as float32 triples, a uint32 face count,
// and faces as uint32 index triples, all little-endian. Output is ASCII PLY.
type Mesh struct{}

// NewMesh constructs a mesh decoder.
func NewMesh() *Mesh {
	return &Mesh{}
}

func (d *Mesh) Decode(payload []byte) ([]Artifact, error) {
	if len(payload) < 4 {
		return nil, fmt.Errorf("mesh payload is %d bytes, too short for a vertex count", len(payload))
	}
	vertexCount := int(binary.LittleEndian.Uint32(payload))
	offset := 4
	vertexBytes := vertexCount * 12
	if len(payload) < offset+vertexBytes+4 {
		return nil, fmt.Errorf("mesh payload truncated: %d vertices declared, %d bytes available", vertexCount, len(payload)-offset)
	}
	vertices := payload[offset : offset+vertexBytes]
	offset += vertexBytes

	faceCount := int(binary.LittleEndian.Uint32(payload[offset:]))
	offset += 4
	faceBytes := faceCount * 12
	if len(payload) != offset+faceBytes {
		return nil, fmt.Errorf("mesh payload is %d bytes, want %d for %d vertices and %d faces", len(payload), offset+faceBytes, vertexCount, faceCount)
	}
	faces := payload[offset:]

	var b strings.Builder
	fmt.Fprintf(&b, "ply\nformat ascii 1.0\nelement vertex %d\n", vertexCount)
	b.WriteString("property float x\nproperty float y\nproperty float z\n")
	fmt.Fprintf(&b, "element face %d\nproperty list uchar int vertex_indices\nend_header\n", faceCount)

	for i := 0; i < vertexCount; i++ {
		x := math.Float32frombits(binary.LittleEndian.Uint32(vertices[i*12:]))
		y := math.Float32frombits(binary.LittleEndian.Uint32(vertices[i*12+4:]))
		z := math.Float32frombits(binary.LittleEndian.Uint32(vertices[i*12+8:]))
		fmt.Fprintf(&b, "%g %g %g\n", x, y, z)
	}
	for i := 0; i < faceCount; i++ {
		a := binary.LittleEndian.Uint32(faces[i*12:])
		bIdx := binary.LittleEndian.Uint32(faces[i*12+4:])
		c := binary.LittleEndian.Uint32(faces[i*12+8:])
		fmt.Fprintf(&b, "3 %d %d %d\n", a, bIdx, c)
	}

	return []Artifact{{Suffix: ".ply", Data: []byte(b.String())}}, nil
}
