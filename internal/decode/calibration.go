package decode

import "fmt"

// calibrationShapes maps each calibration matrix name to its fixed float64
// layout: lens distortion coefficients, the intrinsic matrix, and the camera
// pose.
var calibrationShapes = map[string][]int{
	"D":  {5},
	"K":  {3, 3},
	"RT": {4, 4},
}

// Calibration decodes one camera calibration matrix.
type Calibration struct {
	matrix string
}

// NewCalibration constructs a decoder for the named matrix (D, K, or RT).
func NewCalibration(matrix string) (*Calibration, error) {
	if _, ok := calibrationShapes[matrix]; !ok {
		return nil, fmt.Errorf("unknown calibration matrix %q", matrix)
	}
	return &Calibration{matrix: matrix}, nil
}

func (d *Calibration) Decode(payload []byte) ([]Artifact, error) {
	data, err := npyFixed("<f8", 8, calibrationShapes[d.matrix], payload)
	if err != nil {
		return nil, fmt.Errorf("calibration %s: %w", d.matrix, err)
	}
	return []Artifact{{Suffix: ".npy", Data: data}}, nil
}
