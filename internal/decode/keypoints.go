package decode

// numLandmarks is the fixed landmark count of the face tracker; every
// keypoint payload carries exactly this many points.
const numLandmarks = 106

// Keypoints2D decodes one frame of 2D facial landmarks: a fixed-layout
// (106, 2) float32 buffer.
type Keypoints2D struct{}

// NewKeypoints2D constructs a 2D keypoints decoder.
func NewKeypoints2D() *Keypoints2D {
	return &Keypoints2D{}
}

func (d *Keypoints2D) Decode(payload []byte) ([]Artifact, error) {
	data, err := npyFixed("<f4", 4, []int{numLandmarks, 2}, payload)
	if err != nil {
		return nil, err
	}
	return []Artifact{{Suffix: ".npy", Data: data}}, nil
}

// Keypoints3D decodes one frame of triangulated 3D landmarks: a fixed-layout
// (106, 3) float32 buffer.
type Keypoints3D struct{}

// NewKeypoints3D constructs a 3D keypoints decoder.
func NewKeypoints3D() *Keypoints3D {
	return &Keypoints3D{}
}

func (d *Keypoints3D) Decode(payload []byte) ([]Artifact, error) {
	data, err := npyFixed("<f4", 4, []int{numLandmarks, 3}, payload)
	if err != nil {
		return nil, err
	}
	return []Artifact{{Suffix: ".npy", Data: data}}, nil
}
