package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"smcextract/internal/fileutil"
	"smcextract/internal/smc"
)

// MarkerName is the hidden file that marks a unit's output as complete.
// Its presence means every selected available stream was attempted; later
// runs skip the unit without fetching anything.
const MarkerName = ".extraction_complete"

// Layout maps units and streams to paths under the output root. Directories
// are created lazily when the first artifact of a stream is written, so a
// unit that yields nothing leaves no trace.
type Layout struct {
	root string
}

// NewLayout returns a layout rooted at the configured output directory.
func NewLayout(root string) Layout {
	return Layout{root: root}
}

// Root returns the output root directory.
func (l Layout) Root() string {
	return l.root
}

// UnitDir returns the directory holding all of a unit's artifacts.
func (l Layout) UnitDir(u Unit) string {
	return filepath.Join(l.root, u.Subject, u.Performance)
}

// ModalityDir returns the directory for one modality of a unit.
func (l Layout) ModalityDir(u Unit, m smc.Modality) string {
	return filepath.Join(l.UnitDir(u), string(m))
}

// CameraDir returns the directory for one camera of a camera-scoped
// modality.
func (l Layout) CameraDir(u Unit, m smc.Modality, camera string) string {
	return filepath.Join(l.ModalityDir(u, m), "cam_"+camera)
}

// FrameBase returns the zero-padded base name for one frame's artifact.
func (l Layout) FrameBase(frame int) string {
	return fmt.Sprintf("frame_%06d", frame)
}

// MarkerPath returns the completion marker location for a unit.
func (l Layout) MarkerPath(u Unit) string {
	return filepath.Join(l.UnitDir(u), MarkerName)
}

// IsComplete reports whether the unit's completion marker exists.
func (l Layout) IsComplete(u Unit) bool {
	info, err := os.Stat(l.MarkerPath(u))
	return err == nil && info.Mode().IsRegular()
}

// marker is the completion marker's recorded content.
type marker struct {
	CompletedAt      time.Time `json:"completed_at"`
	Cameras          int       `json:"cameras"`
	Frames           int       `json:"frames"`
	StreamsDecoded   int       `json:"streams_decoded"`
	DecodeFailures   int       `json:"decode_failures"`
	MissingCameras   []string  `json:"missing_cameras,omitempty"`
	StreamsAttempted int       `json:"streams_attempted"`
}

// WriteMarker atomically records unit completion. The marker is the last
// write of a unit; a crash before it leaves the unit re-extractable.
func (l Layout) WriteMarker(u Unit, summary Summary) error {
	data, err := json.MarshalIndent(marker{
		CompletedAt:      time.Now().UTC(),
		Cameras:          summary.CamerasExtracted,
		Frames:           summary.FrameCount,
		StreamsDecoded:   summary.StreamsDecoded,
		DecodeFailures:   summary.DecodeFailures,
		MissingCameras:   summary.MissingCameras,
		StreamsAttempted: summary.StreamsAttempted,
	}, "", "  ")
	if err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(l.MarkerPath(u), data, 0o644)
}

// RemoveUnit deletes a unit's entire output tree, marker included.
func (l Layout) RemoveUnit(u Unit) error {
	return fileutil.RemoveAllIfExists(l.UnitDir(u))
}

// UnitSize returns the on-disk size of a unit's extracted artifacts.
func (l Layout) UnitSize(u Unit) (int64, error) {
	return fileutil.DirSize(l.UnitDir(u))
}
