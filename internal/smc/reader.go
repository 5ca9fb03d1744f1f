package smc

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
)

// Reader provides random access to the streams of one container. The index
// is built once at open time by scanning every member of the archive's
// central directory; the advisory header never influences what the Reader
// reports as available.
type Reader struct {
	path    string
	zr      *zip.ReadCloser
	header  Header
	members map[Key]*zip.File
	cameras map[Modality]map[string]struct{}
	frames  map[Modality]map[string][]int
}

// Open opens a container read-only and builds its stream index. Errors wrap
// ErrContainerNotFound when the file is missing and ErrContainerCorrupt when
// it cannot be parsed.
func Open(path string) (*Reader, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrContainerNotFound, path)
		}
		return nil, fmt.Errorf("stat container: %w", err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrContainerCorrupt, path, err)
	}

	r := &Reader{
		path:    path,
		zr:      zr,
		members: make(map[Key]*zip.File),
		cameras: make(map[Modality]map[string]struct{}),
		frames:  make(map[Modality]map[string][]int),
	}
	if err := r.buildIndex(); err != nil {
		_ = zr.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) buildIndex() error {
	var headerFile *zip.File
	for _, f := range r.zr.File {
		if f.Name == headerMember {
			headerFile = f
			continue
		}
		key, group, ok := parseMember(f.Name)
		if !ok {
			continue
		}
		if group {
			// Present-but-empty camera group. Registered so callers can
			// distinguish it from an absent camera.
			if key.Camera != "" || key.Modality == ModalityAudio {
				r.registerCamera(key.Modality, key.Camera)
			}
			continue
		}
		r.members[key] = f
		if key.Modality.PerCamera() || key.Modality == ModalityAudio {
			r.registerCamera(key.Modality, key.Camera)
		}
		if key.Frame != NoFrame {
			byCamera := r.frames[key.Modality]
			if byCamera == nil {
				byCamera = make(map[string][]int)
				r.frames[key.Modality] = byCamera
			}
			byCamera[key.Camera] = append(byCamera[key.Camera], key.Frame)
		}
	}

	if headerFile == nil {
		return fmt.Errorf("%w: %s: missing %s", ErrContainerCorrupt, r.path, headerMember)
	}
	rc, err := headerFile.Open()
	if err != nil {
		return fmt.Errorf("%w: %s: open header: %v", ErrContainerCorrupt, r.path, err)
	}
	defer rc.Close()
	if err := json.NewDecoder(rc).Decode(&r.header); err != nil {
		return fmt.Errorf("%w: %s: parse header: %v", ErrContainerCorrupt, r.path, err)
	}

	for _, byCamera := range r.frames {
		for cam := range byCamera {
			sort.Ints(byCamera[cam])
		}
	}
	return nil
}

func (r *Reader) registerCamera(m Modality, camera string) {
	if m == ModalityAudio {
		camera = audioCamera
	}
	set := r.cameras[m]
	if set == nil {
		set = make(map[string]struct{})
		r.cameras[m] = set
	}
	set[camera] = struct{}{}
}

// Close releases the underlying archive handle.
func (r *Reader) Close() error {
	if r == nil || r.zr == nil {
		return nil
	}
	return r.zr.Close()
}

// Path returns the local path the container was opened from.
func (r *Reader) Path() string {
	return r.path
}

// Header returns the container's advisory header. Informational only.
func (r *Reader) Header() Header {
	return r.header
}

// Cameras returns the sorted camera ids that have at least one index entry
// (or an explicit empty group) for the modality. The header's declared device
// count plays no part in this answer.
func (r *Reader) Cameras(m Modality) []string {
	set := r.cameras[m]
	ids := make([]string, 0, len(set))
	for cam := range set {
		ids = append(ids, cam)
	}
	sort.Strings(ids)
	return ids
}

// HasCamera reports whether the camera appears in the index for the modality,
// including present-but-empty groups that carry zero frames.
func (r *Reader) HasCamera(m Modality, camera string) bool {
	_, ok := r.cameras[m][camera]
	return ok
}

// Frames returns the sorted frame ids actually present for one stream. The
// result is per (modality, camera): no global frame count is ever assumed
// across cameras or performances.
func (r *Reader) Frames(m Modality, camera string) []int {
	frames := r.frames[m][camera]
	cp := make([]int, len(frames))
	copy(cp, frames)
	return cp
}

// FrameCount returns the true number of frames stored for one stream.
func (r *Reader) FrameCount(m Modality, camera string) int {
	return len(r.frames[m][camera])
}

// Artifacts returns the sorted aggregate artifact names present for a
// modality and camera (camera is empty for camera-less modalities).
func (r *Reader) Artifacts(m Modality, camera string) []string {
	var names []string
	for key := range r.members {
		if key.Modality == m && key.Camera == camera && key.Artifact != "" {
			names = append(names, key.Artifact)
		}
	}
	sort.Strings(names)
	return names
}

// Has reports whether a stream key is present in the index.
func (r *Reader) Has(key Key) bool {
	_, ok := r.members[key]
	return ok
}

// Read returns the raw payload bytes for one stream key. Absent keys return
// an error wrapping ErrStreamNotFound.
func (r *Reader) Read(key Key) ([]byte, error) {
	f, ok := r.members[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStreamNotFound, key)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open member %s: %w", key, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read member %s: %w", key, err)
	}
	return data, nil
}

// StreamCount returns the total number of indexed payloads; used for
// informational logging next to the header's declared counts.
func (r *Reader) StreamCount() int {
	return len(r.members)
}
