package smc

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Writer creates containers with the standard member layout. Payload bytes
// are stored as given; the writer performs no modality-specific encoding.
type Writer struct {
	f      *os.File
	zw     *zip.Writer
	closed bool
}

// Create starts a new container at path and writes the header member.
func Create(path string, header Header) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create container: %w", err)
	}
	w := &Writer{f: f, zw: zip.NewWriter(f)}

	hw, err := w.zw.Create(headerMember)
	if err != nil {
		_ = w.abort()
		return nil, fmt.Errorf("create header member: %w", err)
	}
	if err := json.NewEncoder(hw).Encode(header); err != nil {
		_ = w.abort()
		return nil, fmt.Errorf("write header: %w", err)
	}
	return w, nil
}

// Put stores one payload under its stream key.
func (w *Writer) Put(key Key, payload []byte) error {
	if w.closed {
		return errors.New("writer closed")
	}
	name, ok := memberName(key)
	if !ok {
		return fmt.Errorf("invalid stream key %+v", key)
	}
	mw, err := w.zw.Create(name)
	if err != nil {
		return fmt.Errorf("create member %s: %w", name, err)
	}
	if _, err := mw.Write(payload); err != nil {
		return fmt.Errorf("write member %s: %w", name, err)
	}
	return nil
}

// PutEmptyGroup records a camera as present for a modality without storing
// any frames, the on-disk shape of an available-but-empty stream.
func (w *Writer) PutEmptyGroup(m Modality, camera string) error {
	if w.closed {
		return errors.New("writer closed")
	}
	var name string
	switch m {
	case ModalityImages:
		name = fmt.Sprintf("Camera/%s/color/", camera)
	case ModalityMasks:
		name = fmt.Sprintf("Camera/%s/mask/", camera)
	case ModalityKeypoints2D:
		name = fmt.Sprintf("Keypoints2d/%s/", camera)
	case ModalityCalibration:
		name = fmt.Sprintf("Calibration/%s/", camera)
	default:
		return fmt.Errorf("modality %s has no camera groups", m)
	}
	if _, err := w.zw.Create(name); err != nil {
		return fmt.Errorf("create group %s: %w", name, err)
	}
	return nil
}

// Close finalizes the archive directory and the file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.zw.Close(); err != nil {
		_ = w.f.Close()
		return fmt.Errorf("finalize container: %w", err)
	}
	return w.f.Close()
}

func (w *Writer) abort() error {
	w.closed = true
	_ = w.zw.Close()
	name := w.f.Name()
	_ = w.f.Close()
	return os.Remove(name)
}
