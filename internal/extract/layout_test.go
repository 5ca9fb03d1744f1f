package extract

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"smcextract/internal/smc"
)

func TestLayoutPaths(t *testing.T) {
	layout := NewLayout("/data/captures")
	unit := Unit{Subject: "0026", Performance: "e0"}

	if got := layout.CameraDir(unit, smc.ModalityMasks, "12"); got != "/data/captures/0026/e0/masks/cam_12" {
		t.Fatalf("camera dir = %q", got)
	}
	if got := layout.FrameBase(102); got != "frame_000102" {
		t.Fatalf("frame base = %q", got)
	}
	if got := layout.MarkerPath(unit); got != "/data/captures/0026/e0/"+MarkerName {
		t.Fatalf("marker path = %q", got)
	}
}

func TestMarkerRoundTrip(t *testing.T) {
	layout := NewLayout(t.TempDir())
	unit := Unit{Subject: "0026", Performance: "e0"}

	if layout.IsComplete(unit) {
		t.Fatal("fresh unit should not be complete")
	}
	summary := Summary{CamerasExtracted: 3, FrameCount: 42, StreamsDecoded: 126, MissingCameras: []string{"44"}}
	if err := layout.WriteMarker(unit, summary); err != nil {
		t.Fatalf("WriteMarker: %v", err)
	}
	if !layout.IsComplete(unit) {
		t.Fatal("marker written but unit not complete")
	}

	data, err := os.ReadFile(layout.MarkerPath(unit))
	if err != nil {
		t.Fatalf("read marker: %v", err)
	}
	var recorded map[string]any
	if err := json.Unmarshal(data, &recorded); err != nil {
		t.Fatalf("marker is not JSON: %v", err)
	}
	if recorded["frames"] != float64(42) {
		t.Fatalf("marker frames = %v", recorded["frames"])
	}

	if err := layout.RemoveUnit(unit); err != nil {
		t.Fatalf("RemoveUnit: %v", err)
	}
	if _, err := os.Stat(filepath.Join(layout.Root(), "0026")); err != nil {
		t.Fatalf("subject dir should remain: %v", err)
	}
	if layout.IsComplete(unit) {
		t.Fatal("unit should be incomplete after removal")
	}
}
