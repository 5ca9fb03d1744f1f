package extract

import (
	"reflect"
	"testing"

	"smcextract/internal/smc"
	"smcextract/internal/testsupport"
)

func TestUnitsFromConfigCrossProduct(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithSelection([]string{"0026", "0094"}, []string{"s1_all", "e0"}))

	units := UnitsFromConfig(cfg)
	want := []Unit{
		{Subject: "0026", Performance: "s1_all"},
		{Subject: "0026", Performance: "e0"},
		{Subject: "0094", Performance: "s1_all"},
		{Subject: "0094", Performance: "e0"},
	}
	if !reflect.DeepEqual(units, want) {
		t.Fatalf("units = %v, want %v", units, want)
	}
	if got := units[0].RemoteKey(); got != "0026/0026_s1_all_raw.smc" {
		t.Fatalf("remote key = %q", got)
	}
}

func TestSelectionCameraOverrides(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCameras("00", "25"))
	cfg.Selection.CameraOverrides = map[string][]string{
		"e0": {"all"},
		"h0": {"31"},
	}

	sel, err := NewSelection(cfg)
	if err != nil {
		t.Fatalf("NewSelection: %v", err)
	}

	ids, all := sel.CamerasFor("s1_all")
	if all || !reflect.DeepEqual(ids, []string{"00", "25"}) {
		t.Fatalf("default selector = %v all=%v", ids, all)
	}
	if _, all := sel.CamerasFor("e0"); !all {
		t.Fatal("override to all not honored")
	}
	if ids, _ := sel.CamerasFor("h0"); !reflect.DeepEqual(ids, []string{"31"}) {
		t.Fatalf("override ids = %v", ids)
	}
}

func TestSelectionRejectsUnknownModality(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithModalities("images", "holograms"))
	if _, err := NewSelection(cfg); err == nil {
		t.Fatal("expected error for unknown modality")
	}
}

func TestEffectiveCamerasIntersection(t *testing.T) {
	effective, missing := EffectiveCameras([]string{"05", "44"}, false, []string{"00", "05", "12"})
	if !reflect.DeepEqual(effective, []string{"05"}) {
		t.Fatalf("effective = %v", effective)
	}
	if !reflect.DeepEqual(missing, []string{"44"}) {
		t.Fatalf("missing = %v", missing)
	}

	effective, missing = EffectiveCameras(nil, true, []string{"00", "05"})
	if !reflect.DeepEqual(effective, []string{"00", "05"}) || missing != nil {
		t.Fatalf("all selector: effective=%v missing=%v", effective, missing)
	}
}

func TestSelectionIncludes(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithModalities("images", "audio"))
	sel, err := NewSelection(cfg)
	if err != nil {
		t.Fatalf("NewSelection: %v", err)
	}
	if !sel.Includes(smc.ModalityAudio) {
		t.Fatal("audio should be selected")
	}
	if sel.Includes(smc.ModalityMesh) {
		t.Fatal("mesh should not be selected")
	}
}
