package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func minimalConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	return `
[paths]
scratch_dir = "` + filepath.Join(dir, "scratch") + `"
output_dir = "` + filepath.Join(dir, "out") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[transfer]
remote = "gdrive"
`
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, minimalConfig(t))

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected existing config, got exists=%v path=%q", exists, resolved)
	}
	if cfg.Workers.Units != 1 || cfg.Workers.Decoders != 8 {
		t.Fatalf("worker defaults not applied: %+v", cfg.Workers)
	}
	if len(cfg.Selection.Cameras) != 1 || cfg.Selection.Cameras[0] != CameraAll {
		t.Fatalf("camera default not applied: %v", cfg.Selection.Cameras)
	}
	if cfg.Output.ImageFormat != "jpg" || cfg.Output.ImageQuality != 95 {
		t.Fatalf("output defaults not applied: %+v", cfg.Output)
	}
}

func TestLoadRejectsMissingRemote(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
[paths]
scratch_dir = "`+filepath.Join(dir, "scratch")+`"
output_dir = "`+filepath.Join(dir, "out")+`"
`)
	if _, _, _, err := Load(path); err == nil || !strings.Contains(err.Error(), "transfer.remote") {
		t.Fatalf("expected transfer.remote error, got %v", err)
	}
}

func TestLoadRejectsUnknownModality(t *testing.T) {
	path := writeConfig(t, minimalConfig(t)+`
[selection]
modalities = ["images", "holograms"]
`)
	if _, _, _, err := Load(path); err == nil || !strings.Contains(err.Error(), "holograms") {
		t.Fatalf("expected modality error, got %v", err)
	}
}

func TestLoadRejectsAllMixedWithIDs(t *testing.T) {
	path := writeConfig(t, minimalConfig(t)+`
[selection]
cameras = ["all", "25"]
modalities = ["images"]
`)
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected camera selection error")
	}
}

func TestLoadRejectsSharedScratchAndOutput(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
[paths]
scratch_dir = "`+dir+`"
output_dir = "`+dir+`"

[transfer]
remote = "gdrive"
`)
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected scratch/output collision error")
	}
}

func TestLoadRejectsBadImageFormat(t *testing.T) {
	path := writeConfig(t, minimalConfig(t)+`
[output]
image_format = "bmp"
`)
	if _, _, _, err := Load(path); err == nil {
		t.Fatal("expected image format error")
	}
}

func TestRequireSelection(t *testing.T) {
	path := writeConfig(t, minimalConfig(t))
	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.RequireSelection(); err == nil {
		t.Fatal("empty selection should be rejected for runs")
	}
	cfg.Selection.Subjects = []string{"0026"}
	cfg.Selection.Performances = []string{"s1_all"}
	if err := cfg.RequireSelection(); err != nil {
		t.Fatalf("RequireSelection failed: %v", err)
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample failed: %v", err)
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("expected overwrite refusal")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[selection]") {
		t.Fatal("sample config incomplete")
	}
}
