package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"smcextract/internal/smc"
	"smcextract/internal/testsupport"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	path := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(`[paths]
scratch_dir = %q
output_dir = %q
log_dir = %q

[transfer]
remote = "testremote"

[selection]
subjects = ["0026"]
performances = ["s1_all"]
`,
		filepath.Join(base, "scratch"),
		filepath.Join(base, "output"),
		filepath.Join(base, "logs"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	output, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(output, target) {
		t.Fatalf("output should name the target: %q", output)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[transfer]") {
		t.Fatalf("sample missing transfer section: %q", data)
	}

	// A second init must refuse to clobber the file.
	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}

func TestConfigValidate(t *testing.T) {
	path := writeTestConfig(t)
	output, err := runCommand(t, "--config", path, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(output, "is valid") {
		t.Fatalf("unexpected output: %q", output)
	}
}

func TestStatusWithEmptyManifest(t *testing.T) {
	path := writeTestConfig(t)
	output, err := runCommand(t, "--config", path, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(output, "Manifest is empty") {
		t.Fatalf("unexpected output: %q", output)
	}
}

func TestInspectShowsTrueIndex(t *testing.T) {
	container := filepath.Join(t.TempDir(), "0026_s1_all_raw.smc")
	testsupport.BuildContainer(t, container, testsupport.ContainerSpec{
		Header:  smc.Header{ActorID: "0026", PerformancePart: "s1_all", NumDevice: 60, NumFrame: 60},
		Cameras: []string{"00"},
		Frames:  2,
	})

	output, err := runCommand(t, "inspect", container)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if !strings.Contains(output, "60 cameras, 60 frames (advisory)") {
		t.Fatalf("declared header missing: %q", output)
	}
	if !strings.Contains(output, "2 frames") {
		t.Fatalf("true frame count missing: %q", output)
	}
}

func TestInspectRejectsMissingFile(t *testing.T) {
	if _, err := runCommand(t, "inspect", filepath.Join(t.TempDir(), "absent.smc")); err == nil {
		t.Fatal("expected error for missing container")
	}
}
