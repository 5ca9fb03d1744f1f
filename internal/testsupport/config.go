// Package testsupport provides shared helpers for package tests: config
// fixtures backed by per-test temp directories, manifest store setup, and
// synthetic capture container builders.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"smcextract/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfg := &cfgVal
	cfg.Transfer.Remote = "testremote"
	cfg.Paths.ScratchDir = filepath.Join(base, "scratch")
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Workers.Units = 1
	cfg.Workers.Decoders = 2

	builder := &configBuilder{t: t, baseDir: base, cfg: cfg}
	for _, opt := range opts {
		opt(builder)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithSelection sets the subjects and performances to process.
func WithSelection(subjects, performances []string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Selection.Subjects = subjects
		b.cfg.Selection.Performances = performances
	}
}

// WithCameras sets the requested camera list.
func WithCameras(cameras ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Selection.Cameras = cameras
	}
}

// WithModalities sets the requested modality list.
func WithModalities(modalities ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Selection.Modalities = modalities
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, rclone and ffmpeg are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"rclone", "ffmpeg"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			if err := os.WriteFile(filepath.Join(binDir, name), script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}
