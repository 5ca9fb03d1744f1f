package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// CameraAll is the selection sentinel meaning "every camera the container
// truly holds".
const CameraAll = "all"

// Paths contains directory configuration.
type Paths struct {
	ScratchDir string `toml:"scratch_dir"`
	OutputDir  string `toml:"output_dir"`
	LogDir     string `toml:"log_dir"`
}

// Transfer contains configuration for the remote file host client.
type Transfer struct {
	Binary       string `toml:"binary"`
	Remote       string `toml:"remote"`
	RootFolderID string `toml:"root_folder_id"`
	Transfers    int    `toml:"transfers"`
}

// Selection describes what to extract: the run's subjects, performances,
// cameras, and modalities.
type Selection struct {
	Subjects     []string `toml:"subjects"`
	Performances []string `toml:"performances"`
	// Cameras is either the single sentinel ["all"] or an explicit id list.
	Cameras []string `toml:"cameras"`
	// CameraOverrides replaces the camera list for specific performances.
	CameraOverrides map[string][]string `toml:"camera_overrides"`
	Modalities      []string            `toml:"modalities"`
}

// Workers bounds the two worker pools. Units caps concurrent containers on
// scratch (peak scratch usage is units x one container); Decoders bounds the
// per-unit stream decode fan-out.
type Workers struct {
	Units    int `toml:"units"`
	Decoders int `toml:"decoders"`
}

// Output controls artifact encodings.
type Output struct {
	ImageFormat  string `toml:"image_format"`
	ImageQuality int    `toml:"image_quality"`
	AudioMP3     bool   `toml:"audio_mp3"`
	FFmpegBinary string `toml:"ffmpeg_binary"`
}

// Workflow contains run-level behavior knobs.
type Workflow struct {
	// RetryLimit is how many times a failed unit is automatically requeued
	// within one run. Zero disables automatic retry.
	RetryLimit int `toml:"retry_limit"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for smcextract.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Transfer  Transfer  `toml:"transfer"`
	Selection Selection `toml:"selection"`
	Workers   Workers   `toml:"workers"`
	Output    Output    `toml:"output"`
	Workflow  Workflow  `toml:"workflow"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/smcextract/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("smcextract.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run needs.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ScratchDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ManifestDBPath returns the path of the durable manifest database.
func (c *Config) ManifestDBPath() string {
	return filepath.Join(c.Paths.LogDir, "manifest.db")
}

// LockFilePath returns the single-instance lock location for runs.
func (c *Config) LockFilePath() string {
	return filepath.Join(c.Paths.LogDir, "smcextract.lock")
}

// WriteSample writes the annotated sample configuration to path.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config file already exists at %s", expanded)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
