package config

import (
	"errors"
	"fmt"
	"strings"

	"smcextract/internal/smc"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTransfer(); err != nil {
		return err
	}
	if err := c.validateSelection(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.ScratchDir == "" {
		return errors.New("paths.scratch_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.ScratchDir == c.Paths.OutputDir {
		return errors.New("paths.scratch_dir and paths.output_dir must differ: extraction deletes scratch contents")
	}
	return nil
}

func (c *Config) validateTransfer() error {
	if strings.TrimSpace(c.Transfer.Remote) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/smcextract/config.toml"
		}
		return fmt.Errorf("transfer.remote is required (the rclone remote holding the containers); edit %s or create it with 'smcextract config init'", defaultPath)
	}
	return nil
}

func (c *Config) validateSelection() error {
	if containsAll(c.Selection.Cameras) && len(c.Selection.Cameras) > 1 {
		return errors.New(`selection.cameras: "all" cannot be combined with explicit camera ids`)
	}
	for performance, cameras := range c.Selection.CameraOverrides {
		if containsAll(cameras) && len(cameras) > 1 {
			return fmt.Errorf(`selection.camera_overrides.%s: "all" cannot be combined with explicit camera ids`, performance)
		}
	}
	if len(c.Selection.Modalities) == 0 {
		return errors.New("selection.modalities must name at least one modality")
	}
	for _, value := range c.Selection.Modalities {
		if _, ok := smc.ParseModality(value); !ok {
			return fmt.Errorf("selection.modalities: unknown modality %q", value)
		}
	}
	return nil
}

func (c *Config) validateOutput() error {
	switch c.Output.ImageFormat {
	case "jpg", "jpeg", "png", "webp":
		return nil
	default:
		return fmt.Errorf("output.image_format: unsupported value %q (use jpg, png, or webp)", c.Output.ImageFormat)
	}
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.RetryLimit < 0 {
		return errors.New("workflow.retry_limit must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}

// RequireSelection validates the parts of the selection only a run needs;
// inspect and status commands work without them.
func (c *Config) RequireSelection() error {
	if len(c.Selection.Subjects) == 0 {
		return errors.New("selection.subjects must name at least one subject")
	}
	if len(c.Selection.Performances) == 0 {
		return errors.New("selection.performances must name at least one performance")
	}
	return nil
}

func containsAll(cameras []string) bool {
	for _, cam := range cameras {
		if strings.EqualFold(cam, CameraAll) {
			return true
		}
	}
	return false
}
