package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTransfer()
	c.normalizeSelection()
	c.normalizeWorkers()
	c.normalizeOutput()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.ScratchDir, err = expandPath(c.Paths.ScratchDir); err != nil {
		return fmt.Errorf("paths.scratch_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTransfer() {
	if strings.TrimSpace(c.Transfer.Binary) == "" {
		c.Transfer.Binary = defaultBinary
	}
	if c.Transfer.Transfers <= 0 {
		c.Transfer.Transfers = defaultTransfers
	}
}

func (c *Config) normalizeSelection() {
	c.Selection.Subjects = trimAll(c.Selection.Subjects)
	c.Selection.Performances = trimAll(c.Selection.Performances)
	c.Selection.Cameras = trimAll(c.Selection.Cameras)
	if len(c.Selection.Cameras) == 0 {
		c.Selection.Cameras = []string{CameraAll}
	}
	for performance, cameras := range c.Selection.CameraOverrides {
		c.Selection.CameraOverrides[performance] = trimAll(cameras)
	}
	c.Selection.Modalities = trimAll(c.Selection.Modalities)
	for i, m := range c.Selection.Modalities {
		c.Selection.Modalities[i] = strings.ToLower(m)
	}
}

func (c *Config) normalizeWorkers() {
	if c.Workers.Units <= 0 {
		c.Workers.Units = defaultUnitWorkers
	}
	if c.Workers.Decoders <= 0 {
		c.Workers.Decoders = defaultDecodeWorker
	}
}

func (c *Config) normalizeOutput() {
	if strings.TrimSpace(c.Output.ImageFormat) == "" {
		c.Output.ImageFormat = defaultImageFormat
	}
	c.Output.ImageFormat = strings.ToLower(strings.TrimSpace(c.Output.ImageFormat))
	if c.Output.ImageQuality <= 0 || c.Output.ImageQuality > 100 {
		c.Output.ImageQuality = defaultImageQuality
	}
	if strings.TrimSpace(c.Output.FFmpegBinary) == "" {
		c.Output.FFmpegBinary = defaultFFmpegBinary
	}
}

func (c *Config) normalizeLogging() {
	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func trimAll(values []string) []string {
	out := values[:0]
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
