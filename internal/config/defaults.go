package config

const (
	defaultScratchDir   = "~/.local/share/smcextract/scratch"
	defaultOutputDir    = "~/captures"
	defaultLogDir       = "~/.local/share/smcextract/logs"
	defaultBinary       = "rclone"
	defaultTransfers    = 4
	defaultUnitWorkers  = 1
	defaultDecodeWorker = 8
	defaultImageFormat  = "jpg"
	defaultImageQuality = 95
	defaultFFmpegBinary = "ffmpeg"
	defaultRetryLimit   = 2
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ScratchDir: defaultScratchDir,
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
		},
		Transfer: Transfer{
			Binary:    defaultBinary,
			Transfers: defaultTransfers,
		},
		Selection: Selection{
			Cameras:    []string{CameraAll},
			Modalities: []string{"images", "masks", "audio", "calibration", "metadata"},
		},
		Workers: Workers{
			Units:    defaultUnitWorkers,
			Decoders: defaultDecodeWorker,
		},
		Output: Output{
			ImageFormat:  defaultImageFormat,
			ImageQuality: defaultImageQuality,
			FFmpegBinary: defaultFFmpegBinary,
		},
		Workflow: Workflow{
			RetryLimit: defaultRetryLimit,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
