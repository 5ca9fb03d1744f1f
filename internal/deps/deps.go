// Package deps declares the external command-line tools the pipeline
// shells out to and reports their availability.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"smcextract/internal/config"
)

// Requirement defines an external dependency the extractor relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the external tools implied by the given config.
// ffmpeg is only required when MP3 export is enabled.
func Requirements(cfg *config.Config) []Requirement {
	if cfg == nil {
		return nil
	}
	reqs := []Requirement{
		{
			Name:        "rclone",
			Command:     cfg.Transfer.Binary,
			Description: "Required for fetching containers from remote storage",
		},
	}
	reqs = append(reqs, Requirement{
		Name:        "FFmpeg",
		Command:     cfg.Output.FFmpegBinary,
		Description: "Required for MP3 audio export",
		Optional:    !cfg.Output.AudioMP3,
	})
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the names of required dependencies that are
// unavailable.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, status := range statuses {
		if !status.Optional && !status.Available {
			missing = append(missing, status.Name)
		}
	}
	return missing
}
