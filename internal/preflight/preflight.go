// Package preflight validates the runtime environment before an
// extraction run starts: directory access, free scratch space, and the
// external binaries the pipeline shells out to.
package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"smcextract/internal/config"
	"smcextract/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// minScratchBytes is the free-space floor for the scratch directory. Raw
// containers run to tens of gigabytes; far less free space than this means
// a misconfigured mount.
const minScratchBytes = 10 << 30

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Scratch directory", cfg.Paths.ScratchDir),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckFreeSpace("Scratch free space", cfg.Paths.ScratchDir, minScratchBytes),
	}

	for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
		if status.Available {
			result.Detail = status.Command
		} else if status.Optional {
			result.Passed = true
			result.Detail = fmt.Sprintf("%s (optional)", status.Detail)
		}
		results = append(results, result)
	}

	return results
}

// Failed reports whether any check in results did not pass.
func Failed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return true
		}
	}
	return false
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies that the filesystem holding path has at least
// minBytes available to unprivileged writers.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s (%.1f GiB free)", path, float64(free)/float64(1<<30))
	if free < minBytes {
		return Result{Name: name, Detail: detail + fmt.Sprintf(", need %.0f GiB", float64(minBytes)/float64(1<<30))}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}
