package transfer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
)

var commandContext = exec.CommandContext

// Rclone fetches containers through the rclone command-line tool.
type Rclone struct {
	binary        string
	remote        string
	rootFolderID  string
	transfers     int
	lowLevelRetry int
}

// Option configures the rclone client.
type Option func(*Rclone)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *Rclone) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithRootFolderID scopes remote paths to a drive folder.
func WithRootFolderID(id string) Option {
	return func(c *Rclone) {
		c.rootFolderID = id
	}
}

// WithTransfers sets rclone's parallel transfer count.
func WithTransfers(n int) Option {
	return func(c *Rclone) {
		if n > 0 {
			c.transfers = n
		}
	}
}

// NewRclone constructs a client for the named rclone remote.
func NewRclone(remote string, opts ...Option) *Rclone {
	c := &Rclone{
		binary:        "rclone",
		remote:        remote,
		transfers:     4,
		lowLevelRetry: 20,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch runs rclone copy into a hidden staging directory and renames the
// result into localDir, so the visible file is atomic-or-absent.
func (c *Rclone) Fetch(ctx context.Context, remoteKey, localDir string) (string, error) {
	if strings.TrimSpace(remoteKey) == "" {
		return "", &Error{Op: "fetch", Key: remoteKey, Err: errors.New("remote key required")}
	}
	if strings.TrimSpace(localDir) == "" {
		return "", &Error{Op: "fetch", Key: remoteKey, Err: errors.New("local directory required")}
	}

	base := path.Base(remoteKey)
	finalPath := filepath.Join(localDir, base)
	stagingDir := filepath.Join(localDir, ".staging-"+base)
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return "", &Error{Op: "fetch", Key: remoteKey, Err: err}
	}
	defer func() { _ = os.RemoveAll(stagingDir) }()

	args := []string{
		"copy",
		fmt.Sprintf("%s:%s", c.remote, remoteKey),
		stagingDir,
		"--transfers", fmt.Sprint(c.transfers),
		"--low-level-retries", fmt.Sprint(c.lowLevelRetry),
	}
	if c.rootFolderID != "" {
		args = append(args, "--drive-root-folder-id", c.rootFolderID, "--drive-acknowledge-abuse")
	}

	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", &Error{Op: "fetch", Key: remoteKey, Err: fmt.Errorf("%w: %s", err, firstLine(output))}
	}

	staged := filepath.Join(stagingDir, base)
	if _, err := os.Stat(staged); err != nil {
		return "", &Error{Op: "fetch", Key: remoteKey, Err: fmt.Errorf("file missing after copy: %w", err)}
	}
	if err := os.Rename(staged, finalPath); err != nil {
		return "", &Error{Op: "fetch", Key: remoteKey, Err: err}
	}
	return finalPath, nil
}

// Delete removes a fetched local copy. Missing files are not an error; the
// goal state is "absent".
func (c *Rclone) Delete(localPath string) error {
	err := os.Remove(localPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return &Error{Op: "delete", Key: localPath, Err: err}
	}
	return nil
}

func firstLine(output []byte) string {
	text := strings.TrimSpace(string(output))
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
