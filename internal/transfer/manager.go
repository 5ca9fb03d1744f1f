package transfer

import (
	"context"
	"fmt"
)

// Manager is the transfer contract the extraction core requires: fetch one
// remote container into a local directory, and delete a local copy once the
// reader has released it.
type Manager interface {
	// Fetch downloads the container identified by remoteKey into localDir
	// and returns the local path. The file is either fully present at the
	// returned path or absent; a partial download is never exposed.
	Fetch(ctx context.Context, remoteKey, localDir string) (string, error)

	// Delete removes a previously fetched local copy.
	Delete(localPath string) error
}

// Error wraps a remote fetch or delete failure. Transfer failures are
// retryable: the unit that hit one moves to failed with its retry flag set.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("transfer %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
