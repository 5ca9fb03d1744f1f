package smc

import "errors"

// ErrContainerNotFound indicates the container file does not exist.
var ErrContainerNotFound = errors.New("container not found")

// ErrContainerCorrupt indicates the container file exists but cannot be read
// as a capture archive. A fresh fetch is required; retrying the open is
// pointless.
var ErrContainerCorrupt = errors.New("container corrupt")

// ErrStreamNotFound indicates a requested stream key has no member in the
// container's directory. This is the expected outcome for declared-but-absent
// cameras and is not an application error.
var ErrStreamNotFound = errors.New("stream not found")
