package manifest

import "fmt"

// WriteError wraps a failure to persist the durable unit log. This is the
// one fatal error class of the pipeline: continuing without the log would
// allow a container to be deleted before its success was recorded, so
// callers halt the whole run on it.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("manifest write (%s): %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

func writeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &WriteError{Op: op, Err: err}
}
