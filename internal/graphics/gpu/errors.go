package gpu

import "github.com/pkg/errors"

var (
	// ErrResourceCreation means a GPU object could not be allocated. Fatal at startup and on resize.
	ErrResourceCreation = errors.New("gpu resource creation failed")

	// ErrAttachmentNotFound means a pass asked a frame buffer for an attachment it never registered
	ErrAttachmentNotFound = errors.New("attachment not found")

	// ErrCapacityExceeded means more records were submitted than a fixed table holds; the excess is dropped
	ErrCapacityExceeded = errors.New("capacity exceeded")
)

// creationError tags err as ErrResourceCreation while keeping its message and cause
type creationError struct {
	cause error
}

func (e *creationError) Error() string { return e.cause.Error() }
func (e *creationError) Unwrap() error { return e.cause }
func (e *creationError) Is(target error) bool {
	return target == ErrResourceCreation
}

// CreationFailed wraps err with context and marks it as ErrResourceCreation
func CreationFailed(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &creationError{cause: errors.Wrapf(err, format, args...)}
}
