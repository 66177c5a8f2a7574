package loader

import (
	"errors"
	"fmt"
	"syscall"

	"github.com/zjrosen/zecora/internal/frame"
)

var (
	// ErrNotRegularFile is returned when the path names a directory, device or other non-file.
	ErrNotRegularFile = errors.New("not a regular file")
	// ErrReadFailed is returned when reading an existing file fails before EOF.
	ErrReadFailed = errors.New("failed to read file")
)

// AlreadyOpenError reports that the path is already held by a frame.
type AlreadyOpenError struct {
	Handle frame.Handle
	Path   string
}

func (e *AlreadyOpenError) Error() string {
	return fmt.Sprintf("%s is already open", e.Path)
}

// SystemError carries a low-level failure such as permission denied, a
// missing intermediate directory or a path that is too long.
type SystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SystemError) Unwrap() error { return e.Err }

// Errno returns the underlying system error code, or 0 when there is none.
func (e *SystemError) Errno() syscall.Errno {
	var errno syscall.Errno
	if errors.As(e.Err, &errno) {
		return errno
	}
	return 0
}

// Status is the discriminated outcome of an open.
type Status int

const (
	Created Status = iota
	AlreadyOpen
	NotRegularFile
	ReadFailed
	SystemErrorStatus
)

func (s Status) String() string {
	switch s {
	case Created:
		return "created"
	case AlreadyOpen:
		return "already open"
	case NotRegularFile:
		return "not a regular file"
	case ReadFailed:
		return "read failed"
	case SystemErrorStatus:
		return "system error"
	default:
		return "unknown"
	}
}

// Outcome maps an error returned by Open to its Status.
func Outcome(err error) Status {
	var already *AlreadyOpenError
	switch {
	case err == nil:
		return Created
	case errors.As(err, &already):
		return AlreadyOpen
	case errors.Is(err, ErrNotRegularFile):
		return NotRegularFile
	case errors.Is(err, ErrReadFailed):
		return ReadFailed
	default:
		return SystemErrorStatus
	}
}

// Describe returns alert text for a failed open.
func Describe(path string, err error) string {
	var sys *SystemError
	switch Outcome(err) {
	case Created:
		return ""
	case AlreadyOpen:
		return fmt.Sprintf("%s is already open", path)
	case NotRegularFile:
		return fmt.Sprintf("%s is not a regular file", path)
	case ReadFailed:
		return fmt.Sprintf("failed to read %s", path)
	default:
		if errors.As(err, &sys) {
			if errno := sys.Errno(); errno != 0 {
				return fmt.Sprintf("cannot open %s: %s", path, errno.Error())
			}
			return fmt.Sprintf("cannot open %s: %v", path, sys.Err)
		}
		return fmt.Sprintf("cannot open %s: %v", path, err)
	}
}
