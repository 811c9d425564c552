package download

import "errors"

// ChunkSize is the number of bytes requested from the body per read.
const ChunkSize = 1024

var (
	// ErrIO indicates a failure reading the body or writing the destination file.
	ErrIO = errors.New("download i/o failure")
	// ErrChecksumMismatch indicates the file checksum did not match the expected value.
	ErrChecksumMismatch = errors.New("checksum mismatch")
	// ErrDownloadCancelled indicates the download was cancelled via context.
	ErrDownloadCancelled = errors.New("download cancelled")
	// ErrGroupShutdown indicates the download queue was shut down.
	ErrGroupShutdown = errors.New("download queue shut down")
)

// Error pairs a sentinel kind with optional detail and the underlying cause.
// Both Err and Cause are visible to [errors.Is] and [errors.As].
type Error struct {
	Err    error
	Detail string
	Cause  error
}

func (e *Error) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

func (e *Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}

	return []error{e.Err, e.Cause}
}

// IOError builds an [ErrIO] error for the given step.
func IOError(detail string, cause error) error {
	return &Error{Err: ErrIO, Detail: detail, Cause: cause}
}

// Result is returned once a download has been fully written.
type Result struct {
	// Path is the absolute path of the destination file.
	Path string `json:"path"`
}

// ProgressFunc receives the cumulative number of bytes written and the
// expected total. A total of 0 means unknown, not empty.
type ProgressFunc func(received, total int64)
