package download

import (
	"errors"
	"hash"
)

// Option defines optional settings for downloading files.
//
// WithProgress registers a sink called after every chunk written.
//
// WithProgressLog enables periodic progress logging via the logger
// supplied to Handle.
//
// WithChecksum enables checksum validation of the downloaded file.
// h is a hash.Hash instance (e.g. sha256.New()), and expected is the
// hex-encoded expected checksum string.
//
// WithSkipExisting causes Handle to return immediately when the
// destination file already exists, avoiding a redundant download.
//
// WithBatch and WithQueue only apply to [Async].
type Option func(*options) error
type options struct {
	checksum     *checksumVerifier
	progress     []ProgressFunc
	logProgress  bool
	skipExisting bool
	batch        *int
	queue        *Queue
}

func apply(optFns []Option) (options, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return options{}, err
		}
	}

	if opts.batch != nil && opts.queue != nil {
		return options{}, errors.New("WithBatch and WithQueue are mutually exclusive")
	}

	return opts, nil
}

func WithProgress(fn ProgressFunc) Option {
	return func(opts *options) error {
		if fn == nil {
			return errors.New("progress func must not be nil")
		}
		opts.progress = append(opts.progress, fn)
		return nil
	}
}

func WithProgressLog() Option {
	return func(opts *options) error {
		opts.logProgress = true
		return nil
	}
}

func WithChecksum(h hash.Hash, expected string) Option {
	return func(opts *options) error {
		if h == nil {
			return errors.New("hash must not be nil")
		}
		if expected == "" {
			return errors.New("expected checksum must not be empty")
		}
		opts.checksum = &checksumVerifier{hash: h, expected: expected}
		return nil
	}
}

func WithSkipExisting() Option {
	return func(opts *options) error {
		opts.skipExisting = true
		return nil
	}
}

// WithBatch starts a new [Queue] with the given concurrency limit.
// If maxConcurrent <= 0, concurrency is unlimited.
func WithBatch(maxConcurrent int) Option {
	return func(opts *options) error {
		opts.batch = &maxConcurrent
		return nil
	}
}

// WithQueue schedules the download on an existing [Queue], typically
// obtained from [Job.Queue].
func WithQueue(q *Queue) Option {
	return func(opts *options) error {
		if q == nil {
			return errors.New("queue must not be nil")
		}
		opts.queue = q
		return nil
	}
}
