package client

import (
	"hash"
	"io"

	"github.com/adamwoolhether/fetcher/client/download"
)

// --------------------------------------------------------------------
// Type aliases: re-export user-facing types from [download].
// --------------------------------------------------------------------

type (
	// DownloadOption configures a single download.
	DownloadOption = download.Option

	// DownloadResult is the outcome of a completed download.
	DownloadResult = download.Result

	// DownloadJob represents an in-flight or completed async download.
	DownloadJob = download.Job

	// DownloadQueue bounds a batch of async downloads.
	DownloadQueue = download.Queue

	// ProgressFunc receives the running byte count and the expected total,
	// which is 0 when unknown.
	ProgressFunc = download.ProgressFunc
)

// --------------------------------------------------------------------
// Sentinel errors
// --------------------------------------------------------------------

var (
	// ErrChecksumMismatch indicates the file checksum did not match the expected value.
	ErrChecksumMismatch = download.ErrChecksumMismatch

	// ErrDownloadCancelled indicates the download was cancelled via context.
	ErrDownloadCancelled = download.ErrDownloadCancelled

	// ErrGroupShutdown indicates the download queue was shut down.
	ErrGroupShutdown = download.ErrGroupShutdown
)

// --------------------------------------------------------------------
// Download option forwarding functions
// --------------------------------------------------------------------

// WithProgress registers fn to receive progress after every chunk.
func WithProgress(fn ProgressFunc) DownloadOption { return download.WithProgress(fn) }

// WithProgressLog enables periodic download progress logging.
func WithProgressLog() DownloadOption { return download.WithProgressLog() }

// WithProgressEvents writes one JSON event line per chunk to w.
func WithProgressEvents(w io.Writer, url string) DownloadOption {
	return download.WithProgress(download.JSONEvents(w, url))
}

// WithChecksum enables checksum validation of the downloaded file.
// h is a [hash.Hash] instance (e.g. sha256.New()), and expected is the
// hex-encoded expected checksum string.
func WithChecksum(h hash.Hash, expected string) DownloadOption {
	return download.WithChecksum(h, expected)
}

// WithSkipExisting causes a download to return immediately when
// the destination file already exists.
func WithSkipExisting() DownloadOption { return download.WithSkipExisting() }

// WithBatch activates batch mode by creating a download queue with the given
// concurrency limit. If maxConcurrent <= 0, concurrency is unlimited.
func WithBatch(maxConcurrent int) DownloadOption { return download.WithBatch(maxConcurrent) }

// WithQueue adds an async download to an existing queue.
func WithQueue(q *DownloadQueue) DownloadOption { return download.WithQueue(q) }
