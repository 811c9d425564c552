package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Handle streams body into destPath and closes body when done.
//
// The destination is created, or truncated if present, before the first
// read. Each chunk is written in full and reported to the progress sinks
// before the next read is issued. On success the body is closed first,
// then the file. On failure both are still closed, but the partially
// written file is left on disk.
func Handle(ctx context.Context, body io.ReadCloser, total int64, destPath string, logger *slog.Logger, optFns ...Option) (Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var bodyClosed bool
	defer func() {
		if bodyClosed {
			return
		}
		if err := body.Close(); err != nil {
			logger.Error("defer closing body", "error", err)
		}
	}()

	opts, err := apply(optFns)
	if err != nil {
		return Result{}, fmt.Errorf("applying option: %w", err)
	}

	absPath, err := filepath.Abs(destPath)
	if err != nil {
		return Result{}, IOError("resolving destination", err)
	}

	if opts.skipExisting {
		if _, err := os.Stat(absPath); err == nil {
			logger.Info("skipping existing file", "path", absPath)
			return Result{Path: absPath}, nil
		}
	}

	if total < 0 {
		total = 0
	}

	file, err := os.OpenFile(absPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return Result{}, IOError("creating file", err)
	}

	var fileClosed bool
	defer func() {
		if fileClosed {
			return
		}
		if err := file.Close(); err != nil {
			logger.Error("defer closing file", "error", err)
		}
	}()

	var writer io.Writer = file
	if opts.checksum != nil {
		writer = io.MultiWriter(writer, opts.checksum)
	}

	sinks := opts.progress
	if opts.logProgress {
		sinks = append(sinks, LogProgress(logger))
	}

	if _, err := stream(ctx, body, writer, total, sinks); err != nil {
		return Result{}, err
	}

	bodyClosed = true
	if err := body.Close(); err != nil {
		logger.Warn("closing body", "error", err)
	}

	fileClosed = true
	if err := file.Close(); err != nil {
		return Result{}, IOError("closing file", err)
	}

	if err := opts.checksum.Verify(); err != nil {
		return Result{}, err
	}

	return Result{Path: absPath}, nil
}

// stream runs the read-write-emit loop and returns the number of bytes written.
func stream(ctx context.Context, body io.Reader, w io.Writer, total int64, sinks []ProgressFunc) (int64, error) {
	body = &contextReader{ctx: ctx, r: body}
	buf := make([]byte, ChunkSize)

	var received int64
	for {
		n, rerr := body.Read(buf)
		if n > 0 {
			if _, err := w.Write(buf[:n]); err != nil {
				return received, IOError("writing file", err)
			}

			received += int64(n)
			for _, fn := range sinks {
				fn(received, total)
			}
		}

		if errors.Is(rerr, io.EOF) {
			return received, nil
		}

		if rerr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return received, IOError("reading body", fmt.Errorf("%w: %w", ErrDownloadCancelled, ctxErr))
			}
			return received, IOError("reading body", rerr)
		}
	}
}

// ParseContentLength turns a Content-Length header value into the expected
// total. Absent, malformed or negative values yield 0, meaning unknown.
func ParseContentLength(v string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n < 0 {
		return 0
	}

	return n
}

// contextReader fails reads once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *contextReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}

	return cr.r.Read(p)
}
