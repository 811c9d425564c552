// Package download streams an HTTP response body to disk in fixed-size
// chunks, reporting progress after every chunk written.
//
// # Single Download
//
// [Handle] takes ownership of an opened body, creates (or truncates) the
// destination file and copies the body into it 1KB at a time:
//
//	res, err := download.Handle(ctx, body, total, destPath, logger,
//		download.WithProgress(func(received, total int64) {
//			fmt.Printf("%d/%d\n", received, total)
//		}),
//	)
//
// A total of 0 means the server did not announce a usable Content-Length.
// On failure the partially written file is left in place.
//
// # Async Downloads
//
// [Async] runs a download on its own goroutine through a [Queue]; use
// [WithBatch] or [WithQueue] to bound how many run at once.
//
// Most callers should use the higher-level
// [github.com/adamwoolhether/fetcher/client] package, which opens the
// connection and invokes Handle internally.
package download
