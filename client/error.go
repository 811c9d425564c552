package client

import (
	"errors"
	"fmt"

	"github.com/adamwoolhether/fetcher/client/download"
)

// Request failures. Each is carried as the Err of an [*Error], so
// errors.Is matches both the kind and whatever caused it.
var (
	// ErrMalformedURL reports a URL that cannot be parsed, or that is not
	// absolute, or a raw query merge that does not parse.
	ErrMalformedURL = errors.New("malformed url")

	// ErrURISyntax reports a URL that cannot be rebuilt with an encoded query.
	ErrURISyntax = errors.New("uri syntax")

	// ErrConnection reports a failure to reach the server or to
	// receive its response headers.
	ErrConnection = errors.New("connection failure")

	// ErrInvalidRequest reports a RequestSpec or FileRequest that failed validation.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrReadTimeout reports a body read that produced nothing for longer
	// than the configured read timeout.
	ErrReadTimeout = errors.New("read timed out")
)

var (
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	ErrAuthenticationFailed = errors.New("authentication failed")
)

// ErrIO is raised for everything that goes wrong once the server has
// answered: a rejected status, reading the body, or writing the file.
var ErrIO = download.ErrIO

// Error is the structured error returned by every operation in this package.
type Error = download.Error

type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

// Outcome classifies err for logs and metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrMalformedURL):
		return "malformed_url"
	case errors.Is(err, ErrURISyntax):
		return "uri_syntax"
	case errors.Is(err, ErrConnection):
		return "connection"
	case errors.Is(err, download.ErrDownloadCancelled):
		return "cancelled"
	case errors.Is(err, ErrIO), errors.Is(err, download.ErrChecksumMismatch):
		return "io"
	default:
		return "error"
	}
}
