package client

import (
	"path/filepath"
	"time"
)

// FileRequest is the decoded form of a download call as sent by a host
// application: JSON from the `call` command or YAML entries of a batch file.
// Timeouts are in milliseconds.
type FileRequest struct {
	URL                   string  `json:"url" yaml:"url"`
	Method                string  `json:"method,omitempty" yaml:"method,omitempty"`
	FilePath              string  `json:"filePath" yaml:"filePath" validate:"required"`
	Headers               Headers `json:"headers,omitempty" yaml:"headers,omitempty"`
	Params                Params  `json:"params,omitempty" yaml:"params,omitempty"`
	ConnectTimeout        *int    `json:"connectTimeout,omitempty" yaml:"connectTimeout,omitempty" validate:"omitempty,gte=0"`
	ReadTimeout           *int    `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty" validate:"omitempty,gte=0"`
	DisableRedirects      bool    `json:"disableRedirects,omitempty" yaml:"disableRedirects,omitempty"`
	ShouldEncodeURLParams *bool   `json:"shouldEncodeUrlParams,omitempty" yaml:"shouldEncodeUrlParams,omitempty"`
	Progress              bool    `json:"progress,omitempty" yaml:"progress,omitempty"`
}

// Validate checks the fields that RequestSpec validation does not cover.
func (f FileRequest) Validate() error {
	if err := Validate(f); err != nil {
		return &Error{Err: ErrInvalidRequest, Cause: err}
	}

	return nil
}

// Spec converts f into the RequestSpec it describes. Query encoding is on
// unless ShouldEncodeURLParams is explicitly false.
func (f FileRequest) Spec() RequestSpec {
	spec := RequestSpec{
		URL:              f.URL,
		Method:           f.Method,
		Headers:          f.Headers,
		Params:           f.Params,
		DisableRedirects: f.DisableRedirects,
	}

	if f.ConnectTimeout != nil {
		spec.ConnectTimeout = time.Duration(*f.ConnectTimeout) * time.Millisecond
	}
	if f.ReadTimeout != nil {
		spec.ReadTimeout = time.Duration(*f.ReadTimeout) * time.Millisecond
	}
	if f.ShouldEncodeURLParams != nil && !*f.ShouldEncodeURLParams {
		spec.SkipQueryEncoding = true
	}

	return spec
}

// Destination returns FilePath made absolute against dir when it is relative.
func (f FileRequest) Destination(dir string) string {
	if filepath.IsAbs(f.FilePath) || dir == "" {
		return f.FilePath
	}

	return filepath.Join(dir, f.FilePath)
}
