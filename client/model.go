package client

import (
	"strings"
	"time"
)

// maxErrBodySize caps the amount of response body read when
// building an error for an unexpected status code. This prevents
// unbounded memory usage when a large response arrives with a
// wrong status.
const maxErrBodySize = 4 << 10 // 4KB

// RequestSpec describes the single request a download performs.
// It is a plain value: build it once and pass it by value.
type RequestSpec struct {
	// URL must be absolute. Any query it already carries is kept and
	// Params are appended after it.
	URL string `json:"url"`

	// Method defaults to GET and is upper-cased before use.
	Method string `json:"method" validate:"omitempty,oneof=GET HEAD POST PUT DELETE TRACE OPTIONS CONNECT PATCH"`

	Headers Headers `json:"headers" validate:"dive"`
	Params  Params  `json:"params" validate:"dive"`

	// ConnectTimeout bounds dialing and the TLS handshake.
	// Zero leaves the transport default in place.
	ConnectTimeout time.Duration `json:"connectTimeout" validate:"gte=0"`

	// ReadTimeout bounds the wait for response headers and for each
	// read of the body. Zero leaves the transport default in place.
	ReadTimeout time.Duration `json:"readTimeout" validate:"gte=0"`

	// SkipQueryEncoding appends Params verbatim, for callers whose values
	// are already percent-encoded.
	SkipQueryEncoding bool `json:"skipQueryEncoding"`

	DisableRedirects bool `json:"disableRedirects"`
}

// normalize returns a copy with defaults applied, validated.
func (s RequestSpec) normalize() (RequestSpec, error) {
	s.Method = methodOf(s)

	if err := Validate(s); err != nil {
		return s, &Error{Err: ErrInvalidRequest, Cause: err}
	}

	return s, nil
}

// Header is a single request header.
type Header struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

// Headers keeps request headers in the order they were supplied.
type Headers []Header

// Param is a single query parameter entry.
type Param struct {
	Key   string     `json:"key" validate:"required"`
	Value ParamValue `json:"value"`
}

// Params keeps query parameters in insertion order. Keys may repeat.
type Params []Param

// ParamKind tags the variant held by a [ParamValue].
type ParamKind int

const (
	KindScalar ParamKind = iota
	KindSequence
)

func (k ParamKind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// ParamValue is either a single string or an ordered list of strings.
// The zero value is the empty scalar.
type ParamValue struct {
	kind   ParamKind
	scalar string
	seq    []string
}

// Scalar returns a single-valued parameter.
func Scalar(v string) ParamValue {
	return ParamValue{kind: KindScalar, scalar: v}
}

// Sequence returns a parameter emitted once per element, in order.
func Sequence(vs ...string) ParamValue {
	return ParamValue{kind: KindSequence, seq: append([]string(nil), vs...)}
}

// Kind reports which variant v holds.
func (v ParamValue) Kind() ParamKind { return v.kind }

// Values returns the strings v contributes to a query, one per pair.
func (v ParamValue) Values() []string {
	if v.kind == KindSequence {
		return append([]string(nil), v.seq...)
	}

	return []string{v.scalar}
}

func methodOf(s RequestSpec) string {
	m := strings.ToUpper(strings.TrimSpace(s.Method))
	if m == "" {
		return "GET"
	}
	return m
}
