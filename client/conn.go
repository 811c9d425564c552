package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/adamwoolhether/fetcher/client/download"
)

// Conn is an open response whose body has not been read yet.
// It reads the body and must be closed; Close is safe to call more than once.
type Conn struct {
	// URL is the request URL after the query merge.
	URL *url.URL

	resp        *http.Response
	ctx         context.Context
	cancel      context.CancelCauseFunc
	readTimeout time.Duration
	closeIdle   func()

	closeOnce sync.Once
	closeErr  error
}

// StatusCode returns the response status code.
func (c *Conn) StatusCode() int { return c.resp.StatusCode }

// Header returns the response headers.
func (c *Conn) Header() http.Header { return c.resp.Header }

// ContentLength returns the announced body size, or 0 when the server
// did not send a usable Content-Length.
func (c *Conn) ContentLength() int64 {
	return download.ParseContentLength(c.resp.Header.Get("Content-Length"))
}

// Read reads from the response body. With a read timeout set, a read that
// produces nothing in time fails with [ErrReadTimeout].
func (c *Conn) Read(p []byte) (int, error) {
	if c.readTimeout <= 0 {
		return c.resp.Body.Read(p)
	}

	timer := time.AfterFunc(c.readTimeout, func() { c.cancel(ErrReadTimeout) })
	n, err := c.resp.Body.Read(p)
	timer.Stop()

	if err != nil && !errors.Is(err, io.EOF) && errors.Is(context.Cause(c.ctx), ErrReadTimeout) {
		return n, fmt.Errorf("%w after %s: %w", ErrReadTimeout, c.readTimeout, err)
	}

	return n, err
}

// Close releases the response body and the request context.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.resp.Body.Close()
		c.cancel(nil)
		if c.closeIdle != nil {
			c.closeIdle()
		}
	})

	return c.closeErr
}

// Open validates spec, merges its query and sends the request. It returns
// once the response headers have arrived, whatever the status code.
func (c *Client) Open(ctx context.Context, spec RequestSpec) (*Conn, error) {
	spec, err := spec.normalize()
	if err != nil {
		return nil, err
	}

	u, err := ParseURL(spec.URL)
	if err != nil {
		return nil, err
	}

	u, err = MergeQuery(u, spec.Params, !spec.SkipQueryEncoding)
	if err != nil {
		return nil, err
	}

	return c.open(ctx, spec, u)
}

func (c *Client) open(ctx context.Context, spec RequestSpec, u *url.URL) (*Conn, error) {
	reqCtx, cancel := context.WithCancelCause(ctx)

	req, err := http.NewRequestWithContext(reqCtx, spec.Method, u.String(), nil)
	if err != nil {
		cancel(nil)
		return nil, &Error{Err: ErrMalformedURL, Detail: "building request", Cause: err}
	}

	for _, h := range spec.Headers {
		if http.CanonicalHeaderKey(h.Key) == "Host" {
			req.Host = h.Value
			continue
		}
		req.Header.Set(h.Key, h.Value)
	}

	rt, closeIdle := c.roundTripper(spec)
	hc := &http.Client{Transport: rt}
	if spec.DisableRedirects || c.noFollowRedirects {
		hc.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	// The read timeout also bounds the wait for response headers.
	var timer *time.Timer
	if spec.ReadTimeout > 0 {
		timer = time.AfterFunc(spec.ReadTimeout, func() { cancel(ErrReadTimeout) })
	}

	c.logger.Debug("opening connection", "method", spec.Method, "url", u.Redacted())

	resp, err := hc.Do(req)
	if timer != nil {
		timer.Stop()
	}
	if err != nil {
		if errors.Is(context.Cause(reqCtx), ErrReadTimeout) {
			err = fmt.Errorf("%w: %w", ErrReadTimeout, err)
		}
		cancel(nil)
		closeIdle()

		return nil, &Error{Err: ErrConnection, Detail: spec.Method + " " + u.Redacted(), Cause: err}
	}

	return &Conn{
		URL:         u,
		resp:        resp,
		ctx:         reqCtx,
		cancel:      cancel,
		readTimeout: spec.ReadTimeout,
		closeIdle:   closeIdle,
	}, nil
}

// roundTripper assembles the transport chain for one request. The returned
// func drops any idle connections of a per-request transport.
func (c *Client) roundTripper(spec RequestSpec) (http.RoundTripper, func()) {
	rt := c.base
	closeIdle := func() {}

	if t, ok := rt.(*http.Transport); ok && spec.ConnectTimeout > 0 {
		t = t.Clone()
		dialer := &net.Dialer{Timeout: spec.ConnectTimeout, KeepAlive: 30 * time.Second}
		t.DialContext = dialer.DialContext
		t.TLSHandshakeTimeout = spec.ConnectTimeout
		rt = t
		closeIdle = t.CloseIdleConnections
	}

	if c.userAgent != "" {
		rt = userAgent{value: c.userAgent, base: rt}
	}
	if c.limiter != nil {
		rt = c.limiter.Wrap(rt)
	}

	return rt, closeIdle
}

// newTransport returns the default base transport: one connection per
// request, bodies passed through without transparent decompression.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.DisableCompression = true
	t.DisableKeepAlives = true
	return t
}
