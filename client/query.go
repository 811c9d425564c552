package client

import (
	"net/url"
	"strings"
)

// ParseURL parses raw and requires the result to be absolute with a host.
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &Error{Err: ErrMalformedURL, Detail: "parsing url", Cause: err}
	}

	if !u.IsAbs() || u.Host == "" {
		return nil, &Error{Err: ErrMalformedURL, Detail: "url must be absolute with a host: " + u.Redacted()}
	}

	return u, nil
}

// MergeQuery appends params to the query of u and returns the result.
// u itself is never modified.
//
// Each param contributes one key=value pair per value, in order, and
// keys repeat as often as they are supplied. The new pairs are joined
// with '&' and follow whatever query u already had.
//
// With encode set, every new key and value is percent-encoded on its
// own, so '&', '=', '+' and '%' inside them survive the round trip and
// spaces become %20. Without it the pairs are inserted as given, for
// values that are already encoded.
//
// When params is empty u is returned as is.
func MergeQuery(u *url.URL, params Params, encode bool) (*url.URL, error) {
	if len(params) == 0 {
		return u, nil
	}

	var pairs []string
	for _, p := range params {
		key := p.Key
		if encode {
			key = escapeQueryComponent(key)
		}

		for _, v := range p.Value.Values() {
			if encode {
				v = escapeQueryComponent(v)
			}
			pairs = append(pairs, key+"="+v)
		}
	}

	query := u.RawQuery
	if added := strings.Join(pairs, "&"); added != "" {
		if query != "" {
			query += "&"
		}
		query += added
	}

	if encode {
		return encodedURL(u, query)
	}

	return rawURL(u, query)
}

// encodedURL rebuilds u around query, leaving every other component as parsed.
func encodedURL(u *url.URL, query string) (*url.URL, error) {
	if u.Opaque != "" || u.Host == "" {
		return nil, &Error{Err: ErrURISyntax, Detail: "url cannot carry a hierarchical query: " + u.Redacted()}
	}

	out := *u
	out.RawQuery = query
	out.ForceQuery = false

	parsed, err := url.Parse(out.String())
	if err != nil {
		return nil, &Error{Err: ErrURISyntax, Detail: "rebuilding url", Cause: err}
	}

	return parsed, nil
}

// rawURL concatenates the components of u around query without escaping anything.
func rawURL(u *url.URL, query string) (*url.URL, error) {
	var b strings.Builder
	b.WriteString(u.Scheme)
	b.WriteString("://")
	if u.User != nil {
		b.WriteString(u.User.String())
		b.WriteByte('@')
	}
	b.WriteString(u.Host)
	b.WriteString(u.EscapedPath())
	if query != "" {
		b.WriteByte('?')
		b.WriteString(query)
	}
	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.EscapedFragment())
	}

	parsed, err := url.Parse(b.String())
	if err != nil {
		return nil, &Error{Err: ErrMalformedURL, Detail: "parsing merged url", Cause: err}
	}

	return parsed, nil
}

// escapeQueryComponent escapes s for use as a query key or value.
// Spaces become %20 rather than '+'.
func escapeQueryComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
