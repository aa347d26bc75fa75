package apitester

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/launchdarkly/mock-api-tester/query"
)

// RequestBuilder accumulates the parts of a request. Its setters return the builder so calls
// can be chained.
type RequestBuilder struct {
	method  string
	route   string
	header  http.Header
	params  *query.Params
	body    []byte
	cookies []*http.Cookie
	ctx     context.Context
}

// NewRequestBuilder starts a request for the given method and route. The route may already
// contain a query string.
func NewRequestBuilder(method, route string) *RequestBuilder {
	return &RequestBuilder{
		method: method,
		route:  route,
		header: make(http.Header),
		params: query.NewParams(),
	}
}

func (b *RequestBuilder) Method() string { return b.method }

func (b *RequestBuilder) Route() string { return b.route }

// Header adds a header value.
func (b *RequestBuilder) Header(name, value string) *RequestBuilder {
	b.header.Add(name, value)
	return b
}

// SetHeader replaces any values of a header.
func (b *RequestBuilder) SetHeader(name, value string) *RequestBuilder {
	b.header.Set(name, value)
	return b
}

// HeaderValue returns the first value of a header that has been set so far.
func (b *RequestBuilder) HeaderValue(name string) string {
	return b.header.Get(name)
}

// ContentType replaces the Content-Type header.
func (b *RequestBuilder) ContentType(contentType string) *RequestBuilder {
	b.header.Set(contentTypeHeader, contentType)
	return b
}

// Content sets the request body.
func (b *RequestBuilder) Content(body []byte) *RequestBuilder {
	b.body = body
	return b
}

func (b *RequestBuilder) ContentString(body string) *RequestBuilder {
	return b.Content([]byte(body))
}

// Body returns the body set so far.
func (b *RequestBuilder) Body() []byte {
	return b.body
}

// Param adds query parameter values.
func (b *RequestBuilder) Param(name string, values ...string) *RequestBuilder {
	for _, v := range values {
		b.params.Add(name, v)
	}
	return b
}

// QueryParams adds every parameter in params, in order.
func (b *RequestBuilder) QueryParams(params *query.Params) *RequestBuilder {
	if params == nil {
		return b
	}
	params.Each(func(key string, values []string) {
		b.Param(key, values...)
	})
	return b
}

// Params returns the query parameters added so far, not counting any in the route itself.
func (b *RequestBuilder) Params() *query.Params {
	return b.params
}

func (b *RequestBuilder) Cookie(cookie *http.Cookie) *RequestBuilder {
	b.cookies = append(b.cookies, cookie)
	return b
}

// Context sets the context of the built request.
func (b *RequestBuilder) Context(ctx context.Context) *RequestBuilder {
	b.ctx = ctx
	return b
}

// Build creates the request. Query parameters are appended after any query that is already
// part of the route.
func (b *RequestBuilder) Build() (*http.Request, error) {
	u, err := url.Parse(b.route)
	if err != nil {
		return nil, fmt.Errorf("invalid route %q: %w", b.route, err)
	}
	if b.params.Len() > 0 {
		if u.RawQuery != "" {
			u.RawQuery += "&"
		}
		u.RawQuery += b.params.Encode()
	}
	ctx := b.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, b.method, u.String(), bytes.NewReader(b.body))
	if err != nil {
		return nil, err
	}
	for name, values := range b.header {
		req.Header[name] = append([]string(nil), values...)
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	return req, nil
}
