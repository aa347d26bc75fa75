// Package apitester drives HTTP handlers the way a client would in an API test: it builds
// requests from query structs and payloads, dispatches them in-process or to a live service,
// prints each exchange, and checks the response status and the business status code.
//
// Every helper takes a require.TestingT, so it can be used from a *testing.T or from a
// *framework.Context. Failed expectations end the test immediately.
package apitester

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/mock-api-tester/framework"
	"github.com/launchdarkly/mock-api-tester/jsoner"
	"github.com/launchdarkly/mock-api-tester/query"
)

type helper interface {
	Helper()
}

// Tester sends requests through a Dispatcher using the conventions in its Config.
type Tester struct {
	dispatcher Dispatcher
	config     Config
}

// Option customizes a single Do* call.
type Option func(*callOptions)

type callOptions struct {
	builders     []func(*RequestBuilder)
	predicate    func(*Result)
	hasPredicate bool
}

// WithBuilder adds a function that modifies the request before it is sent, for instance to
// add headers. Multiple builders run in the order given.
func WithBuilder(fn func(*RequestBuilder)) Option {
	return func(o *callOptions) {
		o.builders = append(o.builders, fn)
	}
}

// WithPredicate replaces the default predicate, which checks the business status code. A nil
// predicate disables the check.
func WithPredicate(fn func(*Result)) Option {
	return func(o *callOptions) {
		o.predicate = fn
		o.hasPredicate = true
	}
}

// New creates a Tester that calls handler in-process. Unless config.DisableSecurity is set,
// the handler is wrapped with config.SecurityFilter.
func New(handler http.Handler, config Config) *Tester {
	if !config.DisableSecurity && config.SecurityFilter != nil {
		handler = config.SecurityFilter(handler)
	}
	return NewWithDispatcher(HandlerDispatcher{Handler: handler}, config)
}

// NewRemote creates a Tester for a service that is already running at baseURL.
func NewRemote(baseURL string, config Config) *Tester {
	return NewWithDispatcher(RemoteDispatcher{BaseURL: baseURL}, config)
}

func NewWithDispatcher(dispatcher Dispatcher, config Config) *Tester {
	return &Tester{dispatcher: dispatcher, config: config.withDefaults()}
}

// Config returns the effective configuration, with defaults filled in.
func (tt *Tester) Config() Config {
	return tt.config
}

// WithLogger returns a copy of the Tester that prints exchanges to logger.
func (tt *Tester) WithLogger(logger framework.Logger) *Tester {
	config := tt.config
	config.Logger = logger
	return NewWithDispatcher(tt.dispatcher, config)
}

// TryGetHealth requests the health route and returns its body. Only the status is checked.
func (tt *Tester) TryGetHealth(t require.TestingT) string {
	if h, ok := t.(helper); ok {
		h.Helper()
	}
	b := NewRequestBuilder(http.MethodGet, tt.config.HealthAPI)
	return tt.Execute(t, b, nil).ContentAsString()
}

// TryHeadHealth sends a HEAD request to the health route and expects a 200 status.
func (tt *Tester) TryHeadHealth(t require.TestingT) {
	if h, ok := t.(helper); ok {
		h.Helper()
	}
	b := NewRequestBuilder(http.MethodHead, tt.config.HealthAPI)
	tt.Execute(t, b, nil)
}

// DoGet sends a GET request to route with the non-empty fields of q as query parameters, and
// returns the response body. The Empty sentinel or nil means no parameters.
func (tt *Tester) DoGet(t require.TestingT, route string, q interface{}, opts ...Option) string {
	if h, ok := t.(helper); ok {
		h.Helper()
	}
	b := NewRequestBuilder(http.MethodGet, route).ContentType(formContentType)
	if !query.IsEmpty(q) {
		params, err := query.Flatten(q)
		require.NoError(t, err, "cannot build query parameters for %s", route)
		b.QueryParams(params)
	}
	return tt.do(t, b, opts)
}

// DoPost sends a POST request with payload serialized as JSON, unless it is empty, and
// returns the response body.
func (tt *Tester) DoPost(t require.TestingT, route string, payload interface{}, opts ...Option) string {
	if h, ok := t.(helper); ok {
		h.Helper()
	}
	return tt.doWithPayload(t, http.MethodPost, route, payload, opts)
}

func (tt *Tester) DoPut(t require.TestingT, route string, payload interface{}, opts ...Option) string {
	if h, ok := t.(helper); ok {
		h.Helper()
	}
	return tt.doWithPayload(t, http.MethodPut, route, payload, opts)
}

func (tt *Tester) DoPatch(t require.TestingT, route string, payload interface{}, opts ...Option) string {
	if h, ok := t.(helper); ok {
		h.Helper()
	}
	return tt.doWithPayload(t, http.MethodPatch, route, payload, opts)
}

func (tt *Tester) DoDelete(t require.TestingT, route string, payload interface{}, opts ...Option) string {
	if h, ok := t.(helper); ok {
		h.Helper()
	}
	return tt.doWithPayload(t, http.MethodDelete, route, payload, opts)
}

func (tt *Tester) doWithPayload(t require.TestingT, method, route string, payload interface{}, opts []Option) string {
	b := NewRequestBuilder(method, route).ContentType(jsonContentType)
	if !query.IsEmpty(payload) {
		body, err := jsoner.ToJSONString(payload)
		require.NoError(t, err, "cannot serialize payload for %s %s", method, route)
		b.ContentString(body)
	}
	return tt.do(t, b, opts)
}

func (tt *Tester) do(t require.TestingT, b *RequestBuilder, opts []Option) string {
	o := callOptions{predicate: tt.DefaultPredicate}
	for _, opt := range opts {
		opt(&o)
	}
	for _, fn := range o.builders {
		fn(b)
	}
	return tt.Execute(t, b, o.predicate).ContentAsString()
}

// Execute sends the request and expects a 200 status, then runs predicate if it is not nil.
// The exchange is printed to the configured Logger before any expectation is checked.
func (tt *Tester) Execute(t require.TestingT, b *RequestBuilder, predicate func(*Result)) *Result {
	if h, ok := t.(helper); ok {
		h.Helper()
	}
	if tt.config.MockUser != nil {
		tt.config.MockUser(b)
	}
	if b.HeaderValue(RequestIDHeader) == "" {
		b.Header(RequestIDHeader, uuid.New().String())
	}

	req, err := b.Build()
	require.NoError(t, err)
	resp, err := tt.dispatcher.Dispatch(req)
	require.NoError(t, err, "%s %s", b.Method(), b.Route())

	result := &Result{t: t, Request: req, RequestBody: b.Body(), Response: resp}
	printExchange(tt.config.Logger, result)

	result.AndExpect(StatusOK())
	if predicate != nil {
		predicate(result)
	}
	return result
}

// DefaultPredicate expects the value at the configured OKPattern to equal the configured
// APIOK code.
func (tt *Tester) DefaultPredicate(r *Result) {
	r.AndExpect(JSONPath(tt.config.OKPattern, tt.config.APIOK))
}
