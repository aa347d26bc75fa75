package apitester

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/mock-api-tester/jsoner"
)

// ResultMatcher checks one aspect of an exchange, returning a descriptive error if it does
// not hold.
type ResultMatcher func(r *Result) error

// Result is a completed request/response exchange.
type Result struct {
	t           require.TestingT
	Request     *http.Request
	RequestBody []byte
	Response    *Response
}

// AndExpect applies each matcher in order. The test fails and exits immediately at the first
// one that does not hold.
func (r *Result) AndExpect(matchers ...ResultMatcher) *Result {
	if h, ok := r.t.(helper); ok {
		h.Helper()
	}
	for _, m := range matchers {
		if err := m(r); err != nil {
			require.Fail(r.t, err.Error(), "%s %s", r.Request.Method, r.Request.URL)
		}
	}
	return r
}

// ContentAsString returns the response body.
func (r *Result) ContentAsString() string {
	return string(r.Response.Body)
}

// Decode parses the response body as JSON into v. The test fails if that is not possible.
func (r *Result) Decode(v interface{}) *Result {
	require.NoError(r.t, jsoner.ParseBytes(r.Response.Body, v))
	return r
}

// JSONPath returns the decoded value at path in the response body. The test fails if there
// is no such value.
func (r *Result) JSONPath(path string) interface{} {
	found, err := lookupJSONPath(r.Response.Body, path)
	require.NoError(r.t, err)
	value, err := found.decode()
	require.NoError(r.t, err)
	return value
}

// Status expects the given response status.
func Status(code int) ResultMatcher {
	return func(r *Result) error {
		if r.Response.StatusCode != code {
			return fmt.Errorf("expected status %d but was %d", code, r.Response.StatusCode)
		}
		return nil
	}
}

// StatusOK expects a 200 status.
func StatusOK() ResultMatcher {
	return Status(http.StatusOK)
}

// Header expects the first value of a response header to equal want.
func Header(name, want string) ResultMatcher {
	return func(r *Result) error {
		if actual := r.Response.Header.Get(name); actual != want {
			return fmt.Errorf("expected header %s to be %q but was %q", name, want, actual)
		}
		return nil
	}
}

// ContentType expects the response media type to be want. Parameters such as charset are
// ignored unless want includes them.
func ContentType(want string) ResultMatcher {
	return func(r *Result) error {
		actual := r.Response.Header.Get(contentTypeHeader)
		if actual == want || strings.HasPrefix(actual, want+";") {
			return nil
		}
		return fmt.Errorf("expected content type %q but was %q", want, actual)
	}
}

func BodyContains(s string) ResultMatcher {
	return func(r *Result) error {
		if !strings.Contains(string(r.Response.Body), s) {
			return fmt.Errorf("expected response body to contain %q but it was: %s", s, string(r.Response.Body))
		}
		return nil
	}
}

// JSONPath expects the value at path in the response body to equal want.
func JSONPath(path string, want interface{}) ResultMatcher {
	return func(r *Result) error {
		found, err := lookupJSONPath(r.Response.Body, path)
		if err != nil {
			return err
		}
		ok, err := found.matches(want)
		if err != nil {
			return fmt.Errorf("cannot compare JSON path %q: %w", path, err)
		}
		if !ok {
			return fmt.Errorf("JSON path %q: expected %#v but was %s", path, want, found)
		}
		return nil
	}
}

// JSONPathExists expects the response body to have a value, possibly null, at path.
func JSONPathExists(path string) ResultMatcher {
	return func(r *Result) error {
		_, err := lookupJSONPath(r.Response.Body, path)
		return err
	}
}
