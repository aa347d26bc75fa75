package apitester

import (
	"net/http"

	"github.com/launchdarkly/mock-api-tester/framework"
)

const (
	// DefaultHealthAPI is the route probed by TryGetHealth and TryHeadHealth.
	DefaultHealthAPI = "/healthz"
	// DefaultOKPattern is the JSON path of the business status code in a response envelope.
	DefaultOKPattern = "$.code"
	// DefaultAPIOK is the business status code that DefaultPredicate expects.
	DefaultAPIOK = "000000"

	RequestIDHeader = "X-Request-Id"

	contentTypeHeader = "Content-Type"
	formContentType   = "application/x-www-form-urlencoded"
	jsonContentType   = "application/json"
)

// Config holds the hooks and conventions that a Tester applies to every request. The zero
// value is valid; empty fields get the defaults above.
type Config struct {
	HealthAPI string
	OKPattern string
	APIOK     string

	// DisableSecurity stops New from wrapping the handler with SecurityFilter.
	DisableSecurity bool
	// SecurityFilter wraps the handler under test, if set and not disabled.
	SecurityFilter func(http.Handler) http.Handler

	// MockUser is called on every request before it is built, typically to add credentials.
	MockUser func(*RequestBuilder)

	// Logger receives a printout of every exchange.
	Logger framework.Logger
}

func (c Config) withDefaults() Config {
	ret := c
	if ret.HealthAPI == "" {
		ret.HealthAPI = DefaultHealthAPI
	}
	if ret.OKPattern == "" {
		ret.OKPattern = DefaultOKPattern
	}
	if ret.APIOK == "" {
		ret.APIOK = DefaultAPIOK
	}
	if ret.Logger == nil {
		ret.Logger = framework.NullLogger()
	}
	return ret
}
