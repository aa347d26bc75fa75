package apitester

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/mock-api-tester/framework"
	"github.com/launchdarkly/mock-api-tester/jsoner"
	"github.com/launchdarkly/mock-api-tester/query"
)

type echoQuery struct {
	Name string `query:"name"`
	Age  int    `query:"age"`
	Note string `query:"note"`
}

type echoPayload struct {
	Name string `json:"name"`
}

type echoed struct {
	Method        string `json:"method"`
	Path          string `json:"path"`
	Query         string `json:"query"`
	Body          string `json:"body"`
	ContentType   string `json:"contentType"`
	Tenant        string `json:"tenant"`
	Authorization string `json:"authorization"`
	RequestID     string `json:"requestId"`
}

// echoHandler answers with the business code in the "code" header of the request, or
// "000000", and describes the request it received.
func echoHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := ioutil.ReadAll(r.Body)
		code := r.Header.Get("code")
		if code == "" {
			code = DefaultAPIOK
		}
		data, _ := jsoner.ToBytes(map[string]interface{}{
			"code": code,
			"data": echoed{
				Method:        r.Method,
				Path:          r.URL.Path,
				Query:         r.URL.RawQuery,
				Body:          string(body),
				ContentType:   r.Header.Get("Content-Type"),
				Tenant:        r.Header.Get("Tenant"),
				Authorization: r.Header.Get("Authorization"),
				RequestID:     r.Header.Get(RequestIDHeader),
			},
		})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	})
}

func decodeEcho(t *testing.T, body string) echoed {
	var envelope struct {
		Data echoed `json:"data"`
	}
	require.NoError(t, jsoner.ParseObject(body, &envelope))
	return envelope.Data
}

// runFailing runs action in a framework context and returns the failures it produced.
func runFailing(action func(c *framework.Context)) []framework.TestResult {
	results := framework.Run(nil, nil, func(c *framework.Context) {
		c.Run("test", action)
	})
	return results.Failures
}

func TestDoGetFlattensQuery(t *testing.T) {
	tester := New(echoHandler(), Config{})
	body := tester.DoGet(t, "/api/v1/get?fixed=1", echoQuery{Name: "photowey"})

	e := decodeEcho(t, body)
	assert.Equal(t, http.MethodGet, e.Method)
	assert.Equal(t, "/api/v1/get", e.Path)
	assert.Equal(t, "fixed=1&name=photowey&age=0", e.Query)
	assert.Equal(t, "application/x-www-form-urlencoded", e.ContentType)
	assert.Equal(t, "", e.Body)
}

func TestDoGetWithoutQuery(t *testing.T) {
	tester := New(echoHandler(), Config{})
	for _, q := range []interface{}{nil, query.Empty, &query.EmptyQuery{}} {
		e := decodeEcho(t, tester.DoGet(t, "/api/v1/get", q))
		assert.Equal(t, "", e.Query)
	}
}

func TestDoGetFailsBeforeDispatchWhenQueryIsUnsupported(t *testing.T) {
	dispatched := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { dispatched = true })
	tester := New(handler, Config{})

	failures := runFailing(func(c *framework.Context) {
		tester.DoGet(c, "/api/v1/get", []string{"not", "a", "struct"})
	})
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Errors[0].Error(), "unsupported query type []string")
	assert.False(t, dispatched)
}

func TestPayloadMethodsSendJSON(t *testing.T) {
	tester := New(echoHandler(), Config{})
	payload := echoPayload{Name: "photowey"}

	for method, do := range map[string]func(require.TestingT, string, interface{}, ...Option) string{
		http.MethodPost:   tester.DoPost,
		http.MethodPut:    tester.DoPut,
		http.MethodPatch:  tester.DoPatch,
		http.MethodDelete: tester.DoDelete,
	} {
		t.Run(method, func(t *testing.T) {
			e := decodeEcho(t, do(t, "/api/v1/x", payload))
			assert.Equal(t, method, e.Method)
			assert.Equal(t, "application/json", e.ContentType)
			assert.Equal(t, "{\n  \"name\": \"photowey\"\n}", e.Body)
		})
	}
}

func TestEmptyPayloadSendsNoBody(t *testing.T) {
	tester := New(echoHandler(), Config{})
	for _, payload := range []interface{}{nil, "", map[string]string{}} {
		e := decodeEcho(t, tester.DoPost(t, "/api/v1/post/empty/1", payload))
		assert.Equal(t, "", e.Body)
	}
}

func TestWithBuilderRunsInOrder(t *testing.T) {
	tester := New(echoHandler(), Config{})
	body := tester.DoGet(t, "/api/v1/get", query.Empty,
		WithBuilder(func(b *RequestBuilder) { b.Header("Tenant", "web") }),
		WithBuilder(func(b *RequestBuilder) { b.Header("Authorization", "Bearer "+b.HeaderValue("Tenant")) }),
	)
	e := decodeEcho(t, body)
	assert.Equal(t, "web", e.Tenant)
	assert.Equal(t, "Bearer web", e.Authorization)
}

func TestMockUserAndRequestID(t *testing.T) {
	tester := New(echoHandler(), Config{
		MockUser: func(b *RequestBuilder) { b.Header("Authorization", "Bearer mock") },
	})
	e := decodeEcho(t, tester.DoGet(t, "/api/v1/get", nil))
	assert.Equal(t, "Bearer mock", e.Authorization)
	_, err := uuid.Parse(e.RequestID)
	assert.NoError(t, err)

	e = decodeEcho(t, tester.DoGet(t, "/api/v1/get", nil,
		WithBuilder(func(b *RequestBuilder) { b.Header(RequestIDHeader, "fixed-id") })))
	assert.Equal(t, "fixed-id", e.RequestID)
}

func TestSecurityFilter(t *testing.T) {
	deny := func(http.Handler) http.Handler { return httphelpers.HandlerWithStatus(http.StatusUnauthorized) }

	failures := runFailing(func(c *framework.Context) {
		New(echoHandler(), Config{SecurityFilter: deny}).DoGet(c, "/api/v1/get", nil)
	})
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Errors[0].Error(), "expected status 200 but was 401")

	tester := New(echoHandler(), Config{SecurityFilter: deny, DisableSecurity: true})
	tester.DoGet(t, "/api/v1/get", nil)
}

func TestDefaultPredicateChecksCode(t *testing.T) {
	tester := New(echoHandler(), Config{})
	failures := runFailing(func(c *framework.Context) {
		tester.DoGet(c, "/api/v1/get", nil, WithBuilder(func(b *RequestBuilder) { b.Header("code", "500100") }))
		c.Errorf("not reached")
	})
	require.Len(t, failures, 1)
	require.Len(t, failures[0].Errors, 1)
	assert.Contains(t, failures[0].Errors[0].Error(), `JSON path "$.code": expected "000000" but was "500100"`)
}

func TestConfiguredAPIOK(t *testing.T) {
	tester := New(echoHandler(), Config{APIOK: "200"})
	tester.DoGet(t, "/api/v1/get", nil, WithBuilder(func(b *RequestBuilder) { b.Header("code", "200") }))
}

func TestWithPredicateReplacesDefault(t *testing.T) {
	tester := New(echoHandler(), Config{})
	called := false
	tester.DoGet(t, "/api/v1/get", nil,
		WithBuilder(func(b *RequestBuilder) { b.Header("code", "other") }),
		WithPredicate(func(r *Result) {
			called = true
			r.AndExpect(
				JSONPath("$.code", "other"),
				JSONPath("$.data.method", "GET"),
				JSONPathExists("$.data.requestId"),
				ContentType("application/json"),
				BodyContains(`"path":"/api/v1/get"`),
			)
		}),
	)
	assert.True(t, called)

	tester.DoGet(t, "/api/v1/get", nil,
		WithBuilder(func(b *RequestBuilder) { b.Header("code", "other") }),
		WithPredicate(nil))
}

func TestExecuteFailsOnStatus(t *testing.T) {
	tester := New(httphelpers.HandlerWithStatus(http.StatusInternalServerError), Config{})
	failures := runFailing(func(c *framework.Context) {
		tester.DoDelete(c, "/api/v1/delete", nil)
	})
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Errors[0].Error(), "expected status 200 but was 500")
}

func TestExchangeIsPrinted(t *testing.T) {
	logger := &framework.CapturingLogger{}
	tester := New(echoHandler(), Config{Logger: logger})
	tester.DoGet(t, "/api/v1/get", echoQuery{Name: "photowey"})

	printed := strings.Join(logger.Output().Messages(), "\n")
	assert.Contains(t, printed, "      HTTP Method = GET")
	assert.Contains(t, printed, "      Request URI = /api/v1/get")
	assert.Contains(t, printed, `       Parameters = [age:"0", name:"photowey"]`)
	assert.Contains(t, printed, "           Status = 200")
	assert.Contains(t, printed, "     Content type = application/json")
}

func TestWithLoggerKeepsConfig(t *testing.T) {
	logger := &framework.CapturingLogger{}
	base := New(echoHandler(), Config{APIOK: "000000"})
	tester := base.WithLogger(logger)
	assert.Equal(t, "000000", tester.Config().APIOK)

	tester.DoGet(t, "/api/v1/get", nil)
	assert.NotEmpty(t, logger.Output())
}

func TestResultAccessors(t *testing.T) {
	tester := New(echoHandler(), Config{})
	result := tester.Execute(t, NewRequestBuilder(http.MethodGet, "/api/v1/get"), tester.DefaultPredicate)
	assert.Equal(t, "GET", result.JSONPath("$.data.method"))

	var envelope struct {
		Code string `json:"code"`
	}
	result.Decode(&envelope)
	assert.Equal(t, DefaultAPIOK, envelope.Code)

	result.AndExpect(Status(200), StatusOK(), Header("Content-Type", "application/json"))
}

func TestHealth(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(
		httphelpers.HandlerWithResponse(200, http.Header{"Content-Type": {"application/json"}}, []byte(`{"status":"UP"}`)))
	tester := New(handler, Config{})

	assert.Equal(t, `{"status":"UP"}`, tester.TryGetHealth(t))
	tester.TryHeadHealth(t)

	first := <-requests
	assert.Equal(t, http.MethodGet, first.Request.Method)
	assert.Equal(t, DefaultHealthAPI, first.Request.URL.Path)
	second := <-requests
	assert.Equal(t, http.MethodHead, second.Request.Method)
}

func TestRemoteTester(t *testing.T) {
	httphelpers.WithServer(echoHandler(), func(server *httptest.Server) {
		tester := NewRemote(server.URL+"/", Config{})
		e := decodeEcho(t, tester.DoPut(t, "/api/v1/put?x=1", echoPayload{Name: "remote"}))
		assert.Equal(t, http.MethodPut, e.Method)
		assert.Equal(t, "/api/v1/put", e.Path)
		assert.Equal(t, "x=1", e.Query)
		assert.Equal(t, "{\n  \"name\": \"remote\"\n}", e.Body)
	})
}

func TestConfigDefaults(t *testing.T) {
	c := NewWithDispatcher(HandlerDispatcher{Handler: echoHandler()}, Config{}).Config()
	assert.Equal(t, "/healthz", c.HealthAPI)
	assert.Equal(t, "$.code", c.OKPattern)
	assert.Equal(t, "000000", c.APIOK)
	assert.NotNil(t, c.Logger)
}
