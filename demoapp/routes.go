package demoapp

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/launchdarkly/mock-api-tester/framework"
	"github.com/launchdarkly/mock-api-tester/jsoner"
)

const (
	HealthPath = "/healthz"
	BasePath   = "/api/v1"
	// ProfilePath is the one route that the default security configuration protects.
	ProfilePath = "/api/user/profile"
)

// Config controls the demo API. The zero value serves the API without request logging.
type Config struct {
	Logger framework.Logger
}

// API implements the demo HTTP API.
type API struct {
	http.Handler
	logger framework.Logger
}

// NewHandler creates the demo API. It does not apply SecurityFilter; callers wrap it if they
// want authentication.
func NewHandler(config Config) *API {
	a := &API{logger: config.Logger}
	if a.logger == nil {
		a.logger = framework.NullLogger()
	}
	a.Handler = a.routes()
	return a
}

func (a *API) routes() http.Handler {
	r := mux.NewRouter()
	for _, route := range []struct {
		name, method, path string
		handler            http.HandlerFunc
	}{
		{"health_get", http.MethodGet, HealthPath, a.health},
		{"health_head", http.MethodHead, HealthPath, a.health},
		{"profile", http.MethodGet, ProfilePath, a.profile},

		{"api_get", http.MethodGet, BasePath + "/get", a.get},
		{"api_post", http.MethodPost, BasePath + "/post", a.greetPayload("post")},
		{"api_post_empty", http.MethodPost, BasePath + "/post/empty/{userId}", a.greetUser("post")},
		{"api_put", http.MethodPut, BasePath + "/put", a.greetPayload("put")},
		{"api_put_empty", http.MethodPut, BasePath + "/put/empty/{userId}", a.greetUser("put")},
		{"api_patch", http.MethodPatch, BasePath + "/patch", a.greetPayload("patch")},
		{"api_patch_empty", http.MethodPatch, BasePath + "/patch/empty/{userId}", a.greetUser("patch")},
		{"api_delete", http.MethodDelete, BasePath + "/delete", a.greetPayload("delete")},
		{"api_delete_empty", http.MethodDelete, BasePath + "/delete/empty/{userId}", a.greetUser("delete")},
	} {
		r.Handle(route.path, route.handler).Methods(route.method).Name(route.name)
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeResult(w, http.StatusNotFound, Fail(CodeNotFound, "no route for "+req.URL.Path))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		writeResult(w, http.StatusMethodNotAllowed, Fail(CodeNotAllowed, req.Method+" is not supported for "+req.URL.Path))
	})
	r.Use(a.logging)
	return r
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

func (a *API) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)
		a.logger.Printf("%s %s -> %d", req.Method, req.URL.RequestURI(), rec.status)
	})
}

func writeResult(w http.ResponseWriter, status int, result interface{}) {
	data, err := jsoner.ToBytes(result)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
