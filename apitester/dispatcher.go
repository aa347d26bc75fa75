package apitester

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
)

// Response is the part of an HTTP response that assertions look at.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Dispatcher delivers a built request and collects the response.
type Dispatcher interface {
	Dispatch(req *http.Request) (*Response, error)
}

// HandlerDispatcher calls an http.Handler in-process, with no network listener.
type HandlerDispatcher struct {
	Handler http.Handler
}

func (d HandlerDispatcher) Dispatch(req *http.Request) (*Response, error) {
	if req.Host == "" {
		req.Host = "localhost"
	}
	if req.RemoteAddr == "" {
		req.RemoteAddr = "127.0.0.1:0"
	}
	if req.RequestURI == "" {
		req.RequestURI = req.URL.RequestURI()
	}
	rec := httptest.NewRecorder()
	d.Handler.ServeHTTP(rec, req)
	return &Response{
		StatusCode: rec.Code,
		Header:     rec.Result().Header,
		Body:       rec.Body.Bytes(),
	}, nil
}

// RemoteDispatcher sends requests to a running service. Request URLs are resolved against
// BaseURL.
type RemoteDispatcher struct {
	BaseURL string
	Client  *http.Client
}

func (d RemoteDispatcher) Dispatch(req *http.Request) (*Response, error) {
	target, err := url.Parse(strings.TrimSuffix(d.BaseURL, "/") + req.URL.RequestURI())
	if err != nil {
		return nil, fmt.Errorf("invalid service URL: %w", err)
	}
	out := req.Clone(req.Context())
	out.URL = target
	out.Host = ""
	out.RequestURI = ""

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(out)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}
	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}, nil
}
