package apitester

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAwaitServiceSucceeds(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(200, nil, []byte(`{"status":"UP"}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		var out bytes.Buffer
		require.NoError(t, AwaitService(server.URL+"/healthz", time.Second, &out))
		assert.Contains(t, out.String(), "Connecting to service at "+server.URL+"/healthz")
		assert.Contains(t, out.String(), `Status query returned: {"status":"UP"}`)
	})
}

func TestAwaitServiceFailsOnErrorStatus(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(http.StatusServiceUnavailable), func(server *httptest.Server) {
		var out bytes.Buffer
		err := AwaitService(server.URL, time.Second, &out)
		require.Error(t, err)
		assert.Equal(t, "service returned status code 503", err.Error())
	})
}

func TestAwaitServiceTimesOut(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	var out bytes.Buffer
	err := AwaitService(url, time.Millisecond*250, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestAwaitServiceDoesNotWaitPastDeadlineForHungService(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	var out bytes.Buffer
	started := time.Now()
	err := AwaitService(server.URL, time.Millisecond*250, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, int64(time.Since(started)), int64(time.Second*2))
}
