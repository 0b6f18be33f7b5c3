package harness

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/jsgarvin/arid/framework"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitForServiceAcceptsRedirect(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(http.StatusFound, http.Header{"Location": {"/login"}}, nil)
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		var out bytes.Buffer
		status, err := WaitForService(server.URL, time.Second, &out)
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, status.StatusCode)
		assert.Equal(t, server.URL, status.URL)
		assert.Contains(t, out.String(), "Connecting to service at "+server.URL)
		assert.Contains(t, out.String(), "Service responded with status 302")
	})
}

func TestWaitForServiceTimesOutOnServerError(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(http.StatusServiceUnavailable), func(server *httptest.Server) {
		var out bytes.Buffer
		_, err := WaitForService(server.URL, time.Millisecond*250, &out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "service returned status code 503")
	})
}

func TestLocalServer(t *testing.T) {
	s, err := StartLocalServer(httphelpers.HandlerWithStatus(http.StatusNoContent), framework.NullLogger())
	require.NoError(t, err)

	resp, err := http.Get(s.URL + "/anything")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.NoError(t, s.Close())
	_, err = http.Get(s.URL)
	assert.Error(t, err)
}

func TestRecordRequestsKeepsBodyForHandler(t *testing.T) {
	var received string
	app := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		received = r.PostForm.Get("article[title]")
		w.WriteHeader(http.StatusCreated)
	})
	handler, requests := RecordRequests(app)

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		resp, err := http.PostForm(server.URL+"/articles", url.Values{"article[title]": {"Foo"}})
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	assert.Equal(t, "Foo", received)
	info := <-requests
	assert.Equal(t, "POST", info.Request.Method)
	assert.Equal(t, "article%5Btitle%5D=Foo", string(info.Body))
}
