package harness

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
)

type requestBodyKey struct{}

// RecordRequests is httphelpers.RecordingHandler for handlers that read the request body, such
// as form submissions. The recorder consumes the body, so it is buffered first and handed to
// the wrapped handler again afterward.
func RecordRequests(handler http.Handler) (http.Handler, <-chan httphelpers.HTTPRequestInfo) {
	replay := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if body, ok := r.Context().Value(requestBodyKey{}).([]byte); ok {
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		handler.ServeHTTP(w, r)
	})
	recorder, requests := httphelpers.RecordingHandler(replay)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			body, err := io.ReadAll(r.Body)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			_ = r.Body.Close()
			r = r.WithContext(context.WithValue(r.Context(), requestBodyKey{}, body))
			r.Body = io.NopCloser(bytes.NewReader(body))
		}
		recorder.ServeHTTP(w, r)
	}), requests
}
