package resttest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jsgarvin/arid/framework/harness"
	"github.com/jsgarvin/arid/framework/helpers"

	"github.com/gorilla/mux"
	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
)

func staticPath(path string) PathFunc {
	return func(ids ...any) (string, error) {
		if len(ids) != 0 {
			return "", fmt.Errorf("expected no arguments for %s, got %d", path, len(ids))
		}
		return path, nil
	}
}

func memberPath(format string) PathFunc {
	return func(ids ...any) (string, error) {
		if len(ids) != 1 {
			return "", fmt.Errorf("expected 1 argument for %s, got %d", format, len(ids))
		}
		return fmt.Sprintf(format, FormatID(ids[0])), nil
	}
}

func articleRegistry() *PathRegistry {
	return NewPathRegistry().
		Register("articles_path", staticPath("/articles")).
		Register("new_article_path", staticPath("/articles/new")).
		Register("article_path", memberPath("/articles/%s")).
		Register("edit_article_path", memberPath("/articles/%s/edit")).
		Register("session_path", staticPath("/session"))
}

func writeHTML(status int, body string) http.Handler {
	return httphelpers.HandlerWithResponse(status, http.Header{"Content-Type": {"text/html"}}, []byte(body))
}

func redirectHandler(location string) http.Handler {
	return httphelpers.HandlerWithResponse(http.StatusFound, http.Header{"Location": {location}}, nil)
}

const newArticlePage = `<html><body>
<form action="/articles" method="post">
  <input type="text" name="article[title]">
  <textarea name="article[content]"></textarea>
</form>
</body></html>`

const editArticlePage = `<html><body>
<form action="/articles/1" method="POST">
  <input type="hidden" name="_method" value="put">
  <input type="text" name="article[title]" value="A">
  <textarea name="article[content]"></textarea>
</form>
</body></html>`

// articleRouter serves a fixed set of article pages: creating redirects to article 1, and
// destroying redirects to the list.
func articleRouter() *mux.Router {
	r := mux.NewRouter()
	r.Methods("GET").Path("/articles").Handler(writeHTML(200, "<ul></ul>"))
	r.Methods("POST").Path("/articles").Handler(redirectHandler("/articles/1"))
	r.Methods("GET").Path("/articles/new").Handler(writeHTML(200, newArticlePage))
	r.Methods("GET").Path("/articles/{id}").Handler(writeHTML(200, "<h1>article</h1>"))
	r.Methods("PUT").Path("/articles/{id}").Handler(redirectHandler("/articles/1"))
	r.Methods("DELETE").Path("/articles/{id}").Handler(redirectHandler("/articles"))
	r.Methods("GET").Path("/articles/{id}/edit").Handler(writeHTML(200, editArticlePage))
	return r
}

type sessionFixture struct {
	session  *Session
	recorder *helpers.TestRecorder
	requests <-chan httphelpers.HTTPRequestInfo
	server   *httptest.Server
}

func requestLine(info httphelpers.HTTPRequestInfo) string {
	return info.Request.Method + " " + info.Request.URL.RequestURI()
}

// requestLines drains the requests received so far and describes each as "METHOD path".
func (f sessionFixture) requestLines() []string {
	var ret []string
	for {
		select {
		case info := <-f.requests:
			ret = append(ret, requestLine(info))
		default:
			return ret
		}
	}
}

// run calls the action and returns true if it completed without the session stopping the test.
func (f sessionFixture) run(action func()) bool {
	return f.recorder.RunRecorded(action)
}

func withSession(t *testing.T, handler http.Handler, action func(f sessionFixture), options ...SessionOption) {
	recordingHandler, requests := harness.RecordRequests(handler)
	httphelpers.WithServer(recordingHandler, func(server *httptest.Server) {
		recorder := &helpers.TestRecorder{PanicOnTerminate: true}
		s := NewSession(recorder, server.URL, articleRegistry(), options...)
		action(sessionFixture{session: s, recorder: recorder, requests: requests, server: server})
	})
}
