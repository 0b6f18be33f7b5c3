package mockapp

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noRedirectClient() *http.Client {
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func doRequest(t *testing.T, method, target string, form url.Values, header http.Header) (*http.Response, string) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, target, body)
	require.NoError(t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for name, values := range header {
		req.Header[name] = values
	}
	resp, err := noRedirectClient().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func withApp(t *testing.T, config Config, action func(app *App, server *httptest.Server)) {
	app := New(config)
	httphelpers.WithServer(app, func(server *httptest.Server) {
		action(app, server)
	})
}

func TestNamedRoutes(t *testing.T) {
	app := New(Config{})
	for name, expected := range map[string]string{
		"articles":         "/articles",
		"new_article":      "/articles/new",
		"forum_threads":    "/forum/threads",
		"new_forum_thread": "/forum/threads/new",
		"session":          "/session",
		"new_session":      "/session/new",
		"root":             "/",
	} {
		route := app.Router().Get(name)
		require.NotNil(t, route, name)
		u, err := route.URLPath()
		require.NoError(t, err, name)
		assert.Equal(t, expected, u.Path, name)
	}

	u, err := app.Router().Get("forum_edit_thread").URLPath("id", "3")
	require.NoError(t, err)
	assert.Equal(t, "/forum/threads/3/edit", u.Path)
	assert.Nil(t, app.Router().Get("edit_forum_thread"))

	u, err = app.Router().Get("edit_article_comment").URLPath("article_id", "1", "id", "2")
	require.NoError(t, err)
	assert.Equal(t, "/articles/1/comments/2/edit", u.Path)
}

func TestArticleLifecycle(t *testing.T) {
	withApp(t, Config{}, func(app *App, server *httptest.Server) {
		resp, body := doRequest(t, "GET", server.URL+"/articles/new", nil, nil)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Contains(t, body, `<form action="/articles" method="post">`)
		assert.Contains(t, body, `name="article[title]"`)
		assert.Contains(t, body, `<textarea name="article[content]">`)

		resp, _ = doRequest(t, "POST", server.URL+"/articles",
			url.Values{"article[title]": {"Foo Bites Bar"}, "article[content]": {"ouch"}}, nil)
		assert.Equal(t, 302, resp.StatusCode)
		assert.Equal(t, server.URL+"/articles/1", resp.Header.Get("Location"))
		assert.Equal(t, 1, app.Count("articles"))

		resp, body = doRequest(t, "GET", server.URL+"/articles/1/edit", nil, nil)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Contains(t, body, `<form action="/articles/1" method="post">`)
		assert.Contains(t, body, `<input type="hidden" name="_method" value="put">`)
		assert.Contains(t, body, `value="Foo Bites Bar"`)

		resp, _ = doRequest(t, "PUT", server.URL+"/articles/1", url.Values{"article[title]": {"Bar Bites Back"}}, nil)
		assert.Equal(t, 302, resp.StatusCode)
		assert.Equal(t, server.URL+"/articles/1", resp.Header.Get("Location"))

		resp, body = doRequest(t, "GET", server.URL+"/articles/1", nil, http.Header{"Accept": {"application/json"}})
		assert.Equal(t, 200, resp.StatusCode)
		value := ldvalue.Parse([]byte(body))
		assert.Equal(t, 1, value.GetByKey("id").IntValue())
		assert.Equal(t, "Bar Bites Back", value.GetByKey("title").StringValue())

		resp, _ = doRequest(t, "POST", server.URL+"/articles/1", url.Values{"_method": {"delete"}}, nil)
		assert.Equal(t, 302, resp.StatusCode)
		assert.Equal(t, server.URL+"/articles", resp.Header.Get("Location"))

		resp, _ = doRequest(t, "GET", server.URL+"/articles/1", nil, nil)
		assert.Equal(t, 404, resp.StatusCode)
		assert.Equal(t, 0, app.Count("articles"))
	})
}

func TestCreateWithMissingRequiredFieldRendersForm(t *testing.T) {
	withApp(t, Config{}, func(app *App, server *httptest.Server) {
		resp, body := doRequest(t, "POST", server.URL+"/articles", url.Values{"article[content]": {"x"}}, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Contains(t, body, "title can&#39;t be blank")
		assert.Equal(t, 0, app.Count("articles"))
	})
}

func TestAJAXCreateReturnsFragment(t *testing.T) {
	withApp(t, Config{}, func(app *App, server *httptest.Server) {
		resp, body := doRequest(t, "GET", server.URL+"/forum/threads/new", nil, nil)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Contains(t, body, `data-remote="true"`)
		assert.Contains(t, body, `<select name="forum_thread[category]">`)

		resp, body = doRequest(t, "POST", server.URL+"/forum/threads",
			url.Values{"forum_thread[subject]": {"hello"}, "forum_thread[category]": {"help"}},
			http.Header{"X-Requested-With": {"XMLHttpRequest"}})
		assert.Equal(t, 200, resp.StatusCode)
		assert.Contains(t, body, `<div id="1" class="saved">`)
	})
}

func TestNestedResourceRequiresParent(t *testing.T) {
	withApp(t, Config{}, func(app *App, server *httptest.Server) {
		resp, _ := doRequest(t, "GET", server.URL+"/articles/9/comments/new", nil, nil)
		assert.Equal(t, 404, resp.StatusCode)

		resp, _ = doRequest(t, "POST", server.URL+"/articles", url.Values{"article[title]": {"a"}}, nil)
		require.Equal(t, 302, resp.StatusCode)

		resp, _ = doRequest(t, "POST", server.URL+"/articles/1/comments", url.Values{"comment[author]": {"me"}}, nil)
		assert.Equal(t, 302, resp.StatusCode)
		assert.Equal(t, server.URL+"/articles/1/comments/1", resp.Header.Get("Location"))
	})
}

func TestSignInRequiredForChanges(t *testing.T) {
	withApp(t, Config{Users: map[string]string{"alice": "secret"}}, func(app *App, server *httptest.Server) {
		resp, _ := doRequest(t, "GET", server.URL+"/articles/new", nil, nil)
		assert.Equal(t, 302, resp.StatusCode)
		assert.Equal(t, server.URL+"/session/new", resp.Header.Get("Location"))

		resp, _ = doRequest(t, "POST", server.URL+"/session",
			url.Values{"session[login]": {"alice"}, "session[password]": {"wrong"}}, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		resp, _ = doRequest(t, "POST", server.URL+"/session",
			url.Values{"session[login]": {"alice"}, "session[password]": {"secret"}}, nil)
		require.Equal(t, 302, resp.StatusCode)
		cookies := resp.Cookies()
		require.Len(t, cookies, 1)

		header := http.Header{"Cookie": {cookies[0].Name + "=" + cookies[0].Value}}
		resp, _ = doRequest(t, "GET", server.URL+"/articles/new", nil, header)
		assert.Equal(t, 200, resp.StatusCode)

		resp, _ = doRequest(t, "DELETE", server.URL+"/session", nil, header)
		assert.Equal(t, 302, resp.StatusCode)
		resp, _ = doRequest(t, "GET", server.URL+"/articles/new", nil, header)
		assert.Equal(t, 302, resp.StatusCode)
	})
}
