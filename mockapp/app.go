// Package mockapp is a small conventional CRUD web application. It is the target of the
// package tests of arid and of "arid -selftest".
//
// It serves articles, comments nested under articles, and forum threads (whose edit page is
// named forum_edit_thread), with HTML pages for browsers, a JSON rendering of every page for
// requests that accept application/json, and short HTML fragments for AJAX requests. Forms use
// the "_method" hidden-field convention for PUT and DELETE. If any users are configured,
// changes require signing in through the session resource.
package mockapp

import (
	"net/http"
	"sync"

	"github.com/jsgarvin/arid/framework"

	"github.com/gorilla/mux"
)

// Config holds the settings of an App.
type Config struct {
	// Users maps login names to passwords. If it is empty, no sign-in is required.
	Users map[string]string

	// Logger receives one line per request. The default is framework.NullLogger().
	Logger framework.Logger
}

// App is the application. It implements http.Handler.
type App struct {
	config   Config
	router   *mux.Router
	kinds    map[string]*kind
	sessions map[string]string
	lock     sync.Mutex
}

// New creates an App with no records.
func New(config Config) *App {
	if config.Logger == nil {
		config.Logger = framework.NullLogger()
	}
	a := &App{
		config:   config,
		router:   mux.NewRouter(),
		kinds:    make(map[string]*kind),
		sessions: make(map[string]string),
	}
	a.router.Use(a.logRequests)

	a.router.Path("/").Name("root").Methods(http.MethodGet).HandlerFunc(a.serveHome)
	a.router.Path("/session/new").Name("new_session").Methods(http.MethodGet).HandlerFunc(a.serveLoginForm)
	a.router.Path("/session").Name("session").HandlerFunc(a.serveSession)

	articles := &kind{
		param: "article",
		title: "Article",
		fields: []field{
			{name: "title", kind: textField, required: true},
			{name: "content", kind: textAreaField},
		},
		collectionRoute: "articles",
		memberRoute:     "article",
		newRoute:        "new_article",
		editRoute:       "edit_article",
	}
	a.addResource(articles, "/articles")

	a.addResource(&kind{
		param: "comment",
		title: "Comment",
		fields: []field{
			{name: "author", kind: textField, required: true},
			{name: "body", kind: textAreaField},
		},
		parent:          articles,
		parentVar:       "article_id",
		collectionRoute: "article_comments",
		memberRoute:     "article_comment",
		newRoute:        "new_article_comment",
		editRoute:       "edit_article_comment",
	}, "/articles/{article_id:[0-9]+}/comments")

	a.addResource(&kind{
		param: "forum_thread",
		title: "Thread",
		fields: []field{
			{name: "subject", kind: textField, required: true},
			{name: "body", kind: textAreaField},
			{name: "category", kind: selectField, options: []string{"general", "help", "announcements"}},
		},
		remote:          true,
		collectionRoute: "forum_threads",
		memberRoute:     "forum_thread",
		newRoute:        "new_forum_thread",
		editRoute:       "forum_edit_thread",
	}, "/forum/threads")

	return a
}

// Router returns the router of the application, whose named routes are the path helpers of
// the application.
func (a *App) Router() *mux.Router { return a.router }

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Count returns the number of records of a kind, identified by its collection route name such
// as "articles".
func (a *App) Count(collectionRoute string) int {
	if k, ok := a.kinds[collectionRoute]; ok {
		return k.store.count()
	}
	return 0
}

func (a *App) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.config.Logger.Printf("%s %s", effectiveMethod(r), r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func (a *App) serveHome(w http.ResponseWriter, r *http.Request) {
	login, _ := a.currentUser(r)
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, jsonObject("login", login))
		return
	}
	renderPage(w, http.StatusOK, "home", login)
}
