package mockapp

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

const sessionCookieName = "mockapp_session"

func (a *App) currentUser(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return "", false
	}
	a.lock.Lock()
	defer a.lock.Unlock()
	login, ok := a.sessions[cookie.Value]
	return login, ok
}

// requireUser lets a request through if no users are configured or the request is signed in.
// Otherwise it sends a browser to the login page and rejects an AJAX request.
func (a *App) requireUser(w http.ResponseWriter, r *http.Request) bool {
	if len(a.config.Users) == 0 {
		return true
	}
	if _, ok := a.currentUser(r); ok {
		return true
	}
	if isAJAX(r) {
		w.WriteHeader(http.StatusUnauthorized)
		return false
	}
	redirectTo(w, r, "/session/new")
	return false
}

func (a *App) serveLoginForm(w http.ResponseWriter, r *http.Request) {
	a.renderLoginForm(w, http.StatusOK, "", nil)
}

func (a *App) renderLoginForm(w http.ResponseWriter, status int, login string, errs []string) {
	renderPage(w, status, "form", formPage{
		Title:  "Sign in",
		Action: "/session",
		Errors: errs,
		Fields: []formField{
			{Name: "session[login]", Label: "login", Value: login},
			{Name: "session[password]", Label: "password"},
		},
	})
}

func (a *App) serveSession(w http.ResponseWriter, r *http.Request) {
	switch effectiveMethod(r) {
	case http.MethodPost:
		login := r.PostFormValue("session[login]")
		password, ok := a.config.Users[login]
		if !ok || password != r.PostFormValue("session[password]") {
			a.renderLoginForm(w, http.StatusUnauthorized, login, []string{"invalid login or password"})
			return
		}
		token := newSessionToken()
		a.lock.Lock()
		a.sessions[token] = login
		a.lock.Unlock()
		http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: token, Path: "/", HttpOnly: true})
		redirectTo(w, r, "/")
	case http.MethodDelete:
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			a.lock.Lock()
			delete(a.sessions, cookie.Value)
			a.lock.Unlock()
		}
		http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", MaxAge: -1})
		redirectTo(w, r, "/")
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newSessionToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
