package mockapp

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

func wantsJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Accept"), "application/json")
}

func isAJAX(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest"
}

// effectiveMethod applies the "_method" form field of a POST, which is how HTML forms ask for
// a PUT or DELETE.
func effectiveMethod(r *http.Request) string {
	if r.Method != http.MethodPost {
		return r.Method
	}
	if override := r.PostFormValue("_method"); override != "" {
		return strings.ToUpper(override)
	}
	return r.Method
}

func absoluteURL(r *http.Request, path string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + path
}

func redirectTo(w http.ResponseWriter, r *http.Request, path string) {
	w.Header().Set("Location", absoluteURL(r, path))
	w.WriteHeader(http.StatusFound)
}

func jsonObject(keysAndValues ...string) ldvalue.Value {
	b := ldvalue.ObjectBuild()
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		b.Set(keysAndValues[i], ldvalue.String(keysAndValues[i+1]))
	}
	return b.Build()
}

func writeJSON(w http.ResponseWriter, status int, value ldvalue.Value) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(value.JSONString()))
}

func renderPage(w http.ResponseWriter, status int, name string, data interface{}) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
