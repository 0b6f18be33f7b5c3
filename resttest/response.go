package resttest

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"

	"github.com/andybalholm/cascadia"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"golang.org/x/net/html"
)

// Response is the result of one request made by a Session.
type Response struct {
	Method     string
	URL        *url.URL
	AJAX       bool
	StatusCode int
	Header     http.Header
	Body       []byte

	doc *html.Node
}

// Path returns the path and query that were requested.
func (r *Response) Path() string {
	if r.URL == nil {
		return ""
	}
	return r.URL.RequestURI()
}

// RedirectURL returns the absolute target of a redirect response.
func (r *Response) RedirectURL() (string, error) {
	location := r.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("%s %s: status %d response had no Location header", r.Method, r.Path(), r.StatusCode)
	}
	target, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("%s %s: invalid Location header %q: %w", r.Method, r.Path(), location, err)
	}
	if r.URL != nil {
		target = r.URL.ResolveReference(target)
	}
	return target.String(), nil
}

// Document parses the body as HTML.
func (r *Response) Document() (*html.Node, error) {
	if r.doc == nil {
		doc, err := html.Parse(bytes.NewReader(r.Body))
		if err != nil {
			return nil, fmt.Errorf("%s %s: response is not valid HTML: %w", r.Method, r.Path(), err)
		}
		r.doc = doc
	}
	return r.doc, nil
}

// Find returns the elements of the HTML body that match a CSS selector.
func (r *Response) Find(selector string) ([]*html.Node, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	doc, err := r.Document()
	if err != nil {
		return nil, err
	}
	return sel.MatchAll(doc), nil
}

// JSON parses the body as JSON. It returns an error if the body is not valid JSON.
func (r *Response) JSON() (ldvalue.Value, error) {
	var value ldvalue.Value
	if err := value.UnmarshalJSON(r.Body); err != nil {
		return ldvalue.Null(), fmt.Errorf("%s %s: response is not valid JSON: %w", r.Method, r.Path(), err)
	}
	return value, nil
}
