package resttest

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var (
	formSelector         = cascadia.MustCompile("form")
	fieldSelector        = cascadia.MustCompile("input[name], textarea[name], select[name]")
	methodFieldSelector  = cascadia.MustCompile(`input[name="_method"]`)
	methodOverrideValues = map[string]string{http.MethodPut: "put", http.MethodDelete: "delete"}
)

// VerifyForm checks that a page has exactly one form that submits to submitPath with a POST
// and has a field for every parameter.
//
// A PUT is expected to be signaled by a hidden "_method" field with the value "put", since
// browsers can only submit forms with GET or POST. If viaAJAX is true, the form must also have
// a "data-remote" attribute so that scripts intercept the submit.
func VerifyForm(doc *html.Node, submitPath, method string, params Params, viaAJAX bool) error {
	form, err := findSubmitForm(doc, submitPath)
	if err != nil {
		return err
	}
	if override, ok := methodOverrideValues[strings.ToUpper(method)]; ok {
		if !hasMethodOverride(form, override) {
			return fmt.Errorf("form submitting to %s has no hidden _method field with value %q", submitPath, override)
		}
	}
	if viaAJAX {
		if _, ok := attr(form, "data-remote"); !ok {
			return fmt.Errorf("form submitting to %s is not marked with data-remote for AJAX submission", submitPath)
		}
	}
	present := make(map[string]bool)
	for _, field := range fieldSelector.MatchAll(form) {
		name, _ := attr(field, "name")
		present[name] = true
	}
	var missing []string
	for _, name := range params.FieldNames() {
		if !present[name] {
			missing = append(missing, fmt.Sprintf("%q", name))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("form submitting to %s has no input, textarea or select named %s",
			submitPath, strings.Join(missing, ", "))
	}
	return nil
}

func findSubmitForm(doc *html.Node, submitPath string) (*html.Node, error) {
	var matches []*html.Node
	for _, form := range formSelector.MatchAll(doc) {
		action, _ := attr(form, "action")
		method, _ := attr(form, "method")
		if strings.EqualFold(method, http.MethodPost) && samePath(action, submitPath) {
			matches = append(matches, form)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("found no form with action %s and method POST", submitPath)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("found %d forms with action %s and method POST, expected exactly one",
			len(matches), submitPath)
	}
}

func hasMethodOverride(form *html.Node, value string) bool {
	for _, field := range methodFieldSelector.MatchAll(form) {
		fieldType, _ := attr(field, "type")
		fieldValue, _ := attr(field, "value")
		if strings.EqualFold(fieldType, "hidden") && strings.EqualFold(fieldValue, value) {
			return true
		}
	}
	return false
}

// samePath compares a form action, which may be an absolute URL, with an application path.
func samePath(action, path string) bool {
	actionURL, err := url.Parse(action)
	if err != nil {
		return false
	}
	pathURL, err := url.Parse(path)
	if err != nil {
		return false
	}
	return actionURL.Path == pathURL.Path
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}
