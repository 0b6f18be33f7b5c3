package resttest

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jsgarvin/arid/framework/helpers"

	"github.com/launchdarkly/go-test-helpers/v2/jsonhelpers"
)

const ajaxAccept = "text/javascript, text/html, application/xml, text/xml, */*"

// Get requests a path and expects success, without resolving any path helper.
func (s *Session) Get(path string, args ...any) *Response {
	helpers.MarkHelper(s.t)
	return s.execute(http.MethodGet, path, s.requestOptions(splitArgs(args)), ExpectSuccess)
}

// FollowRedirect requests the target of a redirect response and expects success.
func (s *Session) FollowRedirect(resp *Response) *Response {
	helpers.MarkHelper(s.t)
	location, err := resp.RedirectURL()
	if err != nil {
		helpers.Failf(s.t, "cannot follow redirect: %s", err)
		return nil
	}
	s.config.Logger.Printf("following redirect to %s", location)
	return s.execute(http.MethodGet, location, RequestOptions{}, ExpectSuccess)
}

// execute makes a request and applies the response expectation. If a Verify function was given,
// it gets the response; otherwise, if a redirect was expected, the redirect is followed once.
func (s *Session) execute(method, path string, o RequestOptions, verbDefault Expect) *Response {
	helpers.MarkHelper(s.t)
	expects := o.expectation(verbDefault)
	resp, err := s.send(method, path, o.Params, o)
	if err != nil {
		helpers.Failf(s.t, "%s%s %s failed: %s", o.mode(), method, path, err)
		return nil
	}
	if pass, _ := expects.Matcher().Test(resp.StatusCode); !pass {
		helpers.Failf(s.t, "expected %s response to %s%s %s, but got status %d",
			expects, o.mode(), method, path, resp.StatusCode)
		return resp
	}
	if o.Verify != nil {
		o.Verify(resp)
		return resp
	}
	if expects.IsRedirect() {
		return s.FollowRedirect(resp)
	}
	return resp
}

func (s *Session) send(method, path string, params Params, o RequestOptions) (*Response, error) {
	target, err := s.baseURL.Parse(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}
	var body io.Reader
	if len(params) > 0 {
		values := params.Encode()
		if method == http.MethodGet {
			query := target.Query()
			for name, vs := range values {
				query[name] = append(query[name], vs...)
			}
			target.RawQuery = query.Encode()
		} else {
			body = strings.NewReader(values.Encode())
		}
	}
	req, err := http.NewRequest(method, target.String(), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	copyHeaders(req.Header, s.config.DefaultHeaders)
	if o.ViaAJAX {
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		req.Header.Set("Accept", ajaxAccept)
	}
	copyHeaders(req.Header, o.Headers)

	if len(params) > 0 {
		s.config.Logger.Printf("%s%s %s %s", o.mode(), method, target.RequestURI(), jsonhelpers.ToJSONString(params))
	} else {
		s.config.Logger.Printf("%s%s %s", o.mode(), method, target.RequestURI())
	}
	s.requests++
	httpResp, err := s.config.Transport.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}
	resp := &Response{
		Method:     method,
		URL:        target,
		AJAX:       o.ViaAJAX,
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       respBody,
	}
	if location := resp.Header.Get("Location"); location != "" {
		s.config.Logger.Printf("  => %d %s", resp.StatusCode, location)
	} else {
		s.config.Logger.Printf("  => %d", resp.StatusCode)
	}
	s.last = resp
	return resp, nil
}

func copyHeaders(dest, src http.Header) {
	for name, values := range src {
		dest[http.CanonicalHeaderKey(name)] = helpers.CopyOf(values)
	}
}
