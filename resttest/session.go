package resttest

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/jsgarvin/arid/framework"
	"github.com/jsgarvin/arid/framework/helpers"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// DefaultTimeout is the request timeout of the default transport.
const DefaultTimeout = time.Second * 10

// Transport executes HTTP requests. *http.Client satisfies it. A Transport used by a Session
// should not follow redirects itself, since the Session decides when to follow one.
type Transport interface {
	Do(*http.Request) (*http.Response, error)
}

// AssignsLoader loads the data that a "show" page was rendered from, so that an exercise can
// check that it shows the resource that was just created.
type AssignsLoader func(s *Session, path string) (ldvalue.Value, error)

// Session is one simulated user of the application under test, with its own cookies.
//
// A Session is not safe for concurrent use. Independent Sessions can be used to simulate
// several users; they share nothing.
type Session struct {
	t        helpers.TestContext
	baseURL  *url.URL
	paths    *PathRegistry
	config   SessionConfig
	last     *Response
	requests int
}

// SessionConfig holds the optional settings of a Session.
type SessionConfig struct {
	Transport       Transport
	Logger          framework.Logger
	AssignsLoader   AssignsLoader
	SessionResource string
	DefaultHeaders  http.Header
}

// SessionOption is a functional option for NewSession.
type SessionOption helpers.ConfigOption[SessionConfig]

func sessionOption(fn func(*SessionConfig)) SessionOption {
	return helpers.OptionFunc[SessionConfig](func(c *SessionConfig) error {
		fn(c)
		return nil
	})
}

// WithTransport replaces the default HTTP client.
func WithTransport(transport Transport) SessionOption {
	return sessionOption(func(c *SessionConfig) { c.Transport = transport })
}

// WithLogger sets the destination for the request log of the Session.
func WithLogger(logger framework.Logger) SessionOption {
	return sessionOption(func(c *SessionConfig) { c.Logger = logger })
}

// WithAssignsLoader replaces the default JSON-based AssignsLoader.
func WithAssignsLoader(loader AssignsLoader) SessionOption {
	return sessionOption(func(c *SessionConfig) { c.AssignsLoader = loader })
}

// WithSessionResource sets the resource that Login and Logout use. The default is "session".
func WithSessionResource(resource string) SessionOption {
	return sessionOption(func(c *SessionConfig) { c.SessionResource = resource })
}

// WithDefaultHeader adds a header to every request of the Session.
func WithDefaultHeader(name, value string) SessionOption {
	return sessionOption(func(c *SessionConfig) {
		if c.DefaultHeaders == nil {
			c.DefaultHeaders = make(http.Header)
		}
		c.DefaultHeaders.Set(name, value)
	})
}

// NewHTTPClient returns the default transport: an *http.Client with its own cookie jar, which
// returns redirect responses to the caller instead of following them.
func NewHTTPClient() *http.Client {
	jar, _ := cookiejar.New(nil) // New never returns an error without options
	return &http.Client{
		Jar:     jar,
		Timeout: DefaultTimeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// NewSession creates a Session for the application at baseURL, whose path helpers are in paths.
// Failures of every DSL call are reported to t.
func NewSession(t helpers.TestContext, baseURL string, paths *PathRegistry, options ...SessionOption) *Session {
	helpers.MarkHelper(t)
	config := SessionConfig{SessionResource: "session"}
	if err := helpers.ApplyOptions(&config, options...); err != nil {
		helpers.Failf(t, "invalid session configuration: %s", err)
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		helpers.Failf(t, "invalid base URL %q", baseURL)
		return nil
	}
	if config.Transport == nil {
		config.Transport = NewHTTPClient()
	}
	if config.Logger == nil {
		config.Logger = framework.NullLogger()
	}
	if config.AssignsLoader == nil {
		config.AssignsLoader = LoadJSONAssigns
	}
	if paths == nil {
		paths = NewPathRegistry()
	}
	return &Session{t: t, baseURL: u, paths: paths, config: config}
}

// Paths returns the path registry of the Session.
func (s *Session) Paths() *PathRegistry { return s.paths }

// Last returns the most recent response, or nil if no request has been made.
func (s *Session) Last() *Response { return s.last }

// RequestCount returns the number of HTTP requests the Session has made.
func (s *Session) RequestCount() int { return s.requests }

// LoadJSONAssigns is the default AssignsLoader. It requests the path again asking for JSON, and
// expects the body to be a JSON object.
func LoadJSONAssigns(s *Session, path string) (ldvalue.Value, error) {
	resp, err := s.send(http.MethodGet, path, nil, RequestOptions{
		Headers: http.Header{"Accept": []string{"application/json"}},
	})
	if err != nil {
		return ldvalue.Null(), err
	}
	if !ExpectSuccess.Matches(resp.StatusCode) {
		return ldvalue.Null(), fmt.Errorf("GET %s as JSON: expected success, got status %d", path, resp.StatusCode)
	}
	value, err := resp.JSON()
	if err != nil {
		return ldvalue.Null(), err
	}
	if value.Type() != ldvalue.ObjectType {
		return ldvalue.Null(), fmt.Errorf("GET %s as JSON: expected an object, got %s", path, value.JSONString())
	}
	return value, nil
}
