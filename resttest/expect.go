package resttest

import (
	"fmt"
	"strconv"
	"strings"

	m "github.com/launchdarkly/go-test-helpers/v2/matchers"
)

type expectKind int

const (
	expectStatusCode expectKind = iota
	expectSuccessKind
	expectRedirectKind
)

// Expect describes the response status that a request should produce.
type Expect struct {
	kind   expectKind
	status int
}

var (
	// ExpectSuccess matches any 2xx status.
	ExpectSuccess = Expect{kind: expectSuccessKind}
	// ExpectRedirect matches any 3xx status.
	ExpectRedirect = Expect{kind: expectRedirectKind}
)

// ExpectStatus matches exactly one status code.
func ExpectStatus(status int) Expect {
	return Expect{kind: expectStatusCode, status: status}
}

// ParseExpect accepts "success", "redirect", "missing" (404) or a numeric status code.
func ParseExpect(s string) (Expect, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ":")) {
	case "success":
		return ExpectSuccess, nil
	case "redirect":
		return ExpectRedirect, nil
	case "missing", "not_found":
		return ExpectStatus(404), nil
	}
	status, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || status < 100 || status > 599 {
		return Expect{}, fmt.Errorf("invalid response expectation %q", s)
	}
	return ExpectStatus(status), nil
}

// IsRedirect returns true for ExpectRedirect. An exact 3xx status does not count, since only
// the general redirect expectation causes the redirect to be followed.
func (e Expect) IsRedirect() bool { return e.kind == expectRedirectKind }

// Matches returns true if the status code satisfies the expectation.
func (e Expect) Matches(status int) bool {
	switch e.kind {
	case expectSuccessKind:
		return status >= 200 && status < 300
	case expectRedirectKind:
		return status >= 300 && status < 400
	default:
		return status == e.status
	}
}

func (e Expect) String() string {
	switch e.kind {
	case expectSuccessKind:
		return "success"
	case expectRedirectKind:
		return "redirect"
	default:
		return strconv.Itoa(e.status)
	}
}

// Matcher returns the expectation as a matcher for status code values of type int, or for
// *Response values.
func (e Expect) Matcher() m.Matcher {
	statusOf := func(value interface{}) (int, bool) {
		switch v := value.(type) {
		case int:
			return v, true
		case *Response:
			if v != nil {
				return v.StatusCode, true
			}
		}
		return 0, false
	}
	return m.New(
		func(value interface{}) bool {
			status, ok := statusOf(value)
			return ok && e.Matches(status)
		},
		func() string {
			return "status is " + e.String()
		},
		func(value interface{}) string {
			if status, ok := statusOf(value); ok {
				return fmt.Sprintf("status was %d, expected %s", status, e)
			}
			return fmt.Sprintf("value of type %T is not a status code", value)
		},
	)
}
