package resttest

import (
	"net/http"

	"github.com/jsgarvin/arid/framework/helpers"
)

// Login posts credentials to the session resource ("session_path" by default) and follows the
// redirect, like a user submitting a login form.
func (s *Session) Login(credentials Params, args ...any) *Response {
	helpers.MarkHelper(s.t)
	o := s.requestOptions(splitArgs(args))
	if len(credentials) > 0 {
		o.Params = credentials
	}
	path := s.resolve(s.config.SessionResource, QualifierNone, nil)
	return s.execute(http.MethodPost, path, o, ExpectRedirect)
}

// Logout deletes the session resource.
func (s *Session) Logout(args ...any) *Response {
	helpers.MarkHelper(s.t)
	o := s.requestOptions(splitArgs(args))
	o.Params = nil
	path := s.resolve(s.config.SessionResource, QualifierNone, nil)
	return s.execute(http.MethodDelete, path, o, ExpectRedirect)
}
