package resttest

import (
	"strings"

	"github.com/jsgarvin/arid/framework/helpers"
)

// ParseCall splits a call name like "build_forum_thread" into its verb and resource. It
// returns false if the name does not start with a known verb followed by a resource name.
func ParseCall(name string) (Verb, string, bool) {
	for _, verb := range AllVerbs {
		prefix := string(verb) + "_"
		if strings.HasPrefix(name, prefix) && len(name) > len(prefix) {
			return verb, name[len(prefix):], true
		}
	}
	return "", "", false
}

// Call dispatches a call by name, such as s.Call("destroy_article", 1).
func (s *Session) Call(name string, args ...any) *Response {
	helpers.MarkHelper(s.t)
	verb, resource, ok := ParseCall(name)
	if !ok {
		helpers.Failf(s.t, "unknown method %q", name)
		return nil
	}
	return s.Dispatch(verb, resource, args...)
}
