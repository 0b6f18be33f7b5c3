// Package scenario runs CRUD test scenarios described in YAML or JSON files.
//
// A file names a group of scenarios. Each scenario is one test, run in its own Session, and
// consists of steps whose "call" is either a DSL call name such as "build_article", or one of
// "login", "logout" and "get":
//
//	name: articles
//	scenarios:
//	  - name: lifecycle
//	    steps:
//	      - call: login
//	        params: {session: {login: alice, password: secret}}
//	      - call: exercise_article
//	        params: {article: {title: A}}
//	        update_params: {article: {title: B}}
//	      - call: show_article
//	        args: [$last_id]
//	        expects: missing
//
// Keys that are not recognized are ignored.
package scenario

import (
	"fmt"
	"strings"

	"github.com/jsgarvin/arid/framework/opt"
	"github.com/jsgarvin/arid/resttest"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

const (
	callLogin  = "login"
	callLogout = "logout"
	callGet    = "get"

	// LastIDArg is an argument placeholder for the id at the end of the most recent response URL,
	// which after a build is the id of the created resource.
	LastIDArg = "$last_id"
)

// File is the content of one scenario file.
type File struct {
	Name      string     `json:"name"`
	Scenarios []Scenario `json:"scenarios"`

	source string
}

// Scenario is a sequence of steps run in one Session.
type Scenario struct {
	Name string `json:"name"`

	// NonCritical, if set, is the reason why a failure of this scenario should not fail the run.
	NonCritical string `json:"noncritical"`

	Steps []Step `json:"steps"`
}

// Step is one DSL call.
type Step struct {
	Call          string            `json:"call"`
	Path          string            `json:"path"`
	Args          []ldvalue.Value   `json:"args"`
	Params        ldvalue.Value     `json:"params"`
	UpdateParams  ldvalue.Value     `json:"update_params"`
	Expects       ldvalue.Value     `json:"expects"`
	ExpectMissing ldvalue.Value     `json:"expect_missing"`
	XHR           bool              `json:"xhr"`
	Headers       map[string]string `json:"headers"`

	// Find lists CSS selectors that must each match at least one element of the final response.
	Find []string `json:"find"`
}

// Description is a short form of the step for logs and failure messages.
func (s Step) Description() string {
	parts := []string{s.Call}
	if s.Path != "" {
		parts = append(parts, s.Path)
	}
	for _, arg := range s.Args {
		parts = append(parts, resttest.FormatID(arg))
	}
	return strings.Join(parts, " ")
}

// Validate checks everything that can be checked before running the step.
func (s Step) Validate() error {
	switch s.Call {
	case "":
		return fmt.Errorf("step has no call")
	case callLogin, callLogout:
	case callGet:
		if s.Path == "" {
			return fmt.Errorf("get step has no path")
		}
	default:
		if _, _, ok := resttest.ParseCall(s.Call); !ok {
			return fmt.Errorf("unknown call %q", s.Call)
		}
	}
	for _, value := range []ldvalue.Value{s.Params, s.UpdateParams} {
		if !value.IsNull() && value.Type() != ldvalue.ObjectType {
			return fmt.Errorf("%s: params must be an object, not %s", s.Call, value.JSONString())
		}
	}
	for _, e := range []ldvalue.Value{s.Expects, s.ExpectMissing} {
		if _, err := expectationOf(e); err != nil {
			return fmt.Errorf("%s: %w", s.Call, err)
		}
	}
	return nil
}

// expectationOf reads an expectation given as a name such as "redirect" or as a status code.
func expectationOf(value ldvalue.Value) (opt.Maybe[resttest.Expect], error) {
	if value.IsNull() {
		return opt.None[resttest.Expect](), nil
	}
	e, err := resttest.ParseExpect(resttest.FormatID(value))
	if err != nil {
		return opt.None[resttest.Expect](), err
	}
	return opt.Some(e), nil
}

// Validate checks every step of every scenario.
func (f File) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%s: file has no name", f.source)
	}
	for i, sc := range f.Scenarios {
		if sc.Name == "" {
			return fmt.Errorf("%s: scenario %d has no name", f.source, i+1)
		}
		for j, step := range sc.Steps {
			if err := step.Validate(); err != nil {
				return fmt.Errorf("%s: scenario %q, step %d: %w", f.source, sc.Name, j+1, err)
			}
		}
	}
	return nil
}
