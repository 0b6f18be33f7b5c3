package scenario

import (
	"fmt"
	"os"

	"github.com/jsgarvin/arid/framework/aridtest"
	"github.com/jsgarvin/arid/framework/helpers"
	"github.com/jsgarvin/arid/resttest"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Target is the application that scenarios run against.
type Target struct {
	BaseURL string
	Paths   *resttest.PathRegistry

	// SessionOptions are applied to the Session of every scenario, after the defaults.
	SessionOptions []resttest.SessionOption
}

// RunSuite runs every scenario of every file, with one test per scenario named
// "<file name>/<scenario name>".
func RunSuite(
	target Target,
	files []File,
	filter aridtest.Filter,
	testLogger aridtest.TestLogger,
) aridtest.Results {
	fmt.Printf("Running %d scenario file(s) against %s\n", len(files), target.BaseURL)
	fmt.Println()
	if rf, ok := filter.(aridtest.RegexFilters); ok {
		aridtest.PrintFilterDescription(os.Stdout, rf)
	}

	config := aridtest.TestConfiguration{
		Filter:     filter,
		TestLogger: testLogger,
	}
	return aridtest.Run(config, func(t *aridtest.T) {
		for _, f := range files {
			t.Run(f.Name, func(t *aridtest.T) {
				for _, sc := range f.Scenarios {
					t.Run(sc.Name, func(t *aridtest.T) { RunScenario(t, target, sc) })
				}
			})
		}
	})
}

// RunScenario runs the steps of one scenario in a new Session. The first failing step stops
// the scenario.
func RunScenario(t *aridtest.T, target Target, sc Scenario) {
	if len(sc.Steps) == 0 {
		t.SkipWithReason("scenario has no steps")
	}
	if sc.NonCritical != "" {
		t.NonCritical(sc.NonCritical)
	}
	options := append([]resttest.SessionOption{resttest.WithLogger(t.DebugLogger())}, target.SessionOptions...)
	session := resttest.NewSession(t, target.BaseURL, target.Paths, options...)
	t.Defer(func() { t.Debug("%d request(s) made", session.RequestCount()) })
	var state runState
	for i, step := range sc.Steps {
		t.Debug("step %d: %s", i+1, step.Description())
		state.runStep(t, session, step)
	}
}

type runState struct {
	lastID string
}

func (r *runState) runStep(t *aridtest.T, s *resttest.Session, step Step) {
	t.Helper()
	if err := step.Validate(); err != nil {
		helpers.Failf(t, "invalid step: %s", err)
	}
	args, err := r.stepArgs(step)
	if err != nil {
		helpers.Failf(t, "%s: %s", step.Description(), err)
	}

	var resp *resttest.Response
	switch step.Call {
	case callLogin:
		resp = s.Login(paramsOf(step.Params), args...)
	case callLogout:
		resp = s.Logout(args...)
	case callGet:
		resp = s.Get(step.Path, args...)
	default:
		resp = s.Call(step.Call, args...)
	}
	if resp == nil {
		return
	}
	if id, err := resttest.ExtractID(resp.URL.String()); err == nil {
		r.lastID = id
	}
	for _, selector := range step.Find {
		found, err := resp.Find(selector)
		if err != nil {
			helpers.Failf(t, "%s: %s", step.Description(), err)
		}
		if len(found) == 0 {
			helpers.Failf(t, "%s: %s %s has no element matching %q", step.Description(), resp.Method, resp.Path(), selector)
		}
	}
}

func (r *runState) stepArgs(step Step) ([]any, error) {
	var args []any
	for _, arg := range step.Args {
		if arg.StringValue() == LastIDArg {
			if r.lastID == "" {
				return nil, fmt.Errorf("%s used before any response had an id", LastIDArg)
			}
			args = append(args, r.lastID)
			continue
		}
		args = append(args, arg)
	}
	if step.Call != callLogin && !step.Params.IsNull() {
		args = append(args, paramsOf(step.Params))
	}
	if !step.UpdateParams.IsNull() {
		if step.Params.IsNull() {
			args = append(args, resttest.Params{})
		}
		args = append(args, paramsOf(step.UpdateParams))
	}
	if e, _ := expectationOf(step.Expects); e.IsDefined() {
		args = append(args, resttest.Expects(e.Value()))
	}
	if e, _ := expectationOf(step.ExpectMissing); e.IsDefined() {
		args = append(args, resttest.ExpectMissing(e.Value()))
	}
	if step.XHR {
		args = append(args, resttest.ViaAJAX())
	}
	for _, name := range helpers.SortedKeys(step.Headers) {
		args = append(args, resttest.WithHeader(name, step.Headers[name]))
	}
	return args, nil
}

func paramsOf(value ldvalue.Value) resttest.Params {
	if m, ok := value.AsArbitraryValue().(map[string]interface{}); ok {
		return resttest.Params(m)
	}
	return nil
}
