package resttest

import (
	"net/http"
	"strconv"

	"github.com/jsgarvin/arid/framework/helpers"
	"github.com/jsgarvin/arid/framework/opt"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// exercise builds a resource, shows it, edits it, destroys it, and finally checks that it can
// no longer be shown. Nothing is undone if a phase fails; the failure stops the test and the
// remaining phases are not run.
func (s *Session) exercise(resource string, ids []any, o RequestOptions, updateParams Params) *Response {
	helpers.MarkHelper(s.t)
	logger := s.config.Logger
	phaseOptions := RequestOptions{Headers: o.Headers}

	logger.Printf("exercise %s: build", resource)
	var createdID string
	buildOptions := phaseOptions
	buildOptions.Params = o.Params
	buildOptions.Expects = opt.Some(ExpectRedirect)
	buildOptions.Verify = func(resp *Response) {
		createdID = s.extractRedirectID(resp)
		s.FollowRedirect(resp)
	}
	s.build(resource, ids, buildOptions, true)

	memberIDs := append(helpers.CopyOf(ids), createdID)

	logger.Printf("exercise %s: show %s", resource, createdID)
	shown := s.show(resource, memberIDs, phaseOptions)
	if shown != nil {
		s.assertAssignsID(shown.Path(), createdID)
	}

	logger.Printf("exercise %s: edit %s", resource, createdID)
	editOptions := phaseOptions
	editOptions.Params = updateParams
	editOptions.Expects = opt.Some(ExpectRedirect)
	editOptions.Verify = func(resp *Response) {
		if updatedID := s.extractRedirectID(resp); updatedID != createdID {
			helpers.Failf(s.t, "update of %s %s redirected to %s %s", resource, createdID, resource, updatedID)
		}
		s.FollowRedirect(resp)
	}
	s.edit(resource, memberIDs, editOptions, true)

	logger.Printf("exercise %s: destroy %s", resource, createdID)
	s.destroy(resource, memberIDs, phaseOptions)

	logger.Printf("exercise %s: show %s after destroy", resource, createdID)
	missingOptions := phaseOptions
	missingOptions.Expects = opt.Some(o.ExpectMissing.OrElse(ExpectStatus(http.StatusNotFound)))
	missingOptions.Verify = func(*Response) {}
	return s.show(resource, memberIDs, missingOptions)
}

func (s *Session) extractRedirectID(resp *Response) string {
	helpers.MarkHelper(s.t)
	location, err := resp.RedirectURL()
	if err == nil {
		var id string
		if id, err = ExtractID(location); err == nil {
			return id
		}
	}
	helpers.Failf(s.t, "%s", err)
	return ""
}

func (s *Session) assertAssignsID(path, expectedID string) {
	helpers.MarkHelper(s.t)
	assigns, err := s.config.AssignsLoader(s, path)
	if err != nil {
		helpers.Failf(s.t, "could not load the data shown by %s: %s", path, err)
		return
	}
	if actual := idString(assigns.GetByKey("id")); actual != expectedID {
		helpers.Failf(s.t, "%s showed the resource with id %s, expected %s", path, actual, expectedID)
	}
}

func idString(value ldvalue.Value) string {
	switch {
	case value.IsInt():
		return strconv.Itoa(value.IntValue())
	case value.Type() == ldvalue.StringType:
		return value.StringValue()
	default:
		return value.JSONString()
	}
}
