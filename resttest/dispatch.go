package resttest

import (
	"net/http"

	"github.com/jsgarvin/arid/framework/helpers"
)

// Verb is one of the high-level actions of the DSL.
type Verb string

const (
	VerbList     Verb = "list"
	VerbShow     Verb = "show"
	VerbBuild    Verb = "build"
	VerbEdit     Verb = "edit"
	VerbCreate   Verb = "create"
	VerbUpdate   Verb = "update"
	VerbDestroy  Verb = "destroy"
	VerbExercise Verb = "exercise"
)

// AllVerbs lists every Verb.
var AllVerbs = []Verb{VerbList, VerbShow, VerbBuild, VerbEdit, VerbCreate, VerbUpdate, VerbDestroy, VerbExercise}

// Dispatch performs a verb against a resource.
//
// The arguments are split by type: RequestOption values configure the call, Params values are
// the parameters to submit (an exercise takes two, for the create and the update), and anything
// else is a target identifier passed to the path helper.
func (s *Session) Dispatch(verb Verb, resource string, args ...any) *Response {
	helpers.MarkHelper(s.t)
	c := splitArgs(args)
	o := s.requestOptions(c)
	if verb != VerbList {
		resource = s.memberResource(resource, memberQualifier(verb), c.ids)
	}
	switch verb {
	case VerbList, VerbShow:
		return s.show(resource, c.ids, o)
	case VerbBuild:
		return s.build(resource, c.ids, o, len(o.Params) > 0)
	case VerbEdit:
		return s.edit(resource, c.ids, o, len(o.Params) > 0)
	case VerbCreate:
		return s.create(resource, c.ids, o)
	case VerbUpdate:
		return s.update(resource, c.ids, o)
	case VerbDestroy:
		return s.destroy(resource, c.ids, o)
	case VerbExercise:
		var updateParams Params
		if len(c.params) > 1 {
			updateParams = c.params[1]
		}
		return s.exercise(resource, c.ids, o, updateParams)
	}
	helpers.Failf(s.t, "unknown verb %q", verb)
	return nil
}

// List requests the plain path of a resource and expects success. It is the same as Show.
func (s *Session) List(resource string, args ...any) *Response {
	helpers.MarkHelper(s.t)
	return s.Dispatch(VerbList, resource, args...)
}

// Show requests the plain path of a resource and expects success.
func (s *Session) Show(resource string, args ...any) *Response {
	helpers.MarkHelper(s.t)
	return s.Dispatch(VerbShow, resource, args...)
}

// Build requests the "new" page of a resource. If parameters are given, it verifies the form
// on the page and then submits the parameters with Create.
func (s *Session) Build(resource string, args ...any) *Response {
	helpers.MarkHelper(s.t)
	return s.Dispatch(VerbBuild, resource, args...)
}

// Edit requests the "edit" page of a resource. If parameters are given, it verifies the form
// on the page and then submits the parameters with Update.
func (s *Session) Edit(resource string, args ...any) *Response {
	helpers.MarkHelper(s.t)
	return s.Dispatch(VerbEdit, resource, args...)
}

// Create posts parameters to the collection path of a resource.
func (s *Session) Create(resource string, args ...any) *Response {
	helpers.MarkHelper(s.t)
	return s.Dispatch(VerbCreate, resource, args...)
}

// Update puts parameters to the path of a resource.
func (s *Session) Update(resource string, args ...any) *Response {
	helpers.MarkHelper(s.t)
	return s.Dispatch(VerbUpdate, resource, args...)
}

// Destroy deletes a resource.
func (s *Session) Destroy(resource string, args ...any) *Response {
	helpers.MarkHelper(s.t)
	return s.Dispatch(VerbDestroy, resource, args...)
}

// Exercise runs a resource through its whole lifecycle; see Dispatch.
func (s *Session) Exercise(resource string, args ...any) *Response {
	helpers.MarkHelper(s.t)
	return s.Dispatch(VerbExercise, resource, args...)
}

// memberResource is the singular of a resource name if its path helper accepts the target
// identifiers, so that destroy_articles(1) reaches article_path. Otherwise, as for the
// collection in show_articles, the name is used as given.
func (s *Session) memberResource(resource string, qualifier Qualifier, ids []any) string {
	singular := Singularize(resource)
	if singular == resource {
		return resource
	}
	if _, err := ResolvePath(s.paths, singular, qualifier, ids); err != nil {
		return resource
	}
	return singular
}

// memberQualifier is the path a verb resolves first. Creates and exercises are checked against
// the "new" page, which takes the same identifiers as the collection.
func memberQualifier(verb Verb) Qualifier {
	switch verb {
	case VerbBuild, VerbCreate, VerbExercise:
		return QualifierNew
	case VerbEdit:
		return QualifierEdit
	default:
		return QualifierNone
	}
}

func (s *Session) resolve(resource string, qualifier Qualifier, ids []any) string {
	helpers.MarkHelper(s.t)
	path, err := ResolvePath(s.paths, resource, qualifier, ids)
	if err != nil {
		helpers.Failf(s.t, "%s", err)
	}
	return path
}

func (s *Session) show(resource string, ids []any, o RequestOptions) *Response {
	helpers.MarkHelper(s.t)
	return s.execute(http.MethodGet, s.resolve(resource, QualifierNone, ids), o, ExpectSuccess)
}

func (s *Session) build(resource string, ids []any, o RequestOptions, submit bool) *Response {
	helpers.MarkHelper(s.t)
	page := s.formPage(s.resolve(resource, QualifierNew, ids), o)
	if !submit {
		return page
	}
	s.verifyForm(page, s.resolve(Pluralize(resource), QualifierNone, ids), http.MethodPost, o)
	return s.create(resource, ids, o)
}

func (s *Session) edit(resource string, ids []any, o RequestOptions, submit bool) *Response {
	helpers.MarkHelper(s.t)
	page := s.formPage(s.resolve(resource, QualifierEdit, ids), o)
	if !submit {
		return page
	}
	s.verifyForm(page, s.resolve(resource, QualifierNone, ids), http.MethodPut, o)
	return s.update(resource, ids, o)
}

func (s *Session) create(resource string, ids []any, o RequestOptions) *Response {
	helpers.MarkHelper(s.t)
	return s.execute(http.MethodPost, s.resolve(Pluralize(resource), QualifierNone, ids), o, ExpectRedirect)
}

func (s *Session) update(resource string, ids []any, o RequestOptions) *Response {
	helpers.MarkHelper(s.t)
	return s.execute(http.MethodPut, s.resolve(resource, QualifierNone, ids), o, ExpectRedirect)
}

func (s *Session) destroy(resource string, ids []any, o RequestOptions) *Response {
	helpers.MarkHelper(s.t)
	o.Params = nil
	return s.execute(http.MethodDelete, s.resolve(resource, QualifierNone, ids), o, ExpectRedirect)
}

// formPage requests a "new" or "edit" page. Only the headers of the call apply to it; the page
// is always requested as a plain GET that must succeed.
func (s *Session) formPage(path string, o RequestOptions) *Response {
	helpers.MarkHelper(s.t)
	return s.execute(http.MethodGet, path, RequestOptions{Headers: o.Headers}, ExpectSuccess)
}

func (s *Session) verifyForm(page *Response, submitPath, method string, o RequestOptions) {
	helpers.MarkHelper(s.t)
	if page == nil {
		return
	}
	doc, err := page.Document()
	if err == nil {
		err = VerifyForm(doc, submitPath, method, o.Params, o.ViaAJAX)
	}
	if err != nil {
		helpers.Failf(s.t, "%s %s: %s", page.Method, page.Path(), err)
	}
}
