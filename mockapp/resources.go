package mockapp

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jsgarvin/arid/framework/helpers"

	"github.com/gorilla/mux"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// kind is one resource type with its four named routes.
type kind struct {
	param           string
	title           string
	fields          []field
	parent          *kind
	parentVar       string
	remote          bool
	collectionRoute string
	memberRoute     string
	newRoute        string
	editRoute       string
	store           *store
}

func (k *kind) fieldNames() []string {
	ret := make([]string, 0, len(k.fields))
	for _, f := range k.fields {
		ret = append(ret, f.name)
	}
	return ret
}

func (a *App) addResource(k *kind, collectionPath string) {
	k.store = newStore()
	a.kinds[k.collectionRoute] = k
	memberPath := collectionPath + "/{id:[0-9]+}"
	a.router.Path(collectionPath + "/new").Name(k.newRoute).Methods(http.MethodGet).
		HandlerFunc(func(w http.ResponseWriter, r *http.Request) { a.serveNew(k, w, r) })
	a.router.Path(memberPath + "/edit").Name(k.editRoute).Methods(http.MethodGet).
		HandlerFunc(func(w http.ResponseWriter, r *http.Request) { a.serveEdit(k, w, r) })
	a.router.Path(memberPath).Name(k.memberRoute).
		HandlerFunc(func(w http.ResponseWriter, r *http.Request) { a.serveMember(k, w, r) })
	a.router.Path(collectionPath).Name(k.collectionRoute).
		HandlerFunc(func(w http.ResponseWriter, r *http.Request) { a.serveCollection(k, w, r) })
}

// scope is the parent id and the record id of a request, as found in its path.
type scope struct {
	parentID int
	id       int
}

func (a *App) scopeOf(k *kind, r *http.Request) (scope, bool) {
	vars := mux.Vars(r)
	var s scope
	if k.parent != nil {
		parentID, err := strconv.Atoi(vars[k.parentVar])
		if err != nil {
			return s, false
		}
		if _, ok := k.parent.store.get(0, parentID); !ok {
			return s, false
		}
		s.parentID = parentID
	}
	if idVar, ok := vars["id"]; ok {
		id, err := strconv.Atoi(idVar)
		if err != nil {
			return s, false
		}
		s.id = id
	}
	return s, true
}

func (a *App) path(routeName string, k *kind, s scope, withID bool) string {
	var pairs []string
	if k.parent != nil {
		pairs = append(pairs, k.parentVar, strconv.Itoa(s.parentID))
	}
	if withID {
		pairs = append(pairs, "id", strconv.Itoa(s.id))
	}
	u, err := a.router.Get(routeName).URLPath(pairs...)
	if err != nil {
		return "/"
	}
	return u.Path
}

func (a *App) serveCollection(k *kind, w http.ResponseWriter, r *http.Request) {
	s, ok := a.scopeOf(k, r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	switch effectiveMethod(r) {
	case http.MethodGet:
		records := k.store.list(s.parentID)
		if wantsJSON(r) {
			items := ldvalue.ArrayBuild()
			for _, rec := range records {
				items.Add(rec.asJSON(k.fieldNames()))
			}
			writeJSON(w, http.StatusOK, items.Build())
			return
		}
		page := listPage{Title: k.title + "s", NewPath: a.path(k.newRoute, k, s, false)}
		for _, rec := range records {
			page.Items = append(page.Items, listItem{
				Label: rec.fields[k.fields[0].name],
				Path:  a.path(k.memberRoute, k, scope{parentID: s.parentID, id: rec.id}, true),
			})
		}
		renderPage(w, http.StatusOK, "list", page)
	case http.MethodPost:
		if !a.requireUser(w, r) {
			return
		}
		values, errs := k.formValues(r)
		if len(errs) > 0 {
			a.renderForm(w, http.StatusUnprocessableEntity, k, "New "+k.title, a.path(k.collectionRoute, k, s, false),
				false, values, errs)
			return
		}
		rec := k.store.insert(s.parentID, values)
		s.id = rec.id
		a.respondChanged(w, r, rec.id, a.path(k.memberRoute, k, s, true))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *App) serveMember(k *kind, w http.ResponseWriter, r *http.Request) {
	s, ok := a.scopeOf(k, r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	rec, found := k.store.get(s.parentID, s.id)
	if !found {
		http.NotFound(w, r)
		return
	}
	switch effectiveMethod(r) {
	case http.MethodGet:
		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, rec.asJSON(k.fieldNames()))
			return
		}
		page := showPage{
			Title:    fmt.Sprintf("%s %d", k.title, rec.id),
			EditPath: a.path(k.editRoute, k, s, true),
			ListPath: a.path(k.collectionRoute, k, s, false),
		}
		for _, f := range k.fields {
			page.Fields = append(page.Fields, formField{Label: f.name, Value: rec.fields[f.name]})
		}
		renderPage(w, http.StatusOK, "show", page)
	case http.MethodPut, http.MethodPatch:
		if !a.requireUser(w, r) {
			return
		}
		values, errs := k.formValues(r)
		if len(errs) > 0 {
			a.renderForm(w, http.StatusUnprocessableEntity, k, "Edit "+k.title, a.path(k.memberRoute, k, s, true),
				true, values, errs)
			return
		}
		rec.fields = values
		k.store.update(rec)
		a.respondChanged(w, r, rec.id, a.path(k.memberRoute, k, s, true))
	case http.MethodDelete:
		if !a.requireUser(w, r) {
			return
		}
		k.store.remove(s.parentID, s.id)
		a.respondChanged(w, r, rec.id, a.path(k.collectionRoute, k, s, false))
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (a *App) serveNew(k *kind, w http.ResponseWriter, r *http.Request) {
	s, ok := a.scopeOf(k, r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if !a.requireUser(w, r) {
		return
	}
	a.renderForm(w, http.StatusOK, k, "New "+k.title, a.path(k.collectionRoute, k, s, false), false, nil, nil)
}

func (a *App) serveEdit(k *kind, w http.ResponseWriter, r *http.Request) {
	s, ok := a.scopeOf(k, r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	rec, found := k.store.get(s.parentID, s.id)
	if !found {
		http.NotFound(w, r)
		return
	}
	if !a.requireUser(w, r) {
		return
	}
	a.renderForm(w, http.StatusOK, k, "Edit "+k.title, a.path(k.memberRoute, k, s, true), true, rec.fields, nil)
}

// respondChanged answers a successful create, update or destroy: with a fragment for AJAX,
// otherwise with a redirect.
func (a *App) respondChanged(w http.ResponseWriter, r *http.Request, id int, redirectPath string) {
	if isAJAX(r) {
		renderPage(w, http.StatusOK, "ajax", strconv.Itoa(id))
		return
	}
	redirectTo(w, r, redirectPath)
}

func (a *App) renderForm(w http.ResponseWriter, status int, k *kind, title, action string, put bool,
	values map[string]string, errs []string) {
	page := formPage{Title: title, Action: action, Put: put, Remote: k.remote, Errors: errs}
	for _, f := range k.fields {
		page.Fields = append(page.Fields, formField{
			Name:     k.param + "[" + f.name + "]",
			Label:    f.name,
			Value:    values[f.name],
			TextArea: f.kind == textAreaField,
			Select:   f.kind == selectField,
			Options:  f.options,
		})
	}
	renderPage(w, status, "form", page)
}

// formValues reads "<param>[<field>]" values. Unknown fields are ignored.
func (k *kind) formValues(r *http.Request) (map[string]string, []string) {
	_ = r.ParseForm()
	values := make(map[string]string)
	var errs []string
	for _, f := range k.fields {
		v := strings.TrimSpace(r.PostForm.Get(k.param + "[" + f.name + "]"))
		values[f.name] = v
		if f.required && v == "" {
			errs = append(errs, f.name+" can't be blank")
		}
		if v != "" && f.kind == selectField && !helpers.SliceContains(v, f.options) {
			errs = append(errs, f.name+" is not included in the list")
		}
	}
	return values, errs
}
