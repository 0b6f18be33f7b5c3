// Package routes builds the path helper registry of a Session from route declarations: the
// named routes of a gorilla/mux router, or a route table file.
package routes

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jsgarvin/arid/data"
	"github.com/jsgarvin/arid/framework/helpers"
	"github.com/jsgarvin/arid/resttest"

	"github.com/gorilla/mux"
)

// FromRouter registers a path helper "<name>_path" for every named route of the router. The
// helper takes one identifier per path variable, in the order the variables appear.
func FromRouter(router *mux.Router) (*resttest.PathRegistry, error) {
	registry := resttest.NewPathRegistry()
	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		name := route.GetName()
		if name == "" {
			return nil
		}
		varNames, err := route.GetVarNames()
		if err != nil {
			return fmt.Errorf("route %q: %w", name, err)
		}
		registry.Register(name+"_path", pathFunc(name, route, varNames))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return registry, nil
}

func pathFunc(name string, route *mux.Route, varNames []string) resttest.PathFunc {
	return func(ids ...any) (string, error) {
		if len(ids) != len(varNames) {
			return "", fmt.Errorf("wrong number of arguments for %s_path (given %d, expected %d)",
				name, len(ids), len(varNames))
		}
		pairs := make([]string, 0, len(ids)*2)
		for i, id := range ids {
			pairs = append(pairs, varNames[i], resttest.FormatID(id))
		}
		u, err := route.URLPath(pairs...)
		if err != nil {
			return "", fmt.Errorf("%s_path: %w", name, err)
		}
		return u.Path, nil
	}
}

// Table is a route table as read from a file: route names mapped to path templates in the
// gorilla/mux syntax, such as
//
//	article: /articles/{id:[0-9]+}
//	forum_edit_thread: /forum/threads/{id}/edit
//
// A "_path" suffix on a name is optional.
type Table map[string]string

// LoadTable reads a route table from a YAML or JSON file.
func LoadTable(path string) (Table, error) {
	source, err := data.LoadDataFile(path)
	if err != nil {
		return nil, err
	}
	var table Table
	if err := source.ParseInto(&table); err != nil {
		return nil, err
	}
	return table, nil
}

// Router builds a router with one named route per table entry. Its routes have no handlers; it
// is only used for building paths.
func (t Table) Router() (*mux.Router, error) {
	router := mux.NewRouter()
	for _, key := range helpers.SortedKeys(t) {
		name := strings.TrimSuffix(key, "_path")
		template := t[key]
		if !strings.HasPrefix(template, "/") {
			return nil, fmt.Errorf("route %q: path template %q must start with /", name, template)
		}
		route := router.Path(template).Name(name).Handler(http.NotFoundHandler())
		if err := route.GetError(); err != nil {
			return nil, fmt.Errorf("route %q: %w", name, err)
		}
	}
	return router, nil
}

// Registry builds the path helpers of the table.
func (t Table) Registry() (*resttest.PathRegistry, error) {
	router, err := t.Router()
	if err != nil {
		return nil, err
	}
	return FromRouter(router)
}
