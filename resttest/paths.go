package resttest

import (
	"fmt"
	"strings"

	"github.com/jsgarvin/arid/framework/helpers"
)

// PathFunc builds a request path from positional target identifiers, the way a named route
// helper does. It should return an error if it is given the wrong number of identifiers.
type PathFunc func(ids ...any) (string, error)

// Qualifier distinguishes the "new" and "edit" page of a resource from its plain path.
type Qualifier string

const (
	QualifierNone Qualifier = ""
	QualifierNew  Qualifier = "new"
	QualifierEdit Qualifier = "edit"
)

// PathRegistry maps path helper names such as "edit_article_path" to the functions that build
// those paths. It is populated once at setup time, normally by the routes package.
//
// PathRegistry is not safe for concurrent modification, but any number of goroutines may read
// from it once it has been populated.
type PathRegistry struct {
	funcs map[string]PathFunc
}

// PathNotFoundError means that no path helper matched a resource name and qualifier under any
// of the naming conventions that were tried.
type PathNotFoundError struct {
	Resource  string
	Qualifier Qualifier
	Tried     []string
}

func (e *PathNotFoundError) Error() string {
	desc := e.Resource
	if e.Qualifier != QualifierNone {
		desc = string(e.Qualifier) + " " + e.Resource
	}
	return fmt.Sprintf("no path helper found for %q (tried %s)", desc, strings.Join(e.Tried, ", "))
}

// NewPathRegistry creates an empty PathRegistry.
func NewPathRegistry() *PathRegistry {
	return &PathRegistry{funcs: make(map[string]PathFunc)}
}

// Register adds or replaces a path helper. The name should include the "_path" suffix.
func (r *PathRegistry) Register(name string, fn PathFunc) *PathRegistry {
	r.funcs[name] = fn
	return r
}

// Has returns true if a path helper with this name exists.
func (r *PathRegistry) Has(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.funcs[name]
	return ok
}

// Lookup returns the path helper with this name, if any.
func (r *PathRegistry) Lookup(name string) (PathFunc, bool) {
	if r == nil {
		return nil, false
	}
	fn, ok := r.funcs[name]
	return fn, ok
}

// Names returns the names of all registered path helpers in sorted order.
func (r *PathRegistry) Names() []string {
	if r == nil {
		return nil
	}
	return helpers.SortedKeys(r.funcs)
}

// ResolveName finds the name of the path helper for a resource.
//
// With QualifierNone, the only candidate is "<resource>_path". Otherwise the direct name
// "<qualifier>_<resource>_path" is tried first, and then the qualifier is moved one word at a
// time into the resource name: for "forum_thread" and QualifierEdit, "edit_forum_thread_path"
// and then "forum_edit_thread_path". The first existing candidate wins.
func (r *PathRegistry) ResolveName(resource string, qualifier Qualifier) (string, error) {
	if qualifier == QualifierNone {
		name := resource + "_path"
		if r.Has(name) {
			return name, nil
		}
		return "", &PathNotFoundError{Resource: resource, Tried: []string{name}}
	}
	tokens := strings.Split(resource, "_")
	tried := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		var name string
		if i == 0 {
			name = string(qualifier) + "_" + resource + "_path"
		} else {
			name = strings.Join(tokens[:i], "_") + "_" + string(qualifier) + "_" +
				strings.Join(tokens[i:], "_") + "_path"
		}
		if r.Has(name) {
			return name, nil
		}
		tried = append(tried, name)
	}
	return "", &PathNotFoundError{Resource: resource, Qualifier: qualifier, Tried: tried}
}

// ResolvePath finds the path helper for a resource with ResolveName and calls it with the
// target identifiers. An error from the helper itself, such as a wrong number of identifiers,
// is returned unchanged.
func ResolvePath(registry *PathRegistry, resource string, qualifier Qualifier, ids []any) (string, error) {
	name, err := registry.ResolveName(resource, qualifier)
	if err != nil {
		return "", err
	}
	fn, _ := registry.Lookup(name)
	return fn(ids...)
}
