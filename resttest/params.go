package resttest

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/jsgarvin/arid/framework/helpers"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Params is a nested parameter structure as submitted by an HTML form. Nested values may be
// Params, map[string]any or map[string]string, and are named with brackets on the wire:
// Params{"article": Params{"title": "X"}} is sent as article[title]=X.
type Params map[string]any

// Param can be implemented by model types to control how they appear in a path.
type Param interface {
	PathParam() string
}

// FormatID renders a target identifier as a path segment.
func FormatID(id any) string {
	switch v := id.(type) {
	case Param:
		return v.PathParam()
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case ldvalue.Value:
		if v.IsInt() {
			return strconv.Itoa(v.IntValue())
		}
		if v.Type() == ldvalue.StringType {
			return v.StringValue()
		}
		return v.JSONString()
	default:
		return fmt.Sprint(v)
	}
}

// Encode flattens the parameters into form values.
func (p Params) Encode() url.Values {
	values := make(url.Values)
	for _, key := range helpers.SortedKeys(p) {
		encodeParam(values, key, p[key])
	}
	return values
}

// FieldNames returns the names of the form fields that would submit these parameters, in sorted
// order: "article[title]" for a nested value, "title" for a flat one, and "tag_ids[]" for a list.
func (p Params) FieldNames() []string {
	var names []string
	for _, key := range helpers.SortedKeys(p) {
		names = appendFieldNames(names, key, p[key])
	}
	return names
}

func encodeParam(values url.Values, name string, value any) {
	if nested, ok := asParams(value); ok {
		for _, key := range helpers.SortedKeys(nested) {
			encodeParam(values, name+"["+key+"]", nested[key])
		}
		return
	}
	if list, ok := asList(value); ok {
		for _, item := range list {
			values.Add(name+"[]", formatParamValue(item))
		}
		return
	}
	values.Add(name, formatParamValue(value))
}

func appendFieldNames(names []string, name string, value any) []string {
	if nested, ok := asParams(value); ok {
		for _, key := range helpers.SortedKeys(nested) {
			names = appendFieldNames(names, name+"["+key+"]", nested[key])
		}
		return names
	}
	if _, ok := asList(value); ok {
		return append(names, name+"[]")
	}
	return append(names, name)
}

func asParams(value any) (Params, bool) {
	switch v := value.(type) {
	case Params:
		return v, true
	case map[string]any:
		return Params(v), true
	case map[string]string:
		ret := make(Params, len(v))
		for key, s := range v {
			ret[key] = s
		}
		return ret, true
	case ldvalue.Value:
		if v.Type() == ldvalue.ObjectType {
			return asParams(v.AsArbitraryValue())
		}
	}
	return nil, false
}

func asList(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []string:
		ret := make([]any, 0, len(v))
		for _, s := range v {
			ret = append(ret, s)
		}
		return ret, true
	case ldvalue.Value:
		if v.Type() == ldvalue.ArrayType {
			return asList(v.AsArbitraryValue())
		}
	}
	return nil, false
}

func formatParamValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case ldvalue.Value:
		if v.IsNull() {
			return ""
		}
		if v.Type() == ldvalue.StringType {
			return v.StringValue()
		}
		return FormatID(v.AsArbitraryValue())
	default:
		return FormatID(v)
	}
}
