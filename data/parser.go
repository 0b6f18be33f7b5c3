// Package data reads the YAML or JSON files that describe routes and scenarios.
package data

import (
	"encoding/json"
	"fmt"

	yaml "gopkg.in/yaml.v3"
)

// ParseJSONOrYAML unmarshals JSON, or YAML if the data is not valid JSON, into target.
//
// YAML is converted to JSON first and then decoded like JSON, so target types only need json
// struct tags, and values such as ldvalue.Value that know how to read JSON work in YAML files
// too. Anchors, aliases and merge keys are resolved during the conversion.
func ParseJSONOrYAML(data []byte, target interface{}) error {
	if json.Valid(data) {
		return json.Unmarshal(data, target)
	}
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	converted, err := yamlToJSONValue(doc)
	if err != nil {
		return err
	}
	jsonData, err := json.Marshal(converted)
	if err != nil {
		return err
	}
	return json.Unmarshal(jsonData, target)
}

// yamlToJSONValue replaces the maps with non-string key types that YAML decoding can produce,
// which encoding/json cannot marshal.
func yamlToJSONValue(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case map[string]interface{}:
		for key, item := range v {
			converted, err := yamlToJSONValue(item)
			if err != nil {
				return nil, err
			}
			v[key] = converted
		}
		return v, nil
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			name, ok := key.(string)
			if !ok {
				return nil, fmt.Errorf("YAML map key %v is a %T; only string keys are allowed", key, key)
			}
			converted, err := yamlToJSONValue(item)
			if err != nil {
				return nil, err
			}
			out[name] = converted
		}
		return out, nil
	case []interface{}:
		for i, item := range v {
			converted, err := yamlToJSONValue(item)
			if err != nil {
				return nil, err
			}
			v[i] = converted
		}
		return v, nil
	default:
		return v, nil
	}
}
