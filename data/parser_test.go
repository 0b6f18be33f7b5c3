package data

import (
	"testing"

	m "github.com/launchdarkly/go-test-helpers/v2/matchers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routeFile struct {
	Name   string            `json:"name"`
	Strict bool              `json:"strict"`
	Routes map[string]string `json:"routes"`
	Ports  []int             `json:"ports"`
}

func TestParseJSONOrYAML(t *testing.T) {
	for _, p := range []struct {
		desc  string
		input string
	}{
		{"JSON", `{"name":"blog","strict":true,"routes":{"article_path":"/articles/{id}"},"ports":[3000,3001]}`},
		{"YAML", `---
name: blog
strict: true
routes:
  article_path: /articles/{id}
ports: [3000, 3001]
`},
	} {
		t.Run(p.desc, func(t *testing.T) {
			var out routeFile
			require.NoError(t, ParseJSONOrYAML([]byte(p.input), &out))
			assert.Equal(t, "blog", out.Name)
			assert.True(t, out.Strict)
			assert.Equal(t, map[string]string{"article_path": "/articles/{id}"}, out.Routes)
			assert.Equal(t, []int{3000, 3001}, out.Ports)
		})
	}
}

func TestParseJSONOrYAMLError(t *testing.T) {
	var out routeFile
	assert.Error(t, ParseJSONOrYAML([]byte("name: [unclosed"), &out))
	assert.Error(t, ParseJSONOrYAML([]byte("1: a\n"), &out))
}

func TestYAMLAnchorsAndMergeKeys(t *testing.T) {
	input := `---
constants:
  signed_in: &signed_in
    call: login
    params: {session: {login: alice}}

steps:
  - *signed_in
  - <<: *signed_in
    call: logout
`
	var out struct {
		Steps []map[string]interface{} `json:"steps"`
	}
	require.NoError(t, ParseJSONOrYAML([]byte(input), &out))
	m.In(t).Assert(out.Steps, m.JSONStrEqual(`[
  {"call": "login", "params": {"session": {"login": "alice"}}},
  {"call": "logout", "params": {"session": {"login": "alice"}}}
]`))
}
