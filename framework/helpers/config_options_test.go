package helpers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type clientConfig struct {
	resource string
	headers  []string
}

type clientOption ConfigOption[clientConfig]

func withResource(name string) clientOption {
	return OptionFunc[clientConfig](func(c *clientConfig) error {
		if name == "" {
			return errors.New("empty resource name")
		}
		c.resource = name
		return nil
	})
}

func withHeader(h string) clientOption {
	return OptionFunc[clientConfig](func(c *clientConfig) error {
		c.headers = append(c.headers, h)
		return nil
	})
}

func TestApplyOptions(t *testing.T) {
	var c clientConfig
	assert.NoError(t, ApplyOptions(&c, withHeader("Accept"), withResource("login"), withHeader("Cookie")))
	assert.Equal(t, clientConfig{resource: "login", headers: []string{"Accept", "Cookie"}}, c)

	options := []clientOption{withHeader("Accept"), withResource(""), withHeader("Cookie")}
	var c2 clientConfig
	assert.EqualError(t, ApplyOptions(&c2, options...), "empty resource name")
	assert.Equal(t, []string{"Accept"}, c2.headers)
}
