package resttest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractID(t *testing.T) {
	for input, expected := range map[string]string{
		"http://www.example.com/articles/42":          "42",
		"https://example.com/forum/threads/7":         "7",
		"http://127.0.0.1:8080/articles/1/comments/3": "3",
		"http://www.example.com/9":                    "9",
	} {
		id, err := ExtractID(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, id, input)
	}
}

func TestExtractIDFailsWithoutTrailingNumber(t *testing.T) {
	for _, input := range []string{
		"http://www.example.com/articles",
		"http://www.example.com/articles/42/edit",
		"http://www.example.com/articles/abc",
		"/articles/42",
		"ftp://www.example.com/articles/42",
		"",
	} {
		_, err := ExtractID(input)
		assert.Error(t, err, input)
	}
}
