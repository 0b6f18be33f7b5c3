package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCopyOf(t *testing.T) {
	ids := []any{"7", 3}
	memberIDs := append(CopyOf(ids), "12")
	assert.Equal(t, []any{"7", 3, "12"}, memberIDs)
	assert.Equal(t, []any{"7", 3}, ids)

	ids = append(make([]any, 0, 8), "7")
	a := append(CopyOf(ids), "a")
	b := append(CopyOf(ids), "b")
	assert.Equal(t, []any{"7", "a"}, a)
	assert.Equal(t, []any{"7", "b"}, b)

	assert.Nil(t, CopyOf[string](nil))
}

func TestIfElse(t *testing.T) {
	assert.Equal(t, "AJAX ", IfElse(true, "AJAX ", ""))
	assert.Equal(t, "", IfElse(false, "AJAX ", ""))
	assert.Equal(t, 404, IfElse(false, 200, 404))
}

func TestSliceContains(t *testing.T) {
	extensions := []string{".yaml", ".yml", ".json"}
	assert.True(t, SliceContains(".yml", extensions))
	assert.False(t, SliceContains(".txt", extensions))
	assert.False(t, SliceContains(1, nil))
}

func TestSortedKeys(t *testing.T) {
	fields := map[string]int{"title": 1, "body": 2, "author": 3}
	assert.Equal(t, []string{"author", "body", "title"}, SortedKeys(fields))
	assert.Empty(t, SortedKeys(map[string]int{}))
}
