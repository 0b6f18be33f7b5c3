package data

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDataFile(t *testing.T) {
	dir := t.TempDir()
	path := writeDataFile(t, dir, "routes.yml", "article: /articles/{id}\n")

	source, err := LoadDataFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, source.FilePath)
	assert.Equal(t, "routes.yml", source.BaseName)

	var routes map[string]string
	require.NoError(t, source.ParseInto(&routes))
	assert.Equal(t, map[string]string{"article": "/articles/{id}"}, routes)
}

func TestLoadDataFileNotFound(t *testing.T) {
	_, err := LoadDataFile(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yml")
}

func TestLoadDataFilesFromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeDataFile(t, dir, "b.json", `{"name":"b"}`)
	writeDataFile(t, dir, "a.yaml", "name: a\n")
	writeDataFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.yml"), 0o700))

	sources, err := LoadDataFiles(dir)
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "a.yaml", sources[0].BaseName)
	assert.Equal(t, "b.json", sources[1].BaseName)
}

func TestLoadDataFilesFromSingleFile(t *testing.T) {
	path := writeDataFile(t, t.TempDir(), "one.txt", "name: one\n")
	sources, err := LoadDataFiles(path)
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "one.txt", sources[0].BaseName)
}

func TestParseIntoReportsFileName(t *testing.T) {
	source := SourceInfo{FilePath: "bad.yml", Data: []byte("a: [")}
	var target map[string]interface{}
	err := source.ParseInto(&target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"bad.yml"`)
}

func TestLoadDataFilesFS(t *testing.T) {
	fsys := fstest.MapFS{
		"scenarios/b.yml":     {Data: []byte("name: b\n")},
		"scenarios/a.json":    {Data: []byte(`{"name":"a"}`)},
		"scenarios/README.md": {Data: []byte("#")},
	}
	sources, err := LoadDataFilesFS(fsys, "scenarios")
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, filepath.Join("scenarios", "a.json"), sources[0].FilePath)

	var target struct {
		Name string `json:"name"`
	}
	require.NoError(t, sources[1].ParseInto(&target))
	assert.Equal(t, "b", target.Name)

	_, err = LoadDataFilesFS(fsys, "missing")
	assert.Error(t, err)
}
