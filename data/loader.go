package data

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/jsgarvin/arid/framework/helpers"
)

// SourceInfo is the content of one YAML or JSON file.
type SourceInfo struct {
	FilePath string
	BaseName string
	Data     []byte
}

// ParseInto parses the file content into target with ParseJSONOrYAML.
func (s SourceInfo) ParseInto(target interface{}) error {
	if err := ParseJSONOrYAML(s.Data, target); err != nil {
		return fmt.Errorf("error parsing %q: %w", s.FilePath, err)
	}
	return nil
}

var dataFileExtensions = []string{".yaml", ".yml", ".json"}

// LoadDataFile reads a single file.
func LoadDataFile(filePath string) (SourceInfo, error) {
	data, err := os.ReadFile(filePath) //nolint:gosec
	if err != nil {
		return SourceInfo{}, fmt.Errorf("failed to read %q: %w", filePath, err)
	}
	return SourceInfo{FilePath: filePath, BaseName: filepath.Base(filePath), Data: data}, nil
}

// LoadDataFiles reads the file at filePath, or, if it is a directory, every YAML or JSON file
// directly inside it in name order.
func LoadDataFiles(filePath string) ([]SourceInfo, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", filePath, err)
	}
	if !info.IsDir() {
		source, err := LoadDataFile(filePath)
		if err != nil {
			return nil, err
		}
		return []SourceInfo{source}, nil
	}
	return readDataDir(os.DirFS(filePath), ".", filePath)
}

// LoadDataFilesFS is like LoadDataFiles for a directory, but reads from a file system such as
// an embed.FS.
func LoadDataFilesFS(fsys fs.FS, dir string) ([]SourceInfo, error) {
	return readDataDir(fsys, dir, dir)
}

func readDataDir(fsys fs.FS, dir, displayDir string) ([]SourceInfo, error) {
	entries, err := fs.ReadDir(fsys, dir) // sorted by name
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %q: %w", displayDir, err)
	}
	var ret []SourceInfo
	for _, entry := range entries {
		ext := strings.ToLower(path.Ext(entry.Name()))
		if entry.IsDir() || !helpers.SliceContains(ext, dataFileExtensions) {
			continue
		}
		displayPath := filepath.Join(displayDir, entry.Name())
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %q: %w", displayPath, err)
		}
		ret = append(ret, SourceInfo{FilePath: displayPath, BaseName: entry.Name(), Data: data})
	}
	return ret, nil
}
