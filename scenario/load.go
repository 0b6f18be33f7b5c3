package scenario

import (
	"io/fs"

	"github.com/jsgarvin/arid/data"
)

// LoadFiles reads and validates scenario files. Each path may be a file or a directory of
// files.
func LoadFiles(paths ...string) ([]File, error) {
	var ret []File
	for _, path := range paths {
		sources, err := data.LoadDataFiles(path)
		if err != nil {
			return nil, err
		}
		files, err := parseFiles(sources)
		if err != nil {
			return nil, err
		}
		ret = append(ret, files...)
	}
	return ret, nil
}

// LoadFilesFS reads and validates all scenario files in a directory of a file system.
func LoadFilesFS(fsys fs.FS, dir string) ([]File, error) {
	sources, err := data.LoadDataFilesFS(fsys, dir)
	if err != nil {
		return nil, err
	}
	return parseFiles(sources)
}

func parseFiles(sources []data.SourceInfo) ([]File, error) {
	ret := make([]File, 0, len(sources))
	for _, source := range sources {
		var f File
		if err := source.ParseInto(&f); err != nil {
			return nil, err
		}
		f.source = source.FilePath
		if err := f.Validate(); err != nil {
			return nil, err
		}
		ret = append(ret, f)
	}
	return ret, nil
}
