// Package picker turns local paths chosen by the user into upload file
// descriptors. It is the command-line stand-in for a browser file picker:
// it stats each path, rejects anything that is not a regular file and
// sniffs the content type.
package picker

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/Iron-Ham/uploadsim/internal/errors"
	"github.com/Iron-Ham/uploadsim/internal/upload"
)

// Describe builds the descriptor for a single regular file.
func Describe(path string) (upload.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return upload.File{}, errors.NewFileError("stat", path, err)
	}
	if !info.Mode().IsRegular() {
		return upload.File{}, errors.NewFileError("stat", path, errors.ErrNotRegularFile)
	}

	f := upload.File{
		Name: info.Name(),
		Size: info.Size(),
		Path: path,
	}
	if mt, err := mimetype.DetectFile(path); err == nil {
		f.ContentType = mt.String()
	} else {
		// Unreadable content still uploads; the type is just unknown.
		f.ContentType = "application/octet-stream"
	}
	return f, nil
}

// FromPaths describes every path, in input order. Paths that cannot be
// described are skipped and their errors joined into the returned error, so a
// caller may add the good files and report the rest.
func FromPaths(paths []string) ([]upload.File, error) {
	if len(paths) == 0 {
		return nil, errors.ErrEmptySelection
	}

	files := make([]upload.File, 0, len(paths))
	var errs []error
	for _, p := range paths {
		f, err := Describe(p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, f)
	}
	return files, errors.Join(errs...)
}

// Expand replaces every directory in paths with the regular, non-hidden files
// directly inside it, sorted by name. Other paths pass through unchanged.
func Expand(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			out = append(out, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, errors.NewFileError("readdir", p, err).WithSeverity(errors.SeverityError)
		}
		for _, e := range entries {
			if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			out = append(out, filepath.Join(p, e.Name()))
		}
	}
	return out, nil
}
