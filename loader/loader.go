// Package loader resolves TinyVM program sources from disk: the entry
// file passed on the command line and any %include targets it pulls
// in along the way.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
)

// sourceExtension is appended to a path with no extension (or one that
// does not already resolve) before giving up.
const sourceExtension = ".vm"

// ReadSource reads the program source at path. If path does not exist
// as given, it retries with a ".vm" suffix appended — this lets callers
// write "examples/factorial" instead of "examples/factorial.vm" on the
// command line.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-supplied program path
	if err == nil {
		return string(data), nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read %q: %w", path, err)
	}

	withExt := path + sourceExtension
	data, extErr := os.ReadFile(withExt) // #nosec G304 -- user-supplied program path
	if extErr != nil {
		return "", fmt.Errorf("failed to read %q (and %q): %w", path, withExt, err)
	}
	return string(data), nil
}

// FileIncludeResolver returns an IncludeResolver (in the sense the
// parser package expects) that resolves %include targets relative to
// baseDir — the directory containing the entry source file — falling
// back to the ".vm" extension the same way ReadSource does.
func FileIncludeResolver(baseDir string) func(name string) (string, error) {
	return func(name string) (string, error) {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, name)
		}
		return ReadSource(path)
	}
}
