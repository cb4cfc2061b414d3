// Package fsutil provides file discovery helpers for manifest loading.
package fsutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// FindByExtension recursively collects every file under root whose name
// ends with ext. The result is sorted so callers that register the
// files, such as the signature registry, load them in a stable order.
func FindByExtension(root string, ext string) ([]string, error) {
	if ext == "" {
		panic("ext must not be empty")
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Manifests never live in hidden directories such as .git.
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
