package workspace

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// skipDirs are build output and tooling directories never descended into.
var skipDirs = map[string]bool{"bin": true, "obj": true, ".git": true, ".vs": true, "node_modules": true}

// Collect expands paths, files or directories, into the sorted list of C#
// sources they denote.
func Collect(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.EqualFold(filepath.Ext(path), ".cs") || seen[path] {
				return nil
			}
			seen[path] = true
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", root, err)
		}
	}
	sort.Strings(files)
	return files, nil
}
