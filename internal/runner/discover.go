package runner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"roundtrip/internal/errors"
)

// DefaultInclude selects Python sources.
var DefaultInclude = []string{"*.py"}

// Discover lists the corpus files under root in lexical order. A root that
// names a file is returned as is. Hidden directories are never entered.
// Patterns are matched against both the base name and the slash-separated
// path relative to root; an exclude pattern that matches a directory
// prunes it.
func Discover(root string, include, exclude []string) ([]string, error) {
	if len(include) == 0 {
		include = DefaultInclude
	}
	if err := checkPatterns(include, exclude); err != nil {
		return nil, errors.Harness("invalid pattern", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Harness("cannot open corpus", err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if isHidden(d.Name()) || matchAny(exclude, d.Name(), rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if matchAny(include, d.Name(), rel) && !matchAny(exclude, d.Name(), rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Harness("cannot walk corpus", err)
	}
	if len(files) == 0 {
		return nil, errors.Harness(fmt.Sprintf("no files matching %s under %s", strings.Join(include, ", "), root), nil)
	}

	sort.Strings(files)
	return files, nil
}

// selected reports whether a file under root would be discovered.
func selected(root, path string, include, exclude []string) bool {
	if len(include) == 0 {
		include = DefaultInclude
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, part := range strings.Split(rel, "/") {
		if isHidden(part) {
			return false
		}
	}
	name := filepath.Base(path)
	return matchAny(include, name, rel) && !matchAny(exclude, name, rel)
}

func isHidden(name string) bool {
	return len(name) > 1 && strings.HasPrefix(name, ".") && name != ".."
}

func matchAny(patterns []string, name, rel string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func checkPatterns(lists ...[]string) error {
	for _, list := range lists {
		for _, p := range list {
			if _, err := filepath.Match(p, ""); err != nil {
				return fmt.Errorf("%q: %w", p, err)
			}
		}
	}
	return nil
}
