package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// TreeConfig selects the files a batch conversion operates over, the
// supplemented feature SPEC_FULL.md describes ("Batch/tree conversion").
// It mirrors the teacher's scanner.ScanConfig (Include/Exclude globs)
// rather than inventing a new shape.
type TreeConfig struct {
	// Include glob patterns (doublestar syntax) matched against paths
	// relative to Root. Empty means "every file".
	Include []string
	// Exclude glob patterns, checked first.
	Exclude []string
	// Externs explicitly names files (relative to Root) to treat as
	// externs: parsed and indexed, never emitted. Falls back to the
	// ".d.ts" naming convention for any file not listed here.
	Externs []string
}

// ConvertTree discovers files under root matching cfg, reads them, and
// runs Transpile over the whole set — the thin convenience wrapper
// SPEC_FULL.md's "Batch/tree conversion" describes; it is not part of the
// three-pass core, only a library helper around it (the CLI does not call
// it).
func (d *Driver) ConvertTree(root string, cfg TreeConfig) (map[string]string, map[string]error) {
	paths, err := discoverFiles(root, cfg)
	if err != nil {
		return nil, map[string]error{root: err}
	}

	externs := make(map[string]bool, len(cfg.Externs))
	for _, e := range cfg.Externs {
		externs[filepath.ToSlash(e)] = true
	}

	sources := make([]Source, 0, len(paths))
	emit := make([]string, 0, len(paths))
	errs := make(map[string]error)

	for _, abs := range paths {
		rel, relErr := filepath.Rel(root, abs)
		if relErr != nil {
			rel = abs
		}
		rel = filepath.ToSlash(rel)

		text, readErr := os.ReadFile(abs)
		if readErr != nil {
			errs[rel] = fmt.Errorf("reading %s: %w", rel, readErr)
			continue
		}

		sources = append(sources, Source{Name: rel, Text: string(text)})
		if !externs[rel] && !isExternsSource(rel) {
			emit = append(emit, rel)
		}
	}

	out, transpileErrs := d.Transpile(FilesToEmitSet(emit), sources)
	for name, err := range transpileErrs {
		errs[name] = err
	}
	return out, errs
}

func discoverFiles(root string, cfg TreeConfig) ([]string, error) {
	for _, pattern := range cfg.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}
	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}

	var files []string
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		for _, pattern := range cfg.Exclude {
			if matched, _ := doublestar.PathMatch(pattern, rel); matched {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}

		if len(cfg.Include) > 0 {
			matched := false
			for _, pattern := range cfg.Include {
				if m, _ := doublestar.PathMatch(pattern, rel); m {
					matched = true
					break
				}
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
