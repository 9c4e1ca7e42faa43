package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Discover finds schematic documents under opts.Paths.
// It returns a sorted, de-duplicated list of absolute file paths.
// Paths named explicitly are kept even when they are hidden.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	m := matcher{
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		include:    opts.IncludeGlobs,
		exclude:    opts.ExcludeGlobs,
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			files = append(files, p)
		}
	}

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := input
		if !filepath.IsAbs(absPath) {
			absPath = filepath.Join(workDir, absPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}

		if !info.IsDir() {
			if m.file(absPath) {
				add(absPath)
			}
			continue
		}

		found, err := m.walk(ctx, absPath, opts.FollowSymlinks, map[string]struct{}{})
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			add(f)
		}
	}

	slices.Sort(files)
	return files, nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

type matcher struct {
	workDir    string
	extensions []string
	include    []string
	exclude    []string
}

func (m matcher) rel(p string) string {
	rel, err := filepath.Rel(m.workDir, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(rel)
}

// file reports whether a regular file should be parsed.
func (m matcher) file(p string) bool {
	ext := filepath.Ext(p)
	if !slices.ContainsFunc(m.extensions, func(e string) bool { return strings.EqualFold(e, ext) }) {
		return false
	}
	rel := m.rel(p)
	if matchAny(rel, m.exclude) {
		return false
	}
	return len(m.include) == 0 || matchAny(rel, m.include)
}

// walk collects matching files below root. visited holds resolved directory
// symlink targets so link loops terminate.
func (m matcher) walk(ctx context.Context, root string, follow bool, visited map[string]struct{}) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		hidden := p != root && strings.HasPrefix(entry.Name(), ".")

		if entry.IsDir() {
			if hidden || (p != root && matchAny(m.rel(p), m.exclude)) {
				return filepath.SkipDir
			}
			return nil
		}
		if hidden {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(p)
			if err != nil {
				return nil //nolint:nilerr // Broken symlinks are skipped.
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // Unreadable targets are skipped.
			}
			if info.IsDir() {
				if !follow {
					return nil
				}
				if _, ok := visited[target]; ok {
					return nil
				}
				visited[target] = struct{}{}
				sub, err := m.walk(ctx, target, follow, visited)
				if err != nil {
					return err
				}
				files = append(files, sub...)
				return nil
			}
		}

		if m.file(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory %s: %w", root, err)
	}

	return files, nil
}

func matchAny(rel string, patterns []string) bool {
	return slices.ContainsFunc(patterns, func(pattern string) bool { return matchGlob(rel, pattern) })
}

// matchGlob matches a slash-separated relative path against a glob.
// "**" matches any number of path segments; a pattern without a slash also
// matches the base name.
func matchGlob(rel, pattern string) bool {
	pattern = filepath.ToSlash(pattern)
	if !strings.Contains(pattern, "**") {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			ok, _ := path.Match(pattern, path.Base(rel))
			return ok
		}
		return false
	}
	return matchSegments(strings.Split(rel, "/"), strings.Split(pattern, "/"))
}

func matchSegments(parts, pattern []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(parts); i++ {
				if matchSegments(parts[i:], rest) {
					return true
				}
			}
			return false
		}
		if len(parts) == 0 {
			return false
		}
		if ok, _ := path.Match(pattern[0], parts[0]); !ok {
			return false
		}
		parts, pattern = parts[1:], pattern[1:]
	}
	return len(parts) == 0
}
