// Package discover finds TypeScript source files under the analysed root.
package discover

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/spf13/afero"

	"github.com/fullscreenshenanigans/shenanigans-manager/internal/lang"
)

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path     string // Slash-separated, relative to root
	Language string
}

var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".hg":          {},
	".svn":         {},
	"build":        {},
	"dist":         {},
	"coverage":     {},
}

// Files discovers source files under root whose root-relative path matches
// one of the include globs (doublestar syntax, e.g. "src/**/*.ts").
// Declaration files, hidden files and anything matched by the root
// .gitignore are skipped. Results are sorted by path.
func Files(fsys afero.Fs, root string, include []string) ([]FileEntry, error) {
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, &PatternError{Pattern: pattern}
		}
	}
	gi := loadGitignore(fsys, root)

	var results []FileEntry

	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip errors
		}

		name := info.Name()

		if info.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		// Skip symlinks
		if info.Mode()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if lang.IsDeclarationFile(rel) || IsTestFile(rel) {
			return nil
		}
		l := lang.ForPath(rel)
		if l == nil {
			return nil
		}
		if !matchesAny(include, rel) {
			return nil
		}

		results = append(results, FileEntry{Path: rel, Language: l.Name})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

// testDirs are directory names whose contents are always test code.
var testDirs = map[string]struct{}{
	"__tests__": {},
	"__mocks__": {},
	"test":      {},
	"tests":     {},
}

// IsTestFile reports whether a slash-separated path looks like test code:
// a *.test.ts / *.spec.ts file or anything under a test directory.
func IsTestFile(rel string) bool {
	parts := strings.Split(rel, "/")
	for _, dir := range parts[:len(parts)-1] {
		if _, ok := testDirs[dir]; ok {
			return true
		}
	}
	base := parts[len(parts)-1]
	for _, marker := range []string{".test.", ".spec."} {
		if strings.Contains(base, marker) {
			return true
		}
	}
	return false
}

// PatternError reports an include glob that doublestar cannot parse.
type PatternError struct {
	Pattern string
}

func (e *PatternError) Error() string {
	return "invalid include pattern " + `"` + e.Pattern + `"`
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func loadGitignore(fsys afero.Fs, root string) *ignore.GitIgnore {
	data, err := afero.ReadFile(fsys, filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return ignore.CompileIgnoreLines(strings.Split(string(data), "\n")...)
}
