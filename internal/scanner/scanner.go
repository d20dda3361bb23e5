package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/jenian/envsensei/internal/syntax"
)

// DefaultIgnoredGlobs are always excluded, whatever the configuration says
var DefaultIgnoredGlobs = []string{
	"**/node_modules/**",
	"**/dist/**",
	"**/build/**",
	"**/.next/**",
	"**/coverage/**",
}

// File is a source file selected for scanning
type File struct {
	Path     string // as walked, joined with the scan root
	RelPath  string // slash-separated, relative to the scan root
	Language syntax.Language

	// Content, when set, is used instead of reading Path
	Content []byte
}

// Read returns the file contents
func (f File) Read() ([]byte, error) {
	if f.Content != nil {
		return f.Content, nil
	}
	return os.ReadFile(f.Path)
}

// Name is the path shown to users, relative to the scan root when known
func (f File) Name() string {
	if f.RelPath != "" {
		return f.RelPath
	}
	return f.Path
}

// Scanner handles file discovery and filtering
type Scanner struct {
	excludeDirs  map[string]bool // Directory names never descended into
	excludeGlobs []string
	includeGlobs []string
	languages    func(syntax.Language) bool
}

// NewScanner creates a scanner with the default exclusions that accepts
// every supported language.
func NewScanner() *Scanner {
	return &Scanner{
		excludeDirs: map[string]bool{
			"node_modules": true,
			"vendor":       true,
			".git":         true,
			"build":        true,
			"dist":         true,
			"out":          true,
			".next":        true,
			".cache":       true,
			"coverage":     true,
		},
		excludeGlobs: append([]string(nil), DefaultIgnoredGlobs...),
		languages:    func(lang syntax.Language) bool { return lang != syntax.LanguageUnknown },
	}
}

// SetExcludeGlobs sets the configured exclusions; DefaultIgnoredGlobs always stay
func (s *Scanner) SetExcludeGlobs(globs []string) {
	s.excludeGlobs = append(append([]string(nil), DefaultIgnoredGlobs...), globs...)
}

// SetIncludeGlobs restricts the scan to files matching at least one glob
func (s *Scanner) SetIncludeGlobs(globs []string) {
	s.includeGlobs = globs
}

// SetLanguageFilter restricts the scan to languages accepted by keep
func (s *Scanner) SetLanguageFilter(keep func(syntax.Language) bool) {
	s.languages = func(lang syntax.Language) bool {
		return lang != syntax.LanguageUnknown && keep(lang)
	}
}

// isBinaryFile checks if a file is likely binary
func isBinaryFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	binaryExts := map[string]bool{
		".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
		".pdf": true, ".zip": true, ".tar": true, ".gz": true,
		".exe": true, ".dll": true, ".so": true, ".dylib": true,
		".woff": true, ".woff2": true, ".ttf": true, ".eot": true,
		".ico": true, ".svg": true, ".mp4": true, ".mp3": true,
		".map": true, ".wasm": true,
	}
	return binaryExts[ext]
}

// matchesGlob checks a slash-separated relative path, and its base name,
// against doublestar patterns.
func matchesGlob(relPath string, globs []string) bool {
	base := filepath.Base(relPath)
	for _, glob := range globs {
		if ok, _ := doublestar.Match(glob, relPath); ok {
			return true
		}
		if ok, _ := doublestar.Match(glob, base); ok {
			return true
		}
	}
	return false
}

// shouldInclude applies the include globs, then the exclude globs
func (s *Scanner) shouldInclude(relPath string) bool {
	if len(s.includeGlobs) > 0 && !matchesGlob(relPath, s.includeGlobs) {
		return false
	}
	return !matchesGlob(relPath, s.excludeGlobs)
}

// Scan walks root and returns the files to parse in lexical order. Root may
// also be a single file. The walk stops early when ctx is cancelled.
func (s *Scanner) Scan(ctx context.Context, root string) ([]File, error) {
	var files []File

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && s.excludeDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		if isBinaryFile(path) {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil || relPath == "." {
			relPath = filepath.Base(path)
		}
		relPath = filepath.ToSlash(relPath)

		if !s.shouldInclude(relPath) {
			return nil
		}

		lang := syntax.LanguageFor(path)
		if !s.languages(lang) {
			return nil
		}

		files = append(files, File{
			Path:     path,
			RelPath:  relPath,
			Language: lang,
		})
		return nil
	})

	return files, err
}
