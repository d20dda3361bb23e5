package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jenian/envsensei/internal/syntax"
)

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", rel, err)
		}
	}
}

func relPaths(files []File) []string {
	var out []string
	for _, f := range files {
		out = append(out, f.RelPath)
	}
	return out
}

func TestScanner_Scan(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"src/app.js":           "console.log('test');",
		"src/app.go":           "package main",
		"src/app.py":           "print('test')",
		"src/view.tsx":         "export const A = () => <div />;",
		"src/readme.txt":       "readme content",
		"src/logo.png":         "png",
		"node_modules/lib.js":  "module.exports = {};",
		"packages/a/dist/x.js": "x",
		"coverage/lcov.js":     "x",
		"web/.next/server.js":  "x",
		"web/pages/index.ts":   "export {}",
	})

	files, err := NewScanner().Scan(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	expected := []string{"src/app.go", "src/app.js", "src/app.py", "src/view.tsx", "web/pages/index.ts"}
	got := relPaths(files)
	if len(got) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("file %d: expected %s, got %s", i, expected[i], got[i])
		}
	}
	if files[3].Language != syntax.LanguageTSX {
		t.Errorf("Expected tsx language, got %v", files[3].Language)
	}
}

func TestScanner_ExcludeGlobs(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"test.js":                 "test",
		"test.go":                 "test",
		"src/fixtures/secrets.ts": "test",
		"src/app.ts":              "test",
	})

	scanner := NewScanner()
	scanner.SetExcludeGlobs([]string{"*.go", "**/fixtures/**"})

	files, err := scanner.Scan(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	got := relPaths(files)
	if len(got) != 2 || got[0] != "src/app.ts" || got[1] != "test.js" {
		t.Errorf("Expected [src/app.ts test.js], got %v", got)
	}
}

func TestScanner_DefaultGlobsAlwaysApply(t *testing.T) {
	scanner := NewScanner()
	scanner.SetExcludeGlobs([]string{"**/*.test.ts"})

	tests := map[string]bool{
		"app/main.js":                 true,
		"app/main.test.ts":            false,
		"packages/web/dist/bundle.js": false,
		"node_modules/lib/index.js":   false,
		"site/.next/server/page.js":   false,
		"coverage/lcov-report/x.js":   false,
	}
	for path, want := range tests {
		if got := scanner.shouldInclude(path); got != want {
			t.Errorf("shouldInclude(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestScanner_IncludeGlobsAndLanguageFilter(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{
		"src/a.ts":     "x",
		"src/b.go":     "x",
		"scripts/c.js": "x",
	})

	scanner := NewScanner()
	scanner.SetIncludeGlobs([]string{"src/**"})
	scanner.SetLanguageFilter(syntax.Language.IsJavaScriptFamily)

	files, err := scanner.Scan(context.Background(), tmpDir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if got := relPaths(files); len(got) != 1 || got[0] != "src/a.ts" {
		t.Errorf("Expected [src/a.ts], got %v", got)
	}
}

func TestScanner_SingleFileRoot(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{"index.ts": "export {}"})

	files, err := NewScanner().Scan(context.Background(), filepath.Join(tmpDir, "index.ts"))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(files) != 1 || files[0].RelPath != "index.ts" {
		t.Errorf("Expected the file itself, got %+v", files)
	}
}

func TestScanner_Cancelled(t *testing.T) {
	tmpDir := t.TempDir()
	writeFiles(t, tmpDir, map[string]string{"a.js": "x"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewScanner().Scan(ctx, tmpDir); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestFile_Read(t *testing.T) {
	preloaded := File{Path: "does-not-exist.ts", Content: []byte("x")}
	data, err := preloaded.Read()
	if err != nil || string(data) != "x" {
		t.Errorf("Read = %q, %v", data, err)
	}

	missing := File{Path: filepath.Join(t.TempDir(), "missing.ts")}
	if _, err := missing.Read(); err == nil {
		t.Error("Expected error reading missing file")
	}
}
