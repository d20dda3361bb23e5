package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jenian/envsensei/internal/detect"
)

// Placeholder values written for new manifest entries. Real values are never written.
const (
	PlaceholderRequired = "__REQUIRED__"
	PlaceholderSetMe    = "__SET_ME__"
)

// Entry is one KEY=value line of an example env file
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Line  int    `json:"line"` // zero-based
}

// Placeholder returns the value written for a new variable of the given category
func Placeholder(category detect.Category) string {
	if category == detect.CategorySecret {
		return PlaceholderRequired
	}
	return PlaceholderSetMe
}

// Parse reads KEY=value entries. Blank lines, # comments and lines without
// '=' are skipped; key and value are trimmed.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := -1

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}

		entries = append(entries, Entry{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
			Line:  lineNum,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Read parses the manifest at path. A missing file has no entries.
func Read(path string) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	entries, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return entries, nil
}

// Has reports whether entries declare key
func Has(entries []Entry, key string) bool {
	for _, e := range entries {
		if e.Key == key {
			return true
		}
	}
	return false
}

// Append adds NAME=<placeholder> to the manifest at path, creating the file
// if needed. It returns false without writing when the key is already present.
func Append(path, name string, category detect.Category) (bool, error) {
	if strings.TrimSpace(name) == "" {
		return false, errors.New("variable name must not be empty")
	}

	content, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	entries, err := Parse(strings.NewReader(string(content)))
	if err != nil {
		return false, fmt.Errorf("error reading %s: %w", path, err)
	}
	if Has(entries, name) {
		return false, nil
	}

	var b strings.Builder
	b.Write(content)
	if len(content) > 0 && content[len(content)-1] != '\n' {
		b.WriteByte('\n')
	}
	b.WriteString(name + "=" + Placeholder(category) + "\n")

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return false, fmt.Errorf("cannot write manifest %s: %w", path, err)
	}
	return true, nil
}

// FindNearest walks up from the directory of fromFile looking for fileName
func FindNearest(fromFile, fileName string) (string, bool) {
	dir := filepath.Dir(fromFile)
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	for {
		candidate := filepath.Join(dir, fileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
