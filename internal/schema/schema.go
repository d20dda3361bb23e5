// Package schema registers environment variables in a Zod schema file.
package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/jenian/envsensei/internal/detect"
)

// closingPattern matches the `})` or `});` that ends a z.object({...}) call
var closingPattern = regexp.MustCompile(`(?m)\}\s*\)\s*;?\s*$`)

// ZodType returns the validator used for a new variable of the given category
func ZodType(category detect.Category) string {
	if category == detect.CategorySecret {
		return "z.string().min(1)"
	}
	return "z.string().optional()"
}

// Minimal returns a new schema file declaring only name
func Minimal(name string, category detect.Category) string {
	return fmt.Sprintf(`import { z } from 'zod';

export const envSchema = z.object({
  %s: %s,
});

export type Env = z.infer<typeof envSchema>;
`, name, ZodType(category))
}

// Insert returns content with name added before the last closing `})`.
// When the schema has no recognizable closing it appends the field as a
// comment for the user to place. It returns false when name already occurs.
func Insert(content, name string, category detect.Category) (string, bool) {
	if regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`).MatchString(content) {
		return content, false
	}

	field := fmt.Sprintf("  %s: %s,", name, ZodType(category))
	matches := closingPattern.FindAllStringIndex(content, -1)
	if len(matches) == 0 {
		return content + fmt.Sprintf("\n// Add %s to your schema\n// %s: %s\n", name, name, ZodType(category)), true
	}

	at := matches[len(matches)-1][0]
	return content[:at] + field + "\n" + content[at:], true
}

// Add registers name in the schema file at path, creating the file when missing.
// It returns false when the schema already mentions name.
func Add(path, name string, category detect.Category) (bool, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return false, fmt.Errorf("failed to create schema directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(Minimal(name, category)), 0644); err != nil {
			return false, fmt.Errorf("failed to write schema %s: %w", path, err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read schema %s: %w", path, err)
	}

	updated, ok := Insert(string(content), name, category)
	if !ok {
		return false, nil
	}
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		return false, fmt.Errorf("failed to write schema %s: %w", path, err)
	}
	return true, nil
}
