// Package redact is the only path from a raw matched value to anything that
// is displayed, logged or written.
package redact

import (
	"fmt"

	"github.com/jenian/envsensei/internal/syntax"
)

// Redact returns a fixed template carrying only the length of value, in
// UTF-16 code units.
func Redact(value string) string {
	return fmt.Sprintf("[REDACTED: %d chars]", syntax.UTF16Len(value))
}
