package naming

import (
	"strings"
	"unicode"
)

// ToEnvVarName converts an identifier in any casing to UPPER_SNAKE_CASE.
// jwtSecret → JWT_SECRET, HTMLParser → HTML_PARSER, X-Api-Key → X_API_KEY.
//
// When prefix is non-empty it is normalized to [A-Z0-9_], given exactly one
// trailing underscore and prepended unless the name already starts with it,
// so applying the same prefix twice is a no-op.
func ToEnvVarName(identifier string, prefix string) string {
	result := splitWords(identifier)
	if result == "" {
		return ""
	}

	if prefix == "" {
		return result
	}
	normalized := normalizePrefix(prefix)
	if normalized == "" {
		return result
	}
	if !strings.HasPrefix(result, normalized) {
		result = normalized + result
	}
	return result
}

// PatternEnvVarName derives a variable name from a human readable pattern
// name, e.g. "Hardcoded URL" → HARDCODED_URL.
func PatternEnvVarName(patternName string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToUpper(patternName) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// splitWords inserts separators at camelCase and acronym boundaries, turns
// every other non-alphanumeric character into a separator, uppercases, then
// collapses and trims separators. Boundaries only exist in identifiers that
// contain lowercase letters; an all-caps name is already split.
func splitWords(identifier string) string {
	src := []rune(identifier)
	mixed := false
	for _, r := range src {
		if isLower(r) {
			mixed = true
			break
		}
	}

	out := make([]rune, 0, len(src)+4)
	for i, r := range src {
		if !isAlnum(r) {
			out = append(out, '_')
			continue
		}
		if mixed && i > 0 && isUpper(r) {
			prev := src[i-1]
			switch {
			case isLower(prev) || isDigit(prev):
				// jwtSecret → jwt_Secret
				out = append(out, '_')
			case isUpper(prev) && i+1 < len(src) && isLower(src[i+1]):
				// HTMLParser → HTML_Parser
				out = append(out, '_')
			}
		}
		out = append(out, r)
	}

	upper := strings.ToUpper(string(out))
	return collapse(upper)
}

func normalizePrefix(prefix string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(prefix) {
		if (r >= 'A' && r <= 'Z') || isDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	p := strings.TrimRight(b.String(), "_")
	if p == "" {
		return ""
	}
	return p + "_"
}

// collapse squeezes runs of '_' and trims them from both ends.
func collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSep := true
	for _, r := range s {
		if r == '_' {
			if lastSep {
				continue
			}
			lastSep = true
		} else {
			lastSep = false
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), "_")
}

func isLower(r rune) bool { return r >= 'a' && r <= 'z' }
func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isAlnum(r rune) bool {
	if r < 0x80 {
		return isLower(r) || isUpper(r) || isDigit(r)
	}
	// Non-ASCII letters are kept and only uppercased.
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
