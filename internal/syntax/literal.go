package syntax

import (
	"html"
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Node kinds shared by the javascript and typescript grammars
const (
	KindString               = "string"
	KindTemplateString       = "template_string"
	KindTemplateSubstitution = "template_substitution"
	KindStringFragment       = "string_fragment"
	KindEscapeSequence       = "escape_sequence"
	KindHTMLCharacterRef     = "html_character_reference"
)

// IsStringLiteral reports whether n is a plain string literal: a quoted
// string or a template string without substitutions.
func IsStringLiteral(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	switch n.Kind() {
	case KindString:
		return true
	case KindTemplateString:
		for i := uint(0); i < n.NamedChildCount(); i++ {
			if c := n.NamedChild(i); c != nil && c.Kind() == KindTemplateSubstitution {
				return false
			}
		}
		return true
	}
	return false
}

// StringValue returns the decoded contents of a string literal node
func StringValue(source []byte, n *sitter.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	parts := 0
	for i := uint(0); i < n.NamedChildCount(); i++ {
		c := n.NamedChild(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case KindStringFragment:
			b.WriteString(c.Utf8Text(source))
			parts++
		case KindEscapeSequence:
			b.WriteString(decodeEscape(c.Utf8Text(source)))
			parts++
		case KindHTMLCharacterRef:
			// JSX attribute strings, e.g. &amp;
			b.WriteString(html.UnescapeString(c.Utf8Text(source)))
			parts++
		}
	}
	if parts > 0 {
		return b.String()
	}
	// Grammars that do not split strings into fragments (JSX attribute
	// strings in older grammars) still carry the quotes in the text.
	return stripQuotes(n.Utf8Text(source))
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'' || first == '`') && last == first {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// decodeEscape decodes one JavaScript escape sequence, e.g. \n, \x41, \u{1F600}.
func decodeEscape(seq string) string {
	if len(seq) < 2 || seq[0] != '\\' {
		return seq
	}
	body := seq[1:]
	switch body[0] {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	case 'v':
		return "\v"
	case '\n', '\r':
		// line continuation
		return ""
	case 'x':
		if v, err := strconv.ParseUint(body[1:], 16, 32); err == nil {
			return string(rune(v))
		}
	case 'u':
		hex := strings.TrimSuffix(strings.TrimPrefix(body[1:], "{"), "}")
		if v, err := strconv.ParseUint(hex, 16, 32); err == nil {
			return string(rune(v))
		}
	case '0', '1', '2', '3', '4', '5', '6', '7':
		if v, err := strconv.ParseUint(body, 8, 32); err == nil {
			return string(rune(v))
		}
	}
	return body
}
