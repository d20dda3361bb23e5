package detect

import (
	"fmt"
	"strings"

	"github.com/jenian/envsensei/internal/naming"
	"github.com/jenian/envsensei/internal/redact"
	"github.com/jenian/envsensei/internal/syntax"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Heuristic inspects a single node and returns the findings for that node only.
// Implementations must be pure: same document and node, same result.
type Heuristic interface {
	Detect(doc *syntax.Document, node *sitter.Node) []Detection
}

// Heuristics returns the detectors in priority order. The order decides which
// heuristic claims a literal that several of them match.
func Heuristics() []Heuristic {
	return []Heuristic{
		KeyBased{},
		HeaderBased{},
		PatternBased{},
		ConfigBased{},
	}
}

// literal is a candidate string literal with its decoded value
type literal struct {
	node  *sitter.Node
	value string
}

// candidate returns the literal at node when it is a string value (not an
// object key) of at least minLen characters.
func candidate(doc *syntax.Document, node *sitter.Node, minLen int) (literal, bool) {
	if doc == nil || !syntax.IsStringLiteral(node) || isPairKey(node) {
		return literal{}, false
	}
	value := syntax.StringValue(doc.Source, node)
	if syntax.UTF16Len(value) < minLen {
		return literal{}, false
	}
	return literal{node: node, value: value}, true
}

func newDetection(doc *syntax.Document, lit literal, category Category, source Source, name, hint, message string) Detection {
	parent := lit.node.Parent()
	return Detection{
		Range:              doc.RangeOf(lit.node),
		Span:               syntax.SpanOf(lit.node),
		Message:            message,
		Category:           category,
		Source:             source,
		ProposedEnvVarName: name,
		IdentifierHint:     hint,
		ValueLength:        syntax.UTF16Len(lit.value),
		JSXAttribute:       parent != nil && parent.Kind() == "jsx_attribute",
		rawValue:           lit.value,
	}
}

// quoted renders a name for a message, or nothing when the name spells out
// the value, as in `const password = "password"`.
func quoted(prefix, name, value string) string {
	if strings.Contains(strings.ToLower(name), strings.ToLower(value)) {
		return ""
	}
	return fmt.Sprintf("%s %q", prefix, name)
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// KeyBased flags literals whose governing identifier names a credential,
// e.g. `const jwtSecret = "..."`.
type KeyBased struct{}

func (KeyBased) Detect(doc *syntax.Document, node *sitter.Node) []Detection {
	lit, ok := candidate(doc, node, 2)
	if !ok {
		return nil
	}
	id, ok := GoverningIdentifier(doc, node)
	if !ok || !containsAny(strings.ToLower(id), secretKeyPatterns) {
		return nil
	}
	msg := fmt.Sprintf("Possible hardcoded secret%s %s. Consider using an environment variable.", quoted(" in", id, lit.value), redact.Redact(lit.value))
	return []Detection{newDetection(doc, lit, CategorySecret, SourceKeyBased, naming.ToEnvVarName(id, ""), id, msg)}
}

// HeaderBased flags values of object pairs keyed by a sensitive HTTP header
type HeaderBased struct{}

func (HeaderBased) Detect(doc *syntax.Document, node *sitter.Node) []Detection {
	lit, ok := candidate(doc, node, 2)
	if !ok {
		return nil
	}
	header, ok := pairValueKey(doc, node)
	if !ok || !sensitiveHeaders[strings.ToLower(header)] {
		return nil
	}
	msg := fmt.Sprintf("Hardcoded value in sensitive header%s %s. Consider using an environment variable.", quoted("", header, lit.value), redact.Redact(lit.value))
	return []Detection{newDetection(doc, lit, CategorySecret, SourceHeaderBased, naming.ToEnvVarName(header, ""), header, msg)}
}

// PatternBased flags values shaped like keys, tokens or remote URLs,
// regardless of the name they are assigned to. At most one pattern is
// reported per literal.
type PatternBased struct{}

func (PatternBased) Detect(doc *syntax.Document, node *sitter.Node) []Detection {
	lit, ok := candidate(doc, node, 5)
	if !ok {
		return nil
	}
	for _, p := range valuePatterns {
		if !p.match(lit.value) {
			continue
		}
		name, hint := naming.PatternEnvVarName(p.Name), p.Name
		if id, ok := GoverningIdentifier(doc, node); ok {
			if n := naming.ToEnvVarName(id, ""); n != "" {
				name = n
			}
			hint = id
		}
		msg := fmt.Sprintf("Possible %s detected %s. Consider using an environment variable.", p.Name, redact.Redact(lit.value))
		return []Detection{newDetection(doc, lit, p.Category, SourcePatternBased, name, hint, msg)}
	}
	return nil
}

// ConfigBased flags literals whose governing identifier names deployment
// configuration, e.g. `const baseUrl = "..."`.
type ConfigBased struct{}

func (ConfigBased) Detect(doc *syntax.Document, node *sitter.Node) []Detection {
	lit, ok := candidate(doc, node, 2)
	if !ok {
		return nil
	}
	id, ok := GoverningIdentifier(doc, node)
	if !ok || !containsAny(strings.ToLower(id), configKeyPatterns) {
		return nil
	}
	msg := fmt.Sprintf("Hardcoded config value%s %s. Consider using an environment variable.", quoted(" in", id, lit.value), redact.Redact(lit.value))
	return []Detection{newDetection(doc, lit, CategoryConfig, SourceConfigBased, naming.ToEnvVarName(id, ""), id, msg)}
}
