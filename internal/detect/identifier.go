package detect

import (
	"github.com/jenian/envsensei/internal/syntax"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// maxIdentifierDepth bounds the ancestor walk; fallback chains deeper than
// this are not worth attributing.
const maxIdentifierDepth = 32

// GoverningIdentifier returns the name a literal is attached to: the declared
// variable, object key, assignment target or parameter. Fallback operators
// (??, ||, &&) are walked through, so `const port = env.PORT ?? "3000"`
// resolves to "port". Any other enclosing shape ends the walk with no name.
func GoverningIdentifier(doc *syntax.Document, node *sitter.Node) (string, bool) {
	current := node
	for depth := 0; current != nil && depth < maxIdentifierDepth; depth++ {
		parent := current.Parent()
		if parent == nil {
			return "", false
		}

		switch parent.Kind() {
		case "variable_declarator":
			name := parent.ChildByFieldName("name")
			if name != nil && name.Kind() == "identifier" {
				return doc.Text(name), true
			}
			return "", false

		case "pair":
			return pairKey(doc, parent)

		case "assignment_expression":
			return assignmentTarget(doc, parent.ChildByFieldName("left"))

		case "binary_expression":
			if !isFallbackOperator(parent) {
				return "", false
			}
			current = parent
			continue

		case "assignment_pattern":
			// JS parameter default: function f(name = "value")
			if !isFormalParameter(parent) || !sameNode(parent.ChildByFieldName("right"), current) {
				return "", false
			}
			left := parent.ChildByFieldName("left")
			if left != nil && left.Kind() == "identifier" {
				return doc.Text(left), true
			}
			return "", false

		case "required_parameter", "optional_parameter":
			// TS parameter default
			if !sameNode(parent.ChildByFieldName("value"), current) {
				return "", false
			}
			pattern := parent.ChildByFieldName("pattern")
			if pattern != nil && pattern.Kind() == "identifier" {
				return doc.Text(pattern), true
			}
			return "", false

		default:
			return "", false
		}
	}
	return "", false
}

// pairKey returns the key of an object pair: a bare name or a string key.
// Computed keys have no usable name.
func pairKey(doc *syntax.Document, pair *sitter.Node) (string, bool) {
	key := pair.ChildByFieldName("key")
	if key == nil {
		return "", false
	}
	switch key.Kind() {
	case "property_identifier", "identifier", "shorthand_property_identifier":
		return doc.Text(key), true
	case syntax.KindString:
		if name := syntax.StringValue(doc.Source, key); name != "" {
			return name, true
		}
	}
	return "", false
}

// assignmentTarget handles `name = ...` and `obj.prop = ...`
func assignmentTarget(doc *syntax.Document, left *sitter.Node) (string, bool) {
	if left == nil {
		return "", false
	}
	switch left.Kind() {
	case "identifier":
		return doc.Text(left), true
	case "member_expression":
		prop := left.ChildByFieldName("property")
		if prop != nil && (prop.Kind() == "property_identifier" || prop.Kind() == "private_property_identifier") {
			return doc.Text(prop), true
		}
	}
	return "", false
}

func isFallbackOperator(binary *sitter.Node) bool {
	op := binary.ChildByFieldName("operator")
	if op == nil {
		return false
	}
	switch op.Kind() {
	case "??", "||", "&&":
		return true
	}
	return false
}

func isFormalParameter(n *sitter.Node) bool {
	parent := n.Parent()
	return parent != nil && parent.Kind() == "formal_parameters"
}

// isPairKey reports whether n is the key half of an object pair
func isPairKey(n *sitter.Node) bool {
	parent := n.Parent()
	if parent == nil || parent.Kind() != "pair" {
		return false
	}
	return sameNode(parent.ChildByFieldName("key"), n)
}

// pairValueKey returns the key of the pair whose value is n
func pairValueKey(doc *syntax.Document, n *sitter.Node) (string, bool) {
	parent := n.Parent()
	if parent == nil || parent.Kind() != "pair" || !sameNode(parent.ChildByFieldName("value"), n) {
		return "", false
	}
	return pairKey(doc, parent)
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Kind() == b.Kind()
}
