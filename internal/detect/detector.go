package detect

import (
	"strings"

	"github.com/jenian/envsensei/internal/config"
	"github.com/jenian/envsensei/internal/naming"
	"github.com/jenian/envsensei/internal/syntax"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Detector runs every heuristic over a document. It is built from one config
// snapshot and never changes afterwards; build a new one when settings change.
// A Detector is safe for concurrent Analyze calls on different documents.
type Detector struct {
	heuristics   []Heuristic
	prefix       string
	ignoredWords []string
}

// New creates a detector for the prefix and ignore words of cfg
func New(cfg config.Config) *Detector {
	words := make([]string, 0, len(cfg.IgnoredWords))
	for _, w := range cfg.IgnoredWords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			words = append(words, w)
		}
	}
	return &Detector{
		heuristics:   Heuristics(),
		prefix:       cfg.EnvVarPrefix,
		ignoredWords: words,
	}
}

// Analyze walks the document once in pre-order and returns its detections in
// document order. Each source range is reported at most once; the first
// heuristic to claim it, in priority order, wins. Ignored candidates are
// dropped before they can claim a range.
func (d *Detector) Analyze(doc *syntax.Document) []Detection {
	detections := []Detection{}
	root := doc.Root()
	if root == nil {
		return detections
	}

	claimed := make(map[string]bool)
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		for _, h := range d.heuristics {
			for _, det := range h.Detect(doc, n) {
				key := det.Range.Key()
				if claimed[key] || d.ignored(det) {
					continue
				}
				claimed[key] = true
				if d.prefix != "" {
					det.ProposedEnvVarName = naming.ToEnvVarName(det.ProposedEnvVarName, d.prefix)
				}
				detections = append(detections, det)
			}
		}
		for i := uint(0); i < n.NamedChildCount(); i++ {
			if child := n.NamedChild(i); child != nil {
				visit(child)
			}
		}
	}
	visit(root)
	return detections
}

// ignored reports whether any ignore word occurs in the hint, the proposed
// name or the value, case-insensitively.
func (d *Detector) ignored(det Detection) bool {
	if len(d.ignoredWords) == 0 {
		return false
	}
	fields := []string{
		strings.ToLower(det.IdentifierHint),
		strings.ToLower(det.ProposedEnvVarName),
		strings.ToLower(det.rawValue),
	}
	for _, w := range d.ignoredWords {
		for _, f := range fields {
			if strings.Contains(f, w) {
				return true
			}
		}
	}
	return false
}
