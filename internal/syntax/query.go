package syntax

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Match holds the nodes captured by one query match, keyed by capture name
type Match map[string]*sitter.Node

// Query runs a tree-sitter query over doc and returns its matches in the
// order the cursor yields them. Predicates are not evaluated; callers filter
// captured text in Go.
func (p *Parser) Query(doc *Document, source string) ([]Match, error) {
	root := doc.Root()
	if root == nil {
		return nil, nil
	}

	language, err := p.getLanguage(doc.Language)
	if err != nil {
		return nil, err
	}

	queryStr := strings.TrimSpace(source)
	if queryStr == "" {
		return nil, fmt.Errorf("empty query for language: %s", doc.Language)
	}
	query, queryErr := sitter.NewQuery(language, queryStr)
	if queryErr != nil {
		return nil, fmt.Errorf("invalid query for %s: %s", doc.Language, queryErr.Error())
	}
	defer query.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	captureNames := query.CaptureNames()
	var out []Match

	matches := cursor.Matches(query, root, doc.Source)
	for match := matches.Next(); match != nil; match = matches.Next() {
		m := make(Match, len(match.Captures))
		for _, capture := range match.Captures {
			if int(capture.Index) >= len(captureNames) {
				continue
			}
			node := capture.Node
			m[captureNames[capture.Index]] = &node
		}
		out = append(out, m)
	}
	return out, nil
}

// Text returns the source text of the named capture, or "" when absent
func (m Match) Text(doc *Document, name string) string {
	return doc.Text(m[name])
}
