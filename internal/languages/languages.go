// Package languages finds static reads of environment variables, such as
// process.env.API_KEY or os.Getenv("API_KEY"), in every supported language.
package languages

import (
	"sort"
	"strconv"
	"strings"

	"github.com/jenian/envsensei/internal/syntax"
)

// Read is a static environment variable read found in source
type Read struct {
	Name  string
	Range syntax.Range // the whole read expression
}

// readQuery pairs a tree-sitter query with the Go-side filter for its
// captures. Every pattern captures @key (the name) and @expr (the read).
type readQuery struct {
	query  string
	accept func(doc *syntax.Document, m syntax.Match) bool
	name   func(doc *syntax.Document, m syntax.Match) string
}

var queries = map[syntax.Language]readQuery{
	syntax.LanguageJavaScript: jsReads,
	syntax.LanguageTypeScript: jsReads,
	syntax.LanguageTSX:        jsReads,
	syntax.LanguageGo:         goReads,
	syntax.LanguagePython:     pythonReads,
	syntax.LanguageRust:       rustReads,
	syntax.LanguageJava:       javaReads,
}

// Supported reports whether env reads can be extracted from lang
func Supported(lang syntax.Language) bool {
	_, ok := queries[lang]
	return ok
}

// FindReads returns the env var reads in doc, ordered by position
func FindReads(p *syntax.Parser, doc *syntax.Document) ([]Read, error) {
	rq, ok := queries[doc.Language]
	if !ok {
		return nil, nil
	}

	matches, err := p.Query(doc, rq.query)
	if err != nil {
		return nil, err
	}

	type found struct {
		read  Read
		start uint
	}
	var reads []found
	seen := make(map[string]bool)
	for _, m := range matches {
		expr := m["expr"]
		if expr == nil || m["key"] == nil || !rq.accept(doc, m) {
			continue
		}
		name := rq.name(doc, m)
		if name == "" {
			continue
		}
		r := Read{Name: name, Range: doc.RangeOf(expr)}
		// alternations may match the same expression twice
		if key := name + "@" + r.Range.Key(); !seen[key] {
			seen[key] = true
			reads = append(reads, found{read: r, start: expr.StartByte()})
		}
	}

	sort.SliceStable(reads, func(i, j int) bool { return reads[i].start < reads[j].start })
	out := make([]Read, len(reads))
	for i, f := range reads {
		out[i] = f.read
	}
	return out, nil
}

// trimQuotes removes surrounding quotes from a string
func trimQuotes(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'' || first == '`') && last == first {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// unquote decodes a double-quoted or raw string literal, falling back to
// stripping the quotes
func unquote(s string) string {
	if v, err := strconv.Unquote(s); err == nil {
		return v
	}
	return trimQuotes(s)
}
