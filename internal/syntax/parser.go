package syntax

import (
	"fmt"
	"sync"

	"github.com/jenian/envsensei/internal/logging"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Parser handles tree-sitter parsing of source documents. Grammars are
// loaded once and shared; a fresh sitter.Parser is created for every parse
// since tree-sitter parsers must not be used concurrently.
type Parser struct {
	languages map[Language]*sitter.Language
	mu        sync.RWMutex
}

// NewParser creates a new parser instance
func NewParser() *Parser {
	return &Parser{
		languages: make(map[Language]*sitter.Language),
	}
}

// getLanguage returns a language grammar for the given language, loading it if needed
func (p *Parser) getLanguage(lang Language) (*sitter.Language, error) {
	p.mu.RLock()
	if language, ok := p.languages[lang]; ok {
		p.mu.RUnlock()
		return language, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double-check after acquiring write lock
	if language, ok := p.languages[lang]; ok {
		return language, nil
	}

	language, err := loadLanguage(lang)
	if err != nil {
		return nil, fmt.Errorf("failed to load language %s: %w", lang, err)
	}

	p.languages[lang] = language
	return language, nil
}

// Parse parses source using the grammar selected by the extension of path.
func (p *Parser) Parse(path string, source []byte) (*Document, error) {
	return p.ParseLanguage(LanguageFor(path), path, source)
}

// ParseLanguage parses source with an explicit grammar. Syntax errors do not
// fail the parse; tree-sitter yields a best-effort tree with ERROR nodes.
func (p *Parser) ParseLanguage(lang Language, path string, source []byte) (*Document, error) {
	language, err := p.getLanguage(lang)
	if err != nil {
		return nil, err
	}

	tsParser := sitter.NewParser()
	defer tsParser.Close()
	if err := tsParser.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language %s: %w", lang, err)
	}

	tree := tsParser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("parse returned no tree for %s", path)
	}

	doc := &Document{
		Path:     path,
		Language: lang,
		Source:   source,
		Tree:     tree,
	}
	if root := doc.Root(); root != nil && root.HasError() {
		logging.Logger.Debugf("syntax errors in %s, continuing with partial tree", path)
	}
	return doc, nil
}

// Document is one parsed source file
type Document struct {
	Path     string
	Language Language
	Source   []byte
	Tree     *sitter.Tree
}

// Root returns the root node, or nil for an empty document
func (d *Document) Root() *sitter.Node {
	if d == nil || d.Tree == nil {
		return nil
	}
	return d.Tree.RootNode()
}

// Text returns the source text covered by n
func (d *Document) Text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Utf8Text(d.Source)
}

// Close releases the underlying tree
func (d *Document) Close() {
	if d != nil && d.Tree != nil {
		d.Tree.Close()
		d.Tree = nil
	}
}
