package syntax

import (
	"fmt"
	"path/filepath"
	"strings"
	"unsafe"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// Language identifies a tree-sitter grammar
type Language string

const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageTSX        Language = "tsx"
	LanguageGo         Language = "go"
	LanguagePython     Language = "python"
	LanguageRust       Language = "rust"
	LanguageJava       Language = "java"
	LanguageUnknown    Language = "unknown"
)

// IsJavaScriptFamily reports whether hardcoded-value detection applies to lang.
// JSX is part of the javascript grammar.
func (l Language) IsJavaScriptFamily() bool {
	switch l {
	case LanguageJavaScript, LanguageTypeScript, LanguageTSX:
		return true
	}
	return false
}

// LanguageFor determines the language from a file extension
func LanguageFor(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript
	case ".tsx":
		return LanguageTSX
	case ".go":
		return LanguageGo
	case ".py":
		return LanguagePython
	case ".rs":
		return LanguageRust
	case ".java":
		return LanguageJava
	default:
		return LanguageUnknown
	}
}

var grammars = map[Language]func() unsafe.Pointer{
	LanguageJavaScript: tree_sitter_javascript.Language,
	LanguageTypeScript: tree_sitter_typescript.LanguageTypescript,
	LanguageTSX:        tree_sitter_typescript.LanguageTSX,
	LanguageGo:         tree_sitter_go.Language,
	LanguagePython:     tree_sitter_python.Language,
	LanguageRust:       tree_sitter_rust.Language,
	LanguageJava:       tree_sitter_java.Language,
}

// loadLanguage loads the tree-sitter grammar for the given language
func loadLanguage(lang Language) (*sitter.Language, error) {
	load, ok := grammars[lang]
	if !ok {
		return nil, fmt.Errorf("unsupported language: %s", lang)
	}
	ptr := load()
	if ptr == nil {
		return nil, fmt.Errorf("failed to load %s language grammar", lang)
	}
	return sitter.NewLanguage(ptr), nil
}
