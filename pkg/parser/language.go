package parser

import (
	"path/filepath"
	"strings"
)

// Language selects a tree-sitter grammar.
type Language int

const (
	// LanguageTypeScript covers .ts, .mts, .cts and (with TSX enabled) .tsx.
	LanguageTypeScript Language = iota
	// LanguageJavaScript is the catch-all grammar. The JS grammar parses
	// JSX natively, so any non-TypeScript extension lands here.
	LanguageJavaScript
)

// String returns the grammar name.
func (l Language) String() string {
	if l == LanguageTypeScript {
		return "typescript"
	}
	return "javascript"
}

// DetectLanguage picks the grammar for a file path. TypeScript extensions
// get the TypeScript grammar; every other extension parses as JavaScript
// with JSX enabled.
func DetectLanguage(filePath string) Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".ts", ".tsx", ".mts", ".cts":
		return LanguageTypeScript
	default:
		return LanguageJavaScript
	}
}

// IsTSXFile reports whether filePath needs the TSX grammar variant
// (TypeScript grammar with JSX support).
func IsTSXFile(filePath string) bool {
	return strings.ToLower(filepath.Ext(filePath)) == ".tsx"
}
