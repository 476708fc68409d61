package highlight

import (
	"path/filepath"
	"slices"
	"strings"
)

// Language holds the word lists used to classify identifiers.
type Language struct {
	Name       string
	Aliases    []string
	Extensions []string
	keywords   map[string]struct{}
	builtins   map[string]struct{}
}

// NewLanguage creates a Language from keyword and builtin word lists.
func NewLanguage(name string, aliases, extensions, keywords, builtins []string) *Language {
	return &Language{
		Name:       name,
		Aliases:    aliases,
		Extensions: extensions,
		keywords:   wordSet(keywords),
		builtins:   wordSet(builtins),
	}
}

func wordSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Classify returns the kind for a complete identifier: Keyword, Builtin or Plain.
func (l *Language) Classify(word string) Kind {
	if _, ok := l.keywords[word]; ok {
		return Keyword
	}
	if _, ok := l.builtins[word]; ok {
		return Builtin
	}
	return Plain
}

// JavaScript covers JavaScript, TypeScript and JSX files.
var JavaScript = NewLanguage(
	"javascript",
	[]string{"js", "jsx", "ts", "tsx", "typescript", "mjs", "cjs"},
	[]string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"},
	[]string{"import", "export", "const", "let", "var", "function", "return", "from", "default"},
	[]string{"useState", "useEffect", "React"},
)

// Go covers Go source files.
var Go = NewLanguage(
	"go",
	[]string{"golang"},
	[]string{".go"},
	[]string{
		"break", "case", "chan", "const", "continue", "default", "defer", "else",
		"fallthrough", "for", "func", "go", "goto", "if", "import", "interface",
		"map", "package", "range", "return", "select", "struct", "switch", "type", "var",
	},
	[]string{
		"append", "cap", "close", "copy", "delete", "len", "make", "new", "panic",
		"recover", "nil", "true", "false", "iota", "error", "string", "int", "bool", "any",
	},
)

// Default is used when no language can be determined.
var Default = JavaScript

var languages = []*Language{JavaScript, Go}

// Lookup resolves a language by name or alias, ignoring case.
func Lookup(name string) (*Language, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, false
	}

	for _, lang := range languages {
		if lang.Name == name || slices.Contains(lang.Aliases, name) {
			return lang, true
		}
	}

	return nil, false
}

// LanguageFor picks a language from a file name's extension, falling back to Default.
func LanguageFor(filename string) *Language {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return Default
	}

	for _, lang := range languages {
		if slices.Contains(lang.Extensions, ext) {
			return lang
		}
	}

	return Default
}
