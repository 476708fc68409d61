package highlight

import (
	"html"
	"strings"
)

// Classes maps token kinds to the CSS class of their marker span. Kinds
// without a class are written as escaped text only.
type Classes map[Kind]string

// DefaultClasses are the marker classes styled by the code window stylesheet.
var DefaultClasses = Classes{
	Keyword:     "text-purple-400",
	Punctuation: "text-github-text",
	Builtin:     "text-blue-400",
	String:      "text-green-300",
	Number:      "text-orange-400",
	Tag:         "text-blue-300",
}

// Markup renders tokens as an HTML fragment. Token text is escaped before it
// is wrapped, so the result is safe to inject whatever the input contained.
func Markup(tokens []Token, classes Classes) string {
	var b strings.Builder
	for _, tok := range tokens {
		text := html.EscapeString(tok.Text)
		class := classes[tok.Kind]
		if tok.Kind == Plain || class == "" {
			b.WriteString(text)
			continue
		}

		b.WriteString(`<span class="`)
		b.WriteString(html.EscapeString(class))
		b.WriteString(`">`)
		b.WriteString(text)
		b.WriteString(`</span>`)
	}
	return b.String()
}

// Highlighter renders lines for one language and class set.
type Highlighter struct {
	lang    *Language
	classes Classes
}

// New creates a Highlighter. Nil arguments select Default and DefaultClasses.
func New(lang *Language, classes Classes) *Highlighter {
	if lang == nil {
		lang = Default
	}
	if classes == nil {
		classes = DefaultClasses
	}
	return &Highlighter{lang: lang, classes: classes}
}

// Language returns the language used to classify identifiers.
func (h *Highlighter) Language() *Language {
	return h.lang
}

// Line returns the highlighted HTML fragment for a single line.
func (h *Highlighter) Line(line string) string {
	return Markup(Tokenize(line, h.lang), h.classes)
}

// Line highlights a single line with the default language and classes.
func Line(line string) string {
	return Markup(Tokenize(line, Default), DefaultClasses)
}
