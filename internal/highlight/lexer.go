package highlight

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenize splits a single line into classified tokens. Adjacent plain text is
// merged into one token. Concatenating the token texts returns the line.
func Tokenize(line string, lang *Language) []Token {
	if lang == nil {
		lang = Default
	}

	l := &lexer{src: line, lang: lang, plain: -1}
	l.run()
	return l.tokens
}

type lexer struct {
	src    string
	pos    int
	plain  int // start of the pending plain run, -1 when there is none
	lang   *Language
	tokens []Token
}

func (l *lexer) run() {
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		switch {
		case c == '\'' || c == '"':
			// An unterminated quote is plain text.
			if i := strings.IndexByte(l.src[l.pos+1:], c); i >= 0 {
				l.emit(String, l.pos+i+2)
				continue
			}
		case c == '<':
			if end := l.tagEnd(); end > 0 {
				l.emit(Tag, end)
				continue
			}
		case c == '=' && strings.HasPrefix(l.src[l.pos:], "=>"):
			l.emit(Punctuation, l.pos+2)
			continue
		case isPunctuation(c):
			l.emit(Punctuation, l.pos+1)
			continue
		case isDigit(c):
			l.emit(Number, l.scan(isDigit))
			continue
		case isIdentStart(r):
			end := l.scanIdent()
			l.emit(l.lang.Classify(l.src[l.pos:end]), end)
			continue
		}

		if l.plain < 0 {
			l.plain = l.pos
		}
		l.pos += size
	}

	l.flush()
}

// emit records the span [pos, end) as a token of the given kind.
func (l *lexer) emit(kind Kind, end int) {
	if kind == Plain {
		if l.plain < 0 {
			l.plain = l.pos
		}
		l.pos = end
		return
	}

	l.flush()
	l.tokens = append(l.tokens, Token{Kind: kind, Text: l.src[l.pos:end]})
	l.pos = end
}

// flush closes the pending plain run.
func (l *lexer) flush() {
	if l.plain < 0 {
		return
	}
	l.tokens = append(l.tokens, Token{Kind: Plain, Text: l.src[l.plain:l.pos]})
	l.plain = -1
}

// scan returns the end of the run starting at pos whose bytes satisfy accept.
func (l *lexer) scan(accept func(byte) bool) int {
	end := l.pos + 1
	for end < len(l.src) && accept(l.src[end]) {
		end++
	}
	return end
}

// scanIdent returns the end of the identifier starting at pos. Letters and
// digits from any script continue it, so a keyword never matches inside a
// longer identifier.
func (l *lexer) scanIdent() int {
	end := l.pos
	for end < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[end:])
		if !isIdentPart(r) {
			break
		}
		end += size
	}
	return end
}

// tagEnd returns the end offset of a tag-like sequence starting at pos, or -1.
// A closing tag runs to the first '>'. An opening tag may not contain '/', '&'
// or another '<' before its '>'.
func (l *lexer) tagEnd() int {
	rest := l.src[l.pos+1:]
	if strings.HasPrefix(rest, "/") {
		if i := strings.IndexByte(rest, '>'); i > 0 {
			return l.pos + i + 2
		}
		return -1
	}

	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '>':
			return l.pos + i + 2
		case '/', '&', '<':
			return -1
		}
	}
	return -1
}

func isPunctuation(c byte) bool {
	switch c {
	case '{', '}', '(', ')', '[', ']', ';', ',':
		return true
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
