// Package highlight classifies single lines of source code into tokens and
// renders them as HTML fragments with marker spans.
//
// Each line is scanned once, left to right. Every byte belongs to exactly one
// token, so a category can never match markup produced for another one, and
// text is escaped per token before any markup is added.
package highlight

// Kind is the syntax category of a token.
type Kind int

const (
	Plain       Kind = iota // unclassified text
	Keyword                 // language keyword, matched as a whole identifier
	Punctuation             // brackets, semicolons, commas and "=>"
	Builtin                 // well-known identifier such as useState or nil
	String                  // single- or double-quoted literal on one line
	Number                  // run of decimal digits
	Tag                     // angle-bracket sequence such as <div> or </App>
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Keyword:
		return "keyword"
	case Punctuation:
		return "punctuation"
	case Builtin:
		return "builtin"
	case String:
		return "string"
	case Number:
		return "number"
	case Tag:
		return "tag"
	default:
		return "unknown"
	}
}

// Token is a classified span of a single line.
type Token struct {
	Kind Kind
	Text string
}
