package highlight_test

import (
	"html"
	"regexp"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/patrickward/codepane/internal/highlight"
)

var markerSpan = regexp.MustCompile(`<span class="[^"]*">|</span>`)

// stripMarkup removes marker spans and decodes entities.
func stripMarkup(fragment string) string {
	return html.UnescapeString(markerSpan.ReplaceAllString(fragment, ""))
}

// plainSentence reports whether every word of s highlights as plain text.
func plainSentence(s string) bool {
	for _, word := range strings.Fields(s) {
		if highlight.Default.Classify(word) != highlight.Plain {
			return false
		}
	}
	return true
}

func TestHighlightProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	properties.Property("removing markup returns the input", prop.ForAll(
		func(line string) bool {
			return stripMarkup(highlight.Line(line)) == line
		},
		gen.AnyString(),
	))

	properties.Property("tokens concatenate to the input", prop.ForAll(
		func(line string) bool {
			var b strings.Builder
			for _, tok := range highlight.Tokenize(line, nil) {
				b.WriteString(tok.Text)
			}
			return b.String() == line
		},
		gen.AnyString(),
	))

	properties.Property("lines without triggers are unchanged", prop.ForAll(
		func(words []string) bool {
			line := strings.Join(words, " ")
			return highlight.Line(line) == line
		},
		gen.SliceOf(gen.AlphaString()).SuchThat(func(words []string) bool {
			return plainSentence(strings.Join(words, " "))
		}),
	))

	properties.Property("every non-plain token is wrapped exactly once", prop.ForAll(
		func(line string) bool {
			wrapped := 0
			for _, tok := range highlight.Tokenize(line, nil) {
				if tok.Kind != highlight.Plain {
					wrapped++
				}
			}
			return strings.Count(highlight.Line(line), "</span>") == wrapped
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
