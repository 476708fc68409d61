// Package pages holds the stateless page components.
package pages

import (
	"context"
	_ "embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed notfound.html
var notFoundHTML string

var notFoundTemplate = template.Must(template.New("notfound.html").Parse(notFoundHTML))

const (
	// NotFoundTitle is the card heading, also used as the page title.
	NotFoundTitle = "404 Page Not Found"
	// NotFoundMessage is the line shown below the heading.
	NotFoundMessage = "Did you forget to add the page to the router?"
)

// NotFound renders the 404 card. It takes no input and always renders the same content.
func NotFound() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return notFoundTemplate.ExecuteTemplate(w, "notfound", struct {
			Heading string
			Message string
		}{
			Heading: NotFoundTitle,
			Message: NotFoundMessage,
		})
	})
}
