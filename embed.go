package codepane

import "embed"

// StaticFS holds the stylesheets and scripts served under /static/.
//
//go:embed static
var StaticFS embed.FS

// TemplateFS holds the page layouts, partials and pages.
//
//go:embed templates
var TemplateFS embed.FS
