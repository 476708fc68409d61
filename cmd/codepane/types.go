package main

import (
	"html/template"

	"github.com/patrickward/codepane"
	"github.com/patrickward/codepane/internal/flash"
	"github.com/patrickward/codepane/internal/rendering"
)

// PageData holds data passed to page templates.
type PageData struct {
	Title          string
	Assets         template.HTML // code-window styles and script, once per page
	Content        template.HTML
	SectionHeaders []string // H2 headings of a Markdown document
	Properties     []rendering.Property
	Current        codepane.SnippetInfo
	Tree           *codepane.DirectoryNode
	Directory      string // index filter
	Form           CreateForm
	Flash          *flash.Message
	ErrorMessage   string
	LiveReload     bool
}

// CreateForm is the paste form on the index page.
type CreateForm struct {
	Filename string
	Code     string
}

// renderRequest is the body of POST /api/render.
type renderRequest struct {
	Filename string `json:"filename"`
	Code     string `json:"code"`
	Language string `json:"language"`
}

// renderResponse is the reply to POST /api/render.
type renderResponse struct {
	HTML     string `json:"html"`
	Lines    int    `json:"lines"`
	Language string `json:"language"`
}

type errorResponse struct {
	Error string `json:"error"`
}
