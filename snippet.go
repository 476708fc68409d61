package codepane

import (
	"path"
	"strings"
	"time"
)

// SnippetKind says how a snippet is presented.
type SnippetKind string

const (
	KindCode     SnippetKind = "code"
	KindMarkdown SnippetKind = "markdown"
)

// SnippetInfo describes a snippet file in the data directory.
type SnippetInfo struct {
	ID        string      // path without the .age suffix, used in URLs
	Path      string      // slash-separated path relative to the data directory
	Label     string      // file name shown in the code-window header
	Title     string      // display title derived from the file name
	Kind      SnippetKind // code or markdown
	Encrypted bool        // stored in age format
	Directory string      // parent directory, "" at the root
	ModTime   time.Time
	Size      int64
}

// IsEmpty reports whether info is the zero value.
func (s SnippetInfo) IsEmpty() bool {
	return s.ID == ""
}

// IsMarkdown reports whether the snippet is rendered as a document.
func (s SnippetInfo) IsMarkdown() bool {
	return s.Kind == KindMarkdown
}

// Breadcrumb is one segment of a snippet path.
type Breadcrumb struct {
	Path   string
	Name   string
	IsLast bool
}

// Breadcrumbs returns the directory segments of the snippet followed by its label.
// Directory segments link to the filtered index, the last one to the snippet.
func (s SnippetInfo) Breadcrumbs() []Breadcrumb {
	parts := strings.Split(s.ID, "/")
	crumbs := make([]Breadcrumb, 0, len(parts))
	for i, part := range parts {
		joined := strings.Join(parts[:i+1], "/")
		crumb := Breadcrumb{Name: part, Path: "/?dir=" + joined}
		if i == len(parts)-1 {
			crumb.Path = "/s/" + joined
			crumb.IsLast = true
		}
		crumbs = append(crumbs, crumb)
	}
	return crumbs
}

// snippetInfoFromPath builds the metadata for a slash-separated relative path.
func snippetInfoFromPath(p string, size int64, modTime time.Time) SnippetInfo {
	id := strings.TrimSuffix(p, EncryptedSuffix)
	label := path.Base(id)

	kind := KindCode
	if strings.EqualFold(path.Ext(label), ".md") {
		kind = KindMarkdown
	}

	dir := path.Dir(id)
	if dir == "." {
		dir = ""
	}

	return SnippetInfo{
		ID:        id,
		Path:      p,
		Label:     label,
		Title:     DisplayTitle(label),
		Kind:      kind,
		Encrypted: strings.HasSuffix(p, EncryptedSuffix),
		Directory: dir,
		ModTime:   modTime,
		Size:      size,
	}
}

// Snippet is a loaded snippet: metadata plus normalised content.
type Snippet struct {
	Info    SnippetInfo
	Content string
}
