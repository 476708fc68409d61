package codepane

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TitleCase returns s in English title case.
func TitleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// normalizeLineEndings converts CRLF and lone CR line endings to LF.
func normalizeLineEndings(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}

// DisplayTitle turns a file name such as "use-counter.hook.js" into "Use Counter Hook".
func DisplayTitle(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(base)
	return TitleCase(strings.Join(strings.Fields(base), " "))
}

// filenameIsValid checks that a snippet name only uses letters, numbers,
// dashes, periods, underscores and forward slashes, and stays relative.
func filenameIsValid(name string) bool {
	if name == "" || strings.HasPrefix(name, "/") || strings.HasSuffix(name, "/") {
		return false
	}

	for _, r := range name {
		if !((r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') ||
			r == '-' || r == '.' || r == '_' || r == '/') {
			return false
		}
	}

	for _, part := range strings.Split(name, "/") {
		if part == "" || part == "." || part == ".." || strings.HasPrefix(part, ".") {
			return false
		}
	}

	return true
}
