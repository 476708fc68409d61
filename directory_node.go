package codepane

import (
	"slices"
	"strings"
)

// DirectoryNode groups snippets by directory for the index page.
type DirectoryNode struct {
	Name        string
	Path        string
	Snippets    []SnippetInfo
	Directories map[string]*DirectoryNode
}

func newDirectoryNode(name, p string) *DirectoryNode {
	return &DirectoryNode{
		Name:        name,
		Path:        p,
		Directories: make(map[string]*DirectoryNode),
	}
}

// BuildTree arranges snippets into a directory tree. Snippets keep their input order
// within each directory.
func BuildTree(snippets []SnippetInfo) *DirectoryNode {
	root := newDirectoryNode("", "")

	for _, s := range snippets {
		node := root
		if s.Directory != "" {
			for _, part := range strings.Split(s.Directory, "/") {
				child, ok := node.Directories[part]
				if !ok {
					childPath := part
					if node.Path != "" {
						childPath = node.Path + "/" + part
					}
					child = newDirectoryNode(part, childPath)
					node.Directories[part] = child
				}
				node = child
			}
		}
		node.Snippets = append(node.Snippets, s)
	}

	return root
}

// IsEmpty returns true if the node has no snippets or subdirectories.
func (dn *DirectoryNode) IsEmpty() bool {
	return len(dn.Snippets) == 0 && len(dn.Directories) == 0
}

// SortedDirectories returns the child directories ordered by name.
func (dn *DirectoryNode) SortedDirectories() []*DirectoryNode {
	dirs := make([]*DirectoryNode, 0, len(dn.Directories))
	for _, d := range dn.Directories {
		dirs = append(dirs, d)
	}
	slices.SortFunc(dirs, func(a, b *DirectoryNode) int {
		return strings.Compare(a.Name, b.Name)
	})
	return dirs
}

// FindDirectory returns the node at a slash-separated path, or nil.
func (dn *DirectoryNode) FindDirectory(p string) *DirectoryNode {
	if p == "" {
		return dn
	}

	node := dn
	for _, part := range strings.Split(p, "/") {
		child, ok := node.Directories[part]
		if !ok {
			return nil
		}
		node = child
	}
	return node
}
