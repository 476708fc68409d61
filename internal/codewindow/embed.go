package codewindow

import (
	"embed"
	"io/fs"
)

func mustRead(name string) string {
	content, err := assetsFS.ReadFile(name)
	if err != nil {
		panic(err)
	}
	return string(content)
}

func mustSub(fsys embed.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
