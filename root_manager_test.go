package codepane_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/patrickward/codepane"
	"github.com/patrickward/codepane/internal/assert"
)

func setupRootManager(t *testing.T) (*codepane.RootManager, string) {
	t.Helper()

	dir := t.TempDir()
	rm, err := codepane.NewRootManager(dir)
	assert.Nil(t, err)

	return rm, dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	full := filepath.Join(dir, filepath.FromSlash(name))
	assert.Nil(t, os.MkdirAll(filepath.Dir(full), 0755))
	assert.Nil(t, os.WriteFile(full, []byte(content), 0644))
}

func TestRootManager_ReadFile(t *testing.T) {
	rm, dir := setupRootManager(t)
	writeFile(t, dir, "app/hello.js", "const x = 5;")

	content, err := rm.ReadFile("app/hello.js")
	assert.Nil(t, err)
	assert.Equal(t, string(content), "const x = 5;")

	_, err = rm.ReadFile("missing.js")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestRootManager_ReadFileOutsideRoot(t *testing.T) {
	rm, _ := setupRootManager(t)

	_, err := rm.ReadFile("../outside.txt")
	assert.NotNil(t, err)
}

func TestRootManager_CreateFile(t *testing.T) {
	rm, _ := setupRootManager(t)

	err := rm.CreateFile("nested/dir/new.go", []byte("package main"))
	assert.Nil(t, err)
	info, err := rm.Stat("nested/dir/new.go")
	assert.Nil(t, err)
	assert.False(t, info.IsDir())

	err = rm.CreateFile("nested/dir/new.go", []byte("again"))
	assert.ErrorIs(t, err, fs.ErrExist)

	content, err := rm.ReadFile("nested/dir/new.go")
	assert.Nil(t, err)
	assert.Equal(t, string(content), "package main")
}

func TestRootManager_Stat(t *testing.T) {
	rm, dir := setupRootManager(t)
	writeFile(t, dir, "a.txt", "abc")

	info, err := rm.Stat("a.txt")
	assert.Nil(t, err)
	assert.Equal(t, info.Name(), "a.txt")
	assert.Equal(t, info.Size(), int64(3))
	assert.False(t, info.IsDir())
}

func TestRootManager_Scan(t *testing.T) {
	rm, dir := setupRootManager(t)
	writeFile(t, dir, "one.js", "1")
	writeFile(t, dir, "sub/two.go", "2")
	writeFile(t, dir, "skip/three.txt", "3")

	skipDir := func(path string, d fs.DirEntry) bool { return d.Name() == "skip" }
	filter := func(path string, d fs.DirEntry) bool { return true }

	results, err := rm.Scan(skipDir, filter)
	assert.Nil(t, err)

	var paths []string
	for _, r := range results {
		paths = append(paths, r.Path)
	}
	assert.Equal(t, paths, []string{"one.js", "sub/two.go"})
}
