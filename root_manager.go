package codepane

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// RootManager confines file access to the data directory using os.Root.
type RootManager struct {
	path string
}

// NewRootManager creates the directory if needed and checks it can be opened as a root.
func NewRootManager(path string) (*RootManager, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", path, err)
	}

	root, err := os.OpenRoot(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory as root %s: %w", path, err)
	}
	_ = root.Close()

	return &RootManager{path: path}, nil
}

// Path returns the directory the manager is confined to.
func (rm *RootManager) Path() string {
	return rm.path
}

func (rm *RootManager) withRoot(fn func(*os.Root) error) error {
	root, err := os.OpenRoot(rm.path)
	if err != nil {
		return fmt.Errorf("failed to open root: %w", err)
	}
	defer func(root *os.Root) {
		_ = root.Close()
	}(root)

	return fn(root)
}

// ReadFile reads a file relative to the root.
func (rm *RootManager) ReadFile(name string) ([]byte, error) {
	var content []byte
	err := rm.withRoot(func(root *os.Root) error {
		var err error
		content, err = root.ReadFile(filepath.FromSlash(name))
		return err
	})
	return content, err
}

// CreateFile writes a new file, creating parent directories. It fails with
// fs.ErrExist when the file is already there.
func (rm *RootManager) CreateFile(name string, content []byte) error {
	name = filepath.FromSlash(name)
	return rm.withRoot(func(root *os.Root) error {
		if dir := filepath.Dir(name); dir != "." {
			if err := root.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}

		f, err := root.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err != nil {
			return err
		}

		if _, err := f.Write(content); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	})
}

// Stat returns file info relative to the root.
func (rm *RootManager) Stat(name string) (os.FileInfo, error) {
	var info os.FileInfo
	err := rm.withRoot(func(root *os.Root) error {
		var err error
		info, err = root.Stat(filepath.FromSlash(name))
		return err
	})
	return info, err
}

// ScanResult describes a regular file found by Scan.
type ScanResult struct {
	Path    string // slash-separated, relative to the root
	Name    string
	Size    int64
	ModTime int64 // unix nanoseconds
}

// Scan walks the whole tree and returns the regular files accepted by filter.
// Directories rejected by skipDir are not descended into.
func (rm *RootManager) Scan(skipDir func(path string, d fs.DirEntry) bool, filter func(path string, d fs.DirEntry) bool) ([]ScanResult, error) {
	var results []ScanResult

	err := rm.withRoot(func(root *os.Root) error {
		return fs.WalkDir(root.FS(), ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Keep walking past unreadable entries.
				if d != nil && d.IsDir() && path != "." {
					return fs.SkipDir
				}
				return nil
			}

			if d.IsDir() {
				if path != "." && skipDir != nil && skipDir(path, d) {
					return fs.SkipDir
				}
				return nil
			}

			if !d.Type().IsRegular() || (filter != nil && !filter(path, d)) {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}

			results = append(results, ScanResult{
				Path:    path,
				Name:    d.Name(),
				Size:    info.Size(),
				ModTime: info.ModTime().UnixNano(),
			})
			return nil
		})
	})

	return results, err
}
