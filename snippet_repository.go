package codepane

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"path"
	"slices"
	"strings"
	"sync"
	"time"
)

var (
	ErrSnippetNotFound = errors.New("snippet not found")
	ErrSnippetExists   = errors.New("snippet already exists")
	ErrInvalidName     = errors.New("invalid snippet name")
	ErrSnippetTooLarge = errors.New("snippet too large")
)

// RepositoryConfig controls which files in the data directory count as snippets.
type RepositoryConfig struct {
	IgnoreDirs       []string // directory names skipped at any depth
	BinaryExtensions []string // lower-case extensions never listed
	MaxFileSize      int64    // files larger than this are skipped, 0 means no limit
}

// DefaultRepositoryConfig skips the service and keys directories that share the data directory.
var DefaultRepositoryConfig = RepositoryConfig{
	IgnoreDirs: []string{"service", "keys", ".git", "node_modules"},
	BinaryExtensions: []string{
		".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico", ".pdf",
		".zip", ".gz", ".tar", ".exe", ".so", ".dylib", ".log",
	},
	MaxFileSize: 1 << 20,
}

// SnippetRepository caches the snippet files found under a RootManager.
type SnippetRepository struct {
	config     RepositoryConfig
	root       *RootManager
	encryption *EncryptionManager

	mu       sync.RWMutex
	cache    map[string]SnippetInfo
	lastLoad time.Time
}

// NewSnippetRepository creates a repository and performs an initial scan.
// encryption may be nil, in which case .age snippets are listed but cannot be read.
func NewSnippetRepository(root *RootManager, encryption *EncryptionManager, config RepositoryConfig) *SnippetRepository {
	sr := &SnippetRepository{
		config:     config,
		root:       root,
		encryption: encryption,
		cache:      make(map[string]SnippetInfo),
	}
	sr.Reload()
	return sr
}

// Reload rescans the data directory.
func (sr *SnippetRepository) Reload() {
	snippets, err := sr.scan()
	if err != nil {
		log.Printf("Error scanning snippets: %v", err)
		return
	}

	sr.mu.Lock()
	sr.cache = snippets
	sr.lastLoad = time.Now()
	sr.mu.Unlock()

	log.Printf("Snippet cache refreshed with %d files", len(snippets))
}

// ReloadIfStale rescans when the cache is older than maxAge.
func (sr *SnippetRepository) ReloadIfStale(maxAge time.Duration) bool {
	if time.Since(sr.LastLoad()) <= maxAge {
		return false
	}
	sr.Reload()
	return true
}

// LastLoad returns when the cache was last filled.
func (sr *SnippetRepository) LastLoad() time.Time {
	sr.mu.RLock()
	defer sr.mu.RUnlock()
	return sr.lastLoad
}

// List returns every cached snippet ordered by ID.
func (sr *SnippetRepository) List() []SnippetInfo {
	sr.mu.RLock()
	list := make([]SnippetInfo, 0, len(sr.cache))
	for _, info := range sr.cache {
		list = append(list, info)
	}
	sr.mu.RUnlock()

	slices.SortFunc(list, func(a, b SnippetInfo) int {
		return strings.Compare(a.ID, b.ID)
	})
	return list
}

// Tree returns the cached snippets grouped by directory.
func (sr *SnippetRepository) Tree() *DirectoryNode {
	return BuildTree(sr.List())
}

// Info looks up a snippet by ID.
func (sr *SnippetRepository) Info(id string) (SnippetInfo, error) {
	sr.mu.RLock()
	defer sr.mu.RUnlock()

	if info, ok := sr.cache[id]; ok {
		return info, nil
	}
	return SnippetInfo{}, fmt.Errorf("%s: %w", id, ErrSnippetNotFound)
}

// Get loads a snippet's content, decrypting it when needed. Line endings are
// normalised to LF.
func (sr *SnippetRepository) Get(id string) (Snippet, error) {
	info, err := sr.Info(id)
	if err != nil {
		return Snippet{}, err
	}

	raw, err := sr.root.ReadFile(info.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Snippet{}, fmt.Errorf("%s: %w", id, ErrSnippetNotFound)
		}
		return Snippet{}, fmt.Errorf("failed to read snippet %s: %w", id, err)
	}

	content := string(raw)
	if info.Encrypted || IsAgeEncrypted(raw) {
		content, err = sr.encryption.Decrypt(raw)
		if err != nil {
			return Snippet{}, fmt.Errorf("failed to decrypt snippet %s: %w", id, err)
		}
	}

	return Snippet{Info: info, Content: normalizeLineEndings(content)}, nil
}

// Create writes a new snippet. Names ending in .age are encrypted with the
// configured recipients. The cache entry is added immediately.
func (sr *SnippetRepository) Create(name, content string) (SnippetInfo, error) {
	name = strings.TrimSpace(name)
	if !filenameIsValid(name) || sr.ignored(name) || strings.TrimSuffix(name, EncryptedSuffix) == "" {
		return SnippetInfo{}, fmt.Errorf("%q: %w", name, ErrInvalidName)
	}

	if sr.config.MaxFileSize > 0 && int64(len(content)) > sr.config.MaxFileSize {
		return SnippetInfo{}, fmt.Errorf("%q: %w", name, ErrSnippetTooLarge)
	}

	id := strings.TrimSuffix(name, EncryptedSuffix)
	if _, err := sr.Info(id); err == nil {
		return SnippetInfo{}, fmt.Errorf("%q: %w", id, ErrSnippetExists)
	}

	data := []byte(content)
	if strings.HasSuffix(name, EncryptedSuffix) {
		encrypted, err := sr.encryption.Encrypt(content)
		if err != nil {
			return SnippetInfo{}, fmt.Errorf("failed to encrypt snippet %s: %w", id, err)
		}
		data = encrypted
	}

	if err := sr.root.CreateFile(name, data); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return SnippetInfo{}, fmt.Errorf("%q: %w", name, ErrSnippetExists)
		}
		return SnippetInfo{}, fmt.Errorf("failed to write snippet %s: %w", name, err)
	}

	modTime := time.Now()
	if stat, err := sr.root.Stat(name); err == nil {
		modTime = stat.ModTime()
	}

	info := snippetInfoFromPath(name, int64(len(data)), modTime)

	sr.mu.Lock()
	sr.cache[info.ID] = info
	sr.mu.Unlock()

	return info, nil
}

// ignored reports whether any directory segment of p is in IgnoreDirs or p
// has a binary extension.
func (sr *SnippetRepository) ignored(p string) bool {
	parts := strings.Split(p, "/")
	for _, dir := range parts[:len(parts)-1] {
		if slices.Contains(sr.config.IgnoreDirs, dir) {
			return true
		}
	}

	ext := strings.ToLower(path.Ext(strings.TrimSuffix(p, EncryptedSuffix)))
	return slices.Contains(sr.config.BinaryExtensions, ext)
}

func (sr *SnippetRepository) scan() (map[string]SnippetInfo, error) {
	skipDir := func(p string, d fs.DirEntry) bool {
		return strings.HasPrefix(d.Name(), ".") || slices.Contains(sr.config.IgnoreDirs, d.Name())
	}

	filter := func(p string, d fs.DirEntry) bool {
		return !strings.HasPrefix(d.Name(), ".") && !sr.ignored(p)
	}

	results, err := sr.root.Scan(skipDir, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to scan data directory: %w", err)
	}

	snippets := make(map[string]SnippetInfo, len(results))
	for _, res := range results {
		if sr.config.MaxFileSize > 0 && res.Size > sr.config.MaxFileSize {
			continue
		}

		info := snippetInfoFromPath(res.Path, res.Size, time.Unix(0, res.ModTime))
		// A plain file wins over an encrypted one with the same ID.
		if existing, ok := snippets[info.ID]; ok && !existing.Encrypted {
			continue
		}
		snippets[info.ID] = info
	}

	return snippets, nil
}
