// Package assets resolves scene file paths against search roots and caches
// decoded documents.
package assets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/qmuntal/gltf"

	"github.com/Faultbox/walkthrough/pkg/formats"
)

// ErrNotFound is returned when a path exists neither as given nor under
// any search root.
var ErrNotFound = errors.New("file not found")

// Manager finds scene files and keeps every decoded document for reuse.
type Manager struct {
	roots []string
	cache *Cache
	mu    sync.RWMutex
}

// NewManager creates a manager with no search roots.
func NewManager() *Manager {
	return &Manager{
		cache: NewCache(),
	}
}

// AddRoot adds a directory to search for relative paths.
// Roots are searched in reverse order (last added = highest priority).
func (m *Manager) AddRoot(dir string) {
	m.mu.Lock()
	m.roots = append(m.roots, dir)
	m.mu.Unlock()
}

// Resolve returns the path as given when it exists, otherwise the first
// match under the search roots.
func (m *Manager) Resolve(path string) (string, error) {
	if exists(path) {
		return path, nil
	}
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.roots) - 1; i >= 0; i-- {
		candidate := filepath.Join(m.roots[i], path)
		if exists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, path)
}

// Open resolves and decodes a scene file. Documents are cached by resolved
// path; failures are not cached.
func (m *Manager) Open(path string) (*gltf.Document, error) {
	resolved, err := m.Resolve(path)
	if err != nil {
		return nil, err
	}
	key := resolved
	if abs, err := filepath.Abs(resolved); err == nil {
		key = abs
	}

	if doc, ok := m.cache.Get(key); ok {
		return doc, nil
	}
	doc, err := formats.Open(resolved)
	if err != nil {
		return nil, err
	}
	m.cache.Set(key, doc)
	return doc, nil
}

// Cache returns the document cache.
func (m *Manager) Cache() *Cache {
	return m.cache
}

// Close drops every cached document.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roots = nil
	m.cache.Clear()
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Cache is an in-memory store of decoded documents.
type Cache struct {
	data map[string]*gltf.Document
	mu   sync.RWMutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]*gltf.Document),
	}
}

// Get retrieves a document from cache.
func (c *Cache) Get(key string) (*gltf.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return doc, ok
}

// Set stores a document in cache.
func (c *Cache) Set(key string, doc *gltf.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = doc
}

// Len returns the number of cached documents.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]*gltf.Document)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
