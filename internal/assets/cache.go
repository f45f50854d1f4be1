// Package assets pre-loads a fixed list of static files under a versioned
// cache and serves them cache-first, falling back to the static directory.
package assets

import (
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"stampcam/internal/logger"
)

// DefaultAssets is the fixed pre-cache list.
var DefaultAssets = []string{
	"index.html",
	"app.js",
	"style.css",
	"manifest.json",
	"icons/icon-192.png",
	"icons/icon-512.png",
}

// Cache holds the pre-cached assets for one cache version.
type Cache struct {
	staticDir string
	cacheDir  string
	version   string
	assetList []string
	logger    *logger.Logger

	mu      sync.RWMutex
	entries map[string][]byte
}

func NewCache(staticDir, cacheDir, version string, assetList []string, logger *logger.Logger) *Cache {
	if len(assetList) == 0 {
		assetList = DefaultAssets
	}
	return &Cache{
		staticDir: staticDir,
		cacheDir:  cacheDir,
		version:   version,
		assetList: assetList,
		logger:    logger,
		entries:   make(map[string][]byte),
	}
}

// Activate fills the cache for the current version and purges every other
// version directory left over from earlier runs.
func (c *Cache) Activate() error {
	versionDir := filepath.Join(c.cacheDir, c.version)
	if err := os.MkdirAll(versionDir, 0755); err != nil {
		return err
	}

	c.mu.Lock()
	for _, name := range c.assetList {
		data, err := os.ReadFile(filepath.Join(c.staticDir, filepath.FromSlash(name)))
		if err != nil {
			c.logger.Warning("Asset %s not pre-cached: %v", name, err)
			continue
		}
		c.entries[name] = data

		cached := filepath.Join(versionDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(cached), 0755); err == nil {
			if err := os.WriteFile(cached, data, 0644); err != nil {
				c.logger.Warning("Failed to write cached copy of %s: %v", name, err)
			}
		}
	}
	count := len(c.entries)
	c.mu.Unlock()

	c.purgeStaleVersions()
	c.logger.Info("Asset cache %s active with %d entries", c.version, count)
	return nil
}

func (c *Cache) purgeStaleVersions() {
	dirs, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return
	}
	for _, d := range dirs {
		if !d.IsDir() || d.Name() == c.version {
			continue
		}
		if err := os.RemoveAll(filepath.Join(c.cacheDir, d.Name())); err != nil {
			c.logger.Warning("Failed to purge stale cache %s: %v", d.Name(), err)
			continue
		}
		c.logger.Info("Purged stale asset cache %s", d.Name())
	}
}

// Get returns a pre-cached asset by its list name.
func (c *Cache) Get(name string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data, ok := c.entries[name]
	return data, ok
}

// Version returns the active cache version.
func (c *Cache) Version() string {
	return c.version
}

// ServeHTTP serves assets cache-first; anything not pre-cached falls back
// to the static directory on disk.
func (c *Cache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name == "" || name == "." {
		name = "index.html"
	}
	// Extensionless pages map onto their .html asset, /settings -> settings.html.
	if path.Ext(name) == "" {
		name += ".html"
	}

	if data, ok := c.Get(name); ok {
		if ctype := mime.TypeByExtension(path.Ext(name)); ctype != "" {
			w.Header().Set("Content-Type", ctype)
		}
		w.Write(data)
		return
	}

	fallback := filepath.Join(c.staticDir, filepath.FromSlash(name))
	if _, err := os.Stat(fallback); os.IsNotExist(err) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, fallback)
}
