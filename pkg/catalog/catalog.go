// Package catalog resolves human-readable item tokens to canonical item
// ids. The catalog itself is host data; this package ships a YAML-backed
// implementation with optional hot reload.
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when a token resolves to no catalog item.
var ErrNotFound = errors.New("item not found in catalog")

// Item is one catalog entry.
type Item struct {
	// ID is the canonical item identifier, e.g. "rifle.ak".
	ID string `yaml:"id"`

	// Name is the human-readable display name, e.g. "Assault Rifle".
	Name string `yaml:"name"`
}

// Config configures the file-backed catalog.
type Config struct {
	// Path is the YAML item definition file.
	Path string

	// MatchDisplayNames enables exact case-insensitive display-name
	// matching. Substring matching stays available as a last resort either
	// way.
	MatchDisplayNames bool
}

// itemFile is the on-disk layout.
type itemFile struct {
	Items []Item `yaml:"items"`
}

// FileCatalog resolves item tokens against a YAML definition file.
//
// Resolution order: exact canonical id, then (when enabled) exact
// case-insensitive display-name match, then case-insensitive substring
// match of the display name as a last resort. Substring matches are only
// accepted when unambiguous.
type FileCatalog struct {
	config Config
	logger *slog.Logger

	mu   sync.RWMutex
	byID map[string]Item
}

// NewFileCatalog creates a catalog and performs the initial load.
func NewFileCatalog(cfg Config, logger *slog.Logger) (*FileCatalog, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("catalog path cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &FileCatalog{
		config: cfg,
		logger: logger.With("component", "catalog"),
		byID:   make(map[string]Item),
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads the definition file, replacing the in-memory catalog
// atomically. A failed reload leaves the previous catalog in place.
func (c *FileCatalog) Reload() error {
	data, err := os.ReadFile(c.config.Path)
	if err != nil {
		return fmt.Errorf("failed to read catalog file %q: %w", c.config.Path, err)
	}

	var file itemFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse catalog file %q: %w", c.config.Path, err)
	}

	next := make(map[string]Item, len(file.Items))
	for _, item := range file.Items {
		id := strings.ToLower(strings.TrimSpace(item.ID))
		if id == "" {
			return fmt.Errorf("catalog file %q: item with empty id", c.config.Path)
		}
		if _, dup := next[id]; dup {
			return fmt.Errorf("catalog file %q: duplicate item id %q", c.config.Path, id)
		}
		item.ID = id
		next[id] = item
	}

	c.mu.Lock()
	c.byID = next
	c.mu.Unlock()

	c.logger.Debug("catalog loaded", "items", len(next))
	return nil
}

// Resolve returns the canonical id for a token.
func (c *FileCatalog) Resolve(token string) (string, error) {
	tok := strings.ToLower(strings.TrimSpace(token))
	if tok == "" {
		return "", fmt.Errorf("%w: empty token", ErrNotFound)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	// Exact canonical id.
	if item, ok := c.byID[tok]; ok {
		return item.ID, nil
	}

	// Exact display name, when enabled.
	if c.config.MatchDisplayNames {
		for _, item := range c.byID {
			if strings.EqualFold(item.Name, token) {
				return item.ID, nil
			}
		}
	}

	// Substring of display name, last resort. Ambiguous tokens are
	// rejected rather than picking an arbitrary item.
	var match string
	for _, item := range c.byID {
		if strings.Contains(strings.ToLower(item.Name), tok) {
			if match != "" && match != item.ID {
				return "", fmt.Errorf("%w: token %q is ambiguous", ErrNotFound, token)
			}
			match = item.ID
		}
	}
	if match != "" {
		return match, nil
	}

	return "", fmt.Errorf("%w: %q", ErrNotFound, token)
}

// DisplayName returns the display name for a canonical id. Unknown ids
// come back unchanged.
func (c *FileCatalog) DisplayName(id string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if item, ok := c.byID[strings.ToLower(id)]; ok && item.Name != "" {
		return item.Name
	}
	return id
}

// Items returns every catalog entry sorted by id, for listings and tests.
func (c *FileCatalog) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]Item, 0, len(c.byID))
	for _, item := range c.byID {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}
