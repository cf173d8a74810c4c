package zonefile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go-csurf/debug"
)

// AliasCache holds display aliases for FX parameters, persisted as lines of
// `"<fx-name>" <param-index> "<alias>"`. Reads happen during zone generation;
// writes are exclusive.
type AliasCache struct {
	mu      sync.RWMutex
	path    string
	entries map[string]map[int]string
	dirty   bool
}

// NewAliasCache creates an empty cache that saves to path
func NewAliasCache(path string) *AliasCache {
	return &AliasCache{path: path, entries: make(map[string]map[int]string)}
}

// LoadAliases reads the cache file. A missing file yields an empty cache.
func LoadAliases(path string) (*AliasCache, error) {
	c := NewAliasCache(path)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return c, fmt.Errorf("open alias cache: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		tokens := Tokenize(scanner.Text())
		if len(tokens) == 0 {
			continue
		}
		if len(tokens) != 3 {
			debug.Log("alias", "%s:%d: expected 3 fields, got %d", path, lineNum, len(tokens))
			continue
		}
		idx, err := strconv.Atoi(tokens[1])
		if err != nil || idx < 0 {
			debug.Log("alias", "%s:%d: bad param index %q", path, lineNum, tokens[1])
			continue
		}
		c.set(tokens[0], idx, tokens[2])
	}
	if err := scanner.Err(); err != nil {
		return c, fmt.Errorf("read alias cache: %w", err)
	}
	return c, nil
}

func (c *AliasCache) set(fx string, idx int, alias string) {
	params, ok := c.entries[fx]
	if !ok {
		params = make(map[int]string)
		c.entries[fx] = params
	}
	params[idx] = alias
}

// Alias returns the cached alias for a parameter
func (c *AliasCache) Alias(fx string, idx int) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, ok := c.entries[fx][idx]
	return a, ok
}

// SetAlias stores an alias; call Save to persist
func (c *AliasCache) SetAlias(fx string, idx int, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.entries[fx][idx]; ok && cur == alias {
		return
	}
	c.set(fx, idx, alias)
	c.dirty = true
}

// Dirty reports unsaved changes
func (c *AliasCache) Dirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

// Save rewrites the cache file, sorted by FX name then parameter index
func (c *AliasCache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("create alias dir: %w", err)
	}

	fxNames := make([]string, 0, len(c.entries))
	for fx := range c.entries {
		fxNames = append(fxNames, fx)
	}
	sort.Strings(fxNames)

	var sb strings.Builder
	for _, fx := range fxNames {
		idxs := make([]int, 0, len(c.entries[fx]))
		for i := range c.entries[fx] {
			idxs = append(idxs, i)
		}
		sort.Ints(idxs)
		for _, i := range idxs {
			fmt.Fprintf(&sb, "%q %d %q\n", fx, i, c.entries[fx][i])
		}
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("write alias cache: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace alias cache: %w", err)
	}
	c.dirty = false
	return nil
}
