package zonefile

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go-csurf/debug"
)

// Extension of zone files
const Extension = ".zon"

// Index maps zone names to their templates. It is read-mostly after load.
type Index struct {
	mu     sync.RWMutex
	zones  map[string]*ZoneTemplate
	errors []error
}

// NewIndex creates an empty index
func NewIndex() *Index {
	return &Index{zones: make(map[string]*ZoneTemplate)}
}

// LoadIndex parses every zone file under dir. A malformed file is logged and
// skipped; the returned error is only for an unreadable folder.
func LoadIndex(dir string) (*Index, error) {
	ix := NewIndex()
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), Extension) {
			return nil
		}
		ix.AddFile(path)
		return nil
	})
	if err != nil {
		return ix, fmt.Errorf("scan zone folder: %w", err)
	}
	return ix, nil
}

// AddFile parses path and adds its zones. Zones completed before a syntax
// error are kept.
func (ix *Index) AddFile(path string) error {
	zones, err := ParseFile(path)
	for _, z := range zones {
		ix.Add(z)
	}
	if err != nil {
		debug.Log("zonefile", "skipping rest of %s: %v", path, err)
		ix.mu.Lock()
		ix.errors = append(ix.errors, err)
		ix.mu.Unlock()
	}
	return err
}

// Add registers t, replacing any zone with the same name
func (ix *Index) Add(t *ZoneTemplate) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if prev, ok := ix.zones[t.Name]; ok && prev.Path != t.Path {
		debug.Log("zonefile", "zone %q in %s replaces %s", t.Name, t.Path, prev.Path)
	}
	ix.zones[t.Name] = t
}

// Lookup finds a zone template by name
func (ix *Index) Lookup(name string) (*ZoneTemplate, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	t, ok := ix.zones[name]
	return t, ok
}

// Names returns every zone name, sorted
func (ix *Index) Names() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	names := make([]string, 0, len(ix.zones))
	for n := range ix.zones {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Errors returns the parse errors collected while loading
func (ix *Index) Errors() []error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return append([]error(nil), ix.errors...)
}
