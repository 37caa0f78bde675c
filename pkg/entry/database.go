package entry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrDuplicateKey is returned when an entry with the same citation key is
// already present.
var ErrDuplicateKey = errors.New("entry: duplicate citation key")

// Database stores entries by citation key together with @string constants.
// It is safe for concurrent reads and writes.
type Database struct {
	mu        sync.RWMutex
	entries   map[string]*Entry
	constants map[string]string
}

var _ Lookup = (*Database)(nil)

// NewDatabase creates an empty database.
func NewDatabase() *Database {
	return &Database{
		entries:   make(map[string]*Entry),
		constants: make(map[string]string),
	}
}

// Add inserts an entry. Entries must carry a citation key.
func (d *Database) Add(e *Entry) error {
	if e == nil {
		return errors.New("entry: entry is required")
	}
	key, ok := e.CitationKey()
	if !ok {
		return errors.New("entry: citation key is required")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.entries[key]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, key)
	}
	d.entries[key] = e
	return nil
}

// Entry returns the concrete entry stored under key.
func (d *Database) Entry(key string) (*Entry, bool) {
	if d == nil {
		return nil, false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	e, ok := d.entries[key]
	return e, ok
}

// EntryByKey implements Lookup.
func (d *Database) EntryByKey(key string) (Record, bool) {
	e, ok := d.Entry(key)
	if !ok {
		return nil, false
	}
	return e, true
}

// Entries returns all entries sorted by citation key.
func (d *Database) Entries() []*Entry {
	if d == nil {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	keys := make([]string, 0, len(d.entries))
	for key := range d.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make([]*Entry, 0, len(keys))
	for _, key := range keys {
		out = append(out, d.entries[key])
	}
	return out
}

// Len reports the number of entries.
func (d *Database) Len() int {
	if d == nil {
		return 0
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

// SetString defines an @string constant. Names are case-insensitive.
func (d *Database) SetString(name, value string) {
	name = normalizeName(name)
	if name == "" {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.constants[name] = value
}

// StringConstant implements Lookup.
func (d *Database) StringConstant(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	value, ok := d.constants[normalizeName(name)]
	return value, ok
}

// StringNames lists the defined constants in sorted order.
func (d *Database) StringNames() []string {
	if d == nil {
		return nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.constants))
	for name := range d.constants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func trimKey(key string) string {
	return strings.TrimSpace(key)
}
