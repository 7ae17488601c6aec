// Package catalog holds the in-memory model of every STNE type known to the
// editor services, built from a declarative catalog document.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/hbollon/go-edlib"
	"go.uber.org/zap"
)

// MemberKind is the closed set of member tags a catalog may declare.
type MemberKind int

const (
	KindConstructor MemberKind = iota + 1
	KindProperty
	KindField
	KindMethod
)

// String returns the catalog spelling of the kind.
func (k MemberKind) String() string {
	switch k {
	case KindConstructor:
		return "Constructor"
	case KindProperty:
		return "Property"
	case KindField:
		return "Field"
	case KindMethod:
		return "Method"
	default:
		return fmt.Sprintf("MemberKind(%d)", int(k))
	}
}

// ParseMemberKind maps a catalog "membertype" tag to a MemberKind.
func ParseMemberKind(tag string) (MemberKind, error) {
	switch tag {
	case "Constructor":
		return KindConstructor, nil
	case "Property":
		return KindProperty, nil
	case "Field":
		return KindField, nil
	case "Method":
		return KindMethod, nil
	default:
		return 0, fmt.Errorf("%w: unknown membertype %q", ErrMalformedCatalog, tag)
	}
}

// TypeEntry is one type of the catalog with its members in declaration order.
type TypeEntry struct {
	Name    string
	Members []MemberEntry
}

// Member returns the first member named name. Overloads are not
// distinguished: the first declaration wins.
func (t *TypeEntry) Member(name string) (*MemberEntry, bool) {
	for i := range t.Members {
		if t.Members[i].Name == name {
			return &t.Members[i], true
		}
	}

	return nil, false
}

// MemberEntry is a constructor, property, field or method of a type.
type MemberEntry struct {
	Name         string
	Kind         MemberKind
	Params       []ParamEntry
	DeclaredType string
	Static       bool
}

// ParamEntry is a method or constructor parameter.
type ParamEntry struct {
	Name         string
	DeclaredType string
}

// Snapshot is one fully built, immutable generation of the catalog.
type Snapshot struct {
	types  []TypeEntry
	byName map[string]int

	// Fingerprint is the xxhash of the source document bytes, zero when the
	// snapshot was not built from raw bytes.
	Fingerprint uint64
}

// Types returns the catalog types in document order. Callers must not modify
// the returned slice.
func (s *Snapshot) Types() []TypeEntry {
	if s == nil {
		return nil
	}

	return s.types
}

// Lookup returns the type named name (case-sensitive).
func (s *Snapshot) Lookup(name string) (*TypeEntry, bool) {
	if s == nil {
		return nil, false
	}

	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}

	return &s.types[i], true
}

// Len returns the number of types.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}

	return len(s.types)
}

// Closest returns the known type name with the smallest Levenshtein distance
// to name, and that distance. It returns false for an empty catalog.
func (s *Snapshot) Closest(name string) (string, int, bool) {
	if s.Len() == 0 {
		return "", 0, false
	}

	best := ""
	bestDistance := -1

	for _, t := range s.types {
		d := edlib.LevenshteinDistance(name, t.Name)
		if bestDistance < 0 || d < bestDistance {
			best, bestDistance = t.Name, d
		}
	}

	return best, bestDistance, true
}

var emptySnapshot = &Snapshot{byName: map[string]int{}}

// Catalog is a swappable handle to the current Snapshot. Reloads build a new
// snapshot and swap it in atomically, so concurrent readers observe either the
// old or the new generation.
type Catalog struct {
	current atomic.Pointer[Snapshot]
	logger  *zap.Logger
}

// New returns an empty catalog.
func New(logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Catalog{logger: logger}
	c.current.Store(emptySnapshot)

	return c
}

// Snapshot returns the current generation. Completion requests read it once
// and use it for the whole request.
func (c *Catalog) Snapshot() *Snapshot {
	return c.current.Load()
}

// Types returns the types of the current generation.
func (c *Catalog) Types() []TypeEntry {
	return c.Snapshot().Types()
}

// Lookup finds a type in the current generation.
func (c *Catalog) Lookup(name string) (*TypeEntry, bool) {
	return c.Snapshot().Lookup(name)
}

// Closest finds the nearest type name in the current generation.
func (c *Catalog) Closest(name string) (string, int, bool) {
	return c.Snapshot().Closest(name)
}

// Load replaces the catalog with one built from doc. A nil document yields an
// empty catalog. On error the previous generation stays in place.
func (c *Catalog) Load(doc *Document) error {
	snap, err := Build(doc)
	if err != nil {
		return err
	}

	c.swap(snap)

	return nil
}

// LoadBytes decodes data in the given format and replaces the catalog.
func (c *Catalog) LoadBytes(data []byte, format Format) error {
	snap, err := BuildBytes(data, format)
	if err != nil {
		return err
	}

	c.swap(snap)

	return nil
}

// LoadFile reads and loads the catalog document at path, choosing the format
// from the file extension. A missing file yields an empty catalog.
func (c *Catalog) LoadFile(path string) error {
	format, err := FormatForPath(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		c.logger.Warn("Catalog file not found, using empty catalog", zap.String("path", path))
		c.swap(emptySnapshot)

		return nil
	}
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", path, err)
	}

	return c.LoadBytes(data, format)
}

// Reload loads path only when its content differs from the current generation.
// It reports whether a new generation was installed.
func (c *Catalog) Reload(path string) (bool, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}

		return false, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	if c.Snapshot().Fingerprint == xxhash.Sum64(data) {
		c.logger.Debug("Catalog unchanged, skipping reload", zap.String("path", path))
		return false, nil
	}

	format, err := FormatForPath(path)
	if err != nil {
		return false, err
	}

	if err := c.LoadBytes(data, format); err != nil {
		return false, err
	}

	return true, nil
}

func (c *Catalog) swap(snap *Snapshot) {
	c.current.Store(snap)
	c.logger.Info("Catalog loaded", zap.Int("types", snap.Len()))
}
