package filter

import (
	"fmt"
	"sort"
	"strings"
)

// Filter identifiers.
const (
	IDDeflate    uint16 = 1
	IDFletcher32 uint16 = 3
	IDZstd       uint16 = 32015
)

// Filter transforms chunk data between its stored and its logical form.
type Filter interface {
	// ID returns the filter identifier.
	ID() uint16

	// Encode transforms logical data to its stored form.
	Encode(input []byte) ([]byte, error)

	// Decode transforms stored data back to logical form.
	Decode(input []byte) ([]byte, error)

	// Optional reports whether the pipeline may skip this filter for a chunk.
	Optional() bool
}

// Registry maps filter IDs to constructors. The argument is a filter-specific
// level; zero selects the filter's default.
var Registry = map[uint16]func(level int) Filter{
	IDDeflate:    func(level int) Filter { return NewDeflate(level) },
	IDFletcher32: func(int) Filter { return NewFletcher32() },
	IDZstd:       func(level int) Filter { return NewZstd(level) },
}

var filterNames = map[uint16]string{
	IDDeflate:    "deflate",
	IDFletcher32: "fletcher32",
	IDZstd:       "zstd",
}

// New creates a filter by ID.
func New(id uint16, level int) (Filter, error) {
	constructor, ok := Registry[id]
	if !ok {
		return nil, fmt.Errorf("unsupported filter ID: %d", id)
	}
	return constructor(level), nil
}

// Name returns the short name of a filter ID, or its number when unknown.
func Name(id uint16) string {
	if name, ok := filterNames[id]; ok {
		return name
	}
	return fmt.Sprintf("filter-%d", id)
}

// Lookup resolves a short filter name ("deflate", "zstd", "fletcher32").
func Lookup(name string) (uint16, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for id, n := range filterNames {
		if n == name {
			return id, nil
		}
	}
	known := make([]string, 0, len(filterNames))
	for _, n := range filterNames {
		known = append(known, n)
	}
	sort.Strings(known)
	return 0, fmt.Errorf("unknown filter %q (known: %s)", name, strings.Join(known, ", "))
}
