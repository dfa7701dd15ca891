// Package env provides immutable snapshots of configuration variables.
//
// A Source is read once and never changes afterwards, so resolution code can
// be handed a snapshot instead of reaching for the process environment. Sources
// can be taken from the process environment, from a map, from dotenv files or
// from flat YAML files, and layered with Merge.
package env

import (
	"os"
	"sort"
	"strings"
)

// Source is an ordered, read-only mapping from variable name to value.
// The zero value is an empty source.
type Source struct {
	names  []string
	values map[string]string
}

// builder accumulates variables in first-seen order.
type builder struct {
	names  []string
	values map[string]string
}

func newBuilder() *builder {
	return &builder{values: make(map[string]string)}
}

// set records name=value; a repeated name keeps its first position.
func (b *builder) set(name, value string) {
	if _, exists := b.values[name]; !exists {
		b.names = append(b.names, name)
	}
	b.values[name] = value
}

func (b *builder) source() Source {
	return Source{names: b.names, values: b.values}
}

// FromOS snapshots the current process environment.
func FromOS() Source {
	return FromEnviron(os.Environ())
}

// FromEnviron builds a source from "NAME=value" entries as returned by
// os.Environ. Entries without '=' are recorded with an empty value.
func FromEnviron(environ []string) Source {
	b := newBuilder()
	for _, entry := range environ {
		name, value, _ := strings.Cut(entry, "=")
		if name == "" {
			continue
		}
		b.set(name, value)
	}
	return b.source()
}

// FromMap builds a source from m. Names are ordered lexically so the
// result does not depend on map iteration order.
func FromMap(m map[string]string) Source {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	b := newBuilder()
	for _, name := range names {
		b.set(name, m[name])
	}
	return b.source()
}

// Merge layers sources left to right: a later source overrides the value of
// a name set earlier, and new names are appended in order.
func Merge(sources ...Source) Source {
	b := newBuilder()
	for _, src := range sources {
		for _, name := range src.names {
			b.set(name, src.values[name])
		}
	}
	return b.source()
}

// Lookup returns the value of name and whether it is present.
// A present variable may have an empty value.
func (s Source) Lookup(name string) (string, bool) {
	value, ok := s.values[name]
	return value, ok
}

// Has reports whether name is present.
func (s Source) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Get returns the value of name, or fallback when name is absent.
func (s Source) Get(name, fallback string) string {
	if value, ok := s.values[name]; ok {
		return value
	}
	return fallback
}

// Names returns the variable names in snapshot order.
func (s Source) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of variables in the snapshot.
func (s Source) Len() int {
	return len(s.names)
}
