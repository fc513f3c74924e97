// Package host answers existence, read and module resolution queries against
// a fixed, in-memory set of source units. It never touches the filesystem.
package host

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/fullscreenshenanigans/shenanigans-manager/internal/model"
)

// ErrNotFound is returned when a path is not part of the loaded source set.
var ErrNotFound = errors.New("file not found")

// resolutionSuffixes are appended, in order, to a relative specifier when
// looking for its target unit.
var resolutionSuffixes = []string{
	"",
	".ts",
	".tsx",
	".d.ts",
	"/index.ts",
	"/index.tsx",
}

// Host is a closed-world query surface over loaded source units.
type Host struct {
	units map[string]model.SourceUnit
	paths []string
}

// New creates a Host over units. Later units with a duplicate path replace
// earlier ones.
func New(units []model.SourceUnit) *Host {
	h := &Host{units: make(map[string]model.SourceUnit, len(units))}
	for _, u := range units {
		h.units[u.Path] = u
	}
	h.paths = make([]string, 0, len(h.units))
	for p := range h.units {
		h.paths = append(h.paths, p)
	}
	sort.Strings(h.paths)
	return h
}

// Paths returns every loaded path in sorted order.
func (h *Host) Paths() []string {
	out := make([]string, len(h.paths))
	copy(out, h.paths)
	return out
}

// Exists reports whether p is part of the source set.
func (h *Host) Exists(p string) bool {
	_, ok := h.units[p]
	return ok
}

// Unit returns the source unit stored at p.
func (h *Host) Unit(p string) (model.SourceUnit, bool) {
	u, ok := h.units[p]
	return u, ok
}

// Read returns the raw text stored at p.
func (h *Host) Read(p string) (string, error) {
	u, ok := h.units[p]
	if !ok {
		return "", fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	return u.Text, nil
}

// DefaultLibFileName returns the name of the default library, which is always
// empty: no ambient declarations are available.
func (h *Host) DefaultLibFileName() string {
	return ""
}

// Resolve maps an import specifier written in the unit at from to the unit it
// names. Only relative specifiers can resolve; package imports never do.
func (h *Host) Resolve(from, specifier string) (model.SourceUnit, bool) {
	if !isRelative(specifier) {
		return model.SourceUnit{}, false
	}
	base := path.Join(path.Dir(from), specifier)
	if strings.HasPrefix(base, "../") || base == ".." {
		return model.SourceUnit{}, false
	}
	for _, suffix := range resolutionSuffixes {
		if u, ok := h.units[base+suffix]; ok {
			return u, true
		}
	}
	return model.SourceUnit{}, false
}

func isRelative(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}
