package tables

import (
	"strings"

	"github.com/geocine/digsite/internal/location"
)

type pathEntry[E any] struct {
	loc   location.Location
	owner E
	has   bool
}

// PathTable maps old-site paths to their new locations and, optionally, to
// the entity that owns the new location. The first registration of a key
// wins; later ones are ignored.
type PathTable[E any] struct {
	entries map[string]pathEntry[E]
	sealed  bool
}

// NewPathTable returns an empty table.
func NewPathTable[E any]() *PathTable[E] {
	return &PathTable[E]{entries: make(map[string]pathEntry[E])}
}

// Register records oldKey → loc without an owner.
func (t *PathTable[E]) Register(oldKey string, loc location.Location) {
	var zero E
	t.register(oldKey, pathEntry[E]{loc: loc, owner: zero})
}

// RegisterOwned records oldKey → loc owned by owner.
func (t *PathTable[E]) RegisterOwned(oldKey string, loc location.Location, owner E) {
	t.register(oldKey, pathEntry[E]{loc: loc, owner: owner, has: true})
}

func (t *PathTable[E]) register(oldKey string, e pathEntry[E]) {
	if t.sealed {
		panic("tables: path registered after assembly finished: " + oldKey)
	}
	if _, ok := t.entries[oldKey]; ok {
		return
	}
	t.entries[oldKey] = e
}

// Seal rejects further registrations.
func (t *PathTable[E]) Seal() { t.sealed = true }

// Len returns the number of registered keys.
func (t *PathTable[E]) Len() int { return len(t.entries) }

func (t *PathTable[E]) find(oldKey string) (pathEntry[E], bool) {
	if e, ok := t.entries[oldKey]; ok {
		return e, true
	}
	rooted := "/" + strings.TrimLeft(oldKey, "/")
	if rooted != oldKey {
		if e, ok := t.entries[rooted]; ok {
			return e, true
		}
	}
	return pathEntry[E]{}, false
}

// Lookup returns the registered location for oldKey, retrying once with a
// single leading slash.
func (t *PathTable[E]) Lookup(oldKey string) (location.Location, bool) {
	e, ok := t.find(oldKey)
	return e.loc, ok
}

// Location returns the registered location for oldKey. A miss returns
// oldKey itself so that links to pages that were never migrated survive.
func (t *PathTable[E]) Location(oldKey string) location.Location {
	if loc, ok := t.Lookup(oldKey); ok {
		return loc
	}
	return location.Location(oldKey)
}

// Entity returns the owner registered for oldKey.
func (t *PathTable[E]) Entity(oldKey string) (E, bool) {
	e, ok := t.find(oldKey)
	if !ok || !e.has {
		var zero E
		return zero, false
	}
	return e.owner, true
}
