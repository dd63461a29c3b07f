// Package catalog holds the entity catalog the draw engine selects from
// and its JSON file store.
package catalog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by Find for ids absent from the catalog.
var ErrNotFound = errors.New("entity not found")

// Catalog is an ordered, read-only snapshot of entities. Callers must not
// modify Entities after the catalog has been handed to a draw service.
type Catalog struct {
	Entities []Entity `json:"entities"`

	index map[string]int
}

// New validates entities and returns a catalog snapshot.
func New(entities []Entity) (*Catalog, error) {
	c := &Catalog{
		Entities: make([]Entity, len(entities)),
		index:    make(map[string]int, len(entities)),
	}
	copy(c.Entities, entities)

	for i, e := range c.Entities {
		if e.ID == "" {
			return nil, fmt.Errorf("entity %d (%q): empty id", i, e.Name)
		}
		if _, dup := c.index[e.ID]; dup {
			return nil, fmt.Errorf("duplicate entity id %q", e.ID)
		}
		if !e.Category.IsACategory() || e.Category == CategoryUnknown {
			return nil, fmt.Errorf("entity %q: invalid category %s", e.ID, e.Category)
		}
		c.index[e.ID] = i
	}

	return c, nil
}

// Find returns the entity with the given id.
func (c *Catalog) Find(id string) (Entity, error) {
	if c == nil {
		return Entity{}, ErrNotFound
	}
	i, ok := c.index[id]
	if !ok {
		return Entity{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return c.Entities[i], nil
}

// Len returns the number of entities.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Entities)
}

// ByCategory returns the entities whose own category is exactly cat.
func (c *Catalog) ByCategory(cat Category) []Entity {
	if c == nil {
		return nil
	}
	r := []Entity{}
	for _, e := range c.Entities {
		if e.Category == cat {
			r = append(r, e)
		}
	}
	return r
}

// All returns a copy of the entities in catalog order.
func (c *Catalog) All() []Entity {
	if c == nil {
		return nil
	}
	r := make([]Entity, len(c.Entities))
	copy(r, c.Entities)
	return r
}
