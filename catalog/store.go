package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"go.inspectdraw.org/draw/fileutil"
)

// DefaultFile is the catalog file name inside the data directory.
const DefaultFile = "departments.json"

// Load reads a JSON array of entities from path.
func Load(path string) (*Catalog, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes a JSON array of entities.
func Parse(b []byte) (*Catalog, error) {
	var entities []Entity
	if err := json.Unmarshal(b, &entities); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	return New(entities)
}

// LoadOrDefault loads path, falling back to (and writing) the default
// catalog when the file does not exist yet.
func LoadOrDefault(path string) (*Catalog, error) {
	c, err := Load(path)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	c = Default()
	if err := Save(path, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Marshal encodes the catalog in the on-disk format.
func (c *Catalog) Marshal() ([]byte, error) {
	return json.MarshalIndent(c.All(), "", "  ")
}

// Save atomically replaces path with the catalog.
func Save(path string, c *Catalog) error {
	b, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := fileutil.ReplaceFile(path, b); err != nil {
		return fmt.Errorf("saving catalog: %w", err)
	}
	return nil
}
