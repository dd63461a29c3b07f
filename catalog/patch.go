package catalog

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
)

// ApplyPatch applies an RFC 6902 JSON patch document to the catalog's
// on-disk representation and returns the validated result.
func ApplyPatch(c *Catalog, patchDoc []byte) (*Catalog, error) {
	patch, err := jsonpatch.DecodePatch(patchDoc)
	if err != nil {
		return nil, fmt.Errorf("decoding patch: %w", err)
	}

	doc, err := c.Marshal()
	if err != nil {
		return nil, err
	}

	patched, err := patch.Apply(doc)
	if err != nil {
		return nil, fmt.Errorf("applying patch: %w", err)
	}

	return Parse(patched)
}
