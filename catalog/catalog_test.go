package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	_, err := New([]Entity{{ID: "a", Category: CategoryPressure}, {ID: "a", Category: CategoryPressure}})
	assert.ErrorContains(t, err, "duplicate")

	_, err = New([]Entity{{ID: "", Name: "nameless", Category: CategoryPressure}})
	assert.ErrorContains(t, err, "empty id")

	_, err = New([]Entity{{ID: "a"}})
	assert.ErrorContains(t, err, "invalid category")
}

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.Equal(t, 10, c.Len())
	assert.Len(t, c.ByCategory(CategoryCombined), 5)
	assert.Len(t, c.ByCategory(CategoryPressure), 3)
	assert.Len(t, c.ByCategory(CategoryMechanical), 2)

	e, err := c.Find("cy1")
	require.NoError(t, err)
	assert.Equal(t, CategoryPressure, e.Category)
	assert.Equal(t, "cy1", e.Group())

	_, err = c.Find("nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)

	c, err := LoadOrDefault(path)
	require.NoError(t, err)
	assert.Equal(t, Default().All(), c.All())

	_, err = os.Stat(path)
	require.NoError(t, err, "default catalog should have been written")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"category": "combined"`)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c.All(), loaded.All())
}

func TestApplyPatch(t *testing.T) {
	c, err := New([]Entity{
		{ID: "a", Name: "A", Category: CategoryPressure},
		{ID: "b", Name: "B", Category: CategoryMechanical},
	})
	require.NoError(t, err)

	patched, err := ApplyPatch(c, []byte(`[
		{"op": "add", "path": "/-", "value": {"id": "c", "name": "C", "category": "combined"}},
		{"op": "replace", "path": "/0/name", "value": "Alpha"}
	]`))
	require.NoError(t, err)
	require.Equal(t, 3, patched.Len())

	a, err := patched.Find("a")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", a.Name)

	cc, err := patched.Find("c")
	require.NoError(t, err)
	assert.Equal(t, CategoryCombined, cc.Category)

	_, err = ApplyPatch(c, []byte(`[{"op": "add", "path": "/-", "value": {"id": "a", "category": "pressure"}}]`))
	assert.ErrorContains(t, err, "duplicate")

	// original untouched
	assert.Equal(t, 2, c.Len())
}

func TestWatchReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, Save(path, Default()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan *Catalog, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(c *Catalog) { updates <- c })
	}()

	// give the watcher time to register the directory
	time.Sleep(100 * time.Millisecond)

	small, err := New([]Entity{{ID: "x", Name: "X", Category: CategoryPressure}})
	require.NoError(t, err)
	require.NoError(t, Save(path, small))

	select {
	case c := <-updates:
		assert.Equal(t, 1, c.Len())
	case <-time.After(5 * time.Second):
		t.Fatal("catalog change was not picked up")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
