package drawcmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.inspectdraw.org/draw/catalog"
	rootcmd "go.inspectdraw.org/draw/cmd"
	"go.inspectdraw.org/draw/ledger"
	"go.inspectdraw.org/draw/testutil"
)

// run executes the command line in dataDir and returns what it printed.
func run(t *testing.T, dataDir string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	cli := &CLI{stdout: buf}

	parser, err := rootcmd.New(testutil.Context(t), cli, name, description, kong.Bind(cli))
	require.NoError(t, err)

	kctx, err := parser.Parse(append([]string{"--data-dir", dataDir, "--seed", "42"}, args...))
	require.NoError(t, err)

	err = kctx.Run()
	return buf.String(), err
}

func TestCatalogCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "catalog", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 10 departments")
	assert.FileExists(t, filepath.Join(dir, catalog.DefaultFile))

	_, err = run(t, dir, "catalog", "init")
	assert.ErrorContains(t, err, "--force")

	_, err = run(t, dir, "catalog", "init", "--force")
	require.NoError(t, err)

	out, err = run(t, dir, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Guyuan Branch")
	assert.Contains(t, out, "jd2")

	patch := filepath.Join(dir, "patch.json")
	require.NoError(t, os.WriteFile(patch, []byte(`[
		{"op": "replace", "path": "/0/name", "value": "Ningdong Regional Branch"},
		{"op": "remove", "path": "/9"}
	]`), 0o644))

	out, err = run(t, dir, "catalog", "patch", patch)
	require.NoError(t, err)
	assert.Contains(t, out, "9 departments")

	c, err := catalog.Load(filepath.Join(dir, catalog.DefaultFile))
	require.NoError(t, err)
	nd, err := c.Find("nd")
	require.NoError(t, err)
	assert.Equal(t, "Ningdong Regional Branch", nd.Name)
	_, err = c.Find("jd2")
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[{"op": "remove", "path": "/0/id"}]`), 0o644))
	_, err = run(t, dir, "catalog", "patch", bad)
	assert.Error(t, err)

	c, err = catalog.Load(filepath.Join(dir, catalog.DefaultFile))
	require.NoError(t, err)
	assert.Equal(t, 9, c.Len())
}

func TestDrawCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "draw", "--headless", "jd1", "mechanical")
	require.NoError(t, err)
	assert.Contains(t, out, "Mechanical Equipment Dept. 1 will be inspected for mechanical by")

	out, err = run(t, dir, "draw", "--roll", "0", "--slowdown", "20ms", "--fps", "500", "cy1", "pressure")
	require.NoError(t, err)
	assert.Contains(t, out, "Pressure Equipment Dept. 1, pressure:")
	assert.Contains(t, out, "will be inspected for pressure by")

	_, err = run(t, dir, "draw", "--headless", "cy1", "combined")
	assert.ErrorContains(t, err, "combined")

	_, err = run(t, dir, "draw", "--headless", "nobody", "pressure")
	assert.ErrorContains(t, err, `"nobody"`)

	out, err = run(t, dir, "target", "gy")
	require.NoError(t, err)
	assert.Contains(t, out, "Guyuan Branch will be inspected for pressure by")
	assert.Contains(t, out, "Guyuan Branch will be inspected for mechanical by")

	l, err := ledger.OpenJSONFile(filepath.Join(dir, ledger.DefaultFile))
	require.NoError(t, err)
	records, err := l.All(testutil.Context(t))
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestHistoryCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No draws recorded")

	_, err = run(t, dir, "draw", "--headless", "zw", "pressure")
	require.NoError(t, err)
	_, err = run(t, dir, "draw", "--headless", "zw", "mechanical")
	require.NoError(t, err)

	out, err = run(t, dir, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Zhongwei Branch")

	out, err = run(t, dir, "history", "list", "--json", "--limit", "1")
	require.NoError(t, err)
	var records []ledger.DrawRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 1)
	assert.Equal(t, catalog.CategoryMechanical, records[0].Category)

	_, err = run(t, dir, "history", "clear")
	assert.ErrorContains(t, err, "--yes")

	out, err = run(t, dir, "history", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "History cleared")

	out, err = run(t, dir, "history", "list", "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	assert.Empty(t, records)
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()

	out, _ := run(t, dir, "--ledger", "memory", "batch", "--category", "pressure")
	assert.Contains(t, out, "TARGET")
	assert.Contains(t, out, "Ningdong Branch")
	assert.NotContains(t, out, "Mechanical Equipment Dept. 1")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, name)

	out, err = run(t, t.TempDir(), "version", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(out)))
}
