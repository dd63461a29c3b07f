package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceFileAtomic(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		existing bool
	}{
		{
			name:     "create new file",
			content:  []byte("new content"),
			existing: false,
		},
		{
			name:     "replace existing file",
			content:  []byte("updated content"),
			existing: true,
		},
		{
			name:     "empty content",
			content:  []byte(""),
			existing: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testFile := filepath.Join(t.TempDir(), "data", "test.json")

			if tt.existing {
				require.NoError(t, os.MkdirAll(filepath.Dir(testFile), 0o755))
				require.NoError(t, os.WriteFile(testFile, []byte("original content"), 0o644))
			}

			require.NoError(t, ReplaceFile(testFile, tt.content))

			got, err := os.ReadFile(testFile)
			require.NoError(t, err)
			assert.Equal(t, tt.content, got)

			_, err = os.Stat(testFile + ".tmp")
			assert.True(t, os.IsNotExist(err), "temporary file should be gone")
		})
	}
}
