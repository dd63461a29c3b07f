package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"go.inspectdraw.org/draw/fileutil"
)

// DefaultFile is the JSON ledger file name inside the data directory.
const DefaultFile = "records.json"

// JSONFile keeps the history as a JSON array on disk. Every Append
// rewrites the file atomically.
type JSONFile struct {
	path string

	mu      sync.Mutex
	records []DrawRecord
}

// OpenJSONFile loads path; a missing file is an empty ledger.
func OpenJSONFile(path string) (*JSONFile, error) {
	l := &JSONFile{path: path}

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return l, nil
	case err != nil:
		return nil, err
	}

	if len(b) > 0 {
		if err := json.Unmarshal(b, &l.records); err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
	}
	return l, nil
}

func (l *JSONFile) Append(_ context.Context, rec DrawRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := append(l.records[:len(l.records):len(l.records)], rec)
	if err := l.write(records); err != nil {
		return err
	}
	l.records = records
	return nil
}

func (l *JSONFile) All(_ context.Context) ([]DrawRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	r := make([]DrawRecord, len(l.records))
	copy(r, l.records)
	return r, nil
}

func (l *JSONFile) Clear(_ context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.write([]DrawRecord{}); err != nil {
		return err
	}
	l.records = nil
	return nil
}

func (l *JSONFile) Close() error { return nil }

func (l *JSONFile) write(records []DrawRecord) error {
	if records == nil {
		records = []DrawRecord{}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	if err := fileutil.ReplaceFile(l.path, b); err != nil {
		return fmt.Errorf("writing ledger: %w", err)
	}
	return nil
}
