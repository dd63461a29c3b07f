package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Open returns the ledger named by location:
//
//	json               records.json in dataDir (default)
//	json:<path>        JSON file at path
//	memory             in-process only
//	sqlite             draws.db in dataDir
//	sqlite:<path>      sqlite database at path
//	mysql:<dsn>        MySQL, go-sql-driver DSN
func Open(ctx context.Context, location, dataDir string) (Ledger, error) {
	kind, arg, _ := strings.Cut(location, ":")

	switch kind {
	case "", "json":
		if arg == "" {
			arg = filepath.Join(dataDir, DefaultFile)
		}
		return OpenJSONFile(arg)
	case "memory":
		return NewMemory(), nil
	case DriverSQLite:
		if arg == "" {
			arg = filepath.Join(dataDir, "draws.db")
		}
		if err := os.MkdirAll(filepath.Dir(arg), 0o755); err != nil {
			return nil, err
		}
		return OpenSQL(ctx, DriverSQLite, arg)
	case DriverMySQL:
		if arg == "" {
			return nil, fmt.Errorf("mysql ledger needs a DSN (mysql:user:pass@tcp(host)/db)")
		}
		return OpenSQL(ctx, DriverMySQL, arg)
	}
	return nil, fmt.Errorf("unknown ledger %q", location)
}
