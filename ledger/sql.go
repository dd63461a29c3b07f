package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	_ "github.com/go-sql-driver/mysql"
	"go.ntppool.org/common/logger"
	_ "modernc.org/sqlite"

	"go.inspectdraw.org/draw/catalog"
)

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

var schemas = map[string]string{
	DriverSQLite: `CREATE TABLE IF NOT EXISTS draw_records (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		ts INTEGER NOT NULL,
		target_id TEXT NOT NULL,
		target_name TEXT NOT NULL,
		category TEXT NOT NULL,
		selected_id TEXT NOT NULL,
		selected_name TEXT NOT NULL,
		selected_origin_id TEXT NOT NULL,
		selected_origin_name TEXT NOT NULL
	)`,
	DriverMySQL: `CREATE TABLE IF NOT EXISTS draw_records (
		seq BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		id CHAR(26) NOT NULL UNIQUE,
		ts BIGINT NOT NULL,
		target_id VARCHAR(64) NOT NULL,
		target_name VARCHAR(255) NOT NULL,
		category VARCHAR(32) NOT NULL,
		selected_id VARCHAR(64) NOT NULL,
		selected_name VARCHAR(255) NOT NULL,
		selected_origin_id VARCHAR(64) NOT NULL,
		selected_origin_name VARCHAR(255) NOT NULL
	)`,
}

// SQL is a ledger in a sqlite or MySQL table. Insertion order (seq)
// is the chronological order.
type SQL struct {
	db     *sql.DB
	driver string
}

// OpenSQL connects to the database, retrying with exponential backoff
// until ctx expires, and creates the draw_records table if needed.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQL, error) {
	log := logger.FromContext(ctx)

	schema, ok := schemas[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported ledger driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// sqlite allows one writer; serialise through a single connection
		db.SetMaxOpenConns(1)
	}

	expback := backoff.NewExponentialBackOff()
	expback.InitialInterval = 500 * time.Millisecond
	expback.MaxInterval = 10 * time.Second

	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		err := db.PingContext(ctx)
		if err != nil {
			log.WarnContext(ctx, "ledger database not ready", "driver", driver, "err", err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(expback),
		backoff.WithMaxElapsedTime(time.Minute),
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQL{db: db, driver: driver}, nil
}

func (l *SQL) Append(ctx context.Context, rec DrawRecord) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO draw_records
			(id, ts, target_id, target_name, category, selected_id, selected_name, selected_origin_id, selected_origin_name)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Timestamp.UnixNano(),
		rec.TargetID, rec.TargetName, rec.Category.String(),
		rec.SelectedID, rec.SelectedName,
		rec.SelectedOriginID, rec.SelectedOriginName,
	)
	if err != nil {
		return fmt.Errorf("insert draw record: %w", err)
	}
	return nil
}

func (l *SQL) All(ctx context.Context) ([]DrawRecord, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT id, ts, target_id, target_name, category, selected_id, selected_name, selected_origin_id, selected_origin_name
		FROM draw_records ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query draw records: %w", err)
	}
	defer rows.Close()

	records := []DrawRecord{}
	for rows.Next() {
		var (
			rec      DrawRecord
			ts       int64
			category string
		)
		err := rows.Scan(&rec.ID, &ts,
			&rec.TargetID, &rec.TargetName, &category,
			&rec.SelectedID, &rec.SelectedName,
			&rec.SelectedOriginID, &rec.SelectedOriginName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan draw record: %w", err)
		}
		rec.Timestamp = time.Unix(0, ts)
		rec.Category, err = catalog.CategoryString(category)
		if err != nil {
			return nil, fmt.Errorf("draw record %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (l *SQL) Clear(ctx context.Context) error {
	if _, err := l.db.ExecContext(ctx, `DELETE FROM draw_records`); err != nil {
		return fmt.Errorf("clear draw records: %w", err)
	}
	return nil
}

func (l *SQL) Close() error {
	return l.db.Close()
}
