// Package ledger stores the history of committed draws.
//
// A Ledger is append-only; the only removal is Clear. All returns records
// oldest first; consumers that need the most recent draw iterate from the
// end.
package ledger

import (
	"context"
	"errors"
)

// ErrClosed is returned by ledgers used after Close.
var ErrClosed = errors.New("ledger closed")

// Ledger is the draw history store.
type Ledger interface {
	Append(ctx context.Context, rec DrawRecord) error
	All(ctx context.Context) ([]DrawRecord, error)
	Clear(ctx context.Context) error
	Close() error
}
