// Package interfaces defines service contracts for equityscan
package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/mbraddock/equityscan/internal/models"
)

// ErrNotFound signals absence on the result store read path. Absence is a
// normal outcome, not a failure; callers test with errors.Is.
var ErrNotFound = errors.New("result record not found")

// ResultStore persists consolidated screening results keyed by (ticker, date).
type ResultStore interface {
	// Upsert inserts the record, or fully overwrites an existing record with
	// the same (ticker, date) key. No partial updates.
	Upsert(ctx context.Context, record *models.ResultRecord) error

	// Get returns the record for the key, or ErrNotFound
	Get(ctx context.Context, ticker string, date time.Time) (*models.ResultRecord, error)

	// List returns all records for a ticker, ascending by date
	List(ctx context.Context, ticker string) ([]*models.ResultRecord, error)
}
