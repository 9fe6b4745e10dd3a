package badger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/mbraddock/equityscan/internal/common"
	"github.com/mbraddock/equityscan/internal/interfaces"
	"github.com/mbraddock/equityscan/internal/models"
)

type resultStorage struct {
	store  *Store
	logger *common.Logger
}

// NewResultStorage creates a ResultStore backed by BadgerHold. Records are
// keyed by the composite (ticker, date) key; concurrent same-key writers
// serialize inside badger with last-writer-wins, which is safe because the
// pipeline output is deterministic for identical inputs.
func NewResultStorage(store *Store, logger *common.Logger) *resultStorage {
	return &resultStorage{store: store, logger: logger}
}

func (s *resultStorage) Upsert(_ context.Context, record *models.ResultRecord) error {
	if record.Ticker == "" || record.Date.IsZero() {
		return fmt.Errorf("result record requires ticker and date")
	}

	if err := s.store.db.Upsert(record.Key(), record); err != nil {
		return fmt.Errorf("failed to upsert result for %s: %w", record.Key(), err)
	}
	s.logger.Debug().Str("key", record.Key()).Msg("Result record saved")
	return nil
}

func (s *resultStorage) Get(_ context.Context, ticker string, date time.Time) (*models.ResultRecord, error) {
	var record models.ResultRecord
	err := s.store.db.Get(models.ResultKey(ticker, date), &record)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, interfaces.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get result for %s: %w", models.ResultKey(ticker, date), err)
	}
	return &record, nil
}

func (s *resultStorage) List(_ context.Context, ticker string) ([]*models.ResultRecord, error) {
	var records []models.ResultRecord
	if err := s.store.db.Find(&records, badgerhold.Where("Ticker").Eq(ticker)); err != nil {
		return nil, fmt.Errorf("failed to list results for %s: %w", ticker, err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	out := make([]*models.ResultRecord, len(records))
	for i := range records {
		out[i] = &records[i]
	}
	return out, nil
}

// Ensure resultStorage implements ResultStore
var _ interfaces.ResultStore = (*resultStorage)(nil)
