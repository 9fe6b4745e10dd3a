// Package badger persists screening results in an embedded BadgerHold store.
package badger

import (
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"

	"github.com/mbraddock/equityscan/internal/common"
)

// Store owns the BadgerHold database holding result records. One store per
// process; result storage instances share it.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore opens (creating if needed) the results database under path.
// Badger's own logger is silenced; store lifecycle events go through ours.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create results directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open results database at %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Msg("Results store opened")

	return &Store{db: db, logger: logger}, nil
}

// Close flushes and closes the results database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
