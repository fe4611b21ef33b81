package db

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"welfare-dashboard-go/models"
)

// RosterStore holds the input rows the dashboard analyzes. Derived columns are
// never stored; they are recomputed from these rows on every pass.
type RosterStore interface {
	List(ctx context.Context) ([]models.StudentRecord, error)
	Replace(ctx context.Context, records []models.StudentRecord) error
	Count(ctx context.Context) (int, error)
}

// MemoryStore keeps the roster in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.StudentRecord
}

// NewMemoryStore creates a store preloaded with a copy of records
func NewMemoryStore(records []models.StudentRecord) *MemoryStore {
	return &MemoryStore{records: cloneRecords(records)}
}

func (s *MemoryStore) List(_ context.Context) ([]models.StudentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecords(s.records), nil
}

func (s *MemoryStore) Replace(_ context.Context, records []models.StudentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = cloneRecords(records)
	return nil
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

func cloneRecords(records []models.StudentRecord) []models.StudentRecord {
	out := make([]models.StudentRecord, len(records))
	copy(out, records)
	return out
}

// SeedIfEmpty writes records into the store only when it holds no rows.
// It reports whether seeding happened.
func SeedIfEmpty(ctx context.Context, store RosterStore, records []models.StudentRecord, logger *slog.Logger) (bool, error) {
	if logger == nil {
		logger = slog.Default()
	}

	count, err := store.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check roster size: %w", err)
	}
	if count > 0 {
		logger.InfoContext(ctx, "roster already populated, skipping seed", slog.Int("count", count))
		return false, nil
	}

	logger.InfoContext(ctx, "roster empty, seeding demo data", slog.Int("count", len(records)))
	if err := store.Replace(ctx, records); err != nil {
		return false, fmt.Errorf("failed to seed roster: %w", err)
	}
	return true, nil
}
