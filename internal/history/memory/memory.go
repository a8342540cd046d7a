// Package memory is the in-memory transaction history used when no
// DATABASE_URL is configured.
package memory

import (
	"context"
	"sync"
	"time"

	"jihanki/backend/internal/domain"
	"jihanki/backend/internal/history"
)

type Store struct {
	mu      sync.RWMutex
	records []domain.TransactionRecord
}

func New() *Store {
	return &Store{records: make([]domain.TransactionRecord, 0, 64)}
}

func (s *Store) Save(_ context.Context, record domain.TransactionRecord) error {
	if record.ID == "" || record.SlotID < 1 || record.PriceAmount < 0 {
		return history.ErrInvalidRecord
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return nil
}

func (s *Store) GetAll(_ context.Context) ([]domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TransactionRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

func (s *Store) GetBySlot(_ context.Context, slot domain.SlotID) ([]domain.TransactionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TransactionRecord, 0, len(s.records))
	for _, record := range s.records {
		if record.SlotID == slot {
			out = append(out, record)
		}
	}
	return out, nil
}

func (s *Store) TotalRevenue(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := int64(0)
	for _, record := range s.records {
		total += record.PriceAmount
	}
	return total, nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = s.records[:0]
	return nil
}
