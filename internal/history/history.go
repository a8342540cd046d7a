// Package history defines the append/query log of completed transactions.
package history

import (
	"context"
	"errors"

	"jihanki/backend/internal/domain"
)

var ErrInvalidRecord = errors.New("invalid transaction record")

// Repository stores TransactionRecords. Records are immutable once saved;
// listings are ordered oldest first.
type Repository interface {
	Save(ctx context.Context, record domain.TransactionRecord) error
	GetAll(ctx context.Context) ([]domain.TransactionRecord, error)
	GetBySlot(ctx context.Context, slot domain.SlotID) ([]domain.TransactionRecord, error)
	TotalRevenue(ctx context.Context) (int64, error)
	Clear(ctx context.Context) error
}
