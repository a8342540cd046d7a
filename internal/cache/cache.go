package cache

import (
	"context"
	"time"

	"jihanki/backend/internal/domain"
)

type ReportCache interface {
	Get(ctx context.Context, key string) (*domain.SalesReport, bool, error)
	Set(ctx context.Context, key string, value *domain.SalesReport, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ string) (*domain.SalesReport, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ *domain.SalesReport, _ time.Duration) error {
	return nil
}

func (NoopReportCache) Del(_ context.Context, _ string) error {
	return nil
}
