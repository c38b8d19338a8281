package service

import (
	"context"
	"time"

	"comedor-backend/agg-svc/internal/domain"
	"comedor-backend/agg-svc/internal/storage"
)

type StoreInterface interface {
	RecordDishUsage(dishIDs []int) error
	UpdateDailyAnalytics(menuID int, dishIDs []int, at time.Time) error
	RecordCancellation(menuID int, at time.Time) error
}

type ConsumerInterface interface {
	Start(ctx context.Context)
	ProcessOrderEvent(event domain.OrderEvent)
}

var _ StoreInterface = (*storage.Store)(nil)
