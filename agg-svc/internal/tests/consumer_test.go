package tests

import (
	"testing"
	"time"

	"comedor-backend/agg-svc/internal/domain"
	"comedor-backend/agg-svc/internal/mocks"
	"comedor-backend/agg-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestConsumer_ProcessOrderEvent_Created(t *testing.T) {
	mockStore := new(mocks.StoreInterface)
	consumer := service.NewConsumer(nil, mockStore)

	at := time.Date(2025, 3, 11, 13, 0, 0, 0, time.UTC)
	event := domain.OrderEvent{
		Type:      domain.EventOrderCreated,
		OrderID:   10,
		MenuID:    2,
		DishIDs:   []int{1, 2, 3},
		Timestamp: at,
	}

	mockStore.On("RecordDishUsage", []int{1, 2, 3}).Return(nil).Once()
	mockStore.On("UpdateDailyAnalytics", 2, []int{1, 2, 3}, at).Return(nil).Once()

	consumer.ProcessOrderEvent(event)

	mockStore.AssertExpectations(t)
}

func TestConsumer_ProcessOrderEvent_CreatedStopsOnUsageError(t *testing.T) {
	mockStore := new(mocks.StoreInterface)
	consumer := service.NewConsumer(nil, mockStore)

	event := domain.OrderEvent{
		Type:    domain.EventOrderCreated,
		OrderID: 10,
		MenuID:  2,
		DishIDs: []int{1},
	}

	mockStore.On("RecordDishUsage", []int{1}).Return(assert.AnError).Once()

	consumer.ProcessOrderEvent(event)

	mockStore.AssertNotCalled(t, "UpdateDailyAnalytics", mock.Anything, mock.Anything, mock.Anything)
	mockStore.AssertExpectations(t)
}

func TestConsumer_ProcessOrderEvent_Cancelled(t *testing.T) {
	mockStore := new(mocks.StoreInterface)
	consumer := service.NewConsumer(nil, mockStore)

	at := time.Date(2025, 3, 11, 14, 0, 0, 0, time.UTC)
	event := domain.OrderEvent{
		Type:      domain.EventOrderCancelled,
		OrderID:   10,
		MenuID:    2,
		Timestamp: at,
	}

	mockStore.On("RecordCancellation", 2, at).Return(nil).Once()

	consumer.ProcessOrderEvent(event)

	mockStore.AssertNotCalled(t, "RecordDishUsage", mock.Anything)
	mockStore.AssertExpectations(t)
}

func TestConsumer_ProcessOrderEvent_UnknownTypeIgnored(t *testing.T) {
	mockStore := new(mocks.StoreInterface)
	consumer := service.NewConsumer(nil, mockStore)

	consumer.ProcessOrderEvent(domain.OrderEvent{Type: "order_reheated", OrderID: 10})

	mockStore.AssertNotCalled(t, "RecordDishUsage", mock.Anything)
	mockStore.AssertNotCalled(t, "UpdateDailyAnalytics", mock.Anything, mock.Anything, mock.Anything)
	mockStore.AssertNotCalled(t, "RecordCancellation", mock.Anything, mock.Anything)
}
