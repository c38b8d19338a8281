package tests

import (
	"context"
	"testing"
	"time"

	"comedor-backend/comedor-svc/internal/domain"
	"comedor-backend/comedor-svc/internal/mocks"
	"comedor-backend/comedor-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type orderServiceMocks struct {
	repo      *mocks.OrderRepository
	menus     *mocks.MenuServiceInterface
	cache     *mocks.OrderCache
	publisher *mocks.OrderPublisher
	qr        *mocks.QRGenerator
}

func newOrderService(t *testing.T) (*service.OrderService, *orderServiceMocks) {
	t.Helper()
	m := &orderServiceMocks{
		repo:      new(mocks.OrderRepository),
		menus:     new(mocks.MenuServiceInterface),
		cache:     new(mocks.OrderCache),
		publisher: new(mocks.OrderPublisher),
		qr:        new(mocks.QRGenerator),
	}
	svc := service.NewOrderService(m.repo, m.menus, service.NewMenuPriceService(),
		service.NewDateService(), m.cache, m.publisher, m.qr)
	return svc, m
}

func (m *orderServiceMocks) assertExpectations(t *testing.T) {
	m.repo.AssertExpectations(t)
	m.menus.AssertExpectations(t)
	m.cache.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
	m.qr.AssertExpectations(t)
}

func validSelection() []domain.MenuDish {
	return []domain.MenuDish{
		{DishID: 1, Name: "Causa", Category: domain.CategoryStarter, Price: 4, Quantity: 1},
		{DishID: 2, Name: "Lomo saltado", Category: domain.CategoryMain, Price: 8, Quantity: 1},
		{DishID: 3, Name: "Chicha", Category: domain.CategoryBeverage, Quantity: 1},
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	employee := &domain.User{ID: 1, Role: domain.RoleUser, Active: true}
	menu := &domain.Menu{ID: 2, Active: true, Status: domain.MenuStatusAccepting,
		OrderDeadline: time.Now().Add(time.Hour)}
	input := domain.CreateOrderInput{
		MenuID:          2,
		ConsumptionDate: time.Now().Add(48 * time.Hour),
		SelectedDishes:  validSelection(),
		Total:           11,
	}

	svc, m := newOrderService(t)

	m.menus.On("GetMenuByID", mock.Anything, 2).Return(menu, nil).Once()
	m.cache.On("OrderMarkerKey", 1, 2).Return("order:1:2").Twice()
	m.cache.On("Exists", mock.Anything, "order:1:2").Return(false, nil).Once()
	m.repo.On("GetUserOrderForMenu", mock.Anything, 1, 2).Return(nil, nil).Once()
	m.repo.On("ListUserActiveOrders", mock.Anything, 1).Return(nil, nil).Once()
	m.menus.On("CanAcceptOrders", menu).Return(true).Once()
	m.repo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Run(func(args mock.Arguments) {
			order := args.Get(1).(*domain.Order)
			order.ID = 10
		}).
		Return(nil).Once()
	m.cache.On("SetMarker", mock.Anything, "order:1:2").Return(nil).Once()
	m.publisher.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
		return e.Type == domain.EventOrderCreated && e.OrderID == 10 && e.MenuID == 2
	})).Return(nil).Once()

	id, err := svc.CreateOrder(context.Background(), employee, input)

	assert.NoError(t, err)
	assert.Equal(t, 10, id)
	m.assertExpectations(t)

	created := m.repo.Calls[2].Arguments.Get(1).(*domain.Order)
	assert.Equal(t, domain.OrderStatusPending, created.Status)
	assert.Equal(t, 11.0, created.Cost.Total)
	assert.InDelta(t, 7.7, created.Cost.CompanyShare, 0.0001)
	assert.InDelta(t, 3.3, created.Cost.EmployeeShare, 0.0001)
	assert.NotEmpty(t, created.QRCode)
	assert.WithinDuration(t, time.Now(), created.OrderDate, time.Second)
}

func TestOrderService_CreateOrder_NoUser(t *testing.T) {
	svc, m := newOrderService(t)

	_, err := svc.CreateOrder(context.Background(), nil, domain.CreateOrderInput{MenuID: 2})

	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
	m.assertExpectations(t)
}

func TestOrderService_CreateOrder_DuplicateInCache(t *testing.T) {
	svc, m := newOrderService(t)
	employee := &domain.User{ID: 1}
	menu := &domain.Menu{ID: 2}

	m.menus.On("GetMenuByID", mock.Anything, 2).Return(menu, nil).Once()
	m.cache.On("OrderMarkerKey", 1, 2).Return("order:1:2").Once()
	m.cache.On("Exists", mock.Anything, "order:1:2").Return(true, nil).Once()

	_, err := svc.CreateOrder(context.Background(), employee, domain.CreateOrderInput{MenuID: 2})

	assert.ErrorIs(t, err, domain.ErrDuplicateOrder)
	m.repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestOrderService_CreateOrder_DuplicateInStore(t *testing.T) {
	svc, m := newOrderService(t)
	employee := &domain.User{ID: 1}
	menu := &domain.Menu{ID: 2}

	m.menus.On("GetMenuByID", mock.Anything, 2).Return(menu, nil).Once()
	m.cache.On("OrderMarkerKey", 1, 2).Return("order:1:2").Once()
	m.cache.On("Exists", mock.Anything, "order:1:2").Return(false, nil).Once()
	m.repo.On("GetUserOrderForMenu", mock.Anything, 1, 2).
		Return(&domain.Order{ID: 5, UserID: 1, MenuID: 2}, nil).Once()

	_, err := svc.CreateOrder(context.Background(), employee, domain.CreateOrderInput{MenuID: 2})

	assert.ErrorIs(t, err, domain.ErrDuplicateOrder)
	m.assertExpectations(t)
}

func TestOrderService_CreateOrder_SameDayActiveOrder(t *testing.T) {
	svc, m := newOrderService(t)
	employee := &domain.User{ID: 1}
	menu := &domain.Menu{ID: 2}
	consumption := time.Now().Add(48 * time.Hour)

	dates := service.NewDateService()
	existing := domain.Order{
		ID:              4,
		Status:          domain.OrderStatusPending,
		ConsumptionDate: dates.ToUTCDate(consumption),
	}

	m.menus.On("GetMenuByID", mock.Anything, 2).Return(menu, nil).Once()
	m.cache.On("OrderMarkerKey", 1, 2).Return("order:1:2").Once()
	m.cache.On("Exists", mock.Anything, "order:1:2").Return(false, nil).Once()
	m.repo.On("GetUserOrderForMenu", mock.Anything, 1, 2).Return(nil, nil).Once()
	m.repo.On("ListUserActiveOrders", mock.Anything, 1).Return([]domain.Order{existing}, nil).Once()

	_, err := svc.CreateOrder(context.Background(), employee, domain.CreateOrderInput{
		MenuID:          2,
		ConsumptionDate: consumption,
	})

	assert.ErrorIs(t, err, domain.ErrActiveOrderSameDay)
	m.assertExpectations(t)
}

func TestOrderService_CreateOrder_MenuClosed(t *testing.T) {
	svc, m := newOrderService(t)
	employee := &domain.User{ID: 1}
	menu := &domain.Menu{ID: 2, Active: true, Status: domain.MenuStatusClosed}

	m.menus.On("GetMenuByID", mock.Anything, 2).Return(menu, nil).Once()
	m.cache.On("OrderMarkerKey", 1, 2).Return("order:1:2").Once()
	m.cache.On("Exists", mock.Anything, "order:1:2").Return(false, nil).Once()
	m.repo.On("GetUserOrderForMenu", mock.Anything, 1, 2).Return(nil, nil).Once()
	m.repo.On("ListUserActiveOrders", mock.Anything, 1).Return(nil, nil).Once()
	m.menus.On("CanAcceptOrders", menu).Return(false).Once()

	_, err := svc.CreateOrder(context.Background(), employee, domain.CreateOrderInput{
		MenuID:         2,
		SelectedDishes: validSelection(),
	})

	assert.ErrorIs(t, err, domain.ErrMenuNotAccepting)
	m.assertExpectations(t)
}

func TestOrderService_CreateOrder_EmergencyBypassesDeadline(t *testing.T) {
	svc, m := newOrderService(t)
	employee := &domain.User{ID: 1}
	menu := &domain.Menu{ID: 2, Active: true, Status: domain.MenuStatusClosed}

	m.menus.On("GetMenuByID", mock.Anything, 2).Return(menu, nil).Once()
	m.cache.On("OrderMarkerKey", 1, 2).Return("order:1:2").Twice()
	m.cache.On("Exists", mock.Anything, "order:1:2").Return(false, nil).Once()
	m.repo.On("GetUserOrderForMenu", mock.Anything, 1, 2).Return(nil, nil).Once()
	m.repo.On("ListUserActiveOrders", mock.Anything, 1).Return(nil, nil).Once()
	m.repo.On("CreateOrder", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Order).ID = 11
		}).
		Return(nil).Once()
	m.cache.On("SetMarker", mock.Anything, "order:1:2").Return(nil).Once()
	m.publisher.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
		return e.IsEmergency
	})).Return(nil).Once()

	id, err := svc.CreateOrder(context.Background(), employee, domain.CreateOrderInput{
		MenuID:         2,
		SelectedDishes: validSelection(),
		Total:          11,
		IsEmergency:    true,
	})

	assert.NoError(t, err)
	assert.Equal(t, 11, id)
	// The deadline gate is never consulted on the emergency path.
	m.menus.AssertNotCalled(t, "CanAcceptOrders", mock.Anything)

	created := m.repo.Calls[2].Arguments.Get(1).(*domain.Order)
	assert.Equal(t, domain.OrderStatusEmergency, created.Status)
	m.assertExpectations(t)
}

func TestOrderService_CreateOrder_InvalidComposition(t *testing.T) {
	svc, m := newOrderService(t)
	employee := &domain.User{ID: 1}
	menu := &domain.Menu{ID: 2, Active: true, Status: domain.MenuStatusAccepting,
		OrderDeadline: time.Now().Add(time.Hour)}

	m.menus.On("GetMenuByID", mock.Anything, 2).Return(menu, nil).Once()
	m.cache.On("OrderMarkerKey", 1, 2).Return("order:1:2").Once()
	m.cache.On("Exists", mock.Anything, "order:1:2").Return(false, nil).Once()
	m.repo.On("GetUserOrderForMenu", mock.Anything, 1, 2).Return(nil, nil).Once()
	m.repo.On("ListUserActiveOrders", mock.Anything, 1).Return(nil, nil).Once()
	m.menus.On("CanAcceptOrders", menu).Return(true).Once()

	_, err := svc.CreateOrder(context.Background(), employee, domain.CreateOrderInput{
		MenuID: 2,
		SelectedDishes: []domain.MenuDish{
			{DishID: 1, Category: domain.CategoryStarter, Quantity: 1},
		},
	})

	assert.ErrorIs(t, err, domain.ErrInvalidComposition)
	m.repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	tests := []struct {
		name         string
		current      string
		target       string
		prepareMocks func(*orderServiceMocks, *domain.Order)
		wantErr      error
	}{
		{
			name:    "pending to completed",
			current: domain.OrderStatusPending,
			target:  domain.OrderStatusCompleted,
			prepareMocks: func(m *orderServiceMocks, order *domain.Order) {
				m.repo.On("MarkCompleted", mock.Anything, order.ID, 9).Return(nil).Once()
				m.publisher.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
					return e.Type == domain.EventOrderCompleted && e.OrderID == order.ID
				})).Return(nil).Once()
			},
		},
		{
			name:    "pending to cancelled publishes the event",
			current: domain.OrderStatusPending,
			target:  domain.OrderStatusCancelled,
			prepareMocks: func(m *orderServiceMocks, order *domain.Order) {
				m.repo.On("CancelOrder", mock.Anything, order.ID, 9).Return(nil).Once()
				m.publisher.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
					return e.Type == domain.EventOrderCancelled && e.OrderID == order.ID
				})).Return(nil).Once()
			},
		},
		{
			name:    "emergency to completed",
			current: domain.OrderStatusEmergency,
			target:  domain.OrderStatusCompleted,
			prepareMocks: func(m *orderServiceMocks, order *domain.Order) {
				m.repo.On("MarkCompleted", mock.Anything, order.ID, 9).Return(nil).Once()
				m.publisher.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(e domain.OrderEvent) bool {
					return e.Type == domain.EventOrderCompleted
				})).Return(nil).Once()
			},
		},
		{
			name:         "cancelled order is terminal",
			current:      domain.OrderStatusCancelled,
			target:       domain.OrderStatusCompleted,
			prepareMocks: func(m *orderServiceMocks, order *domain.Order) {},
			wantErr:      domain.ErrOrderFinalized,
		},
		{
			name:         "completed order is terminal",
			current:      domain.OrderStatusCompleted,
			target:       domain.OrderStatusCancelled,
			prepareMocks: func(m *orderServiceMocks, order *domain.Order) {},
			wantErr:      domain.ErrOrderFinalized,
		},
		{
			name:         "unknown target status",
			current:      domain.OrderStatusPending,
			target:       "delivered",
			prepareMocks: func(m *orderServiceMocks, order *domain.Order) {},
			wantErr:      domain.ErrInvalidTransition,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, m := newOrderService(t)
			order := &domain.Order{ID: 5, UserID: 1, MenuID: 2, Status: testCase.current}

			m.repo.On("GetOrder", mock.Anything, 5).Return(order, nil).Once()
			testCase.prepareMocks(m, order)

			err := svc.UpdateOrderStatus(context.Background(), 5, testCase.target, 9)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			} else {
				assert.NoError(t, err)
			}
			m.assertExpectations(t)
		})
	}
}

func TestOrderService_CancelOrder_AlreadyCancelled(t *testing.T) {
	svc, m := newOrderService(t)
	order := &domain.Order{ID: 5, Status: domain.OrderStatusCancelled}

	m.repo.On("GetOrder", mock.Anything, 5).Return(order, nil).Once()

	err := svc.CancelOrder(context.Background(), 5)

	assert.ErrorIs(t, err, domain.ErrOrderFinalized)
	m.repo.AssertNotCalled(t, "CancelOrder", mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestOrderService_UpdateOrderDishes(t *testing.T) {
	svc, m := newOrderService(t)
	order := &domain.Order{ID: 5, Status: domain.OrderStatusPending}

	m.repo.On("GetOrder", mock.Anything, 5).Return(order, nil).Once()
	m.repo.On("UpdateOrderDishes", mock.Anything, 5, mock.AnythingOfType("[]domain.MenuDish"),
		mock.MatchedBy(func(c domain.OrderCost) bool {
			return c.Total == 10 && c.CompanyShare == 7 && c.EmployeeShare == 3
		})).Return(nil).Once()

	err := svc.UpdateOrderDishes(context.Background(), 5, []domain.MenuDish{
		{DishID: 1, Category: domain.CategoryStarter, Quantity: 1},
		{DishID: 3, Category: domain.CategoryBeverage, Quantity: 1},
	}, 10)

	assert.NoError(t, err)
	m.assertExpectations(t)
}

func TestOrderService_UpdateOrderDishes_FinalizedOrder(t *testing.T) {
	tests := []struct {
		name   string
		status string
	}{
		{name: "cancelled order", status: domain.OrderStatusCancelled},
		{name: "completed order", status: domain.OrderStatusCompleted},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, m := newOrderService(t)
			m.repo.On("GetOrder", mock.Anything, 5).
				Return(&domain.Order{ID: 5, Status: testCase.status}, nil).Once()

			err := svc.UpdateOrderDishes(context.Background(), 5, validSelection(), 11)

			assert.ErrorIs(t, err, domain.ErrOrderFinalized)
			m.repo.AssertNotCalled(t, "UpdateOrderDishes", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			m.assertExpectations(t)
		})
	}
}

func TestOrderService_UpdateOrderDishes_InvalidComposition(t *testing.T) {
	svc, m := newOrderService(t)
	order := &domain.Order{ID: 5, Status: domain.OrderStatusPending}

	m.repo.On("GetOrder", mock.Anything, 5).Return(order, nil).Once()

	err := svc.UpdateOrderDishes(context.Background(), 5, []domain.MenuDish{
		{DishID: 3, Category: domain.CategoryBeverage, Quantity: 1},
	}, 0)

	assert.ErrorIs(t, err, domain.ErrInvalidComposition)
	m.repo.AssertNotCalled(t, "UpdateOrderDishes", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	m.assertExpectations(t)
}

func TestOrderService_ValidateQRScan(t *testing.T) {
	tests := []struct {
		name         string
		payload      domain.QRPayload
		prepareMocks func(*orderServiceMocks)
		wantErr      error
	}{
		{
			name:    "matching token",
			payload: domain.QRPayload{OrderID: 5, QRCode: "ORDER-1-abc"},
			prepareMocks: func(m *orderServiceMocks) {
				m.repo.On("GetOrder", mock.Anything, 5).
					Return(&domain.Order{ID: 5, QRCode: "ORDER-1-abc"}, nil).Once()
			},
		},
		{
			name:    "token mismatch",
			payload: domain.QRPayload{OrderID: 5, QRCode: "ORDER-1-forged"},
			prepareMocks: func(m *orderServiceMocks) {
				m.repo.On("GetOrder", mock.Anything, 5).
					Return(&domain.Order{ID: 5, QRCode: "ORDER-1-abc"}, nil).Once()
			},
			wantErr: domain.ErrQRCodeMismatch,
		},
		{
			name:         "empty payload",
			payload:      domain.QRPayload{},
			prepareMocks: func(m *orderServiceMocks) {},
			wantErr:      domain.ErrQRCodeMismatch,
		},
		{
			name:    "order not found",
			payload: domain.QRPayload{OrderID: 99, QRCode: "ORDER-1-abc"},
			prepareMocks: func(m *orderServiceMocks) {
				m.repo.On("GetOrder", mock.Anything, 99).
					Return(nil, domain.ErrOrderNotFound).Once()
			},
			wantErr: domain.ErrOrderNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			svc, m := newOrderService(t)
			testCase.prepareMocks(m)

			order, err := svc.ValidateQRScan(context.Background(), testCase.payload)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.Nil(t, order)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, testCase.payload.OrderID, order.ID)
			}
			m.assertExpectations(t)
		})
	}
}

func TestOrderService_GenerateOrderQR(t *testing.T) {
	svc, m := newOrderService(t)
	order := &domain.Order{ID: 5, UserID: 1, MenuID: 2, QRCode: "ORDER-1-abc",
		Status: domain.OrderStatusPending}

	m.repo.On("GetOrder", mock.Anything, 5).Return(order, nil).Once()
	m.qr.On("Generate", mock.MatchedBy(func(p domain.QRPayload) bool {
		return p.OrderID == 5 && p.QRCode == "ORDER-1-abc" && p.Status == domain.OrderStatusPending
	})).Return([]byte("png"), nil).Once()

	png, err := svc.GenerateOrderQR(context.Background(), 5)

	assert.NoError(t, err)
	assert.Equal(t, []byte("png"), png)
	m.assertExpectations(t)
}
