package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strconv"
	"time"

	"comedor-backend/comedor-svc/internal/domain"
)

const (
	companyShareRate  = 0.7
	employeeShareRate = 0.3
)

type OrderService struct {
	repo      OrderRepository
	menus     MenuServiceInterface
	price     *MenuPriceService
	dates     *DateService
	cache     OrderCache
	publisher OrderPublisher
	qrEncoder QRGenerator
}

func NewOrderService(repo OrderRepository, menus MenuServiceInterface, price *MenuPriceService,
	dates *DateService, cache OrderCache, publisher OrderPublisher, qr QRGenerator) *OrderService {
	return &OrderService{
		repo:      repo,
		menus:     menus,
		price:     price,
		dates:     dates,
		cache:     cache,
		publisher: publisher,
		qrEncoder: qr,
	}
}

// CreateOrder runs the admission pipeline: identity, menu lookup, duplicate
// check, same-day active-order check, deadline check (bypassed for emergency
// orders) and composition validation, then persists the order together with
// the menu counter increment. Returns the new order id.
func (s *OrderService) CreateOrder(ctx context.Context, user *domain.User, input domain.CreateOrderInput) (int, error) {
	if user == nil {
		return 0, domain.ErrNotAuthenticated
	}

	menu, err := s.menus.GetMenuByID(ctx, input.MenuID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		markerKey := s.cache.OrderMarkerKey(user.ID, input.MenuID)
		if exists, _ := s.cache.Exists(ctx, markerKey); exists {
			return 0, domain.ErrDuplicateOrder
		}
	}

	existing, err := s.repo.GetUserOrderForMenu(ctx, user.ID, input.MenuID)
	if err != nil {
		return 0, fmt.Errorf("failed to check existing order: %w", err)
	}
	if existing != nil {
		return 0, domain.ErrDuplicateOrder
	}

	consumptionDate := s.dates.ToUTCDate(input.ConsumptionDate)
	conflict, err := s.hasActiveOrderOn(ctx, user.ID, consumptionDate)
	if err != nil {
		return 0, fmt.Errorf("failed to check active orders: %w", err)
	}
	if conflict {
		return 0, domain.ErrActiveOrderSameDay
	}

	if !input.IsEmergency && !s.menus.CanAcceptOrders(menu) {
		return 0, domain.ErrMenuNotAccepting
	}

	if valid, message := s.price.ValidateMenuComposition(input.SelectedDishes); !valid {
		return 0, fmt.Errorf("%w: %s", domain.ErrInvalidComposition, message)
	}

	status := domain.OrderStatusPending
	if input.IsEmergency {
		status = domain.OrderStatusEmergency
	}

	order := &domain.Order{
		UserID:          user.ID,
		MenuID:          input.MenuID,
		OrderDate:       time.Now().UTC(),
		ConsumptionDate: consumptionDate,
		Status:          status,
		QRCode:          generateQRToken(),
		IsEmergency:     input.IsEmergency,
		SelectedDishes:  snapshotDishes(input.SelectedDishes),
		Cost: domain.OrderCost{
			Total:         input.Total,
			CompanyShare:  input.Total * companyShareRate,
			EmployeeShare: input.Total * employeeShareRate,
		},
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.SetMarker(ctx, s.cache.OrderMarkerKey(user.ID, input.MenuID)); err != nil {
			log.Printf("[comedor-svc] warning: failed to cache order marker: %v", err)
		}
	}

	s.publish(ctx, domain.EventOrderCreated, order)

	return order.ID, nil
}

func (s *OrderService) GetOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListOrders(ctx)
}

func (s *OrderService) GetUserOrders(ctx context.Context, userID int) ([]domain.Order, error) {
	return s.repo.ListUserOrders(ctx, userID)
}

func (s *OrderService) GetPendingOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListPendingOrders(ctx)
}

func (s *OrderService) GetEmergencyOrders(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListEmergencyOrders(ctx)
}

func (s *OrderService) GetOrderByID(ctx context.Context, id int) (*domain.Order, error) {
	return s.repo.GetOrder(ctx, id)
}

func (s *OrderService) GetUserOrderForMenu(ctx context.Context, userID, menuID int) (*domain.Order, error) {
	return s.repo.GetUserOrderForMenu(ctx, userID, menuID)
}

func (s *OrderService) GetUserActiveOrders(ctx context.Context, userID int) ([]domain.Order, error) {
	return s.repo.ListUserActiveOrders(ctx, userID)
}

// UpdateOrderStatus applies the order state machine: pending and emergency
// orders may complete or cancel; completed and cancelled are terminal. A
// transition to cancelled decrements the parent menu's counter exactly once.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID int, status string, adminID int) error {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}

	switch order.Status {
	case domain.OrderStatusPending, domain.OrderStatusEmergency:
	default:
		return domain.ErrOrderFinalized
	}

	switch status {
	case domain.OrderStatusCompleted:
		if err := s.repo.MarkCompleted(ctx, orderID, adminID); err != nil {
			return err
		}
		s.publish(ctx, domain.EventOrderCompleted, order)
		return nil
	case domain.OrderStatusCancelled:
		if err := s.repo.CancelOrder(ctx, orderID, adminID); err != nil {
			return err
		}
		s.publish(ctx, domain.EventOrderCancelled, order)
		return nil
	default:
		return domain.ErrInvalidTransition
	}
}

// CancelOrder is the convenience cancellation path used by employees on their
// own orders.
func (s *OrderService) CancelOrder(ctx context.Context, orderID int) error {
	return s.UpdateOrderStatus(ctx, orderID, domain.OrderStatusCancelled, 0)
}

// UpdateOrderDishes overwrites the selection and cost of an existing order,
// re-validating the composition. Used for pre-deadline edits.
func (s *OrderService) UpdateOrderDishes(ctx context.Context, orderID int, dishes []domain.MenuDish, total float64) error {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return err
	}
	switch order.Status {
	case domain.OrderStatusPending, domain.OrderStatusEmergency:
	default:
		return domain.ErrOrderFinalized
	}

	if valid, message := s.price.ValidateMenuComposition(dishes); !valid {
		return fmt.Errorf("%w: %s", domain.ErrInvalidComposition, message)
	}

	cost := domain.OrderCost{
		Total:         total,
		CompanyShare:  total * companyShareRate,
		EmployeeShare: total * employeeShareRate,
	}
	return s.repo.UpdateOrderDishes(ctx, orderID, snapshotDishes(dishes), cost)
}

// ValidateOrderQR looks an order up by its stored token. Returns nil when no
// order matches.
func (s *OrderService) ValidateOrderQR(ctx context.Context, qrCode string) (*domain.Order, error) {
	return s.repo.GetOrderByQRCode(ctx, qrCode)
}

// ValidateQRScan verifies a scanned payload against the stored order: the
// payload's token must match before the scan is trusted.
func (s *OrderService) ValidateQRScan(ctx context.Context, payload domain.QRPayload) (*domain.Order, error) {
	if payload.OrderID == 0 || payload.QRCode == "" {
		return nil, domain.ErrQRCodeMismatch
	}

	order, err := s.repo.GetOrder(ctx, payload.OrderID)
	if err != nil {
		return nil, err
	}
	if order.QRCode != payload.QRCode {
		return nil, domain.ErrQRCodeMismatch
	}
	return order, nil
}

// GenerateOrderQR renders the order's scan payload as a PNG.
func (s *OrderService) GenerateOrderQR(ctx context.Context, orderID int) ([]byte, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.qrEncoder.Generate(domain.QRPayload{
		OrderID:   order.ID,
		UserID:    order.UserID,
		MenuID:    order.MenuID,
		QRCode:    order.QRCode,
		Status:    order.Status,
		Timestamp: time.Now(),
	})
}

func (s *OrderService) hasActiveOrderOn(ctx context.Context, userID int, day time.Time) (bool, error) {
	active, err := s.repo.ListUserActiveOrders(ctx, userID)
	if err != nil {
		return false, err
	}

	dayStart := s.dates.GetStartOfDay(day)
	dayEnd := s.dates.GetEndOfDay(day)
	for _, order := range active {
		if !order.ConsumptionDate.Before(dayStart) && !order.ConsumptionDate.After(dayEnd) {
			return true, nil
		}
	}
	return false, nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *domain.Order) {
	if s.publisher == nil {
		return
	}

	dishIDs := make([]int, 0, len(order.SelectedDishes))
	for _, dish := range order.SelectedDishes {
		dishIDs = append(dishIDs, dish.DishID)
	}

	err := s.publisher.PublishOrderEvent(ctx, domain.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		UserID:      order.UserID,
		MenuID:      order.MenuID,
		DishIDs:     dishIDs,
		IsEmergency: order.IsEmergency,
		Timestamp:   time.Now(),
	})
	if err != nil {
		log.Printf("[comedor-svc] warning: failed to publish %s event for order %d: %v", eventType, order.ID, err)
	}
}

// generateQRToken builds the opaque order token. Uniqueness is probabilistic;
// the qr_code column's UNIQUE constraint is the backstop.
func generateQRToken() string {
	return "ORDER-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" +
		strconv.FormatInt(rand.Int63(), 36)
}

var _ OrderServiceInterface = (*OrderService)(nil)
