package service

import (
	"context"
	"time"

	"comedor-backend/comedor-svc/internal/domain"
	"comedor-backend/comedor-svc/internal/storage"
)

type MenuRepository interface {
	CreateMenu(ctx context.Context, menu *domain.Menu) error
	GetMenu(ctx context.Context, id int) (*domain.Menu, error)
	ListMenusBetween(ctx context.Context, start, end time.Time) ([]domain.Menu, error)
	UpdateMenu(ctx context.Context, id int, updates domain.MenuUpdate) error
	DeleteMenu(ctx context.Context, id int) (int64, error)
}

type OrderRepository interface {
	// CreateOrder persists the order and increments the parent menu's order
	// counter in a single transaction.
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id int) (*domain.Order, error)
	// GetOrderByQRCode and GetUserOrderForMenu return (nil, nil) on no match.
	GetOrderByQRCode(ctx context.Context, code string) (*domain.Order, error)
	GetUserOrderForMenu(ctx context.Context, userID, menuID int) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListUserOrders(ctx context.Context, userID int) ([]domain.Order, error)
	ListPendingOrders(ctx context.Context) ([]domain.Order, error)
	ListEmergencyOrders(ctx context.Context) ([]domain.Order, error)
	// ListUserActiveOrders returns the user's orders still in pending or
	// emergency state.
	ListUserActiveOrders(ctx context.Context, userID int) ([]domain.Order, error)
	MarkCompleted(ctx context.Context, orderID, adminID int) error
	// CancelOrder flips the order to cancelled and decrements the parent
	// menu's counter (floored at zero) in a single transaction.
	CancelOrder(ctx context.Context, orderID, adminID int) error
	UpdateOrderDishes(ctx context.Context, orderID int, dishes []domain.MenuDish, cost domain.OrderCost) error
}

type DishRepository interface {
	CreateDish(ctx context.Context, dish *domain.Dish) error
	GetDish(ctx context.Context, id int) (*domain.Dish, error)
	ListDishes(ctx context.Context, activeOnly bool) ([]domain.Dish, error)
	UpdateDish(ctx context.Context, dish *domain.Dish) error
	DeleteDish(ctx context.Context, id int) (int64, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	ListUsersByRole(ctx context.Context, role string) ([]domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	SetUserStatus(ctx context.Context, id int, active bool) error
	SetUserLockState(ctx context.Context, id int, failedAttempts int, locked bool) error
	RecordLogin(ctx context.Context, id int, at time.Time) error
	DeleteUser(ctx context.Context, id int) (int64, error)
}

// OrderCache is the Redis fast path for the duplicate-order check.
type OrderCache interface {
	OrderMarkerKey(userID, menuID int) string
	Exists(ctx context.Context, key string) (bool, error)
	SetMarker(ctx context.Context, key string) error
}

type OrderPublisher interface {
	PublishOrderEvent(ctx context.Context, event domain.OrderEvent) error
}

type MenuServiceInterface interface {
	CreateMenu(ctx context.Context, menu *domain.Menu) (int, error)
	GetMenuByID(ctx context.Context, id int) (*domain.Menu, error)
	GetMenusForDate(ctx context.Context, startDate, endDate time.Time) ([]domain.Menu, error)
	UpdateMenu(ctx context.Context, id int, updates domain.MenuUpdate) error
	DeleteMenu(ctx context.Context, id int) error
	CanAcceptOrders(menu *domain.Menu) bool
	CanFullyEdit(menu *domain.Menu) bool
	CanDelete(menu *domain.Menu) bool
}

type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, user *domain.User, input domain.CreateOrderInput) (int, error)
	GetOrders(ctx context.Context) ([]domain.Order, error)
	GetUserOrders(ctx context.Context, userID int) ([]domain.Order, error)
	GetPendingOrders(ctx context.Context) ([]domain.Order, error)
	GetEmergencyOrders(ctx context.Context) ([]domain.Order, error)
	GetOrderByID(ctx context.Context, id int) (*domain.Order, error)
	GetUserOrderForMenu(ctx context.Context, userID, menuID int) (*domain.Order, error)
	GetUserActiveOrders(ctx context.Context, userID int) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int, status string, adminID int) error
	CancelOrder(ctx context.Context, orderID int) error
	UpdateOrderDishes(ctx context.Context, orderID int, dishes []domain.MenuDish, total float64) error
	ValidateOrderQR(ctx context.Context, qrCode string) (*domain.Order, error)
	ValidateQRScan(ctx context.Context, payload domain.QRPayload) (*domain.Order, error)
	GenerateOrderQR(ctx context.Context, orderID int) ([]byte, error)
}

type DishServiceInterface interface {
	Create(ctx context.Context, dish *domain.Dish) error
	Get(ctx context.Context, id int) (*domain.Dish, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Dish, error)
	Update(ctx context.Context, dish *domain.Dish) error
	Delete(ctx context.Context, id int) error
}

type UserServiceInterface interface {
	Create(ctx context.Context, user *domain.User) error
	Get(ctx context.Context, id int) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	ListByRole(ctx context.Context, role string) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	SetStatus(ctx context.Context, id int, active bool) error
	Delete(ctx context.Context, id int) error
}

type AuthServiceInterface interface {
	ResolveUser(ctx context.Context, userID int) (*domain.User, error)
	IsAdmin(user *domain.User) bool
	RecordLogin(ctx context.Context, userID int) error
	RecordFailedLogin(ctx context.Context, email string) error
}

var (
	_ MenuRepository  = (*storage.PostgresRepository)(nil)
	_ OrderRepository = (*storage.PostgresRepository)(nil)
	_ DishRepository  = (*storage.PostgresRepository)(nil)
	_ UserRepository  = (*storage.PostgresRepository)(nil)
	_ OrderCache      = (*storage.RedisCache)(nil)
	_ OrderPublisher  = (*storage.KafkaPublisher)(nil)
)
