package domain

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID                  int       `json:"id"`
	Email               string    `json:"email"`
	Name                string    `json:"name"`
	Role                string    `json:"role"`
	Active              bool      `json:"active"`
	LastLogin           time.Time `json:"last_login,omitempty"`
	FailedLoginAttempts int       `json:"failed_login_attempts"`
	Locked              bool      `json:"locked"`
	CreatedAt           time.Time `json:"created_at"`
}

// Dish categories of the daily menu.
const (
	CategoryStarter  = "entrada"
	CategoryMain     = "fondo"
	CategoryDessert  = "postre"
	CategoryBeverage = "bebida"
)

func ValidCategory(category string) bool {
	switch category {
	case CategoryStarter, CategoryMain, CategoryDessert, CategoryBeverage:
		return true
	}
	return false
}

type Dish struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Active      bool      `json:"active"`
	TimesUsed   int       `json:"times_used"`
	LastUsed    time.Time `json:"last_used,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// MenuDish is a denormalized snapshot of a Dish taken at menu-composition
// time. It is persisted as-is inside menus and orders and must not follow
// later edits of the catalog dish. The field names are the stored encoding.
type MenuDish struct {
	DishID      int     `json:"dishId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category"`
}

const (
	MenuStatusAccepting = "accepting_orders"
	MenuStatusClosed    = "closed"
	MenuStatusConfirmed = "confirmed"
)

type Menu struct {
	ID            int        `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	Date          time.Time  `json:"date"`
	Price         float64    `json:"price"`
	Active        bool       `json:"active"`
	OrderDeadline time.Time  `json:"order_deadline"`
	Status        string     `json:"status"`
	CurrentOrders int        `json:"current_orders"`
	Dishes        []MenuDish `json:"dishes"`
	CreatedAt     time.Time  `json:"created_at"`
}

// MenuUpdate is a partial update of a menu. Nil fields are left untouched.
// The order counter is deliberately absent: it only moves inside the order
// repository's transactions.
type MenuUpdate struct {
	Name        *string     `json:"name,omitempty"`
	Description *string     `json:"description,omitempty"`
	Date        *time.Time  `json:"date,omitempty"`
	Active      *bool       `json:"active,omitempty"`
	Status      *string     `json:"status,omitempty"`
	Dishes      *[]MenuDish `json:"dishes,omitempty"`

	// Derived alongside Date/Dishes by the menu service, never set by callers.
	Price         *float64   `json:"-"`
	OrderDeadline *time.Time `json:"-"`
}

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
	OrderStatusEmergency = "emergency"
)

// OrderCost splits the menu price between the company and the employee.
type OrderCost struct {
	Total         float64 `json:"total"`
	CompanyShare  float64 `json:"companyShare"`
	EmployeeShare float64 `json:"employeeShare"`
}

type Order struct {
	ID              int        `json:"id"`
	UserID          int        `json:"user_id"`
	MenuID          int        `json:"menu_id"`
	OrderDate       time.Time  `json:"order_date"`
	ConsumptionDate time.Time  `json:"consumption_date"`
	Status          string     `json:"status"`
	QRCode          string     `json:"qr_code"`
	IsEmergency     bool       `json:"is_emergency"`
	SelectedDishes  []MenuDish `json:"selected_dishes"`
	Cost            OrderCost  `json:"cost"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	LastUpdated     *time.Time `json:"last_updated,omitempty"`
	UpdatedBy       int        `json:"updated_by,omitempty"`
}

// CreateOrderInput carries everything an order admission needs besides the
// resolved user identity.
type CreateOrderInput struct {
	MenuID          int        `json:"menu_id"`
	ConsumptionDate time.Time  `json:"consumption_date"`
	SelectedDishes  []MenuDish `json:"selected_dishes"`
	Total           float64    `json:"total"`
	IsEmergency     bool       `json:"is_emergency"`
}

// QRPayload is the JSON document embedded in the rendered QR image and posted
// back by the scanning workflow.
type QRPayload struct {
	OrderID   int       `json:"orderId"`
	UserID    int       `json:"userId"`
	MenuID    int       `json:"menuId"`
	QRCode    string    `json:"qrCode"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderEvent is published on the orders topic for the aggregation service.
type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     int       `json:"order_id"`
	UserID      int       `json:"user_id"`
	MenuID      int       `json:"menu_id"`
	DishIDs     []int     `json:"dish_ids"`
	IsEmergency bool      `json:"is_emergency"`
	Timestamp   time.Time `json:"timestamp"`
}

const (
	EventOrderCreated   = "order_created"
	EventOrderCancelled = "order_cancelled"
	EventOrderCompleted = "order_completed"
)
