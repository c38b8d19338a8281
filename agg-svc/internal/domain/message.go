package domain

import "time"

const (
	EventOrderCreated   = "order_created"
	EventOrderCancelled = "order_cancelled"
	EventOrderCompleted = "order_completed"
)

type OrderEvent struct {
	Type        string    `json:"type"`
	OrderID     int       `json:"order_id"`
	UserID      int       `json:"user_id"`
	MenuID      int       `json:"menu_id"`
	DishIDs     []int     `json:"dish_ids"`
	IsEmergency bool      `json:"is_emergency"`
	Timestamp   time.Time `json:"timestamp"`
}
