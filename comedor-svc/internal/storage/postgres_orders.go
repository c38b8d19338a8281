package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"comedor-backend/comedor-svc/internal/domain"
)

const uniqueViolation = "23505"

// CreateOrder runs the whole admission write in one transaction: the menu row
// is locked, the duplicate and same-day checks re-run under the lock, and the
// order insert and counter increment commit together. The partial unique
// index on (user_id, menu_id) is the final backstop.
func (r *PostgresRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var currentOrders int
	err = tx.QueryRowContext(ctx,
		"SELECT current_orders FROM menus WHERE id = $1 FOR UPDATE", order.MenuID,
	).Scan(&currentOrders)
	if err == sql.ErrNoRows {
		return domain.ErrMenuNotFound
	}
	if err != nil {
		return err
	}

	var exists bool
	err = tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM orders WHERE user_id = $1 AND menu_id = $2)",
		order.UserID, order.MenuID,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrDuplicateOrder
	}

	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM orders
			WHERE user_id = $1
			  AND status IN ('pending', 'emergency')
			  AND consumption_date = $2
		)`, order.UserID, order.ConsumptionDate,
	).Scan(&exists)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrActiveOrderSameDay
	}

	dishesJSON, err := json.Marshal(order.SelectedDishes)
	if err != nil {
		return err
	}
	costJSON, err := json.Marshal(order.Cost)
	if err != nil {
		return err
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (user_id, menu_id, order_date, consumption_date, status, qr_code, is_emergency, selected_dishes, cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		order.UserID, order.MenuID, order.OrderDate, order.ConsumptionDate,
		order.Status, order.QRCode, order.IsEmergency, dishesJSON, costJSON,
	).Scan(&order.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateOrder
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE menus SET current_orders = current_orders + 1 WHERE id = $1", order.MenuID); err != nil {
		return err
	}

	return tx.Commit()
}

const orderSelect = `
	SELECT id, user_id, menu_id, order_date, consumption_date, status, qr_code, is_emergency,
	       selected_dishes, cost, cancelled_at, completed_at, last_updated, COALESCE(updated_by, 0)
	FROM orders`

func (r *PostgresRepository) GetOrder(ctx context.Context, id int) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx, orderSelect+` WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrOrderNotFound
	}
	return order, err
}

func (r *PostgresRepository) GetOrderByQRCode(ctx context.Context, code string) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx, orderSelect+` WHERE qr_code = $1`, code))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return order, err
}

func (r *PostgresRepository) GetUserOrderForMenu(ctx context.Context, userID, menuID int) (*domain.Order, error) {
	order, err := scanOrder(r.DB.QueryRowContext(ctx,
		orderSelect+` WHERE user_id = $1 AND menu_id = $2 ORDER BY order_date DESC LIMIT 1`,
		userID, menuID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return order, err
}

func (r *PostgresRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return r.listOrders(ctx, orderSelect+` ORDER BY order_date DESC`)
}

func (r *PostgresRepository) ListUserOrders(ctx context.Context, userID int) ([]domain.Order, error) {
	return r.listOrders(ctx, orderSelect+` WHERE user_id = $1 ORDER BY order_date DESC`, userID)
}

func (r *PostgresRepository) ListPendingOrders(ctx context.Context) ([]domain.Order, error) {
	return r.listOrders(ctx, orderSelect+` WHERE status = 'pending' ORDER BY order_date DESC`)
}

func (r *PostgresRepository) ListEmergencyOrders(ctx context.Context) ([]domain.Order, error) {
	return r.listOrders(ctx,
		orderSelect+` WHERE is_emergency AND status IN ('pending', 'emergency') ORDER BY order_date DESC`)
}

func (r *PostgresRepository) ListUserActiveOrders(ctx context.Context, userID int) ([]domain.Order, error) {
	return r.listOrders(ctx,
		orderSelect+` WHERE user_id = $1 AND status IN ('pending', 'emergency') ORDER BY order_date DESC`,
		userID)
}

func (r *PostgresRepository) MarkCompleted(ctx context.Context, orderID, adminID int) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE orders
		SET status = 'completed', completed_at = NOW(), last_updated = NOW(), updated_by = NULLIF($2, 0)
		WHERE id = $1 AND status IN ('pending', 'emergency')`,
		orderID, adminID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrOrderFinalized
	}
	return nil
}

// CancelOrder flips the order and decrements the menu counter in one
// transaction. The status guard makes the decrement fire at most once per
// order; GREATEST keeps the counter from ever going negative.
func (r *PostgresRepository) CancelOrder(ctx context.Context, orderID, adminID int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var menuID int
	var status string
	err = tx.QueryRowContext(ctx,
		"SELECT menu_id, status FROM orders WHERE id = $1 FOR UPDATE", orderID,
	).Scan(&menuID, &status)
	if err == sql.ErrNoRows {
		return domain.ErrOrderNotFound
	}
	if err != nil {
		return err
	}
	if status == domain.OrderStatusCancelled || status == domain.OrderStatusCompleted {
		return domain.ErrOrderFinalized
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = 'cancelled', cancelled_at = NOW(), last_updated = NOW(), updated_by = NULLIF($2, 0)
		WHERE id = $1`, orderID, adminID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE menus SET current_orders = GREATEST(current_orders - 1, 0) WHERE id = $1", menuID); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *PostgresRepository) UpdateOrderDishes(ctx context.Context, orderID int, dishes []domain.MenuDish, cost domain.OrderCost) error {
	dishesJSON, err := json.Marshal(dishes)
	if err != nil {
		return err
	}
	costJSON, err := json.Marshal(cost)
	if err != nil {
		return err
	}

	result, err := r.DB.ExecContext(ctx, `
		UPDATE orders SET selected_dishes = $1, cost = $2, last_updated = NOW()
		WHERE id = $3`, dishesJSON, costJSON, orderID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *PostgresRepository) listOrders(ctx context.Context, query string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			continue
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var dishesJSON, costJSON []byte
	var cancelledAt, completedAt, lastUpdated sql.NullTime
	err := row.Scan(&order.ID, &order.UserID, &order.MenuID, &order.OrderDate, &order.ConsumptionDate,
		&order.Status, &order.QRCode, &order.IsEmergency, &dishesJSON, &costJSON,
		&cancelledAt, &completedAt, &lastUpdated, &order.UpdatedBy)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(dishesJSON, &order.SelectedDishes); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(costJSON, &order.Cost); err != nil {
		return nil, err
	}
	if cancelledAt.Valid {
		order.CancelledAt = &cancelledAt.Time
	}
	if completedAt.Valid {
		order.CompletedAt = &completedAt.Time
	}
	if lastUpdated.Valid {
		order.LastUpdated = &lastUpdated.Time
	}
	return &order, nil
}
