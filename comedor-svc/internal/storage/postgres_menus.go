package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"comedor-backend/comedor-svc/internal/domain"
)

func (r *PostgresRepository) CreateMenu(ctx context.Context, menu *domain.Menu) error {
	dishesJSON, err := json.Marshal(menu.Dishes)
	if err != nil {
		return err
	}
	return r.DB.QueryRowContext(ctx, `
		INSERT INTO menus (name, description, date, price, active, order_deadline, status, current_orders, dishes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		menu.Name, menu.Description, menu.Date, menu.Price, menu.Active,
		menu.OrderDeadline, menu.Status, menu.CurrentOrders, dishesJSON,
	).Scan(&menu.ID, &menu.CreatedAt)
}

const menuSelect = `
	SELECT id, name, description, date, price, active, order_deadline, status, current_orders, dishes, created_at
	FROM menus`

func (r *PostgresRepository) GetMenu(ctx context.Context, id int) (*domain.Menu, error) {
	menu, err := scanMenu(r.DB.QueryRowContext(ctx, menuSelect+` WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrMenuNotFound
	}
	return menu, err
}

func (r *PostgresRepository) ListMenusBetween(ctx context.Context, start, end time.Time) ([]domain.Menu, error) {
	rows, err := r.DB.QueryContext(ctx,
		menuSelect+` WHERE date >= $1 AND date <= $2 ORDER BY date`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var menus []domain.Menu
	for rows.Next() {
		var menu domain.Menu
		var dishesJSON []byte
		if err := rows.Scan(&menu.ID, &menu.Name, &menu.Description, &menu.Date, &menu.Price,
			&menu.Active, &menu.OrderDeadline, &menu.Status, &menu.CurrentOrders,
			&dishesJSON, &menu.CreatedAt); err != nil {
			continue
		}
		if err := json.Unmarshal(dishesJSON, &menu.Dishes); err != nil {
			continue
		}
		menus = append(menus, menu)
	}
	return menus, rows.Err()
}

// UpdateMenu builds the SET clause from the non-nil fields only.
func (r *PostgresRepository) UpdateMenu(ctx context.Context, id int, updates domain.MenuUpdate) error {
	set := make([]string, 0, 8)
	args := make([]interface{}, 0, 8)

	add := func(column string, value interface{}) {
		args = append(args, value)
		set = append(set, column+"=$"+strconv.Itoa(len(args)))
	}

	if updates.Name != nil {
		add("name", *updates.Name)
	}
	if updates.Description != nil {
		add("description", *updates.Description)
	}
	if updates.Date != nil {
		add("date", *updates.Date)
	}
	if updates.Active != nil {
		add("active", *updates.Active)
	}
	if updates.Status != nil {
		add("status", *updates.Status)
	}
	if updates.Dishes != nil {
		dishesJSON, err := json.Marshal(*updates.Dishes)
		if err != nil {
			return err
		}
		add("dishes", dishesJSON)
	}
	if updates.Price != nil {
		add("price", *updates.Price)
	}
	if updates.OrderDeadline != nil {
		add("order_deadline", *updates.OrderDeadline)
	}

	if len(set) == 0 {
		return nil
	}

	args = append(args, id)
	query := "UPDATE menus SET " + joinColumns(set) + " WHERE id=$" + strconv.Itoa(len(args))
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrMenuNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteMenu(ctx context.Context, id int) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM menus WHERE id=$1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMenu(row rowScanner) (*domain.Menu, error) {
	var menu domain.Menu
	var dishesJSON []byte
	err := row.Scan(&menu.ID, &menu.Name, &menu.Description, &menu.Date, &menu.Price,
		&menu.Active, &menu.OrderDeadline, &menu.Status, &menu.CurrentOrders,
		&dishesJSON, &menu.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(dishesJSON, &menu.Dishes); err != nil {
		return nil, err
	}
	return &menu, nil
}

func joinColumns(columns []string) string {
	out := columns[0]
	for _, c := range columns[1:] {
		out += ", " + c
	}
	return out
}
