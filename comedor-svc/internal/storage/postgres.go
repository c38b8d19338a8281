package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"comedor-backend/comedor-svc/internal/domain"
)

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) EnsureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			last_login TIMESTAMPTZ,
			failed_login_attempts INT NOT NULL DEFAULT 0,
			locked BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS dishes (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(10,2) NOT NULL DEFAULT 0,
			category TEXT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			times_used INT NOT NULL DEFAULT 0,
			last_used TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS menus (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			date TIMESTAMPTZ NOT NULL,
			price NUMERIC(10,2) NOT NULL DEFAULT 0,
			active BOOLEAN NOT NULL DEFAULT TRUE,
			order_deadline TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'accepting_orders',
			current_orders INT NOT NULL DEFAULT 0 CHECK (current_orders >= 0),
			dishes JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id SERIAL PRIMARY KEY,
			user_id INT NOT NULL REFERENCES users(id),
			menu_id INT NOT NULL REFERENCES menus(id),
			order_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			consumption_date TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			qr_code TEXT NOT NULL UNIQUE,
			is_emergency BOOLEAN NOT NULL DEFAULT FALSE,
			selected_dishes JSONB NOT NULL DEFAULT '[]',
			cost JSONB NOT NULL DEFAULT '{}',
			cancelled_at TIMESTAMPTZ,
			completed_at TIMESTAMPTZ,
			last_updated TIMESTAMPTZ,
			updated_by INT
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS orders_user_menu_active
			ON orders (user_id, menu_id) WHERE status <> 'cancelled'`,
	}
	for _, stmt := range statements {
		if _, err := r.DB.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (r *PostgresRepository) CreateDish(ctx context.Context, dish *domain.Dish) error {
	return r.DB.QueryRowContext(ctx,
		`INSERT INTO dishes (name, description, price, category, active)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		dish.Name, dish.Description, dish.Price, dish.Category, dish.Active,
	).Scan(&dish.ID, &dish.CreatedAt)
}

func (r *PostgresRepository) GetDish(ctx context.Context, id int) (*domain.Dish, error) {
	var dish domain.Dish
	var lastUsed sql.NullTime
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, description, price, category, active, times_used, last_used, created_at
		FROM dishes WHERE id = $1`, id).
		Scan(&dish.ID, &dish.Name, &dish.Description, &dish.Price, &dish.Category,
			&dish.Active, &dish.TimesUsed, &lastUsed, &dish.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrDishNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastUsed.Valid {
		dish.LastUsed = lastUsed.Time
	}
	return &dish, nil
}

func (r *PostgresRepository) ListDishes(ctx context.Context, activeOnly bool) ([]domain.Dish, error) {
	query := `
		SELECT id, name, description, price, category, active, times_used, last_used, created_at
		FROM dishes`
	if activeOnly {
		query += ` WHERE active`
	}
	query += ` ORDER BY category, name`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dishes []domain.Dish
	for rows.Next() {
		var dish domain.Dish
		var lastUsed sql.NullTime
		if err := rows.Scan(&dish.ID, &dish.Name, &dish.Description, &dish.Price, &dish.Category,
			&dish.Active, &dish.TimesUsed, &lastUsed, &dish.CreatedAt); err != nil {
			continue
		}
		if lastUsed.Valid {
			dish.LastUsed = lastUsed.Time
		}
		dishes = append(dishes, dish)
	}
	return dishes, rows.Err()
}

func (r *PostgresRepository) UpdateDish(ctx context.Context, dish *domain.Dish) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE dishes SET name=$1, description=$2, price=$3, category=$4, active=$5
		WHERE id=$6`,
		dish.Name, dish.Description, dish.Price, dish.Category, dish.Active, dish.ID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrDishNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteDish(ctx context.Context, id int) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM dishes WHERE id=$1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	return r.DB.QueryRowContext(ctx,
		`INSERT INTO users (email, name, role, active)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		user.Email, user.Name, user.Role, user.Active,
	).Scan(&user.ID, &user.CreatedAt)
}

func (r *PostgresRepository) GetUser(ctx context.Context, id int) (*domain.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx, userSelect+` WHERE id = $1`, id))
}

func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(r.DB.QueryRowContext(ctx, userSelect+` WHERE email = $1`, email))
}

const userSelect = `
	SELECT id, email, name, role, active, last_login, failed_login_attempts, locked, created_at
	FROM users`

func (r *PostgresRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var lastLogin sql.NullTime
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.Active,
		&lastLogin, &user.FailedLoginAttempts, &user.Locked, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		user.LastLogin = lastLogin.Time
	}
	return &user, nil
}

func (r *PostgresRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	return r.listUsers(ctx, userSelect+` ORDER BY name`)
}

func (r *PostgresRepository) ListUsersByRole(ctx context.Context, role string) ([]domain.User, error) {
	return r.listUsers(ctx, userSelect+` WHERE role = $1 ORDER BY name`, role)
}

func (r *PostgresRepository) listUsers(ctx context.Context, query string, args ...interface{}) ([]domain.User, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		var lastLogin sql.NullTime
		if err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.Role, &user.Active,
			&lastLogin, &user.FailedLoginAttempts, &user.Locked, &user.CreatedAt); err != nil {
			continue
		}
		if lastLogin.Valid {
			user.LastLogin = lastLogin.Time
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE users SET name=$1, role=$2, active=$3 WHERE id=$4`,
		user.Name, user.Role, user.Active, user.ID)
	if err != nil {
		return err
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *PostgresRepository) SetUserStatus(ctx context.Context, id int, active bool) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET active=$1 WHERE id=$2", active, id)
	return err
}

func (r *PostgresRepository) SetUserLockState(ctx context.Context, id int, failedAttempts int, locked bool) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET failed_login_attempts=$1, locked=$2 WHERE id=$3",
		failedAttempts, locked, id)
	return err
}

func (r *PostgresRepository) RecordLogin(ctx context.Context, id int, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET last_login=$1 WHERE id=$2", at, id)
	return err
}

func (r *PostgresRepository) DeleteUser(ctx context.Context, id int) (int64, error) {
	result, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=$1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
