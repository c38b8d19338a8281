package service

import (
	"context"
	"fmt"

	"comedor-backend/comedor-svc/internal/domain"
)

// DishService is the catalog CRUD. Usage counters on dishes are maintained by
// the aggregation service, not here.
type DishService struct {
	repo DishRepository
}

func NewDishService(repo DishRepository) *DishService {
	return &DishService{repo: repo}
}

func (s *DishService) Create(ctx context.Context, dish *domain.Dish) error {
	if !domain.ValidCategory(dish.Category) {
		return domain.ErrInvalidCategory
	}
	return s.repo.CreateDish(ctx, dish)
}

func (s *DishService) Get(ctx context.Context, id int) (*domain.Dish, error) {
	return s.repo.GetDish(ctx, id)
}

func (s *DishService) List(ctx context.Context, activeOnly bool) ([]domain.Dish, error) {
	return s.repo.ListDishes(ctx, activeOnly)
}

func (s *DishService) Update(ctx context.Context, dish *domain.Dish) error {
	if !domain.ValidCategory(dish.Category) {
		return domain.ErrInvalidCategory
	}
	return s.repo.UpdateDish(ctx, dish)
}

func (s *DishService) Delete(ctx context.Context, id int) error {
	rows, err := s.repo.DeleteDish(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete dish: %w", err)
	}
	if rows == 0 {
		return domain.ErrDishNotFound
	}
	return nil
}

var _ DishServiceInterface = (*DishService)(nil)

type UserService struct {
	repo   UserRepository
	orders OrderRepository
}

func NewUserService(repo UserRepository, orders OrderRepository) *UserService {
	return &UserService{repo: repo, orders: orders}
}

func (s *UserService) Create(ctx context.Context, user *domain.User) error {
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	return s.repo.CreateUser(ctx, user)
}

func (s *UserService) Get(ctx context.Context, id int) (*domain.User, error) {
	return s.repo.GetUser(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *UserService) ListByRole(ctx context.Context, role string) ([]domain.User, error) {
	return s.repo.ListUsersByRole(ctx, role)
}

func (s *UserService) Update(ctx context.Context, user *domain.User) error {
	return s.repo.UpdateUser(ctx, user)
}

func (s *UserService) SetStatus(ctx context.Context, id int, active bool) error {
	return s.repo.SetUserStatus(ctx, id, active)
}

// Delete removes a user unless they still hold pending or emergency orders.
func (s *UserService) Delete(ctx context.Context, id int) error {
	active, err := s.orders.ListUserActiveOrders(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check active orders: %w", err)
	}
	if len(active) > 0 {
		return domain.ErrUserHasActiveOrders
	}

	rows, err := s.repo.DeleteUser(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

var _ UserServiceInterface = (*UserService)(nil)
