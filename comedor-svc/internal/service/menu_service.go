package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"comedor-backend/comedor-svc/internal/domain"
)

type MenuService struct {
	repo  MenuRepository
	dates *DateService
	price *MenuPriceService
}

func NewMenuService(repo MenuRepository, dates *DateService, price *MenuPriceService) *MenuService {
	return &MenuService{
		repo:  repo,
		dates: dates,
		price: price,
	}
}

// CreateMenu normalizes the menu date, derives the deadline and the price,
// snapshots the dishes and persists with a fresh order counter. Returns the
// new menu id.
func (s *MenuService) CreateMenu(ctx context.Context, menu *domain.Menu) (int, error) {
	menu.Date = s.dates.ToUTCDate(menu.Date)
	menu.OrderDeadline = s.dates.CalculateOrderDeadline(menu.Date)
	menu.Dishes = snapshotDishes(menu.Dishes)
	menu.Price = s.price.CalculateMenuPrice(menu.Dishes)
	menu.Status = domain.MenuStatusAccepting
	menu.CurrentOrders = 0

	if err := s.repo.CreateMenu(ctx, menu); err != nil {
		return 0, fmt.Errorf("failed to save menu: %w", err)
	}
	return menu.ID, nil
}

func (s *MenuService) GetMenuByID(ctx context.Context, id int) (*domain.Menu, error) {
	menu, err := s.repo.GetMenu(ctx, id)
	if err != nil {
		return nil, err
	}
	s.deriveStatus(menu)
	return menu, nil
}

// GetMenusForDate loads menus whose date falls inside the day range and
// derives each status fresh: a persisted accepting_orders is never trusted
// past its deadline. Menus still accepting sort first, each group ascending
// by date.
func (s *MenuService) GetMenusForDate(ctx context.Context, startDate, endDate time.Time) ([]domain.Menu, error) {
	start := s.dates.GetStartOfDay(startDate)
	end := s.dates.GetEndOfDay(endDate)

	menus, err := s.repo.ListMenusBetween(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load menus: %w", err)
	}

	for i := range menus {
		s.deriveStatus(&menus[i])
	}

	sort.SliceStable(menus, func(i, j int) bool {
		iAccepting := menus[i].Status == domain.MenuStatusAccepting
		jAccepting := menus[j].Status == domain.MenuStatusAccepting
		if iAccepting != jAccepting {
			return iAccepting
		}
		return menus[i].Date.Before(menus[j].Date)
	})

	return menus, nil
}

// UpdateMenu applies a partial update. When the dishes change they are
// re-snapshotted and the menu price recomputed; when the date changes the
// deadline follows it.
func (s *MenuService) UpdateMenu(ctx context.Context, id int, updates domain.MenuUpdate) error {
	if updates.Dishes != nil {
		dishes := snapshotDishes(*updates.Dishes)
		updates.Dishes = &dishes
		price := s.price.CalculateMenuPrice(dishes)
		updates.Price = &price
	}
	if updates.Date != nil {
		date := s.dates.ToUTCDate(*updates.Date)
		updates.Date = &date
		deadline := s.dates.CalculateOrderDeadline(date)
		updates.OrderDeadline = &deadline
	}
	return s.repo.UpdateMenu(ctx, id, updates)
}

func (s *MenuService) DeleteMenu(ctx context.Context, id int) error {
	menu, err := s.repo.GetMenu(ctx, id)
	if err != nil {
		return err
	}
	if menu.CurrentOrders > 0 {
		return domain.ErrMenuHasOrders
	}

	rows, err := s.repo.DeleteMenu(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete menu: %w", err)
	}
	if rows == 0 {
		return domain.ErrMenuNotFound
	}
	return nil
}

func (s *MenuService) CanAcceptOrders(menu *domain.Menu) bool {
	return menu.Active &&
		menu.Status == domain.MenuStatusAccepting &&
		s.dates.IsBeforeDeadline(time.Now(), menu.OrderDeadline)
}

func (s *MenuService) CanFullyEdit(menu *domain.Menu) bool {
	return menu.CurrentOrders == 0
}

func (s *MenuService) CanDelete(menu *domain.Menu) bool {
	return menu.CurrentOrders == 0
}

func (s *MenuService) deriveStatus(menu *domain.Menu) {
	if menu.Status == domain.MenuStatusAccepting && time.Now().After(menu.OrderDeadline) {
		menu.Status = domain.MenuStatusClosed
	}
}

// snapshotDishes copies line items into the stored MenuDish shape, dropping
// anything beyond the snapshot fields.
func snapshotDishes(dishes []domain.MenuDish) []domain.MenuDish {
	out := make([]domain.MenuDish, 0, len(dishes))
	for _, dish := range dishes {
		out = append(out, domain.MenuDish{
			DishID:      dish.DishID,
			Name:        dish.Name,
			Description: dish.Description,
			Price:       dish.Price,
			Quantity:    dish.Quantity,
			Category:    dish.Category,
		})
	}
	return out
}

var _ MenuServiceInterface = (*MenuService)(nil)
