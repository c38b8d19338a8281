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

func newMenuService(repo *mocks.MenuRepository) *service.MenuService {
	return service.NewMenuService(repo, service.NewDateService(), service.NewMenuPriceService())
}

func TestMenuService_CreateMenu(t *testing.T) {
	tests := []struct {
		name      string
		menu      *domain.Menu
		mockError error
		wantErr   bool
	}{
		{
			name: "valid menu",
			menu: &domain.Menu{
				Name: "Menú del día",
				Date: time.Date(2025, 3, 11, 12, 0, 0, 0, time.UTC),
				Dishes: []domain.MenuDish{
					{DishID: 1, Name: "Causa", Category: domain.CategoryStarter, Price: 4, Quantity: 1},
					{DishID: 2, Name: "Lomo saltado", Category: domain.CategoryMain, Price: 8, Quantity: 1},
					{DishID: 3, Name: "Chicha", Category: domain.CategoryBeverage, Quantity: 1},
				},
				Active: true,
			},
			wantErr: false,
		},
		{
			name:      "database error",
			menu:      &domain.Menu{Name: "Menú", Date: time.Now()},
			mockError: assert.AnError,
			wantErr:   true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockRepo := new(mocks.MenuRepository)
			svc := newMenuService(mockRepo)

			mockRepo.On("CreateMenu", mock.Anything, mock.AnythingOfType("*domain.Menu")).
				Run(func(args mock.Arguments) {
					saved := args.Get(1).(*domain.Menu)
					saved.ID = 7
				}).
				Return(testCase.mockError).Once()

			id, err := svc.CreateMenu(context.Background(), testCase.menu)

			if testCase.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 7, id)
				assert.Equal(t, domain.MenuStatusAccepting, testCase.menu.Status)
				assert.Equal(t, 0, testCase.menu.CurrentOrders)
				assert.Equal(t, 11.0, testCase.menu.Price)
				assert.True(t, testCase.menu.OrderDeadline.Before(testCase.menu.Date),
					"deadline must fall before the menu date")
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestMenuService_GetMenuByID_DerivesClosedStatus(t *testing.T) {
	mockRepo := new(mocks.MenuRepository)
	svc := newMenuService(mockRepo)

	stale := &domain.Menu{
		ID:            3,
		Status:        domain.MenuStatusAccepting,
		OrderDeadline: time.Now().Add(-time.Hour),
	}
	mockRepo.On("GetMenu", mock.Anything, 3).Return(stale, nil).Once()

	menu, err := svc.GetMenuByID(context.Background(), 3)

	assert.NoError(t, err)
	assert.Equal(t, domain.MenuStatusClosed, menu.Status)
	mockRepo.AssertExpectations(t)
}

func TestMenuService_GetMenuByID_NotFound(t *testing.T) {
	mockRepo := new(mocks.MenuRepository)
	svc := newMenuService(mockRepo)

	mockRepo.On("GetMenu", mock.Anything, 99).Return(nil, domain.ErrMenuNotFound).Once()

	menu, err := svc.GetMenuByID(context.Background(), 99)

	assert.ErrorIs(t, err, domain.ErrMenuNotFound)
	assert.Nil(t, menu)
}

func TestMenuService_GetMenusForDate_SortsAcceptingFirst(t *testing.T) {
	mockRepo := new(mocks.MenuRepository)
	svc := newMenuService(mockRepo)

	future := time.Now().Add(48 * time.Hour)
	past := time.Now().Add(-48 * time.Hour)

	stored := []domain.Menu{
		{ID: 1, Date: past, Status: domain.MenuStatusAccepting, OrderDeadline: past},
		{ID: 2, Date: future.Add(24 * time.Hour), Status: domain.MenuStatusAccepting, OrderDeadline: future},
		{ID: 3, Date: future, Status: domain.MenuStatusAccepting, OrderDeadline: future},
	}
	mockRepo.On("ListMenusBetween", mock.Anything, mock.Anything, mock.Anything).
		Return(stored, nil).Once()

	menus, err := svc.GetMenusForDate(context.Background(), time.Now(), future)

	assert.NoError(t, err)
	assert.Len(t, menus, 3)
	// Menu 1 is past its deadline so it derives closed and sinks to the end;
	// the two accepting menus come first in date order.
	assert.Equal(t, 3, menus[0].ID)
	assert.Equal(t, 2, menus[1].ID)
	assert.Equal(t, 1, menus[2].ID)
	assert.Equal(t, domain.MenuStatusClosed, menus[2].Status)
	mockRepo.AssertExpectations(t)
}

func TestMenuService_UpdateMenu_RecomputesPriceAndDeadline(t *testing.T) {
	mockRepo := new(mocks.MenuRepository)
	svc := newMenuService(mockRepo)

	newDate := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	newDishes := []domain.MenuDish{
		{DishID: 4, Category: domain.CategoryMain, Price: 8, Quantity: 1},
		{DishID: 5, Category: domain.CategoryBeverage, Quantity: 1},
	}

	mockRepo.On("UpdateMenu", mock.Anything, 2, mock.MatchedBy(func(u domain.MenuUpdate) bool {
		return u.Price != nil && *u.Price == 11.0 &&
			u.OrderDeadline != nil && u.OrderDeadline.Before(*u.Date)
	})).Return(nil).Once()

	err := svc.UpdateMenu(context.Background(), 2, domain.MenuUpdate{
		Date:   &newDate,
		Dishes: &newDishes,
	})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestMenuService_DeleteMenu(t *testing.T) {
	tests := []struct {
		name         string
		menu         *domain.Menu
		getError     error
		deletedRows  int64
		prepareMocks func(*mocks.MenuRepository, *domain.Menu, error, int64)
		wantErr      error
	}{
		{
			name: "menu without orders",
			menu: &domain.Menu{ID: 1, CurrentOrders: 0},
			prepareMocks: func(m *mocks.MenuRepository, menu *domain.Menu, _ error, rows int64) {
				m.On("GetMenu", mock.Anything, 1).Return(menu, nil).Once()
				m.On("DeleteMenu", mock.Anything, 1).Return(rows, nil).Once()
			},
			deletedRows: 1,
		},
		{
			name: "menu with orders is protected",
			menu: &domain.Menu{ID: 1, CurrentOrders: 4},
			prepareMocks: func(m *mocks.MenuRepository, menu *domain.Menu, _ error, _ int64) {
				m.On("GetMenu", mock.Anything, 1).Return(menu, nil).Once()
			},
			wantErr: domain.ErrMenuHasOrders,
		},
		{
			name:     "menu not found",
			getError: domain.ErrMenuNotFound,
			prepareMocks: func(m *mocks.MenuRepository, _ *domain.Menu, getErr error, _ int64) {
				m.On("GetMenu", mock.Anything, 1).Return(nil, getErr).Once()
			},
			wantErr: domain.ErrMenuNotFound,
		},
		{
			name: "row vanished between read and delete",
			menu: &domain.Menu{ID: 1, CurrentOrders: 0},
			prepareMocks: func(m *mocks.MenuRepository, menu *domain.Menu, _ error, rows int64) {
				m.On("GetMenu", mock.Anything, 1).Return(menu, nil).Once()
				m.On("DeleteMenu", mock.Anything, 1).Return(rows, nil).Once()
			},
			deletedRows: 0,
			wantErr:     domain.ErrMenuNotFound,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockRepo := new(mocks.MenuRepository)
			svc := newMenuService(mockRepo)
			testCase.prepareMocks(mockRepo, testCase.menu, testCase.getError, testCase.deletedRows)

			err := svc.DeleteMenu(context.Background(), 1)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
			} else {
				assert.NoError(t, err)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestMenuService_CanAcceptOrders(t *testing.T) {
	svc := newMenuService(new(mocks.MenuRepository))

	tests := []struct {
		name string
		menu *domain.Menu
		want bool
	}{
		{
			name: "active accepting menu before deadline",
			menu: &domain.Menu{Active: true, Status: domain.MenuStatusAccepting, OrderDeadline: time.Now().Add(time.Hour)},
			want: true,
		},
		{
			name: "inactive menu",
			menu: &domain.Menu{Active: false, Status: domain.MenuStatusAccepting, OrderDeadline: time.Now().Add(time.Hour)},
			want: false,
		},
		{
			name: "closed menu",
			menu: &domain.Menu{Active: true, Status: domain.MenuStatusClosed, OrderDeadline: time.Now().Add(time.Hour)},
			want: false,
		},
		{
			name: "deadline passed",
			menu: &domain.Menu{Active: true, Status: domain.MenuStatusAccepting, OrderDeadline: time.Now().Add(-time.Minute)},
			want: false,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, svc.CanAcceptOrders(testCase.menu))
		})
	}
}

func TestMenuService_EditAndDeleteGates(t *testing.T) {
	svc := newMenuService(new(mocks.MenuRepository))

	fresh := &domain.Menu{CurrentOrders: 0}
	taken := &domain.Menu{CurrentOrders: 2}

	assert.True(t, svc.CanFullyEdit(fresh))
	assert.True(t, svc.CanDelete(fresh))
	assert.False(t, svc.CanFullyEdit(taken))
	assert.False(t, svc.CanDelete(taken))
}
