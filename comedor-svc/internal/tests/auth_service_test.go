package tests

import (
	"context"
	"testing"

	"comedor-backend/comedor-svc/internal/domain"
	"comedor-backend/comedor-svc/internal/mocks"
	"comedor-backend/comedor-svc/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAuthService_ResolveUser(t *testing.T) {
	tests := []struct {
		name         string
		userID       int
		prepareMocks func(*mocks.UserRepository)
		wantErr      error
	}{
		{
			name:   "active user",
			userID: 1,
			prepareMocks: func(m *mocks.UserRepository) {
				m.On("GetUser", mock.Anything, 1).
					Return(&domain.User{ID: 1, Active: true}, nil).Once()
			},
		},
		{
			name:         "missing header",
			userID:       0,
			prepareMocks: func(m *mocks.UserRepository) {},
			wantErr:      domain.ErrNotAuthenticated,
		},
		{
			name:   "unknown user",
			userID: 99,
			prepareMocks: func(m *mocks.UserRepository) {
				m.On("GetUser", mock.Anything, 99).Return(nil, domain.ErrUserNotFound).Once()
			},
			wantErr: domain.ErrUserNotFound,
		},
		{
			name:   "locked account",
			userID: 2,
			prepareMocks: func(m *mocks.UserRepository) {
				m.On("GetUser", mock.Anything, 2).
					Return(&domain.User{ID: 2, Active: true, Locked: true}, nil).Once()
			},
			wantErr: domain.ErrAccountLocked,
		},
		{
			name:   "deactivated account",
			userID: 3,
			prepareMocks: func(m *mocks.UserRepository) {
				m.On("GetUser", mock.Anything, 3).
					Return(&domain.User{ID: 3, Active: false}, nil).Once()
			},
			wantErr: domain.ErrUserInactive,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockRepo := new(mocks.UserRepository)
			svc := service.NewAuthService(mockRepo)
			testCase.prepareMocks(mockRepo)

			user, err := svc.ResolveUser(context.Background(), testCase.userID)

			if testCase.wantErr != nil {
				assert.ErrorIs(t, err, testCase.wantErr)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, testCase.userID, user.ID)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_IsAdmin(t *testing.T) {
	svc := service.NewAuthService(new(mocks.UserRepository))

	assert.True(t, svc.IsAdmin(&domain.User{Role: domain.RoleAdmin}))
	assert.False(t, svc.IsAdmin(&domain.User{Role: domain.RoleUser}))
	assert.False(t, svc.IsAdmin(nil))
}

func TestAuthService_RecordLogin_ResetsFailures(t *testing.T) {
	mockRepo := new(mocks.UserRepository)
	svc := service.NewAuthService(mockRepo)

	mockRepo.On("RecordLogin", mock.Anything, 1, mock.AnythingOfType("time.Time")).Return(nil).Once()
	mockRepo.On("SetUserLockState", mock.Anything, 1, 0, false).Return(nil).Once()

	err := svc.RecordLogin(context.Background(), 1)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RecordFailedLogin(t *testing.T) {
	tests := []struct {
		name       string
		attempts   int
		wantLocked bool
	}{
		{name: "first failure", attempts: 0, wantLocked: false},
		{name: "fourth failure stays unlocked", attempts: 3, wantLocked: false},
		{name: "fifth failure locks the account", attempts: 4, wantLocked: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockRepo := new(mocks.UserRepository)
			svc := service.NewAuthService(mockRepo)

			mockRepo.On("GetUserByEmail", mock.Anything, "ana@acme.pe").
				Return(&domain.User{ID: 1, FailedLoginAttempts: testCase.attempts}, nil).Once()
			mockRepo.On("SetUserLockState", mock.Anything, 1, testCase.attempts+1, testCase.wantLocked).
				Return(nil).Once()

			err := svc.RecordFailedLogin(context.Background(), "ana@acme.pe")

			assert.NoError(t, err)
			mockRepo.AssertExpectations(t)
		})
	}
}
