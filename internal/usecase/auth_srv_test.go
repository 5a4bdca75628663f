package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/dto/request"
	"venue-booking/pkg/apperror"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAuthService(t *testing.T) (*authService, *mocks) {
	t.Helper()
	m, repo := newMocks()
	config := &utils.Config{JWT: utils.JWTConfig{Secret: "unit-test-secret", ExpiryHours: 24}}
	// the real clock, since parsed tokens are checked against it
	return NewAuthService(repo, config, zap.NewNop()).(*authService), m
}

func storedUser(t *testing.T, password string, role entity.UserRole) *entity.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	return &entity.User{
		Base:         entity.Base{ID: uuid.New()},
		Name:         "Raka",
		Email:        "raka@example.com",
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Owner registration issues a session token", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.user.On("FindByEmail", mock.Anything, "raka@example.com").Return(nil, nil)
		m.user.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
			return u.Role == entity.RoleOwner && u.IsActive && u.PasswordHash != "secret123"
		})).Return(nil)

		var session *entity.Session
		m.session.On("Create", mock.Anything, mock.AnythingOfType("*entity.Session")).
			Run(func(args mock.Arguments) { session = args.Get(1).(*entity.Session) }).
			Return(nil)

		resp, err := svc.Register(ctx, &request.RegisterRequest{
			Name:     "Raka",
			Email:    "raka@example.com",
			Password: "secret123",
			Role:     "owner",
		})

		require.NoError(t, err)
		assert.Equal(t, entity.RoleOwner, resp.Role)

		claims, err := utils.ParseSessionToken("unit-test-secret", resp.Token)
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, session.Token.String(), claims.Sid)
		assert.Equal(t, resp.UserID, claims.Subject)
		assert.Equal(t, "owner", claims.Role)
	})

	t.Run("Defaults to customer", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.user.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, nil)
		m.user.On("Create", mock.Anything, mock.Anything).Return(nil)
		m.session.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.Register(ctx, &request.RegisterRequest{Name: "Dewi", Email: "dewi@example.com", Password: "secret123"})

		require.NoError(t, err)
		assert.Equal(t, entity.RoleCustomer, resp.Role)
	})

	t.Run("Admin is not self-service", func(t *testing.T) {
		svc, m := newAuthService(t)

		_, err := svc.Register(ctx, &request.RegisterRequest{Name: "Root", Email: "root@example.com", Password: "secret123", Role: "admin"})

		assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
		m.user.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Email taken", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.user.On("FindByEmail", mock.Anything, "raka@example.com").Return(storedUser(t, "secret123", entity.RoleCustomer), nil)

		_, err := svc.Register(ctx, &request.RegisterRequest{Name: "Raka", Email: "raka@example.com", Password: "secret123"})

		assert.ErrorIs(t, err, apperror.ErrEmailTaken)
	})

	t.Run("Email taken by a concurrent insert", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.user.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, nil)
		m.user.On("Create", mock.Anything, mock.Anything).Return(apperror.ErrEmailTaken.Wrap(errors.New("23505")))

		_, err := svc.Register(ctx, &request.RegisterRequest{Name: "Raka", Email: "raka@example.com", Password: "secret123"})

		assert.ErrorIs(t, err, apperror.ErrEmailTaken)
		m.session.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid credentials", func(t *testing.T) {
		svc, m := newAuthService(t)
		user := storedUser(t, "secret123", entity.RoleCustomer)
		m.user.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
		m.session.On("Create", mock.Anything, mock.MatchedBy(func(s *entity.Session) bool {
			return s.UserID == user.ID && s.ExpiresAt.After(time.Now().Add(23*time.Hour))
		})).Return(nil)

		resp, err := svc.Login(ctx, &request.LoginRequest{Email: user.Email, Password: "secret123"})

		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), resp.UserID)
		assert.NotEmpty(t, resp.Token)
	})

	t.Run("Wrong password", func(t *testing.T) {
		svc, m := newAuthService(t)
		user := storedUser(t, "secret123", entity.RoleCustomer)
		m.user.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

		_, err := svc.Login(ctx, &request.LoginRequest{Email: user.Email, Password: "wrong-pass"})

		assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	})

	t.Run("Unknown email", func(t *testing.T) {
		svc, m := newAuthService(t)
		m.user.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, nil)

		_, err := svc.Login(ctx, &request.LoginRequest{Email: "ghost@example.com", Password: "secret123"})

		assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
	})

	t.Run("Deactivated account", func(t *testing.T) {
		svc, m := newAuthService(t)
		user := storedUser(t, "secret123", entity.RoleOwner)
		user.IsActive = false
		m.user.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

		_, err := svc.Login(ctx, &request.LoginRequest{Email: user.Email, Password: "secret123"})

		assert.ErrorIs(t, err, apperror.ErrAccountInactive)
		m.session.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Logout(t *testing.T) {
	svc, m := newAuthService(t)
	token := uuid.New()
	m.session.On("Revoke", mock.Anything, token).Return(nil)

	require.NoError(t, svc.Logout(context.Background(), token.String()))
	m.session.AssertExpectations(t)

	err := svc.Logout(context.Background(), "not-a-uuid")
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))
}

func TestAuthService_Profile(t *testing.T) {
	svc, m := newAuthService(t)
	user := storedUser(t, "secret123", entity.RoleOwner)
	missing := uuid.New()
	m.user.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	m.user.On("FindByID", mock.Anything, missing).Return(nil, nil)

	resp, err := svc.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "raka@example.com", resp.Email)

	_, err = svc.Profile(context.Background(), missing)
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)
}
