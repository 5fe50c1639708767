package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-leave/internal/access"
	"go-leave/internal/auth"
	autherrors "go-leave/internal/auth/errors"
	"go-leave/internal/auth/token"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/user"
	usererrors "go-leave/internal/user/errors"
	mock_user "go-leave/internal/user/mock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func setup(t *testing.T) (*mock_user.MockRepository, *token.Manager, auth.Service) {
	ctrl := gomock.NewController(t)
	repo := mock_user.NewMockRepository(ctrl)
	tokens := token.NewManager(testSecret, time.Hour)
	return repo, tokens, auth.NewService(repo, tokens, bcrypt.MinCost)
}

// expectCreateAndReload stores the created user and returns it on the follow-up lookup.
func expectCreateAndReload(repo *mock_user.MockRepository, check func(u *user.User)) {
	var stored *user.User
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, u *user.User) error {
			check(u)
			stored = u
			return nil
		})
	repo.EXPECT().FindByID(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, id uuid.UUID) (*user.User, error) {
			return stored, nil
		})
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to employee and hashes the password", func(t *testing.T) {
		repo, _, svc := setup(t)
		expectCreateAndReload(repo, func(u *user.User) {
			assert.Equal(t, access.RoleEmployee, u.Role)
			assert.Equal(t, "erin@mail.com", u.Email)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret1")))
			assert.Nil(t, u.ManagerID)
		})

		res, err := svc.Register(ctx, auth.RegisterRequest{
			Name:     "Erin",
			Email:    " Erin@Mail.com ",
			Password: "secret1",
		})

		require.NoError(t, err)
		assert.Equal(t, "employee", res.Role)
	})

	t.Run("with a manager", func(t *testing.T) {
		repo, _, svc := setup(t)
		managerID := uuid.New()
		repo.EXPECT().FindByID(gomock.Any(), managerID).
			Return(&user.User{ID: managerID, Role: access.RoleManager}, nil)
		expectCreateAndReload(repo, func(u *user.User) {
			require.NotNil(t, u.ManagerID)
			assert.Equal(t, managerID, *u.ManagerID)
		})

		_, err := svc.Register(ctx, auth.RegisterRequest{
			Name:      "Erin",
			Email:     "erin@mail.com",
			Password:  "secret1",
			ManagerID: managerID.String(),
		})

		require.NoError(t, err)
	})

	t.Run("manager reference must be a manager", func(t *testing.T) {
		repo, _, svc := setup(t)
		managerID := uuid.New()
		repo.EXPECT().FindByID(gomock.Any(), managerID).
			Return(&user.User{ID: managerID, Role: access.RoleEmployee}, nil)

		_, err := svc.Register(ctx, auth.RegisterRequest{
			Name:      "Erin",
			Email:     "erin@mail.com",
			Password:  "secret1",
			ManagerID: managerID.String(),
		})

		assert.ErrorIs(t, err, usererrors.ErrNotAManager)
	})

	t.Run("admin cannot self register", func(t *testing.T) {
		_, _, svc := setup(t)

		_, err := svc.Register(ctx, auth.RegisterRequest{
			Name: "Root", Email: "root@mail.com", Password: "secret1", Role: "admin",
		})

		assert.ErrorIs(t, err, autherrors.ErrRoleNotAllowed)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo, _, svc := setup(t)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(&pgconn.PgError{Code: "23505"})

		_, err := svc.Register(ctx, auth.RegisterRequest{
			Name: "Erin", Email: "erin@mail.com", Password: "secret1", Role: "manager",
		})

		assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
	})

	t.Run("store failure", func(t *testing.T) {
		repo, _, svc := setup(t)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := svc.Register(ctx, auth.RegisterRequest{
			Name: "Erin", Email: "erin@mail.com", Password: "secret1",
		})

		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodePersistence, appErr.Code)
	})
}

func TestAuthService_CreateAdmin(t *testing.T) {
	repo, _, svc := setup(t)
	expectCreateAndReload(repo, func(u *user.User) {
		assert.Equal(t, access.RoleAdmin, u.Role)
	})

	res, err := svc.CreateAdmin(context.Background(), auth.AdminRequest{
		Name: "Root", Email: "root@mail.com", Password: "secret1",
	})

	require.NoError(t, err)
	assert.Equal(t, "admin", res.Role)

	_, err = svc.CreateAdmin(context.Background(), auth.AdminRequest{Name: "Root", Email: "root@mail.com", Password: "123"})
	assert.ErrorIs(t, err, apperror.InvalidField("password"))
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &user.User{
		ID:       uuid.New(),
		Name:     "Mona",
		Email:    "mona@mail.com",
		Password: string(hash),
		Role:     access.RoleManager,
	}

	t.Run("issues a token carrying id and role", func(t *testing.T) {
		repo, tokens, svc := setup(t)
		repo.EXPECT().FindByEmail(gomock.Any(), "mona@mail.com").Return(stored, nil)

		res, err := svc.Login(ctx, auth.LoginRequest{Email: "mona@mail.com", Password: "secret1"})

		require.NoError(t, err)
		assert.Equal(t, "Bearer", res.TokenType)
		assert.Equal(t, stored.ID.String(), res.User.ID)
		claims, err := tokens.Parse(res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, claims.UserID)
		assert.Equal(t, "manager", claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo, _, svc := setup(t)
		repo.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(stored, nil)

		_, err := svc.Login(ctx, auth.LoginRequest{Email: "mona@mail.com", Password: "nope"})

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo, _, svc := setup(t)
		repo.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Login(ctx, auth.LoginRequest{Email: "ghost@mail.com", Password: "secret1"})

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
	})
}

func TestAuthService_Me(t *testing.T) {
	repo, _, svc := setup(t)
	id := uuid.New()
	repo.EXPECT().FindByID(gomock.Any(), id).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Me(context.Background(), id)

	assert.ErrorIs(t, err, autherrors.ErrAccountNotFound)
}
