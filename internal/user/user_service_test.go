package user_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go-leave/internal/access"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/user"
	usererrors "go-leave/internal/user/errors"
	mock_user "go-leave/internal/user/mock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*mock_user.MockRepository, user.Service) {
	ctrl := gomock.NewController(t)
	mockRepo := mock_user.NewMockRepository(ctrl)
	svc := user.NewService(mockRepo)
	return mockRepo, svc
}

func adminCaller() access.Caller {
	return access.Caller{ID: uuid.New(), Role: access.RoleAdmin}
}

func strPtr(s string) *string { return &s }

func TestUserService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo, svc := setup(t)
		managerID := uuid.New()

		mockRepo.EXPECT().
			FindAll(gomock.Any()).
			Return([]user.User{
				{
					ID:        uuid.New(),
					Name:      "Erin",
					Email:     "erin@mail.com",
					Role:      access.RoleEmployee,
					ManagerID: &managerID,
					Manager:   &user.ManagerSummary{ID: managerID, Name: "Mona", Email: "mona@mail.com"},
				},
			}, nil)

		res, err := svc.GetAll(ctx, adminCaller())

		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "erin@mail.com", res[0].Email)
		assert.Equal(t, "employee", res[0].Role)
		require.NotNil(t, res[0].Manager)
		assert.Equal(t, "Mona", res[0].Manager.Name)
		assert.Equal(t, managerID.String(), *res[0].ManagerID)
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		_, svc := setup(t)

		res, err := svc.GetAll(ctx, access.Caller{ID: uuid.New(), Role: access.RoleManager})

		assert.ErrorIs(t, err, usererrors.ErrForbidden)
		assert.Nil(t, res)
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo, svc := setup(t)

		mockRepo.EXPECT().
			FindAll(gomock.Any()).
			Return(nil, errors.New("db error"))

		res, err := svc.GetAll(ctx, adminCaller())

		assert.Error(t, err)
		assert.Nil(t, res)
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodePersistence, appErr.Code)
	})
}

func TestUserService_GetManagers(t *testing.T) {
	mockRepo, svc := setup(t)
	id := uuid.New()

	mockRepo.EXPECT().
		FindByRole(gomock.Any(), access.RoleManager).
		Return([]user.User{{ID: id, Name: "Mona", Email: "mona@mail.com", Department: "Ops", Role: access.RoleManager}}, nil)

	res, err := svc.GetManagers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []user.ManagerResponse{{ID: id.String(), Name: "Mona", Department: "Ops"}}, res)
}

func TestUserService_GetManagers_CanceledCaller(t *testing.T) {
	mockRepo, svc := setup(t)
	id := uuid.New()

	mockRepo.EXPECT().
		FindByRole(gomock.Any(), access.RoleManager).
		DoAndReturn(func(ctx context.Context, _ access.Role) ([]user.User, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return []user.User{{ID: id, Name: "Mona", Role: access.RoleManager}}, nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := svc.GetManagers(ctx)

	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, id.String(), res[0].ID)
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("changes role department and manager", func(t *testing.T) {
		mockRepo, svc := setup(t)
		target := &user.User{ID: uuid.New(), Name: "Erin", Role: access.RoleEmployee}
		manager := &user.User{ID: uuid.New(), Name: "Mona", Role: access.RoleManager}

		mockRepo.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)
		mockRepo.EXPECT().FindByID(gomock.Any(), manager.ID).Return(manager, nil)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *user.User) error {
				assert.Equal(t, access.RoleManager, u.Role)
				assert.Equal(t, "Finance", u.Department)
				require.NotNil(t, u.ManagerID)
				assert.Equal(t, manager.ID, *u.ManagerID)
				return nil
			})
		mockRepo.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)

		managerRaw := manager.ID.String()
		req := user.UpdateUserRequest{
			Role:       strPtr("manager"),
			Department: strPtr(" Finance "),
			ManagerID:  user.OptionalUUID{Set: true, Value: &managerRaw},
		}
		res, err := svc.Update(ctx, adminCaller(), target.ID.String(), req)

		require.NoError(t, err)
		assert.Equal(t, "manager", res.Role)
	})

	t.Run("explicit null clears manager", func(t *testing.T) {
		mockRepo, svc := setup(t)
		oldManager := uuid.New()
		target := &user.User{ID: uuid.New(), Role: access.RoleEmployee, ManagerID: &oldManager}

		var req user.UpdateUserRequest
		require.NoError(t, json.Unmarshal([]byte(`{"manager_id":null}`), &req))

		mockRepo.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil).Times(2)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *user.User) error {
				assert.Nil(t, u.ManagerID)
				return nil
			})

		res, err := svc.Update(ctx, adminCaller(), target.ID.String(), req)

		require.NoError(t, err)
		assert.Nil(t, res.ManagerID)
	})

	t.Run("absent manager keeps existing", func(t *testing.T) {
		mockRepo, svc := setup(t)
		manager := uuid.New()
		target := &user.User{ID: uuid.New(), Role: access.RoleEmployee, ManagerID: &manager}

		var req user.UpdateUserRequest
		require.NoError(t, json.Unmarshal([]byte(`{"department":"Ops"}`), &req))

		mockRepo.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil).Times(2)
		mockRepo.EXPECT().
			Update(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *user.User) error {
				require.NotNil(t, u.ManagerID)
				assert.Equal(t, manager, *u.ManagerID)
				return nil
			})

		_, err := svc.Update(ctx, adminCaller(), target.ID.String(), req)
		require.NoError(t, err)
	})

	t.Run("invalid id", func(t *testing.T) {
		_, svc := setup(t)

		_, err := svc.Update(ctx, adminCaller(), "not-a-uuid", user.UpdateUserRequest{})

		assert.ErrorIs(t, err, usererrors.ErrInvalidUserID)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo, svc := setup(t)
		id := uuid.New()

		mockRepo.EXPECT().FindByID(gomock.Any(), id).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.Update(ctx, adminCaller(), id.String(), user.UpdateUserRequest{})

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})

	t.Run("demoting manager with reports conflicts", func(t *testing.T) {
		mockRepo, svc := setup(t)
		target := &user.User{ID: uuid.New(), Role: access.RoleManager}

		mockRepo.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)
		mockRepo.EXPECT().CountByManager(gomock.Any(), target.ID).Return(int64(2), nil)

		_, err := svc.Update(ctx, adminCaller(), target.ID.String(), user.UpdateUserRequest{Role: strPtr("employee")})

		assert.ErrorIs(t, err, usererrors.ErrManagerHasReports)
	})

	t.Run("manager must have manager role", func(t *testing.T) {
		mockRepo, svc := setup(t)
		target := &user.User{ID: uuid.New(), Role: access.RoleEmployee}
		peer := &user.User{ID: uuid.New(), Role: access.RoleEmployee}

		mockRepo.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)
		mockRepo.EXPECT().FindByID(gomock.Any(), peer.ID).Return(peer, nil)

		raw := peer.ID.String()
		_, err := svc.Update(ctx, adminCaller(), target.ID.String(), user.UpdateUserRequest{
			ManagerID: user.OptionalUUID{Set: true, Value: &raw},
		})

		assert.ErrorIs(t, err, usererrors.ErrNotAManager)
	})

	t.Run("self manager rejected", func(t *testing.T) {
		mockRepo, svc := setup(t)
		target := &user.User{ID: uuid.New(), Role: access.RoleManager}

		mockRepo.EXPECT().FindByID(gomock.Any(), target.ID).Return(target, nil)

		raw := target.ID.String()
		_, err := svc.Update(ctx, adminCaller(), target.ID.String(), user.UpdateUserRequest{
			ManagerID: user.OptionalUUID{Set: true, Value: &raw},
		})

		assert.ErrorIs(t, err, usererrors.ErrSelfManager)
	})

	t.Run("admin cannot change own role", func(t *testing.T) {
		mockRepo, svc := setup(t)
		caller := adminCaller()
		self := &user.User{ID: caller.ID, Role: access.RoleAdmin}

		mockRepo.EXPECT().FindByID(gomock.Any(), caller.ID).Return(self, nil)

		_, err := svc.Update(ctx, caller, caller.ID.String(), user.UpdateUserRequest{Role: strPtr("employee")})

		assert.ErrorIs(t, err, usererrors.ErrCannotChangeOwnRole)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockRepo, svc := setup(t)
		id := uuid.New()

		mockRepo.EXPECT().FindByID(gomock.Any(), id).Return(&user.User{ID: id}, nil)
		mockRepo.EXPECT().Delete(gomock.Any(), id).Return(nil)

		assert.NoError(t, svc.Delete(ctx, adminCaller(), id.String()))
	})

	t.Run("cannot delete self", func(t *testing.T) {
		_, svc := setup(t)
		caller := adminCaller()

		err := svc.Delete(ctx, caller, caller.ID.String())

		assert.ErrorIs(t, err, usererrors.ErrCannotDeleteSelf)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo, svc := setup(t)
		id := uuid.New()

		mockRepo.EXPECT().FindByID(gomock.Any(), id).Return(nil, gorm.ErrRecordNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, adminCaller(), id.String()), usererrors.ErrUserNotFound)
	})

	t.Run("employee forbidden", func(t *testing.T) {
		_, svc := setup(t)

		err := svc.Delete(ctx, access.Caller{ID: uuid.New(), Role: access.RoleEmployee}, uuid.New().String())

		assert.ErrorIs(t, err, usererrors.ErrForbidden)
	})
}

func TestUserService_ResolveCaller(t *testing.T) {
	ctx := context.Background()

	t.Run("live role", func(t *testing.T) {
		mockRepo, svc := setup(t)
		id := uuid.New()

		mockRepo.EXPECT().FindByID(gomock.Any(), id).Return(&user.User{ID: id, Role: access.RoleManager}, nil)

		caller, err := svc.ResolveCaller(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, access.Caller{ID: id, Role: access.RoleManager}, caller)
	})

	t.Run("deleted user", func(t *testing.T) {
		mockRepo, svc := setup(t)
		id := uuid.New()

		mockRepo.EXPECT().FindByID(gomock.Any(), id).Return(nil, gorm.ErrRecordNotFound)

		_, err := svc.ResolveCaller(ctx, id)

		assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
	})
}
