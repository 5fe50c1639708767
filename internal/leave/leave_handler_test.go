package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-leave/internal/access"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiMeta struct {
	Total int64 `json:"total"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  *apiMeta        `json:"meta"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

type fakeLeaveService struct {
	createFn     func(ctx context.Context, caller access.Caller, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	listMineFn   func(ctx context.Context, caller access.Caller) ([]leave.LeaveResponse, error)
	listScopedFn func(ctx context.Context, caller access.Caller, status string) ([]leave.LeaveResponse, error)
	getByIDFn    func(ctx context.Context, caller access.Caller, id string) (leave.LeaveResponse, error)
	reviewFn     func(ctx context.Context, caller access.Caller, id string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error)
	deleteFn     func(ctx context.Context, caller access.Caller, id string) error
}

func (f *fakeLeaveService) Create(ctx context.Context, caller access.Caller, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.createFn(ctx, caller, req)
}
func (f *fakeLeaveService) ListMine(ctx context.Context, caller access.Caller) ([]leave.LeaveResponse, error) {
	return f.listMineFn(ctx, caller)
}
func (f *fakeLeaveService) ListScoped(ctx context.Context, caller access.Caller, status string) ([]leave.LeaveResponse, error) {
	return f.listScopedFn(ctx, caller, status)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, caller access.Caller, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, caller, id)
}
func (f *fakeLeaveService) Review(ctx context.Context, caller access.Caller, id string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
	return f.reviewFn(ctx, caller, id, req)
}
func (f *fakeLeaveService) Delete(ctx context.Context, caller access.Caller, id string) error {
	return f.deleteFn(ctx, caller, id)
}

type emptyPolicyRepo struct{}

func (emptyPolicyRepo) GetRolePermissions(context.Context) ([]rbac.RolePermission, error) {
	return nil, nil
}

// newRouter mounts the leave routes behind a stub authenticator that trusts the given caller.
func newRouter(t *testing.T, svc leave.Service, caller access.Caller) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	enforcer, err := infra.NewEnforcer()
	require.NoError(t, err)
	rbacSvc := rbac.NewService(emptyPolicyRepo{}, enforcer)
	require.NoError(t, rbacSvc.LoadPolicy(context.Background()))

	auth := func(c *gin.Context) {
		middleware.SetCaller(c, caller)
		c.Next()
	}

	r := gin.New()
	api := r.Group("/api/v1")
	leave.RegisterRoutes(api, leave.NewHandler(svc), auth, rbacSvc, nil)
	return r
}

func do(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestLeaveHandler_Create(t *testing.T) {
	caller := access.Caller{ID: uuid.New(), Role: access.RoleEmployee}

	t.Run("created", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, got access.Caller, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, caller, got)
				assert.Equal(t, "casual", req.LeaveType)
				return leave.LeaveResponse{ID: "l1", Status: leave.StatusPending}, nil
			},
		}
		r := newRouter(t, svc, caller)

		w := do(r, http.MethodPost, "/api/v1/leaves",
			`{"leave_type":"casual","start_date":"2024-06-01","end_date":"2024-06-03","reason":"trip"}`)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("binding failure", func(t *testing.T) {
		r := newRouter(t, &fakeLeaveService{}, caller)

		w := do(r, http.MethodPost, "/api/v1/leaves", `{"leave_type":"vacation"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("admin is stopped at the gate", func(t *testing.T) {
		admin := access.Caller{ID: uuid.New(), Role: access.RoleAdmin}
		r := newRouter(t, &fakeLeaveService{}, admin)

		w := do(r, http.MethodPost, "/api/v1/leaves",
			`{"leave_type":"casual","start_date":"2024-06-01","end_date":"2024-06-03","reason":"trip"}`)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestLeaveHandler_Lists(t *testing.T) {
	manager := access.Caller{ID: uuid.New(), Role: access.RoleManager}
	svc := &fakeLeaveService{
		listMineFn: func(ctx context.Context, _ access.Caller) ([]leave.LeaveResponse, error) {
			return []leave.LeaveResponse{{ID: "mine"}}, nil
		},
		listScopedFn: func(ctx context.Context, _ access.Caller, status string) ([]leave.LeaveResponse, error) {
			assert.Equal(t, "pending", status)
			return []leave.LeaveResponse{{ID: "a"}, {ID: "b"}}, nil
		},
	}
	r := newRouter(t, svc, manager)

	w := do(r, http.MethodGet, "/api/v1/leaves/me", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, int64(1), env.Meta.Total)

	w = do(r, http.MethodGet, "/api/v1/leaves?status=pending", "")
	require.Equal(t, http.StatusOK, w.Code)
	env = decodeEnvelope(t, w.Body.Bytes())
	var got []leave.LeaveResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Len(t, got, 2)
	assert.Equal(t, int64(2), env.Meta.Total)
}

func TestLeaveHandler_ListScopedDeniedForEmployee(t *testing.T) {
	emp := access.Caller{ID: uuid.New(), Role: access.RoleEmployee}
	r := newRouter(t, &fakeLeaveService{}, emp)

	w := do(r, http.MethodGet, "/api/v1/leaves", "")

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLeaveHandler_GetByID(t *testing.T) {
	emp := access.Caller{ID: uuid.New(), Role: access.RoleEmployee}
	id := uuid.NewString()
	svc := &fakeLeaveService{
		getByIDFn: func(ctx context.Context, _ access.Caller, got string) (leave.LeaveResponse, error) {
			assert.Equal(t, id, got)
			return leave.LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		},
	}
	r := newRouter(t, svc, emp)

	w := do(r, http.MethodGet, "/api/v1/leaves/"+id, "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestLeaveHandler_Review(t *testing.T) {
	manager := access.Caller{ID: uuid.New(), Role: access.RoleManager}
	id := uuid.NewString()

	t.Run("forwards status and comment", func(t *testing.T) {
		svc := &fakeLeaveService{
			reviewFn: func(ctx context.Context, _ access.Caller, got string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, id, got)
				assert.Equal(t, "approved", req.Status)
				assert.Equal(t, "ok", req.Comment)
				return leave.LeaveResponse{ID: id, Status: leave.StatusApproved}, nil
			},
		}
		r := newRouter(t, svc, manager)

		w := do(r, http.MethodPut, "/api/v1/leaves/"+id+"/status", `{"status":"approved","comment":"ok"}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("authorization error", func(t *testing.T) {
		svc := &fakeLeaveService{
			reviewFn: func(ctx context.Context, _ access.Caller, _ string, _ leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrReviewForbidden
			},
		}
		r := newRouter(t, svc, manager)

		w := do(r, http.MethodPut, "/api/v1/leaves/"+id+"/status", `{"status":"rejected"}`)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	})

	t.Run("already reviewed", func(t *testing.T) {
		svc := &fakeLeaveService{
			reviewFn: func(ctx context.Context, _ access.Caller, _ string, _ leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveAlreadyReviewed
			},
		}
		r := newRouter(t, svc, manager)

		w := do(r, http.MethodPut, "/api/v1/leaves/"+id+"/status", `{"status":"rejected"}`)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_STATE", env.Error.Code)
	})

	t.Run("employee is stopped at the gate", func(t *testing.T) {
		emp := access.Caller{ID: uuid.New(), Role: access.RoleEmployee}
		r := newRouter(t, &fakeLeaveService{}, emp)

		w := do(r, http.MethodPut, "/api/v1/leaves/"+id+"/status", `{"status":"approved"}`)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestLeaveHandler_Delete(t *testing.T) {
	emp := access.Caller{ID: uuid.New(), Role: access.RoleEmployee}
	id := uuid.NewString()
	called := false
	svc := &fakeLeaveService{
		deleteFn: func(ctx context.Context, got access.Caller, gotID string) error {
			called = true
			assert.Equal(t, emp, got)
			assert.Equal(t, id, gotID)
			return nil
		},
	}
	r := newRouter(t, svc, emp)

	w := do(r, http.MethodDelete, "/api/v1/leaves/"+id, "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, called)
}
