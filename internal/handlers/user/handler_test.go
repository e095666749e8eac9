package user_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"shareit/infras/otel/mocks"
	"shareit/internal/domains/user/model/dto"
	userSvcMocks "shareit/internal/domains/user/service/mocks"
	"shareit/internal/handlers/user"
	"shareit/shared/failure"
)

func newRouter(t *testing.T) (http.Handler, *userSvcMocks.MockUser) {
	t.Helper()

	svc := userSvcMocks.NewMockUser(gomock.NewController(t))
	handler := user.New(svc, mocks.NewOtel())

	router := chi.NewRouter()
	handler.Router(router)

	return router, svc
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))

	return rec
}

func ptr[T any](v T) *T {
	return &v
}

func TestHandler_CreateUser(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		mock     func(svc *userSvcMocks.MockUser)
		wantCode int
		wantBody string
	}{
		{
			name: "created",
			body: `{"name":"Ann","email":"ann@example.com"}`,
			mock: func(svc *userSvcMocks.MockUser) {
				svc.EXPECT().
					Create(gomock.Any(), dto.CreateUserRequest{Name: "Ann", Email: "ann@example.com"}).
					Return(dto.UserResponse{ID: 1, Name: "Ann", Email: "ann@example.com"}, nil)
			},
			wantCode: http.StatusOK,
			wantBody: `{"id":1,"name":"Ann","email":"ann@example.com"}`,
		},
		{
			name:     "invalid email",
			body:     `{"name":"Ann","email":"not-an-email"}`,
			mock:     func(_ *userSvcMocks.MockUser) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "blank name",
			body:     `{"name":"  ","email":"ann@example.com"}`,
			mock:     func(_ *userSvcMocks.MockUser) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			body: `{"name":"Ann","email":"ann@example.com"}`,
			mock: func(svc *userSvcMocks.MockUser) {
				svc.EXPECT().Create(gomock.Any(), gomock.Any()).Return(dto.UserResponse{}, failure.Conflict("email already registered"))
			},
			wantCode: http.StatusConflict,
			wantBody: `{"error":"email already registered"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newRouter(t)
			tt.mock(svc)

			rec := do(router, http.MethodPost, "/users", tt.body)

			require.Equal(t, tt.wantCode, rec.Code)

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestHandler_GetUsers(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().GetAll(gomock.Any()).Return([]dto.UserResponse{{ID: 1, Name: "Ann", Email: "ann@example.com"}}, nil)

	rec := do(router, http.MethodGet, "/users", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Ann","email":"ann@example.com"}]`, rec.Body.String())
}

func TestHandler_GetUserByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().Get(gomock.Any(), int64(3)).Return(dto.UserResponse{ID: 3, Name: "Bob", Email: "bob@example.com"}, nil)

		rec := do(router, http.MethodGet, "/users/3", "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().Get(gomock.Any(), int64(3)).Return(dto.UserResponse{}, failure.NotFound("user not found"))

		rec := do(router, http.MethodGet, "/users/3", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"error":"user not found"}`, rec.Body.String())
	})

	t.Run("bad id", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := do(router, http.MethodGet, "/users/x", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_UpdateUser(t *testing.T) {
	t.Run("partial update", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().
			Update(gomock.Any(), int64(3), dto.UpdateUserRequest{Name: ptr("Robert")}).
			Return(dto.UserResponse{ID: 3, Name: "Robert", Email: "bob@example.com"}, nil)

		rec := do(router, http.MethodPatch, "/users/3", `{"name":"Robert"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":3,"name":"Robert","email":"bob@example.com"}`, rec.Body.String())
	})

	t.Run("invalid email", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := do(router, http.MethodPatch, "/users/3", `{"email":"nope"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_DeleteUser(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().Delete(gomock.Any(), int64(3)).Return(nil)

	rec := do(router, http.MethodDelete, "/users/3", "")

	assert.Equal(t, http.StatusOK, rec.Code)
}
