package request_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"shareit/config"
	"shareit/infras/otel/mocks"
	itemDto "shareit/internal/domains/item/model/dto"
	"shareit/internal/domains/request/model/dto"
	requestSvcMocks "shareit/internal/domains/request/service/mocks"
	"shareit/internal/handlers/request"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"
	"shareit/transport/http/middleware"
)

const headerUserID = "X-Sharer-User-Id"

func newRouter(t *testing.T) (http.Handler, *requestSvcMocks.MockRequest) {
	t.Helper()

	svc := requestSvcMocks.NewMockRequest(gomock.NewController(t))

	cfg := &config.Config{}
	cfg.App.HeaderUserID = headerUserID

	ot := mocks.NewOtel()
	mw := middleware.NewAppMiddleware(ot, cfg, nil)
	handler := request.New(svc, ot)

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(mw.Identity)
		handler.Router(r)
	})

	return router, svc
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(headerUserID, "3")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestHandler_CreateRequest(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().
			Create(gomock.Any(), int64(3), dto.CreateRequestRequest{Description: "Need a ladder"}).
			Return(dto.RequestResponse{ID: 1, Description: "Need a ladder", Created: "2030-01-01T10:00:00", Items: []itemDto.ItemResponse{}}, nil)

		rec := do(router, http.MethodPost, "/requests", `{"description":"Need a ladder"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id":1,"description":"Need a ladder","created":"2030-01-01T10:00:00","items":[]}`, rec.Body.String())
	})

	t.Run("blank description", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := do(router, http.MethodPost, "/requests", `{"description":" "}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_GetOwnRequests(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().GetOwn(gomock.Any(), int64(3)).Return([]dto.RequestResponse{}, nil)

	rec := do(router, http.MethodGet, "/requests", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_GetOtherRequests(t *testing.T) {
	t.Run("window is passed through", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().GetOthers(gomock.Any(), int64(3), gDto.PageRequest{From: 20, Size: 10}).Return([]dto.RequestResponse{}, nil)

		rec := do(router, http.MethodGet, "/requests/all?from=20&size=10", "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("zero size", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := do(router, http.MethodGet, "/requests/all?size=0", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_GetRequestByID(t *testing.T) {
	t.Run("unknown", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().Get(gomock.Any(), int64(3), int64(9)).Return(dto.RequestResponse{}, failure.NotFound("item request not found"))

		rec := do(router, http.MethodGet, "/requests/9", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := do(router, http.MethodGet, "/requests/0", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
