package item_test

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
	"shareit/internal/domains/item/model/dto"
	itemSvcMocks "shareit/internal/domains/item/service/mocks"
	"shareit/internal/handlers/item"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"
	"shareit/transport/http/middleware"
)

const headerUserID = "X-Sharer-User-Id"

func newRouter(t *testing.T) (http.Handler, *itemSvcMocks.MockItem) {
	t.Helper()

	svc := itemSvcMocks.NewMockItem(gomock.NewController(t))

	cfg := &config.Config{}
	cfg.App.HeaderUserID = headerUserID

	ot := mocks.NewOtel()
	mw := middleware.NewAppMiddleware(ot, cfg, nil)
	handler := item.New(svc, ot)

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(mw.Identity)
		handler.Router(r)
	})

	return router, svc
}

func do(router http.Handler, method, target, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != "" {
		req.Header.Set(headerUserID, userID)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func ptr[T any](v T) *T {
	return &v
}

func TestHandler_CreateItem(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		mock     func(svc *itemSvcMocks.MockItem)
		wantCode int
	}{
		{
			name: "created",
			body: `{"name":"Drill","description":"Cordless","available":true}`,
			mock: func(svc *itemSvcMocks.MockItem) {
				svc.EXPECT().
					Create(gomock.Any(), int64(1), dto.CreateItemRequest{Name: "Drill", Description: "Cordless", Available: ptr(true)}).
					Return(dto.ItemResponse{ID: 7, Name: "Drill", Description: "Cordless", Available: true, OwnerID: 1}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "answers a request",
			body: `{"name":"Drill","description":"Cordless","available":true,"requestId":4}`,
			mock: func(svc *itemSvcMocks.MockItem) {
				svc.EXPECT().
					Create(gomock.Any(), int64(1), dto.CreateItemRequest{Name: "Drill", Description: "Cordless", Available: ptr(true), RequestID: ptr(int64(4))}).
					Return(dto.ItemResponse{ID: 7, RequestID: ptr(int64(4))}, nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name:     "availability is required",
			body:     `{"name":"Drill","description":"Cordless"}`,
			mock:     func(_ *itemSvcMocks.MockItem) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "blank name",
			body:     `{"name":"","description":"Cordless","available":true}`,
			mock:     func(_ *itemSvcMocks.MockItem) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown owner",
			body: `{"name":"Drill","description":"Cordless","available":false}`,
			mock: func(svc *itemSvcMocks.MockItem) {
				svc.EXPECT().Create(gomock.Any(), int64(1), gomock.Any()).Return(dto.ItemResponse{}, failure.NotFound("user not found"))
			},
			wantCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, svc := newRouter(t)
			tt.mock(svc)

			rec := do(router, http.MethodPost, "/items", "1", tt.body)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandler_UpdateItem(t *testing.T) {
	t.Run("owner updates availability", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().
			Update(gomock.Any(), int64(1), int64(7), dto.UpdateItemRequest{Available: ptr(false)}).
			Return(dto.ItemResponse{ID: 7, Available: false, OwnerID: 1}, nil)

		rec := do(router, http.MethodPatch, "/items/7", "1", `{"available":false}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"available":false`)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().Update(gomock.Any(), int64(2), int64(7), gomock.Any()).Return(dto.ItemResponse{}, failure.Forbidden("only the owner can edit the item"))

		rec := do(router, http.MethodPatch, "/items/7", "2", `{"name":"Hammer"}`)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := do(router, http.MethodPatch, "/items/7", "", `{"name":"Hammer"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_GetItemByID(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().
		Get(gomock.Any(), int64(2), int64(7)).
		Return(dto.ItemDetailResponse{ItemResponse: dto.ItemResponse{ID: 7, Name: "Drill"}, Comments: []dto.CommentResponse{}}, nil)

	rec := do(router, http.MethodGet, "/items/7", "2", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"comments":[]`)
}

func TestHandler_GetOwnItems(t *testing.T) {
	t.Run("default window", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().GetByOwner(gomock.Any(), int64(1), gDto.PageRequest{From: 1, Size: 10}).Return([]dto.ItemDetailResponse{}, nil)

		rec := do(router, http.MethodGet, "/items", "1", "")

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("negative from", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := do(router, http.MethodGet, "/items?from=-1", "1", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_SearchItems(t *testing.T) {
	router, svc := newRouter(t)

	svc.EXPECT().
		Search(gomock.Any(), "drill", gDto.PageRequest{From: 0, Size: 5}).
		Return([]dto.ItemResponse{{ID: 7, Name: "Drill", Available: true}}, nil)

	rec := do(router, http.MethodGet, "/items/search?text=drill&from=0&size=5", "1", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Drill"`)
}

func TestHandler_AddComment(t *testing.T) {
	t.Run("commented", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().
			AddComment(gomock.Any(), int64(2), int64(7), dto.CreateCommentRequest{Text: "Great"}).
			Return(dto.CommentResponse{ID: 1, Text: "Great", AuthorName: "Bob"}, nil)

		rec := do(router, http.MethodPost, "/items/7/comment", "2", `{"text":"Great"}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"authorName":"Bob"`)
	})

	t.Run("blank text", func(t *testing.T) {
		router, _ := newRouter(t)

		rec := do(router, http.MethodPost, "/items/7/comment", "2", `{"text":"   "}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no finished booking", func(t *testing.T) {
		router, svc := newRouter(t)

		svc.EXPECT().
			AddComment(gomock.Any(), int64(2), int64(7), gomock.Any()).
			Return(dto.CommentResponse{}, failure.InvalidRequest("user has no finished booking of this item"))

		rec := do(router, http.MethodPost, "/items/7/comment", "2", `{"text":"Great"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
