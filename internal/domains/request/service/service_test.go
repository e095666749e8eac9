package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"shareit/infras/otel/mocks"
	itemMocks "shareit/internal/domains/item/mocks"
	itemModel "shareit/internal/domains/item/model"
	requestMocks "shareit/internal/domains/request/mocks"
	"shareit/internal/domains/request/model"
	"shareit/internal/domains/request/model/dto"
	"shareit/internal/domains/request/service"
	userModel "shareit/internal/domains/user/model"
	userSvcMocks "shareit/internal/domains/user/service/mocks"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"
)

type fixture struct {
	repo     *requestMocks.MockRequest
	itemRepo *itemMocks.MockItem
	users    *userSvcMocks.MockUser
	svc      service.Request
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:     requestMocks.NewMockRequest(ctrl),
		itemRepo: itemMocks.NewMockItem(ctrl),
		users:    userSvcMocks.NewMockUser(ctrl),
	}

	f.svc = service.New(f.repo, f.itemRepo, f.users, mocks.NewOtel())

	return f
}

func (f fixture) userExists(id int64) {
	f.users.EXPECT().Find(gomock.Any(), id).Return(userModel.User{ID: id}, nil)
}

func int64Ptr(i int64) *int64 {
	return &i
}

func TestRequestService_Create(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		f := newFixture(t)
		f.userExists(1)
		f.repo.EXPECT().
			Insert(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, request model.Request) (int64, error) {
				assert.Equal(t, int64(1), request.RequesterID)
				assert.Equal(t, "Need a ladder", request.Description)

				return 4, nil
			})

		res, err := f.svc.Create(context.Background(), 1, dto.CreateRequestRequest{Description: "Need a ladder"})

		require.NoError(t, err)
		assert.Equal(t, int64(4), res.ID)
		assert.NotEmpty(t, res.Created)
		assert.NotNil(t, res.Items)
		assert.Empty(t, res.Items)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Find(gomock.Any(), int64(1)).Return(userModel.User{}, failure.NotFound("user not found"))

		_, err := f.svc.Create(context.Background(), 1, dto.CreateRequestRequest{Description: "Need a ladder"})

		require.Error(t, err)
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func whereSQL(t *testing.T, filter gDto.FilterGroup) string {
	t.Helper()

	query, _, err := goqu.Dialect("postgres").From("t").Where(filter.Expression()).ToSQL()
	require.NoError(t, err)

	return query
}

func TestRequestService_GetOwn(t *testing.T) {
	t.Run("requests with their answers", func(t *testing.T) {
		f := newFixture(t)
		f.userExists(1)
		f.repo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Request, error) {
				assert.Equal(t, "item_requests.created_at", params.SortBy)
				assert.Equal(t, gDto.SortDirDesc, params.SortDir)
				assert.Zero(t, params.Limit)

				assert.Contains(t, whereSQL(t, filter), `"item_requests"."requester_id" = 1`)

				return []model.Request{{ID: 7}, {ID: 6}}, nil
			})
		f.itemRepo.EXPECT().
			GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]itemModel.Item, error) {
				assert.Contains(t, whereSQL(t, filter), `"items"."request_id" IN (7, 6)`)

				return []itemModel.Item{{ID: 3, Name: "Ladder", RequestID: int64Ptr(6)}}, nil
			})

		res, err := f.svc.GetOwn(context.Background(), 1)

		require.NoError(t, err)
		require.Len(t, res, 2)
		assert.Empty(t, res[0].Items)
		require.Len(t, res[1].Items, 1)
		assert.Equal(t, "Ladder", res[1].Items[0].Name)
	})

	t.Run("no requests skips the item lookup", func(t *testing.T) {
		f := newFixture(t)
		f.userExists(1)
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		res, err := f.svc.GetOwn(context.Background(), 1)

		require.NoError(t, err)
		assert.NotNil(t, res)
		assert.Empty(t, res)
	})
}

func TestRequestService_GetOthers(t *testing.T) {
	f := newFixture(t)
	f.userExists(1)
	f.repo.EXPECT().
		GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Request, error) {
			assert.Equal(t, 1, params.Page)
			assert.Equal(t, 5, params.Limit)

			assert.Contains(t, whereSQL(t, filter), `"item_requests"."requester_id" != 1`)

			return []model.Request{{ID: 2, RequesterID: 9}}, nil
		})
	f.itemRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

	res, err := f.svc.GetOthers(context.Background(), 1, gDto.PageRequest{From: 3, Size: 5})

	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, int64(2), res[0].ID)
}

func TestRequestService_Get(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f fixture)
		wantCode  int
	}{
		{
			name: "found",
			setupMock: func(f fixture) {
				f.userExists(1)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Request{ID: 4, Description: "Need a ladder"}, nil)
				f.itemRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
		},
		{
			name: "not found",
			setupMock: func(f fixture) {
				f.userExists(1)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Request{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "repository error",
			setupMock: func(f fixture) {
				f.userExists(1)
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Request{}, errors.New("database error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setupMock(f)

			res, err := f.svc.Get(context.Background(), 1, 4)

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "Need a ladder", res.Description)
		})
	}
}
