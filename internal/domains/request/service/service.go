package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"shareit/infras/otel"
	itemModel "shareit/internal/domains/item/model"
	itemRepo "shareit/internal/domains/item/repository"
	"shareit/internal/domains/request/model"
	"shareit/internal/domains/request/model/dto"
	"shareit/internal/domains/request/repository"
	userService "shareit/internal/domains/user/service"
	"shareit/shared"
	"shareit/shared/constant"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"

	"github.com/rs/zerolog/log"
)

const msgRequestNotFound = "item request not found"

type Request interface {
	Create(ctx context.Context, requesterID int64, req dto.CreateRequestRequest) (dto.RequestResponse, error)
	GetOwn(ctx context.Context, requesterID int64) ([]dto.RequestResponse, error)
	GetOthers(ctx context.Context, userID int64, page gDto.PageRequest) ([]dto.RequestResponse, error)
	Get(ctx context.Context, userID, requestID int64) (dto.RequestResponse, error)
}

type serviceImpl struct {
	repo        repository.Request
	itemRepo    itemRepo.Item
	userService userService.User
	otel        otel.Otel
}

func New(repo repository.Request, itemRepo itemRepo.Item, userService userService.User, otel otel.Otel) Request {
	return &serviceImpl{
		repo:        repo,
		itemRepo:    itemRepo,
		userService: userService,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, requesterID int64, req dto.CreateRequestRequest) (res dto.RequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.userService.Find(ctx, requesterID); err != nil {
		return res, err
	}

	request := req.ToModel(requesterID)

	request.ID, err = s.repo.Insert(ctx, request)
	if err != nil {
		log.Error().Err(err).Msg("failed to create item request")

		return res, fmt.Errorf("failed to create item request: %w", err)
	}

	res.FromModel(request, nil)

	return res, nil
}

// GetOwn lists the requester's requests, newest first, each with the items answering it.
func (s *serviceImpl) GetOwn(ctx context.Context, requesterID int64) (res []dto.RequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.GetOwn")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.userService.Find(ctx, requesterID); err != nil {
		return res, err
	}

	return s.list(ctx, gDto.QueryParams{}, requesterFilter(requesterID, gDto.FilterOperatorEq))
}

// GetOthers pages through requests made by everyone except userID, newest first.
func (s *serviceImpl) GetOthers(ctx context.Context, userID int64, page gDto.PageRequest) (res []dto.RequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.GetOthers")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.userService.Find(ctx, userID); err != nil {
		return res, err
	}

	params := page.ToQueryParams("", "")

	return s.list(ctx, params, requesterFilter(userID, gDto.FilterOperatorNotEq))
}

func (s *serviceImpl) Get(ctx context.Context, userID, requestID int64) (res dto.RequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".request.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.userService.Find(ctx, userID); err != nil {
		return res, err
	}

	request, err := s.repo.Get(ctx, shared.FilterByID(requestID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("requestID", requestID).Msg("failed to get item request")

		return res, fmt.Errorf("failed to get item request: %w", err)
	}

	if request.ID == 0 {
		return res, failure.NotFound(msgRequestNotFound)
	}

	items, err := s.answers(ctx, []int64{request.ID})
	if err != nil {
		return res, err
	}

	res.FromModel(request, items)

	return res, nil
}

func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]dto.RequestResponse, error) {
	params.SortBy = model.TableName + "." + constant.FieldCreatedAt
	params.SortDir = gDto.SortDirDesc

	requests, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get item requests")

		return nil, fmt.Errorf("failed to get item requests: %w", err)
	}

	ids := make([]int64, len(requests))
	for i, request := range requests {
		ids[i] = request.ID
	}

	items, err := s.answers(ctx, ids)
	if err != nil {
		return nil, err
	}

	return dto.FromModels(requests, items), nil
}

// answers loads the items created in reply to the given requests.
func (s *serviceImpl) answers(ctx context.Context, requestIDs []int64) ([]itemModel.Item, error) {
	if len(requestIDs) == 0 {
		return nil, nil
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    itemModel.FieldRequestID,
				Operator: gDto.FilterOperatorIn,
				Value:    requestIDs,
				Table:    itemModel.TableName,
			},
		},
	}

	params := gDto.QueryParams{
		SortBy:  itemModel.TableName + "." + itemModel.FieldID,
		SortDir: gDto.SortDirAsc,
	}

	items, err := s.itemRepo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get answering items")

		return nil, fmt.Errorf("failed to get answering items: %w", err)
	}

	return items, nil
}

func requesterFilter(userID int64, operator string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRequesterID,
				Operator: operator,
				Value:    userID,
				Table:    model.TableName,
			},
		},
	}
}
