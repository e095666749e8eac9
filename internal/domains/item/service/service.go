package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"shareit/config"
	"shareit/infras/otel"
	bookingModel "shareit/internal/domains/booking/model"
	bookingDto "shareit/internal/domains/booking/model/dto"
	bookingRepo "shareit/internal/domains/booking/repository"
	"shareit/internal/domains/item/model"
	"shareit/internal/domains/item/model/dto"
	"shareit/internal/domains/item/repository"
	requestModel "shareit/internal/domains/request/model"
	requestRepo "shareit/internal/domains/request/repository"
	userService "shareit/internal/domains/user/service"
	"shareit/shared"
	"shareit/shared/cache"
	"shareit/shared/constant"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"
	"shareit/shared/timezone"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetItem = "item:get"

	msgItemNotFound    = "item not found"
	msgRequestNotFound = "item request not found"
	msgNotItemOwner    = "only the owner can edit the item"
	msgNoFinishedStay  = "user has no finished booking of this item"
)

type Item interface {
	Create(ctx context.Context, ownerID int64, req dto.CreateItemRequest) (dto.ItemResponse, error)
	Update(ctx context.Context, ownerID, itemID int64, req dto.UpdateItemRequest) (dto.ItemResponse, error)
	Get(ctx context.Context, userID, itemID int64) (dto.ItemDetailResponse, error)
	Find(ctx context.Context, itemID int64) (model.Item, error)
	GetByOwner(ctx context.Context, ownerID int64, page gDto.PageRequest) ([]dto.ItemDetailResponse, error)
	Search(ctx context.Context, text string, page gDto.PageRequest) ([]dto.ItemResponse, error)
	AddComment(ctx context.Context, authorID, itemID int64, req dto.CreateCommentRequest) (dto.CommentResponse, error)
}

type serviceImpl struct {
	repo        repository.Item
	commentRepo repository.Comment
	requestRepo requestRepo.Request
	bookingRepo bookingRepo.Booking
	userService userService.User
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Item,
	commentRepo repository.Comment,
	requestRepo requestRepo.Request,
	bookingRepo bookingRepo.Booking,
	userService userService.User,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Item {
	return &serviceImpl{
		repo:        repo,
		commentRepo: commentRepo,
		requestRepo: requestRepo,
		bookingRepo: bookingRepo,
		userService: userService,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, ownerID int64, req dto.CreateItemRequest) (res dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.userService.Find(ctx, ownerID); err != nil {
		return res, err
	}

	if req.RequestID != nil {
		exist, err := s.requestRepo.Exist(ctx, shared.FilterByID(*req.RequestID, requestModel.FieldID, requestModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check if item request exists")

			return res, fmt.Errorf("failed to check if item request exists: %w", err)
		}

		if !exist {
			return res, failure.NotFound(msgRequestNotFound)
		}
	}

	item := req.ToModel(ownerID)

	item.ID, err = s.repo.Insert(ctx, item)
	if err != nil {
		log.Error().Err(err).Msg("failed to create item")

		return res, fmt.Errorf("failed to create item: %w", err)
	}

	res.FromModel(item)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, ownerID, itemID int64, req dto.UpdateItemRequest) (res dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.userService.Find(ctx, ownerID); err != nil {
		return res, err
	}

	item, err := s.Find(ctx, itemID)
	if err != nil {
		return res, err
	}

	if !item.IsOwnedBy(ownerID) {
		return res, failure.Forbidden(msgNotItemOwner)
	}

	req = req.Normalize()
	if req.IsEmpty() {
		res.FromModel(item)

		return res, nil
	}

	filter := shared.FilterByID(itemID, model.FieldID, model.TableName)

	if err = s.repo.Update(ctx, shared.TransformFields(req), filter); err != nil {
		log.Error().Err(err).Msg("failed to update item")

		return res, fmt.Errorf("failed to update item: %w", err)
	}

	s.evict(ctx, itemID)

	item, err = s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get updated item")

		return res, fmt.Errorf("failed to get updated item: %w", err)
	}

	res.FromModel(item)

	return res, nil
}

// Get shows the item with its comments. Last and next bookings are only shown to the owner.
func (s *serviceImpl) Get(ctx context.Context, userID, itemID int64) (res dto.ItemDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.userService.Find(ctx, userID); err != nil {
		return res, err
	}

	item, err := s.Find(ctx, itemID)
	if err != nil {
		return res, err
	}

	return s.detail(ctx, item, item.IsOwnedBy(userID))
}

// Find resolves an item. An unknown id is a NotFound failure.
func (s *serviceImpl) Find(ctx context.Context, itemID int64) (item model.Item, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.Find")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetItem, itemID)

	if err = s.cache.Get(ctx, cacheKey, &item); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for item")

		return item, nil
	}

	item, err = s.repo.Get(ctx, shared.FilterByID(itemID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("itemID", itemID).Msg("failed to get item")

		return item, fmt.Errorf("failed to get item: %w", err)
	}

	if item.ID == 0 {
		return item, failure.NotFound(msgItemNotFound)
	}

	if err := s.cache.Save(ctx, cacheKey, item, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save item to cache")
	}

	return item, nil
}

func (s *serviceImpl) GetByOwner(ctx context.Context, ownerID int64, page gDto.PageRequest) (res []dto.ItemDetailResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.GetByOwner")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if _, err = s.userService.Find(ctx, ownerID); err != nil {
		return res, err
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldOwnerID,
				Operator: gDto.FilterOperatorEq,
				Value:    ownerID,
				Table:    model.TableName,
			},
		},
	}

	items, err := s.repo.GetAll(ctx, page.ToQueryParams(model.TableName+"."+model.FieldID, gDto.SortDirAsc), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get owner items")

		return res, fmt.Errorf("failed to get owner items: %w", err)
	}

	res = make([]dto.ItemDetailResponse, 0, len(items))

	for _, item := range items {
		detail, err := s.detail(ctx, item, true)
		if err != nil {
			return nil, err
		}

		res = append(res, detail)
	}

	return res, nil
}

// Search matches available items whose name or description contains text. Blank text matches nothing.
func (s *serviceImpl) Search(ctx context.Context, text string, page gDto.PageRequest) (res []dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.Search")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	text = strings.TrimSpace(text)
	if text == "" {
		return []dto.ItemResponse{}, nil
	}

	items, err := s.repo.GetAll(ctx, page.ToQueryParams(model.TableName+"."+model.FieldID, gDto.SortDirAsc), searchFilter(text))
	if err != nil {
		log.Error().Err(err).Msg("failed to search items")

		return res, fmt.Errorf("failed to search items: %w", err)
	}

	return dto.FromModels(items), nil
}

// AddComment is allowed once the author has a booking of the item that already ended.
func (s *serviceImpl) AddComment(ctx context.Context, authorID, itemID int64, req dto.CreateCommentRequest) (res dto.CommentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".item.AddComment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	author, err := s.userService.Find(ctx, authorID)
	if err != nil {
		return res, err
	}

	if _, err = s.Find(ctx, itemID); err != nil {
		return res, err
	}

	finished, err := s.bookingRepo.HasFinishedBooking(ctx, authorID, itemID, timezone.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to check finished bookings")

		return res, fmt.Errorf("failed to check finished bookings: %w", err)
	}

	if !finished {
		return res, failure.InvalidRequest(msgNoFinishedStay)
	}

	comment := req.ToModel(itemID, authorID)

	comment.ID, err = s.commentRepo.Insert(ctx, comment)
	if err != nil {
		log.Error().Err(err).Msg("failed to create comment")

		return res, fmt.Errorf("failed to create comment: %w", err)
	}

	comment.AuthorName = author.Name

	res.FromModel(comment)

	return res, nil
}

func (s *serviceImpl) detail(ctx context.Context, item model.Item, withBookings bool) (res dto.ItemDetailResponse, err error) {
	res.ItemResponse.FromModel(item)

	comments, err := s.commentRepo.GetAll(ctx, gDto.QueryParams{
		SortBy:  model.CommentTableName + "." + model.CommentFieldID,
		SortDir: gDto.SortDirAsc,
	}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.CommentFieldItemID,
				Operator: gDto.FilterOperatorEq,
				Value:    item.ID,
				Table:    model.CommentTableName,
			},
		},
	})
	if err != nil {
		log.Error().Err(err).Int64("itemID", item.ID).Msg("failed to get item comments")

		return res, fmt.Errorf("failed to get item comments: %w", err)
	}

	res.Comments = dto.CommentsFromModels(comments)

	if !withBookings {
		return res, nil
	}

	now := timezone.Now()

	last, err := s.bookingRepo.LastApprovedBefore(ctx, item.ID, now)
	if err != nil {
		log.Error().Err(err).Int64("itemID", item.ID).Msg("failed to get last booking")

		return res, fmt.Errorf("failed to get last booking: %w", err)
	}

	next, err := s.bookingRepo.NextApprovedAfter(ctx, item.ID, now)
	if err != nil {
		log.Error().Err(err).Int64("itemID", item.ID).Msg("failed to get next booking")

		return res, fmt.Errorf("failed to get next booking: %w", err)
	}

	res.LastBooking = bookingView(last)
	res.NextBooking = bookingView(next)

	return res, nil
}

// evict drops the cached item and every cached booking, which carry the item's name and availability.
func (s *serviceImpl) evict(ctx context.Context, itemID int64) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetItem, itemID)); err != nil {
		log.Error().Err(err).Int64("itemID", itemID).Msg("failed to delete item from cache")
	}

	if err := s.cache.Clear(ctx, shared.BuildCacheKey(constant.CacheKeyBookingGet, constant.Asterix)); err != nil {
		log.Error().Err(err).Msg("failed to clear bookings from cache")
	}
}

func bookingView(booking *bookingModel.Booking) *bookingDto.BookingResponse {
	if booking == nil {
		return nil
	}

	var view bookingDto.BookingResponse

	view.FromModel(*booking)

	return &view
}

func searchFilter(text string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldAvailable,
				Operator: gDto.FilterOperatorEq,
				Value:    true,
				Table:    model.TableName,
			},
			gDto.FilterGroup{
				Operator: gDto.FilterGroupOperatorOr,
				Filters: []any{
					gDto.Filter{
						Field:    model.FieldName,
						Operator: gDto.FilterOperatorLike,
						Value:    text,
						Table:    model.TableName,
					},
					gDto.Filter{
						Field:    model.FieldDescription,
						Operator: gDto.FilterOperatorLike,
						Value:    text,
						Table:    model.TableName,
					},
				},
			},
		},
	}
}
