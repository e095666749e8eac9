package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"shareit/config"
	"shareit/infras/otel"
	"shareit/internal/domains/user/model"
	"shareit/internal/domains/user/model/dto"
	"shareit/internal/domains/user/repository"
	"shareit/shared"
	"shareit/shared/cache"
	"shareit/shared/constant"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"

	"github.com/rs/zerolog/log"
)

const (
	cacheGetUser = "user:get"

	msgUserNotFound   = "user not found"
	msgEmailDuplicate = "email already registered"
)

type User interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error)
	GetAll(ctx context.Context) ([]dto.UserResponse, error)
	Get(ctx context.Context, id int64) (dto.UserResponse, error)
	Find(ctx context.Context, id int64) (model.User, error)
	Update(ctx context.Context, id int64, req dto.UpdateUserRequest) (dto.UserResponse, error)
	Delete(ctx context.Context, id int64) error
}

type serviceImpl struct {
	repo  repository.User
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateUserRequest) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	exists, err := s.repo.Exist(ctx, emailFilter(req.Email, 0))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if email exists")

		return res, fmt.Errorf("failed to check if email exists: %w", err)
	}

	if exists {
		return res, failure.Conflict(msgEmailDuplicate)
	}

	user := req.ToModel()

	user.ID, err = s.repo.Insert(ctx, user)
	if shared.IsUniqueViolation(err) {
		return res, failure.Conflict(msgEmailDuplicate)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", err)
	}

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context) (res []dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + model.FieldID,
		SortDir: gDto.SortDirAsc,
	}

	users, err := s.repo.GetAll(ctx, params, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return res, fmt.Errorf("failed to get users: %w", err)
	}

	return dto.FromModels(users), nil
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user, err := s.Find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(user)

	return res, nil
}

// Find resolves a user identity. An unknown id is a NotFound failure.
func (s *serviceImpl) Find(ctx context.Context, id int64) (user model.User, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Find")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(cacheGetUser, id)

	if err = s.cache.Get(ctx, cacheKey, &user); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for user")

		return user, nil
	}

	user, err = s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("userID", id).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == 0 {
		return user, failure.NotFound(msgUserNotFound)
	}

	if err := s.cache.Save(ctx, cacheKey, user, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save user to cache")
	}

	return user, nil
}

func (s *serviceImpl) Update(ctx context.Context, id int64, req dto.UpdateUserRequest) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if req.IsEmpty() {
		return res, failure.BadRequestFromString("name or email must be provided")
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return res, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exist {
		return res, failure.NotFound(msgUserNotFound)
	}

	if req.Email != nil {
		taken, err := s.repo.Exist(ctx, emailFilter(*req.Email, id))
		if err != nil {
			log.Error().Err(err).Msg("failed to check if email exists")

			return res, fmt.Errorf("failed to check if email exists: %w", err)
		}

		if taken {
			return res, failure.Conflict(msgEmailDuplicate)
		}
	}

	err = s.repo.Update(ctx, shared.TransformFields(req), filter)
	if shared.IsUniqueViolation(err) {
		return res, failure.Conflict(msgEmailDuplicate)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to update user")

		return res, fmt.Errorf("failed to update user: %w", err)
	}

	s.evict(ctx, id)

	user, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get updated user")

		return res, fmt.Errorf("failed to get updated user: %w", err)
	}

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id int64) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".user.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if user exists")

		return fmt.Errorf("failed to check if user exists: %w", err)
	}

	if !exist {
		return failure.NotFound(msgUserNotFound)
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete user")

		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.evict(ctx, id)

	return nil
}

// evict drops the cached user and every cached booking, which carry the booker's name.
func (s *serviceImpl) evict(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetUser, id)); err != nil {
		log.Error().Err(err).Int64("userID", id).Msg("failed to delete user from cache")
	}

	if err := s.cache.Clear(ctx, shared.BuildCacheKey(constant.CacheKeyBookingGet, constant.Asterix)); err != nil {
		log.Error().Err(err).Msg("failed to clear bookings from cache")
	}
}

// emailFilter matches email on any user other than exceptID. Zero exceptID matches every user.
func emailFilter(email string, exceptID int64) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{
			Field:    model.FieldEmail,
			Operator: gDto.FilterOperatorEq,
			Value:    email,
			Table:    model.TableName,
		},
	}

	if exceptID != 0 {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldID,
			Operator: gDto.FilterOperatorNotEq,
			Value:    exceptID,
			Table:    model.TableName,
		})
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	}
}
