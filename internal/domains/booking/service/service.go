package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"shareit/config"
	"shareit/infras/kafka"
	"shareit/infras/otel"
	"shareit/internal/domains/booking/model"
	"shareit/internal/domains/booking/model/dto"
	"shareit/internal/domains/booking/repository"
	itemService "shareit/internal/domains/item/service"
	userService "shareit/internal/domains/user/service"
	"shareit/shared"
	"shareit/shared/cache"
	"shareit/shared/constant"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"
	"shareit/shared/timezone"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const (

	msgBookingNotFound  = "booking not found"
	msgItemNotAvailable = "item not available"
	msgOwnItem          = "cannot book own item"
	msgInvalidDateRange = "invalid date range"
	msgAlreadyDecided   = "already decided"
	msgNotOwner         = "not the owner"
	msgNotVisible       = "booking is visible only to its booker and the item owner"
)

type Booking interface {
	Create(ctx context.Context, bookerID int64, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Approve(ctx context.Context, bookingID int64, approved bool, ownerID int64) (dto.BookingResponse, error)
	Get(ctx context.Context, bookingID, userID int64) (dto.BookingResponse, error)
	ListForBooker(ctx context.Context, bookerID int64, state string, page gDto.PageRequest) ([]dto.BookingResponse, error)
	ListForOwner(ctx context.Context, ownerID int64, state string, page gDto.PageRequest) ([]dto.BookingResponse, error)
}

type serviceImpl struct {
	repo        repository.Booking
	userService userService.User
	itemService itemService.Item
	kafka       kafka.Client
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
}

func New(
	repo repository.Booking,
	userService userService.User,
	itemService itemService.Item,
	kafka kafka.Client,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:        repo,
		userService: userService,
		itemService: itemService,
		kafka:       kafka,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
	}
}

// Create books an item for bookerID. Checks run in order and the first failure wins.
// Overlapping bookings of the same item are accepted.
func (s *serviceImpl) Create(ctx context.Context, bookerID int64, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booker, err := s.userService.Find(ctx, bookerID)
	if err != nil {
		return res, err
	}

	item, err := s.itemService.Find(ctx, req.ItemID)
	if err != nil {
		return res, err
	}

	if !item.Available {
		return res, failure.InvalidRequest(msgItemNotAvailable)
	}

	if item.IsOwnedBy(bookerID) {
		return res, failure.InvalidRequest(msgOwnItem)
	}

	booking, err := req.ToModel(bookerID)
	if err != nil {
		return res, failure.BadRequest(err)
	}

	if !booking.End.After(booking.Start) || booking.Start.Before(timezone.Now()) {
		return res, failure.InvalidRequest(msgInvalidDateRange)
	}

	booking.ID, err = s.repo.Insert(ctx, booking)
	if err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	booking.ItemName = item.Name
	booking.ItemAvailable = item.Available
	booking.ItemOwnerID = item.OwnerID
	booking.BookerName = booker.Name

	s.publish(ctx, dto.EventBookingCreated, booking)

	res.FromModel(booking)

	return res, nil
}

// Approve records the owner's decision on a WAITING booking.
func (s *serviceImpl) Approve(ctx context.Context, bookingID int64, approved bool, ownerID int64) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Approve")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.find(ctx, bookingID)
	if err != nil {
		return res, err
	}

	status := model.Decide(approved)

	if !booking.Status.CanTransition(status) {
		return res, failure.InvalidRequest(msgAlreadyDecided)
	}

	if booking.ItemOwnerID != ownerID {
		return res, failure.InvalidRequest(msgNotOwner)
	}

	// the stored status is checked again in the same statement as the write
	updated, err := s.repo.UpdateStatusIfWaiting(ctx, bookingID, status)
	if err != nil {
		log.Error().Err(err).Int64("bookingID", bookingID).Msg("failed to update booking status")

		return res, fmt.Errorf("failed to update booking status: %w", err)
	}

	s.evict(ctx, bookingID)

	if !updated {
		return res, failure.InvalidRequest(msgAlreadyDecided)
	}

	booking.Status = status

	s.publish(ctx, dto.DecisionEvent(status), booking)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, bookingID, userID int64) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.find(ctx, bookingID)
	if err != nil {
		return res, err
	}

	if !booking.IsVisibleTo(userID) {
		return res, failure.Forbidden(msgNotVisible)
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) ListForBooker(ctx context.Context, bookerID int64, state string, page gDto.PageRequest) (res []dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ListForBooker")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.list(ctx, bookerID, state, page, s.repo.FindByBooker)
}

func (s *serviceImpl) ListForOwner(ctx context.Context, ownerID int64, state string, page gDto.PageRequest) (res []dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ListForOwner")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.list(ctx, ownerID, state, page, s.repo.FindByOwner)
}

type finder func(ctx context.Context, userID int64, state model.State, now time.Time, page gDto.PageRequest) ([]model.Booking, error)

// list is shared by both sides of the listing. The result is never cached since it depends on the current instant.
func (s *serviceImpl) list(ctx context.Context, userID int64, value string, page gDto.PageRequest, find finder) ([]dto.BookingResponse, error) {
	if _, err := s.userService.Find(ctx, userID); err != nil {
		return nil, err
	}

	state, err := model.ParseState(value)
	if err != nil {
		return nil, err
	}

	bookings, err := find(ctx, userID, state, timezone.Now(), page)
	if err != nil {
		log.Error().Err(err).Str("state", string(state)).Msg("failed to list bookings")

		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return dto.FromModels(bookings), nil
}

// find resolves a booking with its item and booker columns. An unknown id is a NotFound failure.
func (s *serviceImpl) find(ctx context.Context, bookingID int64) (booking model.Booking, err error) {
	cacheKey := shared.BuildCacheKey(constant.CacheKeyBookingGet, bookingID)

	if err = s.cache.Get(ctx, cacheKey, &booking); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for booking")

		return booking, nil
	}

	booking, err = s.repo.Get(ctx, shared.FilterByID(bookingID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Int64("bookingID", bookingID).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		return booking, failure.NotFound(msgBookingNotFound)
	}

	if err := s.cache.Save(ctx, cacheKey, booking, s.cfg.Cache.TTL); err != nil {
		log.Error().Err(err).Msg("failed to save booking to cache")
	}

	return booking, nil
}

// evict runs before the write returns, so the next read goes to the ledger.
func (s *serviceImpl) evict(ctx context.Context, bookingID int64) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(constant.CacheKeyBookingGet, bookingID)); err != nil {
		log.Error().Err(err).Int64("bookingID", bookingID).Msg("failed to delete booking from cache")
	}
}

// publish sends a lifecycle event in the background. A failed publish is logged and never fails the request.
func (s *serviceImpl) publish(ctx context.Context, eventType string, booking model.Booking) {
	event := dto.NewBookingEvent(eventType, booking)

	go func() {
		c, scope := s.otel.NewScope(context.WithoutCancel(ctx), constant.OtelEventScopeName, constant.OtelEventScopeName+"."+eventType)
		defer scope.End()

		message := kafka.Message{
			Key:   strconv.FormatInt(booking.ID, 10),
			Value: event,
		}

		if err := s.kafka.SendMessages(c, s.cfg.Kafka.BookingTopic, message); err != nil {
			scope.TraceError(err)
			log.Error().Err(err).Str("event", eventType).Int64("bookingID", booking.ID).Msg("failed to publish booking event")

			return
		}

		scope.AddEvent("published", map[string]any{"topic": s.cfg.Kafka.BookingTopic, "booking.id": booking.ID})
	}()
}
