package booking

import (
	"context"
	"net/http"
	"shareit/infras/otel"
	"shareit/internal/domains/booking/model/dto"
	"shareit/internal/domains/booking/service"
	"shareit/shared"
	"shareit/shared/constant"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"
	"shareit/shared/validator"
	"shareit/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetBookerBookings)
		routerGroup.Get("/owner", handler.GetOwnerBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Patch("/{id}", handler.ApproveBooking)
	})
}

// CreateBooking handles a booking request from the acting user.
// @Summary Request a booking
// @Description Book an item for a time window. The booking starts WAITING for the owner's decision.
// @Tags Booking
// @Accept json
// @Produce json
// @Param X-Sharer-User-Id header int true "Acting user"
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /bookings [post]
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	userID, err := shared.ActingUser(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	req := dto.CreateBookingRequest{}

	if err = validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, userID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("userID", userID).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("booking.created", map[string]any{"booking.id": res.ID, "item.id": res.Item.ID})

	response.WithJSON(writer, http.StatusOK, res)
}

// ApproveBooking records the owner's decision.
// @Summary Approve or reject a booking
// @Description Only the item owner may decide, and only while the booking is WAITING.
// @Tags Booking
// @Produce json
// @Param X-Sharer-User-Id header int true "Acting user"
// @Param id path int true "Booking ID"
// @Param approved query bool true "Decision"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /bookings/{id} [patch]
func (handler *Handler) ApproveBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ApproveBooking")
	defer scope.End()

	userID, err := shared.ActingUser(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	bookingID, ok := shared.ParseID(chi.URLParam(request, constant.RequestParamID))
	if !ok {
		response.WithError(writer, failure.InvalidIDParam)

		return
	}

	approved := shared.ConvertStringToBool(request.URL.Query().Get(constant.RequestParamApproved))
	if approved == nil {
		response.WithError(writer, failure.BadRequestFromString("approved must be true or false"))

		return
	}

	res, err := handler.service.Approve(ctx, bookingID, *approved, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("bookingID", bookingID).Msg("failed to decide booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetBookingByID returns a booking to its booker or to the item owner.
// @Summary Get a booking
// @Tags Booking
// @Produce json
// @Param X-Sharer-User-Id header int true "Acting user"
// @Param id path int true "Booking ID"
// @Success 200 {object} dto.BookingResponse
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /bookings/{id} [get]
func (handler *Handler) GetBookingByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	userID, err := shared.ActingUser(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	bookingID, ok := shared.ParseID(chi.URLParam(request, constant.RequestParamID))
	if !ok {
		response.WithError(writer, failure.InvalidIDParam)

		return
	}

	res, err := handler.service.Get(ctx, bookingID, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("bookingID", bookingID).Msg("failed to get booking")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}

// GetBookerBookings lists the acting user's own bookings.
// @Summary List bookings made by the acting user
// @Description Newest start first. state is one of ALL, CURRENT, PAST, FUTURE, WAITING, REJECTED.
// @Tags Booking
// @Produce json
// @Param X-Sharer-User-Id header int true "Acting user"
// @Param state query string false "Booking state" default(ALL)
// @Param from query int false "First row" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {array} dto.BookingResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /bookings [get]
func (handler *Handler) GetBookerBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookerBookings")
	defer scope.End()

	handler.list(writer, request.WithContext(ctx), handler.service.ListForBooker)
}

// GetOwnerBookings lists bookings of the items the acting user owns.
// @Summary List bookings of the acting user's items
// @Description Newest start first. state is one of ALL, CURRENT, PAST, FUTURE, WAITING, REJECTED.
// @Tags Booking
// @Produce json
// @Param X-Sharer-User-Id header int true "Acting user"
// @Param state query string false "Booking state" default(ALL)
// @Param from query int false "First row" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {array} dto.BookingResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /bookings/owner [get]
func (handler *Handler) GetOwnerBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOwnerBookings")
	defer scope.End()

	handler.list(writer, request.WithContext(ctx), handler.service.ListForOwner)
}

type lister func(ctx context.Context, userID int64, state string, page gDto.PageRequest) ([]dto.BookingResponse, error)

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request, list lister) {
	ctx := request.Context()

	userID, err := shared.ActingUser(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	page := gDto.PageRequest{}

	if err = page.FromRequest(request); err != nil {
		response.WithError(writer, err)

		return
	}

	if err = validator.ValidateStruct(&page); err != nil {
		response.WithError(writer, err)

		return
	}

	state := request.URL.Query().Get(constant.RequestParamState)
	if state == "" {
		state = constant.DefaultValueState
	}

	res, err := list(ctx, userID, state, page)
	if err != nil {
		log.Error().Err(err).Int64("userID", userID).Str("state", state).Msg("failed to list bookings")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, res)
}
