package request

import (
	"net/http"
	"shareit/infras/otel"
	"shareit/internal/domains/request/model/dto"
	"shareit/internal/domains/request/service"
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
	service service.Request
	otel    otel.Otel
}

func New(service service.Request, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/requests", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateRequest)
		routerGroup.Get("/", handler.GetOwnRequests)
		routerGroup.Get("/all", handler.GetOtherRequests)
		routerGroup.Get("/{id}", handler.GetRequestByID)
	})
}

// CreateRequest asks for an item nobody lists yet.
// @Summary Create an item request
// @Tags Request
// @Accept json
// @Produce json
// @Param X-Sharer-User-Id header int true "Acting user"
// @Param request body dto.CreateRequestRequest true "Create Item Request"
// @Success 200 {object} dto.RequestResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /requests [post]
func (handler *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRequest")
	defer scope.End()

	userID, err := shared.ActingUser(ctx)
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.CreateRequestRequest{}

	if err = validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, userID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("userID", userID).Msg("failed to create item request")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetOwnRequests lists the acting user's requests with the items answering them.
// @Summary List own item requests
// @Tags Request
// @Produce json
// @Param X-Sharer-User-Id header int true "Acting user"
// @Success 200 {array} dto.RequestResponse
// @Failure 404 {object} response.Error
// @Router /requests [get]
func (handler *Handler) GetOwnRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOwnRequests")
	defer scope.End()

	userID, err := shared.ActingUser(ctx)
	if err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.service.GetOwn(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("userID", userID).Msg("failed to get own item requests")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetOtherRequests pages through other users' requests.
// @Summary List other users' item requests
// @Tags Request
// @Produce json
// @Param X-Sharer-User-Id header int true "Acting user"
// @Param from query int false "First row" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {array} dto.RequestResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /requests/all [get]
func (handler *Handler) GetOtherRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOtherRequests")
	defer scope.End()

	userID, err := shared.ActingUser(ctx)
	if err != nil {
		response.WithError(w, err)

		return
	}

	page := gDto.PageRequest{}

	if err = page.FromRequest(r); err != nil {
		response.WithError(w, err)

		return
	}

	if err = validator.ValidateStruct(&page); err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.service.GetOthers(ctx, userID, page)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("userID", userID).Msg("failed to get item requests")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetRequestByID shows one request with its answers.
// @Summary Get an item request
// @Tags Request
// @Produce json
// @Param X-Sharer-User-Id header int true "Acting user"
// @Param id path int true "Request ID"
// @Success 200 {object} dto.RequestResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /requests/{id} [get]
func (handler *Handler) GetRequestByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRequestByID")
	defer scope.End()

	userID, err := shared.ActingUser(ctx)
	if err != nil {
		response.WithError(w, err)

		return
	}

	requestID, ok := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if !ok {
		response.WithError(w, failure.InvalidIDParam)

		return
	}

	res, err := handler.service.Get(ctx, userID, requestID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("requestID", requestID).Msg("failed to get item request")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}
