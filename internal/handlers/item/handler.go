package item

import (
	"net/http"
	"shareit/infras/otel"
	"shareit/internal/domains/item/model/dto"
	"shareit/internal/domains/item/service"
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
	service service.Item
	otel    otel.Otel
}

func New(service service.Item, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/items", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateItem)
		routerGroup.Get("/", handler.GetOwnItems)
		routerGroup.Get("/search", handler.SearchItems)
		routerGroup.Get("/{id}", handler.GetItemByID)
		routerGroup.Patch("/{id}", handler.UpdateItem)
		routerGroup.Post("/{id}/comment", handler.AddComment)
	})
}

// CreateItem lists a new item for the acting user.
// @Summary Create an item
// @Description requestId links the item to the request it answers.
// @Tags Item
// @Accept json
// @Produce json
// @Param X-Sharer-User-Id header int true "Acting user"
// @Param request body dto.CreateItemRequest true "Create Item Request"
// @Success 200 {object} dto.ItemResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /items [post]
func (handler *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateItem")
	defer scope.End()

	userID, err := shared.ActingUser(ctx)
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.CreateItemRequest{}

	if err = validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Create(ctx, userID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("userID", userID).Msg("failed to create item")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// UpdateItem changes an item. Only its owner may do so.
// @Summary Update an item
// @Tags Item
// @Accept json
// @Produce json
// @Param X-Sharer-User-Id header int true "Acting user"
// @Param id path int true "Item ID"
// @Param request body dto.UpdateItemRequest true "Update Item Request"
// @Success 200 {object} dto.ItemResponse
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /items/{id} [patch]
func (handler *Handler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateItem")
	defer scope.End()

	userID, err := shared.ActingUser(ctx)
	if err != nil {
		response.WithError(w, err)

		return
	}

	itemID, ok := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if !ok {
		response.WithError(w, failure.InvalidIDParam)

		return
	}

	req := dto.UpdateItemRequest{}

	if err = validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.Update(ctx, userID, itemID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("itemID", itemID).Msg("failed to update item")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetItemByID shows an item with its comments.
// @Summary Get an item
// @Description lastBooking and nextBooking are only filled for the owner.
// @Tags Item
// @Produce json
// @Param X-Sharer-User-Id header int true "Acting user"
// @Param id path int true "Item ID"
// @Success 200 {object} dto.ItemDetailResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /items/{id} [get]
func (handler *Handler) GetItemByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetItemByID")
	defer scope.End()

	userID, err := shared.ActingUser(ctx)
	if err != nil {
		response.WithError(w, err)

		return
	}

	itemID, ok := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if !ok {
		response.WithError(w, failure.InvalidIDParam)

		return
	}

	res, err := handler.service.Get(ctx, userID, itemID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("itemID", itemID).Msg("failed to get item")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// GetOwnItems lists the acting user's items.
// @Summary List own items
// @Tags Item
// @Produce json
// @Param X-Sharer-User-Id header int true "Acting user"
// @Param from query int false "First row" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {array} dto.ItemDetailResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /items [get]
func (handler *Handler) GetOwnItems(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOwnItems")
	defer scope.End()

	userID, err := shared.ActingUser(ctx)
	if err != nil {
		response.WithError(w, err)

		return
	}

	page, err := pageFromRequest(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.service.GetByOwner(ctx, userID, page)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("userID", userID).Msg("failed to get own items")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// SearchItems finds available items by text.
// @Summary Search items
// @Tags Item
// @Produce json
// @Param X-Sharer-User-Id header int true "Acting user"
// @Param text query string true "Text to look for in name or description"
// @Param from query int false "First row" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {array} dto.ItemResponse
// @Failure 400 {object} response.Error
// @Router /items/search [get]
func (handler *Handler) SearchItems(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SearchItems")
	defer scope.End()

	page, err := pageFromRequest(r)
	if err != nil {
		response.WithError(w, err)

		return
	}

	res, err := handler.service.Search(ctx, r.URL.Query().Get(constant.RequestParamText), page)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to search items")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

// AddComment leaves a comment on an item the acting user has finished a booking of.
// @Summary Comment on an item
// @Tags Item
// @Accept json
// @Produce json
// @Param X-Sharer-User-Id header int true "Acting user"
// @Param id path int true "Item ID"
// @Param request body dto.CreateCommentRequest true "Comment"
// @Success 200 {object} dto.CommentResponse
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Router /items/{id}/comment [post]
func (handler *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddComment")
	defer scope.End()

	userID, err := shared.ActingUser(ctx)
	if err != nil {
		response.WithError(w, err)

		return
	}

	itemID, ok := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if !ok {
		response.WithError(w, failure.InvalidIDParam)

		return
	}

	req := dto.CreateCommentRequest{}

	if err = validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	res, err := handler.service.AddComment(ctx, userID, itemID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Int64("itemID", itemID).Msg("failed to add comment")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, res)
}

func pageFromRequest(r *http.Request) (gDto.PageRequest, error) {
	page := gDto.PageRequest{}

	if err := page.FromRequest(r); err != nil {
		return page, err
	}

	return page, validator.ValidateStruct(&page)
}
