package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ondertalhatorpil/uye-onder-api/internal/dto"
	"github.com/ondertalhatorpil/uye-onder-api/internal/service"
	"github.com/ondertalhatorpil/uye-onder-api/internal/utils"
)

// ActivityHandler exposes the member-facing activity feed: creation, the
// approved feed, and owner updates.
type ActivityHandler struct {
	service service.ActivityService
	logger  zerolog.Logger
}

// NewActivityHandler constructs the handler.
func NewActivityHandler(service service.ActivityService, logger zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{
		service: service,
		logger:  logger.With().Str("component", "activity_handler").Logger(),
	}
}

// RegisterPublic wires the read-only feed routes.
func (h *ActivityHandler) RegisterPublic(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// RegisterProtected wires routes requiring an authenticated member.
func (h *ActivityHandler) RegisterProtected(router fiber.Router) {
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
}

func (h *ActivityHandler) create(c *fiber.Ctx) error {
	var payload dto.ActivityCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Create(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "failed to create activity")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "activity submitted for review", response)
}

func (h *ActivityHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity id")
	}

	response, err := h.service.Get(c.Context(), id, actorFromContext(c))
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "failed to load activity")
	}

	return utils.SendSuccess(c, "activity", response)
}

func (h *ActivityHandler) list(c *fiber.Ctx) error {
	limit, offset, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	dernekID, err := parseQueryInt(c, "dernek_id")
	if err != nil || dernekID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid dernek id")
	}
	authorID, err := parseQueryInt(c, "user_id")
	if err != nil || authorID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	req := dto.ActivityListRequest{
		Il:       c.Query("il"),
		Ilce:     c.Query("ilce"),
		DernekID: uint(dernekID),
		AuthorID: uint(authorID),
		Limit:    limit,
		Offset:   offset,
	}

	activities, total, err := h.service.List(c.Context(), req, actorFromContext(c))
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "failed to list activities")
	}

	return utils.SendPage(c, "activities", activities, utils.NewPageMeta(total, limit, offset, len(activities)))
}

func (h *ActivityHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity id")
	}

	var payload dto.ActivityUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Update(c.Context(), id, actorFromContext(c), payload)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "failed to update activity")
	}

	return utils.SendSuccess(c, "activity updated", response)
}

func (h *ActivityHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity id")
	}

	if err := h.service.Delete(c.Context(), id, actorFromContext(c)); err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "failed to delete activity")
	}

	return utils.SendSuccess(c, "activity deleted", nil)
}
