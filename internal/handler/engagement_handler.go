package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ondertalhatorpil/uye-onder-api/internal/dto"
	"github.com/ondertalhatorpil/uye-onder-api/internal/service"
	"github.com/ondertalhatorpil/uye-onder-api/internal/utils"
)

// EngagementHandler exposes like and comment endpoints nested under an
// activity, plus comment deletion by its own identifier.
type EngagementHandler struct {
	service service.EngagementService
	logger  zerolog.Logger
}

// NewEngagementHandler constructs the handler.
func NewEngagementHandler(service service.EngagementService, logger zerolog.Logger) *EngagementHandler {
	return &EngagementHandler{
		service: service,
		logger:  logger.With().Str("component", "engagement_handler").Logger(),
	}
}

// RegisterPublic wires the read-only engagement routes.
func (h *EngagementHandler) RegisterPublic(router fiber.Router) {
	router.Get("/:id/likers", h.likers)
	router.Get("/:id/comments", h.comments)
	router.Get("/:id/interactions", h.interactions)
}

// RegisterProtected wires engagement writes requiring an authenticated member.
func (h *EngagementHandler) RegisterProtected(router fiber.Router) {
	router.Post("/:id/like", h.toggleLike)
	router.Post("/:id/comments", h.addComment)
}

// RegisterCommentRoutes wires comment routes not nested under an activity.
func (h *EngagementHandler) RegisterCommentRoutes(router fiber.Router) {
	router.Delete("/:id", h.deleteComment)
}

func (h *EngagementHandler) toggleLike(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity id")
	}

	response, err := h.service.ToggleLike(c.Context(), id, actorFromContext(c))
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "failed to toggle like")
	}

	message := "like added"
	if response.Action == dto.LikeActionRemoved {
		message = "like removed"
	}
	return utils.SendSuccess(c, message, response)
}

func (h *EngagementHandler) addComment(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity id")
	}

	var payload dto.CommentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.AddComment(c.Context(), id, actorFromContext(c), payload)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "failed to add comment")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "comment added", response)
}

func (h *EngagementHandler) deleteComment(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid comment id")
	}

	response, err := h.service.DeleteComment(c.Context(), id, actorFromContext(c))
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "failed to delete comment")
	}

	return utils.SendSuccess(c, "comment deleted", response)
}

func (h *EngagementHandler) likers(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity id")
	}

	limit, offset, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	likers, total, err := h.service.ListLikers(c.Context(), id, limit, offset, actorFromContext(c))
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "failed to list likers")
	}

	return utils.SendPage(c, "likers", likers, utils.NewPageMeta(total, limit, offset, len(likers)))
}

func (h *EngagementHandler) comments(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity id")
	}

	limit, offset, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	comments, total, err := h.service.ListComments(c.Context(), id, limit, offset, actorFromContext(c))
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "failed to list comments")
	}

	return utils.SendPage(c, "comments", comments, utils.NewPageMeta(total, limit, offset, len(comments)))
}

func (h *EngagementHandler) interactions(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity id")
	}

	response, err := h.service.Summary(c.Context(), id, actorFromContext(c))
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "failed to load interactions")
	}

	return utils.SendSuccess(c, "interactions", response)
}
