package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ondertalhatorpil/uye-onder-api/internal/dto"
	"github.com/ondertalhatorpil/uye-onder-api/internal/service"
	"github.com/ondertalhatorpil/uye-onder-api/internal/utils"
)

// AdminModerationHandler exposes the moderation queue and decision endpoints.
type AdminModerationHandler struct {
	service service.ModerationService
	logger  zerolog.Logger
}

// NewAdminModerationHandler constructs the handler.
func NewAdminModerationHandler(service service.ModerationService, logger zerolog.Logger) *AdminModerationHandler {
	return &AdminModerationHandler{
		service: service,
		logger:  logger.With().Str("component", "admin_moderation_handler").Logger(),
	}
}

// Register attaches moderation routes to the admin group.
func (h *AdminModerationHandler) Register(router fiber.Router) {
	router.Get("/pending", h.pending)
	router.Get("/history", h.history)
	router.Put("/:id/approve", h.approve)
	router.Put("/:id/reject", h.reject)
	router.Post("/bulk-approve", h.bulkApprove)
}

func (h *AdminModerationHandler) pending(c *fiber.Ctx) error {
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

	activities, total, err := h.service.Queue(c.Context(), req, actorFromContext(c))
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "failed to list pending activities")
	}

	return utils.SendPage(c, "pending activities", activities, utils.NewPageMeta(total, limit, offset, len(activities)))
}

func (h *AdminModerationHandler) history(c *fiber.Ctx) error {
	limit, offset, err := parsePagination(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	adminID, err := parseQueryInt(c, "admin_id")
	if err != nil || adminID < 0 {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid admin id")
	}

	req := dto.ModerationHistoryRequest{
		Status:  strings.TrimSpace(c.Query("status")),
		AdminID: uint(adminID),
		Limit:   limit,
		Offset:  offset,
	}

	if req.From, err = parseQueryTime(c, "from"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid from timestamp")
	}
	if req.To, err = parseQueryTime(c, "to"); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid to timestamp")
	}

	activities, total, err := h.service.History(c.Context(), req, actorFromContext(c))
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "failed to list moderation history")
	}

	return utils.SendPage(c, "moderation history", activities, utils.NewPageMeta(total, limit, offset, len(activities)))
}

func (h *AdminModerationHandler) approve(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity id")
	}

	response, err := h.service.Approve(c.Context(), id, actorFromContext(c))
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "failed to approve activity")
	}

	return utils.SendSuccess(c, "activity approved", response)
}

func (h *AdminModerationHandler) reject(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid activity id")
	}

	var payload dto.RejectRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Reject(c.Context(), id, actorFromContext(c), payload.Reason)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "failed to reject activity")
	}

	return utils.SendSuccess(c, "activity rejected", response)
}

func (h *AdminModerationHandler) bulkApprove(c *fiber.Ctx) error {
	var payload dto.BulkApproveRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.ApproveMany(c.Context(), payload.ActivityIDs, actorFromContext(c))
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err, "failed to bulk approve activities")
	}

	message := fmt.Sprintf("%d approved, %d failed", response.Succeeded, response.Failed)
	return utils.SendSuccess(c, message, response)
}

func parseQueryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
