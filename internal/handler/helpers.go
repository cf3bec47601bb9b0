package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ondertalhatorpil/uye-onder-api/internal/apperr"
	"github.com/ondertalhatorpil/uye-onder-api/internal/middleware"
	"github.com/ondertalhatorpil/uye-onder-api/internal/service"
	"github.com/ondertalhatorpil/uye-onder-api/internal/utils"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

// parsePagination reads limit/offset query parameters. A page parameter is
// accepted as an alias: page N maps onto offset (N-1)*limit.
func parsePagination(c *fiber.Ctx) (limit, offset int, err error) {
	limit, err = parseQueryInt(c, "limit")
	if err != nil {
		return 0, 0, errors.New("invalid limit")
	}
	if limit <= 0 {
		limit = defaultPageLimit
	} else if limit > maxPageLimit {
		limit = maxPageLimit
	}

	offset, err = parseQueryInt(c, "offset")
	if err != nil {
		return 0, 0, errors.New("invalid offset")
	}
	if offset < 0 {
		offset = 0
	}

	if offset == 0 {
		page, pageErr := parseQueryInt(c, "page")
		if pageErr != nil {
			return 0, 0, errors.New("invalid page")
		}
		if page > 1 {
			offset = (page - 1) * limit
		}
	}

	return limit, offset, nil
}

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	raw := strings.TrimSpace(c.Params(key))
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
		if id, ok := v.(int); ok {
			if id < 0 {
				return 0
			}
			return uint(id)
		}
	}
	return 0
}

func userRoleFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

func actorFromContext(c *fiber.Ctx) service.Actor {
	return service.Actor{
		ID:   userIDFromContext(c),
		Role: userRoleFromContext(c),
	}
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// respondError maps the service error taxonomy onto HTTP statuses. Unknown
// errors are logged and hidden behind a generic message.
func respondError(c *fiber.Ctx, logger *zerolog.Logger, err error, fallback string) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperr.CodeValidation:
			return utils.SendError(c, fiber.StatusBadRequest, appErr.Message)
		case apperr.CodeNotFound:
			return utils.SendError(c, fiber.StatusNotFound, appErr.Message)
		case apperr.CodeForbidden:
			return utils.SendError(c, fiber.StatusForbidden, appErr.Message)
		case apperr.CodeConflict:
			return utils.SendError(c, fiber.StatusConflict, appErr.Message)
		case apperr.CodeTransient:
			return utils.SendError(c, fiber.StatusServiceUnavailable, appErr.Message)
		}
	}

	logger.Error().Err(err).Msg(fallback)
	return utils.SendError(c, fiber.StatusInternalServerError, fallback)
}
