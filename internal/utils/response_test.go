package utils_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/ondertalhatorpil/uye-onder-api/internal/utils"
)

func TestSendPageIncludesPagination(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		data := []string{"a", "b"}
		return utils.SendPage(c, "", data, utils.NewPageMeta(5, 2, 0, len(data)))
	})

	resp := performRequest(t, app, http.MethodGet, "/")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payload struct {
		Success    bool           `json:"success"`
		Message    string         `json:"message"`
		Data       []string       `json:"data"`
		Pagination utils.PageMeta `json:"pagination"`
	}
	decode(t, resp, &payload)

	require.True(t, payload.Success)
	require.Equal(t, "success", payload.Message)
	require.Equal(t, int64(5), payload.Pagination.Total)
	require.True(t, payload.Pagination.HasMore)
}

func TestNewPageMetaHasMoreLaw(t *testing.T) {
	require.True(t, utils.NewPageMeta(10, 5, 0, 5).HasMore)
	require.False(t, utils.NewPageMeta(10, 5, 5, 5).HasMore)
	require.False(t, utils.NewPageMeta(10, 5, 12, 0).HasMore)
	require.False(t, utils.NewPageMeta(0, 5, 0, 0).HasMore)
}

func TestFailIncludesDetails(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		details := map[string]string{"field": "reason"}
		return utils.Fail(c, fiber.StatusBadRequest, "invalid payload", details)
	})

	resp := performRequest(t, app, http.MethodGet, "/")
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var payload struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	}
	decode(t, resp, &payload)

	require.False(t, payload.Success)
	require.Equal(t, "invalid payload", payload.Message)
	require.Equal(t, "reason", payload.Details["field"])
}

func performRequest(t *testing.T, app *fiber.App, method, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
