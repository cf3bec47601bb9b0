package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ondertalhatorpil/uye-onder-api/internal/apperr"
	"github.com/ondertalhatorpil/uye-onder-api/internal/dto"
	"github.com/ondertalhatorpil/uye-onder-api/internal/handler"
	"github.com/ondertalhatorpil/uye-onder-api/internal/service"
	"github.com/ondertalhatorpil/uye-onder-api/internal/utils"
)

type mockActivityService struct {
	lastActor   service.Actor
	lastListReq dto.ActivityListRequest
	response    dto.ActivityResponse
	list        []dto.ActivityResponse
	total       int64
	err         error
}

func (m *mockActivityService) Create(_ context.Context, actor service.Actor, _ dto.ActivityCreateRequest) (dto.ActivityResponse, error) {
	m.lastActor = actor
	return m.response, m.err
}

func (m *mockActivityService) Get(_ context.Context, _ uint, viewer service.Actor) (dto.ActivityResponse, error) {
	m.lastActor = viewer
	return m.response, m.err
}

func (m *mockActivityService) List(_ context.Context, req dto.ActivityListRequest, viewer service.Actor) ([]dto.ActivityResponse, int64, error) {
	m.lastActor = viewer
	m.lastListReq = req
	return m.list, m.total, m.err
}

func (m *mockActivityService) Update(_ context.Context, _ uint, actor service.Actor, _ dto.ActivityUpdateRequest) (dto.ActivityResponse, error) {
	m.lastActor = actor
	return m.response, m.err
}

func (m *mockActivityService) Delete(_ context.Context, _ uint, actor service.Actor) error {
	m.lastActor = actor
	return m.err
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

func newActivityApp(svc *mockActivityService, userID uint, role string) *fiber.App {
	app := fiber.New()
	logger := zerolog.New(io.Discard)
	h := handler.NewActivityHandler(svc, logger)

	public := app.Group("/api/activities", func(c *fiber.Ctx) error {
		if userID > 0 {
			c.Locals("user_id", userID)
			c.Locals("user_role", role)
		}
		return c.Next()
	})
	h.RegisterPublic(public)
	h.RegisterProtected(public)
	return app
}

func TestActivityHandler_CreateReturnsCreated(t *testing.T) {
	svc := &mockActivityService{response: dto.ActivityResponse{ID: 3, Title: "Kan bağışı organize ettik", Status: "pending"}}
	app := newActivityApp(svc, 42, "member")

	body, err := json.Marshal(dto.ActivityCreateRequest{Title: "Kan bağışı organize ettik"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/activities", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var response struct {
		Success bool                 `json:"success"`
		Data    dto.ActivityResponse `json:"data"`
		Message string               `json:"message"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Equal(t, "activity submitted for review", response.Message)
	require.Equal(t, "pending", response.Data.Status)
	require.Equal(t, uint(42), svc.lastActor.ID)
}

func TestActivityHandler_ListCarriesPaginationEnvelope(t *testing.T) {
	svc := &mockActivityService{
		list:  []dto.ActivityResponse{{ID: 1}, {ID: 2}},
		total: 7,
	}
	app := newActivityApp(svc, 0, "")

	req := httptest.NewRequest(http.MethodGet, "/api/activities?limit=2&offset=2&il=Ankara&dernek_id=5", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Success    bool                   `json:"success"`
		Data       []dto.ActivityResponse `json:"data"`
		Pagination *utils.PageMeta        `json:"pagination"`
	}
	decodeResponse(t, resp, &response)

	require.True(t, response.Success)
	require.Len(t, response.Data, 2)
	require.NotNil(t, response.Pagination)
	require.Equal(t, int64(7), response.Pagination.Total)
	require.Equal(t, 2, response.Pagination.Limit)
	require.Equal(t, 2, response.Pagination.Offset)
	require.True(t, response.Pagination.HasMore)

	require.Equal(t, "Ankara", svc.lastListReq.Il)
	require.Equal(t, uint(5), svc.lastListReq.DernekID)
}

func TestActivityHandler_ListAcceptsPageAlias(t *testing.T) {
	svc := &mockActivityService{}
	app := newActivityApp(svc, 0, "")

	req := httptest.NewRequest(http.MethodGet, "/api/activities?limit=10&page=3", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 20, svc.lastListReq.Offset)
}

func TestActivityHandler_ErrorTaxonomyMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		statusCode int
	}{
		{name: "validation", err: apperr.Validation("title too long"), statusCode: fiber.StatusBadRequest},
		{name: "not found", err: apperr.NotFound("activity not found"), statusCode: fiber.StatusNotFound},
		{name: "forbidden", err: apperr.Forbidden("activity belongs to another member"), statusCode: fiber.StatusForbidden},
		{name: "conflict", err: apperr.Conflict("already processed"), statusCode: fiber.StatusConflict},
		{name: "transient", err: apperr.Wrap(apperr.CodeTransient, "store unavailable", context.DeadlineExceeded), statusCode: fiber.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockActivityService{err: tc.err}
			app := newActivityApp(svc, 42, "member")

			req := httptest.NewRequest(http.MethodGet, "/api/activities/9", nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.statusCode, resp.StatusCode)

			var response struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			decodeResponse(t, resp, &response)
			require.False(t, response.Success)
			require.NotEmpty(t, response.Message)
		})
	}
}

func TestActivityHandler_RejectsMalformedID(t *testing.T) {
	svc := &mockActivityService{}
	app := newActivityApp(svc, 42, "member")

	req := httptest.NewRequest(http.MethodGet, "/api/activities/abc", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
