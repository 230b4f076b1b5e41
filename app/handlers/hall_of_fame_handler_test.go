package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cutroom-academy/cutroom-api/app/dto"
	businessflow "github.com/cutroom-academy/cutroom-api/business_flow"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHallOfFameFlow struct {
	applyErr error
	lastReq  *dto.HallOfFameWebhookRequest
	entries  []dto.HallOfFameEntryDTO
}

func (s *stubHallOfFameFlow) ApplyWebhook(ctx context.Context, req *dto.HallOfFameWebhookRequest, metadata *businessflow.ClientMetadata) (*dto.HallOfFameEntryDTO, error) {
	s.lastReq = req
	if s.applyErr != nil {
		return nil, s.applyErr
	}
	return &dto.HallOfFameEntryDTO{ID: 1, ExternalID: req.ExternalID, StudentName: req.StudentName}, nil
}

func (s *stubHallOfFameFlow) ListEntries(ctx context.Context, limit int) ([]dto.HallOfFameEntryDTO, error) {
	return s.entries, nil
}

const testWebhookSecret = "hook-secret-123"

func newHallOfFameTestApp(flow businessflow.HallOfFameFlow, secret string) *fiber.App {
	app := fiber.New()
	handler := NewHallOfFameHandler(flow, secret)
	app.Post("/api/v1/webhooks/hall-of-fame", handler.Webhook)
	app.Get("/api/v1/hall-of-fame", handler.List)
	return app
}

type apiErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

func postWebhook(t *testing.T, app *fiber.App, authHeader, body string) (int, apiErrorResponse) {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/v1/webhooks/hall-of-fame", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed apiErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp.StatusCode, parsed
}

func TestHallOfFameWebhookHandler(t *testing.T) {
	validBody := `{"event_type":"new_submission","external_id":"sub-1","student_name":"Ana","video_url":"https://videos.example.com/a.mp4"}`

	t.Run("AcceptsValidSecret", func(t *testing.T) {
		flow := &stubHallOfFameFlow{}
		app := newHallOfFameTestApp(flow, testWebhookSecret)

		status, parsed := postWebhook(t, app, "Bearer "+testWebhookSecret, validBody)
		assert.Equal(t, fiber.StatusOK, status)
		assert.True(t, parsed.Success)
		require.NotNil(t, flow.lastReq)
		assert.Equal(t, "sub-1", flow.lastReq.ExternalID)
	})

	t.Run("RejectsMissingAuthorization", func(t *testing.T) {
		flow := &stubHallOfFameFlow{}
		app := newHallOfFameTestApp(flow, testWebhookSecret)

		status, parsed := postWebhook(t, app, "", validBody)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.False(t, parsed.Success)
		assert.Equal(t, "INVALID_WEBHOOK_SECRET", parsed.Error.Code)
		assert.Nil(t, flow.lastReq)
	})

	t.Run("RejectsWrongSecret", func(t *testing.T) {
		flow := &stubHallOfFameFlow{}
		app := newHallOfFameTestApp(flow, testWebhookSecret)

		status, _ := postWebhook(t, app, "Bearer wrong-secret", validBody)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Nil(t, flow.lastReq)
	})

	t.Run("RejectsNonBearerScheme", func(t *testing.T) {
		flow := &stubHallOfFameFlow{}
		app := newHallOfFameTestApp(flow, testWebhookSecret)

		status, _ := postWebhook(t, app, "Basic "+testWebhookSecret, validBody)
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("EmptyConfiguredSecretRejectsEverything", func(t *testing.T) {
		flow := &stubHallOfFameFlow{}
		app := newHallOfFameTestApp(flow, "")

		status, _ := postWebhook(t, app, "Bearer ", validBody)
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})

	t.Run("ValidationFailureIs400", func(t *testing.T) {
		flow := &stubHallOfFameFlow{}
		app := newHallOfFameTestApp(flow, testWebhookSecret)

		status, parsed := postWebhook(t, app, "Bearer "+testWebhookSecret, `{"event_type":"new_submission"}`)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", parsed.Error.Code)
	})

	t.Run("UnknownEventTypeIs400", func(t *testing.T) {
		flow := &stubHallOfFameFlow{applyErr: businessflow.NewBusinessError("UNKNOWN_EVENT_TYPE", "Unknown event type", businessflow.ErrHallOfFameEventType)}
		app := newHallOfFameTestApp(flow, testWebhookSecret)

		status, parsed := postWebhook(t, app, "Bearer "+testWebhookSecret, validBody)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "UNKNOWN_EVENT_TYPE", parsed.Error.Code)
	})

	t.Run("MissingEntryIs404", func(t *testing.T) {
		flow := &stubHallOfFameFlow{applyErr: businessflow.NewBusinessError("ENTRY_NOT_FOUND", "No entry", businessflow.ErrHallOfFameEntryNotFound)}
		app := newHallOfFameTestApp(flow, testWebhookSecret)

		status, parsed := postWebhook(t, app, "Bearer "+testWebhookSecret, validBody)
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Equal(t, "ENTRY_NOT_FOUND", parsed.Error.Code)
	})
}

func TestHallOfFameListHandler(t *testing.T) {
	t.Run("ReturnsEntries", func(t *testing.T) {
		flow := &stubHallOfFameFlow{entries: []dto.HallOfFameEntryDTO{
			{ID: 1, ExternalID: "sub-2", StudentName: "Ana", Votes: 40},
			{ID: 2, ExternalID: "sub-1", StudentName: "Luis", Votes: 10},
		}}
		app := newHallOfFameTestApp(flow, testWebhookSecret)

		req := httptest.NewRequest("GET", "/api/v1/hall-of-fame?limit=10", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		var parsed apiErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
		assert.True(t, parsed.Success)
	})

	t.Run("RejectsNonNumericLimit", func(t *testing.T) {
		app := newHallOfFameTestApp(&stubHallOfFameFlow{}, testWebhookSecret)

		req := httptest.NewRequest("GET", "/api/v1/hall-of-fame?limit=lots", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
