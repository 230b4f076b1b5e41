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

type stubLeadFlow struct {
	intakeErr error
	lastReq   *dto.IntakeLeadRequest
}

func (s *stubLeadFlow) IntakeLead(ctx context.Context, req *dto.IntakeLeadRequest, metadata *businessflow.ClientMetadata) (*dto.LeadDTO, error) {
	s.lastReq = req
	if s.intakeErr != nil {
		return nil, s.intakeErr
	}
	return &dto.LeadDTO{ID: 1, FullName: req.FullName, Status: "lead"}, nil
}

func (s *stubLeadFlow) GetLead(ctx context.Context, id uint) (*dto.LeadDTO, error) {
	return nil, businessflow.NewBusinessError("LEAD_NOT_FOUND", "Lead not found", businessflow.ErrLeadNotFound)
}

func (s *stubLeadFlow) ListLeads(ctx context.Context, req *dto.ListLeadsRequest) (*dto.ListLeadsResponse, error) {
	return &dto.ListLeadsResponse{}, nil
}

func (s *stubLeadFlow) UpdateLead(ctx context.Context, id uint, req *dto.UpdateLeadRequest, actorID uint, metadata *businessflow.ClientMetadata) (*dto.LeadDTO, error) {
	return nil, businessflow.NewBusinessError("LEAD_NOT_FOUND", "Lead not found", businessflow.ErrLeadNotFound)
}

func (s *stubLeadFlow) ChangeStatus(ctx context.Context, id uint, req *dto.ChangeLeadStatusRequest, actorID uint, metadata *businessflow.ClientMetadata) (*dto.LeadDTO, error) {
	return nil, businessflow.NewBusinessError("LEAD_NOT_FOUND", "Lead not found", businessflow.ErrLeadNotFound)
}

func newLeadTestApp(flow businessflow.LeadFlow) *fiber.App {
	app := fiber.New()
	handler := NewLeadHandler(flow)
	app.Post("/api/v1/leads/intake", handler.Intake)
	return app
}

func postIntake(t *testing.T, app *fiber.App, body string) (int, apiErrorResponse) {
	t.Helper()

	req := httptest.NewRequest("POST", "/api/v1/leads/intake", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed apiErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp.StatusCode, parsed
}

func TestLeadIntakeHandler(t *testing.T) {
	t.Run("CreatesLead", func(t *testing.T) {
		flow := &stubLeadFlow{}
		app := newLeadTestApp(flow)

		status, parsed := postIntake(t, app, `{"full_name":"Laura Gomez","email":"laura@example.com"}`)
		assert.Equal(t, fiber.StatusCreated, status)
		assert.True(t, parsed.Success)
		require.NotNil(t, flow.lastReq)
		assert.Equal(t, "Laura Gomez", flow.lastReq.FullName)
	})

	t.Run("MissingNameFailsValidation", func(t *testing.T) {
		flow := &stubLeadFlow{}
		app := newLeadTestApp(flow)

		status, parsed := postIntake(t, app, `{"email":"laura@example.com"}`)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", parsed.Error.Code)
		assert.Nil(t, flow.lastReq)
	})

	t.Run("BadEmailFailsValidation", func(t *testing.T) {
		flow := &stubLeadFlow{}
		app := newLeadTestApp(flow)

		status, parsed := postIntake(t, app, `{"full_name":"Laura","email":"not-an-email"}`)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "VALIDATION_ERROR", parsed.Error.Code)
	})

	t.Run("MalformedJSONIs400", func(t *testing.T) {
		flow := &stubLeadFlow{}
		app := newLeadTestApp(flow)

		status, parsed := postIntake(t, app, `{"full_name":`)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "INVALID_REQUEST", parsed.Error.Code)
	})

	t.Run("MissingContactMapsTo400", func(t *testing.T) {
		flow := &stubLeadFlow{intakeErr: businessflow.NewBusinessError("VALIDATION_ERROR", "contact required", businessflow.ErrLeadContactRequired)}
		app := newLeadTestApp(flow)

		status, parsed := postIntake(t, app, `{"full_name":"Laura Gomez"}`)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "LEAD_CONTACT_REQUIRED", parsed.Error.Code)
	})
}
