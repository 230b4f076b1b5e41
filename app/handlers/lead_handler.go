package handlers

import (
	"context"
	"log"
	"time"

	"github.com/cutroom-academy/cutroom-api/app/dto"
	"github.com/cutroom-academy/cutroom-api/app/middleware"
	businessflow "github.com/cutroom-academy/cutroom-api/business_flow"
	"github.com/cutroom-academy/cutroom-api/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// LeadHandlerInterface defines the contract for lead endpoints
type LeadHandlerInterface interface {
	Intake(c fiber.Ctx) error
	Get(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	ChangeStatus(c fiber.Ctx) error
}

// LeadHandler handles the public intake form and staff lead management
type LeadHandler struct {
	flow      businessflow.LeadFlow
	validator *validator.Validate
}

func NewLeadHandler(flow businessflow.LeadFlow) LeadHandlerInterface {
	return &LeadHandler{
		flow:      flow,
		validator: newValidator(),
	}
}

func (h *LeadHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *LeadHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Intake receives the public course interest form and creates a lead
// @Summary Lead Intake
// @Tags Leads
// @Accept json
// @Produce json
// @Param request body dto.IntakeLeadRequest true "Lead contact data"
// @Success 201 {object} dto.APIResponse{data=dto.LeadDTO}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/leads/intake [post]
func (h *LeadHandler) Intake(c fiber.Ctx) error {
	var req dto.IntakeLeadRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.flow.IntakeLead(h.createRequestContext(c, "/api/v1/leads/intake"), &req, metadata)
	if err != nil {
		if businessflow.IsLeadNameRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Full name is required", "LEAD_NAME_REQUIRED", nil)
		}
		if businessflow.IsLeadContactRequired(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "An email or phone number is required", "LEAD_CONTACT_REQUIRED", nil)
		}

		log.Println("Lead intake failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to submit", "LEAD_INTAKE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Thanks, we will contact you shortly", result)
}

// Get returns one lead with its status history
// @Summary Get Lead
// @Tags Admin Leads
// @Produce json
// @Param id path int true "Lead ID"
// @Success 200 {object} dto.APIResponse{data=dto.LeadDTO}
// @Failure 404 {object} dto.APIResponse "Lead not found"
// @Router /api/v1/admin/leads/{id} [get]
func (h *LeadHandler) Get(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid lead ID", "INVALID_ID", nil)
	}

	result, err := h.flow.GetLead(h.createRequestContext(c, "/api/v1/admin/leads/:id"), id)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", "LEAD_NOT_FOUND", nil)
		}

		log.Println("Get lead failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load lead", "GET_LEAD_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Lead retrieved", result)
}

// List returns a page of leads
// @Summary List Leads
// @Tags Admin Leads
// @Produce json
// @Param status query string false "Filter by status"
// @Param source query string false "Filter by source"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListLeadsResponse}
// @Router /api/v1/admin/leads [get]
func (h *LeadHandler) List(c fiber.Ctx) error {
	var req dto.ListLeadsRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.ListLeads(h.createRequestContext(c, "/api/v1/admin/leads"), &req)
	if err != nil {
		if businessflow.IsInvalidLeadStatus(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown lead status", "INVALID_LEAD_STATUS", nil)
		}

		log.Println("List leads failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list leads", "LIST_LEADS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Leads retrieved", result)
}

// Update patches a lead's contact fields
// @Summary Update Lead
// @Tags Admin Leads
// @Accept json
// @Produce json
// @Param id path int true "Lead ID"
// @Param request body dto.UpdateLeadRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.LeadDTO}
// @Failure 404 {object} dto.APIResponse "Lead not found"
// @Router /api/v1/admin/leads/{id} [put]
func (h *LeadHandler) Update(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid lead ID", "INVALID_ID", nil)
	}

	var req dto.UpdateLeadRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorMessages(err))
	}

	actorID, ok := middleware.GetProfileIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.flow.UpdateLead(h.createRequestContext(c, "/api/v1/admin/leads/:id"), id, &req, actorID, metadata)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", "LEAD_NOT_FOUND", nil)
		}

		log.Println("Update lead failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update lead", "UPDATE_LEAD_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Lead updated", result)
}

// ChangeStatus moves the lead through the status machine. Transitioning into
// sale creates the sale record in the same transaction.
// @Summary Change Lead Status
// @Tags Admin Leads
// @Accept json
// @Produce json
// @Param id path int true "Lead ID"
// @Param request body dto.ChangeLeadStatusRequest true "Target status"
// @Success 200 {object} dto.APIResponse{data=dto.LeadDTO}
// @Failure 404 {object} dto.APIResponse "Lead not found"
// @Failure 422 {object} dto.APIResponse "Transition not allowed"
// @Router /api/v1/admin/leads/{id}/status [post]
func (h *LeadHandler) ChangeStatus(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid lead ID", "INVALID_ID", nil)
	}

	var req dto.ChangeLeadStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorMessages(err))
	}

	actorID, ok := middleware.GetProfileIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.flow.ChangeStatus(h.createRequestContext(c, "/api/v1/admin/leads/:id/status"), id, &req, actorID, metadata)
	if err != nil {
		if businessflow.IsLeadNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Lead not found", "LEAD_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidLeadStatus(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown lead status", "INVALID_LEAD_STATUS", nil)
		}
		if businessflow.IsInvalidLeadTransition(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Status transition not allowed", "INVALID_LEAD_TRANSITION", nil)
		}
		if businessflow.IsSaleAlreadyExists(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Sale already exists for this lead", "SALE_ALREADY_EXISTS", nil)
		}

		log.Println("Change lead status failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to change lead status", "CHANGE_LEAD_STATUS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Lead status changed", result)
}

func (h *LeadHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *LeadHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
