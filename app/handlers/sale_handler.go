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

// SaleHandlerInterface defines the contract for sale endpoints
type SaleHandlerInterface interface {
	GetByLead(c fiber.Ctx) error
	List(c fiber.Ctx) error
	History(c fiber.Ctx) error
	RecordPayment(c fiber.Ctx) error
	GrantAccess(c fiber.Ctx) error
	GrantExemption(c fiber.Ctx) error
}

// SaleHandler handles staff sale management
type SaleHandler struct {
	flow      businessflow.SaleFlow
	validator *validator.Validate
}

func NewSaleHandler(flow businessflow.SaleFlow) SaleHandlerInterface {
	return &SaleHandler{
		flow:      flow,
		validator: newValidator(),
	}
}

func (h *SaleHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *SaleHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// GetByLead returns the sale attached to a lead
// @Summary Get Sale by Lead
// @Tags Admin Sales
// @Produce json
// @Param id path int true "Lead ID"
// @Success 200 {object} dto.APIResponse{data=dto.SaleDTO}
// @Failure 404 {object} dto.APIResponse "Sale not found"
// @Router /api/v1/admin/leads/{id}/sale [get]
func (h *SaleHandler) GetByLead(c fiber.Ctx) error {
	leadID, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid lead ID", "INVALID_ID", nil)
	}

	result, err := h.flow.GetSaleByLead(h.createRequestContext(c, "/api/v1/admin/leads/:id/sale"), leadID)
	if err != nil {
		if businessflow.IsSaleNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Sale not found", "SALE_NOT_FOUND", nil)
		}

		log.Println("Get sale failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load sale", "GET_SALE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Sale retrieved", result)
}

// List returns a page of sales
// @Summary List Sales
// @Tags Admin Sales
// @Produce json
// @Param access_granted query bool false "Filter by access flag"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListSalesResponse}
// @Router /api/v1/admin/sales [get]
func (h *SaleHandler) List(c fiber.Ctx) error {
	var req dto.ListSalesRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.ListSales(h.createRequestContext(c, "/api/v1/admin/sales"), &req)
	if err != nil {
		log.Println("List sales failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list sales", "LIST_SALES_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Sales retrieved", result)
}

// History returns the action log of a sale
// @Summary Sale History
// @Tags Admin Sales
// @Produce json
// @Param id path int true "Sale ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.SaleHistoryDTO}
// @Failure 404 {object} dto.APIResponse "Sale not found"
// @Router /api/v1/admin/sales/{id}/history [get]
func (h *SaleHandler) History(c fiber.Ctx) error {
	saleID, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid sale ID", "INVALID_ID", nil)
	}

	result, err := h.flow.SaleHistory(h.createRequestContext(c, "/api/v1/admin/sales/:id/history"), saleID)
	if err != nil {
		if businessflow.IsSaleNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Sale not found", "SALE_NOT_FOUND", nil)
		}

		log.Println("Sale history failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load history", "SALE_HISTORY_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Sale history retrieved", result)
}

// RecordPayment appends a payment to a sale
// @Summary Record Payment
// @Tags Admin Sales
// @Accept json
// @Produce json
// @Param id path int true "Sale ID"
// @Param request body dto.RecordPaymentRequest true "Payment data"
// @Success 200 {object} dto.APIResponse{data=dto.SaleDTO}
// @Failure 404 {object} dto.APIResponse "Sale not found"
// @Router /api/v1/admin/sales/{id}/payments [post]
func (h *SaleHandler) RecordPayment(c fiber.Ctx) error {
	saleID, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid sale ID", "INVALID_ID", nil)
	}

	var req dto.RecordPaymentRequest
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

	result, err := h.flow.RecordPayment(h.createRequestContext(c, "/api/v1/admin/sales/:id/payments"), saleID, &req, actorID, metadata)
	if err != nil {
		if businessflow.IsSaleNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Sale not found", "SALE_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidPayment(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Payment amount must be positive", "INVALID_PAYMENT", nil)
		}

		log.Println("Record payment failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to record payment", "RECORD_PAYMENT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Payment recorded", result)
}

// GrantAccess opens the course access window for a sale
// @Summary Grant Course Access
// @Tags Admin Sales
// @Accept json
// @Produce json
// @Param id path int true "Sale ID"
// @Param request body dto.GrantAccessRequest true "Optional details"
// @Success 200 {object} dto.APIResponse{data=dto.SaleDTO}
// @Failure 404 {object} dto.APIResponse "Sale not found"
// @Failure 422 {object} dto.APIResponse "Payment below minimum"
// @Router /api/v1/admin/sales/{id}/grant-access [post]
func (h *SaleHandler) GrantAccess(c fiber.Ctx) error {
	saleID, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid sale ID", "INVALID_ID", nil)
	}

	var req dto.GrantAccessRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	actorID, ok := middleware.GetProfileIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.flow.GrantAccess(h.createRequestContext(c, "/api/v1/admin/sales/:id/grant-access"), saleID, &req, actorID, metadata)
	if err != nil {
		if businessflow.IsSaleNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Sale not found", "SALE_NOT_FOUND", nil)
		}
		if businessflow.IsAccessAlreadyActive(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Course access already granted", "ACCESS_ALREADY_ACTIVE", nil)
		}
		if businessflow.IsInsufficientPayment(err) {
			return h.ErrorResponse(c, fiber.StatusUnprocessableEntity, "Paid amount below minimum required for access", "INSUFFICIENT_PAYMENT", nil)
		}

		log.Println("Grant access failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to grant access", "GRANT_ACCESS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Course access granted", result)
}

// GrantExemption marks a sale as exempt from the payment minimum
// @Summary Grant Payment Exemption
// @Tags Admin Sales
// @Accept json
// @Produce json
// @Param id path int true "Sale ID"
// @Param request body dto.GrantExemptionRequest true "Optional details"
// @Success 200 {object} dto.APIResponse{data=dto.SaleDTO}
// @Failure 404 {object} dto.APIResponse "Sale not found"
// @Router /api/v1/admin/sales/{id}/grant-exemption [post]
func (h *SaleHandler) GrantExemption(c fiber.Ctx) error {
	saleID, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid sale ID", "INVALID_ID", nil)
	}

	var req dto.GrantExemptionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	actorID, ok := middleware.GetProfileIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.flow.GrantExemption(h.createRequestContext(c, "/api/v1/admin/sales/:id/grant-exemption"), saleID, &req, actorID, metadata)
	if err != nil {
		if businessflow.IsSaleNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Sale not found", "SALE_NOT_FOUND", nil)
		}

		log.Println("Grant exemption failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to grant exemption", "GRANT_EXEMPTION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Exemption granted", result)
}

func (h *SaleHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *SaleHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
