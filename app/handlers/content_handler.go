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

// ContentHandlerInterface defines the contract for content endpoints
type ContentHandlerInterface interface {
	Section(c fiber.Ctx) error
	ListItems(c fiber.Ctx) error
	Upsert(c fiber.Ctx) error
}

// ContentHandler serves the public section content and the staff editor
type ContentHandler struct {
	flow      businessflow.ContentFlow
	validator *validator.Validate
}

func NewContentHandler(flow businessflow.ContentFlow) ContentHandlerInterface {
	return &ContentHandler{
		flow:      flow,
		validator: newValidator(),
	}
}

func (h *ContentHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *ContentHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Section returns the rendered content of one site section
// @Summary Get Section Content
// @Tags Content
// @Produce json
// @Param section path string true "Section name"
// @Success 200 {object} dto.APIResponse{data=dto.SectionContentResponse}
// @Router /api/v1/content/{section} [get]
func (h *ContentHandler) Section(c fiber.Ctx) error {
	section := c.Params("section")
	if section == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Section is required", "SECTION_REQUIRED", nil)
	}

	result, err := h.flow.SectionContent(h.createRequestContext(c, "/api/v1/content/:section"), section)
	if err != nil {
		log.Println("Section content failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load content", "SECTION_CONTENT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Content retrieved", result)
}

// ListItems returns the raw content items of a section for the editor
// @Summary List Section Items
// @Tags Admin Content
// @Produce json
// @Param section path string true "Section name"
// @Success 200 {object} dto.APIResponse{data=[]dto.ContentItemDTO}
// @Router /api/v1/admin/content/{section} [get]
func (h *ContentHandler) ListItems(c fiber.Ctx) error {
	section := c.Params("section")
	if section == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Section is required", "SECTION_REQUIRED", nil)
	}

	result, err := h.flow.ListSectionItems(h.createRequestContext(c, "/api/v1/admin/content/:section"), section)
	if err != nil {
		log.Println("List content items failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load content items", "LIST_CONTENT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Content items retrieved", result)
}

// Upsert creates or replaces a content item
// @Summary Upsert Content Item
// @Tags Admin Content
// @Accept json
// @Produce json
// @Param request body dto.UpsertContentRequest true "Content item"
// @Success 200 {object} dto.APIResponse{data=dto.ContentItemDTO}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/admin/content [put]
func (h *ContentHandler) Upsert(c fiber.Ctx) error {
	var req dto.UpsertContentRequest
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

	result, err := h.flow.UpsertContent(h.createRequestContext(c, "/api/v1/admin/content"), &req, actorID, metadata)
	if err != nil {
		if businessflow.IsInvalidContentKind(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown content kind", "INVALID_CONTENT_KIND", nil)
		}
		if businessflow.IsContentValueMissing(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Content value is required for its kind", "CONTENT_VALUE_REQUIRED", nil)
		}

		log.Println("Upsert content failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save content", "UPSERT_CONTENT_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Content saved", result)
}

func (h *ContentHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 15*time.Second)
}

func (h *ContentHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
