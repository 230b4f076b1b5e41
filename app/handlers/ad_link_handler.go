package handlers

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/cutroom-academy/cutroom-api/app/dto"
	"github.com/cutroom-academy/cutroom-api/app/middleware"
	businessflow "github.com/cutroom-academy/cutroom-api/business_flow"
	"github.com/cutroom-academy/cutroom-api/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// AdLinkHandlerInterface defines the contract for ad link management endpoints
type AdLinkHandlerInterface interface {
	Create(c fiber.Ctx) error
	Update(c fiber.Ctx) error
	Deactivate(c fiber.Ctx) error
	List(c fiber.Ctx) error
	Stats(c fiber.Ctx) error
	ValidateSlug(c fiber.Ctx) error
}

// AdLinkHandler handles staff ad link management and the public slug check
type AdLinkHandler struct {
	flow      businessflow.AdLinkFlow
	validator *validator.Validate
}

func NewAdLinkHandler(flow businessflow.AdLinkFlow) AdLinkHandlerInterface {
	return &AdLinkHandler{
		flow:      flow,
		validator: newValidator(),
	}
}

func (h *AdLinkHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *AdLinkHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Create creates a new ad link
// @Summary Create Ad Link
// @Tags Admin AdLinks
// @Accept json
// @Produce json
// @Param request body dto.CreateAdLinkRequest true "Ad link data"
// @Success 201 {object} dto.APIResponse{data=dto.AdLinkDTO}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 409 {object} dto.APIResponse "Slug already exists"
// @Router /api/v1/admin/ad-links [post]
func (h *AdLinkHandler) Create(c fiber.Ctx) error {
	var req dto.CreateAdLinkRequest
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

	result, err := h.flow.CreateAdLink(h.createRequestContext(c, "/api/v1/admin/ad-links"), &req, actorID, metadata)
	if err != nil {
		if businessflow.IsInvalidSlug(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid slug format", "INVALID_SLUG", nil)
		}
		if businessflow.IsSlugTaken(err) {
			return h.ErrorResponse(c, fiber.StatusConflict, "Slug already exists", "SLUG_TAKEN", nil)
		}
		if businessflow.IsTargetURLEmpty(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Target URL is required", "TARGET_URL_REQUIRED", nil)
		}

		log.Println("Create ad link failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create ad link", "CREATE_AD_LINK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Ad link created", result)
}

// Update patches an existing ad link
// @Summary Update Ad Link
// @Tags Admin AdLinks
// @Accept json
// @Produce json
// @Param id path int true "Ad link ID"
// @Param request body dto.UpdateAdLinkRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=dto.AdLinkDTO}
// @Failure 404 {object} dto.APIResponse "Ad link not found"
// @Router /api/v1/admin/ad-links/{id} [put]
func (h *AdLinkHandler) Update(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ad link ID", "INVALID_ID", nil)
	}

	var req dto.UpdateAdLinkRequest
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

	result, err := h.flow.UpdateAdLink(h.createRequestContext(c, "/api/v1/admin/ad-links/:id"), id, &req, actorID, metadata)
	if err != nil {
		if businessflow.IsAdLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Ad link not found", "AD_LINK_NOT_FOUND", nil)
		}
		if businessflow.IsTargetURLEmpty(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Target URL is required", "TARGET_URL_REQUIRED", nil)
		}

		log.Println("Update ad link failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update ad link", "UPDATE_AD_LINK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Ad link updated", result)
}

// Deactivate turns an ad link off without deleting it
// @Summary Deactivate Ad Link
// @Tags Admin AdLinks
// @Produce json
// @Param id path int true "Ad link ID"
// @Success 200 {object} dto.APIResponse{data=dto.AdLinkDTO}
// @Failure 404 {object} dto.APIResponse "Ad link not found"
// @Router /api/v1/admin/ad-links/{id}/deactivate [post]
func (h *AdLinkHandler) Deactivate(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ad link ID", "INVALID_ID", nil)
	}

	actorID, ok := middleware.GetProfileIDFromContext(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}
	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.flow.DeactivateAdLink(h.createRequestContext(c, "/api/v1/admin/ad-links/:id/deactivate"), id, actorID, metadata)
	if err != nil {
		if businessflow.IsAdLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Ad link not found", "AD_LINK_NOT_FOUND", nil)
		}

		log.Println("Deactivate ad link failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to deactivate ad link", "DEACTIVATE_AD_LINK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Ad link deactivated", result)
}

// List returns a page of ad links
// @Summary List Ad Links
// @Tags Admin AdLinks
// @Produce json
// @Param slug query string false "Filter by slug"
// @Param is_active query bool false "Filter by active flag"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.ListAdLinksResponse}
// @Router /api/v1/admin/ad-links [get]
func (h *AdLinkHandler) List(c fiber.Ctx) error {
	var req dto.ListAdLinksRequest
	if err := c.Bind().Query(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid query parameters", "INVALID_REQUEST", err.Error())
	}

	result, err := h.flow.ListAdLinks(h.createRequestContext(c, "/api/v1/admin/ad-links"), &req)
	if err != nil {
		log.Println("List ad links failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list ad links", "LIST_AD_LINKS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Ad links retrieved", result)
}

// Stats returns per-link click statistics
// @Summary Ad Link Stats
// @Tags Admin AdLinks
// @Produce json
// @Param id path int true "Ad link ID"
// @Success 200 {object} dto.APIResponse{data=dto.AdLinkStatsResponse}
// @Failure 404 {object} dto.APIResponse "Ad link not found"
// @Router /api/v1/admin/ad-links/{id}/stats [get]
func (h *AdLinkHandler) Stats(c fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid ad link ID", "INVALID_ID", nil)
	}

	result, err := h.flow.AdLinkStats(h.createRequestContext(c, "/api/v1/admin/ad-links/:id/stats"), id)
	if err != nil {
		if businessflow.IsAdLinkNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Ad link not found", "AD_LINK_NOT_FOUND", nil)
		}

		log.Println("Ad link stats failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load stats", "AD_LINK_STATS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Ad link stats retrieved", result)
}

// ValidateSlug checks slug format and availability for the admin form
// @Summary Validate Ad Link Slug
// @Tags AdLinks
// @Accept json
// @Produce json
// @Param request body dto.ValidateSlugRequest true "Slug to check"
// @Success 200 {object} dto.APIResponse{data=dto.ValidateSlugResponse}
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Router /api/v1/ad-links/validate-slug [post]
func (h *AdLinkHandler) ValidateSlug(c fiber.Ctx) error {
	var req dto.ValidateSlugRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorMessages(err))
	}

	result, err := h.flow.ValidateSlug(h.createRequestContext(c, "/api/v1/ad-links/validate-slug"), &req)
	if err != nil {
		log.Println("Validate slug failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to validate slug", "VALIDATE_SLUG_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Slug checked", result)
}

// parseIDParam reads the :id path parameter as an unsigned integer
func parseIDParam(c fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func (h *AdLinkHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 30*time.Second)
}

func (h *AdLinkHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
