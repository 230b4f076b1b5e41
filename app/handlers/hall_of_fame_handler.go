package handlers

import (
	"context"
	"crypto/subtle"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/cutroom-academy/cutroom-api/app/dto"
	businessflow "github.com/cutroom-academy/cutroom-api/business_flow"
	"github.com/cutroom-academy/cutroom-api/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

// HallOfFameHandlerInterface defines the contract for hall of fame endpoints
type HallOfFameHandlerInterface interface {
	Webhook(c fiber.Ctx) error
	List(c fiber.Ctx) error
}

// HallOfFameHandler receives voting platform webhooks and serves the public showcase
type HallOfFameHandler struct {
	flow          businessflow.HallOfFameFlow
	webhookSecret string
	validator     *validator.Validate
}

func NewHallOfFameHandler(flow businessflow.HallOfFameFlow, webhookSecret string) HallOfFameHandlerInterface {
	return &HallOfFameHandler{
		flow:          flow,
		webhookSecret: webhookSecret,
		validator:     newValidator(),
	}
}

func (h *HallOfFameHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *HallOfFameHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Webhook applies a hall of fame event from the voting platform
// @Summary Hall of Fame Webhook
// @Tags HallOfFame
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer webhook secret"
// @Param request body dto.HallOfFameWebhookRequest true "Event payload"
// @Success 200 {object} dto.APIResponse{data=dto.HallOfFameEntryDTO}
// @Failure 400 {object} dto.APIResponse "Unknown event type or bad payload"
// @Failure 401 {object} dto.APIResponse "Bad webhook secret"
// @Router /api/v1/webhooks/hall-of-fame [post]
func (h *HallOfFameHandler) Webhook(c fiber.Ctx) error {
	if !h.authorized(c) {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid webhook credentials", "INVALID_WEBHOOK_SECRET", nil)
	}

	var req dto.HallOfFameWebhookRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrorMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	result, err := h.flow.ApplyWebhook(h.createRequestContext(c, "/api/v1/webhooks/hall-of-fame"), &req, metadata)
	if err != nil {
		if businessflow.IsHallOfFameEventType(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Unknown event type", "UNKNOWN_EVENT_TYPE", nil)
		}
		if businessflow.IsHallOfFameEntryFields(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Entry fields are incomplete", "ENTRY_FIELDS_INCOMPLETE", nil)
		}
		if businessflow.IsHallOfFameEntryNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Entry not found", "ENTRY_NOT_FOUND", nil)
		}

		log.Println("Hall of fame webhook failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to apply event", "WEBHOOK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Event applied", result)
}

// List returns the showcase ordered by votes
// @Summary List Hall of Fame
// @Tags HallOfFame
// @Produce json
// @Param limit query int false "Maximum entries"
// @Success 200 {object} dto.APIResponse{data=[]dto.HallOfFameEntryDTO}
// @Router /api/v1/hall-of-fame [get]
func (h *HallOfFameHandler) List(c fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid limit", "INVALID_LIMIT", nil)
		}
		limit = parsed
	}

	result, err := h.flow.ListEntries(h.createRequestContext(c, "/api/v1/hall-of-fame"), limit)
	if err != nil {
		log.Println("List hall of fame failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load entries", "LIST_HALL_OF_FAME_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Entries retrieved", result)
}

// authorized checks the Bearer secret in constant time
func (h *HallOfFameHandler) authorized(c fiber.Ctx) bool {
	if h.webhookSecret == "" {
		return false
	}
	authHeader := c.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return false
	}
	supplied := strings.TrimPrefix(authHeader, "Bearer ")
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(h.webhookSecret)) == 1
}

func (h *HallOfFameHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 15*time.Second)
}

func (h *HallOfFameHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
