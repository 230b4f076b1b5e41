package router

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cutroom-academy/cutroom-api/app/middleware"
	"github.com/cutroom-academy/cutroom-api/app/services"
	"github.com/cutroom-academy/cutroom-api/config"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// okHandler satisfies every handler interface the router mounts
type okHandler struct{}

func (okHandler) respond(c fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }

func (h okHandler) Login(c fiber.Ctx) error               { return h.respond(c) }
func (h okHandler) Refresh(c fiber.Ctx) error             { return h.respond(c) }
func (h okHandler) Health(c fiber.Ctx) error              { return h.respond(c) }
func (h okHandler) Go(c fiber.Ctx) error                  { return h.respond(c) }
func (h okHandler) Create(c fiber.Ctx) error              { return h.respond(c) }
func (h okHandler) Update(c fiber.Ctx) error              { return h.respond(c) }
func (h okHandler) Deactivate(c fiber.Ctx) error          { return h.respond(c) }
func (h okHandler) List(c fiber.Ctx) error                { return h.respond(c) }
func (h okHandler) Stats(c fiber.Ctx) error               { return h.respond(c) }
func (h okHandler) ValidateSlug(c fiber.Ctx) error        { return h.respond(c) }
func (h okHandler) Intake(c fiber.Ctx) error              { return h.respond(c) }
func (h okHandler) Get(c fiber.Ctx) error                 { return h.respond(c) }
func (h okHandler) ChangeStatus(c fiber.Ctx) error        { return h.respond(c) }
func (h okHandler) GetByLead(c fiber.Ctx) error           { return h.respond(c) }
func (h okHandler) History(c fiber.Ctx) error             { return h.respond(c) }
func (h okHandler) RecordPayment(c fiber.Ctx) error       { return h.respond(c) }
func (h okHandler) GrantAccess(c fiber.Ctx) error         { return h.respond(c) }
func (h okHandler) GrantExemption(c fiber.Ctx) error      { return h.respond(c) }
func (h okHandler) Section(c fiber.Ctx) error             { return h.respond(c) }
func (h okHandler) ListItems(c fiber.Ctx) error           { return h.respond(c) }
func (h okHandler) Upsert(c fiber.Ctx) error              { return h.respond(c) }
func (h okHandler) Webhook(c fiber.Ctx) error             { return h.respond(c) }
func (h okHandler) ExportLeadsAndSales(c fiber.Ctx) error { return h.respond(c) }

type routeErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newTestRouterApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.ProductionConfig{}
	cfg.Security.GlobalRateLimit = 1000
	cfg.Security.AuthRateLimit = 100
	cfg.Security.RateLimitWindow = time.Minute

	tokenService, err := services.NewTokenService(
		15*time.Minute, 24*time.Hour,
		"cutroom-academy", "cutroom-api",
		false, "", "", "router-test-secret-0123456789abcdef",
	)
	require.NoError(t, err)

	r := NewFiberRouter(Handlers{
		Auth:       okHandler{},
		Redirect:   okHandler{},
		AdLink:     okHandler{},
		Lead:       okHandler{},
		Sale:       okHandler{},
		Content:    okHandler{},
		HallOfFame: okHandler{},
		Export:     okHandler{},
	}, middleware.NewAuthMiddleware(tokenService), cfg)
	r.SetupRoutes()

	return r.GetApp()
}

func requestStatus(t *testing.T, app *fiber.App, method, path string) (int, routeErrorResponse) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(method, path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var parsed routeErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&parsed)
	return resp.StatusCode, parsed
}

func TestValidateSlugMethodGuard(t *testing.T) {
	app := newTestRouterApp(t)

	t.Run("PostReachesHandler", func(t *testing.T) {
		status, _ := requestStatus(t, app, "POST", "/api/v1/ad-links/validate-slug")
		assert.Equal(t, fiber.StatusOK, status)
	})

	t.Run("OtherVerbsAnswer405", func(t *testing.T) {
		for _, method := range []string{"GET", "PUT", "DELETE", "PATCH"} {
			status, parsed := requestStatus(t, app, method, "/api/v1/ad-links/validate-slug")
			assert.Equal(t, fiber.StatusMethodNotAllowed, status, method)
			assert.Equal(t, "METHOD_NOT_ALLOWED", parsed.Error.Code, method)
		}
	})

	t.Run("UnknownPathStays404", func(t *testing.T) {
		status, parsed := requestStatus(t, app, "GET", "/api/v1/no-such-route")
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Equal(t, "NOT_FOUND", parsed.Error.Code)
	})
}
