package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/url"
	"strings"
	"time"

	"github.com/cutroom-academy/cutroom-api/app/middleware"
	businessflow "github.com/cutroom-academy/cutroom-api/business_flow"
	"github.com/cutroom-academy/cutroom-api/utils"
	"github.com/gofiber/fiber/v3"
)

// RedirectHandlerInterface defines the contract for the public ad link endpoint
type RedirectHandlerInterface interface {
	Go(c fiber.Ctx) error
}

// RedirectHandler serves /go/:slug. It always answers with a redirect of some
// form; failures degrade to the site root.
type RedirectHandler struct {
	flow          businessflow.RedirectFlow
	redirectDelay time.Duration
}

func NewRedirectHandler(flow businessflow.RedirectFlow, redirectDelay time.Duration) RedirectHandlerInterface {
	return &RedirectHandler{flow: flow, redirectDelay: redirectDelay}
}

// Go resolves an ad link slug, records the click, and redirects
// @Summary Visit Ad Link
// @Tags AdLinks
// @Param slug path string true "Ad link slug"
// @Success 302 {string} string "Redirect"
// @Success 200 {string} string "Client-side redirect page"
// @Router /go/{slug} [get]
func (h *RedirectHandler) Go(c fiber.Ctx) error {
	slug := c.Params("slug")

	query, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		query = url.Values{}
	}

	metadata := h.buildClientMetadata(c)

	decision := h.flow.Resolve(h.createRequestContext(c, "/go/"+slug), slug, query, metadata)

	if decision.TargetURL == "/" {
		middleware.RecordRedirect("home")
		return c.Redirect().Status(fiber.StatusFound).To("/")
	}

	if decision.ClientSide {
		middleware.RecordRedirect("interstitial")
		c.Set("Content-Type", "text/html; charset=utf-8")
		return c.SendString(h.interstitialPage(decision.TargetURL))
	}

	middleware.RecordRedirect("redirect")
	return c.Redirect().Status(fiber.StatusFound).To(decision.TargetURL)
}

// buildClientMetadata collects the attribution fields the reverse proxy passes
// through. The first X-Forwarded-For entry is the original client.
func (h *RedirectHandler) buildClientMetadata(c fiber.Ctx) *businessflow.ClientMetadata {
	ip := clientIP(c)

	metadata := businessflow.NewClientMetadata(ip, c.Get("User-Agent"))
	metadata.Referrer = c.Get("Referer")
	metadata.SetRequestID(c.Get("X-Request-ID"))

	country := c.Get("X-Geo-Country")
	region := c.Get("X-Geo-Region")
	city := c.Get("X-Geo-City")
	if country != "" || region != "" || city != "" {
		metadata.SetLocation(&businessflow.LocationInfo{
			Country: country,
			Region:  region,
			City:    city,
		})
	}

	return metadata
}

func clientIP(c fiber.Ctx) string {
	if fwd := c.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := c.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := c.IP(); ip != "" {
		return ip
	}
	return utils.FallbackClientIP
}

// interstitialPage renders the client-side redirect used for foreign-origin
// targets, so the browser records our origin in the referrer chain before
// hopping off-site.
func (h *RedirectHandler) interstitialPage(target string) string {
	delaySeconds := h.redirectDelay.Seconds()
	escaped := html.EscapeString(target)

	// JSON encoding keeps angle brackets out of the script element
	jsTarget, _ := json.Marshal(target)

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="%.0f;url=%s">
<title>Redirigiendo...</title>
<style>
body{font-family:sans-serif;display:flex;align-items:center;justify-content:center;height:100vh;margin:0}
.box{text-align:center}
</style>
</head>
<body>
<div class="box">
<p>Te estamos redirigiendo...</p>
<p><a href="%s">Haz clic aqui si no eres redirigido</a></p>
</div>
<script>setTimeout(function(){window.location.replace(%s)},%d)</script>
</body>
</html>`, delaySeconds, escaped, escaped, jsTarget, h.redirectDelay.Milliseconds())
}

func (h *RedirectHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 10*time.Second)
}

func (h *RedirectHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, clientIP(c))
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
