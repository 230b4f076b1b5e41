package handlers

import (
	"context"
	"log"
	"time"

	"github.com/cutroom-academy/cutroom-api/app/dto"
	businessflow "github.com/cutroom-academy/cutroom-api/business_flow"
	"github.com/cutroom-academy/cutroom-api/utils"
	"github.com/gofiber/fiber/v3"
)

// AdminExportHandlerInterface defines the contract for data export endpoints
type AdminExportHandlerInterface interface {
	ExportLeadsAndSales(c fiber.Ctx) error
}

// AdminExportHandler serves spreadsheet downloads of CRM data
type AdminExportHandler struct {
	flow businessflow.AdminExportFlow
}

func NewAdminExportHandler(flow businessflow.AdminExportFlow) AdminExportHandlerInterface {
	return &AdminExportHandler{flow: flow}
}

// ExportLeadsAndSales returns an Excel workbook with leads and sales sheets
// @Summary Export Leads and Sales
// @Tags Admin Export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {string} string "Excel file"
// @Failure 500 {object} dto.APIResponse
// @Router /api/v1/admin/export/leads-sales [get]
func (h *AdminExportHandler) ExportLeadsAndSales(c fiber.Ctx) error {
	filename, data, err := h.flow.ExportLeadsAndSales(h.createRequestContext(c, "/api/v1/admin/export/leads-sales"))
	if err != nil {
		log.Println("Export leads and sales failed", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.APIResponse{
			Success: false,
			Message: "Failed to generate export",
			Error:   dto.ErrorDetail{Code: "EXPORT_FAILED"},
		})
	}

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", "attachment; filename="+filename)
	return c.Send(data)
}

func (h *AdminExportHandler) createRequestContext(c fiber.Ctx, endpoint string) context.Context {
	return h.createRequestContextWithTimeout(c, endpoint, 60*time.Second)
}

func (h *AdminExportHandler) createRequestContextWithTimeout(c fiber.Ctx, endpoint string, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	ctx = context.WithValue(ctx, utils.RequestIDKey, c.Get("X-Request-ID"))
	ctx = context.WithValue(ctx, utils.UserAgentKey, c.Get("User-Agent"))
	ctx = context.WithValue(ctx, utils.IPAddressKey, c.IP())
	ctx = context.WithValue(ctx, utils.EndpointKey, endpoint)
	ctx = context.WithValue(ctx, utils.TimeoutKey, timeout)
	ctx = context.WithValue(ctx, utils.CancelFuncKey, cancel)
	return ctx
}
