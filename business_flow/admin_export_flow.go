package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/cutroom-academy/cutroom-api/models"
	"github.com/cutroom-academy/cutroom-api/repository"
	"github.com/xuri/excelize/v2"
)

// AdminExportFlow builds Excel workbooks of leads and sales for staff
// download. One sheet per aggregate.
type AdminExportFlow interface {
	ExportLeadsAndSales(ctx context.Context) (filename string, content []byte, err error)
}

type AdminExportFlowImpl struct {
	leadRepo repository.LeadRepository
	saleRepo repository.SaleRepository
}

func NewAdminExportFlow(leadRepo repository.LeadRepository, saleRepo repository.SaleRepository) AdminExportFlow {
	return &AdminExportFlowImpl{leadRepo: leadRepo, saleRepo: saleRepo}
}

const exportBatchLimit = 10000

func (f *AdminExportFlowImpl) ExportLeadsAndSales(ctx context.Context) (string, []byte, error) {
	leads, err := f.leadRepo.ByFilter(ctx, models.LeadFilter{}, "created_at ASC", exportBatchLimit, 0)
	if err != nil {
		return "", nil, NewBusinessError("FETCH_LEADS_FAILED", "Failed to fetch leads for export", err)
	}

	sales, err := f.saleRepo.ByFilter(ctx, models.SaleFilter{}, "created_at ASC", exportBatchLimit, 0)
	if err != nil {
		return "", nil, NewBusinessError("FETCH_SALES_FAILED", "Failed to fetch sales for export", err)
	}

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	leadsSheet := "Leads"
	xl.SetSheetName(xl.GetSheetName(0), leadsSheet)

	leadHeader := []string{"id", "uuid", "status", "full_name", "email", "phone", "source", "notes", "sale_id", "created_at"}
	_ = xl.SetSheetRow(leadsSheet, "A1", &leadHeader)

	for i, lead := range leads {
		record := []any{
			lead.ID,
			lead.UUID.String(),
			lead.Status.String(),
			lead.FullName,
			strDeref(lead.Email),
			strDeref(lead.Phone),
			strDeref(lead.Source),
			strDeref(lead.Notes),
			uintDeref(lead.SaleID),
			lead.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = xl.SetSheetRow(leadsSheet, cellRef, &record)
	}

	salesSheet := "Sales"
	_, _ = xl.NewSheet(salesSheet)

	saleHeader := []string{"id", "uuid", "lead_id", "sale_user_id", "payment_plan", "total_amount", "paid_amount", "access_granted", "access_start", "access_end", "exemption_granted", "created_at"}
	_ = xl.SetSheetRow(salesSheet, "A1", &saleHeader)

	for i, sale := range sales {
		accessStart := ""
		if sale.AccessStartDate != nil {
			accessStart = sale.AccessStartDate.UTC().Format(time.RFC3339)
		}
		accessEnd := ""
		if sale.AccessEndDate != nil {
			accessEnd = sale.AccessEndDate.UTC().Format(time.RFC3339)
		}
		record := []any{
			sale.ID,
			sale.UUID.String(),
			sale.LeadID,
			uintDeref(sale.SaleUserID),
			sale.PaymentPlan,
			sale.TotalAmount,
			sale.PaidAmount,
			boolDeref(sale.AccessGranted),
			accessStart,
			accessEnd,
			boolDeref(sale.ExemptionGranted),
			sale.CreatedAt.UTC().Format(time.RFC3339),
		}
		cellRef, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = xl.SetSheetRow(salesSheet, cellRef, &record)
	}

	buf, err := xl.WriteToBuffer()
	if err != nil {
		return "", nil, NewBusinessError("EXCEL_WRITE_ERROR", "Failed to write Excel file", err)
	}

	filename := fmt.Sprintf("leads_and_sales_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	return filename, buf.Bytes(), nil
}

func strDeref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func uintDeref(u *uint) any {
	if u == nil {
		return ""
	}
	return *u
}

func boolDeref(b *bool) bool {
	return b != nil && *b
}
