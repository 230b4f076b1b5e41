package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/cutroom-academy/cutroom-api/app/dto"
	"github.com/cutroom-academy/cutroom-api/models"
	"github.com/cutroom-academy/cutroom-api/repository"
	"github.com/cutroom-academy/cutroom-api/utils"
	"gorm.io/gorm"
)

// SaleFlow handles sale mutations after a lead converts.
// PaidAmount only ever grows; access requires the minimum payment or an
// exemption and runs for the fixed course window.
type SaleFlow interface {
	GetSaleByLead(ctx context.Context, leadID uint) (*dto.SaleDTO, error)
	ListSales(ctx context.Context, req *dto.ListSalesRequest) (*dto.ListSalesResponse, error)
	SaleHistory(ctx context.Context, saleID uint) ([]dto.SaleHistoryDTO, error)
	RecordPayment(ctx context.Context, saleID uint, req *dto.RecordPaymentRequest, actorID uint, metadata *ClientMetadata) (*dto.SaleDTO, error)
	GrantAccess(ctx context.Context, saleID uint, req *dto.GrantAccessRequest, actorID uint, metadata *ClientMetadata) (*dto.SaleDTO, error)
	GrantExemption(ctx context.Context, saleID uint, req *dto.GrantExemptionRequest, actorID uint, metadata *ClientMetadata) (*dto.SaleDTO, error)
}

type SaleFlowImpl struct {
	saleRepo  repository.SaleRepository
	auditRepo repository.AuditLogRepository
	db        *gorm.DB
}

func NewSaleFlow(saleRepo repository.SaleRepository, auditRepo repository.AuditLogRepository, db *gorm.DB) SaleFlow {
	return &SaleFlowImpl{saleRepo: saleRepo, auditRepo: auditRepo, db: db}
}

func (f *SaleFlowImpl) GetSaleByLead(ctx context.Context, leadID uint) (*dto.SaleDTO, error) {
	sale, err := f.saleRepo.ByLeadID(ctx, leadID)
	if err != nil {
		return nil, NewBusinessError("SALE_LOOKUP_FAILED", "Failed to lookup sale", err)
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}
	out := ToSaleDTO(*sale)
	return &out, nil
}

func (f *SaleFlowImpl) ListSales(ctx context.Context, req *dto.ListSalesRequest) (*dto.ListSalesResponse, error) {
	page, pageSize, err := normalizePage(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Invalid pagination", err)
	}

	filter := models.SaleFilter{AccessGranted: req.AccessGranted}

	total, err := f.saleRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("LIST_SALES_FAILED", "Failed to count sales", err)
	}

	rows, err := f.saleRepo.ByFilter(ctx, filter, "created_at DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("LIST_SALES_FAILED", "Failed to list sales", err)
	}

	items := make([]dto.SaleDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToSaleDTO(*row))
	}

	return &dto.ListSalesResponse{Items: items, Total: total, Page: page}, nil
}

func (f *SaleFlowImpl) SaleHistory(ctx context.Context, saleID uint) ([]dto.SaleHistoryDTO, error) {
	sale, err := f.saleRepo.ByID(ctx, saleID)
	if err != nil {
		return nil, NewBusinessError("SALE_LOOKUP_FAILED", "Failed to lookup sale", err)
	}
	if sale == nil {
		return nil, ErrSaleNotFound
	}

	rows, err := f.saleRepo.HistoryBySale(ctx, saleID)
	if err != nil {
		return nil, NewBusinessError("SALE_HISTORY_FAILED", "Failed to load sale history", err)
	}

	out := make([]dto.SaleHistoryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, dto.SaleHistoryDTO{
			Action:      row.Action,
			Details:     row.Details,
			PerformedBy: row.PerformedBy,
			PerformedAt: row.PerformedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func (f *SaleFlowImpl) RecordPayment(ctx context.Context, saleID uint, req *dto.RecordPaymentRequest, actorID uint, metadata *ClientMetadata) (*dto.SaleDTO, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request body is required", nil)
	}
	if req.Amount <= 0 {
		return nil, NewBusinessError("VALIDATION_ERROR", "amount must be positive", ErrInvalidPayment)
	}

	var sale *models.Sale

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		var err error
		sale, err = f.saleRepo.ByID(txCtx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return ErrSaleNotFound
		}

		sale.PaidAmount += req.Amount
		sale.PaymentProofs = append(sale.PaymentProofs, models.PaymentProof{
			Amount:     req.Amount,
			Reference:  req.Reference,
			FileURL:    req.FileURL,
			UploadedBy: &actorID,
			UploadedAt: utils.UTCNow(),
		})

		if err := f.saleRepo.Update(txCtx, sale); err != nil {
			return err
		}

		return f.saleRepo.SaveHistory(txCtx, &models.SaleStatusHistory{
			SaleID:      sale.ID,
			Action:      models.SaleActionPaymentRecorded,
			Details:     fmt.Sprintf("Payment of %.2f recorded, paid total %.2f of %.2f", req.Amount, sale.PaidAmount, sale.TotalAmount),
			PerformedBy: &actorID,
			PerformedAt: utils.UTCNow(),
		})
	})
	if err != nil {
		if IsSaleNotFound(err) {
			return nil, err
		}
		return nil, NewBusinessError("RECORD_PAYMENT_FAILED", "Failed to record payment", err)
	}

	_ = saveAudit(ctx, f.auditRepo, &actorID, models.AuditActionPaymentRecorded,
		fmt.Sprintf("Payment of %.2f recorded on sale %d", req.Amount, sale.ID), true, nil, metadata)

	out := ToSaleDTO(*sale)
	return &out, nil
}

func (f *SaleFlowImpl) GrantAccess(ctx context.Context, saleID uint, req *dto.GrantAccessRequest, actorID uint, metadata *ClientMetadata) (*dto.SaleDTO, error) {
	var sale *models.Sale

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		var err error
		sale, err = f.saleRepo.ByID(txCtx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return ErrSaleNotFound
		}
		if utils.IsTrue(sale.AccessGranted) {
			return ErrAccessAlreadyActive
		}
		if !sale.MinimumPaymentMet() {
			return ErrInsufficientPayment
		}

		now := utils.UTCNow()
		end := now.Add(utils.CourseAccessDuration)
		sale.AccessGranted = utils.ToPtr(true)
		sale.AccessStartDate = &now
		sale.AccessEndDate = &end

		if err := f.saleRepo.Update(txCtx, sale); err != nil {
			return err
		}

		details := fmt.Sprintf("Access granted until %s", end.Format(time.RFC3339))
		if req != nil && req.Details != nil && *req.Details != "" {
			details = *req.Details
		}

		return f.saleRepo.SaveHistory(txCtx, &models.SaleStatusHistory{
			SaleID:      sale.ID,
			Action:      models.SaleActionAccessGranted,
			Details:     details,
			PerformedBy: &actorID,
			PerformedAt: now,
		})
	})
	if err != nil {
		if IsSaleNotFound(err) || IsInsufficientPayment(err) || IsAccessAlreadyActive(err) {
			return nil, err
		}
		return nil, NewBusinessError("GRANT_ACCESS_FAILED", "Failed to grant access", err)
	}

	_ = saveAudit(ctx, f.auditRepo, &actorID, models.AuditActionAccessGranted,
		fmt.Sprintf("Course access granted on sale %d", sale.ID), true, nil, metadata)

	out := ToSaleDTO(*sale)
	return &out, nil
}

func (f *SaleFlowImpl) GrantExemption(ctx context.Context, saleID uint, req *dto.GrantExemptionRequest, actorID uint, metadata *ClientMetadata) (*dto.SaleDTO, error) {
	var sale *models.Sale

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		var err error
		sale, err = f.saleRepo.ByID(txCtx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return ErrSaleNotFound
		}

		sale.ExemptionGranted = utils.ToPtr(true)
		if err := f.saleRepo.Update(txCtx, sale); err != nil {
			return err
		}

		details := "Payment exemption granted"
		if req != nil && req.Details != nil && *req.Details != "" {
			details = *req.Details
		}

		return f.saleRepo.SaveHistory(txCtx, &models.SaleStatusHistory{
			SaleID:      sale.ID,
			Action:      models.SaleActionExemptionGranted,
			Details:     details,
			PerformedBy: &actorID,
			PerformedAt: utils.UTCNow(),
		})
	})
	if err != nil {
		if IsSaleNotFound(err) {
			return nil, err
		}
		return nil, NewBusinessError("GRANT_EXEMPTION_FAILED", "Failed to grant exemption", err)
	}

	_ = saveAudit(ctx, f.auditRepo, &actorID, models.AuditActionExemptionGranted,
		fmt.Sprintf("Exemption granted on sale %d", sale.ID), true, nil, metadata)

	out := ToSaleDTO(*sale)
	return &out, nil
}
