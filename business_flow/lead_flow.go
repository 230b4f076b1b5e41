package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/cutroom-academy/cutroom-api/app/dto"
	"github.com/cutroom-academy/cutroom-api/models"
	"github.com/cutroom-academy/cutroom-api/repository"
	"github.com/cutroom-academy/cutroom-api/utils"
	"gorm.io/gorm"
)

// LeadFlow handles lead intake and the lead lifecycle state machine.
// Every status change appends a history row in the same transaction so the
// lead's status always matches the newest history entry.
type LeadFlow interface {
	IntakeLead(ctx context.Context, req *dto.IntakeLeadRequest, metadata *ClientMetadata) (*dto.LeadDTO, error)
	GetLead(ctx context.Context, id uint) (*dto.LeadDTO, error)
	ListLeads(ctx context.Context, req *dto.ListLeadsRequest) (*dto.ListLeadsResponse, error)
	UpdateLead(ctx context.Context, id uint, req *dto.UpdateLeadRequest, actorID uint, metadata *ClientMetadata) (*dto.LeadDTO, error)
	ChangeStatus(ctx context.Context, id uint, req *dto.ChangeLeadStatusRequest, actorID uint, metadata *ClientMetadata) (*dto.LeadDTO, error)
}

type LeadFlowImpl struct {
	leadRepo  repository.LeadRepository
	saleRepo  repository.SaleRepository
	auditRepo repository.AuditLogRepository
	db        *gorm.DB
}

func NewLeadFlow(
	leadRepo repository.LeadRepository,
	saleRepo repository.SaleRepository,
	auditRepo repository.AuditLogRepository,
	db *gorm.DB,
) LeadFlow {
	return &LeadFlowImpl{
		leadRepo:  leadRepo,
		saleRepo:  saleRepo,
		auditRepo: auditRepo,
		db:        db,
	}
}

func (f *LeadFlowImpl) IntakeLead(ctx context.Context, req *dto.IntakeLeadRequest, metadata *ClientMetadata) (*dto.LeadDTO, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request body is required", nil)
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", "full_name is required", ErrLeadNameRequired)
	}
	if emptyPtr(req.Email) && emptyPtr(req.Phone) {
		return nil, NewBusinessError("VALIDATION_ERROR", "email or phone is required", ErrLeadContactRequired)
	}

	lead := &models.Lead{
		Status:   models.LeadStatusLead,
		FullName: strings.TrimSpace(req.FullName),
		Email:    req.Email,
		Phone:    req.Phone,
		Source:   req.Source,
		Notes:    req.Notes,
	}

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		if err := f.leadRepo.Save(txCtx, lead); err != nil {
			return err
		}
		return f.leadRepo.SaveHistory(txCtx, &models.LeadStatusHistory{
			LeadID:         lead.ID,
			PreviousStatus: models.LeadStatusLead,
			NewStatus:      models.LeadStatusLead,
			Details:        "Lead created via intake form",
			PerformedAt:    utils.UTCNow(),
		})
	})
	if err != nil {
		return nil, NewBusinessError("LEAD_INTAKE_FAILED", "Failed to create lead", err)
	}

	_ = saveAudit(ctx, f.auditRepo, nil, models.AuditActionLeadCreated,
		fmt.Sprintf("Lead created via intake: %s", lead.FullName), true, nil, metadata)

	out := ToLeadDTO(*lead)
	return &out, nil
}

func (f *LeadFlowImpl) GetLead(ctx context.Context, id uint) (*dto.LeadDTO, error) {
	lead, err := f.leadRepo.WithHistory(ctx, id)
	if err != nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to lookup lead", err)
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}
	out := ToLeadDTO(*lead)
	return &out, nil
}

func (f *LeadFlowImpl) ListLeads(ctx context.Context, req *dto.ListLeadsRequest) (*dto.ListLeadsResponse, error) {
	page, pageSize, err := normalizePage(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Invalid pagination", err)
	}

	filter := models.LeadFilter{Source: req.Source}
	if req.Status != nil {
		status := models.LeadStatus(*req.Status)
		if !status.Valid() {
			return nil, NewBusinessError("VALIDATION_ERROR", "Unknown lead status", ErrInvalidLeadStatus)
		}
		filter.Status = &status
	}

	total, err := f.leadRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("LIST_LEADS_FAILED", "Failed to count leads", err)
	}

	rows, err := f.leadRepo.ByFilter(ctx, filter, "created_at DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("LIST_LEADS_FAILED", "Failed to list leads", err)
	}

	items := make([]dto.LeadDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToLeadDTO(*row))
	}

	return &dto.ListLeadsResponse{Items: items, Total: total, Page: page}, nil
}

func (f *LeadFlowImpl) UpdateLead(ctx context.Context, id uint, req *dto.UpdateLeadRequest, actorID uint, metadata *ClientMetadata) (*dto.LeadDTO, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request body is required", nil)
	}

	lead, err := f.leadRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("LEAD_LOOKUP_FAILED", "Failed to lookup lead", err)
	}
	if lead == nil {
		return nil, ErrLeadNotFound
	}

	if req.FullName != nil {
		if strings.TrimSpace(*req.FullName) == "" {
			return nil, NewBusinessError("VALIDATION_ERROR", "full_name must not be empty", ErrLeadNameRequired)
		}
		lead.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		lead.Email = req.Email
	}
	if req.Phone != nil {
		lead.Phone = req.Phone
	}
	if req.Source != nil {
		lead.Source = req.Source
	}
	if req.Notes != nil {
		lead.Notes = req.Notes
	}

	if err := f.leadRepo.Update(ctx, lead); err != nil {
		return nil, NewBusinessError("UPDATE_LEAD_FAILED", "Failed to update lead", err)
	}

	_ = saveAudit(ctx, f.auditRepo, &actorID, models.AuditActionLeadUpdated,
		fmt.Sprintf("Lead updated: %d", lead.ID), true, nil, metadata)

	out := ToLeadDTO(*lead)
	return &out, nil
}

// ChangeStatus applies one edge of the lead state machine. Transitioning into
// sale also creates the Sale record and links it to the lead, all in one
// transaction.
func (f *LeadFlowImpl) ChangeStatus(ctx context.Context, id uint, req *dto.ChangeLeadStatusRequest, actorID uint, metadata *ClientMetadata) (*dto.LeadDTO, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request body is required", nil)
	}

	newStatus := models.LeadStatus(req.NewStatus)
	if !newStatus.Valid() {
		return nil, NewBusinessError("VALIDATION_ERROR", "Unknown lead status", ErrInvalidLeadStatus)
	}

	var lead *models.Lead

	err := repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		var err error
		lead, err = f.leadRepo.ByID(txCtx, id)
		if err != nil {
			return err
		}
		if lead == nil {
			return ErrLeadNotFound
		}
		if !lead.CanTransitionTo(newStatus) {
			return ErrInvalidLeadTransition
		}

		previous := lead.Status

		if newStatus == models.LeadStatusSale {
			sale, err := f.createSaleForLead(txCtx, lead, req, actorID)
			if err != nil {
				return err
			}
			lead.SaleID = &sale.ID
		}

		lead.Status = newStatus
		if err := f.leadRepo.Update(txCtx, lead); err != nil {
			return err
		}

		details := fmt.Sprintf("Status changed from %s to %s", previous, newStatus)
		if req.Details != nil && *req.Details != "" {
			details = *req.Details
		}

		return f.leadRepo.SaveHistory(txCtx, &models.LeadStatusHistory{
			LeadID:         lead.ID,
			PreviousStatus: previous,
			NewStatus:      newStatus,
			Details:        details,
			PerformedBy:    &actorID,
			PerformedAt:    utils.UTCNow(),
		})
	})
	if err != nil {
		if IsInvalidLeadTransition(err) || IsLeadNotFound(err) || IsSaleAlreadyExists(err) {
			return nil, err
		}
		return nil, NewBusinessError("LEAD_STATUS_CHANGE_FAILED", "Failed to change lead status", err)
	}

	_ = saveAudit(ctx, f.auditRepo, &actorID, models.AuditActionLeadStatusChanged,
		fmt.Sprintf("Lead %d moved to %s", lead.ID, newStatus), true, nil, metadata)

	out := ToLeadDTO(*lead)
	return &out, nil
}

func (f *LeadFlowImpl) createSaleForLead(ctx context.Context, lead *models.Lead, req *dto.ChangeLeadStatusRequest, actorID uint) (*models.Sale, error) {
	existing, err := f.saleRepo.ByLeadID(ctx, lead.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrSaleAlreadyExists
	}

	plan := "full"
	if req.PaymentPlan != nil && *req.PaymentPlan != "" {
		plan = *req.PaymentPlan
	}
	var total float64
	if req.TotalAmount != nil {
		total = *req.TotalAmount
	}

	sale := &models.Sale{
		LeadID:           lead.ID,
		SaleUserID:       &actorID,
		PaymentPlan:      plan,
		TotalAmount:      total,
		AccessGranted:    utils.ToPtr(false),
		ExemptionGranted: utils.ToPtr(false),
	}
	if err := f.saleRepo.Save(ctx, sale); err != nil {
		return nil, err
	}

	if err := f.saleRepo.SaveHistory(ctx, &models.SaleStatusHistory{
		SaleID:      sale.ID,
		Action:      models.SaleActionCreated,
		Details:     fmt.Sprintf("Sale created for lead %d, plan %s", lead.ID, plan),
		PerformedBy: &actorID,
		PerformedAt: utils.UTCNow(),
	}); err != nil {
		return nil, err
	}

	return sale, nil
}

func emptyPtr(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
