package businessflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cutroom-academy/cutroom-api/app/dto"
	"github.com/cutroom-academy/cutroom-api/models"
	"github.com/cutroom-academy/cutroom-api/repository"
)

// HallOfFameFlow applies webhook events from the external voting platform to
// the local showcase mirror and serves the public listing.
type HallOfFameFlow interface {
	ApplyWebhook(ctx context.Context, req *dto.HallOfFameWebhookRequest, metadata *ClientMetadata) (*dto.HallOfFameEntryDTO, error)
	ListEntries(ctx context.Context, limit int) ([]dto.HallOfFameEntryDTO, error)
}

type HallOfFameFlowImpl struct {
	hofRepo   repository.HallOfFameRepository
	auditRepo repository.AuditLogRepository
}

func NewHallOfFameFlow(hofRepo repository.HallOfFameRepository, auditRepo repository.AuditLogRepository) HallOfFameFlow {
	return &HallOfFameFlowImpl{hofRepo: hofRepo, auditRepo: auditRepo}
}

func (f *HallOfFameFlowImpl) ApplyWebhook(ctx context.Context, req *dto.HallOfFameWebhookRequest, metadata *ClientMetadata) (*dto.HallOfFameEntryDTO, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request body is required", nil)
	}
	if strings.TrimSpace(req.ExternalID) == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", "external_id is required", ErrHallOfFameEntryFields)
	}

	var entry *models.HallOfFameEntry
	var err error

	switch req.EventType {
	case dto.HallOfFameEventNewSubmission:
		entry, err = f.applyNewSubmission(ctx, req)
	case dto.HallOfFameEventVoteChange:
		entry, err = f.applyVoteChange(ctx, req)
	default:
		return nil, NewBusinessErrorf("UNKNOWN_EVENT_TYPE", "Unknown event type: %s", ErrHallOfFameEventType, req.EventType)
	}
	if err != nil {
		return nil, err
	}

	_ = saveAudit(ctx, f.auditRepo, nil, models.AuditActionWebhookApplied,
		fmt.Sprintf("Hall of fame %s applied for %s", req.EventType, req.ExternalID), true, nil, metadata)

	out := hallOfFameEntryDTO(entry)
	return &out, nil
}

// applyNewSubmission creates the entry, or refreshes it when the platform
// redelivers the event.
func (f *HallOfFameFlowImpl) applyNewSubmission(ctx context.Context, req *dto.HallOfFameWebhookRequest) (*models.HallOfFameEntry, error) {
	if strings.TrimSpace(req.StudentName) == "" || strings.TrimSpace(req.VideoURL) == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", "student_name and video_url are required for new submissions", ErrHallOfFameEntryFields)
	}

	existing, err := f.hofRepo.ByExternalID(ctx, req.ExternalID)
	if err != nil {
		return nil, NewBusinessError("HALL_OF_FAME_LOOKUP_FAILED", "Failed to lookup entry", err)
	}

	var title *string
	if req.Title != "" {
		title = &req.Title
	}

	if existing == nil {
		entry := &models.HallOfFameEntry{
			ExternalID:  req.ExternalID,
			StudentName: req.StudentName,
			VideoURL:    req.VideoURL,
			Title:       title,
		}
		if req.Votes != nil {
			entry.Votes = *req.Votes
		}
		if err := f.hofRepo.Save(ctx, entry); err != nil {
			return nil, NewBusinessError("HALL_OF_FAME_SAVE_FAILED", "Failed to save entry", err)
		}
		return entry, nil
	}

	existing.StudentName = req.StudentName
	existing.VideoURL = req.VideoURL
	existing.Title = title
	if req.Votes != nil {
		existing.Votes = *req.Votes
	}
	if err := f.hofRepo.Update(ctx, existing); err != nil {
		return nil, NewBusinessError("HALL_OF_FAME_SAVE_FAILED", "Failed to update entry", err)
	}
	return existing, nil
}

func (f *HallOfFameFlowImpl) applyVoteChange(ctx context.Context, req *dto.HallOfFameWebhookRequest) (*models.HallOfFameEntry, error) {
	if req.Votes == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "votes is required for vote changes", ErrHallOfFameEntryFields)
	}

	entry, err := f.hofRepo.ByExternalID(ctx, req.ExternalID)
	if err != nil {
		return nil, NewBusinessError("HALL_OF_FAME_LOOKUP_FAILED", "Failed to lookup entry", err)
	}
	if entry == nil {
		return nil, NewBusinessError("ENTRY_NOT_FOUND", "No entry for external_id", ErrHallOfFameEntryNotFound)
	}

	entry.Votes = *req.Votes
	if err := f.hofRepo.Update(ctx, entry); err != nil {
		return nil, NewBusinessError("HALL_OF_FAME_SAVE_FAILED", "Failed to update entry", err)
	}
	return entry, nil
}

func (f *HallOfFameFlowImpl) ListEntries(ctx context.Context, limit int) ([]dto.HallOfFameEntryDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	rows, err := f.hofRepo.ByFilter(ctx, models.HallOfFameEntryFilter{}, "votes DESC, created_at DESC", limit, 0)
	if err != nil {
		return nil, NewBusinessError("HALL_OF_FAME_LIST_FAILED", "Failed to list entries", err)
	}

	out := make([]dto.HallOfFameEntryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, hallOfFameEntryDTO(row))
	}
	return out, nil
}

func hallOfFameEntryDTO(entry *models.HallOfFameEntry) dto.HallOfFameEntryDTO {
	out := dto.HallOfFameEntryDTO{
		ID:          entry.ID,
		ExternalID:  entry.ExternalID,
		StudentName: entry.StudentName,
		VideoURL:    entry.VideoURL,
		Votes:       entry.Votes,
		CreatedAt:   entry.CreatedAt.Format(time.RFC3339),
	}
	if entry.Title != nil {
		out.Title = *entry.Title
	}
	return out
}
