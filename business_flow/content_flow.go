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

// ContentFlow handles CMS content reads and staff upserts
type ContentFlow interface {
	SectionContent(ctx context.Context, section string) (*dto.SectionContentResponse, error)
	UpsertContent(ctx context.Context, req *dto.UpsertContentRequest, actorID uint, metadata *ClientMetadata) (*dto.ContentItemDTO, error)
	ListSectionItems(ctx context.Context, section string) ([]dto.ContentItemDTO, error)
}

type ContentFlowImpl struct {
	contentRepo repository.ContentItemRepository
	auditRepo   repository.AuditLogRepository
}

func NewContentFlow(contentRepo repository.ContentItemRepository, auditRepo repository.AuditLogRepository) ContentFlow {
	return &ContentFlowImpl{contentRepo: contentRepo, auditRepo: auditRepo}
}

// SectionContent returns the kind-resolved public view of one section
func (f *ContentFlowImpl) SectionContent(ctx context.Context, section string) (*dto.SectionContentResponse, error) {
	section = strings.TrimSpace(section)
	if section == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", "section is required", ErrContentSectionEmpty)
	}

	rows, err := f.contentRepo.BySection(ctx, section)
	if err != nil {
		return nil, NewBusinessError("CONTENT_LOOKUP_FAILED", "Failed to load section content", err)
	}

	items := make([]dto.RenderedContentDTO, 0, len(rows))
	for _, row := range rows {
		rendered := row.Render()
		items = append(items, dto.RenderedContentDTO{
			Key:     rendered.Key,
			Kind:    rendered.Kind,
			Value:   rendered.Value,
			AltText: rendered.AltText,
		})
	}

	return &dto.SectionContentResponse{Section: section, Items: items}, nil
}

// ListSectionItems returns the raw staff view of one section
func (f *ContentFlowImpl) ListSectionItems(ctx context.Context, section string) ([]dto.ContentItemDTO, error) {
	section = strings.TrimSpace(section)
	if section == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", "section is required", ErrContentSectionEmpty)
	}

	rows, err := f.contentRepo.BySection(ctx, section)
	if err != nil {
		return nil, NewBusinessError("CONTENT_LOOKUP_FAILED", "Failed to load section content", err)
	}

	items := make([]dto.ContentItemDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, contentItemDTO(row))
	}
	return items, nil
}

func (f *ContentFlowImpl) UpsertContent(ctx context.Context, req *dto.UpsertContentRequest, actorID uint, metadata *ClientMetadata) (*dto.ContentItemDTO, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request body is required", nil)
	}
	section := strings.TrimSpace(req.Section)
	key := strings.TrimSpace(req.Key)
	if section == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", "section is required", ErrContentSectionEmpty)
	}
	if key == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", "key is required", ErrContentKeyEmpty)
	}

	kind := models.ContentKind(req.Kind)
	if !kind.Valid() {
		return nil, NewBusinessError("VALIDATION_ERROR", "kind must be text, image, or video", ErrInvalidContentKind)
	}

	item := &models.ContentItem{
		Section:   section,
		Key:       key,
		Kind:      kind,
		UpdatedBy: &actorID,
	}

	switch kind {
	case models.ContentKindText:
		if req.Text == "" {
			return nil, NewBusinessError("VALIDATION_ERROR", "text is required for text items", ErrContentValueMissing)
		}
		item.Text = &req.Text
	case models.ContentKindImage, models.ContentKindVideo:
		if req.URL == "" {
			return nil, NewBusinessError("VALIDATION_ERROR", "url is required for image and video items", ErrContentValueMissing)
		}
		item.URL = &req.URL
		if req.AltText != "" {
			item.AltText = &req.AltText
		}
	}

	if err := f.contentRepo.Upsert(ctx, item); err != nil {
		return nil, NewBusinessError("CONTENT_UPSERT_FAILED", "Failed to save content item", err)
	}

	_ = saveAudit(ctx, f.auditRepo, &actorID, models.AuditActionContentUpdated,
		fmt.Sprintf("Content updated: %s/%s", section, key), true, nil, metadata)

	out := contentItemDTO(item)
	return &out, nil
}

func contentItemDTO(item *models.ContentItem) dto.ContentItemDTO {
	out := dto.ContentItemDTO{
		ID:      item.ID,
		Section: item.Section,
		Key:     item.Key,
		Kind:    string(item.Kind),
	}
	if item.Text != nil {
		out.Text = *item.Text
	}
	if item.URL != nil {
		out.URL = *item.URL
	}
	if item.AltText != nil {
		out.AltText = *item.AltText
	}
	if item.UpdatedAt != nil {
		out.UpdatedAt = item.UpdatedAt.Format(time.RFC3339)
	} else {
		out.UpdatedAt = item.CreatedAt.Format(time.RFC3339)
	}
	return out
}
