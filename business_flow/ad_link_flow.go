package businessflow

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cutroom-academy/cutroom-api/app/dto"
	"github.com/cutroom-academy/cutroom-api/config"
	"github.com/cutroom-academy/cutroom-api/models"
	"github.com/cutroom-academy/cutroom-api/repository"
	"github.com/cutroom-academy/cutroom-api/utils"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// AdLinkFlow handles staff management of ad links
type AdLinkFlow interface {
	CreateAdLink(ctx context.Context, req *dto.CreateAdLinkRequest, actorID uint, metadata *ClientMetadata) (*dto.AdLinkDTO, error)
	UpdateAdLink(ctx context.Context, id uint, req *dto.UpdateAdLinkRequest, actorID uint, metadata *ClientMetadata) (*dto.AdLinkDTO, error)
	DeactivateAdLink(ctx context.Context, id uint, actorID uint, metadata *ClientMetadata) (*dto.AdLinkDTO, error)
	ListAdLinks(ctx context.Context, req *dto.ListAdLinksRequest) (*dto.ListAdLinksResponse, error)
	ValidateSlug(ctx context.Context, req *dto.ValidateSlugRequest) (*dto.ValidateSlugResponse, error)
	AdLinkStats(ctx context.Context, id uint) (*dto.AdLinkStatsResponse, error)
}

type AdLinkFlowImpl struct {
	adLinkRepo  repository.AdLinkRepository
	clickRepo   repository.AdLinkClickRepository
	auditRepo   repository.AuditLogRepository
	rc          *redis.Client
	cacheConfig *config.CacheConfig
	db          *gorm.DB
}

func NewAdLinkFlow(
	adLinkRepo repository.AdLinkRepository,
	clickRepo repository.AdLinkClickRepository,
	auditRepo repository.AuditLogRepository,
	rc *redis.Client,
	cacheConfig *config.CacheConfig,
	db *gorm.DB,
) AdLinkFlow {
	return &AdLinkFlowImpl{
		adLinkRepo:  adLinkRepo,
		clickRepo:   clickRepo,
		auditRepo:   auditRepo,
		rc:          rc,
		cacheConfig: cacheConfig,
		db:          db,
	}
}

const recentClicksLimit = 20

func (f *AdLinkFlowImpl) CreateAdLink(ctx context.Context, req *dto.CreateAdLinkRequest, actorID uint, metadata *ClientMetadata) (*dto.AdLinkDTO, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request body is required", nil)
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !models.IsValidSlug(slug) {
		return nil, NewBusinessError("INVALID_SLUG", "Slug format is invalid", ErrInvalidSlug)
	}
	if strings.TrimSpace(req.TargetURL) == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", "target_url is required", ErrTargetURLEmpty)
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, NewBusinessError("VALIDATION_ERROR", "name is required", ErrAdLinkNameEmpty)
	}

	expiration, err := parseOptionalTime(req.ExpirationDate)
	if err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "expiration_date must be RFC3339", err)
	}

	link := &models.AdLink{
		Slug:           slug,
		Name:           strings.TrimSpace(req.Name),
		TargetURL:      strings.TrimSpace(req.TargetURL),
		IsActive:       utils.ToPtr(true),
		ExpirationDate: expiration,
		UTMSource:      req.UTMSource,
		UTMMedium:      req.UTMMedium,
		UTMCampaign:    req.UTMCampaign,
		UTMTerm:        req.UTMTerm,
		UTMContent:     req.UTMContent,
		CreatedBy:      &actorID,
	}

	err = repository.WithTransaction(ctx, f.db, func(txCtx context.Context) error {
		available, err := f.adLinkRepo.IsSlugAvailable(txCtx, slug, nil)
		if err != nil {
			return err
		}
		if !available {
			return ErrSlugTaken
		}
		return f.adLinkRepo.Save(txCtx, link)
	})
	if err != nil {
		if IsSlugTaken(err) {
			return nil, NewBusinessError("SLUG_TAKEN", "Slug already exists", err)
		}
		return nil, NewBusinessError("CREATE_AD_LINK_FAILED", "Failed to create ad link", err)
	}

	f.logAdLinkAction(ctx, actorID, models.AuditActionAdLinkCreated,
		fmt.Sprintf("Ad link created: %s -> %s", link.Slug, link.TargetURL), metadata)

	out := dtoFromAdLink(link)
	return &out, nil
}

func (f *AdLinkFlowImpl) UpdateAdLink(ctx context.Context, id uint, req *dto.UpdateAdLinkRequest, actorID uint, metadata *ClientMetadata) (*dto.AdLinkDTO, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request body is required", nil)
	}

	link, err := f.adLinkRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("AD_LINK_LOOKUP_FAILED", "Failed to lookup ad link", err)
	}
	if link == nil {
		return nil, ErrAdLinkNotFound
	}

	if req.Name != nil {
		link.Name = strings.TrimSpace(*req.Name)
	}
	if req.TargetURL != nil {
		if strings.TrimSpace(*req.TargetURL) == "" {
			return nil, NewBusinessError("VALIDATION_ERROR", "target_url must not be empty", ErrTargetURLEmpty)
		}
		link.TargetURL = strings.TrimSpace(*req.TargetURL)
	}
	if req.IsActive != nil {
		link.IsActive = req.IsActive
	}
	if req.ExpirationDate != nil {
		expiration, err := parseOptionalTime(req.ExpirationDate)
		if err != nil {
			return nil, NewBusinessError("VALIDATION_ERROR", "expiration_date must be RFC3339", err)
		}
		link.ExpirationDate = expiration
	}
	if req.UTMSource != nil {
		link.UTMSource = req.UTMSource
	}
	if req.UTMMedium != nil {
		link.UTMMedium = req.UTMMedium
	}
	if req.UTMCampaign != nil {
		link.UTMCampaign = req.UTMCampaign
	}
	if req.UTMTerm != nil {
		link.UTMTerm = req.UTMTerm
	}
	if req.UTMContent != nil {
		link.UTMContent = req.UTMContent
	}

	if err := f.adLinkRepo.Update(ctx, link); err != nil {
		return nil, NewBusinessError("UPDATE_AD_LINK_FAILED", "Failed to update ad link", err)
	}

	f.invalidateCachedSlug(ctx, link.Slug)

	f.logAdLinkAction(ctx, actorID, models.AuditActionAdLinkUpdated,
		fmt.Sprintf("Ad link updated: %s", link.Slug), metadata)

	out := dtoFromAdLink(link)
	return &out, nil
}

func (f *AdLinkFlowImpl) DeactivateAdLink(ctx context.Context, id uint, actorID uint, metadata *ClientMetadata) (*dto.AdLinkDTO, error) {
	link, err := f.adLinkRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("AD_LINK_LOOKUP_FAILED", "Failed to lookup ad link", err)
	}
	if link == nil {
		return nil, ErrAdLinkNotFound
	}

	link.IsActive = utils.ToPtr(false)
	if err := f.adLinkRepo.Update(ctx, link); err != nil {
		return nil, NewBusinessError("DEACTIVATE_AD_LINK_FAILED", "Failed to deactivate ad link", err)
	}

	f.invalidateCachedSlug(ctx, link.Slug)

	f.logAdLinkAction(ctx, actorID, models.AuditActionAdLinkDeactivated,
		fmt.Sprintf("Ad link deactivated: %s", link.Slug), metadata)

	out := dtoFromAdLink(link)
	return &out, nil
}

func (f *AdLinkFlowImpl) ListAdLinks(ctx context.Context, req *dto.ListAdLinksRequest) (*dto.ListAdLinksResponse, error) {
	page, pageSize, err := normalizePage(req.Page, req.PageSize)
	if err != nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Invalid pagination", err)
	}

	filter := models.AdLinkFilter{
		Slug:     req.Slug,
		IsActive: req.IsActive,
	}

	total, err := f.adLinkRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("LIST_AD_LINKS_FAILED", "Failed to count ad links", err)
	}

	rows, err := f.adLinkRepo.ByFilter(ctx, filter, "created_at DESC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("LIST_AD_LINKS_FAILED", "Failed to list ad links", err)
	}

	items := make([]dto.AdLinkDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, dtoFromAdLink(row))
	}

	return &dto.ListAdLinksResponse{Items: items, Total: total, Page: page}, nil
}

func (f *AdLinkFlowImpl) ValidateSlug(ctx context.Context, req *dto.ValidateSlugRequest) (*dto.ValidateSlugResponse, error) {
	if req == nil {
		return nil, NewBusinessError("VALIDATION_ERROR", "Request body is required", nil)
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !models.IsValidSlug(slug) {
		return &dto.ValidateSlugResponse{
			IsValid:     false,
			IsAvailable: false,
			Message:     "Slug must be 3-50 characters of lowercase letters, digits, and hyphens",
		}, nil
	}

	available, err := f.adLinkRepo.IsSlugAvailable(ctx, slug, req.ExcludeID)
	if err != nil {
		return nil, NewBusinessError("SLUG_CHECK_FAILED", "Failed to check slug availability", err)
	}

	msg := "Slug is available"
	if !available {
		msg = "Slug is already in use"
	}
	return &dto.ValidateSlugResponse{IsValid: true, IsAvailable: available, Message: msg}, nil
}

func (f *AdLinkFlowImpl) AdLinkStats(ctx context.Context, id uint) (*dto.AdLinkStatsResponse, error) {
	link, err := f.adLinkRepo.ByID(ctx, id)
	if err != nil {
		return nil, NewBusinessError("AD_LINK_LOOKUP_FAILED", "Failed to lookup ad link", err)
	}
	if link == nil {
		return nil, ErrAdLinkNotFound
	}

	count, err := f.clickRepo.CountByAdLink(ctx, link.ID)
	if err != nil {
		return nil, NewBusinessError("AD_LINK_STATS_FAILED", "Failed to count clicks", err)
	}

	recent, err := f.clickRepo.RecentByAdLink(ctx, link.ID, recentClicksLimit)
	if err != nil {
		return nil, NewBusinessError("AD_LINK_STATS_FAILED", "Failed to load recent clicks", err)
	}

	recentDTOs := make([]dto.AdLinkClickDTO, 0, len(recent))
	for _, c := range recent {
		recentDTOs = append(recentDTOs, dtoFromClick(c))
	}

	return &dto.AdLinkStatsResponse{
		AdLink:       dtoFromAdLink(link),
		ClickCount:   count,
		RecentClicks: recentDTOs,
	}, nil
}

// invalidateCachedSlug drops the redirect cache entry so a deactivated or
// retargeted link stops serving the stale record immediately instead of
// waiting out the TTL.
func (f *AdLinkFlowImpl) invalidateCachedSlug(ctx context.Context, slug string) {
	if f.rc == nil || f.cacheConfig == nil || !f.cacheConfig.Enabled {
		return
	}
	if err := f.rc.Del(ctx, adLinkCacheKey(*f.cacheConfig, slug)).Err(); err != nil {
		log.Printf("ad link cache: failed to drop slug %s: %v", slug, err)
	}
}

func (f *AdLinkFlowImpl) logAdLinkAction(ctx context.Context, actorID uint, action, description string, metadata *ClientMetadata) {
	_ = saveAudit(ctx, f.auditRepo, &actorID, action, description, true, nil, metadata)
}

func dtoFromAdLink(link *models.AdLink) dto.AdLinkDTO {
	return ToAdLinkDTO(*link)
}

func dtoFromClick(c *models.AdLinkClick) dto.AdLinkClickDTO {
	out := dto.AdLinkClickDTO{
		ID:        c.ID,
		Slug:      c.Slug,
		IP:        c.IP,
		Country:   c.Country,
		Region:    c.Region,
		City:      c.City,
		SessionID: c.SessionID,
		IsUnique:  c.IsUnique,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
	if c.UserAgent != nil {
		out.UserAgent = *c.UserAgent
	}
	if c.Referrer != nil {
		out.Referrer = *c.Referrer
	}
	utm := make(map[string]string, 5)
	setUTM := func(key, v string) {
		if v != "" {
			utm[key] = v
		}
	}
	setUTM("source", c.UTM.Source)
	setUTM("medium", c.UTM.Medium)
	setUTM("campaign", c.UTM.Campaign)
	setUTM("term", c.UTM.Term)
	setUTM("content", c.UTM.Content)
	if len(utm) > 0 {
		out.UTM = utm
	}
	return out
}

func parseOptionalTime(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

func normalizePage(page, pageSize int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = 20
	}
	if page < 1 {
		return 0, 0, ErrInvalidPage
	}
	if pageSize < 1 || pageSize > 100 {
		return 0, 0, ErrInvalidPageSize
	}
	return page, pageSize, nil
}

// saveAudit writes one audit row; callers ignore the error on purpose so an
// audit failure never blocks the action that succeeded.
func saveAudit(ctx context.Context, auditRepo repository.AuditLogRepository, actorID *uint, action, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	ipAddress := "127.0.0.1"
	userAgent := ""
	if metadata != nil {
		ipAddress = metadata.IPAddress
		userAgent = metadata.UserAgent
	}

	audit := &models.AuditLog{
		UserProfileID: actorID,
		Action:        action,
		Description:   &description,
		Success:       utils.ToPtr(success),
		IPAddress:     &ipAddress,
		UserAgent:     &userAgent,
		ErrorMessage:  errMsg,
	}

	requestID := ctx.Value(utils.RequestIDKey)
	if requestID != nil {
		if requestIDStr, ok := requestID.(string); ok {
			audit.RequestID = &requestIDStr
		}
	}

	return auditRepo.Save(ctx, audit)
}
