// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"

	"github.com/cutroom-academy/cutroom-api/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	Update(ctx context.Context, entity *T) error
	Count(ctx context.Context, filter F) (int64, error)
	Exists(ctx context.Context, filter F) (bool, error)
}

// AdLinkRepository defines operations for ad links
type AdLinkRepository interface {
	Repository[models.AdLink, models.AdLinkFilter]
	BySlug(ctx context.Context, slug string) (*models.AdLink, error)
	IsSlugAvailable(ctx context.Context, slug string, excludeID *uint) (bool, error)
	IncrementClickCounters(ctx context.Context, id uint, unique bool) error
}

// AdLinkClickRepository defines operations for click events
type AdLinkClickRepository interface {
	Repository[models.AdLinkClick, models.AdLinkClickFilter]
	CountByAdLink(ctx context.Context, adLinkID uint) (int64, error)
	RecentByAdLink(ctx context.Context, adLinkID uint, limit int) ([]*models.AdLinkClick, error)
}

// LeadRepository defines operations for leads
type LeadRepository interface {
	Repository[models.Lead, models.LeadFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Lead, error)
	WithHistory(ctx context.Context, id uint) (*models.Lead, error)
	SaveHistory(ctx context.Context, entry *models.LeadStatusHistory) error
	HistoryByLead(ctx context.Context, leadID uint) ([]*models.LeadStatusHistory, error)
}

// SaleRepository defines operations for sales
type SaleRepository interface {
	Repository[models.Sale, models.SaleFilter]
	ByLeadID(ctx context.Context, leadID uint) (*models.Sale, error)
	SaveHistory(ctx context.Context, entry *models.SaleStatusHistory) error
	HistoryBySale(ctx context.Context, saleID uint) ([]*models.SaleStatusHistory, error)
}

// UserProfileRepository defines operations for staff profiles
type UserProfileRepository interface {
	Repository[models.UserProfile, models.UserProfileFilter]
	ByUsername(ctx context.Context, username string) (*models.UserProfile, error)
	ByUUID(ctx context.Context, uuid string) (*models.UserProfile, error)
	UpdateLastLogin(ctx context.Context, id uint) error
}

// ContentItemRepository defines operations for CMS content
type ContentItemRepository interface {
	Repository[models.ContentItem, models.ContentItemFilter]
	BySectionAndKey(ctx context.Context, section, key string) (*models.ContentItem, error)
	BySection(ctx context.Context, section string) ([]*models.ContentItem, error)
	Upsert(ctx context.Context, item *models.ContentItem) error
}

// HallOfFameRepository defines operations for showcase entries
type HallOfFameRepository interface {
	Repository[models.HallOfFameEntry, models.HallOfFameEntryFilter]
	ByExternalID(ctx context.Context, externalID string) (*models.HallOfFameEntry, error)
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ByUserProfile(ctx context.Context, userProfileID uint, limit, offset int) ([]*models.AuditLog, error)
}
