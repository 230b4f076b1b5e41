package models

import (
	"regexp"
	"time"

	"github.com/cutroom-academy/cutroom-api/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// slugPattern is the allowed slug alphabet; length is checked separately
var slugPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// IsValidSlug reports whether s is a well-formed ad link slug
func IsValidSlug(s string) bool {
	if len(s) < utils.SlugMinLength || len(s) > utils.SlugMaxLength {
		return false
	}
	return slugPattern.MatchString(s)
}

// AdLink is a trackable redirect record created by staff for a marketing campaign.
// Slug is the short unique token routed at /go/:slug.
// UTM fields are defaults merged with incoming query parameters at redirect time.
// TotalClicks and UniqueClicks are derived counters, not authoritative.
type AdLink struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UUID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_ad_links_uuid" json:"uuid"`
	Slug      string    `gorm:"size:50;not null;uniqueIndex:uk_ad_links_slug;index:idx_ad_links_slug" json:"slug"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	TargetURL string    `gorm:"type:text;not null" json:"target_url"`
	IsActive  *bool     `gorm:"default:true;index:idx_ad_links_is_active" json:"is_active"`

	ExpirationDate *time.Time `gorm:"index:idx_ad_links_expiration_date" json:"expiration_date,omitempty"`

	UTMSource   *string `gorm:"size:255" json:"utm_source,omitempty"`
	UTMMedium   *string `gorm:"size:255" json:"utm_medium,omitempty"`
	UTMCampaign *string `gorm:"size:255" json:"utm_campaign,omitempty"`
	UTMTerm     *string `gorm:"size:255" json:"utm_term,omitempty"`
	UTMContent  *string `gorm:"size:255" json:"utm_content,omitempty"`

	TotalClicks  uint64 `gorm:"not null;default:0" json:"total_clicks"`
	UniqueClicks uint64 `gorm:"not null;default:0" json:"unique_clicks"`

	CreatedBy *uint      `gorm:"index:idx_ad_links_created_by" json:"created_by,omitempty"`
	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_ad_links_created_at" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// TableName returns the table name for AdLink
func (AdLink) TableName() string { return "ad_links" }

// BeforeCreate is called before creating a new record
func (l *AdLink) BeforeCreate(tx *gorm.DB) error {
	if l.UUID == uuid.Nil {
		l.UUID = uuid.New()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (l *AdLink) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	l.UpdatedAt = &now
	return nil
}

// IsExpired reports whether the link's expiration date has passed
func (l *AdLink) IsExpired() bool {
	return utils.IsExpiredPtr(l.ExpirationDate)
}

// IsEligible reports whether the link may serve a redirect: active and not expired
func (l *AdLink) IsEligible() bool {
	return utils.IsTrue(l.IsActive) && !l.IsExpired()
}

// UTMDefaults returns the stored UTM defaults keyed by parameter suffix
// (source, medium, campaign, term, content). Unset defaults are omitted.
func (l *AdLink) UTMDefaults() map[string]string {
	defaults := make(map[string]string, 5)
	set := func(key string, v *string) {
		if v != nil && *v != "" {
			defaults[key] = *v
		}
	}
	set("source", l.UTMSource)
	set("medium", l.UTMMedium)
	set("campaign", l.UTMCampaign)
	set("term", l.UTMTerm)
	set("content", l.UTMContent)
	return defaults
}

// AdLinkFilter provides filter fields for repository queries
type AdLinkFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Slug          *string
	IsActive      *bool
	CreatedBy     *uint
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
