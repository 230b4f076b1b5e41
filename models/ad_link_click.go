package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// UTMParams is the resolved tracking parameter set persisted with a click.
// Values come from the incoming query string when present, otherwise from
// the ad link's stored defaults; absent parameters stay empty.
type UTMParams struct {
	Source   string `json:"source,omitempty"`
	Medium   string `json:"medium,omitempty"`
	Campaign string `json:"campaign,omitempty"`
	Term     string `json:"term,omitempty"`
	Content  string `json:"content,omitempty"`
}

// Value implements the driver.Valuer interface for UTMParams
func (u UTMParams) Value() (driver.Value, error) {
	return json.Marshal(u)
}

// Scan implements the sql.Scanner interface for UTMParams
func (u *UTMParams) Scan(value any) error {
	if value == nil {
		*u = UTMParams{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into UTMParams", value)
	}

	return json.Unmarshal(bytes, u)
}

// AdLinkClick is an immutable record of one redirect attempt's attribution data.
// Exactly one row is written per eligible redirect; rows are never mutated.
// IsUnique is recorded true on every click: no dedup by IP or session exists yet.
type AdLinkClick struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AdLinkID uint   `gorm:"index:idx_ad_link_clicks_ad_link_id;not null" json:"ad_link_id"`
	Slug     string `gorm:"size:50;index:idx_ad_link_clicks_slug" json:"slug"`

	IP        string  `gorm:"size:64;not null" json:"ip"`
	UserAgent *string `gorm:"type:text" json:"user_agent,omitempty"`
	Referrer  *string `gorm:"type:text" json:"referrer,omitempty"`

	Country string `gorm:"size:64" json:"country"`
	Region  string `gorm:"size:64" json:"region"`
	City    string `gorm:"size:64" json:"city"`

	UTM       UTMParams `gorm:"type:jsonb;not null" json:"utm"`
	SessionID string    `gorm:"size:64;not null;index:idx_ad_link_clicks_session_id" json:"session_id"`
	IsUnique  bool      `gorm:"not null;default:true" json:"is_unique"`

	CreatedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_ad_link_clicks_created_at" json:"created_at"`
}

// TableName returns the table name for AdLinkClick
func (AdLinkClick) TableName() string { return "ad_link_clicks" }

// AdLinkClickFilter provides filter fields for repository queries
type AdLinkClickFilter struct {
	ID            *uint
	AdLinkID      *uint
	Slug          *string
	SessionID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
