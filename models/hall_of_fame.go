package models

import (
	"time"

	"github.com/cutroom-academy/cutroom-api/utils"
	"gorm.io/gorm"
)

// HallOfFameEntry mirrors a student submission in the community showcase.
// Rows are created and updated by the authenticated webhook only.
type HallOfFameEntry struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ExternalID string `gorm:"size:128;not null;uniqueIndex:uk_hall_of_fame_external_id" json:"external_id"`

	StudentName string  `gorm:"size:255;not null" json:"student_name"`
	VideoURL    string  `gorm:"type:text;not null" json:"video_url"`
	Title       *string `gorm:"size:255" json:"title,omitempty"`
	Votes       int     `gorm:"not null;default:0" json:"votes"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_hall_of_fame_created_at" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// TableName returns the table name for HallOfFameEntry
func (HallOfFameEntry) TableName() string { return "hall_of_fame_entries" }

// BeforeCreate is called before creating a new record
func (h *HallOfFameEntry) BeforeCreate(tx *gorm.DB) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (h *HallOfFameEntry) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	h.UpdatedAt = &now
	return nil
}

// HallOfFameEntryFilter provides filter fields for repository queries
type HallOfFameEntryFilter struct {
	ID          *uint
	ExternalID  *string
	StudentName *string
	MinVotes    *int
}
