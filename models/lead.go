package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/cutroom-academy/cutroom-api/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeadStatus represents the status of a lead in the sales funnel
type LeadStatus string

const (
	LeadStatusLead       LeadStatus = "lead"
	LeadStatusOnboarding LeadStatus = "onboarding"
	LeadStatusSale       LeadStatus = "sale"
	LeadStatusRejected   LeadStatus = "rejected"
)

// String returns the string representation of the status
func (s LeadStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusLead, LeadStatusOnboarding, LeadStatusSale, LeadStatusRejected:
		return true
	default:
		return false
	}
}

// Scan implements the sql.Scanner interface for LeadStatus
func (s *LeadStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = LeadStatus(v)
	case []byte:
		*s = LeadStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into LeadStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for LeadStatus
func (s LeadStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid LeadStatus: %s", s)
	}
	return string(s), nil
}

// Lead represents a prospective customer captured via the intake form
type Lead struct {
	ID     uint       `gorm:"primaryKey" json:"id"`
	UUID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_leads_uuid" json:"uuid"`
	Status LeadStatus `gorm:"type:lead_status;not null;default:'lead';index:idx_leads_status" json:"status"`

	FullName string  `gorm:"size:255;not null" json:"full_name"`
	Email    *string `gorm:"size:255;index:idx_leads_email" json:"email,omitempty"`
	Phone    *string `gorm:"size:32;index:idx_leads_phone" json:"phone,omitempty"`
	Source   *string `gorm:"size:255" json:"source,omitempty"`
	Notes    *string `gorm:"type:text" json:"notes,omitempty"`

	// SaleID is set only when the lead transitions into the sale status
	SaleID *uint `gorm:"index:idx_leads_sale_id" json:"sale_id,omitempty"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_leads_created_at" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	StatusHistory []LeadStatusHistory `gorm:"foreignKey:LeadID" json:"status_history,omitempty"`
	Sale          *Sale               `gorm:"foreignKey:SaleID;references:ID" json:"sale,omitempty"`
}

// TableName returns the table name for Lead
func (Lead) TableName() string { return "leads" }

// BeforeCreate is called before creating a new record
func (l *Lead) BeforeCreate(tx *gorm.DB) error {
	if l.UUID == uuid.Nil {
		l.UUID = uuid.New()
	}
	if l.Status == "" {
		l.Status = LeadStatusLead
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (l *Lead) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	l.UpdatedAt = &now
	return nil
}

// CanTransitionTo checks if the lead can transition to the given status.
// The adjacency is enumerated explicitly; lead may convert to sale directly
// without passing through onboarding.
func (l *Lead) CanTransitionTo(newStatus LeadStatus) bool {
	switch l.Status {
	case LeadStatusLead:
		return newStatus == LeadStatusOnboarding ||
			newStatus == LeadStatusSale ||
			newStatus == LeadStatusRejected
	case LeadStatusOnboarding:
		return newStatus == LeadStatusSale ||
			newStatus == LeadStatusRejected
	case LeadStatusSale:
		return false
	case LeadStatusRejected:
		return false
	default:
		return false
	}
}

// LeadStatusHistory is an append-only record of one lead status change.
// The lead's current status must equal the NewStatus of its newest entry.
type LeadStatusHistory struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	LeadID         uint       `gorm:"not null;index:idx_lead_status_history_lead_id" json:"lead_id"`
	PreviousStatus LeadStatus `gorm:"type:lead_status;not null" json:"previous_status"`
	NewStatus      LeadStatus `gorm:"type:lead_status;not null" json:"new_status"`
	Details        string     `gorm:"type:text;not null" json:"details"`
	PerformedBy    *uint      `gorm:"index:idx_lead_status_history_performed_by" json:"performed_by,omitempty"`
	PerformedAt    time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_lead_status_history_performed_at" json:"performed_at"`
}

// TableName returns the table name for LeadStatusHistory
func (LeadStatusHistory) TableName() string { return "lead_status_history" }

// LeadFilter provides filter fields for repository queries
type LeadFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Status        *LeadStatus
	Email         *string
	Phone         *string
	Source        *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
