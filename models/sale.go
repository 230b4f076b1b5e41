package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cutroom-academy/cutroom-api/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentProof is one piece of payment evidence attached to a sale
type PaymentProof struct {
	Amount     float64   `json:"amount"`
	Reference  string    `json:"reference,omitempty"`
	FileURL    string    `json:"file_url,omitempty"`
	UploadedBy *uint     `json:"uploaded_by,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// PaymentProofs is the ordered evidence sequence stored as jsonb
type PaymentProofs []PaymentProof

// Value implements the driver.Valuer interface for PaymentProofs
func (p PaymentProofs) Value() (driver.Value, error) {
	if p == nil {
		p = PaymentProofs{}
	}
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface for PaymentProofs
func (p *PaymentProofs) Scan(value any) error {
	if value == nil {
		*p = PaymentProofs{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into PaymentProofs", value)
	}

	return json.Unmarshal(bytes, p)
}

// Sale is the commercial transaction record tied 1:1 to a converted lead.
// PaidAmount only grows; AccessEndDate is always AccessStartDate + 120 days.
type Sale struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	UUID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_sales_uuid" json:"uuid"`
	LeadID uint      `gorm:"not null;uniqueIndex:uk_sales_lead_id" json:"lead_id"`

	SaleUserID  *uint   `gorm:"index:idx_sales_sale_user_id" json:"sale_user_id,omitempty"`
	PaymentPlan string  `gorm:"size:64;not null" json:"payment_plan"`
	TotalAmount float64 `gorm:"not null" json:"total_amount"`
	PaidAmount  float64 `gorm:"not null;default:0" json:"paid_amount"`

	PaymentProofs PaymentProofs `gorm:"type:jsonb;not null;default:'[]'" json:"payment_proofs"`

	AccessGranted    *bool      `gorm:"default:false" json:"access_granted"`
	AccessStartDate  *time.Time `json:"access_start_date,omitempty"`
	AccessEndDate    *time.Time `json:"access_end_date,omitempty"`
	ExemptionGranted *bool      `gorm:"default:false" json:"exemption_granted"`

	CreatedAt time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_sales_created_at" json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// Relations
	History []SaleStatusHistory `gorm:"foreignKey:SaleID" json:"history,omitempty"`
}

// TableName returns the table name for Sale
func (Sale) TableName() string { return "sales" }

// BeforeCreate is called before creating a new record
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.UUID == uuid.Nil {
		s.UUID = uuid.New()
	}
	if s.PaymentProofs == nil {
		s.PaymentProofs = PaymentProofs{}
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (s *Sale) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	s.UpdatedAt = &now
	return nil
}

// MinimumPaymentMet reports whether access may be granted: either an exemption
// exists or at least half the total amount has been paid.
func (s *Sale) MinimumPaymentMet() bool {
	if utils.IsTrue(s.ExemptionGranted) {
		return true
	}
	return s.PaidAmount >= utils.MinPaymentRatio*s.TotalAmount
}

// Sale history action constants
const (
	SaleActionCreated          = "sale_created"
	SaleActionPaymentRecorded  = "payment_recorded"
	SaleActionAccessGranted    = "access_granted"
	SaleActionExemptionGranted = "exemption_granted"
)

// SaleStatusHistory is an append-only record of one sale mutation
type SaleStatusHistory struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SaleID      uint      `gorm:"not null;index:idx_sale_status_history_sale_id" json:"sale_id"`
	Action      string    `gorm:"size:64;not null;index:idx_sale_status_history_action" json:"action"`
	Details     string    `gorm:"type:text;not null" json:"details"`
	PerformedBy *uint     `gorm:"index:idx_sale_status_history_performed_by" json:"performed_by,omitempty"`
	PerformedAt time.Time `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_sale_status_history_performed_at" json:"performed_at"`
}

// TableName returns the table name for SaleStatusHistory
func (SaleStatusHistory) TableName() string { return "sale_status_history" }

// SaleFilter provides filter fields for repository queries
type SaleFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	LeadID        *uint
	SaleUserID    *uint
	AccessGranted *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
