package models

import (
	"encoding/json"
	"time"
)

type AuditLog struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	UserProfileID *uint           `gorm:"index:idx_audit_user_profile_id" json:"user_profile_id,omitempty"`
	UserProfile   *UserProfile    `gorm:"foreignKey:UserProfileID;references:ID" json:"user_profile,omitempty"`
	Action        string          `gorm:"size:64;not null;index:idx_audit_action" json:"action"`
	Description   *string         `gorm:"type:text" json:"description,omitempty"`
	IPAddress     *string         `gorm:"type:inet;index:idx_audit_ip_address" json:"ip_address,omitempty"`
	UserAgent     *string         `gorm:"type:text" json:"user_agent,omitempty"`
	RequestID     *string         `gorm:"size:255;index:idx_audit_request_id" json:"request_id,omitempty"`
	Metadata      json.RawMessage `gorm:"type:jsonb" json:"metadata,omitempty"`
	Success       *bool           `gorm:"default:true;index:idx_audit_success" json:"success"`
	ErrorMessage  *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt     time.Time       `gorm:"default:CURRENT_TIMESTAMP;index:idx_audit_created_at" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}

// Audit action constants
const (
	AuditActionLoginSuccess       = "login_success"
	AuditActionLoginFailed        = "login_failed"
	AuditActionProfileCreated     = "profile_created"
	AuditActionProfileDeactivated = "profile_deactivated"

	AuditActionLeadCreated       = "lead_created"
	AuditActionLeadUpdated       = "lead_updated"
	AuditActionLeadStatusChanged = "lead_status_changed"

	AuditActionSaleCreated      = "sale_created"
	AuditActionPaymentRecorded  = "payment_recorded"
	AuditActionAccessGranted    = "access_granted"
	AuditActionExemptionGranted = "exemption_granted"

	AuditActionAdLinkCreated     = "ad_link_created"
	AuditActionAdLinkUpdated     = "ad_link_updated"
	AuditActionAdLinkDeactivated = "ad_link_deactivated"

	AuditActionContentUpdated = "content_updated"
	AuditActionWebhookApplied = "webhook_applied"
)

// AuditLogFilter represents filter criteria for audit log queries
type AuditLogFilter struct {
	ID            *uint
	UserProfileID *uint
	Action        *string
	Success       *bool
	IPAddress     *string
	RequestID     *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}

func (a *AuditLog) IsFailed() bool {
	return a.Success != nil && !*a.Success
}

func (a *AuditLog) IsSecurityEvent() bool {
	securityActions := map[string]bool{
		AuditActionLoginSuccess:       true,
		AuditActionLoginFailed:        true,
		AuditActionProfileDeactivated: true,
		AuditActionAccessGranted:      true,
		AuditActionExemptionGranted:   true,
	}
	return securityActions[a.Action]
}
