// Package models contains domain entities and business models for the CRM and attribution system
package models

import (
	"time"

	"github.com/cutroom-academy/cutroom-api/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is a staff role; permissions are implied by role via the static table
// in permissions.go, never stored per-user.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleAdmin      Role = "admin"
	RoleCRMUser    Role = "crm_user"
	RoleViewer     Role = "viewer"
)

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// Valid checks if the role is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleCRMUser, RoleViewer:
		return true
	default:
		return false
	}
}

// UserProfile is a staff account and the RBAC subject.
// Profiles are created on first authentication if absent and deactivated by
// setting IsActive=false, never hard-deleted.
type UserProfile struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uk_user_profiles_uuid" json:"uuid"`
	Username     string    `gorm:"size:255;not null;uniqueIndex:uk_user_profiles_username" json:"username"`
	Email        *string   `gorm:"size:255;index:idx_user_profiles_email" json:"email,omitempty"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:32;not null;default:'viewer';index:idx_user_profiles_role" json:"role"`

	IsActive    *bool      `gorm:"default:true;index:idx_user_profiles_is_active" json:"is_active"`
	CreatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_user_profiles_created_at" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
	LastLoginAt *time.Time `gorm:"index:idx_user_profiles_last_login_at" json:"last_login_at,omitempty"`
}

// TableName returns the table name for UserProfile
func (UserProfile) TableName() string { return "user_profiles" }

// BeforeCreate is called before creating a new record
func (u *UserProfile) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == uuid.Nil {
		u.UUID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleViewer
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = utils.UTCNow()
	}
	return nil
}

// UserProfileFilter represents filter criteria for user profile queries
type UserProfileFilter struct {
	ID            *uint
	UUID          *uuid.UUID
	Username      *string
	Email         *string
	Role          *Role
	IsActive      *bool
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
