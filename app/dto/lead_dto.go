package dto

// LeadDTO represents a lead in API responses
type LeadDTO struct {
	ID        uint             `json:"id"`
	UUID      string           `json:"uuid"`
	Status    string           `json:"status"`
	FullName  string           `json:"full_name"`
	Email     *string          `json:"email,omitempty"`
	Phone     *string          `json:"phone,omitempty"`
	Source    *string          `json:"source,omitempty"`
	Notes     *string          `json:"notes,omitempty"`
	SaleID    *uint            `json:"sale_id,omitempty"`
	History   []LeadHistoryDTO `json:"history,omitempty"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
}

// LeadHistoryDTO represents one status transition of a lead
type LeadHistoryDTO struct {
	PreviousStatus string `json:"previous_status"`
	NewStatus      string `json:"new_status"`
	Details        string `json:"details,omitempty"`
	PerformedBy    *uint  `json:"performed_by,omitempty"`
	PerformedAt    string `json:"performed_at"`
}

// IntakeLeadRequest represents the public lead intake payload
type IntakeLeadRequest struct {
	FullName string  `json:"full_name" validate:"required,min=1,max=255" example:"Laura Gomez"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Source   *string `json:"source,omitempty" validate:"omitempty,max=255" example:"instagram"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateLeadRequest represents the payload for updating lead contact fields
// Nil fields are left unchanged
type UpdateLeadRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=1,max=255"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Source   *string `json:"source,omitempty" validate:"omitempty,max=255"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// ChangeLeadStatusRequest represents the payload for a lead status transition
type ChangeLeadStatusRequest struct {
	NewStatus string  `json:"new_status" validate:"required" example:"onboarding"`
	Details   *string `json:"details,omitempty" validate:"omitempty,max=2000"`
	// Sale fields, consumed only when transitioning into sale
	PaymentPlan *string  `json:"payment_plan,omitempty" validate:"omitempty,max=64"`
	TotalAmount *float64 `json:"total_amount,omitempty" validate:"omitempty,gte=0"`
}

// ListLeadsRequest represents filter and pagination for listing leads
type ListLeadsRequest struct {
	Status   *string `query:"status"`
	Source   *string `query:"source"`
	Page     int     `query:"page"`
	PageSize int     `query:"page_size"`
}

// ListLeadsResponse represents a page of leads
type ListLeadsResponse struct {
	Items []LeadDTO `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
}
