package dto

// SaleDTO represents a sale in API responses
type SaleDTO struct {
	ID               uint              `json:"id"`
	LeadID           uint              `json:"lead_id"`
	SaleUserID       *uint             `json:"sale_user_id,omitempty"`
	PaymentPlan      string            `json:"payment_plan,omitempty"`
	TotalAmount      float64           `json:"total_amount"`
	PaidAmount       float64           `json:"paid_amount"`
	PaymentProofs    []PaymentProofDTO `json:"payment_proofs,omitempty"`
	AccessGranted    *bool             `json:"access_granted"`
	AccessStartDate  *string           `json:"access_start_date,omitempty"`
	AccessEndDate    *string           `json:"access_end_date,omitempty"`
	ExemptionGranted *bool             `json:"exemption_granted"`
	CreatedAt        string            `json:"created_at"`
}

// PaymentProofDTO represents one recorded payment proof
type PaymentProofDTO struct {
	Amount     float64 `json:"amount"`
	Reference  string  `json:"reference,omitempty"`
	FileURL    string  `json:"file_url,omitempty"`
	UploadedBy *uint   `json:"uploaded_by,omitempty"`
	UploadedAt string  `json:"uploaded_at"`
}

// SaleHistoryDTO represents one action recorded against a sale
type SaleHistoryDTO struct {
	Action      string `json:"action"`
	Details     string `json:"details,omitempty"`
	PerformedBy *uint  `json:"performed_by,omitempty"`
	PerformedAt string `json:"performed_at"`
}

// RecordPaymentRequest represents the payload for recording a payment
type RecordPaymentRequest struct {
	Amount    float64 `json:"amount" validate:"required,gt=0" example:"250.00"`
	Reference string  `json:"reference,omitempty" validate:"omitempty,max=255" example:"TRX-20240115-001"`
	FileURL   string  `json:"file_url,omitempty" validate:"omitempty,max=2048"`
}

// GrantAccessRequest represents the payload for granting course access
type GrantAccessRequest struct {
	Details *string `json:"details,omitempty" validate:"omitempty,max=2000"`
}

// GrantExemptionRequest represents the payload for granting a payment exemption
type GrantExemptionRequest struct {
	Details *string `json:"details,omitempty" validate:"omitempty,max=2000"`
}

// ListSalesRequest represents filter and pagination for listing sales
type ListSalesRequest struct {
	AccessGranted *bool `query:"access_granted"`
	Page          int   `query:"page"`
	PageSize      int   `query:"page_size"`
}

// ListSalesResponse represents a page of sales
type ListSalesResponse struct {
	Items []SaleDTO `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
}
