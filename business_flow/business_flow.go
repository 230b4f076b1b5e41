// Package businessflow contains the business logic for the application.
package businessflow

import (
	"time"

	"github.com/cutroom-academy/cutroom-api/app/dto"
	"github.com/cutroom-academy/cutroom-api/models"
)

// ClientMetadata holds all client-related information for audit logging and click attribution
type ClientMetadata struct {
	IPAddress  string            `json:"ip_address"`
	UserAgent  string            `json:"user_agent"`
	Referrer   string            `json:"referrer,omitempty"`
	Location   *LocationInfo     `json:"location,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	SessionID  string            `json:"session_id,omitempty"`
	Additional map[string]string `json:"additional,omitempty"`
}

// LocationInfo holds geographical location information
type LocationInfo struct {
	Country string `json:"country,omitempty"`
	Region  string `json:"region,omitempty"`
	City    string `json:"city,omitempty"`
}

// NewClientMetadata creates a new ClientMetadata instance with basic information
func NewClientMetadata(ipAddress, userAgent string) *ClientMetadata {
	return &ClientMetadata{
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Additional: make(map[string]string),
	}
}

// AddAdditional adds additional custom information to the metadata
func (cm *ClientMetadata) AddAdditional(key, value string) {
	if cm.Additional == nil {
		cm.Additional = make(map[string]string)
	}
	cm.Additional[key] = value
}

// SetLocation sets location information
func (cm *ClientMetadata) SetLocation(location *LocationInfo) {
	cm.Location = location
}

// SetRequestID sets the request ID
func (cm *ClientMetadata) SetRequestID(requestID string) {
	cm.RequestID = requestID
}

// SetSessionID sets the session ID
func (cm *ClientMetadata) SetSessionID(sessionID string) {
	cm.SessionID = sessionID
}

// ToProfileDTO converts a staff profile model to ProfileDTO for authentication responses
func ToProfileDTO(profile models.UserProfile) dto.ProfileDTO {
	email := ""
	if profile.Email != nil {
		email = *profile.Email
	}
	return dto.ProfileDTO{
		ID:        profile.ID,
		UUID:      profile.UUID.String(),
		Username:  profile.Username,
		Email:     email,
		Role:      profile.Role.String(),
		IsActive:  profile.IsActive,
		CreatedAt: profile.CreatedAt.Format(time.RFC3339),
	}
}

// ToLeadDTO converts a lead model to LeadDTO
func ToLeadDTO(lead models.Lead) dto.LeadDTO {
	d := dto.LeadDTO{
		ID:        lead.ID,
		UUID:      lead.UUID.String(),
		Status:    lead.Status.String(),
		FullName:  lead.FullName,
		Email:     lead.Email,
		Phone:     lead.Phone,
		Source:    lead.Source,
		Notes:     lead.Notes,
		SaleID:    lead.SaleID,
		CreatedAt: lead.CreatedAt.Format(time.RFC3339),
		UpdatedAt: lead.UpdatedAt.Format(time.RFC3339),
	}
	for _, h := range lead.StatusHistory {
		d.History = append(d.History, dto.LeadHistoryDTO{
			PreviousStatus: h.PreviousStatus.String(),
			NewStatus:      h.NewStatus.String(),
			Details:        h.Details,
			PerformedBy:    h.PerformedBy,
			PerformedAt:    h.PerformedAt.Format(time.RFC3339),
		})
	}
	return d
}

// ToSaleDTO converts a sale model to SaleDTO
func ToSaleDTO(sale models.Sale) dto.SaleDTO {
	d := dto.SaleDTO{
		ID:               sale.ID,
		LeadID:           sale.LeadID,
		SaleUserID:       sale.SaleUserID,
		PaymentPlan:      sale.PaymentPlan,
		TotalAmount:      sale.TotalAmount,
		PaidAmount:       sale.PaidAmount,
		AccessGranted:    sale.AccessGranted,
		ExemptionGranted: sale.ExemptionGranted,
		CreatedAt:        sale.CreatedAt.Format(time.RFC3339),
	}
	if sale.AccessStartDate != nil {
		s := sale.AccessStartDate.Format(time.RFC3339)
		d.AccessStartDate = &s
	}
	if sale.AccessEndDate != nil {
		s := sale.AccessEndDate.Format(time.RFC3339)
		d.AccessEndDate = &s
	}
	for _, p := range sale.PaymentProofs {
		d.PaymentProofs = append(d.PaymentProofs, dto.PaymentProofDTO{
			Amount:     p.Amount,
			Reference:  p.Reference,
			FileURL:    p.FileURL,
			UploadedBy: p.UploadedBy,
			UploadedAt: p.UploadedAt.Format(time.RFC3339),
		})
	}
	return d
}

// ToAdLinkDTO converts an ad link model to AdLinkDTO
func ToAdLinkDTO(link models.AdLink) dto.AdLinkDTO {
	d := dto.AdLinkDTO{
		ID:           link.ID,
		UUID:         link.UUID.String(),
		Slug:         link.Slug,
		Name:         link.Name,
		TargetURL:    link.TargetURL,
		IsActive:     link.IsActive,
		UTMSource:    link.UTMSource,
		UTMMedium:    link.UTMMedium,
		UTMCampaign:  link.UTMCampaign,
		UTMTerm:      link.UTMTerm,
		UTMContent:   link.UTMContent,
		TotalClicks:  link.TotalClicks,
		UniqueClicks: link.UniqueClicks,
		CreatedAt:    link.CreatedAt.Format(time.RFC3339),
	}
	if link.ExpirationDate != nil {
		s := link.ExpirationDate.Format(time.RFC3339)
		d.ExpirationDate = &s
	}
	return d
}
