package dto

// AdLinkDTO represents an ad link in API responses
type AdLinkDTO struct {
	ID             uint    `json:"id"`
	UUID           string  `json:"uuid"`
	Slug           string  `json:"slug"`
	Name           string  `json:"name"`
	TargetURL      string  `json:"target_url"`
	IsActive       *bool   `json:"is_active"`
	ExpirationDate *string `json:"expiration_date,omitempty"`
	UTMSource      *string `json:"utm_source,omitempty"`
	UTMMedium      *string `json:"utm_medium,omitempty"`
	UTMCampaign    *string `json:"utm_campaign,omitempty"`
	UTMTerm        *string `json:"utm_term,omitempty"`
	UTMContent     *string `json:"utm_content,omitempty"`
	TotalClicks    uint64  `json:"total_clicks"`
	UniqueClicks   uint64  `json:"unique_clicks"`
	CreatedAt      string  `json:"created_at"`
}

// CreateAdLinkRequest represents the payload for creating an ad link
type CreateAdLinkRequest struct {
	Slug           string  `json:"slug" validate:"required,slug" example:"promo-enero"`
	Name           string  `json:"name" validate:"required,min=1,max=255" example:"January promo"`
	TargetURL      string  `json:"target_url" validate:"required,max=2048" example:"https://cutroom.academy/curso?ref=ig"`
	ExpirationDate *string `json:"expiration_date,omitempty" validate:"omitempty"`
	UTMSource      *string `json:"utm_source,omitempty" validate:"omitempty,max=255"`
	UTMMedium      *string `json:"utm_medium,omitempty" validate:"omitempty,max=255"`
	UTMCampaign    *string `json:"utm_campaign,omitempty" validate:"omitempty,max=255"`
	UTMTerm        *string `json:"utm_term,omitempty" validate:"omitempty,max=255"`
	UTMContent     *string `json:"utm_content,omitempty" validate:"omitempty,max=255"`
}

// UpdateAdLinkRequest represents the payload for updating an ad link
// Nil fields are left unchanged
type UpdateAdLinkRequest struct {
	Name           *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	TargetURL      *string `json:"target_url,omitempty" validate:"omitempty,max=2048"`
	IsActive       *bool   `json:"is_active,omitempty"`
	ExpirationDate *string `json:"expiration_date,omitempty"`
	UTMSource      *string `json:"utm_source,omitempty" validate:"omitempty,max=255"`
	UTMMedium      *string `json:"utm_medium,omitempty" validate:"omitempty,max=255"`
	UTMCampaign    *string `json:"utm_campaign,omitempty" validate:"omitempty,max=255"`
	UTMTerm        *string `json:"utm_term,omitempty" validate:"omitempty,max=255"`
	UTMContent     *string `json:"utm_content,omitempty" validate:"omitempty,max=255"`
}

// ListAdLinksRequest represents filter and pagination for listing ad links
type ListAdLinksRequest struct {
	Slug     *string `query:"slug"`
	IsActive *bool   `query:"is_active"`
	Page     int     `query:"page"`
	PageSize int     `query:"page_size"`
}

// ListAdLinksResponse represents a page of ad links
type ListAdLinksResponse struct {
	Items []AdLinkDTO `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
}

// ValidateSlugRequest represents the payload for the public slug validation endpoint
type ValidateSlugRequest struct {
	Slug      string `json:"slug" validate:"required" example:"promo-enero"`
	ExcludeID *uint  `json:"exclude_id,omitempty" example:"42"`
}

// ValidateSlugResponse reports slug format validity and availability
type ValidateSlugResponse struct {
	IsValid     bool   `json:"is_valid"`
	IsAvailable bool   `json:"is_available"`
	Message     string `json:"message"`
}

// AdLinkClickDTO represents a recorded click in API responses
type AdLinkClickDTO struct {
	ID        uint              `json:"id"`
	Slug      string            `json:"slug"`
	IP        string            `json:"ip"`
	UserAgent string            `json:"user_agent,omitempty"`
	Referrer  string            `json:"referrer,omitempty"`
	Country   string            `json:"country,omitempty"`
	Region    string            `json:"region,omitempty"`
	City      string            `json:"city,omitempty"`
	UTM       map[string]string `json:"utm,omitempty"`
	SessionID string            `json:"session_id"`
	IsUnique  bool              `json:"is_unique"`
	CreatedAt string            `json:"created_at"`
}

// AdLinkStatsResponse represents per-link click statistics
type AdLinkStatsResponse struct {
	AdLink       AdLinkDTO        `json:"ad_link"`
	ClickCount   int64            `json:"click_count"`
	RecentClicks []AdLinkClickDTO `json:"recent_clicks"`
}
