package dto

// ContentItemDTO represents a CMS content item in API responses
type ContentItemDTO struct {
	ID        uint   `json:"id"`
	Section   string `json:"section"`
	Key       string `json:"key"`
	Kind      string `json:"kind"`
	Text      string `json:"text,omitempty"`
	URL       string `json:"url,omitempty"`
	AltText   string `json:"alt_text,omitempty"`
	UpdatedAt string `json:"updated_at"`
}

// RenderedContentDTO is the public, kind-resolved view of a content item
type RenderedContentDTO struct {
	Key     string `json:"key"`
	Kind    string `json:"kind"`
	Value   string `json:"value"`
	AltText string `json:"alt_text,omitempty"`
}

// UpsertContentRequest represents the payload for creating or replacing a content item
type UpsertContentRequest struct {
	Section string `json:"section" validate:"required,min=1,max=64" example:"landing"`
	Key     string `json:"key" validate:"required,min=1,max=64" example:"hero_title"`
	Kind    string `json:"kind" validate:"required,oneof=text image video" example:"text"`
	Text    string `json:"text,omitempty" validate:"omitempty,max=10000"`
	URL     string `json:"url,omitempty" validate:"omitempty,max=2048"`
	AltText string `json:"alt_text,omitempty" validate:"omitempty,max=512"`
}

// SectionContentResponse represents all rendered items of one section
type SectionContentResponse struct {
	Section string               `json:"section"`
	Items   []RenderedContentDTO `json:"items"`
}
