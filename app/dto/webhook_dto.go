package dto

// Hall of fame webhook event types
const (
	HallOfFameEventNewSubmission = "new_submission"
	HallOfFameEventVoteChange    = "vote_change"
)

// HallOfFameWebhookRequest represents the payload delivered by the voting platform
type HallOfFameWebhookRequest struct {
	EventType   string `json:"event_type" validate:"required" example:"new_submission"`
	ExternalID  string `json:"external_id" validate:"required,max=255" example:"sub-8731"`
	StudentName string `json:"student_name,omitempty" validate:"omitempty,max=255" example:"Diego Ruiz"`
	VideoURL    string `json:"video_url,omitempty" validate:"omitempty,max=2048"`
	Title       string `json:"title,omitempty" validate:"omitempty,max=255"`
	Votes       *int   `json:"votes,omitempty" validate:"omitempty,gte=0"`
}

// HallOfFameEntryDTO represents a showcase entry in API responses
type HallOfFameEntryDTO struct {
	ID          uint   `json:"id"`
	ExternalID  string `json:"external_id"`
	StudentName string `json:"student_name"`
	VideoURL    string `json:"video_url"`
	Title       string `json:"title,omitempty"`
	Votes       int    `json:"votes"`
	CreatedAt   string `json:"created_at"`
}
