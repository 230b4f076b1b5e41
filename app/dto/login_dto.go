// Package dto contains Data Transfer Objects for API request and response structures
package dto

// LoginRequest represents the request payload for staff login
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64" example:"sara.admin"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// LoginResponse represents the successful login response
type LoginResponse struct {
	Profile ProfileDTO `json:"profile"`
	Tokens  TokenDTO   `json:"tokens"`
	// Routes the profile's role may see in the admin sidebar, in display order
	AccessibleRoutes []string `json:"accessible_routes"`
}

// TokenDTO carries the issued token pair
type TokenDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type" example:"Bearer"`
	ExpiresIn    int    `json:"expires_in" example:"3600"`
}

// ProfileDTO represents staff profile information returned in responses
type ProfileDTO struct {
	ID        uint   `json:"id" example:"123"`
	UUID      string `json:"uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Username  string `json:"username" example:"sara.admin"`
	Email     string `json:"email" example:"sara@cutroom.academy"`
	Role      string `json:"role" example:"admin"`
	IsActive  *bool  `json:"is_active" example:"true"`
	CreatedAt string `json:"created_at" example:"2024-01-15T10:30:00Z"`
}

// Common error codes for login operations
const (
	ErrorProfileNotFound   = "PROFILE_NOT_FOUND"
	ErrorIncorrectPassword = "INCORRECT_PASSWORD"
	ErrorProfileInactive   = "PROFILE_INACTIVE"
)
