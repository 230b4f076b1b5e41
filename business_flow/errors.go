// Package businessflow contains the core business logic and use cases for the CRM and redirect workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// Profile-related errors
	ErrProfileNotFound   = errors.New("profile not found")
	ErrProfileInactive   = errors.New("profile is inactive")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrUsernameTaken     = errors.New("username already exists")
	ErrPermissionDenied  = errors.New("permission denied")

	// Ad link errors
	ErrAdLinkNotFound  = errors.New("ad link not found")
	ErrInvalidSlug     = errors.New("slug must be lowercase letters, digits, and hyphens")
	ErrSlugTaken       = errors.New("slug already exists")
	ErrTargetURLEmpty  = errors.New("target URL is required")
	ErrAdLinkNameEmpty = errors.New("ad link name is required")

	// Lead errors
	ErrLeadNotFound          = errors.New("lead not found")
	ErrInvalidLeadStatus     = errors.New("invalid lead status")
	ErrInvalidLeadTransition = errors.New("lead status transition not allowed")
	ErrLeadNameRequired      = errors.New("lead full name is required")
	ErrLeadContactRequired   = errors.New("lead email or phone is required")

	// Sale errors
	ErrSaleNotFound        = errors.New("sale not found")
	ErrSaleAlreadyExists   = errors.New("sale already exists for this lead")
	ErrInsufficientPayment = errors.New("paid amount below minimum required for access")
	ErrInvalidPayment      = errors.New("payment amount must be positive")
	ErrAccessAlreadyActive = errors.New("course access already granted")

	// Content errors
	ErrContentNotFound       = errors.New("content item not found")
	ErrContentSectionEmpty   = errors.New("content section is required")
	ErrContentKeyEmpty       = errors.New("content key is required")
	ErrInvalidContentKind    = errors.New("invalid content kind")
	ErrContentValueMissing   = errors.New("content value is required for its kind")
	ErrHallOfFameEventType     = errors.New("unknown hall of fame event type")
	ErrHallOfFameEntryFields   = errors.New("hall of fame entry fields are incomplete")
	ErrHallOfFameEntryNotFound = errors.New("hall of fame entry not found")

	// Filter errors
	ErrInvalidPage           = errors.New("page must be at least 1")
	ErrInvalidPageSize       = errors.New("page size must be between 1 and 100")
	ErrStartDateAfterEndDate = errors.New("start date cannot be after end date")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsProfileNotFound(err error) bool {
	return errors.Is(err, ErrProfileNotFound)
}

func IsProfileInactive(err error) bool {
	return errors.Is(err, ErrProfileInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsUsernameTaken(err error) bool {
	return errors.Is(err, ErrUsernameTaken)
}

func IsPermissionDenied(err error) bool {
	return errors.Is(err, ErrPermissionDenied)
}

func IsAdLinkNotFound(err error) bool {
	return errors.Is(err, ErrAdLinkNotFound)
}

func IsInvalidSlug(err error) bool {
	return errors.Is(err, ErrInvalidSlug)
}

func IsSlugTaken(err error) bool {
	return errors.Is(err, ErrSlugTaken)
}

func IsTargetURLEmpty(err error) bool {
	return errors.Is(err, ErrTargetURLEmpty)
}

func IsLeadNotFound(err error) bool {
	return errors.Is(err, ErrLeadNotFound)
}

func IsInvalidLeadStatus(err error) bool {
	return errors.Is(err, ErrInvalidLeadStatus)
}

func IsInvalidLeadTransition(err error) bool {
	return errors.Is(err, ErrInvalidLeadTransition)
}

func IsLeadNameRequired(err error) bool {
	return errors.Is(err, ErrLeadNameRequired)
}

func IsLeadContactRequired(err error) bool {
	return errors.Is(err, ErrLeadContactRequired)
}

func IsSaleNotFound(err error) bool {
	return errors.Is(err, ErrSaleNotFound)
}

func IsSaleAlreadyExists(err error) bool {
	return errors.Is(err, ErrSaleAlreadyExists)
}

func IsInsufficientPayment(err error) bool {
	return errors.Is(err, ErrInsufficientPayment)
}

func IsInvalidPayment(err error) bool {
	return errors.Is(err, ErrInvalidPayment)
}

func IsAccessAlreadyActive(err error) bool {
	return errors.Is(err, ErrAccessAlreadyActive)
}

func IsContentNotFound(err error) bool {
	return errors.Is(err, ErrContentNotFound)
}

func IsInvalidContentKind(err error) bool {
	return errors.Is(err, ErrInvalidContentKind)
}

func IsContentValueMissing(err error) bool {
	return errors.Is(err, ErrContentValueMissing)
}

func IsHallOfFameEventType(err error) bool {
	return errors.Is(err, ErrHallOfFameEventType)
}

func IsHallOfFameEntryFields(err error) bool {
	return errors.Is(err, ErrHallOfFameEntryFields)
}

func IsHallOfFameEntryNotFound(err error) bool {
	return errors.Is(err, ErrHallOfFameEntryNotFound)
}

func IsInvalidPage(err error) bool {
	return errors.Is(err, ErrInvalidPage)
}

func IsInvalidPageSize(err error) bool {
	return errors.Is(err, ErrInvalidPageSize)
}

func IsStartDateAfterEndDate(err error) bool {
	return errors.Is(err, ErrStartDateAfterEndDate)
}
