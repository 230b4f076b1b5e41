// Package testing provides test utilities and database setup for testing the CRM and attribution system
package testing

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cutroom-academy/cutroom-api/models"
	"github.com/cutroom-academy/cutroom-api/utils"
	"golang.org/x/crypto/bcrypt"
)

// TestFixtures provides helper methods for creating test data
type TestFixtures struct {
	DB *TestDB
}

// NewTestFixtures creates a new test fixtures instance
func NewTestFixtures(db *TestDB) *TestFixtures {
	return &TestFixtures{DB: db}
}

// TestPassword is the plaintext password behind every fixture profile
const TestPassword = "TestPass123!"

// CreateTestProfile creates a staff profile with the given role
func (tf *TestFixtures) CreateTestProfile(role models.Role) (*models.UserProfile, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	suffix := rand.Intn(10000000)
	email := fmt.Sprintf("staff.%d@example.com", suffix)

	profile := &models.UserProfile{
		Username:     fmt.Sprintf("staff_%s_%d", role, suffix),
		Email:        &email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		IsActive:     utils.ToPtr(true),
	}

	if err := tf.DB.DB.Create(profile).Error; err != nil {
		return nil, fmt.Errorf("failed to create test profile: %w", err)
	}

	return profile, nil
}

// CreateTestAdLink creates an active ad link with stored UTM defaults
func (tf *TestFixtures) CreateTestAdLink(slug, targetURL string) (*models.AdLink, error) {
	link := &models.AdLink{
		Slug:        slug,
		Name:        fmt.Sprintf("Campaign %s", slug),
		TargetURL:   targetURL,
		IsActive:    utils.ToPtr(true),
		UTMSource:   utils.ToPtr("instagram"),
		UTMMedium:   utils.ToPtr("cpc"),
		UTMCampaign: utils.ToPtr(slug),
	}

	if err := tf.DB.DB.Create(link).Error; err != nil {
		return nil, fmt.Errorf("failed to create test ad link: %w", err)
	}

	return link, nil
}

// CreateExpiredAdLink creates an ad link whose expiration date has passed
func (tf *TestFixtures) CreateExpiredAdLink(slug, targetURL string) (*models.AdLink, error) {
	expired := utils.UTCNow().Add(-24 * time.Hour)
	link := &models.AdLink{
		Slug:           slug,
		Name:           fmt.Sprintf("Campaign %s", slug),
		TargetURL:      targetURL,
		IsActive:       utils.ToPtr(true),
		ExpirationDate: &expired,
	}

	if err := tf.DB.DB.Create(link).Error; err != nil {
		return nil, fmt.Errorf("failed to create expired ad link: %w", err)
	}

	return link, nil
}

// CreateTestLead creates a lead in the given funnel status
func (tf *TestFixtures) CreateTestLead(status models.LeadStatus) (*models.Lead, error) {
	suffix := rand.Intn(10000000)
	email := fmt.Sprintf("lead.%d@example.com", suffix)
	phone := fmt.Sprintf("+34%09d", rand.Intn(900000000)+100000000)
	source := "instagram"

	lead := &models.Lead{
		Status:   status,
		FullName: fmt.Sprintf("Test Lead %d", suffix),
		Email:    &email,
		Phone:    &phone,
		Source:   &source,
	}

	if err := tf.DB.DB.Create(lead).Error; err != nil {
		return nil, fmt.Errorf("failed to create test lead: %w", err)
	}

	return lead, nil
}

// CreateTestSale creates a sale for the given lead and links the lead to it
func (tf *TestFixtures) CreateTestSale(lead *models.Lead, totalAmount, paidAmount float64) (*models.Sale, error) {
	sale := &models.Sale{
		LeadID:      lead.ID,
		PaymentPlan: "full",
		TotalAmount: totalAmount,
		PaidAmount:  paidAmount,
	}

	if err := tf.DB.DB.Create(sale).Error; err != nil {
		return nil, fmt.Errorf("failed to create test sale: %w", err)
	}

	lead.SaleID = &sale.ID
	lead.Status = models.LeadStatusSale
	if err := tf.DB.DB.Save(lead).Error; err != nil {
		return nil, fmt.Errorf("failed to link sale to lead: %w", err)
	}

	return sale, nil
}

// CreateTestClick creates a click record attributed to the given ad link
func (tf *TestFixtures) CreateTestClick(link *models.AdLink) (*models.AdLinkClick, error) {
	ua := "Test User Agent"
	click := &models.AdLinkClick{
		AdLinkID:  link.ID,
		Slug:      link.Slug,
		IP:        "203.0.113.10",
		UserAgent: &ua,
		Country:   "Spain",
		Region:    "Madrid",
		City:      "Madrid",
		UTM: models.UTMParams{
			Source:   "instagram",
			Medium:   "cpc",
			Campaign: link.Slug,
		},
		SessionID: fmt.Sprintf("sess-%d", rand.Intn(10000000)),
		IsUnique:  true,
	}

	if err := tf.DB.DB.Create(click).Error; err != nil {
		return nil, fmt.Errorf("failed to create test click: %w", err)
	}

	return click, nil
}

// CreateTestContentItem creates a text content item in the given section
func (tf *TestFixtures) CreateTestContentItem(section, key, text string) (*models.ContentItem, error) {
	item := &models.ContentItem{
		Section: section,
		Key:     key,
		Kind:    models.ContentKindText,
		Text:    &text,
	}

	if err := tf.DB.DB.Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create test content item: %w", err)
	}

	return item, nil
}

// CreateTestHallOfFameEntry creates a showcase entry keyed by external ID
func (tf *TestFixtures) CreateTestHallOfFameEntry(externalID string, votes int) (*models.HallOfFameEntry, error) {
	title := "Final project"
	entry := &models.HallOfFameEntry{
		ExternalID:  externalID,
		StudentName: "Test Student",
		VideoURL:    "https://videos.example.com/final.mp4",
		Title:       &title,
		Votes:       votes,
	}

	if err := tf.DB.DB.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to create test hall of fame entry: %w", err)
	}

	return entry, nil
}

// CreateTestAuditLog creates a test audit log entry
func (tf *TestFixtures) CreateTestAuditLog(profileID *uint, action string, success bool) (*models.AuditLog, error) {
	description := fmt.Sprintf("Test %s action", action)
	ipAddress := "127.0.0.1"
	userAgent := "Test User Agent"

	audit := &models.AuditLog{
		UserProfileID: profileID,
		Action:        action,
		Description:   &description,
		Success:       &success,
		IPAddress:     &ipAddress,
		UserAgent:     &userAgent,
	}

	if !success {
		errorMessage := "Test failed action"
		audit.ErrorMessage = &errorMessage
	}

	if err := tf.DB.DB.Create(audit).Error; err != nil {
		return nil, fmt.Errorf("failed to create test audit log: %w", err)
	}

	return audit, nil
}
