// Package businessflow contains the core business logic and use cases for authentication workflows
package businessflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/cutroom-academy/cutroom-api/app/dto"
	"github.com/cutroom-academy/cutroom-api/app/services"
	"github.com/cutroom-academy/cutroom-api/config"
	"github.com/cutroom-academy/cutroom-api/models"
	"github.com/cutroom-academy/cutroom-api/repository"
	"github.com/cutroom-academy/cutroom-api/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginFlow handles staff authentication
type LoginFlow interface {
	Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenDTO, error)
}

// LoginFlowImpl implements the login business flow
type LoginFlowImpl struct {
	profileRepo  repository.UserProfileRepository
	auditRepo    repository.AuditLogRepository
	tokenService services.TokenService
	adminConfig  config.AdminConfig
	jwtConfig    config.JWTConfig
	db           *gorm.DB
}

// NewLoginFlow creates a new login flow instance
func NewLoginFlow(
	profileRepo repository.UserProfileRepository,
	auditRepo repository.AuditLogRepository,
	tokenService services.TokenService,
	adminConfig config.AdminConfig,
	jwtConfig config.JWTConfig,
	db *gorm.DB,
) LoginFlow {
	return &LoginFlowImpl{
		profileRepo:  profileRepo,
		auditRepo:    auditRepo,
		tokenService: tokenService,
		adminConfig:  adminConfig,
		jwtConfig:    jwtConfig,
		db:           db,
	}
}

// Login authenticates a staff member with username and password.
// The configured bootstrap admin gets a super_admin profile created on first
// successful authentication so a fresh deployment is never locked out.
func (lf *LoginFlowImpl) Login(ctx context.Context, request *dto.LoginRequest, metadata *ClientMetadata) (*dto.LoginResponse, error) {
	if err := lf.validateLoginRequest(request); err != nil {
		return nil, NewBusinessError("LOGIN_VALIDATION_FAILED", "Login validation failed", err)
	}

	var profile *models.UserProfile

	resp, err := lf.withLoginTransaction(ctx, func(ctx context.Context) (*dto.LoginResponse, error) {
		username := strings.ToLower(strings.TrimSpace(request.Username))

		var err error
		profile, err = lf.profileRepo.ByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			profile, err = lf.bootstrapAdminProfile(ctx, username, request.Password, metadata)
			if err != nil {
				return nil, err
			}
		} else {
			if !utils.IsTrue(profile.IsActive) {
				return nil, ErrProfileInactive
			}
			if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(request.Password)); err != nil {
				return nil, ErrIncorrectPassword
			}
		}

		accessToken, refreshToken, err := lf.tokenService.GenerateTokens(profile.ID, profile.Role.String())
		if err != nil {
			return nil, err
		}

		if err := lf.profileRepo.UpdateLastLogin(ctx, profile.ID); err != nil {
			return nil, err
		}

		routes := models.AccessibleRoutes(profile.Role)

		return &dto.LoginResponse{
			Profile: ToProfileDTO(*profile),
			Tokens: dto.TokenDTO{
				AccessToken:  accessToken,
				RefreshToken: refreshToken,
				TokenType:    "Bearer",
				ExpiresIn:    int(lf.jwtConfig.AccessTokenTTL.Seconds()),
			},
			AccessibleRoutes: routes,
		}, nil
	})

	if err != nil {
		errMsg := fmt.Sprintf("Login failed: %s", err.Error())
		_ = lf.logLoginAttempt(ctx, profile, models.AuditActionLoginFailed, errMsg, false, &errMsg, metadata)

		return nil, NewBusinessError("LOGIN_FAILED", "Login failed", err)
	}

	msg := fmt.Sprintf("Staff logged in successfully: %d", resp.Profile.ID)
	_ = lf.logLoginAttempt(ctx, profile, models.AuditActionLoginSuccess, msg, true, nil, metadata)

	return resp, nil
}

// Refresh issues a new token pair from a valid refresh token
func (lf *LoginFlowImpl) Refresh(ctx context.Context, refreshToken string) (*dto.TokenDTO, error) {
	if refreshToken == "" {
		return nil, NewBusinessError("REFRESH_VALIDATION_FAILED", "Refresh token is required", nil)
	}

	access, refresh, err := lf.tokenService.RefreshToken(refreshToken)
	if err != nil {
		return nil, NewBusinessError("REFRESH_FAILED", "Failed to refresh tokens", err)
	}

	return &dto.TokenDTO{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int(lf.jwtConfig.AccessTokenTTL.Seconds()),
	}, nil
}

// bootstrapAdminProfile creates the configured bootstrap super_admin on its
// first login. Any other unknown username fails the same way a wrong password
// does.
func (lf *LoginFlowImpl) bootstrapAdminProfile(ctx context.Context, username, password string, metadata *ClientMetadata) (*models.UserProfile, error) {
	if lf.adminConfig.BootstrapUsername == "" || username != strings.ToLower(lf.adminConfig.BootstrapUsername) {
		return nil, ErrProfileNotFound
	}
	if password != lf.adminConfig.BootstrapPassword {
		return nil, ErrIncorrectPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	profile := &models.UserProfile{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleSuperAdmin,
		IsActive:     utils.ToPtr(true),
	}
	if lf.adminConfig.BootstrapEmail != "" {
		profile.Email = utils.ToPtr(lf.adminConfig.BootstrapEmail)
	}
	if err := lf.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	msg := fmt.Sprintf("Bootstrap admin profile created: %s", username)
	_ = lf.logLoginAttempt(ctx, profile, models.AuditActionProfileCreated, msg, true, nil, metadata)

	return profile, nil
}

func (lf *LoginFlowImpl) logLoginAttempt(ctx context.Context, profile *models.UserProfile, action string, description string, success bool, errMsg *string, metadata *ClientMetadata) error {
	var profileID *uint
	if profile != nil {
		profileID = &profile.ID
	}
	return saveAudit(ctx, lf.auditRepo, profileID, action, description, success, errMsg, metadata)
}

func (lf *LoginFlowImpl) withLoginTransaction(ctx context.Context, fn func(context.Context) (*dto.LoginResponse, error)) (*dto.LoginResponse, error) {
	var result *dto.LoginResponse
	var fnErr error

	err := repository.WithTransaction(ctx, lf.db, func(ctx context.Context) error {
		result, fnErr = fn(ctx)
		return fnErr
	})

	if err != nil {
		return nil, err
	}
	return result, fnErr
}

func (lf *LoginFlowImpl) validateLoginRequest(request *dto.LoginRequest) error {
	if request == nil || strings.TrimSpace(request.Username) == "" {
		return ErrProfileNotFound
	}
	if request.Password == "" {
		return ErrIncorrectPassword
	}
	return nil
}
