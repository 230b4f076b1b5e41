package repository

import (
	"context"
	"errors"

	"github.com/cutroom-academy/cutroom-api/models"
	"github.com/cutroom-academy/cutroom-api/utils"
	uuidlib "github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProfileRepositoryImpl implements UserProfileRepository
type UserProfileRepositoryImpl struct {
	*BaseRepository[models.UserProfile, models.UserProfileFilter]
}

func NewUserProfileRepository(db *gorm.DB) UserProfileRepository {
	return &UserProfileRepositoryImpl{BaseRepository: NewBaseRepository[models.UserProfile, models.UserProfileFilter](db)}
}

func (r *UserProfileRepositoryImpl) ByID(ctx context.Context, id uint) (*models.UserProfile, error) {
	db := r.getDB(ctx)
	var row models.UserProfile
	if err := db.Last(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *UserProfileRepositoryImpl) ByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	rows, err := r.ByFilter(ctx, models.UserProfileFilter{Username: &username}, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *UserProfileRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.UserProfile, error) {
	parsed, err := uuidlib.Parse(uuid)
	if err != nil {
		return nil, err
	}
	rows, err := r.ByFilter(ctx, models.UserProfileFilter{UUID: &parsed}, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *UserProfileRepositoryImpl) applyFilter(db *gorm.DB, f models.UserProfileFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.Username != nil {
		db = db.Where("username = ?", *f.Username)
	}
	if f.Email != nil {
		db = db.Where("email = ?", *f.Email)
	}
	if f.Role != nil {
		db = db.Where("role = ?", *f.Role)
	}
	if f.IsActive != nil {
		db = db.Where("is_active = ?", *f.IsActive)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *UserProfileRepositoryImpl) ByFilter(ctx context.Context, filter models.UserProfileFilter, orderBy string, limit, offset int) ([]*models.UserProfile, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.UserProfile{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.UserProfile
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *UserProfileRepositoryImpl) Count(ctx context.Context, filter models.UserProfileFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.UserProfile{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserProfileRepositoryImpl) Exists(ctx context.Context, filter models.UserProfileFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

func (r *UserProfileRepositoryImpl) UpdateLastLogin(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Model(&models.UserProfile{}).Where("id = ?", id).
		UpdateColumn("last_login_at", utils.UTCNow()).Error
}
