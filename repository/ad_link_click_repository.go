package repository

import (
	"context"
	"errors"

	"github.com/cutroom-academy/cutroom-api/models"
	"gorm.io/gorm"
)

// AdLinkClickRepositoryImpl implements AdLinkClickRepository
type AdLinkClickRepositoryImpl struct {
	*BaseRepository[models.AdLinkClick, models.AdLinkClickFilter]
}

func NewAdLinkClickRepository(db *gorm.DB) AdLinkClickRepository {
	return &AdLinkClickRepositoryImpl{BaseRepository: NewBaseRepository[models.AdLinkClick, models.AdLinkClickFilter](db)}
}

func (r *AdLinkClickRepositoryImpl) ByID(ctx context.Context, id uint) (*models.AdLinkClick, error) {
	db := r.getDB(ctx)
	var row models.AdLinkClick
	if err := db.Last(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *AdLinkClickRepositoryImpl) applyFilter(db *gorm.DB, f models.AdLinkClickFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.AdLinkID != nil {
		db = db.Where("ad_link_id = ?", *f.AdLinkID)
	}
	if f.Slug != nil {
		db = db.Where("slug = ?", *f.Slug)
	}
	if f.SessionID != nil {
		db = db.Where("session_id = ?", *f.SessionID)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *AdLinkClickRepositoryImpl) ByFilter(ctx context.Context, filter models.AdLinkClickFilter, orderBy string, limit, offset int) ([]*models.AdLinkClick, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.AdLinkClick{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.AdLinkClick
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AdLinkClickRepositoryImpl) Count(ctx context.Context, filter models.AdLinkClickFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.AdLinkClick{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AdLinkClickRepositoryImpl) Exists(ctx context.Context, filter models.AdLinkClickFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

func (r *AdLinkClickRepositoryImpl) CountByAdLink(ctx context.Context, adLinkID uint) (int64, error) {
	return r.Count(ctx, models.AdLinkClickFilter{AdLinkID: &adLinkID})
}

func (r *AdLinkClickRepositoryImpl) RecentByAdLink(ctx context.Context, adLinkID uint, limit int) ([]*models.AdLinkClick, error) {
	return r.ByFilter(ctx, models.AdLinkClickFilter{AdLinkID: &adLinkID}, "created_at DESC", limit, 0)
}
