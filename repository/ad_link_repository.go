package repository

import (
	"context"
	"errors"

	"github.com/cutroom-academy/cutroom-api/models"
	"gorm.io/gorm"
)

// AdLinkRepositoryImpl implements AdLinkRepository
type AdLinkRepositoryImpl struct {
	*BaseRepository[models.AdLink, models.AdLinkFilter]
}

func NewAdLinkRepository(db *gorm.DB) AdLinkRepository {
	return &AdLinkRepositoryImpl{BaseRepository: NewBaseRepository[models.AdLink, models.AdLinkFilter](db)}
}

func (r *AdLinkRepositoryImpl) ByID(ctx context.Context, id uint) (*models.AdLink, error) {
	db := r.getDB(ctx)
	var row models.AdLink
	if err := db.Last(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *AdLinkRepositoryImpl) BySlug(ctx context.Context, slug string) (*models.AdLink, error) {
	filter := models.AdLinkFilter{Slug: &slug}
	rows, err := r.ByFilter(ctx, filter, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *AdLinkRepositoryImpl) applyFilter(db *gorm.DB, f models.AdLinkFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.Slug != nil {
		db = db.Where("slug = ?", *f.Slug)
	}
	if f.IsActive != nil {
		db = db.Where("is_active = ?", *f.IsActive)
	}
	if f.CreatedBy != nil {
		db = db.Where("created_by = ?", *f.CreatedBy)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *AdLinkRepositoryImpl) ByFilter(ctx context.Context, filter models.AdLinkFilter, orderBy string, limit, offset int) ([]*models.AdLink, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.AdLink{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.AdLink
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *AdLinkRepositoryImpl) Count(ctx context.Context, filter models.AdLinkFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.AdLink{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *AdLinkRepositoryImpl) Exists(ctx context.Context, filter models.AdLinkFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

// IsSlugAvailable reports whether no other ad link owns the slug. excludeID
// lets edits keep their own slug.
func (r *AdLinkRepositoryImpl) IsSlugAvailable(ctx context.Context, slug string, excludeID *uint) (bool, error) {
	db := r.getDB(ctx)
	query := db.Model(&models.AdLink{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// IncrementClickCounters bumps the derived click counters atomically in the
// database; the counters are advisory, the click rows are the source of truth.
func (r *AdLinkRepositoryImpl) IncrementClickCounters(ctx context.Context, id uint, unique bool) error {
	db := r.getDB(ctx)
	updates := map[string]any{
		"total_clicks": gorm.Expr("total_clicks + 1"),
	}
	if unique {
		updates["unique_clicks"] = gorm.Expr("unique_clicks + 1")
	}
	return db.Model(&models.AdLink{}).Where("id = ?", id).UpdateColumns(updates).Error
}
