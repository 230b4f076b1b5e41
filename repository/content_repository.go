package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/cutroom-academy/cutroom-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ContentItemRepositoryImpl implements ContentItemRepository
type ContentItemRepositoryImpl struct {
	*BaseRepository[models.ContentItem, models.ContentItemFilter]
}

func NewContentItemRepository(db *gorm.DB) ContentItemRepository {
	return &ContentItemRepositoryImpl{BaseRepository: NewBaseRepository[models.ContentItem, models.ContentItemFilter](db)}
}

func (r *ContentItemRepositoryImpl) ByID(ctx context.Context, id uint) (*models.ContentItem, error) {
	db := r.getDB(ctx)
	var row models.ContentItem
	if err := db.Last(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *ContentItemRepositoryImpl) BySectionAndKey(ctx context.Context, section, key string) (*models.ContentItem, error) {
	rows, err := r.ByFilter(ctx, models.ContentItemFilter{Section: &section, Key: &key}, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *ContentItemRepositoryImpl) BySection(ctx context.Context, section string) ([]*models.ContentItem, error) {
	return r.ByFilter(ctx, models.ContentItemFilter{Section: &section}, "key ASC", 0, 0)
}

// Upsert inserts the item or updates the existing row for the same
// section and key pair.
func (r *ContentItemRepositoryImpl) Upsert(ctx context.Context, item *models.ContentItem) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "section"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"kind", "text", "url", "alt_text", "updated_at"}),
	}).Create(item).Error
	if err != nil {
		return fmt.Errorf("failed to upsert content item: %w", err)
	}

	return nil
}

func (r *ContentItemRepositoryImpl) applyFilter(db *gorm.DB, f models.ContentItemFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.Section != nil {
		db = db.Where("section = ?", *f.Section)
	}
	if f.Key != nil {
		db = db.Where("key = ?", *f.Key)
	}
	if f.Kind != nil {
		db = db.Where("kind = ?", *f.Kind)
	}
	return db
}

func (r *ContentItemRepositoryImpl) ByFilter(ctx context.Context, filter models.ContentItemFilter, orderBy string, limit, offset int) ([]*models.ContentItem, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ContentItem{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.ContentItem
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ContentItemRepositoryImpl) Count(ctx context.Context, filter models.ContentItemFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.ContentItem{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ContentItemRepositoryImpl) Exists(ctx context.Context, filter models.ContentItemFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
