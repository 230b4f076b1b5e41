package repository

import (
	"context"
	"errors"

	"github.com/cutroom-academy/cutroom-api/models"
	"gorm.io/gorm"
)

// HallOfFameRepositoryImpl implements HallOfFameRepository
type HallOfFameRepositoryImpl struct {
	*BaseRepository[models.HallOfFameEntry, models.HallOfFameEntryFilter]
}

func NewHallOfFameRepository(db *gorm.DB) HallOfFameRepository {
	return &HallOfFameRepositoryImpl{BaseRepository: NewBaseRepository[models.HallOfFameEntry, models.HallOfFameEntryFilter](db)}
}

func (r *HallOfFameRepositoryImpl) ByID(ctx context.Context, id uint) (*models.HallOfFameEntry, error) {
	db := r.getDB(ctx)
	var row models.HallOfFameEntry
	if err := db.Last(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *HallOfFameRepositoryImpl) ByExternalID(ctx context.Context, externalID string) (*models.HallOfFameEntry, error) {
	rows, err := r.ByFilter(ctx, models.HallOfFameEntryFilter{ExternalID: &externalID}, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *HallOfFameRepositoryImpl) applyFilter(db *gorm.DB, f models.HallOfFameEntryFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.ExternalID != nil {
		db = db.Where("external_id = ?", *f.ExternalID)
	}
	if f.StudentName != nil {
		db = db.Where("student_name = ?", *f.StudentName)
	}
	if f.MinVotes != nil {
		db = db.Where("votes >= ?", *f.MinVotes)
	}
	return db
}

func (r *HallOfFameRepositoryImpl) ByFilter(ctx context.Context, filter models.HallOfFameEntryFilter, orderBy string, limit, offset int) ([]*models.HallOfFameEntry, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.HallOfFameEntry{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.HallOfFameEntry
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *HallOfFameRepositoryImpl) Count(ctx context.Context, filter models.HallOfFameEntryFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.HallOfFameEntry{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *HallOfFameRepositoryImpl) Exists(ctx context.Context, filter models.HallOfFameEntryFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}
