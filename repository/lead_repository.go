package repository

import (
	"context"
	"errors"

	"github.com/cutroom-academy/cutroom-api/models"
	uuidlib "github.com/google/uuid"
	"gorm.io/gorm"
)

// LeadRepositoryImpl implements LeadRepository
type LeadRepositoryImpl struct {
	*BaseRepository[models.Lead, models.LeadFilter]
}

func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &LeadRepositoryImpl{BaseRepository: NewBaseRepository[models.Lead, models.LeadFilter](db)}
}

func (r *LeadRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Lead, error) {
	db := r.getDB(ctx)
	var row models.Lead
	if err := db.Last(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *LeadRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Lead, error) {
	parsed, err := uuidlib.Parse(uuid)
	if err != nil {
		return nil, err
	}
	rows, err := r.ByFilter(ctx, models.LeadFilter{UUID: &parsed}, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// WithHistory loads a lead together with its ordered status history
func (r *LeadRepositoryImpl) WithHistory(ctx context.Context, id uint) (*models.Lead, error) {
	db := r.getDB(ctx)
	var row models.Lead
	err := db.Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("performed_at ASC, id ASC")
	}).Last(&row, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *LeadRepositoryImpl) applyFilter(db *gorm.DB, f models.LeadFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.Status != nil {
		db = db.Where("status = ?", *f.Status)
	}
	if f.Email != nil {
		db = db.Where("email = ?", *f.Email)
	}
	if f.Phone != nil {
		db = db.Where("phone = ?", *f.Phone)
	}
	if f.Source != nil {
		db = db.Where("source = ?", *f.Source)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *LeadRepositoryImpl) ByFilter(ctx context.Context, filter models.LeadFilter, orderBy string, limit, offset int) ([]*models.Lead, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Lead{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Lead
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *LeadRepositoryImpl) Count(ctx context.Context, filter models.LeadFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Lead{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LeadRepositoryImpl) Exists(ctx context.Context, filter models.LeadFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

func (r *LeadRepositoryImpl) SaveHistory(ctx context.Context, entry *models.LeadStatusHistory) error {
	db := r.getDB(ctx)
	return db.Create(entry).Error
}

func (r *LeadRepositoryImpl) HistoryByLead(ctx context.Context, leadID uint) ([]*models.LeadStatusHistory, error) {
	db := r.getDB(ctx)
	var rows []*models.LeadStatusHistory
	err := db.Model(&models.LeadStatusHistory{}).
		Where("lead_id = ?", leadID).
		Order("performed_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
