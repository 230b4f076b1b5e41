package repository

import (
	"context"
	"errors"

	"github.com/cutroom-academy/cutroom-api/models"
	"gorm.io/gorm"
)

// SaleRepositoryImpl implements SaleRepository
type SaleRepositoryImpl struct {
	*BaseRepository[models.Sale, models.SaleFilter]
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &SaleRepositoryImpl{BaseRepository: NewBaseRepository[models.Sale, models.SaleFilter](db)}
}

func (r *SaleRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Sale, error) {
	db := r.getDB(ctx)
	var row models.Sale
	if err := db.Last(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (r *SaleRepositoryImpl) ByLeadID(ctx context.Context, leadID uint) (*models.Sale, error) {
	rows, err := r.ByFilter(ctx, models.SaleFilter{LeadID: &leadID}, "id DESC", 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *SaleRepositoryImpl) applyFilter(db *gorm.DB, f models.SaleFilter) *gorm.DB {
	if f.ID != nil {
		db = db.Where("id = ?", *f.ID)
	}
	if f.UUID != nil {
		db = db.Where("uuid = ?", *f.UUID)
	}
	if f.LeadID != nil {
		db = db.Where("lead_id = ?", *f.LeadID)
	}
	if f.SaleUserID != nil {
		db = db.Where("sale_user_id = ?", *f.SaleUserID)
	}
	if f.AccessGranted != nil {
		db = db.Where("access_granted = ?", *f.AccessGranted)
	}
	if f.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		db = db.Where("created_at < ?", *f.CreatedBefore)
	}
	return db
}

func (r *SaleRepositoryImpl) ByFilter(ctx context.Context, filter models.SaleFilter, orderBy string, limit, offset int) ([]*models.Sale, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Sale{}), filter)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	var rows []*models.Sale
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *SaleRepositoryImpl) Count(ctx context.Context, filter models.SaleFilter) (int64, error) {
	db := r.getDB(ctx)
	query := r.applyFilter(db.Model(&models.Sale{}), filter)
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *SaleRepositoryImpl) Exists(ctx context.Context, filter models.SaleFilter) (bool, error) {
	c, err := r.Count(ctx, filter)
	if err != nil {
		return false, err
	}
	return c > 0, nil
}

func (r *SaleRepositoryImpl) SaveHistory(ctx context.Context, entry *models.SaleStatusHistory) error {
	db := r.getDB(ctx)
	return db.Create(entry).Error
}

func (r *SaleRepositoryImpl) HistoryBySale(ctx context.Context, saleID uint) ([]*models.SaleStatusHistory, error) {
	db := r.getDB(ctx)
	var rows []*models.SaleStatusHistory
	err := db.Model(&models.SaleStatusHistory{}).
		Where("sale_id = ?", saleID).
		Order("performed_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
