package repository

import (
	"context"

	"gorm.io/gorm"

	"farm-service/internal/model"
)

type PivotRepository struct {
	db *gorm.DB
}

func NewPivotRepository(db *gorm.DB) *PivotRepository {
	return &PivotRepository{db: db}
}

func (r *PivotRepository) Create(ctx context.Context, pivot *model.Pivot) error {
	return r.db.WithContext(ctx).Omit("Sector").Create(pivot).Error
}

// GetByID loads the pivot with its sector, region and company so callers
// can read the whole lineage.
func (r *PivotRepository) GetByID(ctx context.Context, ownerID, id uint) (*model.Pivot, error) {
	var pivot model.Pivot
	err := r.db.WithContext(ctx).
		Preload("Sector.Region.Company").
		Where("id = ? AND sector_id IN (?)", id, ownedSectorIDs(r.db, ownerID)).
		First(&pivot).Error
	if err != nil {
		return nil, err
	}
	return &pivot, nil
}

type PivotListFilter struct {
	SectorID *uint
}

func (r *PivotRepository) List(ctx context.Context, ownerID uint, filter PivotListFilter) ([]model.Pivot, error) {
	var pivots []model.Pivot
	query := r.db.WithContext(ctx).
		Preload("Sector").
		Where("sector_id IN (?)", ownedSectorIDs(r.db, ownerID))

	if filter.SectorID != nil {
		query = query.Where("sector_id = ?", *filter.SectorID)
	}

	if err := query.Order("id").Find(&pivots).Error; err != nil {
		return nil, err
	}
	return pivots, nil
}

func (r *PivotRepository) Update(ctx context.Context, pivot *model.Pivot) error {
	return r.db.WithContext(ctx).Omit("Sector").Save(pivot).Error
}

func (r *PivotRepository) Delete(ctx context.Context, pivot *model.Pivot) error {
	return r.db.WithContext(ctx).Delete(pivot).Error
}
