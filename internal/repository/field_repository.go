package repository

import (
	"context"

	"gorm.io/gorm"

	"farm-service/internal/model"
)

type FieldRepository struct {
	db *gorm.DB
}

func NewFieldRepository(db *gorm.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

func (r *FieldRepository) Create(ctx context.Context, field *model.Field) error {
	return r.db.WithContext(ctx).Omit("Sector").Create(field).Error
}

// GetByID loads the field with its sector, region and company so callers
// can read the whole lineage.
func (r *FieldRepository) GetByID(ctx context.Context, ownerID, id uint) (*model.Field, error) {
	var field model.Field
	err := r.db.WithContext(ctx).
		Preload("Sector.Region.Company").
		Where("id = ? AND sector_id IN (?)", id, ownedSectorIDs(r.db, ownerID)).
		First(&field).Error
	if err != nil {
		return nil, err
	}
	return &field, nil
}

type FieldListFilter struct {
	SectorID *uint
}

func (r *FieldRepository) List(ctx context.Context, ownerID uint, filter FieldListFilter) ([]model.Field, error) {
	var fields []model.Field
	query := r.db.WithContext(ctx).
		Preload("Sector").
		Where("sector_id IN (?)", ownedSectorIDs(r.db, ownerID))

	if filter.SectorID != nil {
		query = query.Where("sector_id = ?", *filter.SectorID)
	}

	if err := query.Order("id").Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

func (r *FieldRepository) Update(ctx context.Context, field *model.Field) error {
	return r.db.WithContext(ctx).Omit("Sector").Save(field).Error
}

func (r *FieldRepository) Delete(ctx context.Context, field *model.Field) error {
	return r.db.WithContext(ctx).Delete(field).Error
}
