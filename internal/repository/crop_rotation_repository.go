package repository

import (
	"context"

	"gorm.io/gorm"

	"farm-service/internal/model"
)

type CropRotationRepository struct {
	db *gorm.DB
}

func NewCropRotationRepository(db *gorm.DB) *CropRotationRepository {
	return &CropRotationRepository{db: db}
}

func (r *CropRotationRepository) Create(ctx context.Context, rotation *model.CropRotation) error {
	return r.db.WithContext(ctx).Create(rotation).Error
}

func (r *CropRotationRepository) owned(ctx context.Context, ownerID uint) *gorm.DB {
	return r.db.WithContext(ctx).Where(
		r.db.Where("pivot_id IN (?)", ownedPivotIDs(r.db, ownerID)).
			Or("field_id IN (?)", ownedFieldIDs(r.db, ownerID)),
	)
}

func (r *CropRotationRepository) GetByID(ctx context.Context, ownerID, id uint) (*model.CropRotation, error) {
	var rotation model.CropRotation
	if err := r.owned(ctx, ownerID).Where("id = ?", id).First(&rotation).Error; err != nil {
		return nil, err
	}
	return &rotation, nil
}

type CropRotationListFilter struct {
	PivotID *uint
	FieldID *uint
	Year    *int
}

func (r *CropRotationRepository) List(ctx context.Context, ownerID uint, filter CropRotationListFilter) ([]model.CropRotation, error) {
	var rotations []model.CropRotation
	query := r.owned(ctx, ownerID)

	if filter.PivotID != nil {
		query = query.Where("pivot_id = ?", *filter.PivotID)
	}
	if filter.FieldID != nil {
		query = query.Where("field_id = ?", *filter.FieldID)
	}
	if filter.Year != nil {
		query = query.Where("year = ?", *filter.Year)
	}

	if err := query.Order("year DESC, id").Find(&rotations).Error; err != nil {
		return nil, err
	}
	return rotations, nil
}

func (r *CropRotationRepository) Update(ctx context.Context, rotation *model.CropRotation) error {
	return r.db.WithContext(ctx).Save(rotation).Error
}

func (r *CropRotationRepository) Delete(ctx context.Context, rotation *model.CropRotation) error {
	return r.db.WithContext(ctx).Delete(rotation).Error
}

// ExistsForTargetYear reports whether the pivot or field already has a
// rotation in year, ignoring excludeID.
func (r *CropRotationRepository) ExistsForTargetYear(ctx context.Context, pivotID, fieldID *uint, year int, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.CropRotation{}).
		Where("year = ? AND id <> ?", year, excludeID)

	switch {
	case pivotID != nil:
		query = query.Where("pivot_id = ?", *pivotID)
	case fieldID != nil:
		query = query.Where("field_id = ?", *fieldID)
	default:
		return false, nil
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
