package repository

import (
	"context"

	"gorm.io/gorm"

	"farm-service/internal/model"
)

type RegionRepository struct {
	db *gorm.DB
}

func NewRegionRepository(db *gorm.DB) *RegionRepository {
	return &RegionRepository{db: db}
}

func (r *RegionRepository) Create(ctx context.Context, region *model.Region) error {
	return r.db.WithContext(ctx).Omit("Company").Create(region).Error
}

func (r *RegionRepository) GetByID(ctx context.Context, ownerID, id uint) (*model.Region, error) {
	var region model.Region
	err := r.db.WithContext(ctx).
		Preload("Company").
		Where("id = ? AND company_id IN (?)", id, ownedCompanyIDs(r.db, ownerID)).
		First(&region).Error
	if err != nil {
		return nil, err
	}
	return &region, nil
}

type RegionListFilter struct {
	CompanyID *uint
}

func (r *RegionRepository) List(ctx context.Context, ownerID uint, filter RegionListFilter) ([]model.Region, error) {
	var regions []model.Region
	query := r.db.WithContext(ctx).
		Preload("Company").
		Where("company_id IN (?)", ownedCompanyIDs(r.db, ownerID))

	if filter.CompanyID != nil {
		query = query.Where("company_id = ?", *filter.CompanyID)
	}

	if err := query.Order("id").Find(&regions).Error; err != nil {
		return nil, err
	}
	return regions, nil
}

func (r *RegionRepository) Update(ctx context.Context, region *model.Region) error {
	return r.db.WithContext(ctx).Omit("Company").Save(region).Error
}

func (r *RegionRepository) Delete(ctx context.Context, region *model.Region) error {
	return r.db.WithContext(ctx).Delete(region).Error
}
