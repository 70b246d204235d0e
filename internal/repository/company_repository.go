package repository

import (
	"context"

	"gorm.io/gorm"

	"farm-service/internal/model"
)

type CompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *CompanyRepository {
	return &CompanyRepository{db: db}
}

func (r *CompanyRepository) Create(ctx context.Context, company *model.Company) error {
	return r.db.WithContext(ctx).Create(company).Error
}

// GetByID returns gorm.ErrRecordNotFound when the company does not exist or
// belongs to another owner.
func (r *CompanyRepository) GetByID(ctx context.Context, ownerID, id uint) (*model.Company, error) {
	var company model.Company
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&company).Error
	if err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *CompanyRepository) List(ctx context.Context, ownerID uint) ([]model.Company, error) {
	var companies []model.Company
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("id").
		Find(&companies).Error
	if err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *CompanyRepository) Update(ctx context.Context, company *model.Company) error {
	return r.db.WithContext(ctx).Omit("Owner").Save(company).Error
}

func (r *CompanyRepository) Delete(ctx context.Context, company *model.Company) error {
	return r.db.WithContext(ctx).Delete(company).Error
}

// NameTaken reports whether another company already uses name.
func (r *CompanyRepository) NameTaken(ctx context.Context, name string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Company{}).
		Where("LOWER(name) = LOWER(?) AND id <> ?", name, excludeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
