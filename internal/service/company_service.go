package service

import (
	"context"

	"farm-service/internal/geometry"
	"farm-service/internal/model"
	"farm-service/internal/repository"
)

const defaultCompanyColor = "#3388FF"

type CompanyInput struct {
	Name   *string
	Center *string
	Color  *string
}

type CompanyService struct {
	companies *repository.CompanyRepository
}

func NewCompanyService(companies *repository.CompanyRepository) *CompanyService {
	return &CompanyService{companies: companies}
}

func (s *CompanyService) List(ctx context.Context, principal model.Principal) ([]model.Company, error) {
	return s.companies.List(ctx, principal.UserID)
}

func (s *CompanyService) Get(ctx context.Context, principal model.Principal, id uint) (*model.Company, error) {
	company, err := s.companies.GetByID(ctx, principal.UserID, id)
	if err != nil {
		return nil, notFound(err)
	}
	return company, nil
}

func (s *CompanyService) Create(ctx context.Context, principal model.Principal, input CompanyInput) (*model.Company, error) {
	company := &model.Company{OwnerID: principal.UserID, Color: defaultCompanyColor}
	if err := s.apply(ctx, company, input); err != nil {
		return nil, err
	}
	if input.Name == nil {
		return nil, invalidInput("name is required")
	}

	if err := s.companies.Create(ctx, company); err != nil {
		return nil, err
	}
	company.OwnerName = principal.Username
	return company, nil
}

// Update changes the fields present in input.
func (s *CompanyService) Update(ctx context.Context, principal model.Principal, id uint, input CompanyInput) (*model.Company, error) {
	company, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, company, input); err != nil {
		return nil, err
	}
	if err := s.companies.Update(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}

func (s *CompanyService) Delete(ctx context.Context, principal model.Principal, id uint) error {
	company, err := s.Get(ctx, principal, id)
	if err != nil {
		return err
	}
	return s.companies.Delete(ctx, company)
}

func (s *CompanyService) apply(ctx context.Context, company *model.Company, input CompanyInput) error {
	if input.Name != nil {
		name, err := requireName(input.Name, "name")
		if err != nil {
			return err
		}
		taken, err := s.companies.NameTaken(ctx, name, company.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrConflict
		}
		company.Name = name
	}
	if input.Center != nil {
		center, err := canonicalShape(input.Center, geometry.KindPoint, "center")
		if err != nil {
			return err
		}
		company.Center = center
	}
	if input.Color != nil {
		c, err := color(input.Color, company.Color)
		if err != nil {
			return err
		}
		company.Color = c
	}
	return nil
}
