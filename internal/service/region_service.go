package service

import (
	"context"

	"farm-service/internal/geometry"
	"farm-service/internal/model"
	"farm-service/internal/repository"
)

const defaultRegionColor = "#3388FF"

type RegionInput struct {
	CompanyID *uint
	Name      *string
	Center    *string
	Color     *string
}

type RegionService struct {
	regions   *repository.RegionRepository
	companies *repository.CompanyRepository
}

func NewRegionService(regions *repository.RegionRepository, companies *repository.CompanyRepository) *RegionService {
	return &RegionService{regions: regions, companies: companies}
}

func (s *RegionService) List(ctx context.Context, principal model.Principal, filter repository.RegionListFilter) ([]model.Region, error) {
	return s.regions.List(ctx, principal.UserID, filter)
}

func (s *RegionService) Get(ctx context.Context, principal model.Principal, id uint) (*model.Region, error) {
	region, err := s.regions.GetByID(ctx, principal.UserID, id)
	if err != nil {
		return nil, notFound(err)
	}
	return region, nil
}

func (s *RegionService) Create(ctx context.Context, principal model.Principal, input RegionInput) (*model.Region, error) {
	if input.CompanyID == nil {
		return nil, invalidInput("company_id is required")
	}
	if _, err := requireName(input.Name, "name"); err != nil {
		return nil, err
	}

	region := &model.Region{Color: defaultRegionColor}
	if err := s.apply(ctx, principal, region, input); err != nil {
		return nil, err
	}
	if err := s.regions.Create(ctx, region); err != nil {
		return nil, err
	}
	return region, nil
}

func (s *RegionService) Update(ctx context.Context, principal model.Principal, id uint, input RegionInput) (*model.Region, error) {
	region, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, principal, region, input); err != nil {
		return nil, err
	}
	if err := s.regions.Update(ctx, region); err != nil {
		return nil, err
	}
	return region, nil
}

func (s *RegionService) Delete(ctx context.Context, principal model.Principal, id uint) error {
	region, err := s.Get(ctx, principal, id)
	if err != nil {
		return err
	}
	return s.regions.Delete(ctx, region)
}

func (s *RegionService) apply(ctx context.Context, principal model.Principal, region *model.Region, input RegionInput) error {
	if input.CompanyID != nil {
		company, err := s.companies.GetByID(ctx, principal.UserID, *input.CompanyID)
		if err != nil {
			return parentMissing(err, "company")
		}
		region.CompanyID = company.ID
		region.Company = company
		region.CompanyName = company.Name
	}
	if input.Name != nil {
		name, err := requireName(input.Name, "name")
		if err != nil {
			return err
		}
		region.Name = name
	}
	if input.Center != nil {
		center, err := canonicalShape(input.Center, geometry.KindPoint, "center")
		if err != nil {
			return err
		}
		region.Center = center
	}
	if input.Color != nil {
		c, err := color(input.Color, region.Color)
		if err != nil {
			return err
		}
		region.Color = c
	}
	return nil
}
