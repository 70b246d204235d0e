package service

import (
	"context"

	"farm-service/internal/geometry"
	"farm-service/internal/model"
	"farm-service/internal/repository"
)

const defaultSectorColor = "#0000FF"

type SectorInput struct {
	RegionID              *uint
	Name                  *string
	Shape                 *string
	TotalWaterRequirement *float64
	Color                 *string
}

type SectorService struct {
	sectors *repository.SectorRepository
	regions *repository.RegionRepository
}

func NewSectorService(sectors *repository.SectorRepository, regions *repository.RegionRepository) *SectorService {
	return &SectorService{sectors: sectors, regions: regions}
}

// List returns the caller's sectors with their pivot count and total pivot
// area filled in.
func (s *SectorService) List(ctx context.Context, principal model.Principal, filter repository.SectorListFilter) ([]model.Sector, error) {
	sectors, err := s.sectors.List(ctx, principal.UserID, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(sectors))
	for i := range sectors {
		ids[i] = sectors[i].ID
	}
	stats, err := s.sectors.PivotStats(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range sectors {
		applyStats(&sectors[i], stats[sectors[i].ID])
	}
	return sectors, nil
}

func (s *SectorService) Get(ctx context.Context, principal model.Principal, id uint) (*model.Sector, error) {
	sector, err := s.sectors.GetByID(ctx, principal.UserID, id)
	if err != nil {
		return nil, notFound(err)
	}
	stats, err := s.sectors.PivotStats(ctx, []uint{sector.ID})
	if err != nil {
		return nil, err
	}
	applyStats(sector, stats[sector.ID])
	return sector, nil
}

func (s *SectorService) Create(ctx context.Context, principal model.Principal, input SectorInput) (*model.Sector, error) {
	if input.RegionID == nil {
		return nil, invalidInput("region_id is required")
	}
	if _, err := requireName(input.Name, "name"); err != nil {
		return nil, err
	}
	if input.Shape == nil {
		return nil, invalidInput("shape is required")
	}

	sector := &model.Sector{Color: defaultSectorColor}
	if err := s.apply(ctx, principal, sector, input); err != nil {
		return nil, err
	}
	if err := s.sectors.Create(ctx, sector); err != nil {
		return nil, err
	}
	return sector, nil
}

func (s *SectorService) Update(ctx context.Context, principal model.Principal, id uint, input SectorInput) (*model.Sector, error) {
	sector, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, principal, sector, input); err != nil {
		return nil, err
	}
	if err := s.sectors.Update(ctx, sector); err != nil {
		return nil, err
	}
	return sector, nil
}

func (s *SectorService) Delete(ctx context.Context, principal model.Principal, id uint) error {
	sector, err := s.Get(ctx, principal, id)
	if err != nil {
		return err
	}
	return s.sectors.Delete(ctx, sector)
}

func (s *SectorService) apply(ctx context.Context, principal model.Principal, sector *model.Sector, input SectorInput) error {
	if input.RegionID != nil {
		region, err := s.regions.GetByID(ctx, principal.UserID, *input.RegionID)
		if err != nil {
			return parentMissing(err, "region")
		}
		sector.RegionID = region.ID
		sector.Region = region
		sector.RegionName = region.Name
	}
	if input.Name != nil {
		name, err := requireName(input.Name, "name")
		if err != nil {
			return err
		}
		sector.Name = name
	}
	if input.Shape != nil {
		shape, err := canonicalShape(input.Shape, geometry.KindPolygon, "shape")
		if err != nil {
			return err
		}
		if shape == nil {
			return invalidInput("shape is required")
		}
		area := derivedArea(shape, 0)
		sector.Shape = shape
		sector.AreaHa = &area
	}
	if input.TotalWaterRequirement != nil {
		if *input.TotalWaterRequirement < 0 {
			return invalidInput("total_water_requirement must not be negative")
		}
		sector.TotalWaterRequirement = *input.TotalWaterRequirement
	}
	if input.Color != nil {
		c, err := color(input.Color, sector.Color)
		if err != nil {
			return err
		}
		sector.Color = c
	}
	return nil
}

func applyStats(sector *model.Sector, stats model.SectorPivotStats) {
	sector.PivotCount = stats.Count
	sector.TotalPivotArea = stats.TotalArea
}
