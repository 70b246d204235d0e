package service

import (
	"context"
	"math"

	"farm-service/internal/crop"
	"farm-service/internal/geometry"
	"farm-service/internal/metric"
	"farm-service/internal/model"
	"farm-service/internal/repository"
)

const defaultPivotColor = "#FF0000"

// CropPlanInput carries the crop slots and season dates shared by pivots
// and fields. A nil slot keeps its current value.
type CropPlanInput struct {
	Crops       [crop.SlotCount]*string
	SeedingDate *string
	HarvestDate *string
}

type PivotInput struct {
	SectorID    *uint
	LogicalName *string
	Center      *string
	RadiusM     *float64
	Color       *string
	CropPlanInput
}

type PivotService struct {
	pivots  *repository.PivotRepository
	sectors *repository.SectorRepository
}

func NewPivotService(pivots *repository.PivotRepository, sectors *repository.SectorRepository) *PivotService {
	return &PivotService{pivots: pivots, sectors: sectors}
}

func (s *PivotService) List(ctx context.Context, principal model.Principal, filter repository.PivotListFilter) ([]model.Pivot, error) {
	return s.pivots.List(ctx, principal.UserID, filter)
}

func (s *PivotService) Get(ctx context.Context, principal model.Principal, id uint) (*model.Pivot, error) {
	pivot, err := s.pivots.GetByID(ctx, principal.UserID, id)
	if err != nil {
		return nil, notFound(err)
	}
	return pivot, nil
}

func (s *PivotService) Create(ctx context.Context, principal model.Principal, input PivotInput) (*model.Pivot, error) {
	if input.SectorID == nil {
		return nil, invalidInput("sector_id is required")
	}
	if input.Center == nil {
		return nil, invalidInput("center is required")
	}

	pivot := &model.Pivot{RadiusM: model.DefaultPivotRadiusM, Color: defaultPivotColor}
	pivot.SetCrops([crop.SlotCount]string{crop.None, crop.None, crop.None, crop.None})
	if err := s.apply(ctx, principal, pivot, input); err != nil {
		return nil, err
	}
	if err := s.pivots.Create(ctx, pivot); err != nil {
		return nil, err
	}
	return pivot, nil
}

func (s *PivotService) Update(ctx context.Context, principal model.Principal, id uint, input PivotInput) (*model.Pivot, error) {
	pivot, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, principal, pivot, input); err != nil {
		return nil, err
	}
	if err := s.pivots.Update(ctx, pivot); err != nil {
		return nil, err
	}
	return pivot, nil
}

func (s *PivotService) Delete(ctx context.Context, principal model.Principal, id uint) error {
	pivot, err := s.Get(ctx, principal, id)
	if err != nil {
		return err
	}
	return s.pivots.Delete(ctx, pivot)
}

func (s *PivotService) apply(ctx context.Context, principal model.Principal, pivot *model.Pivot, input PivotInput) error {
	if input.SectorID != nil {
		sector, err := s.sectors.GetByID(ctx, principal.UserID, *input.SectorID)
		if err != nil {
			return parentMissing(err, "sector")
		}
		pivot.SectorID = sector.ID
		pivot.Sector = sector
		pivot.SectorName = sector.Name
	}
	if input.LogicalName != nil {
		pivot.LogicalName = *input.LogicalName
	}
	if input.Center != nil {
		center, err := canonicalShape(input.Center, geometry.KindPoint, "center")
		if err != nil {
			return err
		}
		if center == nil {
			return invalidInput("center is required")
		}
		pivot.Center = center
	}
	if input.RadiusM != nil {
		r := *input.RadiusM
		if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return invalidInput("radius_m must be positive")
		}
		pivot.RadiusM = metric.Round2(r)
	}
	if input.Color != nil {
		c, err := color(input.Color, pivot.Color)
		if err != nil {
			return err
		}
		pivot.Color = c
	}

	plan, err := applyCropPlan(pivot.Crops(), pivot.SeedingDate, pivot.HarvestDate, input.CropPlanInput)
	if err != nil {
		return err
	}
	pivot.SetCrops(plan.crops)
	pivot.SeedingDate, pivot.HarvestDate = plan.seeding, plan.harvest

	pivot.Area = metric.CircleArea(pivot.RadiusM)
	return nil
}

type cropPlan struct {
	crops   [crop.SlotCount]string
	seeding *string
	harvest *string
}

func applyCropPlan(current [crop.SlotCount]string, seeding, harvest *string, input CropPlanInput) (cropPlan, error) {
	for i, v := range input.Crops {
		if v != nil {
			current[i] = *v
		}
	}
	crops, err := checkCrops(current)
	if err != nil {
		return cropPlan{}, err
	}

	if input.SeedingDate != nil {
		if seeding, err = normalizeDate(input.SeedingDate, "seeding_date"); err != nil {
			return cropPlan{}, err
		}
	}
	if input.HarvestDate != nil {
		if harvest, err = normalizeDate(input.HarvestDate, "harvest_date"); err != nil {
			return cropPlan{}, err
		}
	}
	if err := checkSeason(seeding, harvest); err != nil {
		return cropPlan{}, err
	}

	return cropPlan{crops: crops, seeding: seeding, harvest: harvest}, nil
}
