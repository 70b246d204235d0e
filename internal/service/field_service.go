package service

import (
	"context"

	"farm-service/internal/crop"
	"farm-service/internal/geometry"
	"farm-service/internal/model"
	"farm-service/internal/repository"
)

const defaultFieldColor = "#00AA00"

type FieldInput struct {
	SectorID    *uint
	LogicalName *string
	Shape       *string
	Color       *string
	CropPlanInput
}

type FieldService struct {
	fields  *repository.FieldRepository
	sectors *repository.SectorRepository
}

func NewFieldService(fields *repository.FieldRepository, sectors *repository.SectorRepository) *FieldService {
	return &FieldService{fields: fields, sectors: sectors}
}

func (s *FieldService) List(ctx context.Context, principal model.Principal, filter repository.FieldListFilter) ([]model.Field, error) {
	return s.fields.List(ctx, principal.UserID, filter)
}

func (s *FieldService) Get(ctx context.Context, principal model.Principal, id uint) (*model.Field, error) {
	field, err := s.fields.GetByID(ctx, principal.UserID, id)
	if err != nil {
		return nil, notFound(err)
	}
	return field, nil
}

func (s *FieldService) Create(ctx context.Context, principal model.Principal, input FieldInput) (*model.Field, error) {
	if input.SectorID == nil {
		return nil, invalidInput("sector_id is required")
	}
	if input.Shape == nil {
		return nil, invalidInput("shape is required")
	}

	field := &model.Field{Color: defaultFieldColor}
	field.SetCrops([crop.SlotCount]string{crop.None, crop.None, crop.None, crop.None})
	if err := s.apply(ctx, principal, field, input); err != nil {
		return nil, err
	}
	if err := s.fields.Create(ctx, field); err != nil {
		return nil, err
	}
	return field, nil
}

func (s *FieldService) Update(ctx context.Context, principal model.Principal, id uint, input FieldInput) (*model.Field, error) {
	field, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, principal, field, input); err != nil {
		return nil, err
	}
	if err := s.fields.Update(ctx, field); err != nil {
		return nil, err
	}
	return field, nil
}

func (s *FieldService) Delete(ctx context.Context, principal model.Principal, id uint) error {
	field, err := s.Get(ctx, principal, id)
	if err != nil {
		return err
	}
	return s.fields.Delete(ctx, field)
}

func (s *FieldService) apply(ctx context.Context, principal model.Principal, field *model.Field, input FieldInput) error {
	if input.SectorID != nil {
		sector, err := s.sectors.GetByID(ctx, principal.UserID, *input.SectorID)
		if err != nil {
			return parentMissing(err, "sector")
		}
		field.SectorID = sector.ID
		field.Sector = sector
		field.SectorName = sector.Name
	}
	if input.LogicalName != nil {
		field.LogicalName = *input.LogicalName
	}
	if input.Shape != nil {
		shape, err := canonicalShape(input.Shape, geometry.KindPolygon, "shape")
		if err != nil {
			return err
		}
		if shape == nil {
			return invalidInput("shape is required")
		}
		field.Shape = shape
		field.Area = derivedArea(shape, 0)
	}
	if input.Color != nil {
		c, err := color(input.Color, field.Color)
		if err != nil {
			return err
		}
		field.Color = c
	}

	plan, err := applyCropPlan(field.Crops(), field.SeedingDate, field.HarvestDate, input.CropPlanInput)
	if err != nil {
		return err
	}
	field.SetCrops(plan.crops)
	field.SeedingDate, field.HarvestDate = plan.seeding, plan.harvest
	return nil
}
