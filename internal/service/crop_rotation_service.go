package service

import (
	"context"
	"strings"

	"farm-service/internal/crop"
	"farm-service/internal/model"
	"farm-service/internal/repository"
)

const (
	minRotationYear = 1900
	maxRotationYear = 2100
)

type CropRotationInput struct {
	PivotID     *uint
	FieldID     *uint
	Year        *int
	Crop        *string
	SeedingDate *string
	HarvestDate *string
	YieldTons   *float64
	Notes       *string
}

type CropRotationService struct {
	rotations *repository.CropRotationRepository
	pivots    *repository.PivotRepository
	fields    *repository.FieldRepository
}

func NewCropRotationService(
	rotations *repository.CropRotationRepository,
	pivots *repository.PivotRepository,
	fields *repository.FieldRepository,
) *CropRotationService {
	return &CropRotationService{rotations: rotations, pivots: pivots, fields: fields}
}

func (s *CropRotationService) List(ctx context.Context, principal model.Principal, filter repository.CropRotationListFilter) ([]model.CropRotation, error) {
	return s.rotations.List(ctx, principal.UserID, filter)
}

func (s *CropRotationService) Get(ctx context.Context, principal model.Principal, id uint) (*model.CropRotation, error) {
	rotation, err := s.rotations.GetByID(ctx, principal.UserID, id)
	if err != nil {
		return nil, notFound(err)
	}
	return rotation, nil
}

func (s *CropRotationService) Create(ctx context.Context, principal model.Principal, input CropRotationInput) (*model.CropRotation, error) {
	if input.Year == nil {
		return nil, invalidInput("year is required")
	}
	if input.Crop == nil {
		return nil, invalidInput("crop is required")
	}

	rotation := &model.CropRotation{}
	if err := s.apply(ctx, principal, rotation, input); err != nil {
		return nil, err
	}
	if err := s.rotations.Create(ctx, rotation); err != nil {
		return nil, err
	}
	return rotation, nil
}

func (s *CropRotationService) Update(ctx context.Context, principal model.Principal, id uint, input CropRotationInput) (*model.CropRotation, error) {
	rotation, err := s.Get(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, principal, rotation, input); err != nil {
		return nil, err
	}
	if err := s.rotations.Update(ctx, rotation); err != nil {
		return nil, err
	}
	return rotation, nil
}

func (s *CropRotationService) Delete(ctx context.Context, principal model.Principal, id uint) error {
	rotation, err := s.Get(ctx, principal, id)
	if err != nil {
		return err
	}
	return s.rotations.Delete(ctx, rotation)
}

func (s *CropRotationService) apply(ctx context.Context, principal model.Principal, rotation *model.CropRotation, input CropRotationInput) error {
	if input.PivotID != nil || input.FieldID != nil {
		if err := s.retarget(ctx, principal, rotation, input.PivotID, input.FieldID); err != nil {
			return err
		}
	}
	if rotation.PivotID == nil && rotation.FieldID == nil {
		return invalidInput("either pivot_id or field_id is required")
	}

	if input.Year != nil {
		if *input.Year < minRotationYear || *input.Year > maxRotationYear {
			return invalidInput("year must be between %d and %d", minRotationYear, maxRotationYear)
		}
		rotation.Year = *input.Year
	}
	if input.Crop != nil {
		value := crop.Normalize(*input.Crop)
		if crop.IsEmpty(value) || !crop.IsKnown(value) {
			return invalidInput("crop must be one of %s", strings.Join(crop.Choices()[1:], ", "))
		}
		rotation.Crop = value
	}

	var err error
	if input.SeedingDate != nil {
		if rotation.SeedingDate, err = normalizeDate(input.SeedingDate, "seeding_date"); err != nil {
			return err
		}
	}
	if input.HarvestDate != nil {
		if rotation.HarvestDate, err = normalizeDate(input.HarvestDate, "harvest_date"); err != nil {
			return err
		}
	}
	if err := checkSeason(rotation.SeedingDate, rotation.HarvestDate); err != nil {
		return err
	}

	if input.YieldTons != nil {
		if *input.YieldTons < 0 {
			return invalidInput("yield_tons must not be negative")
		}
		yield := *input.YieldTons
		rotation.YieldTons = &yield
	}
	if input.Notes != nil {
		rotation.Notes = *input.Notes
	}

	taken, err := s.rotations.ExistsForTargetYear(ctx, rotation.PivotID, rotation.FieldID, rotation.Year, rotation.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrConflict
	}
	return nil
}

// retarget points the rotation at exactly one pivot or field and copies the
// target's lineage names onto it.
func (s *CropRotationService) retarget(ctx context.Context, principal model.Principal, rotation *model.CropRotation, pivotID, fieldID *uint) error {
	if pivotID != nil && fieldID != nil {
		return invalidInput("a rotation targets either a pivot or a field, not both")
	}

	rotation.PivotID, rotation.FieldID = nil, nil
	rotation.PivotName, rotation.FieldName = "", ""

	var sector *model.Sector
	if pivotID != nil {
		pivot, err := s.pivots.GetByID(ctx, principal.UserID, *pivotID)
		if err != nil {
			return parentMissing(err, "pivot")
		}
		id := pivot.ID
		rotation.PivotID = &id
		rotation.PivotName = pivot.LogicalName
		sector = pivot.Sector
	} else {
		field, err := s.fields.GetByID(ctx, principal.UserID, *fieldID)
		if err != nil {
			return parentMissing(err, "field")
		}
		id := field.ID
		rotation.FieldID = &id
		rotation.FieldName = field.LogicalName
		sector = field.Sector
	}

	rotation.SectorName, rotation.CompanyName = "", ""
	if sector != nil {
		rotation.SectorName = sector.Name
		if sector.Region != nil && sector.Region.Company != nil {
			rotation.CompanyName = sector.Region.Company.Name
		}
	}
	return nil
}
