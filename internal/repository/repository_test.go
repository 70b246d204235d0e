package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/matryer/is"
	"gorm.io/gorm"

	"farm-service/internal/model"
	"farm-service/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func TestOwnerScoping(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := testutil.SetupTestDB(t)

	alice := testutil.SeedHierarchy(t, db, "alice")
	bob := testutil.SeedHierarchy(t, db, "bob")

	sectors := NewSectorRepository(db)

	got, err := sectors.GetByID(ctx, alice.User.ID, alice.Sector.ID)
	is.NoErr(err)
	is.Equal(got.RegionName, "alice Region")

	_, err = sectors.GetByID(ctx, alice.User.ID, bob.Sector.ID)
	is.True(errors.Is(err, gorm.ErrRecordNotFound))

	list, err := sectors.List(ctx, bob.User.ID, SectorListFilter{})
	is.NoErr(err)
	is.Equal(len(list), 1)
	is.Equal(list[0].ID, bob.Sector.ID)

	companies, err := NewCompanyRepository(db).List(ctx, alice.User.ID)
	is.NoErr(err)
	is.Equal(len(companies), 1)
	is.Equal(companies[0].OwnerName, "alice")
}

func TestPivotLineageAndStats(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := testutil.SetupTestDB(t)

	h := testutil.SeedHierarchy(t, db, "carol")
	pivots := NewPivotRepository(db)

	is.NoErr(pivots.Create(ctx, &model.Pivot{SectorID: h.Sector.ID, LogicalName: "P01", Area: 78.5, RadiusM: 500}))
	is.NoErr(pivots.Create(ctx, &model.Pivot{SectorID: h.Sector.ID, LogicalName: "P02", Area: 3.25, RadiusM: 100}))

	list, err := pivots.List(ctx, h.User.ID, PivotListFilter{SectorID: &h.Sector.ID})
	is.NoErr(err)
	is.Equal(len(list), 2)
	is.Equal(list[0].SectorName, "carol Sector")

	p, err := pivots.GetByID(ctx, h.User.ID, list[0].ID)
	is.NoErr(err)
	is.Equal(p.Sector.Region.Company.Name, "carol Agro")

	stats, err := NewSectorRepository(db).PivotStats(ctx, []uint{h.Sector.ID, h.Sector.ID + 100})
	is.NoErr(err)
	is.Equal(stats[h.Sector.ID].Count, int64(2))
	is.Equal(stats[h.Sector.ID].TotalArea, 81.75)
	_, ok := stats[h.Sector.ID+100]
	is.True(!ok)
}

func TestCropRotationScopingAndUniqueness(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := testutil.SetupTestDB(t)

	dave := testutil.SeedHierarchy(t, db, "dave")
	erin := testutil.SeedHierarchy(t, db, "erin")

	field := &model.Field{SectorID: dave.Sector.ID, LogicalName: "F1"}
	is.NoErr(NewFieldRepository(db).Create(ctx, field))

	rotations := NewCropRotationRepository(db)
	rotation := &model.CropRotation{FieldID: &field.ID, FieldName: "F1", Year: 2024, Crop: "corn"}
	is.NoErr(rotations.Create(ctx, rotation))

	list, err := rotations.List(ctx, dave.User.ID, CropRotationListFilter{Year: ptr(2024)})
	is.NoErr(err)
	is.Equal(len(list), 1)

	list, err = rotations.List(ctx, erin.User.ID, CropRotationListFilter{})
	is.NoErr(err)
	is.Equal(len(list), 0)

	_, err = rotations.GetByID(ctx, erin.User.ID, rotation.ID)
	is.True(errors.Is(err, gorm.ErrRecordNotFound))

	taken, err := rotations.ExistsForTargetYear(ctx, nil, &field.ID, 2024, 0)
	is.NoErr(err)
	is.True(taken)

	taken, err = rotations.ExistsForTargetYear(ctx, nil, &field.ID, 2024, rotation.ID)
	is.NoErr(err)
	is.True(!taken)
}

func TestCompanyNameTaken(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := testutil.SetupTestDB(t)

	h := testutil.SeedHierarchy(t, db, "frank")
	companies := NewCompanyRepository(db)

	taken, err := companies.NameTaken(ctx, "FRANK agro", 0)
	is.NoErr(err)
	is.True(taken)

	taken, err = companies.NameTaken(ctx, "frank Agro", h.Company.ID)
	is.NoErr(err)
	is.True(!taken)
}
