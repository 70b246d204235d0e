package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"farm-service/internal/auth"
	"farm-service/internal/crop"
	"farm-service/internal/model"
	"farm-service/internal/repository"
	"farm-service/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

type services struct {
	companies *CompanyService
	regions   *RegionService
	sectors   *SectorService
	pivots    *PivotService
	fields    *FieldService
	rotations *CropRotationService
}

func newServices(db *gorm.DB) services {
	companyRepo := repository.NewCompanyRepository(db)
	regionRepo := repository.NewRegionRepository(db)
	sectorRepo := repository.NewSectorRepository(db)
	pivotRepo := repository.NewPivotRepository(db)
	fieldRepo := repository.NewFieldRepository(db)

	return services{
		companies: NewCompanyService(companyRepo),
		regions:   NewRegionService(regionRepo, companyRepo),
		sectors:   NewSectorService(sectorRepo, regionRepo),
		pivots:    NewPivotService(pivotRepo, sectorRepo),
		fields:    NewFieldService(fieldRepo, sectorRepo),
		rotations: NewCropRotationService(repository.NewCropRotationRepository(db), pivotRepo, fieldRepo),
	}
}

func principalOf(h testutil.Hierarchy) model.Principal {
	return model.Principal{UserID: h.User.ID, Username: h.User.Username}
}

func TestPivotCreateDerivesArea(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := newServices(db)
	h := testutil.SeedHierarchy(t, db, "alice")

	pivot, err := svc.pivots.Create(ctx, principalOf(h), PivotInput{
		SectorID:    &h.Sector.ID,
		LogicalName: ptr("P01"),
		Center:      ptr("POINT (49.8 40.4)"),
		RadiusM:     ptr(500.0),
		CropPlanInput: CropPlanInput{
			Crops: [crop.SlotCount]*string{ptr("corn")},
		},
	})
	is.NoErr(err)
	is.Equal(*pivot.Center, "SRID=4326;POINT(49.8 40.4)")
	is.Equal(pivot.Area, 78.54)
	is.Equal(pivot.Crops(), [crop.SlotCount]string{"corn", crop.None, crop.None, crop.None})
	is.Equal(pivot.Color, "#FF0000")

	updated, err := svc.pivots.Update(ctx, principalOf(h), pivot.ID, PivotInput{RadiusM: ptr(1000.0)})
	is.NoErr(err)
	is.Equal(updated.Area, 314.16)
	is.Equal(updated.LogicalName, "P01")
}

func TestPivotDefaultsRadius(t *testing.T) {
	is := is.New(t)
	db := testutil.SetupTestDB(t)
	h := testutil.SeedHierarchy(t, db, "bob")

	pivot, err := newServices(db).pivots.Create(context.Background(), principalOf(h), PivotInput{
		SectorID: &h.Sector.ID,
		Center:   ptr("SRID=4326;POINT(1 2)"),
	})
	is.NoErr(err)
	is.Equal(pivot.RadiusM, model.DefaultPivotRadiusM)
	is.Equal(pivot.Area, 3.14)
}

func TestPivotRejectsInvalidInput(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newServices(db)
	h := testutil.SeedHierarchy(t, db, "carol")
	other := testutil.SeedHierarchy(t, db, "dave")

	tests := []struct {
		name  string
		input PivotInput
	}{
		{"missing sector", PivotInput{Center: ptr("POINT(1 2)")}},
		{"foreign sector", PivotInput{SectorID: &other.Sector.ID, Center: ptr("POINT(1 2)")}},
		{"garbage center", PivotInput{SectorID: &h.Sector.ID, Center: ptr("garbage")}},
		{"polygon center", PivotInput{SectorID: &h.Sector.ID, Center: ptr(testutil.SquareShape)}},
		{"projected center", PivotInput{SectorID: &h.Sector.ID, Center: ptr("SRID=3857;POINT(5543000 4926000)")}},
		{"center out of range", PivotInput{SectorID: &h.Sector.ID, Center: ptr("SRID=4326;POINT(500 -300)")}},
		{"multipoint center", PivotInput{SectorID: &h.Sector.ID, Center: ptr("MULTIPOINT(1 2)")}},
		{"zero radius", PivotInput{SectorID: &h.Sector.ID, Center: ptr("POINT(1 2)"), RadiusM: ptr(0.0)}},
		{"bad date", PivotInput{SectorID: &h.Sector.ID, Center: ptr("POINT(1 2)"), CropPlanInput: CropPlanInput{SeedingDate: ptr("04/01/2024")}}},
		{"harvest before seeding", PivotInput{SectorID: &h.Sector.ID, Center: ptr("POINT(1 2)"), CropPlanInput: CropPlanInput{
			SeedingDate: ptr("2024-05-01"), HarvestDate: ptr("2024-04-01"),
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			_, err := svc.pivots.Create(context.Background(), principalOf(h), tt.input)
			is.True(errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestCropGapIsReportedBySlot(t *testing.T) {
	is := is.New(t)
	db := testutil.SetupTestDB(t)
	h := testutil.SeedHierarchy(t, db, "erin")

	_, err := newServices(db).fields.Create(context.Background(), principalOf(h), FieldInput{
		SectorID: &h.Sector.ID,
		Shape:    ptr(testutil.SquareShape),
		CropPlanInput: CropPlanInput{
			Crops: [crop.SlotCount]*string{ptr("corn"), nil, ptr("wheat")},
		},
	})
	is.True(errors.Is(err, ErrInvalidInput))

	var slotErr *crop.SlotError
	is.True(errors.As(err, &slotErr))
	is.Equal(slotErr.Slot, 3)
}

func TestFieldAreaFromShape(t *testing.T) {
	is := is.New(t)
	db := testutil.SetupTestDB(t)
	h := testutil.SeedHierarchy(t, db, "frank")

	field, err := newServices(db).fields.Create(context.Background(), principalOf(h), FieldInput{
		SectorID:    &h.Sector.ID,
		LogicalName: ptr("F1"),
		Shape:       ptr("POLYGON((47.4 39.8, 47.41 39.8, 47.41 39.81, 47.4 39.81))"),
	})
	is.NoErr(err)
	is.Equal(*field.Shape, testutil.SquareShape)
	is.True(field.Area > 90 && field.Area < 100)
	is.Equal(field.SectorName, "frank Sector")
}

func TestSectorStats(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := newServices(db)
	h := testutil.SeedHierarchy(t, db, "grace")
	p := principalOf(h)

	for _, radius := range []float64{500, 1000} {
		_, err := svc.pivots.Create(ctx, p, PivotInput{SectorID: &h.Sector.ID, Center: ptr("POINT(47.4 39.8)"), RadiusM: ptr(radius)})
		is.NoErr(err)
	}

	sectors, err := svc.sectors.List(ctx, p, repository.SectorListFilter{})
	is.NoErr(err)
	is.Equal(len(sectors), 1)
	is.Equal(sectors[0].PivotCount, int64(2))
	is.True(sectors[0].TotalPivotArea > 392.69 && sectors[0].TotalPivotArea < 392.71)

	created, err := svc.sectors.Create(ctx, p, SectorInput{
		RegionID: &h.Region.ID,
		Name:     ptr("North"),
		Shape:    ptr(testutil.SquareShape),
	})
	is.NoErr(err)
	is.True(*created.AreaHa > 90)
	is.Equal(created.PivotCount, int64(0))

	_, err = svc.sectors.Create(ctx, p, SectorInput{RegionID: &h.Region.ID, Name: ptr("Flat"), Shape: ptr("POLYGON((0 0, 1 1, 0 0))")})
	is.True(errors.Is(err, ErrInvalidInput))
}

func TestCompanyNamesAreUnique(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := newServices(db)
	h := testutil.SeedHierarchy(t, db, "heidi")
	other := testutil.SeedHierarchy(t, db, "ivan")

	_, err := svc.companies.Create(ctx, principalOf(other), CompanyInput{Name: ptr("heidi Agro")})
	is.True(errors.Is(err, ErrConflict))

	c, err := svc.companies.Create(ctx, principalOf(h), CompanyInput{Name: ptr("Second"), Center: ptr("POINT(47 39)"), Color: ptr("#abc")})
	is.NoErr(err)
	is.Equal(c.Color, "#AABBCC")
	is.Equal(c.OwnerName, "heidi")

	_, err = svc.companies.Update(ctx, principalOf(h), c.ID, CompanyInput{Name: ptr("Second")})
	is.NoErr(err)

	_, err = svc.companies.Get(ctx, principalOf(other), c.ID)
	is.True(errors.Is(err, ErrNotFound))
}

func TestRegionParentMustBelongToCaller(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := newServices(db)
	h := testutil.SeedHierarchy(t, db, "judy")
	other := testutil.SeedHierarchy(t, db, "mallory")

	_, err := svc.regions.Create(ctx, principalOf(other), RegionInput{CompanyID: &h.Company.ID, Name: ptr("Stolen")})
	is.True(errors.Is(err, ErrInvalidInput))

	r, err := svc.regions.Create(ctx, principalOf(h), RegionInput{CompanyID: &h.Company.ID, Name: ptr("South")})
	is.NoErr(err)
	is.Equal(r.CompanyName, "judy Agro")
	is.Equal(r.Center, (*string)(nil))
}

func TestCropRotations(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	svc := newServices(db)
	h := testutil.SeedHierarchy(t, db, "niaj")
	p := principalOf(h)

	pivot, err := svc.pivots.Create(ctx, p, PivotInput{SectorID: &h.Sector.ID, LogicalName: ptr("P01"), Center: ptr("POINT(47.4 39.8)")})
	is.NoErr(err)

	rotation, err := svc.rotations.Create(ctx, p, CropRotationInput{PivotID: &pivot.ID, Year: ptr(2024), Crop: ptr("wheat")})
	is.NoErr(err)
	is.Equal(rotation.PivotName, "P01")
	is.Equal(rotation.SectorName, "niaj Sector")
	is.Equal(rotation.CompanyName, "niaj Agro")

	_, err = svc.rotations.Create(ctx, p, CropRotationInput{PivotID: &pivot.ID, Year: ptr(2024), Crop: ptr("corn")})
	is.True(errors.Is(err, ErrConflict))

	_, err = svc.rotations.Create(ctx, p, CropRotationInput{Year: ptr(2025), Crop: ptr("corn")})
	is.True(errors.Is(err, ErrInvalidInput))

	_, err = svc.rotations.Create(ctx, p, CropRotationInput{PivotID: &pivot.ID, Year: ptr(2025), Crop: ptr("none")})
	is.True(errors.Is(err, ErrInvalidInput))

	updated, err := svc.rotations.Update(ctx, p, rotation.ID, CropRotationInput{YieldTons: ptr(12.5), Notes: ptr("good year")})
	is.NoErr(err)
	is.Equal(*updated.YieldTons, 12.5)
	is.Equal(updated.Year, 2024)
}

func TestAuthFlow(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	db := testutil.SetupTestDB(t)

	issuer := auth.NewIssuer("access", "refresh", time.Minute, time.Hour)
	svc := NewAuthService(repository.NewUserRepository(db), auth.NewPasswordHasher(bcrypt.MinCost), issuer, zerolog.Nop())

	user, err := svc.Register(ctx, "farmer", "long enough")
	is.NoErr(err)
	is.True(user.ID != 0)

	_, err = svc.Register(ctx, "farmer", "long enough")
	is.True(errors.Is(err, ErrConflict))

	_, err = svc.Register(ctx, "other", "short")
	is.True(errors.Is(err, ErrInvalidInput))

	_, err = svc.Login(ctx, "farmer", "wrong password")
	is.True(errors.Is(err, ErrUnauthorized))

	_, err = svc.Login(ctx, "nobody", "long enough")
	is.True(errors.Is(err, ErrUnauthorized))

	pair, err := svc.Login(ctx, "farmer", "long enough")
	is.NoErr(err)

	access, err := svc.Refresh(pair.Refresh)
	is.NoErr(err)
	claims, err := auth.NewParser("access").Parse(access)
	is.NoErr(err)
	is.Equal(claims.UserID, user.ID)

	_, err = svc.Refresh("garbage")
	is.True(errors.Is(err, ErrUnauthorized))
}
