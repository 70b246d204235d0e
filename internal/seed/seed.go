// Package seed fills an empty installation with a demo farm built from a
// GeoJSON file of sector outlines and pivot centers. Records go through the
// services, so areas, colors and crop rules are the same as for API writes.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/rs/zerolog"

	"farm-service/internal/crop"
	"farm-service/internal/geometry"
	"farm-service/internal/model"
	"farm-service/internal/repository"
	"farm-service/internal/service"
)

const (
	dateLayout = "2006-01-02"
	// boundsPadding widens the generated sector around its pivots, in degrees.
	boundsPadding = 0.005
)

var ErrNoPivots = errors.New("feature collection has no point features")

type Services struct {
	Users     *repository.UserRepository
	Auth      *service.AuthService
	Companies *service.CompanyService
	Regions   *service.RegionService
	Sectors   *service.SectorService
	Pivots    *service.PivotService
	Rotations *service.CropRotationService
}

type Options struct {
	Username string
	Password string
	Company  string
	Region   string
	// HistoryYears is how many past seasons of crop rotations each pivot gets.
	HistoryYears int
	Rand         *rand.Rand
	Now          time.Time
}

type Result struct {
	UserID    uint
	CompanyID uint
	RegionID  uint
	Sectors   int
	Pivots    int
	Rotations int
	Skipped   int
}

type Seeder struct {
	svc Services
	log zerolog.Logger
}

func New(svc Services, log zerolog.Logger) *Seeder {
	return &Seeder{svc: svc, log: log}
}

// ReadFeatureCollection decodes a GeoJSON FeatureCollection.
func ReadFeatureCollection(r io.Reader) (*geojson.FeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read geojson: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	return fc, nil
}

type sectorArea struct {
	sector  *model.Sector
	polygon orb.Polygon
}

// Run creates the user (or reuses an existing one with that name), one
// company and region, a sector per Polygon feature and a pivot per Point
// feature. A pivot goes to the sector named by its "sector" property, or
// else to the sector containing it; pivots matching neither are skipped.
// Without Polygon features a single sector around all pivots is created.
func (s *Seeder) Run(ctx context.Context, fc *geojson.FeatureCollection, opts Options) (*Result, error) {
	opts = withDefaults(opts)

	var points []*geojson.Feature
	var polygons []*geojson.Feature
	var centers orb.MultiPoint
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Point:
			points = append(points, f)
			centers = append(centers, g)
		case orb.Polygon:
			polygons = append(polygons, f)
		case nil:
			s.log.Warn().Msg("ignoring feature without geometry")
		default:
			s.log.Warn().Str("type", f.Geometry.GeoJSONType()).Msg("ignoring feature")
		}
	}
	if len(points) == 0 {
		return nil, ErrNoPivots
	}

	user, err := s.user(ctx, opts)
	if err != nil {
		return nil, err
	}
	principal := model.Principal{UserID: user.ID, Username: user.Username}
	result := &Result{UserID: user.ID}

	center := encodePoint(centers.Bound().Center())
	company, err := s.svc.Companies.Create(ctx, principal, service.CompanyInput{
		Name:   &opts.Company,
		Center: &center,
		Color:  ptr(randomColor(opts.Rand)),
	})
	if err != nil {
		return nil, fmt.Errorf("create company: %w", err)
	}
	result.CompanyID = company.ID

	region, err := s.svc.Regions.Create(ctx, principal, service.RegionInput{
		CompanyID: &company.ID,
		Name:      &opts.Region,
		Center:    &center,
		Color:     ptr(randomColor(opts.Rand)),
	})
	if err != nil {
		return nil, fmt.Errorf("create region: %w", err)
	}
	result.RegionID = region.ID

	if len(polygons) == 0 {
		box := centers.Bound().Pad(boundsPadding).ToPolygon()
		polygons = append(polygons, geojson.NewFeature(box))
	}

	sectors := make([]sectorArea, 0, len(polygons))
	byName := make(map[string]int, len(polygons))
	for i, f := range polygons {
		poly := f.Geometry.(orb.Polygon)
		name := f.Properties.MustString("name", fmt.Sprintf("Sector %d", i+1))
		shape, err := geometry.Encode(geometry.NewPolygon(ringOf(poly)))
		if err != nil {
			return nil, fmt.Errorf("sector %s: %w", name, err)
		}
		sector, err := s.svc.Sectors.Create(ctx, principal, service.SectorInput{
			RegionID:              &region.ID,
			Name:                  &name,
			Shape:                 &shape,
			TotalWaterRequirement: ptr(f.Properties.MustFloat64("total_water_requirement", 0)),
			Color:                 ptr(randomColor(opts.Rand)),
		})
		if err != nil {
			return nil, fmt.Errorf("create sector %s: %w", name, err)
		}
		byName[strings.ToLower(name)] = len(sectors)
		sectors = append(sectors, sectorArea{sector: sector, polygon: poly})
	}
	result.Sectors = len(sectors)

	for _, f := range points {
		pt := f.Geometry.(orb.Point)
		target := -1
		if name := f.Properties.MustString("sector", ""); name != "" {
			if i, ok := byName[strings.ToLower(name)]; ok {
				target = i
			}
		}
		if target < 0 {
			for i, sa := range sectors {
				if planar.PolygonContains(sa.polygon, pt) {
					target = i
					break
				}
			}
		}
		if target < 0 {
			s.log.Warn().Float64("lng", pt.Lon()).Float64("lat", pt.Lat()).Msg("pivot outside every sector, skipped")
			result.Skipped++
			continue
		}

		pivot, err := s.pivot(ctx, principal, sectors[target].sector, f, result.Pivots+1, opts)
		if err != nil {
			return nil, err
		}
		result.Pivots++

		n, err := s.history(ctx, principal, pivot, opts)
		if err != nil {
			return nil, err
		}
		result.Rotations += n
	}

	s.log.Info().
		Uint("company_id", result.CompanyID).
		Int("sectors", result.Sectors).
		Int("pivots", result.Pivots).
		Int("rotations", result.Rotations).
		Int("skipped", result.Skipped).
		Msg("demo data seeded")
	return result, nil
}

func (s *Seeder) user(ctx context.Context, opts Options) (*model.User, error) {
	user, err := s.svc.Auth.Register(ctx, opts.Username, opts.Password)
	if errors.Is(err, service.ErrConflict) {
		s.log.Info().Str("username", opts.Username).Msg("reusing existing user")
		return s.svc.Users.GetByUsername(ctx, opts.Username)
	}
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", opts.Username, err)
	}
	return user, nil
}

func (s *Seeder) pivot(ctx context.Context, principal model.Principal, sector *model.Sector, f *geojson.Feature, n int, opts Options) (*model.Pivot, error) {
	r := opts.Rand
	name := f.Properties.MustString("name", fmt.Sprintf("P%02d", n))
	center := encodePoint(f.Geometry.(orb.Point))
	radius := f.Properties.MustFloat64("radius_m", model.DefaultPivotRadiusM)

	choices := crop.Choices()[1:]
	first := choices[r.Intn(len(choices))]
	plan := service.CropPlanInput{
		SeedingDate: ptr(randomDate(r, opts.Now.AddDate(-2, 0, 0), opts.Now)),
		HarvestDate: ptr(randomDate(r, opts.Now, opts.Now.AddDate(0, 6, 0))),
	}
	plan.Crops[0] = &first
	if r.Intn(2) == 1 {
		second := choices[r.Intn(len(choices))]
		if second != first {
			plan.Crops[1] = &second
		}
	}

	pivot, err := s.svc.Pivots.Create(ctx, principal, service.PivotInput{
		SectorID:      &sector.ID,
		LogicalName:   &name,
		Center:        &center,
		RadiusM:       &radius,
		Color:         ptr(randomColor(r)),
		CropPlanInput: plan,
	})
	if err != nil {
		return nil, fmt.Errorf("create pivot %s: %w", name, err)
	}
	return pivot, nil
}

// history adds one rotation per past season, most recent first.
func (s *Seeder) history(ctx context.Context, principal model.Principal, pivot *model.Pivot, opts Options) (int, error) {
	r := opts.Rand
	choices := crop.Choices()[1:]
	for i := 0; i < opts.HistoryYears; i++ {
		year := opts.Now.Year() - 1 - i
		_, err := s.svc.Rotations.Create(ctx, principal, service.CropRotationInput{
			PivotID: &pivot.ID,
			Year:    &year,
			Crop:    ptr(choices[r.Intn(len(choices))]),
			SeedingDate: ptr(randomDate(r,
				time.Date(year, time.February, 1, 0, 0, 0, 0, time.UTC),
				time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC))),
			HarvestDate: ptr(randomDate(r,
				time.Date(year, time.August, 1, 0, 0, 0, 0, time.UTC),
				time.Date(year, time.November, 1, 0, 0, 0, 0, time.UTC))),
			YieldTons: ptr(float64(500+r.Intn(1001)) / 100),
			Notes:     ptr(fmt.Sprintf("%d season, seeded demo data", year)),
		})
		if err != nil {
			return i, fmt.Errorf("create rotation %s/%d: %w", pivot.LogicalName, year, err)
		}
	}
	return opts.HistoryYears, nil
}

func withDefaults(opts Options) Options {
	if opts.Company == "" {
		opts.Company = "Demo Agro"
	}
	if opts.Region == "" {
		opts.Region = "Demo Region"
	}
	if opts.HistoryYears < 0 {
		opts.HistoryYears = 0
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(opts.Now.UnixNano()))
	}
	return opts
}

func ringOf(poly orb.Polygon) []geometry.LatLng {
	if len(poly) == 0 {
		return nil
	}
	ring := make([]geometry.LatLng, len(poly[0]))
	for i, p := range poly[0] {
		ring[i] = geometry.LatLng{Lat: p.Lat(), Lng: p.Lon()}
	}
	return ring
}

func encodePoint(p orb.Point) string {
	text, _ := geometry.Encode(geometry.NewPoint(geometry.LatLng{Lat: p.Lat(), Lng: p.Lon()}))
	return text
}

func randomColor(r *rand.Rand) string {
	return fmt.Sprintf("#%06X", r.Intn(0x1000000))
}

// randomDate picks a day in [from, to].
func randomDate(r *rand.Rand, from, to time.Time) string {
	days := int(to.Sub(from).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return from.AddDate(0, 0, r.Intn(days+1)).Format(dateLayout)
}

func ptr[T any](v T) *T {
	return &v
}
