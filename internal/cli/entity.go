package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"farm-service/internal/client"
	"farm-service/internal/crop"
	"farm-service/internal/form"
	"farm-service/internal/geometry"
	"farm-service/internal/model"
)

var formEntities = []form.Entity{
	form.EntityCompany,
	form.EntityRegion,
	form.EntitySector,
	form.EntityPivot,
	form.EntityField,
}

type formFlags struct {
	name     string
	color    string
	parent   uint
	lat      float64
	lng      float64
	radius   float64
	vertices []string
	water    float64
	crops    []string
	seeding  string
	harvest  string
}

func (a *app) entityCommand(e form.Entity) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(e),
		Short: fmt.Sprintf("Create or edit a %s", e),
	}
	cmd.AddCommand(a.formCommand(e, false), a.formCommand(e, true))
	return cmd
}

func (a *app) formCommand(e form.Entity, edit bool) *cobra.Command {
	var f formFlags

	cmd := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Add a %s", e),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctl, err := form.New(e)
			if err != nil {
				return err
			}

			var id uint
			if edit {
				if id, err = parseID(args[0]); err != nil {
					return err
				}
				err = a.loadForEdit(ctx, ctl, e, id)
			} else {
				err = a.loadLookup(ctx, ctl, e)
			}
			if err != nil {
				return err
			}

			if err := applyFlags(cmd, ctl, e, f, edit); err != nil {
				return err
			}

			var saved interface{}
			if err := ctl.Submit(ctx, func(ctx context.Context, p form.Payload) error {
				saved, err = a.save(ctx, e, id, p)
				return err
			}); err != nil {
				return err
			}
			return a.printJSON(saved)
		},
	}
	if edit {
		cmd.Use = "edit <id>"
		cmd.Short = fmt.Sprintf("Change an existing %s", e)
		cmd.Args = cobra.ExactArgs(1)
	}

	flags := cmd.Flags()
	flags.StringVar(&f.name, "name", "", "display name")
	flags.StringVar(&f.color, "color", "", "map color as #RRGGBB")
	if parent, ok := e.Parent(); ok {
		flags.UintVar(&f.parent, string(parent), 0, fmt.Sprintf("id of the parent %s", parent))
	}
	switch e.ShapeKind() {
	case geometry.KindPoint:
		flags.Float64Var(&f.lat, "lat", 0, "latitude of the center")
		flags.Float64Var(&f.lng, "lng", 0, "longitude of the center")
		if e.IsCircle() {
			flags.Float64Var(&f.radius, "radius", model.DefaultPivotRadiusM, "radius in meters")
		}
	case geometry.KindPolygon:
		flags.StringArrayVar(&f.vertices, "vertex", nil, "polygon vertex as lat,lng; repeat in drawing order")
	}
	if e == form.EntitySector {
		flags.Float64Var(&f.water, "water", 0, "total water requirement")
	}
	if e.HasCrops() {
		flags.StringSliceVar(&f.crops, "crop", nil, fmt.Sprintf("crops in slot order, up to %d (%s)", crop.SlotCount, strings.Join(crop.Choices(), ", ")))
		flags.StringVar(&f.seeding, "seeding", "", "seeding date YYYY-MM-DD")
		flags.StringVar(&f.harvest, "harvest", "", "harvest date YYYY-MM-DD")
	}
	return cmd
}

// applyFlags feeds the command line into the form. When editing, only flags
// that were given change the loaded values.
func applyFlags(cmd *cobra.Command, ctl *form.Controller, e form.Entity, f formFlags, edit bool) error {
	set := func(name string) bool {
		return !edit || cmd.Flags().Changed(name)
	}

	if set("name") {
		ctl.SetName(f.name)
	}
	if cmd.Flags().Changed("color") {
		ctl.SetColor(f.color)
	}
	if parent, ok := e.Parent(); ok && cmd.Flags().Changed(string(parent)) {
		ctl.Select(f.parent)
	}

	if err := applyShape(cmd, ctl, e, f); err != nil {
		return err
	}

	if e == form.EntitySector && set("water") {
		ctl.SetWaterRequirement(f.water)
	}

	if e.HasCrops() {
		if cmd.Flags().Changed("crop") {
			if len(f.crops) > crop.SlotCount {
				return fmt.Errorf("at most %d crops", crop.SlotCount)
			}
			for slot := 1; slot <= crop.SlotCount; slot++ {
				value := crop.None
				if slot <= len(f.crops) {
					value = strings.TrimSpace(f.crops[slot-1])
				}
				if err := ctl.SetCrop(slot, value); err != nil {
					return err
				}
			}
		}
		seeding, harvest := ctl.Dates()
		if cmd.Flags().Changed("seeding") {
			seeding = f.seeding
		}
		if cmd.Flags().Changed("harvest") {
			harvest = f.harvest
		}
		ctl.SetDates(seeding, harvest)
	}
	return nil
}

func applyShape(cmd *cobra.Command, ctl *form.Controller, e form.Entity, f formFlags) error {
	changed := cmd.Flags().Changed
	draw := func(s form.Shape) error {
		if err := ctl.BeginDraw(); err != nil {
			return err
		}
		if ctl.Geometry().IsEmpty() {
			return ctl.ShapeCreated(s)
		}
		return ctl.ShapeEdited(s)
	}

	switch e.ShapeKind() {
	case geometry.KindPoint:
		if changed("lat") != changed("lng") {
			return fmt.Errorf("--lat and --lng must be given together")
		}
		if changed("lat") {
			radius := ctl.RadiusM()
			if e.IsCircle() && (changed("radius") || radius == 0) {
				radius = f.radius
			}
			return draw(form.Shape{
				LayerID: "cli",
				Kind:    geometry.KindPoint,
				Points:  []geometry.LatLng{{Lat: f.lat, Lng: f.lng}},
				RadiusM: radius,
			})
		}
		if e.IsCircle() && changed("radius") {
			return ctl.SetRadius(f.radius)
		}

	case geometry.KindPolygon:
		if !changed("vertex") {
			return nil
		}
		ring := make([]geometry.LatLng, 0, len(f.vertices))
		for _, v := range f.vertices {
			p, err := parseVertex(v)
			if err != nil {
				return err
			}
			ring = append(ring, p)
		}
		return draw(form.Shape{LayerID: "cli", Kind: geometry.KindPolygon, Points: ring})
	}
	return nil
}

func parseVertex(s string) (geometry.LatLng, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geometry.LatLng{}, fmt.Errorf("vertex %q: want lat,lng", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geometry.LatLng{}, fmt.Errorf("vertex %q: %w", s, err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geometry.LatLng{}, fmt.Errorf("vertex %q: %w", s, err)
	}
	return geometry.LatLng{Lat: lat, Lng: lng}, nil
}

// loadForEdit fetches the record and the parent lookup at the same time.
// The form accepts them in whichever order they arrive.
func (a *app) loadForEdit(ctx context.Context, ctl *form.Controller, e form.Entity, id uint) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		initial, err := a.initial(ctx, e, id)
		if err != nil {
			return err
		}
		ctl.Load(initial)
		return nil
	})
	g.Go(func() error {
		return a.loadLookup(ctx, ctl, e)
	})
	return g.Wait()
}

func (a *app) loadLookup(ctx context.Context, ctl *form.Controller, e form.Entity) error {
	parent, ok := e.Parent()
	if !ok {
		return nil
	}

	var options []form.LookupOption
	switch parent {
	case form.EntityCompany:
		items, err := a.api.Companies().List(ctx, nil)
		if err != nil {
			return err
		}
		for _, c := range items {
			options = append(options, form.LookupOption{ID: c.ID, Label: c.Name})
		}
	case form.EntityRegion:
		items, err := a.api.Regions().List(ctx, nil)
		if err != nil {
			return err
		}
		for _, r := range items {
			options = append(options, form.LookupOption{ID: r.ID, Label: r.Name})
		}
	case form.EntitySector:
		items, err := a.api.Sectors().List(ctx, nil)
		if err != nil {
			return err
		}
		for _, s := range items {
			options = append(options, form.LookupOption{ID: s.ID, Label: s.Name})
		}
	}

	ctl.SetLookup(options)
	return nil
}

func (a *app) initial(ctx context.Context, e form.Entity, id uint) (form.Initial, error) {
	switch e {
	case form.EntityCompany:
		c, err := a.api.Companies().Get(ctx, id)
		if err != nil {
			return form.Initial{}, err
		}
		return form.Initial{ID: c.ID, Name: c.Name, Color: c.Color, Center: text(c.Center)}, nil

	case form.EntityRegion:
		r, err := a.api.Regions().Get(ctx, id)
		if err != nil {
			return form.Initial{}, err
		}
		return form.Initial{ID: r.ID, Name: r.Name, Color: r.Color, Center: text(r.Center), ParentID: r.CompanyID}, nil

	case form.EntitySector:
		s, err := a.api.Sectors().Get(ctx, id)
		if err != nil {
			return form.Initial{}, err
		}
		in := form.Initial{
			ID:                    s.ID,
			Name:                  s.Name,
			Color:                 s.Color,
			Shape:                 text(s.Shape),
			ParentID:              s.RegionID,
			TotalWaterRequirement: s.TotalWaterRequirement,
		}
		if s.AreaHa != nil {
			in.Area = *s.AreaHa
		}
		return in, nil

	case form.EntityPivot:
		p, err := a.api.Pivots().Get(ctx, id)
		if err != nil {
			return form.Initial{}, err
		}
		return form.Initial{
			ID:          p.ID,
			Name:        p.LogicalName,
			Color:       p.Color,
			Center:      text(p.Center),
			RadiusM:     p.RadiusM,
			Area:        p.Area,
			ParentID:    p.SectorID,
			Crops:       p.Crops(),
			SeedingDate: text(p.SeedingDate),
			HarvestDate: text(p.HarvestDate),
		}, nil

	case form.EntityField:
		f, err := a.api.Fields().Get(ctx, id)
		if err != nil {
			return form.Initial{}, err
		}
		return form.Initial{
			ID:          f.ID,
			Name:        f.LogicalName,
			Color:       f.Color,
			Shape:       text(f.Shape),
			Area:        f.Area,
			ParentID:    f.SectorID,
			Crops:       f.Crops(),
			SeedingDate: text(f.SeedingDate),
			HarvestDate: text(f.HarvestDate),
		}, nil
	}
	return form.Initial{}, fmt.Errorf("%w: %s", form.ErrUnknownEntity, e)
}

func (a *app) save(ctx context.Context, e form.Entity, id uint, p form.Payload) (interface{}, error) {
	switch e {
	case form.EntityCompany:
		return save(ctx, a.api.Companies(), id, p)
	case form.EntityRegion:
		return save(ctx, a.api.Regions(), id, p)
	case form.EntitySector:
		return save(ctx, a.api.Sectors(), id, p)
	case form.EntityPivot:
		return save(ctx, a.api.Pivots(), id, p)
	case form.EntityField:
		return save(ctx, a.api.Fields(), id, p)
	}
	return nil, fmt.Errorf("%w: %s", form.ErrUnknownEntity, e)
}

// save creates when id is zero and updates otherwise.
func save[T any](ctx context.Context, r client.Resource[T], id uint, p form.Payload) (*T, error) {
	if id == 0 {
		return r.Create(ctx, p)
	}
	return r.Update(ctx, id, p)
}
