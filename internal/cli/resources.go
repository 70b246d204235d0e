package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"farm-service/internal/crop"
	"farm-service/internal/maplayer"
	"farm-service/internal/model"
)

type resource string

const (
	resCompanies     resource = "companies"
	resRegions       resource = "regions"
	resSectors       resource = "sectors"
	resPivots        resource = "pivots"
	resFields        resource = "fields"
	resCropRotations resource = "crop-rotations"
)

var resources = []resource{resCompanies, resRegions, resSectors, resPivots, resFields, resCropRotations}

func parseResource(s string) (resource, error) {
	for _, r := range resources {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown resource %q, want one of %s", s, strings.Join(resourceNames(), ", "))
}

func resourceNames() []string {
	names := make([]string, len(resources))
	for i, r := range resources {
		names[i] = string(r)
	}
	return names
}

// row is one line of a list view.
type row struct {
	ID      uint
	Name    string
	Group   string
	Columns []string
}

type table struct {
	header []string
	rows   []row
	layers []maplayer.Layer
}

func (a *app) table(ctx context.Context, res resource) (table, error) {
	switch res {
	case resCompanies:
		items, err := a.api.Companies().List(ctx, nil)
		if err != nil {
			return table{}, err
		}
		t := table{header: []string{"CENTER", "COLOR"}, layers: maplayer.Companies(items)}
		for _, c := range items {
			t.rows = append(t.rows, row{c.ID, c.Name, c.OwnerName, []string{text(c.Center), c.Color}})
		}
		return t, nil

	case resRegions:
		items, err := a.api.Regions().List(ctx, nil)
		if err != nil {
			return table{}, err
		}
		t := table{header: []string{"CENTER", "COLOR"}, layers: maplayer.Regions(items)}
		for _, r := range items {
			t.rows = append(t.rows, row{r.ID, r.Name, r.CompanyName, []string{text(r.Center), r.Color}})
		}
		return t, nil

	case resSectors:
		items, err := a.api.Sectors().List(ctx, nil)
		if err != nil {
			return table{}, err
		}
		t := table{header: []string{"AREA_HA", "WATER", "PIVOTS", "PIVOT_AREA"}, layers: maplayer.Sectors(items)}
		for _, s := range items {
			area := ""
			if s.AreaHa != nil {
				area = number(*s.AreaHa)
			}
			t.rows = append(t.rows, row{s.ID, s.Name, s.RegionName, []string{
				area, number(s.TotalWaterRequirement), strconv.FormatInt(s.PivotCount, 10), number(s.TotalPivotArea),
			}})
		}
		return t, nil

	case resPivots:
		items, err := a.api.Pivots().List(ctx, nil)
		if err != nil {
			return table{}, err
		}
		t := table{header: []string{"AREA", "RADIUS_M", "CROPS"}, layers: maplayer.Pivots(items)}
		for _, p := range items {
			t.rows = append(t.rows, row{p.ID, p.LogicalName, p.SectorName, []string{
				number(p.Area), number(p.RadiusM), crops(p.Crops()),
			}})
		}
		return t, nil

	case resFields:
		items, err := a.api.Fields().List(ctx, nil)
		if err != nil {
			return table{}, err
		}
		t := table{header: []string{"AREA", "CROPS"}, layers: maplayer.Fields(items)}
		for _, f := range items {
			t.rows = append(t.rows, row{f.ID, f.LogicalName, f.SectorName, []string{number(f.Area), crops(f.Crops())}})
		}
		return t, nil

	case resCropRotations:
		items, err := a.api.CropRotations().List(ctx, nil)
		if err != nil {
			return table{}, err
		}
		t := table{header: []string{"YEAR", "CROP", "YIELD_T"}}
		for _, r := range items {
			yield := ""
			if r.YieldTons != nil {
				yield = number(*r.YieldTons)
			}
			t.rows = append(t.rows, row{r.ID, rotationTarget(r), r.SectorName, []string{strconv.Itoa(r.Year), r.Crop, yield}})
		}
		return t, nil
	}
	return table{}, fmt.Errorf("unknown resource %q", res)
}

func (a *app) get(ctx context.Context, res resource, id uint) (interface{}, error) {
	switch res {
	case resCompanies:
		return a.api.Companies().Get(ctx, id)
	case resRegions:
		return a.api.Regions().Get(ctx, id)
	case resSectors:
		return a.api.Sectors().Get(ctx, id)
	case resPivots:
		return a.api.Pivots().Get(ctx, id)
	case resFields:
		return a.api.Fields().Get(ctx, id)
	case resCropRotations:
		return a.api.CropRotations().Get(ctx, id)
	}
	return nil, fmt.Errorf("unknown resource %q", res)
}

func (a *app) remove(ctx context.Context, res resource, id uint) error {
	switch res {
	case resCompanies:
		return a.api.Companies().Delete(ctx, id)
	case resRegions:
		return a.api.Regions().Delete(ctx, id)
	case resSectors:
		return a.api.Sectors().Delete(ctx, id)
	case resPivots:
		return a.api.Pivots().Delete(ctx, id)
	case resFields:
		return a.api.Fields().Delete(ctx, id)
	case resCropRotations:
		return a.api.CropRotations().Delete(ctx, id)
	}
	return fmt.Errorf("unknown resource %q", res)
}

func rotationTarget(r model.CropRotation) string {
	if r.PivotID != nil {
		return r.PivotName
	}
	return r.FieldName
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func crops(slots [crop.SlotCount]string) string {
	var out []string
	for _, c := range slots {
		if !crop.IsEmpty(c) {
			out = append(out, c)
		}
	}
	return strings.Join(out, " > ")
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}

func layerIDs(layers []maplayer.Layer) map[uint]bool {
	ids := make(map[uint]bool, len(layers))
	for _, l := range layers {
		ids[l.ID] = true
	}
	return ids
}
