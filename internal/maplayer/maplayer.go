package maplayer

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"farm-service/internal/geometry"
	"farm-service/internal/model"
)

type Kind string

const (
	KindMarker  Kind = "marker"
	KindCircle  Kind = "circle"
	KindPolygon Kind = "polygon"
)

// Layer is one shape drawn on a list view's map.
type Layer struct {
	ID       uint
	Kind     Kind
	Name     string
	Group    string
	Color    string
	Geometry geometry.Geometry
	RadiusM  float64
}

// Tooltip mirrors the hover label of the list map.
func (l Layer) Tooltip() string {
	if l.Group == "" {
		return l.Name
	}
	return fmt.Sprintf("%s (%s)", l.Name, l.Group)
}

func pointLayer(id uint, kind Kind, name, group, color string, text *string, radius float64) (Layer, bool) {
	if text == nil {
		return Layer{}, false
	}
	g, ok := geometry.Parse(*text)
	if !ok || g.Kind != geometry.KindPoint {
		return Layer{}, false
	}
	return Layer{ID: id, Kind: kind, Name: name, Group: group, Color: color, Geometry: g, RadiusM: radius}, true
}

func polygonLayer(id uint, name, group, color string, text *string) (Layer, bool) {
	if text == nil {
		return Layer{}, false
	}
	g, ok := geometry.Parse(*text)
	if !ok || g.Kind != geometry.KindPolygon || geometry.Validate(g) != nil {
		return Layer{}, false
	}
	return Layer{ID: id, Kind: KindPolygon, Name: name, Group: group, Color: color, Geometry: g}, true
}

func Companies(items []model.Company) []Layer {
	var out []Layer
	for _, c := range items {
		if l, ok := pointLayer(c.ID, KindMarker, c.Name, c.OwnerName, c.Color, c.Center, 0); ok {
			out = append(out, l)
		}
	}
	return out
}

func Regions(items []model.Region) []Layer {
	var out []Layer
	for _, r := range items {
		if l, ok := pointLayer(r.ID, KindMarker, r.Name, r.CompanyName, r.Color, r.Center, 0); ok {
			out = append(out, l)
		}
	}
	return out
}

func Sectors(items []model.Sector) []Layer {
	var out []Layer
	for _, s := range items {
		if l, ok := polygonLayer(s.ID, s.Name, s.RegionName, s.Color, s.Shape); ok {
			out = append(out, l)
		}
	}
	return out
}

func Pivots(items []model.Pivot) []Layer {
	var out []Layer
	for _, p := range items {
		if l, ok := pointLayer(p.ID, KindCircle, p.LogicalName, p.SectorName, p.Color, p.Center, p.RadiusM); ok {
			out = append(out, l)
		}
	}
	return out
}

func Fields(items []model.Field) []Layer {
	var out []Layer
	for _, f := range items {
		if l, ok := polygonLayer(f.ID, f.LogicalName, f.SectorName, f.Color, f.Shape); ok {
			out = append(out, l)
		}
	}
	return out
}

// FeatureCollection renders layers as GeoJSON. Circles become points with a
// radius_m property.
func FeatureCollection(layers []Layer) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, l := range layers {
		f := geojson.NewFeature(toOrb(l.Geometry))
		f.ID = l.ID
		f.Properties["id"] = l.ID
		f.Properties["name"] = l.Name
		f.Properties["kind"] = string(l.Kind)
		f.Properties["tooltip"] = l.Tooltip()
		if l.Color != "" {
			f.Properties["color"] = l.Color
		}
		if l.Kind == KindCircle {
			f.Properties["radius_m"] = l.RadiusM
		}
		fc.Append(f)
	}
	return fc
}

func toOrb(g geometry.Geometry) orb.Geometry {
	if g.Kind == geometry.KindPoint {
		p := g.Coords[0]
		return orb.Point{p.Lng, p.Lat}
	}
	ring := make(orb.Ring, 0, len(g.Coords)+1)
	for _, p := range g.Coords {
		ring = append(ring, orb.Point{p.Lng, p.Lat})
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}
