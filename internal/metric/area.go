package metric

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"farm-service/internal/geometry"
)

const squareMetersPerHectare = 10000

// CircleArea returns the area in hectares of a circle with the given radius
// in meters, rounded to two decimals.
func CircleArea(radiusM float64) float64 {
	if radiusM <= 0 || math.IsNaN(radiusM) || math.IsInf(radiusM, 0) {
		return 0
	}
	return Round2(math.Pi * radiusM * radiusM / squareMetersPerHectare)
}

// PolygonArea returns the geodesic area in hectares enclosed by ring.
// Rings with fewer than three distinct vertices have no area.
func PolygonArea(ring []geometry.LatLng) float64 {
	if geometry.DistinctVertices(ring) < 3 {
		return 0
	}
	return Round2(math.Abs(geo.Area(toOrbPolygon(ring))) / squareMetersPerHectare)
}

// Area dispatches on the geometry kind; a point with a radius is a circle.
func Area(g geometry.Geometry, radiusM float64) float64 {
	switch g.Kind {
	case geometry.KindPoint:
		if g.IsEmpty() {
			return 0
		}
		return CircleArea(radiusM)
	case geometry.KindPolygon:
		return PolygonArea(g.Coords)
	default:
		return 0
	}
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toOrbPolygon(ring []geometry.LatLng) orb.Polygon {
	r := make(orb.Ring, 0, len(ring)+1)
	for _, p := range ring {
		r = append(r, orb.Point{p.Lng, p.Lat})
	}
	if !r.Closed() {
		r = append(r, r[0])
	}
	return orb.Polygon{r}
}
