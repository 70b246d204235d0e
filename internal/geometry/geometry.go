package geometry

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// DefaultSRID is the spatial reference every encoded shape carries (WGS84).
const DefaultSRID = 4326

type Kind string

const (
	KindPoint   Kind = "POINT"
	KindPolygon Kind = "POLYGON"
)

var (
	ErrInvalidPoint    = errors.New("point requires exactly one coordinate pair")
	ErrTooFewVertices  = errors.New("polygon requires at least 3 distinct vertices")
	ErrUnknownKind     = errors.New("unknown geometry kind")
	ErrUnparsableShape = errors.New("unrecognized shape text")
	ErrOutOfRange      = errors.New("coordinate out of range")
	ErrUnsupportedSRID = errors.New("unsupported spatial reference")
)

// LatLng is a coordinate in map order. Stored text is always lng/lat.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geometry is the in-memory shape handed to and received from the map.
// Polygon rings are kept open: the closing vertex is implied.
type Geometry struct {
	Kind   Kind
	SRID   int
	Coords []LatLng
}

func NewPoint(p LatLng) Geometry {
	return Geometry{Kind: KindPoint, SRID: DefaultSRID, Coords: []LatLng{p}}
}

func NewPolygon(ring []LatLng) Geometry {
	return Geometry{Kind: KindPolygon, SRID: DefaultSRID, Coords: openRing(ring)}
}

func (g Geometry) IsEmpty() bool {
	return len(g.Coords) == 0
}

// Center returns the point of a POINT geometry.
func (g Geometry) Center() (LatLng, bool) {
	if g.Kind != KindPoint || len(g.Coords) != 1 {
		return LatLng{}, false
	}
	return g.Coords[0], true
}

const number = `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`

const (
	pointBody   = `(?i)POINT\s*\(\s*(` + number + `)\s+(` + number + `)\s*\)`
	polygonBody = `(?i)POLYGON\s*\(\s*\(([^()]*)\)`
)

var (
	sridPrefix     = regexp.MustCompile(`^\s*(?i:SRID)=(\d+);`)
	pointPattern   = regexp.MustCompile(pointBody)
	polygonPattern = regexp.MustCompile(polygonBody)

	// The strict forms must span the whole body, so MULTIPOINT or a
	// GEOMETRYCOLLECTION is not read as its first member.
	strictPoint   = regexp.MustCompile(`^\s*` + pointBody + `\s*$`)
	strictPolygon = regexp.MustCompile(`^\s*` + polygonBody + `\s*\)\s*$`)
)

// Parse reads the persisted text form. The second return is false when the
// text holds no recognizable POINT or POLYGON, which callers treat as "no
// shape drawn yet". The shape may sit anywhere in the text.
func Parse(text string) (Geometry, bool) {
	return parse(text, pointPattern, polygonPattern)
}

// ParseStrict is Parse for input that must be exactly one POINT or one
// single-ring POLYGON after the optional SRID prefix.
func ParseStrict(text string) (Geometry, bool) {
	return parse(text, strictPoint, strictPolygon)
}

func parse(text string, pointPattern, polygonPattern *regexp.Regexp) (Geometry, bool) {
	srid := DefaultSRID
	body := text
	if m := sridPrefix.FindStringSubmatch(body); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Geometry{}, false
		}
		srid = n
		body = body[len(m[0]):]
	}

	if m := polygonPattern.FindStringSubmatch(body); m != nil {
		ring, ok := parseRing(m[1])
		if !ok {
			return Geometry{}, false
		}
		return Geometry{Kind: KindPolygon, SRID: srid, Coords: openRing(ring)}, true
	}

	if m := pointPattern.FindStringSubmatch(body); m != nil {
		lng, errLng := strconv.ParseFloat(m[1], 64)
		lat, errLat := strconv.ParseFloat(m[2], 64)
		if errLng != nil || errLat != nil {
			return Geometry{}, false
		}
		return Geometry{Kind: KindPoint, SRID: srid, Coords: []LatLng{{Lat: lat, Lng: lng}}}, true
	}

	return Geometry{}, false
}

func parseRing(raw string) ([]LatLng, bool) {
	pairs := strings.Split(raw, ",")
	ring := make([]LatLng, 0, len(pairs))
	for _, pair := range pairs {
		parts := strings.Fields(pair)
		if len(parts) != 2 {
			return nil, false
		}
		lng, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, false
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, false
		}
		ring = append(ring, LatLng{Lat: lat, Lng: lng})
	}
	return ring, true
}

// Encode writes the canonical SRID=4326 text. Empty geometry encodes to "".
// Polygon rings are always written closed.
func Encode(g Geometry) (string, error) {
	if g.IsEmpty() {
		return "", nil
	}

	switch g.Kind {
	case KindPoint:
		if len(g.Coords) != 1 {
			return "", ErrInvalidPoint
		}
		p := g.Coords[0]
		return fmt.Sprintf("SRID=%d;POINT(%s)", DefaultSRID, pair(p)), nil
	case KindPolygon:
		ring := closeRing(g.Coords)
		parts := make([]string, len(ring))
		for i, p := range ring {
			parts[i] = pair(p)
		}
		return fmt.Sprintf("SRID=%d;POLYGON((%s))", DefaultSRID, strings.Join(parts, ", ")), nil
	default:
		return "", ErrUnknownKind
	}
}

// Validate reports whether g may be submitted. Coordinates must be valid
// WGS84 degrees.
func Validate(g Geometry) error {
	switch g.Kind {
	case KindPoint:
		if len(g.Coords) != 1 {
			return ErrInvalidPoint
		}
	case KindPolygon:
		if DistinctVertices(g.Coords) < 3 {
			return ErrTooFewVertices
		}
	default:
		return ErrUnknownKind
	}
	for _, p := range g.Coords {
		if !InRange(p) {
			return fmt.Errorf("%w: lat %v, lng %v", ErrOutOfRange, p.Lat, p.Lng)
		}
	}
	return nil
}

// InRange reports whether p is a finite latitude/longitude in degrees.
func InRange(p LatLng) bool {
	return math.Abs(p.Lat) <= 90 && math.Abs(p.Lng) <= 180
}

// Canonical parses, validates and re-encodes text, expecting the given kind.
// Only EPSG:4326 input is accepted since nothing reprojects coordinates.
func Canonical(text string, kind Kind) (string, error) {
	g, ok := ParseStrict(text)
	if !ok {
		return "", ErrUnparsableShape
	}
	if g.Kind != kind {
		return "", fmt.Errorf("expected %s, got %s: %w", kind, g.Kind, ErrUnknownKind)
	}
	if g.SRID != DefaultSRID {
		return "", fmt.Errorf("%w: SRID %d, want %d", ErrUnsupportedSRID, g.SRID, DefaultSRID)
	}
	if err := Validate(g); err != nil {
		return "", err
	}
	return Encode(g)
}

// DistinctVertices counts unique coordinates in a ring.
func DistinctVertices(ring []LatLng) int {
	seen := make(map[LatLng]struct{}, len(ring))
	for _, p := range ring {
		seen[p] = struct{}{}
	}
	return len(seen)
}

func pair(p LatLng) string {
	return strconv.FormatFloat(p.Lng, 'f', -1, 64) + " " + strconv.FormatFloat(p.Lat, 'f', -1, 64)
}

func openRing(ring []LatLng) []LatLng {
	out := append([]LatLng(nil), ring...)
	if len(out) > 1 && out[0] == out[len(out)-1] {
		out = out[:len(out)-1]
	}
	return out
}

func closeRing(ring []LatLng) []LatLng {
	out := append([]LatLng(nil), ring...)
	if len(out) > 0 && out[0] != out[len(out)-1] {
		out = append(out, out[0])
	}
	return out
}
