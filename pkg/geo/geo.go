// Package geo answers point-radius questions about vendor locations.
package geo

import (
	"context"
	"errors"
	"slices"

	"github.com/golang/geo/s2"
	"github.com/google/uuid"
)

// EarthRadiusKm is the IUGG mean Earth radius.
const EarthRadiusKm = 6371.0088

var ErrInvalidPoint = errors.New("coordinates out of range")

// Point is a WGS84 position in degrees.
type Point struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// NewPoint builds a point from (longitude, latitude) and checks the ranges.
func NewPoint(longitude, latitude float64) (Point, error) {
	p := Point{Longitude: longitude, Latitude: latitude}
	if !p.Valid() {
		return Point{}, ErrInvalidPoint
	}
	return p, nil
}

func (p Point) Valid() bool {
	return s2.LatLngFromDegrees(p.Latitude, p.Longitude).IsValid()
}

// DistanceKm is the great-circle distance between a and b.
func DistanceKm(a, b Point) float64 {
	angle := s2.LatLngFromDegrees(a.Latitude, a.Longitude).
		Distance(s2.LatLngFromDegrees(b.Latitude, b.Longitude))
	return angle.Radians() * EarthRadiusKm
}

// Located pairs a vendor with its profile location.
type Located struct {
	VendorID uuid.UUID
	Point    Point
}

// Hit is a vendor found inside a radius query.
type Hit struct {
	VendorID   uuid.UUID
	DistanceKm float64
}

// PointSource loads the locations of the given vendors. Vendors without a
// location are simply absent from the result.
type PointSource interface {
	VendorLocations(ctx context.Context, vendorIDs []uuid.UUID) ([]Located, error)
}

// PointLocator computes radius queries in process over a PointSource.
type PointLocator struct {
	source PointSource
}

func NewPointLocator(source PointSource) *PointLocator {
	return &PointLocator{source: source}
}

// Within returns the candidates lying within radiusKm of center, nearest
// first.
func (l *PointLocator) Within(ctx context.Context, center Point, radiusKm float64, vendorIDs []uuid.UUID) ([]Hit, error) {
	if len(vendorIDs) == 0 {
		return nil, nil
	}

	located, err := l.source.VendorLocations(ctx, vendorIDs)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(located))
	for _, loc := range located {
		if d := DistanceKm(center, loc.Point); d <= radiusKm {
			hits = append(hits, Hit{VendorID: loc.VendorID, DistanceKm: d})
		}
	}
	SortByDistance(hits)
	return hits, nil
}

// SortByDistance orders hits nearest first, keeping input order on ties.
func SortByDistance(hits []Hit) {
	slices.SortStableFunc(hits, func(a, b Hit) int {
		switch {
		case a.DistanceKm < b.DistanceKm:
			return -1
		case a.DistanceKm > b.DistanceKm:
			return 1
		}
		return 0
	})
}
