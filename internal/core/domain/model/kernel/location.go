package kernel

import (
	"errors"
	"fmt"
	"math"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	LongitudeMin = -180.0
	LongitudeMax = 180.0
	LatitudeMin  = -90.0
	LatitudeMax  = 90.0

	earthRadiusKm = 6371.0
)

// ErrLocationIsNotConstructed is returned when a zero Location is used.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation")

// Location is an immutable geographic point in WGS84 degrees. Coordinates are
// always passed as (longitude, latitude), the order used by GeoJSON and by the
// courier clients that report positions.
//
// Example:
//
//	loc, err := kernel.NewLocation(79.86, 6.91)
//	if err != nil {
//	    // out of range
//	}
//	fmt.Println(loc) // Location(79.860000,6.910000)
type Location struct { //nolint:recvcheck //using for validation
	longitude float64
	latitude  float64
	guard     guard.ConstructorGuard
}

// NewLocation validates both coordinates and returns the point.
// Both range errors are reported together.
func NewLocation(longitude, latitude float64) (Location, error) {
	loc := Location{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(loc.setLongitude(longitude), loc.setLatitude(latitude)); err != nil {
		return Location{}, err
	}

	return loc, nil
}

// MustNewLocation panics on invalid input. Intended for tests and constants.
func MustNewLocation(longitude, latitude float64) Location {
	loc, err := NewLocation(longitude, latitude)
	if err != nil {
		panic(err)
	}
	return loc
}

func (l Location) Longitude() float64 {
	return l.longitude
}

func (l Location) Latitude() float64 {
	return l.latitude
}

func (l Location) IsEqual(other Location) bool {
	return l.longitude == other.longitude && l.latitude == other.latitude
}

// Validate reports whether the location was created through NewLocation.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

func (l Location) String() string {
	return fmt.Sprintf("Location(%f,%f)", l.longitude, l.latitude)
}

// Distance returns the great-circle distance to target in kilometres
// (haversine formula).
func (l Location) Distance(target Location) (float64, error) {
	if err := errors.Join(l.Validate(), target.Validate()); err != nil {
		return 0, err
	}

	lat1 := degreesToRadians(l.latitude)
	lat2 := degreesToRadians(target.latitude)
	dLat := lat2 - lat1
	dLng := degreesToRadians(target.longitude - l.longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c, nil
}

// Interpolate returns the point at fraction of the straight segment from l to
// target. Fraction is clamped to [0, 1]; 1 returns target exactly.
func (l Location) Interpolate(target Location, fraction float64) (Location, error) {
	if err := errors.Join(l.Validate(), target.Validate()); err != nil {
		return Location{}, err
	}

	switch {
	case fraction <= 0:
		return l, nil
	case fraction >= 1:
		return target, nil
	}

	return NewLocation(
		l.longitude+(target.longitude-l.longitude)*fraction,
		l.latitude+(target.latitude-l.latitude)*fraction,
	)
}

func (l *Location) setLongitude(longitude float64) error {
	if math.IsNaN(longitude) || longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}
	l.longitude = longitude
	return nil
}

func (l *Location) setLatitude(latitude float64) error {
	if math.IsNaN(latitude) || latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}
	l.latitude = latitude
	return nil
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}
