package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// EarthRadiusKm is the mean Earth radius which is used by the
// great-circle distance computations.
const EarthRadiusKm = 6371.0

// Coordinate represents a geographical location with a latitude and
// longitude, both in degrees.
type Coordinate struct {
	Lat float64 `json:"latitude"`
	Lon float64 `json:"longitude"`
}

// Validate ensures that latitude is in [-90, 90] and longitude is in
// [-180, 180] ranges.
func (c Coordinate) Validate() error {
	switch {
	case c.Lat < -90 || c.Lat > 90:
		return fmt.Errorf("latitude (%v) is not in [-90, 90]", c.Lat)
	case c.Lon < -180 || c.Lon > 180:
		return fmt.Errorf("longitude (%v) is not in [-180, 180]", c.Lon)
	}
	return nil
}

// DistanceKm computes the great-circle distance between c and d using
// the haversine formula.
func (c Coordinate) DistanceKm(d Coordinate) float64 {
	lat1 := c.Lat * math.Pi / 180
	lat2 := d.Lat * math.Pi / 180
	dLat := (d.Lat - c.Lat) * math.Pi / 180
	dLon := (d.Lon - c.Lon) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// PointRole specifies the role of a geo-point in its trip route.
type PointRole int

// Valid values for the PointRole enum.
const (
	PointRoleInvalid PointRole = iota // zero value is invalid

	PointRoleStart
	PointRoleEnd
	PointRoleIntermediate
)

// ErrUnknownPointRole indicates that a given string may not be parsed
// as a known geo-point role.
var ErrUnknownPointRole = errors.New("unknown point role")

// PointRoleError indicates an invalid numeric point role.
type PointRoleError int

// Error implements the error interface.
func (e PointRoleError) Error() string {
	return fmt.Sprintf("invalid point role: %d", e)
}

// String returns the upper-case name of the r role. It panics for
// invalid roles.
func (r PointRole) String() string {
	switch r {
	case PointRoleStart:
		return "START"
	case PointRoleEnd:
		return "END"
	case PointRoleIntermediate:
		return "INTERMEDIATE"
	default:
		panic(PointRoleError(r))
	}
}

// ParsePointRole parses the given string as a PointRole.
func ParsePointRole(s string) (PointRole, error) {
	switch s {
	case "START":
		return PointRoleStart, nil
	case "END":
		return PointRoleEnd, nil
	case "INTERMEDIATE":
		return PointRoleIntermediate, nil
	default:
		return PointRoleInvalid, ErrUnknownPointRole
	}
}

// MarshalText implements the encoding.TextMarshaler interface.
func (r PointRole) MarshalText() ([]byte, error) {
	switch r {
	case PointRoleStart, PointRoleEnd, PointRoleIntermediate:
		return []byte(r.String()), nil
	default:
		return nil, PointRoleError(r)
	}
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (r *PointRole) UnmarshalText(text []byte) (err error) {
	*r, err = ParsePointRole(string(text))
	return
}

// Waypoint is a driver-provided location which is not persisted yet.
type Waypoint struct {
	Coordinate
	Address string
}

// GeoPoint converts w to a GeoPoint having the given role.
func (w Waypoint) GeoPoint(role PointRole) GeoPoint {
	return GeoPoint{
		Coordinate: w.Coordinate,
		Address:    w.Address,
		Role:       role,
	}
}

// GeoPoint is a waypoint of a trip. It is owned by exactly one trip
// and is removed alongside it.
type GeoPoint struct {
	ID uuid.UUID `json:"id"`
	Coordinate
	Address string    `json:"address,omitempty"`
	Role    PointRole `json:"point_type"`
}
