package core

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/golang/geo/s2"
)

// Latitudes at or beyond this magnitude are not mapped; longitude is
// unstable that close to the poles.
const MaxMappedLatitude = 80.01

// Substituted for a zero z coordinate when computing longitude
const zeroZEpsilon = 1e-10

// ErrNotMapped is returned by PointToGeo for hits in the polar caps
var ErrNotMapped = errors.New("point is outside the mapped latitude band")

// GeoCoordinate is a latitude/longitude reading in degrees, rounded to two
// decimal places, as shown in the info panel.
type GeoCoordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Period is the half-day label of a LocalTime
type Period string

const (
	AM Period = "AM"
	PM Period = "PM"
)

// LocalTime is a clock reading derived from longitude
type LocalTime struct {
	Hour12 int    `json:"hour"`
	Minute int    `json:"minute"`
	Period Period `json:"period"`
}

func (t LocalTime) String() string {
	return fmt.Sprintf("%d:%02d %s", t.Hour12, t.Minute, t.Period)
}

// DegreesToRadians converts degrees to radians
func DegreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}

// RadiansToDegrees converts radians to degrees
func RadiansToDegrees(radians float64) float64 {
	return radians * 180.0 / math.Pi
}

// PointToGeo maps a hit point on a sphere of the given radius, centered at
// the origin, to the latitude/longitude shown in the info panel.
//
// Longitude is measured from +Z towards +X, so (0, 0, r) reads latitude 0, longitude 0.
// Returns ErrNotMapped when the unrounded latitude magnitude reaches
// MaxMappedLatitude.
func PointToGeo(hit Vector3, radius float64) (GeoCoordinate, error) {
	lat := 90 - RadiansToDegrees(math.Acos(clampUnit(-hit.Y/radius)))
	if math.Abs(lat) >= MaxMappedLatitude {
		return GeoCoordinate{}, fmt.Errorf("latitude %.2f: %w", -lat, ErrNotMapped)
	}

	// Both branches report -lat; they round on opposite sides of the sign.
	var displayLat float64
	if hit.Y >= 0 {
		displayLat = -round2(lat)
	} else {
		displayLat = round2(-lat)
	}

	return GeoCoordinate{Latitude: displayLat, Longitude: round2(HitLongitude(hit))}, nil
}

// HitLongitude is the unrounded longitude of a hit point in degrees. The
// local time is derived from this value, not the rounded reading, so the
// hour zone flips exactly on the 15 degree boundaries.
func HitLongitude(hit Vector3) float64 {
	z := hit.Z
	if z == 0 {
		z = zeroZEpsilon
	}
	var lon float64
	if hit.Z >= 0 {
		lon = RadiansToDegrees(math.Atan(hit.X / z))
	} else {
		lon = 180 + RadiansToDegrees(math.Atan(hit.X/z))
	}
	if lon > 180 {
		lon = -90 - (270 - lon)
	}
	return lon
}

// GeoToPoint places a point on the sphere at the given reading. It is the
// inverse of PointToGeo for latitudes inside the mapped band.
func GeoToPoint(g GeoCoordinate, radius float64) Vector3 {
	lat := DegreesToRadians(g.Latitude)
	lon := DegreesToRadians(g.Longitude)
	horizontal := radius * math.Cos(lat)

	return Vector3{
		X: horizontal * math.Sin(lon),
		Y: radius * math.Sin(lat),
		Z: horizontal * math.Cos(lon),
	}
}

// LongitudeToLocalTime approximates the local clock at a longitude using
// 15 degree wide hour zones counted from -180.
//
// The minute is taken from utcNow unchanged. Hours 12..23 are labelled AM
// and 0..11 PM, which is the reverse of the usual convention; the panel has
// always shown it this way.
func LongitudeToLocalTime(longitude float64, utcNow time.Time) LocalTime {
	utcNow = utcNow.UTC()
	offset := int(math.Floor((longitude+180)/15 + 0.5))
	hour24 := ((utcNow.Hour()+offset+24)%24 + 24) % 24

	period := PM
	if hour24 >= 12 {
		period = AM
	}
	hour12 := hour24 % 12
	if hour12 == 0 {
		hour12 = 12
	}

	return LocalTime{Hour12: hour12, Minute: utcNow.Minute(), Period: period}
}

// CurrentTimeString formats the wall clock for the "Current Time" row
func CurrentTimeString(now time.Time) string {
	return now.Local().Format("3:04:05 PM")
}

// ValidateCoordinates checks if coordinates are within valid ranges
func ValidateCoordinates(g GeoCoordinate) bool {
	return g.Latitude >= -90 && g.Latitude <= 90 &&
		g.Longitude > -180 && g.Longitude <= 180
}

// GreatCircleDistance is the distance along the surface of a sphere of the
// given radius between two readings
func GreatCircleDistance(a, b GeoCoordinate, radius float64) float64 {
	from := s2.LatLngFromDegrees(a.Latitude, a.Longitude)
	to := s2.LatLngFromDegrees(b.Latitude, b.Longitude)
	return from.Distance(to).Radians() * radius
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// acos is undefined outside [-1, 1]; hits a hair beyond the surface land here
func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
