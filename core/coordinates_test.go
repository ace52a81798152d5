package core_test

import (
	"math"
	"testing"
	"time"

	"globeviewer/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const globeRadius = 5.0

func TestPointToGeo(t *testing.T) {
	tests := []struct {
		name    string
		hit     core.Vector3
		wantLat float64
		wantLon float64
	}{
		{"equator front", core.Vector3{X: 0, Y: 0, Z: 5}, 0, 0},
		{"equator +X", core.Vector3{X: 5, Y: 0, Z: 1e-3}, 0, 89.99},
		{"equator back", core.Vector3{X: 0, Y: 0, Z: -5}, 0, 180},
		{"back left wraps negative", core.Vector3{X: -3, Y: 0, Z: -4}, 0, -143.13},
		{"back right", core.Vector3{X: 3, Y: 0, Z: -4}, 0, 143.13},
		{"northern hemisphere", core.Vector3{X: 0, Y: 2.5, Z: 4.330127}, 30, 0},
		{"southern hemisphere", core.Vector3{X: 0, Y: -2.5, Z: 4.330127}, -30, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			geo, err := core.PointToGeo(tc.hit, globeRadius)
			require.NoError(t, err)
			assert.InDelta(t, tc.wantLat, geo.Latitude, 1e-9)
			assert.InDelta(t, tc.wantLon, geo.Longitude, 1e-9)
		})
	}
}

func TestPointToGeo_PolarCapsAreNotMapped(t *testing.T) {
	for _, hit := range []core.Vector3{
		{X: 0, Y: 5, Z: 0},
		{X: 0, Y: -5, Z: 0},
		{X: 0, Y: 5 * math.Sin(core.DegreesToRadians(80.02)), Z: 5 * math.Cos(core.DegreesToRadians(80.02))},
		{X: 0, Y: 5.0001, Z: 0}, // a hair outside the surface
	} {
		_, err := core.PointToGeo(hit, globeRadius)
		require.ErrorIs(t, err, core.ErrNotMapped, "hit %v", hit)
	}

	_, err := core.PointToGeo(core.GeoToPoint(core.GeoCoordinate{Latitude: 80}, globeRadius), globeRadius)
	assert.NoError(t, err)
}

func TestPointToGeo_ZeroZDoesNotDivideByZero(t *testing.T) {
	geo, err := core.PointToGeo(core.Vector3{X: 3, Y: 0, Z: 0}, globeRadius)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(geo.Longitude) || math.IsInf(geo.Longitude, 0))
	assert.InDelta(t, 90.0, geo.Longitude, 1e-9)

	geo, err = core.PointToGeo(core.Vector3{X: -3, Y: 0, Z: 0}, globeRadius)
	require.NoError(t, err)
	assert.InDelta(t, -90.0, geo.Longitude, 1e-9)
}

func TestPointToGeo_RadiusIsAParameter(t *testing.T) {
	geo, err := core.PointToGeo(core.Vector3{X: 0, Y: 50, Z: 86.60254}, 100)
	require.NoError(t, err)
	assert.InDelta(t, 30, geo.Latitude, 1e-9)
	assert.InDelta(t, 0, geo.Longitude, 1e-9)
}

func TestPointToGeo_RoundTrip(t *testing.T) {
	for lat := -80.0; lat <= 80.0; lat += 7.5 {
		for lon := -179.5; lon <= 180.0; lon += 12.25 {
			want := core.GeoCoordinate{Latitude: lat, Longitude: lon}
			got, err := core.PointToGeo(core.GeoToPoint(want, globeRadius), globeRadius)
			require.NoError(t, err, "lat %.2f lon %.2f", lat, lon)
			assert.InDelta(t, want.Latitude, got.Latitude, 0.005, "lat %.2f lon %.2f", lat, lon)
			assert.InDelta(t, want.Longitude, got.Longitude, 0.005, "lat %.2f lon %.2f", lat, lon)
			assert.True(t, core.ValidateCoordinates(got))
		}
	}
}

func TestLongitudeToLocalTime(t *testing.T) {
	tests := []struct {
		name string
		lon  float64
		utc  time.Time
		want string
	}{
		// offset 12, hour 0 -> labelled PM
		{"prime meridian at noon", 0, time.Date(2024, 3, 1, 12, 7, 0, 0, time.UTC), "12:07 PM"},
		// offset 12, hour 13 -> labelled AM
		{"prime meridian after noon", 0, time.Date(2024, 3, 1, 1, 30, 0, 0, time.UTC), "1:30 AM"},
		// offset 0
		{"date line west", -180, time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC), "9:05 PM"},
		// (180+7.5)/15 = 12.5 rounds up to 13
		{"half zone rounds up", 7.5, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "1:00 AM"},
		{"date line east", 180, time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC), "11:59 AM"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, core.LongitudeToLocalTime(tc.lon, tc.utc).String())
		})
	}
}

func TestHitLongitude_DrivesHourZoneUnrounded(t *testing.T) {
	midnight := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	hit := core.GeoToPoint(core.GeoCoordinate{Longitude: 7.4996}, globeRadius)

	geo, err := core.PointToGeo(hit, globeRadius)
	require.NoError(t, err)
	assert.Equal(t, 7.5, geo.Longitude, "reading rounds up to the zone boundary")

	raw := core.HitLongitude(hit)
	assert.InDelta(t, 7.4996, raw, 1e-9)
	assert.Equal(t, "12:00 AM", core.LongitudeToLocalTime(raw, midnight).String())
	assert.Equal(t, "1:00 AM", core.LongitudeToLocalTime(geo.Longitude, midnight).String())
}

func TestHitLongitude_BackHemisphere(t *testing.T) {
	assert.InDelta(t, -143.130102, core.HitLongitude(core.Vector3{X: -3, Z: -4}), 1e-6)
	assert.InDelta(t, 143.130102, core.HitLongitude(core.Vector3{X: 3, Z: -4}), 1e-6)
	assert.InDelta(t, 90, core.HitLongitude(core.Vector3{X: 5}), 1e-6)
}

func TestLongitudeToLocalTime_UsesUTCClock(t *testing.T) {
	zone := time.FixedZone("UTC+5:30", 5*3600+30*60)
	local := time.Date(2024, 3, 1, 17, 45, 0, 0, zone) // 12:15 UTC

	got := core.LongitudeToLocalTime(0, local)
	assert.Equal(t, core.LocalTime{Hour12: 12, Minute: 15, Period: core.PM}, got)
}

func TestCurrentTimeString(t *testing.T) {
	now := time.Date(2024, 3, 1, 15, 4, 5, 0, time.Local)
	assert.Equal(t, "3:04:05 PM", core.CurrentTimeString(now))
}

func TestGreatCircleDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b core.GeoCoordinate
		want float64
	}{
		{"same point", core.GeoCoordinate{Latitude: 10, Longitude: 20}, core.GeoCoordinate{Latitude: 10, Longitude: 20}, 0},
		{"quarter of the equator", core.GeoCoordinate{}, core.GeoCoordinate{Longitude: 90}, 5 * math.Pi / 2},
		{"equator to pole", core.GeoCoordinate{Longitude: 45}, core.GeoCoordinate{Latitude: 90}, 5 * math.Pi / 2},
		{"across the antimeridian", core.GeoCoordinate{Longitude: 179}, core.GeoCoordinate{Longitude: -179}, 5 * core.DegreesToRadians(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, core.GreatCircleDistance(tt.a, tt.b, 5), 1e-9)
		})
	}
}
