package viewer_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"globeviewer/camera"
	"globeviewer/core"
	"globeviewer/metrics"
	"globeviewer/picking"
	"globeviewer/viewer"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var viewport = camera.Viewport{Width: 800, Height: 600}

type fixture struct {
	session    *viewer.Session
	controller *viewer.PickController
	metrics    *metrics.Metrics
	published  []viewer.DisplayPayload
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mesh, err := core.GenerateGlobe(5, 64, 64)
	require.NoError(t, err)

	f := &fixture{metrics: metrics.New(prometheus.NewRegistry())}
	f.session = viewer.NewSession(5, picking.NewTarget(mesh.Positions, mgl64.Ident4()), viewport,
		viewer.SurfaceFunc(func(p viewer.DisplayPayload) {
			f.published = append(f.published, p)
		}))
	f.controller = viewer.NewPickController(f.session, slog.New(slog.NewTextHandler(io.Discard, nil)), f.metrics)
	return f
}

func frontCamera() camera.Camera {
	return camera.Camera{
		Position: core.Vector3{Z: 20},
		Up:       core.Vector3{Y: 1},
		FovY:     70,
		Aspect:   viewport.Aspect(),
		Near:     0.01,
		Far:      1000,
	}
}

func topCamera() camera.Camera {
	cam := frontCamera()
	cam.Position = core.Vector3{Y: 20}
	cam.Up = core.Vector3{Z: -1}
	return cam
}

var clickTime = time.Date(2024, 6, 1, 12, 7, 0, 0, time.UTC)

func TestOnPointerDown_Miss(t *testing.T) {
	f := newFixture(t)

	payload := f.controller.OnPointerDown(viewer.PointerEvent{X: 5, Y: 5}, frontCamera(), clickTime)

	assert.False(t, payload.Visible)
	assert.Equal(t, 0.0, payload.Opacity())
	require.Len(t, payload.Rows, 1)
	assert.Equal(t, viewer.LabelCurrentTime, payload.Rows[0].Label)
	assert.Equal(t, core.CurrentTimeString(clickTime), payload.Rows[0].Value)
	assert.Nil(t, payload.Hit)
	assert.False(t, f.session.Marker().InScene)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.PointerEvents.WithLabelValues(metrics.ResultMiss)))
}

func TestOnPointerDown_HitShowsCoordinates(t *testing.T) {
	f := newFixture(t)

	payload := f.controller.OnPointerDown(viewer.PointerEvent{X: 410, Y: 295}, frontCamera(), clickTime)

	require.True(t, payload.Visible)
	assert.Equal(t, 1.0, payload.Opacity())
	assert.Equal(t, 275.0, payload.Top)
	assert.Equal(t, 450.0, payload.Left)

	require.NotNil(t, payload.Hit)
	require.NotNil(t, payload.Geo)
	require.NotNil(t, payload.LocalTime)
	assert.Greater(t, payload.Geo.Latitude, 0.0, "click above center lands north")
	assert.Greater(t, payload.Geo.Longitude, 0.0, "click right of center lands east")
	assert.Less(t, payload.Geo.Latitude, 10.0)

	require.Len(t, payload.Rows, 3)
	assert.Equal(t, viewer.LabelLatitude, payload.Rows[0].Label)
	assert.Equal(t, viewer.LabelLongitude, payload.Rows[1].Label)
	assert.Equal(t, viewer.LabelLocalTime, payload.Rows[2].Label)
	// longitude near 0 puts the hour offset at 12: 12:07 UTC shows as 12:07 PM
	assert.Equal(t, "12:07 PM", payload.Rows[2].Value)

	marker := f.session.Marker()
	assert.True(t, marker.InScene)
	assert.Equal(t, *payload.Hit, marker.Position)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.PointerEvents.WithLabelValues(metrics.ResultHit)))
}

func TestOnPointerDown_PolarHitHidesPanelKeepingRows(t *testing.T) {
	f := newFixture(t)

	first := f.controller.OnPointerDown(viewer.PointerEvent{X: 410, Y: 295}, frontCamera(), clickTime)
	require.True(t, first.Visible)

	polar := f.controller.OnPointerDown(viewer.PointerEvent{X: 405, Y: 300}, topCamera(), clickTime)

	assert.False(t, polar.Visible)
	require.NotNil(t, polar.Hit)
	assert.Nil(t, polar.Geo)
	assert.Equal(t, first.Rows, polar.Rows)
	assert.Greater(t, polar.Hit.Y, 4.9)

	marker := f.session.Marker()
	assert.True(t, marker.InScene)
	assert.Equal(t, *polar.Hit, marker.Position)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.PointerEvents.WithLabelValues(metrics.ResultNotMapped)))
}

func TestOnPointerDown_LocalTimeUsesUnroundedLongitude(t *testing.T) {
	// A single outward-facing triangle tangent to the globe just west of the
	// 7.5 degree zone boundary, seen head-on through the viewport center.
	center := core.GeoToPoint(core.GeoCoordinate{Longitude: 7.4996}, 5)
	east := core.Vector3{X: center.Z, Z: -center.X}.Scale(1.0 / 5)
	north := core.Vector3{Y: 1}
	patch := []core.Vector3{
		center.Sub(east).Sub(north),
		center.Add(east).Sub(north),
		center.Add(north),
	}

	m := metrics.New(prometheus.NewRegistry())
	session := viewer.NewSession(5, picking.NewTarget(patch, mgl64.Ident4()), viewport)
	controller := viewer.NewPickController(session, slog.New(slog.NewTextHandler(io.Discard, nil)), m)

	cam := frontCamera()
	cam.Position = center.Scale(4)
	cam.Target = center
	midnight := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	payload := controller.OnPointerDown(viewer.PointerEvent{X: 400, Y: 300}, cam, midnight)

	require.True(t, payload.Visible)
	require.NotNil(t, payload.Geo)
	assert.Equal(t, 7.5, payload.Geo.Longitude)
	assert.Equal(t, "7.50", payload.Rows[1].Value)
	assert.Equal(t, "12:00 AM", payload.Rows[2].Value)
}

func TestOnPointerDown_MarkerFollowsLaterHits(t *testing.T) {
	f := newFixture(t)

	first := f.controller.OnPointerDown(viewer.PointerEvent{X: 410, Y: 295}, frontCamera(), clickTime)
	second := f.controller.OnPointerDown(viewer.PointerEvent{X: 380, Y: 320}, frontCamera(), clickTime)

	require.NotNil(t, first.Hit)
	require.NotNil(t, second.Hit)
	assert.NotEqual(t, *first.Hit, *second.Hit)

	marker := f.session.Marker()
	assert.True(t, marker.InScene)
	assert.Equal(t, *second.Hit, marker.Position)
}

func TestOnPointerDown_PublishesEveryPayload(t *testing.T) {
	f := newFixture(t)

	f.controller.OnPointerDown(viewer.PointerEvent{X: 410, Y: 295}, frontCamera(), clickTime)
	f.controller.OnPointerDown(viewer.PointerEvent{X: 5, Y: 5}, frontCamera(), clickTime)
	last := f.controller.OnPointerDown(viewer.PointerEvent{X: 380, Y: 320}, frontCamera(), clickTime)

	require.Len(t, f.published, 3)
	assert.Equal(t, last, f.published[2])
	assert.Equal(t, last, f.session.Panel())
	assert.Equal(t, uint64(3), histogramCount(t, f.metrics.PickSeconds))
}

func histogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(h))
	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	return families[0].GetMetric()[0].GetHistogram().GetSampleCount()
}
