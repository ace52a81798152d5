package viewer

import (
	"errors"
	"log/slog"
	"time"

	"globeviewer/camera"
	"globeviewer/core"
	"globeviewer/metrics"
)

// PickController turns pointer-down events into info panel updates
type PickController struct {
	session *Session
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewPickController creates a controller for the session
func NewPickController(session *Session, log *slog.Logger, m *metrics.Metrics) *PickController {
	return &PickController{
		session: session,
		log:     log,
		metrics: m,
	}
}

// OnPointerDown casts a ray from cam through the pointer, intersects it with
// the globe and publishes the resulting panel.
//
// A miss shows only the current time, hidden. A hit moves the marker there;
// inside the mapped latitude band the panel shows latitude, longitude and
// local time, otherwise it is hidden with its previous rows kept.
func (c *PickController) OnPointerDown(ev PointerEvent, cam camera.Camera, now time.Time) DisplayPayload {
	start := time.Now()
	payload := c.pick(ev, cam, now)
	c.metrics.PickSeconds.Observe(time.Since(start).Seconds())

	c.session.publish(payload)
	return payload
}

func (c *PickController) pick(ev PointerEvent, cam camera.Camera, now time.Time) DisplayPayload {
	top, left := panelPosition(ev)
	payload := DisplayPayload{Top: top, Left: left, At: now}

	ray := cam.Ray(camera.ScreenToNDC(ev.X, ev.Y, c.session.Viewport))
	hit, ok := c.session.Globe.Intersect(ray)
	if !ok {
		c.metrics.PointerEvents.WithLabelValues(metrics.ResultMiss).Inc()
		payload.Rows = []Row{{Label: LabelCurrentTime, Value: core.CurrentTimeString(now)}}
		return payload
	}

	point := hit.Point
	payload.Hit = &point
	if c.session.placeMarker(point) {
		c.log.Debug("marker added to scene")
	}
	c.log.Debug("pointer hit", "x", point.X, "y", point.Y, "z", point.Z)

	geo, err := core.PointToGeo(point, c.session.Radius)
	if errors.Is(err, core.ErrNotMapped) {
		c.metrics.PointerEvents.WithLabelValues(metrics.ResultNotMapped).Inc()
		c.log.Debug("hit outside mapped band", "error", err)
		payload.Rows = c.session.Panel().Rows
		return payload
	}

	local := core.LongitudeToLocalTime(core.HitLongitude(point), now)
	c.metrics.PointerEvents.WithLabelValues(metrics.ResultHit).Inc()

	payload.Visible = true
	payload.Geo = &geo
	payload.LocalTime = &local
	payload.Rows = geoRows(geo, point, local)
	return payload
}
