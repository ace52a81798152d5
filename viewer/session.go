package viewer

import (
	"globeviewer/camera"
	"globeviewer/core"
	"globeviewer/picking"
)

// PointerEvent is a pointer-down at a pixel position in the viewport
type PointerEvent struct {
	X, Y float64
}

// DisplaySurface receives every panel update
type DisplaySurface interface {
	Publish(payload DisplayPayload)
}

// SurfaceFunc adapts a function to DisplaySurface
type SurfaceFunc func(payload DisplayPayload)

func (f SurfaceFunc) Publish(payload DisplayPayload) {
	f(payload)
}

// Marker is the small sphere left at the last clicked point
type Marker struct {
	Position core.Vector3
	InScene  bool
}

// Session holds the state of one viewer: the pickable globe, the marker,
// the info panel and the surfaces the panel is published to. It is owned
// by the render loop and not safe for concurrent use.
type Session struct {
	Radius   float64
	Globe    *picking.Target
	Viewport camera.Viewport

	marker   Marker
	panel    DisplayPayload
	surfaces []DisplaySurface
}

// NewSession creates a session for a globe of the given radius
func NewSession(radius float64, globe *picking.Target, viewport camera.Viewport, surfaces ...DisplaySurface) *Session {
	return &Session{
		Radius:   radius,
		Globe:    globe,
		Viewport: viewport,
		surfaces: surfaces,
	}
}

// AddSurface registers another display surface
func (s *Session) AddSurface(surface DisplaySurface) {
	s.surfaces = append(s.surfaces, surface)
}

// Panel returns the last published panel state
func (s *Session) Panel() DisplayPayload {
	return s.panel
}

// Marker returns the marker state
func (s *Session) Marker() Marker {
	return s.marker
}

// placeMarker moves the marker to p, adding it to the scene on first use.
// Reports whether the marker was newly added.
func (s *Session) placeMarker(p core.Vector3) bool {
	s.marker.Position = p
	if s.marker.InScene {
		return false
	}
	s.marker.InScene = true
	return true
}

func (s *Session) publish(payload DisplayPayload) {
	s.panel = payload
	for _, surface := range s.surfaces {
		surface.Publish(payload)
	}
}
