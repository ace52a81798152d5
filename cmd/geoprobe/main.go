package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"globeviewer/core"

	"github.com/spf13/pflag"
)

// geoprobe prints what the viewer would show for a point on the globe
// without opening a window.
func main() {
	if err := run(os.Args[1:], os.Stdout, time.Now()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer, now time.Time) error {
	fs := pflag.NewFlagSet("geoprobe", pflag.ContinueOnError)
	fs.SetOutput(out)
	var (
		x        = fs.Float64("x", 0, "hit point x (model space)")
		y        = fs.Float64("y", 0, "hit point y (model space)")
		z        = fs.Float64("z", 5, "hit point z (model space)")
		lat      = fs.Float64("lat", 0, "latitude to place on the sphere instead of x/y/z")
		lon      = fs.Float64("lon", 0, "longitude to place on the sphere instead of x/y/z")
		toLat    = fs.Float64("to-lat", 0, "latitude of a second point to measure the surface distance to")
		toLon    = fs.Float64("to-lon", 0, "longitude of a second point to measure the surface distance to")
		radius   = fs.Float64("radius", 5, "globe radius")
		segments = fs.Int("segments", 0, "also report quad statistics for a globe with this many segments")
		margin   = fs.Float64("margin", 0.0001, "quad gap margin for --segments")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	hit := core.Vector3{X: *x, Y: *y, Z: *z}
	if fs.Changed("lat") || fs.Changed("lon") {
		hit = core.GeoToPoint(core.GeoCoordinate{Latitude: *lat, Longitude: *lon}, *radius)
	}

	fmt.Fprintf(out, "Point:      (%.4f, %.4f, %.4f)\n", hit.X, hit.Y, hit.Z)
	geo, err := core.PointToGeo(hit, *radius)
	switch {
	case errors.Is(err, core.ErrNotMapped):
		fmt.Fprintln(out, "Latitude:   not mapped (polar cap)")
	case err != nil:
		return err
	default:
		local := core.LongitudeToLocalTime(core.HitLongitude(hit), now)
		fmt.Fprintf(out, "Latitude:   %.2f\n", unsigned(geo.Latitude))
		fmt.Fprintf(out, "Longitude:  %.2f\n", unsigned(geo.Longitude))
		fmt.Fprintf(out, "Local Time: %s\n", local)
		if fs.Changed("to-lat") || fs.Changed("to-lon") {
			to := core.GeoCoordinate{Latitude: *toLat, Longitude: *toLon}
			fmt.Fprintf(out, "Distance:   %.4f\n", core.GreatCircleDistance(geo, to, *radius))
		}
	}
	fmt.Fprintf(out, "Now:        %s\n", core.CurrentTimeString(now))

	if *segments > 0 {
		return reportQuads(out, *radius, *segments, *margin)
	}
	return nil
}

func reportQuads(out io.Writer, radius float64, segments int, margin float64) error {
	mesh, err := core.GenerateGlobe(radius, segments, segments)
	if err != nil {
		return err
	}
	before := mesh.Positions[0]
	if err := mesh.Quadify(margin); err != nil {
		return err
	}
	after := mesh.Positions[0]

	fmt.Fprintf(out, "Quads:      %d (%d vertices)\n", mesh.QuadCount(), len(mesh.Positions))
	fmt.Fprintf(out, "Corner gap: %.6f\n", before.Distance(after))
	return nil
}

// unsigned drops the sign of negative zero
func unsigned(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
