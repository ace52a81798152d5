package viewer

import (
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"globeviewer/core"
)

// Panel row labels
const (
	LabelLatitude    = "Latitude"
	LabelLongitude   = "Longitude"
	LabelLocalTime   = "Local Time"
	LabelCurrentTime = "Current Time"
)

// Panel offset from the pointer, in pixels
const (
	panelOffsetTop  = -20
	panelOffsetLeft = 40
)

// Row is one label/value line of the info panel
type Row struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DisplayPayload is everything a display surface needs to draw the info
// panel after a pointer-down.
type DisplayPayload struct {
	Visible bool      `json:"visible"`
	Top     float64   `json:"top"`
	Left    float64   `json:"left"`
	Rows    []Row     `json:"rows"`
	At      time.Time `json:"at"`

	Geo       *core.GeoCoordinate `json:"geo,omitempty"`
	LocalTime *core.LocalTime     `json:"localTime,omitempty"`
	Hit       *core.Vector3       `json:"hit,omitempty"`
}

// Opacity is 1 for a shown panel and 0 for a hidden one
func (p DisplayPayload) Opacity() float64 {
	if p.Visible {
		return 1
	}
	return 0
}

// HTML renders the rows as the panel's table markup
func (p DisplayPayload) HTML() string {
	var b strings.Builder
	b.WriteString("<table style='padding:0px;'>")
	for _, row := range p.Rows {
		fmt.Fprintf(&b, "<tr><td class='esq'>%s</td><td class='dir'>%s</td></tr>",
			html.EscapeString(row.Label), html.EscapeString(row.Value))
	}
	b.WriteString("</table>")
	return b.String()
}

// panelPosition places the panel next to the pointer
func panelPosition(ev PointerEvent) (top, left float64) {
	return ev.Y + panelOffsetTop, ev.X + panelOffsetLeft
}

// geoRows builds the rows for a mapped hit. Northern latitudes are shown
// without trailing zeros, southern ones with exactly two decimals.
func geoRows(geo core.GeoCoordinate, hit core.Vector3, local core.LocalTime) []Row {
	var lat string
	if hit.Y >= 0 {
		lat = strconv.FormatFloat(positiveZero(geo.Latitude), 'f', -1, 64)
	} else {
		lat = strconv.FormatFloat(positiveZero(geo.Latitude), 'f', 2, 64)
	}

	return []Row{
		{Label: LabelLatitude, Value: lat},
		{Label: LabelLongitude, Value: strconv.FormatFloat(positiveZero(geo.Longitude), 'f', 2, 64)},
		{Label: LabelLocalTime, Value: local.String()},
	}
}

// positiveZero turns -0 into 0 so it prints without a sign
func positiveZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
