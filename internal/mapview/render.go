package mapview

import (
	"fmt"
	"html/template"
	"io"

	"github.com/pfrederiksen/trailday/internal/trail"
)

type jsMarker struct {
	Lat     float64  `json:"lat"`
	Lon     float64  `json:"lon"`
	Color   string   `json:"color"`
	Title   string   `json:"title"`
	Lines   []string `json:"lines"`
	IsTrail bool     `json:"isTrail"`
}

type pageData struct {
	Title   string
	Lat     float64
	Lon     float64
	Zoom    int
	Markers []jsMarker
}

var pageTemplate = template.Must(template.New("map").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.Lat}}, {{.Lon}}], {{.Zoom}});
L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
  maxZoom: 19,
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);
var markers = {{.Markers}};
markers.forEach(function (m) {
  var popup = document.createElement('div');
  var h = document.createElement(m.isTrail ? 'h4' : 'h5');
  h.textContent = m.title;
  popup.appendChild(h);
  m.lines.forEach(function (line) {
    var p = document.createElement('p');
    p.textContent = line;
    popup.appendChild(p);
  });
  L.circleMarker([m.lat, m.lon], {
    radius: m.isTrail ? 11 : 8,
    color: m.color,
    fillColor: m.color,
    fillOpacity: 0.8
  }).bindPopup(popup, {maxWidth: m.isTrail ? 300 : 250}).bindTooltip(m.title).addTo(map);
});
</script>
</body>
</html>
`))

func orUnknown(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// Render writes m as a self-contained HTML page. All names and addresses
// are passed to the page as data, never as markup.
func Render(w io.Writer, m *Map) error {
	if m == nil {
		return fmt.Errorf("nil map")
	}

	rec := m.Trail
	if rec == nil {
		rec = trail.New()
	}

	data := pageData{
		Title: rec.DisplayName() + " - Daily Map",
		Lat:   m.Center.Lat,
		Lon:   m.Center.Lon,
		Zoom:  m.Zoom,
	}
	if data.Zoom == 0 {
		data.Zoom = DefaultZoom
	}

	data.Markers = append(data.Markers, jsMarker{
		Lat:     m.Center.Lat,
		Lon:     m.Center.Lon,
		Color:   "green",
		Title:   rec.DisplayName(),
		IsTrail: true,
		Lines: []string{
			"Location: " + orUnknown(trail.CleanLocation(rec.Location), "Unknown Location"),
			"Difficulty: " + orUnknown(rec.Difficulty, "Unknown"),
			"Length: " + orUnknown(rec.Length, "Unknown"),
		},
	})
	for _, p := range m.Places {
		data.Markers = append(data.Markers, jsMarker{
			Lat:   p.Point.Lat,
			Lon:   p.Point.Lon,
			Color: p.Category.Color(),
			Title: p.Name,
			Lines: []string{"Address: " + p.Address},
		})
	}

	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("rendering map: %w", err)
	}
	return nil
}
