package mapview

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pfrederiksen/trailday/internal/geocode"
	"github.com/pfrederiksen/trailday/internal/itinerary"
	"github.com/pfrederiksen/trailday/internal/trail"
)

type fakeGeocoder struct {
	points  map[string]geocode.Point
	queries []string
}

func (f *fakeGeocoder) Geocode(_ context.Context, query string) (geocode.Point, error) {
	f.queries = append(f.queries, query)
	if p, ok := f.points[query]; ok {
		return p, nil
	}
	return geocode.Point{}, geocode.ErrNotFound
}

const planText = `5. **Evening Plans**
Dinner at the lodge.

7. **Places Mentioned**
• Mountain Room Restaurant - 9011 Lodge Dr, Yosemite Valley, CA 95389
• Lost Diner - 1 Nowhere Rd, Atlantis, ZZ 00000
• Ahwahnee Hotel - 1 Ahwahnee Dr, Yosemite Valley, CA 95389
`

func testRecord() *trail.Record {
	rec := trail.New()
	rec.Name = "Mist Trail"
	rec.Location = "· Yosemite Valley, CA"
	rec.Difficulty = "Hard"
	rec.Length = "6.4 mi"
	return rec
}

func TestBuild(t *testing.T) {
	g := &fakeGeocoder{points: map[string]geocode.Point{
		"Yosemite Valley, CA":                      {Lat: 37.74, Lon: -119.59},
		"9011 Lodge Dr, Yosemite Valley, CA 95389": {Lat: 37.742, Lon: -119.600},
		"1 Ahwahnee Dr, Yosemite Valley, CA 95389": {Lat: 37.746, Lon: -119.574},
	}}

	m, err := Build(context.Background(), g, testRecord(), planText)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if g.queries[0] != "Yosemite Valley, CA" {
		t.Errorf("first query = %q, want cleaned trail location", g.queries[0])
	}
	if m.Zoom != DefaultZoom || m.Center.Lat != 37.74 {
		t.Errorf("center/zoom = %+v / %d", m.Center, m.Zoom)
	}

	if len(m.Places) != 2 {
		t.Fatalf("Places = %d, want 2", len(m.Places))
	}
	if m.Places[0].Name != "Mountain Room Restaurant" || m.Places[0].Category != itinerary.CategoryFood {
		t.Errorf("Places[0] = %+v", m.Places[0])
	}
	if m.Places[1].Category != itinerary.CategoryLodging {
		t.Errorf("Places[1].Category = %q", m.Places[1].Category)
	}

	if len(m.Skipped) != 1 || m.Skipped[0].Place.Name != "Lost Diner" {
		t.Errorf("Skipped = %+v", m.Skipped)
	}
}

func TestBuild_TrailNotLocated(t *testing.T) {
	tests := []struct {
		name     string
		location string
	}{
		{"empty location", ""},
		{"geocode miss", "Somewhere Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testRecord()
			rec.Location = tt.location
			_, err := Build(context.Background(), &fakeGeocoder{}, rec, planText)
			if !errors.Is(err, ErrTrailNotLocated) {
				t.Errorf("Build() error = %v, want ErrTrailNotLocated", err)
			}
		})
	}
}

func TestBuild_NoPlaces(t *testing.T) {
	g := &fakeGeocoder{points: map[string]geocode.Point{"Yosemite Valley, CA": {Lat: 1, Lon: 2}}}

	m, err := Build(context.Background(), g, testRecord(), "Just hike.")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(m.Places) != 0 || len(m.Skipped) != 0 {
		t.Errorf("Build() places = %d skipped = %d, want none", len(m.Places), len(m.Skipped))
	}
}

func TestRender(t *testing.T) {
	rec := testRecord()
	rec.Name = "Mist <b>Trail</b>"
	m := &Map{
		Center: geocode.Point{Lat: 37.74, Lon: -119.59},
		Zoom:   DefaultZoom,
		Trail:  rec,
		Places: []Marker{{
			Name:     "Blue Bottle Coffee",
			Address:  "123 Main St, Springfield, IL 62701",
			Category: itinerary.CategoryDrink,
			Point:    geocode.Point{Lat: 39.78, Lon: -89.65},
		}},
	}

	var buf bytes.Buffer
	if err := Render(&buf, m); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"leaflet.js",
		"setView([",
		"37.74",
		"-119.59",
		"Blue Bottle Coffee",
		"Address: 123 Main St, Springfield, IL 62701",
		`"color":"orange"`,
		`"color":"green"`,
		"Difficulty: Hard",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered map missing %q", want)
		}
	}
	if strings.Contains(out, "<b>Trail</b>") {
		t.Error("trail name rendered as markup")
	}
}

func TestRender_NilMap(t *testing.T) {
	if err := Render(&bytes.Buffer{}, nil); err == nil {
		t.Error("Render(nil) error = nil")
	}
}
