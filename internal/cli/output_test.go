package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pfrederiksen/trailday/internal/itinerary"
	"github.com/pfrederiksen/trailday/internal/trail"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{" YAML ", FormatYAML, false},
		{"text", FormatText, false},
		{"md", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseFormat(tt.in, FormatText, FormatJSON, FormatYAML)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteStructured_YAML(t *testing.T) {
	rec := trail.New()
	rec.Name = "Mist Trail"
	rec.Features = []string{"Waterfall"}

	var buf bytes.Buffer
	if err := writeStructured(&buf, rec, FormatYAML); err != nil {
		t.Fatalf("writeStructured() error = %v", err)
	}
	for _, want := range []string{"name: Mist Trail", "features:\n  - Waterfall"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("YAML missing %q:\n%s", want, buf.String())
		}
	}
}

func TestWriteTrailText(t *testing.T) {
	rec := trail.New()
	rec.Name = "Mist Trail"
	rec.Location = "· Yosemite"
	rec.Features = []string{"Waterfall", "Views"}

	var buf bytes.Buffer
	if err := writeTrailText(&buf, rec); err != nil {
		t.Fatalf("writeTrailText() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Name:            Mist Trail\n",
		"Location:        Yosemite\n",
		"Difficulty:      -\n",
		"Features:        Waterfall, Views\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWritePlacesText(t *testing.T) {
	var empty bytes.Buffer
	if err := writePlacesText(&empty, nil); err != nil {
		t.Fatal(err)
	}
	if empty.String() != "No places found in the itinerary.\n" {
		t.Errorf("empty output = %q", empty.String())
	}

	rows := placeRows([]itinerary.Place{
		{Name: "Café 山", Address: "1 Main St, Town, CA 90000"},
		{Name: "Ahwahnee Hotel", Address: "1 Ahwahnee Dr, Yosemite Valley, CA 95389"},
	})

	var buf bytes.Buffer
	if err := writePlacesText(&buf, rows); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(buf.String(), "\n")
	// Address column starts at the same display column on every row.
	col := strings.Index(lines[0], "ADDRESS")
	if !strings.HasPrefix(lines[2][col:], "1 Ahwahnee") {
		t.Errorf("rows not aligned:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "Total: 2 places") {
		t.Errorf("missing total:\n%s", buf.String())
	}
}

func TestSortPlaces(t *testing.T) {
	rows := placeRows([]itinerary.Place{
		{Name: "Zephyr Lodge"},
		{Name: "alpine cafe"},
		{Name: "Base Camp Store"},
	})

	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortByAppearance, []string{"Zephyr Lodge", "alpine cafe", "Base Camp Store"}},
		{SortByName, []string{"alpine cafe", "Base Camp Store", "Zephyr Lodge"}},
		{SortByCategory, []string{"alpine cafe", "Zephyr Lodge", "Base Camp Store"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			got := append([]placeRow(nil), rows...)
			sortPlaces(got, tt.order)
			for i, name := range tt.want {
				if got[i].Name != name {
					t.Errorf("position %d = %q, want %q", i, got[i].Name, name)
				}
			}
		})
	}
}
