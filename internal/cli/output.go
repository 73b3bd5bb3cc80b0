package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/pfrederiksen/trailday/internal/itinerary"
	"github.com/pfrederiksen/trailday/internal/trail"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText     OutputFormat = "text"
	FormatJSON     OutputFormat = "json"
	FormatYAML     OutputFormat = "yaml"
	FormatMarkdown OutputFormat = "md"
	FormatDoc      OutputFormat = "doc"
	FormatICS      OutputFormat = "ics"
)

// parseFormat lowercases s and checks it against the formats a command supports.
func parseFormat(s string, allowed ...OutputFormat) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	names := make([]string, len(allowed))
	for i, a := range allowed {
		if format == a {
			return format, nil
		}
		names[i] = "'" + string(a) + "'"
	}
	return "", fmt.Errorf("invalid format: %s (must be %s)", s, strings.Join(names, ", "))
}

// writeStructured outputs v as JSON or YAML
func writeStructured(w io.Writer, v interface{}, format OutputFormat) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(v); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func labelWidth(labels []string) int {
	width := 0
	for _, l := range labels {
		if w := runewidth.StringWidth(l); w > width {
			width = w
		}
	}
	return width + 2
}

// writeTrailText prints a record as aligned label/value lines. Empty fields
// are shown as "-".
func writeTrailText(w io.Writer, rec *trail.Record) error {
	rows := [][2]string{
		{"Name:", rec.DisplayName()},
		{"Location:", trail.CleanLocation(rec.Location)},
		{"Difficulty:", rec.Difficulty},
		{"Length:", rec.Length},
		{"Elevation gain:", rec.ElevationGain},
		{"Route type:", rec.RouteType},
		{"Rating:", rec.Rating},
		{"Reviews:", rec.ReviewsCount},
		{"Features:", strings.Join(rec.Features, ", ")},
	}

	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = r[0]
	}
	width := labelWidth(labels)

	for _, r := range rows {
		value := r[1]
		if value == "" {
			value = "-"
		}
		if _, err := fmt.Fprintf(w, "%s%s\n", runewidth.FillRight(r[0], width), value); err != nil {
			return err
		}
	}

	if rec.Description != "" {
		fmt.Fprintf(w, "\n%s\n", rec.Description)
	}
	return nil
}

// placeRow is one line of the places listing.
type placeRow struct {
	Index    int                `json:"index" yaml:"index"`
	Name     string             `json:"name" yaml:"name"`
	Address  string             `json:"address" yaml:"address"`
	Category itinerary.Category `json:"category" yaml:"category"`
}

func placeRows(places []itinerary.Place) []placeRow {
	rows := make([]placeRow, len(places))
	for i, p := range places {
		rows[i] = placeRow{Index: i + 1, Name: p.Name, Address: p.Address, Category: itinerary.Classify(p.Name)}
	}
	return rows
}

// writePlacesText prints places as a table with display-width aligned columns.
func writePlacesText(w io.Writer, rows []placeRow) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No places found in the itinerary.")
		return err
	}

	nameWidth, catWidth := runewidth.StringWidth("NAME"), runewidth.StringWidth("CATEGORY")
	for _, r := range rows {
		if n := runewidth.StringWidth(r.Name); n > nameWidth {
			nameWidth = n
		}
		if n := runewidth.StringWidth(string(r.Category)); n > catWidth {
			catWidth = n
		}
	}

	line := func(idx, name, cat, addr string) {
		fmt.Fprintf(w, "%-3s %s  %s  %s\n", idx,
			runewidth.FillRight(name, nameWidth),
			runewidth.FillRight(cat, catWidth),
			addr)
	}

	line("#", "NAME", "CATEGORY", "ADDRESS")
	for _, r := range rows {
		line(fmt.Sprint(r.Index), r.Name, string(r.Category), r.Address)
	}
	_, err := fmt.Fprintf(w, "\nTotal: %d places\n", len(rows))
	return err
}
