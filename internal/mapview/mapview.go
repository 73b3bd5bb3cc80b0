package mapview

import (
	"context"
	"errors"
	"fmt"

	"github.com/pfrederiksen/trailday/internal/geocode"
	"github.com/pfrederiksen/trailday/internal/itinerary"
	"github.com/pfrederiksen/trailday/internal/logger"
	"github.com/pfrederiksen/trailday/internal/trail"
)

// DefaultZoom frames the trail and nearby town.
const DefaultZoom = 12

// ErrTrailNotLocated means the trail's own location could not be geocoded,
// so there is nothing to center the map on.
var ErrTrailNotLocated = errors.New("could not find coordinates for the trail location")

// Marker is one pin on the map.
type Marker struct {
	Name     string             `json:"name"`
	Address  string             `json:"address,omitempty"`
	Category itinerary.Category `json:"category"`
	Point    geocode.Point      `json:"point"`
}

// Skipped is a place that could not be placed on the map.
type Skipped struct {
	Place  itinerary.Place `json:"place"`
	Reason string          `json:"reason"`
}

// Map is the assembled daily map.
type Map struct {
	Center  geocode.Point `json:"center"`
	Zoom    int           `json:"zoom"`
	Trail   *trail.Record `json:"trail"`
	Places  []Marker      `json:"places"`
	Skipped []Skipped     `json:"skipped,omitempty"`
}

// Build geocodes the trail and every place in itineraryText. Places that
// fail to geocode are logged and listed in Map.Skipped; only a trail that
// cannot be located is an error.
func Build(ctx context.Context, g geocode.Geocoder, rec *trail.Record, itineraryText string) (*Map, error) {
	if rec == nil {
		return nil, fmt.Errorf("no trail data: scrape a hike first")
	}

	location := trail.CleanLocation(rec.Location)
	if location == "" {
		return nil, ErrTrailNotLocated
	}
	center, err := g.Geocode(ctx, location)
	if err != nil {
		logger.Warn("Trail location not geocoded", logger.Fields{"location": location, "error": err.Error()})
		return nil, fmt.Errorf("%w: %v", ErrTrailNotLocated, err)
	}

	m := &Map{Center: center, Zoom: DefaultZoom, Trail: rec}

	places := itinerary.ExtractPlaces(itineraryText)
	for _, p := range places {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pt, err := g.Geocode(ctx, p.Query())
		if err != nil {
			logger.Warn("Could not geocode place", logger.Fields{"place": p.Name, "address": p.Address, "error": err.Error()})
			m.Skipped = append(m.Skipped, Skipped{Place: p, Reason: err.Error()})
			continue
		}
		m.Places = append(m.Places, Marker{
			Name:     p.Name,
			Address:  p.Address,
			Category: itinerary.Classify(p.Name),
			Point:    pt,
		})
	}

	logger.SetGauge("map.places", float64(len(m.Places)))
	logger.SetGauge("map.skipped", float64(len(m.Skipped)))
	logger.Info("Built daily map", logger.Fields{
		"trail":   rec.DisplayName(),
		"places":  len(m.Places),
		"skipped": len(m.Skipped),
	})
	return m, nil
}
