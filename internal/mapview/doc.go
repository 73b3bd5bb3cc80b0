// Package mapview assembles the daily map: the trailhead plus every place
// the itinerary mentions, rendered as a standalone Leaflet page.
package mapview
