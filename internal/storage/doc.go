// Package storage persists the working session between CLI invocations.
//
// A session is the scraped trail, its source URL, the preferences used for
// planning and the generated itinerary. It is stored as session.json in the
// data directory, ~/.local/share/trailday/ by default.
package storage
