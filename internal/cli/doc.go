// Package cli implements the trailday command-line interface.
//
// Commands share a session stored in the data directory: scrape fills in the
// trail, plan adds an itinerary, and places, map, export and share read them
// back. Output is text by default; most commands also speak JSON or YAML.
package cli
