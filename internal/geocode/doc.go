// Package geocode resolves free-text addresses to coordinates using the
// OpenStreetMap Nominatim search API.
//
// Lookups are throttled with a token bucket and both hits and misses are
// cached for the life of the client, so a map with repeated addresses only
// asks the service once per address.
package geocode
