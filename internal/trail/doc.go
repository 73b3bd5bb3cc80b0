// Package trail defines the trail record produced by the scraper and the
// input checks that run before any network request is made.
package trail
