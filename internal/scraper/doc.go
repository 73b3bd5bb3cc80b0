// Package scraper fetches AllTrails trail pages and extracts a trail.Record
// from them.
//
// Extraction is a set of ordered selector fallbacks per field, applied with
// goquery. Fetching goes through a Retrier that spaces out requests with
// randomized delays, backs off harder and rotates the user agent when the
// site answers 403/429, and gives up after a fixed number of attempts.
// Pages can be fetched with a plain HTTP client or a headless Chrome
// (chromedp) when the site only serves rendered markup.
package scraper
