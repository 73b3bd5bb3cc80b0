// Package itinerary turns a trail record into a day plan and reads places
// back out of the plan.
//
// Generation sends a prompt built from the record to an OpenAI-compatible
// chat completion endpoint. ExtractPlaces scans the "Places Mentioned"
// section of the generated text for "• Name - address" bullets, Classify
// buckets a place name into a map icon category, and ParseDocument /
// Paginate lay the text out as a printable paged document.
package itinerary
