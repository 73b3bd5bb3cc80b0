package scraper

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/trailday/internal/trail"
)

// textField is one ordered selector fallback chain. The first selector whose
// first match has non-empty text wins; later selectors are not consulted.
type textField struct {
	name      string
	selectors []string
	assign    func(r *trail.Record, value string)
}

var textFields = []textField{
	{
		name: "name",
		selectors: []string{
			`h1`,
			`[data-testid="trail-title"]`,
			`.styles-module__title___2JX0j`,
			`h1[class*="title"]`,
		},
		assign: func(r *trail.Record, v string) { r.Name = v },
	},
	{
		name: "location",
		selectors: []string{
			`div[class*="location"]`,
			`[data-testid="location"]`,
			`.styles-module__location___2X7Xl`,
			`p[class*="location"]`,
		},
		assign: func(r *trail.Record, v string) { r.Location = v },
	},
	{
		name: "route_type",
		selectors: []string{
			`[data-testid="route-type"]`,
			`span[class*="routeType"]`,
			`div[class*="routeType"]`,
		},
		assign: func(r *trail.Record, v string) { r.RouteType = v },
	},
	{
		name: "rating",
		selectors: []string{
			`span[class*="rating"]`,
			`[data-testid="rating"]`,
			`.styles-module__rating___1WBrE`,
			`span[class*="star"]`,
		},
		assign: func(r *trail.Record, v string) { r.Rating = v },
	},
	{
		name: "description",
		selectors: []string{
			`div[class*="description"]`,
			`[data-testid="description"]`,
			`.styles-module__description___2X7Xl`,
			`p[class*="description"]`,
		},
		assign: func(r *trail.Record, v string) { r.Description = v },
	},
}

var statsContainerSelectors = []string{
	`div[class*="trailStats"]`,
	`div[class*="stat"]`,
	`[data-testid="trail-stats"]`,
	`.styles-module__trailStats___2JX0j`,
}

// statNodeSelector matches the individual stat cells inside a stats container.
const statNodeSelector = `div[class*="stat"], span[class*="stat"]`

var featureContainerSelectors = []string{
	`div[class*="tags"]`,
	`[data-testid="tags"]`,
	`.styles-module__tags___3J6Xj`,
	`div[class*="features"]`,
}

// featureChildSelector filters the direct children of a features container.
const featureChildSelector = `span, div, a`

var reviewPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d+ reviews`),
	regexp.MustCompile(`\d+.*review`),
}

// StatKind is the field a stat cell was assigned to.
type StatKind int

const (
	StatNone StatKind = iota
	StatDifficulty
	StatLength
	StatElevation
)

// ClassifyStat assigns a stat cell's text to at most one field. Rules are
// checked in order and the first hit wins.
func ClassifyStat(text string) StatKind {
	lower := strings.ToLower(text)
	switch {
	case lower == "":
		return StatNone
	case strings.Contains(lower, "difficulty"):
		return StatDifficulty
	case strings.Contains(lower, "mi") || strings.Contains(lower, "km"):
		return StatLength
	case strings.Contains(lower, "ft") || strings.Contains(lower, "m"):
		return StatElevation
	default:
		return StatNone
	}
}

// ExtractFromReader parses HTML and extracts a trail record from it.
func ExtractFromReader(r io.Reader) (*trail.Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return Extract(doc), nil
}

// Extract pulls every known field out of doc. It never fails; fields that
// no selector matched are left empty.
func Extract(doc *goquery.Document) *trail.Record {
	rec := trail.New()

	for _, f := range textFields {
		f.assign(rec, firstText(doc.Selection, f.selectors))
	}

	rec.Difficulty, rec.Length, rec.ElevationGain = extractStats(doc.Selection)
	rec.ReviewsCount = extractReviewsCount(doc.Selection)
	rec.Features = extractFeatures(doc.Selection)

	return rec
}

func firstText(root *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if text := nodeText(root.Find(sel).First()); text != "" {
			return text
		}
	}
	return ""
}

// extractStats reads the first stats container found. Later cells of the
// same kind overwrite earlier ones, so a nested value cell beats its
// label+value parent.
func extractStats(root *goquery.Selection) (difficulty, length, elevation string) {
	for _, sel := range statsContainerSelectors {
		container := root.Find(sel).First()
		if container.Length() == 0 {
			continue
		}

		container.Find(statNodeSelector).Each(func(_ int, s *goquery.Selection) {
			text := nodeText(s)
			switch ClassifyStat(text) {
			case StatDifficulty:
				difficulty = text
			case StatLength:
				length = text
			case StatElevation:
				elevation = text
			}
		})
		break
	}
	return difficulty, length, elevation
}

// extractReviewsCount looks for a leaf span whose text reads like "123 reviews".
func extractReviewsCount(root *goquery.Selection) string {
	spans := root.Find("span").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Children().Length() == 0
	})

	for _, pattern := range reviewPatterns {
		var found string
		spans.EachWithBreak(func(_ int, s *goquery.Selection) bool {
			text := nodeText(s)
			if pattern.MatchString(text) {
				found = text
				return false
			}
			return true
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// extractFeatures collects the direct children of the first features
// container, deduplicated in first-seen order.
func extractFeatures(root *goquery.Selection) []string {
	features := []string{}
	for _, sel := range featureContainerSelectors {
		container := root.Find(sel).First()
		if container.Length() == 0 {
			continue
		}

		seen := make(map[string]bool)
		container.ChildrenFiltered(featureChildSelector).Each(func(_ int, s *goquery.Selection) {
			text := nodeText(s)
			if len([]rune(text)) <= 1 || seen[text] {
				return
			}
			seen[text] = true
			features = append(features, text)
		})
		break
	}
	return features
}

// nodeText returns the selection's text with whitespace runs collapsed.
func nodeText(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	return strings.Join(strings.Fields(s.Text()), " ")
}
