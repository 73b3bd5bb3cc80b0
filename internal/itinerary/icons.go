package itinerary

import "strings"

// Category buckets a place for its map marker.
type Category string

const (
	CategoryFood      Category = "food"
	CategoryDrink     Category = "drink"
	CategoryLodging   Category = "lodging"
	CategoryRetail    Category = "retail"
	CategoryNature    Category = "nature"
	CategoryCulture   Category = "culture"
	CategoryViewpoint Category = "viewpoint"
	CategoryGeneric   Category = "generic"
)

// categoryKeywords is checked in order; the first category with a keyword
// contained in the name wins.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryFood, []string{"restaurant", "cafe", "café", "diner", "grill", "bistro", "kitchen", "eatery", "pizza", "taco", "burger", "bakery", "deli", "bbq", "steakhouse", "sushi"}},
	{CategoryDrink, []string{"coffee", "brewery", "brewing", "bar", "pub", "tavern", "winery", "wine", "taproom", "saloon", "espresso", "tea"}},
	{CategoryLodging, []string{"hotel", "motel", "inn", "lodge", "resort", "campground", "cabin", "hostel", "b&b", "suites"}},
	{CategoryRetail, []string{"store", "shop", "market", "outfitter", "supply", "rei", "grocery", "mall", "gear"}},
	{CategoryNature, []string{"park", "trail", "lake", "falls", "river", "forest", "beach", "garden", "canyon", "creek", "preserve"}},
	{CategoryCulture, []string{"museum", "gallery", "theater", "theatre", "historic", "center", "library", "church", "monument"}},
	{CategoryViewpoint, []string{"viewpoint", "overlook", "vista", "lookout", "summit", "peak", "point"}},
}

// Classify returns the category for a place name. Matching is
// case-insensitive and defaults to CategoryGeneric.
func Classify(name string) Category {
	lower := strings.ToLower(name)
	for _, c := range categoryKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(lower, kw) {
				return c.category
			}
		}
	}
	return CategoryGeneric
}

// Color is the marker color used for a category on the map.
func (c Category) Color() string {
	switch c {
	case CategoryFood:
		return "red"
	case CategoryDrink:
		return "orange"
	case CategoryLodging:
		return "purple"
	case CategoryRetail:
		return "cadetblue"
	case CategoryNature:
		return "green"
	case CategoryCulture:
		return "darkblue"
	case CategoryViewpoint:
		return "darkred"
	default:
		return "blue"
	}
}
