package itinerary

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/trailday/internal/trail"
)

// PlacesAnchor is the heading ExtractPlaces looks for. The prompt asks the
// model to emit it verbatim.
const PlacesAnchor = "Places Mentioned"

// SystemPrompt frames the model as a local trip planner.
const SystemPrompt = `You are an expert outdoor adventure planner and local guide. You specialize in creating
perfect day itineraries around hiking trails. You have extensive knowledge of outdoor activities,
local attractions, restaurants, and practical planning considerations.

Your responses should be:
- Well-structured and easy to follow
- Practical and realistic for the given hike
- Include timing estimates
- Consider the hike's difficulty and duration
- Include local recommendations when possible
- Focus on creating a memorable outdoor experience

Format your response in a clear, organized way with sections for different parts of the day.`

// Request is everything the prompt is built from.
type Request struct {
	Trail       *trail.Record
	Preferences string
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}

// BuildPrompt renders the user message for a request.
func BuildPrompt(req Request) string {
	rec := req.Trail
	if rec == nil {
		rec = trail.New()
	}

	features := "None specified"
	if len(rec.Features) > 0 {
		features = strings.Join(rec.Features, ", ")
	}

	var b strings.Builder
	b.WriteString("Please create a comprehensive daily itinerary for a perfect day centered around this hike:\n\n")
	b.WriteString("Hike Information:\n")
	fmt.Fprintf(&b, "- Trail Name: %s\n", orUnknown(rec.Name))
	fmt.Fprintf(&b, "- Location: %s\n", orUnknown(trail.CleanLocation(rec.Location)))
	fmt.Fprintf(&b, "- Difficulty: %s\n", orUnknown(rec.Difficulty))
	fmt.Fprintf(&b, "- Length: %s\n", orUnknown(rec.Length))
	fmt.Fprintf(&b, "- Elevation Gain: %s\n", orUnknown(rec.ElevationGain))
	if rec.RouteType != "" {
		fmt.Fprintf(&b, "- Route Type: %s\n", rec.RouteType)
	}
	fmt.Fprintf(&b, "- Rating: %s\n", orUnknown(rec.Rating))
	fmt.Fprintf(&b, "- Description: %s\n", orUnknown(rec.Description))
	fmt.Fprintf(&b, "- Features: %s\n", features)

	if prefs := strings.TrimSpace(req.Preferences); prefs != "" {
		fmt.Fprintf(&b, "\nAdditional Preferences: %s\n", prefs)
	}

	b.WriteString(`
Please include:
1. **Pre-Hike Preparation** (what to bring, when to start, parking info)
2. **Morning Activities** (breakfast, travel to trailhead, any pre-hike activities)
3. **Hike Details** (timing, what to expect, safety considerations)
4. **Post-Hike Activities** (lunch/dinner recommendations, relaxation, local attractions)
5. **Evening Plans** (dinner, accommodation if needed, sunset viewing spots)
6. **Practical Tips** (weather considerations, gear recommendations, local insights)
7. **` + PlacesAnchor + `** (every restaurant, shop, lodging or attraction named above, one per line,
   formatted exactly as "• Place Name - full street address, city, state ZIP")

Make the itinerary realistic based on the hike's difficulty and duration. Consider the location and suggest
local favorites when possible. Include timing estimates for each activity.
`)

	return b.String()
}
