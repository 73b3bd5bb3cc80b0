package scraper

import (
	"strings"
	"testing"
)

const trailPage = `
<html>
<head><title>Mist Trail | AllTrails</title></head>
<body>
	<h1> Vernal and Nevada Falls via Mist Trail </h1>
	<div class="styles-module__location___2X7Xl location">· Yosemite National Park</div>
	<div class="trailStats">
		<span class="stat">Difficulty: Hard</span>
		<span class="stat">Length 6.4 mi</span>
		<span class="stat">Elevation gain 2,178 ft</span>
		<span class="stat">Loop</span>
	</div>
	<span data-testid="route-type">Out &amp; back</span>
	<span class="rating">4.8</span>
	<span>3,412 reviews</span>
	<div class="description">
		One of the most popular hikes in the park,
		passing two waterfalls.
	</div>
	<div class="tags">
		<span>Dogs OK</span>
		<span>Dogs OK</span>
		<a href="/scenic">Scenic</a>
		<span>x</span>
		<p><span>Nested</span></p>
	</div>
</body>
</html>`

func extractString(t *testing.T, html string) *recordView {
	t.Helper()
	rec, err := ExtractFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("ExtractFromReader() error = %v", err)
	}
	return &recordView{rec.Name, rec.Location, rec.Difficulty, rec.Length, rec.ElevationGain,
		rec.RouteType, rec.Rating, rec.ReviewsCount, rec.Description, rec.Features}
}

type recordView struct {
	name, location, difficulty, length, elevation, routeType, rating, reviews, description string
	features                                                                                []string
}

func TestExtract_FullPage(t *testing.T) {
	got := extractString(t, trailPage)

	checks := []struct {
		field string
		got   string
		want  string
	}{
		{"name", got.name, "Vernal and Nevada Falls via Mist Trail"},
		{"location", got.location, "· Yosemite National Park"},
		{"difficulty", got.difficulty, "Difficulty: Hard"},
		{"length", got.length, "Length 6.4 mi"},
		{"elevation", got.elevation, "Elevation gain 2,178 ft"},
		{"route_type", got.routeType, "Out & back"},
		{"rating", got.rating, "4.8"},
		{"reviews", got.reviews, "3,412 reviews"},
		{"description", got.description, "One of the most popular hikes in the park, passing two waterfalls."},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.field, c.got, c.want)
		}
	}

	wantFeatures := []string{"Dogs OK", "Scenic"}
	if strings.Join(got.features, "|") != strings.Join(wantFeatures, "|") {
		t.Errorf("features = %q, want %q", got.features, wantFeatures)
	}
}

func TestExtract_NoKnownSelectors(t *testing.T) {
	rec, err := ExtractFromReader(strings.NewReader(`<html><body><p>Nothing to see</p><section>here</section></body></html>`))
	if err != nil {
		t.Fatalf("ExtractFromReader() error = %v", err)
	}
	if !rec.IsEmpty() {
		t.Errorf("expected empty record, got %+v", rec)
	}
	if rec.Features == nil {
		t.Error("features should be an empty list, not nil")
	}
	if len(rec.Features) != 0 {
		t.Errorf("features = %q, want none", rec.Features)
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	rec, err := ExtractFromReader(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ExtractFromReader() error = %v", err)
	}
	if !rec.IsEmpty() {
		t.Errorf("expected empty record, got %+v", rec)
	}
}

func TestExtract_SelectorFallback(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		field func(*recordView) string
		want  string
	}{
		{
			name:  "empty h1 falls through to test id",
			html:  `<h1>  </h1><div data-testid="trail-title">Mist Trail</div>`,
			field: func(r *recordView) string { return r.name },
			want:  "Mist Trail",
		},
		{
			name:  "first selector wins without merging",
			html:  `<h1>Half Dome</h1><div data-testid="trail-title">Other Title</div>`,
			field: func(r *recordView) string { return r.name },
			want:  "Half Dome",
		},
		{
			name:  "location from paragraph",
			html:  `<p class="trail-location">Zion National Park</p>`,
			field: func(r *recordView) string { return r.location },
			want:  "Zion National Park",
		},
		{
			name:  "rating from star span",
			html:  `<span class="stars">4.5</span>`,
			field: func(r *recordView) string { return r.rating },
			want:  "4.5",
		},
		{
			name:  "reviews second pattern",
			html:  `<span>Based on 12 user reviews</span>`,
			field: func(r *recordView) string { return r.reviews },
			want:  "Based on 12 user reviews",
		},
		{
			name:  "reviews ignores spans with child elements",
			html:  `<span><b>Top</b> 12 reviews</span>`,
			field: func(r *recordView) string { return r.reviews },
			want:  "",
		},
		{
			name:  "route type from class",
			html:  `<div class="routeTypeLabel">Point to point</div>`,
			field: func(r *recordView) string { return r.routeType },
			want:  "Point to point",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractString(t, "<html><body>"+tt.html+"</body></html>")
			if v := tt.field(got); v != tt.want {
				t.Errorf("got %q, want %q", v, tt.want)
			}
		})
	}
}

func TestExtract_StatsUsesFirstContainerOnly(t *testing.T) {
	html := `<html><body>
		<div class="trailStats"><span class="stat">Difficulty: Easy</span></div>
		<div class="trailStats"><span class="stat">3.1 mi</span></div>
	</body></html>`

	got := extractString(t, html)
	if got.difficulty != "Difficulty: Easy" {
		t.Errorf("difficulty = %q", got.difficulty)
	}
	if got.length != "" {
		t.Errorf("length = %q, second container should be ignored", got.length)
	}
}

func TestExtract_StatsFallbackContainer(t *testing.T) {
	html := `<html><body>
		<div class="statsBlock">
			<div class="statItem">12.5 km</div>
			<div class="statItem">450 m</div>
		</div>
	</body></html>`

	got := extractString(t, html)
	if got.length != "12.5 km" {
		t.Errorf("length = %q, want 12.5 km", got.length)
	}
	if got.elevation != "450 m" {
		t.Errorf("elevation = %q, want 450 m", got.elevation)
	}
}

func TestExtract_FeaturesFirstContainerOnly(t *testing.T) {
	html := `<html><body>
		<div class="tags"><span>Kid friendly</span></div>
		<div class="features"><span>Waterfall</span></div>
	</body></html>`

	got := extractString(t, html)
	if len(got.features) != 1 || got.features[0] != "Kid friendly" {
		t.Errorf("features = %q, want [Kid friendly]", got.features)
	}
}

func TestExtract_FeatureDeduplication(t *testing.T) {
	html := `<html><body><div data-testid="tags">
		<span>Dogs OK</span><span>Dogs OK</span><span>Scenic</span>
	</div></body></html>`

	got := extractString(t, html)
	set := make(map[string]bool)
	for _, f := range got.features {
		set[f] = true
	}
	if len(got.features) != 2 || !set["Dogs OK"] || !set["Scenic"] {
		t.Errorf("features = %q, want exactly {Dogs OK, Scenic}", got.features)
	}
}

func TestClassifyStat(t *testing.T) {
	tests := []struct {
		text string
		want StatKind
	}{
		{"Difficulty: Moderate", StatDifficulty},
		{"Difficulty 5 mi", StatDifficulty},
		{"Length 5.2 mi", StatLength},
		{"8 km", StatLength},
		{"Elevation gain 1,200 ft", StatElevation},
		{"300 m", StatElevation},
		{"Loop", StatNone},
		{"", StatNone},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := ClassifyStat(tt.text); got != tt.want {
				t.Errorf("ClassifyStat(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
