package notifier

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/pfrederiksen/trailday/internal/trail"
)

// MaxTweetLength is the Twitter character limit.
const MaxTweetLength = 280

// Notifier defines the interface for sharing a hike summary
type Notifier interface {
	Notify(summary *Summary) error
}

// Summary is what gets shared about a planned day.
type Summary struct {
	Trail  *trail.Record
	Places []string
	URL    string
}

// FormatTweet renders s in at most MaxTweetLength characters. Places are
// dropped from the end first, then the whole text is truncated.
func FormatTweet(s *Summary) string {
	rec := s.Trail
	if rec == nil {
		rec = trail.New()
	}

	var head strings.Builder
	fmt.Fprintf(&head, "🥾 Planning a day around %s", rec.DisplayName())
	if loc := trail.CleanLocation(rec.Location); loc != "" {
		fmt.Fprintf(&head, " (%s)", loc)
	}
	head.WriteString("\n")

	var stats []string
	for _, v := range []string{rec.Difficulty, rec.Length, rec.ElevationGain} {
		if v != "" {
			stats = append(stats, v)
		}
	}
	if len(stats) > 0 {
		fmt.Fprintf(&head, "📏 %s\n", strings.Join(stats, " · "))
	}

	tail := "\n#hiking #trailday"
	if s.URL != "" {
		tail = "\n" + s.URL + tail
	}

	places := s.Places
	for {
		tweet := head.String()
		if len(places) > 0 {
			tweet += "📍 " + strings.Join(places, ", ") + "\n"
		}
		tweet += tail
		if utf8.RuneCountInString(tweet) <= MaxTweetLength {
			return tweet
		}
		if len(places) == 0 {
			return truncate(tweet, MaxTweetLength)
		}
		places = places[:len(places)-1]
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
