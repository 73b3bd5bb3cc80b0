package notifier

import (
	"fmt"
	"io"
	"unicode/utf8"
)

// DryRunNotifier prints what would be tweeted without actually posting
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a new dry-run notifier writing to out
func NewDryRunNotifier(out io.Writer) *DryRunNotifier {
	return &DryRunNotifier{out: out}
}

// Notify prints the tweet that would be posted
func (n *DryRunNotifier) Notify(summary *Summary) error {
	tweet := FormatTweet(summary)
	_, err := fmt.Fprintf(n.out, "--- Tweet ---\n%s\n\n(Length: %d characters)\n", tweet, utf8.RuneCountInString(tweet))
	return err
}
