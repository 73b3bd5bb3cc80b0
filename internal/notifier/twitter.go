package notifier

import (
	"fmt"
	"net/http"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"github.com/pfrederiksen/trailday/internal/logger"
)

// Credentials are the OAuth1 user keys for the posting account.
type Credentials struct {
	APIKey       string
	APISecret    string
	AccessToken  string
	AccessSecret string
}

// Complete reports whether all four keys are set.
func (c Credentials) Complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.AccessToken != "" && c.AccessSecret != ""
}

// TwitterNotifier posts summaries to Twitter
type TwitterNotifier struct {
	client *twitter.Client
}

// NewTwitterNotifier creates a notifier signed with creds.
func NewTwitterNotifier(creds Credentials) (*TwitterNotifier, error) {
	if !creds.Complete() {
		return nil, fmt.Errorf("missing Twitter credentials (set TWITTER_API_KEY, TWITTER_API_SECRET, TWITTER_ACCESS_TOKEN, TWITTER_ACCESS_SECRET)")
	}

	config := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessSecret)
	return NewTwitterNotifierWithClient(config.Client(oauth1.NoContext, token)), nil
}

// NewTwitterNotifierWithClient posts through an already authorized client.
func NewTwitterNotifierWithClient(httpClient *http.Client) *TwitterNotifier {
	return &TwitterNotifier{client: twitter.NewClient(httpClient)}
}

// Notify posts the summary as a single tweet.
func (n *TwitterNotifier) Notify(summary *Summary) error {
	tweet := FormatTweet(summary)

	status, _, err := n.client.Statuses.Update(tweet, nil)
	if err != nil {
		logger.IncrCounter("share.errors")
		return fmt.Errorf("failed to post tweet: %w", err)
	}

	logger.IncrCounter("share.posted")
	logger.Info("Posted tweet", logger.Fields{"id": status.IDStr})
	return nil
}
