// Package notifier shares a planned hike day.
//
// TwitterNotifier posts a short summary through the Twitter v1.1 API using
// OAuth1 user credentials. DryRunNotifier writes the same text to a writer
// so it can be checked before posting.
package notifier
