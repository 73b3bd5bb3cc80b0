package scraper

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/trailday/internal/logger"
	"github.com/pfrederiksen/trailday/internal/trail"
)

// Scraper validates a trail URL, fetches it through a Retrier and extracts
// a trail record from the page.
type Scraper struct {
	fetcher Fetcher
	retrier *Retrier
}

// New creates a Scraper. A nil retrier uses NewRetrier.
func New(fetcher Fetcher, retrier *Retrier) *Scraper {
	if retrier == nil {
		retrier = NewRetrier()
	}
	return &Scraper{fetcher: fetcher, retrier: retrier}
}

// Scrape returns the trail record for url. Validation failures come back as
// *trail.ValidationError without any request being made; exhausted retries
// come back as *FetchError.
func (s *Scraper) Scrape(ctx context.Context, url string) (*trail.Record, error) {
	url = strings.TrimSpace(url)
	if err := trail.ValidateURL(url); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := s.retrier.Do(ctx, url, s.fetcher)
	if err != nil {
		logger.Error("Scrape failed", logger.Fields{"url": url}, err)
		return nil, err
	}

	rec, err := ExtractFromReader(bytes.NewReader(res.Body))
	if err != nil {
		return nil, fmt.Errorf("extracting trail: %w", err)
	}
	logger.RecordTiming("scrape.total", time.Since(start))

	if rec.IsEmpty() {
		logger.Warn("No trail fields matched; the page layout may have changed", logger.Fields{"url": url})
	} else {
		logger.Info("Scraped trail", logger.Fields{
			"url":      url,
			"name":     rec.Name,
			"features": len(rec.Features),
			"attempts": len(res.Attempts),
		})
	}

	return rec, nil
}
