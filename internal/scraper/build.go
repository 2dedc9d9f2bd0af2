package scraper

import (
	"fmt"

	"pressfolio/internal/cache"
	"pressfolio/internal/config"
)

// FromConfig assembles every configured scraper. Construction errors (bad
// Flipboard identifiers, missing NewsAPI key) fail the whole set so broken
// configuration surfaces before the first run.
func FromConfig(cfg *config.Config, bodies cache.BodyCache) ([]Scraper, error) {
	var scrapers []Scraper

	for _, spec := range cfg.FeedSpecs() {
		scrapers = append(scrapers, NewRSS(spec.URL, spec.Title, spec.Description).WithBodyCache(bodies))
	}

	for _, magazine := range cfg.FlipboardMagazines {
		s, err := NewFlipboardMagazine(magazine)
		if err != nil {
			return nil, fmt.Errorf("flipboard magazine %q: %w", magazine, err)
		}
		scrapers = append(scrapers, s.WithBodyCache(bodies))
	}

	for _, account := range cfg.FlipboardAccounts {
		s, err := NewFlipboardAccount(account)
		if err != nil {
			return nil, fmt.Errorf("flipboard account %q: %w", account, err)
		}
		scrapers = append(scrapers, s.WithBodyCache(bodies))
	}

	if cfg.HackerNews {
		scrapers = append(scrapers, NewHackerNews().WithBodyCache(bodies))
	}
	if cfg.Wired {
		scrapers = append(scrapers, NewWired().WithBodyCache(bodies))
	}

	if cfg.NewsAPIKey != "" {
		s, err := NewNewsAPI(cfg.NewsAPIKey, cfg.NewsAPIQuery, cfg.NewsAPICountry, cfg.NewsAPICategory, cfg.NewsAPIPageSize)
		if err != nil {
			return nil, fmt.Errorf("newsapi: %w", err)
		}
		scrapers = append(scrapers, s)
	}

	return scrapers, nil
}
