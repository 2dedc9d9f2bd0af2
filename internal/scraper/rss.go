package scraper

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"pressfolio/internal/cache"
	"pressfolio/internal/feed"
	"pressfolio/internal/models"
)

const feedTimeout = 15 * time.Second

// RSS scrapes a single RSS or Atom feed URL.
type RSS struct {
	feedURL     string
	title       string
	description string
	headers     map[string]string
	client      *resty.Client
	bodies      cache.BodyCache
}

func NewRSS(feedURL, title, description string) *RSS {
	return &RSS{
		feedURL:     feedURL,
		title:       title,
		description: description,
		client:      resty.New().SetTimeout(feedTimeout),
	}
}

// WithBodyCache makes the scraper consult a shared feed-body cache before
// fetching. Returns the scraper for chaining.
func (s *RSS) WithBodyCache(c cache.BodyCache) *RSS {
	s.bodies = c
	return s
}

func (s *RSS) Title() string       { return s.title }
func (s *RSS) Description() string { return s.description }

// FeedURL reports the resolved fetch endpoint.
func (s *RSS) FeedURL() string { return s.feedURL }

func (s *RSS) Scrape(ctx context.Context) ([]models.ScrapedArticle, error) {
	body, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	articles, err := feed.Parse(body, s.feedURL)
	if err != nil {
		return nil, fmt.Errorf("parsing feed %s: %w", s.feedURL, err)
	}
	return articles, nil
}

func (s *RSS) fetch(ctx context.Context) ([]byte, error) {
	if s.bodies != nil {
		if body, ok := s.bodies.Get(ctx, s.feedURL); ok {
			return body, nil
		}
	}

	req := s.client.R().SetContext(ctx)
	for key, value := range s.headers {
		req.SetHeader(key, value)
	}

	resp, err := req.Get(s.feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetching feed %s: %w", s.feedURL, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode(), s.feedURL)
	}

	body := resp.Body()
	if s.bodies != nil {
		s.bodies.Set(ctx, s.feedURL, body)
	}
	return body, nil
}
