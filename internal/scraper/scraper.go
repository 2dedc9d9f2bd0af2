package scraper

import (
	"context"

	"pressfolio/internal/models"
)

// Scraper is one article source. Title and Description are the display
// identity of the newspaper the aggregation run files the source's articles
// under; Scrape produces the normalized articles of one pass.
type Scraper interface {
	Title() string
	Description() string
	Scrape(ctx context.Context) ([]models.ScrapedArticle, error)
}
