package models

import "time"

// ScrapedArticle is a normalized article produced by a scraper before
// persistence. Identity is the URL; there is no other key.
type ScrapedArticle struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary,omitempty"`
}

// Article is a persisted article. The same URL is never stored twice;
// membership in newspapers is many-to-many.
type Article struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content,omitempty"`
	URL          string    `json:"url"`
	OwnerID      int64     `json:"owner_id"`
	NewspaperIDs []int64   `json:"newspaper_ids"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Newspaper is a named, owned collection of articles.
type Newspaper struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
