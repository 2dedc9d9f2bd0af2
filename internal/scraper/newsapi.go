package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-resty/resty/v2"
	"github.com/samber/lo"

	"pressfolio/internal/models"
)

const (
	newsAPIEndpoint = "https://newsapi.org/v2/top-headlines"
	newsAPITimeout  = 20 * time.Second
)

// NewsAPI scrapes top headlines from newsapi.org, optionally filtered by
// query, country and category.
type NewsAPI struct {
	apiKey   string
	query    string
	country  string
	category string
	pageSize int

	endpoint    string
	client      *resty.Client
	title       string
	description string
}

func NewNewsAPI(apiKey, query, country, category string, pageSize int) (*NewsAPI, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("newsapi key must be provided")
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > 100 {
		pageSize = 100
	}

	s := &NewsAPI{
		apiKey:   strings.TrimSpace(apiKey),
		query:    strings.TrimSpace(query),
		country:  strings.TrimSpace(country),
		category: strings.TrimSpace(category),
		pageSize: pageSize,
		endpoint: newsAPIEndpoint,
		client: resty.New().
			SetTimeout(newsAPITimeout).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "pressfolio-aggregator/1.0"),
	}
	s.title = s.buildTitle()
	s.description = s.buildDescription()
	return s, nil
}

func (s *NewsAPI) Title() string       { return s.title }
func (s *NewsAPI) Description() string { return s.description }

func (s *NewsAPI) buildTitle() string {
	var parts []string
	if s.category != "" {
		parts = append(parts, titleWord(s.category))
	}
	if s.query != "" {
		parts = append(parts, strconv.Quote(s.query))
	}
	if len(parts) == 0 && s.country != "" {
		parts = append(parts, strings.ToUpper(s.country))
	}
	label := "Top headlines"
	if len(parts) > 0 {
		label = strings.Join(parts, " / ")
	}
	return "NewsAPI (" + label + ")"
}

func (s *NewsAPI) buildDescription() string {
	var details []string
	if s.country != "" {
		details = append(details, "country="+s.country)
	}
	if s.category != "" {
		details = append(details, "category="+s.category)
	}
	if s.query != "" {
		details = append(details, "query="+s.query)
	}
	if len(details) == 0 {
		return "NewsAPI top headlines feed"
	}
	return "NewsAPI feed (" + strings.Join(details, ", ") + ")"
}

type newsAPIItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
}

type newsAPIResponse struct {
	Status   string        `json:"status"`
	Articles []newsAPIItem `json:"articles"`
}

func (s *NewsAPI) Scrape(ctx context.Context) ([]models.ScrapedArticle, error) {
	items, err := s.fetch(ctx, true)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 && s.query != "" {
		// The query may be too restrictive; broaden once before giving up.
		items, err = s.fetch(ctx, false)
		if err != nil {
			return nil, err
		}
	}

	return lo.FilterMap(items, func(item newsAPIItem, _ int) (models.ScrapedArticle, bool) {
		url := strings.TrimSpace(item.URL)
		if url == "" {
			return models.ScrapedArticle{}, false
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "Untitled"
		}
		summary := strings.TrimSpace(item.Description)
		if summary == "" {
			summary = strings.TrimSpace(item.Content)
		}
		return models.ScrapedArticle{Title: title, URL: url, Summary: summary}, true
	}), nil
}

func (s *NewsAPI) fetch(ctx context.Context, includeQuery bool) ([]newsAPIItem, error) {
	req := s.client.R().
		SetContext(ctx).
		SetQueryParam("apiKey", s.apiKey).
		SetQueryParam("pageSize", strconv.Itoa(s.pageSize))
	if includeQuery && s.query != "" {
		req.SetQueryParam("q", s.query)
	}
	if s.country != "" {
		req.SetQueryParam("country", s.country)
	}
	if s.category != "" {
		req.SetQueryParam("category", s.category)
	}

	resp, err := req.Get(s.endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetching newsapi headlines: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, fmt.Errorf("unexpected status %d from newsapi", resp.StatusCode())
	}

	var payload newsAPIResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse newsapi response: %w", err)
	}
	return payload.Articles, nil
}

func titleWord(s string) string {
	runes := []rune(strings.ToLower(s))
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
