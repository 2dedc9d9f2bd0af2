package scraper

import (
	"errors"
	"net/url"
	"strings"
)

// Flipboard serves RSS for magazines and accounts at
// https://flipboard.com/@<slug>.rss, but blocks default Go user agents.
const (
	flipboardUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	flipboardAccept    = "application/rss+xml, application/xml;q=0.9, */*;q=0.8"
)

// NewFlipboardMagazine builds a scraper for a Flipboard magazine. The
// identifier may be a bare slug, an @-handle, or a full flipboard.com URL;
// magazine slugs keep their subpath (`owner/magazine`).
func NewFlipboardMagazine(identifier string) (*RSS, error) {
	slug, err := flipboardSlug(identifier, true)
	if err != nil {
		return nil, err
	}
	s := NewRSS(
		"https://flipboard.com/@"+slug+".rss",
		"Flipboard / @"+slug,
		"Flipboard magazine feed for @"+slug,
	)
	s.headers = flipboardHeaders()
	return s, nil
}

// NewFlipboardAccount builds a scraper for a Flipboard account profile feed.
// Account slugs are a single segment; anything after the first `/` is dropped.
func NewFlipboardAccount(identifier string) (*RSS, error) {
	slug, err := flipboardSlug(identifier, false)
	if err != nil {
		return nil, err
	}
	s := NewRSS(
		"https://flipboard.com/@"+slug+".rss",
		"Flipboard / @"+slug,
		"Flipboard account feed for @"+slug,
	)
	s.headers = flipboardHeaders()
	return s, nil
}

func flipboardHeaders() map[string]string {
	return map[string]string{
		"User-Agent": flipboardUserAgent,
		"Accept":     flipboardAccept,
	}
}

// flipboardSlug reduces a loosely-formatted identifier to a bare slug.
func flipboardSlug(identifier string, keepSubpath bool) (string, error) {
	s := strings.TrimSpace(identifier)
	if s == "" {
		return "", errors.New("flipboard identifier must not be empty")
	}

	if strings.Contains(strings.ToLower(s), "flipboard.com") {
		raw := s
		if !strings.Contains(raw, "://") {
			raw = "https://" + raw
		}
		if u, err := url.Parse(raw); err == nil {
			s = u.Path
		}
	}
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}

	s = strings.Trim(s, "/")
	s = strings.TrimPrefix(s, "@")
	s = strings.TrimSuffix(s, ".rss")
	if !keepSubpath {
		if i := strings.Index(s, "/"); i >= 0 {
			s = s[:i]
		}
	}
	s = strings.Trim(s, "/")

	if s == "" {
		return "", errors.New("flipboard identifier must not be empty")
	}
	return s, nil
}
