package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewNewsAPIRequiresKey(t *testing.T) {
	if _, err := NewNewsAPI("", "", "", "", 20); err == nil {
		t.Error("expected error for missing API key")
	}
	if _, err := NewNewsAPI("   ", "", "", "", 20); err == nil {
		t.Error("expected error for blank API key")
	}
}

func TestNewNewsAPIClampsPageSize(t *testing.T) {
	s, err := NewNewsAPI("key", "", "", "", 500)
	if err != nil {
		t.Fatalf("NewNewsAPI returned error: %v", err)
	}
	if s.pageSize != 100 {
		t.Errorf("pageSize = %d, want 100", s.pageSize)
	}

	s, err = NewNewsAPI("key", "", "", "", 0)
	if err != nil {
		t.Fatalf("NewNewsAPI returned error: %v", err)
	}
	if s.pageSize != 1 {
		t.Errorf("pageSize = %d, want 1", s.pageSize)
	}
}

func TestNewsAPIDisplayIdentity(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		country   string
		category  string
		wantTitle string
		wantDesc  string
	}{
		{"no filters", "", "", "", "NewsAPI (Top headlines)", "NewsAPI top headlines feed"},
		{"category", "", "", "science", "NewsAPI (Science)", "NewsAPI feed (category=science)"},
		{"query", "golang", "", "", `NewsAPI ("golang")`, "NewsAPI feed (query=golang)"},
		{"country only", "", "de", "", "NewsAPI (DE)", "NewsAPI feed (country=de)"},
		{"category and query", "golang", "", "tech", `NewsAPI (Tech / "golang")`, "NewsAPI feed (category=tech, query=golang)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewNewsAPI("key", tc.query, tc.country, tc.category, 20)
			if err != nil {
				t.Fatalf("NewNewsAPI returned error: %v", err)
			}
			if s.Title() != tc.wantTitle {
				t.Errorf("title = %q, want %q", s.Title(), tc.wantTitle)
			}
			if s.Description() != tc.wantDesc {
				t.Errorf("description = %q, want %q", s.Description(), tc.wantDesc)
			}
		})
	}
}

func TestNewsAPIScrapeMapsItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","articles":[
			{"title":"Story","description":"Desc","url":"https://example.org/story"},
			{"title":"","content":"Only content","url":"https://example.org/bare"},
			{"title":"No URL","description":"dropped"}
		]}`))
	}))
	defer server.Close()

	s, err := NewNewsAPI("key", "", "", "", 20)
	if err != nil {
		t.Fatalf("NewNewsAPI returned error: %v", err)
	}
	s.endpoint = server.URL

	articles, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles (item without URL skipped), got %d", len(articles))
	}
	if articles[0].Title != "Story" || articles[0].Summary != "Desc" {
		t.Errorf("unexpected first article %+v", articles[0])
	}
	if articles[1].Title != "Untitled" || articles[1].Summary != "Only content" {
		t.Errorf("unexpected second article %+v", articles[1])
	}
}

func TestNewsAPIScrapeBroadensWhenQueryEmpty(t *testing.T) {
	var queries []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		queries = append(queries, q)
		if q != "" {
			w.Write([]byte(`{"status":"ok","articles":[]}`))
			return
		}
		w.Write([]byte(`{"status":"ok","articles":[{"title":"Broad","url":"https://example.org/broad"}]}`))
	}))
	defer server.Close()

	s, err := NewNewsAPI("key", "very-specific", "", "", 20)
	if err != nil {
		t.Fatalf("NewNewsAPI returned error: %v", err)
	}
	s.endpoint = server.URL

	articles, err := s.Scrape(context.Background())
	if err != nil {
		t.Fatalf("Scrape returned error: %v", err)
	}
	if len(queries) != 2 || queries[0] != "very-specific" || queries[1] != "" {
		t.Fatalf("expected query then broadened retry, got %v", queries)
	}
	if len(articles) != 1 || articles[0].Title != "Broad" {
		t.Fatalf("unexpected articles %+v", articles)
	}
}

func TestNewsAPIScrapeNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":"error"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	s, err := NewNewsAPI("bad-key", "", "", "", 20)
	if err != nil {
		t.Fatalf("NewNewsAPI returned error: %v", err)
	}
	s.endpoint = server.URL

	if _, err := s.Scrape(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
