package feed

import (
	"testing"
)

const rssDoc = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Feed</title>
    <item>
      <title>First Story</title>
      <link>https://example.org/first-story</link>
      <description>A short description.</description>
    </item>
    <item>
      <title>Second Story</title>
      <link>https://example.org/second-story</link>
    </item>
  </channel>
</rss>`

func TestParseRSS(t *testing.T) {
	articles, err := Parse([]byte(rssDoc), "https://example.org/feed")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	first := articles[0]
	if first.Title != "First Story" {
		t.Errorf("unexpected title %q", first.Title)
	}
	if first.URL != "https://example.org/first-story" {
		t.Errorf("unexpected url %q", first.URL)
	}
	if first.Summary != "A short description." {
		t.Errorf("unexpected summary %q", first.Summary)
	}
	if articles[1].Summary != "" {
		t.Errorf("expected absent summary, got %q", articles[1].Summary)
	}
}

func TestParseAtomEquivalence(t *testing.T) {
	atomDoc := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Example Feed</title>
  <entry>
    <title>First Story</title>
    <link rel="self" href="https://example.org/entries/1.atom"/>
    <link rel="alternate" href="https://example.org/first-story"/>
    <summary>A short description.</summary>
  </entry>
</feed>`

	fromAtom, err := Parse([]byte(atomDoc), "https://example.org/feed")
	if err != nil {
		t.Fatalf("Parse(atom) returned error: %v", err)
	}
	fromRSS, err := Parse([]byte(rssDoc), "https://example.org/feed")
	if err != nil {
		t.Fatalf("Parse(rss) returned error: %v", err)
	}
	if len(fromAtom) != 1 {
		t.Fatalf("expected 1 atom article, got %d", len(fromAtom))
	}
	if fromAtom[0] != fromRSS[0] {
		t.Errorf("atom and rss articles differ: %+v vs %+v", fromAtom[0], fromRSS[0])
	}
}

func TestParseAtomFirstHrefFallback(t *testing.T) {
	doc := `<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <title>Story</title>
    <link href="https://example.org/story"/>
  </entry>
</feed>`
	articles, err := Parse([]byte(doc), "")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(articles) != 1 || articles[0].URL != "https://example.org/story" {
		t.Fatalf("expected first-href fallback, got %+v", articles)
	}
}

func TestParseAtomRelativeHref(t *testing.T) {
	doc := `<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <title>Story</title>
    <link rel="alternate" href="/stories/1"/>
  </entry>
</feed>`
	articles, err := Parse([]byte(doc), "https://example.org/feed.atom")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if articles[0].URL != "https://example.org/stories/1" {
		t.Errorf("expected resolved link, got %q", articles[0].URL)
	}
}

func TestParseSkipsItemWithoutLink(t *testing.T) {
	doc := `<rss version="2.0"><channel>
  <item><title>No Identity</title><description>orphan</description></item>
</channel></rss>`
	articles, err := Parse([]byte(doc), "")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(articles) != 0 {
		t.Fatalf("expected item without link to be skipped, got %+v", articles)
	}
}

func TestParseDerivesTitleFromLink(t *testing.T) {
	doc := `<rss version="2.0"><channel>
  <item><title></title><link>http://example.com/my-article-title</link></item>
</channel></rss>`
	articles, err := Parse([]byte(doc), "")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if articles[0].Title != "My Article Title (example.com)" {
		t.Errorf("unexpected derived title %q", articles[0].Title)
	}
}

func TestParseReplacesURLShapedTitle(t *testing.T) {
	doc := `<rss version="2.0"><channel>
  <item>
    <title>https://example.com/my-article-title</title>
    <link>https://example.com/my-article-title</link>
  </item>
</channel></rss>`
	articles, err := Parse([]byte(doc), "")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if articles[0].Title != "My Article Title (example.com)" {
		t.Errorf("unexpected title %q", articles[0].Title)
	}
}

func TestParseUntitledFallback(t *testing.T) {
	doc := `<rss version="2.0"><channel>
  <item><link>https://example.com</link></item>
</channel></rss>`
	articles, err := Parse([]byte(doc), "")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if articles[0].Title != "example.com" {
		t.Errorf("unexpected title %q", articles[0].Title)
	}
}

func TestParseDiscardsSelfReferentialSummary(t *testing.T) {
	doc := `<rss version="2.0"><channel>
  <item>
    <title>Story Title</title>
    <link>https://example.org/story-title</link>
    <description>HTTPS://www.example.org/story-title/</description>
  </item>
</channel></rss>`
	articles, err := Parse([]byte(doc), "")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if articles[0].Summary != "" {
		t.Errorf("expected self-referential summary to be discarded, got %q", articles[0].Summary)
	}
}

func TestParseDiscardsMetadataSummary(t *testing.T) {
	doc := `<rss version="2.0"><channel>
  <item>
    <title>Story</title>
    <link>https://example.org/story</link>
    <description>
Article URL: https://example.org/story&lt;br&gt;
Comments URL: https://news.ycombinator.com/item?id=1&lt;br&gt;
Points: 12&lt;br&gt;
# Comments: 3
    </description>
  </item>
</channel></rss>`
	articles, err := Parse([]byte(doc), "")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if articles[0].Summary != "" {
		t.Errorf("expected metadata block to be discarded, got %q", articles[0].Summary)
	}
}

func TestParseRSSSummaryFallbackTag(t *testing.T) {
	doc := `<rss version="2.0"><channel>
  <item>
    <title>Story</title>
    <link>https://example.org/story</link>
    <summary>From the summary tag.</summary>
  </item>
</channel></rss>`
	articles, err := Parse([]byte(doc), "")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if articles[0].Summary != "From the summary tag." {
		t.Errorf("expected summary tag fallback, got %q", articles[0].Summary)
	}
}

func TestParseAtomContentWithMarkup(t *testing.T) {
	doc := `<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <title>Story</title>
    <link rel="alternate" href="https://example.org/story"/>
    <content type="xhtml"><div xmlns="http://www.w3.org/1999/xhtml"><p>Nested</p> <p>text</p></div></content>
  </entry>
</feed>`
	articles, err := Parse([]byte(doc), "")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if articles[0].Summary != "Nested text" {
		t.Errorf("expected concatenated descendant text, got %q", articles[0].Summary)
	}
}

func TestParseEmptyFeed(t *testing.T) {
	doc := `<rss version="2.0"><channel><title>Empty</title></channel></rss>`
	articles, err := Parse([]byte(doc), "")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if len(articles) != 0 {
		t.Fatalf("expected empty feed to yield no articles, got %d", len(articles))
	}
}

func TestParseMalformedXML(t *testing.T) {
	if _, err := Parse([]byte("<rss><channel><item>"), ""); err == nil {
		t.Fatal("expected parse error for malformed XML")
	}
}
