package scraper

// NewHackerNews scrapes the Hacker News front page via hnrss.org.
func NewHackerNews() *RSS {
	return NewRSS(
		"https://hnrss.org/frontpage",
		"Hacker News Front Page",
		"Top stories from Hacker News via hnrss.org.",
	)
}

// NewWired scrapes Wired.com's RSS feed.
func NewWired() *RSS {
	return NewRSS(
		"https://www.wired.com/feed/rss",
		"Wired",
		"The latest technology news from Wired.",
	)
}
