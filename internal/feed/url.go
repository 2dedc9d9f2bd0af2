package feed

import (
	"net/url"
	"strings"
	"unicode"
)

// NormalizeURL returns the canonical form of a URL used for equality
// comparisons: lowercased scheme and host, leading "www." stripped from the
// host, no trailing slash. Query string and fragment are preserved verbatim.
// Unparsable input is returned trimmed, minus a trailing slash.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return strings.TrimSuffix(trimmed, "/")
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")

	var b strings.Builder
	if u.Scheme != "" {
		b.WriteString(strings.ToLower(u.Scheme))
		b.WriteString("://")
	}
	b.WriteString(host)
	b.WriteString(strings.TrimSuffix(u.Path, "/"))
	if u.RawQuery != "" {
		b.WriteString("?")
		b.WriteString(u.RawQuery)
	}
	if u.Fragment != "" {
		b.WriteString("#")
		b.WriteString(u.Fragment)
	}
	return strings.TrimSuffix(b.String(), "/")
}

// MatchingURLs reports whether two URLs are equal in canonical form.
func MatchingURLs(a, b string) bool {
	return NormalizeURL(a) == NormalizeURL(b)
}

// TitleFromURL derives a human-readable title from a link, for feeds that
// ship an empty title or echo the URL as the title. Returns "" when nothing
// usable can be derived.
func TitleFromURL(link string) string {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return ""
	}

	host := strings.TrimPrefix(u.Host, "www.")

	segment := ""
	for _, part := range strings.Split(u.Path, "/") {
		if part != "" {
			segment = part
		}
	}

	if segment != "" {
		words := strings.NewReplacer("-", " ", "_", " ").Replace(segment)
		title := titleCase(strings.Join(strings.Fields(words), " "))
		if host != "" {
			return title + " (" + host + ")"
		}
		return title
	}

	if path := strings.Trim(u.Path, "/"); path != "" {
		return path
	}
	return host
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(strings.ToLower(word))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
