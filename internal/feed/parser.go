package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"strings"

	"pressfolio/internal/models"
)

// element is a minimal DOM used for namespace-tolerant feed parsing. Matching
// on local names means `<title>`, `<atom:title>` and a default-namespaced
// `<title>` all resolve the same way. Character data is kept as unnamed child
// nodes so mixed content stays in document order.
type element struct {
	name     string
	attrs    []xml.Attr
	text     string
	children []*element
}

// Parse extracts normalized articles from a raw RSS or Atom body. feedLink is
// the URL the body was fetched from; entry links are resolved against it when
// a feed ships relative hrefs. Malformed XML surfaces as an error.
func Parse(data []byte, feedLink string) ([]models.ScrapedArticle, error) {
	root, err := parseTree(data)
	if err != nil {
		return nil, fmt.Errorf("parsing feed XML: %w", err)
	}

	entries := root.descendants("item")
	atom := false
	if len(entries) == 0 {
		entries = root.descendants("entry")
		atom = true
	}

	articles := make([]models.ScrapedArticle, 0, len(entries))
	for _, entry := range entries {
		link := entryLink(entry, atom, feedLink)
		if link == "" {
			// Without a link there is no identity to reconcile on.
			continue
		}

		var rawTitle, rawDescription string
		if atom {
			rawTitle = entry.childText("title")
			rawDescription = entry.childText("content")
			if rawDescription == "" {
				rawDescription = entry.childText("summary")
			}
		} else {
			rawTitle = entry.childText("title")
			rawDescription = entry.childText("description")
			if rawDescription == "" {
				rawDescription = entry.childText("summary")
			}
		}

		articles = append(articles, models.ScrapedArticle{
			Title:   resolveTitle(rawTitle, link),
			URL:     link,
			Summary: resolveSummary(rawDescription, link),
		})
	}
	return articles, nil
}

// resolveTitle trims the feed-supplied title, deriving one from the link when
// the feed supplies none or echoes a URL. "Untitled" is the last resort; a
// missing title is never an error.
func resolveTitle(rawTitle, link string) string {
	title := strings.TrimSpace(rawTitle)
	if title == "" {
		if derived := TitleFromURL(link); derived != "" {
			return derived
		}
		return "Untitled"
	}
	if looksLikeURL(title) {
		if derived := TitleFromURL(link); derived != "" {
			return derived
		}
	}
	return title
}

// resolveSummary cleans the feed-supplied description and discards it when it
// is empty, merely echoes the entry's own URL, or is a pure metadata block.
func resolveSummary(rawDescription, link string) string {
	if rawDescription == "" {
		return ""
	}
	cleaned := CleanHTML(rawDescription)
	switch {
	case cleaned == "":
		return ""
	case looksLikeURL(cleaned) && MatchingURLs(cleaned, link):
		return ""
	case IsMetadataBlock(cleaned):
		return ""
	}
	return cleaned
}

func looksLikeURL(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// entryLink picks the entry's identity URL. RSS carries it as `<link>` text;
// Atom as the href of a `rel="alternate"` link child, falling back to the
// first href present.
func entryLink(entry *element, atom bool, feedLink string) string {
	if !atom {
		return strings.TrimSpace(entry.childText("link"))
	}

	firstHref := ""
	for _, child := range entry.children {
		if child.name != "link" {
			continue
		}
		href := strings.TrimSpace(child.attr("href"))
		if href == "" {
			continue
		}
		if firstHref == "" {
			firstHref = href
		}
		if child.attr("rel") == "alternate" {
			return resolveLink(href, feedLink)
		}
	}
	return resolveLink(firstHref, feedLink)
}

func resolveLink(href, feedLink string) string {
	if href == "" || feedLink == "" {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil || ref.IsAbs() {
		return href
	}
	base, err := url.Parse(feedLink)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

func parseTree(data []byte) (*element, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Entity = xml.HTMLEntity

	root := &element{}
	stack := []*element{root}

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			node := &element{name: t.Name.Local, attrs: t.Attr}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, node)
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, &element{text: string(t)})
		}
	}
	return root, nil
}

// descendants collects every element with the given local name, in document
// order.
func (e *element) descendants(name string) []*element {
	var out []*element
	for _, child := range e.children {
		if child.name == "" {
			continue
		}
		if child.name == name {
			out = append(out, child)
		}
		out = append(out, child.descendants(name)...)
	}
	return out
}

// childText returns the concatenated descendant text of the first direct
// child with the given local name. Descendant text matters for tags like
// Atom's `<content>` that wrap XHTML.
func (e *element) childText(name string) string {
	for _, child := range e.children {
		if child.name == name {
			return child.allText()
		}
	}
	return ""
}

func (e *element) allText() string {
	if e.name == "" {
		return e.text
	}
	var b strings.Builder
	for _, child := range e.children {
		b.WriteString(child.allText())
	}
	return b.String()
}

func (e *element) attr(name string) string {
	for _, attr := range e.attrs {
		if attr.Name.Local == name {
			return attr.Value
		}
	}
	return ""
}
