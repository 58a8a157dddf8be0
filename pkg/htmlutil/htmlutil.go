// Package htmlutil deals with the HTML fragments embedded in support-data
// payloads (feature descriptions and notes are shipped as HTML snippets).
package htmlutil

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Flatten reduces an HTML fragment to its plain text content, with runs of
// whitespace collapsed to single spaces. If the fragment cannot be parsed it
// is returned unchanged.
func Flatten(fragment string) string {
	if !strings.ContainsRune(fragment, '<') {
		return strings.Join(strings.Fields(fragment), " ")
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// Links returns the href values of all anchor tags in an HTML fragment, in
// document order. Anchors without an href (or with an empty one) are skipped.
func Links(fragment string) []string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil
	}

	var hrefs []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" && attr.Val != "" {
					hrefs = append(hrefs, attr.Val)
					break
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return hrefs
}
