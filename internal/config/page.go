package config

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// FindSearchContainer parses an HTML page and returns the attributes of the
// first element marked with data-search. found is false when the page has
// no search container.
func FindSearchContainer(r io.Reader) (attrs Attrs, found bool, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, false, fmt.Errorf("cannot parse page: %w", err)
	}

	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && hasAttr(n, AttrContainer) {
			attrs = make(Attrs, len(n.Attr))
			for _, a := range n.Attr {
				attrs[a.Key] = a.Val
			}
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}
	if walk(doc) {
		return attrs, true, nil
	}
	return Attrs{}, false, nil
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}
