package extract

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LocateTable returns the first table whose visible text contains one of markers,
// or else the table with the most visible text. ok is false when the document has no table.
// A layout table wrapping a matching table is skipped in favour of the nested one.
func LocateTable(doc *goquery.Document, markers []string) (table *goquery.Selection, ok bool) {
	tables := doc.Find("table")
	if tables.Length() == 0 {
		return nil, false
	}

	matches := func(s *goquery.Selection) bool {
		return containsAny(visibleText(s, " "), markers)
	}

	var largest *goquery.Selection
	largestLen := -1
	tables.EachWithBreak(func(_ int, t *goquery.Selection) bool {
		text := visibleText(t, " ")
		if containsAny(text, markers) {
			if t.Find("table").FilterFunction(func(_ int, s *goquery.Selection) bool { return matches(s) }).Length() > 0 {
				// nested tables come later in document order
				return true
			}
			table = t
			return false
		}
		if n := utf8.RuneCountInString(text); n > largestLen {
			largest, largestLen = t, n
		}
		return true
	})
	if table != nil {
		return table, true
	}
	return largest, true
}

// visibleText joins every trimmed, non-empty text node under s with sep.
func visibleText(s *goquery.Selection, sep string) string {
	var parts []string
	for _, n := range s.Nodes {
		walkText(n, func(t string) {
			if t = strings.TrimSpace(t); t != "" {
				parts = append(parts, t)
			}
		})
	}
	return strings.Join(parts, sep)
}

func walkText(n *html.Node, fn func(string)) {
	switch n.Type {
	case html.TextNode:
		fn(n.Data)
		return
	case html.ElementNode:
		switch n.DataAtom {
		case atom.Script, atom.Style, atom.Noscript:
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkText(c, fn)
	}
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(text, m) {
			return true
		}
	}
	return false
}
