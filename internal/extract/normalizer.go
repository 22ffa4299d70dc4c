package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

func totalCountPattern(v Vocabulary) *regexp.Regexp {
	if v.TotalCountPrefix == "" && v.TotalCountSuffix == "" {
		return nil
	}
	return regexp.MustCompile(regexp.QuoteMeta(v.TotalCountPrefix) + `\s*\d+\s*` + regexp.QuoteMeta(v.TotalCountSuffix))
}

// NormalizeRows flattens the rows owned by table into one line each, in document order.
// A header first row, empty rows and total-count rows are dropped.
func NormalizeRows(table *goquery.Selection, headerMarkers []string, totalCount *regexp.Regexp) []string {
	if table == nil || table.Length() == 0 {
		return nil
	}
	owner := table.Get(0)

	var lines []string
	first := true
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		// rows of nested tables belong to those tables
		if tr.Closest("table").Get(0) != owner {
			return
		}
		line := rowText(tr)
		isFirst := first
		first = false

		if isFirst && containsAny(line, headerMarkers) {
			return
		}
		if line == "" {
			return
		}
		if totalCount != nil && totalCount.MatchString(line) {
			return
		}
		lines = append(lines, line)
	})
	return lines
}

func rowText(tr *goquery.Selection) string {
	var sb strings.Builder
	tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
		sb.WriteString(cleanCell(visibleText(cell, "")))
	})
	return sb.String()
}

// cleanCell folds full-width ASCII (［］：～０-９) to its narrow form so the grammar
// sees one spelling of every delimiter.
func cleanCell(s string) string {
	s = norm.NFC.String(s)
	s = width.Fold.String(s)
	return strings.TrimSpace(s)
}
