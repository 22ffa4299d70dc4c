package extract

import (
	"strings"
	"unicode"

	"go-dgpa-watcher/internal/models"
)

// classifyFallback recovers a reduced-confidence posting from a row the grammar rejected.
// Only rows mentioning the target family qualify; location and validity are searched
// anywhere in the row and left empty when absent.
func (e *Extractor) classifyFallback(row int, line, family string) (models.JobPosting, *models.UnparsedLine) {
	if !e.fallback {
		return models.JobPosting{}, &models.UnparsedLine{Row: row, Text: line, Reason: models.ReasonFallbackDisabled}
	}
	if family == "" || !strings.Contains(line, family) {
		return models.JobPosting{}, &models.UnparsedLine{Row: row, Text: line, Reason: models.ReasonNoMatch}
	}

	body := []rune(strings.TrimLeftFunc(line, unicode.IsSpace))
	seq := 0
	for seq < len(body) && isDigit(body[seq]) {
		seq++
	}
	body = body[seq:]

	p := models.JobPosting{
		Row:       row,
		JobFamily: family,
		RankRange: e.vocab.UnresolvedRank,
		Partial:   true,
	}

	locStart := -1
	for i := range body {
		if end, ok := e.matcher.scanLocation(body, i); ok {
			locStart = i
			p.WorkLocation = string(body[i:end])
			break
		}
	}
	for i := range body {
		if start, end, ok := scanDatePair(body, i); ok {
			p.ValidityPeriod = string(body[start:end])
			break
		}
	}

	head := string(body)
	if idx := strings.Index(head, "["+family+"]"); idx >= 0 {
		head = head[:idx]
	} else if locStart >= 0 {
		head = string(body[:locStart])
	}
	p.Title, p.Organization = SplitTitleOrg(head, e.vocab.TitleKeywords, e.vocab.FallbackTitleRunes)
	if p.Title == "" || p.Organization == "" {
		return models.JobPosting{}, &models.UnparsedLine{Row: row, Text: line, Reason: models.ReasonIncomplete}
	}
	return p, nil
}
