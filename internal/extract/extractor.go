// Package extract turns the scraped DGPA results table into job postings.
//
// An Extractor is immutable once built and performs no I/O, so a single instance can
// serve any number of concurrent Extract calls.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go-dgpa-watcher/internal/models"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ErrMalformedInput is returned for markup that is not valid UTF-8 text.
var ErrMalformedInput = errors.New("malformed markup")

type Extractor struct {
	vocab      Vocabulary
	fallback   bool
	matcher    *matcher
	totalCount *regexp.Regexp
	logger     *zap.Logger
}

type Option func(*Extractor)

// WithVocabulary replaces the default DGPA vocabulary.
func WithVocabulary(v Vocabulary) Option {
	return func(e *Extractor) {
		e.vocab = v.clone()
	}
}

// WithFallback toggles the fallback classifier. It is on by default.
func WithFallback(enabled bool) Option {
	return func(e *Extractor) {
		e.fallback = enabled
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		if l != nil {
			e.logger = l
		}
	}
}

func New(opts ...Option) *Extractor {
	e := &Extractor{
		vocab:    DefaultVocabulary(),
		fallback: true,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.matcher = newMatcher(e.vocab)
	e.totalCount = totalCountPattern(e.vocab)
	return e
}

// Vocabulary returns a copy of the vocabulary in use.
func (e *Extractor) Vocabulary() Vocabulary {
	return e.vocab.clone()
}

// Extract parses markup and returns the postings of its results table. keyword is the
// search keyword of the scrape; empty means the vocabulary default. A document without
// any table is not an error.
func (e *Extractor) Extract(markup, keyword string) (Result, error) {
	if !utf8.ValidString(markup) {
		return Result{}, ErrMalformedInput
	}
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		keyword = e.vocab.DefaultKeyword
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return Result{}, fmt.Errorf("failed to parse markup: %w", err)
	}

	markers := append(append([]string(nil), e.vocab.TableMarkers...), keyword)
	table, ok := LocateTable(doc, markers)
	if !ok {
		e.logger.Warn("⚠️ No table detected, returning 0 postings")
		return Result{Postings: []models.JobPosting{}, Unparsed: []models.UnparsedLine{}}, nil
	}

	rows := NormalizeRows(table, e.vocab.HeaderMarkers, e.totalCount)
	e.logger.Debug("🔍 Rows normalized", zap.Int("rows", len(rows)))

	asm := newAssembler(len(rows))
	for i, line := range rows {
		if p, ok := e.parseLine(i, line); ok {
			asm.addPosting(p)
			continue
		}
		p, unparsed := e.classifyFallback(i, line, keyword)
		if unparsed != nil {
			e.logger.Debug("Unparsed row",
				zap.Int("row", i),
				zap.String("reason", string(unparsed.Reason)),
				zap.String("text", line))
			asm.addUnparsed(*unparsed)
			continue
		}
		asm.addPosting(p)
	}

	res := asm.result()
	e.logger.Info("✅ Postings extracted",
		zap.String("keyword", keyword),
		zap.Int("postings", len(res.Postings)),
		zap.Int("unparsed", len(res.Unparsed)))
	return res, nil
}

// parseLine runs the primary grammar. A split that leaves title or organization
// empty counts as a mismatch.
func (e *Extractor) parseLine(row int, line string) (models.JobPosting, bool) {
	f, ok := e.matcher.match(line)
	if !ok {
		return models.JobPosting{}, false
	}
	title, org := SplitTitleOrg(f.span, e.vocab.TitleKeywords, e.vocab.FallbackTitleRunes)
	if title == "" || org == "" {
		return models.JobPosting{}, false
	}
	return models.JobPosting{
		Row:            row,
		Title:          title,
		Organization:   org,
		JobFamily:      f.family,
		RankRange:      f.rank,
		WorkLocation:   f.location,
		ValidityPeriod: f.validity,
		Remarks:        f.remarks,
	}, true
}
