package dgpa

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-dgpa-watcher/internal/browser"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// ASP.NET control ids of the vacancy search form.
const (
	keywordBlockSelector = "#ctl00_ContentPlaceHolder1_trPerson4"
	keywordInputSelector = "#ctl00_ContentPlaceHolder1_trPerson4 input"
	autocompleteSelector = ".ui-autocomplete li, .ui-menu-item"
	queryButtonSelector  = "#ctl00_ContentPlaceHolder1_btnQUERY"
	resultRowSelector    = "table tr"
)

var ErrNoContent = errors.New("沒有找到職缺表格")

type Options struct {
	URL        string
	Retries    int
	RetryDelay time.Duration
	// TimeoutMs bounds each navigation and wait.
	TimeoutMs float64
	// AutocompleteTimeoutMs bounds the wait for the suggestion list, which may never appear.
	AutocompleteTimeoutMs float64
}

type Scraper struct {
	opts   Options
	logger *zap.Logger
	shots  *browser.ScreenshotDebugger
}

func NewScraper(opts Options, logger *zap.Logger, shots *browser.ScreenshotDebugger) *Scraper {
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 3 * time.Second
	}
	if opts.TimeoutMs <= 0 {
		opts.TimeoutMs = 45000
	}
	if opts.AutocompleteTimeoutMs <= 0 {
		opts.AutocompleteTimeoutMs = 5000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{opts: opts, logger: logger, shots: shots}
}

func (s *Scraper) Name() string {
	return "DGPA"
}

// Acquire fills the keyword block, submits the query and returns the page HTML.
func (s *Scraper) Acquire(ctx context.Context, page playwright.Page, keyword string) (string, error) {
	s.logger.Info("📋 Loading DGPA vacancy search...")
	if err := s.robustGoto(ctx, page); err != nil {
		s.capture(page, "dgpa-navigation")
		return "", err
	}

	html, err := s.search(ctx, page, keyword)
	if err != nil {
		s.capture(page, "dgpa-search")
		return "", err
	}
	return html, nil
}

func (s *Scraper) search(ctx context.Context, page playwright.Page, keyword string) (string, error) {
	timeout := playwright.Float(s.opts.TimeoutMs)

	//the page is ASP.NET and redraws on interaction, so every step waits explicitly
	if err := page.Locator(keywordBlockSelector).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: timeout,
	}); err != nil {
		return "", fmt.Errorf("keyword block not found: %w", err)
	}

	input := page.Locator(keywordInputSelector).First()
	if err := input.Fill(keyword, playwright.LocatorFillOptions{Timeout: timeout}); err != nil {
		return "", fmt.Errorf("failed to type keyword: %w", err)
	}

	//pick the first suggestion when the autocomplete list shows up, otherwise keep the typed value
	if err := page.Locator(autocompleteSelector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(s.opts.AutocompleteTimeoutMs),
	}); err == nil {
		_ = input.Press("ArrowDown")
		_ = input.Press("Enter")
	}
	s.logger.Info("Keyword selected", zap.String("keyword", keyword))

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := page.Locator(queryButtonSelector).Click(playwright.LocatorClickOptions{Timeout: timeout}); err != nil {
		return "", fmt.Errorf("failed to submit query: %w", err)
	}
	s.logger.Info("🔍 Querying...")

	if err := page.Locator(resultRowSelector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: timeout,
	}); err != nil {
		return "", fmt.Errorf("results table did not appear: %w", err)
	}

	html, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	if html == "" {
		return "", ErrNoContent
	}
	s.logger.Info("✅ Results page acquired", zap.Int("bytes", len(html)))
	return html, nil
}

// navigator is the part of playwright.Page used for loading the search page.
type navigator interface {
	Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error)
}

// robustGoto retries navigation so a single network hiccup does not fail the run.
func (s *Scraper) robustGoto(ctx context.Context, nav navigator) error {
	attempts := s.opts.Retries + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 1; i <= attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.logger.Info("➡️ Visiting", zap.String("url", s.opts.URL), zap.Int("attempt", i), zap.Int("attempts", attempts))

		_, err := nav.Goto(s.opts.URL, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
			Timeout:   playwright.Float(s.opts.TimeoutMs),
		})
		if err == nil {
			return nil
		}
		lastErr = err
		if i == attempts {
			break
		}

		s.logger.Warn("⚠️ Navigation failed, retrying", zap.Error(err), zap.Duration("delay", s.opts.RetryDelay))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.opts.RetryDelay):
		}
	}
	return fmt.Errorf("navigation to %s failed after %d attempts: %w", s.opts.URL, attempts, lastErr)
}

func (s *Scraper) capture(page playwright.Page, name string) {
	if s.shots == nil {
		return
	}
	_ = s.shots.CaptureAndLog(page, name, "🚨 DGPA: acquisition failed")
}
