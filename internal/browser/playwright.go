package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

type Options struct {
	Headless bool
	// TimeoutMs is the default action and navigation timeout of new pages.
	TimeoutMs float64
}

type PlaywrightManager struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
}

// NewPlaywright starts playwright and launches Chromium with flags that keep it stable in CI containers.
func NewPlaywright(opts Options) (*PlaywrightManager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args: []string{
			"--no-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
		},
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}

	return &PlaywrightManager{pw: pw, browser: browser, opts: opts}, nil
}

// NewPage opens a page in a fresh context with a tall viewport so the whole results grid renders.
func (pm *PlaywrightManager) NewPage() (playwright.Page, error) {
	browserCtx, err := pm.browser.NewContext(playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: 1280, Height: 2000},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create new page: %w", err)
	}
	if pm.opts.TimeoutMs > 0 {
		page.SetDefaultTimeout(pm.opts.TimeoutMs)
		page.SetDefaultNavigationTimeout(pm.opts.TimeoutMs)
	}
	return page, nil
}

func (pm *PlaywrightManager) Close() error {
	if err := pm.browser.Close(); err != nil {
		_ = pm.pw.Stop()
		return fmt.Errorf("could not close browser: %w", err)
	}
	return pm.pw.Stop()
}
