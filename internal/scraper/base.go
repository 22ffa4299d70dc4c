// Define an interface for page acquirers
// Acquirers hand raw HTML to the extraction pipeline

package scraper

import (
	"context"

	"github.com/playwright-community/playwright-go"
)

// Acquirer drives a browser page to a results table and returns the page HTML.
type Acquirer interface {
	//Acquire runs a search for keyword and returns the resulting markup
	Acquire(ctx context.Context, page playwright.Page, keyword string) (string, error)

	//Name is the site name (DGPA, ...)
	Name() string
}
