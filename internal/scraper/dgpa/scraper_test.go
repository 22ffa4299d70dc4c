package dgpa

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
)

type fakeNavigator struct {
	failures int
	calls    int
}

func (f *fakeNavigator) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("net::ERR_TIMED_OUT")
	}
	return nil, nil
}

func newTestScraper(retries int) *Scraper {
	return NewScraper(Options{
		URL:        "https://example.test/search",
		Retries:    retries,
		RetryDelay: time.Millisecond,
	}, nil, nil)
}

func TestRobustGoto(t *testing.T) {
	tests := []struct {
		name      string
		retries   int
		failures  int
		wantCalls int
		wantErr   bool
	}{
		{"first attempt succeeds", 2, 0, 1, false},
		{"recovers on last retry", 2, 2, 3, false},
		{"gives up after retries", 2, 5, 3, true},
		{"no retries", 0, 1, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := &fakeNavigator{failures: tt.failures}
			err := newTestScraper(tt.retries).robustGoto(context.Background(), nav)

			assert.Equal(t, tt.wantCalls, nav.calls)
			if tt.wantErr {
				assert.ErrorContains(t, err, "ERR_TIMED_OUT")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRobustGotoStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	nav := &fakeNavigator{}
	err := newTestScraper(2).robustGoto(ctx, nav)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, nav.calls)
}

func TestName(t *testing.T) {
	assert.Equal(t, "DGPA", newTestScraper(0).Name())
}
