package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestExtract_ConcurrentCallsShareOneExtractor(t *testing.T) {
	e := New()
	page := resultsPage(rowFull, rowGarbage, rowNoValidity, rowSecond, rowFooter)
	want := mustExtract(t, e, page)

	results := make([]Result, 16)
	var g errgroup.Group
	for i := range results {
		g.Go(func() error {
			res, err := e.Extract(page, "統計")
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("extract: %v", err)
	}

	for i, got := range results {
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("result %d differs (-want +got):\n%s", i, diff)
		}
	}
}
