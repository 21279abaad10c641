package classifications

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/asklokesh/ebt/internal/audit"
	"github.com/asklokesh/ebt/internal/metrics"
	"github.com/asklokesh/ebt/internal/products"
	"github.com/asklokesh/ebt/internal/rules"
)

type staticCache struct {
	result *Classification
	err    error
	calls  int
}

func (c *staticCache) FindByProduct(ctx context.Context, productID string) (*Classification, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.result, nil
}

func cacheTestRepo(cache productCache) *repo {
	return &repo{
		cache:   cache,
		metrics: metrics.New(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestClassifyCacheHit(t *testing.T) {
	cached := &Classification{
		AuditID:     uuid.New(),
		ProductID:   "banana-1",
		ProductName: "Organic Bananas",
		IsEligible:  true,
		Category:    rules.EligibleStapleFood,
		Confidence:  1.0,
	}
	cache := &staticCache{result: cached}
	r := cacheTestRepo(cache)

	product := products.Attributes{
		ProductID:   "banana-1",
		ProductName: "Organic Bananas",
	}

	// Repeated classification of the same product must return the stored
	// result unchanged, without re-running the pipeline. The repo carries
	// no pipeline or database here, so falling through would fail loudly.
	for i := 0; i < 2; i++ {
		got, err := r.Classify(context.Background(), product, audit.SourceAPI, false)
		if err != nil {
			t.Fatalf("classify failed: %v", err)
		}
		if got.AuditID != cached.AuditID {
			t.Errorf("audit id = %s, want cached %s", got.AuditID, cached.AuditID)
		}
		if got.Category != cached.Category || got.Confidence != cached.Confidence {
			t.Errorf("result = %+v, want cached %+v", got, cached)
		}
	}

	if cache.calls != 2 {
		t.Errorf("cache consulted %d times, want 2", cache.calls)
	}
}

func TestClassifyCacheLookupFailure(t *testing.T) {
	lookupErr := errors.New("connection reset")
	r := cacheTestRepo(&staticCache{err: lookupErr})

	_, err := r.Classify(context.Background(), products.Attributes{
		ProductID:   "banana-1",
		ProductName: "Organic Bananas",
	}, audit.SourceAPI, false)

	if !errors.Is(err, lookupErr) {
		t.Errorf("err = %v, want lookup error surfaced", err)
	}
}
