//go:build integration

package classifications_test

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/asklokesh/ebt/internal/audit"
	"github.com/asklokesh/ebt/internal/classifications"
	"github.com/asklokesh/ebt/internal/metrics"
	"github.com/asklokesh/ebt/internal/products"
	"github.com/asklokesh/ebt/internal/workflow"
	"github.com/asklokesh/ebt/pkg/pagination"
)

// Requires a migrated database; set EBT_TEST_DB_DSN to run.
func integrationDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("EBT_TEST_DB_DSN")
	if dsn == "" {
		t.Skip("EBT_TEST_DB_DSN not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		t.Fatalf("ping database: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func integrationSystem(t *testing.T, db *sql.DB) classifications.System {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	audits := audit.New(db, logger, pagination.Config{})

	return classifications.New(
		db,
		&workflow.Runtime{Logger: logger},
		audits,
		"test-model",
		logger,
		pagination.Config{},
		metrics.New(),
	)
}

func cleanupProduct(t *testing.T, db *sql.DB, productID string) {
	t.Helper()
	t.Cleanup(func() {
		// audit_trail rows cascade from classifications.
		_, err := db.Exec("DELETE FROM classifications WHERE product_id = $1", productID)
		if err != nil {
			t.Errorf("cleanup %s: %v", productID, err)
		}
	})
}

func TestClassifyIdempotence(t *testing.T) {
	db := integrationDB(t)
	sys := integrationSystem(t, db)
	ctx := context.Background()

	productID := fmt.Sprintf("it-banana-%s", uuid.New())
	cleanupProduct(t, db, productID)

	product := products.Attributes{
		ProductID:   productID,
		ProductName: "Organic Bananas",
	}

	first, err := sys.Classify(ctx, product, audit.SourceAPI, false)
	if err != nil {
		t.Fatalf("first classify failed: %v", err)
	}

	second, err := sys.Classify(ctx, product, audit.SourceAPI, false)
	if err != nil {
		t.Fatalf("second classify failed: %v", err)
	}

	if second.AuditID != first.AuditID {
		t.Errorf("audit ids %s / %s, repeat classification must reuse the stored result", first.AuditID, second.AuditID)
	}
	if second.IsEligible != first.IsEligible ||
		second.Category != first.Category ||
		second.Confidence != first.Confidence ||
		second.RequestHash != first.RequestHash {
		t.Errorf("second = %+v, want identical to first = %+v", second, first)
	}
}

func TestClassifyForceReprocess(t *testing.T) {
	db := integrationDB(t)
	sys := integrationSystem(t, db)
	ctx := context.Background()

	productID := fmt.Sprintf("it-beer-%s", uuid.New())
	cleanupProduct(t, db, productID)

	abv := 0.05
	product := products.Attributes{
		ProductID:      productID,
		ProductName:    "Budweiser Beer",
		AlcoholContent: &abv,
	}

	first, err := sys.Classify(ctx, product, audit.SourceAPI, false)
	if err != nil {
		t.Fatalf("first classify failed: %v", err)
	}

	forced, err := sys.Classify(ctx, product, audit.SourceAPI, true)
	if err != nil {
		t.Fatalf("forced classify failed: %v", err)
	}

	if forced.AuditID == first.AuditID {
		t.Error("forced reprocess must produce a new audit id")
	}
	if forced.IsEligible != first.IsEligible || forced.Category != first.Category {
		t.Errorf("forced verdict %+v differs from %+v", forced, first)
	}
}
