package sqlite_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/pdfrules"
	"github.com/fwojciec/pdfrules/sqlite"
	"github.com/stretchr/testify/require"
)

// BenchmarkWALMode compares write performance between WAL and rollback journal modes.
// Each iteration adds an item to a batch and stores its result.
func BenchmarkWALMode(b *testing.B) {
	b.Run("rollback_journal", func(b *testing.B) {
		benchmarkItemWrites(b, false)
	})

	b.Run("wal_mode", func(b *testing.B) {
		benchmarkItemWrites(b, true)
	})
}

func benchmarkItemWrites(b *testing.B, useWAL bool) {
	b.Helper()

	dbPath := filepath.Join(b.TempDir(), "bench.db")
	db := sqlite.NewDB(dbPath)
	require.NoError(b, db.Open())

	ctx := context.Background()
	if useWAL {
		_, err := db.ExecContext(ctx, "PRAGMA journal_mode = WAL")
		require.NoError(b, err)
	}

	defer func() {
		db.Close()
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}()

	svc := sqlite.NewExtractionService(db)
	extraction := &pdfrules.Extraction{CustomerName: "benchmark"}
	require.NoError(b, svc.CreateExtraction(ctx, extraction))

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		item := &pdfrules.ExtractionItem{
			ExtractionID: extraction.ID,
			FilePath:     fmt.Sprintf("/uploads/pdf/invoice-%d.pdf", i),
		}
		if err := svc.CreateItem(ctx, item); err != nil {
			b.Fatal(err)
		}

		result := pdfrules.NewResult()
		result.Header.Set("invoice_no", pdfrules.String(fmt.Sprintf("INV-%d", i)))
		for j := 0; j < 10; j++ {
			line := pdfrules.NewFields()
			line.Set("product", pdfrules.String(fmt.Sprintf("Product %d", j)))
			line.Set("qty", pdfrules.String(fmt.Sprint(j+1)))
			result.Items = append(result.Items, line)
		}
		if err := svc.SetItemResult(ctx, item.ID, result); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkFindRules measures loading a customer's rule set in order.
func BenchmarkFindRules(b *testing.B) {
	db := sqlite.NewDB(":memory:")
	require.NoError(b, db.Open())
	defer db.Close()

	ctx := context.Background()
	svc := sqlite.NewRuleService(db)
	for i := 0; i < 200; i++ {
		customer := fmt.Sprintf("customer-%d", i%20)
		require.NoError(b, svc.CreateRule(ctx, &pdfrules.Rule{
			CustomerName: customer,
			FieldName:    fmt.Sprintf("field_%d", i),
			Pattern:      fmt.Sprintf(`field_%d: (\S+)`, i),
			CaptureGroup: 1,
			IsItemField:  i%2 == 0,
		}))
	}

	customer := "customer-7"
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		rules, err := svc.FindRules(ctx, pdfrules.RuleFilter{CustomerName: &customer})
		if err != nil {
			b.Fatal(err)
		}
		if len(rules) != 10 {
			b.Fatalf("got %d rules, want 10", len(rules))
		}
	}
}
