package database

import (
	"context"
	"testing"
)

func TestOpenAndMigrate(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	version, err := Migrate(ctx, db)
	if err != nil {
		t.Fatalf("Migrate() unexpected error: %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}

	t.Run("tables exist", func(t *testing.T) {
		for _, table := range []string{"portfolio", "crypto_asset", "transaction_record", "financial_goal"} {
			var name string
			err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
			if err != nil {
				t.Errorf("table %s missing: %v", table, err)
			}
		}
	})

	t.Run("migrate is idempotent", func(t *testing.T) {
		again, err := Migrate(ctx, db)
		if err != nil {
			t.Fatalf("second Migrate() unexpected error: %v", err)
		}
		if again != version {
			t.Errorf("version changed from %d to %d", version, again)
		}
		current, err := Version(ctx, db)
		if err != nil || current != version {
			t.Errorf("Version() = %d, %v; want %d", current, err, version)
		}
	})

	t.Run("foreign keys enforced", func(t *testing.T) {
		_, err := db.Exec(`INSERT INTO crypto_asset (id, portfolio_address, symbol, amount, price_usd, network, last_updated)
			VALUES ('a', 'missing', 'BTC', '1', '1', 'bitcoin', CURRENT_TIMESTAMP)`)
		if err == nil {
			t.Error("expected foreign key violation")
		}
	})

	if err := HealthCheck(db); err != nil {
		t.Errorf("HealthCheck() unexpected error: %v", err)
	}
}
