package database

import (
	"testing"

	"brandnet/internal/models"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed only inserts when the settings table is empty; calling it twice
	// must not error or duplicate rows.
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM newsletter_settings").Scan(&n); err != nil {
		t.Fatalf("count settings: %v", err)
	}
	if n < len(models.Brands) {
		t.Errorf("expected at least %d newsletter settings rows, got %d", len(models.Brands), n)
	}
}
