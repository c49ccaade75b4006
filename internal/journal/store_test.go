package journal_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"mintkeeper/internal/journal"
)

func openStore(t *testing.T) *journal.Store {
	t.Helper()
	store, err := journal.Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRecordAssignsIDAndTimestamp(t *testing.T) {
	store := openStore(t)

	entry, err := store.Record(context.Background(), journal.Entry{
		ConfigPath: "/var/lib/mintkeeper/cdk-mintd.toml",
		ConfigHash: "abc123",
		EnvFile:    true,
		Outcome:    journal.OutcomeDeployed,
	})
	if err != nil {
		t.Fatalf("record returned error: %v", err)
	}
	if entry.ID == "" {
		t.Fatal("expected generated ID")
	}
	if entry.CreatedAt.IsZero() {
		t.Fatal("expected timestamp")
	}
}

func TestListReturnsNewestFirst(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	for _, hash := range []string{"first", "second", "third"} {
		if _, err := store.Record(ctx, journal.Entry{
			ConfigPath: "/tmp/config.toml",
			ConfigHash: hash,
			Outcome:    journal.OutcomeDeployed,
		}); err != nil {
			t.Fatalf("record %s: %v", hash, err)
		}
		time.Sleep(2 * time.Millisecond)
	}

	entries, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ConfigHash != "third" || entries[1].ConfigHash != "second" {
		t.Fatalf("unexpected order: %s, %s", entries[0].ConfigHash, entries[1].ConfigHash)
	}
}

func TestLatestOnEmptyStoreReturnsNil(t *testing.T) {
	store := openStore(t)

	entry, err := store.Latest(context.Background())
	if err != nil {
		t.Fatalf("latest returned error: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected nil entry, got %+v", entry)
	}
}

func TestLastDeployedHashSkipsFailures(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	if _, err := store.Record(ctx, journal.Entry{ConfigHash: "good", Outcome: journal.OutcomeDeployed}); err != nil {
		t.Fatalf("record: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, err := store.Record(ctx, journal.Entry{ConfigHash: "bad", Outcome: journal.OutcomeValidationFailed}); err != nil {
		t.Fatalf("record: %v", err)
	}

	hash, err := store.LastDeployedHash(ctx)
	if err != nil {
		t.Fatalf("last deployed hash: %v", err)
	}
	if hash != "good" {
		t.Fatalf("expected good, got %q", hash)
	}
}
