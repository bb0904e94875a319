package painlog

import (
	"context"
	"errors"
	"testing"
)

func storeEntry(id, date string, severity int) Entry {
	return Entry{
		ID:       id,
		Date:     date,
		Time:     "12:00:00",
		BodyPart: "knee",
		Severity: severity,
		PainType: PainSharp,
		Cause:    CauseInjury,
	}
}

func TestMemoryStoreAppendAndList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.AppendEntry(ctx, "user1", storeEntry("e1", "2024-01-01", 4)); err != nil {
		t.Fatalf("AppendEntry failed: %v", err)
	}
	if err := store.AppendEntry(ctx, "user1", storeEntry("e2", "2024-01-02", 6)); err != nil {
		t.Fatalf("AppendEntry failed: %v", err)
	}

	entries, err := store.ListEntries(ctx, "user1")
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].ID != "e1" || entries[1].ID != "e2" {
		t.Error("Entries not in insertion order")
	}

	// Other users see nothing
	other, _ := store.ListEntries(ctx, "user2")
	if len(other) != 0 {
		t.Errorf("Expected no entries for user2, got %d", len(other))
	}
}

func TestMemoryStoreDuplicateID(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.AppendEntry(ctx, "user1", storeEntry("e1", "2024-01-01", 4)); err != nil {
		t.Fatalf("AppendEntry failed: %v", err)
	}
	err := store.AppendEntry(ctx, "user1", storeEntry("e1", "2024-01-02", 5))
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}
}

func TestMemoryStoreReplace(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.AppendEntry(ctx, "user1", storeEntry("e1", "2024-01-01", 4))

	updated := storeEntry("e1", "2024-01-01", 8)
	if err := store.ReplaceEntry(ctx, "user1", updated); err != nil {
		t.Fatalf("ReplaceEntry failed: %v", err)
	}

	got, err := store.GetEntry(ctx, "user1", "e1")
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if got.Severity != 8 {
		t.Errorf("Expected severity 8 after replace, got %d", got.Severity)
	}

	err = store.ReplaceEntry(ctx, "user1", storeEntry("missing", "2024-01-01", 3))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.AppendEntry(ctx, "user1", storeEntry("e1", "2024-01-01", 4))
	store.AppendEntry(ctx, "user1", storeEntry("e2", "2024-01-02", 5))

	if err := store.DeleteEntry(ctx, "user1", "e1"); err != nil {
		t.Fatalf("DeleteEntry failed: %v", err)
	}

	if _, err := store.GetEntry(ctx, "user1", "e1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}

	entries, _ := store.ListEntries(ctx, "user1")
	if len(entries) != 1 || entries[0].ID != "e2" {
		t.Error("Remaining entries wrong after delete")
	}

	if err := store.DeleteEntry(ctx, "user1", "e1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for double delete, got %v", err)
	}
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	bad := storeEntry("e1", "2024-01-01", 12)
	if err := store.AppendEntry(ctx, "user1", bad); err == nil {
		t.Error("Expected validation error on append")
	}
}
