package progress

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	store := NewMemStore()

	Save(store, "deck.md", 7)
	if got := Load(store, 10); got != 7 {
		t.Errorf("expected index 7, got %d", got)
	}
}

func TestSaveLoad_RoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		total := rapid.IntRange(1, 500).Draw(t, "total")
		index := rapid.IntRange(0, total-1).Draw(t, "index")

		store := NewMemStore()
		Save(store, "deck.md", index)
		if got := Load(store, total); got != index {
			t.Fatalf("round trip: saved %d, loaded %d (total %d)", index, got, total)
		}
	})
}

func TestLoad_MissingKey(t *testing.T) {
	if got := Load(NewMemStore(), 10); got != 0 {
		t.Errorf("missing key should yield 0, got %d", got)
	}
}

func TestLoad_NilStore(t *testing.T) {
	if got := Load(nil, 10); got != 0 {
		t.Errorf("nil store should yield 0, got %d", got)
	}
}

func TestLoad_CorruptValue(t *testing.T) {
	for _, value := range []string{"not a number", "", "{broken json", "3.7", "NaN"} {
		store := NewMemStore()
		if err := store.Set(ProgressKey, value); err != nil {
			t.Fatal(err)
		}
		if got := Load(store, 10); got != 0 {
			t.Errorf("corrupt value %q should yield 0, got %d", value, got)
		}
	}
}

func TestLoad_OutOfRange(t *testing.T) {
	for _, index := range []int{-1, 10, 500} {
		store := NewMemStore()
		Save(store, "deck.md", index)
		if got := Load(store, 10); got != 0 {
			t.Errorf("out-of-range index %d should yield 0, got %d", index, got)
		}
	}
}

func TestLoad_ShrunkDeck(t *testing.T) {
	store := NewMemStore()
	Save(store, "deck.md", 8)
	// The deck lost slides since the last run; the saved index no longer fits.
	if got := Load(store, 5); got != 0 {
		t.Errorf("index beyond the shrunk deck should yield 0, got %d", got)
	}
}

func TestLoad_LegacyBareInteger(t *testing.T) {
	store := NewMemStore()
	if err := store.Set(ProgressKey, "4"); err != nil {
		t.Fatal(err)
	}
	if got := Load(store, 10); got != 4 {
		t.Errorf("legacy bare integer should load, got %d", got)
	}
}

func TestSave_StorageFailureIsSwallowed(t *testing.T) {
	store := NewMemStore()
	store.FailWrites = true

	// Must not panic or surface the error in any way.
	Save(store, "deck.md", 3)

	store.FailWrites = false
	if got := Load(store, 10); got != 0 {
		t.Errorf("failed write should leave no state, got %d", got)
	}
}

func TestLoad_StorageFailureIsSwallowed(t *testing.T) {
	store := NewMemStore()
	Save(store, "deck.md", 3)
	store.FailReads = true
	if got := Load(store, 10); got != 0 {
		t.Errorf("failed read should yield 0, got %d", got)
	}
}

func TestSave_NilStoreIsNoOp(t *testing.T) {
	Save(nil, "deck.md", 3)
}

func TestSave_OverwritesPreviousPosition(t *testing.T) {
	store := NewMemStore()
	for i := 0; i < 5; i++ {
		Save(store, "deck.md", i)
	}
	if got := Load(store, 10); got != 4 {
		t.Errorf("expected the last saved index 4, got %d", got)
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	store, err := OpenSQLite(t.TempDir() + "/progress.db")
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	defer store.Close()

	if _, err := store.Get("missing"); err == nil {
		t.Error("expected an error for a missing key")
	}

	if err := store.Set(ProgressKey, "12"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ProgressKey, "13"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := store.Get(ProgressKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "13" {
		t.Errorf("expected %q, got %q", "13", got)
	}
}

func TestSQLiteStore_PersistsAcrossOpens(t *testing.T) {
	path := t.TempDir() + "/progress.db"

	store, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	Save(store, "deck.md", 6)
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := OpenSQLite(path)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()
	if got := Load(reopened, 10); got != 6 {
		t.Errorf("expected persisted index 6, got %d", got)
	}
}

func TestProgressKey_IsStable(t *testing.T) {
	// The key is a durable storage contract shared with older releases.
	if ProgressKey != "presentationProgress" {
		t.Errorf("unexpected progress key %q", ProgressKey)
	}
}

func TestParseIndex(t *testing.T) {
	cases := []struct {
		value string
		want  int
		ok    bool
	}{
		{`{"index":3,"deck":"deck.md","updated_at":"2026-08-01T00:00:00Z"}`, 3, true},
		{`{"index":0}`, 0, true},
		{"7", 7, true},
		{"-2", -2, true},
		{"x", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%.20q", tc.value), func(t *testing.T) {
			got, ok := parseIndex(tc.value)
			if got != tc.want || ok != tc.ok {
				t.Errorf("parseIndex(%q) = (%d, %v), want (%d, %v)", tc.value, got, ok, tc.want, tc.ok)
			}
		})
	}
}
