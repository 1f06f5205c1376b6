package settings

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	s, err := OpenSQL(filepath.Join(t.TempDir(), "settings.db"), nil)
	if err != nil {
		t.Fatalf("OpenSQL: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLStoreRoundTrip(t *testing.T) {
	s := openTestStore(t)

	s.SetBool(KeyEnabled, true)
	s.SetInt(KeyBorderRadius, 16)
	s.SetDouble(KeyPanelOpacity, 0.42)
	s.SetString(KeySourceTheme, "ZorinGreen-Light")

	if !s.GetBool(KeyEnabled) {
		t.Error("GetBool = false")
	}
	if got := s.GetInt(KeyBorderRadius); got != 16 {
		t.Errorf("GetInt = %v", got)
	}
	if got := s.GetDouble(KeyPanelOpacity); got != 0.42 {
		t.Errorf("GetDouble = %v", got)
	}
	if got := s.GetString(KeySourceTheme); got != "ZorinGreen-Light" {
		t.Errorf("GetString = %q", got)
	}
}

func TestSQLStoreMissingKeyFallsBack(t *testing.T) {
	s := openTestStore(t)
	if got := s.GetDouble(KeyPopupOpacity); got != 0.95 {
		t.Errorf("missing key = %v, want default 0.95", got)
	}
}

func TestSQLStoreTypeMismatchFallsBack(t *testing.T) {
	s := openTestStore(t)
	s.SetString(KeyBorderRadius, "not-a-number")
	if got := s.GetInt(KeyBorderRadius); got != 12 {
		t.Errorf("mismatched type = %v, want default 12", got)
	}
}

func TestSQLStoreBatchNotifiesOnCommit(t *testing.T) {
	s := openTestStore(t)
	fired := 0
	s.Subscribe(KeyPanelColor, func(string) { fired++ })

	s.BeginBatch()
	s.SetString(KeyPanelColor, "#0000ff")
	if fired != 0 {
		t.Fatal("notification before commit")
	}
	s.CommitBatch()
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
	if got := s.GetString(KeyPanelColor); got != "#0000ff" {
		t.Errorf("batched write lost: %q", got)
	}
}
