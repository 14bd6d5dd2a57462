// ABOUTME: Tests for the Storage facade
// ABOUTME: Verifies file-backed storage, ID prefix resolution and code search
package sqlite

import (
	"path/filepath"
	"testing"
	"time"
)

func TestNewStorageWithPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history", "cdtcoder.db")
	store, err := NewStorageWithPath(dbPath)
	if err != nil {
		t.Fatalf("NewStorageWithPath() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	if store.Path() != dbPath {
		t.Errorf("Path() = %v, want %v", store.Path(), dbPath)
	}

	if err := store.SaveAnalysis(sampleAnalysis("persisted", time.Now(), "D3330")); err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}
	_ = store.Close()

	reopened, err := NewStorageWithPath(dbPath)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	got, err := reopened.GetAnalysis("persisted")
	if err != nil {
		t.Fatalf("GetAnalysis() error = %v", err)
	}
	if got == nil {
		t.Fatal("analysis did not survive reopening the database")
	}
}

func TestResolveAnalysis(t *testing.T) {
	store, err := NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	base := time.Now().Add(-time.Minute)
	_ = store.SaveAnalysis(sampleAnalysis("abc123", base, "D3330"))
	_ = store.SaveAnalysis(sampleAnalysis("abd456", base.Add(time.Second), "D0220"))

	tests := []struct {
		ref     string
		wantID  string
		wantErr bool
	}{
		{"abc123", "abc123", false},
		{"abd", "abd456", false},
		{"latest", "abd456", false},
		{"", "abd456", false},
		{"ab", "", true},
		{"zzz", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := store.ResolveAnalysis(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveAnalysis(%q) error = %v, wantErr %v", tt.ref, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			gotID := ""
			if got != nil {
				gotID = got.ID
			}
			if gotID != tt.wantID {
				t.Errorf("ResolveAnalysis(%q) = %q, want %q", tt.ref, gotID, tt.wantID)
			}
		})
	}
}

func TestStorage_CountAndFind(t *testing.T) {
	store, err := NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	_ = store.SaveAnalysis(sampleAnalysis("one", time.Now(), "D3330"))
	_ = store.SaveAnalysis(sampleAnalysis("two", time.Now(), "D3330", "D0220"))

	n, err := store.CountAnalyses()
	if err != nil || n != 2 {
		t.Errorf("CountAnalyses() = %d, %v; want 2", n, err)
	}

	found, err := store.FindAnalysesByCode(" d0220 ")
	if err != nil {
		t.Fatalf("FindAnalysesByCode() error = %v", err)
	}
	if len(found) != 1 || found[0].ID != "two" {
		t.Errorf("FindAnalysesByCode() = %v", found)
	}

	if err := store.DeleteAnalysis("one"); err != nil {
		t.Errorf("DeleteAnalysis() error = %v", err)
	}
	list, _ := store.ListAnalyses(10)
	if len(list) != 1 {
		t.Errorf("ListAnalyses() returned %d, want 1", len(list))
	}
}

func TestResolveAnalysis_IgnoresCorruptRows(t *testing.T) {
	store, err := NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveAnalysis(sampleAnalysis("good-1234", time.Now(), "D3330")); err != nil {
		t.Fatalf("SaveAnalysis() error = %v", err)
	}
	if _, err := store.db.Exec(`INSERT INTO analyses (id, scenario, ranges) VALUES ('broken-1', 'x', 'not json')`); err != nil {
		t.Fatalf("insert corrupt row: %v", err)
	}

	got, err := store.ResolveAnalysis("good")
	if err != nil {
		t.Fatalf("ResolveAnalysis() error = %v", err)
	}
	if got == nil || got.ID != "good-1234" {
		t.Errorf("ResolveAnalysis(\"good\") = %v, want good-1234", got)
	}
}

func TestResolveAnalysis_WildcardsAreLiteral(t *testing.T) {
	store, err := NewStorageInMemory()
	if err != nil {
		t.Fatalf("NewStorageInMemory() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	_ = store.SaveAnalysis(sampleAnalysis("abc123", time.Now(), "D3330"))

	for _, ref := range []string{"%", "_bc", "a%"} {
		got, err := store.ResolveAnalysis(ref)
		if err != nil {
			t.Errorf("ResolveAnalysis(%q) error = %v", ref, err)
		}
		if got != nil {
			t.Errorf("ResolveAnalysis(%q) = %s, want no match", ref, got.ID)
		}
	}
}
