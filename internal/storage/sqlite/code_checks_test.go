// ABOUTME: Tests for code check storage operations
// ABOUTME: Verifies verdict round-trips, upserts, newest-first listing and missing IDs
package sqlite

import (
	"reflect"
	"testing"
	"time"

	"github.com/harper/cdt-coder/internal/models"
)

func sampleCodeCheck(id string, createdAt time.Time) *models.CodeCheck {
	return &models.CodeCheck{
		ID:       id,
		Scenario: "Adult prophylaxis at a recall visit",
		Codes:    []string{"D1110", "D1120"},
		Verdicts: []models.CodeVerdict{
			{Code: "D1110", Verdict: models.VerdictApplicable, Reason: "Adult prophy"},
			{Code: "D1120", Verdict: models.VerdictNotApplicable, Reason: "Child prophy"},
		},
		RawResponse: "CDT_CODE: D1110\nAPPLICABLE: yes",
		CreatedAt:   createdAt,
	}
}

func newTestCheckStore(t *testing.T) *CodeCheckStore {
	t.Helper()
	db, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewCodeCheckStore(db)
}

func TestCodeCheckStore_SaveAndGet(t *testing.T) {
	store := newTestCheckStore(t)
	c := sampleCodeCheck("check-1", time.Now())

	if err := store.Save(c); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := store.Get("check-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil")
	}
	if got.Scenario != c.Scenario {
		t.Errorf("Scenario = %q, want %q", got.Scenario, c.Scenario)
	}
	if !reflect.DeepEqual(got.Codes, c.Codes) {
		t.Errorf("Codes = %v, want %v", got.Codes, c.Codes)
	}
	if !reflect.DeepEqual(got.Verdicts, c.Verdicts) {
		t.Errorf("Verdicts = %+v, want %+v", got.Verdicts, c.Verdicts)
	}
	if got.RawResponse != c.RawResponse {
		t.Errorf("RawResponse = %q, want %q", got.RawResponse, c.RawResponse)
	}
	if got.Error != "" {
		t.Errorf("Error = %q, want empty", got.Error)
	}
}

func TestCodeCheckStore_SaveUpdatesExisting(t *testing.T) {
	store := newTestCheckStore(t)
	c := sampleCodeCheck("check-1", time.Now())
	if err := store.Save(c); err != nil {
		t.Fatal(err)
	}

	c.Error = "rate limited"
	c.Verdicts = []models.CodeVerdict{{Code: "D1110", Verdict: models.VerdictUnknown}}
	if err := store.Save(c); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, _ := store.Get("check-1")
	if got.Error != "rate limited" {
		t.Errorf("Error = %q, want rate limited", got.Error)
	}
	if len(got.Verdicts) != 1 || got.Verdicts[0].Verdict != models.VerdictUnknown {
		t.Errorf("Verdicts = %+v, want one unknown verdict", got.Verdicts)
	}
}

func TestCodeCheckStore_SaveRequiresID(t *testing.T) {
	store := newTestCheckStore(t)
	if err := store.Save(&models.CodeCheck{Scenario: "prophy"}); err == nil {
		t.Error("Save() without ID should fail")
	}
	if err := store.Save(nil); err == nil {
		t.Error("Save(nil) should fail")
	}
}

func TestCodeCheckStore_GetMissing(t *testing.T) {
	store := newTestCheckStore(t)
	got, err := store.Get("nope")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %+v, want nil", got)
	}
}

func TestCodeCheckStore_ListNewestFirst(t *testing.T) {
	store := newTestCheckStore(t)
	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"old", "middle", "new"} {
		if err := store.Save(sampleCodeCheck(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}

	all, err := store.List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var ids []string
	for _, c := range all {
		ids = append(ids, c.ID)
	}
	if want := []string{"new", "middle", "old"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("List(0) ids = %v, want %v", ids, want)
	}

	limited, _ := store.List(2)
	if len(limited) != 2 {
		t.Errorf("List(2) returned %d checks, want 2", len(limited))
	}
}

func TestStorage_CodeChecks(t *testing.T) {
	s, err := NewStorageInMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = s.Close() }()

	if err := s.SaveCodeCheck(&models.CodeCheck{}); err == nil {
		t.Error("SaveCodeCheck() without ID should fail")
	}
	if err := s.SaveCodeCheck(sampleCodeCheck("check-1", time.Now())); err != nil {
		t.Fatalf("SaveCodeCheck() error = %v", err)
	}
	got, err := s.GetCodeCheck("check-1")
	if err != nil || got == nil {
		t.Fatalf("GetCodeCheck() = %v, %v", got, err)
	}
	list, err := s.ListCodeChecks(10)
	if err != nil || len(list) != 1 {
		t.Errorf("ListCodeChecks() = %d checks, %v; want 1", len(list), err)
	}
	// checks live apart from analyses
	if n, _ := s.CountAnalyses(); n != 0 {
		t.Errorf("CountAnalyses() = %d, want 0", n)
	}
}
