package ledger

import (
	"database/sql"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	_ "modernc.org/sqlite"

	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/models"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/store"
)

func setupLedger(t *testing.T) (*Ledger, *store.Store) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	st := store.New(db, time.UTC)
	if err := st.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(st), st
}

func validRecord() *models.FloodRecord {
	return &models.FloodRecord{
		Event:             models.EventFlood,
		Date:              time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC),
		AffectedBarangays: "Bagtic, Balaring",
		AffectedPersons:   120,
		AffectedFamilies:  30,
	}
}

func TestValidate_AcceptsCleanRecord(t *testing.T) {
	l, _ := setupLedger(t)

	errs := l.Validate(validRecord())
	if len(errs) != 0 {
		t.Errorf("unexpected validation errors: %v", errs)
	}
}

func TestValidate_FieldErrors(t *testing.T) {
	l, _ := setupLedger(t)

	tests := []struct {
		name   string
		mutate func(*models.FloodRecord)
		field  string
	}{
		{"unknown event", func(r *models.FloodRecord) { r.Event = "Typhoon" }, "event"},
		{"missing date", func(r *models.FloodRecord) { r.Date = time.Time{} }, "date"},
		{"future date", func(r *models.FloodRecord) { r.Date = time.Now().Add(48 * time.Hour) }, "date"},
		{"no barangays", func(r *models.FloodRecord) { r.AffectedBarangays = " , " }, "affected_barangays"},
		{"unknown barangay", func(r *models.FloodRecord) { r.AffectedBarangays = "Atlantis" }, "affected_barangays"},
		{"negative deaths", func(r *models.FloodRecord) { r.CasualtiesDead = -1 }, "casualties_dead"},
		{"negative injured", func(r *models.FloodRecord) { r.CasualtiesInjured = -2 }, "casualties_injured"},
		{"negative missing", func(r *models.FloodRecord) { r.CasualtiesMissing = -1 }, "casualties_missing"},
		{"negative houses partial", func(r *models.FloodRecord) { r.HousesDamagedPartially = -1 }, "houses_damaged_partially"},
		{"negative houses total", func(r *models.FloodRecord) { r.HousesDamagedTotally = -1 }, "houses_damaged_totally"},
		{"negative infrastructure damage", func(r *models.FloodRecord) { r.DamageInfrastructure = -5 }, "damage_infrastructure_php"},
		{"negative agriculture damage", func(r *models.FloodRecord) { r.DamageAgriculture = -5 }, "damage_agriculture_php"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(rec)
			errs := l.Validate(rec)
			if _, ok := errs[tt.field]; !ok {
				t.Errorf("expected error on %q, got %v", tt.field, errs)
			}
		})
	}
}

func TestValidate_PersonsAtLeastFamilies(t *testing.T) {
	l, _ := setupLedger(t)

	rec := validRecord()
	rec.AffectedFamilies = 10
	rec.AffectedPersons = 5
	errs := l.Validate(rec)
	if _, ok := errs["affected_persons"]; !ok {
		t.Errorf("expected error on affected_persons, got %v", errs)
	}

	// Zero families places no lower bound on persons.
	rec = validRecord()
	rec.AffectedFamilies = 0
	rec.AffectedPersons = 0
	if errs := l.Validate(rec); len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestValidate_BarangayDeduplication(t *testing.T) {
	l, _ := setupLedger(t)

	rec := validRecord()
	rec.AffectedBarangays = "Bagtic, Balaring , Bagtic,Rizal"
	if errs := l.Validate(rec); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if want := "Bagtic, Balaring, Rizal"; rec.AffectedBarangays != want {
		t.Errorf("AffectedBarangays = %q, want %q", rec.AffectedBarangays, want)
	}
}

func TestValidate_DamageTotalAutoCorrection(t *testing.T) {
	l, _ := setupLedger(t)

	// A consistent total within tolerance is kept as entered.
	rec := validRecord()
	rec.DamageInfrastructure = 100
	rec.DamageAgriculture = 50
	rec.DamageInstitutions = 25
	rec.DamagePrivateCommerce = 25
	rec.DamageTotal = 150 + 50
	if errs := l.Validate(rec); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if rec.DamageTotal != 200 {
		t.Errorf("DamageTotal = %v, want 200", rec.DamageTotal)
	}

	// A drifted total is silently replaced by the computed sum.
	rec = validRecord()
	rec.DamageInfrastructure = 100
	rec.DamageAgriculture = 50
	rec.DamageInstitutions = 25
	rec.DamagePrivateCommerce = 25
	rec.DamageTotal = 9999
	if errs := l.Validate(rec); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if rec.DamageTotal != 200 {
		t.Errorf("DamageTotal = %v, want 200", rec.DamageTotal)
	}
}

func TestCreate_PersistsAndLogsActivity(t *testing.T) {
	l, st := setupLedger(t)

	res, err := l.Create(validRecord(), "admin")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !res.Success {
		t.Fatalf("Create failed: %+v", res)
	}
	if res.Record == nil || res.Record.ID == 0 {
		t.Fatalf("expected persisted record in result: %+v", res)
	}
	if want := "Flood record for Flood on 2025-06-12 has been successfully added!"; res.Message != want {
		t.Errorf("Message = %q, want %q", res.Message, want)
	}

	entries, err := st.FloodRecordActivity(10)
	if err != nil {
		t.Fatalf("FloodRecordActivity: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != models.ActionCreate {
		t.Errorf("unexpected activity: %+v", entries)
	}
}

func TestCreate_ValidationFailureTouchesNothing(t *testing.T) {
	l, st := setupLedger(t)

	rec := validRecord()
	rec.AffectedBarangays = ""
	res, err := l.Create(rec, "admin")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Success {
		t.Fatal("expected validation failure")
	}
	if len(res.Errors) == 0 {
		t.Fatal("expected field errors")
	}

	records, err := st.AllFloodRecords()
	if err != nil {
		t.Fatalf("AllFloodRecords: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("store should be untouched, got %+v", records)
	}
}

func TestUpdate_MissingRecord(t *testing.T) {
	l, _ := setupLedger(t)

	rec := validRecord()
	rec.ID = 42
	if _, err := l.Update(rec, "admin"); err != ErrNotFound {
		t.Errorf("Update: err = %v, want ErrNotFound", err)
	}
}

func TestDelete_ReportsEventAndDate(t *testing.T) {
	l, _ := setupLedger(t)

	res, err := l.Create(validRecord(), "admin")
	if err != nil || !res.Success {
		t.Fatalf("Create: %v %+v", err, res)
	}

	del, err := l.Delete(res.Record.ID, "admin")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if want := "Flood record for Flood on 2025-06-12 has been successfully deleted!"; del.Message != want {
		t.Errorf("Message = %q, want %q", del.Message, want)
	}

	if _, err := l.Delete(res.Record.ID, "admin"); err != ErrNotFound {
		t.Errorf("second Delete: err = %v, want ErrNotFound", err)
	}
}

func TestValidate_DateBoundaryWithFrozenClock(t *testing.T) {
	l, _ := setupLedger(t)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { SetClock(nil) })

	rec := validRecord()
	rec.Date = now
	if errs := l.Validate(rec); len(errs) != 0 {
		t.Errorf("date equal to now should pass, got %v", errs)
	}

	rec.Date = now.Add(time.Second)
	if errs := l.Validate(rec); errs["date"] == "" {
		t.Error("date one second in the future should fail")
	}
}
