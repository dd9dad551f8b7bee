package assessment

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/store"
)

func TestLookup_KnownCodes(t *testing.T) {
	tests := []struct {
		code           string
		description    string
		zone           string
		susceptibility string
	}{
		{CodeLow, "Low Flood Susceptibility", "SAFE ZONE", "LOW FLOOD SUSCEPTIBILITY"},
		{CodeModerate, "Moderate Flood Susceptibility", "CONTROLLED ZONE", "MODERATE FLOOD SUSCEPTIBILITY"},
		{CodeHigh, "High Flood Susceptibility", "CRITICAL ZONE", "HIGH FLOOD SUSCEPTIBILITY"},
		{CodeVeryHigh, "Very High Flood Susceptibility", "NO HABITATION/BUILD ZONE", "VERY HIGH FLOOD SUSCEPTIBILITY"},
	}
	for _, tt := range tests {
		got := Lookup(tt.code)
		if got.Description != tt.description {
			t.Errorf("Lookup(%q).Description = %q, want %q", tt.code, got.Description, tt.description)
		}
		if got.ZoneStatus != tt.zone {
			t.Errorf("Lookup(%q).ZoneStatus = %q, want %q", tt.code, got.ZoneStatus, tt.zone)
		}
		if got.Susceptibility != tt.susceptibility {
			t.Errorf("Lookup(%q).Susceptibility = %q, want %q", tt.code, got.Susceptibility, tt.susceptibility)
		}
		if !strings.Contains(got.Recommendation, "mitigation measures") {
			t.Errorf("Lookup(%q) recommendation missing mitigation note", tt.code)
		}
	}
}

func TestLookup_UnknownCode(t *testing.T) {
	got := Lookup("XYZ")
	if got.Label != "Unknown Risk Level" {
		t.Errorf("Label = %q, want Unknown Risk Level", got.Label)
	}
	if got.Assessment != "No risk data available" {
		t.Errorf("Assessment = %q", got.Assessment)
	}
	if got.ZoneStatus != "" {
		t.Errorf("ZoneStatus = %q, want empty", got.ZoneStatus)
	}
	if got.Code != "XYZ" {
		t.Errorf("Code = %q, want XYZ", got.Code)
	}
}

func setupService(t *testing.T) (*Service, *store.Store) {
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
	return NewService(st), st
}

func TestSaveAssessment(t *testing.T) {
	svc, st := setupService(t)

	rec, err := svc.SaveAssessment("staff", "Guinhalaran", "10.7688", "122.9796", CodeHigh)
	if err != nil {
		t.Fatalf("SaveAssessment: %v", err)
	}
	if rec.ID == 0 {
		t.Fatal("expected assessment ID to be set")
	}
	if rec.Description != "High Flood Susceptibility" {
		t.Errorf("Description = %q", rec.Description)
	}

	saved, err := st.AssessmentRecords(10)
	if err != nil {
		t.Fatalf("AssessmentRecords: %v", err)
	}
	if len(saved) != 1 || saved[0].Barangay != "Guinhalaran" {
		t.Errorf("unexpected saved records: %+v", saved)
	}
}

func TestSaveReport_StoresLabel(t *testing.T) {
	svc, st := setupService(t)

	rec, err := svc.SaveReport("staff", "Mambulac", "10.8001", "122.9610", CodeVeryHigh)
	if err != nil {
		t.Fatalf("SaveReport: %v", err)
	}
	if want := "Very High Susceptibility; more than 2 meters flood height and/or more than 3 days flooding"; rec.RiskLabel != want {
		t.Errorf("RiskLabel = %q, want %q", rec.RiskLabel, want)
	}

	saved, err := st.ReportRecords(10)
	if err != nil {
		t.Fatalf("ReportRecords: %v", err)
	}
	if len(saved) != 1 || saved[0].RiskCode != CodeVeryHigh {
		t.Errorf("unexpected saved records: %+v", saved)
	}
}
