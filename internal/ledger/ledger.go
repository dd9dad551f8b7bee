// Package ledger validates and persists historical flood event records.
// All writes flow through it so the activity log stays consistent with the
// records table.
package ledger

import (
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/models"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/store"
)

// ErrNotFound reports that a flood record does not exist.
var ErrNotFound = store.ErrNotFound

// Barangays is the fixed list of Silay City barangays a flood record may
// reference.
var Barangays = []string{
	"Balaring",
	"Barangay I (Pob.)",
	"Barangay II (Pob.)",
	"Barangay III (Pob.)",
	"Barangay IV (Pob.)",
	"Barangay V (Pob.)",
	"Barangay VI Pob. (Hawaiian)",
	"Eustaquio Lopez",
	"Guimbala-on",
	"Guinhalaran",
	"Kapitan Ramon",
	"Lantad",
	"Mambulac",
	"Rizal",
	"Bagtic",
	"Patag",
}

// totalTolerance is the allowed drift between the entered damage total and
// the sum of the category amounts before the total is auto-corrected.
const totalTolerance = 0.01

var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for the future-date check. Pass nil
// to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Result is the outcome of a create or update attempt. On validation
// failure Errors maps field names to messages and the store is untouched.
type Result struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Errors  map[string]string   `json:"errors,omitempty"`
	Record  *models.FloodRecord `json:"record,omitempty"`
}

type Ledger struct {
	store *store.Store
}

func New(st *store.Store) *Ledger {
	return &Ledger{store: st}
}

// Validate checks a flood record and returns field-keyed error messages.
// An empty map means the record is acceptable. Validate also normalizes
// the barangay list (trimmed, deduplicated) and silently corrects the
// damage total when it drifts from the sum of the category amounts.
func (l *Ledger) Validate(rec *models.FloodRecord) map[string]string {
	errs := make(map[string]string)

	if rec.Event != models.EventFlood && rec.Event != models.EventFlashFlood {
		errs["event"] = "Please select an event type."
	}

	if rec.Date.IsZero() {
		errs["date"] = "Please provide the date and time of the flood event."
	} else if rec.Date.After(clock.Now()) {
		errs["date"] = "The flood event date cannot be in the future."
	}

	if normalized, msg := normalizeBarangays(rec.AffectedBarangays); msg != "" {
		errs["affected_barangays"] = msg
	} else {
		rec.AffectedBarangays = normalized
	}

	counts := []struct {
		field   string
		value   int
		message string
	}{
		{"casualties_dead", rec.CasualtiesDead, "Number of deaths cannot be negative."},
		{"casualties_injured", rec.CasualtiesInjured, "Number of injured cannot be negative."},
		{"casualties_missing", rec.CasualtiesMissing, "Number of missing persons cannot be negative."},
		{"affected_persons", rec.AffectedPersons, "Number of affected persons cannot be negative."},
		{"affected_families", rec.AffectedFamilies, "Number of affected families cannot be negative."},
		{"houses_damaged_partially", rec.HousesDamagedPartially, "Number cannot be negative."},
		{"houses_damaged_totally", rec.HousesDamagedTotally, "Number cannot be negative."},
	}
	for _, c := range counts {
		if c.value < 0 {
			errs[c.field] = c.message
		}
	}

	if rec.AffectedFamilies > 0 && rec.AffectedPersons < rec.AffectedFamilies {
		errs["affected_persons"] = "Number of affected persons should be at least equal to the number of affected families."
	}

	damages := []struct {
		field string
		value float64
	}{
		{"damage_infrastructure_php", rec.DamageInfrastructure},
		{"damage_agriculture_php", rec.DamageAgriculture},
		{"damage_institutions_php", rec.DamageInstitutions},
		{"damage_private_commercial_php", rec.DamagePrivateCommerce},
	}
	for _, d := range damages {
		if d.value < 0 {
			errs[d.field] = "Damage amount cannot be negative."
		}
	}

	calculated := rec.DamageInfrastructure + rec.DamageAgriculture +
		rec.DamageInstitutions + rec.DamagePrivateCommerce
	if math.Abs(calculated-rec.DamageTotal) > totalTolerance {
		rec.DamageTotal = calculated
	}

	return errs
}

// normalizeBarangays trims, validates and deduplicates the comma-separated
// barangay list. The second return value is a user-facing error message,
// empty when the list is valid.
func normalizeBarangays(raw string) (string, string) {
	var listed []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			listed = append(listed, b)
		}
	}
	if len(listed) == 0 {
		return "", "At least one barangay must be selected."
	}

	valid := make(map[string]bool, len(Barangays))
	for _, b := range Barangays {
		valid[b] = true
	}

	var invalid []string
	for _, b := range listed {
		if !valid[b] {
			invalid = append(invalid, b)
		}
	}
	if len(invalid) > 0 {
		return "", "Invalid barangay names: " + strings.Join(invalid, ", ")
	}

	seen := make(map[string]bool, len(listed))
	var unique []string
	for _, b := range listed {
		if !seen[b] {
			seen[b] = true
			unique = append(unique, b)
		}
	}
	return strings.Join(unique, ", "), ""
}

// Create validates and stores a new flood record, writing a CREATE entry
// to the activity log.
func (l *Ledger) Create(rec *models.FloodRecord, actor string) (Result, error) {
	if errs := l.Validate(rec); len(errs) > 0 {
		return Result{
			Success: false,
			Message: "Please correct the errors below and try again.",
			Errors:  errs,
		}, nil
	}

	if err := l.store.CreateFloodRecord(rec, actor); err != nil {
		return Result{}, fmt.Errorf("create flood record: %w", err)
	}

	log.Printf("ledger: flood record created: %d - %s on %s", rec.ID, rec.Event, rec.Date.Format("2006-01-02"))
	return Result{
		Success: true,
		Message: fmt.Sprintf("Flood record for %s on %s has been successfully added!", rec.Event, rec.Date.Format("2006-01-02")),
		Record:  rec,
	}, nil
}

// Update validates and overwrites an existing flood record, writing an
// UPDATE entry to the activity log. Returns ErrNotFound when the record
// does not exist.
func (l *Ledger) Update(rec *models.FloodRecord, actor string) (Result, error) {
	if errs := l.Validate(rec); len(errs) > 0 {
		return Result{
			Success: false,
			Message: "Please correct the errors below and try again.",
			Errors:  errs,
		}, nil
	}

	if err := l.store.UpdateFloodRecord(rec, actor); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Result{}, ErrNotFound
		}
		return Result{}, fmt.Errorf("update flood record: %w", err)
	}

	log.Printf("ledger: flood record updated: %d - %s", rec.ID, rec.Event)
	return Result{
		Success: true,
		Message: fmt.Sprintf("Flood record for %s on %s has been successfully updated!", rec.Event, rec.Date.Format("2006-01-02")),
		Record:  rec,
	}, nil
}

// Delete removes a flood record. Deletions are intentionally absent from
// the activity log.
func (l *Ledger) Delete(id int64, actor string) (Result, error) {
	rec, err := l.store.GetFloodRecord(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Result{}, ErrNotFound
		}
		return Result{}, fmt.Errorf("load flood record: %w", err)
	}

	if err := l.store.DeleteFloodRecord(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Result{}, ErrNotFound
		}
		return Result{}, fmt.Errorf("delete flood record: %w", err)
	}

	log.Printf("ledger: flood record deleted: %d - %s", id, rec.Event)
	return Result{
		Success: true,
		Message: fmt.Sprintf("Flood record for %s on %s has been successfully deleted!", rec.Event, rec.Date.Format("2006-01-02")),
	}, nil
}
