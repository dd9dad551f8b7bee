package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/models"
)

// ErrNotFound is returned when a flood record lookup matches no row.
var ErrNotFound = errors.New("store: record not found")

type Store struct {
	db  *sql.DB
	loc *time.Location
}

func New(db *sql.DB, loc *time.Location) *Store {
	return &Store{db: db, loc: loc}
}

// Location returns the local timezone used for chart labels.
func (s *Store) Location() *time.Location {
	return s.loc
}

func (s *Store) InsertReading(r models.Reading) error {
	_, err := s.db.Exec(`
		INSERT INTO readings (kind, value, station, recorded_at)
		VALUES (?, ?, ?, ?)
	`, r.Kind, r.Value, r.Station, r.Timestamp.UTC())
	return err
}

// LatestReading returns the most recent reading of the given kind, or nil
// if none has been recorded yet.
func (s *Store) LatestReading(kind string) (*models.Reading, error) {
	var r models.Reading
	err := s.db.QueryRow(`
		SELECT id, kind, value, station, recorded_at
		FROM readings
		WHERE kind = ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1
	`, kind).Scan(&r.ID, &r.Kind, &r.Value, &r.Station, &r.Timestamp)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ReadingHistory returns readings of the given kind recorded at or after
// since, oldest first.
func (s *Store) ReadingHistory(kind string, since time.Time) ([]models.Reading, error) {
	return s.queryReadings(`
		SELECT id, kind, value, station, recorded_at
		FROM readings
		WHERE kind = ? AND recorded_at >= ?
		ORDER BY recorded_at ASC, id ASC
	`, kind, since.UTC())
}

// ReadingsBetween returns readings of the given kind within [start, end],
// oldest first. Used by the trends API for custom date ranges.
func (s *Store) ReadingsBetween(kind string, start, end time.Time) ([]models.Reading, error) {
	return s.queryReadings(`
		SELECT id, kind, value, station, recorded_at
		FROM readings
		WHERE kind = ? AND recorded_at >= ? AND recorded_at <= ?
		ORDER BY recorded_at ASC, id ASC
	`, kind, start.UTC(), end.UTC())
}

func (s *Store) queryReadings(query string, args ...any) ([]models.Reading, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []models.Reading
	for rows.Next() {
		var r models.Reading
		if err := rows.Scan(&r.ID, &r.Kind, &r.Value, &r.Station, &r.Timestamp); err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// CreateFloodRecord inserts a flood record and its CREATE activity entry
// in a single transaction.
func (s *Store) CreateFloodRecord(rec *models.FloodRecord, actor string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.Exec(`
		INSERT INTO flood_records (
			event, date, affected_barangays,
			casualties_dead, casualties_injured, casualties_missing,
			affected_persons, affected_families,
			houses_damaged_partially, houses_damaged_totally,
			damage_infrastructure, damage_agriculture, damage_institutions,
			damage_private_commerce, damage_total,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.Event, rec.Date, rec.AffectedBarangays,
		rec.CasualtiesDead, rec.CasualtiesInjured, rec.CasualtiesMissing,
		rec.AffectedPersons, rec.AffectedFamilies,
		rec.HousesDamagedPartially, rec.HousesDamagedTotally,
		rec.DamageInfrastructure, rec.DamageAgriculture, rec.DamageInstitutions,
		rec.DamagePrivateCommerce, rec.DamageTotal,
		now, now)
	if err != nil {
		return err
	}

	rec.ID, err = result.LastInsertId()
	if err != nil {
		return err
	}

	if err := insertActivity(tx, actor, models.ActionCreate, rec, now); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateFloodRecord overwrites an existing flood record and writes an
// UPDATE activity entry in the same transaction. Returns ErrNotFound when
// no record has the given ID.
func (s *Store) UpdateFloodRecord(rec *models.FloodRecord, actor string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	result, err := tx.Exec(`
		UPDATE flood_records SET
			event = ?, date = ?, affected_barangays = ?,
			casualties_dead = ?, casualties_injured = ?, casualties_missing = ?,
			affected_persons = ?, affected_families = ?,
			houses_damaged_partially = ?, houses_damaged_totally = ?,
			damage_infrastructure = ?, damage_agriculture = ?, damage_institutions = ?,
			damage_private_commerce = ?, damage_total = ?,
			updated_at = ?
		WHERE id = ?
	`, rec.Event, rec.Date, rec.AffectedBarangays,
		rec.CasualtiesDead, rec.CasualtiesInjured, rec.CasualtiesMissing,
		rec.AffectedPersons, rec.AffectedFamilies,
		rec.HousesDamagedPartially, rec.HousesDamagedTotally,
		rec.DamageInfrastructure, rec.DamageAgriculture, rec.DamageInstitutions,
		rec.DamagePrivateCommerce, rec.DamageTotal,
		now, rec.ID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	if err := insertActivity(tx, actor, models.ActionUpdate, rec, now); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteFloodRecord removes a flood record. Deletions are not written to
// the activity log. Returns ErrNotFound when no record has the given ID.
func (s *Store) DeleteFloodRecord(id int64) error {
	result, err := s.db.Exec(`DELETE FROM flood_records WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func insertActivity(tx *sql.Tx, actor, action string, rec *models.FloodRecord, now time.Time) error {
	_, err := tx.Exec(`
		INSERT INTO flood_record_activity (
			actor, action, flood_record_id, event_type, event_date,
			affected_barangays, casualties_dead, casualties_injured,
			casualties_missing, affected_persons, affected_families,
			damage_total, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, actor, action, rec.ID, rec.Event, rec.Date,
		rec.AffectedBarangays, rec.CasualtiesDead, rec.CasualtiesInjured,
		rec.CasualtiesMissing, rec.AffectedPersons, rec.AffectedFamilies,
		rec.DamageTotal, now)
	return err
}

func (s *Store) GetFloodRecord(id int64) (*models.FloodRecord, error) {
	var rec models.FloodRecord
	err := s.db.QueryRow(floodRecordColumns+`WHERE id = ?`, id).Scan(floodRecordFields(&rec)...)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

const floodRecordColumns = `
	SELECT id, event, date, affected_barangays,
		casualties_dead, casualties_injured, casualties_missing,
		affected_persons, affected_families,
		houses_damaged_partially, houses_damaged_totally,
		damage_infrastructure, damage_agriculture, damage_institutions,
		damage_private_commerce, damage_total
	FROM flood_records
`

func floodRecordFields(rec *models.FloodRecord) []any {
	return []any{
		&rec.ID, &rec.Event, &rec.Date, &rec.AffectedBarangays,
		&rec.CasualtiesDead, &rec.CasualtiesInjured, &rec.CasualtiesMissing,
		&rec.AffectedPersons, &rec.AffectedFamilies,
		&rec.HousesDamagedPartially, &rec.HousesDamagedTotally,
		&rec.DamageInfrastructure, &rec.DamageAgriculture, &rec.DamageInstitutions,
		&rec.DamagePrivateCommerce, &rec.DamageTotal,
	}
}

// RecentFloodRecords returns the earliest-dated flood records up to limit,
// matching the dashboard chart's chronological ordering.
func (s *Store) RecentFloodRecords(limit int) ([]models.FloodRecord, error) {
	return s.queryFloodRecords(floodRecordColumns+`ORDER BY date ASC, id ASC LIMIT ?`, limit)
}

// AllFloodRecords returns every flood record, newest first.
func (s *Store) AllFloodRecords() ([]models.FloodRecord, error) {
	return s.queryFloodRecords(floodRecordColumns + `ORDER BY date DESC, id DESC`)
}

func (s *Store) queryFloodRecords(query string, args ...any) ([]models.FloodRecord, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.FloodRecord
	for rows.Next() {
		var rec models.FloodRecord
		if err := rows.Scan(floodRecordFields(&rec)...); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// FloodRecordActivity returns the newest activity entries up to limit.
func (s *Store) FloodRecordActivity(limit int) ([]models.FloodRecordActivity, error) {
	rows, err := s.db.Query(`
		SELECT id, actor, action, flood_record_id, event_type, event_date,
			affected_barangays, casualties_dead, casualties_injured,
			casualties_missing, affected_persons, affected_families,
			damage_total, created_at
		FROM flood_record_activity
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.FloodRecordActivity
	for rows.Next() {
		var a models.FloodRecordActivity
		if err := rows.Scan(&a.ID, &a.Actor, &a.Action, &a.FloodRecordID,
			&a.EventType, &a.EventDate, &a.AffectedBarangays,
			&a.CasualtiesDead, &a.CasualtiesInjured, &a.CasualtiesMissing,
			&a.AffectedPersons, &a.AffectedFamilies, &a.DamageTotal,
			&a.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, a)
	}
	return entries, rows.Err()
}

func (s *Store) InsertAssessmentRecord(rec *models.AssessmentRecord) error {
	rec.CreatedAt = time.Now().UTC()
	result, err := s.db.Exec(`
		INSERT INTO assessment_records (actor, barangay, latitude, longitude, flood_risk_code, flood_risk_description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.Actor, rec.Barangay, rec.Latitude, rec.Longitude, rec.RiskCode, rec.Description, rec.CreatedAt)
	if err != nil {
		return err
	}
	rec.ID, err = result.LastInsertId()
	return err
}

func (s *Store) AssessmentRecords(limit int) ([]models.AssessmentRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, actor, barangay, latitude, longitude, flood_risk_code, flood_risk_description, created_at
		FROM assessment_records
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.AssessmentRecord
	for rows.Next() {
		var rec models.AssessmentRecord
		if err := rows.Scan(&rec.ID, &rec.Actor, &rec.Barangay, &rec.Latitude,
			&rec.Longitude, &rec.RiskCode, &rec.Description, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) InsertReportRecord(rec *models.ReportRecord) error {
	rec.CreatedAt = time.Now().UTC()
	result, err := s.db.Exec(`
		INSERT INTO report_records (actor, barangay, latitude, longitude, flood_risk_code, flood_risk_label, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.Actor, rec.Barangay, rec.Latitude, rec.Longitude, rec.RiskCode, rec.RiskLabel, rec.CreatedAt)
	if err != nil {
		return err
	}
	rec.ID, err = result.LastInsertId()
	return err
}

func (s *Store) ReportRecords(limit int) ([]models.ReportRecord, error) {
	rows, err := s.db.Query(`
		SELECT id, actor, barangay, latitude, longitude, flood_risk_code, flood_risk_label, created_at
		FROM report_records
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.ReportRecord
	for rows.Next() {
		var rec models.ReportRecord
		if err := rows.Scan(&rec.ID, &rec.Actor, &rec.Barangay, &rec.Latitude,
			&rec.Longitude, &rec.RiskCode, &rec.RiskLabel, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
