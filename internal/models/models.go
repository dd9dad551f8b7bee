package models

import (
	"strings"
	"time"
)

// Reading kinds stored in the readings table.
const (
	ReadingRainfall    = "rainfall"    // mm
	ReadingTemperature = "temperature" // °C
	ReadingHumidity    = "humidity"    // %
	ReadingWindSpeed   = "wind_speed"  // km/h
	ReadingTide        = "tide"        // m
)

// Reading is a single timestamped environmental observation. Readings are
// immutable once recorded and queried by time range for trend charts.
type Reading struct {
	ID        int64
	Kind      string
	Value     float64
	Station   string
	Timestamp time.Time
}

// ForecastDay is one day of the 7-day weather forecast. Forecast data is
// fetched per request and never persisted.
type ForecastDay struct {
	Date          time.Time `json:"date"`
	FormattedDate string    `json:"formatted_date"`
	TempMax       float64   `json:"temp_max"`
	TempMin       float64   `json:"temp_min"`
	Precipitation float64   `json:"precipitation"`
	Humidity      float64   `json:"humidity"`
	WindSpeed     float64   `json:"wind_speed"`
}

// Flood event types.
const (
	EventFlood      = "Flood"
	EventFlashFlood = "Flash Flood"
)

// FloodRecord is a discrete historical flood event with aggregate damage
// and casualty figures.
type FloodRecord struct {
	ID                     int64     `json:"id"`
	Event                  string    `json:"event"`
	Date                   time.Time `json:"date"`
	AffectedBarangays      string    `json:"affected_barangays"`
	CasualtiesDead         int       `json:"casualties_dead"`
	CasualtiesInjured      int       `json:"casualties_injured"`
	CasualtiesMissing      int       `json:"casualties_missing"`
	AffectedPersons        int       `json:"affected_persons"`
	AffectedFamilies       int       `json:"affected_families"`
	HousesDamagedPartially int       `json:"houses_damaged_partially"`
	HousesDamagedTotally   int       `json:"houses_damaged_totally"`
	DamageInfrastructure   float64   `json:"damage_infrastructure_php"`
	DamageAgriculture      float64   `json:"damage_agriculture_php"`
	DamageInstitutions     float64   `json:"damage_institutions_php"`
	DamagePrivateCommerce  float64   `json:"damage_private_commercial_php"`
	DamageTotal            float64   `json:"damage_total_php"`
}

// Barangays splits the stored comma-separated barangay list.
func (r FloodRecord) Barangays() []string {
	var out []string
	for _, b := range strings.Split(r.AffectedBarangays, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

// Activity actions recorded against flood records.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
)

// FloodRecordActivity is an immutable audit entry written alongside each
// flood record mutation. Entries are never edited or deleted.
type FloodRecordActivity struct {
	ID                int64     `json:"id"`
	Actor             string    `json:"actor"`
	Action            string    `json:"action"`
	FloodRecordID     int64     `json:"flood_record_id"`
	EventType         string    `json:"event_type"`
	EventDate         time.Time `json:"event_date"`
	AffectedBarangays string    `json:"affected_barangays"`
	CasualtiesDead    int       `json:"casualties_dead"`
	CasualtiesInjured int       `json:"casualties_injured"`
	CasualtiesMissing int       `json:"casualties_missing"`
	AffectedPersons   int       `json:"affected_persons"`
	AffectedFamilies  int       `json:"affected_families"`
	DamageTotal       float64   `json:"damage_total_php"`
	CreatedAt         time.Time `json:"created_at"`
}

// AssessmentRecord tracks a saved flood-susceptibility assessment for the
// staff activity views.
type AssessmentRecord struct {
	ID          int64     `json:"id"`
	Actor       string    `json:"actor"`
	Barangay    string    `json:"barangay"`
	Latitude    string    `json:"latitude"`
	Longitude   string    `json:"longitude"`
	RiskCode    string    `json:"flood_risk_code"`
	Description string    `json:"flood_risk_description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReportRecord tracks a generated risk-assessment report.
type ReportRecord struct {
	ID        int64     `json:"id"`
	Actor     string    `json:"actor"`
	Barangay  string    `json:"barangay"`
	Latitude  string    `json:"latitude"`
	Longitude string    `json:"longitude"`
	RiskCode  string    `json:"flood_risk_code"`
	RiskLabel string    `json:"flood_risk_label"`
	CreatedAt time.Time `json:"created_at"`
}
