package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/assessment"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/insight"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/ledger"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/metrics"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/models"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/risk"
)

// chartRecordLimit caps how many flood records feed the dashboard charts.
const chartRecordLimit = 20

// customRangeMaxDays caps custom trend ranges at two years.
const customRangeMaxDays = 730

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// actorFrom identifies the requesting user from the X-Actor header set by
// the authenticating front end.
func actorFrom(r *http.Request) string {
	if actor := r.Header.Get("X-Actor"); actor != "" {
		return actor
	}
	return "anonymous"
}

// timeRangeFilter maps a preset range key to its cutoff and chart label.
// Unknown keys fall back to the last 24 hours.
func timeRangeFilter(timeRange string, now time.Time) (time.Time, string) {
	switch timeRange {
	case "7d":
		return now.AddDate(0, 0, -7), "Last 7 Days"
	case "30d":
		return now.AddDate(0, 0, -30), "Last 30 Days"
	case "90d":
		return now.AddDate(0, 0, -90), "Last 90 Days"
	case "all":
		// Capped at one year for chart performance.
		return now.AddDate(-1, 0, 0), "Last Year"
	default:
		return now.Add(-24 * time.Hour), "Last 24 Hours"
	}
}

func (s *Server) handleMonitoring(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, err := s.monitor.Refresh(r.Context())
	if err != nil {
		log.Printf("api: monitoring refresh: %v", err)
		writeError(w, http.StatusInternalServerError, "Unable to fetch data")
		return
	}

	timeRange := r.URL.Query().Get("time_range")
	if timeRange == "" {
		timeRange = "24h"
	}
	now := time.Now()
	cutoff, rangeLabel := timeRangeFilter(timeRange, now)

	rainfallHistory, err := s.store.ReadingHistory(models.ReadingRainfall, cutoff)
	if err != nil {
		log.Printf("api: rainfall history: %v", err)
		writeError(w, http.StatusInternalServerError, "Unable to fetch data")
		return
	}
	tideHistory, err := s.store.ReadingHistory(models.ReadingTide, cutoff)
	if err != nil {
		log.Printf("api: tide history: %v", err)
		writeError(w, http.StatusInternalServerError, "Unable to fetch data")
		return
	}

	records, err := s.store.RecentFloodRecords(chartRecordLimit)
	if err != nil {
		log.Printf("api: flood records: %v", err)
		writeError(w, http.StatusInternalServerError, "Unable to fetch data")
		return
	}

	rainTier, rainLabel := risk.ClassifyRainfall(snap.Rainfall.Value)
	tideTier, tideLabel := risk.ClassifyTide(snap.Tide.Value)
	combined := risk.Combine(rainTier, tideTier)

	data := MonitoringData{
		Rainfall: RainfallView{
			ValueMM:     snap.Rainfall.Value,
			StationName: snap.Rainfall.Station,
			Timestamp:   snap.Rainfall.Timestamp,
		},
		Weather: WeatherView{
			TemperatureC:    snap.Temperature.Value,
			HumidityPercent: snap.Humidity.Value,
			WindSpeedKPH:    snap.WindSpeed.Value,
			StationName:     snap.Temperature.Station,
			Timestamp:       snap.Temperature.Timestamp,
		},
		Tide: TideView{
			HeightM:     snap.Tide.Value,
			StationName: snap.Tide.Station,
			Timestamp:   snap.Tide.Timestamp,
		},
		WeatherForecast:   snap.Forecast,
		Insights:          insight.Generate(snap.Forecast, records),
		RainRiskLevel:     rainLabel,
		RainRiskColor:     rainTier.Color(),
		RainRiskTier:      rainTier,
		TideRiskLevel:     tideLabel,
		TideRiskColor:     tideTier.Color(),
		TideRiskTier:      tideTier,
		CombinedRiskLevel: combined.String(),
		CombinedRiskColor: combined.Color(),
		CombinedRiskTier:  combined,
		FloodRecords:      records,
		RainfallHistory:   historyPoints(rainfallHistory, s.loc),
		TideHistory:       historyPoints(tideHistory, s.loc),
		TimeRange:         timeRange,
		RangeLabel:        rangeLabel,
	}
	if data.WeatherForecast == nil {
		data.WeatherForecast = []models.ForecastDay{}
	}
	if data.FloodRecords == nil {
		data.FloodRecords = []models.FloodRecord{}
	}
	buildForecastSeries(snap.Forecast, &data)
	buildFloodRecordSeries(records, &data)

	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var data CurrentData
	for _, b := range []struct {
		kind string
		dest *float64
	}{
		{models.ReadingRainfall, &data.Rainfall},
		{models.ReadingTemperature, &data.Temperature},
		{models.ReadingTide, &data.Tide},
	} {
		reading, err := s.store.LatestReading(b.kind)
		if err != nil {
			log.Printf("api: latest %s reading: %v", b.kind, err)
			writeError(w, http.StatusInternalServerError, "Unable to fetch data")
			return
		}
		if reading != nil {
			*b.dest = reading.Value
		}
	}

	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	startStr, endStr := q.Get("start_date"), q.Get("end_date")

	var (
		rainfallHistory, tideHistory []models.Reading
		timeRange, rangeLabel        string
		err                          error
	)

	if startStr != "" && endStr != "" {
		start, perr := time.ParseInLocation("2006-01-02", startStr, s.loc)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
			return
		}
		end, perr := time.ParseInLocation("2006-01-02", endStr, s.loc)
		if perr != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
			return
		}
		if end.Before(start) {
			writeError(w, http.StatusBadRequest, "End date must be after start date")
			return
		}
		today := time.Now().In(s.loc)
		if start.After(today) || end.After(today) {
			writeError(w, http.StatusBadRequest, "Cannot select future dates")
			return
		}
		if int(end.Sub(start).Hours()/24) > customRangeMaxDays {
			writeError(w, http.StatusBadRequest, "Date range cannot exceed 2 years")
			return
		}

		// The whole end day is included.
		endOfDay := end.AddDate(0, 0, 1).Add(-time.Second)
		rainfallHistory, err = s.store.ReadingsBetween(models.ReadingRainfall, start, endOfDay)
		if err == nil {
			tideHistory, err = s.store.ReadingsBetween(models.ReadingTide, start, endOfDay)
		}
		timeRange = q.Get("time_range")
		if timeRange == "" {
			timeRange = "custom"
		}
		rangeLabel = fmt.Sprintf("Custom Range: %s - %s", start.Format("Jan 02, 2006"), end.Format("Jan 02, 2006"))
	} else {
		timeRange = q.Get("time_range")
		if timeRange == "" {
			timeRange = "24h"
		}
		var cutoff time.Time
		cutoff, rangeLabel = timeRangeFilter(timeRange, time.Now())
		rainfallHistory, err = s.store.ReadingHistory(models.ReadingRainfall, cutoff)
		if err == nil {
			tideHistory, err = s.store.ReadingHistory(models.ReadingTide, cutoff)
		}
	}
	if err != nil {
		log.Printf("api: trends query: %v", err)
		writeError(w, http.StatusInternalServerError, "Unable to fetch trend data")
		return
	}

	data := TrendsData{
		TimeRange:          timeRange,
		RangeLabel:         rangeLabel,
		RainfallTimestamps: []string{},
		RainfallValues:     []float64{},
		TideTimestamps:     []string{},
		TideValues:         []float64{},
	}
	for _, p := range historyPoints(rainfallHistory, s.loc) {
		data.RainfallTimestamps = append(data.RainfallTimestamps, p.Timestamp)
		data.RainfallValues = append(data.RainfallValues, p.Value)
	}
	for _, p := range historyPoints(tideHistory, s.loc) {
		data.TideTimestamps = append(data.TideTimestamps, p.Timestamp)
		data.TideValues = append(data.TideValues, p.Value)
	}

	writeJSON(w, http.StatusOK, data)
}

// floodRecordRequest is the wire form of a flood record; the date comes in
// as a string in YYYY-MM-DD or datetime-local form.
type floodRecordRequest struct {
	Event                  string  `json:"event"`
	Date                   string  `json:"date"`
	AffectedBarangays      string  `json:"affected_barangays"`
	CasualtiesDead         int     `json:"casualties_dead"`
	CasualtiesInjured      int     `json:"casualties_injured"`
	CasualtiesMissing      int     `json:"casualties_missing"`
	AffectedPersons        int     `json:"affected_persons"`
	AffectedFamilies       int     `json:"affected_families"`
	HousesDamagedPartially int     `json:"houses_damaged_partially"`
	HousesDamagedTotally   int     `json:"houses_damaged_totally"`
	DamageInfrastructure   float64 `json:"damage_infrastructure_php"`
	DamageAgriculture      float64 `json:"damage_agriculture_php"`
	DamageInstitutions     float64 `json:"damage_institutions_php"`
	DamagePrivateCommerce  float64 `json:"damage_private_commercial_php"`
	DamageTotal            float64 `json:"damage_total_php"`
}

func (req floodRecordRequest) toRecord() *models.FloodRecord {
	rec := &models.FloodRecord{
		Event:                  req.Event,
		AffectedBarangays:      req.AffectedBarangays,
		CasualtiesDead:         req.CasualtiesDead,
		CasualtiesInjured:      req.CasualtiesInjured,
		CasualtiesMissing:      req.CasualtiesMissing,
		AffectedPersons:        req.AffectedPersons,
		AffectedFamilies:       req.AffectedFamilies,
		HousesDamagedPartially: req.HousesDamagedPartially,
		HousesDamagedTotally:   req.HousesDamagedTotally,
		DamageInfrastructure:   req.DamageInfrastructure,
		DamageAgriculture:      req.DamageAgriculture,
		DamageInstitutions:     req.DamageInstitutions,
		DamagePrivateCommerce:  req.DamagePrivateCommerce,
		DamageTotal:            req.DamageTotal,
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04", time.RFC3339} {
		if d, err := time.Parse(layout, req.Date); err == nil {
			rec.Date = d
			break
		}
	}
	return rec
}

func (s *Server) handleFloodRecords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		records, err := s.store.AllFloodRecords()
		if err != nil {
			log.Printf("api: list flood records: %v", err)
			writeError(w, http.StatusInternalServerError, "Unable to fetch data")
			return
		}
		if records == nil {
			records = []models.FloodRecord{}
		}
		writeJSON(w, http.StatusOK, records)

	case http.MethodPost:
		var req floodRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := s.ledger.Create(req.toRecord(), actorFrom(r))
		if err != nil {
			log.Printf("api: create flood record: %v", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred while saving the record")
			return
		}
		if !result.Success {
			writeJSON(w, http.StatusBadRequest, result)
			return
		}
		metrics.FloodRecordMutations.WithLabelValues("create").Inc()
		writeJSON(w, http.StatusCreated, result)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleFloodRecordByID(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/flood-records/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid record id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		rec, err := s.store.GetFloodRecord(id)
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		if err != nil {
			log.Printf("api: get flood record %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Unable to fetch data")
			return
		}
		writeJSON(w, http.StatusOK, rec)

	case http.MethodPut:
		var req floodRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		rec := req.toRecord()
		rec.ID = id

		result, err := s.ledger.Update(rec, actorFrom(r))
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		if err != nil {
			log.Printf("api: update flood record %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred while updating the record")
			return
		}
		if !result.Success {
			writeJSON(w, http.StatusBadRequest, result)
			return
		}
		metrics.FloodRecordMutations.WithLabelValues("update").Inc()
		writeJSON(w, http.StatusOK, result)

	case http.MethodDelete:
		result, err := s.ledger.Delete(id, actorFrom(r))
		if errors.Is(err, ledger.ErrNotFound) {
			writeError(w, http.StatusNotFound, "record not found")
			return
		}
		if err != nil {
			log.Printf("api: delete flood record %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "An error occurred while deleting the record")
			return
		}
		metrics.FloodRecordMutations.WithLabelValues("delete").Inc()
		writeJSON(w, http.StatusOK, result)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries, err := s.store.FloodRecordActivity(50)
	if err != nil {
		log.Printf("api: flood record activity: %v", err)
		writeError(w, http.StatusInternalServerError, "Unable to fetch data")
		return
	}
	if entries == nil {
		entries = []models.FloodRecordActivity{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type assessmentRequest struct {
	Barangay      string `json:"barangay"`
	Latitude      string `json:"latitude"`
	Longitude     string `json:"longitude"`
	FloodRiskCode string `json:"flood_risk_code"`
}

func (s *Server) handleAssessments(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		records, err := s.store.AssessmentRecords(50)
		if err != nil {
			log.Printf("api: list assessments: %v", err)
			writeError(w, http.StatusInternalServerError, "Unable to fetch data")
			return
		}
		if records == nil {
			records = []models.AssessmentRecord{}
		}
		writeJSON(w, http.StatusOK, records)

	case http.MethodPost:
		var req assessmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		rec, err := s.assessments.SaveAssessment(actorFrom(r), req.Barangay, req.Latitude, req.Longitude, req.FloodRiskCode)
		if err != nil {
			log.Printf("api: save assessment: %v", err)
			writeError(w, http.StatusInternalServerError, "Unable to save assessment")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"success":       true,
			"assessment_id": rec.ID,
			"message":       "Assessment saved successfully",
		})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		records, err := s.store.ReportRecords(50)
		if err != nil {
			log.Printf("api: list reports: %v", err)
			writeError(w, http.StatusInternalServerError, "Unable to fetch data")
			return
		}
		if records == nil {
			records = []models.ReportRecord{}
		}
		writeJSON(w, http.StatusOK, records)

	case http.MethodPost:
		var req assessmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		rec, err := s.assessments.SaveReport(actorFrom(r), req.Barangay, req.Latitude, req.Longitude, req.FloodRiskCode)
		if err != nil {
			log.Printf("api: save report: %v", err)
			writeError(w, http.StatusInternalServerError, "Unable to save report")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{
			"success":   true,
			"report_id": rec.ID,
			"texts":     assessment.Lookup(req.FloodRiskCode),
		})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleAssessmentTexts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, assessment.Lookup(r.URL.Query().Get("risk")))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{
		Status:   "ok",
		Readings: make([]ReadingHealth, 0, 5),
	}

	staleThreshold := 3 * time.Hour
	now := time.Now()

	for _, kind := range []string{
		models.ReadingRainfall, models.ReadingTemperature, models.ReadingHumidity,
		models.ReadingWindSpeed, models.ReadingTide,
	} {
		reading, err := s.store.LatestReading(kind)
		if err != nil {
			health.Errors = append(health.Errors, kind+": "+err.Error())
			continue
		}

		rh := ReadingHealth{Kind: kind}
		if reading != nil {
			rh.LastSeen = reading.Timestamp
			rh.AgeMinutes = int(now.Sub(reading.Timestamp).Minutes())
			rh.Stale = now.Sub(reading.Timestamp) > staleThreshold
		} else {
			rh.Stale = true
			rh.AgeMinutes = -1
		}

		if rh.Stale {
			health.Status = "degraded"
		}
		health.Readings = append(health.Readings, rh)
	}

	if len(health.Errors) > 0 {
		health.Status = "error"
	}

	status := http.StatusOK
	if health.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
}
