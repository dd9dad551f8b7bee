// Package ingest fetches weather and tide observations from external APIs
// and records them as readings, reusing recent readings to keep API usage
// within free-tier limits.
package ingest

import (
	"context"
	"database/sql"
	"log"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/metrics"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/models"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/store"
)

// staleAfter is how long a reading stays fresh. Within this window the
// stored reading is served and no API call is made for that source.
const staleAfter = 3 * time.Hour

var clock = clockwork.NewRealClock()

// SetClock swaps the time source used for staleness checks. Pass nil to
// reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// Snapshot is the set of current readings and the forecast after a
// refresh. Every reading field is always populated, falling back to
// hard-coded defaults when an API is unreachable and nothing has been
// recorded yet.
type Snapshot struct {
	Rainfall    models.Reading
	Temperature models.Reading
	Humidity    models.Reading
	WindSpeed   models.Reading
	Tide        models.Reading
	Forecast    []models.ForecastDay
}

// Monitor coordinates the two external sources against the readings
// table.
type Monitor struct {
	store *store.Store
	meteo *OpenMeteo
	tides *WorldTides
}

func NewMonitor(st *store.Store, meteo *OpenMeteo, tides *WorldTides) *Monitor {
	return &Monitor{store: st, meteo: meteo, tides: tides}
}

// Refresh brings the readings table up to date and returns a snapshot.
// Each source is fetched at most once; fetch failures degrade to the most
// recent stored reading, or to defaults when the store is empty. Refresh
// never returns an error for API failures, only for store failures.
func (m *Monitor) Refresh(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	forecast, err := m.refreshWeather(ctx)
	if err != nil {
		return nil, err
	}
	snap.Forecast = forecast

	if err := m.refreshTide(ctx); err != nil {
		return nil, err
	}

	for _, b := range []struct {
		kind string
		dest *models.Reading
		def  float64
	}{
		{models.ReadingRainfall, &snap.Rainfall, DefaultRainfall},
		{models.ReadingTemperature, &snap.Temperature, DefaultTemperature},
		{models.ReadingHumidity, &snap.Humidity, DefaultHumidity},
		{models.ReadingWindSpeed, &snap.WindSpeed, DefaultWindSpeed},
		{models.ReadingTide, &snap.Tide, DefaultTideHeight},
	} {
		r, err := m.store.LatestReading(b.kind)
		if err != nil {
			return nil, err
		}
		if r == nil {
			// Unreachable after the refresh paths above, but keep the
			// snapshot total anyway.
			*b.dest = models.Reading{Kind: b.kind, Value: b.def, Station: WeatherStation, Timestamp: clock.Now().UTC()}
			continue
		}
		*b.dest = *r
	}

	return snap, nil
}

// refreshWeather fetches Open-Meteo and records readings for any weather
// kind that is stale or missing. Returns the forecast, which is empty when
// the fetch fails.
func (m *Monitor) refreshWeather(ctx context.Context) ([]models.ForecastDay, error) {
	run, err := m.store.StartIngestRun("openmeteo", "v1/forecast")
	if err != nil {
		return nil, err
	}

	started := clock.Now()
	current, forecast, stats, fetchErr := m.meteo.Fetch(ctx)
	metrics.APILatency.WithLabelValues("openmeteo").Observe(time.Since(started).Seconds())
	metrics.APICallsTotal.WithLabelValues("openmeteo", strconv.Itoa(stats.HTTPStatus)).Inc()

	recordStats(run, stats, fetchErr)

	values := map[string]float64{
		models.ReadingRainfall:    current.Rainfall,
		models.ReadingTemperature: current.Temperature,
		models.ReadingHumidity:    current.Humidity,
		models.ReadingWindSpeed:   current.WindSpeed,
	}
	defaults := map[string]float64{
		models.ReadingRainfall:    DefaultRainfall,
		models.ReadingTemperature: DefaultTemperature,
		models.ReadingHumidity:    DefaultHumidity,
		models.ReadingWindSpeed:   DefaultWindSpeed,
	}

	if fetchErr != nil {
		log.Printf("ingest: open-meteo fetch failed: %v", fetchErr)
	}

	var stored int64
	for _, kind := range []string{models.ReadingRainfall, models.ReadingTemperature, models.ReadingHumidity, models.ReadingWindSpeed} {
		latest, err := m.store.LatestReading(kind)
		if err != nil {
			return nil, err
		}

		switch {
		case fetchErr == nil && (latest == nil || m.isStale(latest)):
			if err := m.record(kind, values[kind]); err != nil {
				return nil, err
			}
			stored++
		case fetchErr != nil && latest == nil:
			log.Printf("ingest: recording default %s reading after fetch failure", kind)
			if err := m.record(kind, defaults[kind]); err != nil {
				return nil, err
			}
			stored++
		case fetchErr != nil:
			log.Printf("ingest: reusing stored %s reading from %s", kind, latest.Timestamp.Format(time.RFC3339))
			metrics.StaleReadingsReused.WithLabelValues(kind).Inc()
		}
	}

	run.RecordsStored = sql.NullInt64{Int64: stored, Valid: true}
	if err := m.store.CompleteIngestRun(run); err != nil {
		return nil, err
	}

	return forecast, nil
}

// refreshTide fetches WorldTides only when the stored tide reading is
// stale or missing, mirroring the weather path but gated before the call
// because WorldTides bills per request.
func (m *Monitor) refreshTide(ctx context.Context) error {
	latest, err := m.store.LatestReading(models.ReadingTide)
	if err != nil {
		return err
	}
	if latest != nil && !m.isStale(latest) {
		return nil
	}

	run, err := m.store.StartIngestRun("worldtides", "api/v3")
	if err != nil {
		return err
	}

	started := clock.Now()
	height, stats, fetchErr := m.tides.Fetch(ctx)
	metrics.APILatency.WithLabelValues("worldtides").Observe(time.Since(started).Seconds())
	metrics.APICallsTotal.WithLabelValues("worldtides", strconv.Itoa(stats.HTTPStatus)).Inc()

	recordStats(run, stats, fetchErr)

	if fetchErr != nil {
		// ErrAuthFailed and ErrQuotaExceeded carry their own operator
		// guidance in the message.
		log.Printf("ingest: worldtides fetch failed: %v", fetchErr)
		if latest == nil {
			log.Print("ingest: recording default tide reading after fetch failure")
			if err := m.recordTide(DefaultTideHeight); err != nil {
				return err
			}
			run.RecordsStored = sql.NullInt64{Int64: 1, Valid: true}
		} else {
			log.Printf("ingest: reusing stored tide reading from %s", latest.Timestamp.Format(time.RFC3339))
			metrics.StaleReadingsReused.WithLabelValues(models.ReadingTide).Inc()
		}
		return m.store.CompleteIngestRun(run)
	}

	if err := m.recordTide(height); err != nil {
		return err
	}
	run.RecordsStored = sql.NullInt64{Int64: 1, Valid: true}
	return m.store.CompleteIngestRun(run)
}

func (m *Monitor) isStale(r *models.Reading) bool {
	return clock.Now().Sub(r.Timestamp) > staleAfter
}

func (m *Monitor) record(kind string, value float64) error {
	if err := m.store.InsertReading(models.Reading{
		Kind:      kind,
		Value:     value,
		Station:   WeatherStation,
		Timestamp: clock.Now().UTC(),
	}); err != nil {
		return err
	}
	metrics.ReadingsRecorded.WithLabelValues(kind).Inc()
	return nil
}

func (m *Monitor) recordTide(height float64) error {
	if err := m.store.InsertReading(models.Reading{
		Kind:      models.ReadingTide,
		Value:     height,
		Station:   TideStation,
		Timestamp: clock.Now().UTC(),
	}); err != nil {
		return err
	}
	metrics.ReadingsRecorded.WithLabelValues(models.ReadingTide).Inc()
	return nil
}

func recordStats(run *store.IngestRun, stats FetchStats, fetchErr error) {
	if stats.HTTPStatus != 0 {
		run.HTTPStatus = sql.NullInt64{Int64: int64(stats.HTTPStatus), Valid: true}
	}
	run.ResponseSizeBytes = sql.NullInt64{Int64: int64(stats.ResponseSize), Valid: true}
	run.RecordsParsed = sql.NullInt64{Int64: int64(stats.RecordsParsed), Valid: true}
	run.ParseErrors = sql.NullInt64{Int64: int64(stats.ParseErrors), Valid: true}
	run.Success = fetchErr == nil
	if fetchErr != nil {
		run.ErrorMessage = sql.NullString{String: fetchErr.Error(), Valid: true}
	}
}
