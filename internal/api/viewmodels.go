package api

import (
	"time"

	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/insight"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/models"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/risk"
)

// RainfallView is the latest rainfall reading as rendered on the
// dashboard.
type RainfallView struct {
	ValueMM     float64   `json:"value_mm"`
	StationName string    `json:"station_name"`
	Timestamp   time.Time `json:"timestamp"`
}

type WeatherView struct {
	TemperatureC    float64   `json:"temperature_c"`
	HumidityPercent float64   `json:"humidity_percent"`
	WindSpeedKPH    float64   `json:"wind_speed_kph"`
	StationName     string    `json:"station_name"`
	Timestamp       time.Time `json:"timestamp"`
}

type TideView struct {
	HeightM     float64   `json:"height_m"`
	StationName string    `json:"station_name"`
	Timestamp   time.Time `json:"timestamp"`
}

// HistoryPoint is one point on a trend chart, timestamp pre-formatted for
// the chart axis.
type HistoryPoint struct {
	Timestamp string  `json:"timestamp"`
	Value     float64 `json:"value"`
}

type CasualtySeries struct {
	Dead    []int `json:"dead"`
	Injured []int `json:"injured"`
	Missing []int `json:"missing"`
}

type AffectedSeries struct {
	Persons  []int `json:"persons"`
	Families []int `json:"families"`
}

type HouseSeries struct {
	Partially []int `json:"partially"`
	Totally   []int `json:"totally"`
}

type DamageSeries struct {
	Infrastructure    []float64 `json:"infrastructure"`
	Agriculture       []float64 `json:"agriculture"`
	Institutions      []float64 `json:"institutions"`
	PrivateCommercial []float64 `json:"private_commercial"`
	Total             []float64 `json:"total"`
}

// MonitoringData is the full dashboard snapshot: current readings, risk
// classification, 7-day forecast, insights, trend histories and flood
// record chart aggregates.
type MonitoringData struct {
	Rainfall RainfallView `json:"rainfall_data"`
	Weather  WeatherView  `json:"weather_data"`
	Tide     TideView     `json:"tide_data"`

	WeatherForecast       []models.ForecastDay `json:"weather_forecast"`
	ForecastDates         []string             `json:"forecast_dates"`
	ForecastTempMax       []float64            `json:"forecast_temp_max"`
	ForecastTempMin       []float64            `json:"forecast_temp_min"`
	ForecastPrecipitation []float64            `json:"forecast_precipitation"`
	ForecastHumidity      []float64            `json:"forecast_humidity"`
	ForecastWindSpeed     []float64            `json:"forecast_wind_speed"`

	Insights insight.Payload `json:"insights"`

	RainRiskLevel     string    `json:"rain_risk_level"`
	RainRiskColor     string    `json:"rain_risk_color"`
	RainRiskTier      risk.Tier `json:"rain_risk_tier"`
	TideRiskLevel     string    `json:"tide_risk_level"`
	TideRiskColor     string    `json:"tide_risk_color"`
	TideRiskTier      risk.Tier `json:"tide_risk_tier"`
	CombinedRiskLevel string    `json:"combined_risk_level"`
	CombinedRiskColor string    `json:"combined_risk_color"`
	CombinedRiskTier  risk.Tier `json:"combined_risk_tier"`

	FloodRecords []models.FloodRecord `json:"flood_records"`
	GraphDates   []string             `json:"graph_dates"`
	Casualties   CasualtySeries       `json:"casualties_data"`
	Affected     AffectedSeries       `json:"affected_data"`
	Houses       HouseSeries          `json:"houses_data"`
	Damage       DamageSeries         `json:"damage_data"`

	RainfallHistory []HistoryPoint `json:"rainfall_history"`
	TideHistory     []HistoryPoint `json:"tide_history"`

	TimeRange  string `json:"time_range"`
	RangeLabel string `json:"range_label"`
}

// TrendsData is the response for the trends API, both preset and custom
// date ranges.
type TrendsData struct {
	TimeRange          string    `json:"time_range"`
	RangeLabel         string    `json:"range_label"`
	RainfallTimestamps []string  `json:"rainfall_timestamps"`
	RainfallValues     []float64 `json:"rainfall_values"`
	TideTimestamps     []string  `json:"tide_timestamps"`
	TideValues         []float64 `json:"tide_values"`
}

// CurrentData is the lightweight payload polled by the dashboard between
// full refreshes.
type CurrentData struct {
	Rainfall    float64 `json:"rainfall"`
	Temperature float64 `json:"temperature"`
	Tide        float64 `json:"tide"`
}

// HealthStatus reports reading freshness per kind.
type HealthStatus struct {
	Status   string          `json:"status"`
	Readings []ReadingHealth `json:"readings"`
	Errors   []string        `json:"errors,omitempty"`
}

type ReadingHealth struct {
	Kind       string    `json:"kind"`
	LastSeen   time.Time `json:"last_seen"`
	AgeMinutes int       `json:"age_minutes"`
	Stale      bool      `json:"stale"`
}

func buildFloodRecordSeries(records []models.FloodRecord, data *MonitoringData) {
	data.GraphDates = make([]string, 0, len(records))
	data.Casualties = CasualtySeries{Dead: []int{}, Injured: []int{}, Missing: []int{}}
	data.Affected = AffectedSeries{Persons: []int{}, Families: []int{}}
	data.Houses = HouseSeries{Partially: []int{}, Totally: []int{}}
	data.Damage = DamageSeries{
		Infrastructure:    []float64{},
		Agriculture:       []float64{},
		Institutions:      []float64{},
		PrivateCommercial: []float64{},
		Total:             []float64{},
	}

	for _, rec := range records {
		data.GraphDates = append(data.GraphDates, rec.Date.Format("2006-01-02"))
		data.Casualties.Dead = append(data.Casualties.Dead, rec.CasualtiesDead)
		data.Casualties.Injured = append(data.Casualties.Injured, rec.CasualtiesInjured)
		data.Casualties.Missing = append(data.Casualties.Missing, rec.CasualtiesMissing)
		data.Affected.Persons = append(data.Affected.Persons, rec.AffectedPersons)
		data.Affected.Families = append(data.Affected.Families, rec.AffectedFamilies)
		data.Houses.Partially = append(data.Houses.Partially, rec.HousesDamagedPartially)
		data.Houses.Totally = append(data.Houses.Totally, rec.HousesDamagedTotally)
		data.Damage.Infrastructure = append(data.Damage.Infrastructure, rec.DamageInfrastructure)
		data.Damage.Agriculture = append(data.Damage.Agriculture, rec.DamageAgriculture)
		data.Damage.Institutions = append(data.Damage.Institutions, rec.DamageInstitutions)
		data.Damage.PrivateCommercial = append(data.Damage.PrivateCommercial, rec.DamagePrivateCommerce)
		data.Damage.Total = append(data.Damage.Total, rec.DamageTotal)
	}
}

func buildForecastSeries(forecast []models.ForecastDay, data *MonitoringData) {
	data.ForecastDates = make([]string, 0, len(forecast))
	data.ForecastTempMax = make([]float64, 0, len(forecast))
	data.ForecastTempMin = make([]float64, 0, len(forecast))
	data.ForecastPrecipitation = make([]float64, 0, len(forecast))
	data.ForecastHumidity = make([]float64, 0, len(forecast))
	data.ForecastWindSpeed = make([]float64, 0, len(forecast))

	for _, day := range forecast {
		data.ForecastDates = append(data.ForecastDates, day.FormattedDate)
		data.ForecastTempMax = append(data.ForecastTempMax, day.TempMax)
		data.ForecastTempMin = append(data.ForecastTempMin, day.TempMin)
		data.ForecastPrecipitation = append(data.ForecastPrecipitation, day.Precipitation)
		data.ForecastHumidity = append(data.ForecastHumidity, day.Humidity)
		data.ForecastWindSpeed = append(data.ForecastWindSpeed, day.WindSpeed)
	}
}

func historyPoints(readings []models.Reading, loc *time.Location) []HistoryPoint {
	points := make([]HistoryPoint, 0, len(readings))
	for _, r := range readings {
		points = append(points, HistoryPoint{
			Timestamp: r.Timestamp.In(loc).Format("2006-01-02 15:04"),
			Value:     r.Value,
		})
	}
	return points
}
