package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/httputil"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/models"
)

const openMeteoBaseURL = "https://api.open-meteo.com/v1/forecast"

// Fallback values substituted when the API omits a field or a fetch fails
// with no prior reading on record.
const (
	DefaultRainfall    = 0.0
	DefaultTemperature = 28.5
	DefaultHumidity    = 75.0
	DefaultWindSpeed   = 10.0
	DefaultTempMin     = 25.0

	WeatherStation = "Silay City"
)

// CurrentConditions holds the real-time values from an Open-Meteo fetch.
type CurrentConditions struct {
	Rainfall    float64
	Temperature float64
	Humidity    float64
	WindSpeed   float64
}

// FetchStats captures the audit details of a single API call.
type FetchStats struct {
	HTTPStatus    int
	ResponseSize  int
	RecordsParsed int
	ParseErrors   int
}

// OpenMeteo fetches current conditions and the 7-day forecast for a fixed
// location. Requests are made once with no retry; the caller decides how
// to degrade on failure.
type OpenMeteo struct {
	baseURL   string
	latitude  float64
	longitude float64
	client    *http.Client
}

// NewOpenMeteo creates an Open-Meteo client. An empty baseURL selects the
// public API endpoint.
func NewOpenMeteo(baseURL string, latitude, longitude float64) *OpenMeteo {
	if baseURL == "" {
		baseURL = openMeteoBaseURL
	}
	return &OpenMeteo{
		baseURL:   baseURL,
		latitude:  latitude,
		longitude: longitude,
		client:    httputil.NewClient(),
	}
}

type openMeteoResponse struct {
	Current struct {
		Temperature *float64 `json:"temperature_2m"`
		Humidity    *float64 `json:"relative_humidity_2m"`
		WindSpeed   *float64 `json:"wind_speed_10m"`
		Rain        *float64 `json:"rain"`
	} `json:"current"`
	Daily struct {
		Time          []string  `json:"time"`
		TempMax       []float64 `json:"temperature_2m_max"`
		TempMin       []float64 `json:"temperature_2m_min"`
		Precipitation []float64 `json:"precipitation_sum"`
		Humidity      []float64 `json:"relative_humidity_2m_mean"`
		WindSpeed     []float64 `json:"wind_speed_10m_max"`
	} `json:"daily"`
}

// Fetch calls the Open-Meteo forecast endpoint once and returns current
// conditions plus up to 7 forecast days. Missing current fields fall back
// to the defaults above; forecast days whose date fails to parse are
// skipped and counted in FetchStats.ParseErrors.
func (o *OpenMeteo) Fetch(ctx context.Context) (CurrentConditions, []models.ForecastDay, FetchStats, error) {
	var stats FetchStats

	params := url.Values{}
	params.Set("latitude", fmt.Sprintf("%f", o.latitude))
	params.Set("longitude", fmt.Sprintf("%f", o.longitude))
	params.Set("current", "temperature_2m,relative_humidity_2m,wind_speed_10m,rain")
	params.Set("daily", "temperature_2m_max,temperature_2m_min,precipitation_sum,relative_humidity_2m_mean,wind_speed_10m_max")
	params.Set("timezone", "Asia/Manila")
	params.Set("forecast_days", "7")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return CurrentConditions{}, nil, stats, fmt.Errorf("build request: %w", err)
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return CurrentConditions{}, nil, stats, fmt.Errorf("fetch forecast: %w", err)
	}
	defer resp.Body.Close()

	stats.HTTPStatus = resp.StatusCode
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return CurrentConditions{}, nil, stats, fmt.Errorf("read body: %w", err)
	}
	stats.ResponseSize = len(body)

	if resp.StatusCode != http.StatusOK {
		return CurrentConditions{}, nil, stats, fmt.Errorf("fetch forecast: status %d: %s", resp.StatusCode, string(body))
	}

	var data openMeteoResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return CurrentConditions{}, nil, stats, fmt.Errorf("unmarshal: %w", err)
	}

	current := CurrentConditions{
		Rainfall:    DefaultRainfall,
		Temperature: DefaultTemperature,
		Humidity:    DefaultHumidity,
		WindSpeed:   DefaultWindSpeed,
	}
	if data.Current.Rain != nil {
		current.Rainfall = *data.Current.Rain
	}
	if data.Current.Temperature != nil {
		current.Temperature = *data.Current.Temperature
	}
	if data.Current.Humidity != nil {
		current.Humidity = *data.Current.Humidity
	}
	if data.Current.WindSpeed != nil {
		current.WindSpeed = *data.Current.WindSpeed
	}

	var forecast []models.ForecastDay
	days := len(data.Daily.Time)
	if days > 7 {
		days = 7
	}
	for i := 0; i < days; i++ {
		date, err := time.Parse("2006-01-02", data.Daily.Time[i])
		if err != nil {
			stats.ParseErrors++
			continue
		}
		day := models.ForecastDay{
			Date:          date,
			FormattedDate: date.Format("Jan 02"),
			TempMax:       DefaultTemperature,
			TempMin:       DefaultTempMin,
			Precipitation: DefaultRainfall,
			Humidity:      DefaultHumidity,
			WindSpeed:     DefaultWindSpeed,
		}
		if i < len(data.Daily.TempMax) {
			day.TempMax = data.Daily.TempMax[i]
		}
		if i < len(data.Daily.TempMin) {
			day.TempMin = data.Daily.TempMin[i]
		}
		if i < len(data.Daily.Precipitation) {
			day.Precipitation = data.Daily.Precipitation[i]
		}
		if i < len(data.Daily.Humidity) {
			day.Humidity = data.Daily.Humidity[i]
		}
		if i < len(data.Daily.WindSpeed) {
			day.WindSpeed = data.Daily.WindSpeed[i]
		}
		forecast = append(forecast, day)
		stats.RecordsParsed++
	}

	return current, forecast, stats, nil
}
