package insight

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/models"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/risk"
)

func forecastWeek(precip [7]float64, tempMax, humidity float64) []models.ForecastDay {
	days := make([]models.ForecastDay, 7)
	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := range days {
		days[i] = models.ForecastDay{
			Date:          base.AddDate(0, 0, i),
			TempMax:       tempMax,
			TempMin:       tempMax - 5,
			Precipitation: precip[i],
			Humidity:      humidity,
			WindSpeed:     10,
		}
	}
	return days
}

func freezeAt(t *testing.T, at time.Time) {
	t.Helper()
	SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { SetClock(nil) })
}

func TestGenerate_SingleHeavyRainDay(t *testing.T) {
	freezeAt(t, time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))

	p := Generate(forecastWeek([7]float64{0, 0, 0, 20, 0, 0, 0}, 28, 70), nil)

	if p.Severity != risk.High {
		t.Fatalf("severity = %v, want %v", p.Severity, risk.High)
	}
	if len(p.RiskAlerts) != 1 {
		t.Fatalf("got %d risk alerts, want 1: %+v", len(p.RiskAlerts), p.RiskAlerts)
	}
	alert := p.RiskAlerts[0]
	if alert.Title != "Heavy Rainfall Alert" || alert.Severity != "high" {
		t.Errorf("unexpected alert: %+v", alert)
	}
	if want := "1 day(s) with heavy rainfall (>15mm) predicted in the next 7 days"; alert.Message != want {
		t.Errorf("alert message = %q, want %q", alert.Message, want)
	}
	if len(p.Recommendations) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(p.Recommendations))
	}
	if p.Recommendations[0].Action != "Activate Emergency Response Teams" {
		t.Errorf("first recommendation = %+v", p.Recommendations[0])
	}
}

func TestGenerate_HeavyRainThresholdIsStrict(t *testing.T) {
	freezeAt(t, time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))

	// Exactly 15mm is not a heavy rainfall day.
	p := Generate(forecastWeek([7]float64{0, 0, 0, 15, 0, 0, 0}, 28, 70), nil)
	if p.Severity != risk.Low {
		t.Fatalf("severity at 15.0mm = %v, want %v", p.Severity, risk.Low)
	}
	if len(p.RiskAlerts) != 0 {
		t.Errorf("got %d risk alerts at 15.0mm, want 0: %+v", len(p.RiskAlerts), p.RiskAlerts)
	}

	p = Generate(forecastWeek([7]float64{0, 0, 0, 15.1, 0, 0, 0}, 28, 70), nil)
	if p.Severity != risk.High {
		t.Fatalf("severity at 15.1mm = %v, want %v", p.Severity, risk.High)
	}
	if len(p.RiskAlerts) != 1 || p.RiskAlerts[0].Title != "Heavy Rainfall Alert" {
		t.Errorf("got alerts at 15.1mm: %+v", p.RiskAlerts)
	}
}

func TestGenerate_QuietWeek(t *testing.T) {
	freezeAt(t, time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))

	p := Generate(forecastWeek([7]float64{}, 28, 70), nil)

	if p.Severity != risk.Low {
		t.Fatalf("severity = %v, want %v", p.Severity, risk.Low)
	}
	if len(p.RiskAlerts) != 0 {
		t.Errorf("got %d risk alerts, want 0: %+v", len(p.RiskAlerts), p.RiskAlerts)
	}
	if len(p.Recommendations) != 1 {
		t.Fatalf("got %d recommendations, want 1: %+v", len(p.Recommendations), p.Recommendations)
	}
	rec := p.Recommendations[0]
	if rec.Action != "Maintain Regular Monitoring" || rec.Priority != "low" {
		t.Errorf("unexpected recommendation: %+v", rec)
	}
}

func TestGenerate_HighPrecipitationVolume(t *testing.T) {
	freezeAt(t, time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))

	// 55mm total but no single day over the heavy-rain threshold.
	p := Generate(forecastWeek([7]float64{10, 10, 10, 10, 5, 5, 5}, 28, 70), nil)

	if p.Severity != risk.Low {
		t.Fatalf("severity = %v, want %v", p.Severity, risk.Low)
	}
	if len(p.RiskAlerts) != 1 {
		t.Fatalf("got %d risk alerts, want 1: %+v", len(p.RiskAlerts), p.RiskAlerts)
	}
	if want := "Total precipitation of 55.0mm expected over 7 days"; p.RiskAlerts[0].Message != want {
		t.Errorf("alert message = %q, want %q", p.RiskAlerts[0].Message, want)
	}
	if len(p.Recommendations) != 2 {
		t.Fatalf("got %d recommendations, want 2: %+v", len(p.Recommendations), p.Recommendations)
	}
	if p.Recommendations[0].Action != "Increase Monitoring Frequency" {
		t.Errorf("first recommendation = %+v", p.Recommendations[0])
	}
}

func TestGenerate_TemperatureAndHumidityImpacts(t *testing.T) {
	freezeAt(t, time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))

	tests := []struct {
		name           string
		tempMax        float64
		humidity       float64
		tempImpact     string
		humidityImpact string
	}{
		{"normal conditions", 30, 80, "low", "low"},
		{"hot week", 34, 80, "moderate", "low"},
		{"saturated air", 30, 90, "low", "high"},
		{"hot and saturated", 34, 90, "moderate", "high"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Generate(forecastWeek([7]float64{}, tt.tempMax, tt.humidity), nil)

			var temp, humidity *ForecastAnalysis
			for i := range p.ForecastAnalysis {
				switch p.ForecastAnalysis[i].Title {
				case "Temperature Trend":
					temp = &p.ForecastAnalysis[i]
				case "Humidity Analysis":
					humidity = &p.ForecastAnalysis[i]
				}
			}
			if temp == nil || humidity == nil {
				t.Fatalf("missing analysis entries: %+v", p.ForecastAnalysis)
			}
			if temp.Impact != tt.tempImpact {
				t.Errorf("temperature impact = %q, want %q", temp.Impact, tt.tempImpact)
			}
			if humidity.Impact != tt.humidityImpact {
				t.Errorf("humidity impact = %q, want %q", humidity.Impact, tt.humidityImpact)
			}
		})
	}
}

func TestGenerate_HistoricalTrend(t *testing.T) {
	freezeAt(t, time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC))

	records := []models.FloodRecord{
		{Event: models.EventFlood, Date: time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)},
		{Event: models.EventFlashFlood, Date: time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC)},
		{Event: models.EventFlood}, // no date, not counted
	}

	wet := Generate(forecastWeek([7]float64{10, 10, 10, 10, 0, 0, 0}, 28, 70), records)
	if len(wet.Trends) != 1 {
		t.Fatalf("got %d trends, want 1: %+v", len(wet.Trends), wet.Trends)
	}
	if want := "2 flood events recorded. Current conditions similar to past flood events."; wet.Trends[0].Analysis != want {
		t.Errorf("trend analysis = %q, want %q", wet.Trends[0].Analysis, want)
	}

	dry := Generate(forecastWeek([7]float64{}, 28, 70), records)
	if len(dry.Trends) != 1 {
		t.Fatalf("got %d trends, want 1", len(dry.Trends))
	}
	if !strings.Contains(dry.Trends[0].Analysis, "different from typical flood patterns") {
		t.Errorf("trend analysis = %q", dry.Trends[0].Analysis)
	}

	empty := Generate(forecastWeek([7]float64{}, 28, 70), nil)
	if len(empty.Trends) != 0 {
		t.Errorf("got %d trends with no history, want 0", len(empty.Trends))
	}
}

func TestGenerate_DayNightAnalysis(t *testing.T) {
	tests := []struct {
		hour  int
		title string
	}{
		{6, "Daytime Monitoring"},
		{12, "Daytime Monitoring"},
		{18, "Daytime Monitoring"},
		{19, "Nighttime Monitoring"},
		{23, "Nighttime Monitoring"},
		{5, "Nighttime Monitoring"},
	}
	for _, tt := range tests {
		freezeAt(t, time.Date(2026, 8, 1, tt.hour, 30, 0, 0, time.UTC))

		p := Generate(forecastWeek([7]float64{}, 28, 70), nil)
		last := p.ForecastAnalysis[len(p.ForecastAnalysis)-1]
		if last.Title != tt.title {
			t.Errorf("hour %d: analysis title = %q, want %q", tt.hour, last.Title, tt.title)
		}
	}
}

func TestGenerate_EmptyForecast(t *testing.T) {
	p := Generate(nil, nil)

	if p.Severity != risk.Low {
		t.Errorf("severity = %v, want %v", p.Severity, risk.Low)
	}
	if p.RiskAlerts == nil || p.ForecastAnalysis == nil || p.Recommendations == nil || p.Trends == nil {
		t.Error("payload slices must be non-nil for JSON encoding")
	}
	if len(p.RiskAlerts)+len(p.ForecastAnalysis)+len(p.Recommendations)+len(p.Trends) != 0 {
		t.Errorf("expected empty payload, got %+v", p)
	}
}
