package insight

import (
	"fmt"

	"github.com/jonboulle/clockwork"

	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/models"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/risk"
)

// Thresholds for the forecast analysis rules.
const (
	heavyRainDayMM     = 15  // a day above this is a heavy-rain day
	highVolumeTotalMM  = 50  // total precipitation alert threshold
	elevatedTotalMM    = 20  // moderate-precipitation recommendation threshold
	historicalMatchMM  = 30  // total above this resembles past flood events
	hotAvgTempC        = 32  // average max temp that intensifies rainfall
	saturatedHumidityP = 85  // max humidity indicating moisture saturation
)

// clock is a package-level time source so tests can freeze the wall clock
// for the day/night analysis entry.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// RiskAlert is a single alert derived from the forecast.
type RiskAlert struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// ForecastAnalysis is a narrative analysis entry with an impact rating.
type ForecastAnalysis struct {
	Title    string `json:"title"`
	Analysis string `json:"analysis"`
	Impact   string `json:"impact"`
}

// Recommendation is a prioritized action suggestion.
type Recommendation struct {
	Priority string `json:"priority"`
	Action   string `json:"action"`
	Reason   string `json:"reason"`
}

// Trend compares current conditions against historical flood patterns.
type Trend struct {
	Title          string `json:"title"`
	Analysis       string `json:"analysis"`
	Recommendation string `json:"recommendation"`
}

// Payload is the structured bundle of alerts, analysis and recommendations
// derived from the forecast and flood history. It is rebuilt on every
// request and never persisted.
type Payload struct {
	RiskAlerts       []RiskAlert        `json:"risk_alerts"`
	ForecastAnalysis []ForecastAnalysis `json:"forecast_analysis"`
	Recommendations  []Recommendation   `json:"recommendations"`
	Trends           []Trend            `json:"trends"`
	Severity         risk.Tier          `json:"severity"`
}

// Generate derives flood-prediction insights from a multi-day forecast and
// recent flood-event history. The output is deterministic for a given
// forecast, history and time of day; nothing is read from or written to
// the store.
func Generate(forecast []models.ForecastDay, floodRecords []models.FloodRecord) Payload {
	p := Payload{
		RiskAlerts:       []RiskAlert{},
		ForecastAnalysis: []ForecastAnalysis{},
		Recommendations:  []Recommendation{},
		Trends:           []Trend{},
		Severity:         risk.Low,
	}

	if len(forecast) == 0 {
		return p
	}

	var totalPrecip float64
	heavyRainDays := 0
	for _, day := range forecast {
		totalPrecip += day.Precipitation
		if day.Precipitation > heavyRainDayMM {
			heavyRainDays++
		}
	}

	if heavyRainDays > 0 {
		p.RiskAlerts = append(p.RiskAlerts, RiskAlert{
			Type:     "warning",
			Title:    "Heavy Rainfall Alert",
			Message:  fmt.Sprintf("%d day(s) with heavy rainfall (>15mm) predicted in the next 7 days", heavyRainDays),
			Severity: "high",
		})
		p.Severity = risk.High
	}

	if totalPrecip > highVolumeTotalMM {
		p.RiskAlerts = append(p.RiskAlerts, RiskAlert{
			Type:     "warning",
			Title:    "High Precipitation Volume",
			Message:  fmt.Sprintf("Total precipitation of %.1fmm expected over 7 days", totalPrecip),
			Severity: "medium",
		})
	}

	var tempSum float64
	maxHumidity := forecast[0].Humidity
	for _, day := range forecast {
		tempSum += day.TempMax
		if day.Humidity > maxHumidity {
			maxHumidity = day.Humidity
		}
	}
	avgTempMax := tempSum / float64(len(forecast))

	tempNote := "Temperatures within normal range."
	tempImpact := "low"
	if avgTempMax > hotAvgTempC {
		tempNote = "High temperatures may intensify rainfall events."
		tempImpact = "moderate"
	}
	p.ForecastAnalysis = append(p.ForecastAnalysis, ForecastAnalysis{
		Title:    "Temperature Trend",
		Analysis: fmt.Sprintf("Average maximum temperature: %.1f°C. %s", avgTempMax, tempNote),
		Impact:   tempImpact,
	})

	humidityNote := "Humidity levels within normal range."
	humidityImpact := "low"
	if maxHumidity > saturatedHumidityP {
		humidityNote = "High humidity indicates moisture saturation, increasing flood risk."
		humidityImpact = "high"
	}
	p.ForecastAnalysis = append(p.ForecastAnalysis, ForecastAnalysis{
		Title:    "Humidity Analysis",
		Analysis: fmt.Sprintf("Maximum humidity: %.0f%%. %s", maxHumidity, humidityNote),
		Impact:   humidityImpact,
	})

	// Only records carrying a date count toward the historical pattern.
	recentFloods := 0
	for _, rec := range floodRecords {
		if !rec.Date.IsZero() {
			recentFloods++
		}
	}
	if recentFloods > 0 {
		comparison := "different from typical flood patterns"
		if totalPrecip > historicalMatchMM {
			comparison = "similar to past flood events"
		}
		p.Trends = append(p.Trends, Trend{
			Title:          "Historical Flood Patterns",
			Analysis:       fmt.Sprintf("%d flood events recorded. Current conditions %s.", recentFloods, comparison),
			Recommendation: "Monitor closely if patterns match historical flood events.",
		})
	}

	switch {
	case p.Severity == risk.High:
		p.Recommendations = append(p.Recommendations,
			Recommendation{Priority: "high", Action: "Activate Emergency Response Teams", Reason: "Heavy rainfall predicted in forecast"},
			Recommendation{Priority: "high", Action: "Pre-position Emergency Supplies", Reason: "High flood risk identified"},
			Recommendation{Priority: "medium", Action: "Monitor Low-lying Areas", Reason: "Vulnerable barangays at risk"},
		)
	case totalPrecip > elevatedTotalMM:
		p.Recommendations = append(p.Recommendations,
			Recommendation{Priority: "medium", Action: "Increase Monitoring Frequency", Reason: "Moderate precipitation expected"},
			Recommendation{Priority: "low", Action: "Prepare Drainage Systems", Reason: "Preventive maintenance recommended"},
		)
	default:
		p.Recommendations = append(p.Recommendations,
			Recommendation{Priority: "low", Action: "Maintain Regular Monitoring", Reason: "Current conditions stable"},
		)
	}

	hour := clock.Now().Hour()
	if hour >= 6 && hour <= 18 {
		p.ForecastAnalysis = append(p.ForecastAnalysis, ForecastAnalysis{
			Title:    "Daytime Monitoring",
			Analysis: "Currently daytime hours. Visual inspection of vulnerable areas recommended.",
			Impact:   "low",
		})
	} else {
		p.ForecastAnalysis = append(p.ForecastAnalysis, ForecastAnalysis{
			Title:    "Nighttime Monitoring",
			Analysis: "Currently nighttime hours. Focus on automated monitoring systems and emergency response readiness.",
			Impact:   "medium",
		})
	}

	return p
}
