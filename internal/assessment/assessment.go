// Package assessment maps flood-susceptibility codes from the hazard map
// layers to the narrative texts used in assessments, reports and zoning
// certificates.
package assessment

import (
	"fmt"

	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/models"
	"github.com/agbtndg/-CAPSTONE-FMSWGIS/internal/store"
)

// Susceptibility codes as they appear in the hazard map layer attributes.
const (
	CodeLow      = "LF"
	CodeModerate = "MF"
	CodeHigh     = "HF"
	CodeVeryHigh = "VHF"
)

const mitigationNote = "The implementation of appropriate mitigation measures as deemed necessary by project engineers and LGU building officials is recommended for areas that are susceptible to various flood depths. Site-specific studies including the assessment for other types of hazards should also be conducted to address potential foundation problems."

// Texts bundles every narrative associated with a susceptibility code.
type Texts struct {
	Code           string `json:"code"`
	Label          string `json:"label"`
	CSSClass       string `json:"css_class"`
	Description    string `json:"description"`
	Assessment     string `json:"assessment"`
	Recommendation string `json:"recommendation"`
	Susceptibility string `json:"susceptibility"`
	ZoneStatus     string `json:"zone_status"`
}

var riskTexts = map[string]Texts{
	CodeLow: {
		Code:           CodeLow,
		Label:          "Low Susceptibility; less than 0.5 meters flood height and/or less than 1 day flooding",
		CSSClass:       "risk-low",
		Description:    "Low Flood Susceptibility",
		Assessment:     "Low Susceptibility; less than 0.5 meters flood height and/or less than 1 day flooding",
		Recommendation: "Areas with low susceptibility to floods are likely to experience flood heights of less than 0.5 meters and/or flood duration of less than 1 day. These include low hills and gentle slopes that have sparse to moderate drainage density.\n\n" + mitigationNote,
		Susceptibility: "LOW FLOOD SUSCEPTIBILITY",
		ZoneStatus:     "SAFE ZONE",
	},
	CodeModerate: {
		Code:           CodeModerate,
		Label:          "Moderate Susceptibility; 0.5 to 1 meter flood height and/or 1 to 3 days flooding",
		CSSClass:       "risk-moderate",
		Description:    "Moderate Flood Susceptibility",
		Assessment:     "Moderate Susceptibility; 0.5 to 1 meter flood height and/or 1 to 3 days flooding",
		Recommendation: "Areas with moderate susceptibility to floods are likely to experience flood heights of 0.5 meters up to 1 meter and/or flood duration of 1 to 3 days. These are subject to widespread inundation during prolonged and extensive heavy rainfall or extreme weather conditions. Fluvial terraces, alluvial fans, and infilled valleys are also moderately subjected to flooding.\n\n" + mitigationNote,
		Susceptibility: "MODERATE FLOOD SUSCEPTIBILITY",
		ZoneStatus:     "CONTROLLED ZONE",
	},
	CodeHigh: {
		Code:           CodeHigh,
		Label:          "High Susceptibility; 1 to 2 meters flood height and/or more than 3 days flooding",
		CSSClass:       "risk-high",
		Description:    "High Flood Susceptibility",
		Assessment:     "High Susceptibility; 1 to 2 meters flood height and/or more than 3 days flooding",
		Recommendation: "Areas with high susceptibility to floods are likely to experience flood heights of 1 meter up to 2 meters and/or flood duration of more than 3 days. Sites including active river channels, abandoned river channels, and areas along riverbanks, are immediately flooded during heavy rains of several hours and are prone to flash floods. These may be considered not suitable for permanent habitation but may be developed for alternative uses subject to the implementation of appropriate mitigation measures after conducting site-specific geotechnical studies as deemed necessary by project engineers and LGU building officials.\n\n" + mitigationNote,
		Susceptibility: "HIGH FLOOD SUSCEPTIBILITY",
		ZoneStatus:     "CRITICAL ZONE",
	},
	CodeVeryHigh: {
		Code:           CodeVeryHigh,
		Label:          "Very High Susceptibility; more than 2 meters flood height and/or more than 3 days flooding",
		CSSClass:       "risk-very-high",
		Description:    "Very High Flood Susceptibility",
		Assessment:     "Very High Susceptibility; more than 2 meters flood height and/or more than 3 days flooding",
		Recommendation: "Areas with very high susceptibility to floods are likely to experience flood heights of greater than 2 meters and/or flood duration of more than 3 days. These include active river channels, abandoned river channels, and areas along riverbanks, which are immediately flooded during heavy rains of several hours and are prone to flash floods. These are considered critical geohazard areas and are not suitable for development. It is recommended that these be declared as \"No Habitation/No Build Zones\" by the LGU, and that affected households/communities be relocated.\n\n" + mitigationNote,
		Susceptibility: "VERY HIGH FLOOD SUSCEPTIBILITY",
		ZoneStatus:     "NO HABITATION/BUILD ZONE",
	},
}

// Lookup returns the narrative texts for a susceptibility code. Unknown
// codes get the fallback texts rather than an error so map clicks on
// unclassified areas still render.
func Lookup(code string) Texts {
	if t, ok := riskTexts[code]; ok {
		return t
	}
	return Texts{
		Code:           code,
		Label:          "Unknown Risk Level",
		Description:    "Unknown",
		Assessment:     "No risk data available",
		Recommendation: "Please conduct a proper assessment.",
		Susceptibility: "UNKNOWN FLOOD SUSCEPTIBILITY",
	}
}

// Service persists assessment and report activity for the staff history
// views.
type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// SaveAssessment records that a user assessed a point on the hazard map.
func (s *Service) SaveAssessment(actor, barangay, latitude, longitude, code string) (*models.AssessmentRecord, error) {
	rec := &models.AssessmentRecord{
		Actor:       actor,
		Barangay:    barangay,
		Latitude:    latitude,
		Longitude:   longitude,
		RiskCode:    code,
		Description: Lookup(code).Description,
	}
	if err := s.store.InsertAssessmentRecord(rec); err != nil {
		return nil, fmt.Errorf("save assessment: %w", err)
	}
	return rec, nil
}

// SaveReport records that a user generated a risk-assessment report.
func (s *Service) SaveReport(actor, barangay, latitude, longitude, code string) (*models.ReportRecord, error) {
	rec := &models.ReportRecord{
		Actor:     actor,
		Barangay:  barangay,
		Latitude:  latitude,
		Longitude: longitude,
		RiskCode:  code,
		RiskLabel: Lookup(code).Label,
	}
	if err := s.store.InsertReportRecord(rec); err != nil {
		return nil, fmt.Errorf("save report: %w", err)
	}
	return rec, nil
}
