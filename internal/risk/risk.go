package risk

import "strings"

// Tier is an ordered flood-risk severity classification. The ordinal is the
// basis for the worst-case combination rule; higher means more severe.
type Tier int

const (
	Low Tier = iota + 1
	Moderate
	High
	Critical
)

// String returns the canonical short label for the tier.
func (t Tier) String() string {
	switch t {
	case Critical:
		return "Critical Risk"
	case High:
		return "High Risk"
	case Moderate:
		return "Moderate Risk"
	default:
		return "Low Risk"
	}
}

// Color returns the display color token for the tier.
func (t Tier) Color() string {
	switch t {
	case Critical:
		return "red"
	case High:
		return "orange"
	case Moderate:
		return "yellow"
	default:
		return "green"
	}
}

// MarshalText encodes the tier as its canonical label for JSON payloads.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// ClassifyRainfall maps a rainfall reading in mm to a risk tier and the
// banded display label. Lower bounds are inclusive; 100mm is still High
// because Critical requires strictly more than 100mm.
func ClassifyRainfall(mm float64) (Tier, string) {
	switch {
	case mm > 100:
		return Critical, "Critical Risk (>100mm)"
	case mm >= 50:
		return High, "High Risk (50-100mm)"
	case mm >= 30:
		return Moderate, "Moderate Risk (30-50mm)"
	default:
		return Low, "Low Risk (<30mm)"
	}
}

// ClassifyTide maps a tide height in meters to a risk tier and the banded
// display label. 2.0m is High; Critical requires strictly more than 2.0m.
func ClassifyTide(m float64) (Tier, string) {
	switch {
	case m > 2.0:
		return Critical, "Critical Risk (>2.0m)"
	case m >= 1.5:
		return High, "High Risk (1.5-2.0m)"
	case m >= 1.0:
		return Moderate, "Moderate Risk (1.0-1.5m)"
	default:
		return Low, "Low Risk (<1.0m)"
	}
}

// Combine returns the worse of two tiers. The label and color of the result
// are the canonical ones for the resulting tier regardless of which input
// produced it.
func Combine(a, b Tier) Tier {
	if b > a {
		return b
	}
	return a
}

// TierFromLabel recovers a tier from a formatted label such as
// "High Risk (50-100mm)" by matching the prefix before the first
// parenthesis. Unrecognized labels classify as Low. Severity is carried as
// a Tier everywhere inside this module; this parser exists only for labels
// arriving from external callers.
func TierFromLabel(label string) Tier {
	if i := strings.IndexByte(label, '('); i >= 0 {
		label = label[:i]
	}
	switch strings.TrimSpace(label) {
	case "Critical Risk":
		return Critical
	case "High Risk":
		return High
	case "Moderate Risk":
		return Moderate
	default:
		return Low
	}
}
