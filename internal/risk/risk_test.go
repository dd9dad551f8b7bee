package risk

import "testing"

func TestClassifyRainfall_Boundaries(t *testing.T) {
	tests := []struct {
		mm        float64
		wantTier  Tier
		wantLabel string
	}{
		{0, Low, "Low Risk (<30mm)"},
		{-5, Low, "Low Risk (<30mm)"},
		{29.9, Low, "Low Risk (<30mm)"},
		{30, Moderate, "Moderate Risk (30-50mm)"},
		{49.9, Moderate, "Moderate Risk (30-50mm)"},
		{50, High, "High Risk (50-100mm)"},
		{99.9, High, "High Risk (50-100mm)"},
		{100, High, "High Risk (50-100mm)"},
		{100.01, Critical, "Critical Risk (>100mm)"},
		{250, Critical, "Critical Risk (>100mm)"},
	}

	for _, tt := range tests {
		tier, label := ClassifyRainfall(tt.mm)
		if tier != tt.wantTier {
			t.Errorf("ClassifyRainfall(%v) tier = %v, want %v", tt.mm, tier, tt.wantTier)
		}
		if label != tt.wantLabel {
			t.Errorf("ClassifyRainfall(%v) label = %q, want %q", tt.mm, label, tt.wantLabel)
		}
	}
}

func TestClassifyRainfall_Monotonic(t *testing.T) {
	prev := Low
	for mm := 0.0; mm <= 150; mm += 0.5 {
		tier, _ := ClassifyRainfall(mm)
		if tier < prev {
			t.Fatalf("tier decreased at %vmm: %v -> %v", mm, prev, tier)
		}
		prev = tier
	}
}

func TestClassifyTide_Boundaries(t *testing.T) {
	tests := []struct {
		m        float64
		wantTier Tier
	}{
		{0.99, Low},
		{1.0, Moderate},
		{1.49, Moderate},
		{1.5, High},
		{2.0, High},
		{2.01, Critical},
	}

	for _, tt := range tests {
		tier, _ := ClassifyTide(tt.m)
		if tier != tt.wantTier {
			t.Errorf("ClassifyTide(%v) = %v, want %v", tt.m, tier, tt.wantTier)
		}
	}
}

func TestCombine(t *testing.T) {
	if got := Combine(Low, Critical); got != Critical {
		t.Errorf("Combine(Low, Critical) = %v, want Critical", got)
	}
	if got := Combine(High, High); got != High {
		t.Errorf("Combine(High, High) = %v, want High", got)
	}
	if got := Combine(Moderate, Low); got != Moderate {
		t.Errorf("Combine(Moderate, Low) = %v, want Moderate", got)
	}
}

func TestCombine_Commutative(t *testing.T) {
	tiers := []Tier{Low, Moderate, High, Critical}
	for _, a := range tiers {
		for _, b := range tiers {
			if Combine(a, b) != Combine(b, a) {
				t.Errorf("Combine(%v, %v) != Combine(%v, %v)", a, b, b, a)
			}
		}
	}
}

func TestTierFromLabel(t *testing.T) {
	tests := []struct {
		label string
		want  Tier
	}{
		{"Critical Risk (>100mm)", Critical},
		{"High Risk (50-100mm)", High},
		{"High Risk (1.5-2.0m)", High},
		{"Moderate Risk (30-50mm)", Moderate},
		{"Low Risk (<30mm)", Low},
		{"Low Risk", Low},
		{"garbage", Low},
		{"", Low},
	}

	for _, tt := range tests {
		if got := TierFromLabel(tt.label); got != tt.want {
			t.Errorf("TierFromLabel(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestTierLabelRoundTrip(t *testing.T) {
	for _, tier := range []Tier{Low, Moderate, High, Critical} {
		if got := TierFromLabel(tier.String()); got != tier {
			t.Errorf("TierFromLabel(%q) = %v, want %v", tier.String(), got, tier)
		}
	}
}

func TestTierColor(t *testing.T) {
	tests := []struct {
		tier Tier
		want string
	}{
		{Low, "green"},
		{Moderate, "yellow"},
		{High, "orange"},
		{Critical, "red"},
	}
	for _, tt := range tests {
		if got := tt.tier.Color(); got != tt.want {
			t.Errorf("%v.Color() = %q, want %q", tt.tier, got, tt.want)
		}
	}
}
