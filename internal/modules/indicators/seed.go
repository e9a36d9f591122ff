package indicators

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

// seedHistoryPoints is the length of the generated history series for seeded
// indicators: enough for the 24-point trend window plus GARCH calibration.
const seedHistoryPoints = 48

// DefaultUniverse returns the seeded indicator universe: four themes with
// three indicators each (one leading, one concurrent, one lagging).
func DefaultUniverse() []Indicator {
	defs := []struct {
		key      string
		name     string
		theme    Theme
		temporal Temporal
		weight   float64
		inverted bool
		pct      Percentiles
		current  float64
	}{
		// USD dominance
		{"real_yield_differential", "US Real Yield Differential vs G10", ThemeUSD, TemporalLeading, 1.0, false,
			Percentiles{Min: -2.0, P33: -0.5, P67: 0.8, Max: 2.5}, 0.4},
		{"dxy_index", "Dollar Index (DXY)", ThemeUSD, TemporalConcurrent, 1.0, false,
			Percentiles{Min: 85, P33: 95, P67: 105, Max: 115}, 101},
		{"fed_balance_sheet_growth", "Fed Balance Sheet YoY Growth", ThemeUSD, TemporalLagging, 1.0, true,
			Percentiles{Min: -10, P33: -2, P67: 8, Max: 30}, 1.5},

		// Innovation
		{"rd_capex_ratio", "R&D Share of S&P 500 Capex", ThemeInnovation, TemporalLeading, 1.0, false,
			Percentiles{Min: 0.15, P33: 0.22, P67: 0.30, Max: 0.40}, 0.27},
		{"growth_value_ratio", "Growth/Value Relative Strength", ThemeInnovation, TemporalConcurrent, 1.0, false,
			Percentiles{Min: 0.6, P33: 0.9, P67: 1.2, Max: 1.8}, 1.1},
		{"ipo_activity", "Tech IPO Count (12m)", ThemeInnovation, TemporalLagging, 1.0, false,
			Percentiles{Min: 10, P33: 40, P67: 90, Max: 200}, 65},

		// Valuation
		{"equity_risk_premium", "Equity Risk Premium", ThemeValuation, TemporalLeading, 1.0, false,
			Percentiles{Min: -1.0, P33: 1.5, P67: 3.5, Max: 6.0}, 2.2},
		{"cape_ratio", "Shiller CAPE", ThemeValuation, TemporalConcurrent, 1.0, true,
			Percentiles{Min: 12, P33: 20, P67: 30, Max: 44}, 31},
		{"margin_debt_growth", "Margin Debt YoY Growth", ThemeValuation, TemporalLagging, 1.0, true,
			Percentiles{Min: -25, P33: -5, P67: 12, Max: 60}, 4},

		// US-vs-international leadership
		{"relative_eps_revisions", "US vs Intl EPS Revision Breadth", ThemeUSLeadership, TemporalLeading, 1.0, false,
			Percentiles{Min: -0.4, P33: -0.1, P67: 0.15, Max: 0.5}, 0.05},
		{"spx_vs_acwi_ex_us", "S&P 500 / ACWI ex-US Relative Strength", ThemeUSLeadership, TemporalConcurrent, 1.0, false,
			Percentiles{Min: 0.7, P33: 1.0, P67: 1.25, Max: 1.7}, 1.18},
		{"us_fund_flows_share", "US Share of Global Equity Fund Flows", ThemeUSLeadership, TemporalLagging, 1.0, false,
			Percentiles{Min: 0.3, P33: 0.45, P67: 0.6, Max: 0.8}, 0.55},
	}

	indicators := make([]Indicator, 0, len(defs))
	for _, d := range defs {
		pct := d.pct
		current := d.current
		indicators = append(indicators, Indicator{
			Key:          d.key,
			Name:         d.name,
			Theme:        d.theme,
			Temporal:     d.temporal,
			Weight:       d.weight,
			Inverted:     d.inverted,
			CurrentValue: &current,
			Percentiles:  &pct,
			History:      seedHistory(d.key, d.pct, d.current),
		})
	}

	return indicators
}

// Seed inserts the default universe if the indicators table is empty
func Seed(repo *Repository, log zerolog.Logger) error {
	count, err := repo.Count()
	if err != nil {
		return fmt.Errorf("failed to check indicator count: %w", err)
	}
	if count > 0 {
		return nil
	}

	universe := DefaultUniverse()
	for _, ind := range universe {
		if err := repo.Upsert(ind); err != nil {
			return fmt.Errorf("failed to seed indicator %s: %w", ind.Key, err)
		}
	}

	log.Info().Int("indicators", len(universe)).Msg("Seeded default indicator universe")
	return nil
}

// seedHistory generates a deterministic history series inside the indicator's
// percentile range, drifting toward the current value. Deterministic so that
// repeated seeding (and tests) produce identical pipelines.
func seedHistory(key string, pct Percentiles, current float64) []float64 {
	span := pct.Max - pct.Min
	if span <= 0 {
		span = 1
	}

	// Stable per-indicator phase from the key bytes
	var phase float64
	for _, b := range []byte(key) {
		phase += float64(b)
	}
	phase = math.Mod(phase, 2*math.Pi)

	mid := (pct.Min + pct.Max) / 2
	history := make([]float64, seedHistoryPoints)
	for i := 0; i < seedHistoryPoints; i++ {
		progress := float64(i) / float64(seedHistoryPoints-1)
		base := mid + (current-mid)*progress
		wave := 0.08 * span * math.Sin(phase+float64(i)*0.7)
		history[i] = base + wave
	}
	history[seedHistoryPoints-1] = current

	return history
}
