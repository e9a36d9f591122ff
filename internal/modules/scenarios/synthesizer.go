package scenarios

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/aristath/macro-trader/internal/modules/forecast"
	"github.com/aristath/macro-trader/internal/modules/indicators"
	"github.com/aristath/macro-trader/internal/modules/themes"
)

// Scenario is one entry of the joint distribution
type Scenario struct {
	ID          int     `json:"id"`
	States      States  `json:"states"`
	Probability float64 `json:"probability"`
	Rank        int     `json:"rank"`
}

// Distribution is the full 81-scenario joint distribution, sorted descending
// by probability with dense ranks assigned. Invariant: probabilities sum to 1.
type Distribution struct {
	Scenarios []Scenario `json:"scenarios"`

	// CurrentID is the scenario encoding the themes' current states
	CurrentID int `json:"current_id"`
}

// ThemeForecast bundles a theme's current reading with its transition distribution
type ThemeForecast struct {
	Theme       indicators.Theme            `json:"theme"`
	Value       themes.Value                `json:"value"`
	Trend       forecast.TrendFit           `json:"trend"`
	Volatility  forecast.VolatilityEstimate `json:"volatility"`
	Transitions forecast.Distribution       `json:"transitions"`
	Persistence float64                     `json:"persistence"`
}

// Synthesizer combines the four themes' transition distributions into the
// joint scenario distribution
//
// The joint probability of a combination is the product of the themes'
// marginal state probabilities. Cross-theme covariance is deliberately not
// modelled: a joint transition model would need far more history than the
// monthly indicator series carry, and the downstream allocator only consumes
// the handful of top-ranked scenarios where the marginals dominate.
type Synthesizer struct {
	log zerolog.Logger
}

// NewSynthesizer creates a new scenario synthesizer
func NewSynthesizer(log zerolog.Logger) *Synthesizer {
	return &Synthesizer{
		log: log.With().Str("service", "scenario_synthesizer").Logger(),
	}
}

// Synthesize builds the joint distribution from per-theme forecasts, which
// must be ordered USD, Innovation, Valuation, USLeadership
func (s *Synthesizer) Synthesize(forecasts [4]ThemeForecast) Distribution {
	scenarios := make([]Scenario, 0, NumScenarios)

	for id := 1; id <= NumScenarios; id++ {
		states := Decode(id)
		prob := 1.0
		for i := 0; i < 4; i++ {
			prob *= forecasts[i].Transitions.Prob(states.State(i))
		}
		scenarios = append(scenarios, Scenario{ID: id, States: states, Probability: prob})
	}

	// Descending by probability, id ascending for deterministic ties
	sort.Slice(scenarios, func(i, j int) bool {
		if scenarios[i].Probability != scenarios[j].Probability {
			return scenarios[i].Probability > scenarios[j].Probability
		}
		return scenarios[i].ID < scenarios[j].ID
	})

	assignDenseRanks(scenarios)

	current := States{
		USD:          forecasts[0].Value.State,
		Innovation:   forecasts[1].Value.State,
		Valuation:    forecasts[2].Value.State,
		USLeadership: forecasts[3].Value.State,
	}

	return Distribution{
		Scenarios: scenarios,
		CurrentID: Encode(current),
	}
}

// assignDenseRanks gives equal probabilities equal rank, with the next
// distinct probability taking rank+1
func assignDenseRanks(scenarios []Scenario) {
	rank := 0
	prev := math.Inf(1)
	for i := range scenarios {
		if scenarios[i].Probability != prev {
			rank++
			prev = scenarios[i].Probability
		}
		scenarios[i].Rank = rank
	}
}

// Total returns the probability mass of the distribution (1 within tolerance)
func (d Distribution) Total() float64 {
	total := 0.0
	for _, sc := range d.Scenarios {
		total += sc.Probability
	}
	return total
}

// Top returns the n most likely scenarios
func (d Distribution) Top(n int) []Scenario {
	if n > len(d.Scenarios) {
		n = len(d.Scenarios)
	}
	return d.Scenarios[:n]
}
