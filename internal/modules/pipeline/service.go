package pipeline

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/macro-trader/internal/modules/allocation"
	"github.com/aristath/macro-trader/internal/modules/forecast"
	"github.com/aristath/macro-trader/internal/modules/indicators"
	"github.com/aristath/macro-trader/internal/modules/scenarios"
	"github.com/aristath/macro-trader/internal/modules/themes"
)

// Snapshot is the full output of one pipeline run
type Snapshot struct {
	CreatedAt   time.Time                 `json:"created_at"`
	Themes      []scenarios.ThemeForecast `json:"themes"`
	Scenarios   scenarios.Distribution    `json:"scenarios"`
	Target      allocation.Allocation     `json:"target"`
	Diagnostics allocation.Diagnostics    `json:"diagnostics"`
}

// Service orchestrates the full computation: indicator snapshot -> theme
// values -> trend/volatility -> transition probabilities -> scenario
// distribution -> target allocation
//
// The computation itself is pure and synchronous; all I/O happens before
// (loading the indicator snapshot) and after (persisting the result).
type Service struct {
	indicatorRepo *indicators.Repository
	themeCalc     *themes.Calculator
	themeHistory  *themes.HistoryRepository
	synthesizer   *scenarios.Synthesizer
	allocator     *allocation.Service
	snapshots     *SnapshotRepository
	log           zerolog.Logger
}

// NewService creates a new pipeline service
func NewService(
	indicatorRepo *indicators.Repository,
	themeCalc *themes.Calculator,
	themeHistory *themes.HistoryRepository,
	synthesizer *scenarios.Synthesizer,
	allocator *allocation.Service,
	snapshots *SnapshotRepository,
	log zerolog.Logger,
) *Service {
	return &Service{
		indicatorRepo: indicatorRepo,
		themeCalc:     themeCalc,
		themeHistory:  themeHistory,
		synthesizer:   synthesizer,
		allocator:     allocator,
		snapshots:     snapshots,
		log:           log.With().Str("service", "pipeline").Logger(),
	}
}

// Run loads the indicator snapshot, computes, and persists the result
func (s *Service) Run() (*Snapshot, error) {
	snap, err := s.indicatorRepo.GetSnapshot()
	if err != nil {
		return nil, fmt.Errorf("failed to load indicator snapshot: %w", err)
	}

	result := s.Compute(snap)
	result.CreatedAt = time.Now().UTC()

	// Persist reconstructed theme series for display
	for _, tf := range result.Themes {
		series := s.themeCalc.CalculateSeries(tf.Theme, snap.ByTheme(tf.Theme))
		if err := s.themeHistory.ReplaceSeries(tf.Theme, series); err != nil {
			s.log.Warn().Err(err).Str("theme", string(tf.Theme)).Msg("Failed to persist theme history")
		}
	}

	if err := s.snapshots.Save(result); err != nil {
		return nil, fmt.Errorf("failed to persist snapshot: %w", err)
	}

	s.log.Info().
		Int("current_scenario", result.Scenarios.CurrentID).
		Float64("alpha", result.Diagnostics.Alpha).
		Int("selected_scenarios", len(result.Diagnostics.SelectedScenarios)).
		Msg("Pipeline run complete")

	return &result, nil
}

// Compute runs the full pipeline over an immutable indicator snapshot. It is
// deterministic and side-effect-free: identical inputs produce identical
// outputs. Missing or degenerate data takes documented neutral defaults
// instead of failing, so a result is always produced.
func (s *Service) Compute(snap indicators.Snapshot) Snapshot {
	var forecasts [4]scenarios.ThemeForecast

	for i, theme := range indicators.AllThemes {
		inds := snap.ByTheme(theme)

		value := s.themeCalc.Calculate(theme, inds)
		series := s.themeCalc.CalculateSeries(theme, inds)

		trend := forecast.FitTrend(series)
		vol := forecast.EstimateVolatility(series)
		transitions := forecast.TransitionProbabilities(value.Value, trend, vol)

		forecasts[i] = scenarios.ThemeForecast{
			Theme:       theme,
			Value:       value,
			Trend:       trend,
			Volatility:  vol,
			Transitions: transitions,
			Persistence: transitions.Persistence(value.State),
		}

		if value.Defaulted || trend.Defaulted || vol.Defaulted || transitions.Defaulted {
			s.log.Debug().
				Str("theme", string(theme)).
				Bool("value_defaulted", value.Defaulted).
				Bool("trend_defaulted", trend.Defaulted).
				Bool("volatility_defaulted", vol.Defaulted).
				Bool("transitions_defaulted", transitions.Defaulted).
				Msg("Theme computation took a default path")
		}
	}

	dist := s.synthesizer.Synthesize(forecasts)
	allocResult := s.allocator.Allocate(dist)

	return Snapshot{
		Themes:      forecasts[:],
		Scenarios:   dist,
		Target:      allocResult.Target,
		Diagnostics: allocResult.Diagnostics,
	}
}
