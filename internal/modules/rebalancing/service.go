package rebalancing

import (
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/aristath/macro-trader/internal/modules/allocation"
)

// Service builds advisory drift reports from a target allocation and held
// positions. Trade execution is out of scope; this is the thin downstream
// consumer of the allocator's output.
type Service struct {
	positions      *PositionRepository
	driftThreshold float64 // drift fraction below which a security is HOLD
	log            zerolog.Logger
}

// NewService creates a new rebalancing service. driftThresholdPct is in
// percentage points (e.g. 1.0 means 1% of portfolio value).
func NewService(positions *PositionRepository, driftThresholdPct float64, log zerolog.Logger) *Service {
	return &Service{
		positions:      positions,
		driftThreshold: driftThresholdPct / 100,
		log:            log.With().Str("service", "rebalancing").Logger(),
	}
}

// BuildDriftReport compares held positions against the target allocation
func (s *Service) BuildDriftReport(target allocation.Allocation) (DriftReport, error) {
	positions, err := s.positions.GetAll()
	if err != nil {
		return DriftReport{}, err
	}

	totalValue := 0.0
	held := map[string]float64{}
	for _, p := range positions {
		totalValue += p.Value
		held[p.Symbol] += p.Value
	}

	// Union of target and held symbols, deterministic order
	symbolSet := map[string]bool{}
	for symbol := range target {
		symbolSet[symbol] = true
	}
	for symbol := range held {
		symbolSet[symbol] = true
	}
	symbols := make([]string, 0, len(symbolSet))
	for symbol := range symbolSet {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	report := DriftReport{TotalValue: totalValue}
	for _, symbol := range symbols {
		currentWeight := 0.0
		if totalValue > 0 {
			currentWeight = held[symbol] / totalValue
		}

		drift := currentWeight - target[symbol]

		action := ActionHold
		if math.Abs(drift) >= s.driftThreshold {
			if drift > 0 {
				action = ActionSell
			} else {
				action = ActionBuy
			}
		}

		// The hold-only security is never bought back up to target
		if sec := allocation.SecurityBySymbol(symbol); sec != nil && sec.HoldOnly && action == ActionBuy {
			action = ActionHold
		}

		entry := DriftEntry{
			Symbol:        symbol,
			TargetWeight:  target[symbol],
			CurrentWeight: currentWeight,
			Drift:         drift,
			Action:        action,
		}
		report.Entries = append(report.Entries, entry)

		if math.Abs(drift) > report.MaxDrift {
			report.MaxDrift = math.Abs(drift)
		}
	}

	return report, nil
}
