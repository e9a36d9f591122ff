package scenarios

import (
	"github.com/aristath/macro-trader/internal/modules/themes"
)

// States is one combination of the four themes' discrete states
type States struct {
	USD          themes.State `json:"usd"`
	Innovation   themes.State `json:"innovation"`
	Valuation    themes.State `json:"valuation"`
	USLeadership themes.State `json:"us_leadership"`
}

// NumScenarios is the size of the scenario space (3^4)
const NumScenarios = 81

// BaseCaseID is the id of the all-neutral scenario
const BaseCaseID = 41

// Encode maps a state combination to its stable scenario id in [1, 81]
//
// Base-3 positional encoding: USD×27 + Innovation×9 + Valuation×3 +
// USLeadership, each state shifted by +1, plus 1. The encoding is a bijection
// between state combinations and ids; the all-neutral combination maps to 41.
func Encode(s States) int {
	return int(s.USD+1)*27 + int(s.Innovation+1)*9 + int(s.Valuation+1)*3 + int(s.USLeadership+1) + 1
}

// Decode maps a scenario id in [1, 81] back to its state combination
func Decode(id int) States {
	n := id - 1
	return States{
		USD:          themes.State(n/27%3 - 1),
		Innovation:   themes.State(n/9%3 - 1),
		Valuation:    themes.State(n/3%3 - 1),
		USLeadership: themes.State(n%3 - 1),
	}
}

// State returns the combination's state for a given theme position (0=USD,
// 1=Innovation, 2=Valuation, 3=USLeadership)
func (s States) State(position int) themes.State {
	switch position {
	case 0:
		return s.USD
	case 1:
		return s.Innovation
	case 2:
		return s.Valuation
	default:
		return s.USLeadership
	}
}

// ActiveThemeCount counts themes away from neutral in this combination
func (s States) ActiveThemeCount() int {
	count := 0
	for i := 0; i < 4; i++ {
		if s.State(i) != themes.StateNeutral {
			count++
		}
	}
	return count
}
