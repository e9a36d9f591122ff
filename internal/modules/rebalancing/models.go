package rebalancing

// Position is a currently held position, valued in account currency
type Position struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	Value    float64 `json:"value"`
}

// DriftEntry compares one security's current weight against the target
type DriftEntry struct {
	Symbol        string  `json:"symbol"`
	TargetWeight  float64 `json:"target_weight"`
	CurrentWeight float64 `json:"current_weight"`
	Drift         float64 `json:"drift"` // current - target
	Action        string  `json:"action"`
}

// Drift actions
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
	ActionHold = "HOLD"
)

// DriftReport is the advisory output comparing held positions to the target
// allocation. No trades are executed; downstream tooling consumes this.
type DriftReport struct {
	TotalValue float64      `json:"total_value"`
	Entries    []DriftEntry `json:"entries"`
	MaxDrift   float64      `json:"max_drift"`
}
