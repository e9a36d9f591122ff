package indicators

// Theme identifies one of the four macro dimensions tracked by the engine
type Theme string

const (
	ThemeUSD          Theme = "usd"
	ThemeInnovation   Theme = "innovation"
	ThemeValuation    Theme = "valuation"
	ThemeUSLeadership Theme = "us_leadership"
)

// AllThemes lists the themes in their canonical (encoding) order
var AllThemes = []Theme{ThemeUSD, ThemeInnovation, ThemeValuation, ThemeUSLeadership}

// Temporal classifies how early an indicator moves relative to the theme it tracks
type Temporal string

const (
	TemporalLeading    Temporal = "leading"
	TemporalConcurrent Temporal = "concurrent"
	TemporalLagging    Temporal = "lagging"
)

// TemporalWeight returns the fixed contribution weight for a temporal class
//
// Leading and lagging indicators are discounted slightly against concurrent
// ones: leading=0.30, concurrent=0.40, lagging=0.30.
func TemporalWeight(t Temporal) float64 {
	switch t {
	case TemporalLeading:
		return 0.30
	case TemporalConcurrent:
		return 0.40
	case TemporalLagging:
		return 0.30
	}
	return 0.30
}

// Percentiles holds the historical percentile bands of an indicator's raw values
type Percentiles struct {
	Min float64 `json:"min"`
	P33 float64 `json:"p33"`
	P67 float64 `json:"p67"`
	Max float64 `json:"max"`
}

// Indicator is a single macro/market indicator snapshot
//
// CurrentValue and Percentiles are optional: an indicator missing either is
// excluded from its theme's score rather than failing the computation.
type Indicator struct {
	Key          string       `json:"key"`
	Name         string       `json:"name"`
	Theme        Theme        `json:"theme"`
	Temporal     Temporal     `json:"temporal"`
	Weight       float64      `json:"weight"`
	Inverted     bool         `json:"inverted"`
	CurrentValue *float64     `json:"current_value,omitempty"`
	Percentiles  *Percentiles `json:"percentiles,omitempty"`
	History      []float64    `json:"history,omitempty"` // chronological, fixed cadence
}

// Snapshot is an immutable view of the full indicator universe at one moment
type Snapshot struct {
	Indicators []Indicator `json:"indicators"`
}

// ByTheme returns the snapshot's indicators belonging to a theme
func (s Snapshot) ByTheme(theme Theme) []Indicator {
	var out []Indicator
	for _, ind := range s.Indicators {
		if ind.Theme == theme {
			out = append(out, ind)
		}
	}
	return out
}

// Get returns the indicator with the given key, or nil
func (s Snapshot) Get(key string) *Indicator {
	for i := range s.Indicators {
		if s.Indicators[i].Key == key {
			return &s.Indicators[i]
		}
	}
	return nil
}
