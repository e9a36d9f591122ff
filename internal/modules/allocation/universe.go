package allocation

// SecurityType classifies an instrument in the universe
type SecurityType string

const (
	TypeEquity      SecurityType = "equity"
	TypeIncome      SecurityType = "income"
	TypeAlternative SecurityType = "alternative"
	TypeCash        SecurityType = "cash"
)

// Security is an instrument in the fixed allocation universe
type Security struct {
	Symbol             string       `json:"symbol"`
	Name               string       `json:"name"`
	Type               SecurityType `json:"type"`
	HoldOnly           bool         `json:"hold_only,omitempty"`
	PrimaryIncomeRoute bool         `json:"primary_income_route,omitempty"`
}

// Well-known symbols used by constraints and hedging
const (
	CashSymbol           = "CASH"
	HoldOnlySymbol       = "LGCY"
	ManagedFuturesSymbol = "DBMF"
	DevelopedIntlSymbol  = "VEA"
)

// Universe returns the fixed security universe in canonical order
func Universe() []Security {
	return []Security{
		{Symbol: "VTI", Name: "US Total Market", Type: TypeEquity},
		{Symbol: "QQQ", Name: "US Large Growth", Type: TypeEquity},
		{Symbol: "VTV", Name: "US Large Value", Type: TypeEquity},
		{Symbol: DevelopedIntlSymbol, Name: "Developed International", Type: TypeEquity},
		{Symbol: "VWO", Name: "Emerging Markets", Type: TypeEquity},
		{Symbol: "BND", Name: "US Aggregate Bond", Type: TypeIncome, PrimaryIncomeRoute: true},
		{Symbol: "TIP", Name: "Inflation-Protected Bond", Type: TypeIncome},
		{Symbol: "GLD", Name: "Gold", Type: TypeAlternative},
		{Symbol: ManagedFuturesSymbol, Name: "Managed Futures", Type: TypeAlternative},
		{Symbol: HoldOnlySymbol, Name: "Legacy Employer Stock", Type: TypeEquity, HoldOnly: true},
		{Symbol: CashSymbol, Name: "Cash & Equivalents", Type: TypeCash},
	}
}

// UniverseSymbols returns the universe's symbols in canonical order
func UniverseSymbols() []string {
	securities := Universe()
	symbols := make([]string, len(securities))
	for i, sec := range securities {
		symbols[i] = sec.Symbol
	}
	return symbols
}

// SecurityBySymbol returns the universe entry for a symbol, or nil
func SecurityBySymbol(symbol string) *Security {
	for _, sec := range Universe() {
		if sec.Symbol == symbol {
			return &sec
		}
	}
	return nil
}

// BaselineAllocation is the hand-specified starting allocation every
// candidate is built from. Weights sum to 1.
func BaselineAllocation() Allocation {
	return Allocation{
		"VTI":                0.28,
		"QQQ":                0.10,
		"VTV":                0.08,
		DevelopedIntlSymbol:  0.12,
		"VWO":                0.05,
		"BND":                0.18,
		"TIP":                0.05,
		"GLD":                0.04,
		ManagedFuturesSymbol: 0.03,
		HoldOnlySymbol:       0.05,
		CashSymbol:           0.02,
	}
}
