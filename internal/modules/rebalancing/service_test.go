package rebalancing

import (
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aristath/macro-trader/internal/database"
	"github.com/aristath/macro-trader/internal/modules/allocation"
)

func testRebalancing(t *testing.T) (*Service, *PositionRepository) {
	t.Helper()

	db, err := database.NewInMemory()
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	repo := NewPositionRepository(db.Conn(), zerolog.Nop())
	return NewService(repo, 1.0, zerolog.Nop()), repo
}

func TestBuildDriftReport(t *testing.T) {
	svc, repo := testRebalancing(t)

	// 100k portfolio: VTI heavily overweight, BND underweight, no cash
	positions := []Position{
		{Symbol: "VTI", Quantity: 150, Value: 40000},
		{Symbol: "BND", Quantity: 100, Value: 10000},
		{Symbol: "QQQ", Quantity: 30, Value: 10000},
		{Symbol: "VEA", Quantity: 200, Value: 12000},
		{Symbol: "VTV", Quantity: 80, Value: 8000},
		{Symbol: "VWO", Quantity: 100, Value: 5000},
		{Symbol: "TIP", Quantity: 50, Value: 5000},
		{Symbol: "GLD", Quantity: 20, Value: 4000},
		{Symbol: "DBMF", Quantity: 100, Value: 3000},
		{Symbol: "LGCY", Quantity: 50, Value: 3000},
	}
	for _, p := range positions {
		if err := repo.Upsert(p); err != nil {
			t.Fatal(err)
		}
	}

	report, err := svc.BuildDriftReport(allocation.BaselineAllocation())
	if err != nil {
		t.Fatalf("drift report failed: %v", err)
	}

	if report.TotalValue != 100000 {
		t.Errorf("total value = %v, want 100000", report.TotalValue)
	}

	bySymbol := map[string]DriftEntry{}
	for _, e := range report.Entries {
		bySymbol[e.Symbol] = e
	}

	// VTI: 40% held vs 28% target -> SELL
	vti := bySymbol["VTI"]
	if vti.Action != ActionSell {
		t.Errorf("VTI action = %s, want SELL (drift %v)", vti.Action, vti.Drift)
	}
	if math.Abs(vti.Drift-0.12) > 1e-9 {
		t.Errorf("VTI drift = %v, want 0.12", vti.Drift)
	}

	// BND: 10% held vs 18% target -> BUY
	if bnd := bySymbol["BND"]; bnd.Action != ActionBuy {
		t.Errorf("BND action = %s, want BUY (drift %v)", bnd.Action, bnd.Drift)
	}

	// CASH: not held, 2% target -> BUY; appears through the symbol union
	if cash := bySymbol["CASH"]; cash.Action != ActionBuy {
		t.Errorf("CASH action = %s, want BUY", cash.Action)
	}

	if report.MaxDrift < 0.12-1e-9 {
		t.Errorf("max drift = %v, want >= 0.12", report.MaxDrift)
	}
}

func TestBuildDriftReportHoldOnlyNeverBuys(t *testing.T) {
	svc, repo := testRebalancing(t)

	// Hold-only position far below its 5% target weight
	if err := repo.Upsert(Position{Symbol: "LGCY", Quantity: 10, Value: 1000}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Upsert(Position{Symbol: "VTI", Quantity: 300, Value: 99000}); err != nil {
		t.Fatal(err)
	}

	report, err := svc.BuildDriftReport(allocation.BaselineAllocation())
	if err != nil {
		t.Fatal(err)
	}

	for _, e := range report.Entries {
		if e.Symbol == "LGCY" {
			if e.Action == ActionBuy {
				t.Errorf("hold-only security marked BUY with drift %v", e.Drift)
			}
			return
		}
	}
	t.Fatal("LGCY missing from drift report")
}

func TestBuildDriftReportSmallDriftHolds(t *testing.T) {
	svc, repo := testRebalancing(t)

	// Positions exactly at baseline weights on a 100k portfolio
	for symbol, w := range allocation.BaselineAllocation() {
		if err := repo.Upsert(Position{Symbol: symbol, Value: w * 100000}); err != nil {
			t.Fatal(err)
		}
	}

	report, err := svc.BuildDriftReport(allocation.BaselineAllocation())
	if err != nil {
		t.Fatal(err)
	}

	for _, e := range report.Entries {
		if e.Action != ActionHold {
			t.Errorf("%s action = %s with drift %v, want HOLD", e.Symbol, e.Action, e.Drift)
		}
	}
	if report.MaxDrift > 1e-9 {
		t.Errorf("max drift = %v, want ~0", report.MaxDrift)
	}
}

func TestBuildDriftReportEmptyPortfolio(t *testing.T) {
	svc, _ := testRebalancing(t)

	report, err := svc.BuildDriftReport(allocation.BaselineAllocation())
	if err != nil {
		t.Fatal(err)
	}

	if report.TotalValue != 0 {
		t.Errorf("total value = %v, want 0", report.TotalValue)
	}
	// Every target symbol shows up as underweight
	if len(report.Entries) != len(allocation.BaselineAllocation()) {
		t.Errorf("got %d entries, want %d", len(report.Entries), len(allocation.BaselineAllocation()))
	}
}

func TestPositionRepositoryDelete(t *testing.T) {
	_, repo := testRebalancing(t)

	if err := repo.Upsert(Position{Symbol: "VTI", Quantity: 10, Value: 1000}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete("VTI"); err != nil {
		t.Fatal(err)
	}

	positions, err := repo.GetAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 0 {
		t.Errorf("got %d positions after delete, want 0", len(positions))
	}
}
