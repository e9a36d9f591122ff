package pipeline

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aristath/macro-trader/internal/database"
	"github.com/aristath/macro-trader/internal/modules/allocation"
	"github.com/aristath/macro-trader/internal/modules/indicators"
	"github.com/aristath/macro-trader/internal/modules/scenarios"
	"github.com/aristath/macro-trader/internal/modules/themes"
)

func testService(t *testing.T) (*Service, *database.DB) {
	t.Helper()

	db, err := database.NewInMemory()
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	log := zerolog.Nop()
	indicatorRepo := indicators.NewRepository(db.Conn(), log)
	if err := indicators.Seed(indicatorRepo, log); err != nil {
		t.Fatalf("failed to seed indicators: %v", err)
	}

	svc := NewService(
		indicatorRepo,
		themes.NewCalculator(log),
		themes.NewHistoryRepository(db.Conn(), log),
		scenarios.NewSynthesizer(log),
		allocation.NewService(allocation.Options{}, log),
		NewSnapshotRepository(db.Conn(), log),
		log,
	)
	return svc, db
}

func TestComputeWellFormed(t *testing.T) {
	svc, _ := testService(t)
	snap, err := svc.indicatorRepo.GetSnapshot()
	if err != nil {
		t.Fatal(err)
	}

	result := svc.Compute(snap)

	if len(result.Themes) != 4 {
		t.Fatalf("got %d theme forecasts, want 4", len(result.Themes))
	}
	for _, tf := range result.Themes {
		if tf.Value.Value < -1 || tf.Value.Value > 1 {
			t.Errorf("theme %s value %v outside [-1, 1]", tf.Theme, tf.Value.Value)
		}
		sum := tf.Transitions.Low + tf.Transitions.Neutral + tf.Transitions.High
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("theme %s transitions sum to %v", tf.Theme, sum)
		}
	}

	if len(result.Scenarios.Scenarios) != scenarios.NumScenarios {
		t.Fatalf("got %d scenarios, want %d", len(result.Scenarios.Scenarios), scenarios.NumScenarios)
	}
	if total := result.Scenarios.Total(); math.Abs(total-1) > 1e-6 {
		t.Errorf("scenario distribution total = %v, want 1 ± 1e-6", total)
	}

	if total := result.Target.Total(); math.Abs(total-1) > 1e-9 {
		t.Errorf("target total = %v, want 1 ± 1e-9", total)
	}
	for symbol, w := range result.Target {
		if w < 0 {
			t.Errorf("negative target weight %v for %s", w, symbol)
		}
	}
	if result.Target[allocation.HoldOnlySymbol] > allocation.HoldOnlyCeiling+1e-12 {
		t.Errorf("hold-only weight %v above ceiling", result.Target[allocation.HoldOnlySymbol])
	}
}

func TestComputeIdempotent(t *testing.T) {
	svc, _ := testService(t)
	snap, err := svc.indicatorRepo.GetSnapshot()
	if err != nil {
		t.Fatal(err)
	}

	a, err := json.Marshal(svc.Compute(snap))
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(svc.Compute(snap))
	if err != nil {
		t.Fatal(err)
	}

	if string(a) != string(b) {
		t.Error("identical indicator snapshots produced different results")
	}
}

func TestComputeCurrentScenarioMatchesThemeStates(t *testing.T) {
	svc, _ := testService(t)
	snap, err := svc.indicatorRepo.GetSnapshot()
	if err != nil {
		t.Fatal(err)
	}

	result := svc.Compute(snap)

	var states scenarios.States
	for i, tf := range result.Themes {
		switch i {
		case 0:
			states.USD = tf.Value.State
		case 1:
			states.Innovation = tf.Value.State
		case 2:
			states.Valuation = tf.Value.State
		case 3:
			states.USLeadership = tf.Value.State
		}
	}

	if want := scenarios.Encode(states); result.Scenarios.CurrentID != want {
		t.Errorf("current scenario id = %d, want %d from theme states", result.Scenarios.CurrentID, want)
	}
}

func TestRunPersistsSnapshot(t *testing.T) {
	svc, _ := testService(t)

	result, err := svc.Run()
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.CreatedAt.IsZero() {
		t.Error("run did not stamp the snapshot")
	}

	stored, err := svc.snapshots.GetLatest()
	if err != nil {
		t.Fatalf("get latest failed: %v", err)
	}
	if stored == nil {
		t.Fatal("no snapshot persisted")
	}

	// The stored snapshot round-trips the target weights exactly enough for
	// display and drift computation
	for symbol, w := range result.Target {
		if math.Abs(stored.Target[symbol]-w) > 1e-9 {
			t.Errorf("stored target[%s] = %v, want %v", symbol, stored.Target[symbol], w)
		}
	}
	if stored.Scenarios.CurrentID != result.Scenarios.CurrentID {
		t.Errorf("stored current scenario = %d, want %d", stored.Scenarios.CurrentID, result.Scenarios.CurrentID)
	}
}

func TestSnapshotPrune(t *testing.T) {
	svc, db := testService(t)

	for i := 0; i < 5; i++ {
		if _, err := svc.Run(); err != nil {
			t.Fatal(err)
		}
	}
	if err := svc.snapshots.Prune(2); err != nil {
		t.Fatalf("prune failed: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM snapshots`).Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("kept %d snapshots after prune, want 2", count)
	}

	latest, err := svc.snapshots.GetLatest()
	if err != nil || latest == nil {
		t.Fatalf("get latest after prune failed: %v", err)
	}
}

func TestGetLatestEmpty(t *testing.T) {
	svc, _ := testService(t)

	stored, err := svc.snapshots.GetLatest()
	if err != nil {
		t.Fatalf("get latest failed: %v", err)
	}
	if stored != nil {
		t.Errorf("expected nil snapshot on empty store, got %+v", stored)
	}
}

func TestComputeEmptySnapshotDefaults(t *testing.T) {
	svc, _ := testService(t)

	// An empty snapshot takes the default path everywhere but still yields a
	// complete, normalized result
	result := svc.Compute(indicators.Snapshot{})

	for _, tf := range result.Themes {
		if !tf.Value.Defaulted {
			t.Errorf("theme %s did not default on empty snapshot", tf.Theme)
		}
		if tf.Value.State != themes.StateNeutral {
			t.Errorf("theme %s state = %v, want neutral", tf.Theme, tf.Value.State)
		}
		if !tf.Transitions.Defaulted {
			t.Errorf("theme %s transitions did not default on empty snapshot", tf.Theme)
		}
	}

	if result.Scenarios.CurrentID != scenarios.BaseCaseID {
		t.Errorf("current scenario = %d, want base case %d", result.Scenarios.CurrentID, scenarios.BaseCaseID)
	}
	if total := result.Target.Total(); math.Abs(total-1) > 1e-9 {
		t.Errorf("target total = %v, want 1 ± 1e-9", total)
	}
}
