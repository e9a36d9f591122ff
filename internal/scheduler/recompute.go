package scheduler

import (
	"github.com/rs/zerolog"

	"github.com/aristath/macro-trader/internal/modules/pipeline"
)

// snapshotsToKeep bounds the persisted snapshot history
const snapshotsToKeep = 500

// RecomputeJob reruns the full pipeline on a schedule, standing in for the
// "new indicator data arrived" trigger. A run replaces the previous snapshot
// wholesale; there is no partial state to roll back, so overlapping or
// repeated runs are harmless.
type RecomputeJob struct {
	pipeline  *pipeline.Service
	snapshots *pipeline.SnapshotRepository
	log       zerolog.Logger
}

// NewRecomputeJob creates a new recompute job
func NewRecomputeJob(pipelineSvc *pipeline.Service, snapshots *pipeline.SnapshotRepository, log zerolog.Logger) *RecomputeJob {
	return &RecomputeJob{
		pipeline:  pipelineSvc,
		snapshots: snapshots,
		log:       log.With().Str("job", "recompute").Logger(),
	}
}

// Name returns the job name
func (j *RecomputeJob) Name() string {
	return "recompute"
}

// Run executes one pipeline pass and prunes old snapshots
func (j *RecomputeJob) Run() error {
	snapshot, err := j.pipeline.Run()
	if err != nil {
		return err
	}

	j.log.Info().
		Int("current_scenario", snapshot.Scenarios.CurrentID).
		Int("alerts", len(snapshot.Diagnostics.Alerts)).
		Msg("Recompute finished")

	if err := j.snapshots.Prune(snapshotsToKeep); err != nil {
		j.log.Warn().Err(err).Msg("Snapshot pruning failed")
	}

	return nil
}
