package service

import (
	"context"
	"time"

	"isac-cran-system/internal/calibration/demix"
	"isac-cran-system/internal/calibration/deproject"
	"isac-cran-system/internal/calibration/output"
	"isac-cran-system/internal/calibration/pipeline"
	"isac-cran-system/internal/calibration/source"
	"isac-cran-system/internal/config"
	"isac-cran-system/internal/model"
	"isac-cran-system/pkg/errors"
	"isac-cran-system/pkg/logger"
)

// CalibrationRunStore persists run-level bookkeeping, mirroring
// AlgorithmResultStore's role for the beamforming/DOA services.
type CalibrationRunStore interface {
	Create(ctx context.Context, run *model.CalibrationRun) error
	GetByRunID(ctx context.Context, runID string) (*model.CalibrationRun, error)
	Complete(ctx context.Context, runID string, total, converged int, failed bool) error
}

// ConvergenceSink records per-chunk telemetry; nil is valid and simply
// skips telemetry.
type ConvergenceSink interface {
	Write(ctx context.Context, c *model.ChunkConvergence) error
}

// CalibrationService drives one Demixer across every chunk a
// source.VisibilitySource yields, persisting solutions and telemetry
// as it goes — the calibration pipeline's analogue of AlgorithmService.
type CalibrationService struct {
	runStore    CalibrationRunStore
	solutions   output.SolutionSink
	convergence ConvergenceSink
}

func NewCalibrationService(runStore CalibrationRunStore, solutions output.SolutionSink, convergence ConvergenceSink) *CalibrationService {
	if solutions == nil {
		solutions = output.NoopSolutionSink{}
	}
	return &CalibrationService{runStore: runStore, solutions: solutions, convergence: convergence}
}

// RunRequest bundles what's needed to start a calibration run: the
// already-resolved config and the chunk source to drain.
type RunRequest struct {
	RunID  string
	Config *config.CalibrationConfig
	Source source.VisibilitySource
}

// Run drains src chunk by chunk, writing solutions and convergence
// telemetry as each chunk completes, then marks the run complete.
func (s *CalibrationService) Run(ctx context.Context, req *RunRequest) (demix.Stats, error) {
	run := &model.CalibrationRun{
		RunID:           req.RunID,
		SolverAlgorithm: req.Config.SolverAlgorithm,
		Status:          model.ExperimentStatusRunning,
	}
	if s.runStore != nil {
		if err := s.runStore.Create(ctx, run); err != nil {
			return demix.Stats{}, err
		}
	}

	updater, err := pipeline.BuildUpdater(req.Config)
	if err != nil {
		s.fail(ctx, req.RunID)
		return demix.Stats{}, err
	}
	chainFactory, err := pipeline.NewChainFactory(req.Config, 0, nil)
	if err != nil {
		s.fail(ctx, req.RunID)
		return demix.Stats{}, err
	}

	otherDirections, err := pipeline.ResolveDirectionIndices(req.Config.Directions, req.Config.OtherSources)
	if err != nil {
		s.fail(ctx, req.RunID)
		return demix.Stats{}, err
	}
	subtractDirections, err := pipeline.ResolveDirectionIndices(req.Config.Directions, req.Config.SubtractSources)
	if err != nil {
		s.fail(ctx, req.RunID)
		return demix.Stats{}, err
	}
	targetDirection, err := pipeline.ResolveTargetDirection(req.Config.Directions, req.Config.TargetSource)
	if err != nil {
		s.fail(ctx, req.RunID)
		return demix.Stats{}, err
	}

	orchestrator := &demix.Demixer{
		Updater:                updater,
		NewChain:               chainFactory,
		Options:                pipeline.BuildOptions(req.Config),
		Deprojector:            &deproject.Deprojector{ExtraDirections: otherDirections},
		NumWorkers:             4,
		PropagateSolutions:     req.Config.PropagateSolutions,
		PropagateConvergedOnly: req.Config.PropagateConvergedOnly,
	}

	for chunkIdx := 0; chunkIdx < req.Source.NumChunks(); chunkIdx++ {
		data, chunk, err := req.Source.NextChunk(ctx)
		if err != nil {
			s.fail(ctx, req.RunID)
			return orchestrator.OverallStats(), err
		}

		// subtractsources/targetsource override whatever the source set,
		// since the config's direction partitioning is authoritative.
		if len(subtractDirections) > 0 {
			chunk.SubtractDirections = subtractDirections
		}
		if targetDirection >= 0 {
			chunk.TargetDirection = targetDirection
		}

		// Channel-block centre frequencies aren't modelled by this config
		// surface (same caveat as pipeline.NewChainFactory's core-station
		// distances), so the cross-block constraints below use each
		// block's first-channel index as a stand-in frequency axis.
		blockFreqs := make([]float64, len(data.Blocks))
		for i, b := range data.Blocks {
			blockFreqs[i] = float64(b.FirstChannel)
		}
		orchestrator.Smoother = pipeline.BuildSmoother(req.Config, blockFreqs)
		orchestrator.TEC = pipeline.BuildTEC(req.Config, blockFreqs)

		stats, err := orchestrator.ProcessChunk(data, chunk)
		if err != nil {
			s.fail(ctx, req.RunID)
			return orchestrator.OverallStats(), err
		}

		if orchestrator.PreviousSolution != nil {
			if err := s.solutions.Write(ctx, req.RunID, orchestrator.PreviousSolution); err != nil {
				logger.S().Errorw("failed to persist calibration solution", "run_id", req.RunID, "chunk", chunkIdx, "error", err)
			}
		}

		if s.convergence != nil {
			_ = s.convergence.Write(ctx, &model.ChunkConvergence{
				RunID:                 req.RunID,
				ChunkIndex:            chunkIdx,
				TotalSolveSlots:       stats.TotalSolveSlots,
				ConvergedSolveSlots:   stats.ConvergedSolveSlots,
				MaxConstraintAccuracy: stats.MaxConstraintAccuracy,
				Timestamp:             time.Now(),
			})
		}
	}

	overall := orchestrator.OverallStats()
	if s.runStore != nil {
		if err := s.runStore.Complete(ctx, req.RunID, overall.TotalSolveSlots, overall.ConvergedSolveSlots, false); err != nil {
			return overall, err
		}
	}
	return overall, nil
}

func (s *CalibrationService) fail(ctx context.Context, runID string) {
	if s.runStore == nil {
		return
	}
	if err := s.runStore.Complete(ctx, runID, 0, 0, true); err != nil {
		logger.S().Errorw("failed to mark calibration run failed", "run_id", runID, "error", err)
	}
}

// GetRun looks up a previously started run's status.
func (s *CalibrationService) GetRun(ctx context.Context, runID string) (*model.CalibrationRun, error) {
	if s.runStore == nil {
		return nil, errors.New(errors.CodeCalibrationRunNotFound, "calibration run store not available")
	}
	return s.runStore.GetByRunID(ctx, runID)
}
