package mysql

import (
	"context"
	"time"

	"isac-cran-system/internal/calibration/gain"
	"isac-cran-system/internal/model"
	"isac-cran-system/pkg/errors"

	"gorm.io/gorm"
)

// SolutionSink persists gain.Block solutions as DirectionalGain rows,
// the relational stand-in for an h5parm/ParmDB soltab (spec §6's
// persisted output format: one scalar row per antenna/direction/
// sub-interval/polarisation entry/real-or-imag component).
type SolutionSink struct {
	db           *DB
	solutionName string
}

func NewSolutionSink(db *DB, solutionName string) *SolutionSink {
	return &SolutionSink{db: db, solutionName: solutionName}
}

// Write persists one channel block's solutions for a run. Rows are
// inserted in a single batch per call; callers write once per solve
// slot, matching the chunk-at-a-time cadence of the demixer.
func (s *SolutionSink) Write(ctx context.Context, runID string, block *gain.Block) error {
	entries := block.Shape.NumEntries()
	rows := make([]model.DirectionalGain, 0, block.NumDirections*block.NumAntennas*entries)

	for d := 0; d < block.NumDirections; d++ {
		for si := 0; si < block.SubIntervals[d]; si++ {
			for ant := 0; ant < block.NumAntennas; ant++ {
				for e := 0; e < entries; e++ {
					v := block.Get(d, si, ant, e)
					rows = append(rows, model.DirectionalGain{
						RunID:        runID,
						SolutionName: s.solutionName,
						Antenna:      ant,
						Direction:    d,
						SubInterval:  si,
						Entry:        e,
						Real:         real(v),
						Imag:         imag(v),
					})
				}
			}
		}
	}

	if len(rows) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(rows, 500).Error; err != nil {
		return errors.Wrap(errors.CodeSolutionWriteError, "failed to write directional gain solutions", err)
	}
	return nil
}

// CalibrationRunRepository tracks run-level status and the cumulative
// converged/total solve-slot counters surfaced by demix.Demixer.OverallStats.
type CalibrationRunRepository struct {
	db *DB
}

func NewCalibrationRunRepository(db *DB) *CalibrationRunRepository {
	return &CalibrationRunRepository{db: db}
}

func (r *CalibrationRunRepository) Create(ctx context.Context, run *model.CalibrationRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return errors.Wrap(errors.CodeDBInsertError, "failed to create calibration run", err)
	}
	return nil
}

func (r *CalibrationRunRepository) GetByRunID(ctx context.Context, runID string) (*model.CalibrationRun, error) {
	var run model.CalibrationRun
	if err := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&run).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.CodeCalibrationRunNotFound, "calibration run not found")
		}
		return nil, errors.Wrap(errors.CodeDBQueryError, "failed to get calibration run", err)
	}
	return &run, nil
}

func (r *CalibrationRunRepository) Complete(ctx context.Context, runID string, total, converged int, failed bool) error {
	now := time.Now()
	status := model.ExperimentStatusCompleted
	if failed {
		status = model.ExperimentStatusFailed
	}
	result := r.db.WithContext(ctx).Model(&model.CalibrationRun{}).Where("run_id = ?", runID).Updates(map[string]interface{}{
		"status":                status,
		"total_solve_slots":     total,
		"converged_solve_slots": converged,
		"completed_at":          &now,
	})
	if result.Error != nil {
		return errors.Wrap(errors.CodeDBUpdateError, "failed to complete calibration run", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.CodeCalibrationRunNotFound, "calibration run not found")
	}
	return nil
}
