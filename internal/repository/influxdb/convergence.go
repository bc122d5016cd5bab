package influxdb

import (
	"context"

	"isac-cran-system/internal/model"
	"isac-cran-system/pkg/errors"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

// ConvergenceRepository writes per-chunk demix telemetry, the
// calibration-pipeline analogue of ChannelDataRepository.
type ConvergenceRepository struct {
	client *Client
}

func NewConvergenceRepository(client *Client) *ConvergenceRepository {
	return &ConvergenceRepository{client: client}
}

func (r *ConvergenceRepository) Write(ctx context.Context, c *model.ChunkConvergence) error {
	p := influxdb2.NewPoint(
		c.MeasurementName(),
		map[string]string{
			"run_id": c.RunID,
		},
		map[string]interface{}{
			"chunk_index":           c.ChunkIndex,
			"total_solve_slots":     c.TotalSolveSlots,
			"converged_solve_slots": c.ConvergedSolveSlots,
			"max_constraint_accuracy": c.MaxConstraintAccuracy,
		},
		c.Timestamp,
	)

	if err := r.client.writeAPI.WritePoint(ctx, p); err != nil {
		return errors.Wrap(errors.CodeInfluxWriteError, "failed to write chunk convergence", err)
	}
	return nil
}
