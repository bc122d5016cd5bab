package demix

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"isac-cran-system/internal/calibration/solvedata"
	"isac-cran-system/pkg/logger"
	"isac-cran-system/pkg/mq"
)

// ChunkLoader resolves a DemixChunkTask's SolveDataRef into the
// SolveData/Chunk pair ProcessChunk needs. How the reference is
// resolved (object store key, MS path, simulated-chunk index, ...) is
// the caller's concern; QueueWorker only drives the fetch-solve-
// publish cycle around it.
type ChunkLoader func(ctx context.Context, ref string) (*solvedata.SolveData, *Chunk, error)

// QueueWorker drains QueueDemixChunkTask messages, runs each chunk
// through its own Demixer, and publishes the outcome to
// QueueDemixChunkResult — the horizontally-scaled counterpart to
// CalibrationService's in-process chunk loop, for a fleet large
// enough that one process can no longer keep up with the incoming
// chunk rate (spec §5's worker pool, scaled across machines instead
// of goroutines within one process).
type QueueWorker struct {
	ID      int
	MQ      *mq.MessageQueue
	Demixer *Demixer
	Load    ChunkLoader
}

// Run registers this worker with scheduler so its fairness/priority
// policy accounts for it, then consumes chunk tasks until ctx is
// cancelled.
func (w *QueueWorker) Run(ctx context.Context, scheduler *ChunkScheduler) error {
	self := &Worker{ID: w.ID, Priority: PriorityNormal}
	scheduler.AddWorker(self)
	defer scheduler.RemoveWorker(w.ID)

	return w.MQ.Consume(ctx, mq.QueueDemixChunkTask, func(body []byte) error {
		var task mq.DemixChunkTask
		if err := json.Unmarshal(body, &task); err != nil {
			return fmt.Errorf("queue worker %d: decode chunk task: %w", w.ID, err)
		}

		self.QueueDepth++
		defer func() { self.QueueDepth-- }()

		data, chunk, err := w.Load(ctx, task.SolveDataRef)
		if err != nil {
			return w.publishResult(ctx, task, Stats{}, err)
		}

		stats, procErr := w.Demixer.ProcessChunk(data, chunk)
		self.ChunksDone++
		self.LastServed = time.Now()
		return w.publishResult(ctx, task, stats, procErr)
	})
}

func (w *QueueWorker) publishResult(ctx context.Context, task mq.DemixChunkTask, stats Stats, procErr error) error {
	result := mq.DemixChunkResult{
		RunID:               task.RunID,
		ChunkIndex:          task.ChunkIndex,
		TotalSolveSlots:     stats.TotalSolveSlots,
		ConvergedSolveSlots: stats.ConvergedSolveSlots,
		CompletedAt:         time.Now().Unix(),
	}
	if procErr != nil {
		result.Error = procErr.Error()
		logger.S().Errorw("demix chunk task failed", "worker", w.ID, "run_id", task.RunID, "chunk", task.ChunkIndex, "error", procErr)
	}
	if err := w.MQ.Publish(ctx, mq.QueueDemixChunkResult, result); err != nil {
		return fmt.Errorf("queue worker %d: publish result: %w", w.ID, err)
	}
	return procErr
}

// Dispatcher publishes one DemixChunkTask per chunk of a run onto the
// shared QueueDemixChunkTask queue. It consults the ChunkScheduler
// before each publish purely to record which worker is expected to
// pick the chunk up next (AssignedWorkerID, used for fairness/priority
// telemetry); actual delivery is still RabbitMQ's own competing-
// consumers distribution across whichever QueueWorkers are connected.
type Dispatcher struct {
	MQ         *mq.MessageQueue
	Scheduler  *ChunkScheduler
	MaxRetries int
}

// Dispatch publishes numChunks tasks for runID, one per chunk index;
// refFor builds each task's SolveDataRef from its chunk index.
func (d *Dispatcher) Dispatch(ctx context.Context, runID string, numChunks int, refFor func(chunkIndex int) string) error {
	for i := 0; i < numChunks; i++ {
		assignment := d.Scheduler.Schedule()
		workerID := -1
		if len(d.Scheduler.slots) > 0 {
			if id, ok := assignment[i%len(d.Scheduler.slots)]; ok {
				workerID = id
			}
		}

		task := mq.DemixChunkTask{
			RunID:            runID,
			ChunkIndex:       i,
			SolveDataRef:     refFor(i),
			CreatedAt:        time.Now().Unix(),
			MaxRetries:       d.MaxRetries,
			AssignedWorkerID: workerID,
		}
		if err := d.MQ.Publish(ctx, mq.QueueDemixChunkTask, task); err != nil {
			return fmt.Errorf("dispatch chunk %d: %w", i, err)
		}
	}
	return nil
}
