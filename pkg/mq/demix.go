package mq

// DemixChunkTask is published per time chunk to fan work out across a
// horizontally-scaled demix worker fleet (SPEC_FULL.md's RabbitMQ
// wiring of the single-process Demixer across machines).
type DemixChunkTask struct {
	RunID        string `json:"run_id"`
	ChunkIndex   int    `json:"chunk_index"`
	SolveDataRef string `json:"solve_data_ref"` // external blob reference (object store key, MS path, ...)
	CreatedAt    int64  `json:"created_at"`
	RetryCount   int    `json:"retry_count"`
	MaxRetries   int    `json:"max_retries"`
	// AssignedWorkerID records which worker demix.Dispatcher's
	// ChunkScheduler expected to pick up this task next; informational
	// only, since RabbitMQ's own competing-consumers delivery is what
	// actually hands it to a worker.
	AssignedWorkerID int `json:"assigned_worker_id,omitempty"`
}

// DemixChunkResult is published back once a worker finishes a chunk.
type DemixChunkResult struct {
	RunID               string `json:"run_id"`
	ChunkIndex          int    `json:"chunk_index"`
	TotalSolveSlots     int    `json:"total_solve_slots"`
	ConvergedSolveSlots int    `json:"converged_solve_slots"`
	Error               string `json:"error,omitempty"`
	CompletedAt         int64  `json:"completed_at"`
}

const (
	QueueDemixChunkTask   = "demix.chunk.task"
	QueueDemixChunkResult = "demix.chunk.result"
)

// SetupDemixQueues declares the calibration pipeline's own durable
// queues alongside the ones SetupQueues declares for the rest of the
// system.
func (mq *MessageQueue) SetupDemixQueues() error {
	queues := []QueueConfig{
		{Name: QueueDemixChunkTask, Durable: true},
		{Name: QueueDemixChunkResult, Durable: true},
	}

	for _, config := range queues {
		if _, err := mq.DeclareQueue(config); err != nil {
			return err
		}
	}
	return nil
}
