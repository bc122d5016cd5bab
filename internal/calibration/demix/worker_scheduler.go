package demix

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"isac-cran-system/pkg/logger"
)

// WorkerPriority ranks a demix worker's claim on the next chunk,
// adapted from internal/algorithm/scheduling's UserPriority — here it
// reflects how starved a worker is rather than a subscriber's QoS
// tier.
type WorkerPriority int

const (
	PriorityLow      WorkerPriority = 1
	PriorityNormal   WorkerPriority = 2
	PriorityHigh     WorkerPriority = 3
	PriorityCritical WorkerPriority = 4
)

// Worker is one demix worker process in a horizontally-scaled fleet
// (spec §5's "process-wide pool", generalised here across processes
// rather than just goroutines — see SPEC_FULL.md's RabbitMQ wiring).
type Worker struct {
	ID          int
	Priority    WorkerPriority
	ChunksDone  int64
	QueueDepth  int
	LastServed  time.Time
	WaitTime    time.Duration
}

// ChunkSlot is one schedulable time-chunk assignment target.
type ChunkSlot struct {
	ID         int
	Capacity   int // max concurrent chunks this slot can absorb
	Assigned   bool
	AssignedTo int
}

// SchedulingAlgorithm selects which worker gets the next time chunk.
type SchedulingAlgorithm string

const (
	AlgorithmRoundRobin       SchedulingAlgorithm = "round_robin"
	AlgorithmPriority         SchedulingAlgorithm = "priority"
	AlgorithmProportionalFair SchedulingAlgorithm = "proportional_fair"
)

// ChunkScheduler assigns incoming time chunks to demix workers. It is
// the worker-fleet analogue of internal/algorithm/scheduling.Scheduler,
// repurposed from "which antenna user gets which RF resource" to
// "which demix worker gets which time chunk".
type ChunkScheduler struct {
	workers   map[int]*Worker
	slots     []*ChunkSlot
	mu        sync.RWMutex
	algorithm SchedulingAlgorithm
}

func NewChunkScheduler(algorithm SchedulingAlgorithm, numSlots int) *ChunkScheduler {
	slots := make([]*ChunkSlot, numSlots)
	for i := range slots {
		slots[i] = &ChunkSlot{ID: i, Capacity: 1}
	}
	return &ChunkScheduler{
		workers:   make(map[int]*Worker),
		slots:     slots,
		algorithm: algorithm,
	}
}

func (s *ChunkScheduler) AddWorker(w *Worker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w.LastServed = time.Now()
	s.workers[w.ID] = w
	logger.Info("demix worker registered", zap.Int("worker_id", w.ID))
}

func (s *ChunkScheduler) RemoveWorker(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.workers, id)
	logger.Info("demix worker deregistered", zap.Int("worker_id", id))
}

// Schedule assigns every chunk slot to a worker and returns the
// resulting slot-id -> worker-id map.
func (s *ChunkScheduler) Schedule() map[int]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, slot := range s.slots {
		slot.Assigned = false
		slot.AssignedTo = -1
	}

	switch s.algorithm {
	case AlgorithmPriority:
		return s.priorityBased()
	case AlgorithmProportionalFair:
		return s.leastLoaded()
	default:
		return s.roundRobin()
	}
}

func (s *ChunkScheduler) roundRobin() map[int]int {
	allocation := make(map[int]int)
	ids := make([]int, 0, len(s.workers))
	for id := range s.workers {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	wi := 0
	for _, slot := range s.slots {
		if len(ids) == 0 {
			break
		}
		workerID := ids[wi%len(ids)]
		slot.Assigned = true
		slot.AssignedTo = workerID
		allocation[slot.ID] = workerID
		s.workers[workerID].LastServed = time.Now()
		s.workers[workerID].ChunksDone++
		wi++
	}
	return allocation
}

func (s *ChunkScheduler) priorityBased() map[int]int {
	allocation := make(map[int]int)
	workers := make([]*Worker, 0, len(s.workers))
	for _, w := range s.workers {
		workers = append(workers, w)
	}
	sort.Slice(workers, func(i, j int) bool {
		if workers[i].Priority != workers[j].Priority {
			return workers[i].Priority > workers[j].Priority
		}
		return workers[i].WaitTime > workers[j].WaitTime
	})

	wi := 0
	for _, slot := range s.slots {
		if len(workers) == 0 {
			break
		}
		w := workers[wi%len(workers)]
		slot.Assigned = true
		slot.AssignedTo = w.ID
		allocation[slot.ID] = w.ID
		w.LastServed = time.Now()
		w.ChunksDone++
		wi++
	}
	return allocation
}

// leastLoaded replaces the original proportional-fair channel-gain
// metric with queue depth: chunks go to whichever worker currently has
// the fewest chunks in flight.
func (s *ChunkScheduler) leastLoaded() map[int]int {
	allocation := make(map[int]int)
	workers := make([]*Worker, 0, len(s.workers))
	for _, w := range s.workers {
		workers = append(workers, w)
	}

	for _, slot := range s.slots {
		if len(workers) == 0 {
			break
		}
		sort.Slice(workers, func(i, j int) bool {
			return workers[i].QueueDepth < workers[j].QueueDepth
		})
		w := workers[0]
		slot.Assigned = true
		slot.AssignedTo = w.ID
		allocation[slot.ID] = w.ID
		w.QueueDepth++
		w.ChunksDone++
		w.LastServed = time.Now()
	}
	return allocation
}
