// Command demixworker runs one node of a horizontally-scaled demix
// worker fleet: it drains chunk tasks from the shared RabbitMQ queue
// pkg/mq/demix.go declares and runs each one through a Demixer, the
// distributed counterpart to cmd/server's in-process CalibrationService
// loop (spec §5's worker pool scaled across machines).
//
// No measurement-set-backed chunk store exists in this repo (the
// same Non-goal cmd/server's calibration handler documents), so the
// chunk loader resolves a task's SolveDataRef against a
// source.SimulatedSource keyed by chunk index — a real deployment
// would resolve it against an object store or staged measurement set.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"isac-cran-system/internal/calibration/deproject"
	"isac-cran-system/internal/calibration/demix"
	"isac-cran-system/internal/calibration/pipeline"
	"isac-cran-system/internal/calibration/solvedata"
	"isac-cran-system/internal/calibration/source"
	"isac-cran-system/internal/config"
	"isac-cran-system/pkg/errors"
	"isac-cran-system/pkg/logger"
	"isac-cran-system/pkg/mq"

	"go.uber.org/zap"
)

var (
	configFile string
	workerID   int
)

func init() {
	flag.StringVar(&configFile, "config", "configs/config.yaml", "config file path")
	flag.IntVar(&workerID, "worker-id", 0, "this worker's fleet id")
}

func main() {
	flag.Parse()

	if err := config.Init(configFile); err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Get()

	if err := logger.Init(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: cfg.Log.Output}); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	queue, err := mq.NewMessageQueue(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Fatal("failed to connect to message queue", zap.Error(err))
	}
	defer queue.Close()
	if err := queue.SetupDemixQueues(); err != nil {
		logger.Fatal("failed to declare demix queues", zap.Error(err))
	}

	calCfg := &cfg.Calibration
	updater, err := pipeline.BuildUpdater(calCfg)
	if err != nil {
		logger.Fatal("failed to build solver", zap.Error(err))
	}
	chainFactory, err := pipeline.NewChainFactory(calCfg, 0, nil)
	if err != nil {
		logger.Fatal("failed to build constraint chain", zap.Error(err))
	}
	otherDirections, err := pipeline.ResolveDirectionIndices(calCfg.Directions, calCfg.OtherSources)
	if err != nil {
		logger.Fatal("failed to resolve othersources", zap.Error(err))
	}

	orchestrator := &demix.Demixer{
		Updater:     updater,
		NewChain:    chainFactory,
		Options:     pipeline.BuildOptions(calCfg),
		Deprojector: &deproject.Deprojector{ExtraDirections: otherDirections},
		NumWorkers:  1,
	}

	scheduler := demix.NewChunkScheduler(demix.AlgorithmProportionalFair, 1)
	worker := &demix.QueueWorker{
		ID:      workerID,
		MQ:      queue,
		Demixer: orchestrator,
		Load:    simulatedChunkLoader(calCfg),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("demix worker starting", zap.Int("worker_id", workerID))
	if err := worker.Run(ctx, scheduler); err != nil && ctx.Err() == nil {
		logger.Fatal("demix worker stopped with error", zap.Error(err))
	}
	logger.Info("demix worker stopped", zap.Int("worker_id", workerID))
}

// simulatedChunkLoader builds a demix.ChunkLoader that treats a task's
// SolveDataRef as "<run_id>/<chunk_index>" and serves chunk_index from
// a fresh small SimulatedSource sized off the calibration config's
// directions list — enough to exercise the solver/constraint pipeline
// end to end without a real measurement-set store.
func simulatedChunkLoader(cfg *config.CalibrationConfig) demix.ChunkLoader {
	numDirections := len(cfg.Directions)
	if numDirections == 0 {
		numDirections = 1
	}
	numChannels := cfg.NChannels
	if numChannels <= 0 {
		numChannels = 1
	}
	shape := solvedata.ParseShape(cfg.Mode)

	return func(ctx context.Context, ref string) (*solvedata.SolveData, *demix.Chunk, error) {
		_, idxStr, found := strings.Cut(ref, "/")
		if !found {
			idxStr = ref
		}
		chunkIndex, err := strconv.Atoi(idxStr)
		if err != nil {
			return nil, nil, errors.Wrap(errors.CodeInvalidParam, "solve data ref must end in a chunk index: "+ref, err)
		}

		src := source.NewSimulatedSource(4, numDirections, numChannels, 1, chunkIndex+1, shape)
		for i := 0; i <= chunkIndex; i++ {
			data, chunk, err := src.NextChunk(ctx)
			if err != nil {
				return nil, nil, err
			}
			if i == chunkIndex {
				return data, chunk, nil
			}
		}
		return nil, nil, errors.New(errors.CodeDemixPreconditionFailed, "chunk index out of range: "+ref)
	}
}
