// Package source defines the calibration pipeline's input boundary: a
// VisibilitySource hands the orchestrator one SolveData/demix.Chunk
// pair per time chunk, decoupling it from any one measurement-set
// library (spec's "read visibilities" external collaborator).
package source

import (
	"context"
	"math"

	"isac-cran-system/internal/calibration/demix"
	"isac-cran-system/internal/calibration/mixing"
	"isac-cran-system/internal/calibration/solvedata"
	apperrors "isac-cran-system/pkg/errors"
)

// VisibilitySource yields NumChunks() chunks of calibration input in
// order.
type VisibilitySource interface {
	NumChunks() int
	NextChunk(ctx context.Context) (*solvedata.SolveData, *demix.Chunk, error)
}

// SimulatedSource generates synthetic chunks for a fixed small array:
// single baseline-rich block, single sub-interval per direction,
// identity mixing tensors and a sinusoidal model visibility. It lets
// the pipeline, persistence and telemetry layers be exercised without
// a real measurement set, the same role the original's "fake data"
// test fixtures play in ddecal/test/unit/tSolvers.cc.
type SimulatedSource struct {
	NumAntennas   int
	NumDirections int
	NumChannels   int
	NumTimeSlots  int
	Shape         solvedata.PolarisationShape
	numChunks     int
	chunkIndex    int
}

func NewSimulatedSource(numAntennas, numDirections, numChannels, numTimeSlots, numChunks int, shape solvedata.PolarisationShape) *SimulatedSource {
	return &SimulatedSource{
		NumAntennas:   numAntennas,
		NumDirections: numDirections,
		NumChannels:   numChannels,
		NumTimeSlots:  numTimeSlots,
		Shape:         shape,
		numChunks:     numChunks,
	}
}

func (s *SimulatedSource) NumChunks() int { return s.numChunks }

func (s *SimulatedSource) NextChunk(ctx context.Context) (*solvedata.SolveData, *demix.Chunk, error) {
	if s.chunkIndex >= s.numChunks {
		return nil, nil, apperrors.New(apperrors.CodeDemixPreconditionFailed, "no more chunks available")
	}
	chunkIdx := s.chunkIndex
	s.chunkIndex++

	baselines := make([]solvedata.Baseline, 0, s.NumAntennas*(s.NumAntennas-1)/2)
	for a1 := 0; a1 < s.NumAntennas; a1++ {
		for a2 := a1 + 1; a2 < s.NumAntennas; a2++ {
			baselines = append(baselines, solvedata.Baseline{Antenna1: a1, Antenna2: a2})
		}
	}

	block := solvedata.ChannelBlock{
		FirstChannel: 0,
		NumChannels:  s.NumChannels,
		Baselines:    baselines,
		Observed:     make([][][]solvedata.Sample, len(baselines)),
		Model:        make([][][][]solvedata.Sample, s.NumDirections),
	}

	entries := s.Shape.NumEntries()
	for bi := range baselines {
		block.Observed[bi] = make([][]solvedata.Sample, s.NumTimeSlots)
		for ts := 0; ts < s.NumTimeSlots; ts++ {
			block.Observed[bi][ts] = make([]solvedata.Sample, s.NumChannels)
			for ch := 0; ch < s.NumChannels; ch++ {
				var sample solvedata.Sample
				for c := 0; c < 4; c++ {
					sample.Weight[c] = 1
				}
				block.Observed[bi][ts][ch] = sample
			}
		}
	}
	for d := 0; d < s.NumDirections; d++ {
		block.Model[d] = make([][][]solvedata.Sample, len(baselines))
		for bi := range baselines {
			block.Model[d][bi] = make([][]solvedata.Sample, s.NumTimeSlots)
			for ts := 0; ts < s.NumTimeSlots; ts++ {
				block.Model[d][bi][ts] = make([]solvedata.Sample, s.NumChannels)
				for ch := 0; ch < s.NumChannels; ch++ {
					phase := 2 * math.Pi * float64(chunkIdx+1) * float64(d+1) / float64(s.NumChannels+1)
					v := complex(math.Cos(phase), math.Sin(phase))
					var sample solvedata.Sample
					for e := 0; e < entries; e++ {
						sample.Visibility[e] = v
					}
					block.Model[d][bi][ts][ch] = sample
				}
			}
		}
	}

	data := &solvedata.SolveData{
		NumAntennas:   s.NumAntennas,
		NumDirections: s.NumDirections,
		Shape:         s.Shape,
		Blocks:        []solvedata.ChannelBlock{block},
	}

	perDirVis := make([][][]complex128, len(baselines))
	tensors := make([][]*mixing.Tensor, len(baselines))
	for bi := range baselines {
		perDirVis[bi] = make([][]complex128, s.NumChannels)
		tensors[bi] = make([]*mixing.Tensor, s.NumChannels)
		for ch := 0; ch < s.NumChannels; ch++ {
			v := make([]complex128, s.NumDirections)
			for d := range v {
				v[d] = block.Model[d][bi][0][ch].Visibility[0]
			}
			perDirVis[bi][ch] = v
			tensors[bi][ch] = mixing.NewIdentityTensor(s.NumDirections)
		}
	}

	chunk := &demix.Chunk{
		SolveSlots: []demix.SolveSlot{{
			PerDirectionVisibility: perDirVis,
			MixingTensor:           tensors,
		}},
		SubtractSlots: [][]demix.SubtractSlot{{{
			Residual:         &block,
			MixingTensor:     tensors,
			ModelByDirection: block.Model,
		}}},
		SubtractDirections: rangeInts(s.NumDirections),
		TargetDirection:    0,
	}

	return data, chunk, nil
}

func rangeInts(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// MSReaderSource is the measurement-set-backed implementation; reading
// casacore tables is out of scope for this module (no pure-Go
// casacore binding exists in the example pack), so it reports a clear
// unimplemented error rather than silently returning empty data.
type MSReaderSource struct {
	Path string
}

func (m *MSReaderSource) NumChunks() int { return 0 }

func (m *MSReaderSource) NextChunk(ctx context.Context) (*solvedata.SolveData, *demix.Chunk, error) {
	return nil, nil, apperrors.New(apperrors.CodeDemixPreconditionFailed, "measurement-set reading is not implemented in this build")
}
