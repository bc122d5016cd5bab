package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"isac-cran-system/internal/calibration/gain"
	"isac-cran-system/internal/calibration/solvedata"
)

// solutionDTO is gain.Block's wire form: encoding/json cannot marshal
// complex128 directly, so real/imaginary parts are split into
// parallel slices.
type solutionDTO struct {
	Shape         solvedata.PolarisationShape `json:"shape"`
	NumDirections int                         `json:"num_directions"`
	NumAntennas   int                         `json:"num_antennas"`
	SubIntervals  []int                       `json:"sub_intervals"`
	Real          []float64                   `json:"real"`
	Imag          []float64                   `json:"imag"`
}

// SolutionCache propagates the previous chunk's gain.Block across a
// horizontally-scaled demix worker fleet through the shared Redis
// tier, so a worker picking up chunk N+1 can seed its solver with
// whatever worker last finished chunk N (spec's solution propagation,
// generalised from process-local state to fleet-wide state).
type SolutionCache struct {
	cache *MultiLevelCache
}

func NewSolutionCache(cache *MultiLevelCache) *SolutionCache {
	return &SolutionCache{cache: cache}
}

func solutionKey(runID string) string {
	return fmt.Sprintf("calibration:previous_solution:%s", runID)
}

func (s *SolutionCache) Store(ctx context.Context, runID string, b *gain.Block) error {
	dto := solutionDTO{
		Shape:         b.Shape,
		NumDirections: b.NumDirections,
		NumAntennas:   b.NumAntennas,
		SubIntervals:  b.SubIntervals,
		Real:          make([]float64, len(b.Values)),
		Imag:          make([]float64, len(b.Values)),
	}
	for i, v := range b.Values {
		dto.Real[i] = real(v)
		dto.Imag[i] = imag(v)
	}

	data, err := json.Marshal(dto)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, solutionKey(runID), data)
}

// Load returns nil, nil when no previous solution is cached yet.
func (s *SolutionCache) Load(ctx context.Context, runID string) (*gain.Block, error) {
	val, err := s.cache.Get(ctx, solutionKey(runID))
	if err != nil {
		return nil, nil
	}

	var raw []byte
	switch v := val.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return nil, fmt.Errorf("unexpected cached solution type %T", val)
	}

	var dto solutionDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return nil, err
	}

	b := gain.NewBlock(dto.Shape, dto.NumDirections, dto.NumAntennas, dto.SubIntervals)
	for i := range b.Values {
		b.Values[i] = complex(dto.Real[i], dto.Imag[i])
	}
	return b, nil
}
