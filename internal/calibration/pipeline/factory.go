// Package pipeline wires internal/config's CalibrationConfig into a
// concrete solver.BlockUpdater, solver.Options and constraint chain
// factory, the same role ddecal's Settings-to-Solver/Constraint
// construction plays in steps/Demixer.cc's InitializeDemixer.
package pipeline

import (
	"strings"

	"isac-cran-system/internal/calibration/constraint"
	"isac-cran-system/internal/calibration/lls"
	"isac-cran-system/internal/calibration/solver"
	"isac-cran-system/internal/config"
	apperrors "isac-cran-system/pkg/errors"
)

// BuildUpdater constructs the configured solver algorithm. "hybrid"
// composes a DirectionIterative pre-pass with a DirectionSolve polish
// pass, matching spec §4.7/§9's typical hybrid composition.
func BuildUpdater(cfg *config.CalibrationConfig) (solver.BlockUpdater, error) {
	method, err := lls.ParseMethod(cfg.LLSSolverType)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(cfg.SolverAlgorithm)) {
	case "", "directionsolve":
		return &solver.DirectionSolve{Method: method}, nil
	case "directioniterative":
		return &solver.DirectionIterative{}, nil
	case "hybrid":
		childOpts := BuildOptions(cfg)
		childOpts.MaxIterations = maxInt(1, cfg.MaxIterations/2)
		return &solver.Hybrid{Children: []solver.Child{
			{Updater: &solver.DirectionIterative{}, Options: childOpts},
			{Updater: &solver.DirectionSolve{Method: method}, Options: BuildOptions(cfg)},
		}}, nil
	default:
		return nil, apperrors.New(apperrors.CodeInvalidSolverAlgorithm, "unknown solver algorithm: "+cfg.SolverAlgorithm)
	}
}

func BuildOptions(cfg *config.CalibrationConfig) solver.Options {
	return solver.Options{
		Tolerance:        cfg.Tolerance,
		StepSize:         stepSizeOrDefault(cfg.StepSize),
		MaxIterations:    cfg.MaxIterations,
		MinIterations:    cfg.MinIterations,
		DetectStalling:   cfg.DetectStalling,
		FlagUnconverged:  cfg.FlagUnconverged,
		FlagDivergedOnly: cfg.FlagDivergedOnly,
	}
}

func stepSizeOrDefault(s float64) float64 {
	if s == 0 {
		return 0 // explicit zero freezes gains; see DESIGN.md open question (a)
	}
	return s
}

// NewChainFactory returns a function building a fresh constraint.Chain
// per channel block, assembled from whichever constraints cfg enables.
// A fresh Chain per block avoids constraints sharing state (e.g.
// PhaseReference's reference antenna) across otherwise-independent
// blocks solved concurrently.
func NewChainFactory(cfg *config.CalibrationConfig, numAntennas int, channelFreqs []float64) (func() *constraint.Chain, error) {
	var coreGroup *constraint.AntennaGroup
	if cfg.CoreConstraint > 0 {
		// Distances are not modelled by this config surface; callers
		// wanting a real core-station split should construct their own
		// AntennaGroup and use a custom chain factory instead.
		distances := make([]float64, numAntennas)
		g, err := constraint.NewCoreStation(distances, cfg.CoreConstraint)
		if err != nil {
			return nil, err
		}
		coreGroup = g
	}

	var antennaGroups *constraint.AntennaGroup
	if len(cfg.AntennaConstraint) > 0 {
		groups, err := parseAntennaGroups(cfg.AntennaConstraint)
		if err != nil {
			return nil, err
		}
		g, err := constraint.NewAntennaGroup(groups)
		if err != nil {
			return nil, err
		}
		antennaGroups = g
	}

	var tecScreenGroup *constraint.AntennaGroup
	if cfg.TECConstraint && cfg.TECScreenCoreConstraint > 0 {
		distances := make([]float64, numAntennas)
		g, err := constraint.NewCoreStation(distances, cfg.TECScreenCoreConstraint)
		if err != nil {
			return nil, err
		}
		tecScreenGroup = g
	}

	var rotation *constraint.RotationDiagonal
	if cfg.RotationConstraint {
		rotation = &constraint.RotationDiagonal{DiagonalOnly: cfg.RotationDiagonalOnly}
	}

	return func() *constraint.Chain {
		var cs []constraint.Constraint
		if coreGroup != nil {
			cs = append(cs, coreGroup)
		}
		if antennaGroups != nil {
			cs = append(cs, antennaGroups)
		}
		if tecScreenGroup != nil {
			cs = append(cs, tecScreenGroup)
		}
		if rotation != nil {
			cs = append(cs, rotation)
		}
		cs = append(cs, &constraint.PhaseReference{ReferenceAntenna: 0})
		return constraint.NewChain(cs...)
	}, nil
}

// BuildSmoother constructs the chunk-wide frequency-smoothness step
// (spec's smoothnessconstraint), or nil when disabled. Unlike the
// constraints NewChainFactory wires into the per-block Chain,
// Smoothness operates across a chunk's whole set of channel-block
// solutions — one entry of blockFreqs per channel block, in frequency
// order — so Demixer applies it once per chunk via Smoothness.Smooth,
// after every block's own solver loop has finished.
func BuildSmoother(cfg *config.CalibrationConfig, blockFreqs []float64) *constraint.Smoothness {
	if cfg.SmoothnessConstraint <= 0 {
		return nil
	}
	return &constraint.Smoothness{
		Bandwidth:    cfg.SmoothnessConstraint,
		RefFrequency: cfg.SmoothnessRefFrequency,
		ChannelFreqs: blockFreqs,
	}
}

// BuildTEC constructs the chunk-wide TEC(+phase) fitting step (spec's
// tecscreen.coreconstraint / "tec"/"tecandphase" modes), or nil when
// disabled. Like Smoothness, TEC fitting is cross-block and is applied
// by Demixer once per chunk via TECPhase.Fit.
func BuildTEC(cfg *config.CalibrationConfig, blockFreqs []float64) *constraint.TECPhase {
	if !cfg.TECConstraint {
		return nil
	}
	tolerance := cfg.TECTolerance
	if tolerance <= 0 {
		tolerance = cfg.Tolerance
	}
	return &constraint.TECPhase{
		ChannelFreqs:  blockFreqs,
		WithPhaseTerm: cfg.TECWithPhase,
		Tolerance:     tolerance,
	}
}

// ResolveDirectionIndices maps each name in names onto its position in
// directions (the ordered direction list ddecal's directions/
// ddecal.sourcedb key table describes), for translating
// subtractsources/modelsources/othersources/targetsource into the
// column indices demix.Chunk and deproject.Deprojector operate on.
func ResolveDirectionIndices(directions, names []string) ([]int, error) {
	if len(names) == 0 {
		return nil, nil
	}
	index := make(map[string]int, len(directions))
	for i, d := range directions {
		index[d] = i
	}
	out := make([]int, 0, len(names))
	for _, name := range names {
		i, ok := index[name]
		if !ok {
			return nil, apperrors.New(apperrors.CodeInvalidParam, "direction name not found in directions list: "+name)
		}
		out = append(out, i)
	}
	return out, nil
}

// ResolveTargetDirection maps cfg's targetsource onto its column
// index, or -1 when unset (no preserved direction).
func ResolveTargetDirection(directions []string, target string) (int, error) {
	if target == "" {
		return -1, nil
	}
	idx, err := ResolveDirectionIndices(directions, []string{target})
	if err != nil {
		return -1, err
	}
	return idx[0], nil
}

// parseAntennaGroups turns the ddecal-style "ant1,ant2;ant3,ant4" group
// syntax into antenna-index groups. Antenna names are accepted as
// decimal indices; name-to-index resolution against a real antenna
// table is the caller's responsibility (spec's Non-goal on full
// measurement-set metadata handling).
func parseAntennaGroups(raw []string) ([][]int, error) {
	groups := make([][]int, 0, len(raw))
	for _, spec := range raw {
		var group []int
		for _, tok := range strings.Split(spec, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			idx, err := parseIndex(tok)
			if err != nil {
				return nil, apperrors.Wrap(apperrors.CodeInvalidConstraint, "invalid antenna index in antennaconstraint", err)
			}
			group = append(group, idx)
		}
		groups = append(groups, group)
	}
	return groups, nil
}

func parseIndex(s string) (int, error) {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, apperrors.New(apperrors.CodeInvalidConstraint, "antenna index must be numeric: "+s)
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
