package pipeline

import (
	"testing"

	"isac-cran-system/internal/calibration/solver"
	"isac-cran-system/internal/config"
)

func TestBuildUpdaterDefaultsToDirectionSolve(t *testing.T) {
	u, err := BuildUpdater(&config.CalibrationConfig{})
	if err != nil {
		t.Fatalf("BuildUpdater returned error: %v", err)
	}
	if _, ok := u.(*solver.DirectionSolve); !ok {
		t.Errorf("empty SolverAlgorithm should default to *solver.DirectionSolve, got %T", u)
	}
}

func TestBuildUpdaterDirectionIterative(t *testing.T) {
	u, err := BuildUpdater(&config.CalibrationConfig{SolverAlgorithm: "directioniterative"})
	if err != nil {
		t.Fatalf("BuildUpdater returned error: %v", err)
	}
	if _, ok := u.(*solver.DirectionIterative); !ok {
		t.Errorf("expected *solver.DirectionIterative, got %T", u)
	}
}

func TestBuildUpdaterHybridComposesTwoChildren(t *testing.T) {
	u, err := BuildUpdater(&config.CalibrationConfig{SolverAlgorithm: "hybrid", MaxIterations: 10})
	if err != nil {
		t.Fatalf("BuildUpdater returned error: %v", err)
	}
	hybrid, ok := u.(*solver.Hybrid)
	if !ok {
		t.Fatalf("expected *solver.Hybrid, got %T", u)
	}
	if len(hybrid.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(hybrid.Children))
	}
	if hybrid.Children[0].Options.MaxIterations != 5 {
		t.Errorf("pre-pass MaxIterations = %d, want half of 10 = 5", hybrid.Children[0].Options.MaxIterations)
	}
}

func TestBuildUpdaterRejectsUnknownAlgorithm(t *testing.T) {
	if _, err := BuildUpdater(&config.CalibrationConfig{SolverAlgorithm: "not-a-real-algorithm"}); err == nil {
		t.Fatal("expected an error for an unrecognised solver algorithm")
	}
}

func TestBuildOptionsCopiesFields(t *testing.T) {
	cfg := &config.CalibrationConfig{
		Tolerance:     0.01,
		StepSize:      0.5,
		MaxIterations: 20,
		MinIterations: 2,
	}
	opts := BuildOptions(cfg)
	if opts.Tolerance != 0.01 || opts.StepSize != 0.5 || opts.MaxIterations != 20 || opts.MinIterations != 2 {
		t.Errorf("BuildOptions did not copy config fields correctly: %+v", opts)
	}
}

func TestStepSizeOrDefaultPreservesExplicitZero(t *testing.T) {
	if s := stepSizeOrDefault(0); s != 0 {
		t.Errorf("stepSizeOrDefault(0) = %v, want 0 (explicit freeze)", s)
	}
	if s := stepSizeOrDefault(0.3); s != 0.3 {
		t.Errorf("stepSizeOrDefault(0.3) = %v, want 0.3", s)
	}
}

func TestNewChainFactoryAlwaysIncludesPhaseReference(t *testing.T) {
	factory, err := NewChainFactory(&config.CalibrationConfig{}, 0, nil)
	if err != nil {
		t.Fatalf("NewChainFactory returned error: %v", err)
	}
	chain := factory()
	if chain == nil {
		t.Fatal("factory() returned a nil chain")
	}
}

func TestNewChainFactoryParsesAntennaConstraint(t *testing.T) {
	factory, err := NewChainFactory(&config.CalibrationConfig{AntennaConstraint: []string{"0,1"}}, 2, nil)
	if err != nil {
		t.Fatalf("NewChainFactory returned error: %v", err)
	}
	if factory() == nil {
		t.Fatal("factory() returned a nil chain")
	}
}

func TestNewChainFactoryRejectsMalformedAntennaConstraint(t *testing.T) {
	_, err := NewChainFactory(&config.CalibrationConfig{AntennaConstraint: []string{"not-a-number"}}, 2, nil)
	if err == nil {
		t.Fatal("expected an error for a non-numeric antenna index")
	}
}

func TestParseAntennaGroupsOneGroupPerRawEntry(t *testing.T) {
	groups, err := parseAntennaGroups([]string{"0,1", "2,3,4"})
	if err != nil {
		t.Fatalf("parseAntennaGroups returned error: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups from 2 raw entries, got %d", len(groups))
	}
	if len(groups[0]) != 2 || len(groups[1]) != 3 {
		t.Errorf("expected group sizes [2 3], got [%d %d]", len(groups[0]), len(groups[1]))
	}
}

func TestMaxIntPicksLarger(t *testing.T) {
	if maxInt(3, 7) != 7 {
		t.Error("maxInt(3, 7) should be 7")
	}
	if maxInt(7, 3) != 7 {
		t.Error("maxInt(7, 3) should be 7")
	}
}

func TestBuildSmootherNilWhenDisabled(t *testing.T) {
	if s := BuildSmoother(&config.CalibrationConfig{}, []float64{100, 200}); s != nil {
		t.Errorf("expected nil Smoothness when SmoothnessConstraint is unset, got %+v", s)
	}
}

func TestBuildSmootherWiresConfig(t *testing.T) {
	cfg := &config.CalibrationConfig{SmoothnessConstraint: 2e6, SmoothnessRefFrequency: 1.5e8}
	freqs := []float64{1e8, 1.5e8, 2e8}
	s := BuildSmoother(cfg, freqs)
	if s == nil {
		t.Fatal("expected a non-nil Smoothness")
	}
	if s.Bandwidth != cfg.SmoothnessConstraint || s.RefFrequency != cfg.SmoothnessRefFrequency {
		t.Errorf("Smoothness did not copy config fields: %+v", s)
	}
	if len(s.ChannelFreqs) != len(freqs) {
		t.Errorf("expected ChannelFreqs length %d, got %d", len(freqs), len(s.ChannelFreqs))
	}
}

func TestBuildTECNilWhenDisabled(t *testing.T) {
	if tec := BuildTEC(&config.CalibrationConfig{}, []float64{100, 200}); tec != nil {
		t.Errorf("expected nil TECPhase when TECConstraint is false, got %+v", tec)
	}
}

func TestBuildTECFallsBackToGlobalTolerance(t *testing.T) {
	cfg := &config.CalibrationConfig{TECConstraint: true, TECWithPhase: true, Tolerance: 1e-3}
	tec := BuildTEC(cfg, []float64{1e8, 2e8})
	if tec == nil {
		t.Fatal("expected a non-nil TECPhase")
	}
	if !tec.WithPhaseTerm {
		t.Error("expected WithPhaseTerm to carry through from TECWithPhase")
	}
	if tec.Tolerance != cfg.Tolerance {
		t.Errorf("expected TECTolerance to fall back to Tolerance=%v, got %v", cfg.Tolerance, tec.Tolerance)
	}
}

func TestBuildTECUsesExplicitTolerance(t *testing.T) {
	cfg := &config.CalibrationConfig{TECConstraint: true, TECTolerance: 1e-8, Tolerance: 1e-3}
	tec := BuildTEC(cfg, []float64{1e8, 2e8})
	if tec.Tolerance != 1e-8 {
		t.Errorf("expected explicit TECTolerance=1e-8 to win, got %v", tec.Tolerance)
	}
}

func TestResolveDirectionIndicesEmptyNamesReturnsNil(t *testing.T) {
	idx, err := ResolveDirectionIndices([]string{"a", "b"}, nil)
	if err != nil {
		t.Fatalf("ResolveDirectionIndices returned error: %v", err)
	}
	if idx != nil {
		t.Errorf("expected nil indices for empty names, got %v", idx)
	}
}

func TestResolveDirectionIndicesMapsNamesToPositions(t *testing.T) {
	directions := []string{"3c196", "target", "3c295"}
	idx, err := ResolveDirectionIndices(directions, []string{"3c295", "3c196"})
	if err != nil {
		t.Fatalf("ResolveDirectionIndices returned error: %v", err)
	}
	if len(idx) != 2 || idx[0] != 2 || idx[1] != 0 {
		t.Errorf("expected [2 0], got %v", idx)
	}
}

func TestResolveDirectionIndicesRejectsUnknownName(t *testing.T) {
	if _, err := ResolveDirectionIndices([]string{"a"}, []string{"b"}); err == nil {
		t.Fatal("expected an error for a direction name absent from the directions list")
	}
}

func TestResolveTargetDirectionEmptyReturnsNegativeOne(t *testing.T) {
	idx, err := ResolveTargetDirection([]string{"a", "b"}, "")
	if err != nil {
		t.Fatalf("ResolveTargetDirection returned error: %v", err)
	}
	if idx != -1 {
		t.Errorf("expected -1 for an unset target source, got %d", idx)
	}
}

func TestResolveTargetDirectionResolvesName(t *testing.T) {
	idx, err := ResolveTargetDirection([]string{"a", "b", "c"}, "c")
	if err != nil {
		t.Fatalf("ResolveTargetDirection returned error: %v", err)
	}
	if idx != 2 {
		t.Errorf("expected index 2 for target source c, got %d", idx)
	}
}
