package source

import (
	"context"
	"testing"

	"isac-cran-system/internal/calibration/solvedata"
)

func TestSimulatedSourceYieldsConfiguredChunkCount(t *testing.T) {
	s := NewSimulatedSource(2, 2, 2, 2, 3, solvedata.Scalar)
	if s.NumChunks() != 3 {
		t.Fatalf("NumChunks() = %d, want 3", s.NumChunks())
	}
	for i := 0; i < 3; i++ {
		if _, _, err := s.NextChunk(context.Background()); err != nil {
			t.Fatalf("NextChunk #%d returned error: %v", i, err)
		}
	}
	if _, _, err := s.NextChunk(context.Background()); err == nil {
		t.Fatal("expected an error once every configured chunk has been consumed")
	}
}

func TestSimulatedSourceBaselinesCoverAllAntennaPairs(t *testing.T) {
	s := NewSimulatedSource(3, 1, 1, 1, 1, solvedata.Scalar)
	data, _, err := s.NextChunk(context.Background())
	if err != nil {
		t.Fatalf("NextChunk returned error: %v", err)
	}
	want := 3 // C(3,2)
	if got := len(data.Blocks[0].Baselines); got != want {
		t.Errorf("baseline count = %d, want %d", got, want)
	}
}

func TestSimulatedSourceMixingTensorsAreIdentity(t *testing.T) {
	s := NewSimulatedSource(2, 2, 1, 1, 1, solvedata.Scalar)
	_, chunk, err := s.NextChunk(context.Background())
	if err != nil {
		t.Fatalf("NextChunk returned error: %v", err)
	}
	tensor := chunk.SolveSlots[0].MixingTensor[0][0]
	if tensor.At(0, 1) != 0 || tensor.At(0, 0) != 1 {
		t.Error("SimulatedSource should emit identity mixing tensors")
	}
}

func TestMSReaderSourceReportsUnimplemented(t *testing.T) {
	m := &MSReaderSource{Path: "/tmp/does-not-matter.ms"}
	if m.NumChunks() != 0 {
		t.Errorf("MSReaderSource.NumChunks() = %d, want 0", m.NumChunks())
	}
	if _, _, err := m.NextChunk(context.Background()); err == nil {
		t.Fatal("expected MSReaderSource.NextChunk to report an unimplemented error")
	}
}
