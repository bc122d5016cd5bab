package facet

import (
	"math"
	"strings"
	"testing"
)

func TestReadSinglePolygon(t *testing.T) {
	src := `# Region file format: DS9 version 4.1
global color=green
fk5
polygon(10.0,20.0,11.0,20.0,11.0,21.0) # text={dirA}
`
	facets, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(facets) != 1 {
		t.Fatalf("expected 1 facet, got %d", len(facets))
	}
	f := facets[0]
	if len(f.Vertices) != 3 {
		t.Fatalf("expected 3 vertices, got %d", len(f.Vertices))
	}
	wantRA := 10.0 * degToRad
	if math.Abs(f.Vertices[0].RA-wantRA) > 1e-12 {
		t.Errorf("first vertex RA = %v, want %v", f.Vertices[0].RA, wantRA)
	}
	if f.Label != "dirA" {
		t.Errorf("label = %q, want %q", f.Label, "dirA")
	}
	if f.HasPoint {
		t.Error("facet with no point() entry should have HasPoint = false")
	}
}

func TestReadPolygonWithPoint(t *testing.T) {
	src := `polygon(0.0,0.0,1.0,0.0,1.0,1.0)
point(0.5,0.5) # text={center}
`
	facets, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(facets) != 1 {
		t.Fatalf("expected 1 facet, got %d", len(facets))
	}
	f := facets[0]
	if !f.HasPoint {
		t.Fatal("expected HasPoint = true after a point() entry")
	}
	if math.Abs(f.RA-0.5*degToRad) > 1e-12 || math.Abs(f.Dec-0.5*degToRad) > 1e-12 {
		t.Errorf("point RA/Dec = (%v, %v), want (%v, %v)", f.RA, f.Dec, 0.5*degToRad, 0.5*degToRad)
	}
}

func TestReadMultiplePolygons(t *testing.T) {
	src := `polygon(0.0,0.0,1.0,0.0,1.0,1.0) # text={a}
polygon(2.0,2.0,3.0,2.0,3.0,3.0) # text={b}
`
	facets, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(facets) != 2 {
		t.Fatalf("expected 2 facets, got %d", len(facets))
	}
	if facets[0].Label != "a" || facets[1].Label != "b" {
		t.Errorf("labels = %q, %q, want \"a\", \"b\"", facets[0].Label, facets[1].Label)
	}
}

func TestReadOddVertexCountIsError(t *testing.T) {
	src := `polygon(0.0,0.0,1.0)`
	if _, err := Read(strings.NewReader(src)); err == nil {
		t.Fatal("expected an error for an odd number of polygon coordinates")
	}
}

func TestReadPointBeforeAnyPolygonIsIgnored(t *testing.T) {
	src := `point(1.0,1.0)
polygon(0.0,0.0,1.0,0.0,1.0,1.0)
`
	facets, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(facets) != 1 {
		t.Fatalf("expected 1 facet, got %d", len(facets))
	}
	if facets[0].HasPoint {
		t.Error("a point() preceding every polygon should be dropped, not attached")
	}
}
