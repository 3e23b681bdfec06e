package geo

import (
	"math"
	"testing"
)

func TestPartitionSmallRegionUnchanged(t *testing.T) {
	region := Region{South: 3.0, West: 101.5, North: 3.2, East: 101.7}
	cells := Partition(region, 1.0)
	if len(cells) != 1 {
		t.Fatalf("expected 1 cell, got %d", len(cells))
	}
	if cells[0] != region {
		t.Fatalf("expected region unchanged, got %v", cells[0])
	}
}

func TestPartitionExactCover(t *testing.T) {
	region := MalaysiaBounds
	cells := Partition(region, 0.25)

	var total float64
	for _, cell := range cells {
		if err := cell.Validate(); err != nil {
			t.Fatalf("invalid cell %v: %v", cell, err)
		}
		if cell.Area() > 0.25+1e-9 {
			t.Fatalf("cell %v exceeds threshold: %f", cell, cell.Area())
		}
		total += cell.Area()
	}
	if diff := math.Abs(total - region.Area()); diff > 1e-6 {
		t.Fatalf("tiling does not cover region: sum=%f want=%f", total, region.Area())
	}
}

func TestPartitionNoOverlapOnSharedEdges(t *testing.T) {
	region := Region{South: 0, West: 0, North: 2, East: 2}
	cells := Partition(region, 1.0)
	if len(cells) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(cells))
	}
	// Row-major: the second cell of the first row starts where the first ends.
	if cells[0].East != cells[1].West {
		t.Fatalf("adjacent cells do not share an edge: %f vs %f", cells[0].East, cells[1].West)
	}
	if cells[0].North != cells[2].South {
		t.Fatalf("vertically adjacent cells do not share an edge: %f vs %f", cells[0].North, cells[2].South)
	}
}

func TestPartitionDeterministic(t *testing.T) {
	region := Region{South: 1, West: 100, North: 6, East: 110}
	first := Partition(region, 0.5)
	second := Partition(region, 0.5)
	if len(first) != len(second) {
		t.Fatalf("non-deterministic cell count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("cell %d differs between runs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestPartitionSkinnyRegion(t *testing.T) {
	region := Region{South: 0, West: 0, North: 2, East: 0.1}
	cells := Partition(region, 1.0)
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells for skinny region, got %d", len(cells))
	}
	for _, cell := range cells {
		if cell.Area() > 1.0 {
			t.Fatalf("cell exceeds threshold: %v", cell)
		}
	}
}
