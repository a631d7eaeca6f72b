package pathfinding

import (
	"testing"
)

func newAnalyzedTraffic(t *testing.T) *TrafficAnalyzer {
	t.Helper()
	a := NewTrafficAnalyzer(1000, 1000, 25, 0)
	a.Analyze()
	return a
}

func TestTrafficDensityNormalized(t *testing.T) {
	a := newAnalyzedTraffic(t)

	for i := 0; i < a.Grid().Size(); i++ {
		d := a.DensityAt(i)
		if d < 0 || d > 1 {
			t.Fatalf("Cell %d density %v outside [0,1]", i, d)
		}
	}

	// Every traced path terminates at the center, so the center cell
	// carries the maximum density
	center := a.Center()
	if d := a.TrafficAt(center.X, center.Y); d != 1 {
		t.Fatalf("Center cell should have density 1, got %v", d)
	}

	// A corner sees far less traffic than the center
	if corner := a.TrafficAt(5, 5); corner >= 0.5 {
		t.Fatalf("Corner density should be low, got %v", corner)
	}
}

func TestTrafficAtClampsCoordinates(t *testing.T) {
	a := newAnalyzedTraffic(t)

	inside := a.TrafficAt(5, 5)
	outside := a.TrafficAt(-9999, -9999)
	if inside != outside {
		t.Fatalf("Out-of-range lookup should clamp to the corner cell: %v vs %v", inside, outside)
	}
}

func TestHighTrafficCells(t *testing.T) {
	a := newAnalyzedTraffic(t)

	cells := a.HighTrafficCells(20, 0.1)
	if len(cells) == 0 {
		t.Fatalf("Expected high traffic cells near the center")
	}
	if len(cells) > 20 {
		t.Fatalf("Limit of 20 exceeded: %d", len(cells))
	}

	prev := 2.0
	for _, idx := range cells {
		d := a.DensityAt(idx)
		if d < 0.1 {
			t.Fatalf("Cell %d below the density floor: %v", idx, d)
		}
		if d > prev {
			t.Fatalf("Cells not sorted descending by density: %v after %v", d, prev)
		}
		prev = d
	}
}

func TestHighTrafficFlowsSubset(t *testing.T) {
	a := newAnalyzedTraffic(t)

	flows := a.HighTrafficFlows()
	if len(flows) == 0 {
		t.Fatalf("Expected flagged high traffic cells")
	}
	for idx := range flows {
		if a.DensityAt(idx) < DefaultHighTrafficThreshold {
			t.Fatalf("Cell %d flagged high traffic below threshold: %v", idx, a.DensityAt(idx))
		}
	}

	// The returned map is a copy: mutating it must not affect the analyzer
	for idx := range flows {
		delete(flows, idx)
	}
	if len(a.HighTrafficFlows()) == 0 {
		t.Fatalf("Internal high traffic set was exposed by reference")
	}
}

func TestTrafficIdempotent(t *testing.T) {
	a := NewTrafficAnalyzer(500, 500, 25, 0)
	a.SetCostAt(100, 100, 200)
	a.Analyze()

	first := make([]float64, a.Grid().Size())
	for i := range first {
		first[i] = a.DensityAt(i)
	}

	a.GenerateToCenter()
	a.Analyze()
	for i := range first {
		if a.DensityAt(i) != first[i] {
			t.Fatalf("Cell %d density changed between identical analyses", i)
		}
	}
}

func TestTrafficDetoursAroundObstacles(t *testing.T) {
	a := NewTrafficAnalyzer(500, 500, 25, 0)

	// Wall a cell next to the center; paths must route around it
	a.SetCostAt(300, 250, 255)
	a.Analyze()

	if !a.Analyzed() {
		t.Fatalf("Analyzer should report analyzed state")
	}

	// The walled cell only ever counts its own aborted trace
	walled := a.TrafficAt(300, 250)
	open := a.TrafficAt(250, 300)
	if walled >= open {
		t.Fatalf("Walled cell density %v should be below open corridor %v", walled, open)
	}
}
