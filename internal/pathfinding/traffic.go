package pathfinding

import (
	"sort"

	"github.com/chayuto/kobayashi-maru-sub004/internal/core"
	"github.com/chayuto/kobayashi-maru-sub004/internal/grid"
)

// DefaultHighTrafficThreshold flags the densest half of the normalized
// range as high traffic.
const DefaultHighTrafficThreshold = 0.5

// TrafficAnalyzer owns a flow field aimed at the arena center (where
// the Kobayashi Maru sits) and derives a normalized per-cell traffic
// density from it: an estimate of how much hostile movement passes
// through each cell en route to the ship.
type TrafficAnalyzer struct {
	grid        *grid.Grid
	costs       *grid.CostField
	integration *IntegrationField
	flow        *FlowField
	center      core.Vector2D

	density       []float32
	counts        []int // Reusable accumulation buffer
	highTraffic   map[int]core.Vector2D
	highThreshold float64
	generated     bool
	analyzed      bool
}

// NewTrafficAnalyzer creates an analyzer for a width x height arena
// discretized at cellSize. highThreshold is the normalized density at
// or above which a cell is flagged high traffic; values outside (0, 1]
// fall back to DefaultHighTrafficThreshold.
func NewTrafficAnalyzer(width, height, cellSize, highThreshold float64) *TrafficAnalyzer {
	g := grid.NewGrid(width, height, cellSize)
	if highThreshold <= 0 || highThreshold > 1 {
		highThreshold = DefaultHighTrafficThreshold
	}
	return &TrafficAnalyzer{
		grid:          g,
		costs:         grid.NewCostField(g),
		integration:   NewIntegrationField(g),
		flow:          NewFlowField(g),
		center:        core.Vector2D{X: width / 2, Y: height / 2},
		density:       make([]float32, g.Size()),
		counts:        make([]int, g.Size()),
		highTraffic:   make(map[int]core.Vector2D),
		highThreshold: highThreshold,
	}
}

// Grid returns the pathfinding grid
func (a *TrafficAnalyzer) Grid() *grid.Grid { return a.grid }

// Center returns the arena center the flow field converges on
func (a *TrafficAnalyzer) Center() core.Vector2D { return a.center }

// SetCostAt updates the traversal cost of the cell containing (x, y).
// The flow field and density are stale afterward until GenerateToCenter
// and Analyze are invoked again.
func (a *TrafficAnalyzer) SetCostAt(x, y float64, cost uint8) {
	a.costs.SetCostAt(x, y, cost)
	a.generated = false
	a.analyzed = false
}

// ResetCosts restores every cell to the default traversal cost
func (a *TrafficAnalyzer) ResetCosts() {
	a.costs.Reset()
	a.generated = false
	a.analyzed = false
}

// GenerateToCenter computes the integration field with the goal at the
// arena's geometric center and derives the flow field from it: where
// would something flow if biased toward the center.
func (a *TrafficAnalyzer) GenerateToCenter() {
	a.integration.Calculate(a.center.X, a.center.Y, a.costs)
	a.flow.Generate(a.integration)
	a.generated = true
	a.analyzed = false
}

// Direction returns the center-bound flow vector at a world position
func (a *TrafficAnalyzer) Direction(x, y float64) core.Vector2D {
	return a.flow.Direction(x, y)
}

// Analyze estimates traffic density by tracing one gradient-descent
// path from every cell toward the center and counting per-cell
// pass-throughs, then normalizing the counts into [0, 1]. Converging
// corridors accumulate the most pass-throughs, so density peaks where
// paths merge. Implicitly generates the flow field first if needed.
func (a *TrafficAnalyzer) Analyze() {
	if !a.generated {
		a.GenerateToCenter()
	}

	size := a.grid.Size()
	cols := a.grid.Cols()
	rows := a.grid.Rows()

	for i := range a.counts {
		a.counts[i] = 0
	}

	for start := 0; start < size; start++ {
		current := start
		for step := 0; step < size; step++ {
			a.counts[current]++

			dir := a.flow.DirectionAt(current)
			if dir.X == 0 && dir.Y == 0 {
				break // Goal or unreachable cell
			}

			col := current%cols + int(dir.X)
			row := current/cols + int(dir.Y)
			if col < 0 || col >= cols || row < 0 || row >= rows {
				break
			}
			current = row*cols + col
		}
	}

	maxCount := 0
	for _, c := range a.counts {
		if c > maxCount {
			maxCount = c
		}
	}

	clear(a.highTraffic)
	for i := range a.density {
		if maxCount == 0 {
			a.density[i] = 0
			continue
		}
		a.density[i] = float32(a.counts[i]) / float32(maxCount)
		if float64(a.density[i]) >= a.highThreshold {
			a.highTraffic[i] = a.flow.DirectionAt(i)
		}
	}

	a.analyzed = true
}

// Analyzed reports whether density data is current
func (a *TrafficAnalyzer) Analyzed() bool { return a.analyzed }

// TrafficAt returns the normalized traffic density for the cell
// containing (x, y), always in [0, 1]. Zero before the first Analyze.
func (a *TrafficAnalyzer) TrafficAt(x, y float64) float64 {
	return float64(a.density[a.grid.CellIndex(x, y)])
}

// DensityAt returns the normalized density of a cell by index, or 0 for
// indices off the grid.
func (a *TrafficAnalyzer) DensityAt(index int) float64 {
	if index < 0 || index >= len(a.density) {
		return 0
	}
	return float64(a.density[index])
}

// HighTrafficCells returns up to limit cell indices whose density is at
// least minDensity, sorted descending by density.
func (a *TrafficAnalyzer) HighTrafficCells(limit int, minDensity float64) []int {
	if limit <= 0 {
		return nil
	}

	cells := make([]int, 0, limit)
	for i, d := range a.density {
		if float64(d) >= minDensity {
			cells = append(cells, i)
		}
	}

	sort.Slice(cells, func(i, j int) bool {
		return a.density[cells[i]] > a.density[cells[j]]
	})

	if len(cells) > limit {
		cells = cells[:limit]
	}
	return cells
}

// HighTrafficFlows returns a copy of the flow vectors of every cell
// flagged high traffic by the last Analyze.
func (a *TrafficAnalyzer) HighTrafficFlows() map[int]core.Vector2D {
	flows := make(map[int]core.Vector2D, len(a.highTraffic))
	for idx, dir := range a.highTraffic {
		flows[idx] = dir
	}
	return flows
}
