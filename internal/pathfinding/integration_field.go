// Package pathfinding implements the shared-field navigation model the
// autoplay agent reasons over: a single-source integration field, the
// flow field derived from it, and a traffic-density analysis of where
// hostiles converge on their way to the Kobayashi Maru.
package pathfinding

import (
	"fmt"
	"math"

	"github.com/chayuto/kobayashi-maru-sub004/internal/grid"
)

// Unreachable is the integration-field sentinel. It always compares
// greater than any real path cost.
const Unreachable = math.MaxFloat64

// IntegrationField holds the shortest cumulative cost from every cell
// to a designated goal cell. Each Calculate call is a fresh single-source
// relaxation; the field is transient and owned by the caller.
type IntegrationField struct {
	grid   *grid.Grid
	values []float64
	queue  []int // Reusable relaxation queue
}

// NewIntegrationField creates an integration field over g with every
// cell at the Unreachable sentinel.
func NewIntegrationField(g *grid.Grid) *IntegrationField {
	f := &IntegrationField{
		grid:   g,
		values: make([]float64, g.Size()),
		queue:  make([]int, 0, g.Size()/4),
	}
	for i := range f.values {
		f.values[i] = Unreachable
	}
	return f
}

// Grid returns the grid this field was built for
func (f *IntegrationField) Grid() *grid.Grid { return f.grid }

// Value returns the integration value of a cell, or Unreachable for
// indices off the grid.
func (f *IntegrationField) Value(index int) float64 {
	if index < 0 || index >= len(f.values) {
		return Unreachable
	}
	return f.values[index]
}

// ValueAt returns the integration value of the cell containing the
// world position (x, y).
func (f *IntegrationField) ValueAt(x, y float64) float64 {
	return f.values[f.grid.CellIndex(x, y)]
}

// Calculate runs a Dijkstra-like relaxation from the goal cell over the
// supplied cost field. Entering a cell charges that cell's own cost, so
// a single expensive cell detours the paths around it. Cells walled off
// by impassable costs keep the Unreachable sentinel.
//
// Costs are small integers, so a FIFO queue with re-relaxation settles
// in O(cells) amortized without needing a priority queue.
func (f *IntegrationField) Calculate(goalX, goalY float64, costs *grid.CostField) {
	if costs.Grid().Size() != f.grid.Size() {
		panic(fmt.Sprintf("pathfinding: cost field size %d does not match grid size %d",
			costs.Grid().Size(), f.grid.Size()))
	}

	for i := range f.values {
		f.values[i] = Unreachable
	}

	goal := f.grid.CellIndex(goalX, goalY)
	f.values[goal] = 0

	cols := f.grid.Cols()
	rows := f.grid.Rows()

	f.queue = f.queue[:0]
	f.queue = append(f.queue, goal)

	head := 0
	for head < len(f.queue) {
		current := f.queue[head]
		head++

		// Compact the queue once the consumed prefix dominates
		if head > 1024 && head*2 > len(f.queue) {
			f.queue = append(f.queue[:0], f.queue[head:]...)
			head = 0
		}

		value := f.values[current]
		col := current % cols
		row := current / cols

		for _, off := range [4][2]int{{0, -1}, {0, 1}, {1, 0}, {-1, 0}} {
			nc := col + off[0]
			nr := row + off[1]
			if nc < 0 || nc >= cols || nr < 0 || nr >= rows {
				continue
			}

			neighbor := nr*cols + nc
			cost := costs.Cost(neighbor)
			if cost == grid.Impassable {
				continue
			}

			candidate := value + float64(cost)
			if candidate < f.values[neighbor] {
				f.values[neighbor] = candidate
				f.queue = append(f.queue, neighbor)
			}
		}
	}
}
